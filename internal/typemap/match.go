package typemap

import (
	"encoding/json"
	"math"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

// maxRefHops bounds $ref chains that consume no part of the value.
const maxRefHops = 32

// Matches reports whether value, as decoded from a JSON response, has the
// shape described by f. Union resolution uses it to pick a branch.
//
// Objects must carry every required property and no undeclared ones, so that
// branches with disjoint properties are told apart. null matches anything.
func Matches(value any, f *swagger.Fragment, defs swagger.Definitions) bool {
	return matches(value, f, defs, 0)
}

func matches(value any, f *swagger.Fragment, defs swagger.Definitions, hops int) bool {
	if value == nil {
		return true
	}

	switch Classify(f) {
	case ShapeEmpty:
		return true
	case ShapeReference:
		if hops >= maxRefHops {
			return false
		}
		ref := f.RefTarget()
		def, ok := defs.Lookup(swagger.DefinitionName(ref))
		if !ok {
			def, ok = defs.Lookup(refName(ref))
		}
		return ok && matches(value, def, defs, hops+1)
	case ShapeWrapper:
		return matches(value, f.Schema, defs, hops)
	case ShapeArray:
		list, ok := value.([]any)
		if !ok {
			return false
		}
		for _, item := range list {
			if !matches(item, f.Items, defs, 0) {
				return false
			}
		}
		return true
	case ShapePrimitive:
		return matchesPrimitive(value, f)
	case ShapeUnion:
		if len(f.AnyOf) == 0 {
			return true
		}
		for _, branch := range f.AnyOf {
			if matches(value, branch, defs, hops) {
				return true
			}
		}
		return false
	case ShapeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return false
		}
		for _, name := range f.Required {
			if _, ok := obj[name]; !ok {
				return false
			}
		}
		for key, v := range obj {
			prop, declared := f.Properties[key]
			if !declared && len(f.Properties) > 0 {
				return false
			}
			if declared && !matches(v, prop, defs, 0) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func matchesPrimitive(value any, f *swagger.Fragment) bool {
	switch f.Type {
	case "string", "date":
		if f.Format == "int64" {
			return isString(value) || isInteger(value)
		}
		return isString(value)
	case "integer":
		if f.Format == "int64" {
			return isString(value) || isInteger(value)
		}
		return isInteger(value)
	case "number":
		return isNumber(value)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return false
	}
}

func isString(value any) bool {
	_, ok := value.(string)
	return ok
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	}
	return false
}

func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		return v == math.Trunc(v)
	case json.Number:
		_, err := v.Int64()
		return err == nil
	}
	return false
}
