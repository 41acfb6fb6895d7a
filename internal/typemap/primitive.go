package typemap

import (
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

// JSON is the arbitrary JSON scalar. One instance is shared by every schema.
var JSON = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "The `JSON` scalar type represents JSON values as specified by ECMA-404",
	Serialize: func(value interface{}) interface{} {
		return value
	},
	ParseValue: func(value interface{}) interface{} {
		return value
	},
	ParseLiteral: parseLiteral,
})

func parseLiteral(valueAST ast.Value) interface{} {
	switch v := valueAST.(type) {
	case *ast.StringValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.IntValue:
		if i, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return int(i)
		}
		return v.Value
	case *ast.FloatValue:
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
		return v.Value
	case *ast.ListValue:
		list := make([]interface{}, 0, len(v.Values))
		for _, item := range v.Values {
			list = append(list, parseLiteral(item))
		}
		return list
	case *ast.ObjectValue:
		obj := make(map[string]interface{}, len(v.Fields))
		for _, field := range v.Fields {
			obj[field.Name.Value] = parseLiteral(field.Value)
		}
		return obj
	default:
		return nil
	}
}

var primitives = map[string]*graphql.Scalar{
	"string":  graphql.String,
	"date":    graphql.String,
	"integer": graphql.Int,
	"number":  graphql.Float,
	"boolean": graphql.Boolean,
	"object":  JSON,
}

// MapPrimitive returns the scalar for a primitive fragment. int64 values are
// exposed as strings since GraphQL Int is 32 bits.
func MapPrimitive(f *swagger.Fragment) (*graphql.Scalar, error) {
	if f == nil {
		return nil, &UnsupportedPrimitiveTypeError{}
	}
	jsonType := f.Type
	if f.Format == "int64" {
		jsonType = "string"
	}
	scalar, ok := primitives[jsonType]
	if !ok {
		return nil, &UnsupportedPrimitiveTypeError{Type: jsonType}
	}
	return scalar, nil
}
