package typemap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

// InputSuffix distinguishes input variants of a type from their output twin.
const InputSuffix = "Input"

// Builder turns schema fragments into GraphQL types. It owns the definitions
// table and registry for one schema build.
type Builder struct {
	defs     swagger.Definitions
	registry *Registry
}

// NewBuilder creates a builder resolving $ref against defs and memoizing into
// reg. A nil reg gets a fresh registry.
func NewBuilder(defs swagger.Definitions, reg *Registry) *Builder {
	if reg == nil {
		reg = NewRegistry()
	}
	if defs == nil {
		defs = swagger.Definitions{}
	}
	return &Builder{defs: defs, registry: reg}
}

// Registry returns the registry the builder populates.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Definitions returns the table used to resolve references.
func (b *Builder) Definitions() swagger.Definitions {
	return b.defs
}

// BuildOutput builds f for use as a field type.
func (b *Builder) BuildOutput(f *swagger.Fragment, title string) (graphql.Output, error) {
	t, err := b.Build(f, title, false)
	if err != nil {
		return nil, err
	}
	out, ok := t.(graphql.Output)
	if !ok {
		return nil, fmt.Errorf("%s: %s is not an output type", title, t.Name())
	}
	return out, nil
}

// BuildInput builds f for use as an argument or input field type.
func (b *Builder) BuildInput(f *swagger.Fragment, title string) (graphql.Input, error) {
	t, err := b.Build(f, title, true)
	if err != nil {
		return nil, err
	}
	in, ok := t.(graphql.Input)
	if !ok {
		return nil, fmt.Errorf("%s: %s is not an input type", title, t.Name())
	}
	return in, nil
}

// Build converts f into a GraphQL type named after title. In input context
// objects become input objects and their titles carry InputSuffix.
func (b *Builder) Build(f *swagger.Fragment, title string, input bool) (graphql.Type, error) {
	shape := Classify(f)

	switch shape {
	case ShapeEmpty:
		name := effectiveTitle(f, title, input)
		b.registry.Put(JSONSlot, JSON)
		if _, ok := b.registry.Get(name); !ok {
			b.registry.Put(name, JSON)
		}
		return JSON, nil
	case ShapeWrapper:
		return b.Build(f.Schema, title, input)
	}

	name := effectiveTitle(f, title, input)
	if cached, ok := b.registry.Get(name); ok {
		return cached, nil
	}

	switch shape {
	case ShapeReference:
		return b.resolveRef(f.RefTarget(), input)
	case ShapeArray:
		return b.buildList(f, name, input)
	case ShapePrimitive:
		return MapPrimitive(f)
	case ShapeUnion:
		return b.buildUnion(f, name, input)
	case ShapeObject:
		if input {
			return b.buildInputObject(f, name)
		}
		return b.buildObject(f, name)
	default:
		return nil, &UnrecognizedSchemaShapeError{Title: name, Fragment: f}
	}
}

// effectiveTitle is the fragment's own title, else the caller's, sanitized and
// suffixed in input context.
func effectiveTitle(f *swagger.Fragment, title string, input bool) string {
	if f != nil && f.Title != "" {
		title = f.Title
	}
	title = swagger.SafeName(title)
	if input && !strings.HasSuffix(title, InputSuffix) {
		title += InputSuffix
	}
	return title
}

// refName maps "#/definitions/a/b" to "a_b".
func refName(ref string) string {
	return swagger.SafeName(swagger.DefinitionName(ref))
}

func (b *Builder) resolveRef(ref string, input bool) (graphql.Type, error) {
	name := refName(ref)
	resolved := name
	if input && !strings.HasSuffix(resolved, InputSuffix) {
		resolved += InputSuffix
	}
	if cached, ok := b.registry.Get(resolved); ok {
		return cached, nil
	}

	def, ok := b.lookup(ref)
	if !ok {
		return nil, &DefinitionNotFoundError{Name: swagger.DefinitionName(ref)}
	}

	t, err := b.Build(def, name, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	b.registry.Put(resolved, t)
	return t, nil
}

// lookup finds a definition by its raw key, falling back to the sanitized
// name.
func (b *Builder) lookup(ref string) (*swagger.Fragment, bool) {
	if def, ok := b.defs.Lookup(swagger.DefinitionName(ref)); ok {
		return def, true
	}
	return b.defs.Lookup(refName(ref))
}

func (b *Builder) buildList(f *swagger.Fragment, name string, input bool) (graphql.Type, error) {
	var (
		elem graphql.Type
		err  error
	)

	switch ClassifyItems(f.Items) {
	case ItemsAbsent:
		b.registry.Put(JSONSlot, JSON)
		elem = JSON
	case ItemsReference:
		elem, err = b.resolveRef(f.Items.Ref, input)
	case ItemsWrapper:
		elem, err = b.Build(f.Items.Schema, name+"_items", input)
	case ItemsComplex:
		elem, err = b.Build(f.Items, name+"_items", input)
	default:
		elem, err = MapPrimitive(f.Items)
	}
	if err != nil {
		return nil, err
	}

	return graphql.NewList(elem), nil
}

func (b *Builder) buildObject(f *swagger.Fragment, name string) (graphql.Type, error) {
	fields := graphql.Fields{}
	obj := graphql.NewObject(graphql.ObjectConfig{
		Name:        name,
		Description: f.Description,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return fields
		}),
	})
	// Registered before the properties are built so cycles resolve to obj.
	b.registry.Put(name, obj)

	if len(f.Properties) == 0 {
		fields[placeholderField] = &graphql.Field{
			Type:        graphql.String,
			Description: placeholderDescription,
		}
		return obj, nil
	}

	names := fieldNames{}
	for _, prop := range sortedKeys(f.Properties) {
		fieldName, err := names.claim(name, prop)
		if err != nil {
			return nil, err
		}
		propSchema := f.Properties[prop]
		t, err := b.BuildOutput(propSchema, name+"_"+prop)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, prop, err)
		}

		field := &graphql.Field{Type: t}
		if propSchema != nil {
			field.Description = propSchema.Description
		}
		if fieldName != prop {
			field.Resolve = propertyResolver(prop)
		}
		fields[fieldName] = field
	}

	return obj, nil
}

func (b *Builder) buildInputObject(f *swagger.Fragment, name string) (graphql.Type, error) {
	fields := graphql.InputObjectConfigFieldMap{}
	obj := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        name,
		Description: f.Description,
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			return fields
		}),
	})
	b.registry.Put(name, obj)

	if len(f.Properties) == 0 {
		fields[placeholderField] = &graphql.InputObjectFieldConfig{
			Type:        graphql.String,
			Description: placeholderDescription,
		}
		return obj, nil
	}

	names := fieldNames{}
	for _, prop := range sortedKeys(f.Properties) {
		fieldName, err := names.claim(name, prop)
		if err != nil {
			return nil, err
		}
		propSchema := f.Properties[prop]
		t, err := b.BuildInput(propSchema, name+"_"+prop)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, prop, err)
		}

		field := &graphql.InputObjectFieldConfig{Type: t}
		if propSchema != nil {
			field.Description = propSchema.Description
		}
		fields[fieldName] = field
	}

	return obj, nil
}

// GraphQL forbids objects without fields.
const (
	placeholderField       = "empty"
	placeholderDescription = "default field"
)

// fieldNames maps sanitized field names back to the property that claimed
// them.
type fieldNames map[string]string

func (n fieldNames) claim(typeName, prop string) (string, error) {
	name := swagger.SafeName(prop)
	if prior, ok := n[name]; ok {
		return "", &FieldNameCollisionError{Type: typeName, Field: name, Properties: []string{prior, prop}}
	}
	n[name] = prop
	return name, nil
}

// propertyResolver reads a property whose name had to be rewritten.
func propertyResolver(key string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if source, ok := p.Source.(map[string]interface{}); ok {
			return source[key], nil
		}
		return nil, nil
	}
}

func sortedKeys(m map[string]*swagger.Fragment) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
