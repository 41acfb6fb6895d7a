package typemap

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

// Test plan for anyOf handling:
// 1. Output context builds a union over the branch objects
// 2. Values resolve to the branch whose shape they match, never coerced
// 3. A value matching no branch fails only that field
// 4. Input context, non-object branches and an empty anyOf fall back to JSON

func animalDefinitions() swagger.Definitions {
	return swagger.Definitions{
		"Cat": {
			Type:     "object",
			Required: []string{"meow"},
			Properties: map[string]*swagger.Fragment{
				"meow": {Type: "boolean"},
				"name": {Type: "string"},
			},
		},
		"Dog": {
			Type:     "object",
			Required: []string{"bark"},
			Properties: map[string]*swagger.Fragment{
				"bark": {Type: "string"},
				"name": {Type: "string"},
			},
		},
	}
}

func animalFragment() *swagger.Fragment {
	return &swagger.Fragment{AnyOf: []*swagger.Fragment{
		{Ref: "#/definitions/Cat"},
		{Ref: "#/definitions/Dog"},
	}}
}

func TestBuildUnion(t *testing.T) {
	b := NewBuilder(animalDefinitions(), nil)

	typ, err := b.Build(animalFragment(), "Animal", false)
	require.NoError(t, err)

	union, ok := typ.(*graphql.Union)
	require.True(t, ok)
	assert.Equal(t, "Animal", union.Name())

	names := []string{}
	for _, branch := range union.Types() {
		names = append(names, branch.Name())
	}
	assert.Equal(t, []string{"Cat", "Dog"}, names)

	values := map[string]interface{}{
		"cat":     map[string]interface{}{"meow": true, "name": "Tom"},
		"dog":     map[string]interface{}{"bark": "woof", "name": "Rex"},
		"unknown": map[string]interface{}{"quack": true},
	}
	fields := graphql.Fields{}
	for name, value := range values {
		value := value
		fields[name] = &graphql.Field{
			Type: union,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return value, nil
			},
		}
	}
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: fields}),
	})
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `{
			cat { __typename ... on Cat { meow name } ... on Dog { bark } }
			dog { __typename ... on Cat { meow } ... on Dog { bark name } }
		}`,
	})
	require.Empty(t, result.Errors)

	// Test: each value lands on its own branch
	data := result.Data.(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"__typename": "Cat", "meow": true, "name": "Tom"}, data["cat"])
	assert.Equal(t, map[string]interface{}{"__typename": "Dog", "bark": "woof", "name": "Rex"}, data["dog"])

	// Test: an unmatched value is a field error, not a coerced branch
	result = graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ unknown { __typename } cat { __typename } }`,
	})
	require.NotEmpty(t, result.Errors)
	data = result.Data.(map[string]interface{})
	assert.Nil(t, data["unknown"])
	assert.Equal(t, map[string]interface{}{"__typename": "Cat"}, data["cat"])
}

func TestBuildUnionFallbacks(t *testing.T) {
	t.Run("input context", func(t *testing.T) {
		b := NewBuilder(animalDefinitions(), nil)
		typ, err := b.Build(animalFragment(), "Animal", true)
		require.NoError(t, err)
		assert.Equal(t, JSON, typ)
	})

	t.Run("primitive branch", func(t *testing.T) {
		b := NewBuilder(animalDefinitions(), nil)
		typ, err := b.Build(&swagger.Fragment{AnyOf: []*swagger.Fragment{
			{Ref: "#/definitions/Cat"},
			{Type: "string"},
		}}, "CatOrName", false)
		require.NoError(t, err)
		assert.Equal(t, JSON, typ)
	})

	t.Run("empty anyOf", func(t *testing.T) {
		b := NewBuilder(nil, nil)
		typ, err := b.Build(&swagger.Fragment{AnyOf: []*swagger.Fragment{}}, "Nothing", false)
		require.NoError(t, err)
		assert.Equal(t, JSON, typ)

		// Test: the fallback still yields a valid schema
		_, err = graphql.NewSchema(graphql.SchemaConfig{
			Query: graphql.NewObject(graphql.ObjectConfig{
				Name:   "Query",
				Fields: graphql.Fields{"nothing": &graphql.Field{Type: typ.(graphql.Output)}},
			}),
		})
		require.NoError(t, err)
	})

	t.Run("untitled inline branches", func(t *testing.T) {
		b := NewBuilder(nil, nil)
		typ, err := b.Build(&swagger.Fragment{AnyOf: []*swagger.Fragment{
			{Type: "object", Properties: map[string]*swagger.Fragment{"a": {Type: "string"}}},
			{Type: "object", Properties: map[string]*swagger.Fragment{"b": {Type: "string"}}},
		}}, "Choice", false)
		require.NoError(t, err)

		union := typ.(*graphql.Union)
		require.Len(t, union.Types(), 2)
		assert.Equal(t, "Choice_anyOf0", union.Types()[0].Name())
		assert.Equal(t, "Choice_anyOf1", union.Types()[1].Name())
	})
}
