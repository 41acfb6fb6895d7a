package swagger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan for endpoint extraction:
// 1. Every path and method becomes one endpoint
// 2. Names come from operationId or are derived from method and path
// 3. Path-level and $ref parameters are merged and resolved
// 4. Body parameters are wrapped, other placements carry their own type
// 5. The first 2xx response supplies the response fragment
// 6. Mutating methods are flagged

func loadPetstore(t *testing.T) *Document {
	t.Helper()
	data, err := os.ReadFile("testdata/petstore.yaml")
	require.NoError(t, err)
	doc, err := Parse(data)
	require.NoError(t, err)
	return doc
}

func TestEndpoints(t *testing.T) {
	doc := loadPetstore(t)

	endpoints, err := Endpoints(doc)
	require.NoError(t, err)

	// Test: one endpoint per operation, keyed by name
	require.Len(t, endpoints, 4)
	for _, name := range []string{"listPets", "createPet", "get_pets_pet_id", "deletePet"} {
		assert.Contains(t, endpoints, name)
	}

	t.Run("query with shared parameter", func(t *testing.T) {
		list := endpoints["listPets"]
		assert.False(t, list.Mutation)
		assert.Equal(t, "List all pets", list.Description)
		assert.Equal(t, "GET", list.Request.Method)
		assert.Equal(t, "https://petstore.example.com/v1", list.Request.ServerURL)

		// Test: $ref parameter is resolved against #/parameters/
		require.Len(t, list.Parameters, 2)
		assert.Equal(t, "limit", list.Parameters[0].Name)
		assert.Equal(t, InQuery, list.Parameters[0].In)
		assert.Equal(t, "integer", list.Parameters[0].JSONSchema.Type)
		assert.Equal(t, "How many items to return", list.Parameters[0].JSONSchema.Description)

		assert.Equal(t, "multi", list.Parameters[1].CollectionFormat)
		require.NotNil(t, list.Parameters[1].JSONSchema.Items)
		assert.Equal(t, "string", list.Parameters[1].JSONSchema.Items.Type)

		// Test: integer response code key still selects the success schema
		require.NotNil(t, list.Response)
		assert.Equal(t, "array", list.Response.Type)
		assert.Equal(t, "#/definitions/Pet", list.Response.Items.Ref)
	})

	t.Run("body parameter is wrapped", func(t *testing.T) {
		create := endpoints["createPet"]
		assert.True(t, create.Mutation)
		require.Len(t, create.Parameters, 1)
		body := create.Parameters[0]
		assert.Equal(t, InBody, body.In)
		assert.True(t, body.Required)
		require.NotNil(t, body.JSONSchema.Schema)
		assert.Equal(t, "#/definitions/Pet", body.JSONSchema.RefTarget())
		assert.Equal(t, "#/definitions/Pet", create.Response.Ref)
	})

	t.Run("derived name and path-level parameter", func(t *testing.T) {
		get := endpoints["get_pets_pet_id"]
		assert.False(t, get.Mutation)
		assert.Equal(t, "Info for a specific pet", get.Description)
		require.Len(t, get.Parameters, 2)
		assert.Equal(t, "X_Trace", get.Parameters[0].Name)
		assert.Equal(t, "X-Trace", get.Parameters[0].OriginalName)
		assert.Equal(t, "pet_id", get.Parameters[1].Name)
		assert.Equal(t, "pet-id", get.Parameters[1].OriginalName)
		assert.Equal(t, InPath, get.Parameters[1].In)
	})

	t.Run("no success schema", func(t *testing.T) {
		del := endpoints["deletePet"]
		assert.True(t, del.Mutation)
		assert.Nil(t, del.Response)
	})
}

func TestEndpointsMissingSharedParameter(t *testing.T) {
	doc, err := Parse([]byte(`
paths:
  /things:
    get:
      parameters:
        - $ref: "#/parameters/missing"
      responses:
        "200":
          description: ok
`))
	require.NoError(t, err)

	_, err = Endpoints(doc)
	require.ErrorIs(t, err, ErrParameterNotFound)
	assert.Contains(t, err.Error(), "#/parameters/missing")
}

func TestNameFromURL(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"get", "/pets", "get_pets"},
		{"post", "/pets/{petId}/photos", "post_pets_petId_photos"},
		{"delete", "/a.b/{c-d}", "delete_a_b_c_d"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, nameFromURL(tt.method, tt.path))
		})
	}
}
