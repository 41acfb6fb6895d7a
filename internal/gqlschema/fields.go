package gqlschema

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/okra-platform/swagger2graphql/internal/resolver"
	"github.com/okra-platform/swagger2graphql/internal/swagger"
	"github.com/okra-platform/swagger2graphql/internal/typemap"
)

// FieldDescriptor is the root field generated for one endpoint.
type FieldDescriptor struct {
	Name        string
	Type        graphql.Output
	Args        graphql.FieldConfigArgument
	Description string
	Binding     *resolver.Binding
}

// SynthesizeField builds the typed field for endpoint. Output and argument
// types go through b, so they share its registry.
func SynthesizeField(b *typemap.Builder, endpoint *swagger.Endpoint, proxy resolver.Proxy, headers map[string]string) (*FieldDescriptor, error) {
	// A nil response wraps to an empty fragment, which builds as JSON.
	out, err := b.BuildOutput(&swagger.Fragment{Schema: endpoint.Response}, endpoint.Name)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s response: %w", endpoint.Name, err)
	}

	args := graphql.FieldConfigArgument{}
	for _, param := range endpoint.Parameters {
		in, err := b.BuildInput(param.JSONSchema, "param_"+endpoint.Name+"_"+param.Name)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s parameter %s: %w", endpoint.Name, param.Name, err)
		}
		args[param.Name] = &graphql.ArgumentConfig{
			Type:        in,
			Description: param.Description,
		}
	}

	return &FieldDescriptor{
		Name:        endpoint.Name,
		Type:        out,
		Args:        args,
		Description: endpoint.Description,
		Binding:     resolver.NewBinding(endpoint, proxy, headers),
	}, nil
}

// GraphQLField converts the descriptor into a field resolved through exec.
func (d *FieldDescriptor) GraphQLField(exec resolver.Executor) *graphql.Field {
	return &graphql.Field{
		Name:        d.Name,
		Type:        d.Type,
		Args:        d.Args,
		Description: d.Description,
		Resolve:     d.Binding.Resolver(exec),
	}
}
