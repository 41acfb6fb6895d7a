package gqlschema

import (
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"github.com/okra-platform/swagger2graphql/internal/resolver"
	"github.com/okra-platform/swagger2graphql/internal/swagger"
	"github.com/okra-platform/swagger2graphql/internal/typemap"
)

// Options control how resolvers are bound during assembly.
type Options struct {
	Proxy   resolver.Proxy
	Headers map[string]string
	// Executor performs resolver calls. Defaults to an HTTP executor.
	Executor resolver.Executor
	Logger   zerolog.Logger
}

// RootSchema is the assembled schema together with the pieces it was made of.
type RootSchema struct {
	Query *graphql.Object
	// Mutation is nil when no endpoint mutates.
	Mutation *graphql.Object
	Fields   map[string]*FieldDescriptor
	Schema   graphql.Schema
}

// Assemble builds the Query and optional Mutation roots from endpoints. Both
// roots share one registry so a type reachable from either is built once.
func Assemble(endpoints map[string]*swagger.Endpoint, defs swagger.Definitions, opts Options) (*RootSchema, error) {
	if opts.Executor == nil {
		opts.Executor = resolver.NewHTTPExecutor(resolver.WithLogger(opts.Logger))
	}

	var queries, mutations []string
	for name, endpoint := range endpoints {
		if endpoint.Mutation {
			mutations = append(mutations, name)
		} else {
			queries = append(queries, name)
		}
	}
	sort.Strings(queries)
	sort.Strings(mutations)

	if len(queries) == 0 {
		return nil, ErrNoQueryFields
	}

	root := &RootSchema{Fields: make(map[string]*FieldDescriptor, len(endpoints))}
	builder := typemap.NewBuilder(defs, typemap.NewRegistry())

	query, err := root.buildRoot("Query", queries, endpoints, builder, opts)
	if err != nil {
		return nil, err
	}
	root.Query = query

	config := graphql.SchemaConfig{Query: query}
	if len(mutations) > 0 {
		mutation, err := root.buildRoot("Mutation", mutations, endpoints, builder, opts)
		if err != nil {
			return nil, err
		}
		root.Mutation = mutation
		config.Mutation = mutation
	}

	schema, err := graphql.NewSchema(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	root.Schema = schema

	opts.Logger.Debug().
		Int("queries", len(queries)).
		Int("mutations", len(mutations)).
		Int("types", builder.Registry().Len()).
		Msg("schema assembled")

	return root, nil
}

func (r *RootSchema) buildRoot(name string, names []string, endpoints map[string]*swagger.Endpoint, builder *typemap.Builder, opts Options) (*graphql.Object, error) {
	fields := graphql.Fields{}
	for _, endpointName := range names {
		descriptor, err := SynthesizeField(builder, endpoints[endpointName], opts.Proxy, opts.Headers)
		if err != nil {
			return nil, err
		}
		r.Fields[descriptor.Name] = descriptor
		fields[descriptor.Name] = descriptor.GraphQLField(opts.Executor)
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:   name,
		Fields: fields,
	}), nil
}
