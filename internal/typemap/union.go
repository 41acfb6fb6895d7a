package typemap

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

// buildUnion builds an anyOf fragment. GraphQL unions only exist in output
// position and only over object types, so anything else degrades to JSON.
// An empty anyOf has no members to form a union from.
func (b *Builder) buildUnion(f *swagger.Fragment, name string, input bool) (graphql.Type, error) {
	if input || len(f.AnyOf) == 0 {
		return b.unionFallback(name), nil
	}

	branches := make([]*graphql.Object, 0, len(f.AnyOf))
	for i, branch := range f.AnyOf {
		t, err := b.Build(branch, fmt.Sprintf("%s_anyOf%d", name, i), false)
		if err != nil {
			return nil, fmt.Errorf("%s anyOf[%d]: %w", name, i, err)
		}
		obj, ok := t.(*graphql.Object)
		if !ok {
			return b.unionFallback(name), nil
		}
		branches = append(branches, obj)
	}

	// A branch may have reached this union through a cycle.
	if cached, ok := b.registry.Get(name); ok {
		return cached, nil
	}

	defs := b.defs
	fragments := f.AnyOf
	union := graphql.NewUnion(graphql.UnionConfig{
		Name:        name,
		Description: f.Description,
		Types:       branches,
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			for i, fragment := range fragments {
				if Matches(p.Value, fragment, defs) {
					return branches[i]
				}
			}
			return nil
		},
	})
	b.registry.Put(name, union)
	return union, nil
}

func (b *Builder) unionFallback(name string) graphql.Type {
	b.registry.Put(JSONSlot, JSON)
	b.registry.Put(name, JSON)
	return JSON
}
