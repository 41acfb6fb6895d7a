package typemap

import (
	"sort"

	"github.com/graphql-go/graphql"
)

// JSONSlot is the registry key holding the shared JSON scalar.
const JSONSlot = "JSON"

// Registry memoizes built types by title for the lifetime of one build. It is
// what makes self-referencing definitions terminate. Not safe for concurrent
// use.
type Registry struct {
	types map[string]graphql.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]graphql.Type)}
}

func (r *Registry) Get(title string) (graphql.Type, bool) {
	t, ok := r.types[title]
	return t, ok
}

func (r *Registry) Put(title string, t graphql.Type) {
	r.types[title] = t
}

func (r *Registry) Len() int {
	return len(r.types)
}

// Titles returns the registered titles in sorted order.
func (r *Registry) Titles() []string {
	titles := make([]string, 0, len(r.types))
	for title := range r.types {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
