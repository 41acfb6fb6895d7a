package swagger

import (
	"regexp"
	"strings"
)

// DefinitionsPrefix is the JSON pointer prefix used by $ref values that point
// into the document's definitions table.
const DefinitionsPrefix = "#/definitions/"

// Fragment is a node of a JSON-Schema type description as it appears in a
// Swagger document: definitions, parameter schemas and response schemas.
type Fragment struct {
	Ref         string               `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type        string               `yaml:"type,omitempty" json:"type,omitempty"`
	Format      string               `yaml:"format,omitempty" json:"format,omitempty"`
	Title       string               `yaml:"title,omitempty" json:"title,omitempty"`
	Description string               `yaml:"description,omitempty" json:"description,omitempty"`
	Properties  map[string]*Fragment `yaml:"properties,omitempty" json:"properties,omitempty"`
	Items       *Fragment            `yaml:"items,omitempty" json:"items,omitempty"`
	AnyOf       []*Fragment          `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	Required    []string             `yaml:"required,omitempty" json:"required,omitempty"`
	Enum        []any                `yaml:"enum,omitempty" json:"enum,omitempty"`

	// Schema wraps a nested fragment, as body parameters and responses do.
	Schema *Fragment `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// IsEmpty reports whether the fragment carries no type information at all.
func (f *Fragment) IsEmpty() bool {
	if f == nil {
		return true
	}

	return f.Ref == "" &&
		f.Type == "" &&
		f.Format == "" &&
		f.Title == "" &&
		f.Description == "" &&
		f.Properties == nil &&
		f.Items == nil &&
		f.AnyOf == nil &&
		f.Required == nil &&
		f.Enum == nil &&
		f.Schema == nil
}

// RefTarget returns the $ref carried by the fragment itself or by its nested
// schema wrapper.
func (f *Fragment) RefTarget() string {
	if f == nil {
		return ""
	}
	if f.Ref != "" {
		return f.Ref
	}
	if f.Schema != nil {
		return f.Schema.Ref
	}
	return ""
}

// IsRequired reports whether the named property is listed as required.
func (f *Fragment) IsRequired(property string) bool {
	for _, name := range f.Required {
		if name == property {
			return true
		}
	}
	return false
}

// Definitions is the flat table of reusable named fragments addressed by
// "#/definitions/<name>". It is read-only once loaded.
type Definitions map[string]*Fragment

// Lookup returns the fragment registered under name.
func (d Definitions) Lookup(name string) (*Fragment, bool) {
	f, ok := d[name]
	return f, ok && f != nil
}

// DefinitionName turns a $ref into the definitions table key it addresses.
func DefinitionName(ref string) string {
	return strings.TrimPrefix(ref, DefinitionsPrefix)
}

var oddChars = regexp.MustCompile(`[^_a-zA-Z0-9]`)

// SafeName rewrites s into a valid GraphQL name: every character outside
// [_a-zA-Z0-9] becomes "_" and a leading digit is prefixed with "_".
func SafeName(s string) string {
	s = oddChars.ReplaceAllString(s, "_")
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}
