package swagger

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Document is the subset of a Swagger 2.0 description this tool understands.
type Document struct {
	Swagger     string                   `yaml:"swagger"`
	Info        Info                     `yaml:"info"`
	Host        string                   `yaml:"host"`
	BasePath    string                   `yaml:"basePath"`
	Schemes     []string                 `yaml:"schemes"`
	Paths       map[string]*PathItem     `yaml:"paths"`
	Definitions Definitions              `yaml:"definitions"`
	Parameters  map[string]*RawParameter `yaml:"parameters"`
}

// Info carries the document title and version.
type Info struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// PathItem holds the operations available on a single path.
type PathItem struct {
	Get        *Operation      `yaml:"get"`
	Put        *Operation      `yaml:"put"`
	Post       *Operation      `yaml:"post"`
	Delete     *Operation      `yaml:"delete"`
	Options    *Operation      `yaml:"options"`
	Head       *Operation      `yaml:"head"`
	Patch      *Operation      `yaml:"patch"`
	Parameters []*RawParameter `yaml:"parameters"`
}

// Operations returns the operations of the path keyed by lower-case method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := map[string]*Operation{
		"get":     p.Get,
		"put":     p.Put,
		"post":    p.Post,
		"delete":  p.Delete,
		"options": p.Options,
		"head":    p.Head,
		"patch":   p.Patch,
	}
	for method, op := range ops {
		if op == nil {
			delete(ops, method)
		}
	}
	return ops
}

// Operation describes a single method on a path.
type Operation struct {
	OperationID string          `yaml:"operationId"`
	Summary     string          `yaml:"summary"`
	Description string          `yaml:"description"`
	Parameters  []*RawParameter `yaml:"parameters"`
	// Response codes may decode as integers when unquoted in YAML.
	Responses map[any]*Response `yaml:"responses"`
}

// Response is one entry of an operation's responses map.
type Response struct {
	Description string    `yaml:"description"`
	Schema      *Fragment `yaml:"schema"`
}

// RawParameter is a parameter exactly as written in the document.
type RawParameter struct {
	Ref              string    `yaml:"$ref"`
	Name             string    `yaml:"name"`
	In               string    `yaml:"in"`
	Description      string    `yaml:"description"`
	Required         bool      `yaml:"required"`
	Type             string    `yaml:"type"`
	Format           string    `yaml:"format"`
	Items            *Fragment `yaml:"items"`
	Enum             []any     `yaml:"enum"`
	CollectionFormat string    `yaml:"collectionFormat"`
	Schema           *Fragment `yaml:"schema"`
}

// Parse decodes a Swagger document. JSON input is accepted since it is valid
// YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse description: %w", err)
	}
	if doc.Paths == nil {
		return nil, ErrNoPaths
	}
	if doc.Definitions == nil {
		doc.Definitions = Definitions{}
	}
	return &doc, nil
}

// ServerURL is the base URL requests go to when no proxy target is given.
func (d *Document) ServerURL() string {
	scheme := "http"
	if len(d.Schemes) > 0 {
		scheme = d.Schemes[0]
	}
	if d.Host == "" {
		return strings.TrimSuffix(d.BasePath, "/")
	}
	return scheme + "://" + d.Host + strings.TrimSuffix(d.BasePath, "/")
}

func (d *Document) resolveParameter(p *RawParameter) (*RawParameter, error) {
	if p.Ref == "" {
		return p, nil
	}
	name := strings.TrimPrefix(p.Ref, "#/parameters/")
	resolved, ok := d.Parameters[name]
	if !ok || resolved == nil {
		return nil, fmt.Errorf("%w: %s", ErrParameterNotFound, p.Ref)
	}
	return resolved, nil
}
