package swagger

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Parameter placements
const (
	InPath     = "path"
	InQuery    = "query"
	InHeader   = "header"
	InBody     = "body"
	InFormData = "formData"
)

// Endpoint is one REST operation, ready to be exposed as a GraphQL field.
type Endpoint struct {
	// Name is the unique operation key and becomes the field name.
	Name        string
	Description string
	Request     *RequestTemplate
	// Response is nil when the operation declares no success schema.
	Response   *Fragment
	Parameters []Parameter
	Mutation   bool
}

// Parameter is an operation parameter with its GraphQL-safe name.
type Parameter struct {
	Name             string
	OriginalName     string
	In               string
	Description      string
	Required         bool
	CollectionFormat string
	JSONSchema       *Fragment
}

var mutationMethods = map[string]bool{
	"post":   true,
	"put":    true,
	"patch":  true,
	"delete": true,
}

// Endpoints extracts every operation of the document keyed by endpoint name.
// Later duplicates of the same name replace earlier ones.
func Endpoints(doc *Document) (map[string]*Endpoint, error) {
	serverURL := doc.ServerURL()
	endpoints := make(map[string]*Endpoint)

	paths := make([]string, 0, len(doc.Paths))
	for path := range doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths[path]
		if item == nil {
			continue
		}

		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			endpoint, err := newEndpoint(doc, path, method, ops[method], item.Parameters, serverURL)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), path, err)
			}
			endpoints[endpoint.Name] = endpoint
		}
	}

	return endpoints, nil
}

func newEndpoint(doc *Document, path, method string, op *Operation, shared []*RawParameter, serverURL string) (*Endpoint, error) {
	name := op.OperationID
	if name == "" {
		name = nameFromURL(method, path)
	}

	params, err := collectParameters(doc, op.Parameters, shared)
	if err != nil {
		return nil, err
	}

	description := op.Description
	if description == "" {
		description = op.Summary
	}

	return &Endpoint{
		Name:        SafeName(name),
		Description: description,
		Request: &RequestTemplate{
			Method:     strings.ToUpper(method),
			Path:       path,
			ServerURL:  serverURL,
			Parameters: params,
		},
		Response:   successResponse(op.Responses),
		Parameters: params,
		Mutation:   mutationMethods[method],
	}, nil
}

// collectParameters merges operation parameters with path-level ones. An
// operation parameter overrides a path-level one with the same name and
// placement.
func collectParameters(doc *Document, own, shared []*RawParameter) ([]Parameter, error) {
	seen := make(map[string]bool)
	var params []Parameter

	for _, raw := range append(append([]*RawParameter{}, own...), shared...) {
		if raw == nil {
			continue
		}
		p, err := doc.resolveParameter(raw)
		if err != nil {
			return nil, err
		}

		key := p.In + "/" + p.Name
		if seen[key] {
			continue
		}
		seen[key] = true

		params = append(params, Parameter{
			Name:             SafeName(p.Name),
			OriginalName:     p.Name,
			In:               p.In,
			Description:      p.Description,
			Required:         p.Required,
			CollectionFormat: p.CollectionFormat,
			JSONSchema:       parameterSchema(p),
		})
	}

	return params, nil
}

func parameterSchema(p *RawParameter) *Fragment {
	if p.In == InBody {
		return &Fragment{Schema: p.Schema, Description: p.Description}
	}
	return &Fragment{
		Type:        p.Type,
		Format:      p.Format,
		Items:       p.Items,
		Enum:        p.Enum,
		Description: p.Description,
	}
}

// successResponse returns the schema of the first 2xx response.
func successResponse(responses map[any]*Response) *Fragment {
	codes := make([]string, 0, len(responses))
	byCode := make(map[string]*Response, len(responses))
	for code, resp := range responses {
		key := fmt.Sprint(code)
		codes = append(codes, key)
		byCode[key] = resp
	}
	sort.Strings(codes)

	for _, code := range codes {
		if strings.HasPrefix(code, "2") && byCode[code] != nil {
			return byCode[code].Schema
		}
	}
	return nil
}

var (
	braces   = regexp.MustCompile(`[{}]+`)
	nonIdent = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
)

// nameFromURL derives an operation name such as "get_pets_petId" when the
// operation has no operationId.
func nameFromURL(method, path string) string {
	fromURL := braces.ReplaceAllString(path, "")
	fromURL = nonIdent.ReplaceAllString(fromURL, "_")
	return method + fromURL
}
