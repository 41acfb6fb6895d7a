package swagger

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RequestTemplate knows how to turn resolved field arguments into an HTTP
// request for one operation.
type RequestTemplate struct {
	Method     string
	Path       string
	ServerURL  string
	Parameters []Parameter
}

// RequestDescriptor is a fully built outbound request.
type RequestDescriptor struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Build fills the template with args, keyed by GraphQL argument name. When
// baseURL is empty the operation's own server URL is used.
func (t *RequestTemplate) Build(args map[string]any, baseURL string) (*RequestDescriptor, error) {
	if baseURL == "" {
		baseURL = t.ServerURL
	}

	path := t.Path
	query := url.Values{}
	form := url.Values{}
	headers := make(map[string]string)
	var body []byte

	for _, p := range t.Parameters {
		value, ok := args[p.Name]
		if !ok || value == nil {
			if p.In == InPath {
				return nil, fmt.Errorf("%w: %s", ErrMissingPathParameter, p.OriginalName)
			}
			continue
		}

		switch p.In {
		case InPath:
			s, err := stringify(value)
			if err != nil {
				return nil, fmt.Errorf("path parameter %s: %w", p.OriginalName, err)
			}
			path = strings.ReplaceAll(path, "{"+p.OriginalName+"}", url.PathEscape(s))
		case InQuery:
			if err := addValues(query, p, value); err != nil {
				return nil, err
			}
		case InHeader:
			s, err := stringify(value)
			if err != nil {
				return nil, fmt.Errorf("header parameter %s: %w", p.OriginalName, err)
			}
			headers[p.OriginalName] = s
		case InFormData:
			if err := addValues(form, p, value); err != nil {
				return nil, err
			}
		case InBody:
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("body parameter %s: %w", p.OriginalName, err)
			}
			body = encoded
			headers["Content-Type"] = "application/json"
		}
	}

	if body == nil && len(form) > 0 {
		body = []byte(form.Encode())
		headers["Content-Type"] = "application/x-www-form-urlencoded"
	}

	target := strings.TrimSuffix(baseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return &RequestDescriptor{
		Method:  t.Method,
		URL:     target,
		Headers: headers,
		Body:    body,
	}, nil
}

func addValues(values url.Values, p Parameter, value any) error {
	list, isList := value.([]any)
	if !isList {
		s, err := stringify(value)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.OriginalName, err)
		}
		values.Add(p.OriginalName, s)
		return nil
	}

	items := make([]string, 0, len(list))
	for _, item := range list {
		s, err := stringify(item)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.OriginalName, err)
		}
		items = append(items, s)
	}

	if p.CollectionFormat == "multi" {
		for _, s := range items {
			values.Add(p.OriginalName, s)
		}
		return nil
	}
	values.Add(p.OriginalName, strings.Join(items, separator(p.CollectionFormat)))
	return nil
}

func separator(collectionFormat string) string {
	switch collectionFormat {
	case "ssv":
		return " "
	case "tsv":
		return "\t"
	case "pipes":
		return "|"
	default:
		return ","
	}
}

// stringify renders a scalar argument the way it appears on the wire. Lists
// and objects are JSON encoded.
func stringify(value any) (string, error) {
	switch value.(type) {
	case map[string]any, []any:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	case int32:
		return fmt.Sprint(value), nil
	}
	return graphql.UnmarshalString(value)
}
