package resolver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

// Proxy selects the base URL outbound calls go to. Func takes precedence over
// URL. When both are empty the per-call BaseURL applies, then the endpoint's
// own server URL.
type Proxy struct {
	URL  string
	Func func(CallOptions) string
}

// Target resolves the base URL for one call. An empty result means the
// endpoint's server URL.
func (p Proxy) Target(opts CallOptions) string {
	switch {
	case p.Func != nil:
		return p.Func(opts)
	case p.URL != "":
		return p.URL
	default:
		return opts.BaseURL
	}
}

// Binding ties a field to the endpoint it calls. It holds no connections and
// can be inspected without doing any I/O.
type Binding struct {
	Endpoint *swagger.Endpoint
	Proxy    Proxy
	Headers  map[string]string
}

// NewBinding binds endpoint with the schema-wide proxy and default headers.
func NewBinding(endpoint *swagger.Endpoint, proxy Proxy, headers map[string]string) *Binding {
	bound := make(map[string]string, len(headers))
	for k, v := range headers {
		bound[k] = v
	}
	return &Binding{
		Endpoint: endpoint,
		Proxy:    proxy,
		Headers:  bound,
	}
}

// Request builds the outbound request for args. Headers are merged so that
// bound headers lose to template headers, which lose to per-call headers.
// Header names are compared in canonical form.
func (b *Binding) Request(args map[string]interface{}, opts CallOptions) (*swagger.RequestDescriptor, error) {
	req, err := b.Endpoint.Request.Build(args, b.Proxy.Target(opts))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Endpoint.Name, err)
	}

	headers := make(map[string]string, len(b.Headers)+len(req.Headers)+len(opts.Headers))
	for _, source := range []map[string]string{b.Headers, req.Headers, opts.Headers} {
		for k, v := range source {
			headers[http.CanonicalHeaderKey(k)] = v
		}
	}
	req.Headers = headers

	return req, nil
}

// Executor performs the call behind a binding.
type Executor interface {
	Execute(ctx context.Context, binding *Binding, args map[string]interface{}) (interface{}, error)
}

// Resolver returns the field resolver for b. The call runs in the background
// and the returned thunk waits for it, so graphql-go can resolve sibling
// fields concurrently.
func (b *Binding) Resolver(exec Executor) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		type result struct {
			value interface{}
			err   error
		}
		done := make(chan result, 1)

		go func() {
			value, err := exec.Execute(p.Context, b, p.Args)
			done <- result{value: value, err: err}
		}()

		return func() (interface{}, error) {
			r := <-done
			return r.value, r.err
		}, nil
	}
}
