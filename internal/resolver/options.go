package resolver

import "context"

// CallOptions are supplied per GraphQL request, typically by the HTTP layer.
type CallOptions struct {
	// BaseURL replaces the server URL when no proxy is bound.
	BaseURL string
	// Headers win over every other header source.
	Headers map[string]string
}

type callOptionsKey struct{}

// WithCallOptions attaches opts to ctx for the resolvers of one request.
func WithCallOptions(ctx context.Context, opts CallOptions) context.Context {
	return context.WithValue(ctx, callOptionsKey{}, opts)
}

// CallOptionsFromContext returns the options attached to ctx, if any.
func CallOptionsFromContext(ctx context.Context) CallOptions {
	if ctx == nil {
		return CallOptions{}
	}
	opts, _ := ctx.Value(callOptionsKey{}).(CallOptions)
	return opts
}
