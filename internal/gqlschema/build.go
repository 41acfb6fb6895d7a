package gqlschema

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/okra-platform/swagger2graphql/internal/resolver"
	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

type buildOptions struct {
	proxy      resolver.Proxy
	headers    map[string]string
	logger     zerolog.Logger
	httpClient *http.Client
}

// Option configures Build
type Option func(*buildOptions)

// WithProxyURL sends every call to url instead of the described host.
func WithProxyURL(url string) Option {
	return func(o *buildOptions) {
		o.proxy.URL = url
	}
}

// WithProxyFunc picks the base URL per call.
func WithProxyFunc(fn func(resolver.CallOptions) string) Option {
	return func(o *buildOptions) {
		o.proxy.Func = fn
	}
}

// WithHeaders sets headers sent with every call.
func WithHeaders(headers map[string]string) Option {
	return func(o *buildOptions) {
		o.headers = headers
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithHTTPClient sets the client used to fetch the description and to make
// resolver calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *buildOptions) {
		o.httpClient = client
	}
}

// Build loads the description at location and assembles its schema.
func Build(ctx context.Context, location string, options ...Option) (*RootSchema, error) {
	o := newBuildOptions(options)

	loader := swagger.NewLoader(swagger.WithHTTPClient(o.httpClient))
	doc, err := loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}

	logger := o.componentLogger()
	logger.Debug().Str("location", location).Str("title", doc.Info.Title).Msg("description loaded")
	return buildDocument(doc, o)
}

// BuildDocument assembles the schema of an already parsed description.
func BuildDocument(doc *swagger.Document, options ...Option) (*RootSchema, error) {
	return buildDocument(doc, newBuildOptions(options))
}

func newBuildOptions(options []Option) *buildOptions {
	o := &buildOptions{
		logger:     zerolog.Nop(),
		httpClient: http.DefaultClient,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

func (o *buildOptions) componentLogger() zerolog.Logger {
	return o.logger.With().Str("component", "gqlschema").Logger()
}

func buildDocument(doc *swagger.Document, o *buildOptions) (*RootSchema, error) {
	endpoints, err := swagger.Endpoints(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to extract endpoints: %w", err)
	}

	return Assemble(endpoints, doc.Definitions, Options{
		Proxy:   o.proxy,
		Headers: o.headers,
		Executor: resolver.NewHTTPExecutor(
			resolver.WithHTTPClient(o.httpClient),
			resolver.WithLogger(o.logger),
		),
		Logger: o.componentLogger(),
	})
}
