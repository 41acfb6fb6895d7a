package resolver

import (
	"bytes"
	"compress/gzip"
	"context"
	stdjson "encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

// RequestIDHeader is set on every outbound call unless already present.
const RequestIDHeader = "X-Request-ID"

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// HTTPExecutor performs bound calls with a single, non-retried HTTP request.
type HTTPExecutor struct {
	client *http.Client
	logger zerolog.Logger
}

// Option configures an HTTPExecutor
type Option func(*HTTPExecutor)

// WithHTTPClient sets the client used for outbound calls. Timeouts are the
// client's concern.
func WithHTTPClient(client *http.Client) Option {
	return func(e *HTTPExecutor) {
		e.client = client
	}
}

// WithLogger sets the logger outbound calls are reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *HTTPExecutor) {
		e.logger = logger
	}
}

// NewHTTPExecutor creates an executor using http.DefaultClient unless
// overridden.
func NewHTTPExecutor(options ...Option) *HTTPExecutor {
	e := &HTTPExecutor{
		client: http.DefaultClient,
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	e.logger = e.logger.With().Str("component", "resolver").Logger()
	return e
}

// Execute calls the endpoint behind binding and returns the decoded JSON body.
// Call options are read from ctx. Cancelling ctx does not abort a call that
// has already been issued.
func (e *HTTPExecutor) Execute(ctx context.Context, binding *Binding, args map[string]interface{}) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	desc, err := binding.Request(args, CallOptionsFromContext(ctx))
	if err != nil {
		return nil, &RequestError{Method: binding.Endpoint.Request.Method, URL: binding.Endpoint.Request.Path, Err: err}
	}

	var body io.Reader
	if desc.Body != nil {
		body = bytes.NewReader(desc.Body)
	}
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), desc.Method, desc.URL, body)
	if err != nil {
		return nil, &RequestError{Method: desc.Method, URL: desc.URL, Err: fmt.Errorf("create request struct failed: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range desc.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug().Err(err).
			Str("endpoint", binding.Endpoint.Name).
			Str("method", desc.Method).
			Str("url", desc.URL).
			Msg("request failed")
		return nil, &RequestError{Method: desc.Method, URL: desc.URL, Err: err}
	}
	defer resp.Body.Close()

	e.logger.Debug().
		Str("endpoint", binding.Endpoint.Name).
		Str("method", desc.Method).
		Str("url", desc.URL).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	return parseResponse(desc.Method, desc.URL, resp)
}

func parseResponse(method, url string, resp *http.Response) (interface{}, error) {
	reader := resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &RequestError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode gzip: %w", err)}
		}
		defer gz.Close()
		reader = gz
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, &RequestError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, &RequestError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed JSON response: %w", err)}
	}
	return normalizeNumbers(value), nil
}

// normalizeNumbers replaces decoded numbers with int64 when they are integral
// and fit, float64 otherwise, so 64-bit ids survive up to the String scalar.
func normalizeNumbers(value interface{}) interface{} {
	switch v := value.(type) {
	case stdjson.Number:
		return numberValue(v)
	case jsoniter.Number:
		return numberValue(stdjson.Number(v))
	case map[string]interface{}:
		for k, item := range v {
			v[k] = normalizeNumbers(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeNumbers(item)
		}
		return v
	default:
		return value
	}
}

func numberValue(n stdjson.Number) interface{} {
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, _ := n.Float64()
	return f
}
