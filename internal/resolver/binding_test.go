package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

// Test plan for bindings:
// 1. Proxy target precedence: function, literal URL, per-call base, server URL
// 2. Header precedence: bound < template < per-call
// 3. Bound headers are copied, not shared with the caller
// 4. Templating errors carry the endpoint name

func itemEndpoint() *swagger.Endpoint {
	params := []swagger.Parameter{
		{Name: "id", OriginalName: "id", In: swagger.InPath, Required: true},
		{Name: "X_Tenant", OriginalName: "X-Tenant", In: swagger.InHeader},
	}
	return &swagger.Endpoint{
		Name: "getItem",
		Request: &swagger.RequestTemplate{
			Method:     "GET",
			Path:       "/items/{id}",
			ServerURL:  "http://origin.example.com",
			Parameters: params,
		},
		Parameters: params,
	}
}

func TestProxyTarget(t *testing.T) {
	call := CallOptions{BaseURL: "http://per-call"}

	tests := []struct {
		name  string
		proxy Proxy
		opts  CallOptions
		want  string
	}{
		{
			name: "function wins",
			proxy: Proxy{
				URL:  "http://literal",
				Func: func(opts CallOptions) string { return opts.BaseURL + "/fn" },
			},
			opts: call,
			want: "http://per-call/fn",
		},
		{name: "literal url", proxy: Proxy{URL: "http://literal"}, opts: call, want: "http://literal"},
		{name: "per-call base", proxy: Proxy{}, opts: call, want: "http://per-call"},
		{name: "server url", proxy: Proxy{}, opts: CallOptions{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.proxy.Target(tt.opts))
		})
	}
}

func TestBindingRequest(t *testing.T) {
	defaults := map[string]string{"Authorization": "bound", "X-Tenant": "bound", "X-Only-Bound": "1"}
	binding := NewBinding(itemEndpoint(), Proxy{}, defaults)

	// Test: the binding keeps its own copy of the headers
	defaults["X-Only-Bound"] = "changed"
	assert.Equal(t, "1", binding.Headers["X-Only-Bound"])

	t.Run("header precedence", func(t *testing.T) {
		req, err := binding.Request(map[string]interface{}{"id": "7", "X_Tenant": "template"}, CallOptions{
			Headers: map[string]string{"Authorization": "call"},
		})
		require.NoError(t, err)

		assert.Equal(t, "call", req.Headers["Authorization"])
		assert.Equal(t, "template", req.Headers["X-Tenant"])
		assert.Equal(t, "1", req.Headers["X-Only-Bound"])
	})

	t.Run("header names differing in case", func(t *testing.T) {
		lower := NewBinding(itemEndpoint(), Proxy{}, map[string]string{"authorization": "Bearer default", "x-tenant": "bound"})
		req, err := lower.Request(map[string]interface{}{"id": "7"}, CallOptions{
			Headers: map[string]string{"Authorization": "Bearer caller"},
		})
		require.NoError(t, err)

		// Test: one entry per header, the per-call value wins
		assert.Equal(t, map[string]string{
			"Authorization": "Bearer caller",
			"X-Tenant":      "bound",
		}, req.Headers)
	})

	t.Run("server url fallback", func(t *testing.T) {
		req, err := binding.Request(map[string]interface{}{"id": "7"}, CallOptions{})
		require.NoError(t, err)
		assert.Equal(t, "GET", req.Method)
		assert.Equal(t, "http://origin.example.com/items/7", req.URL)
		assert.Equal(t, "bound", req.Headers["X-Tenant"])
	})

	t.Run("per-call base url", func(t *testing.T) {
		req, err := binding.Request(map[string]interface{}{"id": "7"}, CallOptions{BaseURL: "http://proxy"})
		require.NoError(t, err)
		assert.Equal(t, "http://proxy/items/7", req.URL)
	})

	t.Run("templating error", func(t *testing.T) {
		_, err := binding.Request(map[string]interface{}{}, CallOptions{})
		require.ErrorIs(t, err, swagger.ErrMissingPathParameter)
		assert.Contains(t, err.Error(), "getItem")
	})
}
