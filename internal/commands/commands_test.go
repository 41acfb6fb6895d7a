package commands

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/swagger2graphql/internal/config"
	"github.com/okra-platform/swagger2graphql/internal/gateway"
)

// Test plan for the commands:
// 1. Header flags parse as Name=value and reject anything else
// 2. Flags override the config file and stand in for it when absent
// 3. Print writes valid SDL to stdout or a file
// 4. Serve answers queries against the backend and stops on cancellation
// 5. A failed rebuild keeps the previous schema
// 6. Watch mode picks up a changed description

const widgetsDescription = `
swagger: "2.0"
info: {title: widgets, version: "1"}
host: widgets.invalid
paths:
  /widgets/{id}:
    get:
      operationId: getWidget
      parameters:
        - {name: id, in: path, required: true, type: string}
      responses:
        "200":
          description: ok
          schema: {$ref: "#/definitions/Widget"}
definitions:
  Widget:
    type: object
    properties:
      id: {type: string}
`

const widgetsWithCount = `
swagger: "2.0"
info: {title: widgets, version: "2"}
host: widgets.invalid
paths:
  /widgets/count:
    get:
      operationId: countWidgets
      responses:
        "200":
          description: ok
          schema: {type: integer}
`

func writeDescription(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{"single", []string{"Authorization=Bearer x"}, map[string]string{"Authorization": "Bearer x"}, false},
		{"value with equals", []string{"X-Query=a=b"}, map[string]string{"X-Query": "a=b"}, false},
		{"trimmed", []string{" X-Tenant = acme "}, map[string]string{"X-Tenant": "acme"}, false},
		{"empty value", []string{"X-Empty="}, map[string]string{"X-Empty": ""}, false},
		{"missing separator", []string{"Authorization"}, nil, true},
		{"missing name", []string{"=value"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeaders(tt.pairs)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("flags override the file", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, config.FileName)
		require.NoError(t, os.WriteFile(configPath, []byte(`
description: ./widgets.yaml
proxyUrl: https://proxy.example.com
headers:
  Authorization: Bearer file
  X-Tenant: file
`), 0644))

		c := &Controller{Flags: &Flags{
			ConfigPath: configPath,
			ProxyURL:   "https://flag.example.com",
			Headers:    []string{"X-Tenant=flag"},
		}}
		cfg, err := c.resolveConfig()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "widgets.yaml"), cfg.Description)
		assert.Equal(t, "https://flag.example.com", cfg.ProxyURL)
		assert.Equal(t, map[string]string{"Authorization": "Bearer file", "X-Tenant": "flag"}, cfg.Headers)
		assert.Equal(t, config.DefaultAddr, cfg.Serve.Addr)
	})

	t.Run("description flag without a file", func(t *testing.T) {
		c := &Controller{Flags: &Flags{Description: "https://api.example.com/swagger.json"}}
		cfg, err := c.resolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/swagger.json", cfg.Description)
		assert.Equal(t, config.DefaultPath, cfg.Serve.Path)
	})

	t.Run("nothing to load", func(t *testing.T) {
		c := &Controller{Flags: &Flags{}}
		_, err := c.resolveConfig()
		require.ErrorIs(t, err, config.ErrConfigNotFound)
	})

	t.Run("invalid proxy flag", func(t *testing.T) {
		c := &Controller{Flags: &Flags{Description: "x.yaml", ProxyURL: "not a url"}}
		_, err := c.resolveConfig()
		require.Error(t, err)
	})

	t.Run("invalid header flag", func(t *testing.T) {
		c := &Controller{Flags: &Flags{Description: "x.yaml", Headers: []string{"bad"}}}
		_, err := c.resolveConfig()
		require.ErrorIs(t, err, ErrInvalidHeader)
	})
}

func TestPrint(t *testing.T) {
	description := writeDescription(t, t.TempDir(), widgetsDescription)

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		c := &Controller{Flags: &Flags{Description: description}, Stdout: &out}
		require.NoError(t, c.Print(context.Background()))

		assert.Contains(t, out.String(), "type Query {")
		assert.Contains(t, out.String(), "getWidget(id: String): Widget")
		assert.Contains(t, out.String(), "type Widget {")
	})

	t.Run("file", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "schema.graphql")
		var out bytes.Buffer
		c := &Controller{Flags: &Flags{Description: description}, Stdout: &out}
		require.NoError(t, c.Print(context.Background(), PrintOptions{Out: target}))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Contains(t, string(data), "type Query {")
		assert.Empty(t, out.String())
	})

	t.Run("missing description", func(t *testing.T) {
		c := &Controller{Flags: &Flags{Description: filepath.Join(t.TempDir(), "missing.yaml")}}
		require.Error(t, c.Print(context.Background()))
	})
}

func startServe(t *testing.T, c *Controller, cfg *config.Config) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.serve(ctx, cfg, listener)
	}()

	addr := "http://" + listener.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	return addr, cancel, done
}

func postQuery(t *testing.T, url, query string) string {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(`{"query": "`+query+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return buf.String()
}

func TestServe(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/widgets/w1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "w1"}`))
	}))
	defer backend.Close()

	description := writeDescription(t, t.TempDir(), widgetsDescription)
	cfg := &config.Config{Description: description, ProxyURL: backend.URL}
	cfg.ApplyDefaults()

	c := &Controller{Flags: &Flags{}}
	addr, cancel, done := startServe(t, c, cfg)

	body := postQuery(t, addr+config.DefaultPath, `{ getWidget(id: \"w1\") { id } }`)
	assert.JSONEq(t, `{"data": {"getWidget": {"id": "w1"}}}`, body)

	// Test: cancellation shuts the server down cleanly
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServeBuildError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := &config.Config{Description: filepath.Join(t.TempDir(), "missing.yaml")}
	cfg.ApplyDefaults()

	c := &Controller{Flags: &Flags{}}
	err = c.serve(context.Background(), cfg, listener)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build schema")
}

func TestReloadKeepsPreviousSchema(t *testing.T) {
	dir := t.TempDir()
	description := writeDescription(t, dir, widgetsDescription)
	cfg := &config.Config{Description: description}
	cfg.ApplyDefaults()

	c := &Controller{Flags: &Flags{}}
	gw := gateway.NewGateway()
	require.NoError(t, c.reload(context.Background(), cfg, gw))

	writeDescription(t, dir, "swagger: [not valid")
	require.Error(t, c.reload(context.Background(), cfg, gw))

	// Test: the gateway still answers with the last good schema
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, config.DefaultPath,
		strings.NewReader(`{"query": "{ __type(name: \"Widget\") { name } }"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data": {"__type": {"name": "Widget"}}}`, rec.Body.String())
}

func TestServeWatch(t *testing.T) {
	dir := t.TempDir()
	description := writeDescription(t, dir, widgetsDescription)
	cfg := &config.Config{Description: description, Watch: true}
	cfg.ApplyDefaults()

	c := &Controller{Flags: &Flags{}}
	addr, cancel, done := startServe(t, c, cfg)
	defer func() {
		cancel()
		<-done
	}()

	writeDescription(t, dir, widgetsWithCount)

	// Test: the rebuilt schema is served without a restart
	assert.Eventually(t, func() bool {
		body := postQuery(t, addr+config.DefaultPath, `{ __type(name: \"Query\") { fields { name } } }`)
		return strings.Contains(body, "countWidgets")
	}, 5*time.Second, 50*time.Millisecond)
}
