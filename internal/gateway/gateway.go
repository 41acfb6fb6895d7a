package gateway

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/schema"
	"github.com/graphql-go/graphql"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/okra-platform/swagger2graphql/internal/resolver"
)

var (
	json         = jsoniter.ConfigCompatibleWithStandardLibrary
	queryDecoder = schema.NewDecoder()
)

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// Gateway serves an executable schema over HTTP. The schema can be swapped
// while requests are in flight.
type Gateway interface {
	Handler() http.Handler
	UpdateSchema(schema graphql.Schema)
}

// Option configures a gateway
type Option func(*graphqlGateway)

// WithForwardHeaders names inbound headers copied onto every resolver call.
func WithForwardHeaders(headers ...string) Option {
	return func(g *graphqlGateway) {
		g.forwardHeaders = append(g.forwardHeaders, headers...)
	}
}

// WithBaseURL sets the per-call base URL used when no proxy is bound.
func WithBaseURL(url string) Option {
	return func(g *graphqlGateway) {
		g.baseURL = url
	}
}

// WithPath mounts the GraphQL endpoint at path. Defaults to /graphql.
func WithPath(path string) Option {
	return func(g *graphqlGateway) {
		g.path = path
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *graphqlGateway) {
		g.logger = logger
	}
}

type graphqlGateway struct {
	schema         atomic.Pointer[graphql.Schema]
	path           string
	baseURL        string
	forwardHeaders []string
	logger         zerolog.Logger
}

// NewGateway creates a gateway with no schema loaded. Requests fail with 503
// until UpdateSchema is called.
func NewGateway(options ...Option) Gateway {
	g := &graphqlGateway{
		path:   "/graphql",
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(g)
	}
	g.logger = g.logger.With().Str("component", "gateway").Logger()
	return g
}

type graphqlRequest struct {
	Query         string                 `json:"query" schema:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty" schema:"-"`
	OperationName string                 `json:"operationName,omitempty" schema:"operationName"`
	// RawVariables carries variables on GET requests.
	RawVariables string `json:"-" schema:"variables"`
}

func (g *graphqlGateway) UpdateSchema(s graphql.Schema) {
	g.schema.Store(&s)
	g.logger.Info().Msg("schema updated")
}

func (g *graphqlGateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", g.handleHealth)
	mux.HandleFunc(g.path, g.ServeHTTP)
	return mux
}

// ServeHTTP executes one GraphQL request. GET without a query serves the
// playground.
func (g *graphqlGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest

	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("query") == "" {
			g.servePlayground(w, r)
			return
		}
		if err := queryDecoder.Decode(&req, r.URL.Query()); err != nil {
			http.Error(w, "Invalid query parameters", http.StatusBadRequest)
			return
		}
		if req.RawVariables != "" {
			if err := json.UnmarshalFromString(req.RawVariables, &req.Variables); err != nil {
				http.Error(w, "Invalid variables", http.StatusBadRequest)
				return
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query required", http.StatusBadRequest)
		return
	}

	current := g.schema.Load()
	if current == nil {
		http.Error(w, "Schema not initialized", http.StatusServiceUnavailable)
		return
	}

	ctx := resolver.WithCallOptions(r.Context(), resolver.CallOptions{
		BaseURL: g.baseURL,
		Headers: g.callHeaders(r),
	})

	result := graphql.Do(graphql.Params{
		Schema:         *current,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	if result.HasErrors() {
		g.logger.Debug().
			Int("errors", len(result.Errors)).
			Str("operation", req.OperationName).
			Msg("query completed with errors")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		g.logger.Error().Err(err).Msg("failed to write response")
	}
}

// callHeaders copies the configured headers present on r.
func (g *graphqlGateway) callHeaders(r *http.Request) map[string]string {
	if len(g.forwardHeaders) == 0 {
		return nil
	}
	headers := make(map[string]string, len(g.forwardHeaders))
	for _, name := range g.forwardHeaders {
		if value := r.Header.Get(name); value != "" {
			headers[http.CanonicalHeaderKey(name)] = value
		}
	}
	return headers
}

func (g *graphqlGateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	state := "ok"
	if g.schema.Load() == nil {
		status = http.StatusServiceUnavailable
		state = "loading"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"status": state})
}

func (g *graphqlGateway) servePlayground(w http.ResponseWriter, r *http.Request) {
	playgroundHTML := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <title>swagger2graphql</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
  <style>
    body {
      height: 100%%;
      margin: 0;
      width: 100%%;
      overflow: hidden;
    }
    #graphiql {
      height: 100vh;
    }
  </style>
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: '%s' });
    const root = ReactDOM.createRoot(document.getElementById('graphiql'));
    root.render(React.createElement(GraphiQL, { fetcher: fetcher }));
  </script>
</body>
</html>
`, r.URL.Path)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(playgroundHTML))
}
