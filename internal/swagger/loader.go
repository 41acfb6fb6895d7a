package swagger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// Loader fetches description documents from disk or over HTTP.
type Loader struct {
	client *http.Client
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// NewLoader creates a loader using http.DefaultClient unless overridden.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{client: http.DefaultClient}
	for _, option := range options {
		option(l)
	}
	return l
}

// Load reads and parses the description at location, which is either a local
// path or an http(s) URL.
func Load(ctx context.Context, location string) (*Document, error) {
	return NewLoader().Load(ctx, location)
}

// Load reads and parses the description at location.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return doc, nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read description: %w", err)
		}
		return data, nil
	}

	switch u.Scheme {
	case "file":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read description: %w", err)
		}
		return data, nil
	case "http", "https":
		return l.fetch(ctx, location)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, location)
	}
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request struct failed: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch description %s: status %d", location, resp.StatusCode)
	}
	return body, nil
}
