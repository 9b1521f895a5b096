package missioncontrol

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/jpalmerr/missioncontrol/internal/poller"
)

const defaultFetchTimeout = 10 * time.Second

// Fetcher retrieves a JSON document from a URL and decodes it into v.
//
// Refreshers depend only on this interface, so tests and embedders can
// substitute their own transport.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, v any) error
}

// FetcherFunc adapts an ordinary function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, url string, v any) error

// FetchJSON implements [Fetcher].
func (f FetcherFunc) FetchJSON(ctx context.Context, url string, v any) error {
	return f(ctx, url, v)
}

// HTTPFetcher is the default [Fetcher], issuing GET requests over a pooled
// HTTP client.
type HTTPFetcher struct {
	client  *poller.Client
	headers map[string]string
	timeout time.Duration
}

// NewHTTPFetcher creates an [HTTPFetcher].
//
// headers are sent with every request (for example an Authorization
// header built with [BasicAuth]). A non-positive timeout selects the
// default of 10 seconds.
func NewHTTPFetcher(timeout time.Duration, headers map[string]string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPFetcher{
		client:  poller.NewClient(),
		headers: copyMap(headers),
		timeout: timeout,
	}
}

// FetchJSON implements [Fetcher].
func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string, v any) error {
	return f.client.GetJSON(ctx, url, f.headers, f.timeout, v)
}

// Close releases idle connections.
func (f *HTTPFetcher) Close() {
	f.client.Close()
}

// BasicAuth returns the value of an HTTP basic Authorization header for a
// CI user and API token.
func BasicAuth(user, token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+token))
}

// copyMap returns a shallow copy of m, or nil if m is nil.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
