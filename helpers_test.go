package missioncontrol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bufferLogger returns a logger writing text records into a buffer so tests
// can assert on diagnostics.
func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var errNotFound = errors.New("no payload for url")

// stubFetcher serves canned JSON bodies keyed by URL and records requests.
type stubFetcher struct {
	mu       sync.Mutex
	bodies   map[string]string
	requests []string
	err      error
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{bodies: make(map[string]string)}
}

func (s *stubFetcher) set(url, body string) {
	s.mu.Lock()
	s.bodies[url] = body
	s.mu.Unlock()
}

func (s *stubFetcher) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *stubFetcher) FetchJSON(ctx context.Context, url string, v any) error {
	s.mu.Lock()
	s.requests = append(s.requests, url)
	body, ok := s.bodies[url]
	err := s.err
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return errNotFound
	}
	return json.Unmarshal([]byte(body), v)
}

func (s *stubFetcher) lastRequest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return ""
	}
	return s.requests[len(s.requests)-1]
}

// cellTexts returns the cell texts of a row element.
func cellTexts(el Element) []string {
	texts := make([]string, len(el.Cells))
	for i, c := range el.Cells {
		texts[i] = c.Text
	}
	return texts
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return string(data)
}
