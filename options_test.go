package missioncontrol

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func mustWidget(t *testing.T, kind WidgetKind, opts ...WidgetOption) Widget {
	t.Helper()
	w, err := NewWidget(kind, testJenkins, opts...)
	if err != nil {
		t.Fatalf("NewWidget() error = %v", err)
	}
	return w
}

func TestNew_Valid(t *testing.T) {
	mc, err := New(WithWidget(mustWidget(t, WidgetBuildQueue)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer mc.Close()

	if len(mc.Widgets()) != 1 {
		t.Errorf("len(Widgets()) = %v, want %v", len(mc.Widgets()), 1)
	}
}

func TestNew_NoWidgets(t *testing.T) {
	if _, err := New(); err == nil {
		t.Error("New() expected error for no widgets, got nil")
	}
}

func TestNew_DuplicateWidgetNames(t *testing.T) {
	_, err := New(
		WithWidget(mustWidget(t, WidgetJobStatuses)),
		WithWidget(mustWidget(t, WidgetJobStatuses)),
	)
	if err == nil {
		t.Fatal("New() expected error for duplicate widget names, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate widget name") {
		t.Errorf("New() error = %v, want error containing 'duplicate widget name'", err)
	}
}

func TestNew_ZeroWidget(t *testing.T) {
	if _, err := New(WithWidget(Widget{})); err == nil {
		t.Error("New() expected error for zero Widget, got nil")
	}
}

func TestNew_Defaults(t *testing.T) {
	mc, err := New(WithWidget(mustWidget(t, WidgetNodes)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer mc.Close()

	if mc.RefreshInterval() != 15*time.Second {
		t.Errorf("RefreshInterval() = %v, want %v", mc.RefreshInterval(), 15*time.Second)
	}
	if mc.Port() != 8080 {
		t.Errorf("Port() = %v, want %v", mc.Port(), 8080)
	}
	if mc.maxConcurrency != 4 {
		t.Errorf("maxConcurrency = %v, want %v", mc.maxConcurrency, 4)
	}
	if mc.Title() != "Mission Control" {
		t.Errorf("Title() = %q, want %q", mc.Title(), "Mission Control")
	}
	if mc.logger != slog.Default() {
		t.Error("logger should default to slog.Default()")
	}
	if mc.ownedFetcher == nil {
		t.Error("default HTTP fetcher not created")
	}
}

func TestNew_PanelsListedBeforeRefresh(t *testing.T) {
	mc, err := New(
		WithWidgets(mustWidget(t, WidgetBuildQueue), mustWidget(t, WidgetNodes)),
		WithFetcher(newStubFetcher()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	panels := mc.Panels()
	if len(panels) != 2 {
		t.Fatalf("len(Panels()) = %d, want 2", len(panels))
	}
	if panels[0].Name != "build_queue" || panels[1].Name != "nodes" {
		t.Errorf("Panels() order = %q, %q", panels[0].Name, panels[1].Name)
	}
	if panels[0].Title != "Build Queue" || !panels[0].RefreshedAt.IsZero() {
		t.Errorf("Panels()[0] = %+v", panels[0])
	}
}

func TestOptions_Valid(t *testing.T) {
	logger := testLogger()
	mc, err := New(
		WithWidget(mustWidget(t, WidgetNodes)),
		WithRefreshInterval(30*time.Second),
		WithPort(9090),
		WithMaxConcurrency(2),
		WithLogger(logger),
		WithTitle("Release Train"),
		WithTimeout(3*time.Second),
		WithCredentials("bot", "token"),
		WithHeaders("X-Team", "ops"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer mc.Close()

	if mc.RefreshInterval() != 30*time.Second {
		t.Errorf("RefreshInterval() = %v", mc.RefreshInterval())
	}
	if mc.Port() != 9090 {
		t.Errorf("Port() = %v", mc.Port())
	}
	if mc.maxConcurrency != 2 {
		t.Errorf("maxConcurrency = %v", mc.maxConcurrency)
	}
	if mc.logger != logger {
		t.Error("logger not set")
	}
	if mc.Title() != "Release Train" {
		t.Errorf("Title() = %q", mc.Title())
	}
	if mc.ownedFetcher.timeout != 3*time.Second {
		t.Errorf("fetcher timeout = %v", mc.ownedFetcher.timeout)
	}
	if got := mc.ownedFetcher.headers["Authorization"]; got != BasicAuth("bot", "token") {
		t.Errorf("Authorization = %q", got)
	}
	if got := mc.ownedFetcher.headers["X-Team"]; got != "ops" {
		t.Errorf("X-Team = %q", got)
	}
}

func TestOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero interval", WithRefreshInterval(0)},
		{"negative interval", WithRefreshInterval(-time.Second)},
		{"port zero", WithPort(0)},
		{"port too high", WithPort(65536)},
		{"zero concurrency", WithMaxConcurrency(0)},
		{"nil logger", WithLogger(nil)},
		{"nil fetcher", WithFetcher(nil)},
		{"credentials without user", WithCredentials("", "token")},
		{"odd headers", WithHeaders("X-Orphan")},
		{"zero timeout", WithTimeout(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(WithWidget(mustWidget(t, WidgetNodes)), tt.opt); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}

func TestWithPort_ValidEdgeCases(t *testing.T) {
	for _, port := range []int{1, 65535} {
		mc, err := New(WithWidget(mustWidget(t, WidgetNodes)), WithPort(port))
		if err != nil {
			t.Errorf("WithPort(%d) error = %v", port, err)
			continue
		}
		mc.Close()
	}
}

func TestWithFetcher_SkipsDefaultClient(t *testing.T) {
	mc, err := New(WithWidget(mustWidget(t, WidgetNodes)), WithFetcher(newStubFetcher()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if mc.ownedFetcher != nil {
		t.Error("ownedFetcher created despite WithFetcher")
	}
	mc.Close() // no-op
}

func TestWidgets_Immutability(t *testing.T) {
	mc, err := New(WithWidget(mustWidget(t, WidgetNodes)), WithFetcher(newStubFetcher()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	widgets := mc.Widgets()
	widgets[0] = mustWidget(t, WidgetBuildQueue)

	if mc.Widgets()[0].Kind() != WidgetNodes {
		t.Error("Widgets() mutation affected MissionControl")
	}
}

func TestWithLogger_ReceivesRefreshLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f := newStubFetcher()
	f.set(testJenkins+"/computer/api/json", nodesBody)

	mc, err := New(WithWidget(mustWidget(t, WidgetNodes)), WithFetcher(f), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := mc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}

	if !strings.Contains(buf.String(), "refresh completed") {
		t.Errorf("log output = %q, want refresh completed entry", buf.String())
	}
}

func TestWithCredentials_SentToServer(t *testing.T) {
	var user, pass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ = r.BasicAuth()
		_, _ = w.Write([]byte(`{"computer":[]}`))
	}))
	defer server.Close()

	w, err := NewNodeStatusWidget(server.URL)
	if err != nil {
		t.Fatalf("NewNodeStatusWidget() error = %v", err)
	}
	mc, err := New(WithWidget(w), WithCredentials("ci-bot", "s3cret"), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer mc.Close()

	if err := mc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if user != "ci-bot" || pass != "s3cret" {
		t.Errorf("basic auth = (%q, %q), want (ci-bot, s3cret)", user, pass)
	}
}
