package missioncontrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jpalmerr/missioncontrol/dashboard"
	"github.com/jpalmerr/missioncontrol/internal/poller"
	"github.com/jpalmerr/missioncontrol/internal/server"
	"github.com/jpalmerr/missioncontrol/internal/store"
)

const (
	defaultRefreshInterval = 15 * time.Second
	defaultPort            = 8080
	defaultMaxConcurrency  = 4
	defaultTitle           = "Mission Control"
)

// RefreshResult is the outcome of one panel refresh, passed to callbacks
// registered with [WithRefreshCallback].
type RefreshResult struct {
	// Panel is the widget name.
	Panel string

	// Kind is the widget kind.
	Kind WidgetKind

	// Elements is a copy of the panel's elements after the refresh. On
	// error these are the stale elements of the previous refresh.
	Elements []Element

	// Duration is how long the refresh took.
	Duration time.Duration

	// FinishedAt is when the refresh returned.
	FinishedAt time.Time

	// Error is the fetch error, or nil on success.
	Error error
}

// PanelState is the latest published state of one panel.
type PanelState struct {
	Name        string
	Title       string
	Kind        WidgetKind
	Elements    []Element
	RefreshedAt time.Time
	Duration    time.Duration

	// Error is the message of the last failed refresh, or "".
	Error string
}

// MissionControl refreshes dashboard panels and serves them.
//
// MissionControl owns one [Panel] per configured [Widget]. Each refresh
// fetches the widget's source, redraws its panel and publishes a snapshot.
// Snapshots are served by an HTTP dashboard started with
// [MissionControl.Start], or read directly with [MissionControl.Panels].
//
// The typical lifecycle is:
//
//	mc, err := missioncontrol.New(missioncontrol.WithWidgets(queue, nodes))
//	if err != nil {
//	    slog.Error("failed to create mission control", "error", err)
//	    os.Exit(1)
//	}
//	defer mc.Close()
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	mc.Start(ctx) // blocks until context cancelled
type MissionControl struct {
	title            string
	widgets          []Widget
	refreshInterval  time.Duration
	port             int
	maxConcurrency   int
	logger           *slog.Logger
	fetcher          Fetcher
	ownedFetcher     *HTTPFetcher
	refreshCallbacks []func(RefreshResult)

	panels     map[string]*Panel
	refreshers map[string]refreshFunc
	store      *store.MemoryStore
}

// New creates a [MissionControl] with the given options.
//
// At least one widget must be configured via [WithWidget] or [WithWidgets],
// and widget names must be unique. Other options default to:
//   - Refresh interval: 15 seconds
//   - Port: 8080
//   - Max concurrency: 4
//   - Fetch timeout: 10 seconds
func New(opts ...Option) (*MissionControl, error) {
	cfg := &mcConfig{
		widgets:         []Widget{},
		refreshInterval: defaultRefreshInterval,
		port:            defaultPort,
		maxConcurrency:  defaultMaxConcurrency,
		timeout:         defaultFetchTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.widgets) == 0 {
		return nil, errors.New("at least one widget is required")
	}

	seen := make(map[string]bool, len(cfg.widgets))
	for _, w := range cfg.widgets {
		if !w.kind.Valid() {
			return nil, fmt.Errorf("widget %q was not created with NewWidget", w.name)
		}
		if seen[w.name] {
			return nil, fmt.Errorf("duplicate widget name: %q", w.name)
		}
		seen[w.name] = true
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	title := cfg.title
	if title == "" {
		title = defaultTitle
	}

	mc := &MissionControl{
		title:            title,
		widgets:          cfg.widgets,
		refreshInterval:  cfg.refreshInterval,
		port:             cfg.port,
		maxConcurrency:   cfg.maxConcurrency,
		logger:           logger,
		fetcher:          cfg.fetcher,
		refreshCallbacks: cfg.refreshCallbacks,
		panels:           make(map[string]*Panel, len(cfg.widgets)),
		refreshers:       make(map[string]refreshFunc, len(cfg.widgets)),
		store:            store.NewMemoryStore(),
	}
	if mc.fetcher == nil {
		mc.ownedFetcher = NewHTTPFetcher(cfg.timeout, cfg.headers)
		mc.fetcher = mc.ownedFetcher
	}

	for i, w := range mc.widgets {
		mc.panels[w.name] = NewPanel()
		mc.refreshers[w.name] = w.bind(mc.fetcher, logger.With("panel", w.name))
		// seed the store so every panel is listed before its first refresh
		mc.store.Update(store.PanelSnapshot{
			Name:     w.name,
			Title:    w.title,
			Kind:     string(w.kind),
			Order:    i,
			Elements: []store.Element{},
		})
	}

	return mc, nil
}

// Start begins refreshing panels and serving the dashboard.
//
// Start blocks until ctx is cancelled. All panels refresh immediately,
// then at their configured intervals. The dashboard is available at
// http://localhost:<port>.
//
// Returns nil on graceful shutdown, or an error if the HTTP server fails
// to start.
func (mc *MissionControl) Start(ctx context.Context) error {
	mc.logger.Info("mission control starting", "panel_count", len(mc.widgets))
	mc.logger.Info("refresh configured", "interval", mc.refreshInterval.String())
	mc.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", mc.port))

	if ctx.Err() != nil {
		return nil
	}

	scheduler := poller.NewScheduler(mc.tasks(), mc.refreshInterval, mc.maxConcurrency, mc.logger)
	scheduler.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range scheduler.Results() {
			mc.publish(result.TaskName, result.Duration, result.FinishedAt, result.Error)
		}
	}()

	cleanup := func() {
		scheduler.Stop() // closes results channel
		wg.Wait()
	}

	httpServer := server.NewServer(mc.store, mc.port, dashboard.Assets, mc.title, mc.logger)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	mc.logger.Info("mission control stopped")
	return nil
}

// RefreshAll refreshes every panel once and publishes the snapshots.
//
// Panels refresh concurrently, bounded by the max concurrency. A failed
// panel keeps its previous elements. The returned error joins the errors
// of all failed panels.
func (mc *MissionControl) RefreshAll(ctx context.Context) error {
	sem := make(chan struct{}, mc.maxConcurrency)
	errs := make([]error, len(mc.widgets))

	var wg sync.WaitGroup
	for i, w := range mc.widgets {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = fmt.Errorf("%s: %w", name, ctx.Err())
				return
			}
			defer func() { <-sem }()

			start := time.Now()
			err := mc.refreshers[name](ctx, mc.panels[name])
			mc.publish(name, time.Since(start), time.Now(), err)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", name, err)
			}
		}(i, w.name)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// tasks converts widgets into scheduler tasks.
func (mc *MissionControl) tasks() []poller.Task {
	tasks := make([]poller.Task, len(mc.widgets))
	for i, w := range mc.widgets {
		refresh, panel := mc.refreshers[w.name], mc.panels[w.name]
		tasks[i] = poller.Task{
			Name:     w.name,
			Interval: w.interval,
			Refresh: func(ctx context.Context) error {
				return refresh(ctx, panel)
			},
		}
	}
	return tasks
}

// publish stores the panel's snapshot, fires callbacks and logs the outcome.
func (mc *MissionControl) publish(name string, took time.Duration, finishedAt time.Time, refreshErr error) {
	w, ok := mc.widget(name)
	if !ok {
		return
	}
	elements := mc.panels[name].Elements()

	snapshot := store.PanelSnapshot{
		Name:        w.name,
		Title:       w.title,
		Kind:        string(w.kind),
		Order:       mc.order(name),
		Elements:    toStoreElements(elements),
		RefreshedAt: finishedAt,
		DurationMs:  took.Milliseconds(),
	}
	if refreshErr != nil {
		msg := refreshErr.Error()
		snapshot.Error = &msg
	}
	mc.store.Update(snapshot)

	if len(mc.refreshCallbacks) > 0 {
		result := RefreshResult{
			Panel:      name,
			Kind:       w.kind,
			Elements:   elements,
			Duration:   took,
			FinishedAt: finishedAt,
			Error:      refreshErr,
		}
		for _, cb := range mc.refreshCallbacks {
			// each callback gets its own copy of the elements
			r := result
			r.Elements = copyElements(elements)
			invokeCallbackSafe(cb, r, mc.logger)
		}
	}

	logAttrs := []any{
		"panel", name,
		"url", w.sourceURL,
		"elements", len(elements),
		"duration_ms", took.Milliseconds(),
	}
	if refreshErr != nil {
		mc.logger.Warn("refresh failed, keeping stale panel", append(logAttrs, "error", refreshErr.Error())...)
	} else {
		mc.logger.Debug("refresh completed", logAttrs...)
	}
}

func (mc *MissionControl) widget(name string) (Widget, bool) {
	for _, w := range mc.widgets {
		if w.name == name {
			return w, true
		}
	}
	return Widget{}, false
}

func (mc *MissionControl) order(name string) int {
	for i, w := range mc.widgets {
		if w.name == name {
			return i
		}
	}
	return len(mc.widgets)
}

// Panels returns the latest published state of every panel in widget order.
func (mc *MissionControl) Panels() []PanelState {
	snapshots := mc.store.GetAll()
	states := make([]PanelState, len(snapshots))
	for i, s := range snapshots {
		states[i] = PanelState{
			Name:        s.Name,
			Title:       s.Title,
			Kind:        WidgetKind(s.Kind),
			Elements:    fromStoreElements(s.Elements),
			RefreshedAt: s.RefreshedAt,
			Duration:    time.Duration(s.DurationMs) * time.Millisecond,
		}
		if s.Error != nil {
			states[i].Error = *s.Error
		}
	}
	return states
}

// Widgets returns a copy of the configured widgets.
func (mc *MissionControl) Widgets() []Widget {
	cp := make([]Widget, len(mc.widgets))
	copy(cp, mc.widgets)
	return cp
}

// Title returns the dashboard title.
func (mc *MissionControl) Title() string {
	return mc.title
}

// Port returns the configured HTTP port for the dashboard server.
func (mc *MissionControl) Port() int {
	return mc.port
}

// RefreshInterval returns the global refresh interval.
func (mc *MissionControl) RefreshInterval() time.Duration {
	return mc.refreshInterval
}

// Close releases idle connections of the default HTTP fetcher. A fetcher
// supplied with [WithFetcher] is left to the caller.
func (mc *MissionControl) Close() {
	if mc.ownedFetcher != nil {
		mc.ownedFetcher.Close()
	}
}

func toStoreElements(elements []Element) []store.Element {
	out := make([]store.Element, len(elements))
	for i, el := range elements {
		var cells []store.Cell
		if el.Cells != nil {
			cells = make([]store.Cell, len(el.Cells))
			for j, c := range el.Cells {
				cells[j] = store.Cell{Text: c.Text, Href: c.Href}
			}
		}
		out[i] = store.Element{
			Kind:     string(el.Kind),
			Class:    el.Class,
			Cells:    cells,
			Label:    el.Label,
			Title:    el.Title,
			Href:     el.Href,
			Navigate: el.Navigate,
		}
	}
	return out
}

func fromStoreElements(elements []store.Element) []Element {
	out := make([]Element, len(elements))
	for i, el := range elements {
		var cells []Cell
		if el.Cells != nil {
			cells = make([]Cell, len(el.Cells))
			for j, c := range el.Cells {
				cells[j] = Cell{Text: c.Text, Href: c.Href}
			}
		}
		out[i] = Element{
			Kind:     ElementKind(el.Kind),
			Class:    el.Class,
			Cells:    cells,
			Label:    el.Label,
			Title:    el.Title,
			Href:     el.Href,
			Navigate: el.Navigate,
		}
	}
	return out
}

func copyElements(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, el := range elements {
		out[i] = copyElement(el)
	}
	return out
}

// invokeCallbackSafe calls a refresh callback with panic recovery.
func invokeCallbackSafe(cb func(RefreshResult), result RefreshResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("refresh callback panicked",
				"panic", r,
				"panel", result.Panel,
			)
		}
	}()
	cb(result)
}
