package missioncontrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"time"
)

// WidgetKind identifies which panel a [Widget] renders.
type WidgetKind string

const (
	WidgetBuildQueue   WidgetKind = "build_queue"
	WidgetNodes        WidgetKind = "nodes"
	WidgetBuildHistory WidgetKind = "build_history"
	WidgetJobStatuses  WidgetKind = "job_statuses"
)

const (
	defaultBuildQueueSize   = 10
	defaultBuildHistorySize = 16
)

// Valid reports whether k is one of the known widget kinds.
func (k WidgetKind) Valid() bool {
	switch k {
	case WidgetBuildQueue, WidgetNodes, WidgetBuildHistory, WidgetJobStatuses:
		return true
	default:
		return false
	}
}

// defaultTitle returns the panel heading used when no title is configured.
func (k WidgetKind) defaultTitle() string {
	switch k {
	case WidgetBuildQueue:
		return "Build Queue"
	case WidgetNodes:
		return "Nodes"
	case WidgetBuildHistory:
		return "Build History"
	case WidgetJobStatuses:
		return "Job Statuses"
	default:
		return string(k)
	}
}

// Widget binds one panel refresher to its source URL and per-panel
// parameters.
//
// Widget is immutable after creation via [NewWidget] or one of the
// kind-specific constructors. Widgets are configured using [WidgetOption]
// functions such as [WithMaxRows], [WithButtonClass] and [WithFilter].
type Widget struct {
	name           string
	title          string
	kind           WidgetKind
	sourceURL      string
	maxRows        int
	buttonClass    string
	filter         *regexp.Regexp
	sortByFailures bool
	nodeLabels     NodeLabels
	interval       time.Duration
}

// Name returns the widget's unique name. It defaults to the widget kind.
func (w Widget) Name() string { return w.name }

// Title returns the panel heading.
func (w Widget) Title() string { return w.title }

// Kind returns the widget kind.
func (w Widget) Kind() WidgetKind { return w.kind }

// SourceURL returns the CI server or view URL the widget reads from.
func (w Widget) SourceURL() string { return w.sourceURL }

// MaxRows returns the row limit of table widgets.
func (w Widget) MaxRows() int { return w.maxRows }

// ButtonClass returns the extra style class added to every button.
func (w Widget) ButtonClass() string { return w.buttonClass }

// Filter returns the job name filter pattern, or "" if none is set.
func (w Widget) Filter() string {
	if w.filter == nil {
		return ""
	}
	return w.filter.String()
}

// SortByFailures reports whether job buttons are ordered failures first.
func (w Widget) SortByFailures() bool { return w.sortByFailures }

// NodeLabels returns the hover texts of node buttons.
func (w Widget) NodeLabels() NodeLabels { return w.nodeLabels }

// Interval returns the widget's refresh interval. Zero means the global
// refresh interval applies.
func (w Widget) Interval() time.Duration { return w.interval }

// NewWidget creates a [Widget] of the given kind reading from sourceURL.
//
// For [WidgetBuildQueue] and [WidgetNodes] sourceURL is the CI server's
// root URL; for [WidgetBuildHistory] and [WidgetJobStatuses] it is the URL
// of the view whose builds and jobs are shown.
//
// Returns an error if the kind is unknown, the URL is invalid or an option
// fails.
func NewWidget(kind WidgetKind, sourceURL string, opts ...WidgetOption) (Widget, error) {
	if !kind.Valid() {
		return Widget{}, fmt.Errorf("unknown widget kind %q", kind)
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return Widget{}, errors.New("invalid URL: " + err.Error())
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return Widget{}, errors.New("URL must have a scheme and host (http:// or https://)")
	}

	cfg := &widgetConfig{
		name:       string(kind),
		title:      kind.defaultTitle(),
		nodeLabels: DefaultNodeLabels,
	}
	switch kind {
	case WidgetBuildQueue:
		cfg.maxRows = defaultBuildQueueSize
	case WidgetBuildHistory:
		cfg.maxRows = defaultBuildHistorySize
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Widget{}, err
		}
	}

	return Widget{
		name:           cfg.name,
		title:          cfg.title,
		kind:           kind,
		sourceURL:      sourceURL,
		maxRows:        cfg.maxRows,
		buttonClass:    cfg.buttonClass,
		filter:         cfg.filter,
		sortByFailures: cfg.sortByFailures,
		nodeLabels:     cfg.nodeLabels,
		interval:       cfg.interval,
	}, nil
}

// NewBuildQueueWidget creates a build queue widget for the CI server at
// jenkinsURL. It shows at most 10 rows unless [WithMaxRows] is given.
func NewBuildQueueWidget(jenkinsURL string, opts ...WidgetOption) (Widget, error) {
	return NewWidget(WidgetBuildQueue, jenkinsURL, opts...)
}

// NewNodeStatusWidget creates a node status widget for the CI server at
// jenkinsURL.
func NewNodeStatusWidget(jenkinsURL string, opts ...WidgetOption) (Widget, error) {
	return NewWidget(WidgetNodes, jenkinsURL, opts...)
}

// NewBuildHistoryWidget creates a build history widget for the view at
// viewURL. It shows at most 16 rows unless [WithMaxRows] is given.
func NewBuildHistoryWidget(viewURL string, opts ...WidgetOption) (Widget, error) {
	return NewWidget(WidgetBuildHistory, viewURL, opts...)
}

// NewJobStatusWidget creates a job status widget for the view at viewURL.
func NewJobStatusWidget(viewURL string, opts ...WidgetOption) (Widget, error) {
	return NewWidget(WidgetJobStatuses, viewURL, opts...)
}

// refreshFunc renders one widget into target.
type refreshFunc func(ctx context.Context, target Container) error

// bind returns the refresh function of the widget's panel, reading through f.
func (w Widget) bind(f Fetcher, logger *slog.Logger) refreshFunc {
	switch w.kind {
	case WidgetBuildQueue:
		r := NewBuildQueueRefresher(f)
		return func(ctx context.Context, target Container) error {
			return r.Refresh(ctx, target, w.sourceURL, w.maxRows)
		}
	case WidgetNodes:
		r := NewNodeStatusRefresher(f)
		r.Labels = w.nodeLabels
		return func(ctx context.Context, target Container) error {
			return r.Refresh(ctx, target, w.sourceURL, w.buttonClass)
		}
	case WidgetBuildHistory:
		r := NewBuildHistoryRefresher(f, logger)
		r.Filter = w.filter
		return func(ctx context.Context, target Container) error {
			return r.Refresh(ctx, target, w.sourceURL, w.maxRows)
		}
	default:
		r := NewJobStatusRefresher(f, logger)
		r.Filter = w.filter
		r.SortByFailures = w.sortByFailures
		return func(ctx context.Context, target Container) error {
			return r.Refresh(ctx, target, w.sourceURL, w.buttonClass)
		}
	}
}
