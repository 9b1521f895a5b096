package missioncontrol

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// widgetConfig holds mutable state during widget construction.
type widgetConfig struct {
	name           string
	title          string
	maxRows        int
	buttonClass    string
	filter         *regexp.Regexp
	sortByFailures bool
	nodeLabels     NodeLabels
	interval       time.Duration
}

// WidgetOption configures a [Widget] during construction.
//
// Options that do not apply to a widget's kind are accepted and ignored,
// so a shared option list can be passed to every constructor.
type WidgetOption func(*widgetConfig) error

// WithName sets the widget's unique name, used in the API and logs.
//
// Returns an error if the name is empty.
func WithName(name string) WidgetOption {
	return func(cfg *widgetConfig) error {
		if name == "" {
			return errors.New("widget name cannot be empty")
		}
		cfg.name = name
		return nil
	}
}

// WithWidgetTitle sets the panel heading.
func WithWidgetTitle(title string) WidgetOption {
	return func(cfg *widgetConfig) error {
		cfg.title = title
		return nil
	}
}

// WithMaxRows sets the row limit of build queue and build history widgets.
//
// Returns an error if n is zero or negative.
func WithMaxRows(n int) WidgetOption {
	return func(cfg *widgetConfig) error {
		if n <= 0 {
			return errors.New("max rows must be positive")
		}
		cfg.maxRows = n
		return nil
	}
}

// WithButtonClass adds a style class to every button of node status and
// job status widgets, typically a size class such as "btn-sm".
func WithButtonClass(class string) WidgetOption {
	return func(cfg *widgetConfig) error {
		cfg.buttonClass = class
		return nil
	}
}

// WithFilter keeps only builds or jobs whose name matches pattern.
//
// An empty pattern disables filtering. Returns an error if the pattern
// does not compile.
//
// Example:
//
//	w, err := missioncontrol.NewJobStatusWidget(viewURL,
//	    missioncontrol.WithFilter(`^team-a-`),
//	)
func WithFilter(pattern string) WidgetOption {
	return func(cfg *widgetConfig) error {
		if pattern == "" {
			cfg.filter = nil
			return nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid filter %q: %w", pattern, err)
		}
		cfg.filter = re
		return nil
	}
}

// WithSortByFailures orders job status buttons failures first.
func WithSortByFailures(enabled bool) WidgetOption {
	return func(cfg *widgetConfig) error {
		cfg.sortByFailures = enabled
		return nil
	}
}

// WithNodeLabels sets the hover texts of online and offline node buttons.
// Empty values keep the defaults.
func WithNodeLabels(online, offline string) WidgetOption {
	return func(cfg *widgetConfig) error {
		if online != "" {
			cfg.nodeLabels.Online = online
		}
		if offline != "" {
			cfg.nodeLabels.Offline = offline
		}
		return nil
	}
}

// WithInterval sets a refresh interval for this widget, overriding the
// global refresh interval.
//
// The interval must be at least 1 second and at most 1 hour.
func WithInterval(d time.Duration) WidgetOption {
	return func(cfg *widgetConfig) error {
		if d < time.Second {
			return errors.New("interval must be at least 1 second")
		}
		if d > time.Hour {
			return errors.New("interval must not exceed 1 hour")
		}
		cfg.interval = d
		return nil
	}
}
