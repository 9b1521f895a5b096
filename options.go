package missioncontrol

import (
	"errors"
	"log/slog"
	"time"
)

// mcConfig holds mutable state during MissionControl construction.
type mcConfig struct {
	title            string
	widgets          []Widget
	refreshInterval  time.Duration
	port             int
	maxConcurrency   int
	logger           *slog.Logger
	fetcher          Fetcher
	headers          map[string]string
	timeout          time.Duration
	refreshCallbacks []func(RefreshResult)
}

// Option configures a [MissionControl] instance during construction.
//
// Options return an error if validation fails.
//
// Built-in options: [WithWidget], [WithWidgets], [WithRefreshInterval],
// [WithPort], [WithMaxConcurrency], [WithLogger], [WithTitle],
// [WithFetcher], [WithCredentials], [WithHeaders], [WithTimeout],
// [WithRefreshCallback].
type Option func(*mcConfig) error

// WithWidget adds a single [Widget] to the dashboard. Panels are shown in
// the order widgets are added.
func WithWidget(w Widget) Option {
	return func(cfg *mcConfig) error {
		cfg.widgets = append(cfg.widgets, w)
		return nil
	}
}

// WithWidgets adds multiple widgets to the dashboard.
//
// Example:
//
//	mc, err := missioncontrol.New(
//	    missioncontrol.WithWidgets(queue, nodes, history, jobs),
//	)
func WithWidgets(widgets ...Widget) Option {
	return func(cfg *mcConfig) error {
		cfg.widgets = append(cfg.widgets, widgets...)
		return nil
	}
}

// WithRefreshInterval sets how often panels are refreshed. Widgets with
// their own interval ([WithInterval]) override it. Defaults to 15 seconds.
//
// Returns an error if the duration is zero or negative.
func WithRefreshInterval(d time.Duration) Option {
	return func(cfg *mcConfig) error {
		if d <= 0 {
			return errors.New("refresh interval must be positive")
		}
		cfg.refreshInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *mcConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithMaxConcurrency limits how many panels refresh at the same time.
// Defaults to 4.
//
// Returns an error if the value is zero or negative.
func WithMaxConcurrency(n int) Option {
	return func(cfg *mcConfig) error {
		if n <= 0 {
			return errors.New("max concurrency must be positive")
		}
		cfg.maxConcurrency = n
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *mcConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and
// header. If not specified, defaults to "Mission Control".
func WithTitle(title string) Option {
	return func(cfg *mcConfig) error {
		cfg.title = title
		return nil
	}
}

// WithFetcher replaces the default HTTP [Fetcher]. When set, [WithHeaders],
// [WithCredentials] and [WithTimeout] have no effect.
//
// Returns an error if f is nil.
func WithFetcher(f Fetcher) Option {
	return func(cfg *mcConfig) error {
		if f == nil {
			return errors.New("fetcher cannot be nil")
		}
		cfg.fetcher = f
		return nil
	}
}

// WithCredentials authenticates every request to the CI server with HTTP
// basic auth using a user name and API token.
func WithCredentials(user, token string) Option {
	return func(cfg *mcConfig) error {
		if user == "" {
			return errors.New("credentials require a user")
		}
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		cfg.headers["Authorization"] = BasicAuth(user, token)
		return nil
	}
}

// WithHeaders adds custom HTTP headers to every request.
//
// Accepts variadic key-value pairs. Returns an error if an odd number of
// arguments is provided.
func WithHeaders(keyValues ...string) Option {
	return func(cfg *mcConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithTimeout sets the request timeout of the default HTTP fetcher.
// Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *mcConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithRefreshCallback registers a function called after every panel
// refresh, once the new snapshot has been published.
//
// Callbacks are invoked synchronously from a single goroutine in
// registration order and must not block. Panics are recovered and logged.
// Nil callbacks are ignored.
//
// Example:
//
//	mc, err := missioncontrol.New(
//	    missioncontrol.WithWidgets(widgets...),
//	    missioncontrol.WithRefreshCallback(func(r missioncontrol.RefreshResult) {
//	        if r.Error != nil {
//	            log.Printf("%s is stale: %v", r.Panel, r.Error)
//	        }
//	    }),
//	)
func WithRefreshCallback(cb func(RefreshResult)) Option {
	return func(cfg *mcConfig) error {
		if cb == nil {
			return nil
		}
		cfg.refreshCallbacks = append(cfg.refreshCallbacks, cb)
		return nil
	}
}
