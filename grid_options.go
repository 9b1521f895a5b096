package missioncontrol

import (
	"errors"
	"fmt"
)

// gridConfig holds configuration during widget grid construction.
type gridConfig struct {
	urlTemplate string
	dimensions  map[string][]string
	widgetOpts  []WidgetOption
}

// GridOption configures [NewWidgetGrid].
type GridOption func(*gridConfig) error

// WithURLTemplate sets the source URL template. Dimension keys are template
// variables.
//
//	WithURLTemplate("https://ci.example.com/job/{{.folder}}/view/{{.view}}")
//
// Returns an error if the template string is empty.
func WithURLTemplate(tmpl string) GridOption {
	return func(cfg *gridConfig) error {
		if tmpl == "" {
			return errors.New("URL template required")
		}
		cfg.urlTemplate = tmpl
		return nil
	}
}

// WithDimensions sets the dimension values for cartesian product expansion.
//
// Returns an error if the map is empty, any dimension has no values, or any
// value is an empty string.
func WithDimensions(dims map[string][]string) GridOption {
	return func(cfg *gridConfig) error {
		if len(dims) == 0 {
			return errors.New("at least one dimension required")
		}
		for k, vals := range dims {
			if len(vals) == 0 {
				return fmt.Errorf("dimension '%s' has no values", k)
			}
			for i, v := range vals {
				if v == "" {
					return fmt.Errorf("dimension '%s' contains empty value at index %d", k, i)
				}
			}
		}
		cfg.dimensions = dims
		return nil
	}
}

// WithGridWidgetOptions applies opts to every generated widget.
//
//	WithGridWidgetOptions(WithSortByFailures(true), WithButtonClass("btn-sm"))
func WithGridWidgetOptions(opts ...WidgetOption) GridOption {
	return func(cfg *gridConfig) error {
		cfg.widgetOpts = append(cfg.widgetOpts, opts...)
		return nil
	}
}
