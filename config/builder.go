package config

import (
	"fmt"

	"github.com/jpalmerr/missioncontrol"
)

// BuildWidgets converts parsed configuration into SDK Widget objects.
//
// Visible built-in panels come first, in the order build queue, nodes,
// build history, job statuses, followed by the expanded grids.
func BuildWidgets(cfg *Config) ([]missioncontrol.Widget, error) {
	builtins := []struct {
		kind missioncontrol.WidgetKind
		url  string
		pc   PanelConfig
	}{
		{missioncontrol.WidgetBuildQueue, cfg.Jenkins.URL, cfg.Panels.BuildQueue},
		{missioncontrol.WidgetNodes, cfg.Jenkins.URL, cfg.Panels.Nodes},
		{missioncontrol.WidgetBuildHistory, cfg.ViewURL, cfg.Panels.BuildHistory},
		{missioncontrol.WidgetJobStatuses, cfg.ViewURL, cfg.Panels.JobStatuses},
	}

	var widgets []missioncontrol.Widget
	for _, b := range builtins {
		if b.pc.Hide {
			continue
		}
		opts := panelOptions(b.kind, b.pc)
		if b.pc.Title != "" {
			opts = append(opts, missioncontrol.WithWidgetTitle(b.pc.Title))
		}
		w, err := missioncontrol.NewWidget(b.kind, b.url, opts...)
		if err != nil {
			return nil, fmt.Errorf("panels.%s: %w", b.kind, err)
		}
		widgets = append(widgets, w)
	}

	for i, gc := range cfg.Grids {
		kind := missioncontrol.WidgetKind(gc.Kind)
		grid, err := missioncontrol.NewWidgetGrid(kind,
			missioncontrol.WithURLTemplate(gc.URLTemplate),
			missioncontrol.WithDimensions(gc.Dimensions),
			missioncontrol.WithGridWidgetOptions(panelOptions(kind, gc.PanelConfig)...),
		)
		if err != nil {
			return nil, fmt.Errorf("grids[%d] (%s): %w", i, gc.Kind, err)
		}
		widgets = append(widgets, grid...)
	}

	return widgets, nil
}

// panelOptions maps the settings that apply to kind onto widget options.
func panelOptions(kind missioncontrol.WidgetKind, pc PanelConfig) []missioncontrol.WidgetOption {
	var opts []missioncontrol.WidgetOption

	switch kind {
	case missioncontrol.WidgetBuildQueue:
		if pc.Size > 0 {
			opts = append(opts, missioncontrol.WithMaxRows(pc.Size))
		}
	case missioncontrol.WidgetNodes:
		if pc.ButtonClass != "" {
			opts = append(opts, missioncontrol.WithButtonClass(pc.ButtonClass))
		}
		opts = append(opts, missioncontrol.WithNodeLabels(pc.OnlineLabel, pc.OfflineLabel))
	case missioncontrol.WidgetBuildHistory:
		if pc.Size > 0 {
			opts = append(opts, missioncontrol.WithMaxRows(pc.Size))
		}
		if pc.Filter != "" {
			opts = append(opts, missioncontrol.WithFilter(pc.Filter))
		}
	case missioncontrol.WidgetJobStatuses:
		if pc.ButtonClass != "" {
			opts = append(opts, missioncontrol.WithButtonClass(pc.ButtonClass))
		}
		if pc.Filter != "" {
			opts = append(opts, missioncontrol.WithFilter(pc.Filter))
		}
		if pc.SortByFailures {
			opts = append(opts, missioncontrol.WithSortByFailures(true))
		}
	}

	if pc.Interval != 0 {
		opts = append(opts, missioncontrol.WithInterval(pc.Interval.Duration()))
	}
	return opts
}

// BuildOptions converts the global settings and widgets of cfg into SDK
// options for [missioncontrol.New]. Callers append their own options, such
// as a logger, after these.
func BuildOptions(cfg *Config) ([]missioncontrol.Option, error) {
	widgets, err := BuildWidgets(cfg)
	if err != nil {
		return nil, err
	}

	opts := []missioncontrol.Option{
		missioncontrol.WithWidgets(widgets...),
		missioncontrol.WithPort(cfg.Port),
		missioncontrol.WithRefreshInterval(cfg.RefreshInterval.Duration()),
		missioncontrol.WithMaxConcurrency(cfg.MaxConcurrency),
		missioncontrol.WithTimeout(cfg.Jenkins.Timeout.Duration()),
	}
	if cfg.Title != "" {
		opts = append(opts, missioncontrol.WithTitle(cfg.Title))
	}
	if cfg.Jenkins.User != "" {
		opts = append(opts, missioncontrol.WithCredentials(cfg.Jenkins.User, cfg.Jenkins.Token))
	}
	return opts, nil
}
