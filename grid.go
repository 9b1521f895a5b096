package missioncontrol

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/template"
)

// NewWidgetGrid creates one widget per combination of dimension values,
// typically one panel per CI view or folder.
//
// The URL template uses Go's text/template syntax. Dimension values are
// path-escaped before interpolation. Missing template keys cause an error.
//
// Each widget is named "kind (val1/val2)" and titled "Title (val1/val2)",
// with values taken in alphabetical key order. Options passed with
// [WithGridWidgetOptions] apply to every widget.
//
// Example:
//
//	widgets, err := missioncontrol.NewWidgetGrid(missioncontrol.WidgetJobStatuses,
//	    missioncontrol.WithURLTemplate("https://ci.example.com/view/{{.team}}"),
//	    missioncontrol.WithDimensions(map[string][]string{
//	        "team": {"platform", "payments"},
//	    }),
//	)
//	// Returns 2 widgets, usable with WithWidgets(widgets...)
func NewWidgetGrid(kind WidgetKind, opts ...GridOption) ([]Widget, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown widget kind %q", kind)
	}

	cfg := &gridConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.urlTemplate == "" {
		return nil, errors.New("URL template required")
	}
	if len(cfg.dimensions) == 0 {
		return nil, errors.New("at least one dimension required")
	}

	// missingkey=error makes a typo in the template fail at build time
	tmpl, err := template.New("url").Option("missingkey=error").Parse(cfg.urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid URL template: %w", err)
	}

	combinations := cartesianProduct(cfg.dimensions)
	widgets := make([]Widget, 0, len(combinations))
	for _, combo := range combinations {
		urlStr, err := executeTemplate(tmpl, pathEscapeMap(combo))
		if err != nil {
			return nil, fmt.Errorf("template execution failed: %w", err)
		}

		suffix := comboSuffix(combo)
		wOpts := make([]WidgetOption, 0, len(cfg.widgetOpts)+2)
		wOpts = append(wOpts,
			WithName(fmt.Sprintf("%s (%s)", kind, suffix)),
			WithWidgetTitle(fmt.Sprintf("%s (%s)", kind.defaultTitle(), suffix)),
		)
		// shared options come last so an explicit title wins
		wOpts = append(wOpts, cfg.widgetOpts...)

		w, err := NewWidget(kind, urlStr, wOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create widget for %s: %w", suffix, err)
		}
		widgets = append(widgets, w)
	}

	return widgets, nil
}

// cartesianProduct generates all combinations of dimension values.
// Keys are iterated alphabetically; values keep their slice order.
//
//	Input:  {"x": ["a","b"], "y": ["1","2"]}
//	Output: [{"x":"a","y":"1"}, {"x":"a","y":"2"}, {"x":"b","y":"1"}, {"x":"b","y":"2"}]
func cartesianProduct(dims map[string][]string) []map[string]string {
	if len(dims) == 0 {
		return nil
	}

	keys := sortedKeys(dims)
	for _, k := range keys {
		if len(dims[k]) == 0 {
			return nil
		}
	}

	total := 1
	for _, k := range keys {
		total *= len(dims[k])
	}
	result := make([]map[string]string, 0, total)

	indices := make([]int, len(keys))
	for {
		combo := make(map[string]string, len(keys))
		for i, k := range keys {
			combo[k] = dims[k][indices[i]]
		}
		result = append(result, combo)

		// odometer increment, rightmost key first
		for i := len(keys) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(dims[keys[i]]) {
				break
			}
			indices[i] = 0
			if i == 0 {
				return result
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pathEscapeMap returns a new map with all values escaped as path segments.
func pathEscapeMap(m map[string]string) map[string]string {
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = url.PathEscape(v)
	}
	return result
}

func executeTemplate(tmpl *template.Template, data map[string]string) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// comboSuffix joins a combination's values in sorted key order: "v1/v2".
func comboSuffix(combo map[string]string) string {
	keys := sortedKeys(combo)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = combo[k]
	}
	return strings.Join(parts, "/")
}
