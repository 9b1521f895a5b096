// Package config provides YAML configuration parsing for mission control.
//
// This package enables running mission control as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Release Train
//	port: 8080
//	refresh_interval: 15s
//
//	jenkins:
//	  url: ${JENKINS_URL}
//	  user: ${JENKINS_USER:-}
//	  token: ${JENKINS_TOKEN:-}
//
//	view_url: ${JENKINS_URL}/view/Release
//
//	panels:
//	  build_queue:
//	    size: 10
//	  build_history:
//	    size: 16
//	    filter: "^release-"
//	  job_statuses:
//	    sort_by_failures: true
//	  nodes:
//	    button_class: btn-sm
//
//	grids:
//	  - kind: job_statuses
//	    url_template: "${JENKINS_URL}/view/{{.team}}"
//	    dimensions:
//	      team: [payments, search]
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// minRefreshInterval is the minimum allowed refresh interval. It keeps an
// aggressive config from hammering the Jenkins master.
const minRefreshInterval = 1 * time.Second

const (
	defaultPort            = 8080
	defaultRefreshInterval = 15 * time.Second
	defaultMaxConcurrency  = 4
	defaultTimeout         = 10 * time.Second
)

// Config is the root configuration structure for mission control.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Mission Control" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// RefreshInterval is the time between panel refreshes.
	// Accepts duration strings like "10s", "1m". Defaults to 15s.
	RefreshInterval Duration `yaml:"refresh_interval"`

	// MaxConcurrency bounds how many panels refresh at once. Defaults to 4.
	MaxConcurrency int `yaml:"max_concurrency"`

	// Jenkins is the Jenkins master the queue and node panels read from.
	Jenkins JenkinsConfig `yaml:"jenkins"`

	// ViewURL is the view the history and job status panels read from.
	// Defaults to the Jenkins URL.
	ViewURL string `yaml:"view_url"`

	// Panels configures the four built-in panels.
	Panels PanelsConfig `yaml:"panels"`

	// Grids defines extra view panels that expand via cartesian product.
	Grids []GridConfig `yaml:"grids"`
}

// JenkinsConfig holds the connection settings of the Jenkins master.
type JenkinsConfig struct {
	// URL is the Jenkins root URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// User and Token enable HTTP basic authentication when User is set.
	User  string `yaml:"user"`
	Token string `yaml:"token"`

	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`
}

// PanelsConfig holds one section per built-in panel.
type PanelsConfig struct {
	BuildQueue   PanelConfig `yaml:"build_queue"`
	Nodes        PanelConfig `yaml:"nodes"`
	BuildHistory PanelConfig `yaml:"build_history"`
	JobStatuses  PanelConfig `yaml:"job_statuses"`
}

// PanelConfig holds per-panel settings. Fields that do not apply to a
// panel's kind are ignored.
type PanelConfig struct {
	// Hide removes the panel from the dashboard.
	Hide bool `yaml:"hide"`

	// Title overrides the default panel heading.
	Title string `yaml:"title"`

	// Size is the maximum number of rows (build queue and build history).
	Size int `yaml:"size"`

	// ButtonClass is added to every button (nodes and job statuses).
	ButtonClass string `yaml:"button_class"`

	// Filter is a regular expression jobs must match (build history and job
	// statuses).
	Filter string `yaml:"filter"`

	// SortByFailures orders job buttons by severity (job statuses).
	SortByFailures bool `yaml:"sort_by_failures"`

	// OnlineLabel and OfflineLabel are the node button hover texts.
	OnlineLabel  string `yaml:"online_label"`
	OfflineLabel string `yaml:"offline_label"`

	// Interval is the custom refresh interval for this panel.
	// If not specified, uses the global refresh_interval.
	// Must be between 1s and 1h.
	Interval Duration `yaml:"interval"`
}

// GridConfig defines a panel grid that expands via cartesian product.
//
// For example, with kind job_statuses and dimensions {team: [a, b]},
// the grid expands to 2 job status panels, one per team view.
type GridConfig struct {
	// Kind is the widget kind of every generated panel.
	Kind string `yaml:"kind"`

	// URLTemplate is a Go template for generating source URLs.
	// Dimension keys are available as template variables: {{.team}}
	// Supports environment variable substitution in the template.
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps dimension names to their possible values.
	// The cartesian product of all dimensions generates the panels.
	Dimensions map[string][]string `yaml:"dimensions"`

	// PanelConfig settings apply to every generated panel. Hide and Title
	// are ignored.
	PanelConfig `yaml:",inline"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the Jenkins URL and credentials,
// view_url and grid URL templates. Defaults are applied for Port (8080),
// RefreshInterval (15s), MaxConcurrency (4) and the Jenkins timeout (10s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = Duration(defaultRefreshInterval)
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = defaultMaxConcurrency
	}
	if cfg.Jenkins.Timeout == 0 {
		cfg.Jenkins.Timeout = Duration(defaultTimeout)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.RefreshInterval.Duration() < minRefreshInterval {
		return fmt.Errorf("refresh_interval must be at least %s, got %s", minRefreshInterval, c.RefreshInterval.Duration())
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency)
	}
	if c.Jenkins.Timeout.Duration() < time.Second {
		return fmt.Errorf("jenkins.timeout must be at least 1s, got %s", c.Jenkins.Timeout.Duration())
	}

	if err := c.expandJenkins(); err != nil {
		return err
	}

	if c.ViewURL == "" {
		c.ViewURL = c.Jenkins.URL
	} else {
		expanded, err := expandEnvVars(c.ViewURL)
		if err != nil {
			return fmt.Errorf("view_url: %w", err)
		}
		if err := validateURL(expanded); err != nil {
			return fmt.Errorf("view_url: %w", err)
		}
		c.ViewURL = expanded
	}

	panels := []struct {
		path string
		cfg  *PanelConfig
	}{
		{"panels.build_queue", &c.Panels.BuildQueue},
		{"panels.nodes", &c.Panels.Nodes},
		{"panels.build_history", &c.Panels.BuildHistory},
		{"panels.job_statuses", &c.Panels.JobStatuses},
	}
	visible := 0
	for _, p := range panels {
		if err := validatePanel(p.cfg, p.path); err != nil {
			return err
		}
		if !p.cfg.Hide {
			visible++
		}
	}

	for i := range c.Grids {
		g := &c.Grids[i]
		path := fmt.Sprintf("grids[%d]", i)

		switch g.Kind {
		case "build_queue", "nodes", "build_history", "job_statuses":
		case "":
			return fmt.Errorf("%s: kind is required", path)
		default:
			return fmt.Errorf("%s: unknown kind %q", path, g.Kind)
		}
		path = fmt.Sprintf("grids[%d] (%s)", i, g.Kind)

		if g.URLTemplate == "" {
			return fmt.Errorf("%s: url_template is required", path)
		}
		expanded, err := expandEnvVars(g.URLTemplate)
		if err != nil {
			return fmt.Errorf("%s: url_template: %w", path, err)
		}
		g.URLTemplate = expanded

		// fail fast before SDK tries to use invalid template
		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			return fmt.Errorf("%s: invalid url_template: %w", path, err)
		}

		if len(g.Dimensions) == 0 {
			return fmt.Errorf("%s: at least one dimension is required", path)
		}
		for dimName, dimValues := range g.Dimensions {
			if len(dimValues) == 0 {
				return fmt.Errorf("%s: dimension %q has no values", path, dimName)
			}
			seen := make(map[string]struct{}, len(dimValues))
			for _, v := range dimValues {
				if _, exists := seen[v]; exists {
					return fmt.Errorf("%s: dimension %q has duplicate value %q", path, dimName, v)
				}
				seen[v] = struct{}{}
			}
		}

		if err := validatePanel(&g.PanelConfig, path); err != nil {
			return err
		}
		visible++
	}

	if visible == 0 {
		return errors.New("at least one panel must be visible")
	}

	return nil
}

func (c *Config) expandJenkins() error {
	if c.Jenkins.URL == "" {
		return errors.New("jenkins.url is required")
	}
	expanded, err := expandEnvVars(c.Jenkins.URL)
	if err != nil {
		return fmt.Errorf("jenkins.url: %w", err)
	}
	if err := validateURL(expanded); err != nil {
		return fmt.Errorf("jenkins.url: %w", err)
	}
	c.Jenkins.URL = expanded

	if c.Jenkins.User, err = expandEnvVars(c.Jenkins.User); err != nil {
		return fmt.Errorf("jenkins.user: %w", err)
	}
	if c.Jenkins.Token, err = expandEnvVars(c.Jenkins.Token); err != nil {
		return fmt.Errorf("jenkins.token: %w", err)
	}
	if c.Jenkins.Token != "" && c.Jenkins.User == "" {
		return errors.New("jenkins.token requires jenkins.user")
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme == "" {
		return errors.New("url must have a scheme (http:// or https://)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("url must have a host")
	}
	return nil
}

// validatePanel validates the settings of one panel section.
func validatePanel(p *PanelConfig, path string) error {
	if p.Size < 0 {
		return fmt.Errorf("%s: size must be positive, got %d", path, p.Size)
	}

	if p.Filter != "" {
		if _, err := regexp.Compile(p.Filter); err != nil {
			return fmt.Errorf("%s: invalid filter: %w", path, err)
		}
	}

	if p.Interval != 0 {
		if p.Interval.Duration() < time.Second {
			return fmt.Errorf("%s: interval must be at least 1s, got %s", path, p.Interval.Duration())
		}
		if p.Interval.Duration() > time.Hour {
			return fmt.Errorf("%s: interval must not exceed 1h, got %s", path, p.Interval.Duration())
		}
	}
	return nil
}
