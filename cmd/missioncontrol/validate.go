package main

import (
	"fmt"

	"github.com/jpalmerr/missioncontrol/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a mission control configuration file without starting the server.

This command parses the YAML, expands environment variables, validates all
fields and builds every panel. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  missioncontrol validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addConfigFlag(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	widgets, err := config.BuildWidgets(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	gridPanels := 0
	for _, g := range cfg.Grids {
		size := 1
		for _, vals := range g.Dimensions {
			size *= len(vals)
		}
		gridPanels += size
	}
	builtin := len(widgets) - gridPanels

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Jenkins:          %s\n", cfg.Jenkins.URL)
	fmt.Fprintf(out, "  Port:             %d\n", cfg.Port)
	fmt.Fprintf(out, "  Refresh interval: %s\n", cfg.RefreshInterval.Duration())
	fmt.Fprintf(out, "  Panels:           %d built-in + %d from grids = %d total\n",
		builtin, gridPanels, len(widgets))
	for _, w := range widgets {
		fmt.Fprintf(out, "    - %s (%s)\n", w.Name(), w.SourceURL())
	}

	return nil
}
