// Package main is the entry point for the missioncontrol CLI.
//
// Mission control can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	missioncontrol serve -c config.yaml    # Start the dashboard
//	missioncontrol watch -c config.yaml    # Live dashboard in the terminal
//	missioncontrol snapshot -c config.yaml # Refresh once and print the panels
//	missioncontrol probe -c config.yaml    # Check the Jenkins connection
//	missioncontrol validate -c config.yaml # Validate configuration
//	missioncontrol version                 # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jpalmerr/missioncontrol"
	"github.com/jpalmerr/missioncontrol/config"
	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "missioncontrol",
	Short: "A wallboard for Jenkins",
	Long: `Mission control is a wallboard for a Jenkins master.

It shows the build queue, node availability, recent builds and the status
of every job of a view, refreshed on an interval and pushed to the browser
with Server-Sent Events.

Quick start:
  1. Create a config file (missioncontrol.yaml)
  2. Run: missioncontrol serve -c missioncontrol.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  refresh_interval: 15s
  jenkins:
    url: https://ci.example.com
    user: ${JENKINS_USER:-}
    token: ${JENKINS_TOKEN:-}`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this missioncontrol binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "missioncontrol %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// addConfigFlag registers the required --config flag on cmd.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")
}

// loadConfig loads the file named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newMissionControl builds a MissionControl from cfg. extra options are
// applied after the config's own.
func newMissionControl(cfg *config.Config, logger *slog.Logger, extra ...missioncontrol.Option) (*missioncontrol.MissionControl, error) {
	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build panels: %w", err)
	}
	opts = append(opts, missioncontrol.WithLogger(logger))
	opts = append(opts, extra...)

	mc, err := missioncontrol.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mission control: %w", err)
	}
	return mc, nil
}
