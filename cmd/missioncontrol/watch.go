package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/missioncontrol/internal/tui"
	"github.com/spf13/cobra"
)

// watchCmd shows a live dashboard in the terminal.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live dashboard in the terminal",
	Long: `Show the configured panels in the terminal and refresh them on the
global refresh interval. Every panel is refreshed together on each tick,
so per-panel interval settings only apply to serve. No HTTP server is
started.

Keys:
  r       refresh now
  q, esc  quit

Example:
  missioncontrol watch -c config.yaml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addConfigFlag(watchCmd)
	watchCmd.Flags().String("log-file", "", "append JSON logs to this file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the alternate screen owns the terminal, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))

	mc, err := newMissionControl(cfg, logger)
	if err != nil {
		return err
	}
	defer mc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return tui.NewWatch(ctx, mc, mc.RefreshInterval()).Run()
}
