package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jpalmerr/missioncontrol/internal/tui"
	"github.com/spf13/cobra"
)

// snapshotCmd refreshes every panel once and prints it.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Refresh every panel once and print it",
	Long: `Refresh every configured panel once and print the result as tables.

Panels that fail to refresh are printed empty with the error. With --strict
the command exits non-zero if any panel failed.

Example:
  missioncontrol snapshot -c config.yaml --width 120`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	addConfigFlag(snapshotCmd)
	snapshotCmd.Flags().Int("width", 100, "output width in columns (0 disables wrapping)")
	snapshotCmd.Flags().Bool("strict", false, "exit non-zero if any panel failed")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	strict, _ := cmd.Flags().GetBool("strict")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// refresh failures are shown in the output, not logged
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mc, err := newMissionControl(cfg, logger)
	if err != nil {
		return err
	}
	defer mc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Jenkins.Timeout.Duration()+cfg.RefreshInterval.Duration())
	defer cancel()

	refreshErr := mc.RefreshAll(ctx)

	fmt.Fprintln(cmd.OutOrStdout(), tui.RenderPanels(mc.Panels(), width, tui.DefaultStyles()))

	if strict && refreshErr != nil {
		return fmt.Errorf("refresh failed: %w", refreshErr)
	}
	return nil
}
