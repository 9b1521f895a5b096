package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bndr/gojenkins"
	"github.com/jpalmerr/missioncontrol/config"
	"github.com/spf13/cobra"
)

// probeCmd checks that the configured Jenkins master is reachable.
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check the Jenkins connection",
	Long: `Connect to the configured Jenkins master with its credentials and print
its version, node availability, queue length and job count.

Example:
  missioncontrol probe -c config.yaml`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	addConfigFlag(probeCmd)
}

// probeReport summarises a Jenkins master.
type probeReport struct {
	URL         string
	Version     string
	Nodes       int
	NodesOnline int
	Executors   int
	Queued      int
	Jobs        int
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Jenkins.Timeout.Duration())
	defer cancel()

	report, err := probe(ctx, cfg.Jenkins)
	if err != nil {
		return err
	}
	report.write(cmd.OutOrStdout())
	return nil
}

func probe(ctx context.Context, jc config.JenkinsConfig) (probeReport, error) {
	client := &http.Client{Timeout: jc.Timeout.Duration()}

	var jenkins *gojenkins.Jenkins
	if jc.User != "" {
		jenkins = gojenkins.CreateJenkins(client, jc.URL, jc.User, jc.Token)
	} else {
		jenkins = gojenkins.CreateJenkins(client, jc.URL)
	}
	if _, err := jenkins.Init(ctx); err != nil {
		return probeReport{}, fmt.Errorf("failed to connect to Jenkins: %w", err)
	}

	report := probeReport{URL: jc.URL, Version: jenkins.Version}

	nodes, err := jenkins.GetAllNodes(ctx)
	if err != nil {
		return probeReport{}, fmt.Errorf("failed to get nodes: %w", err)
	}
	report.Nodes = len(nodes)
	for _, n := range nodes {
		if n.Raw == nil {
			continue
		}
		if !n.Raw.Offline {
			report.NodesOnline++
		}
		report.Executors += int(n.Raw.NumExecutors)
	}

	queue, err := jenkins.GetQueue(ctx)
	if err != nil {
		return probeReport{}, fmt.Errorf("failed to get queue: %w", err)
	}
	report.Queued = len(queue.Tasks())

	jobs, err := jenkins.GetAllJobNames(ctx)
	if err != nil {
		return probeReport{}, fmt.Errorf("failed to get jobs: %w", err)
	}
	report.Jobs = len(jobs)

	return report, nil
}

func (r probeReport) write(w io.Writer) {
	version := r.Version
	if version == "" {
		version = "unknown"
	}
	fmt.Fprintf(w, "Jenkins %s at %s\n", version, r.URL)
	fmt.Fprintf(w, "  Nodes:     %d (%d online, %d executors)\n", r.Nodes, r.NodesOnline, r.Executors)
	fmt.Fprintf(w, "  Queued:    %d\n", r.Queued)
	fmt.Fprintf(w, "  Jobs:      %d\n", r.Jobs)
}
