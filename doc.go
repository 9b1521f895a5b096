// Package missioncontrol provides an embeddable "mission control" dashboard
// for a Jenkins CI server.
//
// Four panels are supported, each backed by a refresher that fetches one
// JSON endpoint and redraws its panel from scratch:
//
//   - Build queue ([BuildQueueRefresher]): tasks waiting to run
//   - Nodes ([NodeStatusRefresher]): build agents and their availability
//   - Build history ([BuildHistoryRefresher]): the most recent builds of a view
//   - Job statuses ([JobStatusRefresher]): the current state of every job in a view
//
// # Quick Start
//
//	queue, _ := missioncontrol.NewBuildQueueWidget("https://ci.example.com")
//	jobs, _ := missioncontrol.NewJobStatusWidget("https://ci.example.com/view/ops",
//	    missioncontrol.WithSortByFailures(true),
//	)
//	mc, _ := missioncontrol.New(
//	    missioncontrol.WithWidgets(queue, jobs),
//	    missioncontrol.WithCredentials("ci-bot", os.Getenv("JENKINS_TOKEN")),
//	)
//	defer mc.Close()
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	mc.Start(ctx) // blocks until context is cancelled
//
// # Refreshers
//
// Refreshers can also be used on their own. Each renders into a [Container];
// [Panel] is the in-memory implementation:
//
//	panel := missioncontrol.NewPanel()
//	r := missioncontrol.NewNodeStatusRefresher(missioncontrol.NewHTTPFetcher(0, nil))
//	if err := r.Refresh(ctx, panel, "https://ci.example.com", "btn-sm"); err != nil {
//	    // panel still holds the previous render
//	}
//
// A failed fetch leaves the container untouched. Unknown build results and
// job states are rendered with a fallback style and logged at Warn.
//
// # Architecture
//
//   - internal/poller: HTTP client and refresh scheduler with a worker pool
//   - internal/store: panel snapshots with pub/sub for real-time updates
//   - internal/server: HTTP server with REST API, HTML fragments and SSE
//   - internal/tui: terminal rendering and live watch view
//   - dashboard: embedded web UI assets
package missioncontrol
