package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/missioncontrol"
	"github.com/jpalmerr/missioncontrol/example/mockjenkins"
)

const jenkinsURL = "http://localhost:9999"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start mock Jenkins (see mockjenkins/)
	mock := mockjenkins.New(time.Now().UnixNano())
	go mock.Run(ctx, 3*time.Second)
	go func() {
		srv := &http.Server{Addr: ":9999", Handler: mock.Handler(), ReadHeaderTimeout: 5 * time.Second}
		if err := srv.ListenAndServe(); err != nil {
			slog.Error("mock jenkins error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	queue, _ := missioncontrol.NewBuildQueueWidget(jenkinsURL)
	nodes, _ := missioncontrol.NewNodeStatusWidget(jenkinsURL, missioncontrol.WithButtonClass("btn-sm"))
	history, _ := missioncontrol.NewBuildHistoryWidget(jenkinsURL)
	jobs, _ := missioncontrol.NewJobStatusWidget(jenkinsURL,
		missioncontrol.WithSortByFailures(true),
		missioncontrol.WithInterval(10*time.Second),
	)

	// grid API: one job status panel per team view
	teams, err := missioncontrol.NewWidgetGrid(missioncontrol.WidgetJobStatuses,
		missioncontrol.WithURLTemplate(jenkinsURL+"/view/{{.team}}"),
		missioncontrol.WithDimensions(map[string][]string{
			"team": {"payments", "search"},
		}),
		missioncontrol.WithGridWidgetOptions(missioncontrol.WithButtonClass("btn-sm")),
	)
	if err != nil {
		slog.Error("failed to create widget grid", "error", err)
		os.Exit(1)
	}

	mc, err := missioncontrol.New(
		missioncontrol.WithWidgets(queue, nodes, history, jobs),
		missioncontrol.WithWidgets(teams...),
		missioncontrol.WithRefreshInterval(5*time.Second),
		missioncontrol.WithPort(8080),
		missioncontrol.WithTitle("Mission Control Demo"),
		missioncontrol.WithRefreshCallback(func(r missioncontrol.RefreshResult) {
			if r.Error != nil {
				slog.Warn("panel stale", "panel", r.Panel, "error", r.Error)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create mission control", "error", err)
		os.Exit(1)
	}
	defer mc.Close()

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Mission Control Demo                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Panels:                                             ║")
	fmt.Println("  ║   • queue, nodes, history and job statuses            ║")
	fmt.Println("  ║   • 2 team views via Grid                             ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	if err := mc.Start(ctx); err != nil {
		slog.Error("mission control error", "error", err)
		os.Exit(1)
	}
}
