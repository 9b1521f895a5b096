// Standalone mock Jenkins for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockjenkins
//
// Then in another terminal:
//
//	go run ./cmd/missioncontrol serve -c example/config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/missioncontrol/example/mockjenkins"
)

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	every := flag.Duration("step", 3*time.Second, "simulation step interval")
	flag.Parse()

	fmt.Printf("Mock Jenkins starting on %s\n", *addr)
	fmt.Println("Jobs build, fail and recover; agents come and go")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mock := mockjenkins.New(time.Now().UnixNano())
	go mock.Run(ctx, *every)

	srv := &http.Server{Addr: *addr, Handler: mock.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
