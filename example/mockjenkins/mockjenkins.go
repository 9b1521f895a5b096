// Package mockjenkins simulates the parts of a Jenkins master that mission
// control reads: the build queue, the node list and view pages carrying
// build history and job statuses.
//
// Jobs build, fail and recover on every [Server.Step], so a dashboard
// pointed at the mock keeps changing.
package mockjenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Version is reported in the X-Jenkins header.
const Version = "2.440.3"

const maxBuilds = 50

type job struct {
	name   string
	status string
}

type node struct {
	name      string
	offline   bool
	executors int
}

type queued struct {
	name  string
	since time.Time
}

type build struct {
	job      string
	number   int
	start    time.Time
	duration time.Duration
	result   string
}

// Server is a simulated Jenkins master. It is safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	rng     *rand.Rand
	now     func() time.Time
	jobs    []job
	nodes   []node
	queue   []queued
	builds  []build
	numbers map[string]int
	base    string
}

// New creates a mock seeded with a fixed set of jobs and nodes. The seed
// makes a run reproducible.
func New(seed int64) *Server {
	s := &Server{
		rng:     rand.New(rand.NewSource(seed)),
		now:     time.Now,
		numbers: make(map[string]int),
		nodes: []node{
			{name: "master", executors: 2},
			{name: "linux-agent-1", executors: 4},
			{name: "linux-agent-2", executors: 4},
			{name: "macos agent", executors: 2, offline: true},
		},
	}
	for _, name := range []string{
		"payments-api", "payments-worker", "search-indexer", "search-web",
		"release-train", "nightly-e2e", "docs-site",
	} {
		s.jobs = append(s.jobs, job{name: name, status: "SUCCESS"})
	}
	s.jobs[len(s.jobs)-1].status = "DISABLED"
	for _, j := range s.jobs {
		s.recordBuildLocked(j.name, s.now())
	}
	for i := 0; i < 12; i++ {
		s.stepLocked()
	}
	return s
}

// Handler returns the mock's HTTP routes. URLs inside payloads are built
// from the request host.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/json", s.handleView)
	mux.HandleFunc("/view/{view}/api/json", s.handleView)
	mux.HandleFunc("/queue/api/json", s.handleQueue)
	mux.HandleFunc("/computer/api/json", s.handleComputers)
	return mux
}

// Run advances the simulation every interval until ctx is cancelled.
func (s *Server) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step advances the simulation by one event.
func (s *Server) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepLocked()
}

func (s *Server) stepLocked() {
	now := s.now()

	switch s.rng.Intn(4) {
	case 0:
		// queue a build, sometimes with parameters
		j := s.jobs[s.rng.Intn(len(s.jobs))]
		name := j.name
		if s.rng.Intn(2) == 0 {
			name += ",env=prod"
		}
		s.queue = append(s.queue, queued{name: name, since: now.Add(-time.Duration(s.rng.Intn(120)) * time.Second)})
	case 1:
		// an agent flaps
		i := 1 + s.rng.Intn(len(s.nodes)-1)
		s.nodes[i].offline = !s.nodes[i].offline
	default:
		s.finishBuildLocked(now)
	}
}

// finishBuildLocked builds the head of the queue, or a random job.
func (s *Server) finishBuildLocked(now time.Time) {
	var name string
	if len(s.queue) > 0 {
		name, _, _ = strings.Cut(s.queue[0].name, ",")
		s.queue = s.queue[1:]
	} else {
		name = s.jobs[s.rng.Intn(len(s.jobs))].name
	}
	s.recordBuildLocked(name, now)
}

// recordBuildLocked appends a finished build with a random result. Disabled
// jobs do not build.
func (s *Server) recordBuildLocked(name string, now time.Time) {
	results := []string{"SUCCESS", "SUCCESS", "SUCCESS", "FAILURE", "UNSTABLE", "ABORTED"}
	result := results[s.rng.Intn(len(results))]

	for i := range s.jobs {
		if s.jobs[i].name != name || s.jobs[i].status == "DISABLED" {
			continue
		}
		s.jobs[i].status = result
		s.numbers[name]++
		duration := time.Duration(10+s.rng.Intn(900)) * time.Second
		b := build{
			job:      name,
			number:   s.numbers[name],
			start:    now.Add(-duration),
			duration: duration,
			result:   result,
		}
		s.builds = append([]build{b}, s.builds...)
		if len(s.builds) > maxBuilds {
			s.builds = s.builds[:maxBuilds]
		}
		slog.Debug("build finished", "job", name, "number", b.number, "result", result)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Jenkins", Version)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func baseURL(r *http.Request) string {
	return "http://" + r.Host
}

// handleView serves a view page: the job list, the build history and the
// job statuses of every job whose name starts with "{view}-". The root
// page and the "All" view carry every job.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view := r.PathValue("view")
	match := func(name string) bool {
		return view == "" || strings.EqualFold(view, "all") || strings.HasPrefix(name, view+"-")
	}
	base := baseURL(r)

	type jobRef struct {
		Name  string `json:"name"`
		URL   string `json:"url"`
		Color string `json:"color"`
	}
	type buildRef struct {
		JobName   string `json:"jobName"`
		BuildName string `json:"buildName"`
		Number    int    `json:"number"`
		BuildURL  string `json:"buildUrl"`
		StartTime int64  `json:"startTime"`
		Duration  int64  `json:"duration"`
		Result    string `json:"result"`
	}
	type status struct {
		JobName string `json:"jobName"`
		JobURL  string `json:"jobUrl"`
		Status  string `json:"status"`
	}
	payload := struct {
		Jobs            []jobRef   `json:"jobs"`
		Builds          []buildRef `json:"builds"`
		AllJobsStatuses []status   `json:"allJobsStatuses"`
	}{
		Jobs:            []jobRef{},
		Builds:          []buildRef{},
		AllJobsStatuses: []status{},
	}

	s.mu.Lock()
	for _, j := range s.jobs {
		if !match(j.name) {
			continue
		}
		url := fmt.Sprintf("%s/job/%s/", base, j.name)
		payload.Jobs = append(payload.Jobs, jobRef{Name: j.name, URL: url, Color: color(j.status)})
		payload.AllJobsStatuses = append(payload.AllJobsStatuses, status{JobName: j.name, JobURL: url, Status: j.status})
	}
	for _, b := range s.builds {
		if !match(b.job) {
			continue
		}
		payload.Builds = append(payload.Builds, buildRef{
			JobName:   b.job,
			BuildName: fmt.Sprintf("%s #%d", b.job, b.number),
			Number:    b.number,
			BuildURL:  fmt.Sprintf("%s/job/%s/%d/", base, b.job, b.number),
			StartTime: b.start.UnixMilli(),
			Duration:  b.duration.Milliseconds(),
			Result:    b.result,
		})
	}
	s.mu.Unlock()

	s.writeJSON(w, payload)
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	type task struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	type item struct {
		ID           int   `json:"id"`
		Task         task  `json:"task"`
		InQueueSince int64 `json:"inQueueSince"`
	}
	payload := struct {
		Items []item `json:"items"`
	}{Items: []item{}}

	base := baseURL(r)
	s.mu.Lock()
	for i, q := range s.queue {
		name, _, _ := strings.Cut(q.name, ",")
		payload.Items = append(payload.Items, item{
			ID:           i + 1,
			Task:         task{Name: q.name, URL: fmt.Sprintf("%s/job/%s/", base, name)},
			InQueueSince: q.since.UnixMilli(),
		})
	}
	s.mu.Unlock()

	s.writeJSON(w, payload)
}

func (s *Server) handleComputers(w http.ResponseWriter, r *http.Request) {
	type computer struct {
		DisplayName  string `json:"displayName"`
		Offline      bool   `json:"offline"`
		NumExecutors int    `json:"numExecutors"`
	}
	payload := struct {
		Computer []computer `json:"computer"`
	}{}

	s.mu.Lock()
	for _, n := range s.nodes {
		payload.Computer = append(payload.Computer, computer{
			DisplayName:  n.name,
			Offline:      n.offline,
			NumExecutors: n.executors,
		})
	}
	s.mu.Unlock()

	s.writeJSON(w, payload)
}

// color maps a status to the ball colour of the Jenkins job list.
func color(status string) string {
	switch status {
	case "SUCCESS":
		return "blue"
	case "FAILURE":
		return "red"
	case "UNSTABLE":
		return "yellow"
	case "ABORTED":
		return "aborted"
	case "DISABLED":
		return "disabled"
	default:
		return "notbuilt"
	}
}
