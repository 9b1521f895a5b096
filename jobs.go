package missioncontrol

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// JobStatusRefresher renders one button per job of a view, coloured by the
// job's current state. Activating a button opens the job page.
type JobStatusRefresher struct {
	fetcher Fetcher
	logger  *slog.Logger

	// Filter, when set, keeps only jobs whose name matches.
	Filter *regexp.Regexp

	// SortByFailures orders buttons building first, then failed, unstable,
	// aborted, successful, not built and disabled jobs.
	SortByFailures bool
}

// NewJobStatusRefresher creates a [JobStatusRefresher] that reads through f
// and reports unmapped job states to logger.
func NewJobStatusRefresher(f Fetcher, logger *slog.Logger) *JobStatusRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobStatusRefresher{fetcher: f, logger: logger}
}

// Refresh fetches {viewURL}/api/json and replaces every button in target
// with one button per entry of allJobsStatuses.
func (r *JobStatusRefresher) Refresh(ctx context.Context, target Container, viewURL, buttonClass string) error {
	var payload jobStatusesPayload
	if err := r.fetcher.FetchJSON(ctx, joinURL(viewURL, "/api/json"), &payload); err != nil {
		return fmt.Errorf("job statuses: %w", err)
	}

	jobs := make([]jobStatusPayload, 0, len(payload.AllJobsStatuses))
	for _, j := range payload.AllJobsStatuses {
		if matchesFilter(r.Filter, j.JobName) {
			j.Status = strings.ToUpper(j.Status)
			jobs = append(jobs, j)
		}
	}
	if r.SortByFailures {
		sortBySeverity(jobs)
	}

	target.RemoveAll(ElementButton)
	for _, j := range jobs {
		status, ok := JobState(j.Status).ButtonClass()
		if !ok {
			r.logger.Warn("unmapped job status", "job", j.JobName, "status", j.Status)
		}
		target.Append(Element{
			Kind:     ElementButton,
			Class:    joinClasses("btn", buttonClass, status),
			Label:    j.JobName,
			Navigate: j.JobURL,
		})
	}
	return nil
}
