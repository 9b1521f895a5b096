package missioncontrol

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
)

// BuildHistoryRefresher renders the most recent builds of a view as table
// rows: job name, build link, completion time and duration.
type BuildHistoryRefresher struct {
	fetcher Fetcher
	logger  *slog.Logger

	// Filter, when set, keeps only builds whose full job name matches.
	// Folder paths are matched slash separated ("team/api"). It is applied
	// before the row limit.
	Filter *regexp.Regexp
}

// NewBuildHistoryRefresher creates a [BuildHistoryRefresher] that reads
// through f and reports unmapped build results to logger.
func NewBuildHistoryRefresher(f Fetcher, logger *slog.Logger) *BuildHistoryRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildHistoryRefresher{fetcher: f, logger: logger}
}

// Refresh fetches {viewURL}/api/json and replaces every row in target with
// at most maxRows builds, in payload order.
func (r *BuildHistoryRefresher) Refresh(ctx context.Context, target Container, viewURL string, maxRows int) error {
	var payload buildHistoryPayload
	if err := r.fetcher.FetchJSON(ctx, joinURL(viewURL, "/api/json"), &payload); err != nil {
		return fmt.Errorf("build history: %w", err)
	}

	target.RemoveAll(ElementRow)
	rows := 0
	for _, b := range payload.Builds {
		if rows >= maxRows {
			break
		}
		jobName := b.JobName
		if b.BuildName != "" {
			jobName = jobNameFromBuildName(b.BuildName)
		}
		if !matchesFilter(r.Filter, jobFullName(jobName)) {
			continue
		}

		class, ok := BuildResult(b.Result).RowClass()
		if !ok {
			r.logger.Warn("unmapped build result", "job", jobName, "result", b.Result)
		}

		target.Append(Element{
			Kind:  ElementRow,
			Class: class,
			Cells: []Cell{
				{Text: jobName},
				{Text: strconv.Itoa(b.Number), Href: b.BuildURL},
				{Text: FormatDate(msToTime(b.StartTime + b.Duration))},
				{Text: FormatInterval(b.Duration)},
			},
		})
		rows++
	}
	return nil
}
