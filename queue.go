package missioncontrol

import (
	"context"
	"fmt"
	"time"
)

// BuildQueueRefresher renders the tasks waiting in the CI server's build
// queue as table rows: task link, time queued and time spent waiting.
type BuildQueueRefresher struct {
	fetcher Fetcher
	now     func() time.Time
}

// NewBuildQueueRefresher creates a [BuildQueueRefresher] that reads through f.
func NewBuildQueueRefresher(f Fetcher) *BuildQueueRefresher {
	return &BuildQueueRefresher{fetcher: f, now: time.Now}
}

// Refresh fetches {jenkinsURL}/queue/api/json and replaces every row in
// target with at most maxRows queued tasks, in payload order.
//
// If the fetch fails the error is returned and target is left untouched.
func (r *BuildQueueRefresher) Refresh(ctx context.Context, target Container, jenkinsURL string, maxRows int) error {
	var payload queuePayload
	if err := r.fetcher.FetchJSON(ctx, joinURL(jenkinsURL, "/queue/api/json"), &payload); err != nil {
		return fmt.Errorf("build queue: %w", err)
	}

	now := r.now()
	target.RemoveAll(ElementRow)
	for i, item := range payload.Items {
		if i >= maxRows {
			break
		}
		waiting := now.UnixMilli() - item.InQueueSince
		target.Append(Element{
			Kind: ElementRow,
			Cells: []Cell{
				{Text: stripTaskParams(item.Task.Name), Href: item.Task.URL},
				{Text: FormatDate(msToTime(item.InQueueSince))},
				{Text: FormatInterval(waiting)},
			},
		})
	}
	return nil
}
