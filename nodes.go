package missioncontrol

import (
	"context"
	"fmt"
	"strconv"
)

// NodeLabels are the hover texts shown for online and offline nodes.
type NodeLabels struct {
	Online  string
	Offline string
}

// DefaultNodeLabels are used when no labels are configured.
var DefaultNodeLabels = NodeLabels{Online: "Online", Offline: "Offline"}

// NodeStatusRefresher renders one button per build node, coloured by
// availability and linking to the node's page.
type NodeStatusRefresher struct {
	fetcher Fetcher

	// Labels overrides [DefaultNodeLabels]. Empty fields fall back to the
	// default label.
	Labels NodeLabels
}

// NewNodeStatusRefresher creates a [NodeStatusRefresher] that reads through f.
func NewNodeStatusRefresher(f Fetcher) *NodeStatusRefresher {
	return &NodeStatusRefresher{fetcher: f, Labels: DefaultNodeLabels}
}

// Refresh fetches {jenkinsURL}/computer/api/json and replaces every button
// in target with one button per node. buttonClass is added to each button
// (for example a size class such as "btn-sm").
func (r *NodeStatusRefresher) Refresh(ctx context.Context, target Container, jenkinsURL, buttonClass string) error {
	var payload computerPayload
	if err := r.fetcher.FetchJSON(ctx, joinURL(jenkinsURL, "/computer/api/json"), &payload); err != nil {
		return fmt.Errorf("node status: %w", err)
	}

	target.RemoveAll(ElementButton)
	for _, node := range payload.Computer {
		status, title := "btn-success", r.label(r.Labels.Online, DefaultNodeLabels.Online)
		if node.Offline {
			status, title = "btn-danger", r.label(r.Labels.Offline, DefaultNodeLabels.Offline)
		}
		target.Append(Element{
			Kind:  ElementButton,
			Class: joinClasses("btn", buttonClass, status),
			Label: node.DisplayName + " / " + strconv.Itoa(node.NumExecutors),
			Title: title,
			Href:  joinURL(jenkinsURL, "/computer/"+nodeLinkPath(node.DisplayName)+"/"),
		})
	}
	return nil
}

func (r *NodeStatusRefresher) label(configured, fallback string) string {
	if configured == "" {
		return fallback
	}
	return configured
}
