package missioncontrol

import (
	"regexp"
	"testing"
)

func TestStripTaskParams(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no params", "deploy-api", "deploy-api"},
		{"matrix axes", "build,os=linux,arch=amd64", "build,linux,amd64"},
		{"leading key", "label=fast", "fast"},
		{"key with underscore", "job,NODE_NAME=agent-1", "job,agent-1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripTaskParams(tt.in); got != tt.want {
				t.Errorf("stripTaskParams(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJobNameFromBuildName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api #42", "api"},
		{"folder » api » main #1234", "folder » api » main"},
		{"release #tag #7", "release #tag"},
		{"no-number", "no-number"},
		{"trailing #abc", "trailing #abc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := jobNameFromBuildName(tt.in); got != tt.want {
				t.Errorf("jobNameFromBuildName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNodeLinkPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"master", "(master)"},
		{"agent-1", "agent-1"},
		{"build agent", "build%20agent"},
		{"rack/a", "rack%2Fa"},
		{"Master", "Master"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := nodeLinkPath(tt.in); got != tt.want {
				t.Errorf("nodeLinkPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	if got := joinURL("https://ci.example.com/", "/queue/api/json"); got != "https://ci.example.com/queue/api/json" {
		t.Errorf("joinURL() = %q", got)
	}
	if got := joinURL("https://ci.example.com", "/api/json"); got != "https://ci.example.com/api/json" {
		t.Errorf("joinURL() = %q", got)
	}
}

func TestJoinClasses(t *testing.T) {
	if got := joinClasses("btn", "", " btn-sm ", "btn-danger"); got != "btn btn-sm btn-danger" {
		t.Errorf("joinClasses() = %q, want %q", got, "btn btn-sm btn-danger")
	}
	if got := joinClasses("", ""); got != "" {
		t.Errorf("joinClasses() = %q, want empty", got)
	}
}

func TestMatchesFilter(t *testing.T) {
	if !matchesFilter(nil, "anything") {
		t.Error("nil filter should match everything")
	}
	filter := regexp.MustCompile("^release-")
	if !matchesFilter(filter, "release-api") {
		t.Error("filter should match release-api")
	}
	if matchesFilter(filter, "api-release") {
		t.Error("filter should not match api-release")
	}
}

func TestSortBySeverity(t *testing.T) {
	jobs := []jobStatusPayload{
		{JobName: "ok1", Status: "SUCCESS"},
		{JobName: "weird", Status: "SOMETHING"},
		{JobName: "off", Status: "DISABLED"},
		{JobName: "broken", Status: "FAILURE"},
		{JobName: "ok2", Status: "SUCCESS"},
		{JobName: "running", Status: "BUILDING"},
		{JobName: "flaky", Status: "UNSTABLE"},
	}

	sortBySeverity(jobs)

	want := []string{"running", "broken", "flaky", "ok1", "ok2", "off", "weird"}
	for i, name := range want {
		if jobs[i].JobName != name {
			t.Errorf("jobs[%d] = %q, want %q (order %v)", i, jobs[i].JobName, name, jobs)
		}
	}
}
