package missioncontrol

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// taskParamPattern matches "key=" tokens in a queued task name. The
// optional leading comma is captured so it survives the replacement.
var taskParamPattern = regexp.MustCompile(`(,?)\w*=`)

// buildNumberSuffix matches the " #<number>" suffix of a build display name.
var buildNumberSuffix = regexp.MustCompile(` #\d+$`)

// masterNodeName is the display name of the built-in node, whose computer
// page lives at the literal path "(master)".
const masterNodeName = "master"

// folderSeparator joins folder and job names in display names.
const folderSeparator = " » "

// stripTaskParams removes "key=" tokens from a queued task name, turning
// "deploy,env=prod,region=eu" into "deploy,prod,eu".
func stripTaskParams(name string) string {
	return taskParamPattern.ReplaceAllString(name, "${1}")
}

// jobNameFromBuildName strips a trailing " #<number>" from a build's full
// display name ("api » main #42" becomes "api » main").
func jobNameFromBuildName(buildName string) string {
	return buildNumberSuffix.ReplaceAllString(buildName, "")
}

// jobFullName turns a folder display path ("team » api") into the slash
// separated full name Jenkins uses for nested jobs ("team/api").
func jobFullName(displayName string) string {
	return strings.ReplaceAll(displayName, folderSeparator, "/")
}

// nodeLinkPath returns the path segment of a node's computer page.
func nodeLinkPath(displayName string) string {
	if displayName == masterNodeName {
		return "(" + masterNodeName + ")"
	}
	return url.PathEscape(displayName)
}

// joinURL appends path to base, tolerating a trailing slash on base.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// joinClasses joins non-empty style classes with single spaces.
func joinClasses(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// matchesFilter reports whether name passes an optional job name filter.
func matchesFilter(filter *regexp.Regexp, name string) bool {
	return filter == nil || filter.MatchString(name)
}

// sortBySeverity orders job statuses failures first. The sort is stable so
// jobs with the same state keep their payload order. Statuses are expected
// upper-cased.
func sortBySeverity(jobs []jobStatusPayload) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return JobState(jobs[i].Status).severity() < JobState(jobs[j].Status).severity()
	})
}
