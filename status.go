package missioncontrol

// BuildResult is the outcome of a single build as reported by the
// build history endpoint.
//
// BuildResult is a string type so that values the server reports which are
// not among the predefined constants survive decoding and can be logged.
type BuildResult string

const (
	ResultSuccess  BuildResult = "SUCCESS"
	ResultFailure  BuildResult = "FAILURE"
	ResultAborted  BuildResult = "ABORTED"
	ResultUnstable BuildResult = "UNSTABLE"
	ResultBuilding BuildResult = "BUILDING"
)

// String implements fmt.Stringer.
func (r BuildResult) String() string {
	return string(r)
}

// RowClass returns the table row style class for the result.
//
// ok is false for results that have no mapping; the returned class is then
// the empty fallback and the caller is expected to log a diagnostic.
func (r BuildResult) RowClass() (class string, ok bool) {
	switch r {
	case ResultSuccess:
		return "", true
	case ResultFailure:
		return "danger", true
	case ResultAborted, ResultUnstable:
		return "warning", true
	case ResultBuilding:
		return "info invert-text", true
	default:
		return "", false
	}
}

// JobState is the current state of a job as reported by the job statuses
// endpoint.
type JobState string

const (
	JobSuccess  JobState = "SUCCESS"
	JobFailure  JobState = "FAILURE"
	JobAborted  JobState = "ABORTED"
	JobUnstable JobState = "UNSTABLE"
	JobDisabled JobState = "DISABLED"
	JobNotBuilt JobState = "NOTBUILT"
	JobBuilding JobState = "BUILDING"
	JobUnknown  JobState = "UNKNOWN"
)

// String implements fmt.Stringer.
func (s JobState) String() string {
	return string(s)
}

// ButtonClass returns the button style class for the state.
//
// ok is false for states without a mapping, including [JobUnknown]; the
// fallback class is "btn-primary".
func (s JobState) ButtonClass() (class string, ok bool) {
	switch s {
	case JobSuccess:
		return "btn-success", true
	case JobFailure:
		return "btn-danger", true
	case JobAborted, JobUnstable:
		return "btn-warning", true
	case JobDisabled, JobNotBuilt:
		return "invert-text", true
	case JobBuilding:
		return "btn-info invert-text", true
	default:
		return "btn-primary", false
	}
}

// severity orders states for the failures-first sort. Lower sorts first.
func (s JobState) severity() int {
	switch s {
	case JobBuilding:
		return 1
	case JobFailure:
		return 2
	case JobUnstable:
		return 3
	case JobAborted:
		return 4
	case JobSuccess:
		return 5
	case JobNotBuilt:
		return 6
	case JobDisabled:
		return 7
	default:
		return 8
	}
}
