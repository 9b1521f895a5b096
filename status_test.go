package missioncontrol

import "testing"

func TestBuildResult_RowClass(t *testing.T) {
	tests := []struct {
		result    BuildResult
		wantClass string
		wantOK    bool
	}{
		{ResultSuccess, "", true},
		{ResultFailure, "danger", true},
		{ResultAborted, "warning", true},
		{ResultUnstable, "warning", true},
		{ResultBuilding, "info invert-text", true},
		{"NOT_BUILT", "", false},
		{"", "", false},
		{"success", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.result), func(t *testing.T) {
			class, ok := tt.result.RowClass()
			if class != tt.wantClass || ok != tt.wantOK {
				t.Errorf("RowClass() = (%q, %v), want (%q, %v)", class, ok, tt.wantClass, tt.wantOK)
			}
		})
	}
}

func TestJobState_ButtonClass(t *testing.T) {
	tests := []struct {
		state     JobState
		wantClass string
		wantOK    bool
	}{
		{JobSuccess, "btn-success", true},
		{JobFailure, "btn-danger", true},
		{JobAborted, "btn-warning", true},
		{JobUnstable, "btn-warning", true},
		{JobDisabled, "invert-text", true},
		{JobNotBuilt, "invert-text", true},
		{JobBuilding, "btn-info invert-text", true},
		{JobUnknown, "btn-primary", false},
		{"WEIRD", "btn-primary", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			class, ok := tt.state.ButtonClass()
			if class != tt.wantClass || ok != tt.wantOK {
				t.Errorf("ButtonClass() = (%q, %v), want (%q, %v)", class, ok, tt.wantClass, tt.wantOK)
			}
		})
	}
}

func TestJobState_SeverityOrder(t *testing.T) {
	order := []JobState{JobBuilding, JobFailure, JobUnstable, JobAborted, JobSuccess, JobNotBuilt, JobDisabled, JobUnknown}

	for i := 1; i < len(order); i++ {
		if order[i-1].severity() >= order[i].severity() {
			t.Errorf("severity(%s) = %d should sort before severity(%s) = %d",
				order[i-1], order[i-1].severity(), order[i], order[i].severity())
		}
	}
}
