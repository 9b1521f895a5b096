package missioncontrol

import (
	"testing"
	"time"
)

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{"zero", 0, "0ms"},
		{"sub second", 500, "500ms"},
		{"just below a second", 999, "999ms"},
		{"exactly one second", 1000, ""},
		{"just over a second", 1001, "1s"},
		{"seconds", 45000, "45s"},
		{"exactly one minute", 60000, "60s"},
		{"minute and a half", 90000, "1m 30s"},
		{"whole minutes", 120000, "2m"},
		{"exactly one hour", 3600000, "60m"},
		{"hour minute second", 3723000, "1h 2m 3s"},
		{"exactly one day", 86400000, "24h"},
		{"day and an hour", 90000000, "1d 60m"},
		{"day hour minute second", 90061001, "1d 1h 1m 1s"},
		{"negative", -20, "-20ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatInterval(tt.ms)
			if got != tt.want {
				t.Errorf("FormatInterval(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "single digit fields are zero padded",
			in:   time.Date(2024, time.March, 7, 9, 5, 1, 0, time.Local),
			want: "2024-03-07 09:05:01",
		},
		{
			name: "two digit fields",
			in:   time.Date(2023, time.December, 31, 23, 59, 58, 0, time.Local),
			want: "2023-12-31 23:59:58",
		},
		{
			name: "calendar month and day of month",
			in:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local),
			want: "2024-01-01 00:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDate(tt.in)
			if got != tt.want {
				t.Errorf("FormatDate(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDate_ConvertsToLocal(t *testing.T) {
	in := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	want := in.In(time.Local).Format("2006-01-02 15:04:05")

	if got := FormatDate(in); got != want {
		t.Errorf("FormatDate(%v) = %q, want %q", in, got, want)
	}
}
