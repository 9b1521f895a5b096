package missioncontrol

import (
	"strconv"
	"strings"
	"time"
)

// dateLayout renders calendar month and day of month, every field two digits.
const dateLayout = "2006-01-02 15:04:05"

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// FormatDate renders t in the host's local time as "YYYY-MM-DD HH:MM:SS".
func FormatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// FormatInterval renders a duration given in milliseconds as a compact
// human-readable string such as "1d 2h 3m 4s" or "500ms".
//
// Units are emitted only when the remaining duration is strictly greater
// than one unit, so exact boundaries fall through to the next smaller unit:
// 60000 renders as "60s" and 1000 renders as the empty string.
func FormatInterval(ms int64) string {
	if ms < msPerSecond {
		return strconv.FormatInt(ms, 10) + "ms"
	}

	parts := make([]string, 0, 4)
	units := []struct {
		size   int64
		suffix string
	}{
		{msPerDay, "d"},
		{msPerHour, "h"},
		{msPerMinute, "m"},
	}
	for _, u := range units {
		if ms > u.size {
			parts = append(parts, strconv.FormatInt(ms/u.size, 10)+u.suffix)
			ms %= u.size
		}
	}
	if ms > msPerSecond {
		parts = append(parts, strconv.FormatInt(ms/msPerSecond, 10)+"s")
	}

	return strings.Join(parts, " ")
}

// msToTime converts epoch milliseconds to a time.Time.
func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
