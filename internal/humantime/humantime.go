// Package humantime renders elapsed durations as coarse English phrases.
package humantime

import (
	"fmt"
	"time"
)

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	week   = 7 * day
	month  = 30 * day
	year   = 365 * day

	// A month bucket starts at an average month (365/12 days), not 30 days,
	// so 30 days still reads as "4 weeks ago".
	monthThreshold = 2628000
)

// FormatTimeDifference turns elapsed seconds into "N <unit>(s) ago".
// Negative input is treated as zero.
func FormatTimeDifference(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < minute:
		return ago(seconds, "second")
	case seconds < hour:
		return ago(seconds/minute, "minute")
	case seconds < day:
		return ago(seconds/hour, "hour")
	case seconds < week:
		return ago(seconds/day, "day")
	case seconds < monthThreshold:
		return ago(seconds/week, "week")
	case seconds < year:
		return ago(seconds/month, "month")
	default:
		return ago(seconds/year, "year")
	}
}

// Since formats the time elapsed between t and now.
func Since(t, now time.Time) string {
	return FormatTimeDifference(int64(now.Sub(t) / time.Second))
}

func ago(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
