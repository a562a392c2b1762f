package quota

import (
	"time"
)

// BucketKey returns the deterministic window key for now in UTC:
// hourly windows key as YYYY-MM-DD-HH, daily windows as YYYY-MM-DD.
func BucketKey(now time.Time, w Window) string {
	now = now.UTC()
	if w == WindowDaily {
		return now.Format("2006-01-02")
	}
	return now.Format("2006-01-02-15")
}

// ResetTime returns the start of the next window after now
func ResetTime(now time.Time, w Window) time.Time {
	now = now.UTC()
	if w == WindowDaily {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return midnight.Add(24 * time.Hour)
	}
	hour := now.Truncate(time.Hour)
	return hour.Add(time.Hour)
}
