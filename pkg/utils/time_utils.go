package utils

import (
	"fmt"
	"time"
)

// HoursPerMonth is the number of hours in an average month (365 days / 12 months * 24 hours)
const HoursPerMonth = 730.0

// UnixSeconds returns t as fractional Unix seconds
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// FormatDuration formats a duration for progress messages
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
