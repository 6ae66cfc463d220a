package segmenter

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// FormatDuration renders a duration as zero-padded HH:MM:SS.
//
// Only the seconds-within-day remainder is decomposed, so whole days are
// silently dropped for segments spanning more than 24 hours. Known boundary
// quirk, kept because the daily report file cannot contain such a segment
// under normal operation.
func FormatDuration(d time.Duration) string {
	secs := int64(d.Seconds()) % secondsPerDay
	if secs < 0 {
		secs += secondsPerDay
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// FormatReadableDuration renders a duration as "H hr M mins S sec". Drops
// whole days the same way FormatDuration does.
func FormatReadableDuration(d time.Duration) string {
	secs := int64(d.Seconds()) % secondsPerDay
	if secs < 0 {
		secs += secondsPerDay
	}
	return fmt.Sprintf("%d hr %d mins %d sec", secs/3600, (secs%3600)/60, secs%60)
}
