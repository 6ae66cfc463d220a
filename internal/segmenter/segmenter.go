package segmenter

import (
	"sync/atomic"
	"time"

	"apptrack/internal/models"
)

// Sentinel labels. Idle overrides the real foreground window once no input
// activity has been observed for the idle threshold; Unknown stands in when
// no window is focused or the window source failed.
const (
	LabelIdle    = "Idle"
	LabelUnknown = "Unknown"
)

// Segmenter turns a per-tick stream of observed window labels into closed
// ActivitySegments. It owns the open-segment state: at most one segment is
// open at a time, its label always equals the current label, and its start
// never exceeds the tick time.
//
// Tick and Close must be called from a single goroutine. NoteActivity may be
// called concurrently from input-event goroutines; it only overwrites the
// last-activity timestamp and never touches segment state.
type Segmenter struct {
	idleThreshold time.Duration

	currentLabel string
	segmentStart time.Time

	lastActivity atomic.Int64 // unix nanoseconds
}

// New returns a Segmenter with no open segment. The clock origin counts as
// the last observed activity.
func New(idleThreshold time.Duration, now time.Time) *Segmenter {
	s := &Segmenter{
		idleThreshold: idleThreshold,
		segmentStart:  now,
	}
	s.lastActivity.Store(now.UnixNano())
	return s
}

// NoteActivity records that user input happened at the given time.
func (s *Segmenter) NoteActivity(now time.Time) {
	s.lastActivity.Store(now.UnixNano())
}

// LastActivity returns the most recently recorded input activity time.
func (s *Segmenter) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// CurrentLabel returns the label of the open segment, or "" if none is open.
func (s *Segmenter) CurrentLabel() string {
	return s.currentLabel
}

// Tick advances the state machine by one poll. An empty observed label is
// treated as Unknown; if the idle threshold has elapsed since the last
// activity, the observed label is overridden to Idle. When the effective
// label differs from the current one, the open segment (if any) is closed
// with end = now and returned, and a new segment opens at now. Otherwise the
// open segment simply keeps growing and Tick returns nil.
func (s *Segmenter) Tick(now time.Time, observed string) *models.ActivitySegment {
	if observed == "" {
		observed = LabelUnknown
	}
	if now.Sub(s.LastActivity()) > s.idleThreshold {
		observed = LabelIdle
	}

	if observed == s.currentLabel {
		return nil
	}

	var seg *models.ActivitySegment
	if s.currentLabel != "" {
		seg = s.closeSegment(now)
	}
	s.currentLabel = observed
	s.segmentStart = now
	return seg
}

// Close ends the open segment at the given time and returns it, or nil if no
// segment is open. Used on shutdown so the in-progress interval is not lost.
func (s *Segmenter) Close(now time.Time) *models.ActivitySegment {
	if s.currentLabel == "" {
		return nil
	}
	seg := s.closeSegment(now)
	s.currentLabel = ""
	s.segmentStart = now
	return seg
}

func (s *Segmenter) closeSegment(end time.Time) *models.ActivitySegment {
	total := end.Sub(s.segmentStart)
	return &models.ActivitySegment{
		Application:       DeriveAppName(s.currentLabel),
		Title:             s.currentLabel,
		StartTime:         s.segmentStart,
		EndTime:           end,
		DurationSeconds:   int64(total.Seconds()),
		TotalTime:         FormatDuration(total),
		ReadableTotalTime: FormatReadableDuration(total),
	}
}
