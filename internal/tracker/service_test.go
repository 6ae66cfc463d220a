package tracker

import (
	"encoding/csv"
	"errors"
	"os"
	"testing"
	"time"

	"apptrack/internal/config"
	"apptrack/internal/report"
	"apptrack/internal/segmenter"
	"apptrack/pkg/window"
)

// scriptedSource returns one queued result per poll.
type scriptedSource struct {
	titles []string
	errs   []error
	calls  int
}

func (s *scriptedSource) GetActiveWindow() (*window.WindowInfo, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.titles) || s.titles[i] == "" {
		return nil, nil
	}
	return &window.WindowInfo{Title: s.titles[i], DisplayServer: "x11"}, nil
}

func (s *scriptedSource) IsAvailable() bool        { return true }
func (s *scriptedSource) GetDisplayServer() string { return "x11" }
func (s *scriptedSource) Close() error             { return nil }

func newTestService(t *testing.T, src window.Source) (*Service, *report.CSVSink) {
	t.Helper()
	cfg := config.Default()
	sink := report.NewCSVSink(t.TempDir())
	return NewService(cfg, src, sink, nil), sink
}

func countRows(t *testing.T, sink *report.CSVSink, at time.Time) int {
	t.Helper()
	f, err := os.Open(sink.FilePath(at))
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	return len(records) - 1 // minus header
}

func TestTrackOnceEmitsOnlyOnLabelChange(t *testing.T) {
	src := &scriptedSource{titles: []string{"A", "A", "B", "B", "C"}}
	svc, sink := newTestService(t, src)

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		svc.trackOnce(now.Add(time.Duration(i) * time.Second))
	}

	// Two label changes (A->B, B->C) mean two closed segments.
	if got := countRows(t, sink, now); got != 2 {
		t.Errorf("report has %d rows, want 2", got)
	}
	if svc.CurrentLabel() != "C" {
		t.Errorf("CurrentLabel() = %q, want C", svc.CurrentLabel())
	}
}

func TestSourceErrorAndNoWindowMapToUnknown(t *testing.T) {
	src := &scriptedSource{
		titles: []string{"A", "", ""},
		errs:   []error{nil, errors.New("connection lost"), nil},
	}
	svc, sink := newTestService(t, src)

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	svc.trackOnce(now)                      // opens A
	svc.trackOnce(now.Add(1 * time.Second)) // error -> Unknown, closes A
	svc.trackOnce(now.Add(2 * time.Second)) // no window -> Unknown, no change

	if svc.CurrentLabel() != segmenter.LabelUnknown {
		t.Errorf("CurrentLabel() = %q, want %q", svc.CurrentLabel(), segmenter.LabelUnknown)
	}
	if got := countRows(t, sink, now); got != 1 {
		t.Errorf("report has %d rows, want 1", got)
	}
}

func TestFinalizeFlushesOpenSegment(t *testing.T) {
	src := &scriptedSource{titles: []string{"Editor"}}
	svc, sink := newTestService(t, src)

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	svc.trackOnce(now)
	svc.finalize(now.Add(30 * time.Second))

	if got := countRows(t, sink, now.Add(30*time.Second)); got != 1 {
		t.Errorf("report has %d rows after finalize, want 1", got)
	}
	if svc.CurrentLabel() != "" {
		t.Errorf("CurrentLabel() = %q after finalize, want empty", svc.CurrentLabel())
	}
}

func TestFinalizeWithoutOpenSegmentWritesNothing(t *testing.T) {
	src := &scriptedSource{}
	svc, sink := newTestService(t, src)

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	svc.finalize(now)

	if got := countRows(t, sink, now); got != 0 {
		t.Errorf("report has %d rows, want 0", got)
	}
}

func TestNoteActivityFeedsIdleDetection(t *testing.T) {
	cfg := config.Default()
	cfg.Tracker.IdleThreshold = 2 * time.Second

	src := &scriptedSource{titles: []string{"Editor", "Editor", "Editor"}}
	sink := report.NewCSVSink(t.TempDir())
	svc := NewService(cfg, src, sink, nil)

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	svc.NoteActivity(now)
	svc.trackOnce(now) // opens Editor

	// Threshold elapsed with no activity: label flips to Idle, Editor closes.
	svc.trackOnce(now.Add(5 * time.Second))
	if svc.CurrentLabel() != segmenter.LabelIdle {
		t.Errorf("CurrentLabel() = %q, want %q", svc.CurrentLabel(), segmenter.LabelIdle)
	}

	// Fresh activity: next poll reverts to the window label.
	svc.NoteActivity(now.Add(6 * time.Second))
	svc.trackOnce(now.Add(6 * time.Second))
	if svc.CurrentLabel() != "Editor" {
		t.Errorf("CurrentLabel() = %q, want Editor", svc.CurrentLabel())
	}
}

func TestStopBeforeStartDoesNotPanic(t *testing.T) {
	src := &scriptedSource{}
	svc, _ := newTestService(t, src)
	svc.Stop() // not running; must be a no-op
	if svc.IsRunning() {
		t.Error("IsRunning() = true, want false")
	}
}
