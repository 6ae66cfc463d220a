package segmenter

import (
	"testing"
	"time"

	"apptrack/internal/models"
)

var t0 = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

// driveTicks feeds a label per second starting one second after t0 and
// collects every closed segment.
func driveTicks(s *Segmenter, labels []string) []*models.ActivitySegment {
	var segs []*models.ActivitySegment
	now := t0
	for _, label := range labels {
		now = now.Add(time.Second)
		if seg := s.Tick(now, label); seg != nil {
			segs = append(segs, seg)
		}
	}
	return segs
}

func TestTickEmitsOnlyOnLabelChange(t *testing.T) {
	tests := []struct {
		name      string
		labels    []string
		wantSegs  int
		wantFinal string
	}{
		{
			name:      "single label never emits",
			labels:    []string{"A", "A", "A", "A"},
			wantSegs:  0,
			wantFinal: "A",
		},
		{
			name:      "one change one segment",
			labels:    []string{"A", "A", "B", "B"},
			wantSegs:  1,
			wantFinal: "B",
		},
		{
			name:      "alternating labels",
			labels:    []string{"A", "B", "A", "B"},
			wantSegs:  3,
			wantFinal: "B",
		},
		{
			name:      "return to earlier label still counts",
			labels:    []string{"A", "A", "B", "A", "A"},
			wantSegs:  2,
			wantFinal: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(time.Hour, t0)
			segs := driveTicks(s, tt.labels)
			if len(segs) != tt.wantSegs {
				t.Errorf("emitted %d segments, want %d", len(segs), tt.wantSegs)
			}
			if s.CurrentLabel() != tt.wantFinal {
				t.Errorf("CurrentLabel() = %q, want %q", s.CurrentLabel(), tt.wantFinal)
			}
		})
	}
}

func TestSegmentsPartitionTime(t *testing.T) {
	s := New(time.Hour, t0)
	labels := []string{"A", "A", "B", "C", "C", "D"}
	segs := driveTicks(s, labels)

	if len(segs) != 3 {
		t.Fatalf("emitted %d segments, want 3", len(segs))
	}

	for i := 1; i < len(segs); i++ {
		if !segs[i-1].EndTime.Equal(segs[i].StartTime) {
			t.Errorf("segment %d end %v != segment %d start %v",
				i-1, segs[i-1].EndTime, i, segs[i].StartTime)
		}
	}

	// First segment opens at the first tick, not at construction time.
	if !segs[0].StartTime.Equal(t0.Add(time.Second)) {
		t.Errorf("first segment start = %v, want %v", segs[0].StartTime, t0.Add(time.Second))
	}
}

func TestIdleOverrideAssertsOnce(t *testing.T) {
	s := New(5*time.Minute, t0)

	if seg := s.Tick(t0.Add(time.Second), "Editor"); seg != nil {
		t.Fatalf("first tick emitted %+v, want nil", seg)
	}

	// Cross the idle threshold: the Editor segment closes and Idle opens.
	idleAt := t0.Add(6 * time.Minute)
	seg := s.Tick(idleAt, "Editor")
	if seg == nil {
		t.Fatal("expected Editor segment to close when idle threshold elapsed")
	}
	if seg.Title != "Editor" {
		t.Errorf("closed segment title = %q, want Editor", seg.Title)
	}
	if s.CurrentLabel() != LabelIdle {
		t.Errorf("CurrentLabel() = %q, want %q", s.CurrentLabel(), LabelIdle)
	}

	// Idle persists: no re-emission tick after tick.
	for i := 1; i <= 3; i++ {
		if seg := s.Tick(idleAt.Add(time.Duration(i)*time.Second), "Editor"); seg != nil {
			t.Errorf("tick %d while idle emitted %+v, want nil", i, seg)
		}
	}

	// Activity resumes: Idle closes, the real label reopens.
	resumeAt := idleAt.Add(10 * time.Second)
	s.NoteActivity(resumeAt)
	seg = s.Tick(resumeAt, "Editor")
	if seg == nil {
		t.Fatal("expected Idle segment to close when activity resumed")
	}
	if seg.Title != LabelIdle {
		t.Errorf("closed segment title = %q, want %q", seg.Title, LabelIdle)
	}
	if !seg.StartTime.Equal(idleAt) || !seg.EndTime.Equal(resumeAt) {
		t.Errorf("idle segment [%v, %v], want [%v, %v]",
			seg.StartTime, seg.EndTime, idleAt, resumeAt)
	}
	if s.CurrentLabel() != "Editor" {
		t.Errorf("CurrentLabel() = %q, want Editor", s.CurrentLabel())
	}
}

func TestEmptyLabelBecomesUnknown(t *testing.T) {
	s := New(time.Hour, t0)
	s.Tick(t0.Add(time.Second), "")
	if s.CurrentLabel() != LabelUnknown {
		t.Errorf("CurrentLabel() = %q, want %q", s.CurrentLabel(), LabelUnknown)
	}

	seg := s.Tick(t0.Add(2*time.Second), "Editor")
	if seg == nil || seg.Title != LabelUnknown {
		t.Errorf("closed segment = %+v, want Unknown title", seg)
	}
}

func TestCloseFlushesOpenSegment(t *testing.T) {
	s := New(time.Hour, t0)
	s.Tick(t0.Add(time.Second), "Editor")

	end := t0.Add(31 * time.Second)
	seg := s.Close(end)
	if seg == nil {
		t.Fatal("Close() returned nil with a segment open")
	}
	if seg.Title != "Editor" {
		t.Errorf("Title = %q, want Editor", seg.Title)
	}
	if seg.DurationSeconds != 30 {
		t.Errorf("DurationSeconds = %d, want 30", seg.DurationSeconds)
	}
	if s.CurrentLabel() != "" {
		t.Errorf("CurrentLabel() = %q after Close, want empty", s.CurrentLabel())
	}

	if seg := s.Close(end.Add(time.Second)); seg != nil {
		t.Errorf("second Close() = %+v, want nil", seg)
	}
}

func TestClosedSegmentFields(t *testing.T) {
	s := New(time.Hour, t0)
	s.Tick(t0.Add(time.Second), "Report.xlsx - Excel")
	seg := s.Tick(t0.Add(3726*time.Second), "B")

	if seg == nil {
		t.Fatal("expected a closed segment")
	}
	if seg.Application != "Microsoft Excel" {
		t.Errorf("Application = %q, want Microsoft Excel", seg.Application)
	}
	if seg.Title != "Report.xlsx - Excel" {
		t.Errorf("Title = %q", seg.Title)
	}
	if seg.TotalTime != "01:02:05" {
		t.Errorf("TotalTime = %q, want 01:02:05", seg.TotalTime)
	}
	if seg.ReadableTotalTime != "1 hr 2 mins 5 sec" {
		t.Errorf("ReadableTotalTime = %q, want 1 hr 2 mins 5 sec", seg.ReadableTotalTime)
	}
	if seg.DurationSeconds != 3725 {
		t.Errorf("DurationSeconds = %d, want 3725", seg.DurationSeconds)
	}
}

func TestDeriveAppName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Report.xlsx - Excel", "Microsoft Excel"},
		{"doc.docx - Word", "Microsoft Word"},
		{"Untitled - Notepad", "Notepad"},
		{"SingleWord", "SingleWord"},
		{"inbox - user@example.com - Google Chrome", "Google Chrome"},
		{"Release notes - Mozilla Firefox", "Mozilla Firefox"},
		{"New tab - Microsoft Edge", "Microsoft Edge"},
		{"main.go - project - editor", "editor"},
		{"trailing separator - app - ", "app"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := DeriveAppName(tt.title); got != tt.want {
				t.Errorf("DeriveAppName(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d            time.Duration
		want         string
		wantReadable string
	}{
		{0, "00:00:00", "0 hr 0 mins 0 sec"},
		{59 * time.Second, "00:00:59", "0 hr 0 mins 59 sec"},
		{3725 * time.Second, "01:02:05", "1 hr 2 mins 5 sec"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23:59:59", "23 hr 59 mins 59 sec"},
		// Whole days are dropped; 25h reads as 1h. Documented quirk.
		{25 * time.Hour, "01:00:00", "1 hr 0 mins 0 sec"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
		if got := FormatReadableDuration(tt.d); got != tt.wantReadable {
			t.Errorf("FormatReadableDuration(%v) = %q, want %q", tt.d, got, tt.wantReadable)
		}
	}
}

func TestNoteActivityIsIndependentOfSegmentState(t *testing.T) {
	s := New(5*time.Minute, t0)
	s.Tick(t0.Add(time.Second), "Editor")

	s.NoteActivity(t0.Add(2 * time.Second))

	if s.CurrentLabel() != "Editor" {
		t.Errorf("NoteActivity changed label to %q", s.CurrentLabel())
	}
	if got := s.LastActivity(); !got.Equal(t0.Add(2 * time.Second)) {
		t.Errorf("LastActivity() = %v, want %v", got, t0.Add(2*time.Second))
	}
}
