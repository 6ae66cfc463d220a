package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"apptrack/internal/config"
	"apptrack/internal/database"
	"apptrack/internal/models"
	"apptrack/internal/report"
	"apptrack/internal/segmenter"
	"apptrack/pkg/window"
)

// Service drives the polling loop: once per poll interval it samples the
// window source, feeds the observed label into the segmenter, and emits any
// closed segment to the CSV sink and the database. Input monitors report
// activity through NoteActivity; they share nothing else with the loop.
type Service struct {
	config   *config.Config
	seg      *segmenter.Segmenter
	source   window.Source
	sink     *report.CSVSink
	repo     *database.Repository
	stopChan chan struct{}
	running  bool
}

// NewService wires a tracker. repo may be nil when running without a
// database (CSV-only mode).
func NewService(cfg *config.Config, source window.Source, sink *report.CSVSink, repo *database.Repository) *Service {
	return &Service{
		config:   cfg,
		seg:      segmenter.New(cfg.Tracker.IdleThreshold, time.Now()),
		source:   source,
		sink:     sink,
		repo:     repo,
		stopChan: make(chan struct{}),
	}
}

// NoteActivity records user input. Safe to call from input-monitor
// goroutines while the loop runs.
func (s *Service) NoteActivity(now time.Time) {
	s.seg.NoteActivity(now)
}

// CurrentLabel returns the label of the currently open segment.
func (s *Service) CurrentLabel() string {
	return s.seg.CurrentLabel()
}

// Start runs the polling loop until the context is cancelled or Stop is
// called, then closes the open segment and flushes it before returning.
func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("tracker is already running")
	}

	s.running = true
	log.Printf("Starting tracker with %v poll interval, %v idle threshold",
		s.config.Tracker.PollInterval, s.config.Tracker.IdleThreshold)

	ticker := time.NewTicker(s.config.Tracker.PollInterval)
	defer ticker.Stop()

	// Sample immediately so the first segment opens now, not one interval in.
	s.trackOnce(time.Now())

	for {
		select {
		case <-ctx.Done():
			s.finalize(time.Now())
			log.Println("Tracker stopped by context")
			s.running = false
			return ctx.Err()

		case <-s.stopChan:
			s.finalize(time.Now())
			log.Println("Tracker stopped")
			s.running = false
			return nil

		case now := <-ticker.C:
			s.trackOnce(now)
		}
	}
}

// Stop signals the loop to finalize and return.
func (s *Service) Stop() {
	if s.running {
		close(s.stopChan)
	}
}

// IsRunning reports whether the loop is active.
func (s *Service) IsRunning() bool {
	return s.running
}

// trackOnce performs one poll tick. Sink and database failures are logged
// and recorded; the loop always continues.
func (s *Service) trackOnce(now time.Time) {
	seg := s.seg.Tick(now, s.observeLabel())
	if seg == nil {
		return
	}
	s.emit(seg)
}

// observeLabel polls the window source and maps both "nothing focused" and
// source errors to the Unknown sentinel.
func (s *Service) observeLabel() string {
	info, err := s.source.GetActiveWindow()
	if err != nil {
		s.storeError(fmt.Errorf("failed to get active window: %w", err))
		return segmenter.LabelUnknown
	}
	if info == nil || info.Title == "" {
		return segmenter.LabelUnknown
	}
	return info.Title
}

// emit writes a closed segment to the CSV report and the database.
func (s *Service) emit(seg *models.ActivitySegment) {
	log.Printf("Closed segment: %s (%s) %s", seg.Application, seg.TotalTime, seg.Title)

	if err := s.sink.Append(seg); err != nil {
		// Rows stay pending inside the sink and ride along with the next
		// successful write.
		s.storeError(fmt.Errorf("failed to write report: %w", err))
	}

	if s.repo != nil {
		if err := s.repo.Create(seg); err != nil {
			s.storeError(fmt.Errorf("failed to save segment: %w", err))
		}
	}
}

// finalize closes the open segment at shutdown and flushes it.
func (s *Service) finalize(now time.Time) {
	seg := s.seg.Close(now)
	if seg == nil {
		return
	}
	s.emit(seg)
}

func (s *Service) storeError(err error) {
	log.Printf("Tracker error: %v", err)

	if s.repo == nil {
		return
	}

	errorLog := &models.ErrorLog{
		Timestamp: time.Now(),
		ErrorMsg:  err.Error(),
		CreatedAt: time.Now(),
	}

	if dbErr := s.repo.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	}
}

// GetCurrentWindow samples the window source once, for status display.
func (s *Service) GetCurrentWindow() (*window.WindowInfo, error) {
	info, err := s.source.GetActiveWindow()
	if err != nil {
		return nil, fmt.Errorf("failed to get active window: %w", err)
	}
	return info, nil
}
