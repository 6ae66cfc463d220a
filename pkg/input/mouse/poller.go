// Package mouse observes input activity by polling the pointer position.
// A coarser fallback for sessions where the X11 ScreenSaver counter is not
// available: it sees pointer movement but not key presses.
package mouse

import (
	"context"
	"time"

	"github.com/go-vgo/robotgo"

	"apptrack/pkg/input"
)

// Monitor implements input.Monitor by comparing pointer coordinates between
// polls.
type Monitor struct {
	interval time.Duration
}

// NewMonitor creates a pointer-position poller.
func NewMonitor(interval time.Duration) *Monitor {
	return &Monitor{interval: interval}
}

// Name identifies the detection mechanism for logging
func (m *Monitor) Name() string {
	return "mouse-position"
}

// IsAvailable is always true; robotgo reads the pointer on any session type.
func (m *Monitor) IsAvailable() bool {
	return true
}

// Close cleans up resources
func (m *Monitor) Close() error {
	return nil
}

// Run polls the pointer once per interval and invokes fn whenever it moved.
// Blocks until ctx is done.
func (m *Monitor) Run(ctx context.Context, fn input.ActivityFunc) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	lastX, lastY := robotgo.Location()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			x, y := robotgo.Location()
			if x != lastX || y != lastY {
				fn(time.Now())
				lastX, lastY = x, y
			}
		}
	}
}
