// Package input observes user input activity. Monitors carry no payload:
// the only signal is "activity happened now".
package input

import (
	"context"
	"time"
)

// ActivityFunc is invoked whenever user input is observed. Implementations
// of Monitor call it from their own goroutine; the callback must not block.
type ActivityFunc func(now time.Time)

// Monitor watches for mouse/keyboard activity and reports it through a
// callback. A monitor never inspects or mutates anything beyond its own
// polling state; consumers stay decoupled behind the callback.
type Monitor interface {
	// Run blocks, invoking fn on every detected activity, until ctx is done.
	Run(ctx context.Context, fn ActivityFunc) error

	// IsAvailable checks if this monitor can run on the current system
	IsAvailable() bool

	// Name identifies the detection mechanism for logging
	Name() string

	// Close cleans up any resources used by the monitor
	Close() error
}
