// Package x11 observes input activity through the X11 ScreenSaver
// extension's idle counter. The counter measures milliseconds since the last
// input event across the whole session, so a drop between two polls means
// the user touched mouse or keyboard.
package x11

import (
	"context"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"apptrack/pkg/input"
)

// Monitor implements input.Monitor for X11 sessions.
type Monitor struct {
	conn     *xgb.Conn
	root     xproto.Window
	interval time.Duration
}

// NewMonitor connects to the X server and initializes the ScreenSaver
// extension.
func NewMonitor(interval time.Duration) (*Monitor, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	if err := screensaver.Init(conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "screensaver extension unavailable")
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root

	return &Monitor{
		conn:     conn,
		root:     root,
		interval: interval,
	}, nil
}

// Name identifies the detection mechanism for logging
func (m *Monitor) Name() string {
	return "x11-screensaver"
}

// IsAvailable reports whether the X connection is usable.
func (m *Monitor) IsAvailable() bool {
	return m.conn != nil
}

// Close shuts down the X connection.
func (m *Monitor) Close() error {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	return nil
}

// Run polls the idle counter once per interval and invokes fn whenever the
// counter shrinks or stays below one interval, meaning input arrived since
// the previous poll. Blocks until ctx is done.
func (m *Monitor) Run(ctx context.Context, fn input.ActivityFunc) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	last, err := m.idleSince()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			idle, err := m.idleSince()
			if err != nil {
				// One failed query is not fatal; the X server may be
				// momentarily busy. Keep polling.
				continue
			}
			if idle < last || idle < m.interval {
				fn(time.Now())
			}
			last = idle
		}
	}
}

// idleSince queries milliseconds since the last user input.
func (m *Monitor) idleSince() (time.Duration, error) {
	reply, err := screensaver.QueryInfo(m.conn, xproto.Drawable(m.root)).Reply()
	if err != nil {
		return 0, errors.Wrap(err, "failed to query idle time")
	}
	return time.Duration(reply.MsSinceUserInput) * time.Millisecond, nil
}
