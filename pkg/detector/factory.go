// Package detector selects a window source for the current desktop session.
package detector

import (
	"os"

	"github.com/pkg/errors"

	"apptrack/pkg/integrations/wayland"
	"apptrack/pkg/integrations/x11"
	"apptrack/pkg/window"
)

// New returns the window source matching the current session: GNOME Wayland
// when a Wayland session is detected and queryable, native X11 otherwise.
func New() (window.Source, error) {
	if server := DetectDisplayServer(); server == "wayland" {
		src := wayland.NewSource()
		if src.IsAvailable() {
			return src, nil
		}
		// XWayland usually still exposes an X socket; fall through.
	}

	src, err := x11.NewSource()
	if err != nil {
		return nil, errors.Wrap(err, "no usable window source for this session")
	}
	return src, nil
}

// DetectDisplayServer reports the session's display server type.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
