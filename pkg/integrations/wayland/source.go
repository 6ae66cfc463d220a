// Package wayland implements a window source for GNOME Wayland sessions by
// evaluating a small lookup script inside GNOME Shell over D-Bus.
package wayland

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"apptrack/pkg/window"
)

// focusScript asks GNOME Shell for the focused window's class, title and pid.
const focusScript = `
	let fw = global.get_window_actors()
		.map(a => a.meta_window)
		.find(w => w.has_focus());
	if (!fw) {
		fw = global.display.get_focus_window();
	}
	if (fw) {
		JSON.stringify({
			wm_class: fw.get_wm_class() || '',
			title: fw.get_title() || '',
			pid: fw.get_pid() || 0
		});
	} else {
		'null';
	}
`

// Source implements window.Source for GNOME on Wayland.
type Source struct {
	hasGdbus bool
}

// NewSource creates a new Wayland window source.
func NewSource() *Source {
	_, err := exec.LookPath("gdbus")
	return &Source{hasGdbus: err == nil}
}

// IsAvailable checks if GNOME Shell can be queried on this system.
func (s *Source) IsAvailable() bool {
	return s.hasGdbus
}

// GetDisplayServer returns "wayland"
func (s *Source) GetDisplayServer() string {
	return "wayland"
}

// Close cleans up resources
func (s *Source) Close() error {
	return nil
}

// GetActiveWindow returns the currently focused window, or (nil, nil) when
// GNOME Shell reports no focused window.
func (s *Source) GetActiveWindow() (*window.WindowInfo, error) {
	if !s.hasGdbus {
		return nil, errors.New("gdbus not available")
	}

	cmd := exec.Command("gdbus", "call", "--session",
		"--dest", "org.gnome.Shell",
		"--object-path", "/org/gnome/Shell",
		"--method", "org.gnome.Shell.Eval",
		focusScript)

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(err, "failed to query GNOME Shell")
	}

	result := string(output)
	if strings.Contains(result, "'null'") {
		return nil, nil
	}

	start := strings.Index(result, "{")
	end := strings.LastIndex(result, "}")
	if start == -1 || end == -1 {
		return nil, errors.New("unexpected GNOME Shell response")
	}

	jsonStr := result[start : end+1]
	jsonStr = strings.ReplaceAll(jsonStr, "\\\"", "\"")
	jsonStr = strings.ReplaceAll(jsonStr, "\\'", "'")

	info := &window.WindowInfo{DisplayServer: "wayland"}
	info.Title = extractJSONValue(jsonStr, "title")
	if wmClass := extractJSONValue(jsonStr, "wm_class"); wmClass != "" {
		info.Class = wmClass
		info.AppName = wmClass
	}
	if pid := extractJSONValue(jsonStr, "pid"); pid != "" {
		fmt.Sscanf(pid, "%d", &info.PID)
	}

	if info.Title == "" && info.Class == "" {
		return nil, nil
	}

	return info, nil
}

// extractJSONValue pulls a single scalar out of the shell's stringified JSON
// without a full parser; the Eval response wraps and escapes it unevenly
// across GNOME versions.
func extractJSONValue(json, key string) string {
	search := fmt.Sprintf(`"%s":`, key)
	idx := strings.Index(json, search)
	if idx == -1 {
		search = fmt.Sprintf(`'%s':`, key)
		idx = strings.Index(json, search)
		if idx == -1 {
			return ""
		}
	}

	start := idx + len(search)
	rest := strings.TrimSpace(json[start:])

	if strings.HasPrefix(rest, "\"") || strings.HasPrefix(rest, "'") {
		quote := rest[0]
		end := strings.Index(rest[1:], string(quote))
		if end == -1 {
			return ""
		}
		return rest[1 : end+1]
	}

	end := strings.IndexAny(rest, ",}")
	if end == -1 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}
