// Package x11 implements a native window source for X11 sessions using the
// X protocol directly, with no external tools.
package x11

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"apptrack/pkg/window"
)

// Source implements window.Source for X11. It keeps one X connection open
// for the lifetime of the source.
type Source struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewSource connects to the X server and interns the atoms needed to read
// the active window and its properties.
func NewSource() (*Source, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	s := &Source{
		conn:  conn,
		root:  root,
		atoms: make(map[string]xproto.Atom),
	}

	atomNames := []string{
		"_NET_ACTIVE_WINDOW",
		"_NET_WM_NAME",
		"_NET_WM_PID",
		"WM_NAME",
		"WM_CLASS",
		"UTF8_STRING",
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		s.atoms[name] = reply.Atom
	}

	return s, nil
}

// IsAvailable reports whether the X connection is usable.
func (s *Source) IsAvailable() bool {
	return s.conn != nil
}

// GetDisplayServer returns "x11"
func (s *Source) GetDisplayServer() string {
	return "x11"
}

// Close shuts down the X connection.
func (s *Source) Close() error {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}

// GetActiveWindow returns the currently focused window, or (nil, nil) when
// no window is focused.
func (s *Source) GetActiveWindow() (*window.WindowInfo, error) {
	windowID, err := s.activeWindow()
	if err != nil {
		return nil, err
	}
	if windowID == 0 {
		return nil, nil
	}

	instance, class := s.windowClass(windowID)
	appName := instance
	if appName == "" {
		appName = class
	}

	return &window.WindowInfo{
		Title:         s.windowName(windowID),
		AppName:       appName,
		Class:         class,
		PID:           s.windowPID(windowID),
		DisplayServer: "x11",
	}, nil
}

// activeWindow resolves the focused window, preferring _NET_ACTIVE_WINDOW
// and falling back to the input focus. During focus handoff between windows
// both can be briefly unset, so the lookup retries a few times before
// reporting that nothing is focused.
func (s *Source) activeWindow() (xproto.Window, error) {
	for i := 0; i < 5; i++ {
		windowID := s.activeWindowFromProperty()
		if windowID != 0 && s.hasValidName(windowID) {
			return windowID, nil
		}

		windowID = s.activeWindowFromInputFocus()
		if windowID != 0 && windowID != s.root {
			topLevel := s.topLevelParent(windowID)
			if topLevel != 0 && s.hasValidName(topLevel) {
				return topLevel, nil
			}
		}

		time.Sleep(20 * time.Millisecond)
	}

	return 0, nil
}

func (s *Source) getProperty(win xproto.Window, atom xproto.Atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(s.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (s *Source) activeWindowFromProperty() xproto.Window {
	data, err := s.getProperty(s.root, s.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (s *Source) activeWindowFromInputFocus() xproto.Window {
	reply, err := xproto.GetInputFocus(s.conn).Reply()
	if err != nil {
		return 0
	}
	return reply.Focus
}

func (s *Source) topLevelParent(win xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(s.conn, win).Reply()
		if err != nil || reply.Parent == s.root || reply.Parent == 0 {
			return win
		}
		win = reply.Parent
	}
}

func (s *Source) hasValidName(win xproto.Window) bool {
	data, _ := s.getProperty(win, s.atoms["_NET_WM_NAME"], s.atoms["UTF8_STRING"], 1)
	if len(data) > 0 {
		return true
	}
	data, _ = s.getProperty(win, s.atoms["WM_NAME"], xproto.AtomString, 1)
	return len(data) > 0
}

func (s *Source) windowName(win xproto.Window) string {
	data, err := s.getProperty(win, s.atoms["_NET_WM_NAME"], s.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = s.getProperty(win, s.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

func (s *Source) windowClass(win xproto.Window) (instance, class string) {
	data, err := s.getProperty(win, s.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return "", ""
	}

	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

func (s *Source) windowPID(win xproto.Window) uint32 {
	data, err := s.getProperty(win, s.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}
