package window

// WindowInfo represents information about the currently focused window
type WindowInfo struct {
	Title         string
	AppName       string
	Class         string
	PID           uint32
	DisplayServer string // "x11" or "wayland"
}

// Source is the interface all window-title sources must satisfy. Sources
// are polled, never pushed.
type Source interface {
	// GetActiveWindow returns the currently focused window, or (nil, nil)
	// when no window is focused.
	GetActiveWindow() (*WindowInfo, error)

	// IsAvailable checks if this source can run on the current system
	IsAvailable() bool

	// GetDisplayServer returns the display server type ("x11" or "wayland")
	GetDisplayServer() string

	// Close cleans up any resources used by the source
	Close() error
}
