package detector

import "testing"

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		want           string
	}{
		{"wayland session type", "wayland", "", "", "wayland"},
		{"wayland display set", "", "wayland-0", "", "wayland"},
		{"wayland wins over x11 display", "wayland", "", ":0", "wayland"},
		{"x11 session type", "x11", "", "", "x11"},
		{"x11 display set", "", "", ":0", "x11"},
		{"nothing set", "", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			if got := DetectDisplayServer(); got != tt.want {
				t.Errorf("DetectDisplayServer() = %q, want %q", got, tt.want)
			}
		})
	}
}
