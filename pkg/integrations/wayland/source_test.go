package wayland

import "testing"

func TestExtractJSONValue(t *testing.T) {
	tests := []struct {
		name string
		json string
		key  string
		want string
	}{
		{
			name: "double quoted string",
			json: `{"wm_class": "firefox", "title": "Release notes - Mozilla Firefox", "pid": 1234}`,
			key:  "title",
			want: "Release notes - Mozilla Firefox",
		},
		{
			name: "single quoted string",
			json: `{'wm_class': 'code', 'title': 'main.go', 'pid': 42}`,
			key:  "wm_class",
			want: "code",
		},
		{
			name: "numeric value",
			json: `{"wm_class": "firefox", "pid": 1234}`,
			key:  "pid",
			want: "1234",
		},
		{
			name: "numeric value at end",
			json: `{"pid": 99}`,
			key:  "pid",
			want: "99",
		},
		{
			name: "missing key",
			json: `{"title": "x"}`,
			key:  "pid",
			want: "",
		},
		{
			name: "empty string value",
			json: `{"wm_class": "", "pid": 1}`,
			key:  "wm_class",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONValue(tt.json, tt.key); got != tt.want {
				t.Errorf("extractJSONValue(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGetDisplayServer(t *testing.T) {
	s := NewSource()
	if s.GetDisplayServer() != "wayland" {
		t.Errorf("GetDisplayServer() = %s, want wayland", s.GetDisplayServer())
	}
}
