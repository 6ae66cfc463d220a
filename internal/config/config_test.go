package config

import (
	"testing"
	"time"
)

func TestValidateDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"poll below minimum", func(c *Config) { c.Tracker.PollInterval = 100 * time.Millisecond }},
		{"poll above maximum", func(c *Config) { c.Tracker.PollInterval = time.Hour }},
		{"zero idle threshold", func(c *Config) { c.Tracker.IdleThreshold = 0 }},
		{"empty report dir", func(c *Config) { c.Report.Dir = "" }},
		{"empty log path", func(c *Config) { c.Log.Path = "" }},
		{"port out of range", func(c *Config) { c.Web.Port = 0 }},
		{"empty host", func(c *Config) { c.Web.Host = "" }},
		{"empty pid file", func(c *Config) { c.Daemon.PIDFile = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APPTRACK_DB_PATH", "/tmp/test.db")
	t.Setenv("APPTRACK_POLL_INTERVAL", "2")
	t.Setenv("APPTRACK_IDLE_THRESHOLD", "120")
	t.Setenv("APPTRACK_REPORT_DIR", "/tmp/reports")
	t.Setenv("APPTRACK_LOG_PATH", "/tmp/test.log")
	t.Setenv("APPTRACK_EXCLUDE_IDLE", "false")

	cfg := New()

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Tracker.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.Tracker.PollInterval)
	}
	if cfg.Tracker.IdleThreshold != 2*time.Minute {
		t.Errorf("IdleThreshold = %v, want 2m", cfg.Tracker.IdleThreshold)
	}
	if cfg.Report.Dir != "/tmp/reports" {
		t.Errorf("Report.Dir = %q", cfg.Report.Dir)
	}
	if cfg.Log.Path != "/tmp/test.log" {
		t.Errorf("Log.Path = %q", cfg.Log.Path)
	}
	if cfg.Report.ExcludeIdle {
		t.Error("ExcludeIdle = true, want false")
	}
}

func TestLoadFromEnvIgnoresOutOfRangeInterval(t *testing.T) {
	t.Setenv("APPTRACK_POLL_INTERVAL", "9999")

	cfg := New()
	if cfg.Tracker.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want default 1s", cfg.Tracker.PollInterval)
	}
}
