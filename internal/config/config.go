package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Tracker configuration
	Tracker TrackerConfig

	// Report configuration
	Report ReportConfig

	// Log configuration
	Log LogConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// TrackerConfig holds tracking behavior configuration
type TrackerConfig struct {
	PollInterval    time.Duration // How often to sample the focused window
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
	IdleThreshold   time.Duration // Inactivity before the Idle label takes over
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	Dir         string // Directory for daily CSV report files
	ExcludeIdle bool   // Whether to exclude Idle segments from aggregate reports
	TimeZone    string
}

// LogConfig holds diagnostics log configuration
type LogConfig struct {
	Path string // Line-oriented log file used when daemonized
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/apptrack/apptrack.db
		},
		Tracker: TrackerConfig{
			PollInterval:    1 * time.Second,   // Sample the window once per second
			MinPollInterval: 1 * time.Second,   // Minimum 1 second
			MaxPollInterval: 300 * time.Second, // Maximum allowed poll interval
			IdleThreshold:   5 * time.Minute,   // 5 minutes without input means idle
		},
		Report: ReportConfig{
			Dir:         "report",
			ExcludeIdle: true,
			TimeZone:    "Local",
		},
		Log: LogConfig{
			Path: "logs/app_time_tracker.log",
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/apptrack-%d.pid", os.Getuid()),
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Tracker.IdleThreshold <= 0 {
		return fmt.Errorf("idle threshold must be positive")
	}

	if c.Report.Dir == "" {
		return fmt.Errorf("report directory cannot be empty")
	}

	if c.Log.Path == "" {
		return fmt.Errorf("log file path cannot be empty")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// GetPollIntervalSeconds returns the poll interval in seconds
func (c *Config) GetPollIntervalSeconds() int64 {
	return int64(c.Tracker.PollInterval.Seconds())
}

// GetIdleThresholdSeconds returns the idle threshold in seconds
func (c *Config) GetIdleThresholdSeconds() int64 {
	return int64(c.Tracker.IdleThreshold.Seconds())
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Tracker:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
    Idle Threshold: %v
  Report:
    Dir: %s
    Exclude Idle: %v
    Time Zone: %s
  Log:
    Path: %s
  Daemon:
    PID File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Tracker.PollInterval,
		c.Tracker.MinPollInterval,
		c.Tracker.MaxPollInterval,
		c.Tracker.IdleThreshold,
		c.Report.Dir,
		c.Report.ExcludeIdle,
		c.Report.TimeZone,
		c.Log.Path,
		c.Daemon.PIDFile,
		c.Web.Host,
		c.Web.Port,
	)
}
