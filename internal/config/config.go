// Package config defines service configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file named by
// ACTIONCAM_CONFIG, then ACTIONCAM_* environment variables (which may come
// from a .env file).
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches the log handler to JSON output.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ShotsPath points at the shot catalog (shots.json).
	ShotsPath string `koanf:"shots_path"`

	// AppConfigPath points at the effects and solver catalog (config.json).
	AppConfigPath string `koanf:"app_config_path"`

	// QueueSize bounds the detection queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of alignment workers; zero or less uses
	// one per CPU.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the number of frame ids remembered; zero or less
	// remembers every id.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxSessions caps concurrently open sessions.
	MaxSessions int `koanf:"max_sessions"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		ShotsPath:     "configs/shots.json",
		AppConfigPath: "configs/config.json",
		QueueSize:     1024,
		WorkerCount:   4,
		DedupeSize:    50_000,
		MaxSessions:   64,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ShotsPath) == "":
		return fmt.Errorf("%w: shots_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.AppConfigPath) == "":
		return fmt.Errorf("%w: app_config_path must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	return nil
}
