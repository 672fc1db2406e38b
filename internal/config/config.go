package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all debatekeeper configuration.
type Config struct {
	// Directory scanned for format XML files
	FormatsDir string `yaml:"formats_dir"`

	// SQLite database for saved timer states
	DatabasePath string `yaml:"database_path"`

	// Overtime bell schedule applied to every timer
	OvertimeBell OvertimeBellConfig `yaml:"overtime_bell"`

	// Alert behaviour
	SilentMode  bool `yaml:"silent_mode"`
	VibrateMode bool `yaml:"vibrate_mode"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// OvertimeBellConfig configures the bells rung after a speech runs over.
type OvertimeBellConfig struct {
	// Seconds past the speech length before the first overtime bell.
	// Zero disables overtime bells entirely.
	FirstSeconds int64 `yaml:"first_seconds"`

	// Seconds between overtime bells after the first.
	// Zero means the first bell is the only one.
	PeriodSeconds int64 `yaml:"period_seconds"`
}

// LoggingConfig configures the category file loggers.
type LoggingConfig struct {
	Level     string `yaml:"level"` // debug, info, warn, error
	DebugMode bool   `yaml:"debug_mode"`
	Dir       string `yaml:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		FormatsDir:   "formats",
		DatabasePath: "data/debatekeeper.db",

		OvertimeBell: OvertimeBellConfig{
			FirstSeconds:  30,
			PeriodSeconds: 20,
		},

		SilentMode:  false,
		VibrateMode: false,

		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
			Dir:       ".debatekeeper/logs",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies DEBATEKEEPER_* environment variables on top of
// whatever the file provided.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("DEBATEKEEPER_FORMATS_DIR"); dir != "" {
		c.FormatsDir = dir
	}
	if path := os.Getenv("DEBATEKEEPER_DB"); path != "" {
		c.DatabasePath = path
	}
	if v := os.Getenv("DEBATEKEEPER_SILENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SilentMode = b
		}
	}
	if v := os.Getenv("DEBATEKEEPER_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("DEBATEKEEPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
