// Package config holds the settings shared by the bestiary CLI and the
// desktop app, stored as TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the file the CLI reads when no --config flag is given.
const DefaultPath = "bestiary.toml"

// Config is the on-disk configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// Seed makes every random choice reproducible. Zero means a fresh
	// random build on each run.
	Seed uint64 `toml:"seed"`

	// MaxAttempts bounds the draws per cube of the RGB cluster.
	MaxAttempts int `toml:"max_attempts"`

	Export  ExportConfig  `toml:"export"`
	Preview PreviewConfig `toml:"preview"`
}

// ExportConfig controls STL export.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// PreviewConfig controls the terminal preview.
type PreviewConfig struct {
	FPS         int     `toml:"fps"`
	CameraSpeed float64 `toml:"camera_speed"` // units per second along the orbit
	Distance    float64 `toml:"distance"`     // initial camera distance from the item
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		MaxAttempts: 1000,
		Export: ExportConfig{
			Dir: "out",
		},
		Preview: PreviewConfig{
			FPS:         30,
			CameraSpeed: 8,
			Distance:    60,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative, got %d", c.MaxAttempts)
	}
	if c.Preview.FPS <= 0 {
		return fmt.Errorf("preview.fps must be positive, got %d", c.Preview.FPS)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
