// Package config loads cubetoe settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all cubetoe settings. Environment variables override the
// file; command-line flags override both.
type Config struct {
	DBPath       string        `yaml:"db_path" env:"CUBETOE_DB"`
	Size         int           `yaml:"size" env:"CUBETOE_SIZE"`
	ShuffleMoves int           `yaml:"shuffle_moves" env:"CUBETOE_SHUFFLE_MOVES"`
	MoveDuration time.Duration `yaml:"move_duration" env:"CUBETOE_MOVE_DURATION"`
	Seed         int64         `yaml:"seed,omitempty" env:"CUBETOE_SEED"` // 0 picks a random seed
	LogLevel     string        `yaml:"log_level" env:"CUBETOE_LOG_LEVEL"`
	LogDir       string        `yaml:"log_dir" env:"CUBETOE_LOG_DIR"`
}

// Default values.
const (
	DefaultSize         = 3
	DefaultShuffleMoves = 20
	DefaultMoveDuration = 300 * time.Millisecond
	DefaultLogLevel     = "info"
)

// Default returns the built-in configuration rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		DBPath:       filepath.Join(dataDir, "cubetoe.db"),
		Size:         DefaultSize,
		ShuffleMoves: DefaultShuffleMoves,
		MoveDuration: DefaultMoveDuration,
		LogLevel:     DefaultLogLevel,
		LogDir:       filepath.Join(dataDir, "logs"),
	}
}

// DefaultPath returns the default config file path inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// Load builds the configuration: defaults, then the YAML file at path (if
// it exists), then environment variables.
func Load(path, dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No file yet; defaults apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("invalid size %d: must be at least 1", c.Size)
	}
	if c.ShuffleMoves < 0 {
		return fmt.Errorf("invalid shuffle_moves %d: must not be negative", c.ShuffleMoves)
	}
	if c.MoveDuration < 0 {
		return fmt.Errorf("invalid move_duration %s: must not be negative", c.MoveDuration)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// String renders the configuration as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
}
