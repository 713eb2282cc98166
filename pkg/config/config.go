// Package config provides the unified configuration system for strata.
// It defines a single Config structure covering the store's logging, memory,
// and performance settings, with validation and sensible defaults.
package config

import (
	"github.com/ajitpratap0/strata/pkg/arena"
	"github.com/ajitpratap0/strata/pkg/errors"
)

// Config is the top-level configuration for a strata process.
type Config struct {
	// Logging controls the structured logger.
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Memory controls how column buffers are allocated.
	Memory MemoryConfig `yaml:"memory" json:"memory" mapstructure:"memory"`

	// Performance contains store tuning knobs.
	Performance PerformanceConfig `yaml:"performance" json:"performance" mapstructure:"performance"`
}

// LoggingConfig selects log level and output encoding.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level" mapstructure:"level"`
	// Development enables colored console-friendly output and stack traces.
	Development bool `yaml:"development" json:"development" mapstructure:"development"`
	// Encoding is json or console.
	Encoding string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
}

// MemoryConfig controls the allocator backing column buffers.
type MemoryConfig struct {
	// UseArena backs columns with one contiguous bump-allocated region
	// instead of the Go heap.
	UseArena bool `yaml:"use_arena" json:"use_arena" mapstructure:"use_arena"`
	// ArenaPages is the number of pages the arena spans.
	ArenaPages int `yaml:"arena_pages" json:"arena_pages" mapstructure:"arena_pages"`
	// ArenaPageSize is "2MB" or "1GB"; on Linux these request huge pages.
	ArenaPageSize string `yaml:"arena_page_size" json:"arena_page_size" mapstructure:"arena_page_size"`
	// Prefault touches every arena page at startup.
	Prefault bool `yaml:"prefault" json:"prefault" mapstructure:"prefault"`
}

// PerformanceConfig contains store tuning knobs.
type PerformanceConfig struct {
	// InitialRows pre-reserves column capacity for this many rows per table.
	InitialRows int `yaml:"initial_rows" json:"initial_rows" mapstructure:"initial_rows"`
}

// Default returns a configuration with production defaults: heap-backed
// columns, json logging at info level.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Memory: MemoryConfig{
			UseArena:      false,
			ArenaPages:    4,
			ArenaPageSize: "2MB",
		},
		Performance: PerformanceConfig{
			InitialRows: 0,
		},
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "invalid log level %q", c.Logging.Level)
	}

	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "invalid log encoding %q", c.Logging.Encoding)
	}

	if c.Memory.UseArena {
		if c.Memory.ArenaPages <= 0 {
			return errors.Newf(errors.ErrorTypeConfig, "arena_pages must be positive, got %d", c.Memory.ArenaPages)
		}
		if _, err := c.ArenaPageSizeBytes(); err != nil {
			return err
		}
	}

	if c.Performance.InitialRows < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "initial_rows must not be negative, got %d", c.Performance.InitialRows)
	}

	return nil
}

// ArenaPageSizeBytes resolves the configured page size name to bytes.
func (c *Config) ArenaPageSizeBytes() (int, error) {
	switch c.Memory.ArenaPageSize {
	case "2MB", "2mb":
		return arena.Huge2MB, nil
	case "1GB", "1gb":
		return arena.Huge1GB, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeConfig, "invalid arena_page_size %q, want 2MB or 1GB", c.Memory.ArenaPageSize)
	}
}
