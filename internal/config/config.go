// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading failures wrap ErrLoadConfig, validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/gradepilot/internal/domain/model"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Store selects the course backend: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath is the database file used when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// DedupeSize bounds the number of remembered X-Request-ID values.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxBodyBytes caps request bodies; larger bodies get 413.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// DefaultTarget is the target grade of newly created courses.
	DefaultTarget float64 `koanf:"default_target"`

	// DefaultScaleA..D form the grade scale of newly created courses.
	DefaultScaleA float64 `koanf:"default_scale_a"`
	DefaultScaleB float64 `koanf:"default_scale_b"`
	DefaultScaleC float64 `koanf:"default_scale_c"`
	DefaultScaleD float64 `koanf:"default_scale_d"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		Store:         StoreMemory,
		SQLitePath:    "gradepilot.db",
		DedupeSize:    10_000,
		MaxBodyBytes:  1 << 20,
		DefaultTarget: model.DefaultTargetGrade,
		DefaultScaleA: model.DefaultThresholdA,
		DefaultScaleB: model.DefaultThresholdB,
		DefaultScaleC: model.DefaultThresholdC,
		DefaultScaleD: model.DefaultThresholdD,
	}
}

// Scale returns the default grade scale as a domain value.
func (c *Config) Scale() model.GradeScale {
	return model.GradeScale{
		A: c.DefaultScaleA,
		B: c.DefaultScaleB,
		C: c.DefaultScaleC,
		D: c.DefaultScaleD,
	}
}

// Validate checks that the configuration can start a service.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path is required for the sqlite store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"default_target":  c.DefaultTarget,
		"default_scale_a": c.DefaultScaleA,
		"default_scale_b": c.DefaultScaleB,
		"default_scale_c": c.DefaultScaleC,
		"default_scale_d": c.DefaultScaleD,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidConfig, name)
		}
	}
	return nil
}
