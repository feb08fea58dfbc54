// Package config loads the emadjoint configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/notargets/emadjoint/adjoint"
	"github.com/notargets/emadjoint/device"
	"github.com/notargets/emadjoint/geometry"
	"github.com/notargets/emadjoint/legacy"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file
const (
	EnvLogLevel = "EMADJOINT_LOG_LEVEL"
	EnvWorkers  = "EMADJOINT_WORKERS"
	EnvDevice   = "EMADJOINT_DEVICE"
)

// Config holds all emadjoint configuration.
type Config struct {
	Adjoint AdjointConfig `yaml:"adjoint"`
	Device  DeviceConfig  `yaml:"device"`
	Legacy  LegacyConfig  `yaml:"legacy"`
	Logging LoggingConfig `yaml:"logging"`
}

// AdjointConfig configures gradient computations.
type AdjointConfig struct {
	PointsPerWavelength float64 `yaml:"points_per_wavelength"`
	CustomVolumeElement float64 `yaml:"custom_volume_element"`
	Workers             int     `yaml:"workers"` // 0 runs every structure at once
}

// DeviceConfig selects where reductions run.
type DeviceConfig struct {
	// Mode is host, auto, OpenMP, CUDA or Serial
	Mode string `yaml:"mode"`
}

// LegacyConfig configures the legacy exporter.
type LegacyConfig struct {
	AllowPartial bool `yaml:"allow_partial"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Adjoint: AdjointConfig{
			PointsPerWavelength: adjoint.DefaultPointsPerWavelength,
			CustomVolumeElement: 1.0,
		},
		Device:  DeviceConfig{Mode: "host"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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

func (c *Config) applyEnv() error {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
	if w := os.Getenv(EnvWorkers); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Adjoint.Workers = n
	}
	if mode := os.Getenv(EnvDevice); mode != "" {
		c.Device.Mode = mode
	}
	return nil
}

func (c *Config) Validate() error {
	if !(c.Adjoint.PointsPerWavelength > 0) {
		return fmt.Errorf("adjoint.points_per_wavelength must be positive, got %g", c.Adjoint.PointsPerWavelength)
	}
	if c.Adjoint.Workers < 0 {
		return fmt.Errorf("adjoint.workers must not be negative, got %d", c.Adjoint.Workers)
	}
	if _, err := device.PropsForMode(c.Device.Mode); err != nil {
		return fmt.Errorf("device.mode: %w", err)
	}
	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// AdjointOptions builds gradient options summing with reducer, which is
// normally opened for Device.Mode. A nil reducer sums on the host.
func (c *Config) AdjointOptions(reducer adjoint.Reducer, log *zap.Logger) adjoint.Options {
	opts := adjoint.DefaultOptions()
	opts.PointsPerWavelength = c.Adjoint.PointsPerWavelength
	opts.CustomVolumeElement = c.Adjoint.CustomVolumeElement
	if reducer != nil {
		opts.Reducer = reducer
	}
	if log != nil {
		opts.Logger = log
	}
	return opts
}

// GradientPass builds a pass over simBounds limited to Adjoint.Workers
// concurrent structures
func (c *Config) GradientPass(simBounds geometry.Bound, reducer adjoint.Reducer, log *zap.Logger) *adjoint.GradientPass {
	return &adjoint.GradientPass{
		SimBounds: simBounds,
		Options:   c.AdjointOptions(reducer, log),
		Workers:   c.Adjoint.Workers,
	}
}

// ExportOptions builds legacy export options
func (c *Config) ExportOptions(log *zap.Logger) legacy.ExportOptions {
	return legacy.ExportOptions{AllowPartial: c.Legacy.AllowPartial, Logger: log}
}
