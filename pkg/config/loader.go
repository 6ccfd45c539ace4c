package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
)

// LoadConfig loads and parses a configuration file. The format follows the
// extension: .toml is TOML, anything else is YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = ParseConfigTOML(data)
	default:
		cfg, err = ParseConfigYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate performs validation on the configuration
func Validate(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	validFormats := map[string]bool{
		"":       true,
		"json":   true,
		"text":   true,
		"pretty": true,
	}
	if !validFormats[cfg.LogFormat] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log_format: %s (must be json, text, or pretty)", cfg.LogFormat)
	}

	if err := validatePoints(cfg); err != nil {
		return err
	}
	if err := validateOracle(&cfg.Oracle); err != nil {
		return err
	}

	if cfg.Dispatch.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "dispatch concurrency must be at least 1, got %d", cfg.Dispatch.Concurrency)
	}
	if cfg.Dispatch.ProgressEvery < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dispatch progress_every cannot be negative, got %d", cfg.Dispatch.ProgressEvery)
	}

	return nil
}

func validatePoints(cfg *Config) error {
	if len(cfg.Points) < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least 2 points must be defined, got %d", len(cfg.Points))
	}
	if len(cfg.Points) > MaxPoints {
		return errors.New(errors.ErrCodeInvalidConfig, "at most %d points are supported, got %d", MaxPoints, len(cfg.Points))
	}
	for i, p := range cfg.Points {
		if p.Name == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "point %d: name cannot be empty", i)
		}
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "point %s: coordinates must be finite", p.Name)
		}
	}
	return nil
}

func validateOracle(o *Oracle) error {
	switch o.Transport {
	case TransportHTTP:
		if o.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "oracle url is required for http transport")
		}
	case TransportGRPC:
		if o.GRPCAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "oracle grpc_addr is required for grpc transport")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid oracle transport: %s (must be http or grpc)", o.Transport)
	}

	if _, err := o.GetTimeout(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid oracle timeout %s", o.Timeout)
	}
	if _, err := o.GetHealthTimeout(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid oracle health_timeout %s", o.HealthTimeout)
	}
	if o.HealthRetries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "oracle health_retries cannot be negative, got %d", o.HealthRetries)
	}
	return nil
}
