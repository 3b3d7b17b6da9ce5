package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "POSEFIGHT_"
	envFileVar = envPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if POSEFIGHT_CONFIG is set
//  3. env (prefix POSEFIGHT_)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// POSEFIGHT_TICK_HZ -> tick_hz. Keys are flat so underscores survive.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every out-of-range field, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.ListenAddr != "", "listen_addr must not be empty")
	check(c.HTTPAddr != "", "http_addr must not be empty")
	check(c.TickHz > 0, "tick_hz must be positive, got %d", c.TickHz)
	check(c.MaxFrameBytes >= 2, "max_frame_bytes must be at least 2, got %d", c.MaxFrameBytes)
	check(c.MinCutoff > 0, "min_cutoff must be positive, got %g", c.MinCutoff)
	check(c.Beta >= 0, "beta must not be negative, got %g", c.Beta)
	check(c.DerivativeCutoff > 0, "derivative_cutoff must be positive, got %g", c.DerivativeCutoff)
	check(c.StartingHealth > 0, "starting_health must be positive, got %d", c.StartingHealth)
	check(c.CooldownMS >= 0, "cooldown_ms must not be negative, got %d", c.CooldownMS)
	check(c.FeedBuffer > 0, "feed_buffer must be positive, got %d", c.FeedBuffer)

	return errors.Join(errs...)
}
