package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "SHIPBOARD_"
	envConfig  = envPrefix + "CONFIG"
	formatText = "text"
	formatJSON = "json"
)

// deploymentEnv maps the unprefixed CI variables onto config keys.
var deploymentEnv = map[string]string{
	"ENVIRONMENT":  "environment",
	"GIT_COMMIT":   "git_commit",
	"BUILD_NUMBER": "build_number",
	"APP_VERSION":  "version",
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by SHIPBOARD_CONFIG
//  3. ENVIRONMENT, GIT_COMMIT, BUILD_NUMBER, APP_VERSION
//  4. SHIPBOARD_* variables
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	ciProvider := env.Provider("", ".", func(s string) string {
		return deploymentEnv[s]
	})
	if err := k.Load(ciProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// SHIPBOARD_LOAD_ITERATIONS -> load_iterations; keys stay flat.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envConfig {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CPUSampleIntervalMS < 0:
		return fmt.Errorf("%w: cpu_sample_interval_ms must not be negative", ErrInvalidConfig)
	case c.SamplerIntervalMS < 0:
		return fmt.Errorf("%w: sampler_interval_ms must not be negative", ErrInvalidConfig)
	case c.StreamIntervalMS <= 0:
		return fmt.Errorf("%w: stream_interval_ms must be positive", ErrInvalidConfig)
	case c.LoadIterations < 0:
		return fmt.Errorf("%w: load_iterations must not be negative", ErrInvalidConfig)
	case c.LoadRateLimit < 0:
		return fmt.Errorf("%w: load_rate_limit must not be negative", ErrInvalidConfig)
	case c.LoadRateLimit > 0 && c.LoadRateIntervalMS <= 0:
		return fmt.Errorf("%w: load_rate_interval_ms must be positive when load_rate_limit is set", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", formatText, formatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
