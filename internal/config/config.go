// Package config defines service configuration and its defaults.
//
// Conventions:
//   - Defaults live in New; Load layers a YAML file and the environment on top.
//   - Deployment metadata comes from unprefixed variables (ENVIRONMENT,
//     GIT_COMMIT, BUILD_NUMBER, APP_VERSION); service settings use SHIPBOARD_.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// Version, Environment, GitCommit and BuildNumber describe the running build.
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	GitCommit   string `koanf:"git_commit"`
	BuildNumber string `koanf:"build_number"`

	// CPUSampleIntervalMS is how long a CPU utilization query samples for.
	CPUSampleIntervalMS int `koanf:"cpu_sample_interval_ms"`

	// SamplerIntervalMS is the refresh period of the background host gauges; 0 disables it.
	SamplerIntervalMS int `koanf:"sampler_interval_ms"`

	// StreamIntervalMS is how often GET /api/metrics/stream pushes a snapshot.
	StreamIntervalMS int `koanf:"stream_interval_ms"`

	// LoadIterations sizes the busy loop behind POST /api/simulate-load.
	LoadIterations int `koanf:"load_iterations"`

	// LoadRateLimit allows this many simulate-load calls per client per
	// LoadRateIntervalMS. 0, the default, disables limiting so every call
	// answers 200.
	LoadRateLimit      int `koanf:"load_rate_limit"`
	LoadRateIntervalMS int `koanf:"load_rate_interval_ms"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":5000",
		Version:             "1.0.0",
		Environment:         "development",
		GitCommit:           "unknown",
		BuildNumber:         "local",
		CPUSampleIntervalMS: 200,
		SamplerIntervalMS:   10_000,
		StreamIntervalMS:    5_000,
		LoadIterations:      1_000_000,
		LoadRateLimit:       0,
		LoadRateIntervalMS:  60_000,
		MetricsEnabled:      true,
	}
}

// CPUSampleInterval returns CPUSampleIntervalMS as a duration.
func (c *Config) CPUSampleInterval() time.Duration {
	return time.Duration(c.CPUSampleIntervalMS) * time.Millisecond
}

// SamplerInterval returns SamplerIntervalMS as a duration.
func (c *Config) SamplerInterval() time.Duration {
	return time.Duration(c.SamplerIntervalMS) * time.Millisecond
}

// StreamInterval returns StreamIntervalMS as a duration.
func (c *Config) StreamInterval() time.Duration {
	return time.Duration(c.StreamIntervalMS) * time.Millisecond
}

// LoadRateInterval returns LoadRateIntervalMS as a duration.
func (c *Config) LoadRateInterval() time.Duration {
	return time.Duration(c.LoadRateIntervalMS) * time.Millisecond
}
