package config

import (
	"runtime"
	"time"
)

// Default values for configuration fields.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"

	DefaultCachePath = "data/clausewitz.db"

	DefaultMetricsAddress   = "127.0.0.1:9464"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "clausewitz"

	DefaultWatchDebounce = 250 * time.Millisecond
)

// DefaultExtensions are the file types parsed when none are configured.
var DefaultExtensions = []string{".txt", ".eu4", ".v2", ".gui", ".gfx"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field of cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Parse.Workers <= 0 {
		cfg.Parse.Workers = runtime.NumCPU()
	}
	if len(cfg.Parse.Extensions) == 0 {
		cfg.Parse.Extensions = append([]string(nil), DefaultExtensions...)
	}

	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = DefaultMetricsAddress
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
