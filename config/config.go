// Package config holds the application configuration of the clausewitz
// tools. Configuration is read from a YAML file, completed with defaults,
// optionally overridden from CLAUSEWITZ_* environment variables and then
// validated.
//
// # Converter configuration
//
// LoadConverter reads the converter's own configuration.txt, which is
// written in the clausal game format rather than YAML.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Parse   ParseConfig   `yaml:"parse"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// ParseConfig configures batch parsing.
type ParseConfig struct {
	// Workers is the number of files parsed at the same time.
	Workers int `yaml:"workers"`

	// Strict turns on handler contract verification.
	Strict bool `yaml:"strict"`

	// Extensions lists the file extensions picked up when walking a
	// directory, with the leading dot.
	Extensions []string `yaml:"extensions"`
}

// CacheConfig configures the parse result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Address   string `yaml:"address"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long to wait for further writes before re-checking
	// a changed file.
	Debounce time.Duration `yaml:"debounce"`
}
