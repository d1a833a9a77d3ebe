package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadWithEnvOverrides loads the file at path and applies CLAUSEWITZ_*
// environment variables on top of it. An empty path starts from the
// defaults.
func LoadWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies variables named CLAUSEWITZ_SECTION_FIELD.
// Values that do not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CLAUSEWITZ_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CLAUSEWITZ_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("CLAUSEWITZ_PARSE_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Parse.Workers = i
		}
	}
	if val := os.Getenv("CLAUSEWITZ_PARSE_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Parse.Strict = b
		}
	}
	if val := os.Getenv("CLAUSEWITZ_PARSE_EXTENSIONS"); val != "" {
		cfg.Parse.Extensions = strings.Split(val, ",")
	}

	if val := os.Getenv("CLAUSEWITZ_CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if val := os.Getenv("CLAUSEWITZ_CACHE_PATH"); val != "" {
		cfg.Cache.Path = val
	}

	if val := os.Getenv("CLAUSEWITZ_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CLAUSEWITZ_METRICS_ADDRESS"); val != "" {
		cfg.Metrics.Address = val
	}

	if val := os.Getenv("CLAUSEWITZ_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}
