package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `
logging:
  level: debug
  format: json
parse:
  workers: 4
  strict: true
cache:
  enabled: true
watch:
  debounce: 1s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging %+v", cfg.Logging)
	}
	if cfg.Parse.Workers != 4 || !cfg.Parse.Strict {
		t.Errorf("parse %+v", cfg.Parse)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Path != DefaultCachePath {
		t.Errorf("cache %+v", cfg.Cache)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce %v", cfg.Watch.Debounce)
	}
	if len(cfg.Parse.Extensions) != len(DefaultExtensions) {
		t.Errorf("extensions %v", cfg.Parse.Extensions)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "logging: [")); err == nil {
		t.Error("expected a YAML error")
	}

	_, err := Load(writeFile(t, "invalid.yaml", "logging:\n  level: loud\nparse:\n  extensions: [txt]\n"))
	var verr ValidationError
	if !errors.As(err, &verr) || len(verr.Errors) != 2 {
		t.Fatalf("expected two validation errors, got %v", err)
	}
	if !strings.Contains(err.Error(), "logging.level") || !strings.Contains(err.Error(), "parse.extensions") {
		t.Errorf("message %q", err.Error())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLAUSEWITZ_PARSE_WORKERS", "3")
	t.Setenv("CLAUSEWITZ_LOGGING_FORMAT", "json")
	t.Setenv("CLAUSEWITZ_PARSE_EXTENSIONS", ".txt,.eu4")
	t.Setenv("CLAUSEWITZ_WATCH_DEBOUNCE", "not a duration")

	cfg, err := LoadWithEnvOverrides("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parse.Workers != 3 || cfg.Logging.Format != "json" {
		t.Errorf("got %+v", cfg)
	}
	if strings.Join(cfg.Parse.Extensions, " ") != ".txt .eu4" {
		t.Errorf("extensions %v", cfg.Parse.Extensions)
	}
	if cfg.Watch.Debounce != DefaultWatchDebounce {
		t.Errorf("an unparsable override must be ignored, got %v", cfg.Watch.Debounce)
	}

	t.Setenv("CLAUSEWITZ_LOGGING_LEVEL", "verbose")
	if _, err := LoadWithEnvOverrides(""); err == nil {
		t.Error("expected overrides to be validated")
	}
}

func TestLoadConverter(t *testing.T) {
	path := writeFile(t, "configuration.txt", `
# converter settings
configuration = {
	EU4directory = "C:\Games\Europa Universalis IV"
	V2directory = "C:\Games\Victoria 2"
	resetProvinces = no
}
`)
	c, err := LoadConverter(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.EU4Directory != `C:\Games\Europa Universalis IV` || c.V2Directory != `C:\Games\Victoria 2` {
		t.Errorf("got %+v", c)
	}
	if c.Setting("resetProvinces") != "no" {
		t.Errorf("resetProvinces %q", c.Setting("resetProvinces"))
	}
}

func TestLoadConverterNeedsOneSection(t *testing.T) {
	for _, src := range []string{
		"other = { }",
		"configuration = { a = 1 }\nconfiguration = { a = 2 }",
	} {
		if _, err := LoadConverter(writeFile(t, "configuration.txt", src)); err == nil {
			t.Errorf("expected an error for %q", src)
		}
	}
}
