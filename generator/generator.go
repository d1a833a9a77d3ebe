// Package generator scaffolds a working directory for the clausewitz tools.
package generator

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/*
var templates embed.FS

// files maps scaffolded paths to their templates.
var files = []struct{ path, template string }{
	{"clausewitz.yaml", "templates/clausewitz.yaml"},
	{"configuration.txt", "templates/configuration.txt"},
	{".gitignore", "templates/gitignore"},
}

// Init creates dir with a clausewitz.yaml, a converter configuration.txt
// and the data and generated directories. Existing files are left alone.
// It returns the paths it wrote.
func Init(dir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, sub := range []string{"", "data", "generated"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Join(dir, sub), err)
		}
	}

	name := filepath.Base(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		name = filepath.Base(abs)
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.path)
		if _, err := os.Stat(path); err == nil {
			logger.Info("keeping existing file", "file", path)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return written, err
		}
		if err := writeTemplateFile(path, f.template, name); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		logger.Info("created file", "file", path)
		written = append(written, path)
	}
	return written, nil
}

func writeTemplateFile(path, templatePath, name string) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return err
	}
	out := strings.ReplaceAll(string(content), "{{.Name}}", name)
	return os.WriteFile(path, []byte(out), 0644)
}
