// Package watch re-runs a callback when clausewitz files under a directory
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/daveroberts0321/clausewitz/project"
)

// Config selects what is watched.
type Config struct {
	// Dir is watched together with all its subdirectories.
	Dir string

	// Extensions filters the files whose changes are reported.
	Extensions []string

	// Debounce is the quiet period collected changes wait for before the
	// callback runs.
	Debounce time.Duration

	Logger *slog.Logger
}

// Watch blocks until ctx is cancelled, calling onChange with the sorted list
// of files that were written or created since the last call. Errors from
// onChange are logged and watching continues.
func Watch(ctx context.Context, cfg Config, onChange func(paths []string) error) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, cfg.Dir); err != nil {
		return err
	}
	logger.Info("watching for changes", "dir", cfg.Dir, "debounce", cfg.Debounce)

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !project.HasExtension(event.Name, cfg.Extensions) {
				continue
			}
			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			pending[event.Name] = struct{}{}
			timer.Reset(cfg.Debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			if err := onChange(paths); err != nil {
				logger.Error("re-check failed", "files", len(paths), "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// addTree adds dir and its subdirectories, skipping hidden ones.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
