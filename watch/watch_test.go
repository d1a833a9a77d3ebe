package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/daveroberts0321/clausewitz/logging"
)

func start(t *testing.T, dir string) <-chan []string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changes := make(chan []string, 10)
	cfg := Config{
		Dir:        dir,
		Extensions: []string{".txt"},
		Debounce:   50 * time.Millisecond,
		Logger:     logging.Discard(),
	}
	go func() {
		Watch(ctx, cfg, func(paths []string) error {
			changes <- paths
			return nil
		})
	}()
	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)
	return changes
}

// Test that a write to a watched file triggers the callback.
func TestWatchTriggersCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	os.WriteFile(file, []byte("a = 1"), 0644)

	changes := start(t, dir)
	os.WriteFile(file, []byte("a = 2"), 0644)

	select {
	case paths := <-changes:
		if len(paths) != 1 || paths[0] != file {
			t.Fatalf("unexpected paths: %v", paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("expected a check to be triggered")
	}
}

// Test that files with other extensions are ignored.
func TestWatchFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, dir)

	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644)
	select {
	case paths := <-changes:
		t.Fatalf("unexpected check for %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

// Test that files in directories created after start are watched too.
func TestWatchNewDirectory(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, dir)

	sub := filepath.Join(dir, "history")
	os.Mkdir(sub, 0755)
	time.Sleep(200 * time.Millisecond)
	file := filepath.Join(sub, "b.txt")
	os.WriteFile(file, []byte("b = 1"), 0644)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case paths := <-changes:
			for _, p := range paths {
				if p == file {
					return
				}
			}
		case <-deadline:
			t.Fatal("expected a check for the new directory")
		}
	}
}
