package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/daveroberts0321/clausewitz/cache"
	"github.com/daveroberts0321/clausewitz/logging"
	"github.com/daveroberts0321/clausewitz/metrics"
	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
)

var extensions = []string{".txt", ".eu4"}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

// Test that discovery skips generated and hidden directories and filters by extension.
func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "b.txt"), "")
	write(t, filepath.Join(dir, "a.EU4"), "")
	write(t, filepath.Join(dir, "notes.md"), "")
	write(t, filepath.Join(dir, "generated", "c.txt"), "")
	write(t, filepath.Join(dir, ".git", "d.txt"), "")
	write(t, filepath.Join(dir, "history", "provinces", "1 - Uppland.txt"), "")

	files, err := FindFiles(dir, extensions)
	if err != nil {
		t.Fatalf("FindFiles error: %v", err)
	}
	expected := []string{
		filepath.Join(dir, "a.EU4"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "history", "provinces", "1 - Uppland.txt"),
	}
	if len(files) != len(expected) {
		t.Fatalf("unexpected files: %v", files)
	}
	for i := range expected {
		if files[i] != expected[i] {
			t.Fatalf("file %d = %s, want %s", i, files[i], expected[i])
		}
	}
}

// Test that a single file root is returned unchanged.
func TestFindFilesSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.gui")
	write(t, path, "")
	files, err := FindFiles(path, extensions)
	if err != nil || len(files) != 1 || files[0] != path {
		t.Fatalf("got %v, %v", files, err)
	}
}

// Test that results come back in input order with failures reported per file.
func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	legacy := filepath.Join(dir, "legacy.txt")
	write(t, good, "a = 1\nb = { c d }\n")
	write(t, bad, "a = { b = 1\n")
	write(t, legacy, "name = \"Sk\xe5ne\"\n")

	files := []string{good, bad, legacy, filepath.Join(dir, "missing.txt")}
	report, err := Check(context.Background(), files, Options{Workers: 2, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if report.RunID == "" || report.Finished.Before(report.Started) {
		t.Fatalf("bad report header: %+v", report)
	}
	if len(report.Files) != 4 {
		t.Fatalf("got %d results", len(report.Files))
	}
	for i, f := range report.Files {
		if f.Path != files[i] {
			t.Fatalf("result %d is %s, want %s", i, f.Path, files[i])
		}
	}
	if r := report.Files[0]; r.Err != nil || r.Entries != 2 {
		t.Fatalf("good: %+v", r)
	}
	if r := report.Files[1]; !errors.Is(r.Err, perrors.ErrUnterminatedBlock) {
		t.Fatalf("bad: %+v", r)
	}
	if r := report.Files[2]; r.Err != nil || r.Entries != 1 {
		t.Fatalf("legacy: %+v", r)
	}
	if r := report.Files[3]; !errors.Is(r.Err, os.ErrNotExist) {
		t.Fatalf("missing: %+v", r)
	}
	if report.Failed() != 2 || report.Err() == nil {
		t.Fatalf("failed = %d", report.Failed())
	}
}

// Test that the second run over unchanged files is served from the cache.
func TestCheckUsesCache(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	m := metrics.New("test", nil)

	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	write(t, good, "a = 1")
	write(t, bad, "}")
	opts := Options{Workers: 1, Cache: c, Metrics: m, Logger: logging.Discard()}

	first, err := Check(context.Background(), []string{good, bad}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Check(context.Background(), []string{good, bad}, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range second.Files {
		if !f.Cached {
			t.Fatalf("%s was not cached", f.Path)
		}
	}
	if second.Files[0].Entries != 1 || second.Files[1].Err == nil {
		t.Fatalf("cached results differ: %+v", second.Files)
	}
	if first.Failed() != second.Failed() {
		t.Fatalf("failed %d vs %d", first.Failed(), second.Failed())
	}

	// one miss series from the first run, one hit series from the second
	if n, err := testutil.GatherAndCount(m.Registry(), "test_cache_lookups_total"); err != nil || n != 2 {
		t.Fatalf("cache lookup series = %d, %v", n, err)
	}

	last, ok, err := c.LastRun(context.Background())
	if err != nil || !ok || last.ID != second.RunID || last.Failed != 1 {
		t.Fatalf("last run %+v %v %v", last, ok, err)
	}

	// a changed file is parsed again
	write(t, good, "a = 1 b = 2")
	third, err := Check(context.Background(), []string{good}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached || third.Files[0].Entries != 2 {
		t.Fatalf("changed file: %+v", third.Files[0])
	}
}

// Test that strict mode still accepts every well formed document.
func TestCheckStrict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	write(t, path, "a = 1 b { c = { d e } } f = { { g = h } }")
	report, err := Check(context.Background(), []string{path}, Options{Strict: true, Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	if r := report.Files[0]; r.Err != nil || r.Entries != 3 {
		t.Fatalf("got %+v", r)
	}
}

// Test that a strict check does not reuse a result cached by a plain check.
func TestCheckStrictBypassesPlainCache(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	path := filepath.Join(dir, "a.txt")
	write(t, path, "a = 1")

	plain := Options{Workers: 1, Cache: c, Logger: logging.Discard()}
	if _, err := Check(context.Background(), []string{path}, plain); err != nil {
		t.Fatal(err)
	}
	strict := plain
	strict.Strict = true
	report, err := Check(context.Background(), []string{path}, strict)
	if err != nil {
		t.Fatal(err)
	}
	if report.Files[0].Cached {
		t.Fatal("strict check was answered from a plain result")
	}
	report, err = Check(context.Background(), []string{path}, strict)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Files[0].Cached {
		t.Fatal("second strict check was not cached")
	}
}

// Test that a cancelled context leaves unscheduled files marked as cancelled.
func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Check(ctx, []string{"a.txt", "b.txt"}, Options{Workers: 1, Logger: logging.Discard()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(report.Files) != 2 {
		t.Fatalf("got %d results", len(report.Files))
	}
	for _, f := range report.Files {
		if f.Err == nil {
			t.Fatalf("%s has no error", f.Path)
		}
	}
}
