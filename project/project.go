// Package project finds clausewitz files under a directory tree and checks
// them in parallel.
package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daveroberts0321/clausewitz/cache"
	"github.com/daveroberts0321/clausewitz/metrics"
	"github.com/daveroberts0321/clausewitz/parser/dispatch"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
	"github.com/daveroberts0321/clausewitz/parser/object"
	"github.com/daveroberts0321/clausewitz/source"
)

// Options configures Check. The zero value parses with one worker per CPU,
// no cache and no metrics.
type Options struct {
	Workers int

	// Strict additionally runs every file through a dispatch parser with
	// contract verification turned on.
	Strict bool

	Cache   *cache.Cache
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path    string
	Size    int64
	Entries int
	Cached  bool
	Took    time.Duration
	Err     error
}

// Report collects the results of one Check run in input order.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Files    []FileResult
}

// Failed returns the number of files that did not parse.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed files, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// FindFiles walks root and returns the files whose extension is in
// extensions, sorted. Hidden directories and directories named "generated"
// are skipped. A root that is a file is returned as is.
func FindFiles(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if HasExtension(path, extensions) {
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

// HasExtension reports whether path ends in one of extensions, ignoring case.
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func skipDir(name string) bool {
	return name == "generated" || (strings.HasPrefix(name, ".") && name != ".")
}

// Check parses files on a bounded pool of workers. Each worker owns its
// stream, so parses never share state. Cancelling ctx stops new files from
// being scheduled; files already being parsed run to completion. Files that
// were never scheduled report ctx.Err().
func Check(ctx context.Context, files []string, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Files:   make([]FileResult, len(files)),
	}
	for i, path := range files {
		report.Files[i] = FileResult{Path: path}
	}
	logger.Info("checking files", "run", report.RunID, "files", len(files), "workers", workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report.Files[i] = checkFile(ctx, files[i], report.RunID, opts, logger)
			}
		}()
	}

	scheduled := 0
schedule:
	for ; scheduled < len(files); scheduled++ {
		select {
		case <-ctx.Done():
			break schedule
		case jobs <- scheduled:
		}
	}
	close(jobs)
	wg.Wait()

	for i := scheduled; i < len(files); i++ {
		report.Files[i].Err = ctx.Err()
	}
	report.Finished = time.Now()

	if opts.Cache != nil {
		run := cache.Run{
			ID:       report.RunID,
			Started:  report.Started,
			Finished: report.Finished,
			Files:    len(files),
			Failed:   report.Failed(),
		}
		// the run is recorded even when cancelled
		if err := opts.Cache.RecordRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Warn("failed to record run", "run", report.RunID, "error", err)
		}
	}

	logger.Info("check finished",
		"run", report.RunID,
		"files", len(files),
		"failed", report.Failed(),
		"took", report.Finished.Sub(report.Started))
	return report, ctx.Err()
}

func checkFile(ctx context.Context, path, runID string, opts Options, logger *slog.Logger) (res FileResult) {
	res.Path = path
	start := time.Now()
	defer func() { res.Took = time.Since(start) }()

	raw, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return res
	}
	res.Size = int64(len(raw))

	hash := cache.Hash(raw)
	if opts.Strict {
		// non-strict results never answer a strict check
		hash += "+strict"
	}
	if opts.Cache != nil {
		stored, ok, err := opts.Cache.Lookup(ctx, path, hash)
		if err != nil {
			logger.Warn("cache lookup failed", "file", path, "error", err)
		}
		opts.Metrics.ObserveCache(ok)
		if ok {
			res.Cached = true
			res.Entries = stored.Entries
			if !stored.OK() {
				res.Err = errors.New(stored.Error)
			}
			logger.Debug("cache hit", "file", path)
			return res
		}
	}

	res.Entries, res.Err = parse(raw, path, opts.Strict)
	opts.Metrics.ObserveParse(res.Size, time.Since(start), res.Err)
	if res.Err != nil {
		logger.Debug("parse failed", "file", path, "error", res.Err)
	}

	if opts.Cache != nil {
		stored := cache.Result{Path: path, Hash: hash, Size: res.Size, Entries: res.Entries, RunID: runID}
		if res.Err != nil {
			stored.Error = res.Err.Error()
		}
		if err := opts.Cache.Store(ctx, stored); err != nil {
			logger.Warn("failed to cache result", "file", path, "error", err)
		}
	}
	return res
}

// parse builds the object tree of raw and returns its number of top-level
// entries.
func parse(raw []byte, path string, strict bool) (int, error) {
	data, _, err := source.Decode(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	n, err := object.ParseBytes(data, path)
	if err != nil {
		return 0, err
	}
	if strict {
		if err := verify(data, path); err != nil {
			return 0, err
		}
	}
	return n.Len(), nil
}

// verify discards the whole document through a strict dispatch parser.
func verify(data []byte, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	p := dispatch.New().OptionalAssign().Strict()
	return p.Parse(lexer.New(data, lexer.WithFilename(path)))
}
