// Package cache remembers the outcome of checking a file so unchanged files
// are not parsed again. Results are keyed by path and content hash and kept
// in a SQLite database.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Result is the stored outcome of checking one file.
type Result struct {
	Path      string
	Hash      string
	Size      int64
	Entries   int
	Error     string
	RunID     string
	CheckedAt time.Time
}

// OK reports whether the file parsed without error.
func (r Result) OK() bool { return r.Error == "" }

// Run summarizes one batch check.
type Run struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Files    int
	Failed   int
}

// Cache is a SQLite backed result store. It is safe for concurrent use.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("cache path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initSchema() error {
	schema := `
	PRAGMA journal_mode = WAL;
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS results (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		size INTEGER NOT NULL,
		entries INTEGER NOT NULL,
		error TEXT NOT NULL,
		run_id TEXT NOT NULL,
		checked_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		files INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Hash returns the content hash stored with results.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the stored result for path if its content hash still
// matches.
func (c *Cache) Lookup(ctx context.Context, path, hash string) (Result, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT path, hash, size, entries, error, run_id, checked_at
		FROM results WHERE path = ? AND hash = ?`, path, hash)

	var r Result
	var checked int64
	err := row.Scan(&r.Path, &r.Hash, &r.Size, &r.Entries, &r.Error, &r.RunID, &checked)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("failed to look up %s: %w", path, err)
	}
	r.CheckedAt = time.Unix(0, checked)
	return r, true, nil
}

// Store saves r, replacing any earlier result for the same path.
func (c *Cache) Store(ctx context.Context, r Result) error {
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO results (path, hash, size, entries, error, run_id, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			hash = excluded.hash,
			size = excluded.size,
			entries = excluded.entries,
			error = excluded.error,
			run_id = excluded.run_id,
			checked_at = excluded.checked_at`,
		r.Path, r.Hash, r.Size, r.Entries, r.Error, r.RunID, r.CheckedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", r.Path, err)
	}
	return nil
}

// RecordRun saves the summary of a batch check.
func (c *Cache) RecordRun(ctx context.Context, run Run) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, started_at, finished_at, files, failed)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Started.UnixNano(), run.Finished.UnixNano(), run.Files, run.Failed)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// LastRun returns the most recently started run.
func (c *Cache) LastRun(ctx context.Context) (Run, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, files, failed
		FROM runs ORDER BY started_at DESC LIMIT 1`)
	var run Run
	var started, finished int64
	err := row.Scan(&run.ID, &started, &finished, &run.Files, &run.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("failed to read runs: %w", err)
	}
	run.Started = time.Unix(0, started)
	run.Finished = time.Unix(0, finished)
	return run, true, nil
}

// Failures returns the stored results that carry an error, ordered by path.
func (c *Cache) Failures(ctx context.Context) ([]Result, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT path, hash, size, entries, error, run_id, checked_at
		FROM results WHERE error != '' ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var checked int64
		if err := rows.Scan(&r.Path, &r.Hash, &r.Size, &r.Entries, &r.Error, &r.RunID, &checked); err != nil {
			return nil, err
		}
		r.CheckedAt = time.Unix(0, checked)
		out = append(out, r)
	}
	return out, rows.Err()
}
