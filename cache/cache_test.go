package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "data", "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestStoreAndLookup(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	run := uuid.NewString()
	hash := Hash([]byte("a = 1"))

	if _, ok, err := c.Lookup(ctx, "a.txt", hash); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	if err := c.Store(ctx, Result{Path: "a.txt", Hash: hash, Size: 5, Entries: 1, RunID: run}); err != nil {
		t.Fatal(err)
	}
	r, ok, err := c.Lookup(ctx, "a.txt", hash)
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if r.Entries != 1 || r.Size != 5 || r.RunID != run || !r.OK() || r.CheckedAt.IsZero() {
		t.Fatalf("got %+v", r)
	}

	// a changed file misses
	if _, ok, _ := c.Lookup(ctx, "a.txt", Hash([]byte("a = 2"))); ok {
		t.Fatal("expected a miss for changed content")
	}

	// storing again replaces the row
	if err := c.Store(ctx, Result{Path: "a.txt", Hash: hash, Error: "boom", RunID: run}); err != nil {
		t.Fatal(err)
	}
	fails, err := c.Failures(ctx)
	if err != nil || len(fails) != 1 || fails[0].Error != "boom" {
		t.Fatalf("failures %+v %v", fails, err)
	}
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)

	if _, ok, err := c.LastRun(ctx); err != nil || ok {
		t.Fatalf("no runs yet: ok=%v err=%v", ok, err)
	}
	start := time.Now()
	first := Run{ID: uuid.NewString(), Started: start, Finished: start.Add(time.Second), Files: 3}
	second := Run{ID: uuid.NewString(), Started: start.Add(time.Minute), Finished: start.Add(2 * time.Minute), Files: 4, Failed: 1}
	for _, run := range []Run{first, second} {
		if err := c.RecordRun(ctx, run); err != nil {
			t.Fatal(err)
		}
	}
	last, ok, err := c.LastRun(ctx)
	if err != nil || !ok {
		t.Fatalf("last run: %v %v", ok, err)
	}
	if last.ID != second.ID || last.Failed != 1 || !last.Started.Equal(second.Started) {
		t.Fatalf("got %+v", last)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected an error")
	}
}
