package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"formbuddy/internal/model"
)

func TestSQLiteBlobs_SaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	blobs, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	clock := &fakeClock{t: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)}
	s := NewTaskStore(blobs, WithClock(clock.Now))
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := s.Add(ctx, model.Fields{FormName: "Percentage Tax", FormNumber: "2551Q", Deadline: model.MustDate("2025-04-25")}); err != nil {
		t.Fatalf("add: %v", err)
	}
	want := s.List()
	if err := blobs.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, sqliteFileName)); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}

	reopened, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()
	s2 := NewTaskStore(reopened)
	res, err := s2.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Seeded {
		t.Fatalf("expected persisted tasks, not a reseed")
	}
	assertSameTasks(t, want, s2.List())
}

func TestSQLiteBlobs_MissingKey(t *testing.T) {
	ctx := context.Background()
	blobs, err := OpenSQLite(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer blobs.Close()

	if _, ok, err := blobs.Get(ctx, "nope"); err != nil || ok {
		t.Fatalf("expected missing key; ok=%v err=%v", ok, err)
	}
	if err := blobs.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := blobs.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("put again: %v", err)
	}
	b, ok, err := blobs.Get(ctx, "k")
	if err != nil || !ok || string(b) != "v2" {
		t.Fatalf("expected overwrite to v2; got %q ok=%v err=%v", b, ok, err)
	}
}
