package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcher_ReloadOnSnapshotReplace(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "snapshot.bin")

	var reloads atomic.Int32
	w := NewWatcher(snap, func() { reloads.Add(1) }, zap.NewNop())
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Mimic the build step: write a temp file then rename over the target.
	tmp := snap + ".tmp"
	if err := os.WriteFile(tmp, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, snap); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("reload callback never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "snapshot.bin")

	var reloads atomic.Int32
	w := NewWatcher(snap, func() { reloads.Add(1) }, zap.NewNop())
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := reloads.Load(); n != 0 {
		t.Errorf("unrelated file triggered %d reloads", n)
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "snapshot.bin")

	var reloads atomic.Int32
	w := NewWatcher(snap, func() { reloads.Add(1) }, zap.NewNop())
	w.debounce = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(snap, []byte{byte(i)}, 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)
	if n := reloads.Load(); n != 1 {
		t.Errorf("got %d reloads, want 1 after debounce", n)
	}
}

func TestWatcher_StartCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	w := NewWatcher(filepath.Join(dir, "snapshot.bin"), nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("snapshot dir should have been created: %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "s.bin"), nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
