package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lmercier/careerchat/internal/vector"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		BuildID:    "test-build-123",
		Dimensions: 3,
		Records: []vector.Record{
			{ID: 0, Text: "Work experience\nTitle: Engineer", Embedding: []float32{0.1, 0.2, 0.3}},
			{ID: 1, Text: "Skills: Go, SQL", Embedding: []float32{-0.5, 0.0, 1.25}},
			{ID: 2, Text: "été — accented text", Embedding: []float32{1, 2, 3}},
		},
	}
}

func assertSnapshotEqual(t *testing.T, want, got *Snapshot) {
	t.Helper()
	if got.BuildID != want.BuildID {
		t.Errorf("BuildID = %q, want %q", got.BuildID, want.BuildID)
	}
	if got.Dimensions != want.Dimensions {
		t.Errorf("Dimensions = %d, want %d", got.Dimensions, want.Dimensions)
	}
	if len(got.Records) != len(want.Records) {
		t.Fatalf("got %d records, want %d", len(got.Records), len(want.Records))
	}
	for i, w := range want.Records {
		g := got.Records[i]
		if g.ID != w.ID {
			t.Errorf("record %d: ID = %d, want %d", i, g.ID, w.ID)
		}
		if g.Text != w.Text {
			t.Errorf("record %d: Text = %q, want %q", i, g.Text, w.Text)
		}
		if len(g.Embedding) != len(w.Embedding) {
			t.Fatalf("record %d: embedding length %d, want %d", i, len(g.Embedding), len(w.Embedding))
		}
		for j := range w.Embedding {
			if g.Embedding[j] != w.Embedding[j] {
				t.Errorf("record %d dim %d: %v, want %v", i, j, g.Embedding[j], w.Embedding[j])
			}
		}
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.bin")
	store := NewFileStore(path)
	ctx := context.Background()

	want := sampleSnapshot()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotEqual(t, want, got)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.bin"))
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.bin")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	second := &Snapshot{
		BuildID:    "rebuild",
		Dimensions: 2,
		Records:    []vector.Record{{ID: 0, Text: "only one", Embedding: []float32{1, 0}}},
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertSnapshotEqual(t, second, got)
}

func TestNewStore_PicksByExtension(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(filepath.Join(dir, "snap.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("expected FileStore for .bin, got %T", s)
	}
	s.Close()

	s, err = NewStore(filepath.Join(dir, "snap.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("expected SQLiteStore for .db, got %T", s)
	}
	s.Close()
}
