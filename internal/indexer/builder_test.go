package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/embedding"
	"github.com/lmercier/careerchat/internal/ingest"
	"github.com/lmercier/careerchat/internal/storage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestBuilder(t *testing.T) (*Builder, storage.Store) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "snapshot.bin"))
	embedder := embedding.NewMockEmbedder(16)
	return NewBuilder(embedder, store, ingest.DefaultChunkOptions(), zap.NewNop()), store
}

func TestBuilder_ResumeOnly(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "cv.txt")
	writeFile(t, resume, "EXPERIENCE\nBackend engineer at Acme for five years.\n\nSKILLS\nGo, SQL, Docker")

	b, store := newTestBuilder(t)
	res, err := b.Build(context.Background(), Sources{ResumePath: resume})
	if err != nil {
		t.Fatal(err)
	}
	if res.ChunkCount == 0 {
		t.Fatal("expected at least one chunk")
	}
	if res.BuildID == "" {
		t.Error("build id must be set")
	}
	if res.ExportChunk != 0 {
		t.Errorf("export chunks = %d, want 0", res.ExportChunk)
	}

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Records) != res.ChunkCount {
		t.Errorf("snapshot has %d records, build reported %d", len(snap.Records), res.ChunkCount)
	}
	if snap.BuildID != res.BuildID {
		t.Error("snapshot build id mismatch")
	}
}

func TestBuilder_ExportOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Positions.csv"),
		"Title,Company Name,Description\nEngineer,Acme,Built backend services\n")
	writeFile(t, filepath.Join(dir, "Skills.csv"), "Name\nGo\nSQL\n")

	b, _ := newTestBuilder(t)
	res, err := b.Build(context.Background(), Sources{ExportDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExportChunk == 0 {
		t.Error("expected export chunks")
	}
	if res.ResumeChunk != 0 {
		t.Errorf("resume chunks = %d, want 0", res.ResumeChunk)
	}
}

func TestBuilder_NoSourcesFails(t *testing.T) {
	b, store := newTestBuilder(t)
	_, err := b.Build(context.Background(), Sources{})
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	// A failed build must not write a snapshot.
	if _, err := store.Load(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no snapshot after failed build, got %v", err)
	}
}

func TestBuilder_MissingResumeSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Skills.csv"), "Name\nKubernetes\n")

	b, _ := newTestBuilder(t)
	res, err := b.Build(context.Background(), Sources{
		ResumePath: filepath.Join(dir, "does-not-exist.pdf"),
		ExportDir:  dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.ResumeChunk != 0 {
		t.Error("missing resume should contribute zero chunks")
	}
	if res.ExportChunk == 0 {
		t.Error("export should still contribute chunks")
	}
}

func TestLoadIndex_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "cv.md")
	writeFile(t, resume, "SKILLS\nGo, Kubernetes, PostgreSQL and distributed systems work.")

	b, store := newTestBuilder(t)
	res, err := b.Build(context.Background(), Sources{ResumePath: resume})
	if err != nil {
		t.Fatal(err)
	}

	idx, buildID, err := LoadIndex(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	if buildID != res.BuildID {
		t.Errorf("build id = %q, want %q", buildID, res.BuildID)
	}
	if idx.Size() != res.ChunkCount {
		t.Errorf("index size = %d, want %d", idx.Size(), res.ChunkCount)
	}
	if idx.Dimensions() != 16 {
		t.Errorf("dimensions = %d, want 16", idx.Dimensions())
	}
}

func TestLoadIndex_MissingSnapshot(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "missing.bin"))
	if _, _, err := LoadIndex(context.Background(), store); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
