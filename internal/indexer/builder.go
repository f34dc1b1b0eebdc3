// Package indexer builds the knowledge base: it loads the career sources,
// chunks them, embeds every chunk and persists the resulting snapshot.
package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/embedding"
	"github.com/lmercier/careerchat/internal/ingest"
	"github.com/lmercier/careerchat/internal/storage"
	"github.com/lmercier/careerchat/internal/vector"
)

// ErrNoContent means no text could be collected from any source. A build
// never writes an empty snapshot.
var ErrNoContent = errors.New("no text to index")

// Sources names the career inputs for a build. Either field may be empty,
// but not both.
type Sources struct {
	// ResumePath points at the CV file (.pdf, .docx, .txt, .md or .xlsx).
	ResumePath string

	// ExportDir points at the unzipped professional-network export.
	ExportDir string
}

// Builder runs the build pipeline.
type Builder struct {
	embedder embedding.Embedder
	store    storage.Store
	chunking ingest.ChunkOptions
	logger   *zap.Logger
}

// Result summarizes a completed build.
type Result struct {
	BuildID     string
	ChunkCount  int
	Dimensions  int
	ResumeChunk int
	ExportChunk int
}

// NewBuilder creates a build pipeline writing through store.
func NewBuilder(embedder embedding.Embedder, store storage.Store, chunking ingest.ChunkOptions, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		embedder: embedder,
		store:    store,
		chunking: chunking,
		logger:   logger,
	}
}

// Build collects chunks from every configured source, embeds them and saves
// a fresh snapshot. Sources that are missing or unreadable are logged and
// skipped; the build fails only when nothing at all could be collected.
func (b *Builder) Build(ctx context.Context, src Sources) (*Result, error) {
	buildID := uuid.New().String()
	log := b.logger.With(zap.String("build_id", buildID))

	var chunks []string
	var resumeCount, exportCount int

	if src.ResumePath != "" {
		resumeChunks, err := b.collectResume(src.ResumePath, log)
		if err != nil {
			log.Warn("resume skipped", zap.String("path", src.ResumePath), zap.Error(err))
		} else {
			chunks = append(chunks, resumeChunks...)
			resumeCount = len(resumeChunks)
		}
	}

	if src.ExportDir != "" {
		exportChunks := b.collectExport(src.ExportDir, log)
		chunks = append(chunks, exportChunks...)
		exportCount = len(exportChunks)
	}

	if len(chunks) == 0 {
		return nil, ErrNoContent
	}
	log.Info("collected chunks",
		zap.Int("resume", resumeCount),
		zap.Int("export", exportCount),
		zap.Int("total", len(chunks)))

	embeddings, err := b.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	idx, err := vector.NewIndex(b.embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if err := idx.Add(ctx, chunks, embeddings); err != nil {
		return nil, fmt.Errorf("populate index: %w", err)
	}

	snap := &storage.Snapshot{
		BuildID:    buildID,
		Dimensions: idx.Dimensions(),
		Records:    idx.Records(),
	}
	if err := b.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	log.Info("snapshot saved", zap.Int("records", len(snap.Records)))

	return &Result{
		BuildID:     buildID,
		ChunkCount:  len(chunks),
		Dimensions:  idx.Dimensions(),
		ResumeChunk: resumeCount,
		ExportChunk: exportCount,
	}, nil
}

func (b *Builder) collectResume(path string, log *zap.Logger) ([]string, error) {
	doc, sections, err := ingest.LoadResume(path, log)
	if err != nil {
		return nil, err
	}
	chunks := ingest.SectionsToChunks(sections, b.chunking)
	log.Debug("resume chunked",
		zap.String("name", doc.Name),
		zap.Int("sections", len(sections)),
		zap.Int("chunks", len(chunks)))
	return chunks, nil
}

func (b *Builder) collectExport(dir string, log *zap.Logger) []string {
	export := ingest.LoadExport(dir, log)
	chunks := ingest.ExportToChunks(export)
	log.Debug("export rendered",
		zap.Int("positions", len(export.Positions)),
		zap.Int("educations", len(export.Educations)),
		zap.Int("skills", len(export.Skills)),
		zap.Int("chunks", len(chunks)))
	return chunks
}

// LoadIndex reads the stored snapshot and reconstructs a searchable index.
func LoadIndex(ctx context.Context, store storage.Store) (*vector.Index, string, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	idx, err := vector.NewIndexFromRecords(snap.Dimensions, snap.Records)
	if err != nil {
		return nil, "", fmt.Errorf("rebuild index: %w", err)
	}
	return idx, snap.BuildID, nil
}
