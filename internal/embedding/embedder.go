// Package embedding maps chunk text to fixed-length vectors.
package embedding

import "context"

// Embedder produces vector embeddings for text. Implementations are
// deterministic per text and safe for concurrent use after construction.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds all texts in one call. An empty batch returns an
	// empty matrix, not an error.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
