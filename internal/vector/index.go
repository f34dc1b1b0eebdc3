// Package vector provides an exact nearest-neighbor index over chunk embeddings.
package vector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrLengthMismatch is returned by Add when texts and embeddings differ in length.
var ErrLengthMismatch = errors.New("texts and embeddings length mismatch")

// Record is one indexed chunk: a sequential id, the chunk text, and its embedding.
// Ids are contiguous in insertion order across repeated Add calls.
type Record struct {
	ID        int
	Text      string
	Embedding []float32
}

// Result is a single search hit with its cosine similarity score.
type Result struct {
	Record Record
	Score  float64
}

// Index stores records and answers top-k queries by brute-force cosine
// similarity. The corpus is a single person's knowledge base (tens to low
// hundreds of chunks), so a linear scan per query is deliberate.
//
// Lifecycle: created empty, populated by Add during the build phase, then
// read-only at serving time. Rebuilding means constructing a fresh index.
type Index struct {
	dimensions int
	records    []Record
	mu         sync.RWMutex
}

// NewIndex creates an empty index for vectors of the given dimensionality.
func NewIndex(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	return &Index{
		dimensions: dimensions,
		records:    make([]Record, 0),
	}, nil
}

// NewIndexFromRecords rebuilds an index from persisted records, e.g. when a
// serving process loads a snapshot. Record ids must be contiguous from 0.
func NewIndexFromRecords(dimensions int, records []Record) (*Index, error) {
	idx, err := NewIndex(dimensions)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if rec.ID != i {
			return nil, fmt.Errorf("record %d has id %d, want contiguous ids", i, rec.ID)
		}
		if len(rec.Embedding) != dimensions {
			return nil, fmt.Errorf("record %d embedding dimension %d, index expects %d", i, len(rec.Embedding), dimensions)
		}
	}
	idx.records = append(idx.records, records...)
	return idx, nil
}

// Add appends one record per (text, embedding) pair, assigning ids starting at
// the current record count. Validation happens before any append: on error the
// index is left at its pre-call record count.
func (x *Index) Add(ctx context.Context, texts []string, embeddings [][]float32) error {
	if len(texts) != len(embeddings) {
		return fmt.Errorf("%w: %d texts, %d embeddings", ErrLengthMismatch, len(texts), len(embeddings))
	}
	for i, emb := range embeddings {
		if len(emb) != x.dimensions {
			return fmt.Errorf("embedding %d dimension mismatch: got %d, expected %d", i, len(emb), x.dimensions)
		}
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for i, text := range texts {
		emb := make([]float32, x.dimensions)
		copy(emb, embeddings[i])
		x.records = append(x.records, Record{
			ID:        len(x.records),
			Text:      text,
			Embedding: emb,
		})
	}
	return nil
}

// Search returns up to topK records ranked by descending cosine similarity to
// query. Ties keep insertion order. topK <= 0 or an empty index yields no
// results.
func (x *Index) Search(ctx context.Context, query []float32, topK int) ([]Result, error) {
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), x.dimensions)
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	if topK <= 0 || len(x.records) == 0 {
		return nil, nil
	}
	results := make([]Result, len(x.records))
	for i, rec := range x.records {
		results[i] = Result{Record: rec, Score: Cosine(query, rec.Embedding)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Records returns a copy of all records in id order, for persistence.
func (x *Index) Records() []Record {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]Record, len(x.records))
	copy(out, x.records)
	return out
}

// Size returns the number of records in the index.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.records)
}

// Dimensions returns the embedding dimensionality the index was created with.
func (x *Index) Dimensions() int {
	return x.dimensions
}
