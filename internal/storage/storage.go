// Package storage persists the knowledge-base snapshot written by the build
// step and read by the serving step.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/lmercier/careerchat/internal/vector"
)

// ErrNotFound is returned by Load when no snapshot has been written yet.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the persisted state of a populated index. Records round-trip
// exactly: every (id, text, embedding) triple reads back identical to what
// was written.
type Snapshot struct {
	// BuildID identifies the build run that produced this snapshot.
	BuildID    string
	Dimensions int
	Records    []vector.Record
}

// Store saves and loads snapshots. A Save replaces any previous snapshot
// wholesale; there are no partial updates.
type Store interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Close() error
}

// NewStore picks a store implementation from the path extension:
// ".db" or ".sqlite" selects SQLite, anything else the flat binary format.
func NewStore(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		return NewSQLiteStore(path)
	default:
		return NewFileStore(path), nil
	}
}
