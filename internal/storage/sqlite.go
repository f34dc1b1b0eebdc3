package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lmercier/careerchat/internal/vector"
)

// SQLiteStore keeps the snapshot in a SQLite database. Useful when the
// snapshot should be inspectable with standard tooling.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshot_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Save replaces the stored snapshot in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_meta"); err != nil {
		return fmt.Errorf("clear meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO records (id, content, embedding) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range snap.Records {
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Text, float32SliceToBytes(rec.Embedding)); err != nil {
			return fmt.Errorf("insert record %d: %w", rec.ID, err)
		}
	}

	meta := map[string]string{
		"build_id":   snap.BuildID,
		"dimensions": strconv.Itoa(snap.Dimensions),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO snapshot_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot back in id order. Returns ErrNotFound when no
// snapshot has been saved.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	var buildID string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM snapshot_meta WHERE key = 'build_id'").Scan(&buildID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read build id: %w", err)
	}

	var dimsStr string
	if err := s.db.QueryRowContext(ctx, "SELECT value FROM snapshot_meta WHERE key = 'dimensions'").Scan(&dimsStr); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	dims, err := strconv.Atoi(dimsStr)
	if err != nil {
		return nil, fmt.Errorf("parse dimensions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, content, embedding FROM records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []vector.Record
	for rows.Next() {
		var (
			id   int
			text string
			blob []byte
		)
		if err := rows.Scan(&id, &text, &blob); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, vector.Record{
			ID:        id,
			Text:      text,
			Embedding: bytesToFloat32Slice(blob),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return &Snapshot{
		BuildID:    buildID,
		Dimensions: dims,
		Records:    records,
	}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
