// Package sqlite implements the IndexStore port on a local SQLite
// database, giving the index a durable build-then-publish lifecycle.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
)

// Store is a SQLite-backed IndexStore. Collections are replaced
// atomically: a save runs in a single transaction so a concurrent
// reader never observes a half-written collection.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.IndexStore = (*Store)(nil)

// NewStore opens (or creates) the index database under indexDir.
// If indexDir is empty, defaults to ~/.rag/index.
func NewStore(indexDir string) (*Store, error) {
	if indexDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		indexDir = filepath.Join(home, ".rag", "index")
	}

	if err := os.MkdirAll(indexDir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, "index.db")

	// WAL mode so a reader can load while a rebuild is in flight.
	// Foreign keys are set in the DSN so every pooled connection gets
	// them; chunk rows cascade with their collection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HasCollection reports whether a collection has been persisted.
func (s *Store) HasCollection(ctx context.Context, collection string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM collections WHERE name = ?", collection).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking collection: %w", err)
	}
	return count > 0, nil
}

// SaveCollection atomically replaces the collection's entries.
func (s *Store) SaveCollection(ctx context.Context, collection string, chunks []domain.Chunk) error {
	dimensions := 0
	if len(chunks) > 0 {
		dimensions = len(chunks[0].Embedding)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE collection = ?", collection); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (name, dimensions, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			dimensions = excluded.dimensions,
			created_at = excluded.created_at
	`, collection, dimensions, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection, source, position, content, start_off, end_off, embedding, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for seq, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, collection, chunk.Source,
			chunk.Position, chunk.Content, chunk.Start, chunk.End,
			embeddingBlob, seq); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadCollection returns the collection's chunks in insertion order.
func (s *Store) LoadCollection(ctx context.Context, collection string) ([]domain.Chunk, error) {
	exists, err := s.HasCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrIndexNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, position, content, start_off, end_off, embedding
		FROM chunks WHERE collection = ?
		ORDER BY seq
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Source, &chunk.Position,
			&chunk.Content, &chunk.Start, &chunk.End, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// DeleteCollection removes a persisted collection and its chunks.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", collection)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
