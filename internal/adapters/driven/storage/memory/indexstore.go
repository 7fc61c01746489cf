// Package memory provides in-memory implementations of the driven
// storage ports, used in tests and anywhere persistence is not needed.
package memory

import (
	"context"
	"sync"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
// Collections are stored as copies so callers cannot mutate persisted
// state through retained slices.
type IndexStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Chunk
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		collections: make(map[string][]domain.Chunk),
	}
}

// HasCollection reports whether a collection exists.
func (s *IndexStore) HasCollection(_ context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[collection]
	return ok, nil
}

// SaveCollection replaces the collection's entries.
func (s *IndexStore) SaveCollection(_ context.Context, collection string, chunks []domain.Chunk) error {
	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = copied
	return nil
}

// LoadCollection returns the collection's chunks in insertion order.
func (s *IndexStore) LoadCollection(_ context.Context, collection string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.collections[collection]
	if !ok {
		return nil, domain.ErrIndexNotFound
	}
	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)
	return copied, nil
}

// DeleteCollection removes a collection. Absent collections are ignored.
func (s *IndexStore) DeleteCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *IndexStore) Close() error {
	return nil
}
