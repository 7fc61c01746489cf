package driven

import (
	"context"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

// IndexStore persists named collections of embedded chunks.
// A collection is the unit of build-or-load: it is written in one
// transaction (build-then-publish) and reloaded as-is on later runs.
// Insertion order is preserved on load so similarity ties stay stable.
type IndexStore interface {
	// HasCollection reports whether a persisted collection exists.
	HasCollection(ctx context.Context, collection string) (bool, error)

	// SaveCollection atomically replaces the collection's entries.
	// A reader never observes a partially written collection.
	SaveCollection(ctx context.Context, collection string, chunks []domain.Chunk) error

	// LoadCollection returns the collection's chunks in insertion
	// order. Returns domain.ErrIndexNotFound when the collection has
	// never been persisted.
	LoadCollection(ctx context.Context, collection string) ([]domain.Chunk, error)

	// DeleteCollection removes a persisted collection. Deleting an
	// absent collection is not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases resources.
	Close() error
}
