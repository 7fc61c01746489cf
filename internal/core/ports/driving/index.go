package driving

import (
	"context"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

// ChunkSupplier materialises the corpus chunks on demand. It is only
// invoked when no persisted collection exists.
type ChunkSupplier func(ctx context.Context) ([]domain.Chunk, error)

// IndexLifecycle manages the build-or-load lifecycle of a collection.
// A persisted collection is never refreshed automatically: callers
// needing fresh data must rebuild it explicitly.
type IndexLifecycle interface {
	// EnsureBuilt loads the collection when it exists (the supplier
	// is not invoked, nothing is re-embedded); otherwise it embeds
	// and persists the supplier's output. Idempotent.
	EnsureBuilt(ctx context.Context, collection string, supply ChunkSupplier) (IndexStats, error)

	// Rebuild deletes any persisted collection and builds it anew.
	// This is the only refresh path: a stale collection is otherwise
	// reused verbatim.
	Rebuild(ctx context.Context, collection string, supply ChunkSupplier) (IndexStats, error)

	// Stats describes the persisted collection.
	Stats(ctx context.Context, collection string) (IndexStats, error)
}

// IndexStats summarises a persisted collection.
type IndexStats struct {
	Collection string
	Chunks     int
	Dimensions int
	Built      bool
}
