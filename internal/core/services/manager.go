package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driving"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/logger"
)

// Ensure IndexManager implements the interface.
var _ driving.IndexLifecycle = (*IndexManager)(nil)

// DefaultEmbedConcurrency bounds parallel embedding calls during an
// index build. Chunks are independent, so the build is embarrassingly
// parallel; the bound protects the local inference server.
const DefaultEmbedConcurrency = 4

// IndexManager owns the build-or-load lifecycle of collections.
// A persisted collection is reused verbatim on later runs: no drift
// detection against the source documents, no re-embedding. Rebuild is
// the only refresh path.
type IndexManager struct {
	store    driven.IndexStore
	embedder driven.EmbeddingService

	concurrency int
	limiter     *rate.Limiter

	// buildMu serialises writers: concurrent builds of the same
	// store are mutually exclusive, and a reader only observes a
	// collection once its transaction has committed.
	buildMu sync.Mutex
}

// ManagerOption configures an IndexManager.
type ManagerOption func(*IndexManager)

// WithEmbedConcurrency bounds the number of parallel embedding calls.
func WithEmbedConcurrency(n int) ManagerOption {
	return func(m *IndexManager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithEmbedRateLimit caps embedding calls per second during builds.
func WithEmbedRateLimit(perSecond float64) ManagerOption {
	return func(m *IndexManager) {
		if perSecond > 0 {
			m.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewIndexManager creates an index manager over the given store and
// embedding gateway.
func NewIndexManager(store driven.IndexStore, embedder driven.EmbeddingService, opts ...ManagerOption) *IndexManager {
	m := &IndexManager{
		store:       store,
		embedder:    embedder,
		concurrency: DefaultEmbedConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open loads the collection when it exists, otherwise materialises the
// supplier's chunks, embeds and persists them. The supplier is never
// invoked for an existing collection.
func (m *IndexManager) Open(ctx context.Context, collection string, supply driving.ChunkSupplier) (*Index, error) {
	exists, err := m.store.HasCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("checking collection %q: %w", collection, err)
	}
	if exists {
		return m.Load(ctx, collection)
	}
	return m.build(ctx, collection, supply)
}

// Load reads an existing collection into a searchable index.
func (m *IndexManager) Load(ctx context.Context, collection string) (*Index, error) {
	entries, err := m.store.LoadCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("loading collection %q: %w", collection, err)
	}
	logger.Info("Loaded collection %q: %d chunks", collection, len(entries))
	return NewIndex(collection, entries), nil
}

// Build chunks nothing itself: it embeds the supplied chunks and
// persists them in one transaction, then returns the loaded index.
func (m *IndexManager) Build(ctx context.Context, collection string, chunks []domain.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("building collection %q: %w", collection, domain.ErrEmptyCorpus)
	}

	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	logger.Section("Index Build")

	// Fail fast before the first chunk is embedded: a long build
	// against an unreachable gateway would otherwise surface the same
	// error n times slower.
	if err := m.embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: embedding gateway: %w", domain.ErrGatewayUnavailable, err)
	}

	logger.Info("Embedding %d chunks with %s", len(chunks), m.embedder.ModelName())

	if err := m.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	// Build-then-publish: the collection becomes visible only after
	// this call commits.
	if err := m.store.SaveCollection(ctx, collection, chunks); err != nil {
		return nil, fmt.Errorf("persisting collection %q: %w", collection, err)
	}

	logger.Info("Collection %q built: %d chunks, %d dimensions",
		collection, len(chunks), len(chunks[0].Embedding))
	return NewIndex(collection, chunks), nil
}

// Rebuild deletes any persisted collection and builds it anew from the
// supplier. This is the pipeline's only staleness remedy.
func (m *IndexManager) Rebuild(ctx context.Context, collection string, supply driving.ChunkSupplier) (driving.IndexStats, error) {
	if err := m.store.DeleteCollection(ctx, collection); err != nil {
		return driving.IndexStats{}, fmt.Errorf("deleting collection %q: %w", collection, err)
	}
	ix, err := m.build(ctx, collection, supply)
	if err != nil {
		return driving.IndexStats{}, err
	}
	return statsOf(ix), nil
}

// EnsureBuilt loads or builds the collection and reports its stats.
func (m *IndexManager) EnsureBuilt(ctx context.Context, collection string, supply driving.ChunkSupplier) (driving.IndexStats, error) {
	ix, err := m.Open(ctx, collection, supply)
	if err != nil {
		return driving.IndexStats{}, err
	}
	return statsOf(ix), nil
}

// Stats describes the persisted collection without building anything.
func (m *IndexManager) Stats(ctx context.Context, collection string) (driving.IndexStats, error) {
	exists, err := m.store.HasCollection(ctx, collection)
	if err != nil {
		return driving.IndexStats{}, fmt.Errorf("checking collection %q: %w", collection, err)
	}
	if !exists {
		return driving.IndexStats{Collection: collection}, nil
	}
	ix, err := m.Load(ctx, collection)
	if err != nil {
		return driving.IndexStats{}, err
	}
	return statsOf(ix), nil
}

func (m *IndexManager) build(ctx context.Context, collection string, supply driving.ChunkSupplier) (*Index, error) {
	if supply == nil {
		return nil, fmt.Errorf("%w: no chunk supplier for missing collection %q", domain.ErrInvalidConfig, collection)
	}
	chunks, err := supply(ctx)
	if err != nil {
		return nil, fmt.Errorf("materialising chunks for %q: %w", collection, err)
	}
	return m.Build(ctx, collection, chunks)
}

// embedChunks fills in chunk embeddings in place, in parallel, and
// enforces a constant dimension across the batch.
func (m *IndexManager) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i := range chunks {
		i := i
		g.Go(func() error {
			if m.limiter != nil {
				if err := m.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			vec, err := m.embedder.Embed(gctx, chunks[i].Content)
			if err != nil {
				return fmt.Errorf("%w: embedding chunk %d: %w", domain.ErrGatewayUnavailable, i, err)
			}
			chunks[i].Embedding = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	dims := len(chunks[0].Embedding)
	for i := range chunks {
		if len(chunks[i].Embedding) != dims {
			return fmt.Errorf("%w: chunk %d has %d dimensions, collection has %d",
				domain.ErrDimensionMismatch, i, len(chunks[i].Embedding), dims)
		}
	}
	return nil
}

func statsOf(ix *Index) driving.IndexStats {
	return driving.IndexStats{
		Collection: ix.Collection(),
		Chunks:     ix.Len(),
		Dimensions: ix.Dimensions(),
		Built:      true,
	}
}
