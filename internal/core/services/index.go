package services

import (
	"math"
	"sort"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

// Index is a loaded collection held in memory for searching. Entries
// are read-only after construction, so concurrent searches need no
// locking; building a new Index never mutates a published one.
type Index struct {
	collection string
	entries    []domain.Chunk
	dimensions int
}

// NewIndex wraps loaded chunks into a searchable index. Entry order is
// the store's insertion order; it decides similarity ties.
func NewIndex(collection string, entries []domain.Chunk) *Index {
	dims := 0
	if len(entries) > 0 {
		dims = len(entries[0].Embedding)
	}
	return &Index{collection: collection, entries: entries, dimensions: dims}
}

// Collection returns the collection name this index was loaded from.
func (ix *Index) Collection() string { return ix.collection }

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.entries) }

// Dimensions returns the embedding dimension, 0 for an empty index.
func (ix *Index) Dimensions() int { return ix.dimensions }

// SearchByVector returns up to candidateCount entries nearest to the
// query vector by cosine similarity, ordered by descending similarity
// with ties broken by insertion order. An empty index returns an empty
// result, not an error.
func (ix *Index) SearchByVector(query []float32, candidateCount int) []domain.ScoredChunk {
	if candidateCount <= 0 || len(ix.entries) == 0 {
		return nil
	}

	scored := make([]domain.ScoredChunk, len(ix.entries))
	for i, e := range ix.entries {
		scored[i] = domain.ScoredChunk{
			Chunk:      e,
			Similarity: CosineSimilarity(query, e.Embedding),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if candidateCount < len(scored) {
		scored = scored[:candidateCount]
	}
	return scored
}

// CosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
