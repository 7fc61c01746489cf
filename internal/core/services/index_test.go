package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

func chunk(id string, vec []float32) domain.Chunk {
	return domain.Chunk{ID: id, Source: id + ".txt", Content: "chunk " + id, Embedding: vec}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"parallel", []float32{1, 0}, []float32{2, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"mismatched lengths", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"both empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSearchByVector_OrdersByDescendingSimilarity(t *testing.T) {
	ix := NewIndex("test", []domain.Chunk{
		chunk("far", []float32{0, 1}),
		chunk("near", []float32{1, 0}),
		chunk("mid", []float32{1, 1}),
	})

	got := ix.SearchByVector([]float32{1, 0}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "near", got[0].Chunk.ID)
	assert.Equal(t, "mid", got[1].Chunk.ID)
	assert.Equal(t, "far", got[2].Chunk.ID)
	assert.True(t, got[0].Similarity >= got[1].Similarity)
	assert.True(t, got[1].Similarity >= got[2].Similarity)
}

func TestSearchByVector_TruncatesToCandidateCount(t *testing.T) {
	ix := NewIndex("test", []domain.Chunk{
		chunk("a", []float32{1, 0}),
		chunk("b", []float32{1, 1}),
		chunk("c", []float32{0, 1}),
	})

	got := ix.SearchByVector([]float32{1, 0}, 2)
	assert.Len(t, got, 2)
}

func TestSearchByVector_TiesKeepInsertionOrder(t *testing.T) {
	// Identical vectors score identically; insertion order decides.
	ix := NewIndex("test", []domain.Chunk{
		chunk("first", []float32{1, 0}),
		chunk("second", []float32{1, 0}),
		chunk("third", []float32{1, 0}),
	})

	got := ix.SearchByVector([]float32{1, 0}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Chunk.ID)
	assert.Equal(t, "second", got[1].Chunk.ID)
	assert.Equal(t, "third", got[2].Chunk.ID)
}

func TestSearchByVector_EmptyIndex(t *testing.T) {
	ix := NewIndex("test", nil)
	assert.Empty(t, ix.SearchByVector([]float32{1, 0}, 5))
	assert.Equal(t, 0, ix.Dimensions())
	assert.Equal(t, 0, ix.Len())
}
