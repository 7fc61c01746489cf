package services

import (
	"fmt"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

// Retriever selects a small, relevant, low-redundancy subset of
// indexed chunks for one query using Maximal Marginal Relevance.
//
// Plain top-k similarity returns near-duplicate passages when the
// corpus repeats itself (the same saddle spec appears in several
// source files); MMR trades a controlled amount of relevance for
// diversity.
type Retriever struct {
	k      int
	fetchK int
	lambda float64
}

// NewRetriever validates the MMR parameters: 1 <= k <= fetchK and
// lambda in [0, 1]. Violations are configuration errors.
func NewRetriever(k, fetchK int, lambda float64) (*Retriever, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidConfig, k)
	}
	if k > fetchK {
		return nil, fmt.Errorf("%w: k (%d) must not exceed fetch_k (%d)", domain.ErrInvalidConfig, k, fetchK)
	}
	if lambda < 0 || lambda > 1 {
		return nil, fmt.Errorf("%w: lambda must be in [0, 1], got %g", domain.ErrInvalidConfig, lambda)
	}
	return &Retriever{k: k, fetchK: fetchK, lambda: lambda}, nil
}

// Retrieve returns up to k chunks in selection order: first selected =
// most relevant-yet-diverse. A short or empty index is never an error;
// the result simply has fewer entries.
//
// lambda = 1 degenerates to plain top-k similarity ranking; lambda = 0
// maximises diversity, ignoring query relevance after the first pick.
func (r *Retriever) Retrieve(ix *Index, queryVec []float32) []domain.ScoredChunk {
	candidates := ix.SearchByVector(queryVec, r.fetchK)
	if len(candidates) == 0 {
		return nil
	}

	k := r.k
	if k > len(candidates) {
		k = len(candidates)
	}

	// redundancy[i] tracks max similarity of candidate i to any
	// already-selected chunk; updated incrementally after each pick
	// so the whole selection costs O(k * fetch_k) similarity
	// evaluations. Nothing is cached across calls.
	redundancy := make([]float64, len(candidates))
	picked := make([]bool, len(candidates))
	selected := make([]domain.ScoredChunk, 0, k)

	for len(selected) < k {
		best := -1
		bestScore := 0.0
		for i, c := range candidates {
			if picked[i] {
				continue
			}
			score := r.lambda*c.Similarity - (1-r.lambda)*redundancy[i]
			// Strict > keeps the earlier candidate on ties:
			// candidates arrive in similarity rank order.
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}

		picked[best] = true
		selected = append(selected, candidates[best])

		for i, c := range candidates {
			if picked[i] {
				continue
			}
			sim := CosineSimilarity(c.Chunk.Embedding, candidates[best].Chunk.Embedding)
			if sim > redundancy[i] {
				redundancy[i] = sim
			}
		}
	}

	return selected
}

// K returns the configured final result count.
func (r *Retriever) K() int { return r.k }

// FetchK returns the configured candidate pool size.
func (r *Retriever) FetchK() int { return r.fetchK }

// Lambda returns the configured relevance/diversity weight.
func (r *Retriever) Lambda() float64 { return r.lambda }
