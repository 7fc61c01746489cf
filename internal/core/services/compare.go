package services

import (
	"context"
	"time"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driving"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/logger"
)

// Ensure CompareService implements the interface.
var _ driving.CompareService = (*CompareService)(nil)

// CompareService runs one question through several answer generators
// over the same retrieved context, timing each. Models run
// sequentially: the local inference server loads one model at a time,
// so parallel calls would only skew the timings.
type CompareService struct {
	query      *QueryService
	generators []driven.LLMService
}

// NewCompareService creates a comparison driver over the shared query
// orchestrator.
func NewCompareService(query *QueryService, generators []driven.LLMService) *CompareService {
	return &CompareService{query: query, generators: generators}
}

// Compare answers the question once per configured model. A failing
// model is recorded and does not stop the rest.
func (s *CompareService) Compare(ctx context.Context, question string) ([]domain.ModelAnswer, error) {
	results := make([]domain.ModelAnswer, 0, len(s.generators))

	for _, gen := range s.generators {
		logger.Info("Running model %s", gen.ModelName())
		start := time.Now()
		answer, err := s.query.AskWith(ctx, gen, question)
		results = append(results, domain.ModelAnswer{
			Model:   gen.ModelName(),
			Answer:  answer,
			Elapsed: time.Since(start),
			Err:     err,
		})
		if err != nil {
			logger.Warn("Model %s failed: %v", gen.ModelName(), err)
		}
	}

	return results, nil
}
