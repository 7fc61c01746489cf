package services

import (
	"context"
	"fmt"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driving"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/logger"
)

// Ensure EvalService implements the interface.
var _ driving.Evaluator = (*EvalService)(nil)

// EvalService runs the offline evaluation harness: each dataset
// example is answered through the shared orchestrator, then four
// boolean verdicts are obtained from the judge.
type EvalService struct {
	query *QueryService
	judge driven.Judge
}

// NewEvalService creates the evaluator.
func NewEvalService(query *QueryService, judge driven.Judge) *EvalService {
	return &EvalService{query: query, judge: judge}
}

// Run evaluates every example and aggregates per-metric pass rates.
// A failing example aborts the run: a partial report would silently
// inflate the rates.
func (s *EvalService) Run(ctx context.Context, examples []domain.Example) (domain.EvalReport, error) {
	report := domain.EvalReport{Rows: make([]domain.EvalRow, 0, len(examples))}

	for i, ex := range examples {
		logger.Section(fmt.Sprintf("Example %d/%d", i+1, len(examples)))
		logger.Debug("Question: %s", ex.Question)

		answer, retrieved, err := s.query.AskDetailed(ctx, ex.Question)
		if err != nil {
			return domain.EvalReport{}, fmt.Errorf("example %d: %w", i+1, err)
		}
		contexts := make([]string, len(retrieved))
		for j, sc := range retrieved {
			contexts[j] = sc.Chunk.Content
		}

		verdicts, err := s.judgeOne(ctx, ex, answer.Text, contexts)
		if err != nil {
			return domain.EvalReport{}, fmt.Errorf("example %d: %w", i+1, err)
		}

		report.Rows = append(report.Rows, domain.EvalRow{
			Question: ex.Question,
			Answer:   answer.Text,
			Sources:  answer.Sources,
			Verdicts: verdicts,
		})
	}

	return report, nil
}

func (s *EvalService) judgeOne(ctx context.Context, ex domain.Example, answer string, contexts []string) (domain.Verdicts, error) {
	var v domain.Verdicts
	var err error

	if v.Correctness, err = s.judge.Correctness(ctx, ex.Question, answer, ex.ReferenceAnswer); err != nil {
		return v, fmt.Errorf("judging correctness: %w", err)
	}
	if v.Relevance, err = s.judge.Relevance(ctx, ex.Question, answer); err != nil {
		return v, fmt.Errorf("judging relevance: %w", err)
	}
	if v.Groundedness, err = s.judge.Groundedness(ctx, answer, contexts); err != nil {
		return v, fmt.Errorf("judging groundedness: %w", err)
	}
	if v.RetrievalRelevance, err = s.judge.RetrievalRelevance(ctx, ex.Question, contexts); err != nil {
		return v, fmt.Errorf("judging retrieval relevance: %w", err)
	}
	return v, nil
}
