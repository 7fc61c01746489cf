package driving

import (
	"context"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

// QueryService answers natural-language questions against the indexed
// corpus. One operation, atomic: either an answer with sources or a
// reported failure, never a partial application.
type QueryService interface {
	// Ask embeds the question, retrieves a diversified set of chunks,
	// assembles them into a prompt and invokes the answer generator.
	// A blank question returns an Answer carrying a validation
	// message without touching any gateway.
	Ask(ctx context.Context, question string) (domain.Answer, error)
}

// CompareService runs one question against several generation models
// over the same retrieved context.
type CompareService interface {
	Compare(ctx context.Context, question string) ([]domain.ModelAnswer, error)
}

// Evaluator runs the offline evaluation harness over a dataset of
// question/reference pairs.
type Evaluator interface {
	Run(ctx context.Context, examples []domain.Example) (domain.EvalReport, error)
}
