package driven

import "context"

// Judge scores generated answers for offline evaluation. It is an
// external collaborator (an LLM prompted for strict JSON verdicts);
// each method returns one boolean verdict.
type Judge interface {
	// Correctness compares the answer against the reference
	// (ground-truth) answer.
	Correctness(ctx context.Context, question, answer, reference string) (bool, error)

	// Relevance checks whether the answer addresses the question.
	Relevance(ctx context.Context, question, answer string) (bool, error)

	// Groundedness checks whether the answer is supported by the
	// retrieved context.
	Groundedness(ctx context.Context, answer string, contexts []string) (bool, error)

	// RetrievalRelevance checks whether the retrieved context is
	// relevant to the question.
	RetrievalRelevance(ctx context.Context, question string, contexts []string) (bool, error)
}
