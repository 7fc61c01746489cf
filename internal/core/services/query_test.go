package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
)

func newTestQueryService(t *testing.T, embedder *stubEmbedder, generator *stubGenerator) *QueryService {
	t.Helper()

	ix := NewIndex("test", []domain.Chunk{
		{ID: "1", Source: "guide.md", Content: "La selle est en cuir.", Embedding: []float32{1, 0}},
		{ID: "2", Source: "guide.md", Content: "Le cuir demande un entretien régulier.", Embedding: []float32{0.9, 0.1}},
		{ID: "3", Source: "catalogue.txt", Content: "Tailles disponibles: 16 à 18 pouces.", Embedding: []float32{0, 1}},
	})

	retriever, err := NewRetriever(2, 3, 1)
	require.NoError(t, err)

	return NewQueryService(ix, retriever, embedder, generator, driven.GenerateOptions{Temperature: 0.1})
}

func TestAsk_BlankQuestionSkipsGateways(t *testing.T) {
	embedder := &stubEmbedder{}
	generator := &stubGenerator{reply: "should not be called"}
	svc := newTestQueryService(t, embedder, generator)

	for _, q := range []string{"", "   ", "\t\n"} {
		answer, err := svc.Ask(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, EmptyQuestionMessage, answer.Text)
		assert.Empty(t, answer.Sources)
	}

	assert.Equal(t, 0, embedder.callCount())
	assert.Empty(t, generator.prompts)
}

func TestAsk_AnswersWithSources(t *testing.T) {
	embedder := &stubEmbedder{
		vectors: map[string][]float32{
			"Quelle est la matière de la selle ?": {1, 0},
		},
	}
	generator := &stubGenerator{reply: "  La selle est en cuir. (guide.md)  "}
	svc := newTestQueryService(t, embedder, generator)

	answer, err := svc.Ask(context.Background(), "Quelle est la matière de la selle ?")
	require.NoError(t, err)

	assert.Equal(t, "La selle est en cuir. (guide.md)", answer.Text)
	assert.Equal(t, []string{"guide.md"}, answer.Sources, "duplicate sources collapse to one entry")
	assert.Equal(t, "stub-llm", answer.Model)

	require.Len(t, generator.prompts, 1)
	prompt := generator.prompts[0]
	assert.Contains(t, prompt, "La selle est en cuir.")
	assert.Contains(t, prompt, "Le cuir demande un entretien régulier.")
	assert.NotContains(t, prompt, "Tailles disponibles", "only the k retrieved chunks enter the prompt")
	assert.Contains(t, prompt, "Quelle est la matière de la selle ?")
}

func TestAsk_TrimsQuestionBeforeEmbedding(t *testing.T) {
	embedder := &stubEmbedder{
		vectors: map[string][]float32{"question": {1, 0}},
	}
	generator := &stubGenerator{reply: "ok"}
	svc := newTestQueryService(t, embedder, generator)

	_, err := svc.Ask(context.Background(), "  question  ")
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.callCount())
}

func TestAsk_EmbedFailureIsGatewayError(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("connection refused")}
	generator := &stubGenerator{reply: "unused"}
	svc := newTestQueryService(t, embedder, generator)

	_, err := svc.Ask(context.Background(), "question")
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.Empty(t, generator.prompts)
}

func TestAsk_GenerateFailureIsGatewayError(t *testing.T) {
	embedder := &stubEmbedder{fallback: []float32{1, 0}}
	generator := &stubGenerator{err: errors.New("model not found")}
	svc := newTestQueryService(t, embedder, generator)

	_, err := svc.Ask(context.Background(), "question")
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestAskWith_UsesAlternativeGenerator(t *testing.T) {
	embedder := &stubEmbedder{fallback: []float32{1, 0}}
	generator := &stubGenerator{reply: "default"}
	svc := newTestQueryService(t, embedder, generator)

	alt := &stubGenerator{model: "alt-model", reply: "alternative"}
	answer, err := svc.AskWith(context.Background(), alt, "question")
	require.NoError(t, err)

	assert.Equal(t, "alternative", answer.Text)
	assert.Equal(t, "alt-model", answer.Model)
	assert.Empty(t, generator.prompts, "default generator must stay untouched")
}

func TestAskDetailed_ReturnsRetrievedChunks(t *testing.T) {
	embedder := &stubEmbedder{fallback: []float32{1, 0}}
	generator := &stubGenerator{reply: "réponse"}
	svc := newTestQueryService(t, embedder, generator)

	answer, retrieved, err := svc.AskDetailed(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "réponse", answer.Text)
	require.Len(t, retrieved, 2)
	assert.Equal(t, "1", retrieved[0].Chunk.ID)
}

func TestAssembleContext(t *testing.T) {
	retrieved := []domain.ScoredChunk{
		{Chunk: domain.Chunk{Content: "premier"}},
		{Chunk: domain.Chunk{Content: "second"}},
		{Chunk: domain.Chunk{Content: "premier"}},
	}

	got := AssembleContext(retrieved)
	assert.Equal(t, "premier\n\nsecond\n\npremier", got, "no dedup, no re-ordering")
	assert.Equal(t, 2, strings.Count(got, "\n\n"))

	assert.Equal(t, "", AssembleContext(nil))
}
