package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driving"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// EmptyQuestionMessage is returned to the user for blank input.
// No gateway is called in that case.
const EmptyQuestionMessage = "Veuillez entrer une question."

// promptTemplate frames the assistant for the CWD document corpus:
// direct, factual, sources cited, no invention.
const promptTemplate = `Vous êtes un assistant technique de la marque CWD. Répondez de manière directe, concise et strictement factuelle à la question posée, en vous appuyant uniquement sur les documents fournis.

Contraintes :
- Évitez toute reformulation de la question
- Ne donnez aucune recommandation générale ou commerciale
- N'inventez jamais d'informations non présentes dans les documents
- Si une information est mentionnée, citez clairement sa source (ex. : nom du fichier)
- Si l'information est absente, dites-le clairement, sans supposition

=== CONTEXTE DOCUMENTAIRE ===
%s

=== QUESTION ===
%s

=== RÉPONSE COURTE ===
`

// QueryService wires embedding, retrieval, context assembly and
// generation into one request/response cycle. A query either fully
// succeeds or fails as a unit; no partial state survives it.
type QueryService struct {
	index     *Index
	retriever *Retriever
	embedder  driven.EmbeddingService
	generator driven.LLMService
	genOpts   driven.GenerateOptions
}

// NewQueryService creates the orchestrator. All collaborators are
// injected; nothing is globally shared.
func NewQueryService(
	index *Index,
	retriever *Retriever,
	embedder driven.EmbeddingService,
	generator driven.LLMService,
	genOpts driven.GenerateOptions,
) *QueryService {
	return &QueryService{
		index:     index,
		retriever: retriever,
		embedder:  embedder,
		generator: generator,
		genOpts:   genOpts,
	}
}

// Ask answers one question against the indexed corpus.
// A blank question returns a validation message without touching any
// gateway. Gateway failures surface as wrapped ErrGatewayUnavailable.
func (s *QueryService) Ask(ctx context.Context, question string) (domain.Answer, error) {
	logger.Section("Query")

	question = strings.TrimSpace(question)
	if question == "" {
		logger.Debug("Blank question rejected before any gateway call")
		return domain.Answer{Text: EmptyQuestionMessage}, nil
	}

	retrieved, err := s.retrieve(ctx, question)
	if err != nil {
		return domain.Answer{}, err
	}

	return s.generate(ctx, s.generator, question, retrieved)
}

// AskWith runs the same cycle against an alternative generator. Used
// by the multi-model comparison driver; retrieval is identical.
func (s *QueryService) AskWith(ctx context.Context, generator driven.LLMService, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{Text: EmptyQuestionMessage}, nil
	}
	retrieved, err := s.retrieve(ctx, question)
	if err != nil {
		return domain.Answer{}, err
	}
	return s.generate(ctx, generator, question, retrieved)
}

// AskDetailed runs one full cycle and also returns the retrieved
// chunks. The evaluator needs them to judge groundedness and retrieval
// relevance without re-running the retrieval.
func (s *QueryService) AskDetailed(ctx context.Context, question string) (domain.Answer, []domain.ScoredChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{Text: EmptyQuestionMessage}, nil, nil
	}
	retrieved, err := s.retrieve(ctx, question)
	if err != nil {
		return domain.Answer{}, nil, err
	}
	answer, err := s.generate(ctx, s.generator, question, retrieved)
	if err != nil {
		return domain.Answer{}, nil, err
	}
	return answer, retrieved, nil
}

func (s *QueryService) retrieve(ctx context.Context, question string) ([]domain.ScoredChunk, error) {
	logger.Debug("Embedding question (%d chars)", len(question))
	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding question: %w", domain.ErrGatewayUnavailable, err)
	}

	retrieved := s.retriever.Retrieve(s.index, queryVec)
	logger.Debug("Retrieved %d chunks (k=%d, fetch_k=%d, lambda=%g)",
		len(retrieved), s.retriever.K(), s.retriever.FetchK(), s.retriever.Lambda())
	return retrieved, nil
}

func (s *QueryService) generate(ctx context.Context, generator driven.LLMService, question string, retrieved []domain.ScoredChunk) (domain.Answer, error) {
	prompt := fmt.Sprintf(promptTemplate, AssembleContext(retrieved), question)

	text, err := generator.Generate(ctx, prompt, s.genOpts)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: generating answer: %w", domain.ErrGatewayUnavailable, err)
	}

	return domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: distinctSources(retrieved),
		Model:   generator.ModelName(),
	}, nil
}

// AssembleContext concatenates the retrieved chunk texts, separated by
// a blank line, preserving selection order. It never re-sorts,
// deduplicates or truncates: length limiting is the generator's
// concern.
func AssembleContext(retrieved []domain.ScoredChunk) string {
	parts := make([]string, len(retrieved))
	for i, sc := range retrieved {
		parts[i] = sc.Chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

// distinctSources returns the unique source identifiers of the
// retrieved chunks, first occurrence order preserved.
func distinctSources(retrieved []domain.ScoredChunk) []string {
	seen := make(map[string]bool, len(retrieved))
	var sources []string
	for _, sc := range retrieved {
		if seen[sc.Chunk.Source] {
			continue
		}
		seen[sc.Chunk.Source] = true
		sources = append(sources, sc.Chunk.Source)
	}
	return sources
}
