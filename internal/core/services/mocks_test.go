package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
)

// stubEmbedder maps texts to fixed vectors and counts calls.
type stubEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	pingErr  error
	calls    int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	if s.fallback != nil {
		return s.fallback, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func (s *stubEmbedder) Dimensions() int {
	return len(s.fallback)
}

func (s *stubEmbedder) ModelName() string { return "stub-embed" }

func (s *stubEmbedder) Ping(context.Context) error { return s.pingErr }

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubGenerator returns a canned reply and records received prompts.
type stubGenerator struct {
	model   string
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubGenerator) ModelName() string {
	if s.model == "" {
		return "stub-llm"
	}
	return s.model
}

func (s *stubGenerator) Ping(context.Context) error { return nil }

// stubJudge returns fixed verdicts and counts calls.
type stubJudge struct {
	verdicts domain.Verdicts
	err      error
	calls    int
}

func (j *stubJudge) Correctness(context.Context, string, string, string) (bool, error) {
	j.calls++
	return j.verdicts.Correctness, j.err
}

func (j *stubJudge) Relevance(context.Context, string, string) (bool, error) {
	j.calls++
	return j.verdicts.Relevance, j.err
}

func (j *stubJudge) Groundedness(context.Context, string, []string) (bool, error) {
	j.calls++
	return j.verdicts.Groundedness, j.err
}

func (j *stubJudge) RetrievalRelevance(context.Context, string, []string) (bool, error) {
	j.calls++
	return j.verdicts.RetrievalRelevance, j.err
}
