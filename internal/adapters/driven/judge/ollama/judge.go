// Package ollama provides an LLM-as-judge adapter using Ollama.
//
// Each verdict method sends a grading prompt with Ollama's JSON output
// mode enabled and extracts a single boolean from the reply. Models do
// not always honour the format constraint, so parsing tolerates code
// fences and surrounding prose.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
)

// Ensure Judge implements the interface.
var _ driven.Judge = (*Judge)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3:latest"
	DefaultTimeout = 120 * time.Second

	judgeContextWindow = 8192
)

// Config holds configuration for the Ollama judge.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the judge model to use (default: llama3:latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Judge scores answers by prompting an Ollama model for JSON verdicts.
type Judge struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Format  string  `json:"format"`
	Options options `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
}

// NewJudge creates a new Ollama judge.
func NewJudge(cfg Config) *Judge {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Judge{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

const correctnessPrompt = `Tu es un correcteur d'examen. Note uniquement l'exactitude factuelle de la réponse de l'élève
par rapport à la RÉPONSE DE RÉFÉRENCE (ground truth).
- Interdiction des contradictions.
- Des infos supplémentaires sont acceptables si factuellement cohérentes.

Rends UNIQUEMENT un JSON:
{
  "explanation": "raisonnement concis",
  "correct": true/false
}

QUESTION: %s
GROUND_TRUTH_ANSWER: %s
STUDENT_ANSWER: %s`

// Correctness compares the answer against the reference answer.
func (j *Judge) Correctness(ctx context.Context, question, answer, reference string) (bool, error) {
	prompt := fmt.Sprintf(correctnessPrompt, question, reference, answer)
	return j.verdict(ctx, prompt, "correct")
}

const relevancePrompt = `Tu es un correcteur. Évalue si la réponse est concise et répond à la QUESTION.

Rends UNIQUEMENT un JSON:
{
  "explanation": "raisonnement concis",
  "relevant": true/false
}

QUESTION: %s
STUDENT_ANSWER: %s`

// Relevance checks whether the answer addresses the question.
func (j *Judge) Relevance(ctx context.Context, question, answer string) (bool, error) {
	prompt := fmt.Sprintf(relevancePrompt, question, answer)
	return j.verdict(ctx, prompt, "relevant")
}

const groundednessPrompt = `Tu es un correcteur. Vérifie que la réponse est entièrement fondée sur les FAITS ci-dessous,
sans ajouter d'informations absentes (pas d'hallucinations).

Rends UNIQUEMENT un JSON:
{
  "explanation": "raisonnement concis",
  "grounded": true/false
}

FAITS:
%s

RÉPONSE:
%s`

// Groundedness checks whether the answer is supported by the retrieved
// context.
func (j *Judge) Groundedness(ctx context.Context, answer string, contexts []string) (bool, error) {
	prompt := fmt.Sprintf(groundednessPrompt, strings.Join(contexts, "\n\n"), answer)
	return j.verdict(ctx, prompt, "grounded")
}

const retrievalRelevancePrompt = `Tu es un correcteur. Évalue si les FAITS ci-dessous sont pertinents à la QUESTION.
- Si les FAITS contiennent des mots-clés ou du sens relié à la QUESTION, considère-les pertinents.
- Qu'ils contiennent aussi un peu d'information hors sujet est acceptable.

Rends UNIQUEMENT un JSON:
{
  "explanation": "raisonnement concis",
  "relevant": true/false
}

QUESTION:
%s

FAITS:
%s`

// RetrievalRelevance checks whether the retrieved context is relevant
// to the question.
func (j *Judge) RetrievalRelevance(ctx context.Context, question string, contexts []string) (bool, error) {
	prompt := fmt.Sprintf(retrievalRelevancePrompt, question, strings.Join(contexts, "\n\n"))
	return j.verdict(ctx, prompt, "relevant")
}

// verdict sends the grading prompt and extracts the named boolean from
// the JSON reply. A missing key counts as a false verdict.
func (j *Judge) verdict(ctx context.Context, prompt, key string) (bool, error) {
	raw, err := j.generateJSON(ctx, prompt)
	if err != nil {
		return false, err
	}

	fields, err := parseVerdictJSON(raw)
	if err != nil {
		return false, err
	}

	v, ok := fields[key].(bool)
	if !ok {
		return false, nil
	}
	return v, nil
}

func (j *Judge) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  j.model,
		Prompt: prompt + "\n\nIMPORTANT: Return ONLY valid JSON, no prose, no prefix.",
		Stream: false,
		Format: "json",
		Options: options{
			Temperature: 0.0,
			NumCtx:      judgeContextWindow,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		j.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(genResp.Response), nil
}

// parseVerdictJSON turns a judge reply into a JSON object. It first
// strips markdown code fences, then tries a direct parse, then falls
// back to the first balanced {...} object found in the text.
func parseVerdictJSON(text string) (map[string]any, error) {
	text = stripFences(text)

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err == nil {
		return fields, nil
	}

	candidate, ok := firstJSONObject(text)
	if ok {
		if err := json.Unmarshal([]byte(candidate), &fields); err == nil {
			return fields, nil
		}
	}

	return nil, fmt.Errorf("judge returned non-JSON reply: %q", text)
}

// stripFences removes a surrounding markdown code fence, with or
// without a "json" language tag.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.Trim(strings.TrimSpace(text), "`")
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = strings.TrimSpace(strings.Trim(text[4:], "`"))
	}
	return strings.TrimSpace(text)
}

// firstJSONObject scans for the first balanced top-level JSON object,
// honouring string literals and escapes.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inStr := false
	esc := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case ch == '\\':
				esc = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
