package driven

import "context"

// LLMService is the answer generator: it consumes an assembled prompt
// and returns free-form text. Any prompt-length limiting is the
// generator's responsibility, not the caller's.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request.
	Ping(ctx context.Context) error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// Temperature controls determinism (0.0 = deterministic,
	// 1.0 = creative).
	Temperature float64

	// ContextWindow is the upper bound on prompt token count the
	// model is asked to honour. Zero uses the model default.
	ContextWindow int
}
