package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is consumed at index-build time (one vector per chunk) and at
// query time (one vector per question).
//
// The vector dimension must be constant for the lifetime of one index;
// mixing dimensions is a fatal configuration error detected at the
// first mismatched insert.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, mxbai-embed-large)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// Zero means unknown until the first call.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request, without running inference.
	Ping(ctx context.Context) error
}
