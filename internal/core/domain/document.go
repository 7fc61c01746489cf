package domain

// Document is one unit of ingested content, produced by a converter.
// It is immutable once created; a newer conversion of the same source
// supersedes it entirely.
type Document struct {
	// Source is the unique origin path or identifier.
	Source string

	// Content is the normalised text after conversion and cleaning.
	Content string

	// Format is the original format tag ("markdown", "text", ...).
	Format string
}

// Chunk is a contiguous slice of a Document's text, the unit of
// indexing and retrieval. Chunks are created in one batch per document
// at index-build time and never mutated afterwards.
type Chunk struct {
	// ID is the unique identifier within a collection.
	ID string

	// Source is the owning document's source identifier.
	Source string

	// Position is the ordinal position within the document.
	Position int

	// Content is the chunk text.
	Content string

	// Start and End are rune offsets of the chunk within the
	// document text. Consecutive chunks overlap: the next chunk
	// starts before the previous one ends.
	Start int
	End   int

	// Embedding is the vector representation, owned by the index
	// once stored.
	Embedding []float32
}

// ScoredChunk pairs a chunk with its similarity to a query.
// It exists only for the duration of one retrieval.
type ScoredChunk struct {
	Chunk      Chunk
	Similarity float64
}

// Answer is the result of one question/answer cycle.
type Answer struct {
	// Text is the generated answer, or a user-facing validation
	// message when the question was rejected before any gateway call.
	Text string

	// Sources lists the distinct source identifiers of the retrieved
	// chunks, in retrieval order.
	Sources []string

	// Model is the generation model that produced the text.
	Model string
}
