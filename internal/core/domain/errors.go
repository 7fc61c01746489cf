package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfig indicates invalid chunking or retriever
	// parameters, a missing required path, or an embedding dimension
	// mismatch. Fatal: never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrIndexNotFound indicates no persisted index exists for the
	// requested collection. Distinct from an empty index, which is
	// valid and returns empty results.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmptyCorpus indicates an index build was attempted with no
	// chunks to index.
	ErrEmptyCorpus = errors.New("no chunks to index")

	// ErrDimensionMismatch indicates the embedding gateway returned a
	// vector whose dimension differs from the collection's. Detected
	// at the first mismatched insert.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrGatewayUnavailable indicates the embedding gateway or answer
	// generator was unreachable or timed out. Retryable at the
	// caller's discretion.
	ErrGatewayUnavailable = errors.New("gateway unavailable")

	// ErrUnsupportedType indicates no converter handles a file type.
	ErrUnsupportedType = errors.New("unsupported type")
)
