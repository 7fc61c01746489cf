// Package domain contains the core business entities of the RAG pipeline:
// documents, chunks, retrieval results, answers and evaluation types.
// It has no dependencies on adapters or infrastructure.
package domain
