// ABOUTME: Domain error kinds for the EmbedOps retrieval core
// ABOUTME: Capability failures are wrapped into these before crossing the core boundary
package models

import "errors"

// Error kinds. Callers match with errors.Is; concrete causes are attached
// with fmt.Errorf("...: %w", ...) chains.
var (
	// ErrConfig indicates missing or invalid configuration. Never retried.
	ErrConfig = errors.New("configuration error")

	// ErrIngestion indicates document read failures during corpus scanning.
	ErrIngestion = errors.New("ingestion error")

	// ErrProcessing indicates chunking or chunk-store failures.
	ErrProcessing = errors.New("processing error")

	// ErrEmbedding indicates embedding model load or inference failures.
	ErrEmbedding = errors.New("embedding error")

	// ErrVectorStore indicates vector index operation failures.
	ErrVectorStore = errors.New("vector store error")

	// ErrValidation indicates bad caller input (empty query, out-of-range top_k).
	ErrValidation = errors.New("validation error")

	// ErrLLMUnavailable indicates no LLM is configured. Retrieval-only mode
	// still functions; answer generation does not.
	ErrLLMUnavailable = errors.New("LLM not configured")
)
