// ABOUTME: Capability interfaces for the external collaborators of the core
// ABOUTME: Embedding, vector index, and chat models are third-party services behind these
package core

import (
	"context"

	"github.com/embedops/embedops/internal/models"
)

// Embedder converts text into fixed-dimension normalized vectors.
type Embedder interface {
	// EmbedBatch embeds every text in order. Returned vectors align with
	// the input slice by position.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension is the model's declared vector size.
	Dimension() int
}

// VectorIndex persists vectors with metadata and answers nearest-neighbor
// queries under an optional metadata filter, partitioned by namespace.
type VectorIndex interface {
	Upsert(ctx context.Context, namespace string, vectors []models.Vector) error

	// Query returns up to topK matches ordered similarity-descending.
	Query(ctx context.Context, namespace string, vector []float32, topK int, filter models.MetadataFilter) ([]models.Match, error)
}

// ChatModel generates an answer from a system instruction and user prompt.
// Optional: when absent, the service runs in retrieval-only mode.
type ChatModel interface {
	Chat(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
	ModelName() string
}
