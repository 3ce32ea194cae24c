// ABOUTME: Retrieval engine: embed query, search the vector index, join chunk text
// ABOUTME: Validation runs before any capability call; capability errors are wrapped
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/embedops/embedops/internal/models"
	"github.com/embedops/embedops/internal/storage"
)

// TopK bounds for a single retrieval call.
const (
	MinTopK = 1
	MaxTopK = 20
)

// PreviewMaxChars caps the hit text preview length.
const PreviewMaxChars = 500

// Resources bundles the handles a retrieval call needs. Built once at
// service startup and shared read-only across calls; nothing here is
// reloaded per request.
type Resources struct {
	Embedder  Embedder
	Index     VectorIndex
	Chunks    *storage.ChunkStore
	Namespace string
}

// RetrieveRequest is one retrieval call. Zero-value filter fields impose
// no constraint. Namespace, when set, overrides the resource default so
// callers can query an alternate embedding generation.
type RetrieveRequest struct {
	Query          string
	TopK           int
	ScoreThreshold *float64
	DocID          string
	Source         string
	Version        *int
	Namespace      string
}

// Retrieve embeds the query, searches the index under the request's
// metadata filter, and joins surviving matches back to chunk text.
// Hits come back in index order (similarity-descending); the engine
// does not re-sort.
func Retrieve(ctx context.Context, res *Resources, req RetrieveRequest) ([]models.Hit, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query text must be non-empty", models.ErrValidation)
	}
	if req.TopK < MinTopK || req.TopK > MaxTopK {
		return nil, fmt.Errorf("%w: top_k must be between %d and %d, got %d",
			models.ErrValidation, MinTopK, MaxTopK, req.TopK)
	}

	queryVec, err := res.Embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", models.ErrEmbedding, err)
	}

	filter := models.MetadataFilter{
		DocID:   req.DocID,
		Source:  req.Source,
		Version: req.Version,
	}

	namespace := strings.TrimSpace(req.Namespace)
	if namespace == "" {
		namespace = res.Namespace
	}

	matches, err := res.Index.Query(ctx, namespace, queryVec, req.TopK, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: index query: %v", models.ErrVectorStore, err)
	}

	hits := make([]models.Hit, 0, len(matches))
	for _, m := range matches {
		// Strict threshold: dropped matches are not replaced, so the
		// result count may come up short of top_k
		if req.ScoreThreshold != nil && m.Score < *req.ScoreThreshold {
			continue
		}

		hit := models.Hit{
			Score:     m.Score,
			DocID:     m.Metadata.DocID,
			ChunkID:   m.Metadata.ChunkID,
			Source:    m.Metadata.Source,
			Version:   m.Metadata.Version,
			Namespace: namespace,
		}

		rec, ok, err := res.Chunks.Resolve(m.Metadata.DocID, m.Metadata.ChunkID)
		if err != nil {
			return nil, err
		}
		if ok {
			hit.TextPreview = previewText(rec.Text)
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

// previewText caps a preview at PreviewMaxChars characters. Counting is
// rune-based so multi-byte text is never cut mid-character.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) > PreviewMaxChars {
		return string(runes[:PreviewMaxChars]) + "..."
	}
	return text
}
