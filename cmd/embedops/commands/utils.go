// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates flag parsing and service wiring used by query, answer, and mcp
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embedops/embedops/internal/config"
	"github.com/embedops/embedops/internal/core"
	"github.com/embedops/embedops/internal/llm"
	"github.com/embedops/embedops/internal/storage"
	"github.com/embedops/embedops/internal/vectorstore/pinecone"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// newOpenAIClient builds the embedding/chat client from config.
func newOpenAIClient(cfg *config.Config) (*llm.Client, error) {
	if err := cfg.RequireOpenAI(); err != nil {
		return nil, err
	}
	return llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
		Dimension:      cfg.Dimension,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
}

// newVectorIndex connects to Pinecone and makes sure the index exists
// with the embedder's dimension.
func newVectorIndex(ctx context.Context, cfg *config.Config, dimension int) (*pinecone.Index, error) {
	if err := cfg.RequirePinecone(); err != nil {
		return nil, err
	}
	client, err := pinecone.NewClient(pinecone.Config{
		APIKey:    cfg.PineconeAPIKey,
		IndexName: cfg.PineconeIndex,
		Cloud:     cfg.PineconeCloud,
		Region:    cfg.PineconeRegion,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return client.EnsureIndex(ctx, dimension)
}

// newRetrievalStack wires the full retrieval bundle used by query,
// answer, and the MCP server.
func newRetrievalStack(ctx context.Context, cfg *config.Config) (*core.Resources, *llm.Client, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	index, err := newVectorIndex(ctx, cfg, client.Dimension())
	if err != nil {
		return nil, nil, err
	}
	resources := &core.Resources{
		Embedder:  client,
		Index:     index,
		Chunks:    storage.NewChunkStore(cfg.ChunkStorePath),
		Namespace: cfg.Namespace,
	}
	return resources, client, nil
}

// retrievalFlags are the filter flags shared by query and answer.
type retrievalFlags struct {
	topK       int
	threshold  float64
	docID      string
	source     string
	docVersion int
	namespace  string
}

func (f *retrievalFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.topK, "top-k", 5, "Number of results to retrieve (1-20)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "Drop matches scoring strictly below this value")
	cmd.Flags().StringVar(&f.docID, "doc-id", "", "Restrict to a single document ID")
	cmd.Flags().StringVar(&f.source, "source", "", "Restrict to a single source filename")
	cmd.Flags().IntVar(&f.docVersion, "doc-version", 0, "Restrict to a document version")
	cmd.Flags().StringVar(&f.namespace, "namespace", "", "Override the embedding namespace")
}

// request maps the flags to a retrieval request. Flags the user never
// set stay out of the filter.
func (f *retrievalFlags) request(cmd *cobra.Command, query string) core.RetrieveRequest {
	req := core.RetrieveRequest{
		Query:     query,
		TopK:      f.topK,
		DocID:     f.docID,
		Source:    f.source,
		Namespace: f.namespace,
	}
	if cmd.Flags().Changed("threshold") {
		threshold := f.threshold
		req.ScoreThreshold = &threshold
	}
	if cmd.Flags().Changed("doc-version") {
		version := f.docVersion
		req.Version = &version
	}
	return req
}
