// ABOUTME: OpenAI client providing embeddings and chat completions for the core
// ABOUTME: Implements the Embedder and ChatModel capabilities with retry and timeouts
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/embedops/embedops/internal/util"
)

const (
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
)

// Known embedding dimensions per model. Unknown models need an explicit
// Dimension in the config.
var modelDimensions = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

// ClientConfig holds configuration for the OpenAI client.
type ClientConfig struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	Dimension      int
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// Client wraps the OpenAI API with retry logic. One instance serves both
// the embedding and chat capabilities and is shared across requests.
type Client struct {
	client         *openai.Client
	embeddingModel string
	chatModel      string
	dimension      int
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates an OpenAI client. The embedding dimension is taken
// from the model table unless the config overrides it.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		var ok bool
		if dimension, ok = modelDimensions[cfg.EmbeddingModel]; !ok {
			return nil, fmt.Errorf("unknown embedding model %q: set an explicit dimension", cfg.EmbeddingModel)
		}
	}

	return &Client{
		client:         openai.NewClient(cfg.APIKey),
		embeddingModel: cfg.EmbeddingModel,
		chatModel:      cfg.ChatModel,
		dimension:      dimension,
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// Dimension returns the model's declared embedding size.
func (c *Client) Dimension() int { return c.dimension }

// ModelName returns the chat model identifier.
func (c *Client) ModelName() string { return c.chatModel }

// EmbedBatch embeds all texts in one request, retrying transient
// failures. Returned vectors align with the input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out [][]float32
	err := util.Do(ctx, c.maxRetries, c.retryDelay, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts))
		}

		vectors := make([][]float32, len(texts))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(vectors) {
				return fmt.Errorf("embedding index %d out of range", d.Index)
			}
			vectors[d.Index] = d.Embedding
		}
		out = vectors
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed after %d attempts: %w", c.maxRetries, err)
	}
	return out, nil
}

// EmbedQuery embeds a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || vectors[0] == nil {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	return vectors[0], nil
}

// Chat generates a completion from a system instruction and user prompt.
func (c *Client) Chat(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	var out string
	err := util.Do(ctx, c.maxRetries, c.retryDelay, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Temperature: temperature,
			MaxTokens:   maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}
		out = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed after %d attempts: %w", c.maxRetries, err)
	}
	return out, nil
}
