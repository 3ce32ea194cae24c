// ABOUTME: RAG orchestrator packing retrieval hits into a bounded context block
// ABOUTME: Delegates generation to a chat model constrained to the supplied context
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/embedops/embedops/internal/models"
)

// Answer generation defaults.
const (
	DefaultMaxContextChars = 3500
	DefaultTemperature     = 0.2
	DefaultMaxTokens       = 300

	// NoContextPlaceholder is substituted when packing yields nothing.
	NoContextPlaceholder = "[no context]"
)

// answerSystemPrompt constrains the model to the retrieved context. The
// refusal sentence is a literal contract with the model, not something
// the orchestrator checks.
const answerSystemPrompt = "You are a concise assistant. Answer using ONLY the provided context. " +
	"If the context is insufficient, say: 'I don't have enough context to answer that.' " +
	"Cite sources using the bracketed citation lines."

// AnswerRequest extends a retrieval request with generation parameters.
type AnswerRequest struct {
	RetrieveRequest
	MaxContextChars int
	Temperature     float32
	MaxTokens       int
}

// AnswerQuestion retrieves context for the query and generates a grounded
// answer. Retrieval behaves exactly as Retrieve; hits skipped during
// context packing still appear in the response.
func AnswerQuestion(ctx context.Context, res *Resources, chat ChatModel, req AnswerRequest) (*models.Answer, error) {
	if chat == nil {
		return nil, models.ErrLLMUnavailable
	}
	if req.MaxContextChars <= 0 {
		req.MaxContextChars = DefaultMaxContextChars
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}

	hits, err := Retrieve(ctx, res, req.RetrieveRequest)
	if err != nil {
		return nil, err
	}

	contextBlock := FormatContext(hits, req.MaxContextChars)

	prompt := contextBlock
	if prompt == "" {
		prompt = NoContextPlaceholder
	}
	user := fmt.Sprintf("Question:\n%s\n\nContext:\n%s", req.Query, prompt)

	answer, err := chat.Chat(ctx, answerSystemPrompt, user, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("answer generation: %w", err)
	}

	return &models.Answer{
		Answer:           strings.TrimSpace(answer),
		Hits:             hits,
		UsedContextChars: len(contextBlock),
		Model:            chat.ModelName(),
	}, nil
}

// FormatContext greedily packs hits, in order, into citation-tagged
// blocks until adding the next block would exceed maxChars. Blocks are
// never truncated to fit; hits without preview text are skipped.
func FormatContext(hits []models.Hit, maxChars int) string {
	var parts []string
	used := 0

	for _, h := range hits {
		text := strings.TrimSpace(h.TextPreview)
		if text == "" {
			continue
		}

		block := fmt.Sprintf("[source=%s doc_id=%s chunk_id=%d]\n%s\n", h.Source, h.DocID, h.ChunkID, text)
		if used+len(block) > maxChars {
			break
		}
		parts = append(parts, block)
		used += len(block)
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
