// ABOUTME: Word-window chunker splitting document text into overlapping chunks
// ABOUTME: Windows advance by chunk_words-overlap_words so consecutive chunks share context
package core

import (
	"fmt"
	"strings"

	"github.com/embedops/embedops/internal/models"
)

// ValidateChunkConfig rejects window configurations that cannot make
// progress. Violations are configuration mistakes, not runtime failures.
func ValidateChunkConfig(cfg models.ChunkConfig) error {
	if cfg.ChunkWords <= 0 {
		return fmt.Errorf("%w: chunk_words must be a positive integer, got %d", models.ErrConfig, cfg.ChunkWords)
	}
	if cfg.OverlapWords < 0 {
		return fmt.Errorf("%w: overlap_words must be non-negative, got %d", models.ErrConfig, cfg.OverlapWords)
	}
	if cfg.OverlapWords >= cfg.ChunkWords {
		return fmt.Errorf("%w: overlap_words (%d) must be strictly less than chunk_words (%d)",
			models.ErrConfig, cfg.OverlapWords, cfg.ChunkWords)
	}
	return nil
}

// ChunkText splits text into overlapping word windows of cfg.ChunkWords
// words. The final window ends exactly at the last word; a trailing
// partial window is still emitted. Empty or whitespace-only text yields
// an empty slice, never an error.
func ChunkText(text string, cfg models.ChunkConfig) ([]string, error) {
	if err := ValidateChunkConfig(cfg); err != nil {
		return nil, err
	}

	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return []string{}, nil
	}

	var chunks []string
	start := 0

	for start < len(words) {
		end := start + cfg.ChunkWords
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, strings.Join(words[start:end], " "))

		if end >= len(words) {
			break
		}

		next := end - cfg.OverlapWords
		// stall guard: window start must strictly increase
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}
