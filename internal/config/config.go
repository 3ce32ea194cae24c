// ABOUTME: Centralized configuration for the EmbedOps retrieval service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/embedops/embedops/internal/models"
)

// Config holds all configuration for the retrieval service.
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	EmbeddingModel string
	ChatModel      string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Embedding layout
	Namespace string
	Dimension int

	// Pinecone settings
	PineconeAPIKey string
	PineconeIndex  string
	PineconeCloud  string
	PineconeRegion string

	// Ingestion settings
	RawPDFDir       string
	ChunkStorePath  string
	ChunkWords      int
	OverlapWords    int
	UpsertBatchSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      getEnv("EMBEDOPS_CHAT_MODEL", "gpt-4o-mini"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),

		Namespace: getEnv("EMBEDDING_NAMESPACE", "emb_v1"),
		Dimension: getEnvInt("EMBEDDING_DIMENSION", 1536),

		PineconeAPIKey: os.Getenv("PINECONE_API_KEY"),
		PineconeIndex:  getEnv("PINECONE_INDEX_NAME", "embedops-rag-docs"),
		PineconeCloud:  getEnv("PINECONE_CLOUD", "aws"),
		PineconeRegion: getEnv("PINECONE_REGION", "us-east-1"),

		RawPDFDir:       getEnv("RAW_PDF_DIR", "data/raw"),
		ChunkStorePath:  getEnv("CHUNK_STORE_PATH", "data/processed/chunks.jsonl"),
		ChunkWords:      getEnvInt("CHUNK_WORDS", models.DefaultChunkWords),
		OverlapWords:    getEnvInt("OVERLAP_WORDS", models.DefaultOverlapWords),
		UpsertBatchSize: getEnvInt("UPSERT_BATCH_SIZE", 200),
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("%w: EMBEDDING_NAMESPACE must not be empty", models.ErrConfig)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: EMBEDDING_DIMENSION must be positive, got %d", models.ErrConfig, c.Dimension)
	}
	if c.UpsertBatchSize <= 0 {
		return fmt.Errorf("%w: UPSERT_BATCH_SIZE must be positive, got %d", models.ErrConfig, c.UpsertBatchSize)
	}
	// The OpenAI client treats a zero MaxRetries as unset and applies
	// its own default, so zero must not validate.
	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: OPENAI_MAX_RETRIES must be 1-10 (1 means a single attempt), got %d", models.ErrConfig, c.MaxRetries)
	}
	return nil
}

// RequirePinecone fails when the vector index credentials are missing.
func (c *Config) RequirePinecone() error {
	if strings.TrimSpace(c.PineconeAPIKey) == "" {
		return fmt.Errorf("%w: missing required environment variable PINECONE_API_KEY", models.ErrConfig)
	}
	return nil
}

// RequireOpenAI fails when the embedding credentials are missing.
func (c *Config) RequireOpenAI() error {
	if strings.TrimSpace(c.OpenAIKey) == "" {
		return fmt.Errorf("%w: missing required environment variable OPENAI_API_KEY", models.ErrConfig)
	}
	return nil
}

// ChunkConfig returns the configured chunk window.
func (c *Config) ChunkConfig() models.ChunkConfig {
	return models.ChunkConfig{ChunkWords: c.ChunkWords, OverlapWords: c.OverlapWords}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return defaultVal
}
