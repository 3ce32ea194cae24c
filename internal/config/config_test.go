// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing, defaults, and validation
package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/embedops/embedops/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Namespace != "emb_v1" {
		t.Errorf("Namespace = %s, want emb_v1", cfg.Namespace)
	}
	if cfg.Dimension != 1536 {
		t.Errorf("Dimension = %d, want 1536", cfg.Dimension)
	}
	if cfg.PineconeIndex != "embedops-rag-docs" {
		t.Errorf("PineconeIndex = %s, want embedops-rag-docs", cfg.PineconeIndex)
	}
	if cfg.PineconeCloud != "aws" || cfg.PineconeRegion != "us-east-1" {
		t.Errorf("Pinecone location = %s/%s, want aws/us-east-1", cfg.PineconeCloud, cfg.PineconeRegion)
	}
	if cfg.ChunkWords != 400 || cfg.OverlapWords != 80 {
		t.Errorf("chunk window = %d/%d, want 400/80", cfg.ChunkWords, cfg.OverlapWords)
	}
	if cfg.UpsertBatchSize != 200 {
		t.Errorf("UpsertBatchSize = %d, want 200", cfg.UpsertBatchSize)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.ChunkStorePath != "data/processed/chunks.jsonl" {
		t.Errorf("ChunkStorePath = %s", cfg.ChunkStorePath)
	}
	if cfg.RawPDFDir != "data/raw" {
		t.Errorf("RawPDFDir = %s", cfg.RawPDFDir)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("EMBEDDING_MODEL", "text-embedding-3-large")
	os.Setenv("EMBEDDING_NAMESPACE", "emb_v2")
	os.Setenv("EMBEDDING_DIMENSION", "3072")
	os.Setenv("PINECONE_INDEX_NAME", "custom-index")
	os.Setenv("CHUNK_WORDS", "200")
	os.Setenv("OVERLAP_WORDS", "40")
	os.Setenv("UPSERT_BATCH_SIZE", "50")
	os.Setenv("OPENAI_TIMEOUT", "60s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %s", cfg.EmbeddingModel)
	}
	if cfg.Namespace != "emb_v2" {
		t.Errorf("Namespace = %s", cfg.Namespace)
	}
	if cfg.Dimension != 3072 {
		t.Errorf("Dimension = %d", cfg.Dimension)
	}
	if cfg.PineconeIndex != "custom-index" {
		t.Errorf("PineconeIndex = %s", cfg.PineconeIndex)
	}
	if cfg.ChunkWords != 200 || cfg.OverlapWords != 40 {
		t.Errorf("chunk window = %d/%d", cfg.ChunkWords, cfg.OverlapWords)
	}
	if cfg.UpsertBatchSize != 50 {
		t.Errorf("UpsertBatchSize = %d", cfg.UpsertBatchSize)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestLoad_InvalidNumbersFallBackToDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("EMBEDDING_DIMENSION", "not-a-number")
	os.Setenv("OPENAI_TIMEOUT", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Dimension != 1536 {
		t.Errorf("Dimension = %d, want default 1536", cfg.Dimension)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", cfg.Timeout)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"empty namespace", map[string]string{"EMBEDDING_NAMESPACE": "  "}},
		{"zero dimension", map[string]string{"EMBEDDING_DIMENSION": "0"}},
		{"negative batch size", map[string]string{"UPSERT_BATCH_SIZE": "-1"}},
		{"excessive retries", map[string]string{"OPENAI_MAX_RETRIES": "11"}},
		// zero would be silently replaced by the client default
		{"zero retries", map[string]string{"OPENAI_MAX_RETRIES": "0"}},
		{"negative retries", map[string]string{"OPENAI_MAX_RETRIES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			_, err := Load()
			if !errors.Is(err, models.ErrConfig) {
				t.Errorf("Load() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if err := cfg.RequirePinecone(); !errors.Is(err, models.ErrConfig) {
		t.Errorf("RequirePinecone() error = %v, want ErrConfig", err)
	}
	if err := cfg.RequireOpenAI(); !errors.Is(err, models.ErrConfig) {
		t.Errorf("RequireOpenAI() error = %v, want ErrConfig", err)
	}

	cfg.PineconeAPIKey = "pk"
	cfg.OpenAIKey = "ok"
	if err := cfg.RequirePinecone(); err != nil {
		t.Errorf("RequirePinecone() error = %v", err)
	}
	if err := cfg.RequireOpenAI(); err != nil {
		t.Errorf("RequireOpenAI() error = %v", err)
	}
}
