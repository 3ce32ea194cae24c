// ABOUTME: Ingestion pipeline driving chunking, embedding, chunk-store writes, and upserts
// ABOUTME: Chunk records hit disk before their vector batch so matches always resolve
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/embedops/embedops/internal/models"
	"github.com/embedops/embedops/internal/storage"
	"github.com/embedops/embedops/internal/util"
)

// Upsert defaults. Retries use exponential backoff with the base delay
// doubling each attempt.
const (
	DefaultUpsertBatchSize = 200
	UpsertMaxAttempts      = 3
	UpsertBaseDelay        = 500 * time.Millisecond
)

// PipelineConfig tunes one ingestion run.
type PipelineConfig struct {
	ChunkConfig     models.ChunkConfig
	Namespace       string
	UpsertBatchSize int
}

// Pipeline ingests a corpus of documents: chunk, embed per document,
// persist chunk records, and upsert vectors in batches.
type Pipeline struct {
	embedder Embedder
	index    VectorIndex
	chunks   *storage.ChunkWriter
	cfg      PipelineConfig
}

// NewPipeline wires an ingestion pipeline. Zero-value config fields get
// the standard defaults.
func NewPipeline(embedder Embedder, index VectorIndex, chunks *storage.ChunkWriter, cfg PipelineConfig) (*Pipeline, error) {
	if cfg.ChunkConfig == (models.ChunkConfig{}) {
		cfg.ChunkConfig = models.DefaultChunkConfig()
	}
	if err := ValidateChunkConfig(cfg.ChunkConfig); err != nil {
		return nil, err
	}
	if cfg.UpsertBatchSize == 0 {
		cfg.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if cfg.UpsertBatchSize < 0 {
		return nil, fmt.Errorf("%w: upsert batch size must be positive, got %d", models.ErrConfig, cfg.UpsertBatchSize)
	}
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("%w: embedding namespace must not be empty", models.ErrConfig)
	}

	return &Pipeline{embedder: embedder, index: index, chunks: chunks, cfg: cfg}, nil
}

// Ingest processes every document and upserts the accumulated vectors.
// A single document's embedding failure aborts the whole run; individual
// invalid vectors are skipped and counted.
func (p *Pipeline) Ingest(ctx context.Context, docs []models.Document) (*models.IngestResult, error) {
	dim := p.embedder.Dimension()
	if dim <= 0 {
		return nil, fmt.Errorf("%w: invalid embedding dimension declared by model: %d", models.ErrEmbedding, dim)
	}

	var pending []models.Vector
	skipped := 0

	for _, doc := range docs {
		chunks, err := ChunkText(doc.Text, p.cfg.ChunkConfig)
		if err != nil {
			return nil, err
		}
		if len(chunks) == 0 {
			continue
		}

		embeddings, err := p.embedder.EmbedBatch(ctx, chunks)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding failed for source=%s: %v", models.ErrEmbedding, doc.Source, err)
		}
		if len(embeddings) != len(chunks) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks (source=%s)",
				models.ErrEmbedding, len(embeddings), len(chunks), doc.Source)
		}

		for i, emb := range embeddings {
			if emb == nil || len(emb) != dim {
				skipped++
				continue
			}

			rec := models.ChunkRecord{
				VectorID: uuid.New().String(),
				DocID:    doc.DocID,
				ChunkID:  i,
				Source:   doc.Source,
				Version:  doc.Version,
				Text:     chunks[i],
			}

			// Durable before the containing batch is upserted; a crash
			// mid-upsert never leaves an unresolvable index entry
			if err := p.chunks.Append(rec); err != nil {
				return nil, err
			}

			pending = append(pending, models.Vector{
				ID:     rec.VectorID,
				Values: emb,
				Metadata: models.VectorMetadata{
					DocID:   doc.DocID,
					ChunkID: i,
					Source:  doc.Source,
					Version: doc.Version,
				},
			})
		}
	}

	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: no vectors produced; check documents for extractable text and chunking settings",
			models.ErrEmbedding)
	}

	for start := 0; start < len(pending); start += p.cfg.UpsertBatchSize {
		end := start + p.cfg.UpsertBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		err := util.Do(ctx, UpsertMaxAttempts, UpsertBaseDelay, func() error {
			return p.index.Upsert(ctx, p.cfg.Namespace, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: upsert failed after %d attempts: %v",
				models.ErrVectorStore, UpsertMaxAttempts, err)
		}
	}

	return &models.IngestResult{
		VectorsUpserted: len(pending),
		ChunksSkipped:   skipped,
		Documents:       len(docs),
		Namespace:       p.cfg.Namespace,
	}, nil
}
