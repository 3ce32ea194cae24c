// ABOUTME: Tests for the ingestion pipeline
// ABOUTME: Verifies batching, skip counting, retries, write ordering, and failure modes
package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/embedops/embedops/internal/models"
	"github.com/embedops/embedops/internal/storage"
)

func newTestWriter(t *testing.T) (*storage.ChunkWriter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	w, err := storage.NewChunkWriter(path)
	if err != nil {
		t.Fatalf("NewChunkWriter() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, path
}

func testDoc(text string) models.Document {
	return models.Document{
		DocID:   models.NewDocID(text),
		Source:  "doc.pdf",
		Text:    text,
		Version: 1,
	}
}

func TestNewPipeline_Defaults(t *testing.T) {
	w, _ := newTestWriter(t)
	p, err := NewPipeline(&fakeEmbedder{dim: 4}, &fakeIndex{}, w, PipelineConfig{Namespace: "emb_v1"})
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	if p.cfg.ChunkConfig.ChunkWords != models.DefaultChunkWords {
		t.Errorf("ChunkWords = %d, want %d", p.cfg.ChunkConfig.ChunkWords, models.DefaultChunkWords)
	}
	if p.cfg.UpsertBatchSize != DefaultUpsertBatchSize {
		t.Errorf("UpsertBatchSize = %d, want %d", p.cfg.UpsertBatchSize, DefaultUpsertBatchSize)
	}
}

func TestNewPipeline_RejectsBadConfig(t *testing.T) {
	w, _ := newTestWriter(t)

	_, err := NewPipeline(&fakeEmbedder{dim: 4}, &fakeIndex{}, w, PipelineConfig{
		Namespace:   "emb_v1",
		ChunkConfig: models.ChunkConfig{ChunkWords: 10, OverlapWords: 10},
	})
	if !errors.Is(err, models.ErrConfig) {
		t.Errorf("NewPipeline() error = %v, want ErrConfig", err)
	}

	_, err = NewPipeline(&fakeEmbedder{dim: 4}, &fakeIndex{}, w, PipelineConfig{Namespace: ""})
	if !errors.Is(err, models.ErrConfig) {
		t.Errorf("NewPipeline() error = %v, want ErrConfig for empty namespace", err)
	}
}

func TestIngest_EndToEnd(t *testing.T) {
	// 900 words at the 400/80 default → 3 chunks, 3 vectors, 3 records
	w, path := newTestWriter(t)
	idx := &fakeIndex{}
	p, err := NewPipeline(&fakeEmbedder{dim: 4}, idx, w, PipelineConfig{Namespace: "emb_v1"})
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}

	doc := testDoc(makeWords(900))
	result, err := p.Ingest(context.Background(), []models.Document{doc})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if result.VectorsUpserted != 3 {
		t.Errorf("VectorsUpserted = %d, want 3", result.VectorsUpserted)
	}
	if result.ChunksSkipped != 0 {
		t.Errorf("ChunksSkipped = %d, want 0", result.ChunksSkipped)
	}

	if len(idx.upserts) != 1 {
		t.Fatalf("got %d upsert batches, want 1", len(idx.upserts))
	}
	if idx.namespaces[0] != "emb_v1" {
		t.Errorf("upsert namespace = %q, want emb_v1", idx.namespaces[0])
	}

	// Unique vector ids and sequential chunk ids
	seen := map[string]bool{}
	for i, v := range idx.upserts[0] {
		if seen[v.ID] {
			t.Errorf("duplicate vector id %s", v.ID)
		}
		seen[v.ID] = true
		if v.Metadata.ChunkID != i {
			t.Errorf("vector %d chunk_id = %d", i, v.Metadata.ChunkID)
		}
		if v.Metadata.DocID != doc.DocID {
			t.Errorf("vector doc_id = %q, want %q", v.Metadata.DocID, doc.DocID)
		}
	}

	// The chunk store carries exactly 3 resolvable records for the doc
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	store := storage.NewChunkStore(path)
	for i := 0; i < 3; i++ {
		rec, ok, err := store.Resolve(doc.DocID, i)
		if err != nil || !ok {
			t.Fatalf("Resolve(%d) = ok %v, err %v", i, ok, err)
		}
		if rec.Text == "" {
			t.Errorf("record %d has empty text", i)
		}
	}
	if n, _ := store.Len(); n != 3 {
		t.Errorf("store has %d records, want 3", n)
	}
}

func TestIngest_IdenticalTextSameDocID(t *testing.T) {
	a := models.NewDocID("shared content")
	b := models.NewDocID("shared content")
	if a != b {
		t.Errorf("identical text produced different doc ids: %s vs %s", a, b)
	}
	if a == models.NewDocID("different content") {
		t.Error("different text produced the same doc id")
	}
}

func TestIngest_SkipsEmptyDocumentsSilently(t *testing.T) {
	w, _ := newTestWriter(t)
	idx := &fakeIndex{}
	p, _ := NewPipeline(&fakeEmbedder{dim: 4}, idx, w, PipelineConfig{Namespace: "emb_v1"})

	docs := []models.Document{
		{DocID: "empty", Source: "empty.pdf", Text: "   ", Version: 1},
		testDoc(makeWords(10)),
	}
	result, err := p.Ingest(context.Background(), docs)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.VectorsUpserted != 1 {
		t.Errorf("VectorsUpserted = %d, want 1", result.VectorsUpserted)
	}
}

func TestIngest_DimensionMismatchSkipAndCount(t *testing.T) {
	w, _ := newTestWriter(t)
	idx := &fakeIndex{}
	emb := &fakeEmbedder{
		dim: 4,
		override: map[int][]float32{
			1: make([]float32, 3), // wrong dimension
			2: nil,                // absent
		},
	}
	p, _ := NewPipeline(emb, idx, w, PipelineConfig{
		Namespace:   "emb_v1",
		ChunkConfig: models.ChunkConfig{ChunkWords: 10, OverlapWords: 0},
	})

	result, err := p.Ingest(context.Background(), []models.Document{testDoc(makeWords(40))})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.ChunksSkipped != 2 {
		t.Errorf("ChunksSkipped = %d, want 2", result.ChunksSkipped)
	}
	if result.VectorsUpserted != 2 {
		t.Errorf("VectorsUpserted = %d, want 2", result.VectorsUpserted)
	}
}

func TestIngest_DocumentEmbeddingFailureIsFatal(t *testing.T) {
	w, _ := newTestWriter(t)
	p, _ := NewPipeline(&fakeEmbedder{dim: 4, failBatch: true}, &fakeIndex{}, w, PipelineConfig{Namespace: "emb_v1"})

	_, err := p.Ingest(context.Background(), []models.Document{testDoc(makeWords(10))})
	if !errors.Is(err, models.ErrEmbedding) {
		t.Errorf("Ingest() error = %v, want ErrEmbedding", err)
	}
}

func TestIngest_ZeroVectorsIsFatal(t *testing.T) {
	w, _ := newTestWriter(t)
	p, _ := NewPipeline(&fakeEmbedder{dim: 4}, &fakeIndex{}, w, PipelineConfig{Namespace: "emb_v1"})

	_, err := p.Ingest(context.Background(), []models.Document{
		{DocID: "e", Source: "e.pdf", Text: "", Version: 1},
	})
	if !errors.Is(err, models.ErrEmbedding) {
		t.Errorf("Ingest() error = %v, want ErrEmbedding", err)
	}
}

func TestIngest_BatchesAndRetries(t *testing.T) {
	w, _ := newTestWriter(t)
	idx := &fakeIndex{failUpserts: 2} // first batch succeeds on third attempt
	p, _ := NewPipeline(&fakeEmbedder{dim: 4}, idx, w, PipelineConfig{
		Namespace:       "emb_v1",
		ChunkConfig:     models.ChunkConfig{ChunkWords: 10, OverlapWords: 0},
		UpsertBatchSize: 3,
	})

	// 70 words → 7 chunks → batches of 3, 3, 1
	result, err := p.Ingest(context.Background(), []models.Document{testDoc(makeWords(70))})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.VectorsUpserted != 7 {
		t.Errorf("VectorsUpserted = %d, want 7", result.VectorsUpserted)
	}
	if len(idx.upserts) != 3 {
		t.Fatalf("got %d upsert batches, want 3", len(idx.upserts))
	}
	if got := []int{len(idx.upserts[0]), len(idx.upserts[1]), len(idx.upserts[2])}; got[0] != 3 || got[1] != 3 || got[2] != 1 {
		t.Errorf("batch sizes = %v, want [3 3 1]", got)
	}
}

func TestIngest_UpsertRetriesExhaustedIsVectorStoreError(t *testing.T) {
	w, _ := newTestWriter(t)
	idx := &fakeIndex{failUpserts: UpsertMaxAttempts}
	p, _ := NewPipeline(&fakeEmbedder{dim: 4}, idx, w, PipelineConfig{Namespace: "emb_v1"})

	_, err := p.Ingest(context.Background(), []models.Document{testDoc(makeWords(10))})
	if !errors.Is(err, models.ErrVectorStore) {
		t.Errorf("Ingest() error = %v, want ErrVectorStore", err)
	}
}

func TestIngest_RecordsWrittenBeforeUpsert(t *testing.T) {
	// Even when every upsert attempt fails, the chunk store already
	// holds the records: no index entry can ever be unresolvable
	w, path := newTestWriter(t)
	idx := &fakeIndex{failUpserts: UpsertMaxAttempts}
	p, _ := NewPipeline(&fakeEmbedder{dim: 4}, idx, w, PipelineConfig{Namespace: "emb_v1"})

	doc := testDoc(makeWords(10))
	_, err := p.Ingest(context.Background(), []models.Document{doc})
	if !errors.Is(err, models.ErrVectorStore) {
		t.Fatalf("Ingest() error = %v, want ErrVectorStore", err)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	store := storage.NewChunkStore(path)
	if _, ok, err := store.Resolve(doc.DocID, 0); err != nil || !ok {
		t.Errorf("chunk record missing after failed upsert: ok %v, err %v", ok, err)
	}
}
