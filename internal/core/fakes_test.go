// ABOUTME: In-package fakes for the embedder, vector index, and chat capabilities
// ABOUTME: Shared across the pipeline, retrieval, and orchestrator tests
package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/embedops/embedops/internal/models"
	"github.com/embedops/embedops/internal/storage"
)

// fakeEmbedder returns deterministic vectors of a fixed dimension. Set
// failBatch/failQuery to force embedding errors, or override vectors to
// inject malformed results.
type fakeEmbedder struct {
	dim        int
	failBatch  bool
	failQuery  bool
	override   map[int][]float32 // per-position replacement in EmbedBatch
	batchCalls int
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.failBatch {
		return nil, errors.New("inference failed")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		if v, ok := f.override[i]; ok {
			out[i] = v
			continue
		}
		vec := make([]float32, f.dim)
		vec[0] = float32(i + 1)
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.failQuery {
		return nil, errors.New("inference failed")
	}
	vecs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

// fakeIndex records upserts and serves canned query matches.
type fakeIndex struct {
	upserts     [][]models.Vector
	namespaces  []string
	failUpserts int // fail this many upsert calls before succeeding
	failQuery   bool

	matches    []models.Match
	lastTopK   int
	lastFilter models.MetadataFilter
	lastNS     string
}

func (f *fakeIndex) Upsert(_ context.Context, namespace string, vectors []models.Vector) error {
	if f.failUpserts > 0 {
		f.failUpserts--
		return errors.New("index unavailable")
	}
	batch := make([]models.Vector, len(vectors))
	copy(batch, vectors)
	f.upserts = append(f.upserts, batch)
	f.namespaces = append(f.namespaces, namespace)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, namespace string, _ []float32, topK int, filter models.MetadataFilter) ([]models.Match, error) {
	if f.failQuery {
		return nil, errors.New("index unavailable")
	}
	f.lastNS = namespace
	f.lastTopK = topK
	f.lastFilter = filter
	return f.matches, nil
}

// fakeChat echoes a canned answer and records the prompts it saw.
type fakeChat struct {
	answer     string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeChat) Chat(_ context.Context, system, user string, _ float32, _ int) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeChat) ModelName() string { return "fake-model" }

// newTestStore writes records to a temp chunk store and returns a
// resolver over it.
func newTestStore(t *testing.T, recs []models.ChunkRecord) *storage.ChunkStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	w, err := storage.NewChunkWriter(path)
	if err != nil {
		t.Fatalf("NewChunkWriter() error = %v", err)
	}
	for _, rec := range recs {
		if err := w.Append(rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return storage.NewChunkStore(path)
}
