// ABOUTME: Append-only JSONL chunk store mapping (doc_id, chunk_id) to chunk text
// ABOUTME: Ingestion appends records; retrieval loads the file once into a lookup map
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/embedops/embedops/internal/models"
)

// DefaultChunkStorePath is where ingestion writes chunk records.
const DefaultChunkStorePath = "data/processed/chunks.jsonl"

// ChunkWriter appends chunk records to the store file, one JSON object
// per line. Each record is flushed as it is written so it is durable
// before the corresponding vector batch is upserted.
type ChunkWriter struct {
	f  *os.File
	w  *bufio.Writer
	mu sync.Mutex
}

// NewChunkWriter opens the store file for appending, creating parent
// directories as needed.
func NewChunkWriter(path string) (*ChunkWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating chunk store directory: %v", models.ErrProcessing, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening chunk store %s: %v", models.ErrProcessing, path, err)
	}

	return &ChunkWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one record and flushes it to disk.
func (cw *ChunkWriter) Append(rec models.ChunkRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encoding chunk record: %v", models.ErrProcessing, err)
	}
	if _, err := cw.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("%w: writing chunk record: %v", models.ErrProcessing, err)
	}
	if err := cw.w.Flush(); err != nil {
		return fmt.Errorf("%w: flushing chunk store: %v", models.ErrProcessing, err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (cw *ChunkWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if err := cw.w.Flush(); err != nil {
		_ = cw.f.Close()
		return fmt.Errorf("%w: flushing chunk store: %v", models.ErrProcessing, err)
	}
	return cw.f.Close()
}

// ChunkStore resolves chunk records by (doc_id, chunk_id). The backing
// file is read once on first Resolve and cached for the life of the
// store; later lines override earlier ones with the same key, since
// ingestion reruns append rather than replace.
type ChunkStore struct {
	path string

	once    sync.Once
	loadErr error
	index   map[models.ChunkKey]models.ChunkRecord
}

// NewChunkStore creates a resolver over the given store file. The file
// is not touched until the first Resolve call.
func NewChunkStore(path string) *ChunkStore {
	return &ChunkStore{path: path}
}

// Resolve returns the record for (docID, chunkID). A missing key yields
// ok=false without error; a missing or unreadable store file is a
// processing error.
func (cs *ChunkStore) Resolve(docID string, chunkID int) (models.ChunkRecord, bool, error) {
	cs.once.Do(cs.load)
	if cs.loadErr != nil {
		return models.ChunkRecord{}, false, cs.loadErr
	}

	rec, ok := cs.index[models.ChunkKey{DocID: docID, ChunkID: chunkID}]
	return rec, ok, nil
}

// Len reports how many distinct (doc_id, chunk_id) keys are loaded.
// Forces the lazy load.
func (cs *ChunkStore) Len() (int, error) {
	cs.once.Do(cs.load)
	if cs.loadErr != nil {
		return 0, cs.loadErr
	}
	return len(cs.index), nil
}

func (cs *ChunkStore) load() {
	f, err := os.Open(cs.path)
	if err != nil {
		cs.loadErr = fmt.Errorf("%w: chunk store not readable at %s (run ingestion first): %v",
			models.ErrProcessing, cs.path, err)
		return
	}
	defer f.Close()

	index := make(map[models.ChunkKey]models.ChunkRecord)

	scanner := bufio.NewScanner(f)
	// Chunk texts can be a few KB per line; raise the scanner limit
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec models.ChunkRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			cs.loadErr = fmt.Errorf("%w: chunk store %s line %d: %v",
				models.ErrProcessing, cs.path, lineNo, err)
			return
		}

		// Last write wins
		index[models.ChunkKey{DocID: rec.DocID, ChunkID: rec.ChunkID}] = rec
	}

	if err := scanner.Err(); err != nil {
		cs.loadErr = fmt.Errorf("%w: reading chunk store %s: %v", models.ErrProcessing, cs.path, err)
		return
	}

	cs.index = index
}
