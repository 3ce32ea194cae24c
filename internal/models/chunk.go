// ABOUTME: Chunk store record and chunking configuration types
// ABOUTME: ChunkRecord is the durable join key between a vector match and its text
package models

// DefaultChunkWords and DefaultOverlapWords are the ingestion defaults.
const (
	DefaultChunkWords   = 400
	DefaultOverlapWords = 80
)

// ChunkConfig controls the word-window chunker. OverlapWords must be
// strictly less than ChunkWords so every window advances.
type ChunkConfig struct {
	ChunkWords   int `json:"chunk_words"`
	OverlapWords int `json:"overlap_words"`
}

// DefaultChunkConfig returns the standard 400-word window with 80-word overlap.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{ChunkWords: DefaultChunkWords, OverlapWords: DefaultOverlapWords}
}

// ChunkRecord is one line of the chunk store: the persisted mapping from
// (doc_id, chunk_id) back to the original chunk text.
type ChunkRecord struct {
	VectorID string `json:"vector_id"`
	DocID    string `json:"doc_id"`
	ChunkID  int    `json:"chunk_id"`
	Source   string `json:"source"`
	Version  int    `json:"version"`
	Text     string `json:"text"`
}

// ChunkKey identifies a chunk within its document.
type ChunkKey struct {
	DocID   string
	ChunkID int
}
