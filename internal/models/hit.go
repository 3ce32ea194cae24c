// ABOUTME: Hit is a single retrieval result joining vector score and chunk text
// ABOUTME: Constructed per query, never persisted
package models

// Hit joins a vector match's score and metadata to its resolved text
// preview. TextPreview is empty when the chunk store has no record for
// the match; the hit is still returned with metadata alone.
type Hit struct {
	Score       float64 `json:"score"`
	DocID       string  `json:"doc_id"`
	ChunkID     int     `json:"chunk_id"`
	Source      string  `json:"source"`
	Version     int     `json:"version"`
	Namespace   string  `json:"namespace"`
	TextPreview string  `json:"text_preview,omitempty"`
}
