// ABOUTME: Document represents one ingested source file with extracted text
// ABOUTME: Doc IDs are content hashes so identical text dedupes across filenames
package models

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Document is a single ingested source with its full extracted text.
// Documents are immutable once created by the ingestion scan.
type Document struct {
	DocID      string    `json:"doc_id"`
	Source     string    `json:"source"`
	Text       string    `json:"text"`
	Version    int       `json:"version"`
	IngestedAt time.Time `json:"ingested_at"`
}

// NewDocID derives a deterministic document ID from extracted text.
// Identical content always yields the same ID, even across filenames.
func NewDocID(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
