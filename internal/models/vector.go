// ABOUTME: Vector record, match, and metadata-filter types for the vector index
// ABOUTME: Shared between the ingestion pipeline, retrieval engine, and index client
package models

// VectorMetadata travels with every vector so matches can be joined back
// to chunk-store records without extra lookups in the index.
type VectorMetadata struct {
	DocID   string `json:"doc_id"`
	ChunkID int    `json:"chunk_id"`
	Source  string `json:"source"`
	Version int    `json:"version"`
}

// Vector is one record upserted into the index.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// Match is one nearest-neighbor result, ordered by the index
// (similarity-descending).
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata VectorMetadata `json:"metadata"`
}

// MetadataFilter is an equality filter over vector metadata. Zero-value
// fields impose no constraint; set fields are ANDed together. Version
// uses a pointer so version 0 remains filterable.
type MetadataFilter struct {
	DocID   string
	Source  string
	Version *int
}

// Empty reports whether no constraint is set.
func (f MetadataFilter) Empty() bool {
	return f.DocID == "" && f.Source == "" && f.Version == nil
}
