// ABOUTME: Result types for ingestion runs and RAG answers
// ABOUTME: Explicit structs instead of ad-hoc maps crossing package boundaries
package models

// IngestResult summarizes a completed ingestion run.
type IngestResult struct {
	VectorsUpserted int    `json:"vectors_upserted"`
	ChunksSkipped   int    `json:"chunks_skipped"`
	Documents       int    `json:"documents"`
	Namespace       string `json:"namespace"`
}

// Answer is the result of a RAG generation call. Hits are returned even
// when they were skipped during context packing, for transparency.
type Answer struct {
	Answer           string `json:"answer"`
	Hits             []Hit  `json:"hits"`
	UsedContextChars int    `json:"used_context_chars"`
	Model            string `json:"model"`
}
