// Package models defines core data structures for chunks, indexes, queries, and search results.
package models

// Chunk is one retrievable passage derived from a tenant document.
type Chunk struct {
	// TenantID is the owning tenant (opaque string).
	TenantID string `json:"tenant_id"`
	// DocID identifies the source document: "<tenant>:<base filename>".
	// Identical for all chunks of one document.
	DocID string `json:"doc_id"`
	// ChunkID is unique within a tenant's index: "<docHash>#<idx>".
	ChunkID string `json:"chunk_id"`
	// SourceFile is the base filename (no directory), used for citation.
	SourceFile string `json:"source_file"`
	// Title is the first non-blank line of the document, or the filename
	// when the document has no non-blank line.
	Title string `json:"title"`
	// Text is the trimmed, human-readable passage content. Never empty.
	Text string `json:"text"`
	// Tokens are the normalized tokens of Text, used only for scoring.
	Tokens []string `json:"-"`
}

// KnowledgeIndex is the in-memory collection of all chunks for one tenant.
// It is built once from disk and treated as immutable afterwards; concurrent
// reads are safe, replacing a tenant's index is the caller's concern.
type KnowledgeIndex struct {
	TenantID string   `json:"tenant_id"`
	Chunks   []*Chunk `json:"chunks"`
}

// Len returns the number of chunks in the index.
func (k *KnowledgeIndex) Len() int {
	return len(k.Chunks)
}

// DocCount returns the number of distinct documents in the index.
func (k *KnowledgeIndex) DocCount() int {
	seen := make(map[string]struct{})
	for _, c := range k.Chunks {
		seen[c.DocID] = struct{}{}
	}
	return len(seen)
}
