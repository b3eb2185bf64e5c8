package models

// SearchResult is a read-only projection of a matched chunk plus its score.
// Results are created per query and discarded by the caller after use.
type SearchResult struct {
	ChunkID    string `json:"chunk_id"`
	Title      string `json:"title"`
	SourceFile string `json:"source_file"`
	Text       string `json:"text"`
	Score      int    `json:"score"`
	Rank       int    `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query    string          `json:"query"`
	TenantID string          `json:"tenant_id"`
	Results  []*SearchResult `json:"results"`
	Total    int             `json:"total"`
	// QueryTime is the time spent scoring and ranking, in milliseconds.
	QueryTime int64 `json:"query_time_ms"`
	// QueryID correlates a response with its server logs; empty for direct calls.
	QueryID string `json:"query_id,omitempty"`
}
