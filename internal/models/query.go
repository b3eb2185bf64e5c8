package models

// Limits applied by SearchQuery.Validate when TopK is unset or too large.
const (
	DefaultTopK = 3
	MaxTopK     = 50
)

// SearchQuery represents a search request against one tenant's index.
type SearchQuery struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// Validate normalizes the query fields. An empty query is allowed: searching
// with a query that yields no tokens returns an empty result set rather than
// an error, so the "not found" decision stays with the caller.
func (q *SearchQuery) Validate() {
	if q.TopK <= 0 {
		q.TopK = DefaultTopK
	}
	if q.TopK > MaxTopK {
		q.TopK = MaxTopK
	}
}
