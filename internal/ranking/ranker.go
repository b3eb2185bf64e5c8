package ranking

import (
	"strings"

	"github.com/kotae-dev/kotae/internal/models"
	"github.com/kotae-dev/kotae/internal/textnorm"
)

// AnalyzedQuery is the parsed form of a query string, computed once per
// query and reused against every chunk.
type AnalyzedQuery struct {
	// Original is the raw query string.
	Original string
	// Norm is the normalized query, matched as a substring of chunk text.
	Norm string
	// Tokens are the distinct normalized query tokens.
	Tokens map[string]struct{}
}

// Empty reports whether the query normalized to zero tokens.
func (q *AnalyzedQuery) Empty() bool {
	return len(q.Tokens) == 0
}

// Ranker computes integer relevance scores for chunks.
type Ranker struct {
	config *Config
}

// NewRanker creates a ranker. A nil config uses the default weights.
func NewRanker(config *Config) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()
	return &Ranker{config: config}
}

// Analyze normalizes and tokenizes a query string.
func (r *Ranker) Analyze(query string) *AnalyzedQuery {
	return &AnalyzedQuery{
		Original: query,
		Norm:     textnorm.Normalize(query),
		Tokens:   textnorm.TokenSet(query),
	}
}

// Score computes the score of one chunk for the analyzed query:
// token overlap with the chunk text, a smaller boost for title token
// overlap, and a fixed boost when the normalized query occurs verbatim
// in the normalized chunk text. Each matching query token counts once
// regardless of how often it appears.
func (r *Ranker) Score(q *AnalyzedQuery, c *models.Chunk) int {
	if q.Empty() {
		return 0
	}

	chunkTokens := make(map[string]struct{}, len(c.Tokens))
	for _, tok := range c.Tokens {
		chunkTokens[tok] = struct{}{}
	}
	titleTokens := textnorm.TokenSet(c.Title)

	score := 0
	for tok := range q.Tokens {
		if _, ok := chunkTokens[tok]; ok {
			score += r.config.OverlapWeight
		}
		if _, ok := titleTokens[tok]; ok {
			score += r.config.TitleWeight
		}
	}
	if strings.Contains(textnorm.Normalize(c.Text), q.Norm) {
		score += r.config.SubstringBoost
	}
	return score
}
