// Package search ranks chunks against free-text queries.
package search

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kotae-dev/kotae/internal/models"
	"github.com/kotae-dev/kotae/internal/ranking"
)

// Engine scores every chunk of an index against a query and returns the
// top-K results. It never mutates the index, so one index may serve
// concurrent searches without locking.
type Engine struct {
	ranker *ranking.Ranker
	logger *zap.Logger // optional; when set, logs query debug events
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for query debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. A nil ranking config uses the default weights.
func NewEngine(cfg *ranking.Config, opts ...EngineOption) *Engine {
	e := &Engine{ranker: ranking.NewRanker(cfg)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type scoredChunk struct {
	chunk *models.Chunk
	score int
}

// Search scores every chunk in index against query.Query and returns up to
// query.TopK results ordered by descending score. Ties keep index order.
// A query that normalizes to zero tokens yields an empty result set.
func (e *Engine) Search(index *models.KnowledgeIndex, query *models.SearchQuery) *models.SearchResponse {
	query.Validate()
	start := time.Now()
	response := &models.SearchResponse{
		Query:    query.Query,
		TenantID: index.TenantID,
		Results:  []*models.SearchResult{},
	}

	analyzed := e.ranker.Analyze(query.Query)
	if analyzed.Empty() {
		response.QueryTime = time.Since(start).Milliseconds()
		return response
	}

	scored := make([]scoredChunk, 0, len(index.Chunks))
	for _, c := range index.Chunks {
		if s := e.ranker.Score(analyzed, c); s > 0 {
			scored = append(scored, scoredChunk{chunk: c, score: s})
		}
	}
	// Stable sort: chunks with equal scores keep their index order, the only
	// deterministic tie-break available.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > query.TopK {
		scored = scored[:query.TopK]
	}
	for i, sc := range scored {
		response.Results = append(response.Results, &models.SearchResult{
			ChunkID:    sc.chunk.ChunkID,
			Title:      sc.chunk.Title,
			SourceFile: sc.chunk.SourceFile,
			Text:       sc.chunk.Text,
			Score:      sc.score,
			Rank:       i + 1,
		})
	}
	response.Total = len(response.Results)
	response.QueryTime = time.Since(start).Milliseconds()

	if e.logger != nil {
		e.logger.Debug("search completed",
			zap.String("tenant", index.TenantID),
			zap.String("query", query.Query),
			zap.Int("results", response.Total),
			zap.Int64("query_time_ms", response.QueryTime),
		)
	}
	return response
}
