package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kotae-dev/kotae/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant")
	index, ok := s.registry.Get(tenantID)
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown tenant")
		return
	}

	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if query.TopK <= 0 {
		query.TopK = s.config.Search.DefaultTopK
	}
	if query.TopK > s.config.Search.MaxTopK {
		query.TopK = s.config.Search.MaxTopK
	}

	queryID := uuid.New().String()
	s.logger.Debug("search request",
		zap.String("query_id", queryID),
		zap.String("tenant", tenantID),
		zap.String("query", query.Query),
		zap.Int("top_k", query.TopK),
	)
	response := s.engine.Search(index, &query)
	response.QueryID = queryID
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant")
	dir, ok := s.tenantDirs[tenantID]
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown tenant")
		return
	}
	index, err := s.builder.BuildIndex(tenantID, dir)
	if err != nil {
		s.logger.Error("reindex failed", zap.String("tenant", tenantID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.registry.Set(index)
	s.logger.Info("tenant reindexed",
		zap.String("tenant", tenantID),
		zap.Int("documents", index.DocCount()),
		zap.Int("chunks", index.Len()),
	)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenant_id": tenantID,
		"documents": index.DocCount(),
		"chunks":    index.Len(),
		"status":    "reindexed",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenants": s.registry.Stats(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encoding failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
