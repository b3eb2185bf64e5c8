package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kotae-dev/kotae/internal/config"
	"github.com/kotae-dev/kotae/internal/indexer"
	"github.com/kotae-dev/kotae/internal/models"
	"github.com/kotae-dev/kotae/internal/registry"
	"github.com/kotae-dev/kotae/internal/search"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	content := "Autolife Price List\n" +
		"Oil change|$40|synthetic\n" +
		"Brake pads|$80|front only\n"
	if err := os.WriteFile(filepath.Join(dir, "pricing.txt"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Tenants: []config.TenantConfig{{ID: "autolife", DocumentsPath: dir}},
	}
	config.ApplyDefaults(cfg)

	builder := indexer.NewBuilder(cfg.Search.MaxChunkChars)
	index, err := builder.BuildIndex("autolife", dir)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	reg := registry.New()
	reg.Set(index)

	engine := search.NewEngine(&cfg.Ranking)
	return NewServer(engine, reg, builder, cfg, zap.NewNop()), dir
}

func postJSON(t *testing.T, handler http.Handler, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := postJSON(t, router, "/api/v1/tenants/autolife/search", models.SearchQuery{Query: "brake pads price"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if resp.Results[0].Text != "Service: Brake pads. Price: $80. Notes: front only." {
		t.Errorf("top result = %q", resp.Results[0].Text)
	}
	if resp.Results[0].SourceFile != "pricing.txt" {
		t.Errorf("source file = %q", resp.Results[0].SourceFile)
	}
	if resp.QueryID == "" {
		t.Error("expected query_id to be set")
	}
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := postJSON(t, srv.Router(), "/api/v1/tenants/autolife/search", models.SearchQuery{Query: "   "})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 {
		t.Errorf("empty query should return no results, got %d", resp.Total)
	}
}

func TestHandleSearch_UnknownTenant(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := postJSON(t, srv.Router(), "/api/v1/tenants/nope/search", models.SearchQuery{Query: "brake"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSearch_BadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/autolife/search", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearch_TopKClamped(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := postJSON(t, srv.Router(), "/api/v1/tenants/autolife/search",
		models.SearchQuery{Query: "price", TopK: 100000})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total > srv.config.Search.MaxTopK {
		t.Errorf("results exceed max top_k: %d", resp.Total)
	}
}

func TestHandleReindex(t *testing.T) {
	srv, dir := newTestServer(t)
	router := srv.Router()

	// A new document appears; reindex must pick it up.
	if err := os.WriteFile(filepath.Join(dir, "hours.txt"), []byte("Hours\nOpen weekdays.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rec := postJSON(t, router, "/api/v1/tenants/autolife/reindex", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, router, "/api/v1/tenants/autolife/search", models.SearchQuery{Query: "open weekdays"})
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total == 0 {
		t.Error("search after reindex should find the new document")
	}
}

func TestHandleReindex_UnknownTenant(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := postJSON(t, srv.Router(), "/api/v1/tenants/nope/reindex", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Tenants []registry.TenantStats `json:"tenants"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tenants) != 1 || resp.Tenants[0].TenantID != "autolife" {
		t.Errorf("tenants = %+v", resp.Tenants)
	}
	if resp.Tenants[0].Chunks != 2 || resp.Tenants[0].Documents != 1 {
		t.Errorf("stats = %+v", resp.Tenants[0])
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
