// Package integration provides end-to-end tests over the full pipeline:
// document folder -> chunker -> index builder -> registry -> search engine.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kotae-dev/kotae/internal/config"
	"github.com/kotae-dev/kotae/internal/indexer"
	"github.com/kotae-dev/kotae/internal/models"
	"github.com/kotae-dev/kotae/internal/registry"
	"github.com/kotae-dev/kotae/internal/search"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestIntegration_TenantSearch(t *testing.T) {
	autolifeDir := t.TempDir()
	writeDoc(t, autolifeDir, "pricing.txt",
		"Autolife Price List\n"+
			"Oil change|$40|synthetic\n"+
			"Brake pads|$80|front only\n"+
			"Tire rotation|$25|all four\n")
	writeDoc(t, autolifeDir, "hours.txt",
		"Opening Hours\n"+
			"\n"+
			"We are open Monday to Friday\nfrom nine until five.\n"+
			"\n"+
			"Saturdays by appointment only.\n")

	dentalDir := t.TempDir()
	writeDoc(t, dentalDir, "services.txt",
		"Dental Services\n"+
			"Cleaning|$90|hygienist\n")

	cfg := &config.Config{
		Tenants: []config.TenantConfig{
			{ID: "autolife", DocumentsPath: autolifeDir},
			{ID: "dental", DocumentsPath: dentalDir},
		},
	}
	config.ApplyDefaults(cfg)

	builder := indexer.NewBuilder(cfg.Search.MaxChunkChars)
	reg := registry.New()
	for _, tenant := range cfg.Tenants {
		index, err := builder.BuildIndex(tenant.ID, tenant.DocumentsPath)
		if err != nil {
			t.Fatalf("build %s: %v", tenant.ID, err)
		}
		reg.Set(index)
	}
	engine := search.NewEngine(&cfg.Ranking)

	t.Run("ranked tabular search", func(t *testing.T) {
		index, _ := reg.Get("autolife")
		resp := engine.Search(index, &models.SearchQuery{Query: "brake pads price"})
		if resp.Total == 0 {
			t.Fatal("expected results")
		}
		if resp.Results[0].Text != "Service: Brake pads. Price: $80. Notes: front only." {
			t.Errorf("top result = %q", resp.Results[0].Text)
		}
		if resp.Results[0].SourceFile != "pricing.txt" {
			t.Errorf("source = %q", resp.Results[0].SourceFile)
		}
	})

	t.Run("narrative search", func(t *testing.T) {
		index, _ := reg.Get("autolife")
		resp := engine.Search(index, &models.SearchQuery{Query: "saturday appointment"})
		if resp.Total == 0 {
			t.Fatal("expected results")
		}
		if resp.Results[0].Title != "Opening Hours" {
			t.Errorf("top result title = %q", resp.Results[0].Title)
		}
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		index, _ := reg.Get("dental")
		resp := engine.Search(index, &models.SearchQuery{Query: "brake pads"})
		if resp.Total != 0 {
			t.Errorf("dental tenant should not see autolife passages, got %d", resp.Total)
		}
	})

	t.Run("chunk ids unique per tenant index", func(t *testing.T) {
		index, _ := reg.Get("autolife")
		seen := make(map[string]bool)
		for _, c := range index.Chunks {
			if seen[c.ChunkID] {
				t.Errorf("duplicate chunk id %s", c.ChunkID)
			}
			seen[c.ChunkID] = true
		}
	})

	t.Run("rebuild reflects document changes", func(t *testing.T) {
		writeDoc(t, autolifeDir, "winter.txt", "Winter Specials\nFree tire check with any winter booking.\n")
		index, err := builder.BuildIndex("autolife", autolifeDir)
		if err != nil {
			t.Fatalf("rebuild: %v", err)
		}
		reg.Set(index)

		current, _ := reg.Get("autolife")
		resp := engine.Search(current, &models.SearchQuery{Query: "winter tire check"})
		if resp.Total == 0 {
			t.Fatal("rebuild should pick up the new document")
		}
		if resp.Results[0].SourceFile != "winter.txt" {
			t.Errorf("top source = %q", resp.Results[0].SourceFile)
		}
	})
}

func TestIntegration_EmptyAndUnmatchedQueries(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "doc.txt", "Title\nSome body text here.\n")

	builder := indexer.NewBuilder(0)
	index, err := builder.BuildIndex("t", dir)
	if err != nil {
		t.Fatal(err)
	}
	engine := search.NewEngine(nil)

	if resp := engine.Search(index, &models.SearchQuery{Query: "  \t "}); resp.Total != 0 {
		t.Errorf("whitespace query: got %d results", resp.Total)
	}
	if resp := engine.Search(index, &models.SearchQuery{Query: "zzz qqq"}); resp.Total != 0 {
		t.Errorf("unmatched query: got %d results", resp.Total)
	}
}
