// Package indexer builds per-tenant knowledge indexes from document folders.
package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kotae-dev/kotae/internal/chunker"
	"github.com/kotae-dev/kotae/internal/models"
)

// Builder scans a tenant's document folder and assembles a KnowledgeIndex.
// Building is a one-shot startup operation: any read failure aborts the whole
// build rather than producing a partial index.
type Builder struct {
	chunker *chunker.Chunker
	logger  *zap.Logger // optional; when set, logs per-file debug events
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for debug output (files scanned, chunk counts).
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder whose chunker enforces maxChunkChars.
func NewBuilder(maxChunkChars int, opts ...BuilderOption) *Builder {
	b := &Builder{chunker: chunker.NewChunker(maxChunkChars)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildIndex lists the ".txt" files directly inside folderPath (non-recursive,
// case-insensitive extension match), chunks each one, and returns the
// assembled index. Filenames are sorted before processing so chunk order is
// deterministic. Returns an error if the directory or any file cannot be read.
func (b *Builder) BuildIndex(tenantID, folderPath string) (*models.KnowledgeIndex, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("read documents directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	index := &models.KnowledgeIndex{TenantID: tenantID}
	for _, name := range names {
		path := filepath.Join(folderPath, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", name, err)
		}
		chunks := b.chunker.Chunk(tenantID, path, string(content))
		index.Chunks = append(index.Chunks, chunks...)
		if b.logger != nil {
			b.logger.Debug("document chunked",
				zap.String("tenant", tenantID),
				zap.String("file", name),
				zap.Int("chunks", len(chunks)),
			)
		}
	}
	if b.logger != nil {
		b.logger.Debug("index built",
			zap.String("tenant", tenantID),
			zap.Int("documents", len(names)),
			zap.Int("chunks", index.Len()),
		)
	}
	return index, nil
}
