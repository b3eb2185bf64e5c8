// Package chunker converts one raw document into an ordered list of
// self-contained passages. A document is classified once as tabular or
// narrative; tabular rows become synthesized sentences, narrative text splits
// on paragraph boundaries. Malformed input degrades to fewer or shorter
// passages, never an error.
package chunker

import (
	"path/filepath"
	"strings"

	"github.com/kotae-dev/kotae/internal/docid"
	"github.com/kotae-dev/kotae/internal/models"
	"github.com/kotae-dev/kotae/internal/textnorm"
)

// DefaultMaxChunkChars is the passage length limit used when none is configured.
const DefaultMaxChunkChars = 1800

// Chunker splits documents into passages no longer than maxChunkChars.
type Chunker struct {
	maxChunkChars int
}

// NewChunker creates a chunker with the given passage length limit.
// Non-positive values fall back to DefaultMaxChunkChars.
func NewChunker(maxChunkChars int) *Chunker {
	if maxChunkChars <= 0 {
		maxChunkChars = DefaultMaxChunkChars
	}
	return &Chunker{maxChunkChars: maxChunkChars}
}

// Chunk converts the raw content of one document into chunks. sourcePath may
// be a full path; chunks carry only its base name. The returned slice is nil
// when the document contains no usable text.
func (c *Chunker) Chunk(tenantID, sourcePath, content string) []*models.Chunk {
	sourceFile := filepath.Base(sourcePath)
	title, body := splitTitle(content, sourceFile)

	var passages []string
	if isTabular(body) {
		passages = tabularPassages(body)
	} else {
		passages = narrativePassages(body)
	}

	var bounded []string
	for _, p := range passages {
		bounded = append(bounded, c.enforceLimit(p)...)
	}

	docHash := docid.DocHash(tenantID, sourceFile, title)
	docID := docid.DocID(tenantID, sourceFile)

	// The sequence number follows emission order; passages that turn out
	// empty are dropped afterwards, so their numbers stay reserved.
	chunks := make([]*models.Chunk, 0, len(bounded))
	for idx, p := range bounded {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		chunks = append(chunks, &models.Chunk{
			TenantID:   tenantID,
			DocID:      docID,
			ChunkID:    docid.ChunkID(docHash, idx),
			SourceFile: sourceFile,
			Title:      title,
			Text:       text,
			Tokens:     textnorm.Tokenize(text),
		})
	}
	if len(chunks) == 0 {
		return nil
	}
	return chunks
}

// splitTitle returns the document title (first non-blank line, or the base
// filename when every line is blank) and the body lines after the title line.
func splitTitle(content, sourceFile string) (string, []string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, lines[i+1:]
		}
	}
	return sourceFile, nil
}

// isTabular reports whether the document body should be treated as a table.
// The decision is document-level: one pipe anywhere makes the whole body tabular.
func isTabular(body []string) bool {
	for _, line := range body {
		if strings.Contains(line, "|") {
			return true
		}
	}
	return false
}

// narrativePassages splits the body on blank-line boundaries into paragraphs,
// collapsing hard-wrapped lines within a paragraph to a single line.
func narrativePassages(body []string) []string {
	var passages []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(current, " "))
		if p != "" {
			passages = append(passages, p)
		}
		current = current[:0]
	}
	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, trimmed)
	}
	flush()
	return passages
}

// enforceLimit re-splits a passage longer than maxChunkChars at sentence
// boundaries, greedily packing sentences up to the limit. A single sentence
// that alone exceeds the limit is emitted unsplit rather than truncated.
func (c *Chunker) enforceLimit(passage string) []string {
	if len(passage) <= c.maxChunkChars {
		return []string{passage}
	}
	sentences := splitSentences(passage)
	var out []string
	var buf string
	for _, s := range sentences {
		switch {
		case buf == "":
			buf = s
		case len(buf)+1+len(s) <= c.maxChunkChars:
			buf += " " + s
		default:
			out = append(out, buf)
			buf = s
		}
	}
	if buf != "" {
		out = append(out, buf)
	}
	return out
}

// splitSentences splits text on '.', '!', or '?' followed by whitespace.
// A best-effort heuristic: abbreviations and decimal numbers may mis-split.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		ch := text[i]
		if (ch == '.' || ch == '!' || ch == '?') && isSpaceByte(text[i+1]) {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
