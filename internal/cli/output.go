// Package cli provides CLI output utilities for kotae.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kotae-dev/kotae/internal/models"
	"github.com/kotae-dev/kotae/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact is one result per line, for scanning or grepping.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// ParseFormat returns the output format named by s, or an error for an
// unknown name.
func ParseFormat(s string) (SearchOutputFormat, error) {
	switch SearchOutputFormat(s) {
	case OutputText, OutputCompact, OutputJSON:
		return SearchOutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	if response.Total == 0 {
		fmt.Fprintf(w, "No passages found for %q.\n", response.Query)
		return
	}
	fmt.Fprintf(w, "\nFound %d passages in %dms\n\n", response.Total, response.QueryTime)
	for _, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %d | Source: %s\n", result.Rank, result.Score, result.SourceFile)
		if result.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", result.Title)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Text, 400))
	}
}

func writeSearchResultsCompact(w io.Writer, response *models.SearchResponse) {
	for _, result := range response.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			result.Score, result.ChunkID, result.SourceFile, utils.Truncate(result.Text, 120))
	}
}
