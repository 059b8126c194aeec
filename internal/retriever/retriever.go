// Package retriever implements spec §4.6: embed a query with the same
// provider the index was built with, ask the vector store for the
// top-k nearest records, then re-read the live source text on disk for
// each hit's line range. The vector store is never asked to hold code
// text, so search results always reflect the current on-disk content
// even when the index is slightly stale.
package retriever

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codelens/internal/embedding"
	"codelens/internal/vectorstore"
)

// Result is one ranked search hit with its live source text attached.
type Result struct {
	Path       string
	StartLine  int
	EndLine    int
	Score      float64
	NodeType   string
	SymbolName string
	Text       string
}

// Retriever composes an embedding provider and a vector store.
type Retriever struct {
	rootDir  string
	provider embedding.Provider
	store    vectorstore.Store
}

// New builds a Retriever that re-reads source files relative to rootDir.
func New(rootDir string, provider embedding.Provider, store vectorstore.Store) *Retriever {
	return &Retriever{rootDir: rootDir, provider: provider, store: store}
}

// Search embeds query, fetches the top-k hits, and fills in each hit's
// current source text.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]Result, error) {
	vec, err := r.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.store.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search vector store: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			Path:       h.Payload.Path,
			StartLine:  h.Payload.StartLine,
			EndLine:    h.Payload.EndLine,
			Score:      h.Score,
			NodeType:   h.Payload.NodeType,
			SymbolName: h.Payload.SymbolName,
			Text:       r.readLines(h.Payload.Path, h.Payload.StartLine, h.Payload.EndLine),
		}
	}
	return results, nil
}

// readLines slices lines start..end (1-based inclusive, clamped to the
// file's length) from the live file at path, relative to the
// Retriever's root. A missing file yields a synthetic placeholder
// rather than an error.
func (r *Retriever) readLines(path string, start, end int) string {
	data, err := os.ReadFile(filepath.Join(r.rootDir, path))
	if err != nil {
		return fmt.Sprintf("[file not found: %s]", path)
	}

	text := string(data)
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}
