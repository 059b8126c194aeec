// Package chunker turns one source file into a sequence of semantic
// chunks: contiguous line ranges labeled with a node kind and an optional
// symbol name, sized for retrieval. See seg.go for the shared
// segment/expansion machinery and tsengine.go / simple.go for the two
// concrete extraction strategies.
package chunker

import (
	"strings"

	"codelens/internal/hashutil"
)

// Chunk is one unit of indexing: a contiguous, 1-based inclusive line
// range of a file, its text, and a semantic label.
type Chunk struct {
	ID        string // content hash of Text; also the chunk id
	Path      string
	StartLine int
	EndLine   int
	Text      string
	NodeKind  string
	Symbol    string
}

// Options configures the chunking budget. Defaults match spec §6.
type Options struct {
	MaxChunkTokens int
	MinChunkTokens int
}

// DefaultOptions returns the spec's default token bounds.
func DefaultOptions() Options {
	return Options{MaxChunkTokens: 512, MinChunkTokens: 30}
}

// Chunker extracts chunks from one file's source text. Implementations
// must be pure: the same (path, text) always yields the same chunks,
// including chunk ids.
type Chunker interface {
	Chunk(path string, text []byte, opts Options) ([]Chunk, error)
}

// HashText exposes the content hash used for chunk ids, so callers (and
// tests) can verify the content-addressing invariant without reaching
// into the hashutil package directly.
func HashText(text string) string {
	return hashutil.SHA256Text([]byte(text))
}

// splitLines splits source text into lines without normalizing line
// endings — a CRLF/LF flip is a content change by design, and is
// preserved verbatim in each line's text.
func splitLines(text []byte) []string {
	return strings.Split(string(text), "\n")
}

func materialize(path string, segs []seg, lines []string) []Chunk {
	chunks := make([]Chunk, 0, len(segs))
	for _, s := range segs {
		if s.start > s.end || s.start < 0 || s.end >= len(lines) {
			continue
		}
		text := strings.Join(lines[s.start:s.end+1], "\n")
		hash := hashutil.SHA256Text([]byte(text))
		chunks = append(chunks, Chunk{
			ID:        hash,
			Path:      path,
			StartLine: s.start + 1,
			EndLine:   s.end + 1,
			Text:      text,
			NodeKind:  s.kind,
			Symbol:    s.symbol,
		})
	}
	return chunks
}
