package chunker

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// querySpec is a tree-sitter query over a non-TS/JS grammar. It must use
// @chunk for the outer node and @name for the identifier (optional). This
// covers the Non-goal of cross-language chunking beyond the single
// curly-brace/block family the full tsEngine targets: Go and Python get
// top-level declaration capture plus the shared oversize/merge passes,
// not the full container/function/object-literal recursion.
type querySpec struct {
	language *sitter.Language
	query    string
}

type queryEngine struct {
	spec querySpec
}

func newQueryEngine(spec querySpec) *queryEngine {
	return &queryEngine{spec: spec}
}

type capture struct {
	name      string
	kind      string
	startLine int
	endLine   int
	startByte uint32
	endByte   uint32
}

func (e *queryEngine) Chunk(path string, text []byte, opts Options) ([]Chunk, error) {
	lines := splitLines(text)

	parser := sitter.NewParser()
	parser.SetLanguage(e.spec.language)
	tree, err := parser.ParseCtx(context.Background(), nil, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(e.spec.query), e.spec.language)
	if err != nil {
		return nil, fmt.Errorf("compile query for %s: %w", path, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var caps []capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var chunkNode *sitter.Node
		var name string
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "chunk":
				chunkNode = c.Node
			case "name":
				name = c.Node.Content(text)
			}
		}
		if chunkNode == nil {
			continue
		}
		caps = append(caps, capture{
			name:      name,
			kind:      chunkNode.Type(),
			startLine: lineOf(chunkNode.StartPoint()),
			endLine:   lineOf(chunkNode.EndPoint()),
			startByte: chunkNode.StartByte(),
			endByte:   chunkNode.EndByte(),
		})
	}
	caps = dedupCaptures(caps)

	segs := make([]seg, 0, len(caps))
	for _, c := range caps {
		segs = append(segs, seg{start: c.startLine, end: c.endLine, kind: c.kind, symbol: c.name})
	}

	var expanded []seg
	for _, s := range segs {
		expanded = append(expanded, expandOversize(s, lines, opts.MaxChunkTokens, opts.MinChunkTokens)...)
	}
	merged := mergeSmall(expanded, lines, opts.MinChunkTokens)

	return materialize(path, merged, lines), nil
}

// dedupCaptures keeps only the outermost capture when two overlap (e.g. a
// method matched both directly and as part of its enclosing class).
func dedupCaptures(caps []capture) []capture {
	if len(caps) <= 1 {
		return caps
	}
	sort.Slice(caps, func(i, j int) bool {
		if caps[i].startByte != caps[j].startByte {
			return caps[i].startByte < caps[j].startByte
		}
		return (caps[i].endByte - caps[i].startByte) > (caps[j].endByte - caps[j].startByte)
	})

	var out []capture
	var lastEnd uint32
	for _, c := range caps {
		if c.startByte >= lastEnd || lastEnd == 0 {
			out = append(out, c)
			if c.endByte > lastEnd {
				lastEnd = c.endByte
			}
		}
	}
	return out
}
