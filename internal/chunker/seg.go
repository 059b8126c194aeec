package chunker

import "fmt"

// seg is a candidate chunk before materialization: a 0-based inclusive
// line range plus enough structure to recurse into it if it turns out to
// be oversize. At most one of children/blocks is populated, depending on
// whether the segment came from container/object-literal detection
// (children) or function-block detection (blocks); segments of any other
// kind have neither.
type seg struct {
	start, end int
	kind       string
	symbol     string
	children   []seg // container method-children or object-literal properties
	blocks     []seg // function logical blocks
}

func tokenEstimate(lines []string, start, end int) int {
	chars := 0
	for i := start; i <= end && i < len(lines); i++ {
		chars += len(lines[i]) + 1 // one extra char per line for the newline
	}
	return (chars + 3) / 4
}

// expandOversize recursively splits a segment whose token estimate
// exceeds maxTok, per spec §4.1 step 5. Segments within budget pass
// through unchanged.
func expandOversize(s seg, lines []string, maxTok, minTok int) []seg {
	if tokenEstimate(lines, s.start, s.end) <= maxTok {
		return []seg{s}
	}
	if len(s.children) > 0 {
		return expandContainerLike(s, lines, maxTok, minTok)
	}
	if len(s.blocks) > 0 {
		return expandFunctionBlocks(s, lines, maxTok, minTok)
	}
	return lineSplitFallback(s, lines, maxTok)
}

func expandContainerLike(s seg, lines []string, maxTok, minTok int) []seg {
	children := s.children
	var out []seg

	headerEnd := children[0].start - 1
	var header *seg
	if headerEnd >= s.start {
		h := seg{start: s.start, end: headerEnd, kind: s.kind, symbol: s.symbol}
		if tokenEstimate(lines, h.start, h.end) >= minTok {
			header = &h
		}
	}

	var expandedChildren []seg
	prevEnd := s.start - 1
	for _, c := range children {
		start := c.start
		if start <= prevEnd {
			start = prevEnd + 1
		}
		child := seg{start: start, end: c.end, kind: c.kind, symbol: qualify(s.symbol, c.symbol), blocks: c.blocks, children: c.children}
		expandedChildren = append(expandedChildren, expandOversize(child, lines, maxTok, minTok)...)
		prevEnd = c.end
	}

	if header != nil {
		out = append(out, *header)
		out = append(out, expandedChildren...)
	} else if len(expandedChildren) > 0 {
		// Absorb the header into the first child.
		expandedChildren[0].start = s.start
		out = append(out, expandedChildren...)
	} else {
		out = append(out, s)
		return out
	}

	footerStart := prevEnd + 1
	if footerStart <= s.end {
		footer := seg{start: footerStart, end: s.end, kind: s.kind, symbol: s.symbol}
		if tokenEstimate(lines, footer.start, footer.end) >= minTok {
			out = append(out, footer)
		} else if len(out) > 0 {
			out[len(out)-1].end = s.end
		} else {
			out = append(out, footer)
		}
	}
	return out
}

func expandFunctionBlocks(s seg, lines []string, maxTok, minTok int) []seg {
	blocks := s.blocks
	if len(blocks) == 0 {
		return lineSplitFallback(s, lines, maxTok)
	}

	var out []seg
	if blocks[0].start > s.start {
		out = append(out, seg{start: s.start, end: blocks[0].start - 1, kind: s.kind, symbol: s.symbol})
	}

	flush := func(start, end int) {
		g := seg{start: start, end: end, kind: s.kind, symbol: s.symbol}
		out = append(out, expandOversize(g, lines, maxTok, minTok)...)
	}

	groupStart := blocks[0].start
	groupEnd := blocks[0].end
	for i := 1; i < len(blocks); i++ {
		b := blocks[i]
		if tokenEstimate(lines, groupStart, b.end) > maxTok {
			flush(groupStart, groupEnd)
			groupStart = groupEnd + 1
		}
		groupEnd = b.end
	}
	flush(groupStart, s.end)

	_ = minTok
	return out
}

// lineSplitFallback is the last-resort splitter: accumulate line
// character counts until adding another line would exceed maxTok*4
// characters, then start a new part.
func lineSplitFallback(s seg, lines []string, maxTok int) []seg {
	maxChars := maxTok * 4
	var out []seg
	start := s.start
	chars := 0
	part := 0

	flush := func(end int) {
		out = append(out, seg{
			start:  start,
			end:    end,
			kind:   s.kind + "_part",
			symbol: partSymbol(s.symbol, part),
		})
		part++
	}

	for i := s.start; i <= s.end; i++ {
		lineChars := len(lines[i]) + 1
		if chars > 0 && chars+lineChars > maxChars {
			flush(i - 1)
			start = i
			chars = 0
		}
		chars += lineChars
	}
	flush(s.end)
	return out
}

func partSymbol(symbol string, idx int) string {
	if symbol == "" {
		return fmt.Sprintf("part_%d", idx)
	}
	return fmt.Sprintf("%s#%d", symbol, idx)
}

func qualify(parent, child string) string {
	switch {
	case parent == "" && child == "":
		return ""
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}

// mergeSmall walks segments left to right, extending a segment into its
// neighbor whenever either is below minTok. Per spec §9's open question,
// ties in "more descriptive" adopt the left (current) segment's label.
func mergeSmall(segs []seg, lines []string, minTok int) []seg {
	if len(segs) == 0 {
		return segs
	}
	out := make([]seg, 0, len(segs))
	cur := segs[0]
	curTok := tokenEstimate(lines, cur.start, cur.end)

	for i := 1; i < len(segs); i++ {
		next := segs[i]
		nextTok := tokenEstimate(lines, next.start, next.end)

		if curTok < minTok || nextTok < minTok {
			if curTok < nextTok {
				cur.kind = next.kind
				cur.symbol = next.symbol
			}
			cur.end = next.end
			curTok = tokenEstimate(lines, cur.start, cur.end)
			continue
		}
		out = append(out, cur)
		cur = next
		curTok = nextTok
	}
	out = append(out, cur)
	return out
}
