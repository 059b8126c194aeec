package chunker

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// kindSet is a membership set of tree-sitter node type names.
type kindSet map[string]bool

func kinds(names ...string) kindSet {
	s := make(kindSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// blockGrammar describes the curly-brace/block-family language's grammar
// enough to drive the full §4.1 chunking algorithm: comment kind,
// top-level semantic kinds, container kinds and their member kinds,
// function-like kinds, function-body logical-block kinds, and the
// object-literal kind.
type blockGrammar struct {
	language *sitter.Language

	comment kindSet

	topLevelSemantic kindSet
	container        kindSet
	containerMembers kindSet
	functionLike     kindSet
	logicalBlocks    kindSet
	objectLiteral    string
	objectMembers    kindSet
}

// tsEngine implements the full recursive semantic chunker of §4.1 over
// any curly-brace/block-family grammar described by a blockGrammar. The
// richest instance (TypeScript) exercises every step; JavaScript reuses
// it with a narrower grammar.
type tsEngine struct {
	grammar blockGrammar
}

func newTSEngine(g blockGrammar) *tsEngine {
	return &tsEngine{grammar: g}
}

func (e *tsEngine) Chunk(path string, text []byte, opts Options) ([]Chunk, error) {
	lines := splitLines(text)

	parser := sitter.NewParser()
	parser.SetLanguage(e.grammar.language)
	tree, err := parser.ParseCtx(context.Background(), nil, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	top := e.topLevelSegments(tree.RootNode(), text)

	var expanded []seg
	for _, s := range top {
		expanded = append(expanded, expandOversize(s, lines, opts.MaxChunkTokens, opts.MinChunkTokens)...)
	}
	merged := mergeSmall(expanded, lines, opts.MinChunkTokens)

	return materialize(path, merged, lines), nil
}

// topLevelSegments implements §4.1 step 1: walk the root's immediate
// children in source order, attaching consecutive leading comments
// forward onto the next recognized semantic node and dropping orphans.
func (e *tsEngine) topLevelSegments(root *sitter.Node, src []byte) []seg {
	var segs []seg
	pendingStart := -1

	for _, child := range namedChildren(root) {
		kind := child.Type()
		if e.grammar.comment[kind] {
			if pendingStart < 0 {
				pendingStart = lineOf(child.StartPoint())
			}
			continue
		}
		if child.IsError() || !e.grammar.topLevelSemantic[kind] {
			pendingStart = -1
			continue
		}

		start := lineOf(child.StartPoint())
		if pendingStart >= 0 {
			start = pendingStart
		}
		end := lineOf(child.EndPoint())

		segs = append(segs, e.classify(child, src, start, end))
		pendingStart = -1
	}
	return segs
}

// classify implements §4.1 steps 2–4: decide whether the (possibly
// wrapped) top-level node is a container, a function, or an object
// literal, and record its children/blocks accordingly.
func (e *tsEngine) classify(node *sitter.Node, src []byte, start, end int) seg {
	uw := unwrapDeclaration(node, src)
	kind := uw.node.Type()
	symbol := uw.symbol
	if symbol == "" {
		symbol = fieldName(uw.node, src, "name")
	}

	s := seg{start: start, end: end, kind: kind, symbol: symbol}

	switch {
	case e.grammar.container[kind]:
		s.children = e.containerChildren(uw.node, src)
	case e.grammar.functionLike[kind]:
		s.blocks = e.functionBlocks(uw.node, src, 0)
	case kind == e.grammar.objectLiteral:
		s.children = e.objectChildren(uw.node, src)
	}
	return s
}

func (e *tsEngine) containerChildren(container *sitter.Node, src []byte) []seg {
	body := container.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []seg
	pendingStart := -1
	for _, child := range namedChildren(body) {
		kind := child.Type()
		if e.grammar.comment[kind] {
			if pendingStart < 0 {
				pendingStart = lineOf(child.StartPoint())
			}
			continue
		}
		if !e.grammar.containerMembers[kind] {
			pendingStart = -1
			continue
		}
		start := lineOf(child.StartPoint())
		if pendingStart >= 0 {
			start = pendingStart
		}
		end := lineOf(child.EndPoint())

		symbol := fieldName(child, src, "name")
		m := seg{start: start, end: end, kind: kind, symbol: symbol}
		if e.grammar.functionLike[kind] {
			m.blocks = e.functionBlocks(child, src, 0)
		}
		out = append(out, m)
		pendingStart = -1
	}
	return out
}

func (e *tsEngine) objectChildren(obj *sitter.Node, src []byte) []seg {
	var out []seg
	pendingStart := -1
	for _, child := range namedChildren(obj) {
		kind := child.Type()
		if e.grammar.comment[kind] {
			if pendingStart < 0 {
				pendingStart = lineOf(child.StartPoint())
			}
			continue
		}
		if !e.grammar.objectMembers[kind] {
			pendingStart = -1
			continue
		}
		start := lineOf(child.StartPoint())
		if pendingStart >= 0 {
			start = pendingStart
		}
		end := lineOf(child.EndPoint())

		symbol := fieldName(child, src, "key")
		if symbol == "" {
			symbol = child.Content(src)
		}
		out = append(out, seg{start: start, end: end, kind: kind, symbol: symbol})
		pendingStart = -1
	}
	return out
}

// functionBlocks implements §4.1 step 3, including the factory-pattern
// recursion (a body that is a single return of a nested function) and
// the bounded one-extra-level expansion of large (>15 line) blocks.
func (e *tsEngine) functionBlocks(fn *sitter.Node, src []byte, depth int) []seg {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if stmts := namedChildren(body); len(stmts) == 1 && stmts[0].Type() == "return_statement" {
		if arg := stmts[0].ChildByFieldName("argument"); arg != nil {
			inner := unwrapDeclaration(arg, src)
			if e.grammar.functionLike[inner.node.Type()] {
				return e.functionBlocks(inner.node, src, depth)
			}
		}
	}
	return e.collectStatementBlocks(body, src, depth)
}

func (e *tsEngine) collectStatementBlocks(body *sitter.Node, src []byte, depth int) []seg {
	var out []seg
	pendingStart := -1
	for _, child := range namedChildren(body) {
		kind := child.Type()
		if e.grammar.comment[kind] {
			if pendingStart < 0 {
				pendingStart = lineOf(child.StartPoint())
			}
			continue
		}
		if !e.grammar.logicalBlocks[kind] {
			pendingStart = -1
			continue
		}
		start := lineOf(child.StartPoint())
		if pendingStart >= 0 {
			start = pendingStart
		}
		end := lineOf(child.EndPoint())

		s := seg{start: start, end: end, kind: kind}
		if depth < 1 && (end-start+1) > 15 {
			s.blocks = e.expandLargeBlock(child, src, depth+1)
		}
		out = append(out, s)
		pendingStart = -1
	}
	return out
}

// expandLargeBlock gathers the logical-block statements that are direct
// named children of a large block's statement_block, else_clause,
// catch_clause and finally_clause children. For an else/catch/finally
// clause that is only a statement placed directly in the clause (such as
// an `else if`); statements inside the clause's own braces are not
// collected. The result is stored on the block's seg; expandFunctionBlocks
// groups top-level blocks only and does not split on these nested
// statements.
func (e *tsEngine) expandLargeBlock(block *sitter.Node, src []byte, depth int) []seg {
	var out []seg
	for _, child := range namedChildren(block) {
		switch child.Type() {
		case "statement_block", "else_clause", "catch_clause", "finally_clause":
			out = append(out, e.collectStatementBlocks(child, src, depth)...)
		}
	}
	return out
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func lineOf(p sitter.Point) int {
	return int(p.Row)
}

func fieldName(n *sitter.Node, src []byte, field string) string {
	if f := n.ChildByFieldName(field); f != nil {
		return f.Content(src)
	}
	return ""
}

type unwrapResult struct {
	node   *sitter.Node
	symbol string
}

// unwrapDeclaration follows export/declarator/satisfies/as wrappers down
// to the underlying declaration or expression, per §4.1 steps 2–4,
// recording the declarator's name along the way (for `const foo = ...`
// forms where the name lives one level up from the value).
func unwrapDeclaration(n *sitter.Node, src []byte) unwrapResult {
	symbol := ""
	for {
		switch n.Type() {
		case "export_statement":
			decl := n.ChildByFieldName("declaration")
			if decl == nil {
				return unwrapResult{n, symbol}
			}
			n = decl
		case "lexical_declaration", "variable_declaration":
			var next *sitter.Node
			for _, c := range namedChildren(n) {
				if c.Type() == "variable_declarator" {
					next = c
					break
				}
			}
			if next == nil {
				return unwrapResult{n, symbol}
			}
			n = next
		case "variable_declarator":
			if name := n.ChildByFieldName("name"); name != nil {
				symbol = name.Content(src)
			}
			v := n.ChildByFieldName("value")
			if v == nil {
				return unwrapResult{n, symbol}
			}
			n = v
		case "satisfies_expression", "as_expression":
			ex := n.ChildByFieldName("expression")
			if ex == nil {
				return unwrapResult{n, symbol}
			}
			n = ex
		default:
			return unwrapResult{n, symbol}
		}
	}
}
