package chunker_test

import (
	"strconv"
	"strings"
	"testing"

	"codelens/internal/chunker"
	"codelens/internal/chunker/languages"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *chunker.Registry {
	r := chunker.NewRegistry()
	languages.RegisterTypeScript(r)
	languages.RegisterJavaScript(r)
	languages.RegisterGo(r)
	languages.RegisterPython(r)
	return r
}

func assertFidelity(t *testing.T, src string, chunks []chunker.Chunk) {
	t.Helper()
	lines := strings.Split(src, "\n")
	for _, c := range chunks {
		require.GreaterOrEqual(t, c.StartLine, 1)
		require.LessOrEqual(t, c.EndLine, len(lines))
		require.LessOrEqual(t, c.StartLine, c.EndLine)

		want := strings.Join(lines[c.StartLine-1:c.EndLine], "\n")
		assert.Equal(t, want, c.Text, "chunk text must equal its line range")
	}
}

func TestChunk_SingleSmallFunction(t *testing.T) {
	src := "export function add(a: number, b: number): number {\n  return a + b\n}\n"
	r := newRegistry()
	chunks, err := r.Chunk("b.ts", []byte(src), chunker.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assertFidelity(t, src, chunks)
	assert.Equal(t, "add", chunks[0].Symbol)
}

func TestChunk_ContentAddressing(t *testing.T) {
	src := "function f() {\n  return 1\n}\n"
	r := newRegistry()
	chunks, err := r.Chunk("a.ts", []byte(src), chunker.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, c.ID, chunker.HashText(c.Text))
	}
}

func TestChunk_ForwardCommentAttachment(t *testing.T) {
	src := "// adds two numbers\nfunction add(a, b) {\n  return a + b\n}\n"
	r := newRegistry()
	chunks, err := r.Chunk("a.js", []byte(src), chunker.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Contains(t, chunks[0].Text, "adds two numbers")
}

func TestChunk_OrphanCommentDropped(t *testing.T) {
	src := "// a stray note\n;\nfunction add(a, b) {\n  return a + b\n}\n"
	r := newRegistry()
	chunks, err := r.Chunk("a.js", []byte(src), chunker.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0].Text, "a stray note")
}

func TestChunk_ClassWithMethodsOversize(t *testing.T) {
	var b strings.Builder
	b.WriteString("export class Widget {\n")
	for i := 0; i < 40; i++ {
		b.WriteString("  doSomethingVeryLongAndDescriptiveNumber")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("(x: number): number {\n")
		for j := 0; j < 20; j++ {
			b.WriteString("    x = x + 1 + x * 2 - x / 3 + 7\n")
		}
		b.WriteString("    return x\n  }\n\n")
	}
	b.WriteString("}\n")
	src := b.String()

	r := newRegistry()
	opts := chunker.DefaultOptions()
	chunks, err := r.Chunk("widget.ts", []byte(src), opts)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 3, "oversize class should split into header + multiple methods")
	assertFidelity(t, src, chunks)

	for i, c := range chunks {
		for j, other := range chunks {
			if i == j {
				continue
			}
			overlap := c.StartLine <= other.EndLine && other.StartLine <= c.EndLine
			assert.False(t, overlap, "chunks %d and %d overlap", i, j)
		}
	}
}

func TestChunk_NoGrammarReturnsNil(t *testing.T) {
	r := newRegistry()
	chunks, err := r.Chunk("readme.md", []byte("hello"), chunker.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, chunks)
}
