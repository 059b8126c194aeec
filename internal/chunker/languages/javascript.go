package languages

import (
	"codelens/internal/chunker"

	"github.com/smacker/go-tree-sitter/javascript"
)

// RegisterJavaScript wires the shared block-family engine against the
// JavaScript grammar.
func RegisterJavaScript(r *chunker.Registry) {
	r.Register("javascript", chunker.NewJavaScriptEngine(javascript.GetLanguage()), "js", "jsx", "mjs", "cjs")
}
