// Package languages registers the concrete tree-sitter grammars the
// chunker engine understands, one file per language, mirroring the
// teacher's internal/chunker/languages layout.
package languages

import (
	"codelens/internal/chunker"

	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// RegisterTypeScript wires the full §4.1 semantic chunking engine against
// the TypeScript grammar — the richest curly-brace/block-family instance,
// covering classes, interfaces, type aliases, enums, satisfies/as
// wrappers, arrow functions, and object literals.
func RegisterTypeScript(r *chunker.Registry) {
	r.Register("typescript", chunker.NewTypeScriptEngine(typescript.GetLanguage()), "ts", "tsx")
}
