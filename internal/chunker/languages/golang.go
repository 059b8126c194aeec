package languages

import (
	"codelens/internal/chunker"

	"github.com/smacker/go-tree-sitter/golang"
)

// RegisterGo wires the query-capture engine against the Go grammar.
func RegisterGo(r *chunker.Registry) {
	r.Register("go", chunker.NewGoEngine(golang.GetLanguage()), "go")
}
