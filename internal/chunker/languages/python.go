package languages

import (
	"codelens/internal/chunker"

	"github.com/smacker/go-tree-sitter/python"
)

// RegisterPython wires the query-capture engine against the Python
// grammar.
func RegisterPython(r *chunker.Registry) {
	r.Register("python", chunker.NewPythonEngine(python.GetLanguage()), "py", "pyi")
}
