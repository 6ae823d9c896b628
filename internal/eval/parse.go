package eval

import (
	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/parser"
)

// parseFile is a thin wrapper so the rest of this package depends on
// "parse source into an AST" rather than on internal/parser directly
// at every call site (Evaluate and import resolution both need it).
func parseFile(source, filename string) (*ast.Expression, error) {
	return parser.Parse(source, filename)
}
