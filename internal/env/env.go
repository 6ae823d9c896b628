// Package env implements the lexical environment spec.md section 3
// describes: a tree of scopes, each mapping identifier to binding
// cell, rooted in an immutable built-in scope and a mutable user-root
// scope.
//
// No file in the teacher corpus does lexical scoping — sentra compiles
// straight to a flat bytecode stack of locals. The scope-tree shape
// here is grounded on the parent-pointer environments used by
// _examples/other_examples/dfb890d9_purpleidea-mgmt__lang-interfaces-ast.go.go
// and _examples/other_examples/abe65472_funvibe-funxy__internal-analyzer-declarations_functions.go.go,
// written in sentra's general struct-and-method style.
package env

import "github.com/HazenBabcock/opensdraw/internal/value"

// Scope is one node of the lexical environment tree (spec.md section
// 3, "Lexical scope"). The built-in scope has Parent == nil and
// Builtin == true; every other scope chains up eventually to it.
type Scope struct {
	Parent  *Scope
	Builtin bool
	symbols map[string]*value.Cell
}

// NewRootScope creates the root built-in scope with no parent.
func NewRootScope() *Scope {
	return &Scope{Builtin: true, symbols: make(map[string]*value.Cell)}
}

// NewChild creates a scope nested inside parent (every expression node
// gets one of these during the semantic pre-pass, spec.md section 4.2).
func NewChild(parent *Scope) *Scope {
	return &Scope{Parent: parent, symbols: make(map[string]*value.Cell)}
}

// Lookup walks the scope chain outward (spec.md section 4.3: "ascending
// parent scopes until found") and returns the cell bound to name.
func (s *Scope) Lookup(name string) (*value.Cell, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if c, ok := sc.symbols[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// LookupLocal looks only in this scope, not its ancestors — used by
// the duplicate-definition and :local-import-collision checks
// (spec.md section 4.2, section 9).
func (s *Scope) LookupLocal(name string) (*value.Cell, bool) {
	c, ok := s.symbols[name]
	return c, ok
}

// Define installs a new cell for name in this scope, overwriting any
// existing local binding (callers are expected to have already run
// the override/duplicate checks spec.md section 4.2 mandates).
func (s *Scope) Define(name string, c *value.Cell) {
	s.symbols[name] = c
}

// IsBuiltin reports whether a name is bound in the root built-in
// scope specifically (as opposed to merely being visible from here),
// used to enforce "built-in names may never be redefined" (spec.md
// section 3 invariant).
func (s *Scope) IsBuiltin(name string) bool {
	root := s.Root()
	_, ok := root.symbols[name]
	return ok
}

// Root walks up to the built-in root scope.
func (s *Scope) Root() *Scope {
	sc := s
	for sc.Parent != nil {
		sc = sc.Parent
	}
	return sc
}

// Names returns the identifiers bound directly in this scope; `import`
// uses it to copy a module's top-level definitions.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for n := range s.symbols {
		names = append(names, n)
	}
	return names
}
