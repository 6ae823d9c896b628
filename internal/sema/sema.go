// Package sema implements the semantic pre-pass spec.md section 4.2
// describes: one root-to-leaves walk of the AST that attaches a
// lexical scope to every node, hoists user function definitions into
// their enclosing scope so they can be called before their textual
// position, and enforces override/duplicate/shadow checks.
//
// Grounded on sentra/internal/compiler/hoisting_compiler.go's "hoist
// function definitions before evaluating the body" idiom, generalized
// here from compile-time bytecode hoisting to tree-walking scope
// attachment. sema deliberately does not import internal/eval (eval
// imports sema to run the pre-pass before walking the tree) — the
// UserFnFactory hook lets eval supply the concrete UserFn value
// without sema needing to know its type, avoiding an import cycle.
package sema

import (
	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// UserFnFactory builds the runtime Value for a `(def NAME (PARAMS) BODY...)`
// function definition, invoked immediately during the pre-pass so that
// forward references resolve (spec.md section 4.2). defExpr is the
// whole def expression node; defScope is the scope the function's
// body must evaluate against (its captured closure scope).
type UserFnFactory func(defExpr *ast.Expression, defScope *env.Scope) (value.Value, error)

// Warnings collects non-fatal shadow warnings emitted during the pre-pass.
type Warnings struct {
	Messages []string
}

func (w *Warnings) add(msg string) { w.Messages = append(w.Messages, msg) }

// Run performs the pre-pass over root against rootScope (the mutable
// user-root scope; its parent chain must already reach the built-in
// scope). makeFn is invoked for every recognized function definition.
func Run(root *ast.Expression, rootScope *env.Scope, makeFn UserFnFactory) (*Warnings, error) {
	p := &prepass{makeFn: makeFn, warnings: &Warnings{}}
	if err := p.walkExpression(root, rootScope); err != nil {
		return p.warnings, err
	}
	return p.warnings, nil
}

type prepass struct {
	makeFn   UserFnFactory
	warnings *Warnings
}

func (p *prepass) walkExpression(e *ast.Expression, enclosing *env.Scope) error {
	exprScope := env.NewChild(enclosing)
	e.SetScope(exprScope)

	if len(e.Children) == 0 {
		return nil
	}

	start := 0
	if head, ok := e.Children[0].(*ast.Symbol); ok {
		head.SetScope(exprScope)
		start = 1
		if head.Name == "def" {
			if err := p.handleDef(e, exprScope, enclosing); err != nil {
				return err
			}
		}
	}

	for _, child := range e.Children[start:] {
		if err := p.walkNode(child, exprScope); err != nil {
			return err
		}
	}
	return nil
}

func (p *prepass) walkNode(n ast.Node, enclosing *env.Scope) error {
	switch node := n.(type) {
	case *ast.Expression:
		return p.walkExpression(node, enclosing)
	case *ast.Symbol:
		node.SetScope(enclosing)
		return nil
	case *ast.Constant:
		node.SetScope(enclosing)
		return nil
	}
	return nil
}

// posToLoc converts an AST position to an error location.
func posToLoc(pos ast.Position) lcaderr.Location {
	return lcaderr.Location{File: pos.File, Line: pos.Line}
}

// handleDef implements spec.md section 4.2's special-case: the
// binding cell for NAME is created in the *parent* expression's scope
// (defExpr.Children[0] is "def", already consumed by the caller); the
// def's own scope (already allocated as exprScope) is where the
// function body evaluates.
func (p *prepass) handleDef(defExpr *ast.Expression, defScope, parentScope *env.Scope) error {
	children := defExpr.Children
	if len(children) < 3 {
		return lcaderr.New(lcaderr.SyntaxError, posToLoc(defExpr.Pos()), "def requires at least a name and a value")
	}

	if IsFunctionDefShape(children) {
		return p.hoistFunctionDef(defExpr, defScope, parentScope)
	}
	return p.hoistMultiDef(defExpr, parentScope)
}

// IsFunctionDefShape recognizes `(def NAME (PARAMS...) BODY...)`:
// children[1] a plain symbol, children[2] a parameter-list-shaped
// expression (every element a symbol; keyword params tagged with a
// leading `:` symbol followed by one default-expression), and at
// least one body form following. This disambiguates against the
// flat `(def NAME1 V1 NAME2 V2 ...)` multi-def form, whose elements
// are values rather than parameter specs (see DESIGN.md's Open
// Question resolution for spec.md section 4.4). children is the full
// def-expression child list with "def" itself at index 0 — exactly
// what `(*ast.Expression).Children` gives both sema and internal/eval's
// `def` special form handler, so both sides make the identical call.
func IsFunctionDefShape(children []ast.Node) bool {
	if len(children) < 4 {
		return false
	}
	nameSym, ok := children[1].(*ast.Symbol)
	if !ok || nameSym.Keyword {
		return false
	}
	paramsExpr, ok := children[2].(*ast.Expression)
	if !ok {
		return false
	}
	for i := 0; i < len(paramsExpr.Children); i++ {
		sym, ok := paramsExpr.Children[i].(*ast.Symbol)
		if !ok {
			return false
		}
		if sym.Keyword {
			if i+1 >= len(paramsExpr.Children) {
				return false
			}
			i++ // skip the default-value expression
		}
	}
	return true
}

func (p *prepass) hoistFunctionDef(defExpr *ast.Expression, defScope, parentScope *env.Scope) error {
	nameSym := defExpr.Children[1].(*ast.Symbol)
	if err := p.checkOverride(parentScope, nameSym.Name, posToLoc(defExpr.Pos()), ""); err != nil {
		return err
	}

	fnValue, err := p.makeFn(defExpr, defScope)
	if err != nil {
		return err
	}
	cell := value.NewCell(fnValue)
	cell.Name = nameSym.Name
	cell.DefFile = defExpr.Pos().File
	parentScope.Define(nameSym.Name, cell)

	// The parameter list and body are walked by walkExpression's own
	// generic loop once handleDef returns, against this same defScope.
	return nil
}

func (p *prepass) hoistMultiDef(defExpr *ast.Expression, parentScope *env.Scope) error {
	pairs := defExpr.Children[1:]
	if len(pairs)%2 != 0 {
		return lcaderr.New(lcaderr.SyntaxError, posToLoc(defExpr.Pos()), "def requires name/value pairs")
	}
	for i := 0; i < len(pairs); i += 2 {
		nameSym, ok := pairs[i].(*ast.Symbol)
		if !ok || nameSym.Keyword {
			return lcaderr.New(lcaderr.SyntaxError, posToLoc(defExpr.Pos()), "def name must be a plain symbol")
		}
		if err := p.checkOverride(parentScope, nameSym.Name, posToLoc(defExpr.Pos()), ""); err != nil {
			return err
		}
		cell := value.NewUnsetCell(nameSym.Name, defExpr.Pos().File)
		parentScope.Define(nameSym.Name, cell)
	}
	return nil
}

// checkOverride implements spec.md section 4.2's enforced checks:
// error on shadowing a built-in, error on duplicate definition within
// one scope (unless externalFile marks an :local-import re-definition
// from the same origin file, spec.md section 9), and a non-fatal
// warning when shadowing an ancestor scope's binding.
func (p *prepass) checkOverride(scope *env.Scope, name string, pos lcaderr.Location, externalFile string) error {
	if scope.Root().IsBuiltin(name) {
		return lcaderr.New(lcaderr.CannotOverrideBuiltin, pos, "%q is a built-in and cannot be redefined", name)
	}
	if existing, ok := scope.LookupLocal(name); ok {
		if externalFile == "" || externalFile != existing.DefFile {
			return lcaderr.New(lcaderr.SymbolAlreadyExists, pos, "%q is already defined in this scope", name)
		}
		return nil
	}
	if scope.Parent != nil {
		if _, ok := scope.Parent.Lookup(name); ok {
			p.warnings.add(name + " shadows an existing symbol with the same name")
		}
	}
	return nil
}

// CheckOverride exposes the override/duplicate/shadow rule to callers
// outside the pre-pass — the evaluator's `import` built-in needs it to
// install imported names with :local-import collision semantics
// (spec.md section 4.4, section 9).
func CheckOverride(scope *env.Scope, name string, pos ast.Position, externalFile string, warnings *Warnings) error {
	p := &prepass{warnings: warnings}
	return p.checkOverride(scope, name, posToLoc(pos), externalFile)
}
