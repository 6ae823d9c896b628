package sema

import (
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/parser"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

func rootScope(builtins ...string) *env.Scope {
	root := env.NewRootScope()
	for _, b := range builtins {
		root.Define(b, value.NewCell(value.Nil))
	}
	return env.NewChild(root)
}

func noopFactory(defExpr *ast.Expression, defScope *env.Scope) (value.Value, error) {
	return value.Nil, nil
}

func TestRunAttachesScopeToEveryNode(t *testing.T) {
	top, err := parser.Parse("(+ 1 2)", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	scope := rootScope("+")
	if _, err := Run(top, scope, noopFactory); err != nil {
		t.Fatal(err)
	}
	if top.Scope() == nil {
		t.Fatal("top-level expression has no scope")
	}
	inner := top.Children[0].(*ast.Expression)
	if inner.Scope() == nil {
		t.Fatal("inner expression has no scope")
	}
	for _, c := range inner.Children {
		if c.Scope() == nil {
			t.Fatalf("child %#v has no scope", c)
		}
	}
}

func TestRunHoistsSimpleDefIntoParentScope(t *testing.T) {
	top, err := parser.Parse("(block (def x 1) (+ x 1))", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	scope := rootScope("block", "def", "+")
	if _, err := Run(top, scope, noopFactory); err != nil {
		t.Fatal(err)
	}
	blockExpr := top.Children[0].(*ast.Expression)
	if _, ok := blockExpr.Scope().LookupLocal("x"); !ok {
		t.Fatal("expected x hoisted into block's own scope")
	}
}

func TestRunHoistsFunctionDefImmediately(t *testing.T) {
	top, err := parser.Parse("(block (def inc (x) (+ x 1)) (inc 2))", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	scope := rootScope("block", "def", "+")
	var built bool
	factory := func(defExpr *ast.Expression, defScope *env.Scope) (value.Value, error) {
		built = true
		return value.Nil, nil
	}
	if _, err := Run(top, scope, factory); err != nil {
		t.Fatal(err)
	}
	if !built {
		t.Fatal("expected function factory to be invoked during pre-pass")
	}
	blockExpr := top.Children[0].(*ast.Expression)
	cell, ok := blockExpr.Scope().LookupLocal("inc")
	if !ok {
		t.Fatal("expected inc hoisted into block's own scope")
	}
	if !cell.IsSet() {
		t.Fatal("expected inc's cell to already hold a value after the pre-pass")
	}
}

func TestRunRejectsBuiltinOverride(t *testing.T) {
	top, err := parser.Parse("(def + 5)", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	scope := rootScope("+")
	if _, err := Run(top, scope, noopFactory); err == nil {
		t.Fatal("expected an error overriding a built-in")
	}
}

func TestRunRejectsDuplicateDefinition(t *testing.T) {
	top, err := parser.Parse("(block (def x 1) (def x 2))", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	scope := rootScope("block")
	if _, err := Run(top, scope, noopFactory); err == nil {
		t.Fatal("expected an error for duplicate definition in the same scope")
	}
}

func TestRunWarnsOnShadow(t *testing.T) {
	top, err := parser.Parse("(block (def x 1) (block (def x 2)))", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	scope := rootScope("block")
	warnings, err := Run(top, scope, noopFactory)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings.Messages) == 0 {
		t.Fatal("expected a shadow warning")
	}
}

func TestMultiDefPairs(t *testing.T) {
	top, err := parser.Parse("(block (def a 1 b 2) (+ a b))", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	scope := rootScope("block", "+")
	if _, err := Run(top, scope, noopFactory); err != nil {
		t.Fatal(err)
	}
	blockExpr := top.Children[0].(*ast.Expression)
	if _, ok := blockExpr.Scope().LookupLocal("a"); !ok {
		t.Fatal("expected a hoisted")
	}
	if _, ok := blockExpr.Scope().LookupLocal("b"); !ok {
		t.Fatal("expected b hoisted")
	}
}
