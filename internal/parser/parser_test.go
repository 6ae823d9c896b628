package parser

import (
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/ast"
)

func TestParseSimpleExpression(t *testing.T) {
	top, err := Parse("(+ 1 2 3)", "test.lcad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top.Children) != 1 {
		t.Fatalf("expected 1 top-level form, got %d", len(top.Children))
	}
	expr, ok := top.Children[0].(*ast.Expression)
	if !ok {
		t.Fatalf("expected an Expression node, got %T", top.Children[0])
	}
	if len(expr.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(expr.Children))
	}
	sym, ok := expr.Children[0].(*ast.Symbol)
	if !ok || sym.Name != "+" {
		t.Fatalf("expected head symbol '+', got %#v", expr.Children[0])
	}
}

func TestParseImplicitTopLevelSequence(t *testing.T) {
	top, err := Parse("(def x 1) (def y 2) (+ x y)", "test.lcad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top.Children) != 3 {
		t.Fatalf("expected 3 top-level forms, got %d", len(top.Children))
	}
}

func TestParseMismatchedParens(t *testing.T) {
	if _, err := Parse("(+ 1 2", "test.lcad"); err == nil {
		t.Fatal("expected a syntax error for an unclosed paren")
	}
	if _, err := Parse("(+ 1 2))", "test.lcad"); err == nil {
		t.Fatal("expected a syntax error for an excess paren")
	}
}

func TestParseKeywordSymbol(t *testing.T) {
	top, err := Parse("(curve pts :auto-scale nil)", "test.lcad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expr := top.Children[0].(*ast.Expression)
	kw, ok := expr.Children[2].(*ast.Symbol)
	if !ok || !kw.Keyword || kw.Name != "auto-scale" {
		t.Fatalf("expected keyword symbol :auto-scale, got %#v", expr.Children[2])
	}
}

func TestParseStringAndNumberLiterals(t *testing.T) {
	top, err := Parse(`(print "hi" -1.5e2)`, "test.lcad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expr := top.Children[0].(*ast.Expression)
	str, ok := expr.Children[1].(*ast.Constant)
	if !ok || str.Value != ast.StringLit("hi") {
		t.Fatalf("expected string literal \"hi\", got %#v", expr.Children[1])
	}
	num, ok := expr.Children[2].(*ast.Constant)
	if !ok || num.Value != ast.NumberLit(-150) {
		t.Fatalf("expected number literal -150, got %#v", expr.Children[2])
	}
}
