package eval

import (
	"math"

	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

func special(name string, fn SpecialFunc) *Builtin {
	return &Builtin{Name: name, Special: true, SpecialFn: fn}
}

// installBuiltins populates the root scope with spec.md section 3's
// "immutable built-in symbol table": constants, arithmetic, list,
// print, model, and geometry functions, plus the special forms that
// receive unevaluated AST rather than pre-evaluated arguments.
func installBuiltins(root *env.Scope) {
	add := func(name string, b *Builtin) {
		root.Define(name, value.NewCell(b))
	}

	root.Define("t", value.NewCell(value.T))
	root.Define("nil", value.NewCell(value.Nil))
	root.Define("e", value.NewCell(value.Number(math.E)))
	root.Define("pi", value.NewCell(value.Number(math.Pi)))

	registerArithmetic(add)
	registerList(add)
	registerPrint(add)
	registerModel(add)
	registerGeometry(add)

	add("def", special("def", evalDef))
	add("set", special("set", evalSet))
	add("if", special("if", evalIf))
	add("cond", special("cond", evalCond))
	add("while", special("while", evalWhile))
	add("for", special("for", evalFor))
	add("block", special("block", evalBlock))
	add("and", special("and", evalAnd))
	add("or", special("or", evalOr))
	add("import", special("import", evalImport))
	add("translate", special("translate", evalTranslate))
	add("rotate", special("rotate", evalRotate))
	add("mirror", special("mirror", evalMirror))
	add("transform", special("transform", evalTransform))
	add("group", special("group", evalGroup))
}
