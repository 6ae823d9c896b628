package eval

import (
	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// Param is one entry of a user function's parameter list (spec.md
// section 4.4): a plain positional name, or a `:NAME DEFAULT`
// keyword pair. Default is nil for positional params; every keyword
// param has a default expression, since the pre-pass does not accept a
// keyword without one as a function definition.
type Param struct {
	Name    string
	Keyword bool
	Default ast.Node
}

// UserFn is a user-defined function (spec.md section 3:
// "UserFn(param-list, optional-keyword-params, body-expression,
// captured-scope)"). It closes over DefScope, the scope the semantic
// pre-pass allocated for the `def` expression itself (spec.md section
// 4.2: "the function closes over the def's scope").
//
// Every call rebinds its parameters directly into DefScope rather
// than allocating a fresh per-call scope: nested body expressions
// already have their own Scope() pointers fixed by the one-shot
// pre-pass to (descendants of) DefScope, so a genuinely fresh
// per-call scope would be invisible to them. This mirrors
// original_source/opensdraw/lcad_language/interpreter.py's
// createLexicalEnv, which likewise allocates exactly one LEnv per def
// and evaluates every call against it. The consequence — documented
// in DESIGN.md — is the same the original has: a function that calls
// itself while an outer call's parameters are still in use will see
// the inner call's rebinding clobber them once the inner call
// returns. Straight-line, non-recursive use (the norm for describing
// a static part layout) is unaffected.
type UserFn struct {
	Name     string
	Params   []Param
	Body     []ast.Node
	DefScope *env.Scope
}

func (*UserFn) Kind() value.Kind { return value.KindFunction }
func (f *UserFn) String() string {
	if f.Name == "" {
		return "#<function>"
	}
	return "#<function " + f.Name + ">"
}

// positional returns the function's positional parameters in order.
func (f *UserFn) positional() []Param {
	var out []Param
	for _, p := range f.Params {
		if !p.Keyword {
			out = append(out, p)
		}
	}
	return out
}

// keyword returns the function's keyword parameters in order.
func (f *UserFn) keyword() []Param {
	var out []Param
	for _, p := range f.Params {
		if p.Keyword {
			out = append(out, p)
		}
	}
	return out
}

// parseParams reads a `(P1 P2 ... [:K1 D1 ...])` parameter-list
// expression into Params, following the same positional-then-keyword
// shape sema.IsFunctionDefShape already validated.
func parseParams(paramsExpr *ast.Expression) []Param {
	var params []Param
	children := paramsExpr.Children
	for i := 0; i < len(children); i++ {
		sym, ok := children[i].(*ast.Symbol)
		if !ok {
			continue
		}
		if sym.Keyword {
			var def ast.Node
			if i+1 < len(children) {
				def = children[i+1]
				i++
			}
			params = append(params, Param{Name: sym.Name, Keyword: true, Default: def})
			continue
		}
		params = append(params, Param{Name: sym.Name})
	}
	return params
}

// newUserFn builds the UserFnFactory value internal/sema's pre-pass
// calls immediately upon seeing `(def NAME (PARAMS) BODY...)` (spec.md
// section 4.2: "install a UserFn value immediately so forward
// references work").
func newUserFn(defExpr *ast.Expression, defScope *env.Scope) (value.Value, error) {
	nameSym := defExpr.Children[1].(*ast.Symbol)
	paramsExpr := defExpr.Children[2].(*ast.Expression)
	return &UserFn{
		Name:     nameSym.Name,
		Params:   parseParams(paramsExpr),
		Body:     defExpr.Children[3:],
		DefScope: defScope,
	}, nil
}
