// Package eval implements OpenSDraw's tree-walking evaluator (spec.md
// section 4.3): AST-visitor dispatch, the built-in function library,
// and the calling convention shared by built-ins and user-defined
// functions (positional arguments, keyword arguments with defaults,
// arity/type signature validation).
//
// Grounded on sentra/internal/vm/vm.go's dispatch-loop shape
// (generalized here from an opcode switch to an AST-node-kind switch)
// and sentra/internal/module/module.go's built-in export-table idiom
// for how the builtin name table is assembled.
package eval

import (
	"fmt"

	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// ArgSpec validates one positional parameter of an ordinary built-in
// (spec.md section 4.3: "positional parameter type predicates").
type ArgSpec struct {
	TypeName  string
	Predicate func(value.Value) bool
}

// KeywordSpec validates and defaults one keyword parameter of an
// ordinary built-in.
type KeywordSpec struct {
	Name      string
	TypeName  string
	Predicate func(value.Value) bool
	Default   value.Value
}

// Signature is the arity/type contract every built-in declares
// (spec.md section 4.3): "fixed arity or (min, ?max, ?variadic),
// positional parameter type predicates, and optional keyword
// parameters with defaults". MaxArgs < 0 means unbounded/variadic; in
// that case positional arguments beyond len(Args) are checked against
// the last ArgSpec, if any.
type Signature struct {
	MinArgs  int
	MaxArgs  int
	Args     []ArgSpec
	Keywords []KeywordSpec
}

func (sig Signature) arityDescription() string {
	switch {
	case sig.MaxArgs < 0:
		return fmt.Sprintf("at least %d", sig.MinArgs)
	case sig.MinArgs == sig.MaxArgs:
		return fmt.Sprintf("%d", sig.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", sig.MinArgs, sig.MaxArgs)
	}
}

func (sig Signature) findKeyword(name string) (KeywordSpec, bool) {
	for _, k := range sig.Keywords {
		if k.Name == name {
			return k, true
		}
	}
	return KeywordSpec{}, false
}

// validate enforces spec.md section 4.3's "the evaluator enforces both
// arity and per-argument types before calling the handler" for an
// ordinary (eager) built-in, and fills in keyword defaults.
func (sig Signature) validate(loc lcaderr.Location, fnName string, args []value.Value, kwargs map[string]value.Value) (map[string]value.Value, error) {
	n := len(args)
	if n < sig.MinArgs || (sig.MaxArgs >= 0 && n > sig.MaxArgs) {
		return nil, lcaderr.ArityError(loc, fnName, sig.arityDescription(), n)
	}
	for i, v := range args {
		var spec ArgSpec
		switch {
		case i < len(sig.Args):
			spec = sig.Args[i]
		case len(sig.Args) > 0:
			spec = sig.Args[len(sig.Args)-1]
		default:
			continue
		}
		if spec.Predicate != nil && !spec.Predicate(v) {
			return nil, lcaderr.WrongTypeError(loc, spec.TypeName, value.TypeName(v))
		}
	}

	filled := make(map[string]value.Value, len(sig.Keywords))
	for name, v := range kwargs {
		ks, ok := sig.findKeyword(name)
		if !ok {
			return nil, lcaderr.New(lcaderr.UnknownKeyword, loc, "%s: unknown keyword :%s", fnName, name)
		}
		if ks.Predicate != nil && !ks.Predicate(v) {
			return nil, lcaderr.WrongTypeError(loc, ks.TypeName, value.TypeName(v))
		}
		filled[name] = v
	}
	for _, k := range sig.Keywords {
		if _, ok := filled[k.Name]; !ok {
			filled[k.Name] = k.Default
		}
	}
	return filled, nil
}

// BuiltinFunc is the handler for an ordinary (eagerly evaluated)
// built-in.
type BuiltinFunc func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error)

// SpecialFunc is the handler for a special form (spec.md section 4.3:
// "special forms that receive unevaluated AST slices"). It is handed
// the whole call expression so it can inspect the raw argument nodes,
// the call site's own scope, and position.
type SpecialFunc func(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error)

// Builtin is a named built-in function or special form (spec.md
// section 3: "Function — either Builtin(signature, handler) or
// UserFn(...)").
type Builtin struct {
	Name      string
	Special   bool
	Sig       Signature
	Fn        BuiltinFunc
	SpecialFn SpecialFunc
}

func (*Builtin) Kind() value.Kind { return value.KindFunction }
func (b *Builtin) String() string { return "#<builtin " + b.Name + ">" }

// --- common argument predicates, shared across the builtin tables ---

func isNumber(v value.Value) bool { _, ok := v.(value.Number); return ok }
func isString(v value.Value) bool { _, ok := v.(value.Str); return ok }
func isList(v value.Value) bool   { _, ok := v.(*value.List); return ok }
func isAny(value.Value) bool      { return true }

func asNumber(loc lcaderr.Location, v value.Value) (float64, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, lcaderr.WrongTypeError(loc, "number", value.TypeName(v))
	}
	return float64(n), nil
}

func asList(loc lcaderr.Location, v value.Value) (*value.List, error) {
	l, ok := v.(*value.List)
	if !ok {
		return nil, lcaderr.WrongTypeError(loc, "list", value.TypeName(v))
	}
	return l, nil
}

func asString(loc lcaderr.Location, v value.Value) (string, error) {
	s, ok := v.(value.Str)
	if !ok {
		return "", lcaderr.WrongTypeError(loc, "string", value.TypeName(v))
	}
	return string(s), nil
}
