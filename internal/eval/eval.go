package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/model"
	"github.com/HazenBabcock/opensdraw/internal/sema"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// unaryCallable is the structural interface a host-opaque callable
// geometry object (internal/geometry's Curve and Spring) satisfies
// without internal/geometry needing to import eval (spec.md section
// 3: "Curve / Spring / host-opaque — callable geometry objects;
// calling with t returns length, calling with a number returns a
// 6-vector").
type unaryCallable interface {
	Call(arg value.Value) (value.Value, error)
}

// Evaluator is the tree-walking interpreter (spec.md section 4.3). It
// may be reused across calls to Evaluate (the REPL does so): top-level
// definitions from one successful call stay visible to the next, and
// the Model keeps accumulating.
type Evaluator struct {
	Root     *env.Scope
	Model    *model.Model
	Warnings []string
	// Out is where `print` writes (spec.md section 4.3's "print"
	// builtin). Defaults to os.Stdout in NewEvaluator; swap it for a
	// bytes.Buffer or similar to capture output in a test, the same
	// injectable-writer pattern sentra threads an io.Writer/VM output
	// sink through.
	Out io.Writer
	// importedFiles tracks (resolved path, as built by resolveImport)
	// -> the scope its top-level definitions were evaluated into, so a second `(import MOD)` of
	// the identical file is a no-op (spec.md section 4.4).
	importedFiles map[string]*env.Scope
	// libraryRoot is the second import search directory (spec.md
	// section 6: "a configured library root").
	libraryRoot string
	// userScope holds the top-level definitions of the last successful
	// Evaluate call; nil until the first one.
	userScope *env.Scope
}

// NewEvaluator builds an Evaluator with a fresh built-in root scope,
// the full built-in table installed, and a Model seeded with
// timeIndex.
func NewEvaluator(timeIndex int, libraryRoot string) *Evaluator {
	root := env.NewRootScope()
	ev := &Evaluator{
		Root:          root,
		Model:         model.New(timeIndex),
		Out:           os.Stdout,
		importedFiles: make(map[string]*env.Scope),
		libraryRoot:   libraryRoot,
	}
	installBuiltins(root)
	root.Define("time-index", value.NewCell(value.Number(timeIndex)))
	return ev
}

func loc(pos ast.Position) lcaderr.Location {
	return lcaderr.Location{File: pos.File, Line: pos.Line}
}

// Evaluate parses, pre-passes, and evaluates source as a top-level
// program (spec.md section 6: "evaluate(source_text, filename,
// time_index) -> Model").
func (ev *Evaluator) Evaluate(source, filename string) (value.Value, error) {
	root, err := parseFile(source, filename)
	if err != nil {
		return nil, err
	}
	if ev.userScope == nil {
		ev.userScope = ev.Root
	}
	result, err := ev.evaluateParsed(root, ev.userScope)
	if err != nil {
		return nil, err
	}
	ev.userScope = root.Scope()
	return result, nil
}

// evaluateParsed runs the pre-pass over an already-parsed program
// against parentScope and then evaluates it as a sequence, returning
// the value of the last top-level form. Used both by Evaluate and by
// import resolution (internal/eval/import.go), which evaluates an
// imported file's forms against a fresh child of the root scope
// rather than the importing file's local scope.
func (ev *Evaluator) evaluateParsed(root *ast.Expression, parentScope *env.Scope) (value.Value, error) {
	warnings, err := sema.Run(root, parentScope, newUserFn)
	ev.Warnings = append(ev.Warnings, warnings.Messages...)
	if err != nil {
		return nil, err
	}
	return ev.evalSequence(root.Children)
}

// evalSequence evaluates each node in order, returning the last
// value (or Nil for an empty sequence). Shared by the top-level
// program, `block`, a user function's implicit-block body, and
// `import`'s top-level-definitions pass — anywhere spec.md describes
// "evaluate ... sequentially, return last value" rather than a single
// call dispatch.
func (ev *Evaluator) evalSequence(nodes []ast.Node) (value.Value, error) {
	var result value.Value = value.Nil
	var err error
	for _, n := range nodes {
		result, err = ev.evalNode(n)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evalNode is the single entry point for evaluating one AST node
// (spec.md section 4.3's "recursive dispatch on node kind"), used
// everywhere the evaluator needs a Value back from a sub-node.
func (ev *Evaluator) evalNode(n ast.Node) (value.Value, error) {
	res, err := n.Accept(ev)
	if err != nil {
		return nil, err
	}
	v, _ := res.(value.Value)
	return v, nil
}

func (ev *Evaluator) VisitConstant(c *ast.Constant) (interface{}, error) {
	switch lit := c.Value.(type) {
	case ast.NumberLit:
		return value.Number(lit), nil
	case ast.StringLit:
		return value.Str(lit), nil
	default:
		return value.Nil, nil
	}
}

func (ev *Evaluator) VisitSymbol(s *ast.Symbol) (interface{}, error) {
	if s.Keyword {
		return value.Str(":" + s.Name), nil
	}
	scope := s.Scope()
	cell, ok := scope.Lookup(s.Name)
	if !ok {
		return nil, lcaderr.New(lcaderr.SymbolNotDefined, loc(s.Pos()), "%q is not defined", s.Name)
	}
	v, set := cell.Get()
	if !set {
		return nil, lcaderr.New(lcaderr.SymbolNotDefined, loc(s.Pos()), "%q has not been set", s.Name)
	}
	return v, nil
}

func (ev *Evaluator) VisitExpression(e *ast.Expression) (interface{}, error) {
	if len(e.Children) == 0 {
		return value.Nil, nil
	}

	headVal, err := ev.evalNode(e.Children[0])
	if err != nil {
		return nil, err
	}
	argNodes := e.Children[1:]
	scope := e.Scope()

	result, callErr := ev.dispatch(headVal, e, argNodes, scope)
	if callErr != nil {
		if lerr, ok := callErr.(*lcaderr.Error); ok {
			lerr.AddFrame(callableName(headVal), loc(e.Pos()))
		}
		return nil, callErr
	}
	return result, nil
}

func callableName(v value.Value) string {
	switch fn := v.(type) {
	case *Builtin:
		return fn.Name
	case *UserFn:
		return fn.Name
	default:
		return ""
	}
}

// dispatch implements spec.md section 4.3's "evaluate head to obtain
// a function value... validate arguments against the function's
// signature; then call" for all three callable shapes the language
// has: special forms (unevaluated AST slices), ordinary builtins and
// user functions (eagerly evaluated arguments, with keyword binding),
// and geometry objects (a single evaluated argument via
// unaryCallable).
func (ev *Evaluator) dispatch(headVal value.Value, e *ast.Expression, argNodes []ast.Node, scope *env.Scope) (value.Value, error) {
	switch fn := headVal.(type) {
	case *Builtin:
		if fn.Special {
			return fn.SpecialFn(ev, e, scope)
		}
		args, kwargs, err := ev.evalArgs(argNodes)
		if err != nil {
			return nil, err
		}
		filled, err := fn.Sig.validate(loc(e.Pos()), fn.Name, args, kwargs)
		if err != nil {
			return nil, err
		}
		return fn.Fn(ev, loc(e.Pos()), args, filled)

	case *UserFn:
		return ev.callUserFn(fn, argNodes, e.Pos())

	default:
		if uc, ok := headVal.(unaryCallable); ok {
			if len(argNodes) != 1 {
				return nil, lcaderr.ArityError(loc(e.Pos()), "callable", "1", len(argNodes))
			}
			argVal, err := ev.evalNode(argNodes[0])
			if err != nil {
				return nil, err
			}
			return uc.Call(argVal)
		}
		return nil, lcaderr.New(lcaderr.NotAFunction, loc(e.Pos()), "%s is not a function", value.TypeName(headVal))
	}
}

// evalArgs splits a call's unevaluated argument nodes into eagerly
// evaluated positional values and a name->value keyword map (spec.md
// section 4.4: "Calling (F A1 A2 ... :K V ...) -- bind positional
// params to evaluated args, then keyword params by name"). A keyword
// symbol (recognized structurally, never resolved against a scope)
// consumes the node immediately following it as its value.
func (ev *Evaluator) evalArgs(argNodes []ast.Node) ([]value.Value, map[string]value.Value, error) {
	var positional []value.Value
	var kwargs map[string]value.Value
	for i := 0; i < len(argNodes); i++ {
		sym, ok := argNodes[i].(*ast.Symbol)
		if ok && sym.Keyword {
			if i+1 >= len(argNodes) {
				return nil, nil, lcaderr.New(lcaderr.KeywordValueMissing, loc(sym.Pos()), "keyword :%s requires a value", sym.Name)
			}
			v, err := ev.evalNode(argNodes[i+1])
			if err != nil {
				return nil, nil, err
			}
			if kwargs == nil {
				kwargs = make(map[string]value.Value)
			}
			kwargs[sym.Name] = v
			i++
			continue
		}
		v, err := ev.evalNode(argNodes[i])
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, v)
	}
	return positional, kwargs, nil
}

// callUserFn implements spec.md section 4.4's user-function calling
// convention. See UserFn's doc comment for why parameters rebind
// directly into fn.DefScope rather than a fresh per-call scope.
func (ev *Evaluator) callUserFn(fn *UserFn, argNodes []ast.Node, pos ast.Position) (value.Value, error) {
	args, kwargs, err := ev.evalArgs(argNodes)
	if err != nil {
		return nil, err
	}

	positional := fn.positional()
	if len(args) != len(positional) {
		return nil, lcaderr.ArityError(loc(pos), fn.Name, fmt.Sprintf("%d", len(positional)), len(args))
	}
	for i, p := range positional {
		fn.DefScope.Define(p.Name, value.NewCell(args[i]))
	}

	used := make(map[string]bool, len(kwargs))
	for name, v := range kwargs {
		p, ok := findParam(fn.keyword(), name)
		if !ok {
			return nil, lcaderr.New(lcaderr.UnknownKeyword, loc(pos), "%s: unknown keyword :%s", fn.Name, name)
		}
		fn.DefScope.Define(p.Name, value.NewCell(v))
		used[name] = true
	}
	for _, p := range fn.keyword() {
		if used[p.Name] {
			continue
		}
		if p.Default == nil {
			return nil, lcaderr.New(lcaderr.KeywordValueMissing, loc(pos), "%s: missing keyword :%s", fn.Name, p.Name)
		}
		defVal, err := ev.evalNode(p.Default)
		if err != nil {
			return nil, err
		}
		fn.DefScope.Define(p.Name, value.NewCell(defVal))
	}

	return ev.evalSequence(fn.Body)
}

func findParam(params []Param, name string) (Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
