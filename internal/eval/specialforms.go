package eval

import (
	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/sema"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// evalDef implements spec.md section 4.4's three `def` shapes. The
// binding cell(s) were already created by internal/sema's pre-pass in
// the parent expression's scope (scope.Parent here); at eval time
// `def` only needs to fill them in, using the identical structural
// shape test sema used so the two never disagree (see DESIGN.md).
func evalDef(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	children := expr.Children
	parentScope := scope.Parent
	if parentScope == nil {
		parentScope = scope
	}

	if sema.IsFunctionDefShape(children) {
		nameSym := children[1].(*ast.Symbol)
		cell, ok := parentScope.LookupLocal(nameSym.Name)
		if !ok {
			return nil, lcaderr.New(lcaderr.SymbolNotDefined, loc(expr.Pos()), "%q was not hoisted", nameSym.Name)
		}
		v, _ := cell.Get()
		return v, nil
	}

	pairs := children[1:]
	var last value.Value = value.Nil
	for i := 0; i+1 < len(pairs); i += 2 {
		nameSym := pairs[i].(*ast.Symbol)
		val, err := ev.evalNode(pairs[i+1])
		if err != nil {
			return nil, err
		}
		cell, ok := parentScope.LookupLocal(nameSym.Name)
		if !ok {
			cell = value.NewUnsetCell(nameSym.Name, expr.Pos().File)
			parentScope.Define(nameSym.Name, cell)
		}
		cell.Set(val)
		last = val
	}
	return last, nil
}

// evalSet implements spec.md section 4.4's `(set PLACE VALUE ...)`.
func evalSet(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	pairs := expr.Children[1:]
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return nil, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "set requires place/value pairs")
	}
	var last value.Value = value.Nil
	for i := 0; i+1 < len(pairs); i += 2 {
		val, err := ev.evalNode(pairs[i+1])
		if err != nil {
			return nil, err
		}
		if err := ev.setPlace(pairs[i], val); err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

func (ev *Evaluator) setPlace(placeNode ast.Node, val value.Value) error {
	switch place := placeNode.(type) {
	case *ast.Symbol:
		if place.Keyword {
			return lcaderr.New(lcaderr.SyntaxError, loc(place.Pos()), "cannot set a keyword symbol")
		}
		placeScope := place.Scope()
		if placeScope.Root().IsBuiltin(place.Name) {
			return lcaderr.New(lcaderr.CannotOverrideBuiltin, loc(place.Pos()), "%q is a built-in and cannot be set", place.Name)
		}
		cell, ok := placeScope.Lookup(place.Name)
		if !ok {
			return lcaderr.New(lcaderr.SymbolNotDefined, loc(place.Pos()), "%q is not defined", place.Name)
		}
		cell.Set(val)
		return nil

	case *ast.Expression:
		if len(place.Children) != 3 {
			return lcaderr.New(lcaderr.SyntaxError, loc(place.Pos()), "set place must be a symbol or (aref LIST INDEX)")
		}
		headSym, ok := place.Children[0].(*ast.Symbol)
		if !ok || headSym.Name != "aref" {
			return lcaderr.New(lcaderr.SyntaxError, loc(place.Pos()), "set place must be a symbol or (aref LIST INDEX)")
		}
		listVal, err := ev.evalNode(place.Children[1])
		if err != nil {
			return err
		}
		idxVal, err := ev.evalNode(place.Children[2])
		if err != nil {
			return err
		}
		list, err := asList(loc(place.Pos()), listVal)
		if err != nil {
			return err
		}
		idx, err := asNumber(loc(place.Pos()), idxVal)
		if err != nil {
			return err
		}
		cell, ok := list.Cell(int(idx))
		if !ok {
			return lcaderr.New(lcaderr.IndexOutOfRange, loc(place.Pos()), "index %d out of range for a list of length %d", int(idx), list.Len())
		}
		cell.Set(val)
		return nil

	default:
		return lcaderr.New(lcaderr.SyntaxError, loc(placeNode.Pos()), "set place must be a symbol or (aref LIST INDEX)")
	}
}

// evalIf implements `(if COND THEN [ELSE])`.
func evalIf(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 2 || len(args) > 3 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "if", "2 to 3", len(args))
	}
	cond, err := ev.evalNode(args[0])
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return ev.evalNode(args[1])
	}
	if len(args) == 3 {
		return ev.evalNode(args[2])
	}
	return value.Nil, nil
}

// evalCond implements `(cond (C1 E1...) (C2 E2...) ...)`.
func evalCond(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	for _, clauseNode := range expr.Children[1:] {
		clause, ok := clauseNode.(*ast.Expression)
		if !ok || len(clause.Children) == 0 {
			return nil, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "cond clauses must be (CONDITION BODY...)")
		}
		cond, err := ev.evalNode(clause.Children[0])
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return ev.evalSequence(clause.Children[1:])
		}
	}
	return value.Nil, nil
}

// evalWhile implements `(while COND BODY...)`.
func evalWhile(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "while", "at least 1", len(args))
	}
	condNode, body := args[0], args[1:]
	var result value.Value = value.Nil
	for {
		cond, err := ev.evalNode(condNode)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(cond) {
			break
		}
		result, err = ev.evalSequence(body)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evalAnd implements `(and E...)`: short-circuit on the first falsy
// value, otherwise the last value (value.T for zero arguments).
func evalAnd(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	result := value.T
	for _, n := range expr.Children[1:] {
		v, err := ev.evalNode(n)
		if err != nil {
			return nil, err
		}
		result = v
		if !value.Truthy(v) {
			return v, nil
		}
	}
	return result, nil
}

// evalOr implements `(or E...)`: short-circuit on the first truthy
// value, otherwise the last (falsy) value (value.Nil for zero
// arguments).
func evalOr(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	var result value.Value = value.Nil
	for _, n := range expr.Children[1:] {
		v, err := ev.evalNode(n)
		if err != nil {
			return nil, err
		}
		result = v
		if value.Truthy(v) {
			return v, nil
		}
	}
	return result, nil
}

// evalBlock implements `(block BODY...)`. The fresh scope spec.md
// section 4.4 calls for is already in place: internal/sema gave this
// expression its own child scope during the pre-pass, and block's
// body children resolve against it directly.
func evalBlock(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	return ev.evalSequence(expr.Children[1:])
}

// evalFor implements spec.md section 4.4's four `for` iterator forms.
// The loop variable's cell is defined directly in this expression's
// own pre-pass scope (scope, the parameter passed in) rather than the
// iterator-spec sub-expression's nested scope, because the body's own
// node scopes chain up to this expression's scope, not sideways into
// a sibling sub-expression's scope.
func evalFor(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "for", "at least 1", len(args))
	}
	iterExpr, ok := args[0].(*ast.Expression)
	if !ok || len(iterExpr.Children) < 2 {
		return nil, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "for requires an iterator spec (VAR ...)")
	}
	varSym, ok := iterExpr.Children[0].(*ast.Symbol)
	if !ok || varSym.Keyword {
		return nil, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "for's iterator variable must be a plain symbol")
	}
	body := args[1:]
	rest := iterExpr.Children[1:]

	switch len(rest) {
	case 1:
		v, err := ev.evalNode(rest[0])
		if err != nil {
			return nil, err
		}
		if l, ok := v.(*value.List); ok {
			return ev.runListFor(scope, varSym.Name, l, body)
		}
		n, err := asNumber(loc(expr.Pos()), v)
		if err != nil {
			return nil, err
		}
		return ev.runCountingFor(scope, varSym.Name, 0, 1, n, body)

	case 2:
		start, end, err := ev.evalTwoNumbers(rest[0], rest[1])
		if err != nil {
			return nil, err
		}
		return ev.runCountingFor(scope, varSym.Name, start, 1, end, body)

	case 3:
		start, err := ev.evalOneNumber(rest[0])
		if err != nil {
			return nil, err
		}
		step, err := ev.evalOneNumber(rest[1])
		if err != nil {
			return nil, err
		}
		end, err := ev.evalOneNumber(rest[2])
		if err != nil {
			return nil, err
		}
		return ev.runCountingFor(scope, varSym.Name, start, step, end, body)

	default:
		return nil, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "for's iterator spec takes 1 to 3 arguments after the variable")
	}
}

func (ev *Evaluator) evalOneNumber(n ast.Node) (float64, error) {
	v, err := ev.evalNode(n)
	if err != nil {
		return 0, err
	}
	return asNumber(loc(n.Pos()), v)
}

func (ev *Evaluator) evalTwoNumbers(a, b ast.Node) (float64, float64, error) {
	av, err := ev.evalOneNumber(a)
	if err != nil {
		return 0, 0, err
	}
	bv, err := ev.evalOneNumber(b)
	if err != nil {
		return 0, 0, err
	}
	return av, bv, nil
}

func (ev *Evaluator) runCountingFor(scope *env.Scope, name string, start, step, end float64, body []ast.Node) (value.Value, error) {
	cell := value.NewCell(value.Number(start))
	scope.Define(name, cell)
	var result value.Value = value.Nil
	i := start
	for (step > 0 && i < end) || (step < 0 && i > end) {
		cell.Set(value.Number(i))
		var err error
		result, err = ev.evalSequence(body)
		if err != nil {
			return nil, err
		}
		i += step
	}
	return result, nil
}

func (ev *Evaluator) runListFor(scope *env.Scope, name string, l *value.List, body []ast.Node) (value.Value, error) {
	cell := value.NewCell(value.Nil)
	scope.Define(name, cell)
	var result value.Value = value.Nil
	for _, elem := range l.Values() {
		cell.Set(elem)
		var err error
		result, err = ev.evalSequence(body)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
