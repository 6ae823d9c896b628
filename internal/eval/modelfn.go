package eval

import (
	"math"

	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/model"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// colorFromNumber decodes spec.md section 6's LDraw color encoding: a
// 24-bit direct color is written "0x2RRGGBB", so any value at or
// above that marker is a direct RGB color, everything else a small
// palette index.
func colorFromNumber(n float64) model.Color {
	v := int64(n)
	if v >= 0x2000000 {
		return model.Color{Direct: true, RGB: uint32(v & 0xFFFFFF)}
	}
	return model.Color{Index: int(v)}
}

func point3(loc lcaderr.Location, v value.Value) ([3]float64, error) {
	switch val := v.(type) {
	case *value.List:
		if val.Len() != 3 {
			return [3]float64{}, lcaderr.New(lcaderr.WrongType, loc, "expected a 3-element point, got a list of length %d", val.Len())
		}
		var pt [3]float64
		for i := 0; i < 3; i++ {
			e, _ := val.At(i)
			n, err := asNumber(loc, e)
			if err != nil {
				return [3]float64{}, err
			}
			pt[i] = n
		}
		return pt, nil
	case *value.Vector:
		if len(val.Data) < 3 {
			return [3]float64{}, lcaderr.New(lcaderr.WrongType, loc, "expected a 3-element point")
		}
		return [3]float64{val.Data[0], val.Data[1], val.Data[2]}, nil
	default:
		return [3]float64{}, lcaderr.WrongTypeError(loc, "point", value.TypeName(v))
	}
}

func translationMatrix(dx, dy, dz float64) *value.Matrix4 {
	return value.NewMatrix4FromRowMajor([]float64{
		1, 0, 0, dx,
		0, 1, 0, dy,
		0, 0, 1, dz,
		0, 0, 0, 1,
	})
}

// rotationMatrix implements spec.md section 4.5's "rotation order: Z,
// then Y, then X (i.e., the effective matrix is Rx . Ry . Rz applied
// to column vectors). Angles in degrees."
func rotationMatrix(ax, ay, az float64) *value.Matrix4 {
	toRad := math.Pi / 180.0
	rx, ry, rz := ax*toRad, ay*toRad, az*toRad

	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cz, sz := math.Cos(rz), math.Sin(rz)

	mx := value.NewMatrix4FromRowMajor([]float64{
		1, 0, 0, 0,
		0, cx, -sx, 0,
		0, sx, cx, 0,
		0, 0, 0, 1,
	})
	my := value.NewMatrix4FromRowMajor([]float64{
		cy, 0, sy, 0,
		0, 1, 0, 0,
		-sy, 0, cy, 0,
		0, 0, 0, 1,
	})
	mz := value.NewMatrix4FromRowMajor([]float64{
		cz, -sz, 0, 0,
		sz, cz, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	return mx.Mul(my).Mul(mz)
}

func mirrorMatrix(sx, sy, sz float64) *value.Matrix4 {
	return value.NewMatrix4FromRowMajor([]float64{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, sz, 0,
		0, 0, 0, 1,
	})
}

// matrixFromValue implements spec.md section 4.5's `transform`
// argument contract: "a 16-number list or nested 4x4 list".
func matrixFromValue(loc lcaderr.Location, v value.Value) (*value.Matrix4, error) {
	l, err := asList(loc, v)
	if err != nil {
		return nil, err
	}
	switch l.Len() {
	case 16:
		nums := make([]float64, 16)
		for i := 0; i < 16; i++ {
			cell, _ := l.At(i)
			n, err := asNumber(loc, cell)
			if err != nil {
				return nil, err
			}
			nums[i] = n
		}
		return value.NewMatrix4FromRowMajor(nums), nil
	case 4:
		nums := make([]float64, 0, 16)
		for i := 0; i < 4; i++ {
			rowVal, _ := l.At(i)
			row, err := asList(loc, rowVal)
			if err != nil {
				return nil, err
			}
			if row.Len() != 4 {
				return nil, lcaderr.New(lcaderr.WrongType, loc, "transform matrix rows must have 4 elements")
			}
			for j := 0; j < 4; j++ {
				cell, _ := row.At(j)
				n, err := asNumber(loc, cell)
				if err != nil {
					return nil, err
				}
				nums = append(nums, n)
			}
		}
		return value.NewMatrix4FromRowMajor(nums), nil
	default:
		return nil, lcaderr.New(lcaderr.WrongType, loc, "transform expects a 16-number list or a nested 4x4 list, got a list of length %d", l.Len())
	}
}

// requireTriple pulls the literal `(A B C)` argument form translate,
// rotate, and mirror all share (spec.md section 4.5) and evaluates
// its three elements. These builtins are special forms specifically
// so the triple can be written as bare numbers rather than needing an
// explicit `list` call (spec.md section 8 scenario 6:
// "(translate (1 2 3) (part ...))").
func (ev *Evaluator) requireTriple(expr *ast.Expression, tripleNode ast.Node) (float64, float64, float64, error) {
	tripleExpr, ok := tripleNode.(*ast.Expression)
	if !ok || len(tripleExpr.Children) != 3 {
		return 0, 0, 0, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "%s requires a (X Y Z) triple", headSymbolName(expr))
	}
	a, err := ev.evalOneNumber(tripleExpr.Children[0])
	if err != nil {
		return 0, 0, 0, err
	}
	b, err := ev.evalOneNumber(tripleExpr.Children[1])
	if err != nil {
		return 0, 0, 0, err
	}
	c, err := ev.evalOneNumber(tripleExpr.Children[2])
	if err != nil {
		return 0, 0, 0, err
	}
	return a, b, c, nil
}

// headSymbolName returns the operator name for error messages without
// re-evaluating the head (translate/rotate/mirror are always called
// through a plain symbol in practice).
func headSymbolName(expr *ast.Expression) string {
	if len(expr.Children) == 0 {
		return ""
	}
	if sym, ok := expr.Children[0].(*ast.Symbol); ok {
		return sym.Name
	}
	return ""
}

func (ev *Evaluator) evalWithMatrix(expr *ast.Expression, scope *env.Scope, next *value.Matrix4, bodyStart int) (value.Value, error) {
	var result value.Value
	err := ev.Model.WithMatrix(next, func() error {
		var innerErr error
		result, innerErr = ev.evalSequence(expr.Children[bodyStart:])
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func evalTranslate(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "translate", "at least 1", len(args))
	}
	dx, dy, dz, err := ev.requireTriple(expr, args[0])
	if err != nil {
		return nil, err
	}
	next := ev.Model.Current().Matrix.Mul(translationMatrix(dx, dy, dz))
	return ev.evalWithMatrix(expr, scope, next, 2)
}

func evalRotate(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "rotate", "at least 1", len(args))
	}
	ax, ay, az, err := ev.requireTriple(expr, args[0])
	if err != nil {
		return nil, err
	}
	next := ev.Model.Current().Matrix.Mul(rotationMatrix(ax, ay, az))
	return ev.evalWithMatrix(expr, scope, next, 2)
}

func evalMirror(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "mirror", "at least 1", len(args))
	}
	sx, sy, sz, err := ev.requireTriple(expr, args[0])
	if err != nil {
		return nil, err
	}
	next := ev.Model.Current().Matrix.Mul(mirrorMatrix(sx, sy, sz))
	return ev.evalWithMatrix(expr, scope, next, 2)
}

func evalTransform(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "transform", "at least 1", len(args))
	}
	mVal, err := ev.evalNode(args[0])
	if err != nil {
		return nil, err
	}
	m, err := matrixFromValue(loc(expr.Pos()), mVal)
	if err != nil {
		return nil, err
	}
	next := ev.Model.Current().Matrix.Mul(m)
	return ev.evalWithMatrix(expr, scope, next, 2)
}

// evalGroup implements `(group NAME BODY...)` (spec.md section 4.5):
// push a named group, evaluate the body, pop, whether or not the body
// errors.
func evalGroup(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "group", "at least 1", len(args))
	}
	nameVal, err := ev.evalNode(args[0])
	if err != nil {
		return nil, err
	}
	name, err := asString(loc(expr.Pos()), nameVal)
	if err != nil {
		return nil, err
	}
	if _, err := ev.Model.PushGroup(name); err != nil {
		if dup, ok := err.(*model.DuplicateGroupError); ok {
			return nil, lcaderr.New(lcaderr.GroupExists, loc(expr.Pos()), "%s", dup.Error())
		}
		return nil, err
	}
	result, bodyErr := ev.evalSequence(args[1:])
	ev.Model.PopGroup()
	if bodyErr != nil {
		return nil, bodyErr
	}
	return result, nil
}

func registerModel(add func(name string, b *Builtin)) {
	add("part", &Builtin{Name: "part", Sig: Signature{MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{
		{TypeName: "string", Predicate: isString},
		{TypeName: "number", Predicate: isNumber},
	}}, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		id, err := asString(loc, args[0])
		if err != nil {
			return nil, err
		}
		n, err := asNumber(loc, args[1])
		if err != nil {
			return nil, err
		}
		ev.Model.AppendPart(id, colorFromNumber(n))
		return value.Nil, nil
	}})

	add("header", &Builtin{Name: "header", Sig: Signature{MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{TypeName: "string", Predicate: isString}}},
		Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			text, err := asString(loc, args[0])
			if err != nil {
				return nil, err
			}
			ev.Model.AppendComment(text)
			return value.Nil, nil
		}})

	add("step", &Builtin{Name: "step", Sig: Signature{MinArgs: 0, MaxArgs: 0},
		Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			ev.Model.AdvanceStep()
			return value.Nil, nil
		}})

	primitive := func(name string, kind model.PrimitiveKind, numPoints int) {
		args := make([]ArgSpec, numPoints+1)
		for i := 0; i < numPoints; i++ {
			args[i] = ArgSpec{TypeName: "point", Predicate: isList}
		}
		args[numPoints] = ArgSpec{TypeName: "number", Predicate: isNumber}
		add(name, &Builtin{Name: name, Sig: Signature{MinArgs: numPoints + 1, MaxArgs: numPoints + 1, Args: args},
			Fn: func(ev *Evaluator, loc lcaderr.Location, vals []value.Value, kw map[string]value.Value) (value.Value, error) {
				points := make([][3]float64, numPoints)
				for i := 0; i < numPoints; i++ {
					pt, err := point3(loc, vals[i])
					if err != nil {
						return nil, err
					}
					points[i] = pt
				}
				n, err := asNumber(loc, vals[numPoints])
				if err != nil {
					return nil, err
				}
				ev.Model.AppendPrimitive(kind, points, colorFromNumber(n))
				return value.Nil, nil
			}})
	}
	primitive("line", model.PrimitiveLine, 2)
	primitive("triangle", model.PrimitiveTriangle, 3)
	primitive("quadrilateral", model.PrimitiveQuadrilateral, 4)
}
