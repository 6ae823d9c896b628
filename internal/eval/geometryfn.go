package eval

import (
	"github.com/HazenBabcock/opensdraw/internal/geometry"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
	"gonum.org/v1/gonum/spatial/r3"
)

func vec3FromList(loc lcaderr.Location, v value.Value) (r3.Vec, error) {
	pt, err := point3(loc, v)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: pt[0], Y: pt[1], Z: pt[2]}, nil
}

// controlPointFromList converts one `(LOC TANGENT [PERP])` entry of
// curve's control-point list (spec.md section 4.6) into a
// geometry.ControlPoint.
func controlPointFromList(loc lcaderr.Location, v value.Value) (geometry.ControlPoint, error) {
	l, err := asList(loc, v)
	if err != nil {
		return geometry.ControlPoint{}, err
	}
	if l.Len() != 2 && l.Len() != 3 {
		return geometry.ControlPoint{}, lcaderr.New(lcaderr.WrongType, loc, "a curve control point is (LOCATION TANGENT) or (LOCATION TANGENT PERP), got %d elements", l.Len())
	}
	locVal, _ := l.At(0)
	location, err := vec3FromList(loc, locVal)
	if err != nil {
		return geometry.ControlPoint{}, err
	}
	tanVal, _ := l.At(1)
	tangent, err := vec3FromList(loc, tanVal)
	if err != nil {
		return geometry.ControlPoint{}, err
	}
	cp := geometry.ControlPoint{Location: location, Tangent: tangent}
	if l.Len() == 3 {
		perpVal, _ := l.At(2)
		perp, err := vec3FromList(loc, perpVal)
		if err != nil {
			return geometry.ControlPoint{}, err
		}
		cp.Perp = perp
		cp.HasPerp = true
	}
	return cp, nil
}

func registerGeometry(add func(name string, b *Builtin)) {
	add("curve", &Builtin{Name: "curve", Sig: Signature{
		MinArgs: 1, MaxArgs: 1,
		Args: []ArgSpec{{TypeName: "list", Predicate: isList}},
		Keywords: []KeywordSpec{
			{Name: "auto-scale", TypeName: "bool", Predicate: isAny, Default: value.T},
			{Name: "extrapolate", TypeName: "bool", Predicate: isAny, Default: value.T},
			{Name: "scale", TypeName: "number", Predicate: isNumber, Default: value.Number(1)},
			{Name: "twist", TypeName: "number", Predicate: isNumber, Default: value.Number(0)},
		},
	}, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		pointsList, err := asList(loc, args[0])
		if err != nil {
			return nil, err
		}
		points := make([]geometry.ControlPoint, pointsList.Len())
		for i, v := range pointsList.Values() {
			cp, err := controlPointFromList(loc, v)
			if err != nil {
				return nil, err
			}
			points[i] = cp
		}
		scale, err := asNumber(loc, kw["scale"])
		if err != nil {
			return nil, err
		}
		twist, err := asNumber(loc, kw["twist"])
		if err != nil {
			return nil, err
		}
		opts := geometry.Options{
			AutoScale:   value.Truthy(kw["auto-scale"]),
			Extrapolate: value.Truthy(kw["extrapolate"]),
			Scale:       scale,
			Twist:       twist,
		}
		c, err := geometry.NewCurve(points, opts)
		if err != nil {
			switch err.(type) {
			case *geometry.TooFewControlPointsError:
				return nil, lcaderr.Wrap(err, lcaderr.NumberControlPoints, loc, "curve")
			case *geometry.DegenerateTangentError:
				return nil, lcaderr.Wrap(err, lcaderr.Tangent, loc, "curve")
			default:
				return nil, lcaderr.Wrap(err, lcaderr.ControlPoint, loc, "curve")
			}
		}
		for _, w := range c.Warnings() {
			ev.Warnings = append(ev.Warnings, w)
		}
		return c, nil
	}})

	add("spring", &Builtin{Name: "spring", Sig: Signature{
		MinArgs: 4, MaxArgs: 5,
		Args: []ArgSpec{
			{TypeName: "number", Predicate: isNumber},
			{TypeName: "number", Predicate: isNumber},
			{TypeName: "number", Predicate: isNumber},
			{TypeName: "number", Predicate: isNumber},
			{TypeName: "number", Predicate: isNumber},
		},
	}, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		endTurns := 2.0
		if len(ns) == 5 {
			endTurns = ns[4]
		}
		s, err := geometry.NewSpring(ns[0], ns[1], ns[2], ns[3], endTurns)
		if err != nil {
			return nil, lcaderr.Wrap(err, lcaderr.WrongType, loc, "spring")
		}
		return s, nil
	}})
}
