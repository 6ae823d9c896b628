package eval

import (
	"math"
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// spec.md section 8 scenario: curve arc-length lookup for a straight
// segment should return close to the true Euclidean length.
func TestCurveStraightLineLookup(t *testing.T) {
	result := mustEval(t, `(curve (list
		(list (list 0 0 0) (list 1 0 0))
		(list (list 5 0 0) (list 1 0 0))))`)
	c, ok := result.(unaryCallable)
	if !ok {
		t.Fatalf("curve did not return a callable, got %s", value.TypeName(result))
	}
	v, err := c.Call(value.T)
	if err != nil {
		t.Fatal(err)
	}
	length := asNumberT(t, v)
	if math.Abs(length-5.0) > 0.05 {
		t.Fatalf("curve length = %v, want ~5.0", length)
	}
}

func TestSpringBuiltinLength(t *testing.T) {
	result := mustEval(t, `(spring 10 5 1 3)`)
	s, ok := result.(unaryCallable)
	if !ok {
		t.Fatalf("spring did not return a callable, got %s", value.TypeName(result))
	}
	if _, err := s.Call(value.T); err != nil {
		t.Fatal(err)
	}
}

// spec.md section 4.7: a 4-argument (spring L D G T) call must default
// end-turns to 2, not 0, so the spring still has its two end pieces.
func TestSpringDefaultsEndTurnsToTwo(t *testing.T) {
	fourArg := mustEval(t, `(spring 10 5 1 3)`).(unaryCallable)
	fiveArg := mustEval(t, `(spring 10 5 1 3 2)`).(unaryCallable)

	lFour, err := fourArg.Call(value.T)
	if err != nil {
		t.Fatal(err)
	}
	lFive, err := fiveArg.Call(value.T)
	if err != nil {
		t.Fatal(err)
	}
	if asNumberT(t, lFour) != asNumberT(t, lFive) {
		t.Fatalf("4-arg spring length %v should match explicit end-turns 2 length %v", lFour, lFive)
	}
}

// spec.md section 4.6: extrapolate must default to true.
func TestCurveDefaultsExtrapolateToTrue(t *testing.T) {
	result := mustEval(t, `(curve (list
		(list (list 0 0 0) (list 1 0 0))
		(list (list 5 0 0) (list 1 0 0))))`)
	c, ok := result.(unaryCallable)
	if !ok {
		t.Fatalf("curve did not return a callable, got %s", value.TypeName(result))
	}
	beyond, err := c.Call(value.Number(10))
	if err != nil {
		t.Fatal(err)
	}
	l, ok := beyond.(*value.List)
	if !ok || l.Len() != 6 {
		t.Fatalf("expected a 6-element coordinate list, got %v", beyond)
	}
	x, _ := l.At(0)
	if asNumberT(t, x) < 5.0 {
		t.Fatalf("expected extrapolation past the curve's end, got x=%v", x)
	}
}

func TestCurveTooFewControlPointsIsNumberControlPointsKind(t *testing.T) {
	err := wantError(t, `(curve (list (list (list 0 0 0) (list 1 0 0))))`)
	lerr, ok := err.(*lcaderr.Error)
	if !ok {
		t.Fatalf("expected *lcaderr.Error, got %T", err)
	}
	if lerr.Kind != lcaderr.NumberControlPoints {
		t.Fatalf("expected Kind NumberControlPoints, got %s", lerr.Kind)
	}
}

func TestCurveDegenerateTangentIsTangentKind(t *testing.T) {
	err := wantError(t, `(curve (list
		(list (list 0 0 0) (list 0 0 0))
		(list (list 5 0 0) (list 1 0 0))))`)
	lerr, ok := err.(*lcaderr.Error)
	if !ok {
		t.Fatalf("expected *lcaderr.Error, got %T", err)
	}
	if lerr.Kind != lcaderr.Tangent {
		t.Fatalf("expected Kind Tangent, got %s", lerr.Kind)
	}
}
