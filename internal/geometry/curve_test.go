package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func straightCurve(t *testing.T) *Curve {
	t.Helper()
	points := []ControlPoint{
		{Location: r3.Vec{X: 0, Y: 0, Z: 0}, Tangent: r3.Vec{X: 1, Y: 0, Z: 0}, Perp: r3.Vec{X: 0, Y: 1, Z: 0}, HasPerp: true},
		{Location: r3.Vec{X: 10, Y: 0, Z: 0}, Tangent: r3.Vec{X: 1, Y: 0, Z: 0}},
	}
	c, err := NewCurve(points, Options{AutoScale: false, Extrapolate: true, Scale: 1.0})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCurveLengthNonNegative(t *testing.T) {
	c := straightCurve(t)
	if c.Length() < 0 {
		t.Fatalf("expected non-negative length, got %g", c.Length())
	}
}

func TestCurveStartAndEndMatchControlPoints(t *testing.T) {
	c := straightCurve(t)
	start := c.GetCoords(0)
	if math.Abs(start[0]) > 0.1 || math.Abs(start[1]) > 0.1 || math.Abs(start[2]) > 0.1 {
		t.Fatalf("expected curve start near origin, got %v", start)
	}
	end := c.GetCoords(c.Length())
	if math.Abs(end[0]-10) > 0.1 {
		t.Fatalf("expected curve end near x=10, got %v", end)
	}
}

func TestCurveMidpointApproximatelyLinear(t *testing.T) {
	c := straightCurve(t)
	mid := c.GetCoords(5)
	if math.Abs(mid[0]-5) > 0.2 {
		t.Fatalf("expected midpoint near x=5, got %v", mid)
	}
}

func TestCurveRequiresAtLeastTwoPoints(t *testing.T) {
	_, err := NewCurve([]ControlPoint{{}}, Options{})
	if err == nil {
		t.Fatal("expected an error for fewer than 2 control points")
	}
	if _, ok := err.(*TooFewControlPointsError); !ok {
		t.Fatalf("expected a *TooFewControlPointsError, got %T", err)
	}
}

func TestCurveRejectsDegenerateTangent(t *testing.T) {
	points := []ControlPoint{
		{Location: r3.Vec{X: 0, Y: 0, Z: 0}, Tangent: r3.Vec{X: 0, Y: 0, Z: 0}},
		{Location: r3.Vec{X: 10, Y: 0, Z: 0}, Tangent: r3.Vec{X: 1, Y: 0, Z: 0}},
	}
	_, err := NewCurve(points, Options{})
	if err == nil {
		t.Fatal("expected an error for a near-zero tangent")
	}
	if _, ok := err.(*DegenerateTangentError); !ok {
		t.Fatalf("expected a *DegenerateTangentError, got %T", err)
	}
}

func TestCurveExtrapolatesPastEnds(t *testing.T) {
	c := straightCurve(t)
	beyond := c.GetCoords(c.Length() + 5)
	if beyond[0] < 10 {
		t.Fatalf("expected extrapolation past the end, got %v", beyond)
	}
}

func TestThreeControlPointCurvePropagatesPerp(t *testing.T) {
	points := []ControlPoint{
		{Location: r3.Vec{X: 0, Y: 0, Z: 0}, Tangent: r3.Vec{X: 1, Y: 1, Z: 0}, Perp: r3.Vec{X: 0, Y: 0, Z: 1}, HasPerp: true},
		{Location: r3.Vec{X: 2, Y: 0, Z: 0}, Tangent: r3.Vec{X: 1, Y: 0, Z: 0}},
		{Location: r3.Vec{X: 4, Y: 0, Z: 0}, Tangent: r3.Vec{X: 1, Y: 1, Z: 0}},
	}
	c, err := NewCurve(points, Options{AutoScale: false, Extrapolate: true, Scale: 1.0})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(c.segments))
	}
}
