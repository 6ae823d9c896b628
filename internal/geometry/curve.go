package geometry

import (
	"fmt"
	"math"

	"github.com/HazenBabcock/opensdraw/internal/value"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"
)

const curveLUTSize = 100

// ControlPoint is one control point of a curve (spec.md section 4.6):
// a location, a tangent (direction; magnitude matters only when
// auto-scale is off), and, for the first point only, an approximately
// perpendicular reference vector that seeds the perpendicular
// parallel-transport.
type ControlPoint struct {
	Location r3.Vec
	Tangent  r3.Vec
	Perp     r3.Vec
	HasPerp  bool
}

// segment is one cubic-Hermite piece between two adjacent control
// points, plus its arc-length and perpendicular look-up tables.
type segment struct {
	xCoeff, yCoeff, zCoeff [4]float64
	distLUT                [][2]float64 // [param, cumulative arc length]
	xvecLUT                []r3.Vec
	length                 float64
}

// hermite solves the 4x4 system curve.py's Segment.__init__ solves:
// a cubic through (p1, p1') at parameter 0 and (p2, p2') at parameter
// 1, one axis at a time.
func hermiteCoeffs(p1, t1, p2, t2 float64) [4]float64 {
	// A is fixed for every axis (curve.py hardcodes it once); solving
	// A*c = v by hand avoids pulling in a general linear-solve
	// dependency for a system whose inverse is a small closed form:
	// basis [p^3 p^2 p 1] at p=0 gives c3=p1; derivative [3p^2 2p 1 0]
	// at p=0 gives c2=t1; at p=1, c0+c1+c2+c3=p2 and 3c0+2c1+c2=t2.
	c3 := p1
	c2 := t1
	c0 := 2*p1 - 2*p2 + t1 + t2
	c1 := -3*p1 + 3*p2 - 2*t1 - t2
	return [4]float64{c0, c1, c2, c3}
}

func newSegment(cp1, cp2 ControlPoint) *segment {
	s := &segment{}
	s.xCoeff = hermiteCoeffs(cp1.Location.X, cp1.Tangent.X, cp2.Location.X, cp2.Tangent.X)
	s.yCoeff = hermiteCoeffs(cp1.Location.Y, cp1.Tangent.Y, cp2.Location.Y, cp2.Tangent.Y)
	s.zCoeff = hermiteCoeffs(cp1.Location.Z, cp1.Tangent.Z, cp2.Location.Z, cp2.Tangent.Z)
	return s
}

func evalPoly(c [4]float64, p float64) float64 {
	return c[0]*p*p*p + c[1]*p*p + c[2]*p + c[3]
}

func evalDeriv(c [4]float64, p float64) float64 {
	return 3*c[0]*p*p + 2*c[1]*p + c[2]
}

func evalSecondDeriv(c [4]float64, p float64) float64 {
	return 6*c[0]*p + 2*c[1]
}

func (s *segment) xyz(p float64) r3.Vec {
	return r3.Vec{X: evalPoly(s.xCoeff, p), Y: evalPoly(s.yCoeff, p), Z: evalPoly(s.zCoeff, p)}
}

func (s *segment) dxyz(p float64) r3.Vec {
	return r3.Vec{X: evalDeriv(s.xCoeff, p), Y: evalDeriv(s.yCoeff, p), Z: evalDeriv(s.zCoeff, p)}
}

// curvature follows curve.py's Segment.curvature: |r' x r''| / |r'|^3.
func (s *segment) curvature(p float64) float64 {
	xp, yp, zp := evalDeriv(s.xCoeff, p), evalDeriv(s.yCoeff, p), evalDeriv(s.zCoeff, p)
	xpp, ypp, zpp := evalSecondDeriv(s.xCoeff, p), evalSecondDeriv(s.yCoeff, p), evalSecondDeriv(s.zCoeff, p)
	t1 := zpp*yp - ypp*zp
	t2 := xpp*zp - zpp*xp
	t3 := ypp*xp - xpp*yp
	num := math.Sqrt(t1*t1 + t2*t2 + t3*t3)
	den := math.Pow(xp*xp+yp*yp+zp*zp, 1.5)
	if den == 0 {
		return 0
	}
	return num / den
}

func (s *segment) maxCurvature() float64 {
	maxC := 0.0
	for i := 0; i < 100; i++ {
		p := float64(i) / 100.0
		if c := s.curvature(p); c > maxC {
			maxC = c
		}
	}
	return maxC
}

// calcLUTs builds the arc-length and perpendicular-transport tables
// (spec.md section 4.6: "100 uniform parameter samples ... each
// subsequent perp is the previous perp minus its projection onto the
// local tangent, renormalized"). startPerp is cp1's x_vec; the
// returned vector is the new cp2 x_vec to seed the next segment.
func (s *segment) calcLUTs(distOffset float64, startPerp r3.Vec) r3.Vec {
	s.distLUT = make([][2]float64, curveLUTSize)
	s.xvecLUT = make([]r3.Vec, curveLUTSize)
	s.distLUT[0] = [2]float64{0, distOffset}
	s.xvecLUT[0] = startPerp

	total := 0.0
	startXYZ := s.xyz(0)
	for i := 0; i < curveLUTSize-1; i++ {
		p := float64(i+1) / float64(curveLUTSize-1)
		endXYZ := s.xyz(p)
		d := r3.Sub(endXYZ, startXYZ)
		total += r3.Norm(d)
		s.distLUT[i+1] = [2]float64{p, total + distOffset}
		startXYZ = endXYZ

		tangent := r3.Unit(s.dxyz(p))
		s.xvecLUT[i+1] = projectOut(s.xvecLUT[i], tangent)
	}
	s.length = total
	return s.xvecLUT[curveLUTSize-1]
}

// getCoords mirrors curve.py's Segment.getCoords: extrapolate linearly
// past either end from the local tangent, otherwise bisect the LUT.
func (s *segment) getCoords(distance float64) [6]float64 {
	var p float64
	var start int
	var xyz r3.Vec

	switch {
	case distance <= s.distLUT[0][1]:
		p = 0
		start = 0
		xyz = r3.Add(s.xyz(0), r3.Scale(distance-s.distLUT[0][1], r3.Unit(s.dxyz(0))))
	case distance >= s.distLUT[curveLUTSize-1][1]:
		p = 1
		start = curveLUTSize - 1
		xyz = r3.Add(s.xyz(1), r3.Scale(distance-s.distLUT[curveLUTSize-1][1], r3.Unit(s.dxyz(1))))
	default:
		lo, hi := 0, curveLUTSize-1
		for hi-lo > 1 {
			mid := (lo + hi) / 2
			if distance > s.distLUT[mid][1] {
				lo = mid
			} else {
				hi = mid
			}
		}
		start = lo
		ratio := (distance - s.distLUT[lo][1]) / (s.distLUT[hi][1] - s.distLUT[lo][1])
		p = ratio*(s.distLUT[hi][0]-s.distLUT[lo][0]) + s.distLUT[lo][0]
		xyz = s.xyz(p)
	}

	rx, ry, rz := eulerFromFrame(s.dxyz(p), s.xvecLUT[start])
	return [6]float64{xyz.X, xyz.Y, xyz.Z, rx, ry, rz}
}

// Curve is the callable geometry object `(curve ...)` produces
// (spec.md section 4.6).
type Curve struct {
	segments    []*segment
	length      float64
	extrapolate bool
	twist       float64
	warnings    []string
}

func (*Curve) Kind() value.Kind  { return value.KindObject }
func (c *Curve) String() string  { return fmt.Sprintf("#<curve length=%g>", c.length) }
func (c *Curve) Warnings() []string { return c.warnings }

// Options bundles curve's keyword arguments (spec.md section 4.6).
type Options struct {
	AutoScale   bool
	Extrapolate bool
	Scale       float64
	Twist       float64
}

// TooFewControlPointsError reports a curve built from fewer than the
// two control points a single Hermite segment requires.
type TooFewControlPointsError struct {
	Count int
}

func (e *TooFewControlPointsError) Error() string {
	return fmt.Sprintf("a curve must have at least 2 control points, got %d", e.Count)
}

// DegenerateTangentError reports a control point whose tangent is too
// close to the zero vector to fix a direction, mirroring curve.py's
// ControlPoint.__init__ (raises TangentException when the tangent's
// squared magnitude is below 1e-3).
type DegenerateTangentError struct {
	Index int
}

func (e *DegenerateTangentError) Error() string {
	return fmt.Sprintf("control point %d has a degenerate (near-zero) tangent", e.Index)
}

const minTangentMagnitudeSquared = 1e-3

// NewCurve builds a Curve from an ordered list of control points,
// validating the count and each tangent, then delegating per-segment
// construction (including Nelder-Mead tangent auto-scaling) to
// addSegment. The perpendicular reference vector is
// parallel-transported from one segment to the next (spec.md section
// 9: "the second segment's starting perp is the first segment's
// ending perp").
func NewCurve(points []ControlPoint, opts Options) (*Curve, error) {
	if len(points) < 2 {
		return nil, &TooFewControlPointsError{Count: len(points)}
	}
	for i, p := range points {
		if r3.Dot(p.Tangent, p.Tangent) < minTangentMagnitudeSquared {
			return nil, &DegenerateTangentError{Index: i}
		}
	}
	c := &Curve{extrapolate: opts.Extrapolate, twist: opts.Twist}
	perp := points[0].Perp
	for i := 0; i < len(points)-1; i++ {
		nextPerp, err := c.addSegment(points[i], points[i+1], perp, opts)
		if err != nil {
			return nil, err
		}
		perp = nextPerp
	}
	return c, nil
}

// addSegment implements curve.py's Curve.addSegment: optionally
// rescale both endpoints' tangent magnitudes to minimize the
// resulting segment's maximum curvature before finalizing its LUTs.
// Returns the perpendicular vector to seed the next segment.
func (c *Curve) addSegment(cp1, cp2 ControlPoint, startPerp r3.Vec, opts Options) (r3.Vec, error) {
	seg := newSegment(cp1, cp2)
	if opts.AutoScale && seg.maxCurvature() >= 1.0e-2 {
		dist := r3.Sub(cp1.Location, cp2.Location)
		dScale := 2.0 * r3.Norm(dist)
		lo := 0.1 * dScale
		hi := dScale * opts.Scale
		if hi <= lo {
			hi = lo + 1e-6
		}

		t1dir := r3.Unit(cp1.Tangent)
		t2dir := r3.Unit(cp2.Tangent)

		objective := func(x []float64) float64 {
			m1 := clamp(x[0], lo, hi)
			m2 := clamp(x[1], lo, hi)
			trial := newSegment(
				ControlPoint{Location: cp1.Location, Tangent: r3.Scale(m1, t1dir)},
				ControlPoint{Location: cp2.Location, Tangent: r3.Scale(m2, t2dir)},
			)
			return trial.maxCurvature()
		}

		problem := optimize.Problem{Func: objective}
		x0 := []float64{0.5 * dScale * opts.Scale, 0.5 * dScale * opts.Scale}
		result, err := optimize.Minimize(problem, x0, &optimize.Settings{}, &optimize.NelderMead{})
		m1, m2 := x0[0], x0[1]
		if result != nil && len(result.X) == 2 {
			m1, m2 = clamp(result.X[0], lo, hi), clamp(result.X[1], lo, hi)
		}
		if err != nil || result == nil {
			c.warnings = append(c.warnings, "curve auto-scaling failed, using best point found")
		}
		cp1.Tangent = r3.Scale(m1, t1dir)
		cp2.Tangent = r3.Scale(m2, t2dir)
		seg = newSegment(cp1, cp2)
	}

	nextPerp := seg.calcLUTs(c.length, startPerp)
	c.length += seg.length
	c.segments = append(c.segments, seg)
	return nextPerp, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Length returns the curve's total arc length.
func (c *Curve) Length() float64 { return c.length }

// GetCoords implements curve.py's Curve.getCoords: locate the owning
// segment by arc length (extrapolating past either end), add the
// accumulated twist, and return (x, y, z, rx, ry, rz).
func (c *Curve) GetCoords(dist float64) [6]float64 {
	if !c.extrapolate {
		for dist < 0 {
			dist += c.length
		}
		for dist > c.length {
			dist -= c.length
		}
	}

	var seg *segment
	switch {
	case dist < 0:
		seg = c.segments[0]
	case dist > c.length:
		seg = c.segments[len(c.segments)-1]
	default:
		seg = c.segments[len(c.segments)-1]
		for _, s := range c.segments {
			if dist >= s.distLUT[0][1] && dist <= s.distLUT[curveLUTSize-1][1] {
				seg = s
				break
			}
		}
	}

	coords := seg.getCoords(dist)
	if c.length > 0 {
		coords[5] += c.twist * (dist / c.length)
	}
	return coords
}

// Call implements the structural unaryCallable interface internal/eval
// dispatches curve/spring invocations through (spec.md section 4.6:
// calling with `t` returns length, calling with a number returns the
// 6-tuple). Passing value.T as the sentinel keeps this package free of
// any dependency on internal/eval.
func (c *Curve) Call(arg value.Value) (value.Value, error) {
	if arg == value.T {
		return value.Number(c.length), nil
	}
	n, ok := arg.(value.Number)
	if !ok {
		return nil, fmt.Errorf("expected number or t, got %s", value.TypeName(arg))
	}
	coords := c.GetCoords(float64(n))
	vals := make([]value.Value, 6)
	for i, v := range coords {
		vals[i] = value.Number(v)
	}
	return value.NewList(vals...), nil
}
