package geometry

import (
	"fmt"
	"math"

	"github.com/HazenBabcock/opensdraw/internal/value"
	"gonum.org/v1/gonum/spatial/r3"
)

// springPiece is one of the up to three helical pieces (start
// end-turns, middle turns, end end-turns) spring.py's Spring.__init__
// builds into the fz table.
type springPiece struct {
	distEnd    float64 // cumulative distance at which this piece ends
	zStart     float64 // z height at the start of this piece
	distStart  float64 // cumulative distance at the start of this piece
	cosPitch   float64 // z2/d2-style pitch cosine for this piece
}

// Spring is the callable geometry object `(spring ...)` produces
// (spec.md section 4.7): a three-piece helical path along +z.
type Spring struct {
	radius float64
	pieces []springPiece
	length float64
}

func (*Spring) Kind() value.Kind { return value.KindObject }
func (s *Spring) String() string { return fmt.Sprintf("#<spring length=%g>", s.length) }

// NewSpring builds the helix piece table exactly as spring.py's
// Spring.__init__ does: start end-turns (if endTurns > 0), middle
// turns, end end-turns (if endTurns > 0).
func NewSpring(length, diameter, gauge, turns, endTurns float64) (*Spring, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("spring diameter must be positive, got %g", diameter)
	}
	s := &Spring{radius: 0.5 * diameter}

	c1 := math.Pi * diameter * endTurns
	z1 := gauge * endTurns
	d1 := math.Sqrt(c1*c1 + z1*z1)
	if endTurns > 0 {
		s.pieces = append(s.pieces, springPiece{
			distEnd:   d1,
			zStart:    0.5 * gauge,
			distStart: 0,
			cosPitch:  z1 / d1,
		})
	}

	c2 := math.Pi * diameter * turns
	z2 := length - gauge - 2.0*z1
	d2 := math.Sqrt(c2*c2 + z2*z2)
	s.pieces = append(s.pieces, springPiece{
		distEnd:   d2 + d1,
		zStart:    0.5*gauge + z1,
		distStart: d1,
		cosPitch:  z2 / d2,
	})

	if endTurns > 0 {
		s.pieces = append(s.pieces, springPiece{
			distEnd:   d2 + 2*d1,
			zStart:    0.5*gauge + z1 + z2,
			distStart: d2 + d1,
			cosPitch:  z1 / d1,
		})
	}

	s.length = d2 + 2*d1
	return s, nil
}

// Length returns the spring's total path length.
func (s *Spring) Length() float64 { return s.length }

// GetCoords mirrors spring.py's Spring.getCoords: clamp distance to
// [0, length], locate the owning piece, and evaluate the helix.
func (s *Spring) GetCoords(distance float64) [6]float64 {
	if distance < 0 {
		distance = 0
	} else if distance > s.length {
		distance = s.length
	}

	piece := s.pieces[len(s.pieces)-1]
	for _, pc := range s.pieces {
		if distance <= pc.distEnd {
			piece = pc
			break
		}
	}

	d := distance - piece.distStart
	a := math.Sqrt(1.0 - piece.cosPitch*piece.cosPitch)
	theta := d * a / s.radius
	cosT, sinT := math.Cos(theta), math.Sin(theta)

	x := s.radius * cosT
	y := s.radius * sinT
	z := d*piece.cosPitch + piece.zStart

	xVec := r3.Unit(r3.Vec{X: x, Y: y, Z: 0})
	zVec := r3.Unit(r3.Vec{X: -sinT * a, Y: cosT * a, Z: piece.cosPitch})

	rx, ry, rz := eulerFromFrame(zVec, xVec)
	return [6]float64{x, y, z, rx, ry, rz}
}

// Call implements the structural unaryCallable interface internal/eval
// dispatches curve/spring invocations through, identical in shape to
// Curve.Call (spec.md section 4.7 reuses the curve-function calling
// convention verbatim).
func (s *Spring) Call(arg value.Value) (value.Value, error) {
	if arg == value.T {
		return value.Number(s.length), nil
	}
	n, ok := arg.(value.Number)
	if !ok {
		return nil, fmt.Errorf("expected number or t, got %s", value.TypeName(arg))
	}
	coords := s.GetCoords(float64(n))
	vals := make([]value.Value, 6)
	for i, v := range coords {
		vals[i] = value.Number(v)
	}
	return value.NewList(vals...), nil
}
