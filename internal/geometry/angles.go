// Package geometry implements the parametric-geometry helpers spec.md
// section 4.6/4.7 describes: cubic-Hermite spline curves and helical
// springs, both exposing a distance -> (x, y, z, rx, ry, rz) callable.
//
// Grounded on original_source/opensdraw/lcad_language/curve.py and
// spring.py for the exact math (Hermite basis solved via a fixed 4x4
// coefficient matrix, parallel-transported perpendiculars, the
// Nelder-Mead tangent auto-scale, and the Euler-angle extraction
// convention shared by both builders), reimplemented against gonum's
// spatial/r3 and optimize packages in place of numpy/scipy. No repo in
// the example corpus does spline or helix math; the idiomatic Go shape
// of an `Evaluate(t, ...)` spline method with basis-function helpers
// follows _examples/other_examples' soypat-glgl spline evaluator.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const radToDeg = 180.0 / math.Pi

// eulerFromFrame extracts (rx, ry, rz) in degrees that rotate the
// world frame into the local (xVec, zVec, yVec=z×x) frame, following
// curve.py's Segment.angles / spring.py's angles.vectorsToAngles
// convention (spec.md section 4.6's "Euler extraction").
func eulerFromFrame(zVec, xVec r3.Vec) (rx, ry, rz float64) {
	zVec = r3.Unit(zVec)
	xVec = r3.Unit(r3.Sub(xVec, r3.Scale(r3.Dot(xVec, zVec), zVec)))
	yVec := r3.Cross(zVec, xVec)

	ry = math.Atan2(-zVec.X, math.Sqrt(zVec.Y*zVec.Y+zVec.Z*zVec.Z))
	if math.Abs(math.Cos(ry)) < 1.0e-3 {
		rx = 0
		rz = math.Atan2(xVec.Y, yVec.Y)
	} else {
		rx = math.Atan2(-zVec.Y, zVec.Z)
		rz = math.Atan2(-yVec.X, xVec.X)
	}
	return rx * radToDeg, ry * radToDeg, rz * radToDeg
}

func projectOut(v, onto r3.Vec) r3.Vec {
	onto = r3.Unit(onto)
	return r3.Unit(r3.Sub(v, r3.Scale(r3.Dot(v, onto), onto)))
}
