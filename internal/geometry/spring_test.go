package geometry

import (
	"math"
	"testing"
)

func TestSpringLengthPositive(t *testing.T) {
	s, err := NewSpring(40, 10, 1, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Length() <= 0 {
		t.Fatalf("expected positive length, got %g", s.Length())
	}
}

func TestSpringStartAtZ(t *testing.T) {
	s, err := NewSpring(40, 10, 1, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	start := s.GetCoords(0)
	if start[2] < 0 || start[2] > 2 {
		t.Fatalf("expected start z near the base of the spring, got %v", start)
	}
}

func TestSpringRadiusHeldConstant(t *testing.T) {
	s, err := NewSpring(40, 10, 1, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []float64{0, 5, 20, 35, s.Length()} {
		c := s.GetCoords(d)
		r := math.Hypot(c[0], c[1])
		if math.Abs(r-s.radius) > 1e-6 {
			t.Fatalf("expected radius %g at distance %g, got %g", s.radius, d, r)
		}
	}
}

func TestSpringClampsOutOfRangeDistance(t *testing.T) {
	s, err := NewSpring(40, 10, 1, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	atEnd := s.GetCoords(s.Length())
	past := s.GetCoords(s.Length() + 100)
	if atEnd != past {
		t.Fatalf("expected distance past the end to clamp to the end: %v vs %v", atEnd, past)
	}
	before := s.GetCoords(-10)
	atStart := s.GetCoords(0)
	if before != atStart {
		t.Fatalf("expected negative distance to clamp to the start: %v vs %v", before, atStart)
	}
}

func TestSpringWithNoEndTurns(t *testing.T) {
	s, err := NewSpring(40, 10, 1, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.pieces) != 1 {
		t.Fatalf("expected a single middle piece with no end turns, got %d", len(s.pieces))
	}
}
