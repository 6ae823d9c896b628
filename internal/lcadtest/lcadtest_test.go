package lcadtest

import (
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/value"
)

func TestEvalReturnsTopLevelValue(t *testing.T) {
	got := Eval(t, "(+ 1 2)")
	AssertEqual(t, got, value.Number(3), "(+ 1 2)")
}

func TestAssertEqualWithinEpsilon(t *testing.T) {
	got := Eval(t, "(* pi 2)")
	AssertEqual(t, got, value.Number(6.283185307179586), "(* pi 2)")
}

func TestAssertTrueUsesLanguageTruthiness(t *testing.T) {
	AssertTrue(t, Eval(t, "(if (= 1 1) t nil)"), "(= 1 1)")
}

func TestWantErrorOnUnknownSymbol(t *testing.T) {
	if err := WantError(t, "(undefined-symbol)"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestEvalFixture(t *testing.T) {
	got := EvalFixture(t, "testdata", "incf.lcad")
	AssertEqual(t, got, value.Number(7), "incf.lcad")
}

func TestDiscoverFixtures(t *testing.T) {
	matches, err := DiscoverFixtures("testdata")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 fixture, got %d: %v", len(matches), matches)
	}
}
