// Package lcadtest provides fixture-driven test helpers for the
// opensdraw language: evaluate a short snippet or a `.lcad` fixture
// file and assert on its top-level value, the way
// original_source/lcad_language/test/test_all.py's exe() helper
// wraps interpreter.interpret()+getv() for every one of its Nose
// tests.
//
// Unlike sentra's internal/testing package (its own TestSuite/
// TestRunner/TestReporter machinery, built because sentra's ".sn"
// scripts are not Go and so cannot ride go test directly), opensdraw
// fixtures are consumed from ordinary package _test.go files that
// already run under `go test`. There is no reason to reimplement a
// parallel suite runner, reporter, or CLI filter flag on top of it;
// this package only supplies the Eval/EvalFixture/AssertEqual
// primitives that a table-driven Go test needs, and a fixture
// directory walker for the "one `.lcad` file per behavior" layout
// test_all.py uses, modeled on sentra's DiscoverTests.
package lcadtest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/eval"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// Eval evaluates source against a fresh Evaluator and returns its
// final top-level value, failing the test immediately on any
// evaluation error.
func Eval(t *testing.T, source string) value.Value {
	t.Helper()
	ev := eval.NewEvaluator(0, "")
	v, err := ev.Evaluate(source, t.Name())
	if err != nil {
		t.Fatalf("evaluating %q: %v", source, err)
	}
	return v
}

// EvalWith is Eval, but against a caller-supplied Evaluator, so a
// test can inspect ev.Model afterward (part counts, groups, and so
// on) instead of only the returned value.
func EvalWith(t *testing.T, ev *eval.Evaluator, source string) value.Value {
	t.Helper()
	v, err := ev.Evaluate(source, t.Name())
	if err != nil {
		t.Fatalf("evaluating %q: %v", source, err)
	}
	return v
}

// EvalFixture reads and evaluates the `.lcad` file at path, relative
// to dir (typically "testdata" in the calling package).
func EvalFixture(t *testing.T, dir, name string) value.Value {
	t.Helper()
	path := filepath.Join(dir, name)
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	ev := eval.NewEvaluator(0, dir)
	v, err := ev.Evaluate(string(src), path)
	if err != nil {
		t.Fatalf("evaluating fixture %s: %v", path, err)
	}
	return v
}

// WantError evaluates source and fails the test unless evaluation
// returns an error, mirroring test_all.py's handful of
// assert_raises-style cases (a bad arity, an unknown symbol).
func WantError(t *testing.T, source string) error {
	t.Helper()
	ev := eval.NewEvaluator(0, "")
	_, err := ev.Evaluate(source, t.Name())
	if err == nil {
		t.Fatalf("evaluating %q: expected an error, got none", source)
	}
	return err
}

// AssertEqual compares two values by their formatted text, the same
// shallow comparison test_all.py's `==` performs against Python's
// native float/str/list equality. Two Numbers are compared with a
// small epsilon; every other value is compared by its String() text.
func AssertEqual(t *testing.T, got, want value.Value, msg string) {
	t.Helper()
	if numbersEqual(got, want) {
		return
	}
	if got.String() != want.String() {
		t.Errorf("%s: got %s, want %s", msg, got.String(), want.String())
	}
}

func numbersEqual(got, want value.Value) bool {
	gn, ok := got.(value.Number)
	if !ok {
		return false
	}
	wn, ok := want.(value.Number)
	if !ok {
		return false
	}
	const epsilon = 1e-9
	diff := float64(gn) - float64(wn)
	if diff < 0 {
		diff = -diff
	}
	return diff <= epsilon
}

// AssertTrue fails the test unless v is truthy under the language's
// own truthiness rule (spec.md section 3), rather than Go's bool
// conversion.
func AssertTrue(t *testing.T, v value.Value, msg string) {
	t.Helper()
	if !value.Truthy(v) {
		t.Errorf("%s: expected a truthy value, got %s", msg, v.String())
	}
}

// DiscoverFixtures lists every `.lcad` fixture file directly under
// dir, sorted by filepath.Glob's lexical order. Grounded on sentra's
// internal/testing.DiscoverTests, trimmed to a single flat directory
// since opensdraw's fixtures live one level deep under each package's
// testdata, not in a nested suite tree.
func DiscoverFixtures(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.lcad"))
	if err != nil {
		return nil, fmt.Errorf("discovering fixtures in %s: %w", dir, err)
	}
	return matches, nil
}
