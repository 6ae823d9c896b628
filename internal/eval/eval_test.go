package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/value"
)

func mustEval(t *testing.T, source string) value.Value {
	t.Helper()
	ev := NewEvaluator(0, "")
	v, err := ev.Evaluate(source, "t.lcad")
	if err != nil {
		t.Fatalf("evaluating %q: %v", source, err)
	}
	return v
}

func wantError(t *testing.T, source string) error {
	t.Helper()
	ev := NewEvaluator(0, "")
	_, err := ev.Evaluate(source, "t.lcad")
	if err == nil {
		t.Fatalf("evaluating %q: expected an error, got none", source)
	}
	return err
}

func asNumberT(t *testing.T, v value.Value) float64 {
	t.Helper()
	n, ok := v.(value.Number)
	if !ok {
		t.Fatalf("expected a number, got %s", value.TypeName(v))
	}
	return float64(n)
}

// print must write through the Evaluator's configured Out, not
// directly to the process's real stdout, so a test (or a host
// embedding the evaluator) can capture it.
func TestPrintWritesToEvaluatorOut(t *testing.T) {
	ev := NewEvaluator(0, "")
	var buf bytes.Buffer
	ev.Out = &buf
	if _, err := ev.Evaluate(`(print "hello" 1 2)`, "t.lcad"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != `hello 1 2` {
		t.Fatalf("print output = %q, want %q", got, "hello 1 2")
	}
}

func TestArithmeticAndComparison(t *testing.T) {
	if n := asNumberT(t, mustEval(t, "(+ 1 2 3)")); n != 6 {
		t.Fatalf("(+ 1 2 3) = %v, want 6", n)
	}
	if n := asNumberT(t, mustEval(t, "(* 2 3 4)")); n != 24 {
		t.Fatalf("(* 2 3 4) = %v, want 24", n)
	}
	if !value.Truthy(mustEval(t, "(< 1 2)")) {
		t.Fatal("(< 1 2) should be truthy")
	}
	if value.Truthy(mustEval(t, "(< 2 1)")) {
		t.Fatal("(< 2 1) should be falsy")
	}
}

func TestTruthiness(t *testing.T) {
	if value.Truthy(mustEval(t, "nil")) {
		t.Fatal("nil must be falsy")
	}
	if !value.Truthy(mustEval(t, "t")) {
		t.Fatal("t must be truthy")
	}
	if !value.Truthy(mustEval(t, "0")) {
		t.Fatal("0 is truthy: only nil and the empty list are falsy")
	}
}

// spec.md section 8 scenario: def + set (aref ...) + aref mutation.
func TestDefSetArefMutation(t *testing.T) {
	result := mustEval(t, `(block
		(def xs (list 1 2 3))
		(set (aref xs 1) 4)
		(aref xs 1))`)
	if n := asNumberT(t, result); n != 4 {
		t.Fatalf("aref after set = %v, want 4", n)
	}
}

// spec.md section 8 scenario: a keyword-argument function call.
func TestUserFunctionKeywordArgument(t *testing.T) {
	result := mustEval(t, `(block
		(def add (a :b 3) (+ a b))
		(add 1 :b 3))`)
	if n := asNumberT(t, result); n != 4 {
		t.Fatalf("(add 1 :b 3) = %v, want 4", n)
	}
}

func TestUserFunctionKeywordDefault(t *testing.T) {
	result := mustEval(t, `(block
		(def add (a :b 3) (+ a b))
		(add 1))`)
	if n := asNumberT(t, result); n != 4 {
		t.Fatalf("(add 1) with defaulted :b = %v, want 4", n)
	}
}

// spec.md section 8 scenario: for-loop summation.
func TestForLoopSummation(t *testing.T) {
	result := mustEval(t, `(block
		(def total 0)
		(for (i 1 11) (set total (+ total i)))
		total)`)
	if n := asNumberT(t, result); n != 55 {
		t.Fatalf("sum 1..10 = %v, want 55", n)
	}
}

func TestForLoopOverList(t *testing.T) {
	result := mustEval(t, `(block
		(def total 0)
		(for (x (list 1 2 3 4)) (set total (+ total x)))
		total)`)
	if n := asNumberT(t, result); n != 10 {
		t.Fatalf("sum over list = %v, want 10", n)
	}
}

func TestCondAndIf(t *testing.T) {
	if n := asNumberT(t, mustEval(t, `(if (< 1 2) 10 20)`)); n != 10 {
		t.Fatalf("if true branch = %v, want 10", n)
	}
	if n := asNumberT(t, mustEval(t, `(if (> 1 2) 10 20)`)); n != 20 {
		t.Fatalf("if false branch = %v, want 20", n)
	}
	result := mustEval(t, `(cond ((> 1 2) 1) ((< 1 2) 2) (t 3))`)
	if n := asNumberT(t, result); n != 2 {
		t.Fatalf("cond second clause = %v, want 2", n)
	}
}

func TestWhileLoop(t *testing.T) {
	result := mustEval(t, `(block
		(def i 0)
		(while (< i 5) (set i (+ i 1)))
		i)`)
	if n := asNumberT(t, result); n != 5 {
		t.Fatalf("while loop counter = %v, want 5", n)
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	if value.Truthy(mustEval(t, "(and 1 nil 3)")) {
		t.Fatal("(and 1 nil 3) should be falsy")
	}
	if !value.Truthy(mustEval(t, "(or nil nil 3)")) {
		t.Fatal("(or nil nil 3) should be truthy")
	}
}

func TestRecursiveUserFunction(t *testing.T) {
	result := mustEval(t, `(block
		(def fact (n) (if (< n 2) 1 (* n (fact (- n 1)))))
		(fact 5))`)
	if n := asNumberT(t, result); n != 120 {
		t.Fatalf("(fact 5) = %v, want 120", n)
	}
}

func TestCallingNonFunctionErrors(t *testing.T) {
	wantError(t, "(1 2 3)")
}

func TestArefOutOfRangeErrors(t *testing.T) {
	wantError(t, "(aref (list 1 2 3) 10)")
}

func TestUnknownKeywordErrors(t *testing.T) {
	wantError(t, `(block (def f (a :b 1) a) (f 1 :c 2))`)
}

// spec.md section 8 scenario: translate + part serialization-ready
// state (the model records one part, positioned by the translation).
func TestTranslateAndPart(t *testing.T) {
	ev := NewEvaluator(0, "")
	if _, err := ev.Evaluate(`(translate (1 2 3) (part "3001" 4))`, "t.lcad"); err != nil {
		t.Fatal(err)
	}
	entries := ev.Model.Current().Entries
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry recorded, got %d", len(entries))
	}
}

func TestGroupPushAndPop(t *testing.T) {
	ev := NewEvaluator(0, "")
	if _, err := ev.Evaluate(`(group "sub" (part "3001" 4))`, "t.lcad"); err != nil {
		t.Fatal(err)
	}
	if len(ev.Model.Groups()) != 2 {
		t.Fatalf("expected 2 groups (main + sub), got %d", len(ev.Model.Groups()))
	}
	if len(ev.Model.Current().Entries) != 0 {
		t.Fatal("expected the main group to be current again after group's body finishes")
	}
}
