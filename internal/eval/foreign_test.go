package eval

import (
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/foreignfn"
	"github.com/HazenBabcock/opensdraw/internal/model"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

func TestForeignFunctionCallableFromSource(t *testing.T) {
	registry := foreignfn.NewRegistry()
	registry.Register(&foreignfn.Func{
		Name: "double", MinArgs: 1, MaxArgs: 1,
		Handler: func(m *model.Model, args []value.Value) (value.Value, error) {
			n := args[0].(value.Number)
			return value.Number(2 * n), nil
		},
	})

	ev := NewEvaluator(0, "")
	if err := ev.RegisterForeign(registry); err != nil {
		t.Fatal(err)
	}
	v, err := ev.Evaluate("(double 21)", "t.lcad")
	if err != nil {
		t.Fatal(err)
	}
	if n := asNumberT(t, v); n != 42 {
		t.Fatalf("(double 21) = %v, want 42", n)
	}
}

func TestForeignFunctionCollidesWithBuiltin(t *testing.T) {
	registry := foreignfn.NewRegistry()
	registry.Register(&foreignfn.Func{
		Name: "+", MinArgs: 0, MaxArgs: -1,
		Handler: func(m *model.Model, args []value.Value) (value.Value, error) { return value.Nil, nil },
	})
	ev := NewEvaluator(0, "")
	if err := ev.RegisterForeign(registry); err == nil {
		t.Fatal("expected registering over a built-in name to fail")
	}
}
