package foreignfn

import (
	"testing"

	"github.com/HazenBabcock/opensdraw/internal/model"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	fn := &Func{
		Name: "double", MinArgs: 1, MaxArgs: 1,
		Args: []ArgSpec{{TypeName: "number", Predicate: func(v value.Value) bool {
			_, ok := v.(value.Number)
			return ok
		}}},
		Handler: func(m *model.Model, args []value.Value) (value.Value, error) {
			n := args[0].(value.Number)
			return value.Number(2 * n), nil
		},
	}
	if err := r.Register(fn); err != nil {
		t.Fatal(err)
	}
	got, ok := r.Lookup("double")
	if !ok {
		t.Fatal("expected double to be registered")
	}
	result, err := got.Call(nil, []value.Value{value.Number(3)})
	if err != nil {
		t.Fatal(err)
	}
	if n := result.(value.Number); n != 6 {
		t.Fatalf("double(3) = %v, want 6", n)
	}
}

func TestRegisterDuplicateErrors(t *testing.T) {
	r := NewRegistry()
	fn := &Func{Name: "f", MinArgs: 0, MaxArgs: 0, Handler: func(m *model.Model, args []value.Value) (value.Value, error) {
		return value.Nil, nil
	}}
	if err := r.Register(fn); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(fn); err == nil {
		t.Fatal("expected an error registering the same name twice")
	}
}

func TestCallArityError(t *testing.T) {
	r := NewRegistry()
	fn := &Func{Name: "f", MinArgs: 1, MaxArgs: 1, Handler: func(m *model.Model, args []value.Value) (value.Value, error) {
		return value.Nil, nil
	}}
	r.Register(fn)
	if _, err := fn.Call(nil, nil); err == nil {
		t.Fatal("expected an arity error calling with 0 args")
	}
}
