package eval

import (
	"fmt"

	"github.com/HazenBabcock/opensdraw/internal/foreignfn"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// RegisterForeign installs every function in registry into the root
// scope as an ordinary built-in (spec.md section 4.8: "host may
// register additional named built-ins before evaluation"). Must be
// called before Evaluate; registering over an existing name (built-in
// or previously registered foreign function) is an error rather than
// a silent shadow.
func (ev *Evaluator) RegisterForeign(registry *foreignfn.Registry) error {
	if registry == nil {
		return nil
	}
	for _, name := range registry.Names() {
		if ev.Root.IsBuiltin(name) {
			return fmt.Errorf("foreign function %q collides with an existing built-in", name)
		}
		fn, _ := registry.Lookup(name)
		ev.Root.Define(name, value.NewCell(wrapForeign(fn)))
	}
	return nil
}

func wrapForeign(fn *foreignfn.Func) *Builtin {
	return &Builtin{
		Name: fn.Name,
		Sig:  Signature{MinArgs: fn.MinArgs, MaxArgs: fn.MaxArgs, Args: nil},
		Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
			result, err := fn.Call(ev.Model, args)
			if err != nil {
				return nil, lcaderr.Wrap(err, lcaderr.ForeignFunctionError, loc, fmt.Sprintf("foreign function %q failed", fn.Name))
			}
			return result, nil
		},
	}
}
