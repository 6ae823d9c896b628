// Package foreignfn implements spec.md section 4.8's foreign-function
// registry: a host program registers additional named built-ins,
// each with a typed arg signature, before evaluation begins; the
// evaluator calls them exactly like its own built-ins, handing the
// handler the evaluated arguments and the in-flight Model.
//
// Grounded on sentra/internal/module/module.go's NativeFunction
// registry concept (name -> handler map, registered ahead of
// execution) and sentra/internal/packages/resolver.go's
// cache-by-name idiom for duplicate-registration detection.
package foreignfn

import (
	"fmt"

	"github.com/HazenBabcock/opensdraw/internal/model"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// ArgSpec validates one positional argument of a registered function.
type ArgSpec struct {
	TypeName  string
	Predicate func(value.Value) bool
}

// Handler is the host-supplied implementation of a foreign function.
// It receives the in-flight Model so host functions like `picture`
// (spec.md section 2: "an optional host-provided registry of
// additional native functions") can append entries to it directly.
type Handler func(m *model.Model, args []value.Value) (value.Value, error)

// Func is one registered foreign function.
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int // < 0 means unbounded; excess args are checked against the last ArgSpec, if any
	Args    []ArgSpec
	Handler Handler
}

func (f *Func) arityOK(n int) bool {
	return n >= f.MinArgs && (f.MaxArgs < 0 || n <= f.MaxArgs)
}

func (f *Func) argSpec(i int) (ArgSpec, bool) {
	switch {
	case i < len(f.Args):
		return f.Args[i], true
	case len(f.Args) > 0:
		return f.Args[len(f.Args)-1], true
	default:
		return ArgSpec{}, false
	}
}

// Registry holds the host's foreign-function table. Populated once at
// startup (spec.md section 5: "the built-in symbol table and the
// optional foreign-function registry are populated once at startup"),
// then consulted read-only during evaluation.
type Registry struct {
	fns map[string]*Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]*Func)}
}

// Register adds fn to the registry. It is an error to register the
// same name twice or to shadow a name already present.
func (r *Registry) Register(fn *Func) error {
	if fn.Name == "" {
		return fmt.Errorf("foreign function must have a name")
	}
	if _, exists := r.fns[fn.Name]; exists {
		return fmt.Errorf("foreign function %q is already registered", fn.Name)
	}
	r.fns[fn.Name] = fn
	return nil
}

// Lookup returns the registered function named name, if any.
func (r *Registry) Lookup(name string) (*Func, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns every registered function name, for diagnostics and
// for the evaluator's builtin-collision check at install time.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	return names
}

// Call validates args against fn's signature and invokes its handler.
func (fn *Func) Call(m *model.Model, args []value.Value) (value.Value, error) {
	if !fn.arityOK(len(args)) {
		return nil, fmt.Errorf("%s: expected %s arguments, got %d", fn.Name, fn.arityDescription(), len(args))
	}
	for i, v := range args {
		spec, ok := fn.argSpec(i)
		if !ok {
			continue
		}
		if spec.Predicate != nil && !spec.Predicate(v) {
			return nil, fmt.Errorf("%s: argument %d: expected %s, got %s", fn.Name, i+1, spec.TypeName, value.TypeName(v))
		}
	}
	return fn.Handler(m, args)
}

func (fn *Func) arityDescription() string {
	switch {
	case fn.MaxArgs < 0:
		return fmt.Sprintf("at least %d", fn.MinArgs)
	case fn.MinArgs == fn.MaxArgs:
		return fmt.Sprintf("%d", fn.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", fn.MinArgs, fn.MaxArgs)
	}
}
