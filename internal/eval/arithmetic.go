package eval

import (
	"math"

	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// numArgs converts a validated []value.Value (already type-checked by
// Signature.validate against isNumber) to a []float64.
func numArgs(loc lcaderr.Location, args []value.Value) ([]float64, error) {
	out := make([]float64, len(args))
	for i, v := range args {
		n, err := asNumber(loc, v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func registerArithmetic(add func(name string, b *Builtin)) {
	numSig := Signature{MinArgs: 1, MaxArgs: -1, Args: []ArgSpec{{TypeName: "number", Predicate: isNumber}}}
	binSig := Signature{MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{{TypeName: "number", Predicate: isNumber}}}

	add("+", &Builtin{Name: "+", Sig: numSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		sum := 0.0
		for _, n := range ns {
			sum += n
		}
		return value.Number(sum), nil
	}})

	add("-", &Builtin{Name: "-", Sig: numSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		if len(ns) == 1 {
			return value.Number(-ns[0]), nil
		}
		result := ns[0]
		for _, n := range ns[1:] {
			result -= n
		}
		return value.Number(result), nil
	}})

	add("*", &Builtin{Name: "*", Sig: numSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		product := 1.0
		for _, n := range ns {
			product *= n
		}
		return value.Number(product), nil
	}})

	add("/", &Builtin{Name: "/", Sig: numSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		if len(ns) == 1 {
			return value.Number(1.0 / ns[0]), nil
		}
		result := ns[0]
		for _, n := range ns[1:] {
			result /= n
		}
		return value.Number(result), nil
	}})

	add("%", &Builtin{Name: "%", Sig: binSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		return value.Number(math.Mod(ns[0], ns[1])), nil
	}})

	compare := func(name string, cmp func(a, b float64) bool) {
		add(name, &Builtin{Name: name, Sig: binSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			ns, err := numArgs(loc, args)
			if err != nil {
				return nil, err
			}
			return value.Bool(cmp(ns[0], ns[1])), nil
		}})
	}
	compare("=", func(a, b float64) bool { return a == b })
	compare("!=", func(a, b float64) bool { return a != b })
	compare("<", func(a, b float64) bool { return a < b })
	compare(">", func(a, b float64) bool { return a > b })
	compare("<=", func(a, b float64) bool { return a <= b })
	compare(">=", func(a, b float64) bool { return a >= b })

	add("not", &Builtin{Name: "not", Sig: Signature{MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{TypeName: "any", Predicate: isAny}}},
		Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			return value.Bool(!value.Truthy(args[0])), nil
		}})

	unarySig := Signature{MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{TypeName: "number", Predicate: isNumber}}}
	trig := func(name string, fn func(float64) float64) {
		add(name, &Builtin{Name: name, Sig: unarySig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			n, err := asNumber(loc, args[0])
			if err != nil {
				return nil, err
			}
			return value.Number(fn(n)), nil
		}})
	}
	trig("sin", math.Sin)
	trig("cos", math.Cos)
	trig("tan", math.Tan)
	trig("asin", math.Asin)
	trig("acos", math.Acos)
	trig("sqrt", math.Sqrt)
	trig("exp", math.Exp)
	trig("log", math.Log)

	add("atan2", &Builtin{Name: "atan2", Sig: binSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		return value.Number(math.Atan2(ns[0], ns[1])), nil
	}})
	add("pow", &Builtin{Name: "pow", Sig: binSig, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		ns, err := numArgs(loc, args)
		if err != nil {
			return nil, err
		}
		return value.Number(math.Pow(ns[0], ns[1])), nil
	}})
}
