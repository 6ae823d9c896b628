package eval

import (
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

func registerList(add func(name string, b *Builtin)) {
	add("list", &Builtin{Name: "list", Sig: Signature{MinArgs: 0, MaxArgs: -1, Args: []ArgSpec{{TypeName: "any", Predicate: isAny}}},
		Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			return value.NewList(args...), nil
		}})

	add("aref", &Builtin{Name: "aref", Sig: Signature{MinArgs: 2, MaxArgs: 2, Args: []ArgSpec{
		{TypeName: "list", Predicate: isList},
		{TypeName: "number", Predicate: isNumber},
	}}, Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
		l, err := asList(loc, args[0])
		if err != nil {
			return nil, err
		}
		idx, err := asNumber(loc, args[1])
		if err != nil {
			return nil, err
		}
		v, ok := l.At(int(idx))
		if !ok {
			return nil, lcaderr.New(lcaderr.IndexOutOfRange, loc, "index %d out of range for a list of length %d", int(idx), l.Len())
		}
		return v, nil
	}})

	add("len", &Builtin{Name: "len", Sig: Signature{MinArgs: 1, MaxArgs: 1, Args: []ArgSpec{{TypeName: "list", Predicate: isList}}},
		Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			l, err := asList(loc, args[0])
			if err != nil {
				return nil, err
			}
			return value.Number(l.Len()), nil
		}})
}
