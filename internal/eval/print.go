package eval

import (
	"fmt"
	"strings"

	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

func registerPrint(add func(name string, b *Builtin)) {
	add("print", &Builtin{Name: "print", Sig: Signature{MinArgs: 0, MaxArgs: -1, Args: []ArgSpec{{TypeName: "any", Predicate: isAny}}},
		Fn: func(ev *Evaluator, loc lcaderr.Location, args []value.Value, kw map[string]value.Value) (value.Value, error) {
			parts := make([]string, len(args))
			for i, v := range args {
				parts[i] = v.String()
			}
			fmt.Fprintln(ev.Out, strings.Join(parts, " "))
			if len(args) == 0 {
				return value.Nil, nil
			}
			return args[len(args)-1], nil
		}})
}
