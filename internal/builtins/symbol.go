package builtins

import (
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// symbolRegistry backs Symbol.for/Symbol.keyFor's global symbol registry
// (spec §3.2), distinct from a bare `Symbol(desc)` call which always
// allocates a fresh identity.
var symbolRegistry = map[string]*runtime.SymbolValue{}

func newSymbolConstructor() *nativeCtor {
	c := &nativeCtor{
		name: "Symbol",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			return nil, typeErrorf("Symbol is not a constructor")
		},
	}
	c.call = func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		desc := ""
		if a := arg(args, 0); !isUndefinedArg(a) {
			desc = toStr(a)
		}
		return runtime.NewSymbol(desc), nil
	}
	c.props = map[string]runtime.Value{
		"iterator":      runtime.WellKnownIterator,
		"asyncIterator": runtime.WellKnownAsyncIterator,
		"for": New("Symbol.for", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			key := toStr(arg(args, 0))
			if s, ok := symbolRegistry[key]; ok {
				return s, nil
			}
			s := runtime.NewSymbol(key)
			symbolRegistry[key] = s
			return s, nil
		}),
		"keyFor": New("Symbol.keyFor", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			sym, ok := arg(args, 0).(*runtime.SymbolValue)
			if !ok {
				return nil, typeErrorf("Symbol.keyFor called on a non-symbol")
			}
			for key, s := range symbolRegistry {
				if s == sym {
					return runtime.Str(key), nil
				}
			}
			return runtime.Undefined, nil
		}),
	}
	return c
}
