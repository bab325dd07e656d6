package builtins

import (
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// Install wires every global constructor, namespace object, and the
// per-type method registries into globals, the Environment an Evaluator
// is constructed over (spec §4.5, component C7's entry point — mirrors
// the teacher's builtins.Register(registry) call in interp/setup).
func Install(globals *env.Environment) {
	evaluator.SetMethodLookup(func(receiver runtime.Value, name string) (evaluator.NativeCallable, bool) {
		m, ok := LookupMethod(receiver, name)
		if !ok {
			return nil, false
		}
		return m, true
	})
	evaluator.SetRegexCompiler(CompileRegExp)

	installMath(globals)
	installJSON(globals)
	installObject(globals)
	installConsole(globals)
	installTimers(globals)
	installProcess(globals)

	globals.Define("Map", newMapConstructor())
	globals.MarkReadOnly("Map")
	globals.Define("Set", newSetConstructor())
	globals.MarkReadOnly("Set")
	globals.Define("Date", dateCtorWithStatics())
	globals.MarkReadOnly("Date")
	globals.Define("RegExp", newRegExpConstructor())
	globals.MarkReadOnly("RegExp")
	globals.Define("Promise", promiseCtorWithStatics())
	globals.MarkReadOnly("Promise")
	globals.Define("Array", arrayCtorWithStatics())
	globals.MarkReadOnly("Array")

	globals.Define("Symbol", newSymbolConstructor())
	globals.MarkReadOnly("Symbol")
	globals.Define("WeakMap", newWeakMapConstructor())
	globals.MarkReadOnly("WeakMap")
	globals.Define("WeakSet", newWeakSetConstructor())
	globals.MarkReadOnly("WeakSet")
	for name, ctor := range newTypedArrayConstructors() {
		globals.Define(name, ctor)
		globals.MarkReadOnly(name)
	}

	globals.Define("Error", errorCtorWithStatics(runtime.ErrGeneric))
	globals.MarkReadOnly("Error")
	for _, kind := range []runtime.ErrorKind{
		runtime.ErrType, runtime.ErrRange, runtime.ErrReference,
		runtime.ErrSyntax, runtime.ErrURI, runtime.ErrEval, runtime.ErrAggregate,
	} {
		name := kind.Name()
		globals.Define(name, newErrorConstructor(kind))
		globals.MarkReadOnly(name)
	}

	globals.Define("NaN", runtime.NaN())
	globals.MarkReadOnly("NaN")
	globals.Define("Infinity", runtime.Number(infinity()))
	globals.MarkReadOnly("Infinity")
	globals.Define("undefined", runtime.Undefined)
	globals.MarkReadOnly("undefined")

	installGlobalThis(globals)
}

func infinity() float64 {
	var zero float64
	return 1 / zero
}

func dateCtorWithStatics() *nativeCtor {
	c := newDateConstructor()
	c.props = map[string]runtime.Value{
		"now": New("Date.now", dateNowStatic),
	}
	return c
}

func promiseCtorWithStatics() *nativeCtor {
	c := newPromiseConstructor()
	c.props = map[string]runtime.Value{
		"resolve": New("Promise.resolve", promiseResolveStatic),
		"reject":  New("Promise.reject", promiseRejectStatic),
		"all":     New("Promise.all", promiseAllStatic),
		"allSettled": New("Promise.allSettled", promiseAllSettledStatic),
		"race":    New("Promise.race", promiseRaceStatic),
		"any":     New("Promise.any", promiseAnyStatic),
	}
	return c
}

func arrayCtorWithStatics() *nativeCtor {
	c := &nativeCtor{
		name: "Array",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			if len(args) == 1 {
				if n, ok := args[0].(*runtime.NumberValue); ok {
					return runtime.NewArray(make([]runtime.Value, int(n.Value))), nil
				}
			}
			return runtime.NewArray(append([]runtime.Value{}, args...)), nil
		},
	}
	c.call = func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return c.construct(ev, ctx, args)
	}
	c.props = map[string]runtime.Value{
		"isArray": New("Array.isArray", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			_, ok := arg(args, 0).(*runtime.ArrayValue)
			return runtime.Bool(ok), nil
		}),
		"from": New("Array.from", arrayFromStatic),
		"of": New("Array.of", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return runtime.NewArray(append([]runtime.Value{}, args...)), nil
		}),
	}
	return c
}

func errorCtorWithStatics(kind runtime.ErrorKind) *nativeCtor {
	return newErrorConstructor(kind)
}
