package builtins

import (
	"time"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// ConstructFunc builds the instance a `new X(...)` expression produces.
type ConstructFunc func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error)

// nativeCtor is a global constructor (Map/Set/Promise/Date/RegExp/the
// Error family) callable both as `new X(...)` (evaluator.NativeConstructor)
// and, for the ones JS permits it on, as a bare call `X(...)`
// (evaluator.NativeCallable) — mirroring how Array/String/Number/Boolean
// double as both in real JS engines.
type nativeCtor struct {
	name      string
	construct ConstructFunc
	call      Func // nil if calling without `new` throws
	props     map[string]runtime.Value
}

func (c *nativeCtor) Type() string   { return "function" }
func (c *nativeCtor) String() string { return "function " + c.name + "() { [native code] }" }

func (c *nativeCtor) Construct(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
	return c.construct(ev, ctx, args)
}

func (c *nativeCtor) Invoke(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if c.call != nil {
		return c.call(ev, ctx, this, args)
	}
	return c.construct(ev, ctx, args)
}

// Get implements a static-property lookup for the handful of constructors
// that expose statics (Array.isArray, Promise.resolve, ...); registered
// with methodOrUndefined's default-case fallback via getProperty's
// ObjectValue-less dispatch is not applicable here, so statics are looked
// up directly by register.go building an ObjectValue wrapper instead where
// richer statics are needed. Kept for the simple cases that need none.
func (c *nativeCtor) Get(name string) (runtime.Value, bool) {
	v, ok := c.props[name]
	return v, ok
}

func newErrorConstructor(kind runtime.ErrorKind) *nativeCtor {
	name := kind.Name()
	build := func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
		msg := ""
		if len(args) > 0 && !isUndefinedArg(args[0]) {
			msg = toStr(args[0])
		}
		return &runtime.ErrorValue{
			Kind:    kind,
			Name:    name,
			Message: msg,
			Stack:   name + ": " + msg,
		}, nil
	}
	return &nativeCtor{
		name:      name,
		construct: build,
		call: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return build(ev, ctx, args)
		},
	}
}

func newMapConstructor() *nativeCtor {
	return &nativeCtor{
		name: "Map",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			m := runtime.NewMap()
			if len(args) > 0 {
				if entries, ok := args[0].(*runtime.ArrayValue); ok {
					for _, e := range entries.Elements {
						if pair, ok := e.(*runtime.ArrayValue); ok && len(pair.Elements) >= 2 {
							m.Set(pair.Elements[0], pair.Elements[1])
						}
					}
				}
			}
			return m, nil
		},
	}
}

func newSetConstructor() *nativeCtor {
	return &nativeCtor{
		name: "Set",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			s := runtime.NewSet()
			if len(args) > 0 {
				if elems, ok := args[0].(*runtime.ArrayValue); ok {
					for _, e := range elems.Elements {
						s.Add(e)
					}
				}
			}
			return s, nil
		},
	}
}

func newDateConstructor() *nativeCtor {
	return &nativeCtor{
		name: "Date",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return &runtime.DateValue{EpochMillis: float64(time.Now().UnixMilli())}, nil
			}
			return &runtime.DateValue{EpochMillis: toNumber(args[0])}, nil
		},
	}
}

func newRegExpConstructor() *nativeCtor {
	return &nativeCtor{
		name: "RegExp",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			source := toStr(arg(args, 0))
			flags := ""
			if len(args) > 1 {
				flags = toStr(args[1])
			}
			re, err := CompileRegExp(source, flags)
			if err != nil {
				return nil, err
			}
			return re, nil
		},
	}
}

func newPromiseConstructor() *nativeCtor {
	return &nativeCtor{
		name: "Promise",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			executor := arg(args, 0)
			p := runtime.NewPendingPromise()
			resolve := New("resolve", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, _ runtime.Value, a []runtime.Value) (runtime.Value, error) {
				evaluator.SettlePromise(p, runtime.PromiseFulfilled, arg(a, 0))
				return runtime.Undefined, nil
			})
			reject := New("reject", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, _ runtime.Value, a []runtime.Value) (runtime.Value, error) {
				evaluator.SettlePromise(p, runtime.PromiseRejected, arg(a, 0))
				return runtime.Undefined, nil
			})
			if evaluator.IsCallable(executor) {
				if _, err := callCallback(ev, ctx, executor, runtime.Undefined, []runtime.Value{resolve, reject}); err != nil {
					if reason, ok := evaluator.ThrownValue(err); ok {
						evaluator.SettlePromise(p, runtime.PromiseRejected, reason)
					} else {
						evaluator.SettlePromise(p, runtime.PromiseRejected, runtime.Str(err.Error()))
					}
				}
			}
			return p, nil
		},
	}
}
