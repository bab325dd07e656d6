package builtins

import (
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	PromiseMethods.Register("then", promiseThen)
	PromiseMethods.Register("catch", promiseCatch)
	PromiseMethods.Register("finally", promiseFinally)
}

func asPromise(this runtime.Value) (*runtime.PromiseValue, bool) {
	p, ok := this.(*runtime.PromiseValue)
	return p, ok
}

// promiseThen attaches onFulfilled/onRejected reaction handlers, returning
// a fresh Promise chained off their results (spec §4.3's Promise then).
func promiseThen(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	p, ok := asPromise(this)
	if !ok {
		return nil, typeErrorf("Promise.prototype.then called on non-Promise")
	}
	onFulfilled := arg(args, 0)
	onRejected := arg(args, 1)
	out := runtime.NewPendingPromise()

	react := func(handler runtime.Value, state runtime.PromiseState) func(runtime.Value) {
		return func(v runtime.Value) {
			if !evaluator.IsCallable(handler) {
				evaluator.SettlePromise(out, state, v)
				return
			}
			result, err := callCallback(ev, ctx, handler, runtime.Undefined, []runtime.Value{v})
			if err != nil {
				if reason, ok := evaluator.ThrownValue(err); ok {
					evaluator.SettlePromise(out, runtime.PromiseRejected, reason)
					return
				}
				evaluator.SettlePromise(out, runtime.PromiseRejected, runtime.Str(err.Error()))
				return
			}
			evaluator.SettlePromise(out, runtime.PromiseFulfilled, result)
		}
	}

	onFulfill := react(onFulfilled, runtime.PromiseFulfilled)
	onReject := react(onRejected, runtime.PromiseRejected)

	switch p.State {
	case runtime.PromiseFulfilled:
		onFulfill(p.Result)
	case runtime.PromiseRejected:
		onReject(p.Result)
	default:
		p.OnFulfill = append(p.OnFulfill, onFulfill)
		p.OnReject = append(p.OnReject, onReject)
	}
	return out, nil
}

func promiseCatch(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return promiseThen(ev, ctx, this, []runtime.Value{runtime.Undefined, arg(args, 0)})
}

// promiseResolveStatic implements Promise.resolve: a value that is
// already a Promise passes through (settlePromise's own unwrap handles
// the collapse), anything else becomes an already-fulfilled Promise.
func promiseResolveStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	v := arg(args, 0)
	if p, ok := v.(*runtime.PromiseValue); ok {
		return p, nil
	}
	p := runtime.NewPendingPromise()
	evaluator.SettlePromise(p, runtime.PromiseFulfilled, v)
	return p, nil
}

func promiseRejectStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	p := runtime.NewPendingPromise()
	evaluator.SettlePromise(p, runtime.PromiseRejected, arg(args, 0))
	return p, nil
}

func promiseList(args []runtime.Value) []*runtime.PromiseValue {
	arr, ok := arg(args, 0).(*runtime.ArrayValue)
	if !ok {
		return nil
	}
	out := make([]*runtime.PromiseValue, len(arr.Elements))
	for i, e := range arr.Elements {
		if p, ok := e.(*runtime.PromiseValue); ok {
			out[i] = p
			continue
		}
		p := runtime.NewPendingPromise()
		evaluator.SettlePromise(p, runtime.PromiseFulfilled, e)
		out[i] = p
	}
	return out
}

// promiseAllStatic implements Promise.all: fulfills with an array of
// results once every input settles, or rejects as soon as any one does.
func promiseAllStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	inputs := promiseList(args)
	out := runtime.NewPendingPromise()
	if len(inputs) == 0 {
		evaluator.SettlePromise(out, runtime.PromiseFulfilled, runtime.NewArray(nil))
		return out, nil
	}
	results := make([]runtime.Value, len(inputs))
	remaining := len(inputs)
	for i, p := range inputs {
		i := i
		onFulfill := func(v runtime.Value) {
			results[i] = v
			remaining--
			if remaining == 0 {
				evaluator.SettlePromise(out, runtime.PromiseFulfilled, runtime.NewArray(results))
			}
		}
		onReject := func(v runtime.Value) { evaluator.SettlePromise(out, runtime.PromiseRejected, v) }
		attachReactions(p, onFulfill, onReject)
	}
	return out, nil
}

func promiseAllSettledStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	inputs := promiseList(args)
	out := runtime.NewPendingPromise()
	if len(inputs) == 0 {
		evaluator.SettlePromise(out, runtime.PromiseFulfilled, runtime.NewArray(nil))
		return out, nil
	}
	results := make([]runtime.Value, len(inputs))
	remaining := len(inputs)
	settle := func(i int, status string, key string, v runtime.Value) {
		o := runtime.NewObject()
		o.Set("status", runtime.Str(status))
		o.Set(key, v)
		results[i] = o
		remaining--
		if remaining == 0 {
			evaluator.SettlePromise(out, runtime.PromiseFulfilled, runtime.NewArray(results))
		}
	}
	for i, p := range inputs {
		i := i
		attachReactions(p,
			func(v runtime.Value) { settle(i, "fulfilled", "value", v) },
			func(v runtime.Value) { settle(i, "rejected", "reason", v) },
		)
	}
	return out, nil
}

func promiseRaceStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	inputs := promiseList(args)
	out := runtime.NewPendingPromise()
	for _, p := range inputs {
		attachReactions(p,
			func(v runtime.Value) { evaluator.SettlePromise(out, runtime.PromiseFulfilled, v) },
			func(v runtime.Value) { evaluator.SettlePromise(out, runtime.PromiseRejected, v) },
		)
	}
	return out, nil
}

func promiseAnyStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	inputs := promiseList(args)
	out := runtime.NewPendingPromise()
	if len(inputs) == 0 {
		evaluator.SettlePromise(out, runtime.PromiseRejected, &runtime.ErrorValue{
			Kind: runtime.ErrAggregate, Name: "AggregateError", Message: "All promises were rejected",
		})
		return out, nil
	}
	errs := make([]runtime.Value, len(inputs))
	remaining := len(inputs)
	for i, p := range inputs {
		i := i
		attachReactions(p,
			func(v runtime.Value) { evaluator.SettlePromise(out, runtime.PromiseFulfilled, v) },
			func(v runtime.Value) {
				errs[i] = v
				remaining--
				if remaining == 0 {
					evaluator.SettlePromise(out, runtime.PromiseRejected, &runtime.ErrorValue{
						Kind: runtime.ErrAggregate, Name: "AggregateError",
						Message: "All promises were rejected", Errors: errs,
					})
				}
			},
		)
	}
	return out, nil
}

// attachReactions fires onFulfill/onReject once p settles, immediately if
// it already has.
func attachReactions(p *runtime.PromiseValue, onFulfill, onReject func(runtime.Value)) {
	switch p.State {
	case runtime.PromiseFulfilled:
		onFulfill(p.Result)
	case runtime.PromiseRejected:
		onReject(p.Result)
	default:
		p.OnFulfill = append(p.OnFulfill, onFulfill)
		p.OnReject = append(p.OnReject, onReject)
	}
}

func promiseFinally(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	onFinally := arg(args, 0)
	wrap := New("", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, _ runtime.Value, cbArgs []runtime.Value) (runtime.Value, error) {
		if evaluator.IsCallable(onFinally) {
			if _, err := callCallback(ev, ctx, onFinally, runtime.Undefined, nil); err != nil {
				return nil, err
			}
		}
		return arg(cbArgs, 0), nil
	})
	rewrap := New("", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, _ runtime.Value, cbArgs []runtime.Value) (runtime.Value, error) {
		if evaluator.IsCallable(onFinally) {
			if _, err := callCallback(ev, ctx, onFinally, runtime.Undefined, nil); err != nil {
				return nil, err
			}
		}
		return nil, evaluator.Throw(arg(cbArgs, 0))
	})
	return promiseThen(ev, ctx, this, []runtime.Value{wrap, rewrap})
}
