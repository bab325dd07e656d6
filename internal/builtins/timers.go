package builtins

import (
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/eventloop"
	"github.com/cwbudde/argon/internal/runtime"
)

// installTimers wires setTimeout/setInterval/clearTimeout/clearInterval/
// queueMicrotask onto globals (spec §4.6, component C9). Each handler
// recovers the concrete *eventloop.Loop from the EvaluationContext's
// narrow evaluator.EventLoop interface; a host embedding this runtime
// without an eventloop.Loop (Loop() returning some other EventLoop
// implementation) simply gets a no-op schedule, matching how the
// evaluator's own noopLoop behaves for generator bodies — except
// queueMicrotask, which then runs its callback immediately.
func installTimers(globals *env.Environment) {
	globals.Define("setTimeout", New("setTimeout", setTimeoutFn))
	globals.Define("setInterval", New("setInterval", setIntervalFn))
	globals.Define("clearTimeout", New("clearTimeout", clearTimeoutFn))
	globals.Define("clearInterval", New("clearInterval", clearIntervalFn))
	globals.Define("queueMicrotask", New("queueMicrotask", queueMicrotaskFn))
}

func loopOf(ctx evaluator.EvaluationContext) *eventloop.Loop {
	l, _ := ctx.Loop().(*eventloop.Loop)
	return l
}

// timerArgs extracts callback, delay, and the extra arguments forwarded
// to callback on each firing (spec §4.6's setTimeout(fn, delay, ...args)).
func timerArgs(args []runtime.Value) (cb runtime.Value, delayMs float64, extra []runtime.Value) {
	cb = arg(args, 0)
	if len(args) > 1 {
		delayMs = toNumber(args[1])
	}
	if len(args) > 2 {
		extra = args[2:]
	}
	return
}

func setTimeoutFn(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	loop := loopOf(ctx)
	if loop == nil {
		return runtime.Number(0), nil
	}
	cb, delay, extra := timerArgs(args)
	if !evaluator.IsCallable(cb) {
		return runtime.Number(0), nil
	}
	id := loop.SetTimeout(delay, func() {
		callCallback(ev, ctx, cb, runtime.Undefined, extra)
	})
	return runtime.Number(float64(id)), nil
}

func setIntervalFn(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	loop := loopOf(ctx)
	if loop == nil {
		return runtime.Number(0), nil
	}
	cb, delay, extra := timerArgs(args)
	if !evaluator.IsCallable(cb) {
		return runtime.Number(0), nil
	}
	id := loop.SetInterval(delay, func() {
		callCallback(ev, ctx, cb, runtime.Undefined, extra)
	})
	return runtime.Number(float64(id)), nil
}

func clearTimeoutFn(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if loop := loopOf(ctx); loop != nil {
		loop.ClearTimeout(int64(toNumber(arg(args, 0))))
	}
	return runtime.Undefined, nil
}

func clearIntervalFn(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if loop := loopOf(ctx); loop != nil {
		loop.ClearInterval(int64(toNumber(arg(args, 0))))
	}
	return runtime.Undefined, nil
}

func queueMicrotaskFn(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	cb := arg(args, 0)
	if !evaluator.IsCallable(cb) {
		return nil, typeErrorf("queueMicrotask requires a function argument")
	}
	loop := loopOf(ctx)
	if loop == nil {
		_, err := callCallback(ev, ctx, cb, runtime.Undefined, nil)
		return runtime.Undefined, err
	}
	loop.QueueMicrotask(func() {
		callCallback(ev, ctx, cb, runtime.Undefined, nil)
	})
	return runtime.Undefined, nil
}
