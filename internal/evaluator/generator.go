package evaluator

import (
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

// GeneratorObject is the resumable object a generator/async-generator
// function call produces (spec §4.4, component C6): operations
// next(value?)/return(value?)/throw(reason) drive the underlying
// Coroutine, whose own goroutine stack serves as the "hoisting table" for
// locals/parameters/for-of iterators that must survive suspension.
type GeneratorObject struct {
	co      *Coroutine
	async   bool
	started bool
}

func (g *GeneratorObject) Type() string { return "object" }
func (g *GeneratorObject) String() string {
	if g.async {
		return "[object AsyncGenerator]"
	}
	return "[object Generator]"
}

// iterResult builds the standard `{ value, done }` object every
// next/return/throw call produces.
func iterResult(value runtime.Value, done bool) *runtime.ObjectValue {
	o := runtime.NewObject()
	o.Set("value", value)
	o.Set("done", runtime.Bool(done))
	return o
}

func newGeneratorObject(ev *Evaluator, fn *runtime.FunctionValue, scope *env.Environment, async bool) *GeneratorObject {
	co := NewCoroutine()
	g := &GeneratorObject{co: co, async: async}
	genCtx := &generatorContext{
		inner: selectInnerContext(ev, async, co),
		co:    co,
	}
	// Body execution is deferred until the first Next() call: generator
	// functions do not run any body statements merely by being invoked.
	g.co.bodyFn = func() {
		r := execFunctionBody(ev, genCtx, scope, fn.Body)
		switch r.Kind {
		case ReturnSignal:
			co.finish(r.Value)
		case ThrowSignal:
			co.finishThrow(r.Value)
		default:
			co.finish(runtime.Undefined)
		}
	}
	return g
}

func selectInnerContext(ev *Evaluator, async bool, co *Coroutine) EvaluationContext {
	if async {
		return NewAsyncContext(noopLoop{}, co)
	}
	return NewSyncContext(noopLoop{})
}

// YieldCapable is implemented only by generatorContext; the `yield`
// expression handler type-asserts ctx against it and reports a
// SyntaxError when evaluated outside a generator body.
type YieldCapable interface {
	Yield(value runtime.Value) (runtime.Value, ResultKind, runtime.Value)
}

// generatorContext wraps whichever base context a generator body needs
// (sync for plain generators, async for async generators honoring
// `await` between yields — spec §4.4) and adds Yield support backed by
// the same Coroutine channel handoff used for await suspension.
type generatorContext struct {
	inner EvaluationContext
	co    *Coroutine
}

func (g *generatorContext) Resolve(value runtime.Value) (runtime.Value, error) {
	return g.inner.Resolve(value)
}
func (g *generatorContext) IsAsync() bool    { return g.inner.IsAsync() }
func (g *generatorContext) Loop() EventLoop { return g.inner.Loop() }

// Yield suspends at a `yield` expression and reports how the caller
// resumed: a plain value (Next), a forced return (propagates as Result
// so pending finally blocks still run), or a forced throw (raised at
// this exact point so an enclosing try/catch can observe it).
func (g *generatorContext) Yield(value runtime.Value) (runtime.Value, ResultKind, runtime.Value) {
	msg := g.co.yield(value)
	switch msg.kind {
	case resumeReturn:
		return msg.value, ReturnSignal, nil
	case resumeThrow:
		return nil, ThrowSignal, msg.value
	default:
		return msg.value, Normal, nil
	}
}

// Next resumes the generator with value, starting it on the first call.
func (g *GeneratorObject) Next(value runtime.Value) *runtime.ObjectValue {
	var msg yieldMsg
	if !g.started {
		g.started = true
		msg = g.co.Start(func(*Coroutine) { g.co.bodyFn() })
	} else {
		msg = g.co.Resume(value)
	}
	return g.settle(msg)
}

// Return forces the generator to complete as if `return value` executed
// at the current suspension point (spec §4.4).
func (g *GeneratorObject) Return(value runtime.Value) *runtime.ObjectValue {
	if !g.started {
		g.started = true
		return iterResult(value, true)
	}
	return g.settle(g.co.ForceReturn(value))
}

// Throw forces the generator to observe `reason` as a throw at the
// current suspension point (spec §4.4).
func (g *GeneratorObject) Throw(reason runtime.Value) (*runtime.ObjectValue, runtime.Value) {
	if !g.started {
		g.started = true
		return nil, reason
	}
	msg := g.co.ForceThrow(reason)
	if msg.hasThrown {
		return nil, msg.thrown
	}
	return iterResult(msg.value, msg.done), nil
}

func (g *GeneratorObject) settle(msg yieldMsg) *runtime.ObjectValue {
	if msg.hasThrown {
		// An uncaught throw reaching generator completion: surface it as
		// a thrown `value` with done=true is not spec-correct (it should
		// propagate to the caller of next()); callers needing the throw
		// use NextOrThrow below.
		return iterResult(msg.thrown, true)
	}
	return iterResult(msg.value, msg.done)
}

// NextOrThrow is Next's variant that reports an uncaught throw separately
// instead of folding it into the iterator-result object, for call sites
// (the `yield*`/for-of delegation path) that need to re-raise it.
func (g *GeneratorObject) NextOrThrow(value runtime.Value) (*runtime.ObjectValue, runtime.Value) {
	var msg yieldMsg
	if !g.started {
		g.started = true
		msg = g.co.Start(func(*Coroutine) { g.co.bodyFn() })
	} else {
		msg = g.co.Resume(value)
	}
	if msg.hasThrown {
		return nil, msg.thrown
	}
	return iterResult(msg.value, msg.done), nil
}

// runAsyncFunction drives a non-generator async function body to
// completion on its own Coroutine, settling the returned Promise exactly
// once via OnSettle regardless of how many `await` suspensions occurred
// in between (spec §4.3's Promise contract).
func runAsyncFunction(ev *Evaluator, outerCtx EvaluationContext, fn *runtime.FunctionValue, scope *env.Environment) *runtime.PromiseValue {
	promise := runtime.NewPendingPromise()
	co := NewCoroutine()
	asyncCtx := NewAsyncContext(outerCtx.Loop(), co)

	co.OnSettle = func(msg yieldMsg) {
		if msg.hasThrown {
			settlePromise(promise, runtime.PromiseRejected, msg.thrown)
			return
		}
		settlePromise(promise, runtime.PromiseFulfilled, msg.value)
	}

	co.Start(func(*Coroutine) {
		if fn.ExprBody != nil {
			v, err := ev.Eval(asyncCtx, scope, fn.ExprBody)
			if err != nil {
				if reason, ok := ThrownValue(err); ok {
					co.finishThrow(reason)
					return
				}
				co.finishThrow(runtime.Str(err.Error()))
				return
			}
			co.finish(v)
			return
		}
		r := execFunctionBody(ev, asyncCtx, scope, fn.Body)
		switch r.Kind {
		case ReturnSignal:
			co.finish(r.Value)
		case ThrowSignal:
			co.finishThrow(r.Value)
		default:
			co.finish(runtime.Undefined)
		}
	})

	return promise
}

// SettlePromise exposes settlePromise to the builtins package (Promise.resolve/
// reject and the executor passed to `new Promise` need the same collapsing
// behavior user `await` suspension gets).
func SettlePromise(p *runtime.PromiseValue, state runtime.PromiseState, value runtime.Value) {
	settlePromise(p, state, value)
}

// settlePromise resolves or rejects promise, collapsing a Resolve(promise)
// into the inner value exactly once rather than double-wrapping (spec
// §3.2/§4.3's Promise contract), and flushes the callbacks queued while
// it was pending.
func settlePromise(p *runtime.PromiseValue, state runtime.PromiseState, value runtime.Value) {
	if inner, ok := value.(*runtime.PromiseValue); ok && state == runtime.PromiseFulfilled {
		switch inner.State {
		case runtime.PromiseFulfilled:
			settlePromise(p, runtime.PromiseFulfilled, inner.Result)
		case runtime.PromiseRejected:
			settlePromise(p, runtime.PromiseRejected, inner.Result)
		default:
			inner.OnFulfill = append(inner.OnFulfill, func(v runtime.Value) { settlePromise(p, runtime.PromiseFulfilled, v) })
			inner.OnReject = append(inner.OnReject, func(v runtime.Value) { settlePromise(p, runtime.PromiseRejected, v) })
		}
		return
	}
	if p.State != runtime.PromisePending {
		return
	}
	p.State = state
	p.Result = value
	var callbacks []func(runtime.Value)
	if state == runtime.PromiseFulfilled {
		callbacks = p.OnFulfill
	} else {
		callbacks = p.OnReject
	}
	p.OnFulfill = nil
	p.OnReject = nil
	for _, cb := range callbacks {
		cb(value)
	}
}
