package evaluator

import "github.com/cwbudde/argon/internal/runtime"

// Coroutine is the suspension primitive backing both generator state
// machines (spec §4.4, component C6) and async function bodies (spec
// §4.3). The spec describes generator suspension as "an explicit state
// variable plus a hoisting table" for locals/parameters/iterators that
// must survive across a `yield`; this implementation realizes that
// contract with a dedicated goroutine per coroutine instance whose real
// call stack IS the hoisting table — every local that would need an
// explicit field in a hand-rolled state machine simply lives as a Go
// local on that goroutine's stack between channel handoffs. Exactly one
// of {driver, coroutine goroutine} ever runs at a time, so the
// single-threaded cooperative scheduling model (spec §4.3/§5) holds: a
// channel receive is the only place control changes hands.
type Coroutine struct {
	resumeCh chan resumeMsg
	yieldCh  chan yieldMsg
	started  bool
	finished bool

	// bodyFn holds the deferred generator body (set by newGeneratorObject)
	// so construction and first-Next execution can be separate steps:
	// calling a generator function must not run any body statements
	// until .next() is first invoked (spec §4.4).
	bodyFn func()

	// OnSettle, if set, fires exactly once when the coroutine reaches a
	// done completion, regardless of which caller's Resume/ForceReturn/
	// ForceThrow/Start triggered it. Async function driving (generator.go's
	// runAsyncFunction) uses this to settle the outer Promise even when
	// the triggering Resume call came from a Promise callback deep
	// inside an awaitPromise chain rather than from the original driver.
	OnSettle func(yieldMsg)
}

type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeReturn
	resumeThrow
)

type resumeMsg struct {
	kind  resumeKind
	value runtime.Value
}

type yieldMsg struct {
	// value is either a yielded value (Done==false) or the completion
	// value of the coroutine body (Done==true).
	value runtime.Value
	done  bool
	// thrown is set when the body ended by propagating an uncaught
	// throw past its own boundary.
	thrown runtime.Value
	hasThrown bool
}

// NewCoroutine allocates an unstarted coroutine. Start later runs a body
// on its own goroutine; that body receives this Coroutine to call yield
// from inside handler code.
func NewCoroutine() *Coroutine {
	return &Coroutine{
		resumeCh: make(chan resumeMsg),
		yieldCh:  make(chan yieldMsg),
	}
}

// Start launches body on a new goroutine and blocks the calling
// (driver) goroutine until the first suspension point or completion.
func (c *Coroutine) Start(body func(c *Coroutine)) yieldMsg {
	c.started = true
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if sig, ok := r.(coroThrowSignal); ok {
					c.yieldCh <- yieldMsg{done: true, hasThrown: true, thrown: sig.value}
					return
				}
				panic(r)
			}
		}()
		body(c)
	}()
	msg := <-c.yieldCh
	if msg.done {
		c.finished = true
		if c.OnSettle != nil {
			c.OnSettle(msg)
		}
	}
	return msg
}

// Resume sends value into the coroutine at its current suspension point
// and blocks until the next suspension or completion.
func (c *Coroutine) Resume(value runtime.Value) yieldMsg {
	if c.finished {
		return yieldMsg{done: true, value: runtime.Undefined}
	}
	c.resumeCh <- resumeMsg{kind: resumeNext, value: value}
	msg := <-c.yieldCh
	if msg.done {
		c.finished = true
		if c.OnSettle != nil {
			c.OnSettle(msg)
		}
	}
	return msg
}

// ForceReturn resumes the coroutine as if `return value` had been
// executed at the suspension point, letting any pending `finally` blocks
// run before completion (spec §4.4's return()-on-suspended-generator
// contract).
func (c *Coroutine) ForceReturn(value runtime.Value) yieldMsg {
	if c.finished {
		return yieldMsg{done: true, value: value}
	}
	c.resumeCh <- resumeMsg{kind: resumeReturn, value: value}
	msg := <-c.yieldCh
	if msg.done {
		c.finished = true
		if c.OnSettle != nil {
			c.OnSettle(msg)
		}
	}
	return msg
}

// ForceThrow resumes the coroutine as if `reason` had been thrown at the
// suspension point (spec §4.4's throw()-on-suspended-generator contract).
func (c *Coroutine) ForceThrow(reason runtime.Value) yieldMsg {
	if c.finished {
		return yieldMsg{done: true, value: runtime.Undefined}
	}
	c.resumeCh <- resumeMsg{kind: resumeThrow, value: reason}
	msg := <-c.yieldCh
	if msg.done {
		c.finished = true
		if c.OnSettle != nil {
			c.OnSettle(msg)
		}
	}
	return msg
}

// coroThrowSignal unwinds the coroutine's goroutine stack via panic/recover
// when ForceThrow targets a point with no enclosing try/catch to observe
// it, letting the throw propagate out to the caller as an uncaught error.
type coroThrowSignal struct{ value runtime.Value }

// yield is called from inside the coroutine's own goroutine (never the
// driver) to suspend at a `yield` expression. It returns the value sent
// by the next Resume/ForceReturn/ForceThrow call, and reports which kind
// of resumption occurred so the yield-expression handler can turn
// ForceReturn into a propagating Result and ForceThrow into a thrown
// exception at this exact point.
func (c *Coroutine) yield(value runtime.Value) resumeMsg {
	c.yieldCh <- yieldMsg{value: value}
	return <-c.resumeCh
}

// finish is called from inside the coroutine's own goroutine when the
// body statement sequence completes (normally, via return, or via an
// uncaught throw) to hand the final completion back to the driver.
func (c *Coroutine) finish(value runtime.Value) {
	c.yieldCh <- yieldMsg{value: value, done: true}
	// Block forever: the goroutine's job is done and Resume will never
	// be called again (c.finished is now true on the driver side).
	select {}
}

func (c *Coroutine) finishThrow(reason runtime.Value) {
	c.yieldCh <- yieldMsg{done: true, hasThrown: true, thrown: reason}
	select {}
}

// awaitPromise suspends the coroutine until promise settles, used by
// AsyncContext.Resolve. The settle callback is registered on the
// promise's own fulfill/reject lists (runtime.heap.go), and runs
// synchronously inside settlePromise on whichever goroutine settles the
// promise; it resumes
// this coroutine exactly once via the normal Resume channel handoff, so
// no separate synchronization primitive is needed.
func (c *Coroutine) awaitPromise(promise *runtime.PromiseValue) (runtime.Value, error) {
	switch promise.State {
	case runtime.PromiseFulfilled:
		msg := c.yield(promise.Result)
		return settledResume(msg)
	case runtime.PromiseRejected:
		msg := c.yield(promise.Result)
		return settledResume(msg)
	default:
		promise.OnFulfill = append(promise.OnFulfill, func(v runtime.Value) {
			c.Resume(v)
		})
		promise.OnReject = append(promise.OnReject, func(v runtime.Value) {
			c.ForceThrow(v)
		})
		msg := <-c.resumeCh
		return settledResume(msg)
	}
}

func settledResume(msg resumeMsg) (runtime.Value, error) {
	if msg.kind == resumeThrow {
		return nil, &awaitRejected{reason: msg.value}
	}
	return msg.value, nil
}

// awaitRejected wraps a Promise rejection reason surfaced through Resolve
// so the `await` expression handler can turn it into a ThrowSignal Result
// at the correct AST position.
type awaitRejected struct{ reason runtime.Value }

func (e *awaitRejected) Error() string { return e.reason.String() }
func (e *awaitRejected) Reason() runtime.Value { return e.reason }
