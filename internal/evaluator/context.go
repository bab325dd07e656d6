package evaluator

import "github.com/cwbudde/argon/internal/runtime"

// EvaluationContext is the abstraction that lets every expression/
// statement handler be written once and run on either the sync or the
// async path (spec §4.3). `Resolve` is where the two paths diverge: sync
// is identity, async suspends the current coroutine until a Promise
// settles.
type EvaluationContext interface {
	// Resolve unwraps value: sync returns it unchanged; async suspends
	// if value is a pending/settled Promise and returns the fulfillment
	// value, or returns an *awaitRejected error carrying the rejection
	// reason (turned into a ThrowSignal Result for the nearest try/catch).
	Resolve(value runtime.Value) (runtime.Value, error)
	// IsAsync reports which path is running, used by `await`'s handler
	// to reject awaiting outside an async context and by generator
	// machinery to decide whether to also honor `await` between yields.
	IsAsync() bool
	// Loop exposes the owning event loop so built-ins (setTimeout, the
	// Promise executor) can schedule callbacks and so suspension points
	// can drive a drain between loop iterations (spec §4.2's For rule).
	Loop() EventLoop
}

// EventLoop is the narrow slice of the eventloop package's scheduler the
// evaluator needs, kept as an interface here to avoid an import cycle
// between evaluator and eventloop (eventloop depends on runtime.Value for
// timer callback arguments, not on evaluator).
type EventLoop interface {
	DrainDue()
	HasPendingWork() bool
}

// SyncContext is the trivial EvaluationContext for ordinary (non-async)
// function bodies and top-level script statements. Resolve never
// suspends: a Promise handed to it is returned as-is, since a sync
// function has no way to unwrap one (only `await` inside an async
// function can).
type SyncContext struct {
	loop EventLoop
}

// NewSyncContext constructs a SyncContext bound to the given event loop
// (for timer draining between loop iterations).
func NewSyncContext(loop EventLoop) *SyncContext { return &SyncContext{loop: loop} }

func (s *SyncContext) Resolve(value runtime.Value) (runtime.Value, error) { return value, nil }
func (s *SyncContext) IsAsync() bool                                      { return false }
func (s *SyncContext) Loop() EventLoop                                   { return s.loop }

// AsyncContext drives an async function body running inside its own
// Coroutine (coroutine.go). Resolve suspends the coroutine until the
// Promise in hand settles, then returns the fulfillment value or an error
// wrapping the rejection reason for the caller to turn into a ThrowSignal.
type AsyncContext struct {
	loop EventLoop
	co   *Coroutine
}

// NewAsyncContext constructs an AsyncContext bound to the coroutine
// backing the currently executing async function/generator.
func NewAsyncContext(loop EventLoop, co *Coroutine) *AsyncContext {
	return &AsyncContext{loop: loop, co: co}
}

func (a *AsyncContext) IsAsync() bool    { return true }
func (a *AsyncContext) Loop() EventLoop { return a.loop }

func (a *AsyncContext) Resolve(value runtime.Value) (runtime.Value, error) {
	promise, ok := value.(*runtime.PromiseValue)
	if !ok {
		// Awaiting a non-Promise resolves immediately to that value,
		// per ECMA-262 Await's ToPromise(value).then(...) behavior.
		return value, nil
	}
	return a.co.awaitPromise(promise)
}
