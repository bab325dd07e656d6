// Package builtins implements the built-in method dispatch table (spec
// §4.5, component C7): the Array/String/Object/Map/Set/Math/JSON/Promise/
// Error method surface a tree-walking evaluator needs to back `Array.prototype
// .map`-style calls without the evaluator package importing this one (the
// NativeCallable interface in evaluator/calls.go is the seam).
package builtins

import (
	"fmt"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// Func is one built-in method/function body: it receives the evaluator (to
// invoke user callbacks like the predicate passed to Array.prototype.filter),
// the calling EvaluationContext (so a callback invoked from inside a built-in
// still honors async suspension), the receiver (`this`), and arguments.
type Func func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error)

// method wraps a Func as an evaluator.NativeCallable — the Invoke method
// mirrors evaluator.NativeCallable exactly, letting a *method be stored
// anywhere a runtime.Value/evaluator.NativeCallable is expected (property
// lookup, Call dispatch) without the evaluator package ever importing this
// one.
type method struct {
	name string
	fn   Func
}

// New wraps fn as a callable runtime.Value under name (used for diagnostics:
// "TypeError: x.name is not a function" reports the right name).
func New(name string, fn Func) *method { return &method{name: name, fn: fn} }

func (m *method) Type() string   { return "function" }
func (m *method) String() string { return "function " + m.name + "() { [native code] }" }

func (m *method) Invoke(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return m.fn(ev, ctx, this, args)
}

// arg returns args[i] or Undefined if the caller passed fewer arguments,
// matching JS's permissive arity (spec §4.5: built-ins never throw for a
// missing trailing argument unless the method's own contract requires it).
func arg(args []runtime.Value, i int) runtime.Value {
	if i < 0 || i >= len(args) {
		return runtime.Undefined
	}
	return args[i]
}

func typeErrorf(format string, a ...interface{}) error {
	return fmt.Errorf("TypeError: "+format, a...)
}

// callCallback invokes a user-supplied callback (the fn argument to map/
// filter/forEach/...) with the given this/args, unwrapping a JS throw into
// the same error-wrapping convention evaluator.CallValue callers use.
func callCallback(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, cb runtime.Value, thisArg runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return evaluator.CallValue(ev, ctx, cb, thisArg, args)
}
