package evaluator

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

// NativeCallable is implemented by host-provided callables that need
// access to the Evaluator/EvaluationContext at call time — the built-in
// method wrappers (spec §4.5, component C7). Defining the interface here
// (rather than importing the builtins package) lets builtins depend on
// evaluator without evaluator depending back on builtins.
type NativeCallable interface {
	runtime.Value
	Invoke(ev *Evaluator, ctx EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error)
}

// CallValue invokes callee with the given receiver and arguments,
// dispatching across the three callable shapes the evaluator knows about:
// user-defined functions/closures, classes invoked as constructors
// (rejected), and native built-ins.
func CallValue(ev *Evaluator, ctx EvaluationContext, callee runtime.Value, thisVal runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return callUserFunction(ev, ctx, fn, thisVal, args)
	case *runtime.ClassValue:
		return nil, fmt.Errorf("TypeError: Class constructor %s cannot be invoked without 'new'", fn.Name)
	case NativeCallable:
		return fn.Invoke(ev, ctx, thisVal, args)
	default:
		return nil, fmt.Errorf("TypeError: %s is not a function", describeForCallError(callee))
	}
}

// NativeConstructor is implemented by host-provided values that can
// appear as `new X(...)`'s callee without being a user-defined ClassValue
// (spec §4.5's Map/Set/Promise/Date/RegExp/Error-family built-ins).
type NativeConstructor interface {
	runtime.Value
	Construct(ev *Evaluator, ctx EvaluationContext, args []runtime.Value) (runtime.Value, error)
}

// IsCallable reports whether v can appear as CallValue's callee.
func IsCallable(v runtime.Value) bool {
	switch v.(type) {
	case *runtime.FunctionValue, NativeCallable:
		return true
	default:
		return false
	}
}

func describeForCallError(v runtime.Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

// callUserFunction runs a FunctionValue's body against fresh parameter
// bindings (spec §4.8) and this-binding rules (spec §3.2: arrows and
// bound functions lack their own `this`).
func callUserFunction(ev *Evaluator, ctx EvaluationContext, fn *runtime.FunctionValue, thisVal runtime.Value, args []runtime.Value) (runtime.Value, error) {
	closure, _ := fn.Closure.(*env.Environment)
	scope := env.NewEnclosed(closure)

	effectiveThis := thisVal
	if fn.BoundThis != nil {
		effectiveThis = fn.BoundThis
	}
	if effectiveThis == nil {
		effectiveThis = runtime.Undefined
	}
	if !fn.IsArrow {
		scope.Define("this", effectiveThis)
	}
	scope.Define("arguments", runtime.NewArray(append([]runtime.Value{}, args...)))

	if err := BindParameters(ev, ctx, scope, fn.Params, args); err != nil {
		return nil, err
	}

	if fn.Generator {
		return newGeneratorObject(ev, fn, scope, fn.Async), nil
	}
	if fn.Async {
		return runAsyncFunction(ev, ctx, fn, scope), nil
	}
	return runSyncBody(ev, ctx, fn, scope)
}

func runSyncBody(ev *Evaluator, ctx EvaluationContext, fn *runtime.FunctionValue, scope *env.Environment) (runtime.Value, error) {
	if fn.ExprBody != nil {
		return ev.Eval(ctx, scope, fn.ExprBody)
	}
	r := execFunctionBody(ev, ctx, scope, fn.Body)
	switch r.Kind {
	case ReturnSignal:
		return r.Value, nil
	case ThrowSignal:
		return nil, &thrownValue{value: r.Value}
	default:
		return runtime.Undefined, nil
	}
}

// execFunctionBody hoists nested function declarations then runs a
// function's statement list, matching the top-level hoisting rule applied
// at every function boundary, not only the program root.
func execFunctionBody(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, body *ast.Block) Result {
	hoistFunctionDeclarations(ev, scope, body.Statements)
	return ev.ExecBlock(ctx, scope, body.Statements)
}

// thrownValue adapts a Result{ThrowSignal} into a Go error so it can cross
// the CallValue/Eval `error` return boundary; the nearest statement that
// calls a function (ExpressionStmt, the right side of an assignment, a
// call used as an operand) unwraps it back into a ThrowSignal Result.
type thrownValue struct{ value runtime.Value }

func (t *thrownValue) Error() string { return t.value.String() }

// Throw wraps value as a Go error carrying a JS throw, for native built-ins
// (Promise reactions, generator/iterator protocol helpers) that need to
// raise a JS-level exception from outside the statement evaluator.
func Throw(value runtime.Value) error { return &thrownValue{value: value} }

// ThrownValue extracts the JS value carried by an error produced via
// callUserFunction/Eval, or nil if err is not a thrown-value wrapper (an
// ordinary host/Go error, which callers render as a generic Error).
func ThrownValue(err error) (runtime.Value, bool) {
	if t, ok := err.(*thrownValue); ok {
		return t.value, true
	}
	if r, ok := err.(*awaitRejected); ok {
		return r.Reason(), true
	}
	return nil, false
}

// callMethodSync invokes a class method/getter/setter against recv with
// `this` bound to recv (private-field access is brand-checked against
// declClass separately at the Get/SetPrivate call sites).
func callMethodSync(recv runtime.Value, declClass *runtime.ClassValue, m *runtime.ClassMethod, args []runtime.Value) (runtime.Value, error) {
	fn := &runtime.FunctionValue{
		Name: m.Name, Params: m.Params, Body: m.Body,
		Async: m.Async, Generator: m.Generator, Closure: declClass.Closure,
	}
	loop := noopLoop{}
	ctx := NewSyncContext(loop)
	return callUserFunction(globalEvaluatorForMethods, ctx, fn, recv, args)
}

// globalEvaluatorForMethods/noopLoop back callMethodSync's synchronous
// convenience path (used only by accessor/getter-from-getProperty call
// sites that have no Evaluator handle of their own). SetEvaluator wires
// the real instance once at startup; nothing else in the package mutates
// it, so no locking is needed beyond single-threaded init ordering.
var globalEvaluatorForMethods *Evaluator

// SetEvaluator registers ev as the instance used by the narrow internal
// call paths (property getters/setters) that don't carry their own
// Evaluator handle. The CLI entry point calls this once during startup.
func SetEvaluator(ev *Evaluator) { globalEvaluatorForMethods = ev }

type noopLoop struct{}

func (noopLoop) DrainDue()          {}
func (noopLoop) HasPendingWork() bool { return false }
