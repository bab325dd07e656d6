package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/builtins"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func variable(name string) *ast.Variable { return &ast.Variable{Name: name, Depth: -1} }

func recorder() (builtins.Func, func() []string) {
	var calls []string
	fn := func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) > 0 {
			calls = append(calls, args[0].String())
		}
		return runtime.Undefined, nil
	}
	return fn, func() []string { return calls }
}

// TestAsyncFunctionFinallyRunsBeforeRejection builds:
//
//	async function f() { try { throw "boom"; } finally { record("finally"); } }
//
// and confirms the finally block runs (an abrupt throw still drains
// pending finally blocks) before the
// returned promise settles rejected with the thrown value, matching
// how execTryCatch runs Finally regardless of Handler.
func TestAsyncFunctionFinallyRunsBeforeRejection(t *testing.T) {
	fn, calls := recorder()
	globals := env.New(false)
	globals.Define("record", builtins.New("record", fn))

	body := &ast.Block{Statements: []ast.Statement{
		&ast.TryCatch{
			Block: &ast.Block{Statements: []ast.Statement{
				&ast.Throw{Expr: &ast.Literal{Kind: ast.LitString, Str: "boom"}},
			}},
			Finally: &ast.Block{Statements: []ast.Statement{
				&ast.ExpressionStmt{Expr: &ast.Call{
					Callee: variable("record"),
					Args:   []ast.Expression{&ast.Literal{Kind: ast.LitString, Str: "finally"}},
				}},
			}},
		},
	}}

	asyncFn := &runtime.FunctionValue{Name: "f", Async: true, Body: body, Closure: globals}
	ev := evaluator.New(globals, nil)
	ctx := evaluator.NewSyncContext(nil)

	result, err := evaluator.CallValue(ev, ctx, asyncFn, runtime.Undefined, nil)
	require.NoError(t, err)

	promise, ok := result.(*runtime.PromiseValue)
	require.True(t, ok, "an async function call must return a Promise")
	require.Equal(t, runtime.PromiseRejected, promise.State)
	require.Equal(t, "boom", promise.Result.String())
	require.Equal(t, []string{"finally"}, calls(), "finally must run even though the try block threw past its own boundary")
}

// TestYieldDelegateForwardsInnerGeneratorToCompletion builds an outer
// generator whose body is `yield* inner()` against an inner generator
// that yields 1 then 2 and returns 3, and drives the outer generator with
// .Next() to confirm delegation forwards every yielded value plus the
// inner generator's completion value as yield*'s own expression result,
// matching evalYieldDelegate/delegateToGenerator in expressions.go.
func TestYieldDelegateForwardsInnerGeneratorToCompletion(t *testing.T) {
	globals := env.New(false)
	ev := evaluator.New(globals, nil)
	ctx := evaluator.NewSyncContext(nil)

	innerBody := &ast.Block{Statements: []ast.Statement{
		&ast.ExpressionStmt{Expr: &ast.Yield{Expr: &ast.Literal{Kind: ast.LitNumber, Number: 1}}},
		&ast.ExpressionStmt{Expr: &ast.Yield{Expr: &ast.Literal{Kind: ast.LitNumber, Number: 2}}},
		&ast.Return{Expr: &ast.Literal{Kind: ast.LitNumber, Number: 3}},
	}}
	innerFn := &runtime.FunctionValue{Name: "inner", Generator: true, Body: innerBody, Closure: globals}
	globals.Define("inner", innerFn)

	outerBody := &ast.Block{Statements: []ast.Statement{
		&ast.VarDecl{Kind: ast.DeclConst, Declarators: []ast.VarDeclarator{
			{Name: "result", Init: &ast.Yield{Delegate: true, Expr: &ast.Call{Callee: variable("inner")}}},
		}},
		&ast.ExpressionStmt{Expr: &ast.Yield{Expr: variable("result")}},
	}}
	outerFn := &runtime.FunctionValue{Name: "outer", Generator: true, Body: outerBody, Closure: globals}

	genVal, err := evaluator.CallValue(ev, ctx, outerFn, runtime.Undefined, nil)
	require.NoError(t, err)
	gen, ok := genVal.(*evaluator.GeneratorObject)
	require.True(t, ok)

	first := gen.Next(runtime.Undefined)
	v, _ := first.Get("value")
	done, _ := first.Get("done")
	require.Equal(t, float64(1), v.(*runtime.NumberValue).Value)
	require.False(t, toBoolValue(done))

	second := gen.Next(runtime.Undefined)
	v, _ = second.Get("value")
	require.Equal(t, float64(2), v.(*runtime.NumberValue).Value)

	third := gen.Next(runtime.Undefined)
	v, _ = third.Get("value")
	require.Equal(t, float64(3), v.(*runtime.NumberValue).Value, "yield* evaluates to the delegate generator's return value")

	fourth := gen.Next(runtime.Undefined)
	done, _ = fourth.Get("done")
	require.True(t, toBoolValue(done))
}

func toBoolValue(v runtime.Value) bool {
	b, ok := v.(*runtime.BooleanValue)
	return ok && b.Value
}
