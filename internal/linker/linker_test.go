package linker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/linker"
	"github.com/cwbudde/argon/internal/runtime"
)

func variable(name string) *ast.Variable { return &ast.Variable{Name: name, Depth: -1} }

// utilModule builds `export function add(a, b) { return a + b; }` plus a
// plain, non-exported helper to confirm only exported names cross the
// module boundary.
func utilModule() *ast.Program {
	add := &ast.FunctionDecl{
		Name:   "add",
		Params: []ast.Param{{Name: "a"}, {Name: "b"}},
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.Return{Expr: &ast.Binary{Operator: "+", Left: variable("a"), Right: variable("b")}},
		}},
	}
	secret := &ast.VarDecl{
		Kind: ast.DeclConst,
		Declarators: []ast.VarDeclarator{
			{Name: "secret", Init: &ast.Literal{Kind: ast.LitNumber, Number: 99}},
		},
	}
	return &ast.Program{
		FileName: "util.js",
		Statements: []ast.Statement{
			&ast.ExportDecl{Decl: add},
			secret,
		},
	}
}

// mainModule builds:
//
//	import { add } from "./util.js";
//	export const result = add(2, 3);
func mainModule() *ast.Program {
	imp := &ast.ImportDecl{
		Source:     "./util.js",
		Specifiers: []ast.ImportSpecifier{{Name: "add"}},
	}
	result := &ast.VarDecl{
		Kind: ast.DeclConst,
		Declarators: []ast.VarDeclarator{
			{Name: "result", Init: &ast.Call{
				Callee: variable("add"),
				Args:   []ast.Expression{&ast.Literal{Kind: ast.LitNumber, Number: 2}, &ast.Literal{Kind: ast.LitNumber, Number: 3}},
			}},
		},
	}
	return &ast.Program{
		FileName: "main.js",
		Statements: []ast.Statement{
			imp,
			&ast.ExportDecl{Decl: result},
		},
	}
}

func testResolver(fromPath, specifier string) (string, error) {
	switch specifier {
	case "./util.js":
		return "util.js", nil
	default:
		return specifier, nil
	}
}

func newTestEvaluator() *evaluator.Evaluator {
	return evaluator.New(env.New(false), nil)
}

func TestLoadBindsNamedImportAcrossModules(t *testing.T) {
	ev := newTestEvaluator()
	l := linker.New(ev, testResolver)
	ctx := evaluator.NewSyncContext(nil)

	inst, err := l.Load(ctx, "main.js", []linker.ParsedModule{
		{Path: "main.js", Program: mainModule()},
		{Path: "util.js", Program: utilModule()},
	})
	require.NoError(t, err)
	require.NotNil(t, inst)

	result, ok := inst.Namespace.Members["result"]
	require.True(t, ok, "main.js should export 'result'")
	num, ok := result.(*runtime.NumberValue)
	require.True(t, ok, "result should be a number")
	require.Equal(t, float64(5), num.Value)
}

func TestLoadOnlyExportsNamedDeclarations(t *testing.T) {
	ev := newTestEvaluator()
	l := linker.New(ev, testResolver)
	ctx := evaluator.NewSyncContext(nil)

	inst, err := l.Load(ctx, "util.js", []linker.ParsedModule{
		{Path: "util.js", Program: utilModule()},
	})
	require.NoError(t, err)

	_, hasAdd := inst.Namespace.Members["add"]
	require.True(t, hasAdd)
	_, hasSecret := inst.Namespace.Members["secret"]
	require.False(t, hasSecret, "non-exported top-level bindings must not appear in the namespace")
}

func TestLoadDetectsImportCycles(t *testing.T) {
	ev := newTestEvaluator()
	resolve := func(fromPath, specifier string) (string, error) {
		switch specifier {
		case "./a.js":
			return "a.js", nil
		case "./b.js":
			return "b.js", nil
		}
		return specifier, nil
	}
	l := linker.New(ev, resolve)
	ctx := evaluator.NewSyncContext(nil)

	a := &ast.Program{FileName: "a.js", Statements: []ast.Statement{
		&ast.ImportDecl{Source: "./b.js", Specifiers: []ast.ImportSpecifier{{Name: "x"}}},
	}}
	b := &ast.Program{FileName: "b.js", Statements: []ast.Statement{
		&ast.ImportDecl{Source: "./a.js", Specifiers: []ast.ImportSpecifier{{Name: "y"}}},
	}}

	_, err := l.Load(ctx, "a.js", []linker.ParsedModule{
		{Path: "a.js", Program: a},
		{Path: "b.js", Program: b},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}

// diamondResolver backs TestLoadExecutesDiamondDependencyExactlyOnce's
// import graph: a imports from b and c, both of which import the same
// counter-bumping function from d. d's `counter` only survives as shared
// state across both call sites if d executes exactly once and both b and
// c bind to the same module instance, rather than each getting a fresh
// copy of d's top-level state.
func diamondResolver(fromPath, specifier string) (string, error) {
	switch specifier {
	case "./d.js":
		return "d.js", nil
	case "./b.js":
		return "b.js", nil
	case "./c.js":
		return "c.js", nil
	}
	return specifier, nil
}

func bumpFunction() *ast.FunctionDecl {
	return &ast.FunctionDecl{
		Name: "bump",
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.ExpressionStmt{Expr: &ast.CompoundAssign{Operator: "+=", Target: variable("counter"), Value: &ast.Literal{Kind: ast.LitNumber, Number: 1}}},
			&ast.Return{Expr: variable("counter")},
		}},
	}
}

func dModule() *ast.Program {
	counter := &ast.VarDecl{Kind: ast.DeclLet, Declarators: []ast.VarDeclarator{
		{Name: "counter", Init: &ast.Literal{Kind: ast.LitNumber, Number: 0}},
	}}
	return &ast.Program{FileName: "d.js", Statements: []ast.Statement{
		counter,
		&ast.ExportDecl{Decl: bumpFunction()},
	}}
}

func reexportBumpCallModule(fileName, exportedName string) *ast.Program {
	return &ast.Program{FileName: fileName, Statements: []ast.Statement{
		&ast.ImportDecl{Source: "./d.js", Specifiers: []ast.ImportSpecifier{{Name: "bump"}}},
		&ast.ExportDecl{Decl: &ast.VarDecl{Kind: ast.DeclConst, Declarators: []ast.VarDeclarator{
			{Name: exportedName, Init: &ast.Call{Callee: variable("bump")}},
		}}},
	}}
}

func TestLoadExecutesDiamondDependencyExactlyOnce(t *testing.T) {
	ev := newTestEvaluator()
	l := linker.New(ev, diamondResolver)
	ctx := evaluator.NewSyncContext(nil)

	a := &ast.Program{FileName: "a.js", Statements: []ast.Statement{
		&ast.ImportDecl{Source: "./b.js", Specifiers: []ast.ImportSpecifier{{Name: "b1"}}},
		&ast.ImportDecl{Source: "./c.js", Specifiers: []ast.ImportSpecifier{{Name: "c1"}}},
		&ast.ExportDecl{Decl: &ast.VarDecl{Kind: ast.DeclConst, Declarators: []ast.VarDeclarator{
			{Name: "sum", Init: &ast.Binary{Operator: "+", Left: variable("b1"), Right: variable("c1")}},
		}}},
	}}

	inst, err := l.Load(ctx, "a.js", []linker.ParsedModule{
		{Path: "a.js", Program: a},
		{Path: "b.js", Program: reexportBumpCallModule("b.js", "b1")},
		{Path: "c.js", Program: reexportBumpCallModule("c.js", "c1")},
		{Path: "d.js", Program: dModule()},
	})
	require.NoError(t, err)

	sum, ok := inst.Namespace.Members["sum"]
	require.True(t, ok)
	num, ok := sum.(*runtime.NumberValue)
	require.True(t, ok)
	require.Equal(t, float64(3), num.Value, "d.js must execute exactly once so b1=1 and c1=2 share the same counter, not 1 and 1")
}

func TestLoadDefinesUndefinedForMissingNamedImport(t *testing.T) {
	ev := newTestEvaluator()
	l := linker.New(ev, testResolver)
	ctx := evaluator.NewSyncContext(nil)

	main := &ast.Program{FileName: "main.js", Statements: []ast.Statement{
		&ast.ImportDecl{Source: "./util.js", Specifiers: []ast.ImportSpecifier{{Name: "missing"}}},
	}}

	_, err := l.Load(ctx, "main.js", []linker.ParsedModule{
		{Path: "main.js", Program: main},
		{Path: "util.js", Program: utilModule()},
	})
	require.NoError(t, err, "binding a missing named import defines undefined rather than erroring, matching execImportDecl")
}
