package evaluator

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

// Evaluator owns the dispatch registries and whatever host/module state a
// handler needs to reach (e.g. the linker, for dynamic import). It holds
// no per-call state — Scope and EvaluationContext are threaded as
// explicit arguments so the same Evaluator instance safely serves nested
// and concurrent (coroutine) evaluations.
type Evaluator struct {
	TypeMap *ast.TypeMap
	Globals *env.Environment

	// ResolveModule, when non-nil, lets dynamic `import()`, static import
	// declarations and `import x = require(...)` reach the linker without
	// an import cycle (type-only imports never call it); the linker wires
	// this after constructing both.
	ResolveModule func(specifier string) (*runtime.NamespaceValue, error)
}

// New constructs an Evaluator. typeMap may be nil (no checker annotations
// available).
func New(globals *env.Environment, typeMap *ast.TypeMap) *Evaluator {
	return &Evaluator{TypeMap: typeMap, Globals: globals}
}

// ExprHandler evaluates one expression kind. A non-nil returned error
// means the expression threw; its value (unwrapped via runtime error
// conventions) becomes a ThrowSignal Result at the nearest statement
// boundary that can observe it (ExpressionStmt, the right-hand side of an
// assignment, etc. — each such call site checks err and synthesizes the
// Result itself, since expression evaluation has no Result of its own).
type ExprHandler func(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error)

// StmtHandler executes one statement kind and returns its completion.
type StmtHandler func(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result

var exprRegistry [exprKindCount]ExprHandler
var stmtRegistry [stmtKindCount]StmtHandler

// exprKindCount/stmtKindCount mirror ast.NumExprKinds()/NumStmtKinds() as
// compile-time array lengths; init() below cross-checks them against the
// live ast package counts so a kind added to ast without a matching array
// resize is caught immediately instead of silently under-allocating.
const (
	exprKindCount = 50
	stmtKindCount = 32
)

func init() {
	if ast.NumExprKinds() != exprKindCount {
		panic(fmt.Sprintf("evaluator: exprRegistry sized for %d expression kinds, ast defines %d — update exprKindCount", exprKindCount, ast.NumExprKinds()))
	}
	if ast.NumStmtKinds() != stmtKindCount {
		panic(fmt.Sprintf("evaluator: stmtRegistry sized for %d statement kinds, ast defines %d — update stmtKindCount", stmtKindCount, ast.NumStmtKinds()))
	}
	registerExpressionHandlers()
	registerStatementHandlers()
	for k := 0; k < exprKindCount; k++ {
		if exprRegistry[k] == nil {
			panic(fmt.Sprintf("evaluator: no handler registered for expression kind %s", ast.ExprKind(k)))
		}
	}
	for k := 0; k < stmtKindCount; k++ {
		if stmtRegistry[k] == nil {
			panic(fmt.Sprintf("evaluator: no handler registered for statement kind %s", ast.StmtKind(k)))
		}
	}
}

// registerExpr/registerStmt are small helpers used by the per-kind registration files
// (expressions.go, statements.go) to fail loudly on a duplicate
// registration instead of silently overwriting one handler with another.
func registerExpr(kind ast.ExprKind, h ExprHandler) {
	if exprRegistry[kind] != nil {
		panic(fmt.Sprintf("evaluator: duplicate handler for expression kind %s", kind))
	}
	exprRegistry[kind] = h
}

func registerStmt(kind ast.StmtKind, h StmtHandler) {
	if stmtRegistry[kind] != nil {
		panic(fmt.Sprintf("evaluator: duplicate handler for statement kind %s", kind))
	}
	stmtRegistry[kind] = h
}

// Eval dispatches expr to its registered handler.
func (ev *Evaluator) Eval(ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	h := exprRegistry[expr.ExprKind()]
	return h(ev, ctx, scope, expr)
}

// Exec dispatches stmt to its registered handler.
func (ev *Evaluator) Exec(ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	h := stmtRegistry[stmt.StmtKind()]
	return h(ev, ctx, scope, stmt)
}

// ExecBlock runs a sequence of statements in order, short-circuiting on
// the first abrupt completion (spec §4.2).
func (ev *Evaluator) ExecBlock(ctx EvaluationContext, scope *env.Environment, stmts []ast.Statement) Result {
	for _, s := range stmts {
		r := ev.Exec(ctx, scope, s)
		if r.IsAbrupt() {
			return r
		}
	}
	return ResultNormal
}

// ExecProgram hoists function declarations then runs a program's
// top-level statements (spec §2's data-flow summary: "the top-level
// driver hoists function declarations, executes statements").
func (ev *Evaluator) ExecProgram(ctx EvaluationContext, scope *env.Environment, prog *ast.Program) Result {
	hoistFunctionDeclarations(ev, scope, prog.Statements)
	return ev.ExecBlock(ctx, scope, prog.Statements)
}

// HoistFunctionDeclarations exposes hoistFunctionDeclarations to callers
// outside the package (the linker, which executes a module's statements
// one at a time instead of through ExecProgram so it can intercept
// `export default`/`export =` expression values without evaluating them
// twice).
func HoistFunctionDeclarations(scope *env.Environment, stmts []ast.Statement) {
	hoistFunctionDeclarations(nil, scope, stmts)
}

// hoistFunctionDeclarations pre-binds every top-level `function name(){}`
// declaration before the block executes, so forward references (calling
// a function defined later in the same scope) resolve correctly.
// `export function foo(){}`/`export default function foo(){}` unwrap to
// the same FunctionDecl, so a hoisted export is visible to code above it
// in the same module exactly like a non-exported one (spec §4.6).
func hoistFunctionDeclarations(ev *Evaluator, scope *env.Environment, stmts []ast.Statement) {
	for _, s := range stmts {
		if exp, ok := s.(*ast.ExportDecl); ok {
			if exp.Decl == nil {
				continue
			}
			s = exp.Decl
		}
		if fn, ok := s.(*ast.FunctionDecl); ok {
			scope.Define(fn.Name, &runtime.FunctionValue{
				Name:      fn.Name,
				Params:    fn.Params,
				Body:      fn.Body,
				Async:     fn.Async,
				Generator: fn.Generator,
				Closure:   scope,
			})
		}
	}
}
