package evaluator

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

func registerStatementHandlers() {
	registerStmt(ast.SExpression, execExpressionStmt)
	registerStmt(ast.SBlock, execBlockStmt)
	registerStmt(ast.SSequence, execSequenceStmt)
	registerStmt(ast.SVarDecl, execVarDecl)
	registerStmt(ast.SIf, execIf)
	registerStmt(ast.SFor, execFor)
	registerStmt(ast.SForOf, execForOf)
	registerStmt(ast.SForIn, execForIn)
	registerStmt(ast.SWhile, execWhile)
	registerStmt(ast.SDoWhile, execDoWhile)
	registerStmt(ast.SSwitch, execSwitch)
	registerStmt(ast.STryCatch, execTryCatch)
	registerStmt(ast.SThrow, execThrow)
	registerStmt(ast.SReturn, execReturn)
	registerStmt(ast.SBreak, execBreak)
	registerStmt(ast.SContinue, execContinue)
	registerStmt(ast.SLabeled, execLabeled)
	registerStmt(ast.SFunction, execFunctionDecl)
	registerStmt(ast.SClass, execClassDecl)
	registerStmt(ast.SInterface, execNoop)
	registerStmt(ast.STypeAlias, execNoop)
	registerStmt(ast.SDeclare, execDeclare)
	registerStmt(ast.SEnum, execEnumDecl)
	registerStmt(ast.SNamespace, execNamespaceDecl)
	registerStmt(ast.SExport, execExportDecl)
	registerStmt(ast.SImport, execImportDecl)
	registerStmt(ast.SImportRequire, execImportRequireDecl)
	registerStmt(ast.SDirective, execDirective)
	registerStmt(ast.SUsing, execUsingDecl)
	registerStmt(ast.SStaticBlock, execStaticBlock)
	registerStmt(ast.SAutoAccessor, execAutoAccessor)
	registerStmt(ast.SEmpty, execNoop)
}

// resultFromErr turns an expression-evaluation error into a Result: a
// generator-return unwind signal becomes a ReturnSignal Result, a
// thrownValue/awaitRejected becomes a ThrowSignal Result carrying its JS
// value, and any other host error becomes a ThrowSignal Result carrying a
// generic Error whose message is the host error's text.
func resultFromErr(err error) Result {
	if g, ok := err.(*generatorReturnSignal); ok {
		return ResultReturn(g.value)
	}
	if v, ok := ThrownValue(err); ok {
		return ResultThrow(v)
	}
	return ResultThrow(&runtime.ErrorValue{Kind: runtime.ErrGeneric, Name: "Error", Message: err.Error()})
}

func execExpressionStmt(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	s := stmt.(*ast.ExpressionStmt)
	_, err := ev.Eval(ctx, scope, s.Expr)
	if err != nil {
		return resultFromErr(err)
	}
	return ResultNormal
}

func execBlockStmt(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	b := stmt.(*ast.Block)
	blockScope := env.NewEnclosed(scope)
	hoistFunctionDeclarations(ev, blockScope, b.Statements)
	result := ev.ExecBlock(ctx, blockScope, b.Statements)
	return disposeScope(ev, ctx, blockScope, result)
}

// disposeScope runs any `using`/`await using` disposers declared directly
// in scope, in reverse declaration order, after result has already been
// computed — a disposal error replaces the completion, whether it was
// Normal or abrupt (no SuppressedError chaining), and when several
// disposals throw the last error wins.
func disposeScope(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, result Result) Result {
	disposers := scope.Disposers()
	for i := len(disposers) - 1; i >= 0; i-- {
		d := disposers[i]
		v, ok := scope.Lookup(d.Name)
		if !ok || runtime.IsNullish(v) {
			continue
		}
		methodName := "dispose"
		if d.Await {
			methodName = "asyncDispose"
		}
		method := getProperty(v, methodName)
		if runtime.IsNullish(method) {
			continue
		}
		disposeResult, err := CallValue(ev, ctx, method, v, nil)
		if err != nil {
			if reason, ok := ThrownValue(err); ok {
				result = ResultThrow(reason)
			} else {
				result = resultFromErr(err)
			}
			continue
		}
		if d.Await {
			if _, err := ctx.Resolve(disposeResult); err != nil {
				result = resultFromErr(err)
			}
		}
	}
	return result
}

func execSequenceStmt(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	s := stmt.(*ast.Sequence)
	return ev.ExecBlock(ctx, scope, s.Statements)
}

func execVarDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	v := stmt.(*ast.VarDecl)
	for _, d := range v.Declarators {
		var val runtime.Value = runtime.Undefined
		if d.Init != nil {
			res, err := ev.Eval(ctx, scope, d.Init)
			if err != nil {
				return resultFromErr(err)
			}
			val = res
		}
		if d.Pattern != nil {
			if err := BindPattern(ev, ctx, scope, d.Pattern, val, true); err != nil {
				return resultFromErr(err)
			}
			continue
		}
		scope.Define(d.Name, val)
		if v.Kind == ast.DeclConst {
			scope.MarkReadOnly(d.Name)
		}
	}
	return ResultNormal
}

func execIf(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	i := stmt.(*ast.If)
	cond, err := ev.Eval(ctx, scope, i.Condition)
	if err != nil {
		return resultFromErr(err)
	}
	if toBool(cond) {
		return ev.Exec(ctx, scope, i.Then)
	}
	if i.Alternate != nil {
		return ev.Exec(ctx, scope, i.Alternate)
	}
	return ResultNormal
}

func execFor(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	f := stmt.(*ast.For)
	loopScope := env.NewEnclosed(scope)
	if f.Init != nil {
		if r := ev.Exec(ctx, loopScope, f.Init); r.IsAbrupt() {
			return r
		}
	}
	for {
		if f.Condition != nil {
			cond, err := ev.Eval(ctx, loopScope, f.Condition)
			if err != nil {
				return resultFromErr(err)
			}
			if !toBool(cond) {
				break
			}
		}
		ctx.Loop().DrainDue()
		bodyScope := env.NewEnclosed(loopScope)
		r := ev.Exec(ctx, bodyScope, f.Body)
		if r.Kind == BreakSignal {
			if r.MatchesLabel("") {
				break
			}
			return r
		}
		if r.Kind == ContinueSignal {
			if !r.MatchesLabel("") {
				return r
			}
		} else if r.IsAbrupt() {
			return r
		}
		if f.Update != nil {
			if _, err := ev.Eval(ctx, loopScope, f.Update); err != nil {
				return resultFromErr(err)
			}
		}
	}
	return ResultNormal
}

func execWhile(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	w := stmt.(*ast.While)
	for {
		cond, err := ev.Eval(ctx, scope, w.Condition)
		if err != nil {
			return resultFromErr(err)
		}
		if !toBool(cond) {
			break
		}
		ctx.Loop().DrainDue()
		bodyScope := env.NewEnclosed(scope)
		r := ev.Exec(ctx, bodyScope, w.Body)
		if r.Kind == BreakSignal {
			if r.MatchesLabel("") {
				break
			}
			return r
		}
		if r.Kind == ContinueSignal {
			if !r.MatchesLabel("") {
				return r
			}
			continue
		}
		if r.IsAbrupt() {
			return r
		}
	}
	return ResultNormal
}

func execDoWhile(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	d := stmt.(*ast.DoWhile)
	for {
		ctx.Loop().DrainDue()
		bodyScope := env.NewEnclosed(scope)
		r := ev.Exec(ctx, bodyScope, d.Body)
		if r.Kind == BreakSignal {
			if r.MatchesLabel("") {
				break
			}
			return r
		}
		if r.Kind == ContinueSignal {
			if !r.MatchesLabel("") {
				return r
			}
		} else if r.IsAbrupt() {
			return r
		}
		cond, err := ev.Eval(ctx, scope, d.Condition)
		if err != nil {
			return resultFromErr(err)
		}
		if !toBool(cond) {
			break
		}
	}
	return ResultNormal
}

func declareLoopVar(scope *env.Environment, kind ast.VarDeclKind, name string, pattern ast.Expression, isNewDecl bool, value runtime.Value, ev *Evaluator, ctx EvaluationContext) error {
	if !isNewDecl {
		if pattern != nil {
			return BindPattern(ev, ctx, scope, pattern, value, false)
		}
		return scope.Assign(name, value)
	}
	if pattern != nil {
		return BindPattern(ev, ctx, scope, pattern, value, true)
	}
	scope.Define(name, value)
	if kind == ast.DeclConst {
		scope.MarkReadOnly(name)
	}
	return nil
}

func execForOf(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	f := stmt.(*ast.ForOf)
	iterableVal, err := ev.Eval(ctx, scope, f.Iterable)
	if err != nil {
		return resultFromErr(err)
	}
	if f.Await {
		iterableVal, err = ctx.Resolve(iterableVal)
		if err != nil {
			return resultFromErr(err)
		}
	}
	items := iterableToSlice(iterableVal)
	for _, item := range items {
		if f.Await {
			resolved, err := ctx.Resolve(item)
			if err != nil {
				return resultFromErr(err)
			}
			item = resolved
		}
		iterScope := env.NewEnclosed(scope)
		if err := declareLoopVar(iterScope, f.Kind, f.Name, f.Pattern, f.IsNewDecl, item, ev, ctx); err != nil {
			return resultFromErr(err)
		}
		ctx.Loop().DrainDue()
		r := ev.Exec(ctx, iterScope, f.Body)
		if r.Kind == BreakSignal {
			if r.MatchesLabel("") {
				break
			}
			return r
		}
		if r.Kind == ContinueSignal {
			if !r.MatchesLabel("") {
				return r
			}
			continue
		}
		if r.IsAbrupt() {
			return r
		}
	}
	return ResultNormal
}

func execForIn(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	f := stmt.(*ast.ForIn)
	objVal, err := ev.Eval(ctx, scope, f.Object)
	if err != nil {
		return resultFromErr(err)
	}
	keys := enumerableKeys(objVal)
	for _, key := range keys {
		iterScope := env.NewEnclosed(scope)
		if err := declareLoopVar(iterScope, f.Kind, f.Name, f.Pattern, f.IsNewDecl, runtime.Str(key), ev, ctx); err != nil {
			return resultFromErr(err)
		}
		ctx.Loop().DrainDue()
		r := ev.Exec(ctx, iterScope, f.Body)
		if r.Kind == BreakSignal {
			if r.MatchesLabel("") {
				break
			}
			return r
		}
		if r.Kind == ContinueSignal {
			if !r.MatchesLabel("") {
				return r
			}
			continue
		}
		if r.IsAbrupt() {
			return r
		}
	}
	return ResultNormal
}

func enumerableKeys(v runtime.Value) []string {
	switch o := v.(type) {
	case *runtime.ObjectValue:
		return append([]string{}, o.Keys...)
	case *runtime.ArrayValue:
		keys := make([]string, len(o.Elements))
		for i := range o.Elements {
			keys[i] = fmt.Sprintf("%d", i)
		}
		return keys
	case *runtime.InstanceValue:
		return append([]string{}, o.PropOrder...)
	default:
		return nil
	}
}

func execSwitch(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	s := stmt.(*ast.Switch)
	disc, err := ev.Eval(ctx, scope, s.Discriminant)
	if err != nil {
		return resultFromErr(err)
	}
	switchScope := env.NewEnclosed(scope)

	matchIdx := -1
	defaultIdx := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			defaultIdx = i
			continue
		}
		testVal, err := ev.Eval(ctx, switchScope, c.Test)
		if err != nil {
			return resultFromErr(err)
		}
		if runtime.StrictEquals(disc, testVal) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		matchIdx = defaultIdx
	}
	if matchIdx == -1 {
		return ResultNormal
	}
	for i := matchIdx; i < len(s.Cases); i++ {
		r := ev.ExecBlock(ctx, switchScope, s.Cases[i].Body)
		if r.Kind == BreakSignal && r.MatchesLabel("") {
			return ResultNormal
		}
		if r.IsAbrupt() {
			return r
		}
	}
	return ResultNormal
}

func execTryCatch(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	t := stmt.(*ast.TryCatch)

	result := runProtectedBlock(ev, ctx, scope, t.Block)

	if result.Kind == ThrowSignal && t.Handler != nil {
		catchScope := env.NewEnclosed(scope)
		if t.CatchParam != nil {
			if err := BindPattern(ev, ctx, catchScope, t.CatchParam, result.Value, true); err != nil {
				return resultFromErr(err)
			}
		}
		hoistFunctionDeclarations(ev, catchScope, t.Handler.Statements)
		result = ev.ExecBlock(ctx, catchScope, t.Handler.Statements)
	}

	if t.Finally != nil {
		finallyScope := env.NewEnclosed(scope)
		hoistFunctionDeclarations(ev, finallyScope, t.Finally.Statements)
		finallyResult := ev.ExecBlock(ctx, finallyScope, t.Finally.Statements)
		if finallyResult.IsAbrupt() {
			// A completion from `finally` overrides whatever try/catch
			// produced, per the spec's try-statement completion rule.
			return finallyResult
		}
	}

	return result
}

// runProtectedBlock executes a try-block in its own lexical scope. A
// generator-return unwind signal raised inside it has already become a
// ReturnSignal Result (resultFromErr converts it in the statement that
// raised it), so pending finally blocks still observe it.
func runProtectedBlock(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, block *ast.Block) Result {
	blockScope := env.NewEnclosed(scope)
	hoistFunctionDeclarations(ev, blockScope, block.Statements)
	return ev.ExecBlock(ctx, blockScope, block.Statements)
}

func execThrow(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	t := stmt.(*ast.Throw)
	v, err := ev.Eval(ctx, scope, t.Expr)
	if err != nil {
		return resultFromErr(err)
	}
	return ResultThrow(v)
}

func execReturn(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	r := stmt.(*ast.Return)
	var v runtime.Value = runtime.Undefined
	if r.Expr != nil {
		val, err := ev.Eval(ctx, scope, r.Expr)
		if err != nil {
			if genRet, ok := asGeneratorReturn(err); ok {
				return ResultReturn(genRet)
			}
			return resultFromErr(err)
		}
		v = val
	}
	return ResultReturn(v)
}

func asGeneratorReturn(err error) (runtime.Value, bool) {
	if g, ok := err.(*generatorReturnSignal); ok {
		return g.value, true
	}
	return nil, false
}

func execBreak(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	return ResultBreak(stmt.(*ast.Break).Label)
}

func execContinue(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	return ResultContinue(stmt.(*ast.Continue).Label)
}

func execLabeled(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	l := stmt.(*ast.Labeled)
	r := ev.Exec(ctx, scope, l.Body)
	if r.Kind == BreakSignal && r.Label == l.Label {
		return ResultNormal
	}
	if r.Kind == ContinueSignal && r.Label == l.Label {
		return ResultNormal
	}
	return r
}

func execFunctionDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	// Hoisting already bound this declaration's name at block/program entry
	// (hoistFunctionDeclarations); executing it again is a no-op so that a
	// function statement appearing mid-block still "executes" without
	// rebinding away any mutation the hoisted closure already captured.
	return ResultNormal
}

func execClassDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	c := stmt.(*ast.ClassDecl)
	cls, err := BuildClass(ev, ctx, scope, c)
	if err != nil {
		return resultFromErr(err)
	}
	if c.Name != "" {
		scope.Define(c.Name, cls)
	}
	return ResultNormal
}

func execNoop(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	return ResultNormal
}

func execDeclare(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	// Ambient declarations describe an external environment and never run
	// (spec's Non-goal boundary around the type checker); the evaluator
	// skips Inner entirely rather than executing it.
	return ResultNormal
}

func execEnumDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	e := stmt.(*ast.EnumDecl)
	obj := runtime.NewObject()
	nextNumeric := 0.0
	for _, m := range e.Members {
		var v runtime.Value
		if m.Value != nil {
			val, err := ev.Eval(ctx, scope, m.Value)
			if err != nil {
				return resultFromErr(err)
			}
			v = val
		} else {
			v = runtime.Number(nextNumeric)
		}
		obj.Set(m.Name, v)
		if n, ok := v.(*runtime.NumberValue); ok {
			nextNumeric = n.Value + 1
			// Numeric enums get a reverse mapping (value -> name), matching
			// the non-const-enum runtime object TypeScript emits.
			if !e.Const {
				obj.Set(n.String(), runtime.Str(m.Name))
			}
		}
	}
	scope.Define(e.Name, obj)
	return ResultNormal
}

func execNamespaceDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	n := stmt.(*ast.NamespaceDecl)
	nsScope := env.NewEnclosed(scope)
	hoistFunctionDeclarations(ev, nsScope, n.Body)
	if r := ev.ExecBlock(ctx, nsScope, n.Body); r.IsAbrupt() {
		return r
	}
	ns := scope.DefineNamespace(n.Name)
	nsScope.Range(func(name string, v runtime.Value) bool {
		ns.Merge(name, v)
		return true
	})
	return ResultNormal
}

func execExportDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	e := stmt.(*ast.ExportDecl)
	// Export bookkeeping (recording which names a module exposes) is the
	// linker's job; the evaluator's only responsibility here is to run the
	// wrapped declaration (if any) for its side effects/bindings, since
	// `export` itself produces no runtime value.
	if e.Decl != nil {
		return ev.Exec(ctx, scope, e.Decl)
	}
	if e.Default != nil {
		if _, err := ev.Eval(ctx, scope, e.Default); err != nil {
			return resultFromErr(err)
		}
	}
	if e.CommonJSExp != nil {
		if _, err := ev.Eval(ctx, scope, e.CommonJSExp); err != nil {
			return resultFromErr(err)
		}
	}
	return ResultNormal
}

func execImportDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	im := stmt.(*ast.ImportDecl)
	if im.TypeOnly || ev.ResolveModule == nil {
		return ResultNormal
	}
	ns, err := ev.ResolveModule(im.Source)
	if err != nil {
		return resultFromErr(fmt.Errorf("Error: cannot resolve module '%s': %w", im.Source, err))
	}
	for _, spec := range im.Specifiers {
		if spec.TypeOnly {
			continue
		}
		name := spec.Alias
		if name == "" {
			name = spec.Name
		}
		switch {
		case spec.Namespace:
			scope.Define(name, ns)
		case spec.Default:
			if v, ok := ns.Members["default"]; ok {
				scope.Define(name, v)
			} else {
				scope.Define(name, runtime.Undefined)
			}
		default:
			if v, ok := ns.Members[spec.Name]; ok {
				scope.Define(name, v)
			} else {
				scope.Define(name, runtime.Undefined)
			}
		}
	}
	return ResultNormal
}

func execImportRequireDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	i := stmt.(*ast.ImportRequireDecl)
	if ev.ResolveModule == nil {
		scope.Define(i.Name, runtime.Undefined)
		return ResultNormal
	}
	ns, err := ev.ResolveModule(i.Source)
	if err != nil {
		return resultFromErr(fmt.Errorf("Error: cannot resolve module '%s': %w", i.Source, err))
	}
	// `export = value` (CommonJS interop) merges its value into the
	// namespace under a sentinel key; `import x = require('p')` consults
	// that slot first and falls back to the namespace view itself only
	// when the source module never used `export =` (spec §4.6).
	if assigned, ok := ns.Members[runtime.CommonJSExportKey]; ok {
		scope.Define(i.Name, assigned)
		return ResultNormal
	}
	scope.Define(i.Name, ns)
	return ResultNormal
}

func execDirective(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	d := stmt.(*ast.Directive)
	if d.Value == "use strict" {
		scope.SetStrict(true)
	}
	return ResultNormal
}

func execUsingDecl(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	u := stmt.(*ast.UsingDecl)
	v, err := ev.Eval(ctx, scope, u.Init)
	if err != nil {
		return resultFromErr(err)
	}
	if u.Await {
		resolved, err := ctx.Resolve(v)
		if err != nil {
			return resultFromErr(err)
		}
		v = resolved
	}
	// Disposal at block exit (calling Symbol.dispose/asyncDispose in reverse
	// declaration order) is driven by execBlockStmt via the enclosing
	// scope's disposer list rather than here, so a throw between this
	// declaration and its block's end still triggers cleanup.
	scope.Define(u.Name, v)
	scope.AddDisposer(u.Name, u.Await)
	return ResultNormal
}

func execStaticBlock(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	s := stmt.(*ast.StaticBlock)
	blockScope := env.NewEnclosed(scope)
	return ev.ExecBlock(ctx, blockScope, s.Body.Statements)
}

func execAutoAccessor(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, stmt ast.Statement) Result {
	a := stmt.(*ast.AutoAccessorDecl)
	var v runtime.Value = runtime.Undefined
	if a.Init != nil {
		val, err := ev.Eval(ctx, scope, a.Init)
		if err != nil {
			return resultFromErr(err)
		}
		v = val
	}
	scope.Define(a.Name, v)
	return ResultNormal
}
