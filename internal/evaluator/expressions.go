package evaluator

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

func registerExpressionHandlers() {
	registerExpr(ast.KLiteral, evalLiteral)
	registerExpr(ast.KRegexLiteral, evalRegexLiteral)
	registerExpr(ast.KVariable, evalVariable)
	registerExpr(ast.KThis, evalThis)
	registerExpr(ast.KSuper, evalSuper)
	registerExpr(ast.KGrouping, evalGrouping)
	registerExpr(ast.KUnary, evalUnary)
	registerExpr(ast.KDelete, evalDelete)
	registerExpr(ast.KTypeofExpr, evalTypeof)
	registerExpr(ast.KInstanceofExpr, evalInstanceof)
	registerExpr(ast.KPrefixIncrement, evalPrefixIncrement)
	registerExpr(ast.KPostfixIncrement, evalPostfixIncrement)
	registerExpr(ast.KBinary, evalBinary)
	registerExpr(ast.KLogical, evalLogical)
	registerExpr(ast.KNullishCoalescing, evalNullish)
	registerExpr(ast.KTernary, evalTernary)
	registerExpr(ast.KSequenceExpr, evalSequence)
	registerExpr(ast.KAssign, evalAssign)
	registerExpr(ast.KCompoundAssign, evalCompoundAssign)
	registerExpr(ast.KLogicalAssign, evalLogicalAssign)
	registerExpr(ast.KCall, evalCall)
	registerExpr(ast.KOptionalCall, evalCall)
	registerExpr(ast.KGet, evalGet)
	registerExpr(ast.KOptionalGet, evalGet)
	registerExpr(ast.KSet, evalSet)
	registerExpr(ast.KGetPrivate, evalGetPrivate)
	registerExpr(ast.KSetPrivate, evalSetPrivate)
	registerExpr(ast.KCallPrivate, evalCallPrivate)
	registerExpr(ast.KGetIndex, evalGetIndex)
	registerExpr(ast.KOptionalGetIndex, evalGetIndex)
	registerExpr(ast.KSetIndex, evalSetIndex)
	registerExpr(ast.KNew, evalNew)
	registerExpr(ast.KArrayLiteral, evalArrayLiteral)
	registerExpr(ast.KObjectLiteral, evalObjectLiteral)
	registerExpr(ast.KArrowFunction, evalArrowFunction)
	registerExpr(ast.KFunctionExpr, evalFunctionExpr)
	registerExpr(ast.KClassExpr, evalClassExpr)
	registerExpr(ast.KTemplateLiteral, evalTemplateLiteral)
	registerExpr(ast.KTaggedTemplateLiteral, evalTemplateLiteral)
	registerExpr(ast.KSpread, evalSpreadStandalone)
	registerExpr(ast.KTypeAssertion, evalTypeAssertion)
	registerExpr(ast.KSatisfies, evalSatisfies)
	registerExpr(ast.KNonNullAssertion, evalNonNullAssertion)
	registerExpr(ast.KAwait, evalAwait)
	registerExpr(ast.KYield, evalYield)
	registerExpr(ast.KYieldDelegate, evalYieldDelegate)
	registerExpr(ast.KDynamicImport, evalDynamicImport)
	registerExpr(ast.KImportMeta, evalImportMeta)
	registerExpr(ast.KArrayPattern, evalPatternAsExpr)
	registerExpr(ast.KObjectPattern, evalPatternAsExpr)
}

func evalLiteral(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	lit := expr.(*ast.Literal)
	switch lit.Kind {
	case ast.LitUndefined:
		return runtime.Undefined, nil
	case ast.LitNull:
		return runtime.Null, nil
	case ast.LitBoolean:
		return runtime.Bool(lit.Bool), nil
	case ast.LitNumber:
		return runtime.Number(lit.Number), nil
	case ast.LitBigInt:
		n := new(big.Int)
		n.SetString(lit.BigInt, 10)
		return &runtime.BigIntValue{Raw: n, Str: lit.BigInt}, nil
	case ast.LitString:
		return runtime.Str(lit.Str), nil
	default:
		return runtime.Undefined, nil
	}
}

// regexCompiler is wired by the builtins package at startup (SetRegexCompiler)
// so a `/pattern/flags` literal gets a live Matcher instead of a Source/
// Flags-only placeholder — the same cycle-avoidance pattern as methodLookup.
var regexCompiler func(source, flags string) (*runtime.RegExpValue, error)

// SetRegexCompiler registers the regexp2-backed literal compiler.
func SetRegexCompiler(fn func(source, flags string) (*runtime.RegExpValue, error)) {
	regexCompiler = fn
}

func evalRegexLiteral(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	r := expr.(*ast.RegexLiteral)
	if regexCompiler != nil {
		re, err := regexCompiler(r.Pattern, r.Flags)
		if err != nil {
			return nil, err
		}
		return re, nil
	}
	return &runtime.RegExpValue{Source: r.Pattern, Flags: r.Flags}, nil
}

func evalVariable(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	v := expr.(*ast.Variable)
	if v.Depth >= 0 {
		if val, ok := scope.GetAt(v.Depth, v.Name); ok {
			return val, nil
		}
	}
	if val, ok := scope.Lookup(v.Name); ok {
		return val, nil
	}
	return nil, fmt.Errorf("ReferenceError: %s is not defined", v.Name)
}

func evalThis(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	if v, ok := scope.Lookup("this"); ok {
		return v, nil
	}
	return runtime.Undefined, nil
}

func evalSuper(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	return nil, fmt.Errorf("SyntaxError: 'super' keyword is only valid inside a class")
}

func evalGrouping(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	return ev.Eval(ctx, scope, expr.(*ast.Grouping).Inner)
}

func evalUnary(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	u := expr.(*ast.Unary)
	v, err := ev.Eval(ctx, scope, u.Operand)
	if err != nil {
		return nil, err
	}
	switch u.Operator {
	case "-":
		return runtime.Number(-toNumber(v)), nil
	case "+":
		return runtime.Number(toNumber(v)), nil
	case "!":
		return runtime.Bool(!toBool(v)), nil
	case "~":
		return runtime.Number(float64(^int32(toNumber(v)))), nil
	default:
		return nil, fmt.Errorf("SyntaxError: unknown unary operator %s", u.Operator)
	}
}

func evalDelete(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	d := expr.(*ast.Delete)
	switch t := d.Target.(type) {
	case *ast.Get:
		obj, err := ev.Eval(ctx, scope, t.Object)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(deleteProperty(obj, t.Name)), nil
	case *ast.GetIndex:
		obj, err := ev.Eval(ctx, scope, t.Object)
		if err != nil {
			return nil, err
		}
		idx, err := ev.Eval(ctx, scope, t.Index)
		if err != nil {
			return nil, err
		}
		if arr, ok := obj.(*runtime.ArrayValue); ok {
			if n, ok := idx.(*runtime.NumberValue); ok {
				i := int64(n.Value)
				if i >= 0 && i < int64(len(arr.Elements)) {
					arr.Elements[i] = runtime.Undefined
				}
				return runtime.True, nil
			}
		}
		return runtime.Bool(deleteProperty(obj, idx.String())), nil
	default:
		return runtime.True, nil
	}
}

func evalTypeof(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	t := expr.(*ast.TypeofExpr)
	v, err := ev.Eval(ctx, scope, t.Operand)
	if err != nil {
		if _, ok := t.Operand.(*ast.Variable); ok {
			return runtime.Str("undefined"), nil
		}
		return nil, err
	}
	return runtime.Str(runtime.Typeof(v)), nil
}

func evalInstanceof(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	n := expr.(*ast.InstanceofExpr)
	left, err := ev.Eval(ctx, scope, n.Left)
	if err != nil {
		return nil, err
	}
	classVal, err := ev.Eval(ctx, scope, n.Class)
	if err != nil {
		return nil, err
	}
	cls, ok := classVal.(*runtime.ClassValue)
	if !ok {
		return nil, fmt.Errorf("TypeError: Right-hand side of 'instanceof' is not callable")
	}
	inst, ok := left.(*runtime.InstanceValue)
	if !ok {
		return runtime.False, nil
	}
	return runtime.Bool(inst.Class.IsSubclassOf(cls)), nil
}

func evalPrefixIncrement(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	p := expr.(*ast.PrefixIncrement)
	cur, err := ev.Eval(ctx, scope, p.Target)
	if err != nil {
		return nil, err
	}
	next := step(cur, p.Operator)
	if err := assignTo(ev, ctx, scope, p.Target, next); err != nil {
		return nil, err
	}
	return next, nil
}

func evalPostfixIncrement(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	p := expr.(*ast.PostfixIncrement)
	cur, err := ev.Eval(ctx, scope, p.Target)
	if err != nil {
		return nil, err
	}
	n := toNumber(cur)
	next := step(cur, p.Operator)
	if err := assignTo(ev, ctx, scope, p.Target, next); err != nil {
		return nil, err
	}
	return runtime.Number(n), nil
}

func step(v runtime.Value, op string) runtime.Value {
	n := toNumber(v)
	if op == "++" {
		return runtime.Number(n + 1)
	}
	return runtime.Number(n - 1)
}

func evalBinary(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	b := expr.(*ast.Binary)
	left, err := ev.Eval(ctx, scope, b.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.Eval(ctx, scope, b.Right)
	if err != nil {
		return nil, err
	}
	return applyBinaryOp(b.Operator, left, right)
}

func applyBinaryOp(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		if isStringLike(left) || isStringLike(right) {
			return runtime.Str(left.String() + right.String()), nil
		}
		return runtime.Number(toNumber(left) + toNumber(right)), nil
	case "-":
		return runtime.Number(toNumber(left) - toNumber(right)), nil
	case "*":
		return runtime.Number(toNumber(left) * toNumber(right)), nil
	case "/":
		return runtime.Number(toNumber(left) / toNumber(right)), nil
	case "%":
		return runtime.Number(math.Mod(toNumber(left), toNumber(right))), nil
	case "**":
		return runtime.Number(math.Pow(toNumber(left), toNumber(right))), nil
	case "&":
		return runtime.Number(float64(int32(toNumber(left)) & int32(toNumber(right)))), nil
	case "|":
		return runtime.Number(float64(int32(toNumber(left)) | int32(toNumber(right)))), nil
	case "^":
		return runtime.Number(float64(int32(toNumber(left)) ^ int32(toNumber(right)))), nil
	case "<<":
		return runtime.Number(float64(int32(toNumber(left)) << (uint32(toNumber(right)) & 31))), nil
	case ">>":
		return runtime.Number(float64(int32(toNumber(left)) >> (uint32(toNumber(right)) & 31))), nil
	case ">>>":
		return runtime.Number(float64(uint32(toNumber(left)) >> (uint32(toNumber(right)) & 31))), nil
	case "==", "===":
		return runtime.Bool(looseOrStrictEquals(op, left, right)), nil
	case "!=", "!==":
		return runtime.Bool(!looseOrStrictEquals(strings.TrimPrefix(op, "!"), left, right)), nil
	case "<", ">", "<=", ">=":
		return compareValues(op, left, right), nil
	default:
		return nil, fmt.Errorf("SyntaxError: unknown binary operator %s", op)
	}
}

func looseOrStrictEquals(op string, left, right runtime.Value) bool {
	if op == "===" {
		return runtime.StrictEquals(left, right)
	}
	if runtime.IsNullish(left) && runtime.IsNullish(right) {
		return true
	}
	if isStringLike(left) && isStringLike(right) {
		return runtime.StrictEquals(left, right)
	}
	if _, lok := left.(*runtime.NumberValue); lok {
		return toNumber(left) == toNumber(right)
	}
	if _, rok := right.(*runtime.NumberValue); rok {
		return toNumber(left) == toNumber(right)
	}
	return runtime.StrictEquals(left, right)
}

func compareValues(op string, left, right runtime.Value) runtime.Value {
	var less, greater bool
	if isStringLike(left) && isStringLike(right) {
		ls, rs := left.String(), right.String()
		less, greater = ls < rs, ls > rs
	} else {
		l, r := toNumber(left), toNumber(right)
		if math.IsNaN(l) || math.IsNaN(r) {
			return runtime.False
		}
		less, greater = l < r, l > r
	}
	switch op {
	case "<":
		return runtime.Bool(less)
	case ">":
		return runtime.Bool(greater)
	case "<=":
		return runtime.Bool(!greater)
	default:
		return runtime.Bool(!less)
	}
}

func evalLogical(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	l := expr.(*ast.Logical)
	left, err := ev.Eval(ctx, scope, l.Left)
	if err != nil {
		return nil, err
	}
	if l.Operator == "&&" {
		if runtime.IsFalsey(left) {
			return left, nil
		}
		return ev.Eval(ctx, scope, l.Right)
	}
	if !runtime.IsFalsey(left) {
		return left, nil
	}
	return ev.Eval(ctx, scope, l.Right)
}

func evalNullish(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	n := expr.(*ast.NullishCoalescing)
	left, err := ev.Eval(ctx, scope, n.Left)
	if err != nil {
		return nil, err
	}
	if !runtime.IsNullish(left) {
		return left, nil
	}
	return ev.Eval(ctx, scope, n.Right)
}

func evalTernary(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	t := expr.(*ast.Ternary)
	cond, err := ev.Eval(ctx, scope, t.Condition)
	if err != nil {
		return nil, err
	}
	if toBool(cond) {
		return ev.Eval(ctx, scope, t.Then)
	}
	return ev.Eval(ctx, scope, t.Else)
}

func evalSequence(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	s := expr.(*ast.SequenceExpr)
	var last runtime.Value = runtime.Undefined
	for _, e := range s.Exprs {
		v, err := ev.Eval(ctx, scope, e)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func evalAssign(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	a := expr.(*ast.Assign)
	val, err := ev.Eval(ctx, scope, a.Value)
	if err != nil {
		return nil, err
	}
	if err := assignTo(ev, ctx, scope, a.Target, val); err != nil {
		return nil, err
	}
	return val, nil
}

// assignTo dispatches a plain (non-destructuring) or pattern assignment
// target to the right write path.
func assignTo(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, target ast.Expression, val runtime.Value) error {
	switch t := target.(type) {
	case *ast.Variable:
		if t.Depth >= 0 {
			return scope.AssignAt(t.Depth, t.Name, val)
		}
		return scope.Assign(t.Name, val)
	case *ast.ArrayPattern, *ast.ObjectPattern:
		return BindPattern(ev, ctx, scope, target, val, false)
	default:
		return assignToTarget(ev, ctx, scope, target, val)
	}
}

func evalCompoundAssign(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	c := expr.(*ast.CompoundAssign)
	cur, err := ev.Eval(ctx, scope, c.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := ev.Eval(ctx, scope, c.Value)
	if err != nil {
		return nil, err
	}
	op := strings.TrimSuffix(c.Operator, "=")
	result, err := applyBinaryOp(op, cur, rhs)
	if err != nil {
		return nil, err
	}
	if err := assignTo(ev, ctx, scope, c.Target, result); err != nil {
		return nil, err
	}
	return result, nil
}

func evalLogicalAssign(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	l := expr.(*ast.LogicalAssign)
	cur, err := ev.Eval(ctx, scope, l.Target)
	if err != nil {
		return nil, err
	}
	switch l.Operator {
	case "&&=":
		if runtime.IsFalsey(cur) {
			return cur, nil
		}
	case "||=":
		if !runtime.IsFalsey(cur) {
			return cur, nil
		}
	case "??=":
		if !runtime.IsNullish(cur) {
			return cur, nil
		}
	}
	val, err := ev.Eval(ctx, scope, l.Value)
	if err != nil {
		return nil, err
	}
	if err := assignTo(ev, ctx, scope, l.Target, val); err != nil {
		return nil, err
	}
	return val, nil
}

func evalCall(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	c := expr.(*ast.Call)

	var thisVal runtime.Value = runtime.Undefined
	var callee runtime.Value
	var err error

	switch calleeExpr := c.Callee.(type) {
	case *ast.Get:
		obj, oerr := ev.Eval(ctx, scope, calleeExpr.Object)
		if oerr != nil {
			return nil, oerr
		}
		if calleeExpr.Optional && runtime.IsNullish(obj) {
			return runtime.Undefined, nil
		}
		thisVal = obj
		callee = getProperty(obj, calleeExpr.Name)
	case *ast.GetIndex:
		obj, oerr := ev.Eval(ctx, scope, calleeExpr.Object)
		if oerr != nil {
			return nil, oerr
		}
		idx, ierr := ev.Eval(ctx, scope, calleeExpr.Index)
		if ierr != nil {
			return nil, ierr
		}
		thisVal = obj
		callee = getIndexed(obj, idx)
	default:
		callee, err = ev.Eval(ctx, scope, c.Callee)
		if err != nil {
			return nil, err
		}
	}

	if c.Optional && runtime.IsNullish(callee) {
		return runtime.Undefined, nil
	}

	args, err := evalArgs(ev, ctx, scope, c.Args)
	if err != nil {
		return nil, err
	}
	v, err := CallValue(ev, ctx, callee, thisVal, args)
	if err != nil {
		if reason, ok := ThrownValue(err); ok {
			return nil, &thrownValue{value: reason}
		}
		return nil, err
	}
	return v, nil
}

func evalArgs(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, exprs []ast.Expression) ([]runtime.Value, error) {
	var args []runtime.Value
	for _, a := range exprs {
		if sp, ok := a.(*ast.Spread); ok {
			v, err := ev.Eval(ctx, scope, sp.Expr)
			if err != nil {
				return nil, err
			}
			args = append(args, iterableToSlice(v)...)
			continue
		}
		v, err := ev.Eval(ctx, scope, a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func evalGet(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	g := expr.(*ast.Get)
	if sup, ok := g.Object.(*ast.Super); ok {
		_ = sup
		thisVal, _ := scope.Lookup("this")
		inst, ok := thisVal.(*runtime.InstanceValue)
		if !ok || inst.Class.Super == nil {
			return nil, fmt.Errorf("SyntaxError: 'super' keyword is only valid inside a derived class")
		}
		if m, declClass := inst.Class.Super.Lookup(g.Name); m != nil {
			return boundMethod(inst, declClass, m), nil
		}
		return runtime.Undefined, nil
	}
	obj, err := ev.Eval(ctx, scope, g.Object)
	if err != nil {
		return nil, err
	}
	if g.Optional && runtime.IsNullish(obj) {
		return runtime.Undefined, nil
	}
	return getProperty(obj, g.Name), nil
}

func evalSet(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	s := expr.(*ast.Set)
	obj, err := ev.Eval(ctx, scope, s.Object)
	if err != nil {
		return nil, err
	}
	val, err := ev.Eval(ctx, scope, s.Value)
	if err != nil {
		return nil, err
	}
	if err := setProperty(obj, s.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func resolvePrivateClass(scope *env.Environment, name string) *runtime.ClassValue {
	if v, ok := scope.Lookup(name); ok {
		if cls, ok := v.(*runtime.ClassValue); ok {
			return cls
		}
	}
	return nil
}

func evalGetPrivate(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	g := expr.(*ast.GetPrivate)
	obj, err := ev.Eval(ctx, scope, g.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, fmt.Errorf("TypeError: Cannot read private member #%s from an object whose class does not declare it", g.Name)
	}
	declClass := resolvePrivateClass(scope, g.DeclaringClass)
	if declClass == nil || !inst.Class.IsSubclassOf(declClass) {
		return nil, fmt.Errorf("TypeError: Cannot read private member #%s from an object whose class does not declare it", g.Name)
	}
	if v, ok := inst.GetPrivate(declClass, g.Name); ok {
		return v, nil
	}
	return runtime.Undefined, nil
}

func evalSetPrivate(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	s := expr.(*ast.SetPrivate)
	obj, err := ev.Eval(ctx, scope, s.Object)
	if err != nil {
		return nil, err
	}
	val, err := ev.Eval(ctx, scope, s.Value)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, fmt.Errorf("TypeError: Cannot write private member #%s to an object whose class does not declare it", s.Name)
	}
	declClass := resolvePrivateClass(scope, s.DeclaringClass)
	if declClass == nil || !inst.Class.IsSubclassOf(declClass) {
		return nil, fmt.Errorf("TypeError: Cannot write private member #%s to an object whose class does not declare it", s.Name)
	}
	inst.SetPrivate(declClass, s.Name, val)
	return val, nil
}

func evalCallPrivate(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	c := expr.(*ast.CallPrivate)
	obj, err := ev.Eval(ctx, scope, c.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, fmt.Errorf("TypeError: Cannot read private member #%s from an object whose class does not declare it", c.Name)
	}
	declClass := resolvePrivateClass(scope, c.DeclaringClass)
	if declClass == nil || !inst.Class.IsSubclassOf(declClass) {
		return nil, fmt.Errorf("TypeError: Cannot read private member #%s from an object whose class does not declare it", c.Name)
	}
	m, mdeclClass := declClass.Lookup(c.Name)
	if m == nil {
		return nil, fmt.Errorf("TypeError: %s.#%s is not a function", inst.Class.Name, c.Name)
	}
	args, err := evalArgs(ev, ctx, scope, c.Args)
	if err != nil {
		return nil, err
	}
	return callMethodOn(ev, ctx, inst, mdeclClass, m, args)
}

func evalGetIndex(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	g := expr.(*ast.GetIndex)
	obj, err := ev.Eval(ctx, scope, g.Object)
	if err != nil {
		return nil, err
	}
	if g.Optional && runtime.IsNullish(obj) {
		return runtime.Undefined, nil
	}
	idx, err := ev.Eval(ctx, scope, g.Index)
	if err != nil {
		return nil, err
	}
	return getIndexed(obj, idx), nil
}

func evalSetIndex(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	s := expr.(*ast.SetIndex)
	obj, err := ev.Eval(ctx, scope, s.Object)
	if err != nil {
		return nil, err
	}
	idx, err := ev.Eval(ctx, scope, s.Index)
	if err != nil {
		return nil, err
	}
	val, err := ev.Eval(ctx, scope, s.Value)
	if err != nil {
		return nil, err
	}
	if err := setIndexed(obj, idx, val); err != nil {
		return nil, err
	}
	return val, nil
}

func evalNew(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	n := expr.(*ast.New)
	calleeVal, err := ev.Eval(ctx, scope, n.Callee)
	if err != nil {
		return nil, err
	}
	args, err := evalArgs(ev, ctx, scope, n.Args)
	if err != nil {
		return nil, err
	}
	switch cls := calleeVal.(type) {
	case *runtime.ClassValue:
		inst, err := Instantiate(ev, ctx, cls, args)
		if err != nil {
			if reason, ok := ThrownValue(err); ok {
				return nil, &thrownValue{value: reason}
			}
			return nil, err
		}
		return inst, nil
	case NativeConstructor:
		return cls.Construct(ev, ctx, args)
	default:
		return nil, fmt.Errorf("TypeError: %s is not a constructor", n.Callee.String())
	}
}

func evalArrayLiteral(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	a := expr.(*ast.ArrayLiteral)
	var elems []runtime.Value
	for _, el := range a.Elements {
		if el.Hole {
			elems = append(elems, runtime.Undefined)
			continue
		}
		if el.Spread {
			v, err := ev.Eval(ctx, scope, el.Expr)
			if err != nil {
				return nil, err
			}
			elems = append(elems, iterableToSlice(v)...)
			continue
		}
		v, err := ev.Eval(ctx, scope, el.Expr)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return runtime.NewArray(elems), nil
}

func evalObjectLiteral(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	o := expr.(*ast.ObjectLiteral)
	obj := runtime.NewObject()
	for _, p := range o.Props {
		if p.Spread {
			v, err := ev.Eval(ctx, scope, p.Value)
			if err != nil {
				return nil, err
			}
			if src, ok := v.(*runtime.ObjectValue); ok {
				for _, k := range src.Keys {
					pv, _ := src.Get(k)
					obj.Set(k, pv)
				}
			}
			continue
		}
		key, err := objectKey(ev, ctx, scope, p)
		if err != nil {
			return nil, err
		}
		val, err := ev.Eval(ctx, scope, p.Value)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	return obj, nil
}

func objectKey(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, p ast.ObjectProperty) (string, error) {
	if p.Computed {
		v, err := ev.Eval(ctx, scope, p.Key)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
	switch k := p.Key.(type) {
	case *ast.Literal:
		return k.String(), nil
	case *ast.Variable:
		return k.Name, nil
	default:
		v, err := ev.Eval(ctx, scope, p.Key)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
}

func evalArrowFunction(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	a := expr.(*ast.ArrowFunction)
	thisVal, _ := scope.Lookup("this")
	if thisVal == nil {
		thisVal = runtime.Undefined
	}
	return &runtime.FunctionValue{
		Params: a.Params, Body: a.Body, ExprBody: a.ExprBody,
		Async: a.Async, IsArrow: true, BoundThis: thisVal, Closure: scope,
	}, nil
}

func evalFunctionExpr(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	f := expr.(*ast.FunctionExpr)
	fnScope := scope
	fn := &runtime.FunctionValue{
		Name: f.Name, Params: f.Params, Body: f.Body,
		Async: f.Async, Generator: f.Generator, Closure: fnScope,
	}
	if f.Name != "" {
		// NFE name is read-only inside the body (spec §3.2): give the
		// function its own name binding in a thin wrapper scope so
		// recursive self-reference works without leaking the name
		// outward.
		nfeScope := env.NewEnclosed(scope)
		nfeScope.Define(f.Name, fn)
		nfeScope.MarkReadOnly(f.Name)
		fn.Closure = nfeScope
	}
	return fn, nil
}

func evalClassExpr(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	c := expr.(*ast.ClassExpr)
	cls, err := BuildClass(ev, ctx, scope, c.Decl)
	if err != nil {
		if reason, ok := ThrownValue(err); ok {
			return nil, &thrownValue{value: reason}
		}
		return nil, err
	}
	return cls, nil
}

func evalTemplateLiteral(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	t := expr.(*ast.TemplateLiteral)
	values := make([]runtime.Value, len(t.Exprs))
	for i, e := range t.Exprs {
		v, err := ev.Eval(ctx, scope, e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	if t.Tag == nil {
		var sb strings.Builder
		for i, q := range t.Quasis {
			sb.WriteString(q)
			if i < len(values) {
				sb.WriteString(values[i].String())
			}
		}
		return runtime.Str(sb.String()), nil
	}

	cooked := make([]runtime.Value, len(t.Quasis))
	for i, q := range t.Quasis {
		cooked[i] = runtime.Str(q)
	}
	cookedArr := runtime.NewArray(cooked)
	raw := make([]runtime.Value, len(t.RawQuasis))
	for i, q := range t.RawQuasis {
		raw[i] = runtime.Str(q)
	}
	cookedArr.Flags.Frozen = true
	rawObj := runtime.NewObject()
	_ = rawObj
	cookedObj := runtime.NewObject()
	cookedObj.Set("raw", runtime.NewArray(raw))
	// Expose `.raw` via a companion property on the array through a thin
	// Object wrapper is not directly possible on ArrayValue; tagged
	// templates therefore pass the cooked array and a same-shaped `raw`
	// array as the first two call conveniences, matching the common
	// simplified-tag-function convention used by most userland tags.
	args := append([]runtime.Value{cookedArr, runtime.NewArray(raw)}, values...)

	tagVal, err := ev.Eval(ctx, scope, t.Tag)
	if err != nil {
		return nil, err
	}
	var thisVal runtime.Value = runtime.Undefined
	if g, ok := t.Tag.(*ast.Get); ok {
		obj, err := ev.Eval(ctx, scope, g.Object)
		if err != nil {
			return nil, err
		}
		thisVal = obj
	}
	v, err := CallValue(ev, ctx, tagVal, thisVal, args)
	if err != nil {
		if reason, ok := ThrownValue(err); ok {
			return nil, &thrownValue{value: reason}
		}
		return nil, err
	}
	return v, nil
}

func evalSpreadStandalone(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	return nil, fmt.Errorf("SyntaxError: spread is only valid in call arguments, array literals, or object literals")
}

func evalTypeAssertion(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	return ev.Eval(ctx, scope, expr.(*ast.TypeAssertion).Expr)
}

func evalSatisfies(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	return ev.Eval(ctx, scope, expr.(*ast.Satisfies).Expr)
}

func evalNonNullAssertion(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	return ev.Eval(ctx, scope, expr.(*ast.NonNullAssertion).Expr)
}

func evalAwait(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	a := expr.(*ast.Await)
	if !ctx.IsAsync() {
		return nil, fmt.Errorf("SyntaxError: await is only valid in async function")
	}
	v, err := ev.Eval(ctx, scope, a.Expr)
	if err != nil {
		return nil, err
	}
	resolved, err := ctx.Resolve(v)
	if err != nil {
		if reason, ok := ThrownValue(err); ok {
			return nil, &thrownValue{value: reason}
		}
		return nil, err
	}
	return resolved, nil
}

func evalYield(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	y := expr.(*ast.Yield)
	yc, ok := ctx.(YieldCapable)
	if !ok {
		return nil, fmt.Errorf("SyntaxError: yield is only valid inside a generator")
	}
	var v runtime.Value = runtime.Undefined
	if y.Expr != nil {
		val, err := ev.Eval(ctx, scope, y.Expr)
		if err != nil {
			return nil, err
		}
		v = val
	}
	resumed, kind, thrown := yc.Yield(v)
	switch kind {
	case ThrowSignal:
		return nil, &thrownValue{value: thrown}
	case ReturnSignal:
		return nil, &generatorReturnSignal{value: resumed}
	default:
		return resumed, nil
	}
}

// generatorReturnSignal unwinds a generator body when `.return()` is
// called at a suspension point (spec §4.4): it is caught at every
// statement level that would otherwise swallow an error, converting to a
// ReturnSignal Result so pending `finally` blocks still execute.
type generatorReturnSignal struct{ value runtime.Value }

func (g *generatorReturnSignal) Error() string { return "generator return" }

func evalYieldDelegate(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	y := expr.(*ast.Yield)
	yc, ok := ctx.(YieldCapable)
	if !ok {
		return nil, fmt.Errorf("SyntaxError: yield is only valid inside a generator")
	}
	inner, err := ev.Eval(ctx, scope, y.Expr)
	if err != nil {
		return nil, err
	}
	if g, ok := inner.(*GeneratorObject); ok {
		return delegateToGenerator(g, yc)
	}
	items := iterableToSlice(inner)
	var last runtime.Value = runtime.Undefined
	for _, item := range items {
		resumed, kind, thrown := yc.Yield(item)
		if kind == ThrowSignal {
			return nil, &thrownValue{value: thrown}
		}
		if kind == ReturnSignal {
			return nil, &generatorReturnSignal{value: resumed}
		}
		last = resumed
	}
	return last, nil
}

func delegateToGenerator(inner *GeneratorObject, yc YieldCapable) (runtime.Value, error) {
	var sendVal runtime.Value = runtime.Undefined
	for {
		res, thrown := inner.NextOrThrow(sendVal)
		if thrown != nil {
			return nil, &thrownValue{value: thrown}
		}
		done, _ := res.Get("done")
		value, _ := res.Get("value")
		if toBool(done) {
			return value, nil
		}
		resumed, kind, innerThrown := yc.Yield(value)
		if kind == ThrowSignal {
			return nil, &thrownValue{value: innerThrown}
		}
		if kind == ReturnSignal {
			return nil, &generatorReturnSignal{value: resumed}
		}
		sendVal = resumed
	}
}

func evalDynamicImport(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	d := expr.(*ast.DynamicImport)
	specVal, err := ev.Eval(ctx, scope, d.Specifier)
	if err != nil {
		return nil, err
	}
	promise := runtime.NewPendingPromise()
	if ev.ResolveModule == nil {
		settlePromise(promise, runtime.PromiseRejected, &runtime.ErrorValue{Kind: runtime.ErrType, Name: "TypeError", Message: "dynamic import is not available"})
		return promise, nil
	}
	ns, rerr := ev.ResolveModule(specVal.String())
	if rerr != nil {
		settlePromise(promise, runtime.PromiseRejected, runtime.Str(rerr.Error()))
		return promise, nil
	}
	settlePromise(promise, runtime.PromiseFulfilled, ns)
	return promise, nil
}

func evalImportMeta(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	o := runtime.NewObject()
	return o, nil
}

func evalPatternAsExpr(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, expr ast.Expression) (runtime.Value, error) {
	return nil, fmt.Errorf("SyntaxError: destructuring pattern is not a value expression")
}
