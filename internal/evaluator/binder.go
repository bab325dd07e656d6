package evaluator

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

// BindParameters implements the parameter binder (spec §4.8, component
// C10): rest parameters gather the tail as an Array, missing arguments
// receive Undefined (optional) or the evaluated default (defaulted) or
// fail for required params, and pattern parameters destructure against
// the argument slot with the same rules as let-destructuring.
func BindParameters(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, params []ast.Param, args []runtime.Value) error {
	for i, p := range params {
		if p.Rest {
			var tail []runtime.Value
			if i < len(args) {
				tail = append(tail, args[i:]...)
			}
			scope.Define(p.Name, runtime.NewArray(tail))
			return nil
		}

		var arg runtime.Value
		hasArg := i < len(args) && args[i] != nil
		if hasArg {
			arg = args[i]
		} else {
			arg = runtime.Undefined
		}

		if !hasArg && p.Default != nil {
			v, err := ev.Eval(ctx, scope, p.Default)
			if err != nil {
				return err
			}
			arg = v
		} else if isUndef(arg) && p.Default != nil {
			v, err := ev.Eval(ctx, scope, p.Default)
			if err != nil {
				return err
			}
			arg = v
		} else if i >= len(args) && !p.Optional && p.Default == nil && p.Pattern == nil {
			return fmt.Errorf("TypeError: missing required argument '%s'", p.Name)
		}

		if p.Pattern != nil {
			if err := BindPattern(ev, ctx, scope, p.Pattern, arg, true); err != nil {
				return err
			}
			continue
		}
		scope.Define(p.Name, arg)
	}
	return nil
}

func isUndef(v runtime.Value) bool {
	_, ok := v.(*runtime.UndefinedValue)
	return ok
}

// BindPattern destructures value against pattern, defining (declare=true)
// or assigning (declare=false) each resolved target name/expression
// (spec §4.2's Destructuring rule, shared by let/const/var declarators,
// parameter binding, and assignment-expression patterns).
func BindPattern(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, pattern ast.Expression, value runtime.Value, declare bool) error {
	switch p := pattern.(type) {
	case *ast.Variable:
		return bindSimple(scope, p.Name, value, declare)
	case *ast.ArrayPattern:
		return bindArrayPattern(ev, ctx, scope, p, value, declare)
	case *ast.ObjectPattern:
		return bindObjectPattern(ev, ctx, scope, p, value, declare)
	default:
		return assignToTarget(ev, ctx, scope, pattern, value)
	}
}

func bindSimple(scope *env.Environment, name string, value runtime.Value, declare bool) error {
	if declare {
		scope.Define(name, value)
		return nil
	}
	return scope.Assign(name, value)
}

func bindArrayPattern(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, p *ast.ArrayPattern, value runtime.Value, declare bool) error {
	elems := iterableToSlice(value)
	idx := 0
	for _, el := range p.Elements {
		if el.Rest {
			var tail []runtime.Value
			if idx < len(elems) {
				tail = append(tail, elems[idx:]...)
			}
			if el.Target != nil {
				if err := BindPattern(ev, ctx, scope, el.Target, runtime.NewArray(tail), declare); err != nil {
					return err
				}
			}
			break
		}
		var v runtime.Value = runtime.Undefined
		if idx < len(elems) && elems[idx] != nil {
			v = elems[idx]
		}
		idx++
		if el.Target == nil {
			continue // hole
		}
		if isUndef(v) && el.Default != nil {
			dv, err := ev.Eval(ctx, scope, el.Default)
			if err != nil {
				return err
			}
			v = dv
		}
		if err := BindPattern(ev, ctx, scope, el.Target, v, declare); err != nil {
			return err
		}
	}
	return nil
}

func bindObjectPattern(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, p *ast.ObjectPattern, value runtime.Value, declare bool) error {
	matched := make(map[string]bool)
	for _, prop := range p.Props {
		key := prop.Key
		if prop.Computed {
			kv, err := ev.Eval(ctx, scope, mustExprKey(prop.Key))
			if err != nil {
				return err
			}
			key = kv.String()
		}
		if prop.Rest {
			rest := runtime.NewObject()
			if src, ok := value.(*runtime.ObjectValue); ok {
				for _, k := range src.Keys {
					if matched[k] {
						continue
					}
					v, _ := src.Get(k)
					rest.Set(k, v)
				}
			}
			if err := bindSimple(scope, mustVarName(prop.Target), rest, declare); err != nil {
				return err
			}
			continue
		}
		matched[key] = true
		v := getProperty(value, key)
		if isUndef(v) && prop.Default != nil {
			dv, err := ev.Eval(ctx, scope, prop.Default)
			if err != nil {
				return err
			}
			v = dv
		}
		if err := BindPattern(ev, ctx, scope, prop.Target, v, declare); err != nil {
			return err
		}
	}
	return nil
}

// mustExprKey/mustVarName are narrow helpers for the (rare) computed-key
// and rest-target cases above; ObjectPatternProperty.Key is a plain
// string key normally, computed keys store their source expression out
// of band via Target when Computed is set by convention in this tree.
func mustExprKey(key string) ast.Expression {
	return &ast.Literal{Kind: ast.LitString, Str: key}
}

func mustVarName(target ast.Expression) string {
	if v, ok := target.(*ast.Variable); ok {
		return v.Name
	}
	return ""
}

// assignToTarget handles the non-declaration destructuring-assignment
// case where pattern targets are Get/GetIndex expressions rather than
// bare identifiers (e.g. `({a: obj.x} = src)`).
func assignToTarget(ev *Evaluator, ctx EvaluationContext, scope *env.Environment, target ast.Expression, value runtime.Value) error {
	switch t := target.(type) {
	case *ast.Get:
		obj, err := ev.Eval(ctx, scope, t.Object)
		if err != nil {
			return err
		}
		return setProperty(obj, t.Name, value)
	case *ast.GetIndex:
		obj, err := ev.Eval(ctx, scope, t.Object)
		if err != nil {
			return err
		}
		idx, err := ev.Eval(ctx, scope, t.Index)
		if err != nil {
			return err
		}
		return setIndexed(obj, idx, value)
	default:
		return fmt.Errorf("SyntaxError: invalid assignment target")
	}
}

// iterableToSlice realizes the iterator protocol eagerly for destructuring
// purposes: arrays copy directly, strings split into one-character
// strings, Maps/Sets yield their natural iteration order.
func iterableToSlice(value runtime.Value) []runtime.Value {
	switch v := value.(type) {
	case *runtime.ArrayValue:
		return v.Elements
	case *runtime.StringValue:
		runes := []rune(v.Value)
		out := make([]runtime.Value, len(runes))
		for i, r := range runes {
			out[i] = runtime.Str(string(r))
		}
		return out
	case *runtime.SetValue:
		return v.Values()
	case *runtime.MapValue:
		entries := v.Entries()
		out := make([]runtime.Value, len(entries))
		for i, e := range entries {
			out[i] = runtime.NewArray([]runtime.Value{e.Key, e.Value})
		}
		return out
	default:
		return nil
	}
}
