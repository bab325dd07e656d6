package builtins

import (
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	WeakMapMethods.Register("get", weakMapGet)
	WeakMapMethods.Register("set", weakMapSet)
	WeakMapMethods.Register("has", weakMapHas)
	WeakMapMethods.Register("delete", weakMapDelete)

	WeakSetMethods.Register("add", weakSetAdd)
	WeakSetMethods.Register("has", weakSetHas)
	WeakSetMethods.Register("delete", weakSetDelete)
}

// isWeakKey reports whether v is a legal WeakMap/WeakSet key: JS requires
// an object (or, with the newer spec revision, a registered symbol), never
// a primitive, since the whole point is weak reachability of a heap value
// (spec §3.2).
func isWeakKey(v runtime.Value) bool {
	switch v.(type) {
	case *runtime.NumberValue, *runtime.StringValue, *runtime.BooleanValue,
		*runtime.NullValue, *runtime.UndefinedValue, *runtime.BigIntValue:
		return false
	default:
		return true
	}
}

func newWeakMapConstructor() *nativeCtor {
	return &nativeCtor{
		name: "WeakMap",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			w := runtime.NewWeakMap()
			if entries, ok := arg(args, 0).(*runtime.ArrayValue); ok {
				for _, e := range entries.Elements {
					pair, ok := e.(*runtime.ArrayValue)
					if !ok || len(pair.Elements) < 2 {
						continue
					}
					if !isWeakKey(pair.Elements[0]) {
						return nil, typeErrorf("Invalid value used as weak map key")
					}
					w.Set(pair.Elements[0], pair.Elements[1])
				}
			}
			return w, nil
		},
	}
}

func newWeakSetConstructor() *nativeCtor {
	return &nativeCtor{
		name: "WeakSet",
		construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
			w := runtime.NewWeakSet()
			if elems, ok := arg(args, 0).(*runtime.ArrayValue); ok {
				for _, e := range elems.Elements {
					if !isWeakKey(e) {
						return nil, typeErrorf("Invalid value used in weak set")
					}
					w.Add(e)
				}
			}
			return w, nil
		},
	}
}

func asWeakMap(this runtime.Value) (*runtime.WeakMapValue, bool) {
	w, ok := this.(*runtime.WeakMapValue)
	return w, ok
}

func asWeakSet(this runtime.Value) (*runtime.WeakSetValue, bool) {
	w, ok := this.(*runtime.WeakSetValue)
	return w, ok
}

func weakMapGet(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	w, ok := asWeakMap(this)
	if !ok {
		return nil, typeErrorf("WeakMap.prototype.get called on non-WeakMap")
	}
	v, ok := w.Get(arg(args, 0))
	if !ok {
		return runtime.Undefined, nil
	}
	return v, nil
}

func weakMapSet(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	w, ok := asWeakMap(this)
	if !ok {
		return nil, typeErrorf("WeakMap.prototype.set called on non-WeakMap")
	}
	key := arg(args, 0)
	if !isWeakKey(key) {
		return nil, typeErrorf("Invalid value used as weak map key")
	}
	w.Set(key, arg(args, 1))
	return this, nil
}

func weakMapHas(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	w, ok := asWeakMap(this)
	if !ok {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(w.Has(arg(args, 0))), nil
}

func weakMapDelete(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	w, ok := asWeakMap(this)
	if !ok {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(w.Delete(arg(args, 0))), nil
}

func weakSetAdd(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	w, ok := asWeakSet(this)
	if !ok {
		return nil, typeErrorf("WeakSet.prototype.add called on non-WeakSet")
	}
	v := arg(args, 0)
	if !isWeakKey(v) {
		return nil, typeErrorf("Invalid value used in weak set")
	}
	w.Add(v)
	return this, nil
}

func weakSetHas(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	w, ok := asWeakSet(this)
	if !ok {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(w.Has(arg(args, 0))), nil
}

func weakSetDelete(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	w, ok := asWeakSet(this)
	if !ok {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(w.Delete(arg(args, 0))), nil
}
