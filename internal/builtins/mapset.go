package builtins

import (
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	MapMethods.Register("get", mapGet)
	MapMethods.Register("set", mapSet)
	MapMethods.Register("has", mapHas)
	MapMethods.Register("delete", mapDelete)
	MapMethods.Register("clear", mapClear)
	MapMethods.Register("forEach", mapForEach)
	MapMethods.Register("keys", mapKeys)
	MapMethods.Register("values", mapValues)
	MapMethods.Register("entries", mapEntries)

	SetMethods.Register("add", setAdd)
	SetMethods.Register("has", setHas)
	SetMethods.Register("delete", setDelete)
	SetMethods.Register("clear", setClear)
	SetMethods.Register("forEach", setForEach)
	SetMethods.Register("values", setValues)
	SetMethods.Register("keys", setValues)
}

func asMap(this runtime.Value) (*runtime.MapValue, bool) {
	m, ok := this.(*runtime.MapValue)
	return m, ok
}

func asSet(this runtime.Value) (*runtime.SetValue, bool) {
	s, ok := this.(*runtime.SetValue)
	return s, ok
}

func mapGet(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return runtime.Undefined, nil
	}
	v, _ := m.Get(arg(args, 0))
	return v, nil
}

func mapSet(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return nil, typeErrorf("Map.prototype.set called on non-Map")
	}
	if err := m.Flags.CheckMutate("set on"); err != nil {
		return nil, err
	}
	m.Set(arg(args, 0), arg(args, 1))
	return m, nil
}

func mapHas(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return runtime.False, nil
	}
	return runtime.Bool(m.Has(arg(args, 0))), nil
}

func mapDelete(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return runtime.False, nil
	}
	return runtime.Bool(m.Delete(arg(args, 0))), nil
}

func mapClear(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if m, ok := asMap(this); ok {
		m.Clear()
	}
	return runtime.Undefined, nil
}

func mapForEach(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return runtime.Undefined, nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for _, e := range m.Entries() {
		if _, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e.Value, e.Key, m}); err != nil {
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

func mapKeys(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	entries := m.Entries()
	out := make([]runtime.Value, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return runtime.NewArray(out), nil
}

func mapValues(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	entries := m.Entries()
	out := make([]runtime.Value, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return runtime.NewArray(out), nil
}

func mapEntries(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	m, ok := asMap(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	entries := m.Entries()
	out := make([]runtime.Value, len(entries))
	for i, e := range entries {
		out[i] = runtime.NewArray([]runtime.Value{e.Key, e.Value})
	}
	return runtime.NewArray(out), nil
}

func setAdd(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, ok := asSet(this)
	if !ok {
		return nil, typeErrorf("Set.prototype.add called on non-Set")
	}
	if err := s.Flags.CheckMutate("add to"); err != nil {
		return nil, err
	}
	s.Add(arg(args, 0))
	return s, nil
}

func setHas(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, ok := asSet(this)
	if !ok {
		return runtime.False, nil
	}
	return runtime.Bool(s.Has(arg(args, 0))), nil
}

func setDelete(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, ok := asSet(this)
	if !ok {
		return runtime.False, nil
	}
	return runtime.Bool(s.Delete(arg(args, 0))), nil
}

func setClear(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if s, ok := asSet(this); ok {
		s.Clear()
	}
	return runtime.Undefined, nil
}

func setForEach(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, ok := asSet(this)
	if !ok {
		return runtime.Undefined, nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for _, v := range s.Values() {
		if _, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{v, v, s}); err != nil {
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

func setValues(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, ok := asSet(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	return runtime.NewArray(s.Values()), nil
}
