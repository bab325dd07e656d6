package builtins

import (
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// installObject wires the Object constructor's static methods (spec
// §4.5): keys/values/entries/assign/freeze/seal/isFrozen/isSealed/create/
// fromEntries. Object instances themselves dispatch through getProperty
// directly; this only covers `Object.*` statics.
func installObject(globals *env.Environment) {
	ctor := runtime.NewObject()
	ctor.Set("keys", New("Object.keys", objectKeys))
	ctor.Set("values", New("Object.values", objectValues))
	ctor.Set("entries", New("Object.entries", objectEntries))
	ctor.Set("assign", New("Object.assign", objectAssign))
	ctor.Set("freeze", New("Object.freeze", objectFreeze))
	ctor.Set("seal", New("Object.seal", objectSeal))
	ctor.Set("isFrozen", New("Object.isFrozen", objectIsFrozen))
	ctor.Set("isSealed", New("Object.isSealed", objectIsSealed))
	ctor.Set("create", New("Object.create", objectCreate))
	ctor.Set("fromEntries", New("Object.fromEntries", objectFromEntries))
	globals.Define("Object", ctor)
	globals.MarkReadOnly("Object")
}

func ownKeys(v runtime.Value) []string {
	switch o := v.(type) {
	case *runtime.ObjectValue:
		return o.Keys
	case *runtime.InstanceValue:
		return o.PropOrder
	default:
		return nil
	}
}

func ownGet(v runtime.Value, key string) runtime.Value {
	return evaluator.GetOwnProperty(v, key)
}

func objectKeys(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	keys := ownKeys(arg(args, 0))
	out := make([]runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = runtime.Str(k)
	}
	return runtime.NewArray(out), nil
}

func objectValues(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := arg(args, 0)
	keys := ownKeys(o)
	out := make([]runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = ownGet(o, k)
	}
	return runtime.NewArray(out), nil
}

func objectEntries(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := arg(args, 0)
	keys := ownKeys(o)
	out := make([]runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = runtime.NewArray([]runtime.Value{runtime.Str(k), ownGet(o, k)})
	}
	return runtime.NewArray(out), nil
}

func objectAssign(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.NewObject(), nil
	}
	target, ok := args[0].(*runtime.ObjectValue)
	if !ok {
		return args[0], nil
	}
	for _, src := range args[1:] {
		for _, k := range ownKeys(src) {
			target.Set(k, ownGet(src, k))
		}
	}
	return target, nil
}

func objectFreeze(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	setFlags(arg(args, 0), true, true)
	return arg(args, 0), nil
}

func objectSeal(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	setFlags(arg(args, 0), false, true)
	return arg(args, 0), nil
}

func setFlags(v runtime.Value, frozen, sealed bool) {
	switch o := v.(type) {
	case *runtime.ObjectValue:
		o.Flags.Frozen = frozen
		o.Flags.Sealed = sealed
	case *runtime.ArrayValue:
		o.Flags.Frozen = frozen
		o.Flags.Sealed = sealed
	case *runtime.InstanceValue:
		o.Flags.Frozen = frozen
		o.Flags.Sealed = sealed
	}
}

func objectIsFrozen(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(flagsOf(arg(args, 0)).Frozen), nil
}

func objectIsSealed(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	f := flagsOf(arg(args, 0))
	return runtime.Bool(f.Frozen || f.Sealed), nil
}

func flagsOf(v runtime.Value) runtime.Flags {
	switch o := v.(type) {
	case *runtime.ObjectValue:
		return o.Flags
	case *runtime.ArrayValue:
		return o.Flags
	case *runtime.InstanceValue:
		return o.Flags
	default:
		return runtime.Flags{Frozen: true, Sealed: true}
	}
}

func objectCreate(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := runtime.NewObject()
	if proto, ok := arg(args, 0).(*runtime.ObjectValue); ok {
		for _, k := range proto.Keys {
			v, _ := proto.Get(k)
			o.Set(k, v)
		}
	}
	return o, nil
}

func objectFromEntries(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := runtime.NewObject()
	arr, ok := arg(args, 0).(*runtime.ArrayValue)
	if !ok {
		return o, nil
	}
	for _, e := range arr.Elements {
		pair, ok := e.(*runtime.ArrayValue)
		if !ok || len(pair.Elements) < 2 {
			continue
		}
		o.Set(toStr(pair.Elements[0]), pair.Elements[1])
	}
	return o, nil
}
