package builtins

import (
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// registryFor resolves receiver's runtime type to its method table. Plain
// Objects/Instances have no table here — those dispatch through the
// evaluator's own property/prototype lookup instead.
func registryFor(receiver runtime.Value) *Registry {
	switch receiver.(type) {
	case *runtime.ArrayValue:
		return ArrayMethods
	case *runtime.StringValue:
		return StringMethods
	case *runtime.MapValue:
		return MapMethods
	case *runtime.SetValue:
		return SetMethods
	case *runtime.PromiseValue:
		return PromiseMethods
	case *runtime.ErrorValue:
		return ErrorMethods
	case *evaluator.GeneratorObject:
		return GeneratorMethods
	case *runtime.DateValue:
		return DateMethods
	case *runtime.RegExpValue:
		return RegExpMethods
	case *runtime.WeakMapValue:
		return WeakMapMethods
	case *runtime.WeakSetValue:
		return WeakSetMethods
	case *runtime.TypedArrayValue:
		return TypedArrayMethods
	default:
		return nil
	}
}
