package builtins

import (
	"strings"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// typedArrayKinds lists every %TypedArray% subclass name this runtime
// exposes as a global constructor (spec §3.2).
var typedArrayKinds = map[string]string{
	"Int8Array":         "int8",
	"Uint8Array":        "uint8",
	"Uint8ClampedArray": "uint8clamped",
	"Int16Array":        "int16",
	"Uint16Array":       "uint16",
	"Int32Array":        "int32",
	"Uint32Array":       "uint32",
	"Float32Array":      "float32",
	"Float64Array":      "float64",
	"BigInt64Array":     "bigint64",
	"BigUint64Array":    "biguint64",
}

func init() {
	TypedArrayMethods.Register("set", typedArraySet)
	TypedArrayMethods.Register("fill", typedArrayFill)
	TypedArrayMethods.Register("slice", typedArraySlice)
	TypedArrayMethods.Register("subarray", typedArraySubarray)
	TypedArrayMethods.Register("forEach", typedArrayForEach)
	TypedArrayMethods.Register("map", typedArrayMap)
	TypedArrayMethods.Register("join", typedArrayJoin)
	TypedArrayMethods.Register("toString", typedArrayJoin)
	TypedArrayMethods.Register("indexOf", typedArrayIndexOf)
	TypedArrayMethods.Register("at", typedArrayAt)
}

// newTypedArrayConstructors builds one nativeCtor per %TypedArray% subclass,
// keyed by the JS global name (Int8Array, Float64Array, ...).
func newTypedArrayConstructors() map[string]*nativeCtor {
	out := make(map[string]*nativeCtor, len(typedArrayKinds))
	for name, kind := range typedArrayKinds {
		kind := kind
		size := elementByteSize(kind)
		out[name] = &nativeCtor{
			name: name,
			construct: func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, args []runtime.Value) (runtime.Value, error) {
				a := arg(args, 0)
				switch src := a.(type) {
				case *runtime.NumberValue:
					n := int64(src.Value)
					return &runtime.TypedArrayValue{ElementKind: kind, Buffer: make([]byte, n*int64(size)), Count: n}, nil
				case *runtime.ArrayValue:
					ta := &runtime.TypedArrayValue{ElementKind: kind, Buffer: make([]byte, int64(len(src.Elements))*int64(size)), Count: int64(len(src.Elements))}
					for i, e := range src.Elements {
						ta.SetIndex(int64(i), runtime.Number(toNumber(e)))
					}
					return ta, nil
				case *runtime.TypedArrayValue:
					ta := &runtime.TypedArrayValue{ElementKind: kind, Buffer: make([]byte, src.Count*int64(size)), Count: src.Count}
					for i := int64(0); i < src.Count; i++ {
						v, _ := src.GetIndex(i)
						ta.SetIndex(i, v)
					}
					return ta, nil
				default:
					return &runtime.TypedArrayValue{ElementKind: kind}, nil
				}
			},
		}
	}
	return out
}

func elementByteSize(kind string) int {
	switch kind {
	case "int8", "uint8", "uint8clamped":
		return 1
	case "int16", "uint16":
		return 2
	case "int32", "uint32", "float32":
		return 4
	default:
		return 8
	}
}

func asTypedArray(this runtime.Value) (*runtime.TypedArrayValue, bool) {
	t, ok := this.(*runtime.TypedArrayValue)
	return t, ok
}

func typedArraySet(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return nil, typeErrorf("TypedArray.prototype.set called on non-typed-array")
	}
	offset := int64(toNumber(arg(args, 1)))
	src, err := typedArraySource(arg(args, 0))
	if err != nil {
		return nil, err
	}
	for i, v := range src {
		if err := t.SetIndex(offset+int64(i), v); err != nil {
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

func typedArraySource(v runtime.Value) ([]runtime.Value, error) {
	switch src := v.(type) {
	case *runtime.ArrayValue:
		return src.Elements, nil
	case *runtime.TypedArrayValue:
		out := make([]runtime.Value, src.Count)
		for i := int64(0); i < src.Count; i++ {
			out[i], _ = src.GetIndex(i)
		}
		return out, nil
	default:
		return nil, typeErrorf("TypedArray.prototype.set requires an array-like source")
	}
}

func typedArrayFill(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return nil, typeErrorf("TypedArray.prototype.fill called on non-typed-array")
	}
	v := runtime.Number(toNumber(arg(args, 0)))
	start, end := int64(0), t.Count
	if len(args) > 1 {
		start = int64(normalizeIndex(toNumber(args[1]), int(t.Count)))
	}
	if len(args) > 2 {
		end = int64(normalizeIndex(toNumber(args[2]), int(t.Count)))
	}
	for i := start; i < end; i++ {
		t.SetIndex(i, v)
	}
	return t, nil
}

func typedArraySlice(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return nil, typeErrorf("TypedArray.prototype.slice called on non-typed-array")
	}
	start, end := 0, int(t.Count)
	if len(args) > 0 {
		start = normalizeIndex(toNumber(args[0]), int(t.Count))
	}
	if len(args) > 1 {
		end = normalizeIndex(toNumber(args[1]), int(t.Count))
	}
	size := elementByteSize(t.ElementKind)
	n := end - start
	if n < 0 {
		n = 0
	}
	out := &runtime.TypedArrayValue{ElementKind: t.ElementKind, Buffer: make([]byte, n*size), Count: int64(n)}
	for i := 0; i < n; i++ {
		v, _ := t.GetIndex(int64(start + i))
		out.SetIndex(int64(i), v)
	}
	return out, nil
}

// typedArraySubarray mirrors slice here: the spec's buffer-sharing
// semantics for true views is a non-goal (component C7 models typed
// arrays as owned buffers, not ArrayBuffer views).
func typedArraySubarray(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return typedArraySlice(ev, ctx, this, args)
}

func typedArrayForEach(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return nil, typeErrorf("TypedArray.prototype.forEach called on non-typed-array")
	}
	cb := arg(args, 0)
	for i := int64(0); i < t.Count; i++ {
		v, _ := t.GetIndex(i)
		if _, err := callCallback(ev, ctx, cb, runtime.Undefined, []runtime.Value{v, runtime.Number(float64(i)), t}); err != nil {
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

func typedArrayMap(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return nil, typeErrorf("TypedArray.prototype.map called on non-typed-array")
	}
	cb := arg(args, 0)
	out := &runtime.TypedArrayValue{ElementKind: t.ElementKind, Buffer: make([]byte, int64(t.Count)*int64(elementByteSize(t.ElementKind))), Count: t.Count}
	for i := int64(0); i < t.Count; i++ {
		v, _ := t.GetIndex(i)
		r, err := callCallback(ev, ctx, cb, runtime.Undefined, []runtime.Value{v, runtime.Number(float64(i)), t})
		if err != nil {
			return nil, err
		}
		out.SetIndex(i, runtime.Number(toNumber(r)))
	}
	return out, nil
}

func typedArrayJoin(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return nil, typeErrorf("TypedArray.prototype.join called on non-typed-array")
	}
	sep := ","
	if len(args) > 0 && !isUndefinedArg(args[0]) {
		sep = toStr(args[0])
	}
	parts := make([]string, t.Count)
	for i := int64(0); i < t.Count; i++ {
		v, _ := t.GetIndex(i)
		parts[i] = toStr(v)
	}
	return runtime.Str(strings.Join(parts, sep)), nil
}

func typedArrayIndexOf(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return runtime.Number(-1), nil
	}
	target := toNumber(arg(args, 0))
	for i := int64(0); i < t.Count; i++ {
		v, _ := t.GetIndex(i)
		if toNumber(v) == target {
			return runtime.Number(float64(i)), nil
		}
	}
	return runtime.Number(-1), nil
}

func typedArrayAt(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	t, ok := asTypedArray(this)
	if !ok {
		return runtime.Undefined, nil
	}
	idx := int64(toNumber(arg(args, 0)))
	if idx < 0 {
		idx += t.Count
	}
	v, ok := t.GetIndex(idx)
	if !ok {
		return runtime.Undefined, nil
	}
	return v, nil
}
