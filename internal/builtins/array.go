package builtins

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	ArrayMethods.Register("push", arrayPush)
	ArrayMethods.Register("pop", arrayPop)
	ArrayMethods.Register("shift", arrayShift)
	ArrayMethods.Register("unshift", arrayUnshift)
	ArrayMethods.Register("slice", arraySlice)
	ArrayMethods.Register("splice", arraySplice)
	ArrayMethods.Register("concat", arrayConcat)
	ArrayMethods.Register("join", arrayJoin)
	ArrayMethods.Register("reverse", arrayReverse)
	ArrayMethods.Register("indexOf", arrayIndexOf)
	ArrayMethods.Register("lastIndexOf", arrayLastIndexOf)
	ArrayMethods.Register("includes", arrayIncludes)
	ArrayMethods.Register("find", arrayFind)
	ArrayMethods.Register("findIndex", arrayFindIndex)
	ArrayMethods.Register("filter", arrayFilter)
	ArrayMethods.Register("map", arrayMap)
	ArrayMethods.Register("forEach", arrayForEach)
	ArrayMethods.Register("reduce", arrayReduce)
	ArrayMethods.Register("reduceRight", arrayReduceRight)
	ArrayMethods.Register("some", arraySome)
	ArrayMethods.Register("every", arrayEvery)
	ArrayMethods.Register("sort", arraySort)
	ArrayMethods.Register("toSorted", arrayToSorted)
	ArrayMethods.Register("toSpliced", arrayToSpliced)
	ArrayMethods.Register("flat", arrayFlat)
	ArrayMethods.Register("flatMap", arrayFlatMap)
	ArrayMethods.Register("fill", arrayFill)
	ArrayMethods.Register("at", arrayAt)
	ArrayMethods.Register("toString", arrayToString)
}

func asArray(this runtime.Value) (*runtime.ArrayValue, bool) {
	a, ok := this.(*runtime.ArrayValue)
	return a, ok
}

func arrayPush(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return nil, typeErrorf("Array.prototype.push called on non-array")
	}
	if err := a.Flags.CheckMutate("push to"); err != nil {
		return nil, err
	}
	a.Elements = append(a.Elements, args...)
	return runtime.Number(float64(len(a.Elements))), nil
}

func arrayPop(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok || len(a.Elements) == 0 {
		return runtime.Undefined, nil
	}
	last := a.Elements[len(a.Elements)-1]
	a.Elements = a.Elements[:len(a.Elements)-1]
	return last, nil
}

func arrayShift(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok || len(a.Elements) == 0 {
		return runtime.Undefined, nil
	}
	first := a.Elements[0]
	a.Elements = a.Elements[1:]
	return first, nil
}

func arrayUnshift(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return nil, typeErrorf("Array.prototype.unshift called on non-array")
	}
	a.Elements = append(append([]runtime.Value{}, args...), a.Elements...)
	return runtime.Number(float64(len(a.Elements))), nil
}

func arraySlice(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	n := len(a.Elements)
	start := 0
	end := n
	if len(args) > 0 && !isUndefinedArg(args[0]) {
		start = normalizeIndex(toNumber(args[0]), n)
	}
	if len(args) > 1 && !isUndefinedArg(args[1]) {
		end = normalizeIndex(toNumber(args[1]), n)
	}
	if start >= end {
		return runtime.NewArray(nil), nil
	}
	out := make([]runtime.Value, end-start)
	copy(out, a.Elements[start:end])
	return runtime.NewArray(out), nil
}

func isUndefinedArg(v runtime.Value) bool {
	_, ok := v.(*runtime.UndefinedValue)
	return ok
}

func arraySplice(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	n := len(a.Elements)
	start := 0
	if len(args) > 0 {
		start = normalizeIndex(toNumber(args[0]), n)
	}
	deleteCount := n - start
	if len(args) > 1 {
		dc := toInt(args[1])
		if dc < 0 {
			dc = 0
		}
		if dc > n-start {
			dc = n - start
		}
		deleteCount = dc
	}
	removed := append([]runtime.Value{}, a.Elements[start:start+deleteCount]...)
	var inserted []runtime.Value
	if len(args) > 2 {
		inserted = args[2:]
	}
	tail := append([]runtime.Value{}, a.Elements[start+deleteCount:]...)
	a.Elements = append(append(append([]runtime.Value{}, a.Elements[:start]...), inserted...), tail...)
	return runtime.NewArray(removed), nil
}

func arrayConcat(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	out := append([]runtime.Value{}, a.Elements...)
	for _, v := range args {
		if other, ok := v.(*runtime.ArrayValue); ok {
			out = append(out, other.Elements...)
		} else {
			out = append(out, v)
		}
	}
	return runtime.NewArray(out), nil
}

func arrayJoin(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.Str(""), nil
	}
	sep := ","
	if len(args) > 0 && !isUndefinedArg(args[0]) {
		sep = toStr(args[0])
	}
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil || isUndefinedArg(e) {
			parts[i] = ""
			continue
		}
		if _, isNull := e.(*runtime.NullValue); isNull {
			parts[i] = ""
			continue
		}
		parts[i] = e.String()
	}
	return runtime.Str(strings.Join(parts, sep)), nil
}

func arrayReverse(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return this, nil
	}
	for i, j := 0, len(a.Elements)-1; i < j; i, j = i+1, j-1 {
		a.Elements[i], a.Elements[j] = a.Elements[j], a.Elements[i]
	}
	return a, nil
}

func arrayIndexOf(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.Number(-1), nil
	}
	target := arg(args, 0)
	start := 0
	if len(args) > 1 {
		start = normalizeIndex(toNumber(args[1]), len(a.Elements))
	}
	for i := start; i < len(a.Elements); i++ {
		if runtime.StrictEquals(a.Elements[i], target) {
			return runtime.Number(float64(i)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrayLastIndexOf(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.Number(-1), nil
	}
	target := arg(args, 0)
	for i := len(a.Elements) - 1; i >= 0; i-- {
		if runtime.StrictEquals(a.Elements[i], target) {
			return runtime.Number(float64(i)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrayIncludes(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.False, nil
	}
	target := arg(args, 0)
	for _, e := range a.Elements {
		if runtime.StrictEquals(e, target) {
			return runtime.True, nil
		}
		// includes() treats NaN as matching NaN, unlike indexOf/===.
		if en, ok := e.(*runtime.NumberValue); ok {
			if tn, ok := target.(*runtime.NumberValue); ok && en.Value != en.Value && tn.Value != tn.Value {
				return runtime.True, nil
			}
		}
	}
	return runtime.False, nil
}

func arrayFind(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.Undefined, nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i, e := range a.Elements {
		v, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e, runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		if toBool(v) {
			return e, nil
		}
	}
	return runtime.Undefined, nil
}

func arrayFindIndex(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.Number(-1), nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i, e := range a.Elements {
		v, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e, runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		if toBool(v) {
			return runtime.Number(float64(i)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrayFilter(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	var out []runtime.Value
	for i, e := range a.Elements {
		v, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e, runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		if toBool(v) {
			out = append(out, e)
		}
	}
	return runtime.NewArray(out), nil
}

func arrayMap(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	out := make([]runtime.Value, len(a.Elements))
	for i, e := range a.Elements {
		v, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e, runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return runtime.NewArray(out), nil
}

func arrayForEach(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.Undefined, nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i, e := range a.Elements {
		if _, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e, runtime.Number(float64(i)), a}); err != nil {
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

func arrayReduce(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return nil, typeErrorf("Array.prototype.reduce called on non-array")
	}
	cb := arg(args, 0)
	i := 0
	var acc runtime.Value
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(a.Elements) == 0 {
			return nil, typeErrorf("Reduce of empty array with no initial value")
		}
		acc = a.Elements[0]
		i = 1
	}
	for ; i < len(a.Elements); i++ {
		v, err := callCallback(ev, ctx, cb, runtime.Undefined, []runtime.Value{acc, a.Elements[i], runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func arrayReduceRight(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return nil, typeErrorf("Array.prototype.reduceRight called on non-array")
	}
	cb := arg(args, 0)
	i := len(a.Elements) - 1
	var acc runtime.Value
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(a.Elements) == 0 {
			return nil, typeErrorf("Reduce of empty array with no initial value")
		}
		acc = a.Elements[i]
		i--
	}
	for ; i >= 0; i-- {
		v, err := callCallback(ev, ctx, cb, runtime.Undefined, []runtime.Value{acc, a.Elements[i], runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func arraySome(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.False, nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i, e := range a.Elements {
		v, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e, runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		if toBool(v) {
			return runtime.True, nil
		}
	}
	return runtime.False, nil
}

func arrayEvery(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.True, nil
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i, e := range a.Elements {
		v, err := callCallback(ev, ctx, cb, thisArg, []runtime.Value{e, runtime.Number(float64(i)), a})
		if err != nil {
			return nil, err
		}
		if !toBool(v) {
			return runtime.False, nil
		}
	}
	return runtime.True, nil
}

// sortInPlace partitions undefined entries to the tail, stably sorts the
// remainder with cb (or lexicographic string order when cb is
// undefined), then re-appends the undefineds. JS never lets a comparator
// reorder undefined against a defined value.
func sortInPlace(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, elements []runtime.Value, cb runtime.Value) ([]runtime.Value, error) {
	defined := make([]runtime.Value, 0, len(elements))
	undefinedCount := 0
	for _, e := range elements {
		if isUndefinedArg(e) {
			undefinedCount++
		} else {
			defined = append(defined, e)
		}
	}

	var sortErr error
	sort.SliceStable(defined, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		if !isUndefinedArg(cb) {
			v, err := callCallback(ev, ctx, cb, runtime.Undefined, []runtime.Value{defined[i], defined[j]})
			if err != nil {
				sortErr = err
				return false
			}
			return toNumber(v) < 0
		}
		return defined[i].String() < defined[j].String()
	})
	if sortErr != nil {
		return nil, sortErr
	}

	for i := 0; i < undefinedCount; i++ {
		defined = append(defined, runtime.Undefined)
	}
	return defined, nil
}

func arraySort(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return this, nil
	}
	sorted, err := sortInPlace(ev, ctx, a.Elements, arg(args, 0))
	if err != nil {
		return nil, err
	}
	a.Elements = sorted
	return a, nil
}

// arrayToSorted is the copying counterpart of sort: same undefined/stable
// semantics, but leaves the receiver untouched (ES2023).
func arrayToSorted(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	copied := append([]runtime.Value{}, a.Elements...)
	sorted, err := sortInPlace(ev, ctx, copied, arg(args, 0))
	if err != nil {
		return nil, err
	}
	return runtime.NewArray(sorted), nil
}

// arrayToSpliced is the copying counterpart of splice (ES2023): returns
// the would-be result array without mutating the receiver.
func arrayToSpliced(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	n := len(a.Elements)
	start := 0
	if len(args) > 0 {
		start = normalizeIndex(toNumber(args[0]), n)
	}
	deleteCount := n - start
	if len(args) > 1 {
		dc := toInt(args[1])
		if dc < 0 {
			dc = 0
		}
		if dc > n-start {
			dc = n - start
		}
		deleteCount = dc
	}
	var inserted []runtime.Value
	if len(args) > 2 {
		inserted = args[2:]
	}
	out := append([]runtime.Value{}, a.Elements[:start]...)
	out = append(out, inserted...)
	out = append(out, a.Elements[start+deleteCount:]...)
	return runtime.NewArray(out), nil
}

func arrayFlat(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.NewArray(nil), nil
	}
	depth := 1
	if len(args) > 0 {
		depth = toInt(args[0])
	}
	return runtime.NewArray(flatten(a.Elements, depth)), nil
}

func flatten(elems []runtime.Value, depth int) []runtime.Value {
	var out []runtime.Value
	for _, e := range elems {
		if inner, ok := e.(*runtime.ArrayValue); ok && depth > 0 {
			out = append(out, flatten(inner.Elements, depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}

func arrayFlatMap(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	mapped, err := arrayMap(ev, ctx, this, args)
	if err != nil {
		return nil, err
	}
	return arrayFlat(ev, ctx, mapped, []runtime.Value{runtime.Number(1)})
}

func arrayFill(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return this, nil
	}
	val := arg(args, 0)
	n := len(a.Elements)
	start := 0
	end := n
	if len(args) > 1 {
		start = normalizeIndex(toNumber(args[1]), n)
	}
	if len(args) > 2 {
		end = normalizeIndex(toNumber(args[2]), n)
	}
	for i := start; i < end; i++ {
		a.Elements[i] = val
	}
	return a, nil
}

func arrayAt(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, ok := asArray(this)
	if !ok {
		return runtime.Undefined, nil
	}
	idx := toInt(arg(args, 0))
	if idx < 0 {
		idx += len(a.Elements)
	}
	if idx < 0 || idx >= len(a.Elements) {
		return runtime.Undefined, nil
	}
	return a.Elements[idx], nil
}

func arrayToString(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return arrayJoin(ev, ctx, this, nil)
}

// arrayFromStatic implements Array.from: an array-like/iterable plus an
// optional per-element mapping callback.
func arrayFromStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	source := arg(args, 0)
	mapFn := arg(args, 1)

	var elems []runtime.Value
	switch s := source.(type) {
	case *runtime.ArrayValue:
		elems = append(elems, s.Elements...)
	case *runtime.StringValue:
		for _, u := range utf16Units(s.Value) {
			elems = append(elems, runtime.Str(unitsToString([]uint16{u})))
		}
	case *runtime.SetValue:
		elems = append(elems, s.Values()...)
	case *runtime.MapValue:
		for _, e := range s.Entries() {
			elems = append(elems, runtime.NewArray([]runtime.Value{e.Key, e.Value}))
		}
	case *runtime.ObjectValue:
		if lv, ok := s.Get("length"); ok {
			n := int(toNumber(lv))
			for i := 0; i < n; i++ {
				v, _ := s.Get(strconv.Itoa(i))
				elems = append(elems, v)
			}
		}
	}

	if !evaluator.IsCallable(mapFn) {
		return runtime.NewArray(elems), nil
	}
	out := make([]runtime.Value, len(elems))
	for i, e := range elems {
		v, err := callCallback(ev, ctx, mapFn, runtime.Undefined, []runtime.Value{e, runtime.Number(float64(i))})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return runtime.NewArray(out), nil
}
