package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/internal/builtins"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func invokeArrayMethod(t *testing.T, name string, receiver *runtime.ArrayValue, args ...runtime.Value) runtime.Value {
	t.Helper()
	m, ok := builtins.ArrayMethods.Lookup(name)
	require.True(t, ok, "Array.prototype.%s must be registered", name)
	result, err := m.Invoke(nil, nil, receiver, args)
	require.NoError(t, err)
	return result
}

// descendingComparator is a native `(a, b) => b - a` callback, built the
// same way the builtins package itself wraps a Go func as a callable
// runtime.Value (builtins.New), so arraySort's callCallback path (which
// only needs evaluator.CallValue's NativeCallable branch) can invoke it
// without requiring a full evaluator/environment around it.
func descendingComparator() runtime.Value {
	return builtins.New("cmp", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		a := args[0].(*runtime.NumberValue).Value
		b := args[1].(*runtime.NumberValue).Value
		return runtime.Number(b - a), nil
	})
}

func numbers(values ...float64) []runtime.Value {
	out := make([]runtime.Value, len(values))
	for i, v := range values {
		out[i] = runtime.Number(v)
	}
	return out
}

func floatsOf(t *testing.T, elements []runtime.Value) []float64 {
	t.Helper()
	out := make([]float64, 0, len(elements))
	for _, e := range elements {
		if isUndefined(e) {
			continue
		}
		n, ok := e.(*runtime.NumberValue)
		require.True(t, ok, "expected a number, got %T", e)
		out = append(out, n.Value)
	}
	return out
}

func isUndefined(v runtime.Value) bool {
	_, ok := v.(*runtime.UndefinedValue)
	return ok
}

// TestSortPartitionsUndefinedToTail: [3, undefined, 1, undefined, 2].sort()
// -> [1, 2, 3, undefined, undefined]. JS's Array.prototype.sort always
// moves undefined entries to the end regardless of the comparator,
// sorting only the defined remainder.
func TestSortPartitionsUndefinedToTail(t *testing.T) {
	arr := runtime.NewArray([]runtime.Value{
		runtime.Number(3), runtime.Undefined, runtime.Number(1), runtime.Undefined, runtime.Number(2),
	})

	result := invokeArrayMethod(t, "sort", arr)

	sorted, ok := result.(*runtime.ArrayValue)
	require.True(t, ok)
	require.Len(t, sorted.Elements, 5)
	require.Equal(t, []float64{1, 2, 3}, floatsOf(t, sorted.Elements[:3]))
	require.True(t, isUndefined(sorted.Elements[3]))
	require.True(t, isUndefined(sorted.Elements[4]))
}

// TestSortWithComparatorStillPartitionsUndefinedToTail confirms a custom
// comparator never gets to reorder undefined against a defined value,
// even when the comparator itself would (incorrectly) try to.
func TestSortWithComparatorStillPartitionsUndefinedToTail(t *testing.T) {
	arr := runtime.NewArray([]runtime.Value{
		runtime.Undefined, runtime.Number(2), runtime.Number(1),
	})

	result := invokeArrayMethod(t, "sort", arr, descendingComparator())

	sorted := result.(*runtime.ArrayValue)
	require.Equal(t, []float64{2, 1}, floatsOf(t, sorted.Elements[:2]), "a descending comparator still only reorders the defined elements")
	require.True(t, isUndefined(sorted.Elements[2]), "undefined stays at the tail even with a custom comparator")
}

// TestToSortedLeavesReceiverUntouched is ES2023's copying counterpart.
func TestToSortedLeavesReceiverUntouched(t *testing.T) {
	arr := runtime.NewArray(numbers(3, 1, 2))

	result := invokeArrayMethod(t, "toSorted", arr)

	sorted, ok := result.(*runtime.ArrayValue)
	require.True(t, ok)
	require.Equal(t, []float64{1, 2, 3}, floatsOf(t, sorted.Elements))
	require.Equal(t, []float64{3, 1, 2}, floatsOf(t, arr.Elements), "toSorted must not mutate the receiver")
}

// TestSpliceNegativeStartCountsFromEnd: a negative start counts backward
// from the array's length (clamped to zero), same as slice's index
// normalization.
func TestSpliceNegativeStartCountsFromEnd(t *testing.T) {
	arr := runtime.NewArray(numbers(1, 2, 3, 4, 5))

	removed := invokeArrayMethod(t, "splice", arr, runtime.Number(-2), runtime.Number(1))

	removedArr, ok := removed.(*runtime.ArrayValue)
	require.True(t, ok)
	require.Equal(t, []float64{4}, floatsOf(t, removedArr.Elements), "start=-2 on a 5-element array means index 3")
	require.Equal(t, []float64{1, 2, 3, 5}, floatsOf(t, arr.Elements))
}

// TestSpliceNegativeStartBeyondLengthClampsToZero covers the edge case
// where a negative start's magnitude exceeds the array's length: it
// clamps to index 0 rather than going further negative.
func TestSpliceNegativeStartBeyondLengthClampsToZero(t *testing.T) {
	arr := runtime.NewArray(numbers(1, 2, 3))

	removed := invokeArrayMethod(t, "splice", arr, runtime.Number(-10), runtime.Number(1))

	removedArr := removed.(*runtime.ArrayValue)
	require.Equal(t, []float64{1}, floatsOf(t, removedArr.Elements))
	require.Equal(t, []float64{2, 3}, floatsOf(t, arr.Elements))
}
