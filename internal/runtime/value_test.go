package runtime_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cwbudde/argon/internal/runtime"
)

// TestStrictEqualsTable exercises `===` across every primitive pairing
// that matters (NaN-sensitive number compare, no numeric coercion across
// types, reference identity for arrays). go-cmp reports
// a structured diff on mismatch rather than a bare "not equal" message,
// which stays readable as the table grows.
func TestStrictEqualsTable(t *testing.T) {
	nan := runtime.Number(0)
	nan.Value = nan.Value / nan.Value // NaN, without importing math just for this

	arr := runtime.NewArray(nil)

	cases := []struct {
		name string
		a, b runtime.Value
		want bool
	}{
		{"same number", runtime.Number(1), runtime.Number(1), true},
		{"different number", runtime.Number(1), runtime.Number(2), false},
		{"NaN never equals itself", nan, nan, false},
		{"same string value", runtime.Str("x"), runtime.Str("x"), true},
		{"different string value", runtime.Str("x"), runtime.Str("y"), false},
		{"number vs string never equal", runtime.Number(1), runtime.Str("1"), false},
		{"undefined vs undefined", runtime.Undefined, runtime.Undefined, true},
		{"undefined vs null", runtime.Undefined, runtime.Null, false},
		{"same array identity", arr, arr, true},
		{"distinct arrays never equal", runtime.NewArray(nil), runtime.NewArray(nil), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runtime.StrictEquals(tc.a, tc.b)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("StrictEquals(%v, %v) mismatch (-want +got):\n%s", tc.a, tc.b, diff)
			}
		})
	}
}
