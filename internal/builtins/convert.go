package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/argon/internal/runtime"
)

// toNumber/toBool/toInt/toStr are the builtins package's own copies
// of the evaluator's unexported ToNumber/ToBool conversions (spec §3.1's
// value coercions) — kept local rather than exported from evaluator to
// avoid widening that package's surface just for this one consumer.
func toNumber(v runtime.Value) float64 {
	switch n := v.(type) {
	case *runtime.NumberValue:
		return n.Value
	case *runtime.BooleanValue:
		if n.Value {
			return 1
		}
		return 0
	case *runtime.StringValue:
		s := strings.TrimSpace(n.Value)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case *runtime.NullValue:
		return 0
	default:
		return math.NaN()
	}
}

func toInt(v runtime.Value) int {
	n := toNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	return int(n)
}

func toBool(v runtime.Value) bool { return !runtime.IsFalsey(v) }

func toStr(v runtime.Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

// normalizeIndex implements JS's relative-index convention shared by
// slice/splice/toSpliced/fill and indexOf's `fromIndex`: negative counts
// back from length, and the result is clamped into [0, length]. (`at`
// does its own negative-index handling without clamping.)
func normalizeIndex(idx float64, length int) int {
	if math.IsNaN(idx) {
		return 0
	}
	i := int(idx)
	if i < 0 {
		i += length
		if i < 0 {
			i = 0
		}
	}
	if i > length {
		i = length
	}
	return i
}
