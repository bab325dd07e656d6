package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/argon/internal/runtime"
)

// toNumber implements ToNumber for the subset of values the evaluator's
// arithmetic operators need (spec §4.2's Binary `+`/numeric rules).
func toNumber(v runtime.Value) float64 {
	switch p := v.(type) {
	case *runtime.NumberValue:
		return p.Value
	case *runtime.BooleanValue:
		if p.Value {
			return 1
		}
		return 0
	case *runtime.StringValue:
		s := strings.TrimSpace(p.Value)
		if s == "" {
			return 0
		}
		f, err := parseJSNumber(s)
		if err != nil {
			return math.NaN()
		}
		return f
	case *runtime.NullValue:
		return 0
	case *runtime.UndefinedValue:
		return math.NaN()
	default:
		return math.NaN()
	}
}

func parseJSNumber(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// isStringLike implements enough of ToString/string-concat detection
// for `+` to decide between numeric addition and string concatenation
// (spec §4.2: "If either operand stringifies, concatenate").
func isStringLike(v runtime.Value) bool {
	_, ok := v.(*runtime.StringValue)
	return ok
}

func toBool(v runtime.Value) bool { return !runtime.IsFalsey(v) }
