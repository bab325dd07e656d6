package runtime

import (
	"math"
	"strconv"
	"strings"
)

// formatShortest renders a finite float64 the way JS's Number.prototype.toString
// does for the common cases: integral values print without a decimal point,
// and everything else uses the shortest round-tripping decimal. Full
// ECMA-262 exponential-notation thresholds are not reproduced (spec's
// Non-goals exclude bit-identical parity with a concrete engine).
func formatShortest(f float64) string {
	if f == 0 {
		if math.Signbit(f) {
			return "0"
		}
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Go renders exponents as e+05; JS renders e+5 (no leading zero).
	if idx := strings.IndexAny(s, "eE"); idx >= 0 {
		mantissa, exp := s[:idx], s[idx+1:]
		sign := "+"
		if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
			if exp[0] == '-' {
				sign = "-"
			}
			exp = exp[1:]
		}
		exp = strings.TrimLeft(exp, "0")
		if exp == "" {
			exp = "0"
		}
		s = mantissa + "e" + sign + exp
	}
	return s
}
