package builtins

import (
	"math"
	"math/rand"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

// installMath builds the Math namespace object (spec §4.5's built-in
// globals): a plain ObjectValue of constants plus native functions, the
// way the evaluator already exposes Array/Object as constructor values.
func installMath(globals *env.Environment) {
	m := runtime.NewObject()
	m.Set("PI", runtime.Number(math.Pi))
	m.Set("E", runtime.Number(math.E))
	m.Set("LN2", runtime.Number(math.Ln2))
	m.Set("LN10", runtime.Number(math.Log(10)))
	m.Set("LOG2E", runtime.Number(1/math.Ln2))
	m.Set("LOG10E", runtime.Number(1/math.Log(10)))
	m.Set("SQRT2", runtime.Number(math.Sqrt2))
	m.Set("SQRT1_2", runtime.Number(math.Sqrt(0.5)))

	unary := func(name string, fn func(float64) float64) {
		m.Set(name, New("Math."+name, func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(fn(toNumber(arg(args, 0)))), nil
		}))
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("exp", math.Exp)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return f
		}
	})
	unary("round", func(f float64) float64 { return math.Floor(f + 0.5) })

	m.Set("pow", New("Math.pow", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Pow(toNumber(arg(args, 0)), toNumber(arg(args, 1)))), nil
	}))
	m.Set("atan2", New("Math.atan2", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Atan2(toNumber(arg(args, 0)), toNumber(arg(args, 1)))), nil
	}))
	m.Set("hypot", New("Math.hypot", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		sum := 0.0
		for _, a := range args {
			n := toNumber(a)
			sum += n * n
		}
		return runtime.Number(math.Sqrt(sum)), nil
	}))
	m.Set("max", New("Math.max", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.Inf(-1)), nil
		}
		best := math.Inf(-1)
		for _, a := range args {
			n := toNumber(a)
			if math.IsNaN(n) {
				return runtime.NaN(), nil
			}
			if n > best {
				best = n
			}
		}
		return runtime.Number(best), nil
	}))
	m.Set("min", New("Math.min", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(math.Inf(1)), nil
		}
		best := math.Inf(1)
		for _, a := range args {
			n := toNumber(a)
			if math.IsNaN(n) {
				return runtime.NaN(), nil
			}
			if n < best {
				best = n
			}
		}
		return runtime.Number(best), nil
	}))
	m.Set("random", New("Math.random", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(rand.Float64()), nil
	}))

	globals.Define("Math", m)
	globals.MarkReadOnly("Math")
}
