package builtins

import (
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	GeneratorMethods.Register("next", generatorNext)
	GeneratorMethods.Register("return", generatorReturn)
	GeneratorMethods.Register("throw", generatorThrow)
}

func asGenerator(this runtime.Value) (*evaluator.GeneratorObject, bool) {
	g, ok := this.(*evaluator.GeneratorObject)
	return g, ok
}

func generatorNext(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	g, ok := asGenerator(this)
	if !ok {
		return nil, typeErrorf("not a generator")
	}
	res, thrown := g.NextOrThrow(arg(args, 0))
	if thrown != nil {
		return nil, evaluator.Throw(thrown)
	}
	return res, nil
}

func generatorReturn(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	g, ok := asGenerator(this)
	if !ok {
		return nil, typeErrorf("not a generator")
	}
	return g.Return(arg(args, 0)), nil
}

func generatorThrow(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	g, ok := asGenerator(this)
	if !ok {
		return nil, typeErrorf("not a generator")
	}
	res, thrown := g.Throw(arg(args, 0))
	if thrown != nil {
		return nil, evaluator.Throw(thrown)
	}
	return res, nil
}
