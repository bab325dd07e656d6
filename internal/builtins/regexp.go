package builtins

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	RegExpMethods.Register("test", regexpTest)
	RegExpMethods.Register("exec", regexpExec)
	RegExpMethods.Register("toString", regexpToString)
}

// CompileRegExp builds a RegExpValue with its Matcher populated, grounded
// on the expansion's choice of dlclark/regexp2 for .NET-style regex
// features (lookbehind, named groups) the standard library's RE2 engine
// cannot express. Called by the evaluator's regex-literal handler and the
// RegExp constructor alike.
func CompileRegExp(source, flags string) (*runtime.RegExpValue, error) {
	opts := regexp2.None
	if strings.Contains(flags, "i") {
		opts |= regexp2.IgnoreCase
	}
	if strings.Contains(flags, "s") {
		opts |= regexp2.Singleline
	}
	if strings.Contains(flags, "m") {
		opts |= regexp2.Multiline
	}
	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, typeErrorf("Invalid regular expression: %s", err.Error())
	}
	return &runtime.RegExpValue{Source: source, Flags: flags, Matcher: re}, nil
}

func asRegExp(this runtime.Value) (*runtime.RegExpValue, bool) {
	r, ok := this.(*runtime.RegExpValue)
	return r, ok
}

func matcherOf(r *runtime.RegExpValue) *regexp2.Regexp {
	re, _ := r.Matcher.(*regexp2.Regexp)
	return re
}

func regexpTest(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, ok := asRegExp(this)
	if !ok {
		return runtime.False, nil
	}
	re := matcherOf(r)
	if re == nil {
		return runtime.False, nil
	}
	m, err := re.MatchString(toStr(arg(args, 0)))
	if err != nil {
		return nil, typeErrorf("%s", err.Error())
	}
	return runtime.Bool(m), nil
}

func regexpExec(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, ok := asRegExp(this)
	if !ok {
		return runtime.Null, nil
	}
	re := matcherOf(r)
	if re == nil {
		return runtime.Null, nil
	}
	s := toStr(arg(args, 0))
	start := 0
	global := strings.ContainsAny(r.Flags, "gy")
	if global {
		start = int(r.LastIndex)
		if start > len(s) {
			r.LastIndex = 0
			return runtime.Null, nil
		}
	}
	m, err := re.FindStringMatchStartingAt(s, start)
	if err != nil {
		return nil, typeErrorf("%s", err.Error())
	}
	if m == nil {
		if global {
			r.LastIndex = 0
		}
		return runtime.Null, nil
	}
	if global {
		r.LastIndex = int64(m.Index + m.Length)
	}
	groups := m.Groups()
	elems := make([]runtime.Value, len(groups))
	for i, g := range groups {
		if len(g.Captures) == 0 {
			elems[i] = runtime.Undefined
			continue
		}
		elems[i] = runtime.Str(g.String())
	}
	arr := runtime.NewArray(elems)
	return arr, nil
}

func regexpToString(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r, ok := asRegExp(this)
	if !ok {
		return runtime.Str(""), nil
	}
	return runtime.Str(r.String()), nil
}
