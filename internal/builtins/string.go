package builtins

import (
	"strings"
	"unicode/utf16"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	StringMethods.Register("slice", stringSlice)
	StringMethods.Register("substring", stringSubstring)
	StringMethods.Register("split", stringSplit)
	StringMethods.Register("replace", stringReplace)
	StringMethods.Register("replaceAll", stringReplaceAll)
	StringMethods.Register("trim", stringTrim)
	StringMethods.Register("trimStart", stringTrimStart)
	StringMethods.Register("trimEnd", stringTrimEnd)
	StringMethods.Register("toUpperCase", stringToUpperCase)
	StringMethods.Register("toLowerCase", stringToLowerCase)
	StringMethods.Register("includes", stringIncludes)
	StringMethods.Register("indexOf", stringIndexOf)
	StringMethods.Register("lastIndexOf", stringLastIndexOf)
	StringMethods.Register("startsWith", stringStartsWith)
	StringMethods.Register("endsWith", stringEndsWith)
	StringMethods.Register("padStart", stringPadStart)
	StringMethods.Register("padEnd", stringPadEnd)
	StringMethods.Register("repeat", stringRepeat)
	StringMethods.Register("charAt", stringCharAt)
	StringMethods.Register("charCodeAt", stringCharCodeAt)
	StringMethods.Register("codePointAt", stringCodePointAt)
	StringMethods.Register("concat", stringConcat)
	StringMethods.Register("at", stringAt)
	StringMethods.Register("toString", stringToString)
	StringMethods.Register("valueOf", stringToString)
}

func asStr(this runtime.Value) string {
	if s, ok := this.(*runtime.StringValue); ok {
		return s.Value
	}
	return toStr(this)
}

// utf16Units returns this string's UTF-16 code unit sequence: JS string
// indices (slice/charAt/length) count UTF-16 units, not Go's UTF-8 bytes
// or runes.
func utf16Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func unitsToString(u []uint16) string {
	return string(utf16.Decode(u))
}

func stringSlice(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	units := utf16Units(asStr(this))
	n := len(units)
	start := 0
	end := n
	if len(args) > 0 && !isUndefinedArg(args[0]) {
		start = normalizeIndex(toNumber(args[0]), n)
	}
	if len(args) > 1 && !isUndefinedArg(args[1]) {
		end = normalizeIndex(toNumber(args[1]), n)
	}
	if start >= end {
		return runtime.Str(""), nil
	}
	return runtime.Str(unitsToString(units[start:end])), nil
}

func stringSubstring(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	units := utf16Units(asStr(this))
	n := len(units)
	clamp := func(i int) int {
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	start := 0
	end := n
	if len(args) > 0 && !isUndefinedArg(args[0]) {
		start = clamp(toInt(args[0]))
	}
	if len(args) > 1 && !isUndefinedArg(args[1]) {
		end = clamp(toInt(args[1]))
	}
	if start > end {
		start, end = end, start
	}
	return runtime.Str(unitsToString(units[start:end])), nil
}

func stringSplit(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := asStr(this)
	if len(args) == 0 || isUndefinedArg(args[0]) {
		return runtime.NewArray([]runtime.Value{runtime.Str(s)}), nil
	}
	sep := toStr(args[0])
	var parts []string
	if sep == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s, sep)
	}
	limit := -1
	if len(args) > 1 && !isUndefinedArg(args[1]) {
		limit = toInt(args[1])
	}
	if limit >= 0 && limit < len(parts) {
		parts = parts[:limit]
	}
	out := make([]runtime.Value, len(parts))
	for i, p := range parts {
		out[i] = runtime.Str(p)
	}
	return runtime.NewArray(out), nil
}

func stringReplace(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := asStr(this)
	search := toStr(arg(args, 0))
	idx := strings.Index(s, search)
	if idx < 0 {
		return runtime.Str(s), nil
	}
	repl, err := replacement(ev, ctx, arg(args, 1), search, idx, s)
	if err != nil {
		return nil, err
	}
	return runtime.Str(s[:idx] + repl + s[idx+len(search):]), nil
}

func stringReplaceAll(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := asStr(this)
	search := toStr(arg(args, 0))
	if search == "" {
		return runtime.Str(s), nil
	}
	var b strings.Builder
	rest := s
	offset := 0
	for {
		idx := strings.Index(rest, search)
		if idx < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:idx])
		repl, err := replacement(ev, ctx, arg(args, 1), search, offset+idx, s)
		if err != nil {
			return nil, err
		}
		b.WriteString(repl)
		rest = rest[idx+len(search):]
		offset += idx + len(search)
	}
	return runtime.Str(b.String()), nil
}

func replacement(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, repl runtime.Value, match string, idx int, full string) (string, error) {
	if evaluator.IsCallable(repl) {
		v, err := callCallback(ev, ctx, repl, runtime.Undefined, []runtime.Value{
			runtime.Str(match), runtime.Number(float64(idx)), runtime.Str(full),
		})
		if err != nil {
			return "", err
		}
		return toStr(v), nil
	}
	return toStr(repl), nil
}

func stringTrim(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Str(strings.TrimSpace(asStr(this))), nil
}

func stringTrimStart(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Str(strings.TrimLeft(asStr(this), " \t\n\r\v\f")), nil
}

func stringTrimEnd(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Str(strings.TrimRight(asStr(this), " \t\n\r\v\f")), nil
}

func stringToUpperCase(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Str(strings.ToUpper(asStr(this))), nil
}

func stringToLowerCase(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Str(strings.ToLower(asStr(this))), nil
}

func stringIncludes(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(strings.Contains(asStr(this), toStr(arg(args, 0)))), nil
}

func stringIndexOf(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := asStr(this)
	search := toStr(arg(args, 0))
	start := 0
	if len(args) > 1 {
		start = normalizeIndex(toNumber(args[1]), len(s))
	}
	if start > len(s) {
		return runtime.Number(-1), nil
	}
	idx := strings.Index(s[start:], search)
	if idx < 0 {
		return runtime.Number(-1), nil
	}
	return runtime.Number(float64(idx + start)), nil
}

func stringLastIndexOf(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := asStr(this)
	search := toStr(arg(args, 0))
	return runtime.Number(float64(strings.LastIndex(s, search))), nil
}

func stringStartsWith(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := asStr(this)
	prefix := toStr(arg(args, 0))
	pos := 0
	if len(args) > 1 {
		pos = normalizeIndex(toNumber(args[1]), len(s))
	}
	if pos > len(s) {
		return runtime.False, nil
	}
	return runtime.Bool(strings.HasPrefix(s[pos:], prefix)), nil
}

func stringEndsWith(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := asStr(this)
	suffix := toStr(arg(args, 0))
	end := len(s)
	if len(args) > 1 && !isUndefinedArg(args[1]) {
		end = normalizeIndex(toNumber(args[1]), len(s))
	}
	if end > len(s) {
		end = len(s)
	}
	return runtime.Bool(strings.HasSuffix(s[:end], suffix)), nil
}

func stringPadStart(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return pad(asStr(this), args, true), nil
}

func stringPadEnd(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return pad(asStr(this), args, false), nil
}

func pad(s string, args []runtime.Value, start bool) runtime.Value {
	target := toInt(arg(args, 0))
	units := utf16Units(s)
	if target <= len(units) {
		return runtime.Str(s)
	}
	filler := " "
	if len(args) > 1 && !isUndefinedArg(args[1]) {
		filler = toStr(args[1])
	}
	if filler == "" {
		return runtime.Str(s)
	}
	fillerUnits := utf16Units(filler)
	need := target - len(units)
	var pad []uint16
	for len(pad) < need {
		pad = append(pad, fillerUnits...)
	}
	pad = pad[:need]
	if start {
		return runtime.Str(unitsToString(pad) + s)
	}
	return runtime.Str(s + unitsToString(pad))
}

func stringRepeat(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	count := toInt(arg(args, 0))
	if count < 0 {
		return nil, typeErrorf("Invalid count value")
	}
	return runtime.Str(strings.Repeat(asStr(this), count)), nil
}

func stringCharAt(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	units := utf16Units(asStr(this))
	idx := toInt(arg(args, 0))
	if idx < 0 || idx >= len(units) {
		return runtime.Str(""), nil
	}
	return runtime.Str(unitsToString(units[idx : idx+1])), nil
}

func stringCharCodeAt(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	units := utf16Units(asStr(this))
	idx := toInt(arg(args, 0))
	if idx < 0 || idx >= len(units) {
		return runtime.NaN(), nil
	}
	return runtime.Number(float64(units[idx])), nil
}

func stringCodePointAt(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	runes := []rune(asStr(this))
	idx := toInt(arg(args, 0))
	if idx < 0 || idx >= len(runes) {
		return runtime.Undefined, nil
	}
	return runtime.Number(float64(runes[idx])), nil
}

func stringConcat(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	var b strings.Builder
	b.WriteString(asStr(this))
	for _, a := range args {
		b.WriteString(toStr(a))
	}
	return runtime.Str(b.String()), nil
}

func stringAt(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	units := utf16Units(asStr(this))
	idx := toInt(arg(args, 0))
	if idx < 0 {
		idx += len(units)
	}
	if idx < 0 || idx >= len(units) {
		return runtime.Undefined, nil
	}
	return runtime.Str(unitsToString(units[idx : idx+1])), nil
}

func stringToString(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Str(asStr(this)), nil
}
