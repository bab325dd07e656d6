package builtins

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// installJSON wires JSON.parse/JSON.stringify (spec §4.5). gjson/sjson
// handle the text representation so the runtime value domain doesn't
// need a hand-rolled JSON scanner in addition to the lexer's own one.
func installJSON(globals *env.Environment) {
	ns := runtime.NewObject()
	ns.Set("parse", New("JSON.parse", jsonParse))
	ns.Set("stringify", New("JSON.stringify", jsonStringify))
	globals.Define("JSON", ns)
	globals.MarkReadOnly("JSON")
}

func jsonParse(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	text := toStr(arg(args, 0))
	if !gjson.Valid(text) {
		return nil, typeErrorf("Unexpected token in JSON")
	}
	return gjsonToValue(gjson.Parse(text)), nil
}

func gjsonToValue(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.Null
	case gjson.False:
		return runtime.False
	case gjson.True:
		return runtime.True
	case gjson.Number:
		return runtime.Number(r.Num)
	case gjson.String:
		return runtime.Str(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var out []runtime.Value
			r.ForEach(func(_, v gjson.Result) bool {
				out = append(out, gjsonToValue(v))
				return true
			})
			return runtime.NewArray(out)
		}
		o := runtime.NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			o.Set(k.Str, gjsonToValue(v))
			return true
		})
		return o
	default:
		return runtime.Undefined
	}
}

func jsonStringify(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	out, ok := valueToJSON(arg(args, 0))
	if !ok {
		return runtime.Undefined, nil
	}
	return runtime.Str(out), nil
}

// valueToJSON serializes v, building the document with sjson.SetRaw so
// the same ecosystem library that parses also writes, rather than
// hand-assembling a string.Builder tree.
func valueToJSON(v runtime.Value) (string, bool) {
	switch val := v.(type) {
	case nil, *runtime.UndefinedValue:
		return "", false
	case *runtime.NullValue:
		return "null", true
	case *runtime.BooleanValue:
		return strconv.FormatBool(val.Value), true
	case *runtime.NumberValue:
		return strconv.FormatFloat(val.Value, 'g', -1, 64), true
	case *runtime.StringValue:
		quoted, _ := sjson.Set("", "x", val.Value)
		return gjson.Get(quoted, "x").Raw, true
	case *runtime.ArrayValue:
		doc := "[]"
		for i, e := range val.Elements {
			s, ok := valueToJSON(e)
			if !ok {
				s = "null"
			}
			doc, _ = sjson.SetRaw(doc, strconv.Itoa(i), s)
		}
		return doc, true
	case *runtime.ObjectValue:
		doc := "{}"
		for _, k := range val.Keys {
			fv, _ := val.Get(k)
			s, ok := valueToJSON(fv)
			if !ok {
				continue
			}
			doc, _ = sjson.SetRaw(doc, sjsonEscapeKey(k), s)
		}
		return doc, true
	default:
		return "", false
	}
}

// sjsonEscapeKey escapes path-control characters (. * ?) sjson treats
// specially, since object keys are arbitrary strings, not gjson paths.
func sjsonEscapeKey(k string) string {
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		c := k[i]
		if c == '.' || c == '*' || c == '?' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
