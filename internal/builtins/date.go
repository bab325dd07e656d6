package builtins

import (
	"time"

	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

func init() {
	DateMethods.Register("getTime", dateGetTime)
	DateMethods.Register("valueOf", dateGetTime)
	DateMethods.Register("getFullYear", dateField(func(t time.Time) int { return t.Year() }))
	DateMethods.Register("getMonth", dateField(func(t time.Time) int { return int(t.Month()) - 1 }))
	DateMethods.Register("getDate", dateField(func(t time.Time) int { return t.Day() }))
	DateMethods.Register("getDay", dateField(func(t time.Time) int { return int(t.Weekday()) }))
	DateMethods.Register("getHours", dateField(func(t time.Time) int { return t.Hour() }))
	DateMethods.Register("getMinutes", dateField(func(t time.Time) int { return t.Minute() }))
	DateMethods.Register("getSeconds", dateField(func(t time.Time) int { return t.Second() }))
	DateMethods.Register("getMilliseconds", dateField(func(t time.Time) int { return t.Nanosecond() / 1e6 }))
	DateMethods.Register("getUTCFullYear", dateField(func(t time.Time) int { return t.UTC().Year() }))
	DateMethods.Register("getUTCMonth", dateField(func(t time.Time) int { return int(t.UTC().Month()) - 1 }))
	DateMethods.Register("getUTCDate", dateField(func(t time.Time) int { return t.UTC().Day() }))
	DateMethods.Register("getUTCHours", dateField(func(t time.Time) int { return t.UTC().Hour() }))
	DateMethods.Register("toISOString", dateToISOString)
	DateMethods.Register("toString", dateToISOString)
	DateMethods.Register("toJSON", dateToISOString)
	DateMethods.Register("setTime", dateSetTime)
}

func asDate(this runtime.Value) (*runtime.DateValue, bool) {
	d, ok := this.(*runtime.DateValue)
	return d, ok
}

func dateTime(d *runtime.DateValue) time.Time {
	ms := int64(d.EpochMillis)
	return time.UnixMilli(ms).UTC()
}

func dateGetTime(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	d, ok := asDate(this)
	if !ok {
		return runtime.NaN(), nil
	}
	return runtime.Number(d.EpochMillis), nil
}

func dateField(extract func(time.Time) int) Func {
	return func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		d, ok := asDate(this)
		if !ok {
			return runtime.NaN(), nil
		}
		return runtime.Number(float64(extract(dateTime(d)))), nil
	}
}

func dateToISOString(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	d, ok := asDate(this)
	if !ok {
		return runtime.Str(""), nil
	}
	return runtime.Str(dateTime(d).Format("2006-01-02T15:04:05.000Z")), nil
}

func dateSetTime(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	d, ok := asDate(this)
	if !ok {
		return nil, typeErrorf("Date.prototype.setTime called on non-Date")
	}
	d.EpochMillis = toNumber(arg(args, 0))
	return runtime.Number(d.EpochMillis), nil
}

// dateNowStatic implements Date.now() against the host wall clock. The
// virtual event-loop timer queue governs setTimeout/setInterval ordering
// but deliberately never substitutes for Date.now (spec §4.6's distinction
// between scheduling time and wall-clock time).
func dateNowStatic(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Number(float64(time.Now().UnixMilli())), nil
}
