package builtins

import (
	"os"

	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// installProcess wires the script-visible `process` object (spec §6) onto
// globals. The underlying argv/env/start-time state lives in
// internal/runtime/process.go, read through runtime.Argv/Env/HRTime
// (process-wide, set once by the host CLI before module
// loading); this function only builds the JS-facing object and its
// methods, the same split console.go uses for script-visible stdout/stderr.
func installProcess(globals *env.Environment) {
	p := runtime.NewObject()
	p.Set("argv", argvArray())
	p.Set("env", envObject())

	p.Set("exit", New("process.exit", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		code := 0
		if len(args) > 0 {
			code = int(toNumber(args[0]))
		}
		runtime.SetExitCode(code)
		os.Exit(code)
		return runtime.Undefined, nil
	}))

	p.Set("hrtime", New("process.hrtime", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		var prevSec, prevNsec float64
		if prev, ok := arg(args, 0).(*runtime.ArrayValue); ok && len(prev.Elements) == 2 {
			prevSec = toNumber(prev.Elements[0])
			prevNsec = toNumber(prev.Elements[1])
		}
		sec, nsec := runtime.HRTime(prevSec, prevNsec)
		return runtime.NewArray([]runtime.Value{runtime.Number(sec), runtime.Number(nsec)}), nil
	}))

	p.Set("nextTick", New("process.nextTick", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		loop := loopOf(ctx)
		cb := arg(args, 0)
		if loop == nil || !evaluator.IsCallable(cb) {
			return runtime.Undefined, nil
		}
		extra := append([]runtime.Value{}, args[min(1, len(args)):]...)
		loop.SetTimeout(0, func() {
			callCallback(ev, ctx, cb, runtime.Undefined, extra)
		})
		return runtime.Undefined, nil
	}))

	p.Set("stdout", stream(os.Stdout))
	p.Set("stderr", stream(os.Stderr))
	p.Set("stdin", stream(os.Stdin))

	globals.Define("process", p)
	globals.MarkReadOnly("process")
}

func argvArray() *runtime.ArrayValue {
	argv := runtime.Argv()
	elements := make([]runtime.Value, len(argv))
	for i, a := range argv {
		elements[i] = runtime.Str(a)
	}
	return runtime.NewArray(elements)
}

func envObject() *runtime.ObjectValue {
	o := runtime.NewObject()
	for k, v := range runtime.Env() {
		o.Set(k, runtime.Str(v))
	}
	return o
}

// stream builds the minimal isTTY + write() surface spec §6 asks for
// process.stdin/stdout/stderr; the actual byte writing goes straight to
// the given *os.File, matching console.go's direct-to-stdout approach.
func stream(f *os.File) *runtime.ObjectValue {
	o := runtime.NewObject()
	isTTY := false
	if info, err := f.Stat(); err == nil {
		isTTY = (info.Mode() & os.ModeCharDevice) != 0
	}
	o.Set("isTTY", runtime.Bool(isTTY))
	o.Set("write", New("write", func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		f.WriteString(toStr(arg(args, 0)))
		return runtime.Bool(true), nil
	}))
	return o
}
