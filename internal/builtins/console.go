package builtins

import (
	"fmt"
	"os"

	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// installConsole wires the console namespace (spec §4.5's ambient host
// object). Script output goes straight to stdout/stderr the way the real
// console does; structured diagnostic logging for the host CLI itself
// (parse errors, module-resolution failures) goes through logrus instead,
// in the command layer, not here.
func installConsole(globals *env.Environment) {
	c := runtime.NewObject()
	logTo := func(w *os.File) Func {
		return func(ev *evaluator.Evaluator, ctx evaluator.EvaluationContext, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			parts := make([]interface{}, len(args))
			for i, a := range args {
				parts[i] = toStr(a)
			}
			fmt.Fprintln(w, parts...)
			return runtime.Undefined, nil
		}
	}
	c.Set("log", New("console.log", logTo(os.Stdout)))
	c.Set("info", New("console.info", logTo(os.Stdout)))
	c.Set("debug", New("console.debug", logTo(os.Stdout)))
	c.Set("warn", New("console.warn", logTo(os.Stderr)))
	c.Set("error", New("console.error", logTo(os.Stderr)))
	globals.Define("console", c)
	globals.MarkReadOnly("console")
}
