package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/argon/internal/builtins"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/eventloop"
	"github.com/cwbudde/argon/internal/linker"
	"github.com/cwbudde/argon/internal/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Load, link, and execute a module graph",
	Long: `Parses the given entry file and every module it transitively
imports (through the linked frontend, see "argon help"), links them in
dependency order, then runs the entry module. If the entry module
declares an exported main(argv), it is invoked with process.argv after
top-level execution; a numeric return becomes the process exit code
(spec §4.6's "Top-level semantics").`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(_ *cobra.Command, args []string) error {
	entryPath := args[0]
	opts := resolvedOptions()
	resolve := linker.NewFileResolver(append([]string{filepath.Dir(entryPath)}, opts.ModulePaths...))

	entryCanonical, modules, err := loadModuleGraph(entryPath, resolve)
	if err != nil {
		return err
	}
	log.WithField("modules", len(modules)).Debug("parsed module graph")

	runtime.SetScriptArguments(append([]string{"argon", entryPath}, args[1:]...))

	globals := env.New(opts.StrictMode)
	builtins.Install(globals)
	ev := evaluator.New(globals, nil)
	evaluator.SetEvaluator(ev)
	l := linker.New(ev, resolve.Resolve)

	loop := eventloop.New()
	ctx := evaluator.NewSyncContext(loop)

	inst, err := l.Load(ctx, entryCanonical, modules)
	if err != nil {
		return err
	}
	log.WithField("entry", entryCanonical).Debug("entry module executed")

	loop.Run()

	if main, ok := inst.Namespace.Members["main"]; ok && evaluator.IsCallable(main) {
		result, err := evaluator.CallValue(ev, ctx, main, runtime.Undefined, []runtime.Value{argvArrayValue(runtime.Argv())})
		if err != nil {
			return fmt.Errorf("main() threw: %w", err)
		}
		if p, ok := result.(*runtime.PromiseValue); ok {
			loop.Run()
			result = p.Result
		}
		loop.Run()
		if n, ok := result.(*runtime.NumberValue); ok {
			runtime.SetExitCode(int(n.Value))
		}
	}

	return nil
}

func argvArrayValue(argv []string) *runtime.ArrayValue {
	elements := make([]runtime.Value, len(argv))
	for i, a := range argv {
		elements[i] = runtime.Str(a)
	}
	return runtime.NewArray(elements)
}
