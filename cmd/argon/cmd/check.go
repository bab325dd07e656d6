package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/argon/internal/linker"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse the module graph without running it",
	Long: `Parses the entry file and its transitive imports and reports any
parse or module-resolution errors. Type checking itself is out of scope
for this runtime (an external collaborator, spec.md's "Out of scope"
list) — check only validates what this module owns: syntax (via the
linked frontend) and the import/export graph's resolvability.`,
	Args: cobra.ExactArgs(1),
	RunE: checkScript,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkScript(_ *cobra.Command, args []string) error {
	entryPath := args[0]
	resolve := linker.NewFileResolver(append([]string{filepath.Dir(entryPath)}, resolvedModulePaths()...))

	entryCanonical, modules, err := loadModuleGraph(entryPath, resolve)
	if err != nil {
		return err
	}

	order, err := linker.ComputeOrder(entryCanonical, modules, resolve.Resolve)
	if err != nil {
		return err
	}

	fmt.Printf("%s: ok (%d module(s), no cycles)\n", entryPath, len(order))
	return nil
}
