package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/argon/internal/linker"
)

var modulesCmd = &cobra.Command{
	Use:   "modules <file>",
	Short: "Print the computed module dependency order",
	Long: `Parses the entry file's transitive import graph and prints the
order the linker would execute modules in (dependencies first).`,
	Args: cobra.ExactArgs(1),
	RunE: showModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func showModules(_ *cobra.Command, args []string) error {
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

	fmt.Print(formatModuleOrder(order))
	return nil
}

// formatModuleOrder renders a computed dependency order as the numbered
// listing showModules prints, factored out so the exact text survives a
// golden-output test (cmd/argon/cmd/modules_test.go) independent of
// stdout wiring.
func formatModuleOrder(order []string) string {
	var b strings.Builder
	for i, path := range order {
		fmt.Fprintf(&b, "%d. %s\n", i+1, path)
	}
	return b.String()
}
