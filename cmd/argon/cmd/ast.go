package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Print the parsed AST for a single file",
	Long: `Parses one source file through the linked frontend and prints its
AST (ast.Program.String()), without resolving imports or executing
anything. Mirrors the teacher's "run --dump-ast", split into its own
subcommand since this module has no execution-free way to "run" source
that also type-checks it.`,
	Args: cobra.ExactArgs(1),
	RunE: dumpAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
}

func dumpAST(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	prog, err := parseSource(string(content), filename)
	if err != nil {
		return err
	}
	fmt.Println(prog.String())
	return nil
}
