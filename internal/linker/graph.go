package linker

import (
	"fmt"
	"strings"

	"github.com/cwbudde/argon/ast"
)

// ComputeOrder exposes computeOrder to callers outside the package (the
// CLI's `check`/`modules` subcommands, which want the dependency order
// without constructing a Linker or executing anything).
func ComputeOrder(entry string, modules []ParsedModule, resolve Resolver) ([]string, error) {
	byPath := make(map[string]*ParsedModule, len(modules))
	for i := range modules {
		byPath[modules[i].Path] = &modules[i]
	}
	return computeOrder(entry, byPath, resolve)
}

// computeOrder performs the "dependency-ordering pass (an external
// collaborator)" spec §4.6 describes: a depth-first post-order walk from
// entry over every import/re-export edge, producing dependencies-first
// order and rejecting cycles. It generalizes the teacher's
// UnitRegistry.ComputeInitializationOrder (same DFS-with-on-stack-marking
// shape, built for DWScript `uses` clauses) to ES import/export edges.
func computeOrder(entry string, modules map[string]*ParsedModule, resolve Resolver) ([]string, error) {
	var order []string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	var visit func(path string) error
	visit = func(path string) error {
		if visited[path] {
			return nil
		}
		if onStack[path] {
			cycle := append(append([]string{}, stack...), path)
			return fmt.Errorf("import cycle detected: %s", strings.Join(cycle, " -> "))
		}
		pm, ok := modules[path]
		if !ok {
			return fmt.Errorf("module %q not found among parsed modules", path)
		}

		onStack[path] = true
		stack = append(stack, path)

		for _, dep := range importSources(pm.Program) {
			depPath, err := resolve(path, dep)
			if err != nil {
				return fmt.Errorf("module %q: cannot resolve %q: %w", path, dep, err)
			}
			if err := visit(depPath); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		onStack[path] = false
		visited[path] = true
		order = append(order, path)
		return nil
	}

	if err := visit(entry); err != nil {
		return nil, err
	}
	return order, nil
}

// importSources collects every specifier a module's top-level statements
// reference, in source order: `import ... from "x"`, `import n =
// require("x")`, and every re-export form (`export {a} from "x"`,
// `export * from "x"`, `export * as ns from "x"`). Dynamic `import()`
// expressions are deliberately not included — the spec scopes the
// dependency-ordering pass to statically-declared module edges, so a
// dynamic import resolves lazily through ev.ResolveModule at the call
// site instead of forcing its target into the static load order.
func importSources(prog *ast.Program) []string {
	var sources []string
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.ImportDecl:
			sources = append(sources, s.Source)
		case *ast.ImportRequireDecl:
			sources = append(sources, s.Source)
		case *ast.ExportDecl:
			if s.Source != "" {
				sources = append(sources, s.Source)
			}
		}
	}
	return sources
}
