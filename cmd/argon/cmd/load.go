package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/linker"
)

// loadModuleGraph parses entryPath and every module it transitively
// imports, resolving each specifier through resolve, and returns the
// resulting set of linker.ParsedModule values plus entryPath's own
// canonical path — the input linker.Load expects (spec §4.6's "list of
// parsed modules in dependency order" — order itself is computed by
// linker.Load, this pass only discovers the transitive closure).
// Mirrors the teacher's run.go extractUsedUnits + per-unit LoadUnit loop,
// generalized from `uses` clauses to import/export-from specifiers.
func loadModuleGraph(entryPath string, resolve *linker.FileResolver) (string, []linker.ParsedModule, error) {
	entryCanonical, err := resolve.Resolve("", entryPath)
	if err != nil {
		entryCanonical = entryPath
	}

	modules := make(map[string]linker.ParsedModule)
	var queue []string
	queue = append(queue, entryCanonical)
	seen := map[string]bool{entryCanonical: true}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		prog, err := parseModuleFile(path)
		if err != nil {
			return "", nil, err
		}
		modules[path] = linker.ParsedModule{Path: path, Program: prog}

		for _, spec := range importSpecifiers(prog) {
			dep, err := resolve.Resolve(path, spec)
			if err != nil {
				return "", nil, fmt.Errorf("%s: cannot resolve %q: %w", path, spec, err)
			}
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	out := make([]linker.ParsedModule, 0, len(modules))
	for _, m := range modules {
		out = append(out, m)
	}
	return entryCanonical, out, nil
}

func parseModuleFile(path string) (*ast.Program, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %q: %w", path, err)
	}
	prog, err := parseSource(string(content), path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse module %q: %w", path, err)
	}
	return prog, nil
}

// importSpecifiers collects every static import/re-export source a
// program's top-level statements name, the same set internal/linker's
// unexported importSources walks for dependency ordering — duplicated
// here (rather than exported from linker) since this pass additionally
// needs to *read files off disk*, a concern the linker package itself
// deliberately has no opinion on.
func importSpecifiers(prog *ast.Program) []string {
	var specs []string
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.ImportDecl:
			specs = append(specs, s.Source)
		case *ast.ImportRequireDecl:
			specs = append(specs, s.Source)
		case *ast.ExportDecl:
			if s.Source != "" {
				specs = append(specs, s.Source)
			}
		}
	}
	return specs
}
