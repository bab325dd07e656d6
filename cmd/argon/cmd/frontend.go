package cmd

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
)

// ParseFile turns script source text into an ast.Program. It is nil in
// this module: tokenizing/parsing TypeScript-like source is an external
// collaborator (spec.md's "Out of scope" list — the same boundary
// internal/linker documents for module loading, "the host/CLI supplies
// already-parsed modules"). A host that links an actual parser package
// sets this variable (e.g. in an init() of its own main package, or a
// build that imports this cmd package as a library) before calling
// Execute; run/check/ast/modules all go through it rather than assuming
// any particular tokenizer exists.
var ParseFile func(source, filename string) (*ast.Program, error)

// parseSource runs already-read source text (filename labels it) through
// ParseFile, producing one
// clear, actionable error when no frontend has been wired rather than a
// nil-pointer panic.
func parseSource(source, filename string) (*ast.Program, error) {
	if ParseFile == nil {
		return nil, fmt.Errorf("argon: no parser is linked into this build; cmd/argon/cmd.ParseFile must be set by the host before Execute() runs (parsing %s is outside this module's scope)", filename)
	}
	return ParseFile(source, filename)
}
