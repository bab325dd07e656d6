package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/linker"
)

// fakeParse recognizes two fixed "source" strings written by the test
// fixtures below and returns the matching hand-built ast.Program,
// standing in for a linked frontend (see frontend.go) since this module
// ships no tokenizer/parser.
func fakeParse(source, filename string) (*ast.Program, error) {
	switch source {
	case "main\n":
		return &ast.Program{FileName: filename, Statements: []ast.Statement{
			&ast.ImportDecl{Source: "./util.js", Specifiers: []ast.ImportSpecifier{{Name: "helper"}}},
		}}, nil
	case "util\n":
		return &ast.Program{FileName: filename, Statements: []ast.Statement{
			&ast.ExportDecl{Decl: &ast.FunctionDecl{Name: "helper", Body: &ast.Block{}}},
		}}, nil
	}
	return &ast.Program{FileName: filename}, nil
}

func TestLoadModuleGraphDiscoversTransitiveImports(t *testing.T) {
	prevParse := ParseFile
	ParseFile = fakeParse
	defer func() { ParseFile = prevParse }()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte("main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.js"), []byte("util\n"), 0o644))

	resolve := linker.NewFileResolver([]string{dir})
	entry, modules, err := loadModuleGraph(filepath.Join(dir, "main.js"), resolve)
	require.NoError(t, err)
	require.Len(t, modules, 2)

	order, err := linker.ComputeOrder(entry, modules, resolve.Resolve)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "util.js"), order[0])
	require.Equal(t, entry, order[1])
}

func TestParseSourceErrorsWithoutLinkedFrontend(t *testing.T) {
	prevParse := ParseFile
	ParseFile = nil
	defer func() { ParseFile = prevParse }()

	_, err := parseSource("ignored", "script.js")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no parser is linked")
}
