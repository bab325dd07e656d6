package linker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/linker"
)

func TestComputeOrderPutsDependenciesFirst(t *testing.T) {
	a := linker.ParsedModule{Path: "a.js", Program: &ast.Program{FileName: "a.js", Statements: []ast.Statement{
		&ast.ImportDecl{Source: "./b.js", Specifiers: []ast.ImportSpecifier{{Name: "x"}}},
	}}}
	b := linker.ParsedModule{Path: "b.js", Program: &ast.Program{FileName: "b.js"}}

	order, err := linker.ComputeOrder("a.js", []linker.ParsedModule{a, b}, testResolver)
	require.NoError(t, err)
	require.Equal(t, []string{"b.js", "a.js"}, order)
}

func TestComputeOrderRejectsMissingModule(t *testing.T) {
	a := linker.ParsedModule{Path: "a.js", Program: &ast.Program{FileName: "a.js", Statements: []ast.Statement{
		&ast.ImportDecl{Source: "./missing.js", Specifiers: []ast.ImportSpecifier{{Name: "x"}}},
	}}}
	resolve := func(fromPath, specifier string) (string, error) { return "missing.js", nil }

	_, err := linker.ComputeOrder("a.js", []linker.ParsedModule{a}, resolve)
	require.Error(t, err)
}
