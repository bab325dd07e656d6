package linker

import (
	"fmt"
	"os"
	"path/filepath"
)

// moduleExtensions mirrors the teacher's unit search trying .dws then
// .pas for a bare unit name (search.go's FindUnit) — here probing the TS
// source extension before the JS one, plus directory-style `./dir` ->
// `./dir/index.*` resolution Node's CommonJS/ESM loader both support.
var moduleExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// FileResolver builds a Resolver backed by the OS filesystem: relative
// specifiers ("./x", "../x") resolve against the importing file's
// directory and are extension-probed the same way the teacher's
// unit-search probed .dws/.pas; bare specifiers ("fs", "node:path")
// resolve against Roots in order, falling back to returning the bare
// name unchanged so a host-provided built-in module shell can still
// claim it (spec's built-in module shells are out of scope for this
// package, but a bare specifier must still resolve to *some* canonical
// string for the instance cache to key on).
type FileResolver struct {
	// Roots is searched, in order, for a bare (non-relative) specifier —
	// the ES-module analogue of the teacher's unit search paths.
	Roots []string
}

// NewFileResolver constructs a FileResolver; roots defaults to the
// current directory when empty, matching NewUnitRegistry's default.
func NewFileResolver(roots []string) *FileResolver {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	return &FileResolver{Roots: roots}
}

// Resolve implements Resolver.
func (r *FileResolver) Resolve(fromPath, specifier string) (string, error) {
	if isRelative(specifier) {
		dir := "."
		if fromPath != "" {
			dir = filepath.Dir(fromPath)
		}
		return r.probe(filepath.Join(dir, specifier))
	}
	for _, root := range r.Roots {
		if path, err := r.probe(filepath.Join(root, specifier)); err == nil {
			return path, nil
		}
	}
	// No file on disk claims this bare specifier; return it unresolved so
	// a built-in module shell (out of scope here) can still be looked up
	// by the exact string the script wrote.
	return specifier, nil
}

func isRelative(specifier string) bool {
	return len(specifier) > 0 && (specifier[0] == '.' || specifier[0] == '/')
}

// probe tries base as-is, then base+ext for each known extension, then
// base/index+ext, returning the first path that exists as a regular
// file — the same precedence Node's loader uses for extensionless
// specifiers.
func (r *FileResolver) probe(base string) (string, error) {
	if fileExists(base) {
		return filepath.Clean(base), nil
	}
	for _, ext := range moduleExtensions {
		if candidate := base + ext; fileExists(candidate) {
			return filepath.Clean(candidate), nil
		}
	}
	for _, ext := range moduleExtensions {
		if candidate := filepath.Join(base, "index"+ext); fileExists(candidate) {
			return filepath.Clean(candidate), nil
		}
	}
	return "", fmt.Errorf("module not found: %s", base)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
