// Package linker implements the module DAG loader (spec §4.6, component
// C8), generalizing the teacher's unit_loader.go/units.UnitRegistry — a
// case-insensitive "uses" clause resolver with topological init ordering
// — to ES module import/export binding. Parsing source text into an
// ast.Program stays out of scope (the host/CLI supplies already-parsed
// modules, the same way the teacher's registry was handed already-parsed
// *units.Unit values by its caller); this package only orders modules,
// executes each exactly once in its own Environment, and binds imports to
// the exports of modules that already ran.
package linker

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/evaluator"
	"github.com/cwbudde/argon/internal/runtime"
)

// ParsedModule is one already-parsed source file, keyed by its canonical
// (resolver-produced) path — the identity every other module's import
// statements refer to after resolution.
type ParsedModule struct {
	Path    string
	Program *ast.Program
}

// Resolver maps an import specifier written inside fromPath to the
// canonical path of the module it names (spec §4.6's "resolver that maps
// source import paths to canonical paths"). A relative specifier
// ("./util") resolves against fromPath's directory; a bare specifier
// ("fs") resolves per the host's own module-resolution policy (built-in
// shell, node_modules, etc.) — both are the caller's concern, not this
// package's.
type Resolver func(fromPath, specifier string) (string, error)

// ModuleInstance is one executed module: its own Environment (so
// top-level `let`/`const`/`function` bindings don't leak between
// modules, unlike scripts sharing one environment) plus its export
// surface (spec §4.6's Exports paragraph).
type ModuleInstance struct {
	Path      string
	Env       *env.Environment
	Namespace *runtime.NamespaceValue

	HasDefault bool
	Default    runtime.Value

	// HasExportAssignment/ExportAssignment back CommonJS-interop
	// `export = value`; when present, `import x = require(path)` binds to
	// this instead of the namespace view (spec §4.6).
	HasExportAssignment bool
	ExportAssignment    runtime.Value

	executed bool
}

// Linker owns the set of parsed modules reachable from one entry point,
// executes them in dependency order, and serves as the evaluator's
// ResolveModule hook once wired.
type Linker struct {
	ev       *evaluator.Evaluator
	resolve  Resolver
	modules  map[string]*ParsedModule
	instances map[string]*ModuleInstance

	// currentPath is the canonical path of the module whose top-level
	// statements are executing right now. Module loading is strictly
	// sequential — Load executes one module fully (including every
	// import statement it contains) before moving to the next in
	// dependency order — so a single mutable field here is safe despite
	// Evaluator itself holding no per-call state for its coroutine paths;
	// it tracks the Linker's own execution, not the Evaluator's.
	currentPath string
}

// New constructs a Linker and wires ev.ResolveModule to it. ev must not
// already have a dynamic-import resolver installed by another Linker.
func New(ev *evaluator.Evaluator, resolve Resolver) *Linker {
	l := &Linker{
		ev:        ev,
		resolve:   resolve,
		modules:   make(map[string]*ParsedModule),
		instances: make(map[string]*ModuleInstance),
	}
	ev.ResolveModule = l.resolveForEvaluator
	return l
}

// resolveForEvaluator backs ev.ResolveModule (spec §4.6's binding step):
// specifier is resolved relative to whichever module is currently
// executing, then looked up among already-executed instances. A module
// not yet executed (forward reference outside the computed DAG order, or
// a genuine cycle the ordering pass missed) is refused per spec.
func (l *Linker) resolveForEvaluator(specifier string) (*runtime.NamespaceValue, error) {
	path, err := l.resolve(l.currentPath, specifier)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %q from %q: %w", specifier, l.currentPath, err)
	}
	inst, ok := l.instances[path]
	if !ok || !inst.executed {
		return nil, fmt.Errorf("module %q is not yet executed (not in dependency order, or part of an import cycle)", path)
	}
	return inst.Namespace, nil
}

// Load executes entry and every module it transitively imports, in
// dependency order (dependencies first), and returns entry's instance.
// modules must include entry and the full transitive closure the
// resolver will ask for; a specifier this pass cannot resolve within
// that closure is an error, matching the spec's "must already be
// executed — guaranteed by topological order" invariant.
func (l *Linker) Load(ctx evaluator.EvaluationContext, entry string, modules []ParsedModule) (*ModuleInstance, error) {
	for _, m := range modules {
		l.modules[m.Path] = &ParsedModule{Path: m.Path, Program: m.Program}
	}
	if _, ok := l.modules[entry]; !ok {
		return nil, fmt.Errorf("entry module %q not found among parsed modules", entry)
	}

	order, err := computeOrder(entry, l.modules, l.resolve)
	if err != nil {
		return nil, err
	}

	for _, path := range order {
		if _, done := l.instances[path]; done {
			continue
		}
		inst, err := l.execute(ctx, l.modules[path])
		if err != nil {
			return nil, err
		}
		l.instances[path] = inst
	}

	return l.instances[entry], nil
}

// execute runs one module's top-level statements in order, in a fresh
// Environment chained to the Evaluator's globals (so a module never
// leaks bindings into another the way a shared script environment
// would). `export` statements are intercepted here rather than run
// through the ordinary statement dispatch, so a bare `export default
// expr` / `export = expr`'s value can be captured directly instead of
// evaluated once by the evaluator and thrown away (spec §4.6's export
// bookkeeping is explicitly the linker's job, not the evaluator's).
func (l *Linker) execute(ctx evaluator.EvaluationContext, pm *ParsedModule) (*ModuleInstance, error) {
	prevPath := l.currentPath
	l.currentPath = pm.Path
	defer func() { l.currentPath = prevPath }()

	scope := env.NewEnclosed(l.ev.Globals)
	inst := &ModuleInstance{Path: pm.Path, Env: scope, Namespace: runtime.NewNamespace(pm.Path)}

	evaluator.HoistFunctionDeclarations(scope, pm.Program.Statements)

	for _, stmt := range pm.Program.Statements {
		if exp, ok := stmt.(*ast.ExportDecl); ok {
			if err := l.execExport(ctx, scope, inst, exp); err != nil {
				return nil, fmt.Errorf("module %q: %w", pm.Path, err)
			}
			continue
		}
		result := l.ev.Exec(ctx, scope, stmt)
		if result.IsAbrupt() {
			return nil, fmt.Errorf("uncaught exception evaluating module %q: %s", pm.Path, describeAbrupt(result))
		}
	}

	inst.executed = true
	return inst, nil
}

func describeAbrupt(r evaluator.Result) string {
	if r.Value != nil {
		return r.Value.String()
	}
	return r.Kind.String()
}

func describeEvalErr(err error) error {
	if v, ok := evaluator.ThrownValue(err); ok {
		return fmt.Errorf("uncaught exception: %s", v.String())
	}
	return err
}

// execExport runs one top-level `export` statement and records whatever
// it binds into inst (spec §4.6's Exports paragraph, every ExportDecl
// shape: wrapped declaration, `export default`, `export = `, local named
// re-export list, and from-another-module re-exports).
func (l *Linker) execExport(ctx evaluator.EvaluationContext, scope *env.Environment, inst *ModuleInstance, e *ast.ExportDecl) error {
	switch {
	case e.CommonJSExp != nil:
		v, err := l.ev.Eval(ctx, scope, e.CommonJSExp)
		if err != nil {
			return describeEvalErr(err)
		}
		inst.HasExportAssignment = true
		inst.ExportAssignment = v
		// Merged under a sentinel key rather than just tracked on
		// ModuleInstance so `import x = require('p')`, which only ever
		// sees the *runtime.NamespaceValue ev.ResolveModule returns, can
		// still recover it (spec §4.6: "consults that slot if present,
		// else the namespace view").
		inst.Namespace.Merge(runtime.CommonJSExportKey, v)
		return nil

	case e.Decl != nil:
		result := l.ev.Exec(ctx, scope, e.Decl)
		if result.IsAbrupt() {
			return fmt.Errorf("uncaught exception: %s", describeAbrupt(result))
		}
		return bindDeclExports(inst, scope, e.Decl)

	case e.Default != nil:
		v, err := l.ev.Eval(ctx, scope, e.Default)
		if err != nil {
			return describeEvalErr(err)
		}
		inst.HasDefault = true
		inst.Default = v
		inst.Namespace.Merge("default", v)
		return nil

	case e.Star:
		return l.bindStarReexport(inst, e)

	case e.StarAs != "":
		return l.bindStarAsReexport(inst, e)

	case len(e.Specifiers) > 0 && e.Source != "":
		return l.bindReexportSpecifiers(inst, e)

	case len(e.Specifiers) > 0:
		for _, spec := range e.Specifiers {
			v, ok := scope.Lookup(spec.Name)
			if !ok {
				return fmt.Errorf("export '%s' not found", spec.Name)
			}
			name := spec.Alias
			if name == "" {
				name = spec.Name
			}
			inst.Namespace.Merge(name, v)
			if name == "default" {
				inst.HasDefault = true
				inst.Default = v
			}
		}
		return nil
	}
	return nil
}

// sourceInstance resolves a re-export's `from "source"` clause to the
// already-executed instance it names; dependency order guarantees it
// exists by the time this module's export statements run.
func (l *Linker) sourceInstance(source string) (*ModuleInstance, error) {
	path, err := l.resolve(l.currentPath, source)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve re-export source %q: %w", source, err)
	}
	src, ok := l.instances[path]
	if !ok || !src.executed {
		return nil, fmt.Errorf("re-export source %q is not yet executed", source)
	}
	return src, nil
}

func (l *Linker) bindStarReexport(inst *ModuleInstance, e *ast.ExportDecl) error {
	src, err := l.sourceInstance(e.Source)
	if err != nil {
		return err
	}
	for _, name := range src.Namespace.Order {
		if name == "default" {
			continue // `export *` never forwards a default export
		}
		inst.Namespace.Merge(name, src.Namespace.Members[name])
	}
	return nil
}

func (l *Linker) bindStarAsReexport(inst *ModuleInstance, e *ast.ExportDecl) error {
	src, err := l.sourceInstance(e.Source)
	if err != nil {
		return err
	}
	inst.Namespace.Merge(e.StarAs, src.Namespace)
	return nil
}

func (l *Linker) bindReexportSpecifiers(inst *ModuleInstance, e *ast.ExportDecl) error {
	src, err := l.sourceInstance(e.Source)
	if err != nil {
		return err
	}
	for _, spec := range e.Specifiers {
		v, ok := src.Namespace.Members[spec.Name]
		if !ok {
			return fmt.Errorf("'%s' is not exported by %q", spec.Name, e.Source)
		}
		name := spec.Alias
		if name == "" {
			name = spec.Name
		}
		inst.Namespace.Merge(name, v)
	}
	return nil
}

// bindDeclExports extracts the name(s) a wrapped declaration bound into
// scope and merges them into the module's namespace. Type-only
// declarations (interface/type alias) bind nothing at runtime and are
// skipped, matching execExportDecl's no-op handling of them.
func bindDeclExports(inst *ModuleInstance, scope *env.Environment, decl ast.Statement) error {
	names := declaredNames(decl)
	for _, name := range names {
		v, ok := scope.Lookup(name)
		if !ok {
			return fmt.Errorf("exported declaration '%s' produced no binding", name)
		}
		inst.Namespace.Merge(name, v)
	}
	return nil
}

func declaredNames(decl ast.Statement) []string {
	switch d := decl.(type) {
	case *ast.FunctionDecl:
		return []string{d.Name}
	case *ast.ClassDecl:
		return []string{d.Name}
	case *ast.NamespaceDecl:
		return []string{d.Name}
	case *ast.EnumDecl:
		return []string{d.Name}
	case *ast.VarDecl:
		var names []string
		for _, declarator := range d.Declarators {
			if declarator.Name != "" {
				names = append(names, declarator.Name)
			}
		}
		return names
	default:
		// InterfaceDecl/TypeAliasDecl/DeclareStmt: type-level only, no
		// runtime binding to export.
		return nil
	}
}
