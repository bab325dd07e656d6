// Package env implements the lexical environment / scope chain (spec
// §4.1, component C3). Unlike the teacher's case-insensitive ident.Map
// store (DWScript folds identifier case), JS is case-sensitive, so
// bindings here live in a plain Go map keyed by the exact identifier.
package env

import (
	"fmt"

	"github.com/cwbudde/argon/internal/runtime"
)

// binding pairs a value with the read-only flag markReadOnly sets.
type binding struct {
	value    runtime.Value
	readOnly bool
}

// Environment is one link of the parent-linked scope chain (spec §3.3): a
// child owns its own bindings but only references its parent.
type Environment struct {
	store  map[string]*binding
	outer  *Environment
	strict bool

	// namespaces holds namespace bindings separately from ordinary
	// variables; re-declaring the same name additively merges members
	// into the existing *runtime.NamespaceValue (spec §4.1).
	namespaces map[string]*runtime.NamespaceValue

	// disposers records `using`/`await using` bindings declared directly in
	// this scope, in declaration order, so the block that owns this scope
	// can dispose them in reverse order on exit (spec §4.1's Using rule).
	disposers []Disposer
}

// Disposer names a `using`-declared binding awaiting disposal when its
// owning block exits.
type Disposer struct {
	Name  string
	Await bool
}

// AddDisposer records a using/await-using declaration for later cleanup.
func (e *Environment) AddDisposer(name string, await bool) {
	e.disposers = append(e.disposers, Disposer{Name: name, Await: await})
}

// Disposers returns this scope's using-declarations in declaration order.
func (e *Environment) Disposers() []Disposer { return e.disposers }

// New creates a root environment (the global/module scope) with no outer
// link. strict sets the inherited strict-mode flag for this scope and
// everything nested under it unless overridden.
func New(strict bool) *Environment {
	return &Environment{store: make(map[string]*binding), strict: strict}
}

// NewEnclosed creates a scope nested inside outer, inheriting its
// strict-mode flag unless SetStrict is called afterward.
func NewEnclosed(outer *Environment) *Environment {
	strict := false
	if outer != nil {
		strict = outer.strict
	}
	return &Environment{store: make(map[string]*binding), outer: outer, strict: strict}
}

// SetStrict overrides the inherited strict-mode flag for this scope (used
// when entering a `"use strict";`-directive-prefixed function body).
func (e *Environment) SetStrict(strict bool) { e.strict = strict }

// Strict reports whether this scope runs in strict mode.
func (e *Environment) Strict() bool { return e.strict }

// Outer returns the parent scope, or nil at the root.
func (e *Environment) Outer() *Environment { return e.outer }

// Define creates a binding in the current scope, overwriting any existing
// binding of the same name in this scope only (shadowing an outer binding
// is intentional, not an error).
func (e *Environment) Define(name string, val runtime.Value) {
	e.store[name] = &binding{value: val}
}

// MarkReadOnly flags an existing binding in the current scope as
// immutable; subsequent Assign calls against it fail in strict mode and
// silently no-op otherwise (spec §4.1).
func (e *Environment) MarkReadOnly(name string) {
	if b, ok := e.store[name]; ok {
		b.readOnly = true
	}
}

// Lookup walks the scope chain outward and returns the nearest bound
// value, or ok=false if name is unbound anywhere in the chain.
func (e *Environment) Lookup(name string) (runtime.Value, bool) {
	for scope := e; scope != nil; scope = scope.outer {
		if b, ok := scope.store[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// Assign walks up the chain and mutates the nearest binding, failing with
// a ReferenceError-shaped error if none exists. A read-only binding fails
// in strict mode and silently no-ops in sloppy mode (spec §4.1).
func (e *Environment) Assign(name string, val runtime.Value) error {
	for scope := e; scope != nil; scope = scope.outer {
		if b, ok := scope.store[name]; ok {
			if b.readOnly {
				if scope.strict {
					return fmt.Errorf("TypeError: Assignment to constant variable.")
				}
				return nil
			}
			b.value = val
			return nil
		}
	}
	return fmt.Errorf("ReferenceError: %s is not defined", name)
}

// GetAt performs resolver-directed O(depth) access: depth is the number of
// parent hops from the current scope, computed ahead of time by an
// external resolver pass over the AST (spec §4.1). It never falls back
// to a chain walk past depth: if the scope at depth does not exist or has
// no binding for name, it returns ok=false.
func (e *Environment) GetAt(depth int, name string) (runtime.Value, bool) {
	scope := e.ancestor(depth)
	if scope == nil {
		return nil, false
	}
	b, ok := scope.store[name]
	if !ok {
		return nil, false
	}
	return b.value, true
}

// AssignAt is GetAt's write counterpart.
func (e *Environment) AssignAt(depth int, name string, val runtime.Value) error {
	scope := e.ancestor(depth)
	if scope == nil {
		return fmt.Errorf("ReferenceError: %s is not defined", name)
	}
	b, ok := scope.store[name]
	if !ok {
		return fmt.Errorf("ReferenceError: %s is not defined", name)
	}
	if b.readOnly {
		if scope.strict {
			return fmt.Errorf("TypeError: Assignment to constant variable.")
		}
		return nil
	}
	b.value = val
	return nil
}

func (e *Environment) ancestor(depth int) *Environment {
	scope := e
	for i := 0; i < depth && scope != nil; i++ {
		scope = scope.outer
	}
	return scope
}

// Has reports whether name is bound anywhere in the chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

// HasLocal reports whether name is bound in this scope only.
func (e *Environment) HasLocal(name string) bool {
	_, ok := e.store[name]
	return ok
}

// DefineNamespace binds or additively merges a namespace under name in
// the current scope, matching repeated `namespace Foo { ... }`
// declarations into a single runtime.NamespaceValue (spec §4.1/§3.2).
func (e *Environment) DefineNamespace(name string) *runtime.NamespaceValue {
	if e.namespaces == nil {
		e.namespaces = make(map[string]*runtime.NamespaceValue)
	}
	if ns, ok := e.namespaces[name]; ok {
		return ns
	}
	ns := runtime.NewNamespace(name)
	e.namespaces[name] = ns
	e.Define(name, ns)
	return ns
}

// LookupNamespace returns the namespace bound to name in this scope or
// the nearest enclosing one, if any (namespaces are looked up by walking the chain the same as Lookup,
// but only through the namespace tables that DefineNamespace fills).
func (e *Environment) LookupNamespace(name string) (*runtime.NamespaceValue, bool) {
	for scope := e; scope != nil; scope = scope.outer {
		if ns, ok := scope.namespaces[name]; ok {
			return ns, true
		}
	}
	return nil, false
}

// Range iterates over bindings in this scope only, used by module
// namespace-view construction (binding every export into an object) and
// by debugging/introspection tooling.
func (e *Environment) Range(f func(name string, value runtime.Value) bool) {
	for name, b := range e.store {
		if !f(name, b.value) {
			return
		}
	}
}
