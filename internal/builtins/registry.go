package builtins

import (
	"sync"

	"github.com/cwbudde/argon/internal/runtime"
)

// Registry is the per-type method table: one Registry instance per
// receiver type (Array, String, Map, Set, ...), grouping Register/Lookup
// the way the teacher's builtins.Registry groups free functions by
// category — except lookup here is case-sensitive (JS identifiers are
// case-sensitive, unlike DWScript's folded-case builtins) and keyed by a
// single method name rather than a category tag.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]*method
}

// NewRegistry creates an empty method table.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]*method)}
}

// Register adds name to the table, replacing any existing entry.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[name] = &method{name: name, fn: fn}
}

// Lookup finds name, returning a *method ready to use as a
// runtime.Value/evaluator.NativeCallable.
func (r *Registry) Lookup(name string) (*method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[name]
	return m, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.methods[name]
	return ok
}

// Names returns every registered method name (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.methods))
	for n := range r.methods {
		out = append(out, n)
	}
	return out
}

var (
	// ArrayMethods is Array.prototype's method table.
	ArrayMethods = NewRegistry()
	// StringMethods is String.prototype's method table.
	StringMethods = NewRegistry()
	// MapMethods is Map.prototype's method table.
	MapMethods = NewRegistry()
	// SetMethods is Set.prototype's method table.
	SetMethods = NewRegistry()
	// PromiseMethods is Promise.prototype's method table.
	PromiseMethods = NewRegistry()
	// ErrorMethods is Error.prototype's method table.
	ErrorMethods = NewRegistry()
	// GeneratorMethods is the %GeneratorPrototype% method table.
	GeneratorMethods = NewRegistry()
	// DateMethods is Date.prototype's method table.
	DateMethods = NewRegistry()
	// RegExpMethods is RegExp.prototype's method table.
	RegExpMethods = NewRegistry()
	// WeakMapMethods is WeakMap.prototype's method table.
	WeakMapMethods = NewRegistry()
	// WeakSetMethods is WeakSet.prototype's method table.
	WeakSetMethods = NewRegistry()
	// TypedArrayMethods is %TypedArray%.prototype's shared method table.
	TypedArrayMethods = NewRegistry()
)

// LookupMethod resolves name against the registry matching receiver's
// runtime type, returning nil when receiver has no built-in method table
// (plain Objects/Instances dispatch through the evaluator's own property
// lookup instead).
func LookupMethod(receiver runtime.Value, name string) (*method, bool) {
	reg := registryFor(receiver)
	if reg == nil {
		return nil, false
	}
	return reg.Lookup(name)
}
