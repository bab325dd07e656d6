package builtins

import (
	"github.com/cwbudde/argon/internal/env"
	"github.com/cwbudde/argon/internal/runtime"
)

// globalThisValue exposes the top-level Environment as a property bag so
// script code can read `globalThis.Array`, `globalThis.NaN`, etc. (spec
// §3.2's global object). Writes go through Environment.Assign directly,
// not through this type, since globalThis is wired into getProperty via
// propertyBag.Get only.
type globalThisValue struct {
	globals *env.Environment
}

func (g *globalThisValue) Type() string   { return "object" }
func (g *globalThisValue) String() string { return "[object global]" }

func (g *globalThisValue) Get(name string) (runtime.Value, bool) {
	return g.globals.Lookup(name)
}

// installGlobalThis defines `globalThis` last so its own binding (and
// every constructor/namespace Install already defined) is visible through
// it immediately.
func installGlobalThis(globals *env.Environment) {
	self := &globalThisValue{globals: globals}
	globals.Define("globalThis", self)
	globals.MarkReadOnly("globalThis")
}
