package runtime

import (
	"fmt"

	"github.com/cwbudde/argon/ast"
)

// FunctionValue is the runtime representation of Function/AsyncFunction/
// Generator/AsyncGenerator/ArrowFunction (spec §3.2). The concrete
// flavor is tagged by the IsArrow/Async/Generator flags rather than split
// into five Go types, since they share every field except evaluation
// strategy (decided in the evaluator by inspecting those flags).
type FunctionValue struct {
	Name      string
	Params    []ast.Param
	Body      *ast.Block
	ExprBody  ast.Expression // non-nil for arrow functions with an implicit-return body
	Closure   interface{}    // *env.Environment; interface{} avoids an import cycle
	IsArrow   bool
	Async     bool
	Generator bool
	// BoundThis is non-nil for arrow functions and .bind()-produced
	// functions, which lack their own `this` (spec §3.2).
	BoundThis Value
	// HomeObject is not set or read by the evaluator; `super` lookups do
	// not go through it.
	HomeObject Value
}

func (f *FunctionValue) Type() string { return "function" }
func (f *FunctionValue) String() string {
	if f.Name == "" {
		return "function () { [native code] }"
	}
	return "function " + f.Name + "() { [native code] }"
}

// Arity returns the count of non-rest, non-optional, non-defaulted
// parameters, matching `Function.prototype.length` (spec §3.2).
func (f *FunctionValue) Arity() int {
	n := 0
	for _, p := range f.Params {
		if p.Rest || p.Optional || p.Default != nil {
			break
		}
		n++
	}
	return n
}

// ClassMethod is one resolved method/accessor on a ClassValue's method
// table; Private methods are invisible outside brand-checked access from
// their declaring class (spec §3.2's Instance invariant).
type ClassMethod struct {
	Name      string
	Params    []ast.Param
	Body      *ast.Block
	Async     bool
	Generator bool
	Private   bool
}

// ClassValue is the runtime representation of a `class` declaration (spec
// §3.2). Static blocks execute in declaration order with `this` bound to
// the class itself; instance-field initializers are replayed on every
// `new` rather than executed once here.
type ClassValue struct {
	Name       string
	Super      *ClassValue
	Methods    map[string]*ClassMethod
	Statics    map[string]*ClassMethod
	Getters    map[string]*ClassMethod
	Setters    map[string]*ClassMethod
	// FieldInits preserves declaration order for per-instance replay.
	FieldInits []FieldInit
	StaticProps map[string]Value
	StaticOrder []string
	Closure    interface{} // *env.Environment the class was declared in
}

// FieldInit is one instance-field declaration (`name = expr;` or bare
// `name;`), replayed in order for every `new` (spec §4.2's Class rule).
type FieldInit struct {
	Name    string
	Private bool
	Init    ast.Expression
}

func (c *ClassValue) Type() string   { return "function" }
func (c *ClassValue) String() string { return "class " + c.Name + " { }" }

// Lookup walks the superclass chain to resolve an instance method,
// matching spec §4.2's instanceof/method-resolution description.
func (c *ClassValue) Lookup(name string) (*ClassMethod, *ClassValue) {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.Methods[name]; ok {
			return m, cls
		}
	}
	return nil, nil
}

func (c *ClassValue) LookupGetter(name string) (*ClassMethod, *ClassValue) {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.Getters[name]; ok {
			return m, cls
		}
	}
	return nil, nil
}

func (c *ClassValue) LookupSetter(name string) (*ClassMethod, *ClassValue) {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.Setters[name]; ok {
			return m, cls
		}
	}
	return nil, nil
}

// IsSubclassOf implements `instanceof`'s superclass-chain walk.
func (c *ClassValue) IsSubclassOf(target *ClassValue) bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls == target {
			return true
		}
	}
	return false
}

// InstanceValue is a class instance: a pointer to its class plus an own
// property bag and a private-field table keyed by declaring class
// identity so that `#name` access is brand-checked (spec §3.2).
type InstanceValue struct {
	Class        *ClassValue
	Props        map[string]Value
	PropOrder    []string
	PrivateProps map[*ClassValue]map[string]Value
	Flags        Flags
}

// NewInstance allocates an instance bag for cls with no properties set.
func NewInstance(cls *ClassValue) *InstanceValue {
	return &InstanceValue{
		Class:        cls,
		Props:        make(map[string]Value),
		PrivateProps: make(map[*ClassValue]map[string]Value),
	}
}

func (i *InstanceValue) Type() string   { return "object" }
func (i *InstanceValue) String() string { return "[object " + i.Class.Name + "]" }

func (i *InstanceValue) Get(name string) (Value, bool) {
	v, ok := i.Props[name]
	return v, ok
}

func (i *InstanceValue) Set(name string, value Value) error {
	if i.Flags.Frozen {
		return errTypeErrorf("cannot assign to read only property '%s' of object", name)
	}
	if _, exists := i.Props[name]; !exists {
		if i.Flags.Sealed {
			return nil
		}
		i.PropOrder = append(i.PropOrder, name)
	}
	i.Props[name] = value
	return nil
}

// GetPrivate brand-checks that declaringClass actually declared #name
// before returning it (spec §3.2/§4.2's private-access invariant).
func (i *InstanceValue) GetPrivate(declaringClass *ClassValue, name string) (Value, bool) {
	bag, ok := i.PrivateProps[declaringClass]
	if !ok {
		return Undefined, false
	}
	v, ok := bag[name]
	return v, ok
}

func (i *InstanceValue) SetPrivate(declaringClass *ClassValue, name string, value Value) {
	bag, ok := i.PrivateProps[declaringClass]
	if !ok {
		bag = make(map[string]Value)
		i.PrivateProps[declaringClass] = bag
	}
	bag[name] = value
}

func errTypeErrorf(format string, args ...interface{}) error {
	return &typeErrorString{msg: fmt.Sprintf(format, args...)}
}

type typeErrorString struct{ msg string }

func (e *typeErrorString) Error() string { return "TypeError: " + e.msg }
