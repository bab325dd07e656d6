package runtime

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

var binaryLE = binary.LittleEndian

// Flags are the mutation-control bits every heap object carries (spec
// §3.2): frozen forbids all mutation, sealed forbids structural add/remove
// but still allows existing-value mutation.
type Flags struct {
	Frozen bool
	Sealed bool
}

// CheckMutate returns a TypeError-shaped error if op is forbidden by the
// current flags; callers that should silently no-op instead of throwing
// (e.g. `delete` on a frozen object) check Frozen/Sealed directly instead
// of calling this helper.
func (f *Flags) CheckMutate(op string) error {
	if f.Frozen {
		return fmt.Errorf("TypeError: cannot %s a frozen object", op)
	}
	return nil
}

// ArrayValue is an ordered, dense sequence of Values (spec §3.2's Array).
type ArrayValue struct {
	Elements []Value
	Flags    Flags
}

// NewArray constructs an array from the given elements (not copied).
func NewArray(elements []Value) *ArrayValue {
	return &ArrayValue{Elements: elements}
}

func (a *ArrayValue) Type() string { return "object" }
func (a *ArrayValue) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if _, ok := e.(*UndefinedValue); ok {
			parts[i] = ""
			continue
		}
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

func (a *ArrayValue) Length() int64 { return int64(len(a.Elements)) }

func (a *ArrayValue) GetIndex(index int64) (Value, bool) {
	if index < 0 || index >= int64(len(a.Elements)) {
		return Undefined, false
	}
	v := a.Elements[index]
	if v == nil {
		return Undefined, true
	}
	return v, true
}

func (a *ArrayValue) SetIndex(index int64, value Value) error {
	if a.Flags.Frozen {
		return fmt.Errorf("TypeError: cannot assign to read only property '%d' of object", index)
	}
	if index < 0 {
		return fmt.Errorf("RangeError: invalid array index %d", index)
	}
	if index >= int64(len(a.Elements)) {
		if a.Flags.Sealed {
			return nil
		}
		grown := make([]Value, index+1)
		copy(grown, a.Elements)
		for i := len(a.Elements); i < len(grown); i++ {
			grown[i] = Undefined
		}
		a.Elements = grown
	}
	a.Elements[index] = value
	return nil
}

// ObjectValue is an insertion-ordered String→Value mapping (spec §3.2's
// Object). Keys is the authoritative iteration order; Props is keyed
// storage for O(1) lookup.
type ObjectValue struct {
	Keys  []string
	Props map[string]Value
	// Raw holds the raw (unescaped) template parts for a tagged-template
	// cooked-array argument; nil for ordinary objects (spec §4.2).
	Raw   []string
	Flags Flags
}

// NewObject constructs an empty object.
func NewObject() *ObjectValue {
	return &ObjectValue{Props: make(map[string]Value)}
}

func (o *ObjectValue) Type() string { return "object" }
func (o *ObjectValue) String() string { return "[object Object]" }

// Get returns the value bound to key, or (Undefined, false) if absent.
func (o *ObjectValue) Get(key string) (Value, bool) {
	v, ok := o.Props[key]
	if !ok {
		return Undefined, false
	}
	return v, true
}

// Set defines or overwrites key, appending to Keys only on first insertion
// so iteration order matches ES2015+ own-property-key ordering.
func (o *ObjectValue) Set(key string, value Value) error {
	if o.Flags.Frozen {
		return fmt.Errorf("TypeError: cannot assign to read only property '%s' of object", key)
	}
	if _, exists := o.Props[key]; !exists {
		if o.Flags.Sealed {
			return nil
		}
		o.Keys = append(o.Keys, key)
	}
	o.Props[key] = value
	return nil
}

// Delete removes key. Returns false (no-op) when frozen or sealed, true
// otherwise, matching spec §4.2's `delete` contract.
func (o *ObjectValue) Delete(key string) bool {
	if o.Flags.Frozen || o.Flags.Sealed {
		return false
	}
	if _, ok := o.Props[key]; !ok {
		return true
	}
	delete(o.Props, key)
	for i, k := range o.Keys {
		if k == key {
			o.Keys = append(o.Keys[:i], o.Keys[i+1:]...)
			break
		}
	}
	return true
}

// mapKey canonicalizes a Value into a comparable Go map key: primitives
// compare by value, everything else (heap references) by pointer identity
// (the pointer itself is the key), matching the "reference equality for non-primitive keys"
// rule (spec §3.2).
func mapKey(v Value) interface{} {
	switch p := v.(type) {
	case *UndefinedValue:
		return "u"
	case *NullValue:
		return "n"
	case *BooleanValue:
		return p.Value
	case *NumberValue:
		return p.Value
	case *StringValue:
		return "s:" + p.Value
	case *BigIntValue:
		return "b:" + p.Str
	default:
		return p
	}
}

// MapEntry preserves insertion order alongside the Go map used for O(1)
// lookup.
type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue is the JS Map built-in's backing store (spec §3.2).
type MapValue struct {
	order   []interface{}
	entries map[interface{}]*MapEntry
	Flags   Flags
}

func NewMap() *MapValue {
	return &MapValue{entries: make(map[interface{}]*MapEntry)}
}

func (m *MapValue) Type() string   { return "object" }
func (m *MapValue) String() string { return "[object Map]" }

func (m *MapValue) Get(key Value) (Value, bool) {
	if e, ok := m.entries[mapKey(key)]; ok {
		return e.Value, true
	}
	return Undefined, false
}

func (m *MapValue) Set(key, value Value) {
	k := mapKey(key)
	if e, ok := m.entries[k]; ok {
		e.Value = value
		return
	}
	m.order = append(m.order, k)
	m.entries[k] = &MapEntry{Key: key, Value: value}
}

func (m *MapValue) Has(key Value) bool {
	_, ok := m.entries[mapKey(key)]
	return ok
}

func (m *MapValue) Delete(key Value) bool {
	k := mapKey(key)
	if _, ok := m.entries[k]; !ok {
		return false
	}
	delete(m.entries, k)
	for i, ok := range m.order {
		if ok == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *MapValue) Size() int { return len(m.order) }

// Entries returns entries in insertion order.
func (m *MapValue) Entries() []*MapEntry {
	out := make([]*MapEntry, len(m.order))
	for i, k := range m.order {
		out[i] = m.entries[k]
	}
	return out
}

func (m *MapValue) Clear() { m.order = nil; m.entries = make(map[interface{}]*MapEntry) }

// SetValue is the JS Set built-in's backing store (spec §3.2).
type SetValue struct {
	order   []interface{}
	members map[interface{}]Value
	Flags   Flags
}

func NewSet() *SetValue {
	return &SetValue{members: make(map[interface{}]Value)}
}

func (s *SetValue) Type() string   { return "object" }
func (s *SetValue) String() string { return "[object Set]" }

func (s *SetValue) Add(v Value) {
	k := mapKey(v)
	if _, ok := s.members[k]; ok {
		return
	}
	s.order = append(s.order, k)
	s.members[k] = v
}

func (s *SetValue) Has(v Value) bool {
	_, ok := s.members[mapKey(v)]
	return ok
}

func (s *SetValue) Delete(v Value) bool {
	k := mapKey(v)
	if _, ok := s.members[k]; !ok {
		return false
	}
	delete(s.members, k)
	for i, ok := range s.order {
		if ok == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *SetValue) Size() int { return len(s.order) }

func (s *SetValue) Values() []Value {
	out := make([]Value, len(s.order))
	for i, k := range s.order {
		out[i] = s.members[k]
	}
	return out
}

func (s *SetValue) Clear() { s.order = nil; s.members = make(map[interface{}]Value) }

// WeakMapValue is a key-weak associative structure: no iteration, no size
// (spec §3.2). Go's GC cannot observe JS-level reachability, so entries
// are retained for the process lifetime like the teacher's refcounted
// objects; the API surface still forbids iteration/size to preserve
// program-visible semantics.
type WeakMapValue struct {
	entries map[Value]Value
}

func NewWeakMap() *WeakMapValue { return &WeakMapValue{entries: make(map[Value]Value)} }

func (w *WeakMapValue) Type() string   { return "object" }
func (w *WeakMapValue) String() string { return "[object WeakMap]" }
func (w *WeakMapValue) Get(key Value) (Value, bool) {
	v, ok := w.entries[key]
	return v, ok
}
func (w *WeakMapValue) Set(key, value Value) { w.entries[key] = value }
func (w *WeakMapValue) Has(key Value) bool   { _, ok := w.entries[key]; return ok }
func (w *WeakMapValue) Delete(key Value) bool {
	if _, ok := w.entries[key]; !ok {
		return false
	}
	delete(w.entries, key)
	return true
}

// WeakSetValue mirrors WeakMapValue for set membership.
type WeakSetValue struct {
	members map[Value]struct{}
}

func NewWeakSet() *WeakSetValue { return &WeakSetValue{members: make(map[Value]struct{})} }

func (w *WeakSetValue) Type() string   { return "object" }
func (w *WeakSetValue) String() string { return "[object WeakSet]" }
func (w *WeakSetValue) Add(v Value)    { w.members[v] = struct{}{} }
func (w *WeakSetValue) Has(v Value) bool {
	_, ok := w.members[v]
	return ok
}
func (w *WeakSetValue) Delete(v Value) bool {
	if _, ok := w.members[v]; !ok {
		return false
	}
	delete(w.members, v)
	return true
}

// RegExpValue wraps a compiled pattern (the concrete matcher lives behind
// an interface{} populated by the regexp2-backed builtin layer, keeping
// this package free of a direct dlclark/regexp2 import).
type RegExpValue struct {
	Source    string
	Flags     string
	Matcher   interface{} // *regexp2.Regexp
	LastIndex int64       // the only writable property (spec §3.2)
}

func (r *RegExpValue) Type() string   { return "object" }
func (r *RegExpValue) String() string { return "/" + r.Source + "/" + r.Flags }

// DateValue wraps an opaque millisecond timestamp since epoch.
type DateValue struct {
	EpochMillis float64
}

func (d *DateValue) Type() string   { return "object" }
func (d *DateValue) String() string { return fmt.Sprintf("%v", d.EpochMillis) }

// ErrorKind enumerates the built-in error constructors (spec §3.2).
type ErrorKind int

const (
	ErrGeneric ErrorKind = iota
	ErrType
	ErrRange
	ErrReference
	ErrSyntax
	ErrURI
	ErrEval
	ErrAggregate
)

func (k ErrorKind) Name() string {
	switch k {
	case ErrType:
		return "TypeError"
	case ErrRange:
		return "RangeError"
	case ErrReference:
		return "ReferenceError"
	case ErrSyntax:
		return "SyntaxError"
	case ErrURI:
		return "URIError"
	case ErrEval:
		return "EvalError"
	case ErrAggregate:
		return "AggregateError"
	default:
		return "Error"
	}
}

// ErrorValue is the runtime representation of any throwable carrying a
// captured stack (spec §3.2).
type ErrorValue struct {
	Kind    ErrorKind
	Name    string // overridable by user subclasses; defaults to Kind.Name()
	Message string
	Stack   string
	Errors  []Value // populated only for AggregateError
}

func (e *ErrorValue) Type() string { return "object" }
func (e *ErrorValue) String() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

// PromiseState is the three-state lifecycle of a Promise.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// PromiseValue wraps an async computation (spec §3.2). Resolving with a
// Promise must collapse to the inner value rather than double-wrapping;
// that unwrap happens at Resolve call sites in the evaluator, not here.
type PromiseValue struct {
	State      PromiseState
	Result     Value
	OnFulfill  []func(Value)
	OnReject   []func(Value)
	handled    bool
}

func NewPendingPromise() *PromiseValue { return &PromiseValue{State: PromisePending} }

func (p *PromiseValue) Type() string   { return "object" }
func (p *PromiseValue) String() string { return "[object Promise]" }

// TypedArrayValue is a fixed-size, typed, zero-initialized buffer view
// (spec §3.2). ElementKind is one of "int8"/"uint8"/"uint8clamped"/
// "int16"/"uint16"/"int32"/"uint32"/"float32"/"float64"/"bigint64"/
// "biguint64", fixed at construction.
type TypedArrayValue struct {
	ElementKind string
	Buffer      []byte
	Count       int64 // element count, not byte count
}

func (t *TypedArrayValue) Type() string   { return "object" }
func (t *TypedArrayValue) String() string { return "[object " + t.ElementKind + "Array]" }

// elementSize returns the byte width of one element for ElementKind.
func (t *TypedArrayValue) elementSize() int {
	switch t.ElementKind {
	case "int8", "uint8", "uint8clamped":
		return 1
	case "int16", "uint16":
		return 2
	case "int32", "uint32", "float32":
		return 4
	case "float64", "bigint64", "biguint64":
		return 8
	default:
		return 1
	}
}

func (t *TypedArrayValue) Length() int64 { return t.Count }

// GetIndex decodes the element at index per ElementKind, satisfying
// IndexableValue the same way ArrayValue does (spec §3.2).
func (t *TypedArrayValue) GetIndex(index int64) (Value, bool) {
	if index < 0 || index >= t.Count {
		return Undefined, false
	}
	sz := t.elementSize()
	off := int(index) * sz
	buf := t.Buffer[off : off+sz]
	switch t.ElementKind {
	case "int8":
		return Number(float64(int8(buf[0]))), true
	case "uint8", "uint8clamped":
		return Number(float64(buf[0])), true
	case "int16":
		return Number(float64(int16(binaryLE.Uint16(buf)))), true
	case "uint16":
		return Number(float64(binaryLE.Uint16(buf))), true
	case "int32":
		return Number(float64(int32(binaryLE.Uint32(buf)))), true
	case "uint32":
		return Number(float64(binaryLE.Uint32(buf))), true
	case "float32":
		return Number(float64(math.Float32frombits(binaryLE.Uint32(buf)))), true
	case "float64":
		return Number(math.Float64frombits(binaryLE.Uint64(buf))), true
	default:
		return Number(float64(binaryLE.Uint64(buf))), true
	}
}

// SetIndex encodes value into the backing buffer at index, clamping/
// truncating per ElementKind the way JS's typed-array [[Set]] does.
func (t *TypedArrayValue) SetIndex(index int64, value Value) error {
	if index < 0 || index >= t.Count {
		return nil // out-of-range writes are a silent no-op in JS
	}
	n, ok := value.(*NumberValue)
	f := 0.0
	if ok {
		f = n.Value
	}
	sz := t.elementSize()
	off := int(index) * sz
	buf := t.Buffer[off : off+sz]
	switch t.ElementKind {
	case "int8":
		buf[0] = byte(int8(f))
	case "uint8":
		buf[0] = byte(uint8(int64(f)))
	case "uint8clamped":
		clamped := f
		if clamped < 0 {
			clamped = 0
		} else if clamped > 255 {
			clamped = 255
		}
		buf[0] = byte(uint8(clamped))
	case "int16":
		binaryLE.PutUint16(buf, uint16(int16(f)))
	case "uint16":
		binaryLE.PutUint16(buf, uint16(int64(f)))
	case "int32":
		binaryLE.PutUint32(buf, uint32(int32(f)))
	case "uint32":
		binaryLE.PutUint32(buf, uint32(int64(f)))
	case "float32":
		binaryLE.PutUint32(buf, math.Float32bits(float32(f)))
	case "float64":
		binaryLE.PutUint64(buf, math.Float64bits(f))
	default:
		binaryLE.PutUint64(buf, uint64(int64(f)))
	}
	return nil
}

// CommonJSExportKey is the sentinel member key the module linker merges a
// module's `export = value` assignment under (spec §4.6). It starts with a
// NUL byte so it can never collide with an actual export name (no valid
// JS/TS identifier or string literal property key contains one);
// `import x = require('p')` consults this key before falling back to the
// namespace view itself, matching "consults that slot if present, else
// the namespace view."
const CommonJSExportKey = "\x00commonjs-export"

// NamespaceValue is a name plus a mergeable member bag (spec §3.2):
// repeated `namespace Foo { ... }` declarations merge additively into the
// same instance.
type NamespaceValue struct {
	Name    string
	Members map[string]Value
	Order   []string
}

func NewNamespace(name string) *NamespaceValue {
	return &NamespaceValue{Name: name, Members: make(map[string]Value)}
}

func (n *NamespaceValue) Type() string   { return "object" }
func (n *NamespaceValue) String() string { return "[object Namespace]" }

func (n *NamespaceValue) Merge(name string, value Value) {
	if _, exists := n.Members[name]; !exists {
		n.Order = append(n.Order, name)
	}
	n.Members[name] = value
}

// TimeoutValue is a timer-handle value (spec §3.2). setTimeout/setInterval
// return a numeric id rather than a TimeoutValue, nothing in the runtime
// constructs one, and the event loop keeps no keep-alive count for Ref.
type TimeoutValue struct {
	ID        int64
	Interval  bool
	Cancelled bool
	Ref       bool
}

func (t *TimeoutValue) Type() string   { return "object" }
func (t *TimeoutValue) String() string { return "[object Timeout]" }
