// Package runtime provides the core runtime value system for the
// interpreter: the tagged value domain, the heap object kinds it
// references, and the utilities (equality, truthiness, stringification)
// that every evaluator handler and built-in relies on.
package runtime

import "math"

// Value is the interface every runtime value implements: the four
// primitive kinds (Boolean, Number, BigInt, String) plus Undefined, Null,
// Symbol, and HeapRef (any heap object in heap.go).
type Value interface {
	// Type returns the `typeof`-adjacent type tag used internally for
	// dispatch and error messages; it is not identical to the `typeof`
	// operator's string (that distinction, e.g. null vs object, lives in
	// Typeof()).
	Type() string
	// String returns the value's default string conversion (ToString).
	String() string
}

// NumericValue is implemented by values usable in arithmetic.
type NumericValue interface {
	Value
	AsFloat() (float64, bool)
}

// ComparableValue is implemented by values supporting strict equality.
type ComparableValue interface {
	Value
	StrictEquals(other Value) bool
}

// IndexableValue is implemented by values supporting integer indexing
// (Array and TypedArray).
type IndexableValue interface {
	Value
	GetIndex(index int64) (Value, bool)
	SetIndex(index int64, value Value) error
	Length() int64
}

// Undefined is the unique "absent value" singleton; every expression that
// has no other result (an uninitialized binding, a missing argument,
// indexing past the end of an array) evaluates to this one instance.
type UndefinedValue struct{}

// Undefined is the sole instance of UndefinedValue; use it, never
// &UndefinedValue{}, so identity comparisons are valid.
var Undefined = &UndefinedValue{}

func (u *UndefinedValue) Type() string   { return "undefined" }
func (u *UndefinedValue) String() string { return "undefined" }

// NullValue represents JS `null`, distinct from Undefined.
type NullValue struct{}

// Null is the sole instance of NullValue.
var Null = &NullValue{}

func (n *NullValue) Type() string   { return "null" }
func (n *NullValue) String() string { return "null" }

// BooleanValue wraps a JS boolean.
type BooleanValue struct {
	Value bool
}

var (
	True  = &BooleanValue{Value: true}
	False = &BooleanValue{Value: false}
)

// Bool returns the canonical True/False singleton for b.
func Bool(b bool) *BooleanValue {
	if b {
		return True
	}
	return False
}

func (b *BooleanValue) Type() string   { return "boolean" }
func (b *BooleanValue) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *BooleanValue) StrictEquals(other Value) bool {
	v, ok := other.(*BooleanValue)
	return ok && v.Value == b.Value
}

// NumberValue wraps an IEEE-754 double; every JS numeric literal widens to
// this single representation (spec §3.1).
type NumberValue struct {
	Value float64
}

// Number constructs a NumberValue.
func Number(v float64) *NumberValue { return &NumberValue{Value: v} }

// NaN returns a fresh NaN-valued NumberValue (never a singleton: NaN is
// never strictly equal to itself, so sharing one instance would be wrong
// for identity-sensitive callers even though NumberValue itself is
// immutable).
func NaN() *NumberValue { return &NumberValue{Value: math.NaN()} }

func (n *NumberValue) Type() string { return "number" }
func (n *NumberValue) String() string {
	return formatNumber(n.Value)
}
func (n *NumberValue) AsFloat() (float64, bool) { return n.Value, true }

// StrictEquals implements `===` for numbers: NaN is never equal to
// anything including itself (spec §3.1's explicit invariant), and +0/-0
// compare equal.
func (n *NumberValue) StrictEquals(other Value) bool {
	v, ok := other.(*NumberValue)
	if !ok {
		return false
	}
	if math.IsNaN(n.Value) || math.IsNaN(v.Value) {
		return false
	}
	return n.Value == v.Value
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return formatShortest(f)
}

// StringValue wraps a JS string (UTF-16 semantics are approximated with Go
// strings/runes; surrogate-pair edge cases are out of scope per spec's
// Non-goals on full ECMA-262 edge-case coverage).
type StringValue struct {
	Value string
}

// Str constructs a StringValue.
func Str(s string) *StringValue { return &StringValue{Value: s} }

func (s *StringValue) Type() string   { return "string" }
func (s *StringValue) String() string { return s.Value }
func (s *StringValue) StrictEquals(other Value) bool {
	v, ok := other.(*StringValue)
	return ok && v.Value == s.Value
}

func (s *StringValue) GetIndex(index int64) (Value, bool) {
	runes := []rune(s.Value)
	if index < 0 || index >= int64(len(runes)) {
		return Undefined, false
	}
	return Str(string(runes[index])), true
}

// SetIndex is a no-op: strings are immutable in JS (assigning to str[i] is
// silently ignored in sloppy mode, which is all this runtime models).
func (s *StringValue) SetIndex(index int64, value Value) error { return nil }

func (s *StringValue) Length() int64 { return int64(len([]rune(s.Value))) }

// BigIntValue wraps an arbitrary-precision integer. The underlying big.Int
// is stored behind an interface{} field populated by the evaluator's
// BigInt construction path to avoid importing math/big into every file
// that merely type-switches on Value.
type BigIntValue struct {
	Raw interface{} // *big.Int
	Str string       // decimal rendering, kept alongside Raw for String()
}

func (b *BigIntValue) Type() string   { return "bigint" }
func (b *BigIntValue) String() string { return b.Str }
func (b *BigIntValue) StrictEquals(other Value) bool {
	v, ok := other.(*BigIntValue)
	return ok && v.Str == b.Str
}

// SymbolValue has unique identity; two SymbolValues are never structurally
// equal even with the same description (spec §3.2).
type SymbolValue struct {
	Description string
}

// NewSymbol allocates a fresh symbol with the given description.
func NewSymbol(description string) *SymbolValue {
	return &SymbolValue{Description: description}
}

func (s *SymbolValue) Type() string { return "symbol" }
func (s *SymbolValue) String() string {
	return "Symbol(" + s.Description + ")"
}

// StrictEquals for symbols is pointer identity: two distinct allocations
// are never equal regardless of Description.
func (s *SymbolValue) StrictEquals(other Value) bool {
	v, ok := other.(*SymbolValue)
	return ok && v == s
}

// WellKnownIterator is the `@@iterator` symbol built-in dispatch looks for
// on the left side of `for-of` (spec §4.2's for-of semantics).
var WellKnownIterator = NewSymbol("Symbol.iterator")

// WellKnownAsyncIterator is `@@asyncIterator`, used by `for await`.
var WellKnownAsyncIterator = NewSymbol("Symbol.asyncIterator")

// IsFalsey reports whether val is falsey per JS ToBoolean.
func IsFalsey(val Value) bool {
	switch v := val.(type) {
	case *UndefinedValue, *NullValue:
		return true
	case *BooleanValue:
		return !v.Value
	case *NumberValue:
		return v.Value == 0 || math.IsNaN(v.Value)
	case *StringValue:
		return v.Value == ""
	case *BigIntValue:
		return v.Str == "0"
	default:
		return false
	}
}

// IsNullish reports whether val is null or undefined, the short-circuit
// condition for `??` and optional chaining (spec §4.2).
func IsNullish(val Value) bool {
	switch val.(type) {
	case *UndefinedValue, *NullValue:
		return true
	default:
		return false
	}
}

// Typeof implements the `typeof` operator, including the historical
// quirk that `typeof null === "object"` and the fact that callable heap
// objects report "function" rather than "object" (spec §4.2).
func Typeof(val Value) string {
	switch v := val.(type) {
	case *UndefinedValue:
		return "undefined"
	case *NullValue:
		return "object"
	case *BooleanValue:
		return "boolean"
	case *NumberValue:
		return "number"
	case *BigIntValue:
		return "bigint"
	case *StringValue:
		return "string"
	case *SymbolValue:
		return "symbol"
	case *FunctionValue, *ClassValue:
		return "function"
	default:
		_ = v
		return "object"
	}
}

// StrictEquals implements `===`, dispatching to each value's own
// StrictEquals where available and falling back to reference identity for
// heap objects that don't implement ComparableValue (Array, Object, etc.,
// which compare by reference per spec §3.2/§3.3).
func StrictEquals(a, b Value) bool {
	switch a.(type) {
	case *UndefinedValue:
		_, ok := b.(*UndefinedValue)
		return ok
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	}
	if ca, ok := a.(ComparableValue); ok {
		return ca.StrictEquals(b)
	}
	return a == b
}
