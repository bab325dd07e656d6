package evaluator

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/argon/internal/runtime"
)

// getProperty is the generic property-read path shared by Get, GetIndex
// (non-numeric receivers), and destructuring (spec §4.2/§3.2). Array and
// String indices are handled separately by their IndexableValue methods;
// this covers Object/Instance/Class/Namespace member access plus the
// handful of well-known properties (length, etc.) that live outside the
// generic bag.
func getProperty(receiver runtime.Value, name string) runtime.Value {
	switch r := receiver.(type) {
	case *runtime.ObjectValue:
		if v, ok := r.Get(name); ok {
			return v
		}
		return methodOrUndefined(receiver, name)
	case *runtime.ArrayValue:
		if name == "length" {
			return runtime.Number(float64(r.Length()))
		}
		if idx, err := strconv.ParseInt(name, 10, 64); err == nil {
			if v, ok := r.GetIndex(idx); ok {
				return v
			}
		}
		return methodOrUndefined(receiver, name)
	case *runtime.StringValue:
		if name == "length" {
			return runtime.Number(float64(r.Length()))
		}
		if idx, err := strconv.ParseInt(name, 10, 64); err == nil {
			if v, ok := r.GetIndex(idx); ok {
				return v
			}
		}
		return methodOrUndefined(receiver, name)
	case *runtime.InstanceValue:
		if v, ok := r.Get(name); ok {
			return v
		}
		if getter, declClass := r.Class.LookupGetter(name); getter != nil {
			return invokeAccessor(r, declClass, getter)
		}
		if method, declClass := r.Class.Lookup(name); method != nil {
			return boundMethod(r, declClass, method)
		}
		return runtime.Undefined
	case *runtime.ClassValue:
		if v, ok := r.StaticProps[name]; ok {
			return v
		}
		if m, ok := r.Statics[name]; ok {
			return boundMethod(r, r, m)
		}
		return runtime.Undefined
	case *runtime.NamespaceValue:
		if v, ok := r.Members[name]; ok {
			return v
		}
		return runtime.Undefined
	case *runtime.TypedArrayValue:
		if name == "length" {
			return runtime.Number(float64(r.Length()))
		}
		if idx, err := strconv.ParseInt(name, 10, 64); err == nil {
			if v, ok := r.GetIndex(idx); ok {
				return v
			}
		}
		return methodOrUndefined(receiver, name)
	case *runtime.MapValue:
		if name == "size" {
			return runtime.Number(float64(r.Size()))
		}
		return methodOrUndefined(receiver, name)
	case *runtime.SetValue:
		if name == "size" {
			return runtime.Number(float64(r.Size()))
		}
		return methodOrUndefined(receiver, name)
	case *runtime.ErrorValue:
		switch name {
		case "name":
			return runtime.Str(r.Name)
		case "message":
			return runtime.Str(r.Message)
		case "stack":
			return runtime.Str(r.Stack)
		}
		return methodOrUndefined(receiver, name)
	default:
		if bag, ok := receiver.(propertyBag); ok {
			if v, ok := bag.Get(name); ok {
				return v
			}
		}
		return methodOrUndefined(receiver, name)
	}
}

// propertyBag is implemented by native constructors (Array/Promise/...)
// that expose static properties without going through ObjectValue's own
// Keys/Props bag.
type propertyBag interface {
	Get(name string) (runtime.Value, bool)
}

// methodLookup is wired by the builtins package at startup (SetMethodLookup)
// so getProperty can resolve Array/String/Map/Set/Promise/Error/Generator/
// Date/RegExp prototype methods without this package importing builtins
// (the same cycle-avoidance pattern as globalEvaluatorForMethods).
var methodLookup func(receiver runtime.Value, name string) (NativeCallable, bool)

// SetMethodLookup registers the built-in method resolver. Called once by
// the builtins package's Install.
func SetMethodLookup(fn func(receiver runtime.Value, name string) (NativeCallable, bool)) {
	methodLookup = fn
}

func methodOrUndefined(receiver runtime.Value, name string) runtime.Value {
	if methodLookup == nil {
		return runtime.Undefined
	}
	if m, ok := methodLookup(receiver, name); ok {
		return m
	}
	return runtime.Undefined
}

// GetOwnProperty exposes getProperty to the builtins package (Object.keys/
// values/entries/assign need the same read path Get already uses).
func GetOwnProperty(receiver runtime.Value, name string) runtime.Value {
	return getProperty(receiver, name)
}

// invokeAccessor/boundMethod are small placeholders wired to the real
// call machinery in calls.go; declared here so properties.go has no
// forward-reference cycle at the source-file level (Go doesn't need the
// split, but it keeps each file's concern singular).
func invokeAccessor(recv *runtime.InstanceValue, declClass *runtime.ClassValue, m *runtime.ClassMethod) runtime.Value {
	v, _ := callMethodSync(recv, declClass, m, nil)
	return v
}

func boundMethod(recv runtime.Value, declClass *runtime.ClassValue, m *runtime.ClassMethod) *runtime.FunctionValue {
	return &runtime.FunctionValue{
		Name:      m.Name,
		Params:    m.Params,
		Body:      m.Body,
		Async:     m.Async,
		Generator: m.Generator,
		BoundThis: recv,
		Closure:   declClass.Closure,
	}
}

// setProperty is the generic property-write path for Set (spec §4.2).
func setProperty(receiver runtime.Value, name string, value runtime.Value) error {
	switch r := receiver.(type) {
	case *runtime.ObjectValue:
		return r.Set(name, value)
	case *runtime.ArrayValue:
		if idx, err := strconv.ParseInt(name, 10, 64); err == nil {
			return r.SetIndex(idx, value)
		}
		return nil
	case *runtime.TypedArrayValue:
		if idx, err := strconv.ParseInt(name, 10, 64); err == nil {
			return r.SetIndex(idx, value)
		}
		return nil
	case *runtime.InstanceValue:
		if setter, declClass := r.Class.LookupSetter(name); setter != nil {
			_, err := callMethodSync(r, declClass, setter, []runtime.Value{value})
			return err
		}
		return r.Set(name, value)
	case *runtime.ClassValue:
		if _, exists := r.StaticProps[name]; !exists {
			r.StaticOrder = append(r.StaticOrder, name)
		}
		r.StaticProps[name] = value
		return nil
	case *runtime.NamespaceValue:
		r.Merge(name, value)
		return nil
	default:
		return fmt.Errorf("TypeError: cannot set property '%s' on %s", name, receiver.Type())
	}
}

// setIndexed is the generic path for `obj[expr] = value` (GetIndex's
// write counterpart, SetIndex).
func setIndexed(receiver runtime.Value, index runtime.Value, value runtime.Value) error {
	if idxVal, ok := index.(*runtime.NumberValue); ok {
		if ix, ok := receiver.(runtime.IndexableValue); ok {
			return ix.SetIndex(int64(idxVal.Value), value)
		}
	}
	return setProperty(receiver, index.String(), value)
}

// getIndexed is GetIndex's read path.
func getIndexed(receiver runtime.Value, index runtime.Value) runtime.Value {
	if idxVal, ok := index.(*runtime.NumberValue); ok {
		if ix, ok := receiver.(runtime.IndexableValue); ok {
			if v, ok := ix.GetIndex(int64(idxVal.Value)); ok {
				return v
			}
			return runtime.Undefined
		}
	}
	if m, ok := receiver.(*runtime.MapValue); ok {
		if v, ok := m.Get(index); ok {
			return v
		}
		return runtime.Undefined
	}
	return getProperty(receiver, index.String())
}

// deleteProperty implements `delete` (spec §4.2): frozen/sealed receivers
// return false rather than throwing.
func deleteProperty(receiver runtime.Value, name string) bool {
	switch r := receiver.(type) {
	case *runtime.ObjectValue:
		return r.Delete(name)
	case *runtime.InstanceValue:
		if r.Flags.Frozen || r.Flags.Sealed {
			return false
		}
		delete(r.Props, name)
		for i, k := range r.PropOrder {
			if k == name {
				r.PropOrder = append(r.PropOrder[:i], r.PropOrder[i+1:]...)
				break
			}
		}
		return true
	default:
		return true
	}
}
