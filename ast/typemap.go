package ast

// TypeMap holds the type checker's per-expression type annotations. The
// evaluator consults it only to bias built-in dispatch (for example, to pick
// the direct Map accessor instead of the generic property path); it never
// drives control flow. A nil *TypeMap means "no annotations available" and
// every Lookup returns ("", false).
type TypeMap struct {
	types map[Expression]string
}

// NewTypeMap creates an empty type map.
func NewTypeMap() *TypeMap {
	return &TypeMap{types: make(map[Expression]string)}
}

// Annotate records the checker-resolved type name for an expression node.
func (m *TypeMap) Annotate(expr Expression, typeName string) {
	if m == nil {
		return
	}
	m.types[expr] = typeName
}

// Lookup returns the annotated type name for an expression, if any.
func (m *TypeMap) Lookup(expr Expression) (string, bool) {
	if m == nil {
		return "", false
	}
	t, ok := m.types[expr]
	return t, ok
}
