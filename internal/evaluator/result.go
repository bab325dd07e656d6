// Package evaluator implements the registry-dispatched tree-walking
// evaluator (spec §4.2, components C4/C5): one handler per AST node kind,
// a genuine control-flow result sum type threaded through every statement
// handler, and the sync/async dual evaluation contexts that let both
// paths share the same handler set.
package evaluator

import "github.com/cwbudde/argon/internal/runtime"

// ResultKind tags which variant of the statement-completion sum type a
// Result carries (spec §4.2: "every statement handler returns a single
// sum type with variants {Normal, Return, Break, Continue, Throw}").
//
// This deliberately replaces the teacher's ControlFlowKind side-channel
// flag (set on a shared *ControlFlow and polled with IsActive()/IsBreak())
// with a genuine value returned up the call stack: every handler's return
// value IS the completion, so a caller that forgets to check it simply
// doesn't compile against the signal, it fails to propagate the result at
// all (a bug that shows immediately, instead of one that only manifests
// when a forgotten poll lets a break leak past its loop).
type ResultKind int

const (
	Normal ResultKind = iota
	ReturnSignal
	BreakSignal
	ContinueSignal
	ThrowSignal
)

func (k ResultKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case ReturnSignal:
		return "return"
	case BreakSignal:
		return "break"
	case ContinueSignal:
		return "continue"
	case ThrowSignal:
		return "throw"
	default:
		return "unknown"
	}
}

// Result is the completion value every statement handler produces. Value
// carries the Return value or the Throw reason; Label carries a labeled
// break/continue target (empty string means unlabeled, consumed by the
// innermost loop/switch per spec §4.2).
type Result struct {
	Kind  ResultKind
	Value runtime.Value
	Label string
}

// ResultNormal is the completion every statement that falls through to
// its next sibling produces. It is a package-level value (not a function
// call) at every call site that doesn't need a payload, to avoid
// allocating on the hot path of sequential statement execution.
var ResultNormal = Result{Kind: Normal}

// ResultReturn wraps a return value (Undefined for a bare `return;`).
func ResultReturn(v runtime.Value) Result { return Result{Kind: ReturnSignal, Value: v} }

// ResultBreak produces an unlabeled or labeled break.
func ResultBreak(label string) Result { return Result{Kind: BreakSignal, Label: label} }

// ResultContinue produces an unlabeled or labeled continue.
func ResultContinue(label string) Result { return Result{Kind: ContinueSignal, Label: label} }

// ResultThrow wraps a thrown value (typically a runtime.ErrorValue, but
// JS permits throwing any value).
func ResultThrow(v runtime.Value) Result { return Result{Kind: ThrowSignal, Value: v} }

// IsAbrupt reports whether this completion must propagate past the
// current statement instead of falling through to the next one.
func (r Result) IsAbrupt() bool { return r.Kind != Normal }

// MatchesLabel reports whether an unlabeled break/continue (label=="")
// or one that names this loop/switch's own label should consume r.
func (r Result) MatchesLabel(label string) bool {
	return r.Label == "" || r.Label == label
}
