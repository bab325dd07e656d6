package ast

// Node is the base interface every AST node implements, mirroring the
// teacher's ast.Node contract (TokenLiteral/String/Pos) plus a Kind tag used
// by the evaluator's dispatch registry instead of a type switch.
type Node interface {
	Pos() Position
	String() string
}

// Expression is any node that produces a Value when evaluated.
type Expression interface {
	Node
	ExprKind() ExprKind
}

// Statement is any node that performs an action; it may produce an abrupt
// completion (see evaluator.Result) but not a value in the expression sense.
type Statement interface {
	Node
	StmtKind() StmtKind
}

// Program is the root node produced by the parser for a single module/script.
type Program struct {
	Position   Position
	Statements []Statement
	// SourceText and FileName back error formatting with source snippets.
	SourceText string
	FileName   string
}

func (p *Program) Pos() Position  { return p.Position }
func (p *Program) String() string { return "<program>" }
