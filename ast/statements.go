package ast

// ExpressionStmt is a bare expression used as a statement.
type ExpressionStmt struct {
	Position Position
	Expr     Expression
}

func (e *ExpressionStmt) Pos() Position      { return e.Position }
func (e *ExpressionStmt) StmtKind() StmtKind { return SExpression }
func (e *ExpressionStmt) String() string     { return e.Expr.String() + ";" }

// Block is `{ statements... }`; it introduces a new lexical scope.
type Block struct {
	Position   Position
	Statements []Statement
}

func (b *Block) Pos() Position      { return b.Position }
func (b *Block) StmtKind() StmtKind { return SBlock }
func (b *Block) String() string     { return "{...}" }

// Sequence groups statements without introducing a scope, used internally
// by the evaluator when desugaring (for example, hoisted var declarations
// prepended to a function body).
type Sequence struct {
	Position   Position
	Statements []Statement
}

func (s *Sequence) Pos() Position      { return s.Position }
func (s *Sequence) StmtKind() StmtKind { return SSequence }
func (s *Sequence) String() string     { return "(seq)" }

// VarDeclKind distinguishes var/let/const binding semantics.
type VarDeclKind int

const (
	DeclVar VarDeclKind = iota
	DeclLet
	DeclConst
)

// VarDeclarator is a single `name = init` (or pattern) entry of a VarDecl;
// multiple declarators share one `var`/`let`/`const` keyword.
type VarDeclarator struct {
	Name    string
	Pattern Expression // non-nil for destructuring declarators
	Init    Expression // nil if no initializer
}

// VarDecl is `var|let|const decl, decl, ...;`.
type VarDecl struct {
	Position     Position
	Kind         VarDeclKind
	Declarators  []VarDeclarator
}

func (v *VarDecl) Pos() Position      { return v.Position }
func (v *VarDecl) StmtKind() StmtKind { return SVarDecl }
func (v *VarDecl) String() string     { return "(var decl)" }

// If is `if (cond) then else alt`; Alternate is nil when there is no `else`.
type If struct {
	Position  Position
	Condition Expression
	Then      Statement
	Alternate Statement
}

func (i *If) Pos() Position      { return i.Position }
func (i *If) StmtKind() StmtKind { return SIf }
func (i *If) String() string     { return "if (...) {...}" }

// For is the classic C-style `for (init; cond; update) body`. Any of Init,
// Condition, Update may be nil.
type For struct {
	Position  Position
	Init      Statement // VarDecl or ExpressionStmt, or nil
	Condition Expression
	Update    Expression
	Body      Statement
}

func (f *For) Pos() Position      { return f.Position }
func (f *For) StmtKind() StmtKind { return SFor }
func (f *For) String() string     { return "for (...) {...}" }

// ForOf is `for (decl of iterable) body`; Await marks `for await (...)`.
type ForOf struct {
	Position   Position
	Kind       VarDeclKind
	Name       string
	Pattern    Expression // non-nil for destructuring loop variables
	IsNewDecl  bool       // false when the loop variable is a pre-existing binding
	Iterable   Expression
	Body       Statement
	Await      bool
}

func (f *ForOf) Pos() Position      { return f.Position }
func (f *ForOf) StmtKind() StmtKind { return SForOf }
func (f *ForOf) String() string     { return "for (... of ...) {...}" }

// ForIn is `for (decl in obj) body`, enumerating the object's own string
// keys; inherited keys are not visited.
type ForIn struct {
	Position  Position
	Kind      VarDeclKind
	Name      string
	Pattern   Expression
	IsNewDecl bool
	Object    Expression
	Body      Statement
}

func (f *ForIn) Pos() Position      { return f.Position }
func (f *ForIn) StmtKind() StmtKind { return SForIn }
func (f *ForIn) String() string     { return "for (... in ...) {...}" }

// While is `while (cond) body`.
type While struct {
	Position  Position
	Condition Expression
	Body      Statement
}

func (w *While) Pos() Position      { return w.Position }
func (w *While) StmtKind() StmtKind { return SWhile }
func (w *While) String() string     { return "while (...) {...}" }

// DoWhile is `do body while (cond);`.
type DoWhile struct {
	Position  Position
	Body      Statement
	Condition Expression
}

func (d *DoWhile) Pos() Position      { return d.Position }
func (d *DoWhile) StmtKind() StmtKind { return SDoWhile }
func (d *DoWhile) String() string     { return "do {...} while (...)" }

// SwitchCase is one `case expr:` (Test non-nil) or `default:` (Test nil)
// clause; Fallthrough statements are just the next case's Body starting
// where execution continues, matched by JS's no-implicit-break semantics.
type SwitchCase struct {
	Test Expression
	Body []Statement
}

// Switch is `switch (disc) { case ...: ... default: ... }`.
type Switch struct {
	Position    Position
	Discriminant Expression
	Cases       []SwitchCase
}

func (s *Switch) Pos() Position      { return s.Position }
func (s *Switch) StmtKind() StmtKind { return SSwitch }
func (s *Switch) String() string     { return "switch (...) {...}" }

// TryCatch is `try block catch (param) handler finally final`. CatchParam
// may be nil (optional-catch-binding); Finally may be nil.
type TryCatch struct {
	Position   Position
	Block      *Block
	CatchParam Expression // Variable or destructuring pattern, or nil
	Handler    *Block     // nil if there is no catch clause
	Finally    *Block     // nil if there is no finally clause
}

func (t *TryCatch) Pos() Position      { return t.Position }
func (t *TryCatch) StmtKind() StmtKind { return STryCatch }
func (t *TryCatch) String() string     { return "try {...}" }

// Throw is `throw expr;`.
type Throw struct {
	Position Position
	Expr     Expression
}

func (t *Throw) Pos() Position      { return t.Position }
func (t *Throw) StmtKind() StmtKind { return SThrow }
func (t *Throw) String() string     { return "throw " + t.Expr.String() + ";" }

// Return is `return expr;`; Expr is nil for a bare `return;`.
type Return struct {
	Position Position
	Expr     Expression
}

func (r *Return) Pos() Position      { return r.Position }
func (r *Return) StmtKind() StmtKind { return SReturn }
func (r *Return) String() string     { return "return ...;" }

// Break / Continue optionally carry a label targeting an enclosing
// LabeledStatement rather than the nearest loop/switch.
type Break struct {
	Position Position
	Label    string
}

func (b *Break) Pos() Position      { return b.Position }
func (b *Break) StmtKind() StmtKind { return SBreak }
func (b *Break) String() string     { return "break;" }

type Continue struct {
	Position Position
	Label    string
}

func (c *Continue) Pos() Position      { return c.Position }
func (c *Continue) StmtKind() StmtKind { return SContinue }
func (c *Continue) String() string     { return "continue;" }

// Labeled is `label: statement`, giving break/continue a target.
type Labeled struct {
	Position Position
	Label    string
	Body     Statement
}

func (l *Labeled) Pos() Position      { return l.Position }
func (l *Labeled) StmtKind() StmtKind { return SLabeled }
func (l *Labeled) String() string     { return l.Label + ": ..." }

// FunctionDecl is a hoisted `function name(...) {...}` declaration.
type FunctionDecl struct {
	Position  Position
	Name      string
	Params    []Param
	Body      *Block
	Async     bool
	Generator bool
}

func (f *FunctionDecl) Pos() Position      { return f.Position }
func (f *FunctionDecl) StmtKind() StmtKind { return SFunction }
func (f *FunctionDecl) String() string     { return "function " + f.Name + "(...) {...}" }

// ClassMember is one member of a class body: method, accessor, field, or
// static block (static blocks are represented separately as StaticBlock
// nodes embedded in Members with Kind "static-block").
type ClassMember struct {
	Name      string
	Private   bool
	Static    bool
	Kind      string // "method", "get", "set", "field", "static-block"
	Params    []Param
	Body      *Block
	Async     bool
	Generator bool
	FieldInit Expression // for Kind == "field"
	StaticBlockBody *Block // for Kind == "static-block"
}

// ClassDecl is a class declaration or the shared shape behind ClassExpr.
type ClassDecl struct {
	Position   Position
	Name       string
	SuperClass Expression
	Members    []ClassMember
}

func (c *ClassDecl) Pos() Position      { return c.Position }
func (c *ClassDecl) StmtKind() StmtKind { return SClass }
func (c *ClassDecl) String() string     { return "class " + c.Name + " {...}" }

// InterfaceDecl and TypeAliasDecl are type-checker-only declarations; the
// evaluator skips them as no-ops (they produce no runtime binding) but
// keeps them in the tree for tooling that walks the full AST.
type InterfaceDecl struct {
	Position Position
	Name     string
}

func (i *InterfaceDecl) Pos() Position      { return i.Position }
func (i *InterfaceDecl) StmtKind() StmtKind { return SInterface }
func (i *InterfaceDecl) String() string     { return "interface " + i.Name + " {...}" }

type TypeAliasDecl struct {
	Position Position
	Name     string
}

func (t *TypeAliasDecl) Pos() Position      { return t.Position }
func (t *TypeAliasDecl) StmtKind() StmtKind { return STypeAlias }
func (t *TypeAliasDecl) String() string     { return "type " + t.Name + " = ...;" }

// DeclareStmt wraps an ambient `declare ...` statement; the evaluator skips
// its Inner statement entirely (no runtime binding, no initializer side
// effects) since ambient declarations describe an external environment.
type DeclareStmt struct {
	Position Position
	Inner    Statement
}

func (d *DeclareStmt) Pos() Position      { return d.Position }
func (d *DeclareStmt) StmtKind() StmtKind { return SDeclare }
func (d *DeclareStmt) String() string     { return "declare ..." }

// EnumMember is one `Name = value` entry of an EnumDecl; Value is nil when
// the member uses auto-increment (numeric enums only).
type EnumMember struct {
	Name  string
	Value Expression
}

// EnumDecl is `enum Name { A, B = 2, C }` (and `const enum`, via Const).
type EnumDecl struct {
	Position Position
	Name     string
	Const    bool
	Members  []EnumMember
}

func (e *EnumDecl) Pos() Position      { return e.Position }
func (e *EnumDecl) StmtKind() StmtKind { return SEnum }
func (e *EnumDecl) String() string     { return "enum " + e.Name + " {...}" }

// NamespaceDecl is `namespace Name { ... }` (and legacy `module Name {...}`);
// repeated declarations of the same name merge additively into one runtime
// Namespace object.
type NamespaceDecl struct {
	Position Position
	Name     string
	Body     []Statement
}

func (n *NamespaceDecl) Pos() Position      { return n.Position }
func (n *NamespaceDecl) StmtKind() StmtKind { return SNamespace }
func (n *NamespaceDecl) String() string     { return "namespace " + n.Name + " {...}" }

// ExportSpecifier is one `name as alias` entry of a named export list.
type ExportSpecifier struct {
	Name  string
	Alias string
}

// ExportDecl covers every export form: `export <decl>`, `export { a, b }`,
// `export { a } from "mod"`, `export * from "mod"`, `export * as ns from
// "mod"`, `export default expr`, and CommonJS-interop `export = expr`.
type ExportDecl struct {
	Position    Position
	Decl        Statement         // non-nil for `export <decl>`
	Specifiers  []ExportSpecifier // non-nil for `export { ... }`
	Source      string            // non-empty for re-exports (`from "mod"`)
	StarAs      string            // non-empty for `export * as ns from "mod"`
	Star        bool              // true for bare `export * from "mod"`
	Default     Expression        // non-nil for `export default expr`
	CommonJSExp Expression        // non-nil for `export = expr`
}

func (e *ExportDecl) Pos() Position      { return e.Position }
func (e *ExportDecl) StmtKind() StmtKind { return SExport }
func (e *ExportDecl) String() string     { return "export ..." }

// ImportSpecifier is one entry of an import clause: a named import
// (`{ Name as Alias }`), a default import, or a namespace import.
type ImportSpecifier struct {
	Name      string
	Alias     string
	Default   bool
	Namespace bool
	TypeOnly  bool
}

// ImportDecl is `import ... from "source";` in any of its clause shapes.
type ImportDecl struct {
	Position   Position
	Specifiers []ImportSpecifier
	Source     string
	TypeOnly   bool // `import type { ... } from "..."`
}

func (i *ImportDecl) Pos() Position      { return i.Position }
func (i *ImportDecl) StmtKind() StmtKind { return SImport }
func (i *ImportDecl) String() string     { return "import ... from \"" + i.Source + "\";" }

// ImportRequireDecl is the CommonJS-interop `import name = require("mod");`.
type ImportRequireDecl struct {
	Position Position
	Name     string
	Source   string
}

func (i *ImportRequireDecl) Pos() Position      { return i.Position }
func (i *ImportRequireDecl) StmtKind() StmtKind { return SImportRequire }
func (i *ImportRequireDecl) String() string {
	return "import " + i.Name + " = require(\"" + i.Source + "\");"
}

// Directive is a string-literal-only statement in a position where it has
// source-level meaning, currently only `"use strict";`.
type Directive struct {
	Position Position
	Value    string
}

func (d *Directive) Pos() Position      { return d.Position }
func (d *Directive) StmtKind() StmtKind { return SDirective }
func (d *Directive) String() string     { return "\"" + d.Value + "\";" }

// UsingDecl is `using name = expr;` / `await using name = expr;`, disposed
// in reverse declaration order when its block exits (normally or abruptly).
type UsingDecl struct {
	Position Position
	Await    bool
	Name     string
	Init     Expression
}

func (u *UsingDecl) Pos() Position      { return u.Position }
func (u *UsingDecl) StmtKind() StmtKind { return SUsing }
func (u *UsingDecl) String() string     { return "using " + u.Name + " = ...;" }

// StaticBlock is a `static { ... }` class initializer block. It is also
// reachable as a ClassMember with Kind "static-block"; this standalone node
// exists for completeness of the Statement surface (e.g. tooling that
// walks top-level statements generically).
type StaticBlock struct {
	Position Position
	Body     *Block
}

func (s *StaticBlock) Pos() Position      { return s.Position }
func (s *StaticBlock) StmtKind() StmtKind { return SStaticBlock }
func (s *StaticBlock) String() string     { return "static {...}" }

// AutoAccessorDecl is a class `accessor name = init;` field, which desugars
// to a hidden backing field plus generated get/set pair.
type AutoAccessorDecl struct {
	Position Position
	Name     string
	Init     Expression
}

func (a *AutoAccessorDecl) Pos() Position      { return a.Position }
func (a *AutoAccessorDecl) StmtKind() StmtKind { return SAutoAccessor }
func (a *AutoAccessorDecl) String() string     { return "accessor " + a.Name + " = ...;" }

// EmptyStmt is a bare `;`.
type EmptyStmt struct{ Position Position }

func (e *EmptyStmt) Pos() Position      { return e.Position }
func (e *EmptyStmt) StmtKind() StmtKind { return SEmpty }
func (e *EmptyStmt) String() string     { return ";" }
