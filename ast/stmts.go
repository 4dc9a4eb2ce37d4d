package ast

// span is embedded by every concrete node to satisfy the Span() half of
// Node without repeating the two fields everywhere.
type span struct {
	Start, End Pos
}

func (s span) Span() (Pos, Pos) { return s.Start, s.End }

// Program is the root of every tree the core consumes.
type Program struct {
	span
	Body       []Stmt
	SourceType string // "script" or "module"
}

func (n *Program) Kind() Kind { return KindProgram }

// ---------- Statements ----------

type VariableDeclaration struct {
	span
	Kind_        string // "var", "let", or "const"
	Declarations []*VariableDeclarator
}

type VariableDeclarator struct {
	span
	Name Expr // Identifier or destructuring pattern
	Init Expr // may be nil
}

type ExpressionStatement struct {
	span
	Expression Expr
}

type BlockStatement struct {
	span
	Body []Stmt
}

type ReturnStatement struct {
	span
	Argument Expr // may be nil
}

type IfStatement struct {
	span
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // may be nil; *IfStatement or *BlockStatement
}

type WhileStatement struct {
	span
	Test Expr
	Body Stmt
}

type DoWhileStatement struct {
	span
	Body Stmt
	Test Expr
}

type ForStatement struct {
	span
	Init   Node // Stmt or Expr, may be nil
	Test   Expr // may be nil
	Update Expr // may be nil
	Body   Stmt
}

type ForInStatement struct {
	span
	Left  Node // VariableDeclaration or Expr
	Right Expr
	Body  Stmt
}

type ForOfStatement struct {
	span
	Left  Node
	Right Expr
	Body  Stmt
	Await bool // `for await (...)`, see Open Question 3 / SPEC_FULL supplement
}

type BreakStatement struct {
	span
	Label *Identifier // may be nil
}

type ContinueStatement struct {
	span
	Label *Identifier // may be nil
}

type SwitchStatement struct {
	span
	Discriminant Expr
	Cases        []*SwitchCase
}

type SwitchCase struct {
	span
	Test       Expr // nil for default
	Consequent []Stmt
}

func (n *SwitchCase) Kind() Kind { return KindSwitchCase }

type ThrowStatement struct {
	span
	Argument Expr
}

type TryStatement struct {
	span
	Block     *BlockStatement
	Handler   *CatchClause // may be nil
	Finalizer *BlockStatement
}

type CatchClause struct {
	span
	Param Expr // may be nil (optional catch binding)
	Body  *BlockStatement
}

func (n *CatchClause) Kind() Kind { return KindCatchClause }

type FunctionDeclaration struct {
	span
	Id        *Identifier // may be nil for the default-export anonymous case
	Params    []Expr
	Body      *BlockStatement
	Generator bool
	Async     bool
}

type ClassDeclaration struct {
	span
	Id         *Identifier // may be nil for default-export anonymous class
	SuperClass Expr        // may be nil
	Body       *ClassBody
}

type ClassBody struct {
	span
	Body []Node // *MethodDefinition | *PropertyDefinition | *StaticBlock
}

func (n *ClassBody) Kind() Kind { return KindClassBody }

type MethodDefinition struct {
	span
	Key      Expr
	Value    *FunctionExpression
	Kind_    string // "constructor", "method", "get", "set"
	Static   bool
	Computed bool
}

func (n *MethodDefinition) Kind() Kind { return KindMethodDefinition }

type PropertyDefinition struct {
	span
	Key      Expr
	Value    Expr // may be nil
	Static   bool
	Computed bool
}

func (n *PropertyDefinition) Kind() Kind { return KindPropertyDefinition }

type StaticBlock struct {
	span
	Body []Stmt
}

func (n *StaticBlock) Kind() Kind { return KindStaticBlock }

type LabeledStatement struct {
	span
	Label *Identifier
	Body  Stmt
}

type DebuggerStatement struct{ span }

type EmptyStatement struct{ span }

type WithStatement struct {
	span
	Object Expr
	Body   Stmt
}

type ImportDeclaration struct {
	span
	Source Expr // StringLiteral
}

func (n *ImportDeclaration) Kind() Kind { return KindImportDeclaration }

type ExportNamedDeclaration struct {
	span
	Declaration Stmt // may be nil
}

func (n *ExportNamedDeclaration) Kind() Kind { return KindExportNamedDeclaration }

type ExportDefaultDeclaration struct {
	span
	Declaration Node // Stmt or Expr
}

func (n *ExportDefaultDeclaration) Kind() Kind { return KindExportDefaultDeclaration }

type ExportAllDeclaration struct {
	span
	Source Expr
}

func (n *ExportAllDeclaration) Kind() Kind { return KindExportAllDeclaration }

// --- stmtNode markers ---

func (*VariableDeclaration) stmtNode()      {}
func (*ExpressionStatement) stmtNode()      {}
func (*BlockStatement) stmtNode()           {}
func (*ReturnStatement) stmtNode()          {}
func (*IfStatement) stmtNode()              {}
func (*WhileStatement) stmtNode()           {}
func (*DoWhileStatement) stmtNode()         {}
func (*ForStatement) stmtNode()             {}
func (*ForInStatement) stmtNode()           {}
func (*ForOfStatement) stmtNode()           {}
func (*BreakStatement) stmtNode()           {}
func (*ContinueStatement) stmtNode()        {}
func (*SwitchStatement) stmtNode()          {}
func (*ThrowStatement) stmtNode()           {}
func (*TryStatement) stmtNode()             {}
func (*FunctionDeclaration) stmtNode()      {}
func (*ClassDeclaration) stmtNode()         {}
func (*LabeledStatement) stmtNode()         {}
func (*DebuggerStatement) stmtNode()        {}
func (*EmptyStatement) stmtNode()           {}
func (*WithStatement) stmtNode()            {}
func (*ImportDeclaration) stmtNode()        {}
func (*ExportNamedDeclaration) stmtNode()   {}
func (*ExportDefaultDeclaration) stmtNode() {}
func (*ExportAllDeclaration) stmtNode()     {}

// --- Kind() for the statements that don't need a custom kind const already
// defined above inline ---

func (n *VariableDeclaration) Kind() Kind { return KindVariableDeclaration }
func (n *ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (n *BlockStatement) Kind() Kind      { return KindBlockStatement }
func (n *ReturnStatement) Kind() Kind     { return KindReturnStatement }
func (n *IfStatement) Kind() Kind         { return KindIfStatement }
func (n *WhileStatement) Kind() Kind      { return KindWhileStatement }
func (n *DoWhileStatement) Kind() Kind    { return KindDoWhileStatement }
func (n *ForStatement) Kind() Kind        { return KindForStatement }
func (n *ForInStatement) Kind() Kind      { return KindForInStatement }
func (n *ForOfStatement) Kind() Kind      { return KindForOfStatement }
func (n *BreakStatement) Kind() Kind      { return KindBreakStatement }
func (n *ContinueStatement) Kind() Kind   { return KindContinueStatement }
func (n *SwitchStatement) Kind() Kind     { return KindSwitchStatement }
func (n *ThrowStatement) Kind() Kind      { return KindThrowStatement }
func (n *TryStatement) Kind() Kind        { return KindTryStatement }
func (n *FunctionDeclaration) Kind() Kind { return KindFunctionDeclaration }
func (n *ClassDeclaration) Kind() Kind    { return KindClassDeclaration }
func (n *LabeledStatement) Kind() Kind    { return KindLabeledStatement }
func (n *DebuggerStatement) Kind() Kind   { return KindDebuggerStatement }
func (n *EmptyStatement) Kind() Kind      { return KindEmptyStatement }
func (n *WithStatement) Kind() Kind       { return KindWithStatement }
