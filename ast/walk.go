package ast

// VisitDirection indicates whether a call to Visit is entering or exiting
// a node, mirroring the enter/exit shape the analyzer and transformer use
// internally for their own hand-written recursion (internal/visit).
type VisitDirection int

const (
	VisitEnter VisitDirection = iota
	VisitExit
)

// Visitor is implemented by callers of Walk. Returning a nil Visitor from
// a VisitEnter call skips that node's children.
type Visitor interface {
	Visit(n Node, dir VisitDirection) (w Visitor)
}

// VisitorFunc adapts a plain function to a Visitor, useful for one-off
// diagnostic walks.
type VisitorFunc func(n Node, dir VisitDirection) Visitor

func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor { return f(n, dir) }

// Walk performs a generic, kind-agnostic traversal of node for diagnostic
// purposes. It is deliberately separate from the analyzer/transformer's
// own traversal (internal/trail, internal/visit), which need per-kind
// context (read/write/declare) and trail bookkeeping that a generic walk
// can't carry.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node, VisitEnter); v == nil {
		return
	}
	walkChildren(v, node)
	v.Visit(node, VisitExit)
}

func walkStmts(v Visitor, stmts []Stmt) {
	for _, s := range stmts {
		Walk(v, s)
	}
}

func walkExprs(v Visitor, exprs []Expr) {
	for _, e := range exprs {
		if e == nil {
			continue // elision, e.g. sparse array hole
		}
		Walk(v, e)
	}
}

func walkChildren(v Visitor, node Node) {
	switch n := node.(type) {
	case *Program:
		walkStmts(v, n.Body)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			Walk(v, d)
		}
	case *VariableDeclarator:
		Walk(v, n.Name)
		if n.Init != nil {
			Walk(v, n.Init)
		}
	case *ExpressionStatement:
		Walk(v, n.Expression)
	case *BlockStatement:
		walkStmts(v, n.Body)
	case *ReturnStatement:
		if n.Argument != nil {
			Walk(v, n.Argument)
		}
	case *IfStatement:
		Walk(v, n.Test)
		Walk(v, n.Consequent)
		if n.Alternate != nil {
			Walk(v, n.Alternate)
		}
	case *WhileStatement:
		Walk(v, n.Test)
		Walk(v, n.Body)
	case *DoWhileStatement:
		Walk(v, n.Body)
		Walk(v, n.Test)
	case *ForStatement:
		if n.Init != nil {
			Walk(v, n.Init)
		}
		if n.Test != nil {
			Walk(v, n.Test)
		}
		if n.Update != nil {
			Walk(v, n.Update)
		}
		Walk(v, n.Body)
	case *ForInStatement:
		Walk(v, n.Left)
		Walk(v, n.Right)
		Walk(v, n.Body)
	case *ForOfStatement:
		Walk(v, n.Left)
		Walk(v, n.Right)
		Walk(v, n.Body)
	case *BreakStatement:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *ContinueStatement:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *SwitchStatement:
		Walk(v, n.Discriminant)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *SwitchCase:
		if n.Test != nil {
			Walk(v, n.Test)
		}
		walkStmts(v, n.Consequent)
	case *ThrowStatement:
		Walk(v, n.Argument)
	case *TryStatement:
		Walk(v, n.Block)
		if n.Handler != nil {
			Walk(v, n.Handler)
		}
		if n.Finalizer != nil {
			Walk(v, n.Finalizer)
		}
	case *CatchClause:
		if n.Param != nil {
			Walk(v, n.Param)
		}
		Walk(v, n.Body)
	case *FunctionDeclaration:
		if n.Id != nil {
			Walk(v, n.Id)
		}
		walkExprs(v, n.Params)
		Walk(v, n.Body)
	case *ClassDeclaration:
		if n.Id != nil {
			Walk(v, n.Id)
		}
		if n.SuperClass != nil {
			Walk(v, n.SuperClass)
		}
		Walk(v, n.Body)
	case *ClassBody:
		for _, m := range n.Body {
			Walk(v, m)
		}
	case *StaticBlock:
		walkStmts(v, n.Body)
	case *MethodDefinition:
		Walk(v, n.Key)
		Walk(v, n.Value)
	case *PropertyDefinition:
		Walk(v, n.Key)
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *LabeledStatement:
		Walk(v, n.Label)
		Walk(v, n.Body)
	case *WithStatement:
		Walk(v, n.Object)
		Walk(v, n.Body)
	case *ImportDeclaration:
		Walk(v, n.Source)
	case *ExportNamedDeclaration:
		if n.Declaration != nil {
			Walk(v, n.Declaration)
		}
	case *ExportDefaultDeclaration:
		Walk(v, n.Declaration)
	case *ExportAllDeclaration:
		Walk(v, n.Source)
	case *ArrayExpression:
		walkExprs(v, n.Elements)
	case *ObjectExpression:
		for _, p := range n.Properties {
			Walk(v, p)
		}
	case *Property:
		Walk(v, n.Key)
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *FunctionExpression:
		if n.Id != nil {
			Walk(v, n.Id)
		}
		walkExprs(v, n.Params)
		Walk(v, n.Body)
	case *ArrowFunctionExpression:
		walkExprs(v, n.Params)
		Walk(v, n.Body)
	case *UnaryExpression:
		Walk(v, n.Argument)
	case *UpdateExpression:
		Walk(v, n.Argument)
	case *BinaryExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *LogicalExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *AssignmentExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *ConditionalExpression:
		Walk(v, n.Test)
		Walk(v, n.Consequent)
		Walk(v, n.Alternate)
	case *CallExpression:
		Walk(v, n.Callee)
		walkExprs(v, n.Arguments)
	case *MemberExpression:
		Walk(v, n.Object)
		Walk(v, n.Property)
	case *NewExpression:
		Walk(v, n.Callee)
		walkExprs(v, n.Arguments)
	case *SequenceExpression:
		walkExprs(v, n.Expressions)
	case *TemplateLiteral:
		for _, q := range n.Quasis {
			Walk(v, q)
		}
		walkExprs(v, n.Expressions)
	case *TaggedTemplateExpression:
		Walk(v, n.Tag)
		Walk(v, n.Quasi)
	case *SpreadElement:
		Walk(v, n.Argument)
	case *YieldExpression:
		if n.Argument != nil {
			Walk(v, n.Argument)
		}
	case *AwaitExpression:
		Walk(v, n.Argument)
	case *ClassExpression:
		if n.Id != nil {
			Walk(v, n.Id)
		}
		if n.SuperClass != nil {
			Walk(v, n.SuperClass)
		}
		Walk(v, n.Body)
	case *ObjectPattern:
		for _, p := range n.Properties {
			Walk(v, p)
		}
	case *ArrayPattern:
		walkExprs(v, n.Elements)
	case *AssignmentPattern:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *RestElement:
		Walk(v, n.Argument)
	case *Identifier, *PrivateIdentifier, *NumberLiteral, *StringLiteral,
		*BooleanLiteral, *NullLiteral, *RegExpLiteral, *TemplateElement,
		*ThisExpression, *SuperExpression, *MetaProperty,
		*DebuggerStatement, *EmptyStatement:
		// leaves, nothing to walk
	}
}
