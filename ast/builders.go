package ast

// Synthetic node constructors used by internal/transform and
// internal/inject to build the tracker/scope-id/fnInfo machinery. Every
// node returned here has an Unknown Span: it was not read from source.

// NewIdent builds a synthetic identifier, e.g. an internal-var reference
// produced by internal/ident.
func NewIdent(name string) *Identifier {
	return &Identifier{Name: name}
}

// NewString builds a synthetic string literal.
func NewString(value string) *StringLiteral {
	return &StringLiteral{Value: value}
}

// NewNumber builds a synthetic number literal.
func NewNumber(value float64) *NumberLiteral {
	return &NumberLiteral{Value: value}
}

// NewBoolean builds a synthetic boolean literal.
func NewBoolean(value bool) *BooleanLiteral {
	return &BooleanLiteral{Value: value}
}

// NewNull builds a synthetic `null` literal.
func NewNull() *NullLiteral {
	return &NullLiteral{}
}

// NewCall builds a synthetic call expression `callee(args...)`.
func NewCall(callee Expr, args ...Expr) *CallExpression {
	return &CallExpression{Callee: callee, Arguments: args}
}

// NewMember builds a synthetic `object.property` or, when computed is
// true, `object[property]`.
func NewMember(object, property Expr, computed bool) *MemberExpression {
	return &MemberExpression{Object: object, Property: property, Computed: computed}
}

// NewAssign builds a synthetic `left op right` assignment expression.
func NewAssign(op string, left, right Expr) *AssignmentExpression {
	return &AssignmentExpression{Operator: op, Left: left, Right: right}
}

// NewSequence builds a synthetic comma expression, collapsing a
// single-expression sequence to that expression directly (the transformer
// otherwise produces `(0, x)` noise for the common single-item case).
func NewSequence(exprs ...Expr) Expr {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return &SequenceExpression{Expressions: exprs}
}

// NewArray builds a synthetic array expression.
func NewArray(elements ...Expr) *ArrayExpression {
	return &ArrayExpression{Elements: elements}
}

// NewVarDecl builds a synthetic `kind name0 = init0, name1 = init1, ...`
// declaration. A nil init in inits means "no initializer" for that name.
func NewVarDecl(kind string, names []string, inits []Expr) *VariableDeclaration {
	decls := make([]*VariableDeclarator, len(names))
	for i, name := range names {
		var init Expr
		if i < len(inits) {
			init = inits[i]
		}
		decls[i] = &VariableDeclarator{Name: NewIdent(name), Init: init}
	}
	return &VariableDeclaration{Kind_: kind, Declarations: decls}
}

// NewExprStmt wraps expr as an expression statement.
func NewExprStmt(expr Expr) *ExpressionStatement {
	return &ExpressionStatement{Expression: expr}
}

// NewBlock builds a synthetic block statement.
func NewBlock(body ...Stmt) *BlockStatement {
	return &BlockStatement{Body: body}
}

// NewArrow builds a synthetic zero-param arrow function, the shape used for
// the tracker's lazy scope-vars callback (spec.md §4.5/§4.6).
func NewArrow(body Node) *ArrowFunctionExpression {
	return &ArrowFunctionExpression{Body: body}
}

// NewReturn builds a synthetic return statement.
func NewReturn(arg Expr) *ReturnStatement {
	return &ReturnStatement{Argument: arg}
}

// NewFunctionDecl builds a synthetic function declaration with no
// parameters, the shape used for emitted fnInfo/getSources declarations.
func NewFunctionDecl(name string, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{Id: NewIdent(name), Body: body}
}

// NewConditional builds a synthetic ternary expression.
func NewConditional(test, cons, alt Expr) *ConditionalExpression {
	return &ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
}

// NewSpread builds a synthetic spread element, `...argument`.
func NewSpread(argument Expr) *SpreadElement {
	return &SpreadElement{Argument: argument}
}
