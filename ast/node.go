package ast

// Node is implemented by every tree node the core consumes or emits. Kind
// gives a stable discriminant for switch dispatch in the analyzer and
// transformer (see internal/analyzer, internal/transform); Span gives the
// node's source extent for error reporting, and is zero-valued (Unknown)
// for nodes synthesized by the transformer.
type Node interface {
	Kind() Kind
	Span() (start, end Pos)
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes, including destructuring
// patterns (which share the expression grammar position in this model,
// matching how a Babel-compatible AST represents them).
type Expr interface {
	Node
	exprNode()
}

// Kind discriminates the concrete node type without a type switch, so
// callers that only need to branch on kind (logging, filtering) don't need
// to import every node type.
type Kind uint16

const (
	KindInvalid Kind = iota

	// Program / module shape.
	KindProgram

	// Statements.
	KindVariableDeclaration
	KindVariableDeclarator
	KindExpressionStatement
	KindBlockStatement
	KindReturnStatement
	KindIfStatement
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindBreakStatement
	KindContinueStatement
	KindSwitchStatement
	KindSwitchCase
	KindThrowStatement
	KindTryStatement
	KindCatchClause
	KindFunctionDeclaration
	KindClassDeclaration
	KindClassBody
	KindStaticBlock
	KindMethodDefinition
	KindPropertyDefinition
	KindLabeledStatement
	KindDebuggerStatement
	KindEmptyStatement
	KindWithStatement
	KindImportDeclaration
	KindExportNamedDeclaration
	KindExportDefaultDeclaration
	KindExportAllDeclaration

	// Expressions.
	KindIdentifier
	KindPrivateIdentifier
	KindNumberLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindRegExpLiteral
	KindArrayExpression
	KindObjectExpression
	KindProperty
	KindFunctionExpression
	KindArrowFunctionExpression
	KindUnaryExpression
	KindUpdateExpression
	KindBinaryExpression
	KindLogicalExpression
	KindAssignmentExpression
	KindConditionalExpression
	KindCallExpression
	KindMemberExpression
	KindNewExpression
	KindSequenceExpression
	KindTemplateLiteral
	KindTemplateElement
	KindTaggedTemplateExpression
	KindSpreadElement
	KindYieldExpression
	KindAwaitExpression
	KindClassExpression
	KindThisExpression
	KindSuperExpression
	KindMetaProperty
	KindObjectPattern
	KindArrayPattern
	KindAssignmentPattern
	KindRestElement

	kindSentinel
)

var kindNames = [...]string{
	KindInvalid:                  "Invalid",
	KindProgram:                  "Program",
	KindVariableDeclaration:      "VariableDeclaration",
	KindVariableDeclarator:       "VariableDeclarator",
	KindExpressionStatement:      "ExpressionStatement",
	KindBlockStatement:           "BlockStatement",
	KindReturnStatement:          "ReturnStatement",
	KindIfStatement:              "IfStatement",
	KindWhileStatement:           "WhileStatement",
	KindDoWhileStatement:         "DoWhileStatement",
	KindForStatement:             "ForStatement",
	KindForInStatement:           "ForInStatement",
	KindForOfStatement:           "ForOfStatement",
	KindBreakStatement:           "BreakStatement",
	KindContinueStatement:        "ContinueStatement",
	KindSwitchStatement:          "SwitchStatement",
	KindSwitchCase:               "SwitchCase",
	KindThrowStatement:           "ThrowStatement",
	KindTryStatement:             "TryStatement",
	KindCatchClause:              "CatchClause",
	KindFunctionDeclaration:      "FunctionDeclaration",
	KindClassDeclaration:         "ClassDeclaration",
	KindClassBody:                "ClassBody",
	KindStaticBlock:              "StaticBlock",
	KindMethodDefinition:         "MethodDefinition",
	KindPropertyDefinition:       "PropertyDefinition",
	KindLabeledStatement:         "LabeledStatement",
	KindDebuggerStatement:        "DebuggerStatement",
	KindEmptyStatement:           "EmptyStatement",
	KindWithStatement:            "WithStatement",
	KindImportDeclaration:        "ImportDeclaration",
	KindExportNamedDeclaration:   "ExportNamedDeclaration",
	KindExportDefaultDeclaration: "ExportDefaultDeclaration",
	KindExportAllDeclaration:     "ExportAllDeclaration",
	KindIdentifier:               "Identifier",
	KindPrivateIdentifier:        "PrivateIdentifier",
	KindNumberLiteral:            "NumberLiteral",
	KindStringLiteral:            "StringLiteral",
	KindBooleanLiteral:           "BooleanLiteral",
	KindNullLiteral:              "NullLiteral",
	KindRegExpLiteral:            "RegExpLiteral",
	KindArrayExpression:          "ArrayExpression",
	KindObjectExpression:         "ObjectExpression",
	KindProperty:                 "Property",
	KindFunctionExpression:       "FunctionExpression",
	KindArrowFunctionExpression:  "ArrowFunctionExpression",
	KindUnaryExpression:          "UnaryExpression",
	KindUpdateExpression:         "UpdateExpression",
	KindBinaryExpression:         "BinaryExpression",
	KindLogicalExpression:        "LogicalExpression",
	KindAssignmentExpression:     "AssignmentExpression",
	KindConditionalExpression:    "ConditionalExpression",
	KindCallExpression:           "CallExpression",
	KindMemberExpression:         "MemberExpression",
	KindNewExpression:            "NewExpression",
	KindSequenceExpression:       "SequenceExpression",
	KindTemplateLiteral:          "TemplateLiteral",
	KindTemplateElement:          "TemplateElement",
	KindTaggedTemplateExpression: "TaggedTemplateExpression",
	KindSpreadElement:            "SpreadElement",
	KindYieldExpression:          "YieldExpression",
	KindAwaitExpression:          "AwaitExpression",
	KindClassExpression:          "ClassExpression",
	KindThisExpression:           "ThisExpression",
	KindSuperExpression:          "SuperExpression",
	KindMetaProperty:             "MetaProperty",
	KindObjectPattern:            "ObjectPattern",
	KindArrayPattern:             "ArrayPattern",
	KindAssignmentPattern:        "AssignmentPattern",
	KindRestElement:              "RestElement",
}

func (k Kind) String() string {
	if k >= kindSentinel {
		return "Unknown"
	}
	return kindNames[k]
}

// FunctionKind classifies the flavor of a function-bearing node.
type FunctionKind uint8

const (
	FnFunction FunctionKind = iota
	FnAsyncFunction
	FnGeneratorFunction
	FnAsyncGeneratorFunction
	FnArrow
	FnAsyncArrow
	FnMethod
	FnClass
)

var fnKindNames = [...]string{
	FnFunction:               "function",
	FnAsyncFunction:          "async function",
	FnGeneratorFunction:      "generator function",
	FnAsyncGeneratorFunction: "async generator function",
	FnArrow:                  "arrow function",
	FnAsyncArrow:             "async arrow function",
	FnMethod:                 "method",
	FnClass:                  "class",
}

func (k FunctionKind) String() string { return fnKindNames[k] }
