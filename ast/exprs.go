package ast

func (n *VariableDeclarator) Kind() Kind { return KindVariableDeclarator }
func (n *VariableDeclarator) exprNode()  {}

type Identifier struct {
	span
	Name string
}

type PrivateIdentifier struct {
	span
	Name string
}

type NumberLiteral struct {
	span
	Value float64
	Raw   string
}

type StringLiteral struct {
	span
	Value string
}

type BooleanLiteral struct {
	span
	Value bool
}

type NullLiteral struct{ span }

type RegExpLiteral struct {
	span
	Pattern string
	Flags   string
}

type ArrayExpression struct {
	span
	Elements []Expr // may contain nils for elisions: [1,,3]
}

type ObjectExpression struct {
	span
	Properties []*Property
}

type Property struct {
	span
	Key       Expr
	Value     Expr
	Kind_     string // "init", "get", "set"
	Shorthand bool
	Computed  bool
	Method    bool
}

func (n *Property) Kind() Kind { return KindProperty }

type FunctionExpression struct {
	span
	Id        *Identifier // nil if anonymous
	Params    []Expr
	Body      *BlockStatement
	Generator bool
	Async     bool
}

type ArrowFunctionExpression struct {
	span
	Params []Expr
	Body   Node // *BlockStatement or an Expr (concise body)
	Async  bool
}

type UnaryExpression struct {
	span
	Operator string
	Argument Expr
	Prefix   bool
}

type UpdateExpression struct {
	span
	Operator string // ++ or --
	Argument Expr
	Prefix   bool
}

type BinaryExpression struct {
	span
	Operator string
	Left     Expr
	Right    Expr
}

type LogicalExpression struct {
	span
	Operator string // &&, ||, ??
	Left     Expr
	Right    Expr
}

type AssignmentExpression struct {
	span
	Operator string
	Left     Expr
	Right    Expr
}

type ConditionalExpression struct {
	span
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

type CallExpression struct {
	span
	Callee    Expr
	Arguments []Expr
	Optional  bool
}

type MemberExpression struct {
	span
	Object   Expr
	Property Expr
	Computed bool
	Optional bool
}

type NewExpression struct {
	span
	Callee    Expr
	Arguments []Expr
}

type SequenceExpression struct {
	span
	Expressions []Expr
}

type TemplateLiteral struct {
	span
	Quasis      []*TemplateElement
	Expressions []Expr
}

type TemplateElement struct {
	span
	Raw    string
	Cooked string
	Tail   bool
}

func (n *TemplateElement) Kind() Kind { return KindTemplateElement }
func (n *TemplateElement) exprNode()  {}

type TaggedTemplateExpression struct {
	span
	Tag   Expr
	Quasi *TemplateLiteral
}

type SpreadElement struct {
	span
	Argument Expr
}

type YieldExpression struct {
	span
	Argument Expr // may be nil
	Delegate bool // yield*
}

type AwaitExpression struct {
	span
	Argument Expr
}

type ClassExpression struct {
	span
	Id         *Identifier // may be nil
	SuperClass Expr
	Body       *ClassBody
}

type ThisExpression struct{ span }

type SuperExpression struct{ span }

// MetaProperty covers `new.target` and `import.meta`.
type MetaProperty struct {
	span
	Meta     string
	Property string
}

func (n *MetaProperty) Kind() Kind { return KindMetaProperty }
func (n *MetaProperty) exprNode()  {}

// Destructuring patterns.

type ObjectPattern struct {
	span
	Properties []*Property
}

type ArrayPattern struct {
	span
	Elements []Expr // may contain nils for holes
}

type AssignmentPattern struct {
	span
	Left  Expr
	Right Expr
}

type RestElement struct {
	span
	Argument Expr
}

// --- exprNode markers ---

func (*Identifier) exprNode()               {}
func (*PrivateIdentifier) exprNode()         {}
func (*NumberLiteral) exprNode()             {}
func (*StringLiteral) exprNode()             {}
func (*BooleanLiteral) exprNode()            {}
func (*NullLiteral) exprNode()               {}
func (*RegExpLiteral) exprNode()             {}
func (*ArrayExpression) exprNode()           {}
func (*ObjectExpression) exprNode()          {}
func (*FunctionExpression) exprNode()        {}
func (*ArrowFunctionExpression) exprNode()   {}
func (*UnaryExpression) exprNode()           {}
func (*UpdateExpression) exprNode()          {}
func (*BinaryExpression) exprNode()          {}
func (*LogicalExpression) exprNode()         {}
func (*AssignmentExpression) exprNode()      {}
func (*ConditionalExpression) exprNode()     {}
func (*CallExpression) exprNode()            {}
func (*MemberExpression) exprNode()          {}
func (*NewExpression) exprNode()             {}
func (*SequenceExpression) exprNode()        {}
func (*TemplateLiteral) exprNode()           {}
func (*TaggedTemplateExpression) exprNode()  {}
func (*SpreadElement) exprNode()             {}
func (*YieldExpression) exprNode()           {}
func (*AwaitExpression) exprNode()           {}
func (*ClassExpression) exprNode()           {}
func (*ThisExpression) exprNode()            {}
func (*SuperExpression) exprNode()           {}
func (*ObjectPattern) exprNode()             {}
func (*ArrayPattern) exprNode()              {}
func (*AssignmentPattern) exprNode()         {}
func (*RestElement) exprNode()               {}

// --- Kind() ---

func (n *Identifier) Kind() Kind              { return KindIdentifier }
func (n *PrivateIdentifier) Kind() Kind       { return KindPrivateIdentifier }
func (n *NumberLiteral) Kind() Kind           { return KindNumberLiteral }
func (n *StringLiteral) Kind() Kind           { return KindStringLiteral }
func (n *BooleanLiteral) Kind() Kind          { return KindBooleanLiteral }
func (n *NullLiteral) Kind() Kind             { return KindNullLiteral }
func (n *RegExpLiteral) Kind() Kind           { return KindRegExpLiteral }
func (n *ArrayExpression) Kind() Kind         { return KindArrayExpression }
func (n *ObjectExpression) Kind() Kind        { return KindObjectExpression }
func (n *FunctionExpression) Kind() Kind      { return KindFunctionExpression }
func (n *ArrowFunctionExpression) Kind() Kind { return KindArrowFunctionExpression }
func (n *UnaryExpression) Kind() Kind         { return KindUnaryExpression }
func (n *UpdateExpression) Kind() Kind        { return KindUpdateExpression }
func (n *BinaryExpression) Kind() Kind        { return KindBinaryExpression }
func (n *LogicalExpression) Kind() Kind       { return KindLogicalExpression }
func (n *AssignmentExpression) Kind() Kind    { return KindAssignmentExpression }
func (n *ConditionalExpression) Kind() Kind   { return KindConditionalExpression }
func (n *CallExpression) Kind() Kind          { return KindCallExpression }
func (n *MemberExpression) Kind() Kind        { return KindMemberExpression }
func (n *NewExpression) Kind() Kind           { return KindNewExpression }
func (n *SequenceExpression) Kind() Kind      { return KindSequenceExpression }
func (n *TemplateLiteral) Kind() Kind         { return KindTemplateLiteral }
func (n *TaggedTemplateExpression) Kind() Kind { return KindTaggedTemplateExpression }
func (n *SpreadElement) Kind() Kind           { return KindSpreadElement }
func (n *YieldExpression) Kind() Kind         { return KindYieldExpression }
func (n *AwaitExpression) Kind() Kind         { return KindAwaitExpression }
func (n *ClassExpression) Kind() Kind         { return KindClassExpression }
func (n *ThisExpression) Kind() Kind          { return KindThisExpression }
func (n *SuperExpression) Kind() Kind         { return KindSuperExpression }
func (n *ObjectPattern) Kind() Kind           { return KindObjectPattern }
func (n *ArrayPattern) Kind() Kind            { return KindArrayPattern }
func (n *AssignmentPattern) Kind() Kind       { return KindAssignmentPattern }
func (n *RestElement) Kind() Kind             { return KindRestElement }
