package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/analyzer"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/ident"
)

func TestFunctionLengthCountsUpToFirstDefaultOrRest(t *testing.T) {
	assert.Equal(t, 3, functionLength([]ast.Expr{ast.NewIdent("a"), ast.NewIdent("b"), ast.NewIdent("c")}))
	assert.Equal(t, 1, functionLength([]ast.Expr{ast.NewIdent("a"), &ast.AssignmentPattern{Left: ast.NewIdent("b"), Right: ast.NewNumber(1)}}))
	assert.Equal(t, 2, functionLength([]ast.Expr{ast.NewIdent("a"), &ast.ObjectPattern{}, &ast.RestElement{Argument: ast.NewIdent("rest")}}))
}

func TestReconstructParamWrapsInSingleElementArrayPattern(t *testing.T) {
	def := &ast.AssignmentPattern{Left: ast.NewIdent("b"), Right: ast.NewNumber(1)}
	temp := ast.NewIdent("livepack_temp_1")

	stmt := reconstructParam(def, temp)

	decl, ok := stmt.(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "let", decl.Kind_)
	pattern, ok := decl.Declarations[0].Name.(*ast.ArrayPattern)
	require.True(t, ok)
	assert.Same(t, def, pattern.Elements[0])
	arr, ok := decl.Declarations[0].Init.(*ast.ArrayExpression)
	require.True(t, ok)
	assert.Same(t, temp, arr.Elements[0])
}

func TestInjectParamsRoutesComplexParamFunctionThroughParamPath(t *testing.T) {
	idents := ident.New("livepack")
	store := block.NewStore()
	paramsBlock := store.CreateBlock(nil, "params", true)

	params := []ast.Expr{
		ast.NewIdent("a"),
		&ast.AssignmentPattern{Left: ast.NewIdent("b"), Right: ast.NewNumber(1)},
	}
	body := ast.NewBlock(ast.NewExprStmt(ast.NewIdent("userCode")))
	trackerCall := ast.NewCall(ast.NewIdent("livepack_tracker"))

	kept, newBody := injectParams(params, body, 1, paramsBlock, idents, ast.NewIdent("livepack_getScopeId"), trackerCall)

	require.Len(t, kept, 3, "a, a temp for b, and the tracker rest element")
	assert.Same(t, params[0], kept[0])
	rest, ok := kept[2].(*ast.RestElement)
	require.True(t, ok, "the last kept param must be the tracker's rest element")
	obj, ok := rest.Argument.(*ast.ObjectPattern)
	require.True(t, ok)
	assert.Same(t, trackerCall, obj.Properties[0].Key)

	require.Len(t, newBody.Body, 2, "one reconstruction `let` ahead of the original statement")
	reconstruct, ok := newBody.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "let", reconstruct.Kind_)
	assert.Same(t, body.Body[0], newBody.Body[1])
}

func TestInjectParamsReconstructsATrailingRestFromArguments(t *testing.T) {
	idents := ident.New("livepack")
	store := block.NewStore()
	paramsBlock := store.CreateBlock(nil, "params", true)

	restIdent := ast.NewIdent("rest")
	params := []ast.Expr{ast.NewIdent("a"), &ast.RestElement{Argument: restIdent}}
	body := ast.NewBlock()
	trackerCall := ast.NewCall(ast.NewIdent("livepack_tracker"))

	kept, newBody := injectParams(params, body, 1, paramsBlock, idents, ast.NewIdent("livepack_getScopeId"), trackerCall)

	// a, the fixer default param, the tracker rest element.
	require.Len(t, kept, 3)
	require.GreaterOrEqual(t, len(newBody.Body), 2, "the arguments-slice let and the fixer call")
	sliceDecl, ok := newBody.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Same(t, restIdent, sliceDecl.Declarations[0].Name)
	sliceCall, ok := sliceDecl.Declarations[0].Init.(*ast.CallExpression)
	require.True(t, ok)
	assert.Len(t, sliceCall.Arguments, 2)
}

func TestSynthesizeConstructorBuildsSuperCallForDerivedClass(t *testing.T) {
	idents := ident.New("livepack")
	store := block.NewStore()
	superBlock := store.CreateBlock(nil, "class_super", false)
	enclosing := block.NewFunction(0, &ast.Program{}, nil, 0, nil)
	info := analyzer.ClassInfo{SuperBlock: superBlock, EnclosingFunction: enclosing, HasSuperClass: true}

	fn := synthesizeConstructor(info, store, idents)

	fe, ok := fn.Node.(*ast.FunctionExpression)
	require.True(t, ok)
	require.Len(t, fe.Params, 1)
	rest, ok := fe.Params[0].(*ast.RestElement)
	require.True(t, ok)
	require.Len(t, fe.Body.Body, 1)
	stmt, ok := fe.Body.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	call, ok := stmt.Expression.(*ast.CallExpression)
	require.True(t, ok)
	_, isSuper := call.Callee.(*ast.SuperExpression)
	assert.True(t, isSuper)
	require.Len(t, call.Arguments, 1)
	spread, ok := call.Arguments[0].(*ast.SpreadElement)
	require.True(t, ok)
	assert.Same(t, rest.Argument, spread.Argument)
	assert.Contains(t, enclosing.Children, fn, "the synthesized constructor must be reachable as a child for injectTree")
}

func TestSynthesizeConstructorBuildsEmptyBodyForBaseClass(t *testing.T) {
	idents := ident.New("livepack")
	store := block.NewStore()
	superBlock := store.CreateBlock(nil, "class_super", false)
	enclosing := block.NewFunction(0, &ast.Program{}, nil, 0, nil)
	info := analyzer.ClassInfo{SuperBlock: superBlock, EnclosingFunction: enclosing, HasSuperClass: false}

	fn := synthesizeConstructor(info, store, idents)

	fe, ok := fn.Node.(*ast.FunctionExpression)
	require.True(t, ok)
	assert.Empty(t, fe.Params)
	assert.Empty(t, fe.Body.Body)
}

func TestClassTransformsPrependsConstructorAndSuperCapture(t *testing.T) {
	idents := ident.New("livepack")
	store := block.NewStore()
	superBlock := store.CreateBlock(nil, "class_super", false)
	enclosing := block.NewFunction(0, &ast.Program{}, nil, 0, nil)

	bdg, err := store.CreateBinding(superBlock, "super", false, block.Binding{IsConst: true, IsSilentConst: true})
	require.NoError(t, err)
	block.ActivateBinding(bdg)

	body := &ast.ClassBody{}
	info := analyzer.ClassInfo{Body: body, SuperBlock: superBlock, EnclosingFunction: enclosing, HasSuperClass: true, HasConstructor: false}

	classTransforms([]analyzer.ClassInfo{info}, store, idents)

	require.Len(t, body.Body, 2, "a synthesized constructor and a static super-capture block")
	method, ok := body.Body[0].(*ast.MethodDefinition)
	require.True(t, ok, "the constructor is prepended last, so it ends up first")
	assert.Equal(t, "constructor", method.Kind_)

	staticBlock, ok := body.Body[1].(*ast.StaticBlock)
	require.True(t, ok)
	require.Len(t, staticBlock.Body, 1)
	es, ok := staticBlock.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	assign, ok := es.Expression.(*ast.AssignmentExpression)
	require.True(t, ok)
	assert.Equal(t, "super", assign.Left.(*ast.Identifier).Name)
	_, isThis := assign.Right.(*ast.ThisExpression)
	assert.True(t, isThis)
}

func TestClassTransformsSkipsSuperCaptureWhenSuperNeverMaterialized(t *testing.T) {
	idents := ident.New("livepack")
	store := block.NewStore()
	superBlock := store.CreateBlock(nil, "class_super", false)
	enclosing := block.NewFunction(0, &ast.Program{}, nil, 0, nil)

	body := &ast.ClassBody{}
	info := analyzer.ClassInfo{Body: body, SuperBlock: superBlock, EnclosingFunction: enclosing, HasSuperClass: false, HasConstructor: true}

	classTransforms([]analyzer.ClassInfo{info}, store, idents)

	assert.Empty(t, body.Body, "no super reference and an explicit constructor means nothing to prepend")
}

func TestWithTransformsBuildsDoubleWithForm(t *testing.T) {
	idents := ident.New("livepack")
	store := block.NewStore()
	varsBlock := store.CreateBlock(nil, "program", true)
	withBlock := store.CreateBlock(varsBlock, "with", false)

	originalBody := ast.NewBlock(ast.NewExprStmt(ast.NewIdent("userCode")))
	stmt := &ast.WithStatement{Object: ast.NewIdent("x"), Body: originalBody}
	tracker := ast.NewIdent("livepack_tracker")

	withTransforms([]analyzer.WithStmt{{Stmt: stmt, Block: withBlock}}, store, idents, tracker)

	require.Len(t, varsBlock.TempVarNodes, 1, "the capture temp lands on the with block's vars-block")

	outerCall, ok := stmt.Object.(*ast.CallExpression)
	require.True(t, ok)
	member, ok := outerCall.Callee.(*ast.MemberExpression)
	require.True(t, ok)
	assert.Same(t, tracker, member.Object)
	assert.Equal(t, "wrapWith", member.Property.(*ast.Identifier).Name)
	require.Len(t, outerCall.Arguments, 3)

	assign, ok := outerCall.Arguments[0].(*ast.AssignmentExpression)
	require.True(t, ok)
	assert.Same(t, varsBlock.TempVarNodes[0], assign.Left)
	assert.Equal(t, "x", assign.Right.(*ast.Identifier).Name)

	inner, ok := stmt.Body.(*ast.WithStatement)
	require.True(t, ok)
	assert.Same(t, originalBody, inner.Body)
}
