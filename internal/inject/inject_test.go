package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jsinstrument/ast"
)

func TestBodyPrependsScopeIDAndTempsAheadOfExistingStatements(t *testing.T) {
	existing := []ast.Stmt{ast.NewExprStmt(ast.NewIdent("userCode"))}
	getScopeID := ast.NewIdent("getScopeId")
	scopeIDVar := ast.NewIdent("scopeId_3")
	temps := []*ast.Identifier{ast.NewIdent("temp_3"), ast.NewIdent("temp_3_1")}
	trackerCall := ast.NewCall(ast.NewIdent("tracker"))

	got := Body(existing, getScopeID, scopeIDVar, temps, trackerCall)

	require.Len(t, got, 4)
	scopeDecl, ok := got[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "const", scopeDecl.Kind_)
	assert.Equal(t, "scopeId_3", scopeDecl.Declarations[0].Name.(*ast.Identifier).Name)

	tempDecl, ok := got[1].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "let", tempDecl.Kind_)
	require.Len(t, tempDecl.Declarations, 2)
	assert.Nil(t, tempDecl.Declarations[0].Init)

	trackerStmt, ok := got[2].(*ast.ExpressionStatement)
	require.True(t, ok)
	assert.Same(t, trackerCall, trackerStmt.Expression)

	assert.Same(t, existing[0], got[3])
}

func TestBodyOmitsTempDeclWhenNoTemps(t *testing.T) {
	got := Body(nil, ast.NewIdent("getScopeId"), ast.NewIdent("scopeId_0"), nil, ast.NewCall(ast.NewIdent("tracker")))
	require.Len(t, got, 2, "no temps means no `let` decl between scope-id const and the tracker call")
}

func TestWrapConciseBodyBuildsAReturnBlock(t *testing.T) {
	expr := ast.NewIdent("x")
	bs := WrapConciseBody(expr)
	require.Len(t, bs.Body, 1)
	ret, ok := bs.Body[0].(*ast.ReturnStatement)
	require.True(t, ok)
	assert.Same(t, expr, ret.Argument)
}

func TestTrackerCallBuildsLazyScopeArray(t *testing.T) {
	tracker := ast.NewIdent("tracker")
	fnInfo := ast.NewIdent("fnInfo_1")
	scopeIDVar := ast.NewIdent("scopeId_2")
	varNode := ast.NewIdent("x")

	call := TrackerCall(tracker, fnInfo, []ScopeRef{{ScopeIDVar: scopeIDVar, VarNodes: []*ast.Identifier{varNode}}})

	ce, ok := call.(*ast.CallExpression)
	require.True(t, ok)
	assert.Same(t, tracker, ce.Callee)
	require.Len(t, ce.Arguments, 2)

	fnInfoCall, ok := ce.Arguments[0].(*ast.CallExpression)
	require.True(t, ok)
	assert.Same(t, fnInfo, fnInfoCall.Callee)

	arrow, ok := ce.Arguments[1].(*ast.ArrowFunctionExpression)
	require.True(t, ok)
	outerArray, ok := arrow.Body.(*ast.ArrayExpression)
	require.True(t, ok)
	require.Len(t, outerArray.Elements, 1)

	innerArray, ok := outerArray.Elements[0].(*ast.ArrayExpression)
	require.True(t, ok)
	require.Len(t, innerArray.Elements, 2)
	assert.Same(t, scopeIDVar, innerArray.Elements[0])
	assert.Same(t, varNode, innerArray.Elements[1])
}

func TestParamBuildsComputedKeyRestElement(t *testing.T) {
	trackerCall := ast.NewCall(ast.NewIdent("tracker"))
	restName := ast.NewIdent("livepack_temp")

	rest := Param(trackerCall, restName)

	obj, ok := rest.Argument.(*ast.ObjectPattern)
	require.True(t, ok)
	require.Len(t, obj.Properties, 1)
	prop := obj.Properties[0]
	assert.True(t, prop.Computed)
	assert.Equal(t, "init", prop.Kind_)
	assert.Same(t, trackerCall, prop.Key)
	assert.Same(t, restName, prop.Value)
}

func TestLengthCompensation(t *testing.T) {
	assert.Equal(t, 2, LengthCompensation(5, 3))
	assert.Equal(t, 0, LengthCompensation(5, 5), "truncateFrom at the end needs no compensation")
	assert.Equal(t, 0, LengthCompensation(5, -1), "a negative truncateFrom is not meaningful")
}

func TestFlattenRestArrayExpandsArrayPattern(t *testing.T) {
	a := ast.NewIdent("a")
	b := ast.NewIdent("b")
	rest := &ast.RestElement{Argument: &ast.ArrayPattern{Elements: []ast.Expr{a, b}}}

	got := FlattenRestArray(rest)
	assert.Equal(t, []ast.Expr{a, b}, got)
}

func TestFlattenRestArrayLeavesNonArrayRestAlone(t *testing.T) {
	rest := &ast.RestElement{Argument: ast.NewIdent("rest")}
	got := FlattenRestArray(rest)
	require.Len(t, got, 1)
	assert.Same(t, rest, got[0])
}

func TestRestAsObjectFixerBuildsReifyingThunk(t *testing.T) {
	fixerName := ast.NewIdent("livepack_fixer")
	restName := ast.NewIdent("livepack_rest")
	toRestName := ast.NewIdent("livepack_toRest")

	decl := RestAsObjectFixer(fixerName, restName, toRestName)
	assert.Same(t, fixerName, decl.Name)

	arrow, ok := decl.Init.(*ast.ArrowFunctionExpression)
	require.True(t, ok)
	assign, ok := arrow.Body.(*ast.AssignmentExpression)
	require.True(t, ok)
	assert.Same(t, restName, assign.Left)

	call, ok := assign.Right.(*ast.CallExpression)
	require.True(t, ok)
	assert.Same(t, toRestName, call.Callee)
	require.Len(t, call.Arguments, 1)
	assert.Same(t, restName, call.Arguments[0])
}
