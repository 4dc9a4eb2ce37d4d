package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jsinstrument/ast"
)

func program(body ...ast.Stmt) *ast.Program {
	return &ast.Program{Body: body, SourceType: "script"}
}

func TestFileInstrumentsATrivialProgram(t *testing.T) {
	p := program(ast.NewVarDecl("const", []string{"x"}, []ast.Expr{ast.NewNumber(1)}))

	errs := File(p, FileOptions{Filename: "a.js", InitPath: "./init.js", Prefix: "livepack"})
	require.Empty(t, errs)

	// init-require is prepended, the original declaration is still there,
	// and at least the getSources declaration is appended.
	assert.GreaterOrEqual(t, len(p.Body), 3)
	initDecl, ok := p.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok, "first statement must be the prepended init-require const decl")
	assert.Equal(t, "const", initDecl.Kind_)
}

func TestAnalyzeDoesNotMutateOrRequireTransform(t *testing.T) {
	p := program(ast.NewVarDecl("let", []string{"y"}, nil))
	originalLen := len(p.Body)

	errs := Analyze(p, FileOptions{Filename: "b.js", Prefix: "livepack"}, false)
	require.Empty(t, errs)
	assert.Equal(t, originalLen, len(p.Body), "pass 1 alone must never mutate the program")
}

func TestAnalyzeWithNameBlocksDoesNotPanic(t *testing.T) {
	p := program(ast.NewVarDecl("let", []string{"z"}, nil))
	assert.NotPanics(t, func() {
		errs := Analyze(p, FileOptions{Filename: "c.js", Prefix: "livepack"}, true)
		assert.Empty(t, errs)
	})
}

func TestBatchPreservesTaskOrderAndCollectsAllResults(t *testing.T) {
	tasks := []Task{
		{Program: program(ast.NewVarDecl("const", []string{"a"}, []ast.Expr{ast.NewNumber(1)})), Options: FileOptions{Filename: "1.js", InitPath: "./init.js", Prefix: "livepack"}},
		{Program: program(ast.NewVarDecl("const", []string{"b"}, []ast.Expr{ast.NewNumber(2)})), Options: FileOptions{Filename: "2.js", InitPath: "./init.js", Prefix: "livepack"}},
		{Program: program(ast.NewVarDecl("const", []string{"c"}, []ast.Expr{ast.NewNumber(3)})), Options: FileOptions{Filename: "3.js", InitPath: "./init.js", Prefix: "livepack"}},
	}

	results := Batch(context.Background(), tasks, 2)
	require.Len(t, results, 3)
	for i, errs := range results {
		assert.Emptyf(t, errs, "task %d should instrument cleanly", i)
	}
}

func TestFileRoutesDefaultParamFunctionThroughTheParamPath(t *testing.T) {
	// function g(a, b = 1) { return a + b; } — b is a complex (non-identifier)
	// param, so the tracker call must not land as a plain body preamble: it
	// has to ride the trailing rest element the param path builds, or
	// g.length and b's default would both be wrong.
	fn := &ast.FunctionDeclaration{
		Id: ast.NewIdent("g"),
		Params: []ast.Expr{
			ast.NewIdent("a"),
			&ast.AssignmentPattern{Left: ast.NewIdent("b"), Right: ast.NewNumber(1)},
		},
		Body: ast.NewBlock(ast.NewReturn(&ast.BinaryExpression{Operator: "+", Left: ast.NewIdent("a"), Right: ast.NewIdent("b")})),
	}
	p := program(fn)

	errs := File(p, FileOptions{Filename: "s3.js", InitPath: "./init.js", Prefix: "livepack"})
	require.Empty(t, errs)

	require.NotEmpty(t, fn.Params)
	last, ok := fn.Params[len(fn.Params)-1].(*ast.RestElement)
	require.True(t, ok, "the param path always ends in the tracker's rest element")
	_, ok = last.Argument.(*ast.ObjectPattern)
	require.True(t, ok, "the rest element destructures an object so its computed key can run the tracker call")

	first, ok := fn.Params[0].(*ast.Identifier)
	require.True(t, ok, "the leading simple param is kept in place")
	assert.Equal(t, "a", first.Name)
}

func TestFileSynthesizesConstructorAndSuperCaptureForDerivedClass(t *testing.T) {
	// class Derived extends Base { bar() { return super.baz(); } } declares
	// no constructor of its own and only references `super` from a plain
	// method, which is exactly the case pass 1 defers to pass 2 to resolve.
	classDecl := &ast.ClassDeclaration{
		Id:         ast.NewIdent("Derived"),
		SuperClass: ast.NewIdent("Base"),
		Body: &ast.ClassBody{Body: []ast.Node{
			&ast.MethodDefinition{
				Key:   ast.NewIdent("bar"),
				Kind_: "method",
				Value: &ast.FunctionExpression{
					Body: ast.NewBlock(ast.NewReturn(ast.NewCall(ast.NewMember(&ast.SuperExpression{}, ast.NewIdent("baz"), false)))),
				},
			},
		}},
	}
	p := program(classDecl)

	errs := File(p, FileOptions{Filename: "s4.js", InitPath: "./init.js", Prefix: "livepack"})
	require.Empty(t, errs)

	require.Len(t, classDecl.Body.Body, 3, "synthesized constructor, static super-capture block, and the original method")
	ctor, ok := classDecl.Body.Body[0].(*ast.MethodDefinition)
	require.True(t, ok)
	assert.Equal(t, "constructor", ctor.Kind_)

	capture, ok := classDecl.Body.Body[1].(*ast.StaticBlock)
	require.True(t, ok)
	assert.NotEmpty(t, capture.Body)

	_, ok = classDecl.Body.Body[2].(*ast.MethodDefinition)
	assert.True(t, ok, "the original bar() method is preserved")
}

func TestFileRewritesWithStatementIntoTrackerWrap(t *testing.T) {
	withStmt := &ast.WithStatement{
		Object: ast.NewIdent("obj"),
		Body:   ast.NewBlock(ast.NewExprStmt(ast.NewCall(ast.NewIdent("foo")))),
	}
	p := program(withStmt)

	errs := File(p, FileOptions{Filename: "with.js", InitPath: "./init.js", Prefix: "livepack"})
	require.Empty(t, errs)

	_, ok := withStmt.Object.(*ast.CallExpression)
	assert.True(t, ok, "the with object must be rewritten into the tracker.wrapWith(...) call")
	inner, ok := withStmt.Body.(*ast.WithStatement)
	require.True(t, ok, "the original body must survive inside the inert inner with")
	assert.NotNil(t, inner.Body)
}

func TestFileRecoversAndLocatesPanicsAsErrors(t *testing.T) {
	// A for-await-of loop is a deliberately unsupported construct
	// (errForAwaitUnsupported); Analyze/File must turn that fatal into a
	// located ErrorList entry, not let the raw panic escape.
	p := program(&ast.ForOfStatement{
		Await: true,
		Left:  ast.NewVarDecl("const", []string{"v"}, nil),
		Right: ast.NewIdent("iterable"),
		Body:  ast.NewBlock(),
	})

	errs := File(p, FileOptions{Filename: "d.js", InitPath: "./init.js", Prefix: "livepack"})
	require.NotEmpty(t, errs)
}
