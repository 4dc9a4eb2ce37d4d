// Package transform implements pass 2 (spec.md §4.5): it runs the six
// ordered driver steps over a State internal/analyzer has already built,
// mutating the *ast.Program in place into its instrumented form.
//
// Grounded on the teacher's lang/compiler/compiler.go driver shape — a
// short, strictly-ordered sequence of passes over an already-resolved
// tree, each one a separate top-level function — generalized from
// "compile resolved AST to bytecode" to "splice tracker machinery into
// resolved AST, in place".
package transform

import (
	"fmt"
	"sort"

	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/analyzer"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/fninfo"
	"github.com/mna/jsinstrument/internal/hoist"
	"github.com/mna/jsinstrument/internal/ident"
	"github.com/mna/jsinstrument/internal/inject"
	"github.com/mna/jsinstrument/internal/source"
	"github.com/mna/jsinstrument/internal/trail"
)

// Options configures the file-level output shape (spec.md §6 "Output").
type Options struct {
	Filename    string
	InitPath    string
	NextBlockID int
	Sources     source.SourcesIndex
}

// Run drives pass 2 to completion over program, given the State pass 1
// (internal/analyzer) produced for it.
func Run(program *ast.Program, st *analyzer.State, opts Options) error {
	tracker := st.Idents.Tracker()
	getScopeID := st.Idents.GetScopeID()

	resolveHoists(st)

	if err := st.Jobs.Drain(); err != nil {
		return fmt.Errorf("draining pass-2 job queue: %w", err)
	}

	classTransforms(st.ClassInfos, st.Store, st.Idents)
	withTransforms(st.WithStmts, st.Store, st.Idents, tracker)
	// Class synthesis may have allocated new blocks; the prepended
	// require() call's nextBlockId argument must reflect that.
	opts.NextBlockID = st.Store.NextBlockID()

	program.Body = append(programPrelude(st.ProgramBlock, getScopeID), program.Body...)

	var fnInfoDecls []ast.Stmt
	if err := injectTree(st.RootFunction, st.Store, st.Idents, tracker, getScopeID, opts, &fnInfoDecls); err != nil {
		return err
	}
	program.Body = append(program.Body, fnInfoDecls...)
	program.Body = append(program.Body, getSourcesDecl(st.Idents, opts.Sources))

	program.Body = append([]ast.Stmt{initRequireStmt(tracker, getScopeID, st.Idents, opts)}, program.Body...)

	return nil
}

// resolveHoists converts the analyzer's recorded sloppy-function-decl
// candidates to hoist.Candidate and runs the hoist resolver (spec.md
// §4.5 step 2, §4.9).
func resolveHoists(st *analyzer.State) {
	if len(st.SloppyFuncDecls) == 0 {
		return
	}
	candidates := make([]hoist.Candidate, len(st.SloppyFuncDecls))
	for i, d := range st.SloppyFuncDecls {
		candidates[i] = hoist.Candidate{Name: d.Name, Block: d.Block, Hoist: d.Hoist}
	}
	hoist.Resolve(st.Store, candidates)
}

// classTransforms implements the class transformation (spec.md §4.5
// "Class transformation"): synthesize a missing constructor and prepend
// the static super-capture block that materializes the class's `super`
// binding for methods that closed over it as an external var. A
// synthesized constructor is registered as a genuine child Function of the
// class's enclosing function so injectTree reaches it like any other
// function.
func classTransforms(infos []analyzer.ClassInfo, store *block.Store, idents *ident.Allocator) {
	for _, info := range infos {
		if superVar := superCaptureVar(info.SuperBlock); superVar != nil {
			capture := &ast.StaticBlock{Body: []ast.Stmt{
				ast.NewExprStmt(ast.NewAssign("=", superVar, &ast.ThisExpression{})),
			}}
			info.Body.Body = append([]ast.Node{capture}, info.Body.Body...)
		}

		if info.HasConstructor {
			continue
		}
		ctorFn := synthesizeConstructor(info, store, idents)
		method := &ast.MethodDefinition{
			Key:   ast.NewIdent("constructor"),
			Value: ctorFn.Node.(*ast.FunctionExpression),
			Kind_: "constructor",
		}
		info.Body.Body = append([]ast.Node{method}, info.Body.Body...)
	}
}

// superCaptureVar returns the materialized `super` binding's var node for
// sb, or nil if nothing inside the class ever referenced `super` (so no
// capture is needed).
func superCaptureVar(sb *block.Block) *ast.Identifier {
	if sb == nil {
		return nil
	}
	bdg, ok := sb.Lookup("super")
	if !ok || bdg.VarNode == nil {
		return nil
	}
	return bdg.VarNode
}

// synthesizeConstructor builds the default constructor spec.md §4.5
// mandates for a class with none: `constructor(){}` for a base class,
// `constructor(...tmp){ super(...tmp); }` for a derived one. It allocates
// a fresh params block (parented on the class's super block, so its
// ancestry matches where a user-written constructor would have lived) and
// a real block.Function registered as a child of the class's enclosing
// function.
func synthesizeConstructor(info analyzer.ClassInfo, store *block.Store, idents *ident.Allocator) *block.Function {
	paramsBlock := store.CreateBlock(info.SuperBlock, "params", true)

	var params []ast.Expr
	var body *ast.BlockStatement
	if info.HasSuperClass {
		restArg := ast.NewIdent(idents.TempVarName(paramsBlock.ID, 0))
		params = []ast.Expr{&ast.RestElement{Argument: restArg}}
		body = ast.NewBlock(ast.NewExprStmt(ast.NewCall(&ast.SuperExpression{}, ast.NewSpread(restArg))))
	} else {
		body = ast.NewBlock()
	}

	fnExpr := &ast.FunctionExpression{Params: params, Body: body}
	// DefTrail is nil: a synthesized constructor has no position in the
	// enclosing function's own original AST for a trail to describe (see
	// DESIGN.md "Known simplification: synthesized constructor DefTrail").
	fn := block.NewFunction(paramsBlock.ID, fnExpr, info.EnclosingFunction, 0, nil)
	fn.HasSuperClass = info.HasSuperClass
	// The synthesized body never captures anything, so the simpler body
	// path (rather than the param path a raw rest parameter would normally
	// trigger) is both correct and sufficient here.
	fn.FirstComplexParamIndex = -1
	return fn
}

// withTransforms implements the with transformation (spec.md §4.5 "With
// transformation"): rewrite `with (x) body;` into a double `with` whose
// outer object forces `x` through the runtime's wrapWith capture hook
// before the original body runs inside the (otherwise inert) inner with.
// Mutating info.Stmt in place means pass 2 never needs a handle to the
// statement's parent slice.
func withTransforms(infos []analyzer.WithStmt, store *block.Store, idents *ident.Allocator, tracker *ast.Identifier) {
	for _, info := range infos {
		temp := store.CreateBlockTempVar(info.Block, idents.TempVarName)
		assign := ast.NewAssign("=", temp, info.Stmt.Object)

		evalParam, tParam := ast.NewIdent("eval"), ast.NewIdent("t")
		capture := &ast.ArrowFunctionExpression{Params: []ast.Expr{evalParam, tParam}, Body: ast.NewCall(evalParam, tParam)}
		evalAccessor := ast.NewArrow(ast.NewIdent("eval"))
		wrapCall := ast.NewCall(ast.NewMember(tracker, ast.NewIdent("wrapWith"), false), assign, capture, evalAccessor)

		inner := &ast.WithStatement{
			Object: ast.NewCall(ast.NewMember(&ast.ObjectExpression{}, ast.NewIdent("__defineSetter__"), false)),
			Body:   info.Stmt.Body,
		}
		info.Stmt.Object = wrapCall
		info.Stmt.Body = inner
	}
}

// programPrelude builds the program block's own scope-id/temp
// declarations (spec.md §4.5 step 4), empty when the program block was
// never activated (no closure captures anything at file scope, no direct
// eval() at file scope).
func programPrelude(programBlock *block.Block, getScopeID *ast.Identifier) []ast.Stmt {
	var stmts []ast.Stmt
	if programBlock.ScopeIDVar != nil {
		stmts = append(stmts, ast.NewVarDecl("const", []string{programBlock.ScopeIDVar.Name}, []ast.Expr{ast.NewCall(getScopeID)}))
	}
	if len(programBlock.TempVarNodes) > 0 {
		names := make([]string, len(programBlock.TempVarNodes))
		for i, t := range programBlock.TempVarNodes {
			names[i] = t.Name
		}
		stmts = append(stmts, ast.NewVarDecl("let", names, nil))
	}
	return stmts
}

// injectTree walks fn's children recursively (fn itself, the file-level
// root, never gets a tracker call or fnInfo declaration of its own),
// injecting a tracker call into each real function's body/params and
// appending its fnInfo declaration to out.
func injectTree(fn *block.Function, store *block.Store, idents *ident.Allocator, tracker, getScopeID *ast.Identifier, opts Options, out *[]ast.Stmt) error {
	for _, child := range fn.Children {
		if err := injectOne(child, store, idents, tracker, getScopeID); err != nil {
			return err
		}
		decl, err := buildFnInfoDecl(child, store, idents, opts)
		if err != nil {
			return err
		}
		*out = append(*out, decl)
		if err := injectTree(child, store, idents, tracker, getScopeID, opts, out); err != nil {
			return err
		}
	}
	return nil
}

func injectOne(fn *block.Function, store *block.Store, idents *ident.Allocator, tracker, getScopeID *ast.Identifier) error {
	paramsBlock := store.BlockByID(fn.ID)
	if paramsBlock == nil {
		return fmt.Errorf("internal: no block for function id %d", fn.ID)
	}

	fnInfoIdent := ast.NewIdent(idents.FnInfoName(fn.ID))
	trackerCall := inject.TrackerCall(tracker, fnInfoIdent, scopeRefs(fn))

	switch n := fn.Node.(type) {
	case *ast.FunctionDeclaration:
		n.Params, n.Body = injectFunction(fn, n.Params, n.Body, paramsBlock, idents, getScopeID, trackerCall)
	case *ast.FunctionExpression:
		n.Params, n.Body = injectFunction(fn, n.Params, n.Body, paramsBlock, idents, getScopeID, trackerCall)
	case *ast.ArrowFunctionExpression:
		bs, ok := n.Body.(*ast.BlockStatement)
		if !ok {
			bs = inject.WrapConciseBody(n.Body.(ast.Expr))
		}
		n.Params, n.Body = injectFunction(fn, n.Params, bs, paramsBlock, idents, getScopeID, trackerCall)
	default:
		return fmt.Errorf("internal: unexpected function node type %T", fn.Node)
	}
	return nil
}

// injectFunction dispatches to the param path (spec.md §4.6 "Param path
// (complex params)") when fn has a non-simple parameter, the body path
// otherwise.
func injectFunction(fn *block.Function, params []ast.Expr, body *ast.BlockStatement, paramsBlock *block.Block, idents *ident.Allocator, getScopeID *ast.Identifier, trackerCall ast.Expr) ([]ast.Expr, *ast.BlockStatement) {
	if fn.FirstComplexParamIndex < 0 {
		return params, injectBody(body, paramsBlock, getScopeID, trackerCall)
	}
	return injectParams(params, body, fn.FirstComplexParamIndex, paramsBlock, idents, getScopeID, trackerCall)
}

// injectBody implements the body path (spec.md §4.6 "Body path (simple
// params)"): every parameter is a plain identifier, so the tracker call can
// simply be prepended to the body.
func injectBody(body *ast.BlockStatement, paramsBlock *block.Block, getScopeID *ast.Identifier, trackerCall ast.Expr) *ast.BlockStatement {
	var scopeIDVar *ast.Identifier
	if paramsBlock.VarsBlock.ScopeIDVar != nil {
		scopeIDVar = paramsBlock.VarsBlock.ScopeIDVar
	}
	if scopeIDVar == nil {
		body.Body = append([]ast.Stmt{ast.NewExprStmt(trackerCall)}, body.Body...)
		return body
	}
	body.Body = inject.Body(body.Body, getScopeID, scopeIDVar, paramsBlock.VarsBlock.TempVarNodes, trackerCall)
	return body
}

// injectParams implements the param path (spec.md §4.6 "Param path
// (complex params)"): every parameter from truncateFrom onward is pulled
// out of the signature and replaced by a temp, those past the original
// length given `= void 0` defaults so Function.prototype.length is
// unaffected (inject.LengthCompensation), plus
// a single trailing rest element whose computed property key runs the
// tracker call (inject.Param). Because that rest element is syntactically
// last, the tracker always finishes running before the function body
// starts — and therefore before any of the removed parameters' own
// defaults/destructuring, which are reconstructed as `let` statements at
// the top of the body, ahead of user code.
func injectParams(params []ast.Expr, body *ast.BlockStatement, truncateFrom int, paramsBlock *block.Block, idents *ident.Allocator, getScopeID *ast.Identifier, trackerCall ast.Expr) ([]ast.Expr, *ast.BlockStatement) {
	kept := append([]ast.Expr{}, params[:truncateFrom]...)
	tail := params[truncateFrom:]

	// A trailing true rest parameter needs its own reconstruction: its
	// array-pattern form is flattened into ordinary tail entries (spec.md
	// §4.6 "Rest-array flattening"), a bare identifier/pattern rest is
	// handled below once the simple tail entries have their temps.
	var userRest *ast.RestElement
	if len(tail) > 0 {
		if re, ok := tail[len(tail)-1].(*ast.RestElement); ok {
			flattened := inject.FlattenRestArray(re)
			if len(flattened) == 1 && flattened[0] == ast.Expr(re) {
				userRest = re
				tail = tail[:len(tail)-1]
			} else {
				tail = append(append([]ast.Expr{}, tail[:len(tail)-1]...), flattened...)
			}
		}
	}

	originalLength := functionLength(params)
	pad := inject.LengthCompensation(originalLength, truncateFrom)

	var bodyPrefix []ast.Stmt
	next := 0
	nextTemp := func() *ast.Identifier {
		id := ast.NewIdent(idents.TempVarName(paramsBlock.ID, next))
		next++
		return id
	}

	for i, p := range tail {
		temp := nextTemp()
		if i < pad {
			kept = append(kept, temp)
		} else {
			voidZero := &ast.UnaryExpression{Operator: "void", Argument: ast.NewNumber(0), Prefix: true}
			kept = append(kept, &ast.AssignmentPattern{Left: temp, Right: voidZero})
		}
		bodyPrefix = append(bodyPrefix, reconstructParam(p, temp))
	}

	if userRest != nil {
		argsStart := truncateFrom + len(tail)
		sliceCall := ast.NewCall(
			ast.NewMember(ast.NewMember(ast.NewMember(ast.NewIdent("Array"), ast.NewIdent("prototype"), false), ast.NewIdent("slice"), false), ast.NewIdent("call"), false),
			ast.NewIdent("arguments"), ast.NewNumber(float64(argsStart)),
		)
		bodyPrefix = append(bodyPrefix, &ast.VariableDeclaration{
			Kind_:        "let",
			Declarations: []*ast.VariableDeclarator{{Name: userRest.Argument, Init: sliceCall}},
		})
		if restIdent, ok := userRest.Argument.(*ast.Identifier); ok {
			toRest := ast.NewMember(getScopeID, ast.NewIdent("toRest"), false)
			fixerIdent := nextTemp()
			fixerDecl := inject.RestAsObjectFixer(fixerIdent, restIdent, toRest)
			kept = append(kept, &ast.AssignmentPattern{Left: fixerDecl.Name, Right: fixerDecl.Init})
			bodyPrefix = append(bodyPrefix, ast.NewExprStmt(ast.NewCall(fixerIdent)))
		}
	}

	restName := nextTemp()
	kept = append(kept, inject.Param(trackerCall, restName))

	body.Body = append(bodyPrefix, body.Body...)
	return kept, body
}

// functionLength returns how many leading parameters count toward
// Function.prototype.length: everything up to (not including) the first
// default or rest parameter. A destructuring pattern without a default
// still counts.
func functionLength(params []ast.Expr) int {
	for i, p := range params {
		switch p.(type) {
		case *ast.AssignmentPattern, *ast.RestElement:
			return i
		}
	}
	return len(params)
}

// reconstructParam rebuilds one parameter removed by the param path as a
// `let [p] = [temp];` declaration: wrapping both sides in a single-element
// array reuses the exact default/destructuring semantics the parameter
// itself would have applied, whether p is a plain identifier, a default
// (AssignmentPattern), or a destructuring pattern.
func reconstructParam(p ast.Expr, temp *ast.Identifier) ast.Stmt {
	return &ast.VariableDeclaration{
		Kind_: "let",
		Declarations: []*ast.VariableDeclarator{{
			Name: &ast.ArrayPattern{Elements: []ast.Expr{p}},
			Init: ast.NewArray(temp),
		}},
	}
}

// scopeRefs flattens fn.ExternalVars into the tracker callback's lazy
// scope array, in ascending block-id order (same ordering fninfo.Build
// uses for the scopes JSON, spec.md §4.7/§4.8).
func scopeRefs(fn *block.Function) []inject.ScopeRef {
	if len(fn.ExternalVars) == 0 {
		return nil
	}
	blocks := make([]*block.Block, 0, len(fn.ExternalVars))
	for b := range fn.ExternalVars {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].ID < blocks[j].ID })

	refs := make([]inject.ScopeRef, 0, len(blocks))
	for _, b := range blocks {
		vars := fn.ExternalVars[b]
		nodes := make([]*ast.Identifier, 0, len(vars))
		for _, ev := range vars {
			nodes = append(nodes, ev.VarNode)
		}
		scopeIDVar := b.VarsBlock.ScopeIDVar
		if scopeIDVar == nil {
			scopeIDVar = ast.NewIdent("")
		}
		refs = append(refs, inject.ScopeRef{ScopeIDVar: scopeIDVar, VarNodes: nodes})
	}
	return refs
}

func buildFnInfoDecl(fn *block.Function, store *block.Store, idents *ident.Allocator, opts Options) (ast.Stmt, error) {
	var argNames []string
	if paramsBlock := store.BlockByID(fn.ID); paramsBlock != nil {
		if bdg, ok := paramsBlock.Lookup("arguments"); ok {
			argNames = bdg.ArgNames
		}
	}

	childTrails := make([]trail.Trail, len(fn.Children))
	childIDs := make([]ast.Expr, len(fn.Children))
	for i, c := range fn.Children {
		childTrails[i] = c.DefTrail
		childIDs[i] = ast.NewIdent(idents.FnInfoName(c.ID))
	}

	payload, err := fninfo.Build(fn, argNames, childTrails)
	if err != nil {
		return nil, fmt.Errorf("building fnInfo for function %d: %w", fn.ID, err)
	}

	getSources := idents.GetSourcesName()
	body := ast.NewBlock(ast.NewReturn(ast.NewArray(
		ast.NewString(string(payload)),
		ast.NewArray(childIDs...),
		getSources,
	)))
	return ast.NewFunctionDecl(idents.FnInfoName(fn.ID), body), nil
}

// getSourcesDecl builds the trailing `getSources` declaration (spec.md
// §6 "A trailing getSources function declaration that returns a JSON map
// of source-file contents (or {} when source maps are disabled)").
func getSourcesDecl(idents *ident.Allocator, sources source.SourcesIndex) ast.Stmt {
	payload, _ := sources.MarshalJSON()
	body := ast.NewBlock(ast.NewReturn(ast.NewString(string(payload))))
	return ast.NewFunctionDecl(idents.GetSourcesName().Name, body)
}

// initRequireStmt builds the one prepended statement spec.md §6 mandates:
// `const [<tracker>, <getScopeId>] = require('<initPath>')('<filename>',
// module, require, <nextBlockId>, <prefixNum>);`.
func initRequireStmt(tracker, getScopeID *ast.Identifier, idents *ident.Allocator, opts Options) ast.Stmt {
	initCall := ast.NewCall(ast.NewIdent("require"), ast.NewString(opts.InitPath))
	call := ast.NewCall(initCall,
		ast.NewString(opts.Filename),
		ast.NewIdent("module"),
		ast.NewIdent("require"),
		ast.NewNumber(float64(opts.NextBlockID)),
		ast.NewNumber(float64(idents.PrefixNum())),
	)
	return &ast.VariableDeclaration{
		Kind_: "const",
		Declarations: []*ast.VariableDeclarator{
			{
				Name: &ast.ArrayPattern{Elements: []ast.Expr{tracker, getScopeID}},
				Init: call,
			},
		},
	}
}
