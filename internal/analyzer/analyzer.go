package analyzer

import (
	"errors"

	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/ident"
	"github.com/mna/jsinstrument/internal/trail"
	"github.com/mna/jsinstrument/internal/visit"
)

// errForAwaitUnsupported is raised for a `for await (...)` loop, which
// this implementation does not instrument (SPEC_FULL.md supplemented
// feature #3).
var errForAwaitUnsupported = errors.New("for-await-of loops are not supported")

// Analyze runs pass 1 over program and returns the populated State (spec.md
// §4.4). strict is the file's initial strict-mode status (an ESM module or
// a "use strict" prologue); commonJS selects the CommonJS top-level
// bindings (module/exports/require/__dirname/__filename).
func Analyze(program *ast.Program, store *block.Store, idents *ident.Allocator, filename string, strict, commonJS bool) (*State, error) {
	s := New(store, idents, filename, strict, commonJS)

	fileBlock := store.CreateBlock(nil, "file", false)
	s.CurrentBlock = fileBlock
	declareImplicit(s, fileBlock, commonJS)

	programBlock, restoreProgram := s.pushBlock("program", true)
	s.ProgramBlock = programBlock
	fileFn := block.NewFunction(programBlock.ID, program, nil, s.Trail.Len(), nil)
	fileFn.IsStrict = strict
	s.CurrentFunction = fileFn
	s.RootFunction = fileFn
	s.CurrentThisBlock = fileBlock
	if strict || commonJS || program.SourceType == "module" {
		s.CurrentHoistBlock = programBlock
	}

	trail.VisitSlice(s.Trail, "Body", len(program.Body), func(i int) {
		s.visitStmt(program.Body[i], func(n ast.Stmt) { program.Body[i] = n })
	})

	restoreProgram()
	return s, nil
}

func declareImplicit(s *State, fileBlock *block.Block, commonJS bool) {
	if commonJS {
		for _, name := range []string{"module", "exports", "require", "__dirname", "__filename"} {
			s.Store.CreateBindingWithoutNameCheck(fileBlock, name, block.Binding{IsConst: true})
		}
		s.Store.CreateBindingWithoutNameCheck(fileBlock, "arguments", block.Binding{IsConst: true})
	}
	s.Store.CreateBindingWithoutNameCheck(fileBlock, "this", block.Binding{IsConst: true})
}

// stmtSetter replaces the statement at the slot a visit call was made for,
// the statement-side counterpart of visit.Setter. Most statement positions
// (a block's body, a case's consequent) are replaceable since the
// transformer needs to splice hoisted declarations and injected prologues
// in; a nil stmtSetter marks a position nothing ever rewrites wholesale
// (e.g. a for-loop's own Body is replaced only by wrapping, not swapping).
type stmtSetter func(ast.Stmt)

func (s *State) visitStmt(n ast.Stmt, set stmtSetter) {
	_ = set // pass 1 never mutates; set exists so pass 2's transform package can reuse this dispatch shape
	stmtTable.Dispatch(s, n)
}

// stmtTable dispatches a statement node to its pass-1 handler, built once
// at package init from State method values (spec.md component "Visitor
// dispatch table").
var stmtTable = visit.StmtTable[*State]{
	ast.KindVariableDeclaration:      (*State).stmtVariableDeclaration,
	ast.KindExpressionStatement:      (*State).stmtExpressionStatement,
	ast.KindBlockStatement:           (*State).stmtBlockStatement,
	ast.KindReturnStatement:          (*State).stmtReturnStatement,
	ast.KindIfStatement:              (*State).stmtIfStatement,
	ast.KindWhileStatement:           (*State).stmtWhileStatement,
	ast.KindDoWhileStatement:         (*State).stmtDoWhileStatement,
	ast.KindForStatement:             (*State).stmtForStatement,
	ast.KindForInStatement:           (*State).stmtForInStatement,
	ast.KindForOfStatement:           (*State).stmtForOfStatement,
	ast.KindBreakStatement:           (*State).stmtNop,
	ast.KindContinueStatement:        (*State).stmtNop,
	ast.KindSwitchStatement:          (*State).stmtSwitchStatement,
	ast.KindThrowStatement:           (*State).stmtThrowStatement,
	ast.KindTryStatement:             (*State).stmtTryStatement,
	ast.KindFunctionDeclaration:      (*State).stmtFunctionDeclaration,
	ast.KindClassDeclaration:         (*State).stmtClassDeclaration,
	ast.KindLabeledStatement:         (*State).stmtLabeledStatement,
	ast.KindDebuggerStatement:        (*State).stmtNop,
	ast.KindEmptyStatement:           (*State).stmtNop,
	ast.KindWithStatement:            (*State).stmtWithStatement,
	ast.KindImportDeclaration:        (*State).stmtImportDeclaration,
	ast.KindExportNamedDeclaration:   (*State).stmtExportNamedDeclaration,
	ast.KindExportDefaultDeclaration: (*State).stmtExportDefaultDeclaration,
	ast.KindExportAllDeclaration:     (*State).stmtNop,
}

func (s *State) stmtNop(ast.Stmt) {}

func (s *State) stmtVariableDeclaration(n ast.Stmt) {
	decl := n.(*ast.VariableDeclaration)
	ctx := visit.DeclareVar
	switch decl.Kind_ {
	case "let":
		ctx = visit.DeclareLet
	case "const":
		ctx = visit.DeclareConst
	}
	trail.VisitSlice(s.Trail, "Declarations", len(decl.Declarations), func(i int) {
		d := decl.Declarations[i]
		trail.VisitOptionalField(s.Trail, "Init", d.Init != nil, func() {
			s.visitExpr(d.Init, visit.ReadOnly, func(e ast.Expr) { d.Init = e })
		})
		trail.VisitField(s.Trail, "Name", func() { s.visitExpr(d.Name, ctx, nil) })
	})
}

func (s *State) stmtExpressionStatement(n ast.Stmt) {
	st := n.(*ast.ExpressionStatement)
	trail.VisitField(s.Trail, "Expression", func() {
		s.visitExpr(st.Expression, visit.ReadOnly, func(e ast.Expr) { st.Expression = e })
	})
}

func (s *State) stmtBlockStatement(n ast.Stmt) {
	st := n.(*ast.BlockStatement)
	_, restore := s.pushBlock("block", false)
	defer restore()
	trail.VisitSlice(s.Trail, "Body", len(st.Body), func(i int) {
		s.visitStmt(st.Body[i], func(n ast.Stmt) { st.Body[i] = n })
	})
}

func (s *State) stmtReturnStatement(n ast.Stmt) {
	st := n.(*ast.ReturnStatement)
	trail.VisitOptionalField(s.Trail, "Argument", st.Argument != nil, func() {
		if _, ok := st.Argument.(*ast.SuperExpression); ok {
			s.CurrentFunction.ReturnsSuper = true
		}
		s.visitExpr(st.Argument, visit.ReadOnly, func(e ast.Expr) { st.Argument = e })
	})
}

func (s *State) stmtIfStatement(n ast.Stmt) {
	st := n.(*ast.IfStatement)
	trail.VisitField(s.Trail, "Test", func() {
		s.visitExpr(st.Test, visit.ReadOnly, func(e ast.Expr) { st.Test = e })
	})
	trail.VisitField(s.Trail, "Consequent", func() {
		s.visitStmt(st.Consequent, func(n ast.Stmt) { st.Consequent = n })
	})
	trail.VisitOptionalField(s.Trail, "Alternate", st.Alternate != nil, func() {
		s.visitStmt(st.Alternate, func(n ast.Stmt) { st.Alternate = n })
	})
}

func (s *State) stmtWhileStatement(n ast.Stmt) {
	st := n.(*ast.WhileStatement)
	trail.VisitField(s.Trail, "Test", func() {
		s.visitExpr(st.Test, visit.ReadOnly, func(e ast.Expr) { st.Test = e })
	})
	_, restore := s.pushBlock("loop_body", true)
	defer restore()
	trail.VisitField(s.Trail, "Body", func() { s.visitStmt(st.Body, func(n ast.Stmt) { st.Body = n }) })
}

func (s *State) stmtDoWhileStatement(n ast.Stmt) {
	st := n.(*ast.DoWhileStatement)
	func() {
		_, restore := s.pushBlock("loop_body", true)
		defer restore()
		trail.VisitField(s.Trail, "Body", func() { s.visitStmt(st.Body, func(n ast.Stmt) { st.Body = n }) })
	}()
	trail.VisitField(s.Trail, "Test", func() {
		s.visitExpr(st.Test, visit.ReadOnly, func(e ast.Expr) { st.Test = e })
	})
}

// stmtForStatement implements the `for` loop's two-block shape (spec.md
// §4.4 "Loops"): an init block whose vars_block is the body block, so `let`
// declarations in the init clause are visible in, and re-bound per
// iteration alongside, the body.
func (s *State) stmtForStatement(n ast.Stmt) {
	st := n.(*ast.ForStatement)
	initBlock, restoreInit := s.pushBlock("for_init", false)
	bodyBlock, restoreBody := s.pushBlock("for_body", true)
	initBlock.VarsBlock = bodyBlock

	trail.VisitOptionalField(s.Trail, "Init", st.Init != nil, func() {
		s.visitForInit(st.Init, func(n ast.Node) { st.Init = n })
	})
	trail.VisitOptionalField(s.Trail, "Test", st.Test != nil, func() {
		s.visitExpr(st.Test, visit.ReadOnly, func(e ast.Expr) { st.Test = e })
	})
	trail.VisitOptionalField(s.Trail, "Update", st.Update != nil, func() {
		s.visitExpr(st.Update, visit.ReadOnly, func(e ast.Expr) { st.Update = e })
	})
	trail.VisitField(s.Trail, "Body", func() { s.visitStmt(st.Body, func(n ast.Stmt) { st.Body = n }) })

	restoreBody()
	restoreInit()
}

func (s *State) visitForInit(n ast.Node, set func(ast.Node)) {
	if decl, ok := n.(*ast.VariableDeclaration); ok {
		s.stmtVariableDeclaration(decl)
		return
	}
	s.visitExpr(n.(ast.Expr), visit.ReadOnly, func(e ast.Expr) { set(e) })
}

func (s *State) stmtForInStatement(n ast.Stmt) {
	st := n.(*ast.ForInStatement)
	s.forInOf(st.Left, st.Right, st.Body, func(n ast.Node) { st.Left = n }, func(e ast.Expr) { st.Right = e }, func(n ast.Stmt) { st.Body = n })
}

// stmtForOfStatement implements the SUPPLEMENTED "for await" diagnostic
// (SPEC_FULL.md "Supplemented features" #3, Open Question 3): rather than
// silently mis-instrumenting a `for await` loop, raise a clear
// not-implemented error at the point it's encountered.
func (s *State) stmtForOfStatement(n ast.Stmt) {
	st := n.(*ast.ForOfStatement)
	if st.Await {
		s.fatal(n, errForAwaitUnsupported)
		return
	}
	s.forInOf(st.Left, st.Right, st.Body, func(n ast.Node) { st.Left = n }, func(e ast.Expr) { st.Right = e }, func(n ast.Stmt) { st.Body = n })
}

// forInOf shares the for-in / for-of walk: init.vars_block = body, and the
// init bindings are additionally cloned into a right-hand-side block so TDZ
// is enforced against the iterated expression (spec.md §4.4 "Loops").
func (s *State) forInOf(left ast.Node, right ast.Expr, body ast.Stmt, setLeft func(ast.Node), setRight func(ast.Expr), setBody func(ast.Stmt)) {
	_, restoreRHS := s.pushBlock("for_rhs", false)
	trail.VisitField(s.Trail, "Right", func() { s.visitExpr(right, visit.ReadOnly, setRight) })
	restoreRHS()

	initBlock, restoreInit := s.pushBlock("for_init", false)
	bodyBlock, restoreBody := s.pushBlock("for_body", true)
	initBlock.VarsBlock = bodyBlock

	trail.VisitField(s.Trail, "Left", func() { s.visitForLeft(left, setLeft) })
	trail.VisitField(s.Trail, "Body", func() { s.visitStmt(body, setBody) })

	restoreBody()
	restoreInit()
}

func (s *State) visitForLeft(n ast.Node, set func(ast.Node)) {
	if decl, ok := n.(*ast.VariableDeclaration); ok {
		ctx := visit.DeclareVar
		switch decl.Kind_ {
		case "let":
			ctx = visit.DeclareLet
		case "const":
			ctx = visit.DeclareConst
		}
		for _, d := range decl.Declarations {
			s.visitExpr(d.Name, ctx, nil)
		}
		return
	}
	s.visitExpr(n.(ast.Expr), visit.AssignOnly, func(e ast.Expr) { set(e) })
}

func (s *State) stmtSwitchStatement(n ast.Stmt) {
	st := n.(*ast.SwitchStatement)
	trail.VisitField(s.Trail, "Discriminant", func() {
		s.visitExpr(st.Discriminant, visit.ReadOnly, func(e ast.Expr) { st.Discriminant = e })
	})
	_, restore := s.pushBlock("switch", false)
	defer restore()
	trail.VisitSlice(s.Trail, "Cases", len(st.Cases), func(i int) {
		c := st.Cases[i]
		trail.VisitOptionalField(s.Trail, "Test", c.Test != nil, func() {
			s.visitExpr(c.Test, visit.ReadOnly, func(e ast.Expr) { c.Test = e })
		})
		trail.VisitSlice(s.Trail, "Consequent", len(c.Consequent), func(j int) {
			s.visitStmt(c.Consequent[j], func(n ast.Stmt) { c.Consequent[j] = n })
		})
	})
}

func (s *State) stmtThrowStatement(n ast.Stmt) {
	st := n.(*ast.ThrowStatement)
	trail.VisitField(s.Trail, "Argument", func() {
		s.visitExpr(st.Argument, visit.ReadOnly, func(e ast.Expr) { st.Argument = e })
	})
}

func (s *State) stmtTryStatement(n ast.Stmt) {
	st := n.(*ast.TryStatement)
	trail.VisitField(s.Trail, "Block", func() { s.stmtBlockStatement(st.Block) })
	trail.VisitOptionalField(s.Trail, "Handler", st.Handler != nil, func() {
		h := st.Handler
		_, restore := s.pushBlock("catch", false)
		defer restore()
		trail.VisitOptionalField(s.Trail, "Param", h.Param != nil, func() {
			s.visitExpr(h.Param, visit.DeclareLet, nil)
		})
		trail.VisitSlice(s.Trail, "Body", len(h.Body.Body), func(i int) {
			s.visitStmt(h.Body.Body[i], func(n ast.Stmt) { h.Body.Body[i] = n })
		})
	})
	trail.VisitOptionalField(s.Trail, "Finalizer", st.Finalizer != nil, func() {
		s.stmtBlockStatement(st.Finalizer)
	})
}

func (s *State) stmtLabeledStatement(n ast.Stmt) {
	st := n.(*ast.LabeledStatement)
	trail.VisitField(s.Trail, "Body", func() { s.visitStmt(st.Body, func(n ast.Stmt) { st.Body = n }) })
}

// stmtWithStatement creates a `with` block bound to a synthetic name, used
// downstream by the transformer's with-rewrite to interact with the
// eval-capture hook (spec.md §4.4 "with", §4.5 "With transformation").
func (s *State) stmtWithStatement(n ast.Stmt) {
	st := n.(*ast.WithStatement)
	trail.VisitField(s.Trail, "Object", func() {
		s.visitExpr(st.Object, visit.ReadOnly, func(e ast.Expr) { st.Object = e })
	})
	withBlock, restore := s.pushBlock("with", false)
	defer restore()
	trail.VisitField(s.Trail, "Body", func() { s.visitStmt(st.Body, func(n ast.Stmt) { st.Body = n }) })
	s.WithStmts = append(s.WithStmts, WithStmt{Stmt: st, Block: withBlock})
}

func (s *State) stmtImportDeclaration(n ast.Stmt) {
	s.CurrentFunction.ContainsImport = true
}

func (s *State) stmtExportNamedDeclaration(n ast.Stmt) {
	st := n.(*ast.ExportNamedDeclaration)
	if st.Declaration != nil {
		trail.VisitField(s.Trail, "Declaration", func() {
			s.visitStmt(st.Declaration, func(n ast.Stmt) { st.Declaration = n })
		})
	}
}

func (s *State) stmtExportDefaultDeclaration(n ast.Stmt) {
	st := n.(*ast.ExportDefaultDeclaration)
	trail.VisitField(s.Trail, "Declaration", func() {
		switch d := st.Declaration.(type) {
		case ast.Stmt:
			s.visitStmt(d, func(n ast.Stmt) { st.Declaration = n })
		case ast.Expr:
			s.visitExpr(d, visit.ReadOnly, func(e ast.Expr) { st.Declaration = e })
		}
	})
}
