package analyzer

import (
	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/trail"
	"github.com/mna/jsinstrument/internal/visit"
)

func (s *State) stmtFunctionDeclaration(n ast.Stmt) {
	decl := n.(*ast.FunctionDeclaration)
	if decl.Id != nil {
		isTopLevel := s.CurrentBlock.Parent == nil
		if _, err := s.declare(decl.Id.Name, isTopLevel && s.IsCommonJS, block.Binding{IsVar: true, IsFunction: true}); err != nil {
			s.fatal(n, err)
		}
		if !isTopLevel && s.CurrentBlock != s.CurrentHoistBlock {
			s.SloppyFuncDecls = append(s.SloppyFuncDecls, SloppyFuncDecl{
				Name:  decl.Id.Name,
				Decl:  decl,
				Block: s.CurrentBlock,
				Hoist: s.CurrentHoistBlock,
			})
		}
	}
	s.analyzeFunction(decl, decl.Params, decl.Body, funcOpts{async: decl.Async, generator: decl.Generator})
}

func (s *State) exprFunctionExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	fe := n.(*ast.FunctionExpression)
	s.analyzeFunction(fe, fe.Params, fe.Body, funcOpts{async: fe.Async, generator: fe.Generator, name: fe.Id})
}

func (s *State) exprArrowFunctionExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	fe := n.(*ast.ArrowFunctionExpression)
	s.analyzeFunction(fe, fe.Params, fe.Body, funcOpts{async: fe.Async, arrow: true})
}

type funcOpts struct {
	async, generator, arrow bool
	name                    *ast.Identifier // function expression's own (silent-const) name, if any
}

// analyzeFunction implements spec.md §4.4 "Function/Arrow/Method": a
// params block, optionally a separate body block (vars_block redirected to
// it for simple-param functions), this/arguments/new.target bindings for
// non-arrow functions, and the first-non-simple-param detection that pins
// vars_block back to params.
func (s *State) analyzeFunction(node ast.Node, params []ast.Expr, body ast.Node, opts funcOpts) {
	paramsBlock, restoreParams := s.pushBlock("params", true)

	parentFn := s.CurrentFunction
	defTrail := s.Trail.Since(parentFn.TrailBase)
	fn := block.NewFunction(paramsBlock.ID, node, parentFn, s.Trail.Len(), defTrail)
	fn.IsStrict = s.IsStrict
	prevFn, prevThis, prevHoist := s.CurrentFunction, s.CurrentThisBlock, s.CurrentHoistBlock
	s.CurrentFunction = fn
	s.CurrentHoistBlock = paramsBlock

	if opts.name != nil {
		s.Store.CreateBindingWithoutNameCheck(paramsBlock, opts.name.Name, block.Binding{IsConst: true, IsSilentConst: true})
	}
	if !opts.arrow {
		s.Store.CreateBindingWithoutNameCheck(paramsBlock, "this", block.Binding{IsConst: true})
		s.Store.CreateBindingWithoutNameCheck(paramsBlock, "new.target", block.Binding{IsConst: true})
		s.CurrentThisBlock = paramsBlock
	}

	blockBody, isBlockBody := body.(*ast.BlockStatement)
	var restoreBody func()
	if isBlockBody {
		bodyBlock, rb := s.pushBlock("body", true)
		paramsBlock.VarsBlock = bodyBlock
		restoreBody = rb
	}

	trail.VisitSlice(s.Trail, "Params", len(params), func(i int) {
		s.visitExpr(params[i], visit.DeclareVar, func(e ast.Expr) { params[i] = e })
	})

	if isBlockBody {
		if isUseStrict(blockBody) {
			fn.IsStrict = true
		}
		trail.VisitField(s.Trail, "Body", func() {
			trail.VisitSlice(s.Trail, "Body", len(blockBody.Body), func(i int) {
				s.visitStmt(blockBody.Body[i], func(n ast.Stmt) { blockBody.Body[i] = n })
			})
		})
		restoreBody()
	} else if bodyExpr, ok := body.(ast.Expr); ok {
		trail.VisitField(s.Trail, "Body", func() {
			// The concise-body setter target is resolved by the caller's own
			// expr handler (Body is typed Node, so the setter only needs to
			// satisfy that interface).
			s.visitExpr(bodyExpr, visit.ReadOnly, nil)
		})
	}

	if !opts.arrow {
		if _, userDeclared := paramsBlock.Lookup("arguments"); !userDeclared {
			argNames := simpleParamNames(params)
			s.Store.CreateBindingWithoutNameCheck(paramsBlock, "arguments", block.Binding{IsConst: false, IsVar: true, ArgNames: argNames})
		}
	}

	fn.FirstComplexParamIndex = firstComplexParamIndex(params)
	if fn.FirstComplexParamIndex >= 0 {
		paramsBlock.VarsBlock = paramsBlock
	}

	s.CurrentFunction, s.CurrentThisBlock, s.CurrentHoistBlock = prevFn, prevThis, prevHoist
	restoreParams()
}

// simpleParamNames returns params as names when every one is a plain
// identifier (the condition under which `arguments` may alias them), or
// nil otherwise.
func simpleParamNames(params []ast.Expr) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		id, ok := p.(*ast.Identifier)
		if !ok {
			return nil
		}
		names = append(names, id.Name)
	}
	return names
}

func firstComplexParamIndex(params []ast.Expr) int {
	for i, p := range params {
		if _, ok := p.(*ast.Identifier); !ok {
			return i
		}
	}
	return -1
}

func isUseStrict(body *ast.BlockStatement) bool {
	if len(body.Body) == 0 {
		return false
	}
	es, ok := body.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	sl, ok := es.Expression.(*ast.StringLiteral)
	return ok && sl.Value == "use strict"
}

// stmtClassDeclaration and exprClassExpression share classBody: strict by
// default, a name block and a super-target block, extends clause visited
// first, then constructor, then prototype properties (own `this` block),
// then static members, then methods, then computed keys in the outer scope
// (spec.md §4.4 "Class").
func (s *State) stmtClassDeclaration(n ast.Stmt) {
	decl := n.(*ast.ClassDeclaration)
	if decl.Id != nil {
		isTopLevel := s.CurrentBlock.Parent == nil
		if _, err := s.declare(decl.Id.Name, isTopLevel && s.IsCommonJS, block.Binding{IsConst: true}); err != nil {
			s.fatal(n, err)
		}
	}
	s.classBody(decl.Id, decl.SuperClass, decl.Body)
}

func (s *State) exprClassExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	ce := n.(*ast.ClassExpression)
	s.classBody(ce.Id, ce.SuperClass, ce.Body)
}

func (s *State) classBody(name *ast.Identifier, superClass ast.Expr, body *ast.ClassBody) {
	prevStrict := s.IsStrict
	s.IsStrict = true
	defer func() { s.IsStrict = prevStrict }()

	nameBlock, restoreName := s.pushBlock("class_name", false)
	if name != nil {
		s.Store.CreateBindingWithoutNameCheck(nameBlock, name.Name, block.Binding{IsConst: true, IsSilentConst: true})
	}

	if superClass != nil {
		trail.VisitField(s.Trail, "SuperClass", func() { s.visitExpr(superClass, visit.ReadOnly, nil) })
	}

	superBlock, restoreSuper := s.pushBlock("class_super", false)
	prevSuper, prevThis := s.CurrentSuperBlock, s.CurrentThisBlock
	s.CurrentSuperBlock = superBlock
	s.SuperIsProto = superClass != nil

	var ctor *ast.MethodDefinition
	for _, m := range body.Body {
		if md, ok := m.(*ast.MethodDefinition); ok && md.Kind_ == "constructor" {
			ctor = md
		}
	}
	if ctor != nil {
		// analyzeFunction gives the constructor its own this/arguments/
		// new.target bindings in its params block, the normal function shape.
		s.analyzeFunction(ctor.Value, ctor.Value.Params, ctor.Value.Body, funcOpts{})
	}

	// Prototype (instance) properties share one `this` block distinct from
	// the constructor's.
	instanceThis, restoreInstanceThis := s.pushBlock("instance_this", false)
	s.CurrentThisBlock = instanceThis
	for _, m := range body.Body {
		pd, ok := m.(*ast.PropertyDefinition)
		if !ok || pd.Static || pd.Value == nil {
			continue
		}
		s.visitExpr(pd.Value, visit.ReadOnly, func(e ast.Expr) { pd.Value = e })
	}
	restoreInstanceThis()

	// Static properties and static blocks share their own `this` block.
	staticThis, restoreStaticThis := s.pushBlock("static_this", true)
	s.CurrentThisBlock = staticThis
	for _, m := range body.Body {
		switch v := m.(type) {
		case *ast.PropertyDefinition:
			if !v.Static || v.Value == nil {
				continue
			}
			s.visitExpr(v.Value, visit.ReadOnly, func(e ast.Expr) { v.Value = e })
		case *ast.StaticBlock:
			_, restore := s.pushBlock("static_block", true)
			for i := range v.Body {
				s.visitStmt(v.Body[i], func(n ast.Stmt) { v.Body[i] = n })
			}
			restore()
		}
	}
	restoreStaticThis()

	// Methods (other than the constructor already handled above) are
	// ordinary functions: analyzeFunction gives each its own this binding.
	for _, m := range body.Body {
		md, ok := m.(*ast.MethodDefinition)
		if !ok || md.Kind_ == "constructor" {
			continue
		}
		s.analyzeFunction(md.Value, md.Value.Params, md.Value.Body, funcOpts{async: md.Value.Async, generator: md.Value.Generator})
	}

	s.ClassInfos = append(s.ClassInfos, ClassInfo{
		Body:              body,
		SuperBlock:        superBlock,
		EnclosingFunction: s.CurrentFunction,
		HasSuperClass:     superClass != nil,
		HasConstructor:    ctor != nil,
	})

	s.CurrentSuperBlock, s.CurrentThisBlock = prevSuper, prevThis
	restoreSuper()

	// Computed keys live in the outer scope, not the class body's super
	// block (spec.md §4.4 "Class").
	for _, m := range body.Body {
		switch v := m.(type) {
		case *ast.MethodDefinition:
			if v.Computed {
				s.visitExpr(v.Key, visit.ReadOnly, func(e ast.Expr) { v.Key = e })
			}
		case *ast.PropertyDefinition:
			if v.Computed {
				s.visitExpr(v.Key, visit.ReadOnly, func(e ast.Expr) { v.Key = e })
			}
		}
	}

	restoreName()
}
