package analyzer

import (
	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/resolve"
	"github.com/mna/jsinstrument/internal/trail"
	"github.com/mna/jsinstrument/internal/visit"
)

func (s *State) visitExpr(n ast.Expr, ctx visit.Context, set visit.Setter) {
	exprTable.Dispatch(s, n, ctx, set)
}

var exprTable = visit.ExprTable[*State]{
	ast.KindIdentifier:              (*State).exprIdentifier,
	ast.KindPrivateIdentifier:       (*State).exprLeaf,
	ast.KindNumberLiteral:           (*State).exprLeaf,
	ast.KindStringLiteral:           (*State).exprLeaf,
	ast.KindBooleanLiteral:          (*State).exprLeaf,
	ast.KindNullLiteral:             (*State).exprLeaf,
	ast.KindRegExpLiteral:           (*State).exprLeaf,
	ast.KindArrayExpression:         (*State).exprArrayExpression,
	ast.KindObjectExpression:        (*State).exprObjectExpression,
	ast.KindFunctionExpression:      (*State).exprFunctionExpression,
	ast.KindArrowFunctionExpression: (*State).exprArrowFunctionExpression,
	ast.KindUnaryExpression:         (*State).exprUnaryExpression,
	ast.KindUpdateExpression:        (*State).exprUpdateExpression,
	ast.KindBinaryExpression:        (*State).exprBinaryExpression,
	ast.KindLogicalExpression:       (*State).exprLogicalExpression,
	ast.KindAssignmentExpression:    (*State).exprAssignmentExpression,
	ast.KindConditionalExpression:   (*State).exprConditionalExpression,
	ast.KindCallExpression:          (*State).exprCallExpression,
	ast.KindMemberExpression:        (*State).exprMemberExpression,
	ast.KindNewExpression:           (*State).exprNewExpression,
	ast.KindSequenceExpression:      (*State).exprSequenceExpression,
	ast.KindTemplateLiteral:         (*State).exprTemplateLiteral,
	ast.KindTaggedTemplateExpression: (*State).exprTaggedTemplateExpression,
	ast.KindSpreadElement:           (*State).exprSpreadElement,
	ast.KindYieldExpression:         (*State).exprYieldExpression,
	ast.KindAwaitExpression:         (*State).exprAwaitExpression,
	ast.KindClassExpression:         (*State).exprClassExpression,
	ast.KindThisExpression:          (*State).exprThisExpression,
	ast.KindSuperExpression:         (*State).exprSuperExpression,
	ast.KindMetaProperty:            (*State).exprMetaProperty,
	ast.KindObjectPattern:           (*State).exprObjectPattern,
	ast.KindArrayPattern:            (*State).exprArrayPattern,
	ast.KindAssignmentPattern:       (*State).exprAssignmentPattern,
	ast.KindRestElement:             (*State).exprRestElement,
}

func (s *State) exprLeaf(ast.Expr, visit.Context, visit.Setter) {}

// exprIdentifier implements spec.md §4.4 "Identifiers" and the `eval`
// identifier special case. Declarations create a binding immediately;
// uses enqueue a deferred resolve job, capturing an immutable trail
// snapshot relative to the enclosing function's root.
func (s *State) exprIdentifier(n ast.Expr, ctx visit.Context, set visit.Setter) {
	id := n.(*ast.Identifier)

	if ctx.IsDeclaration() {
		props := block.Binding{
			IsConst: ctx == visit.DeclareConst,
			IsVar:   ctx == visit.DeclareVar,
		}
		isTopLevel := s.CurrentBlock.Parent == nil
		if _, err := s.declare(id.Name, isTopLevel && s.IsCommonJS, props); err != nil {
			s.fatal(n, err)
		}
		return
	}
	s.observeIdent(id.Name)

	if id.Name == "eval" {
		s.CurrentFunction.ContainsEval = true
		if set != nil {
			s.enqueueLocalEvalRewrite(set)
		}
		return
	}

	useBlock, fn, tr := s.CurrentBlock, s.CurrentFunction, s.Trail.Since(s.CurrentFunction.TrailBase)
	name := id.Name
	s.Jobs.Enqueue(func() error { return resolve.Identifier(name, ctx, useBlock, fn, tr) })
}

func (s *State) enqueueLocalEvalRewrite(set visit.Setter) {
	idents := s.Idents
	s.Jobs.Enqueue(func() error {
		set(resolve.LocalEvalIdentifier(idents))
		return nil
	})
}

func (s *State) fatal(n ast.Node, err error) {
	// Pass-1 visitor errors are fatal per spec.md §4.10; the driver recovers
	// this panic at the file boundary and attaches location info.
	panic(analyzeError{node: n, err: err})
}

type analyzeError struct {
	node ast.Node
	err  error
}

func (e analyzeError) Error() string { return e.err.Error() }
func (e analyzeError) Unwrap() error { return e.err }
func (e analyzeError) Node() ast.Node { return e.node }

func (s *State) exprArrayExpression(n ast.Expr, ctx visit.Context, _ visit.Setter) {
	arr := n.(*ast.ArrayExpression)
	trail.VisitSparseSlice(s.Trail, "Elements", len(arr.Elements),
		func(i int) bool { return arr.Elements[i] != nil },
		func(i int) {
			el := arr.Elements[i]
			s.visitExpr(el, elementCtx(ctx), func(e ast.Expr) { arr.Elements[i] = e })
		})
}

// elementCtx propagates a pattern's declare/assign context down into array
// and object element positions; read contexts stay read-only.
func elementCtx(ctx visit.Context) visit.Context { return ctx }

func (s *State) exprObjectExpression(n ast.Expr, ctx visit.Context, _ visit.Setter) {
	obj := n.(*ast.ObjectExpression)
	if ctx.IsDeclaration() || ctx == visit.AssignOnly {
		s.visitPatternProperties(obj.Properties, ctx)
		return
	}
	// Object literal: properties/spread first, then methods inside a new
	// super block, then computed keys in the outer scope (spec.md §4.4
	// "Object literal").
	superBlock, restore := s.pushBlock("object_super", false)
	prevSuper := s.CurrentSuperBlock
	s.CurrentSuperBlock = superBlock
	trail.VisitSlice(s.Trail, "Properties", len(obj.Properties), func(i int) {
		p := obj.Properties[i]
		if p.Computed {
			return
		}
		trail.VisitField(s.Trail, "Value", func() {
			s.visitExpr(p.Value, visit.ReadOnly, func(e ast.Expr) { p.Value = e })
		})
	})
	s.CurrentSuperBlock = prevSuper
	restore()

	trail.VisitSlice(s.Trail, "Properties", len(obj.Properties), func(i int) {
		p := obj.Properties[i]
		if !p.Computed {
			return
		}
		trail.VisitField(s.Trail, "Key", func() {
			s.visitExpr(p.Key, visit.ReadOnly, func(e ast.Expr) { p.Key = e })
		})
	})
}

func (s *State) visitPatternProperties(props []*ast.Property, ctx visit.Context) {
	for i, p := range props {
		idx := i
		if p.Computed {
			trail.VisitField(s.Trail, "Key", func() {
				s.visitExpr(p.Key, visit.ReadOnly, func(e ast.Expr) { props[idx].Key = e })
			})
		}
		trail.VisitField(s.Trail, "Value", func() {
			s.visitExpr(p.Value, ctx, func(e ast.Expr) { props[idx].Value = e })
		})
	}
}

func (s *State) exprUnaryExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	u := n.(*ast.UnaryExpression)
	trail.VisitField(s.Trail, "Argument", func() {
		s.visitExpr(u.Argument, visit.ReadOnly, func(e ast.Expr) { u.Argument = e })
	})
}

func (s *State) exprUpdateExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	u := n.(*ast.UpdateExpression)
	trail.VisitField(s.Trail, "Argument", func() {
		s.visitExpr(u.Argument, visit.ReadAndAssign, func(e ast.Expr) { u.Argument = e })
	})
}

func (s *State) exprBinaryExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	b := n.(*ast.BinaryExpression)
	trail.VisitField(s.Trail, "Left", func() { s.visitExpr(b.Left, visit.ReadOnly, func(e ast.Expr) { b.Left = e }) })
	trail.VisitField(s.Trail, "Right", func() { s.visitExpr(b.Right, visit.ReadOnly, func(e ast.Expr) { b.Right = e }) })
}

func (s *State) exprLogicalExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	b := n.(*ast.LogicalExpression)
	trail.VisitField(s.Trail, "Left", func() { s.visitExpr(b.Left, visit.ReadOnly, func(e ast.Expr) { b.Left = e }) })
	trail.VisitField(s.Trail, "Right", func() { s.visitExpr(b.Right, visit.ReadOnly, func(e ast.Expr) { b.Right = e }) })
}

func (s *State) exprAssignmentExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	a := n.(*ast.AssignmentExpression)
	trail.VisitField(s.Trail, "Right", func() { s.visitExpr(a.Right, visit.ReadOnly, func(e ast.Expr) { a.Right = e }) })
	leftCtx := visit.AssignOnly
	if a.Operator != "=" {
		leftCtx = visit.ReadAndAssign
	}
	trail.VisitField(s.Trail, "Left", func() { s.visitExpr(a.Left, leftCtx, func(e ast.Expr) { a.Left = e }) })
}

func (s *State) exprConditionalExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	c := n.(*ast.ConditionalExpression)
	trail.VisitField(s.Trail, "Test", func() { s.visitExpr(c.Test, visit.ReadOnly, func(e ast.Expr) { c.Test = e }) })
	trail.VisitField(s.Trail, "Consequent", func() { s.visitExpr(c.Consequent, visit.ReadOnly, func(e ast.Expr) { c.Consequent = e }) })
	trail.VisitField(s.Trail, "Alternate", func() { s.visitExpr(c.Alternate, visit.ReadOnly, func(e ast.Expr) { c.Alternate = e }) })
}

// exprCallExpression implements spec.md §4.4's "eval(...) call" special
// case: a direct call (Callee is the bare identifier `eval`, not through a
// member or a computed alias) with a non-spread first argument marks every
// ancestor function's containsEval and enqueues the tracker-mediated
// rewrite (spec.md §4.5 "Eval rewrite").
func (s *State) exprCallExpression(n ast.Expr, _ visit.Context, set visit.Setter) {
	c := n.(*ast.CallExpression)
	if _, isSuper := c.Callee.(*ast.SuperExpression); isSuper {
		trail.VisitField(s.Trail, "Callee", func() { s.useSuper(c.Callee, block.SuperCall) })
	} else {
		trail.VisitField(s.Trail, "Callee", func() {
			s.visitExpr(c.Callee, visit.ReadOnly, func(e ast.Expr) { c.Callee = e })
		})
	}
	trail.VisitSlice(s.Trail, "Arguments", len(c.Arguments), func(i int) {
		s.visitExpr(c.Arguments[i], visit.ReadOnly, func(e ast.Expr) { c.Arguments[i] = e })
	})

	if isBareEval(c.Callee) && isDirectEvalCall(c) {
		for fn := s.CurrentFunction; fn != nil; fn = fn.Parent {
			fn.ContainsEval = true
		}
		if set != nil {
			s.enqueueEvalCallRewrite(c, set)
		}
	}
}

func isBareEval(callee ast.Expr) bool {
	id, ok := callee.(*ast.Identifier)
	return ok && id.Name == "eval"
}

func isDirectEvalCall(c *ast.CallExpression) bool {
	if len(c.Arguments) == 0 {
		return false
	}
	_, spread := c.Arguments[0].(*ast.SpreadElement)
	return !spread
}

func (s *State) enqueueEvalCallRewrite(call *ast.CallExpression, set visit.Setter) {
	useBlock, fn := s.CurrentBlock, s.CurrentFunction
	idents, store := s.Idents, s.Store
	isStrict := s.IsStrict
	hoistBlock := s.CurrentHoistBlock
	var hoistID *int
	if hoistBlock != nil {
		id := hoistBlock.ID
		hoistID = &id
	}
	s.Jobs.Enqueue(func() error {
		scopes := resolve.BuildEvalScopes(useBlock, fn, idents, store, isStrict, hoistBlock)
		temp := store.CreateBlockTempVar(useBlock, idents.TempVarName)
		tracker := idents.Tracker()
		replacement := resolve.EvalCall(call, temp, tracker, scopes, isStrict, idents.PrefixChangedInEval, hoistID)
		set(replacement)
		return nil
	})
}

func (s *State) exprMemberExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	m := n.(*ast.MemberExpression)
	trail.VisitField(s.Trail, "Object", func() {
		s.visitExpr(m.Object, visit.ReadOnly, func(e ast.Expr) { m.Object = e })
	})
	if m.Computed {
		trail.VisitField(s.Trail, "Property", func() {
			s.visitExpr(m.Property, visit.ReadOnly, func(e ast.Expr) { m.Property = e })
		})
	}
}

func (s *State) exprNewExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	e := n.(*ast.NewExpression)
	trail.VisitField(s.Trail, "Callee", func() { s.visitExpr(e.Callee, visit.ReadOnly, func(x ast.Expr) { e.Callee = x }) })
	trail.VisitSlice(s.Trail, "Arguments", len(e.Arguments), func(i int) {
		s.visitExpr(e.Arguments[i], visit.ReadOnly, func(x ast.Expr) { e.Arguments[i] = x })
	})
}

func (s *State) exprSequenceExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	seq := n.(*ast.SequenceExpression)
	trail.VisitSlice(s.Trail, "Expressions", len(seq.Expressions), func(i int) {
		s.visitExpr(seq.Expressions[i], visit.ReadOnly, func(e ast.Expr) { seq.Expressions[i] = e })
	})
}

func (s *State) exprTemplateLiteral(n ast.Expr, _ visit.Context, _ visit.Setter) {
	t := n.(*ast.TemplateLiteral)
	trail.VisitSlice(s.Trail, "Expressions", len(t.Expressions), func(i int) {
		s.visitExpr(t.Expressions[i], visit.ReadOnly, func(e ast.Expr) { t.Expressions[i] = e })
	})
}

func (s *State) exprTaggedTemplateExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	t := n.(*ast.TaggedTemplateExpression)
	trail.VisitField(s.Trail, "Tag", func() { s.visitExpr(t.Tag, visit.ReadOnly, func(e ast.Expr) { t.Tag = e }) })
	trail.VisitField(s.Trail, "Quasi", func() { s.exprTemplateLiteral(t.Quasi, visit.ReadOnly, nil) })
}

func (s *State) exprSpreadElement(n ast.Expr, ctx visit.Context, _ visit.Setter) {
	sp := n.(*ast.SpreadElement)
	trail.VisitField(s.Trail, "Argument", func() {
		s.visitExpr(sp.Argument, ctx, func(e ast.Expr) { sp.Argument = e })
	})
}

func (s *State) exprYieldExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	y := n.(*ast.YieldExpression)
	trail.VisitOptionalField(s.Trail, "Argument", y.Argument != nil, func() {
		s.visitExpr(y.Argument, visit.ReadOnly, func(e ast.Expr) { y.Argument = e })
	})
}

func (s *State) exprAwaitExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	a := n.(*ast.AwaitExpression)
	trail.VisitField(s.Trail, "Argument", func() {
		s.visitExpr(a.Argument, visit.ReadOnly, func(e ast.Expr) { a.Argument = e })
	})
}

// exprThisExpression resolves `this` eagerly against CurrentThisBlock and
// records it as an external var when the this-binding predates the current
// function (spec.md §4.4 "this / new.target").
func (s *State) exprThisExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	s.resolveLexical(n, "this")
}

func (s *State) exprMetaProperty(n ast.Expr, _ visit.Context, _ visit.Setter) {
	mp := n.(*ast.MetaProperty)
	if mp.Meta == "new" && mp.Property == "target" {
		s.resolveLexical(n, "new.target")
	}
}

func (s *State) resolveLexical(n ast.Node, name string) {
	thisBlock := s.CurrentThisBlock
	if thisBlock == nil {
		return
	}
	bdg, ok := thisBlock.Lookup(name)
	if !ok {
		return
	}
	tr := s.Trail.Since(s.CurrentFunction.TrailBase)
	if thisBlock.ID < s.CurrentFunction.ID {
		ev := s.CurrentFunction.ExternalVarFor(thisBlock, name, bdg)
		ev.IsReadFrom = true
		ev.Trails = append(ev.Trails, tr)
	} else {
		s.CurrentFunction.RecordInternalVar(name, tr)
	}
}

// exprSuperExpression implements spec.md §4.4 "super": lazily activates a
// super binding in CurrentSuperBlock, records the use as an external var,
// appends a SUPER_EXPRESSION amendment, and propagates SuperIsProto up the
// function chain until a function whose id predates the super block.
func (s *State) exprSuperExpression(n ast.Expr, _ visit.Context, _ visit.Setter) {
	s.useSuper(n, block.SuperExpression)
}

func (s *State) useSuper(n ast.Node, kind block.AmendmentKind) {
	sb := s.CurrentSuperBlock
	if sb == nil {
		return
	}
	bdg, ok := sb.Lookup("super")
	if !ok {
		b, _ := s.Store.CreateBinding(sb, "super", false, block.Binding{IsConst: true, IsSilentConst: true})
		bdg = b
	}
	fn := s.CurrentFunction
	tr := s.Trail.Since(fn.TrailBase)
	fn.ExternalVarFor(sb, "super", bdg).IsReadFrom = true
	fn.Amendments = append(fn.Amendments, block.Amendment{Kind: kind, BlockID: sb.ID, Trail: tr})

	for f := fn; f != nil && f.ID >= sb.ID; f = f.Parent {
		f.SuperIsProto = s.SuperIsProto
	}
	if fn.Node != nil {
		if _, isArrow := fn.Node.(*ast.ArrowFunctionExpression); isArrow {
			if thisBdg, ok := s.CurrentThisBlock.Lookup("this"); ok {
				fn.ExternalVarFor(s.CurrentThisBlock, "this", thisBdg)
			}
		}
	}
}

func (s *State) exprObjectPattern(n ast.Expr, ctx visit.Context, _ visit.Setter) {
	p := n.(*ast.ObjectPattern)
	s.visitPatternProperties(p.Properties, ctx)
}

func (s *State) exprArrayPattern(n ast.Expr, ctx visit.Context, _ visit.Setter) {
	p := n.(*ast.ArrayPattern)
	trail.VisitSparseSlice(s.Trail, "Elements", len(p.Elements),
		func(i int) bool { return p.Elements[i] != nil },
		func(i int) {
			s.visitExpr(p.Elements[i], ctx, func(e ast.Expr) { p.Elements[i] = e })
		})
}

func (s *State) exprAssignmentPattern(n ast.Expr, ctx visit.Context, _ visit.Setter) {
	p := n.(*ast.AssignmentPattern)
	trail.VisitField(s.Trail, "Right", func() {
		s.visitExpr(p.Right, visit.ReadOnly, func(e ast.Expr) { p.Right = e })
	})
	trail.VisitField(s.Trail, "Left", func() {
		s.visitExpr(p.Left, ctx, func(e ast.Expr) { p.Left = e })
	})
}

func (s *State) exprRestElement(n ast.Expr, ctx visit.Context, _ visit.Setter) {
	r := n.(*ast.RestElement)
	trail.VisitField(s.Trail, "Argument", func() {
		s.visitExpr(r.Argument, ctx, func(e ast.Expr) { r.Argument = e })
	})
}
