// Package inject implements the tracking injector (spec.md §4.6): the
// code that actually splices the per-function `tracker(...)` call (and
// its scope-id/temp preamble) into a function whose analysis (pass 1) and
// scope rewriting (pass 2 job queue, internal/resolve) are already done.
//
// Grounded on the teacher's injection style in
// lang/compiler/compiler.go, which prepends synthesized bookkeeping
// statements to a function body ahead of user code; generalized here from
// a fixed bytecode preamble to the two call shapes spec.md §4.6
// describes (body path vs. param path).
package inject

import "github.com/mna/jsinstrument/ast"

// ScopeRef is one entry of the tracker callback's lazily-evaluated scope
// array: `[<scopeIdVar>, <externalVarNode>, ...]`.
type ScopeRef struct {
	ScopeIDVar *ast.Identifier
	VarNodes   []*ast.Identifier
}

// Body implements the body path (spec.md §4.6 "Body path (simple
// params)"): prepend `const <scopeId> = getScopeId();`, optional
// `let <temp1>, <temp2>, …;`, then the tracker call as an expression
// statement, ahead of fn's existing body statements.
func Body(existing []ast.Stmt, getScopeID *ast.Identifier, scopeIDVar *ast.Identifier, temps []*ast.Identifier, trackerCall ast.Expr) []ast.Stmt {
	var prefix []ast.Stmt
	prefix = append(prefix, ast.NewVarDecl("const", []string{scopeIDVar.Name}, []ast.Expr{ast.NewCall(getScopeID)}))
	if len(temps) > 0 {
		names := make([]string, len(temps))
		for i, t := range temps {
			names[i] = t.Name
		}
		prefix = append(prefix, ast.NewVarDecl("let", names, nil))
	}
	prefix = append(prefix, ast.NewExprStmt(trackerCall))
	return append(prefix, existing...)
}

// WrapConciseBody turns an arrow function's expression body into a block
// `{ return <expr>; }` so Body's statement-prepending shape applies
// uniformly (spec.md §4.6 "If the body is an expression (arrow), wrap it
// in a block first and rewrite the former body into a return").
func WrapConciseBody(expr ast.Expr) *ast.BlockStatement {
	return ast.NewBlock(ast.NewReturn(expr))
}

// TrackerCall builds the `tracker(<fnInfo>, () => [...])` expression
// (spec.md §4.8 "Tracker-call construction"): fnInfo is a call to the
// function-info declaration, and the second argument lazily evaluates the
// scope array only when the tracker actually needs it (reading a captured
// value that may not exist yet at injection time).
func TrackerCall(tracker, fnInfo *ast.Identifier, scopes []ScopeRef) ast.Expr {
	scopeArray := make([]ast.Expr, len(scopes))
	for i, sc := range scopes {
		entries := make([]ast.Expr, 0, 1+len(sc.VarNodes))
		entries = append(entries, sc.ScopeIDVar)
		for _, v := range sc.VarNodes {
			entries = append(entries, v)
		}
		scopeArray[i] = ast.NewArray(entries...)
	}
	lazy := ast.NewArrow(ast.NewArray(scopeArray...))
	return ast.NewCall(tracker, ast.NewCall(fnInfo), lazy)
}

// Param implements the param path (spec.md §4.6 "Param path (complex
// params)"): append a rest element whose object pattern's single property
// key is the tracker call itself, so the tracker runs exactly once before
// any param side effects without moving complex params into the body.
// restName is the synthetic rest identifier (the whole incoming object is
// discarded; only evaluating the computed key matters).
func Param(trackerCall ast.Expr, restName *ast.Identifier) *ast.RestElement {
	prop := &ast.Property{
		Key:      trackerCall,
		Kind_:    "init",
		Computed: true,
		Value:    restName,
	}
	return &ast.RestElement{Argument: &ast.ObjectPattern{Properties: []*ast.Property{prop}}}
}

// LengthCompensation returns how many of the temps replacing
// params[truncateFrom:] still count toward Function.prototype.length and
// so stay plain identifiers; every later temp gets a `= void 0` default so
// the length does not grow (spec.md §4.6 "Design rationale (preserving
// Function.prototype.length)").
func LengthCompensation(originalLength, truncateFrom int) int {
	if truncateFrom < 0 || truncateFrom >= originalLength {
		return 0
	}
	return originalLength - truncateFrom
}

// FlattenRestArray recursively expands a rest argument whose target is an
// array pattern into its individual elements plus a trailing rest, e.g.
// `...[a, {b}, ...c]` becomes `a, {b}, ...c` (spec.md §4.6 "Rest-array
// flattening"), simplifying the param list before Param rewrites it.
func FlattenRestArray(rest *ast.RestElement) []ast.Expr {
	arr, ok := rest.Argument.(*ast.ArrayPattern)
	if !ok {
		return []ast.Expr{rest}
	}
	out := arr.Elements
	if n := len(out); n > 0 {
		if inner, ok := out[n-1].(*ast.RestElement); ok {
			out = append(append([]ast.Expr{}, out[:n-1]...), FlattenRestArray(inner)...)
		}
	}
	return out
}

// RestAsObjectFixer builds the synthetic reifying thunk (spec.md §4.6
// "Rest-as-object conversion"): `<fixerName> = () => <restName> =
// <toRestName>(<restName>)`, called once inside the body to convert the
// object-shaped rest value the param-path tracker call produced back into
// the array the user's rest parameter expects. Keeping the fixer in
// params (not body) means an inner function declaration that shadows
// restName cannot clobber it before the conversion runs. toRestName is an
// expression rather than a bare identifier so callers can pass a member
// expression off the runtime accessor (e.g. `getScopeId.toRest`).
func RestAsObjectFixer(fixerName, restName *ast.Identifier, toRestName ast.Expr) *ast.VariableDeclarator {
	call := ast.NewCall(toRestName, restName)
	body := ast.NewAssign("=", restName, call)
	return &ast.VariableDeclarator{Name: fixerName, Init: ast.NewArrow(body)}
}
