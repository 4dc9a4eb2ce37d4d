package visit

import "github.com/mna/jsinstrument/ast"

// StmtTable and ExprTable route a node's Kind to a handler. The analyzer
// (pass 1) builds its tables once at package init time (not per file) and
// reuses them, the handlers themselves closing over nothing but the
// State receiver via a method-value registration, mirroring
// how the teacher's resolver methods (r.stmt, r.expr, r.function, ...)
// are plain switch arms but letting the analyzer register handlers
// declaratively instead of growing one giant switch per pass.
type StmtTable[S any] map[ast.Kind]func(s S, n ast.Stmt)

// Setter replaces the expression at the slot a visit call was made for. It
// is nil where the calling context offers no replaceable slot (e.g. a
// pattern position, which a rewrite job never targets); handlers that build
// a replacement job must treat a nil Setter as "bookkeeping only, no
// rewrite" (spec.md §4.5 "Eval rewrite" only replaces expression-producing
// positions).
type Setter func(ast.Expr)

// ExprTable is StmtTable's expression-side counterpart, additionally
// threaded with a Context since expression dispatch (chiefly identifiers)
// needs to know whether it's a read, write, or declaration, and a Setter so
// a deferred pass-2 job can replace the visited node in place.
type ExprTable[S any] map[ast.Kind]func(s S, n ast.Expr, ctx Context, set Setter)

// Dispatch looks up and calls the handler for n's kind in table. It panics
// with an "unexpected node kind" message when none is registered, matching
// spec.md §7's "Unexpected AST node kind in a visitor: internal-consistency
// failure; fatal with node location" — the caller (analyzer/transform) is
// expected to recover this panic at the file boundary and attach location
// info the way spec.md §4.10 describes.
func (t StmtTable[S]) Dispatch(s S, n ast.Stmt) {
	h, ok := t[n.Kind()]
	if !ok {
		panic(unexpectedKindError{n})
	}
	h(s, n)
}

// Dispatch is ExprTable's expression-side counterpart.
func (t ExprTable[S]) Dispatch(s S, n ast.Expr, ctx Context, set Setter) {
	h, ok := t[n.Kind()]
	if !ok {
		panic(unexpectedKindError{n})
	}
	h(s, n, ctx, set)
}

// unexpectedKindError is the panic value Dispatch raises on an
// unregistered kind; internal/driver recovers it and turns it into a
// located ierrors.Error.
type unexpectedKindError struct {
	Node ast.Node
}

func (e unexpectedKindError) Error() string {
	return "unexpected AST node kind: " + e.Node.Kind().String()
}

// Unwrap returns the node that triggered the panic, so the recoverer can
// derive a position from it.
func (e unexpectedKindError) Unwrap() ast.Node { return e.Node }
