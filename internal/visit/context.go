// Package visit implements the visitor dispatch table (spec.md §4
// component "Visitor dispatch table"): the identifier-usage context
// classification and a small kind-keyed dispatcher used by the scope
// analyzer (internal/analyzer) to route a node to its per-kind handler,
// instead of repeating one large type switch the way the teacher's
// lang/resolver/resolver.go does it inline. The analyzer still reads like
// the teacher's resolver (the handler bodies are the same shape of code);
// this package only factors out "which handler does this kind go to".
package visit

// Context classifies how an identifier is used at a given position,
// driving whether the scope analyzer creates a binding or enqueues a
// resolve job, and which read/write flags that job records (spec.md
// §4.4 "Identifiers").
type Context uint8

const (
	// ReadOnly is a plain value read, e.g. the `x` in `f(x)`.
	ReadOnly Context = iota
	// AssignOnly is the target of a plain assignment with no prior read,
	// e.g. the `x` in `x = 1`.
	AssignOnly
	// ReadAndAssign is a compound-assignment or update target, e.g. the
	// `x` in `x += 1` or `x++`, which both reads and writes.
	ReadAndAssign
	// DeclareConst introduces a new `const` binding.
	DeclareConst
	// DeclareLet introduces a new `let` binding.
	DeclareLet
	// DeclareVar introduces a new `var` (or function declaration) binding.
	DeclareVar
)

// IsDeclaration reports whether ctx introduces a new binding rather than
// resolving to an existing one.
func (ctx Context) IsDeclaration() bool {
	return ctx == DeclareConst || ctx == DeclareLet || ctx == DeclareVar
}

// IsRead reports whether ctx constitutes a read of the current value.
func (ctx Context) IsRead() bool {
	return ctx == ReadOnly || ctx == ReadAndAssign
}

// IsWrite reports whether ctx constitutes an assignment.
func (ctx Context) IsWrite() bool {
	return ctx == AssignOnly || ctx == ReadAndAssign
}
