package block

import (
	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/trail"
)

// AmendmentKind tags a Function.Amendments entry (spec.md §3 "Function
// object", §4.5 "Super amendment").
type AmendmentKind uint8

const (
	SuperCall AmendmentKind = iota
	SuperExpression
	ConstViolationNeedsVar
	ConstViolationNeedsNoVar
	ConstViolationSilent
)

var amendmentKindNames = [...]string{"superCall", "superExpression", "needsVar", "needsNoVar", "silent"}

// String names an AmendmentKind the way the emitted function-info JSON
// spells it (spec.md §4.7 "amendments").
func (k AmendmentKind) String() string {
	if int(k) < len(amendmentKindNames) {
		return amendmentKindNames[k]
	}
	return "unknown"
}

// Amendment records a special usage (super, const-violation) at a trail
// relative to its owning Function's root (spec.md §3, §4.5).
type Amendment struct {
	Kind    AmendmentKind
	BlockID int
	Trail   trail.Trail
}

// ExternalVar is recorded per (function, block, name) triple for a
// variable the function reads from or writes to that is bound outside it
// (spec.md §3 "ExternalVar").
type ExternalVar struct {
	VarNode     *ast.Identifier
	IsReadFrom  bool
	IsAssignedTo bool
	ArgNames    []string
	Trails      []trail.Trail
}

// Function is one per function/method/arrow/class in the source (spec.md
// §3 "Function object"). Its ID equals its params block's id at creation
// (invariant 4), and its TrailBase is the trail stack depth at the moment
// its defining node was entered, so later Trail-relative bookkeeping
// (InternalVars, ExternalVars, amendments, ChildFns) is naturally
// root-relative for that function without extra arithmetic at point of
// use.
type Function struct {
	ID       int
	Node     ast.Node
	Parent   *Function
	Children []*Function
	TrailBase int

	// DefTrail is the trail from Parent's own root node to this function's
	// root node, i.e. Parent.Node's path to Node (spec.md §4.7 "childFns").
	// Empty (nil) for the file-level root function, which has no parent.
	DefTrail trail.Trail

	IsStrict        bool
	ContainsEval    bool
	ContainsImport  bool
	HasSuperClass   bool
	SuperIsProto    bool
	ReturnsSuper    bool

	// FirstSuperStatementIndex applies to derived-class constructors: the
	// statement index at/after which `this` becomes usable, i.e. the first
	// statement containing the mandatory super(...) call.
	FirstSuperStatementIndex int

	// FirstComplexParamIndex is the index of the first formal parameter
	// that is not a plain identifier (a default, a pattern, or a rest),
	// or -1 if every parameter is simple (spec.md §4.4, §4.6).
	FirstComplexParamIndex int

	// InternalVars maps a var name internal to this function to every
	// trail (relative to TrailBase) where it appears.
	InternalVars map[string][]trail.Trail

	// ExternalVars maps an enclosing Block to the (name -> ExternalVar)
	// map of this function's uses of that block's bindings.
	ExternalVars map[*Block]map[string]*ExternalVar

	// GlobalVarNames is the set of identifier names that resolved to no
	// binding at all (spec.md §4.5 "Identifier resolution job").
	GlobalVarNames map[string]bool

	Amendments []Amendment

	// Bindings accumulates this function's own param/body bindings during
	// pass 2, the way spec.md §3 describes as a "pass 2 accumulator".
	Bindings []*Binding
}

// NewFunction creates a Function rooted at node, with id equal to its
// params block's id (invariant 4), at the given trail depth. defTrail is
// the trail from parent's root node to node (nil for the file-level root,
// which has no parent).
func NewFunction(id int, node ast.Node, parent *Function, trailBase int, defTrail trail.Trail) *Function {
	fn := &Function{
		ID:             id,
		Node:           node,
		Parent:         parent,
		TrailBase:      trailBase,
		DefTrail:       defTrail,
		InternalVars:   make(map[string][]trail.Trail),
		ExternalVars:   make(map[*Block]map[string]*ExternalVar),
		GlobalVarNames: make(map[string]bool),
		FirstComplexParamIndex: -1,
	}
	if parent != nil {
		parent.Children = append(parent.Children, fn)
	}
	return fn
}

// RecordInternalVar appends a trail where name (internal to fn) appears.
func (fn *Function) RecordInternalVar(name string, tr trail.Trail) {
	fn.InternalVars[name] = append(fn.InternalVars[name], tr)
}

// ExternalVarFor returns (creating if needed) the ExternalVar for
// (blk, name), activating blk and materializing the binding's var node as
// a side effect, matching spec.md §4.1
// "get_or_create_external_var(fn.external_vars, block, name, source)".
func (fn *Function) ExternalVarFor(blk *Block, name string, bdg *Binding) *ExternalVar {
	m, ok := fn.ExternalVars[blk]
	if !ok {
		m = make(map[string]*ExternalVar)
		fn.ExternalVars[blk] = m
	}
	ev, ok := m[name]
	if !ok {
		ev = &ExternalVar{VarNode: ActivateBinding(bdg), ArgNames: bdg.ArgNames}
		m[name] = ev
	}
	return ev
}

// PromoteID reassigns fn's id, used when a function's name is captured by
// an inner eval() and must be promoted to the containing name block's id
// (invariant 4).
func (fn *Function) PromoteID(id int) { fn.ID = id }
