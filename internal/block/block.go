// Package block implements the Block & Binding store (spec.md §3, §4.1):
// the in-memory lexical-scope tree pass 1 builds and pass 2 reads. It is
// adapted from the teacher's lang/resolver push/pop/bind/use machinery
// (github.com/mna/nenuphar lang/resolver/resolver.go and binding.go),
// generalized from Starlark-style "Local/Cell/Free/Predeclared/Universal"
// scopes to the richer per-block Binding model spec.md's data model calls
// for (const/var/function/silent-const flags, vars_block redirection,
// scope-id and temp-var materialization).
package block

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/jsinstrument/ast"
)

// Binding is one declared name in a Block (spec.md §3 "Binding").
type Binding struct {
	Name string

	// VarNode is materialized lazily, the first time the binding is
	// actually referenced from a closure (Activate).
	VarNode *ast.Identifier

	IsConst       bool
	IsSilentConst bool // function-expression own name, or a catch param
	IsVar         bool // declared by `var` or a function declaration
	IsFunction    bool // function/class binding; never renamed

	// ArgNames links the `arguments` pseudo-binding to the function's
	// formal parameter names, when they may alias (sloppy mode, all-simple
	// params).
	ArgNames []string
}

// Block represents one lexical scope region (spec.md §3 "Block").
type Block struct {
	ID     int
	Name   string // optional diagnostic label
	Parent *Block

	// VarsBlock is where scope-id and temp vars for this region are
	// materialized: itself for "vars blocks" (file, program, function
	// params/body, loop body, static init), the parent's VarsBlock
	// otherwise. Pass 1 may redirect it afterwards (invariant 3: loops and
	// complex-param functions chain to a body block).
	VarsBlock *Block

	bindings *swiss.Map[string, *Binding] // keyed by name, unique per block

	ScopeIDVar        *ast.Identifier // set lazily on first Activate
	TempVarNodes      []*ast.Identifier
	TempVarsAsObjects bool // temps accessed as <temp>.value, for for-loop TDZ survival

	Children []*Block
}

func newBlock(id int, parent *Block) *Block {
	return &Block{ID: id, Parent: parent, bindings: swiss.NewMap[string, *Binding](4)}
}

// Bindings calls fn for each of the block's own bindings, stopping early
// when fn returns false. New bindings go through CreateBinding /
// CreateBindingWithoutNameCheck.
func (b *Block) Bindings(fn func(name string, bdg *Binding) bool) {
	b.bindings.Iter(fn)
}

// Lookup returns the binding for name declared directly in b, if any.
func (b *Block) Lookup(name string) (*Binding, bool) {
	return b.bindings.Get(name)
}

// Store owns the Block arena for one file/task (spec.md §5: "the
// Block/Binding/Function graph is a tree owned exclusively by the task").
// It mirrors the teacher's resolver.push/pop but keyed to an explicit
// current-block reference rather than a receiver-held env, since pass 1
// threads the store through an explicit State (spec.md §3 "State")
// instead of a single resolver struct.
type Store struct {
	root        *Block
	nextBlockID int
	blocks      []*Block // indexed by Block.ID
}

// NewStore creates an empty store.
func NewStore() *Store { return &Store{} }

// CreateBlock allocates a block with a fresh id. isVarsBlock controls
// whether VarsBlock is this new block (true: file, program, function
// params/body, loop body, static init) or inherited from parent.
func (s *Store) CreateBlock(parent *Block, name string, isVarsBlock bool) *Block {
	b := newBlock(s.nextBlockID, parent)
	s.nextBlockID++
	s.blocks = append(s.blocks, b)
	b.Name = name
	if isVarsBlock {
		b.VarsBlock = b
	} else if parent != nil {
		b.VarsBlock = parent.VarsBlock
	} else {
		b.VarsBlock = b
	}
	if parent != nil {
		parent.Children = append(parent.Children, b)
	} else {
		s.root = b
	}
	return b
}

// Root returns the file block created by the first CreateBlock call.
func (s *Store) Root() *Block { return s.root }

// BlockByID returns the block with the given id, or nil if none exists
// (ids are assigned sequentially by CreateBlock starting at 0).
func (s *Store) BlockByID(id int) *Block {
	if id < 0 || id >= len(s.blocks) {
		return nil
	}
	return s.blocks[id]
}

// NextBlockID returns the id that would be assigned to the next block
// CreateBlock allocates, the `<nextBlockId>` argument in the emitted init
// require call (spec.md §6).
func (s *Store) NextBlockID() int { return s.nextBlockID }

// disallowedCommonJSNames are the identifiers a CommonJS top-level const/let
// cannot shadow (spec.md §4.1 "Program" policy and §7 "illegal CommonJS
// top-level const shadow of module").
var disallowedCommonJSNames = map[string]bool{
	"module": true, "exports": true, "require": true, "__dirname": true, "__filename": true,
}

// CreateBinding creates a binding for name in block, enforcing the
// CommonJS top-level name-clash rule: a non-var (const/let/class)
// declaration of a disallowed CommonJS name is rejected.
func (s *Store) CreateBinding(block *Block, name string, isCommonJSTopLevel bool, props Binding) (*Binding, error) {
	if isCommonJSTopLevel && disallowedCommonJSNames[name] && !props.IsVar {
		return nil, fmt.Errorf("cannot declare %q: reserved CommonJS top-level binding", name)
	}
	return s.createBindingLocked(block, name, props)
}

// CreateBindingWithoutNameCheck creates `this`, `arguments`, `new.target`,
// and import bindings, which are never user-spelled and so never need the
// CommonJS clash check or escalation notice.
func (s *Store) CreateBindingWithoutNameCheck(block *Block, name string, props Binding) *Binding {
	bdg, _ := s.createBindingLocked(block, name, props)
	return bdg
}

func (s *Store) createBindingLocked(block *Block, name string, props Binding) (*Binding, error) {
	if existing, ok := block.Lookup(name); ok {
		// Re-declaration rules (spec.md §4.1 "Binding uniqueness"): var-over-var
		// or var-over-function-decl is idempotent; function-decl over var
		// upgrades IsFunction.
		switch {
		case props.IsFunction:
			existing.IsFunction = true
			existing.IsVar = true
			return existing, nil
		case props.IsVar && existing.IsVar:
			return existing, nil
		default:
			return nil, fmt.Errorf("already declared in this block: %s", name)
		}
	}
	props.Name = name
	bdg := props
	block.bindings.Put(name, &bdg)
	return &bdg, nil
}

// ActivateBlock allocates the scope-id var on block.VarsBlock if it is not
// already present (spec.md §4.1 "activate_block").
func (s *Store) ActivateBlock(block *Block, nameFor func(blockID int) string) *ast.Identifier {
	vb := block.VarsBlock
	if vb.ScopeIDVar == nil {
		vb.ScopeIDVar = ast.NewIdent(nameFor(vb.ID))
	}
	return vb.ScopeIDVar
}

// ActivateBinding materializes bdg.VarNode on first use.
func ActivateBinding(bdg *Binding) *ast.Identifier {
	if bdg.VarNode == nil {
		bdg.VarNode = ast.NewIdent(bdg.Name)
	}
	return bdg.VarNode
}

// CreateBlockTempVar allocates a new temp identifier under
// block.VarsBlock.TempVarNodes (spec.md §4.1 "create_block_temp_var").
func (s *Store) CreateBlockTempVar(block *Block, nameFor func(blockID, index int) string) *ast.Identifier {
	vb := block.VarsBlock
	idx := len(vb.TempVarNodes)
	id := ast.NewIdent(nameFor(vb.ID, idx))
	vb.TempVarNodes = append(vb.TempVarNodes, id)
	return id
}

// TempVarRef returns the expression used to read a temp var: the bare
// identifier, or `<temp>.value` when the owning vars-block wraps temps as
// objects to survive `for` loop TDZ (spec.md §3 "temp_vars_as_objects").
func TempVarRef(block *Block, id *ast.Identifier) ast.Expr {
	if block.VarsBlock.TempVarsAsObjects {
		return ast.NewMember(id, ast.NewIdent("value"), false)
	}
	return id
}
