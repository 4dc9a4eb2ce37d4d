// Package analyzer implements the scope analyzer, pass 1 (spec.md §4.4):
// it walks the AST once, building the Block/Binding/Function graph and
// enqueueing deferred pass-2 jobs. It performs no AST mutation.
//
// The walk is adapted from the teacher's lang/resolver/resolver.go
// (block/stmt/expr/function/class methods operating on a single resolver
// receiver with a push/pop'd block stack), generalized from Starlark's
// "declare and immediately resolve" single-pass model to the two-pass
// model spec.md requires: identifier uses are not resolved here at all,
// they are recorded as deferred jobs that pass 2 drains once the prefix
// counter (internal/ident) is final.
package analyzer

import (
	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/ident"
	"github.com/mna/jsinstrument/internal/trail"
)

// State is the shared mutable context threaded through the pass-1 walk
// (spec.md §3 "State").
type State struct {
	Store *block.Store
	Idents *ident.Allocator
	Trail  *trail.Stack
	Jobs   block.Queue

	CurrentBlock      *block.Block
	CurrentFunction   *block.Function
	CurrentThisBlock  *block.Block
	CurrentSuperBlock *block.Block
	CurrentHoistBlock *block.Block // nil in an indirect sloppy-eval context (Open Question 1)

	// ProgramBlock is the file's top-level vars-block (spec.md §4.5 step 4
	// inserts the program's own scope-id/temp declarations here). Set once,
	// at the start of Analyze, and never changed afterward.
	ProgramBlock *block.Block

	// RootFunction is the file-level pseudo-Function Analyze creates for
	// top-level code (its Node is the *ast.Program itself). pass 2
	// (internal/transform) walks Function.Children from here to reach
	// every real function in the file.
	RootFunction *block.Function

	IsStrict         bool
	SuperIsProto     bool
	IsCommonJS       bool

	// SloppyFuncDecls collects non-top-level sloppy function declarations
	// for the post-pass-1 hoist analysis (spec.md §4.9), recorded as
	// (name, declaration node, declaring block, hoist block) entries.
	SloppyFuncDecls []SloppyFuncDecl

	// ClassInfos collects every class body pass 1 visits, for pass 2's
	// class transformation (spec.md §4.5 "Class transformation"): missing
	// constructor synthesis and the static super-capture prepend both need
	// the class's super block and surrounding function, neither of which
	// survives past pass 1 without being recorded here.
	ClassInfos []ClassInfo

	// WithStmts collects every `with` statement pass 1 visits, for pass 2's
	// with transformation (spec.md §4.5 "With transformation"), which needs
	// the `with` block to allocate its capture temp against.
	WithStmts []WithStmt

	Filename string
}

// SloppyFuncDecl is one candidate for sloppy-mode function-declaration
// hoisting (internal/hoist).
type SloppyFuncDecl struct {
	Name  string
	Decl  *ast.FunctionDeclaration
	Block *block.Block
	Hoist *block.Block // nil if there is no hoist block to hoist into
}

// ClassInfo links a class body back to the pass-1 bookkeeping pass 2 needs
// to transform it: the block the class binds `super` in (if any method
// inside ever references `super`, superBlock.Lookup("super") will have a
// materialized VarNode by the time pass 2 runs), and whether the class
// already declared its own constructor.
type ClassInfo struct {
	Body              *ast.ClassBody
	SuperBlock        *block.Block
	EnclosingFunction *block.Function
	HasSuperClass     bool
	HasConstructor    bool
}

// WithStmt links a `with` statement back to the block pass 1 pushed for its
// body, so pass 2 can allocate the capture temp against the right
// vars-block.
type WithStmt struct {
	Stmt  *ast.WithStatement
	Block *block.Block
}

// New creates pass-1 state. idents and store are shared with pass 2 via
// the Driver (internal/driver), which is why they're constructed outside
// and passed in rather than created here.
func New(store *block.Store, idents *ident.Allocator, filename string, strict, commonJS bool) *State {
	return &State{
		Store:      store,
		Idents:     idents,
		Trail:      trail.NewStack(),
		IsStrict:   strict,
		IsCommonJS: commonJS,
		Filename:   filename,
	}
}

// pushBlock creates and enters a new block, returning a restore func.
func (s *State) pushBlock(name string, isVarsBlock bool) (*block.Block, func()) {
	parent := s.CurrentBlock
	b := s.Store.CreateBlock(parent, name, isVarsBlock)
	s.CurrentBlock = b
	return b, func() { s.CurrentBlock = parent }
}

// declare creates a binding, observing the name for prefix-escalation
// purposes and recording any error onto the returned value so callers can
// decide to abort or continue (spec.md §7: illegal CommonJS shadowing is
// fatal). var/function-declaration bindings land on CurrentBlock.VarsBlock
// rather than the literal current block, so a `var` declared inside a
// nested `if`/`for` body is visible (and hoisted) the way JS requires;
// let/const bindings stay block-scoped on CurrentBlock itself.
func (s *State) declare(name string, commonJSTopLevel bool, props block.Binding) (*block.Binding, error) {
	s.observeIdent(name)
	target := s.CurrentBlock
	if props.IsVar {
		target = target.VarsBlock
	}
	return s.Store.CreateBinding(target, name, commonJSTopLevel, props)
}

func (s *State) observeIdent(name string) {
	insideEval := s.CurrentFunction != nil && s.CurrentFunction.ContainsEval
	s.Idents.Observe(name, insideEval)
}
