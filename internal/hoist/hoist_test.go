package hoist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/jsinstrument/internal/block"
)

func TestResolveCreatesVarBindingOnHoistBlock(t *testing.T) {
	s := block.NewStore()
	fnBody := s.CreateBlock(nil, "fnBody", true)
	blockStmt := s.CreateBlock(fnBody, "block", true) // its own vars-block, e.g. a loop body

	// a sloppy `function f(){}` whose declaring block is its own
	// vars-block: f is declared there but must additionally be visible as
	// a var on fnBody.
	Resolve(s, []Candidate{{Name: "f", Block: blockStmt, Hoist: fnBody}})

	bdg, ok := fnBody.Lookup("f")
	assert.True(t, ok, "hoisting must create a var binding on the hoist block")
	assert.True(t, bdg.IsVar)
	assert.True(t, bdg.IsFunction)
}

func TestResolveSkipsWhenAlreadyOnHoistBlockViaVarsBlockRedirection(t *testing.T) {
	s := block.NewStore()
	fnBody := s.CreateBlock(nil, "fnBody", true)
	// blockStmt's VarsBlock happens to already be fnBody (declare()'s own
	// redirection already placed the binding directly on the hoist block).
	blockStmt := s.CreateBlock(fnBody, "block", false)

	Resolve(s, []Candidate{{Name: "g", Block: blockStmt, Hoist: fnBody}})

	// no binding should have been force-created since c.Block.VarsBlock ==
	// c.Hoist short-circuits resolveOne.
	_, ok := fnBody.Lookup("g")
	assert.False(t, ok)
}

func TestResolveSkipsWhenShadowedBetweenBlockAndHoist(t *testing.T) {
	s := block.NewStore()
	fnBody := s.CreateBlock(nil, "fnBody", true)
	mid := s.CreateBlock(fnBody, "mid", true) // its own vars-block, e.g. a loop body
	inner := s.CreateBlock(mid, "inner", false)

	_, err := s.CreateBinding(mid, "h", false, block.Binding{IsConst: true})
	assert.NoError(t, err)

	Resolve(s, []Candidate{{Name: "h", Block: inner, Hoist: fnBody}})

	_, ok := fnBody.Lookup("h")
	assert.False(t, ok, "a shadowing let/const between the declaration and the hoist target blocks the hoist")
}

func TestResolveSkipsWhenHoistAlreadyHasNonVarBinding(t *testing.T) {
	s := block.NewStore()
	fnBody := s.CreateBlock(nil, "fnBody", true)
	// its own vars-block, so the VarsBlock short-circuit does not apply and
	// the hoist block's existing binding is what stops the hoist.
	inner := s.CreateBlock(fnBody, "inner", true)

	_, err := s.CreateBinding(fnBody, "k", false, block.Binding{IsConst: true})
	assert.NoError(t, err)

	Resolve(s, []Candidate{{Name: "k", Block: inner, Hoist: fnBody}})

	bdg, _ := fnBody.Lookup("k")
	assert.True(t, bdg.IsConst, "an existing non-var binding on the hoist block must not be clobbered")
}

func TestResolveNilHoistIsNoop(t *testing.T) {
	s := block.NewStore()
	fnBody := s.CreateBlock(nil, "fnBody", true)
	inner := s.CreateBlock(fnBody, "inner", false)

	assert.NotPanics(t, func() {
		Resolve(s, []Candidate{{Name: "z", Block: inner, Hoist: nil}})
	})
}
