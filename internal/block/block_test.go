package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBlockVarsBlockInheritance(t *testing.T) {
	s := NewStore()
	file := s.CreateBlock(nil, "file", true)
	assert.Same(t, file, file.VarsBlock)

	block := s.CreateBlock(file, "block", false)
	assert.Same(t, file, block.VarsBlock, "a non-vars-block inherits its parent's VarsBlock")

	fnBody := s.CreateBlock(block, "fnBody", true)
	assert.Same(t, fnBody, fnBody.VarsBlock, "a vars-block is its own VarsBlock regardless of nesting")
}

func TestBlockByIDRoundTrips(t *testing.T) {
	s := NewStore()
	file := s.CreateBlock(nil, "file", true)
	child := s.CreateBlock(file, "child", false)

	assert.Same(t, file, s.BlockByID(file.ID))
	assert.Same(t, child, s.BlockByID(child.ID))
	assert.Nil(t, s.BlockByID(999))
	assert.Equal(t, 2, s.NextBlockID())
}

func TestCreateBindingRejectsRedeclaration(t *testing.T) {
	s := NewStore()
	file := s.CreateBlock(nil, "file", true)

	_, err := s.CreateBinding(file, "x", false, Binding{IsConst: true})
	require.NoError(t, err)

	_, err = s.CreateBinding(file, "x", false, Binding{IsConst: true})
	assert.Error(t, err, "redeclaring a const binding in the same block must fail")
}

func TestCreateBindingVarOverVarIsIdempotent(t *testing.T) {
	s := NewStore()
	file := s.CreateBlock(nil, "file", true)

	first, err := s.CreateBinding(file, "x", false, Binding{IsVar: true})
	require.NoError(t, err)

	second, err := s.CreateBinding(file, "x", false, Binding{IsVar: true})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCreateBindingFunctionOverVarUpgrades(t *testing.T) {
	s := NewStore()
	file := s.CreateBlock(nil, "file", true)

	_, err := s.CreateBinding(file, "f", false, Binding{IsVar: true})
	require.NoError(t, err)

	bdg, err := s.CreateBinding(file, "f", false, Binding{IsVar: true, IsFunction: true})
	require.NoError(t, err)
	assert.True(t, bdg.IsFunction)
	assert.True(t, bdg.IsVar)
}

func TestCreateBindingCommonJSTopLevelClash(t *testing.T) {
	s := NewStore()
	file := s.CreateBlock(nil, "file", true)

	_, err := s.CreateBinding(file, "module", true, Binding{IsConst: true})
	assert.Error(t, err, "top-level `const module` must be rejected under CommonJS")
}

func TestActivateBlockMaterializesOnVarsBlockOnce(t *testing.T) {
	s := NewStore()
	file := s.CreateBlock(nil, "file", true)
	block := s.CreateBlock(file, "block", false)

	nameCalls := 0
	nameFor := func(id int) string {
		nameCalls++
		return "scopeId"
	}

	first := s.ActivateBlock(block, nameFor)
	second := s.ActivateBlock(block, nameFor)

	assert.Same(t, first, second)
	assert.Equal(t, 1, nameCalls, "ActivateBlock must only materialize the scope-id var once")
	assert.Same(t, file.ScopeIDVar, first, "a non-vars-block activates its VarsBlock, not itself")
}

func TestActivateBindingMaterializesOnce(t *testing.T) {
	bdg := &Binding{Name: "x"}
	first := ActivateBinding(bdg)
	second := ActivateBinding(bdg)
	assert.Same(t, first, second)
	assert.Equal(t, "x", first.Name)
}

func TestNameBlocksAssignsDeterministicLabels(t *testing.T) {
	s := NewStore()
	root := s.CreateBlock(nil, "", true)
	a := s.CreateBlock(root, "", false)
	b := s.CreateBlock(root, "", false)
	aa := s.CreateBlock(a, "", false)

	NameBlocks(root)

	assert.Equal(t, "_", root.Name)
	assert.Equal(t, "_a", a.Name)
	assert.Equal(t, "_b", b.Name)
	assert.Equal(t, "_aa", aa.Name)
}
