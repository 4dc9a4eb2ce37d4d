package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/trail"
	"github.com/mna/jsinstrument/internal/visit"
)

func TestIdentifierRecordsInternalVarWithinSameFunction(t *testing.T) {
	store := block.NewStore()
	fnBody := store.CreateBlock(nil, "fnBody", true)
	fn := block.NewFunction(fnBody.ID, &ast.FunctionDeclaration{Id: ast.NewIdent("f")}, nil, 0, nil)

	_, err := store.CreateBinding(fnBody, "x", false, block.Binding{IsConst: true})
	require.NoError(t, err)

	tr := trail.Trail{"Body", 0}
	require.NoError(t, Identifier("x", visit.ReadOnly, fnBody, fn, tr))

	assert.Equal(t, []trail.Trail{tr}, fn.InternalVars["x"])
	assert.Empty(t, fn.ExternalVars)
	assert.Empty(t, fn.GlobalVarNames)
}

func TestIdentifierRecordsExternalVarAcrossFunctionBoundary(t *testing.T) {
	store := block.NewStore()
	outer := store.CreateBlock(nil, "outer", true)
	inner := store.CreateBlock(outer, "inner", true)

	_, err := store.CreateBinding(outer, "x", false, block.Binding{IsConst: true})
	require.NoError(t, err)

	// fn's own id is inner's id, so outer.ID < fn.ID: a capture.
	fn := block.NewFunction(inner.ID, &ast.FunctionDeclaration{Id: ast.NewIdent("f")}, nil, 0, nil)

	tr := trail.Trail{"Body", 0}
	require.NoError(t, Identifier("x", visit.ReadOnly, inner, fn, tr))

	require.Contains(t, fn.ExternalVars, outer)
	ev := fn.ExternalVars[outer]["x"]
	require.NotNil(t, ev)
	assert.True(t, ev.IsReadFrom)
	assert.False(t, ev.IsAssignedTo)
	assert.Equal(t, []trail.Trail{tr}, ev.Trails)
}

func TestIdentifierMarksAssignOnlyWrites(t *testing.T) {
	store := block.NewStore()
	outer := store.CreateBlock(nil, "outer", true)
	inner := store.CreateBlock(outer, "inner", true)
	_, err := store.CreateBinding(outer, "x", false, block.Binding{})
	require.NoError(t, err)
	fn := block.NewFunction(inner.ID, &ast.FunctionDeclaration{Id: ast.NewIdent("f")}, nil, 0, nil)

	require.NoError(t, Identifier("x", visit.AssignOnly, inner, fn, trail.Trail{"Left"}))

	ev := fn.ExternalVars[outer]["x"]
	require.NotNil(t, ev)
	assert.True(t, ev.IsAssignedTo)
	assert.False(t, ev.IsReadFrom)
}

func TestIdentifierRecordsConstViolationAmendment(t *testing.T) {
	store := block.NewStore()
	outer := store.CreateBlock(nil, "outer", true)
	inner := store.CreateBlock(outer, "inner", true)
	_, err := store.CreateBinding(outer, "x", false, block.Binding{IsConst: true})
	require.NoError(t, err)
	fn := block.NewFunction(inner.ID, &ast.FunctionDeclaration{Id: ast.NewIdent("f")}, nil, 0, nil)

	require.NoError(t, Identifier("x", visit.ReadAndAssign, inner, fn, trail.Trail{"Left"}))

	require.Len(t, fn.Amendments, 1)
	assert.Equal(t, block.ConstViolationNeedsVar, fn.Amendments[0].Kind)
}

func TestIdentifierAssignOnlyConstViolationNeedsNoVar(t *testing.T) {
	store := block.NewStore()
	outer := store.CreateBlock(nil, "outer", true)
	inner := store.CreateBlock(outer, "inner", true)
	_, err := store.CreateBinding(outer, "x", false, block.Binding{IsConst: true})
	require.NoError(t, err)
	fn := block.NewFunction(inner.ID, &ast.FunctionDeclaration{Id: ast.NewIdent("f")}, nil, 0, nil)

	require.NoError(t, Identifier("x", visit.AssignOnly, inner, fn, trail.Trail{"Left"}))

	require.Len(t, fn.Amendments, 1)
	assert.Equal(t, block.ConstViolationNeedsNoVar, fn.Amendments[0].Kind)
	assert.Empty(t, fn.ExternalVars, "an assign-only const violation stops before recording an external var")
}

func TestIdentifierNotFoundIsRecordedAsGlobal(t *testing.T) {
	store := block.NewStore()
	fnBody := store.CreateBlock(nil, "fnBody", true)
	fn := block.NewFunction(fnBody.ID, &ast.FunctionDeclaration{Id: ast.NewIdent("f")}, nil, 0, nil)

	require.NoError(t, Identifier("undeclaredGlobal", visit.ReadOnly, fnBody, fn, nil))

	assert.True(t, fn.GlobalVarNames["undeclaredGlobal"])
}
