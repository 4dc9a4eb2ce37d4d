package fninfo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/trail"
)

func TestBuildMinimalFunction(t *testing.T) {
	node := &ast.FunctionDeclaration{Id: ast.NewIdent("f"), Body: ast.NewBlock()}
	fn := block.NewFunction(0, node, nil, 0, nil)
	fn.IsStrict = true

	out, err := Build(fn, nil, nil)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, true, got["isStrict"])
	assert.Nil(t, got["scopes"], "a function with no ExternalVars marshals scopes as JSON null")
	assert.Contains(t, got, "ast")
	assert.Contains(t, got, "childFns")
}

func TestBuildScopesAreAscendingByBlockID(t *testing.T) {
	node := &ast.FunctionDeclaration{Id: ast.NewIdent("f"), Body: ast.NewBlock()}
	fn := block.NewFunction(2, node, nil, 0, nil)

	store := block.NewStore()
	outer := store.CreateBlock(nil, "outer", true)
	middle := store.CreateBlock(outer, "middle", true)

	bdgX, _ := store.CreateBinding(middle, "x", false, block.Binding{IsConst: true})
	bdgY, _ := store.CreateBinding(outer, "y", false, block.Binding{IsConst: true})

	fn.ExternalVarFor(middle, "x", bdgX).Trails = []trail.Trail{{"Body", 0}}
	fn.ExternalVarFor(outer, "y", bdgY).IsReadFrom = true

	out, err := Build(fn, nil, nil)
	require.NoError(t, err)

	var got struct {
		Scopes []struct {
			BlockID int `json:"blockId"`
		} `json:"scopes"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got.Scopes, 2)
	assert.Equal(t, outer.ID, got.Scopes[0].BlockID)
	assert.Equal(t, middle.ID, got.Scopes[1].BlockID)
}

func TestBuildAmendmentsAreReversed(t *testing.T) {
	node := &ast.FunctionDeclaration{Id: ast.NewIdent("f"), Body: ast.NewBlock()}
	fn := block.NewFunction(0, node, nil, 0, nil)
	fn.Amendments = []block.Amendment{
		{Kind: block.SuperCall, BlockID: 1, Trail: trail.Trail{"Body", 0}},
		{Kind: block.SuperExpression, BlockID: 2, Trail: trail.Trail{"Body", 1}},
	}

	out, err := Build(fn, nil, nil)
	require.NoError(t, err)

	var got struct {
		Amendments [][]any `json:"amendments"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got.Amendments, 2)
	assert.Equal(t, "superExpression", got.Amendments[0][0])
	assert.Equal(t, "superCall", got.Amendments[1][0])
}

func TestBuildGlobalVarNamesSorted(t *testing.T) {
	node := &ast.FunctionDeclaration{Id: ast.NewIdent("f"), Body: ast.NewBlock()}
	fn := block.NewFunction(0, node, nil, 0, nil)
	fn.GlobalVarNames = map[string]bool{"zeta": true, "alpha": true}

	out, err := Build(fn, nil, nil)
	require.NoError(t, err)

	var got struct {
		GlobalVarNames []string `json:"globalVarNames"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []string{"alpha", "zeta"}, got.GlobalVarNames)
}

func TestBuildChildFnsAndArgNames(t *testing.T) {
	node := &ast.FunctionDeclaration{Id: ast.NewIdent("f"), Body: ast.NewBlock()}
	fn := block.NewFunction(0, node, nil, 0, nil)

	childTrails := []trail.Trail{{"Body", 0}}
	out, err := Build(fn, []string{"a", "b"}, childTrails)
	require.NoError(t, err)

	var got struct {
		ArgNames []string      `json:"argNames"`
		ChildFns []trail.Trail `json:"childFns"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []string{"a", "b"}, got.ArgNames)
	assert.Equal(t, childTrails, got.ChildFns)
}
