package ident

import "testing"

import "github.com/stretchr/testify/assert"

func TestAllocatorNoCollision(t *testing.T) {
	a := New("livepack")
	a.Observe("foo", false)
	a.Observe("livepackish", false)

	assert.Equal(t, "livepack", a.Prefix())
	assert.Equal(t, 0, a.PrefixNum())
	assert.False(t, a.PrefixChangedInEval)
}

func TestAllocatorEscalatesOnCollision(t *testing.T) {
	a := New("livepack")
	a.Observe("livepack_foo", false)

	assert.Equal(t, "livepack1", a.Prefix())
	assert.Equal(t, 1, a.PrefixNum())
	assert.False(t, a.PrefixChangedInEval)
}

func TestAllocatorEscalatesMonotonically(t *testing.T) {
	a := New("livepack")
	a.Observe("livepack3_x", false)
	a.Observe("livepack1_y", false) // lower number must not roll the counter back

	assert.Equal(t, "livepack4", a.Prefix())
	assert.Equal(t, 4, a.PrefixNum())
}

func TestAllocatorFlagsEscalationInsideEval(t *testing.T) {
	a := New("livepack")
	a.Observe("livepack_x", true)

	assert.True(t, a.PrefixChangedInEval)
}

func TestAllocatorNames(t *testing.T) {
	a := New("livepack")
	a.Observe("livepack2_x", false)

	assert.Equal(t, "livepack3_tracker", a.Tracker().Name)
	assert.Equal(t, "livepack3_getScopeId", a.GetScopeID().Name)
	assert.Equal(t, "livepack3_localEval", a.LocalEval().Name)
	assert.Equal(t, "livepack3_scopeId_5", a.ScopeIDVarName(5))
	assert.Equal(t, "livepack3_temp_5", a.TempVarName(5, 0))
	assert.Equal(t, "livepack3_temp_5_1", a.TempVarName(5, 1))
	assert.Equal(t, "livepack3_fnInfo_7", a.FnInfoName(7))
}
