package trail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackSinceSnapshotsIndependently(t *testing.T) {
	s := NewStack()
	s.PushField("Body")
	base := s.Len()

	s.PushIndex(2)
	s.PushField("Consequent")
	got := s.Since(base)
	assert.Equal(t, Trail{2, "Consequent"}, got)

	// mutating the live stack after the snapshot must not affect it
	// (invariant: pass-2 jobs capture an immutable trail at enqueue time).
	s.Pop()
	s.PushField("Alternate")
	assert.Equal(t, Trail{2, "Consequent"}, got)
}

func TestStackFullIsSinceZero(t *testing.T) {
	s := NewStack()
	s.PushField("Body")
	s.PushIndex(0)
	assert.Equal(t, s.Since(0), s.Full())
}

func TestVisitFieldPushesAndPops(t *testing.T) {
	s := NewStack()
	var inside Trail
	VisitField(s, "Test", func() {
		inside = s.Full()
	})
	assert.Equal(t, Trail{"Test"}, inside)
	assert.Equal(t, 0, s.Len())
}

func TestVisitOptionalFieldSkipsWhenAbsent(t *testing.T) {
	s := NewStack()
	called := false
	VisitOptionalField(s, "Alternate", false, func() { called = true })
	assert.False(t, called)
	assert.Equal(t, 0, s.Len())
}

func TestVisitSliceAlignsIndices(t *testing.T) {
	s := NewStack()
	var trails []Trail
	VisitSlice(s, "Body", 3, func(i int) {
		trails = append(trails, s.Full())
	})
	assert.Equal(t, []Trail{{"Body", 0}, {"Body", 1}, {"Body", 2}}, trails)
	assert.Equal(t, 0, s.Len())
}

func TestVisitSparseSliceKeepsIndicesAlignedButSkipsAbsent(t *testing.T) {
	s := NewStack()
	present := func(i int) bool { return i != 1 }
	var visited []int
	VisitSparseSlice(s, "Elements", 3, present, func(i int) {
		visited = append(visited, i)
	})
	assert.Equal(t, []int{0, 2}, visited)
	assert.Equal(t, 0, s.Len())
}
