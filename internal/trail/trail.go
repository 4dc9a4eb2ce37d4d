// Package trail implements the trail & traversal kernel (spec.md §4.3): a
// path-indexed DFS that records, for every visited child, the path of
// parent keys (field names or slice indices) from the enclosing function's
// root (or the file root, for top-level code). Trails are the coordinate
// system the emitted function-info JSON uses to point the downstream
// serializer at a specific AST position (spec.md §4.7 "trails", §8
// property 2 "trail stability").
//
// This is a generalization of the teacher's ast.Walk enter/exit shape
// (lang/ast/visitor.go): where that walk only needs to know "am I entering
// or exiting", the scope analyzer additionally needs to know "how do I
// get back here from the root", so every recursive step pushes its key
// before descending and pops it on return.
package trail

// Key is either a field name (string) or a slice index (int); a Trail is
// a sequence of these from a root to a descendant.
type Trail []any

// Stack is the live push/pop trail the analyzer and transformer thread
// through their recursive walk. A Stack is reset to an empty trail at the
// top of each file and simply keeps growing/shrinking across function
// boundaries; callers snapshot the suffix since a remembered base depth
// (Function.TrailBase) to get a trail relative to that function's own
// root, per spec.md's "Trail from root at the point of definition".
type Stack struct {
	keys []any
}

// NewStack returns an empty trail stack.
func NewStack() *Stack { return &Stack{} }

// Len returns the current depth, suitable for remembering as a function's
// TrailBase at the moment its root node is entered.
func (s *Stack) Len() int { return len(s.keys) }

// PushField pushes a named-field key (e.g. "Body", "Test").
func (s *Stack) PushField(name string) { s.keys = append(s.keys, name) }

// PushIndex pushes a slice-index key.
func (s *Stack) PushIndex(i int) { s.keys = append(s.keys, i) }

// Pop removes the most recently pushed key. Callers must pair every Push
// with exactly one Pop (spec.md invariant: "push k onto state.trail;
// pop on return").
func (s *Stack) Pop() { s.keys = s.keys[:len(s.keys)-1] }

// Since returns a cloned Trail of the keys pushed after depth base. Clone
// is required because jobs deferred to pass 2 must capture an immutable
// snapshot, never the live stack (spec.md §9 "Trail = immutable snapshot
// at job-enqueue time").
func (s *Stack) Since(base int) Trail {
	tail := s.keys[base:]
	out := make(Trail, len(tail))
	copy(out, tail)
	return out
}

// Full is Since(0): the trail from the file root.
func (s *Stack) Full() Trail { return s.Since(0) }

// VisitField visits a single named child, pushing/popping name around fn.
// fn is called unconditionally; callers pass a no-op for a nil optional
// child rather than calling this at all (see VisitOptionalField).
func VisitField(s *Stack, name string, fn func()) {
	s.PushField(name)
	fn()
	s.Pop()
}

// VisitOptionalField visits name only if present (present is false for a
// nil optional AST field, e.g. an `if` with no `else`).
func VisitOptionalField(s *Stack, name string, present bool, fn func()) {
	if !present {
		return
	}
	VisitField(s, name, fn)
}

// VisitSlice visits each element of a keyed container (e.g. a statement
// list), calling fn(i) with the index pushed onto the trail for that
// element.
func VisitSlice(s *Stack, name string, length int, fn func(i int)) {
	s.PushField(name)
	for i := 0; i < length; i++ {
		s.PushIndex(i)
		fn(i)
		s.Pop()
	}
	s.Pop()
}

// VisitSparseSlice is VisitSlice for containers that may have nil members
// (sparse arrays, parameter elisions): present(i) decides whether fn(i) is
// called, but the index is still pushed so trails stay aligned with the
// original array's indices.
func VisitSparseSlice(s *Stack, name string, length int, present func(i int) bool, fn func(i int)) {
	s.PushField(name)
	for i := 0; i < length; i++ {
		if !present(i) {
			continue
		}
		s.PushIndex(i)
		fn(i)
		s.Pop()
	}
	s.Pop()
}
