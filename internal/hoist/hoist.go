// Package hoist implements the sloppy-mode function-declaration hoist
// resolver (spec.md §4.9), run once pass 1 (internal/analyzer) has
// finished and before pass 2 drains its job queue (spec.md §4.5 step 2).
//
// Pass 1's declare() already places every var/function-declaration
// binding at block.VarsBlock (the nearest vars-block ancestor), which is
// usually but not always the function's true hoist target — a sloppy
// function declaration nested inside a `for`/`while` body lands on that
// loop's own vars-block first, one level short of the enclosing
// function's params/body block. Resolve corrects that: for every
// candidate recorded during pass 1 it walks from the declaring block up
// to the real hoist block, checking legality along the way, and
// registers the upgraded binding on the hoist block itself when the
// three conditions hold. A non-hoistable declaration is left exactly
// where declare() put it, which is the correct sloppy-block-scoped
// fallback behavior.
package hoist

import "github.com/mna/jsinstrument/internal/block"

// Candidate is one non-top-level sloppy function declaration recorded by
// internal/analyzer for hoist resolution.
type Candidate struct {
	Name  string
	Block *block.Block // the block the declaration literally appears in
	Hoist *block.Block // the enclosing function's (or program's) hoist target; nil if none applies
}

// Resolve applies the three-condition hoistability test (spec.md §4.9) to
// each candidate:
//
//  1. no const/let/class declaration of the same name in the hoist block,
//  2. no formal parameter of the enclosing function with the same name,
//  3. no binding of the same name in any block strictly between the
//     declaring block and the hoist block, including another candidate
//     already hoisted there.
//
// Conditions 1 and 2 both reduce to a single Lookup on the hoist block:
// formal parameters and let/const/class declarations are the only other
// things that can occupy a name there. When every condition holds, the
// hoist block gains (or upgrades) a binding with IsFunction set; store is
// used to perform that upgrade through the same path pass 1 bindings go
// through. Non-hoistable candidates are left untouched: they keep the
// block-scoped binding pass 1's declare() already created at the nearest
// vars-block ancestor.
func Resolve(store *block.Store, candidates []Candidate) {
	for _, c := range candidates {
		resolveOne(store, c)
	}
}

func resolveOne(store *block.Store, c Candidate) {
	if c.Hoist == nil {
		return
	}
	if c.Block.VarsBlock == c.Hoist {
		// declare() already placed the binding directly on the hoist block;
		// nothing further to do.
		return
	}

	for b := c.Block; b != nil && b != c.Hoist; b = b.Parent {
		if bdg, ok := b.Lookup(c.Name); ok && b != c.Block {
			// Condition 3: an intervening block (including one holding an
			// earlier hoisted candidate) already claims the name.
			_ = bdg
			return
		}
	}

	if bdg, ok := c.Hoist.Lookup(c.Name); ok && !bdg.IsVar {
		// Conditions 1/2: a let/const/class declaration or formal parameter
		// of the same name occupies the hoist block.
		return
	}

	store.CreateBindingWithoutNameCheck(c.Hoist, c.Name, block.Binding{IsVar: true, IsFunction: true})
}
