// Package resolve holds the pass-2 job bodies the scope analyzer
// (internal/analyzer) closes over when it enqueues deferred work
// (spec.md §4.5). Keeping the job bodies in their own package lets
// internal/analyzer build the closures during pass 1 without importing
// internal/transform (which drives pass 2's ordered steps and would
// otherwise import internal/analyzer's State, creating a cycle).
//
// The identifier-resolution walk is adapted from the teacher's
// lang/resolver/resolver.go `use` method: walk blocks from innermost
// outward, and on the first enclosing function boundary crossed, treat
// the binding as captured by a closure. Where the teacher turns a crossed
// Local into a Cell and adds a Free binding, spec.md's model instead
// records the use as an ExternalVar on the referencing function and
// leaves the original binding untouched (there is no "cell" rewrite here:
// the runtime tracker, not the generated JS, is what reads captured
// values).
package resolve

import (
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/trail"
	"github.com/mna/jsinstrument/internal/visit"
)

// Identifier is the deferred "resolve identifier" job (spec.md §4.5). It
// walks blocks from useBlock outward looking up name, and records the
// outcome on fn: global, internal (same function), or external (captured
// from an enclosing function).
func Identifier(name string, ctx visit.Context, useBlock *block.Block, fn *block.Function, tr trail.Trail) error {
	for b := useBlock; b != nil; b = b.Parent {
		bdg, ok := b.Lookup(name)
		if !ok {
			continue
		}

		if b.ID >= fn.ID {
			// Internal to the current function: record the trail unless this is
			// the function's own name binding or the `arguments` pseudo-binding,
			// neither of which is renamed or tracked per-site.
			if !bdg.IsFunction && bdg.ArgNames == nil {
				fn.RecordInternalVar(name, tr)
			}
			return nil
		}

		// External: captured from an enclosing function.
		if ctx.IsWrite() && bdg.IsConst {
			kind := block.ConstViolationNeedsVar
			if ctx == visit.AssignOnly {
				kind = block.ConstViolationNeedsNoVar
			}
			if bdg.IsSilentConst {
				kind = block.ConstViolationSilent
			}
			fn.Amendments = append(fn.Amendments, block.Amendment{Kind: kind, BlockID: b.ID, Trail: tr})
			if !ctx.IsRead() {
				return nil
			}
		}

		ev := fn.ExternalVarFor(b, name, bdg)
		if ctx.IsRead() {
			ev.IsReadFrom = true
		}
		if ctx.IsWrite() {
			ev.IsAssignedTo = true
		}
		ev.Trails = append(ev.Trails, tr)
		return nil
	}

	// Not found anywhere: a global.
	fn.GlobalVarNames[name] = true
	return nil
}
