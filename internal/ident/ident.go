// Package ident implements the internal-var allocator (spec.md §4.2): it
// names and builds the identifier nodes the transformer injects (tracker,
// getScopeId, per-block scope-id vars, per-block temps, per-function
// fnInfo declarations, the localEval accessor), with prefix-collision
// escalation against user identifiers.
//
// The escalation scheme is adapted from the teacher's
// lang/resolver/naming.go block-naming walk: where that assigns
// deterministic short names to blocks post-pass-1 in one pass over the
// tree, this package instead watches every user identifier pass-1
// encounters and bumps a single shared counter the moment one collides
// with the reserved pattern, so that by the time pass 2 emits anything,
// the counter is already final (spec.md invariant 5).
package ident

import (
	"regexp"
	"strconv"

	"github.com/mna/jsinstrument/ast"
)

// reservedDigits matches the part of a user identifier after the prefix
// when the whole name has the form `<prefix>_...` or `<prefix><N>_...`,
// e.g. "livepack_tracker" or "livepack3_foo".
var reservedDigits = regexp.MustCompile(`^([1-9][0-9]*)?_`)

// Allocator is the single per-file source of internal identifiers. It is
// created once by the Driver before pass 1 begins and is shared by both
// passes (spec.md §4.5 step 1: "Allocate the global tracker and
// getScopeId identifier nodes with the final prefix" happens only once
// pass 1 has finished feeding it every user identifier).
type Allocator struct {
	basePrefix string // e.g. "livepack"
	counter    int    // escalates monotonically; 0 means unescalated

	// PrefixChangedInEval is set when escalation is triggered by an
	// identifier appearing inside code reachable from a direct eval() call
	// (spec.md §4.2), which the eval rewrite (internal/transform) needs to
	// flag to the runtime.
	PrefixChangedInEval bool
}

// New creates an Allocator using basePrefix as the fixed literal prefix
// (spec.md default: "livepack").
func New(basePrefix string) *Allocator {
	return &Allocator{basePrefix: basePrefix}
}

// Observe scans a user-declared or user-referenced identifier name for a
// collision with the reserved internal-name pattern and escalates the
// prefix counter if needed. insideEval is true when the identifier is
// lexically inside a direct eval() call's reach.
func (a *Allocator) Observe(name string, insideEval bool) {
	if !hasPrefix(name, a.basePrefix) {
		return
	}
	rest := name[len(a.basePrefix):]
	m := reservedDigits.FindStringSubmatch(rest)
	if m == nil {
		return
	}
	n := 0
	if m[1] != "" {
		v, err := strconv.Atoi(m[1])
		if err == nil {
			n = v
		}
	}
	next := n + 1
	if next > a.counter {
		a.counter = next
		if insideEval {
			a.PrefixChangedInEval = true
		}
	}
}

func hasPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && name[:len(prefix)] == prefix
}

// prefix returns the current escalated prefix literal: "livepack" at
// counter 0, "livepack3" at counter 3, etc (spec.md §4.2).
func (a *Allocator) prefix() string {
	if a.counter == 0 {
		return a.basePrefix
	}
	return a.basePrefix + strconv.Itoa(a.counter)
}

func (a *Allocator) name(body string) string {
	return a.prefix() + "_" + body
}

// Tracker returns the identifier for the runtime tracker function.
func (a *Allocator) Tracker() *ast.Identifier { return ast.NewIdent(a.name("tracker")) }

// GetScopeID returns the identifier for the runtime's getScopeId accessor.
func (a *Allocator) GetScopeID() *ast.Identifier { return ast.NewIdent(a.name("getScopeId")) }

// LocalEval returns the identifier substituted for a bare `eval` reference
// once it has been rewritten to flow through the tracker (spec.md §4.4
// "eval identifier").
func (a *Allocator) LocalEval() *ast.Identifier { return ast.NewIdent(a.name("localEval")) }

// ScopeIDVarName names the scope-id var materialized on a vars-block.
func (a *Allocator) ScopeIDVarName(blockID int) string {
	return a.name("scopeId_" + strconv.Itoa(blockID))
}

// TempVarName names the n-th temp allocated under a vars-block.
func (a *Allocator) TempVarName(blockID, index int) string {
	suffix := strconv.Itoa(blockID)
	if index > 0 {
		suffix += "_" + strconv.Itoa(index)
	}
	return a.name("temp_" + suffix)
}

// FnInfoName names the emitted function-info declaration for a function
// whose id is fnID.
func (a *Allocator) FnInfoName(fnID int) string {
	return a.name("fnInfo_" + strconv.Itoa(fnID))
}

// GetSourcesName names the trailing getSources function declaration
// (spec.md §6).
func (a *Allocator) GetSourcesName() *ast.Identifier { return ast.NewIdent(a.name("getSources")) }

// Prefix returns the final escalated prefix literal, valid to read once
// pass 1 has completed (invariant 5: the counter only ever increases
// during pass 1).
func (a *Allocator) Prefix() string { return a.prefix() }

// PrefixNum returns the numeric counter value emitted in the prepended
// `require(init)` call (spec.md §6).
func (a *Allocator) PrefixNum() int { return a.counter }
