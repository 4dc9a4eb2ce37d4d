// Package fninfo builds the JSON payload the function-info emitter
// (spec.md §4.7) embeds in each synthesized `function <fnInfo_id>() {...}`
// declaration. Pass 2 (internal/transform) calls Build once per Function
// after its job-queue entries have run, with the function's own params
// block (for the `arguments` alias names) and the trails of its direct
// child functions already resolved.
//
// There is no Babel-style "estree-to-json" library in the example corpus
// to ground this on (json tags on a hand-rolled AST aren't something any
// example repo needed); encoding/json's default reflection-based
// marshaling of the ast package's exported node structs is used directly,
// which is the idiomatic stdlib path here and needs no third-party
// serializer (DESIGN.md notes this as a stdlib-only piece).
package fninfo

import (
	"encoding/json"
	"sort"

	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/trail"
)

type varEntry struct {
	IsReadFrom   bool          `json:"isReadFrom,omitempty"`
	IsAssignedTo bool          `json:"isAssignedTo,omitempty"`
	Trails       []trail.Trail `json:"trails"`
}

type scopeEntry struct {
	BlockID   int                  `json:"blockId"`
	BlockName string               `json:"blockName,omitempty"`
	Vars      map[string]*varEntry `json:"vars,omitempty"`
}

type payload struct {
	Scopes                   []scopeEntry          `json:"scopes"`
	IsStrict                 bool                  `json:"isStrict,omitempty"`
	SuperIsProto             bool                  `json:"superIsProto,omitempty"`
	ContainsEval             bool                  `json:"containsEval,omitempty"`
	ContainsImport           bool                  `json:"containsImport,omitempty"`
	ArgNames                 []string              `json:"argNames,omitempty"`
	InternalVars             map[string][]trail.Trail `json:"internalVars,omitempty"`
	GlobalVarNames           []string              `json:"globalVarNames,omitempty"`
	Amendments               [][]any               `json:"amendments,omitempty"`
	HasSuperClass            bool                  `json:"hasSuperClass,omitempty"`
	FirstSuperStatementIndex int                   `json:"firstSuperStatementIndex,omitempty"`
	ReturnsSuper             bool                  `json:"returnsSuper,omitempty"`
	ChildFns                 []trail.Trail         `json:"childFns"`
	AST                      json.RawMessage       `json:"ast"`
}

// Build marshals fn's function-info JSON payload (spec.md §4.7). argNames
// is the `arguments` pseudo-binding's linked formal-parameter names, if
// any (looked up by the caller on fn's params block, since Function
// itself keeps no direct block reference). childFns are the trails of
// fn's direct child function nodes, relative to fn's own root.
func Build(fn *block.Function, argNames []string, childFns []trail.Trail) ([]byte, error) {
	astJSON, err := json.Marshal(fn.Node)
	if err != nil {
		return nil, err
	}

	p := payload{
		IsStrict:                 fn.IsStrict,
		SuperIsProto:             fn.SuperIsProto,
		ContainsEval:             fn.ContainsEval,
		ContainsImport:           fn.ContainsImport,
		ArgNames:                 argNames,
		InternalVars:             fn.InternalVars,
		HasSuperClass:            fn.HasSuperClass,
		FirstSuperStatementIndex: fn.FirstSuperStatementIndex,
		ReturnsSuper:             fn.ReturnsSuper,
		ChildFns:                 childFns,
		AST:                      astJSON,
	}

	p.Scopes = buildScopes(fn)

	if len(fn.GlobalVarNames) > 0 {
		names := make([]string, 0, len(fn.GlobalVarNames))
		for n := range fn.GlobalVarNames {
			names = append(names, n)
		}
		sort.Strings(names)
		p.GlobalVarNames = names
	}

	if len(fn.Amendments) > 0 {
		// Reversed, deepest-first (spec.md §4.7 "amendments").
		p.Amendments = make([][]any, len(fn.Amendments))
		for i, a := range fn.Amendments {
			tuple := make([]any, 0, 2+len(a.Trail))
			tuple = append(tuple, a.Kind.String(), a.BlockID)
			for _, k := range a.Trail {
				tuple = append(tuple, k)
			}
			p.Amendments[len(fn.Amendments)-1-i] = tuple
		}
	}

	return json.Marshal(p)
}

// buildScopes flattens fn.ExternalVars into ascending block-id order
// (spec.md §4.7 "scopes: in ascending block-id order").
func buildScopes(fn *block.Function) []scopeEntry {
	if len(fn.ExternalVars) == 0 {
		return nil
	}
	blocks := make([]*block.Block, 0, len(fn.ExternalVars))
	for b := range fn.ExternalVars {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].ID < blocks[j].ID })

	scopes := make([]scopeEntry, 0, len(blocks))
	for _, b := range blocks {
		vars := make(map[string]*varEntry, len(fn.ExternalVars[b]))
		for name, ev := range fn.ExternalVars[b] {
			vars[name] = &varEntry{
				IsReadFrom:   ev.IsReadFrom,
				IsAssignedTo: ev.IsAssignedTo,
				Trails:       ev.Trails,
			}
		}
		scopes = append(scopes, scopeEntry{BlockID: b.ID, BlockName: b.Name, Vars: vars})
	}
	return scopes
}
