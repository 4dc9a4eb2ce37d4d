package resolve

import (
	"github.com/mna/jsinstrument/ast"
	"github.com/mna/jsinstrument/internal/block"
	"github.com/mna/jsinstrument/internal/ident"
)

// strictReservedWords are excluded from an eval's captured scope vars
// because they're reserved in strict mode and so can never legally be
// re-declared by the evaluated string; `this` is the one identifier-shaped
// binding we still want to pass through (spec.md §4.5 filters).
var strictReservedWords = map[string]bool{
	"implements": true, "interface": true, "package": true, "private": true,
	"protected": true, "public": true, "static": true, "let": true, "yield": true,
}

// excludedFromEvalCapture names that would make the function unserializable
// if captured by eval (spec.md §4.5, §8 property 6).
var excludedFromEvalCapture = map[string]bool{
	"require": true, "arguments": true, "new.target": true,
}

// EvalScopeVar is one captured variable entry in an eval's scopes array:
// `[name, isConst?, isSilentConst?, argNames?]`.
type EvalScopeVar struct {
	Name          string
	IsConst       bool
	IsSilentConst bool
	ArgNames      []string
}

// EvalScope is one block's contribution to an eval's scopes array:
// `[blockId, blockName?, scopeIdVarNode, vars...]`.
type EvalScope struct {
	BlockID   int
	BlockName string
	ScopeID   *ast.Identifier
	Vars      []EvalScopeVar
}

// BuildEvalScopes walks blocks from useBlock outward to the file root,
// collecting the scopes array content and registering every captured external var on fn. Blocks
// contributing nothing are skipped unless they are the file block or the
// sloppy-mode hoist block, which are always included even when empty so
// the runtime always has a stable top-level scope id to re-enter (spec.md
// §4.5 "Eval rewrite").
func BuildEvalScopes(useBlock *block.Block, fn *block.Function, idents *ident.Allocator, store *block.Store, isStrict bool, hoistBlock *block.Block) []EvalScope {
	var scopes []EvalScope
	isFile := func(b *block.Block) bool { return b.Parent == nil }

	for b := useBlock; b != nil; b = b.Parent {
		vars := collectScopeVars(b, fn, isStrict)
		if len(vars) == 0 && !isFile(b) && b != hoistBlock {
			continue
		}
		scopeID := store.ActivateBlock(b, idents.ScopeIDVarName)
		scopes = append(scopes, EvalScope{BlockID: b.ID, BlockName: b.Name, ScopeID: scopeID, Vars: vars})
	}
	return scopes
}

func collectScopeVars(b *block.Block, fn *block.Function, isStrict bool) []EvalScopeVar {
	var vars []EvalScopeVar
	b.Bindings(func(name string, bdg *block.Binding) bool {
		if excludedFromEvalCapture[name] {
			return true
		}
		if isStrict && strictReservedWords[name] {
			return true
		}
		if b.ID < fn.ID {
			fn.ExternalVarFor(b, name, bdg)
		} else {
			block.ActivateBinding(bdg)
		}
		vars = append(vars, EvalScopeVar{
			Name:          name,
			IsConst:       bdg.IsConst,
			IsSilentConst: bdg.IsSilentConst,
			ArgNames:      bdg.ArgNames,
		})
		return true
	})
	return vars
}

// EvalCall builds the tracker-mediated replacement for a direct eval()
// call (spec.md §4.5):
//
//	(temp = tracker.evalDirect(eval, [args…], [scopes…], isStrict, proxied, [hoistBlockId?]))[0]
//	  ? eval(temp[1])
//	  : (0, temp[1])(...temp[2])
func EvalCall(call *ast.CallExpression, temp *ast.Identifier, tracker *ast.Identifier, scopes []EvalScope, isStrict, proxiedOuterEval bool, hoistBlockID *int) ast.Expr {
	scopesExpr := ast.NewArray(scopeExprs(scopes)...)
	argsExpr := ast.NewArray(call.Arguments...)

	callArgs := []ast.Expr{
		ast.NewIdent("eval"),
		argsExpr,
		scopesExpr,
		ast.NewBoolean(isStrict),
		ast.NewBoolean(proxiedOuterEval),
	}
	if hoistBlockID != nil {
		callArgs = append(callArgs, ast.NewNumber(float64(*hoistBlockID)))
	}

	evalDirect := ast.NewCall(ast.NewMember(tracker, ast.NewIdent("evalDirect"), false), callArgs...)
	assign := ast.NewAssign("=", temp, evalDirect)
	flagIdx := ast.NewMember(assign, ast.NewNumber(0), true)

	evalArg := ast.NewMember(temp, ast.NewNumber(1), true)
	trueBranch := ast.NewCall(ast.NewIdent("eval"), evalArg)

	calleeExpr := ast.NewSequence(ast.NewNumber(0), ast.NewMember(temp, ast.NewNumber(1), true))
	spreadArgs := ast.NewSpread(ast.NewMember(temp, ast.NewNumber(2), true))
	falseBranch := ast.NewCall(calleeExpr, spreadArgs)

	return ast.NewConditional(flagIdx, trueBranch, falseBranch)
}

func scopeExprs(scopes []EvalScope) []ast.Expr {
	out := make([]ast.Expr, len(scopes))
	for i, sc := range scopes {
		entry := []ast.Expr{ast.NewNumber(float64(sc.BlockID))}
		if sc.BlockName != "" {
			entry = append(entry, ast.NewString(sc.BlockName))
		} else {
			entry = append(entry, ast.NewNull())
		}
		entry = append(entry, sc.ScopeID)
		for _, v := range sc.Vars {
			entry = append(entry, varExpr(v))
		}
		out[i] = ast.NewArray(entry...)
	}
	return out
}

func varExpr(v EvalScopeVar) ast.Expr {
	elems := []ast.Expr{ast.NewString(v.Name)}
	if v.IsConst {
		elems = append(elems, ast.NewBoolean(true))
	} else {
		elems = append(elems, ast.NewNull())
	}
	if v.IsSilentConst {
		elems = append(elems, ast.NewBoolean(true))
	} else {
		elems = append(elems, ast.NewNull())
	}
	if len(v.ArgNames) > 0 {
		names := make([]ast.Expr, len(v.ArgNames))
		for i, n := range v.ArgNames {
			names[i] = ast.NewString(n)
		}
		elems = append(elems, ast.NewArray(names...))
	}
	return ast.NewArray(elems...)
}

// LocalEvalIdentifier replaces a bare `eval` identifier reference (not a
// call) with the allocator's localEval accessor (spec.md §4.4 "eval
// identifier").
func LocalEvalIdentifier(idents *ident.Allocator) *ast.Identifier {
	return idents.LocalEval()
}
