// Package source implements the parser boundary (spec.md §4.13) and the
// source-maps index the driver optionally emits alongside instrumented
// output.
//
// Grounded on the teacher's lang/scanner+lang/parser split: the teacher
// owns its own recursive-descent parser, but this module's input is
// already a parsed AST object (spec.md §6 "Input: an AST object with a
// program root node") — Loader exists only so a caller that *does* have
// raw source text (the CLI driver, a REPL) can plug in whatever parser
// it likes without this package depending on one.
package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mna/jsinstrument/ast"
)

// Loader turns source text into a parsed Program. The CLI
// (internal/maincmd) calls it once per file before handing the result to
// the driver.
type Loader interface {
	Parse(ctx context.Context, filename string, src []byte) (*ast.Program, error)
}

// NullLoader is the default Loader: since this module's contract is "you
// already parsed it", NullLoader errors if ever actually invoked,
// surfacing a caller wiring mistake immediately instead of silently
// returning an empty program.
type NullLoader struct{}

func (NullLoader) Parse(_ context.Context, filename string, _ []byte) (*ast.Program, error) {
	return nil, fmt.Errorf("source: no Loader configured, cannot parse %q from raw text", filename)
}

// SourcesIndex maps a filename to its source text, emitted as the
// `getSources` payload referenced by the function-info's third tuple
// element (spec.md §4.7 "ast", §6 "Output"). Entries come only from Add;
// internal/driver passes an empty index when SourceMaps is enabled and a
// nil one otherwise, adds no file text to either, and MarshalJSON renders
// both as `{}`.
type SourcesIndex map[string]string

// Add records filename's source text in the index. A no-op when idx is
// nil, so callers can pass a nil SourcesIndex when SourceMaps is off
// without a conditional at every call site.
func (idx SourcesIndex) Add(filename, src string) {
	if idx == nil {
		return
	}
	idx[filename] = src
}

// MarshalJSON renders an empty index as `{}` rather than `null`, matching
// spec.md §4.11 "SourceMaps: false → getSources returns an empty index".
func (idx SourcesIndex) MarshalJSON() ([]byte, error) {
	if idx == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(idx))
}
