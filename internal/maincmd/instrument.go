package maincmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/mna/mainer"

	"github.com/mna/jsinstrument/internal/driver"
	"github.com/mna/jsinstrument/internal/ierrors"
	"github.com/mna/jsinstrument/internal/source"
)

// Instrument implements the `instrument` subcommand (spec.md §6): parse
// each file, run the full analyzer→transform pipeline, and report how many
// files were instrumented. The mutated programs are not printed.
//
// This module's contract starts from an already-parsed AST (spec.md §6
// "Input: an AST object with a program root node"); it owns no JS parser
// of its own. The CLI therefore needs a source.Loader plugged in to turn
// file bytes into a Program — source.NullLoader is the default and
// reports exactly that integration gap rather than silently producing
// nothing, the same "parse-time errors ... out of scope" boundary spec.md
// §7 draws around inner eval()-ed strings.
func (c *Cmd) Instrument(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return c.runFiles(ctx, stdio, args, false)
}

// Analyze implements the `analyze` subcommand: pass 1 only, no mutation,
// reporting errors instead of emitting instrumented output. --name-blocks
// assigns diagnostic block names, but the block graph is not printed.
func (c *Cmd) Analyze(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return c.runFiles(ctx, stdio, args, true)
}

func (c *Cmd) runFiles(ctx context.Context, stdio mainer.Stdio, args []string, analyzeOnly bool) error {
	loader := source.Loader(source.NullLoader{})

	var tasks []driver.Task
	for _, filename := range args {
		src, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", filename, err)
			return err
		}
		program, err := loader.Parse(ctx, filename, src)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", filename, err)
			return err
		}
		tasks = append(tasks, driver.Task{
			Program: program,
			Options: driver.FileOptions{
				Filename:   filename,
				InitPath:   c.InitPath,
				Prefix:     prefixOrDefault(c.Prefix),
				Strict:     c.Strict,
				CommonJS:   c.CommonJS,
				SourceMaps: c.SourceMaps,
			},
		})
	}

	var failed bool
	var all ierrors.ErrorList
	if analyzeOnly {
		for _, t := range tasks {
			errs := driver.Analyze(t.Program, t.Options, c.NameBlocks)
			if len(errs) == 0 {
				continue
			}
			failed = true
			all = append(all, errs...)
		}
	} else {
		results := driver.Batch(ctx, tasks, runtime.GOMAXPROCS(0))
		for _, errs := range results {
			if len(errs) == 0 {
				continue
			}
			failed = true
			all = append(all, errs...)
		}
	}
	for _, e := range ierrors.Sorted(all) {
		fmt.Fprintln(stdio.Stderr, e)
	}
	if failed {
		return fmt.Errorf("%s: errors were reported", binName)
	}
	if analyzeOnly {
		fmt.Fprintf(stdio.Stdout, "analyzed %d file(s), no errors\n", len(tasks))
	} else {
		fmt.Fprintf(stdio.Stdout, "instrumented %d file(s)\n", len(tasks))
	}
	return nil
}

func prefixOrDefault(p string) string {
	if p == "" {
		return "livepack"
	}
	return p
}
