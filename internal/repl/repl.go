// Package repl implements an interactive read-eval-print loop over
// internal/eval.Evaluator, persisting its lexical environment and
// Model across lines (spec.md section 5: "per-evaluation state (Model,
// root scope, AST) is fully private to a single evaluation" still
// holds — REPL just keeps re-using the same Evaluator line after
// line, same as re-running Evaluate against one long-lived file).
//
// Grounded on sentra/internal/repl/repl.go's bufio.Scanner read loop,
// generalized from "fresh compiler + fresh chunk + reset VM per line"
// to "same Evaluator, same Model, every line just an incremental
// source fragment" since the language here has no bytecode stage to
// swap.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/HazenBabcock/opensdraw/internal/eval"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"
)

const exitCommand = "(exit)"

// REPL is one interactive session over a persistent Evaluator.
type REPL struct {
	Evaluator   *eval.Evaluator
	In          io.Reader
	Out         io.Writer
	interactive bool
	lineNum     int
}

// New builds a REPL over ev, auto-detecting whether out is a terminal
// (spec.md carries no REPL contract of its own; the prompt/banner are
// only shown for a real terminal, matching how a piped `opensdraw repl
// < script.lcad` is expected to behave like a batch evaluator).
func New(ev *eval.Evaluator, in io.Reader, out io.Writer) *REPL {
	interactive := false
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	ev.Out = out
	return &REPL{Evaluator: ev, In: in, Out: out, interactive: interactive}
}

func (r *REPL) banner() {
	started := strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
	fmt.Fprintf(r.Out, "opensdraw REPL | started %s | type %s to quit\n", started, exitCommand)
}

func (r *REPL) prompt() {
	if r.interactive {
		fmt.Fprintf(r.Out, "%d> ", r.lineNum)
	}
}

// Run drives the loop until In is exhausted or the user types
// `(exit)`. Each line is evaluated as its own fragment of source
// against the REPL's persistent Evaluator, so `(def x 1)` on one line
// is visible to `(+ x 1)` on the next.
func (r *REPL) Run() {
	if r.interactive {
		r.banner()
	}
	scanner := bufio.NewScanner(r.In)
	for {
		r.lineNum++
		r.prompt()
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == exitCommand {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		v, err := r.Evaluator.Evaluate(line, "<repl>")
		if err != nil {
			fmt.Fprintln(r.Out, err)
			continue
		}
		fmt.Fprintln(r.Out, v.String())
	}
	r.sessionSummary()
}

func (r *REPL) sessionSummary() {
	if !r.interactive {
		return
	}
	parts := 0
	for _, g := range r.Evaluator.Model.Groups() {
		for _, e := range g.Entries {
			_ = e
			parts++
		}
	}
	fmt.Fprintf(r.Out, "%s entries accumulated across %s groups\n",
		humanize.Comma(int64(parts)), humanize.Comma(int64(len(r.Evaluator.Model.Groups()))))
}
