// Command opensdraw is the CLI driver: evaluate a `.lcad` source file
// and serialize the resulting Model to LDraw text, start an
// interactive REPL, or evaluate `.lcad` fixture files one by one and
// report each as passed or failed.
//
// Grounded on sentra/cmd/sentra/main.go's manual arg parsing,
// command-alias map, and "unknown command, did you mean" suggestion
// flow, trimmed to the handful of subcommands spec.md section 6
// actually names (no build/watch/lint/fmt/lsp/package-manager
// surface, since opensdraw has no such concepts).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/HazenBabcock/opensdraw/internal/eval"
	"github.com/HazenBabcock/opensdraw/internal/ldraw"
	"github.com/HazenBabcock/opensdraw/internal/model"
	"github.com/HazenBabcock/opensdraw/internal/repl"
	"github.com/dustin/go-humanize"
)

var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"t": "test",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("opensdraw 0.1.0")
	case "run":
		runCommand(args[1:])
	case "repl":
		replCommand()
	case "test":
		testCommand(args[1:])
	default:
		suggestCommand(cmd)
	}
}

// runCommand evaluates a `.lcad` file and writes LDraw text, either
// to stdout or to -o, or to a directory of numbered frames when
// --frames N re-evaluates the same source under successive
// `time-index` bindings (spec.md section 9's animation convention).
func runCommand(args []string) {
	var (
		filename   string
		out        string
		frames     int
		libraryDir string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			i++
			if i >= len(args) {
				fatalf("missing value for %s", args[i-1])
			}
			out = args[i]
		case "--frames":
			i++
			if i >= len(args) {
				fatalf("missing value for --frames")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				fatalf("--frames must be a positive integer, got %q", args[i])
			}
			frames = n
		case "--library":
			i++
			if i >= len(args) {
				fatalf("missing value for --library")
			}
			libraryDir = args[i]
		default:
			if filename == "" {
				filename = args[i]
			}
		}
	}
	if filename == "" {
		fatalf("usage: opensdraw run <file.lcad> [-o out.ldr] [--frames N] [--library dir]")
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		fatalf("reading %s: %v", filename, err)
	}

	if libraryDir == "" {
		libraryDir = filepath.Dir(filename)
	}

	if frames <= 1 {
		if err := runOneFrame(string(source), filename, libraryDir, 0, out); err != nil {
			fatalf("%s", err)
		}
		return
	}

	if out == "" {
		out = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		fatalf("creating frame directory %s: %v", out, err)
	}
	for i := 0; i < frames; i++ {
		framePath := filepath.Join(out, fmt.Sprintf("frame-%04d.ldr", i))
		if err := runOneFrame(string(source), filename, libraryDir, i, framePath); err != nil {
			fatalf("frame %d: %s", i, err)
		}
	}
}

func runOneFrame(source, filename, libraryDir string, timeIndex int, out string) error {
	start := time.Now()
	ev := eval.NewEvaluator(timeIndex, libraryDir)
	ev.Out = os.Stdout
	if _, err := ev.Evaluate(source, filename); err != nil {
		return err
	}
	for _, w := range ev.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := ldraw.Serialize(w, ev.Model, filename); err != nil {
		return err
	}
	printSummary(ev, start)
	return nil
}

// printSummary reports the part and warning counts a run produced,
// the same "N things happened in M time" shape sentra's build/test
// commands print after a run.
func printSummary(ev *eval.Evaluator, start time.Time) {
	parts := 0
	for _, g := range ev.Model.Groups() {
		for _, e := range g.Entries {
			if e.Kind == model.EntryPart {
				parts++
			}
		}
	}
	fmt.Fprintf(os.Stderr, "%s, %s in %s\n",
		humanize.Plural(parts, "part", "parts"),
		humanize.Plural(len(ev.Warnings), "warning", "warnings"),
		time.Since(start))
}

func replCommand() {
	r := repl.New(eval.NewEvaluator(0, "."), os.Stdin, os.Stdout)
	r.Run()
}

// testCommand evaluates each listed (or discovered) `.lcad` fixture
// and reports pass/fail on whether evaluation completed without
// error, the spec's "test" surface for source files that are
// exercises in themselves rather than go test fixtures.
func testCommand(args []string) {
	var files []string
	if len(args) == 0 {
		matches, err := filepath.Glob("*_test.lcad")
		if err != nil {
			fatalf("discovering test files: %v", err)
		}
		files = matches
	} else {
		for _, pattern := range args {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				fatalf("finding %s: %v", pattern, err)
			}
			files = append(files, matches...)
		}
	}

	if len(files) == 0 {
		fmt.Println("no test files found (looking for *_test.lcad)")
		return
	}

	failed := 0
	for _, f := range files {
		source, err := os.ReadFile(f)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", f, err)
			failed++
			continue
		}
		ev := eval.NewEvaluator(0, filepath.Dir(f))
		if _, err := ev.Evaluate(string(source), f); err != nil {
			fmt.Printf("FAIL %s: %v\n", f, err)
			failed++
			continue
		}
		fmt.Printf("PASS %s\n", f)
	}

	fmt.Printf("\n%d passed, %d failed\n", len(files)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func showUsage() {
	fmt.Println("opensdraw - OpenSDraw language evaluator and LDraw generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  opensdraw run <file.lcad> [-o out.ldr] [--frames N] [--library dir]")
	fmt.Println("                             Evaluate a source file and emit LDraw text  (alias: r)")
	fmt.Println("  opensdraw repl             Start an interactive REPL                    (alias: i)")
	fmt.Println("  opensdraw test [files...]  Evaluate *_test.lcad fixtures                (alias: t)")
	fmt.Println()
	fmt.Println("  opensdraw help             Show this message")
	fmt.Println("  opensdraw version          Show version")
}

func suggestCommand(cmd string) {
	fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
	fmt.Fprintln(os.Stderr, "Run 'opensdraw help' to see all available commands")
	os.Exit(1)
}
