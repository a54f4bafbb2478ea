// Command rangeanalyze runs interval (value-range) analysis over every
// function in an LLVM IR (.ll) file and prints a per-block report.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/llir/llvm/asm"
	"github.com/mattn/go-isatty"

	"github.com/dshills/rangeval/internal/analysis"
	"github.com/dshills/rangeval/internal/report"
)

func main() {
	var input string
	var maxIters int
	var signedDefault bool
	var reportUnvisited bool
	var color string
	flag.StringVar(&input, "file", "", "LLVM IR (.ll) file to analyze (reads from stdin if not provided)")
	flag.IntVar(&maxIters, "max-iters", 1000, "upper bound on worklist pops before the solver gives up")
	flag.BoolVar(&signedDefault, "signed-default", true, "treat ambiguous-signedness comparisons as signed")
	flag.BoolVar(&reportUnvisited, "report-unvisited", true, "emit a marker line for blocks unreached after fixed point")
	flag.StringVar(&color, "color", "auto", "colorize output: auto, always, never")
	flag.Parse()

	var data []byte
	var err error
	if input == "" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
	} else {
		data, err = os.ReadFile(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", input, err)
			os.Exit(1)
		}
	}

	module, err := asm.ParseBytes(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing LLVM IR: %v\n", err)
		os.Exit(1)
	}

	cfg := analysis.Config{
		MaxIters:        maxIters,
		SignedDefault:   signedDefault,
		ReportUnvisited: reportUnvisited,
	}
	opts := report.Options{
		Color:           useColor(color),
		ReportUnvisited: reportUnvisited,
	}

	for _, fn := range module.Funcs {
		if len(fn.Blocks) == 0 {
			continue // external declaration, nothing to analyze
		}
		res := analysis.Analyze(fn, cfg)
		fmt.Printf("function %s:\n", fn.Name())
		fmt.Print(report.RenderWith(fn, res, opts))
		for _, d := range res.Diags.Strings() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", fn.Name(), d)
		}
	}
}

func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}
