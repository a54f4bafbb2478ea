// Package report renders an analysis.Result per spec §4.8: for each
// visited block, every value's interval plus a derived signed bit-width,
// or MAX for an unbounded interval.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/dshills/rangeval/internal/analysis"
)

// Options controls rendering. Color is independent of the plain-text
// Render path used by determinism tests: a colorless render and a colored
// render of the same Result always carry identical information, just
// different escape codes around the cap-hit banner, the unvisited markers
// and each value line.
type Options struct {
	Color           bool
	ReportUnvisited bool
}

// Render produces the plain-text report: deterministic, no color escapes,
// suitable for the "two runs produce byte-identical reports" property.
func Render(fn *ir.Func, res *analysis.Result) string {
	return render(fn, res, Options{Color: false, ReportUnvisited: true})
}

// RenderWith produces a report honoring opts, including color when
// opts.Color is set (used by the CLI against an interactive terminal).
func RenderWith(fn *ir.Func, res *analysis.Result, opts Options) string {
	return render(fn, res, opts)
}

func render(fn *ir.Func, res *analysis.Result, opts Options) string {
	var b strings.Builder

	if res.CapHit {
		banner := "(MAX ITERATIONS LIMIT)"
		if opts.Color {
			banner = paint(banner, color.FgRed, color.Bold)
		}
		b.WriteString(banner)
		b.WriteString("\n")
	}

	for _, block := range fn.Blocks {
		if !res.Visited[block] {
			if opts.ReportUnvisited {
				marker := fmt.Sprintf("%s: (unvisited)", block.Name())
				if opts.Color {
					marker = paint(marker, color.Faint)
				}
				b.WriteString(marker)
				b.WriteString("\n")
			}
			continue
		}
		fmt.Fprintf(&b, "%s:\n", block.Name())
		for _, line := range blockLines(res.Store, block, opts) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// named is the subset of value.Value every value this store can hold
// actually implements — instructions and block/function parameters all
// carry a local name via llir/llvm's LocalIdent embedding.
type named interface {
	value.Value
	Name() string
}

func blockLines(store *analysis.Store, block *ir.Block, opts Options) []string {
	values := store.Values(block)
	entries := make([]struct {
		name string
		iv   analysis.Interval
	}, 0, len(values))
	for v, iv := range values {
		n, ok := v.(named)
		if !ok {
			continue
		}
		entries = append(entries, struct {
			name string
			iv   analysis.Interval
		}{n.Name(), iv})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatEntry(e.name, e.iv, opts))
	}
	return lines
}

func formatEntry(name string, iv analysis.Interval, opts Options) string {
	if iv.IsTop() || iv.Lo == analysis.NegInf || iv.Hi == analysis.PosInf {
		text := fmt.Sprintf("%s(%s, %s) = MAX", name, endpoint(iv.Lo), endpoint(iv.Hi))
		if opts.Color {
			return paint(text, color.FgYellow)
		}
		return text
	}
	rng := iv.Hi - iv.Lo + 1
	bits := bitsFor(rng)
	text := fmt.Sprintf("%s(%d, %d) = %d {%d bit}", name, iv.Lo, iv.Hi, rng, bits)
	if opts.Color {
		return paint(text, color.FgGreen)
	}
	return text
}

// paint wraps text in the given attributes. EnableColor overrides
// fatih/color's own terminal detection, so Options.Color alone decides.
func paint(text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

func endpoint(v int64) string {
	switch v {
	case analysis.NegInf:
		return "-Inf"
	case analysis.PosInf:
		return "+Inf"
	default:
		return fmt.Sprintf("%d", v)
	}
}

// bitsFor computes ceil(log2(max(range, 2))) + 1, the signed bit-width
// that can represent every value in a range-sized closed interval.
func bitsFor(rng int64) int {
	n := rng
	if n < 2 {
		n = 2
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}
