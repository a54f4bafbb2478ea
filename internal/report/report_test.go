package report

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"github.com/dshills/rangeval/internal/analysis"
)

func ci(n int64) *constant.Int { return constant.NewInt(types.I32, n) }

func straightLineFunc() *ir.Func {
	m := ir.NewModule()
	fn := m.NewFunc("straight_line", types.I32)
	entry := fn.NewBlock("entry")
	a := entry.NewAdd(ci(3), ci(4))
	entry.NewRet(a)
	return fn
}

func unreachableBlockFunc() *ir.Func {
	m := ir.NewModule()
	fn := m.NewFunc("has_dead_block", types.I32)
	entry := fn.NewBlock("entry")
	dead := fn.NewBlock("dead")
	entry.NewRet(ci(0))
	dead.NewRet(ci(1))
	return fn
}

func unhandledOpcodeFunc() *ir.Func {
	m := ir.NewModule()
	fn := m.NewFunc("unhandled", types.I32)
	entry := fn.NewBlock("entry")
	x := ir.NewParam("x", types.I32)
	fn.Params = append(fn.Params, x)
	y := entry.NewMul(x, ci(2))
	entry.NewRet(y)
	return fn
}

func TestRenderIsDeterministic(t *testing.T) {
	fn1 := straightLineFunc()
	fn2 := straightLineFunc()
	res1 := analysis.Analyze(fn1, analysis.DefaultConfig())
	res2 := analysis.Analyze(fn2, analysis.DefaultConfig())

	out1 := Render(fn1, res1)
	out2 := Render(fn2, res2)
	if out1 != out2 {
		t.Errorf("Render is not deterministic:\n%s\nvs\n%s", out1, out2)
	}
}

func TestRenderPlainHasNoEscapeCodes(t *testing.T) {
	fn := straightLineFunc()
	res := analysis.Analyze(fn, analysis.DefaultConfig())
	out := Render(fn, res)
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain Render should never emit escape codes, got:\n%s", out)
	}
}

func TestRenderBoundedShowsBitWidth(t *testing.T) {
	fn := straightLineFunc()
	res := analysis.Analyze(fn, analysis.DefaultConfig())
	out := Render(fn, res)
	// a = 3 + 4 is a point interval (7,7): width 1, representable in 2
	// signed bits (ceil(log2(max(1,2)))+1 == 2).
	if !strings.Contains(out, "(7, 7) = 1 {2 bit}") {
		t.Errorf("expected a bounded-range line with a derived bit-width, got:\n%s", out)
	}
}

func TestRenderUnboundedShowsMax(t *testing.T) {
	fn := unhandledOpcodeFunc()
	res := analysis.Analyze(fn, analysis.DefaultConfig())
	out := Render(fn, res)
	if !strings.Contains(out, "= MAX") {
		t.Errorf("expected MAX for an unhandled opcode's unbounded result, got:\n%s", out)
	}
}

func TestRenderUnvisitedMarker(t *testing.T) {
	fn := unreachableBlockFunc()
	res := analysis.Analyze(fn, analysis.DefaultConfig())
	out := Render(fn, res)
	if !strings.Contains(out, "dead: (unvisited)") {
		t.Errorf("expected an unvisited marker for the dead block, got:\n%s", out)
	}
}

func TestRenderSuppressesUnvisitedWhenDisabled(t *testing.T) {
	fn := unreachableBlockFunc()
	res := analysis.Analyze(fn, analysis.DefaultConfig())
	out := RenderWith(fn, res, Options{Color: false, ReportUnvisited: false})
	if strings.Contains(out, "dead") {
		t.Errorf("expected no mention of the unvisited block when ReportUnvisited is false, got:\n%s", out)
	}
}

func TestRenderColorAddsEscapesWithoutChangingData(t *testing.T) {
	fn := straightLineFunc()
	res := analysis.Analyze(fn, analysis.DefaultConfig())
	plain := RenderWith(fn, res, Options{Color: false, ReportUnvisited: true})
	colored := RenderWith(fn, res, Options{Color: true, ReportUnvisited: true})

	if plain == colored {
		t.Errorf("expected colored output to differ from plain output")
	}
	if !strings.Contains(colored, "7") {
		t.Errorf("colored output should still carry the underlying numbers, got:\n%s", colored)
	}
}

func TestRenderCapHitBanner(t *testing.T) {
	fn := straightLineFunc()
	cfg := analysis.Config{MaxIters: 0, SignedDefault: true, ReportUnvisited: true}
	res := analysis.Analyze(fn, cfg)
	out := Render(fn, res)
	if !strings.Contains(out, "(MAX ITERATIONS LIMIT)") {
		t.Errorf("expected the cap-hit banner when MaxIters is exhausted, got:\n%s", out)
	}
}
