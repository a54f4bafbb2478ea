package analysis

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Fixtures below build *ir.Func graphs directly with llir/llvm's IR
// builder, the same NewAdd/NewICmp/NewCondBr idiom the teacher's
// LLVMCodegen uses, rather than parsing textual IR.

func newTestFunc(name string) *ir.Func {
	m := ir.NewModule()
	return m.NewFunc(name, types.I32)
}

func ci(n int64) *constant.Int {
	return constant.NewInt(types.I32, n)
}

// straightLineAddFunc builds: entry: a = 3 + 4; b = a - 1; ret b.
func straightLineAddFunc() (*ir.Func, *ir.InstAdd, *ir.InstSub) {
	fn := newTestFunc("straight_line")
	entry := fn.NewBlock("entry")
	a := entry.NewAdd(ci(3), ci(4))
	b := entry.NewSub(a, ci(1))
	entry.NewRet(b)
	return fn, a, b
}

// countedLoopFunc builds a canonical ascending (or descending, if desc is
// true) counted loop:
//
//	entry:
//	  br header
//	header:
//	  i = phi [0 or start, entry], [i_next, body]
//	  cmp = icmp slt/sgt i, bound
//	  br cmp, body, exit
//	body:
//	  i_next = i + 1 (or i - 1)
//	  br header
//	exit:
//	  ret i
func countedLoopFunc(start, bound int64, desc bool) (fn *ir.Func, header, body *ir.Block, phi *ir.InstPhi, next ir.Instruction) {
	fn = newTestFunc("counted_loop")
	entry := fn.NewBlock("entry")
	header = fn.NewBlock("header")
	body = fn.NewBlock("body")
	exit := fn.NewBlock("exit")

	entry.NewBr(header)

	phi = header.NewPhi(ir.NewIncoming(ci(start), entry))

	var cmp *ir.InstICmp
	if desc {
		cmp = header.NewICmp(enum.IPredSGT, phi, ci(bound))
	} else {
		cmp = header.NewICmp(enum.IPredSLT, phi, ci(bound))
	}
	header.NewCondBr(cmp, body, exit)

	if desc {
		next = body.NewSub(phi, ci(1))
	} else {
		next = body.NewAdd(phi, ci(1))
	}
	body.NewBr(header)
	phi.Incs = append(phi.Incs, ir.NewIncoming(next.(value.Value), body))

	exit.NewRet(phi)
	return fn, header, body, phi, next
}

// twoBranchMergeFunc builds:
//
//	entry: cmp = icmp slt x, 5; br cmp, then, els
//	then:  br merge
//	els:   br merge
//	merge: a = phi [1, then], [2, els]; ret a
func twoBranchMergeFunc() (fn *ir.Func, merge *ir.Block, phi *ir.InstPhi) {
	fn = newTestFunc("two_branch_merge")
	entry := fn.NewBlock("entry")
	then := fn.NewBlock("then")
	els := fn.NewBlock("els")
	merge = fn.NewBlock("merge")

	x := ir.NewParam("x", types.I32)
	fn.Params = append(fn.Params, x)

	cmp := entry.NewICmp(enum.IPredSLT, x, ci(5))
	entry.NewCondBr(cmp, then, els)

	then.NewBr(merge)
	els.NewBr(merge)

	phi = merge.NewPhi(ir.NewIncoming(ci(1), then), ir.NewIncoming(ci(2), els))
	merge.NewRet(phi)

	return fn, merge, phi
}

// unhandledOpcodeFunc builds: entry: y = x * 2 (InstMul, unhandled).
func unhandledOpcodeFunc() (fn *ir.Func, mul *ir.InstMul) {
	fn = newTestFunc("unhandled_opcode")
	entry := fn.NewBlock("entry")
	x := ir.NewParam("x", types.I32)
	fn.Params = append(fn.Params, x)
	mul = entry.NewMul(x, ci(2))
	entry.NewRet(mul)
	return fn, mul
}

// pathologicalLoopFunc builds a loop whose update is non-monotone (doubles
// each iteration via multiply, which the loop heuristic never recognizes
// as a step), defeating §4.6 so the solver has no closed-form bound to
// fall back on and must rely on the naïve φ-join converging, or the
// iteration cap, to terminate.
func pathologicalLoopFunc() (fn *ir.Func, header *ir.Block, phi *ir.InstPhi) {
	fn = newTestFunc("pathological_loop")
	entry := fn.NewBlock("entry")
	header = fn.NewBlock("header")
	body := fn.NewBlock("body")
	exit := fn.NewBlock("exit")

	entry.NewBr(header)
	phi = header.NewPhi(ir.NewIncoming(ci(1), entry))
	cmp := header.NewICmp(enum.IPredSLT, phi, ci(1000000))
	header.NewCondBr(cmp, body, exit)

	next := body.NewMul(phi, ci(2))
	body.NewBr(header)
	phi.Incs = append(phi.Incs, ir.NewIncoming(next, body))

	exit.NewRet(phi)
	return fn, header, phi
}

// deepLoopChainFunc builds a chain of n sequential counted loops, each
// feeding the next's initial value, forcing the solver through more than n
// worklist pops before it can converge — used together with a small
// MaxIters to exercise the iteration cap deterministically.
func deepLoopChainFunc(n int) *ir.Func {
	fn := newTestFunc("deep_loop_chain")
	prev := fn.NewBlock("entry")
	var lastVal value.Value = ci(0)
	for i := 0; i < n; i++ {
		header := fn.NewBlock("header")
		body := fn.NewBlock("body")
		prev.NewBr(header)

		phi := header.NewPhi(ir.NewIncoming(lastVal, prev))
		cmp := header.NewICmp(enum.IPredSLT, phi, ci(10))
		next := fn.NewBlock("next")
		header.NewCondBr(cmp, body, next)

		upd := body.NewAdd(phi, ci(1))
		body.NewBr(header)
		phi.Incs = append(phi.Incs, ir.NewIncoming(upd, body))

		lastVal = phi
		prev = next
	}
	prev.NewRet(lastVal)
	return fn
}
