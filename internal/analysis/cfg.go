package analysis

import "github.com/llir/llvm/ir"

// View is a read-only projection of a single *ir.Func: the instruction
// stream each block already carries, plus predecessors, which llir/llvm
// does not track directly and which this analyzer must therefore compute
// once up front. φ-incoming pairs are read straight from InstPhi.Incs.
type View struct {
	fn    *ir.Func
	preds map[*ir.Block][]*ir.Block
}

// NewView builds a CFG view for fn, indexing predecessors from every
// block's terminator.
func NewView(fn *ir.Func) *View {
	v := &View{fn: fn, preds: make(map[*ir.Block][]*ir.Block, len(fn.Blocks))}
	for _, b := range fn.Blocks {
		for _, s := range Successors(b) {
			v.preds[s] = append(v.preds[s], b)
		}
	}
	return v
}

// Entry returns the function's entry block, the first in program order.
func (v *View) Entry() *ir.Block {
	if len(v.fn.Blocks) == 0 {
		return nil
	}
	return v.fn.Blocks[0]
}

// Blocks returns every block of the function in program order.
func (v *View) Blocks() []*ir.Block {
	return v.fn.Blocks
}

// Preds returns b's predecessors, order-stable (the order blocks were
// discovered while indexing).
func (v *View) Preds(b *ir.Block) []*ir.Block {
	return v.preds[b]
}

// Successors returns a terminator's successor blocks: zero for a return or
// unreachable terminator, one for an unconditional branch, two for a
// conditional branch (index 0 = taken/true, index 1 = not-taken/false), and
// the case targets plus the default for a switch.
func Successors(b *ir.Block) []*ir.Block {
	switch term := b.Term.(type) {
	case *ir.TermBr:
		return []*ir.Block{term.Target}
	case *ir.TermCondBr:
		return []*ir.Block{term.TargetTrue, term.TargetFalse}
	case *ir.TermSwitch:
		succs := make([]*ir.Block, 0, len(term.Cases)+1)
		for _, c := range term.Cases {
			succs = append(succs, c.Target)
		}
		return append(succs, term.TargetDefault)
	default:
		return nil
	}
}

// reachableFrom reports whether target is reachable from start by walking
// successor edges, used by the loop trip-count heuristic (§4.6) to confirm
// a φ's value-incoming predecessor is actually a back edge (i.e. the block
// loops back to itself through that predecessor).
func reachableFrom(start, target *ir.Block) bool {
	seen := map[*ir.Block]bool{start: true}
	stack := []*ir.Block{start}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b == target {
			return true
		}
		for _, s := range Successors(b) {
			if !seen[s] {
				seen[s] = true
				stack = append(stack, s)
			}
		}
	}
	return false
}
