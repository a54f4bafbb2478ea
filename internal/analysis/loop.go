package analysis

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// tripCountBound implements §4.6. It looks for a φ-node p in block b with
// exactly one constant incoming and one value incoming from a predecessor
// reachable from b (a self-loop / back edge), finds a monotone `v = p ±
// const` update of that value incoming in the back-edge block, extracts
// the loop's exit comparison from b's own conditional terminator, and
// returns the closed-form bound (k, k+s·T) or (k-|s|·T, k). ok is false if
// any step fails, in which case the caller must fall back to the naïve
// φ-join.
func tripCountBound(cache *PredicateCache, b *ir.Block, phi *ir.InstPhi) (Interval, bool) {
	if len(phi.Incs) != 2 {
		return Interval{}, false
	}

	var k int64
	var haveConst bool
	var backPred *ir.Block
	var backVal ir.Instruction

	for _, inc := range phi.Incs {
		if c, ok := inc.X.(*constant.Int); ok {
			k = c.X.Int64()
			haveConst = true
			continue
		}
		if inst, ok := inc.X.(ir.Instruction); ok {
			backPred = inc.Pred
			backVal = inst
		} else {
			return Interval{}, false
		}
	}
	if !haveConst || backVal == nil || backPred == nil {
		return Interval{}, false
	}
	if !reachableFrom(b, backPred) {
		return Interval{}, false
	}

	step, ok := monotoneStep(phi, backVal)
	if !ok || step == 0 {
		return Interval{}, false
	}

	condBr, ok := b.Term.(*ir.TermCondBr)
	if !ok {
		return Interval{}, false
	}
	fact, ok := cache.Lookup(condBr.Cond)
	if !ok {
		return Interval{}, false
	}

	pred, kExit, ok := exitConstant(fact, phi)
	if !ok {
		return Interval{}, false
	}

	ascending := step > 0
	switch pred {
	case enum.IPredSLT, enum.IPredULT:
		if !ascending {
			return Interval{}, false
		}
	case enum.IPredSLE, enum.IPredULE:
		if !ascending {
			return Interval{}, false
		}
		kExit++
	case enum.IPredSGT, enum.IPredUGT:
		if ascending {
			return Interval{}, false
		}
	case enum.IPredSGE, enum.IPredUGE:
		if ascending {
			return Interval{}, false
		}
		kExit--
	default:
		return Interval{}, false
	}

	var n int64
	if ascending {
		if kExit <= k {
			n = 0
		} else {
			n = ceilDiv(kExit-k, step)
		}
		hi := saturate(k + n*step)
		return New(k, hi), true
	}
	mag := -step
	if kExit >= k {
		n = 0
	} else {
		n = ceilDiv(k-kExit, mag)
	}
	lo := saturate(k - n*mag)
	return New(lo, k), true
}

// monotoneStep looks for v = phi ± const in v's own defining instruction,
// returning the signed step (positive for add, negative for sub) and
// whether a consistent, single such definition was found.
func monotoneStep(phi *ir.InstPhi, v ir.Instruction) (int64, bool) {
	switch inst := v.(type) {
	case *ir.InstAdd:
		if inst.X == value.Value(phi) {
			if c, ok := inst.Y.(*constant.Int); ok {
				return c.X.Int64(), true
			}
		}
		if inst.Y == value.Value(phi) {
			if c, ok := inst.X.(*constant.Int); ok {
				return c.X.Int64(), true
			}
		}
	case *ir.InstSub:
		if inst.X == value.Value(phi) {
			if c, ok := inst.Y.(*constant.Int); ok {
				return -c.X.Int64(), true
			}
		}
	}
	return 0, false
}

// exitConstant finds phi compared against a constant in fact, returning
// the predicate oriented as "phi pred K" and K itself.
func exitConstant(f Fact, phi *ir.InstPhi) (enum.IPred, int64, bool) {
	if c, ok := f.RHS.(*constant.Int); ok && f.LHS == value.Value(phi) {
		return f.Pred, c.X.Int64(), true
	}
	if c, ok := f.LHS.(*constant.Int); ok && f.RHS == value.Value(phi) {
		return flip(f.Pred), c.X.Int64(), true
	}
	return 0, 0, false
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
