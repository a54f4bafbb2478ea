package analysis

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// refine derives the (taken, not-taken) intervals for the non-constant
// operand of fact, per §4.5's table. ok is false when neither operand is
// constant (the "mixed-reference" case, which also records a diagnostic)
// or both are; the caller treats either as an unrefined join.
func refine(f Fact, diags *Diagnostics, blockName string) (v value.Value, taken, notTaken Interval, ok bool) {
	lc, lIsConst := f.LHS.(*constant.Int)
	rc, rIsConst := f.RHS.(*constant.Int)

	switch {
	case lIsConst && !rIsConst:
		// K pred v: flip so the table always reads "v pred' K".
		t, nt := narrowTable(flip(f.Pred), lc.X.Int64())
		return f.RHS, t, nt, true
	case rIsConst && !lIsConst:
		t, nt := narrowTable(f.Pred, rc.X.Int64())
		return f.LHS, t, nt, true
	case lIsConst && rIsConst:
		// Both constant: nothing to refine, the comparison is decidable at
		// compile time but neither side is a value the store tracks.
		return nil, Top, Top, false
	default:
		diags.MixedReference(blockName)
		return nil, Top, Top, false
	}
}

// narrowTable implements §4.5's table for "v pred K", applying the
// unsigned lower-bound-to-0 clamp where it applies.
func narrowTable(pred enum.IPred, k int64) (taken, notTaken Interval) {
	switch pred {
	case enum.IPredSLT:
		taken, notTaken = New(NegInf, k-1), New(k, PosInf)
	case enum.IPredSLE:
		taken, notTaken = New(NegInf, k), New(k+1, PosInf)
	case enum.IPredSGT:
		taken, notTaken = New(k+1, PosInf), New(NegInf, k)
	case enum.IPredSGE:
		taken, notTaken = New(k, PosInf), New(NegInf, k-1)
	case enum.IPredEQ:
		taken, notTaken = Point(k), Top
	case enum.IPredNE:
		// Not in §4.5's table; the complement of a point is not an
		// interval, so only the not-taken (equal) side is representable.
		taken, notTaken = Top, Point(k)
	case enum.IPredULT:
		taken, notTaken = New(0, k-1), New(k, PosInf)
	case enum.IPredULE:
		taken, notTaken = New(0, k), New(k+1, PosInf)
	case enum.IPredUGT:
		taken, notTaken = New(k+1, PosInf), New(0, k)
	case enum.IPredUGE:
		taken, notTaken = New(k, PosInf), New(0, k-1)
	default:
		taken, notTaken = Top, Top
	}
	if isUnsigned(pred) {
		if taken.Lo != NegInf && taken.Lo < 0 {
			taken.Lo = 0
		}
		if notTaken.Lo != NegInf && notTaken.Lo < 0 {
			notTaken.Lo = 0
		}
	}
	return taken, notTaken
}
