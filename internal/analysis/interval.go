// Package analysis implements interval (value-range) analysis over an
// llir/llvm control-flow graph: an abstract interval lattice, per-instruction
// transfer functions, branch narrowing, a loop trip-count heuristic, and a
// worklist fixed-point solver.
package analysis

import (
	"math"
	"strconv"
)

// NegInf and PosInf are the two unbounded endpoints of the extended
// integers Z ∪ {-∞, +∞}. Finite endpoints are held in the int32 range; any
// arithmetic result outside that range saturates to one of these sentinels
// rather than wrapping.
const (
	NegInf = int64(math.MinInt64)
	PosInf = int64(math.MaxInt64)
	minFin = int64(math.MinInt32)
	maxFin = int64(math.MaxInt32)
)

// Interval is a closed interval [Lo, Hi] over the extended integers. The
// zero value is not canonical; use Top, Point, or New.
type Interval struct {
	Lo, Hi int64
}

// Top is ⊤ = (-∞, +∞), the unknown interval.
var Top = Interval{Lo: NegInf, Hi: PosInf}

// Point returns the constant interval (k, k).
func Point(k int64) Interval {
	return canon(Interval{Lo: k, Hi: k})
}

// New builds a canonical interval from two endpoints, saturating any
// finite value outside the representable 32-bit range to the matching
// infinity.
func New(lo, hi int64) Interval {
	return canon(Interval{Lo: saturate(lo), Hi: saturate(hi)})
}

func saturate(v int64) int64 {
	if v == NegInf || v == PosInf {
		return v
	}
	if v < minFin {
		return NegInf
	}
	if v > maxFin {
		return PosInf
	}
	return v
}

// canon asserts Lo <= Hi. Callers that can produce an inverted interval
// (meet of disjoint ranges) must detect that case themselves and fall back
// to Top; canon is only a final sanity clamp for construction helpers.
func canon(i Interval) Interval {
	if i.Lo > i.Hi {
		return Top
	}
	return i
}

// IsTop reports whether i is exactly ⊤.
func (i Interval) IsTop() bool {
	return i.Lo == NegInf && i.Hi == PosInf
}

// IsPoint reports whether i denotes a single constant value.
func (i Interval) IsPoint() bool {
	return i.Lo == i.Hi && i.Lo != NegInf && i.Lo != PosInf
}

// Equal reports whether the two intervals are identical.
func (i Interval) Equal(o Interval) bool {
	return i.Lo == o.Lo && i.Hi == o.Hi
}

// Join is the over-approximating union: pointwise min of lows, max of
// highs. Used at φ-merges and whenever two blocks' facts about the same
// value must be combined.
func Join(a, b Interval) Interval {
	lo := a.Lo
	if b.Lo < lo {
		lo = b.Lo
	}
	hi := a.Hi
	if b.Hi > hi {
		hi = b.Hi
	}
	return Interval{Lo: lo, Hi: hi}
}

// Meet is pointwise max of lows, min of highs. A disjoint pair of inputs
// produces an inverted interval; the analyzer has no explicit ⊥
// representation, so callers treat that case as ⊤ (sound, not precise).
func Meet(a, b Interval) Interval {
	lo := a.Lo
	if b.Lo > lo {
		lo = b.Lo
	}
	hi := a.Hi
	if b.Hi < hi {
		hi = b.Hi
	}
	if lo > hi {
		return Top
	}
	return Interval{Lo: lo, Hi: hi}
}

// Add computes a + b with any infinite endpoint propagating and any
// overflow of a finite endpoint promoting to the matching infinity.
func Add(a, b Interval) Interval {
	return Interval{Lo: addEndpoint(a.Lo, b.Lo), Hi: addEndpoint(a.Hi, b.Hi)}
}

// Sub computes a - b per the interval subtraction rule (a.Lo-b.Hi, a.Hi-b.Lo).
func Sub(a, b Interval) Interval {
	return Interval{Lo: subEndpoint(a.Lo, b.Hi), Hi: subEndpoint(a.Hi, b.Lo)}
}

func addEndpoint(x, y int64) int64 {
	if x == NegInf || y == NegInf {
		if x == PosInf || y == PosInf {
			// -∞ + ∞: no sound finite answer; widen to -∞ so it absorbs.
			return NegInf
		}
		return NegInf
	}
	if x == PosInf || y == PosInf {
		return PosInf
	}
	sum := x + y
	if sum < minFin || sum > maxFin {
		if sum < 0 {
			return NegInf
		}
		return PosInf
	}
	return sum
}

func subEndpoint(x, y int64) int64 {
	if x == NegInf {
		return NegInf
	}
	if x == PosInf {
		return PosInf
	}
	if y == NegInf {
		return PosInf
	}
	if y == PosInf {
		return NegInf
	}
	diff := x - y
	if diff < minFin || diff > maxFin {
		if diff < 0 {
			return NegInf
		}
		return PosInf
	}
	return diff
}

// endpointString renders a single endpoint for diagnostics and the reporter.
func endpointString(v int64) string {
	switch v {
	case NegInf:
		return "-Inf"
	case PosInf:
		return "+Inf"
	default:
		return strconv.FormatInt(v, 10)
	}
}

// String renders the interval as "(lo, hi)" using -Inf/+Inf for the
// sentinels, matching the reporter's textual convention.
func (i Interval) String() string {
	return "(" + endpointString(i.Lo) + ", " + endpointString(i.Hi) + ")"
}
