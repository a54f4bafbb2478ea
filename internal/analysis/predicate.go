package analysis

import (
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// Fact is the tuple (predicate, lhs, rhs) that defined a comparison
// result, cached so a later conditional terminator can reconstruct the
// refinement (§3 "Predicate cache").
type Fact struct {
	Pred enum.IPred
	LHS  value.Value
	RHS  value.Value
}

// PredicateCache maps a comparison's result value to the Fact that defined
// it. Comparisons never write the range store (§4.4); they only populate
// this cache.
type PredicateCache struct {
	facts map[value.Value]Fact
}

func newPredicateCache() *PredicateCache {
	return &PredicateCache{facts: make(map[value.Value]Fact)}
}

func (c *PredicateCache) record(result value.Value, f Fact) {
	c.facts[result] = f
}

// Lookup returns the Fact recorded for cond, if any.
func (c *PredicateCache) Lookup(cond value.Value) (Fact, bool) {
	f, ok := c.facts[cond]
	return f, ok
}

// isUnsigned reports whether pred is one of the unsigned integer
// comparison predicates.
func isUnsigned(pred enum.IPred) bool {
	switch pred {
	case enum.IPredULT, enum.IPredULE, enum.IPredUGT, enum.IPredUGE:
		return true
	default:
		return false
	}
}

// flip swaps the operand order of a predicate: `K < v` becomes `v > K`.
// Used when branch narrowing finds the constant on the left.
func flip(pred enum.IPred) enum.IPred {
	switch pred {
	case enum.IPredSLT:
		return enum.IPredSGT
	case enum.IPredSLE:
		return enum.IPredSGE
	case enum.IPredSGT:
		return enum.IPredSLT
	case enum.IPredSGE:
		return enum.IPredSLE
	case enum.IPredULT:
		return enum.IPredUGT
	case enum.IPredULE:
		return enum.IPredUGE
	case enum.IPredUGT:
		return enum.IPredULT
	case enum.IPredUGE:
		return enum.IPredULE
	case enum.IPredEQ, enum.IPredNE:
		return pred
	default:
		return pred
	}
}
