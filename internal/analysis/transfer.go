package analysis

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// execInst applies the transfer function for a single non-terminator
// instruction (§4.4), mutating store and cache for block b. It reports
// whether any store entry for b changed.
func execInst(store *Store, cache *PredicateCache, diags *Diagnostics, b *ir.Block, inst ir.Instruction) bool {
	switch in := inst.(type) {
	case *ir.InstAdd:
		x, y := store.Get(b, in.X), store.Get(b, in.Y)
		return store.Set(b, in, Add(x, y))
	case *ir.InstSub:
		x, y := store.Get(b, in.X), store.Get(b, in.Y)
		return store.Set(b, in, Sub(x, y))
	case *ir.InstICmp:
		cache.record(in, Fact{Pred: in.Pred, LHS: in.X, RHS: in.Y})
		return false
	case *ir.InstPhi:
		return execPhi(store, cache, b, in)
	case *ir.InstStore:
		// Void result; nothing to bind.
		return false
	case *ir.InstLoad, *ir.InstCall, *ir.InstSelect:
		diags.Unhandled(b.Name(), kindName(inst))
		return store.Set(b, inst.(value.Value), Top)
	default:
		if v, ok := inst.(value.Value); ok {
			diags.Unhandled(b.Name(), kindName(inst))
			return store.Set(b, v, Top)
		}
		return false
	}
}

// execPhi implements the φ transfer (§4.4, §4.6): the new value is
// meet(previous, join(incoming_0, incoming_1)), with the loop trip-count
// heuristic given first refusal when it applies.
func execPhi(store *Store, cache *PredicateCache, b *ir.Block, phi *ir.InstPhi) bool {
	if bound, ok := tripCountBound(cache, b, phi); ok {
		return store.Set(b, phi, bound)
	}

	joined := Top
	first := true
	for _, inc := range phi.Incs {
		iv := store.Get(inc.Pred, inc.X)
		if first {
			joined = iv
			first = false
		} else {
			joined = Join(joined, iv)
		}
	}
	prev := store.Get(b, phi)
	return store.Set(b, phi, Meet(prev, joined))
}

// propagateUnconditional implements the unconditional-branch transfer: the
// entirety of from's sub-map is joined into to's sub-map.
func propagateUnconditional(store *Store, from, to *ir.Block) bool {
	snap := store.Snapshot(from)
	if snap == nil {
		snap = map[value.Value]Interval{}
	}
	return store.JoinInto(to, snap)
}

// propagateConditional implements the conditional-branch transfer (§4.4,
// §4.5): both successors receive from's full sub-map, pointwise joined,
// except that the compared value (if the comparison was cached and exactly
// one side was constant) is refined per-successor and met with its
// entry-to-b fact before installation.
func propagateConditional(store *Store, cache *PredicateCache, diags *Diagnostics, b *ir.Block, cond value.Value, taken, notTaken *ir.Block) (takenChanged, notTakenChanged bool) {
	snap := store.Snapshot(b)
	if snap == nil {
		snap = map[value.Value]Interval{}
	}

	fact, ok := cache.Lookup(cond)
	if !ok {
		diags.CmpCacheMiss(b.Name())
		return store.JoinInto(taken, snap), store.JoinInto(notTaken, snap)
	}

	v, tI, ntI, ok := refine(fact, diags, b.Name())
	if !ok {
		return store.JoinInto(taken, snap), store.JoinInto(notTaken, snap)
	}

	entry := store.Get(b, v)
	takenSnap := cloneWith(snap, v, Meet(entry, tI))
	notTakenSnap := cloneWith(snap, v, Meet(entry, ntI))
	return store.JoinInto(taken, takenSnap), store.JoinInto(notTaken, notTakenSnap)
}

// propagateSwitch implements the supplemented N-ary terminator (SPEC_FULL
// "Supplemented features"): every case target and the default receive the
// full unrefined join, with a diagnostic noting no case-constant narrowing
// was attempted.
func propagateSwitch(store *Store, diags *Diagnostics, b *ir.Block, succs []*ir.Block) bool {
	diags.UnsupportedSwitch(b.Name())
	snap := store.Snapshot(b)
	if snap == nil {
		snap = map[value.Value]Interval{}
	}
	changed := false
	for _, s := range succs {
		if store.JoinInto(s, snap) {
			changed = true
		}
	}
	return changed
}

func cloneWith(src map[value.Value]Interval, v value.Value, iv Interval) map[value.Value]Interval {
	out := make(map[value.Value]Interval, len(src)+1)
	for k, val := range src {
		out[k] = val
	}
	out[v] = iv
	return out
}

func kindName(inst ir.Instruction) string {
	switch inst.(type) {
	case *ir.InstLoad:
		return "load"
	case *ir.InstStore:
		return "store"
	case *ir.InstCall:
		return "call"
	case *ir.InstSelect:
		return "select"
	default:
		return "unknown"
	}
}
