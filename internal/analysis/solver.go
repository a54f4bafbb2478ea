package analysis

import "github.com/llir/llvm/ir"

// Result is the fixed point of the analysis: the final range store, the
// predicate cache (kept for callers that want to re-derive a refinement),
// the diagnostics accumulated along the way, and whether the iteration cap
// was hit before convergence.
type Result struct {
	Store   *Store
	Cache   *PredicateCache
	Diags   *Diagnostics
	CapHit  bool
	Visited map[*ir.Block]bool
}

// Analyze runs the worklist-based fixed-point solver (§4.7) over fn and
// returns the final Result. It is a pure function: every mutable structure
// (store, worklist, predicate cache) is owned locally and discarded on
// return; concurrent calls with distinct fn values never interact.
func Analyze(fn *ir.Func, cfg Config) *Result {
	view := NewView(fn)
	store := NewStore()
	cache := newPredicateCache()
	diags := &Diagnostics{}

	// A comparison's Fact depends only on its operands, so every icmp is
	// cached before solving: a loop header's φ runs before the header's own
	// exit comparison, and the trip-count heuristic needs that comparison
	// already on the header's first visit.
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Insts {
			if cmp, ok := inst.(*ir.InstICmp); ok {
				cache.record(cmp, Fact{Pred: cmp.Pred, LHS: cmp.X, RHS: cmp.Y})
			}
		}
	}

	entry := view.Entry()
	if entry == nil {
		return &Result{Store: store, Cache: cache, Diags: diags, Visited: map[*ir.Block]bool{}}
	}

	worklist := newFIFOQueue()
	worklist.push(entry)
	store.MarkVisited(entry)

	capHit := false
	iter := 0
	for !worklist.empty() {
		if iter >= cfg.MaxIters {
			capHit = true
			diags.IterationCapHit(cfg.MaxIters)
			break
		}
		iter++

		b := worklist.pop()
		for _, inst := range b.Insts {
			execInst(store, cache, diags, b, inst)
		}

		for _, s := range dirtySuccessors(store, cache, diags, b) {
			if !worklist.contains(s) {
				worklist.push(s)
			}
		}
	}

	visited := make(map[*ir.Block]bool, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if store.Visited(b) {
			visited[b] = true
		}
	}

	return &Result{Store: store, Cache: cache, Diags: diags, CapHit: capHit, Visited: visited}
}

// dirtySuccessors processes b's terminator and returns the successors
// whose sub-map actually changed as a result (for a switch, every successor
// once any one of them changed).
func dirtySuccessors(store *Store, cache *PredicateCache, diags *Diagnostics, b *ir.Block) []*ir.Block {
	switch term := b.Term.(type) {
	case *ir.TermBr:
		if propagateUnconditional(store, b, term.Target) {
			return []*ir.Block{term.Target}
		}
		return nil
	case *ir.TermCondBr:
		takenChanged, notTakenChanged := propagateConditional(store, cache, diags, b, term.Cond, term.TargetTrue, term.TargetFalse)
		var out []*ir.Block
		if takenChanged {
			out = append(out, term.TargetTrue)
		}
		if notTakenChanged {
			out = append(out, term.TargetFalse)
		}
		return out
	case *ir.TermSwitch:
		succs := Successors(b)
		if propagateSwitch(store, diags, b, succs) {
			return succs
		}
		return nil
	default:
		// Return, unreachable, or any other terminator with no successors.
		return nil
	}
}

// fifoQueue is a duplicate-suppressing FIFO worklist (§3 "Worklist"): order
// of popping is FIFO, pinned to make report output deterministic (§5, §8
// "Determinism").
type fifoQueue struct {
	items []*ir.Block
	inQ   map[*ir.Block]bool
}

func newFIFOQueue() *fifoQueue {
	return &fifoQueue{inQ: make(map[*ir.Block]bool)}
}

func (q *fifoQueue) push(b *ir.Block) {
	if q.inQ[b] {
		return
	}
	q.inQ[b] = true
	q.items = append(q.items, b)
}

func (q *fifoQueue) pop() *ir.Block {
	b := q.items[0]
	q.items = q.items[1:]
	delete(q.inQ, b)
	return b
}

func (q *fifoQueue) empty() bool {
	return len(q.items) == 0
}

func (q *fifoQueue) contains(b *ir.Block) bool {
	return q.inQ[b]
}
