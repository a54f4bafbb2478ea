package analysis

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// Store is Σ : Block → (Value → Interval), the per-block map from a value's
// SSA identity to its known interval. A block key absent from the store
// means "not yet visited"; a value absent from a visited block's sub-map
// defaults, on read, to ⊤ — or, for a constant operand, to its point
// interval (§3 "read-default").
type Store struct {
	blocks map[*ir.Block]map[value.Value]Interval
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{blocks: make(map[*ir.Block]map[value.Value]Interval)}
}

// Visited reports whether b has a sub-map: it is the entry block, or a
// predecessor has propagated facts into it. A block is Visited as soon as
// it is enqueued, before it is first popped.
func (s *Store) Visited(b *ir.Block) bool {
	_, ok := s.blocks[b]
	return ok
}

// MarkVisited idempotently creates b's (possibly empty) sub-map.
func (s *Store) MarkVisited(b *ir.Block) {
	if s.blocks[b] == nil {
		s.blocks[b] = make(map[value.Value]Interval)
	}
}

// Get returns the interval stored for v in b, or the read-default: the
// point interval of v if v is a constant integer, otherwise ⊤.
func (s *Store) Get(b *ir.Block, v value.Value) Interval {
	if c, ok := v.(*constant.Int); ok {
		return Point(c.X.Int64())
	}
	if sub, ok := s.blocks[b]; ok {
		if iv, ok := sub[v]; ok {
			return iv
		}
	}
	return Top
}

// Set canonicalizes i and writes it for v in b, returning whether the
// previous entry differed (the solver's dirty signal).
func (s *Store) Set(b *ir.Block, v value.Value, i Interval) bool {
	s.MarkVisited(b)
	sub := s.blocks[b]
	prev, existed := sub[v]
	i = canon(i)
	sub[v] = i
	return !existed || !prev.Equal(i)
}

// Snapshot returns a copy of b's sub-map, or nil if b is unvisited. Used by
// unconditional propagation and branch narrowing to seed a successor with
// the predecessor's full fact set.
func (s *Store) Snapshot(b *ir.Block) map[value.Value]Interval {
	sub, ok := s.blocks[b]
	if !ok {
		return nil
	}
	out := make(map[value.Value]Interval, len(sub))
	for k, v := range sub {
		out[k] = v
	}
	return out
}

// JoinInto pointwise-joins src into dst's sub-map (creating dst's sub-map
// if necessary), reporting whether any entry changed. dst's first visit is
// unconditionally dirty, even when src has no entries to join (an empty
// trampoline block still needs its own instructions and terminator run at
// least once).
func (s *Store) JoinInto(dst *ir.Block, src map[value.Value]Interval) bool {
	firstVisit := !s.Visited(dst)
	s.MarkVisited(dst)
	sub := s.blocks[dst]
	changed := firstVisit
	for v, iv := range src {
		if cur, ok := sub[v]; ok {
			joined := Join(cur, iv)
			if !joined.Equal(cur) {
				sub[v] = joined
				changed = true
			}
		} else {
			sub[v] = iv
			changed = true
		}
	}
	return changed
}

// Values returns every value bound in b's sub-map. Used by the reporter.
func (s *Store) Values(b *ir.Block) map[value.Value]Interval {
	return s.blocks[b]
}
