package analysis

import "github.com/pkg/errors"

// Diagnostics collects the non-fatal conditions enumerated in §7. Every
// condition the solver can hit is recoverable — a diagnostic is recorded
// and a conservative (⊤, or unrefined-join) value is produced instead of
// aborting.
//
// This mirrors the teacher's internal/validator collector (errors []string
// + addError), generalized from AST validation to solver diagnostics and
// formatted with github.com/pkg/errors so each entry carries a proper error
// value rather than a bare string.
type Diagnostics struct {
	entries []error
}

func (d *Diagnostics) add(format string, args ...interface{}) {
	d.entries = append(d.entries, errors.Errorf(format, args...))
}

// Unhandled records that inst's result was bound to ⊤ because its opcode
// has no transfer function.
func (d *Diagnostics) Unhandled(blockName, kind string) {
	d.add("block %s: unhandled instruction class %s, result bound to top", blockName, kind)
}

// CmpCacheMiss records that a conditional branch's condition was not found
// in the predicate cache, so both successors received the unrefined join.
func (d *Diagnostics) CmpCacheMiss(blockName string) {
	d.add("block %s: condition not found in predicate cache, both successors unrefined", blockName)
}

// MixedReference records that a branch comparison had two non-constant
// operands where narrowing expected a constant side, so both successors
// received the unrefined join.
func (d *Diagnostics) MixedReference(blockName string) {
	d.add("block %s: mixed-reference comparison operands, both successors unrefined", blockName)
}

// UnsupportedSwitch records that a TermSwitch was propagated without
// per-case refinement (§ SPEC_FULL "Supplemented features").
func (d *Diagnostics) UnsupportedSwitch(blockName string) {
	d.add("block %s: switch terminator propagated without case refinement", blockName)
}

// IterationCapHit records that the solver stopped at MaxIters before
// reaching a fixed point.
func (d *Diagnostics) IterationCapHit(maxIters int) {
	d.add("iteration cap (%d) reached before fixed point; result is sound but may be imprecise", maxIters)
}

// Entries returns the recorded diagnostics in the order they were added.
func (d *Diagnostics) Entries() []error {
	return d.entries
}

// Strings renders each diagnostic's message, for the reporter and CLI.
func (d *Diagnostics) Strings() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Error()
	}
	return out
}
