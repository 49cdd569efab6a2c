// Package phase defines the five-stage lifecycle every declaration,
// directive and block passes through (§4.1, §4.6), and the Defer signal
// sub-verifiers use to cooperatively yield when a query cannot be answered
// yet. Grounded on the driver loop shape of the teacher's
// internal/pipeline/pipeline.go (now removed, see DESIGN.md) and on
// original_source's verifier.rs MAX_CYCLES retry loop.
package phase

// Phase is one stage of a declaration's lifecycle. Values are ordered so
// that "phase never regresses" (spec §8 property 4) can be checked with a
// plain integer comparison.
type Phase int

const (
	Alpha Phase = iota
	Beta
	Delta
	Epsilon
	Omega
	Finished
)

var names = [...]string{"Alpha", "Beta", "Delta", "Epsilon", "Omega", "Finished"}

func (p Phase) String() string {
	if p < Alpha || p > Finished {
		return "Unknown"
	}
	return names[p]
}

// Advance moves to next if next is strictly later than the receiver,
// otherwise it leaves the receiver alone. This is the only mutator the
// driver uses to move a slot's phase forward, which makes phase
// monotonicity (spec §8 property 4) a structural invariant rather than
// something every call site has to remember to check.
func (p Phase) Advance(next Phase) Phase {
	if next > p {
		return next
	}
	return p
}

// Result is what any phased unit of work returns: either it completed at
// its current phase (Ok), or it could not proceed (Defer).
type Result struct {
	deferred bool
	advance  Phase
	hasAdv   bool
}

// Ok signals the work finished at its current phase.
func Ok() Result { return Result{} }

// Defer signals the work could not progress and the caller should retry on
// the next pass, without prescribing which phase to resume at.
func Defer() Result { return Result{deferred: true} }

// DeferTo signals the work could not progress, AND that the caller's own
// phase has already been advanced to next — so the caller must be
// revisited starting there rather than recomputing earlier phases. This
// mirrors spec §4.1: "if phase is present, the caller's own phase has
// been advanced and must be revisited".
func DeferTo(next Phase) Result {
	return Result{deferred: true, advance: next, hasAdv: true}
}

// IsDeferred reports whether the work yielded instead of completing.
func (r Result) IsDeferred() bool { return r.deferred }

// AdvanceTo returns the phase the caller should advance to, if the Defer
// carried one.
func (r Result) AdvanceTo() (Phase, bool) { return r.advance, r.hasAdv }

// Apply advances cur according to r, per the rule in DeferTo's doc comment.
// It is a no-op (returns cur unchanged) for Ok and for a bare Defer().
func (r Result) Apply(cur Phase) Phase {
	if next, ok := r.AdvanceTo(); ok {
		return cur.Advance(next)
	}
	return cur
}

// Table is a persistent phase map keyed by an opaque identity (sid.ID in
// practice). It is the "three separate maps keyed by AST identity" of
// spec §4.1 — the driver keeps one Table for declarations, one for
// directives, one for blocks.
type Table[K comparable] struct {
	m map[K]Phase
}

// NewTable creates an empty phase table.
func NewTable[K comparable]() *Table[K] {
	return &Table[K]{m: make(map[K]Phase)}
}

// Get returns the recorded phase for key, defaulting to Alpha for a key
// seen for the first time — every declaration starts life at Alpha.
func (t *Table[K]) Get(key K) Phase {
	if p, ok := t.m[key]; ok {
		return p
	}
	return Alpha
}

// Set persists key's phase. It never regresses the stored value: a
// caller that passes an earlier phase than what is stored is a bug
// upstream, but Set defends against it anyway so the monotonicity
// invariant can never be violated through this table.
func (t *Table[K]) Set(key K, p Phase) {
	t.m[key] = t.Get(key).Advance(p)
}

// Unfinished returns every key whose phase is not yet Finished, in
// insertion order is not guaranteed (map iteration) — callers needing
// determinism should sort by the AST position attached to the key.
func (t *Table[K]) Unfinished() []K {
	var out []K
	for k, p := range t.m {
		if p != Finished {
			out = append(out, k)
		}
	}
	return out
}

// Len reports how many keys have a recorded phase.
func (t *Table[K]) Len() int { return len(t.m) }
