// Package nodemap implements the AST-to-entity persistent map of spec §3:
// "A persistent mapping from AST node identity to an optional entity
// records the verification outcome for every expression, pattern, field,
// and directive. It is consulted as a memo: if the map holds a value for
// a node, the node is not re-verified." It also implements the paired
// invalidation sub-map ("records nodes that failed type coercion so
// repeated imp-coerce queries do not re-diagnose").
//
// Grounded on the teacher's internal/sid identity idiom plus the
// memoization shape of the (removed) internal/elaborate/verify.go
// idempotence check — see DESIGN.md.
package nodemap

import "github.com/parthenon-lang/verifyc/internal/sid"

// Map memoizes one entity handle per AST node identity. It is generic
// over the entity handle type so the same shape serves the verifier's
// value map, its scope map, and its slot map without duplication.
type Map[V any] struct {
	m map[sid.ID]V
	has map[sid.ID]bool
}

func New[V any]() *Map[V] {
	return &Map[V]{m: make(map[sid.ID]V), has: make(map[sid.ID]bool)}
}

// Get returns the memoized value for node, if any.
func (m *Map[V]) Get(node sid.ID) (V, bool) {
	if !m.has[node] {
		var zero V
		return zero, false
	}
	return m.m[node], true
}

// Set records the entity for node. Re-setting the same node to the same
// value is harmless; callers must not call Set twice for a node with two
// *different* values, since that would mean the node was re-verified
// instead of memoized — spec §8 property 3 (Memoization).
func (m *Map[V]) Set(node sid.ID, value V) {
	m.m[node] = value
	m.has[node] = true
}

// Has reports whether node already has a memoized entity, the check a
// verifier call site makes before doing any work at all.
func (m *Map[V]) Has(node sid.ID) bool {
	return m.has[node]
}

// Delete removes node's memo, used only when a declaration is
// deliberately re-opened (e.g. a conflict resolution rewrites its slot).
func (m *Map[V]) Delete(node sid.ID) {
	delete(m.m, node)
	delete(m.has, node)
}

// Len reports how many nodes carry a memoized entity.
func (m *Map[V]) Len() int { return len(m.m) }

// Invalidation is the paired sub-map of nodes that failed implicit
// coercion, keyed by (node, target type) so two different target-type
// coercion attempts against the same node are tracked independently.
type Invalidation struct {
	seen map[invalidationKey]bool
}

type invalidationKey struct {
	node   sid.ID
	target sid.ID
}

func NewInvalidation() *Invalidation {
	return &Invalidation{seen: make(map[invalidationKey]bool)}
}

// MarkFailed records that node failed to coerce to target. Returns false
// if this exact (node, target) pair was already marked, so the caller
// knows not to emit a second diagnostic for it.
func (inv *Invalidation) MarkFailed(node, target sid.ID) bool {
	key := invalidationKey{node, target}
	if inv.seen[key] {
		return false
	}
	inv.seen[key] = true
	return true
}

// WasMarked reports whether (node, target) was already recorded as a
// failed coercion, without marking it.
func (inv *Invalidation) WasMarked(node, target sid.ID) bool {
	return inv.seen[invalidationKey{node, target}]
}
