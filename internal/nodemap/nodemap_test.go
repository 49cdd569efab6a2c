package nodemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parthenon-lang/verifyc/internal/sid"
)

func TestMapMemoizesFirstValue(t *testing.T) {
	m := New[string]()
	node := sid.ID("node-1")

	assert.False(t, m.Has(node))
	m.Set(node, "entity-a")
	v, ok := m.Get(node)
	assert.True(t, ok)
	assert.Equal(t, "entity-a", v)
	assert.True(t, m.Has(node))
}

func TestMapGetMissingReturnsZeroValue(t *testing.T) {
	m := New[string]()
	v, ok := m.Get(sid.ID("missing"))
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestInvalidationMarksOncePerNodeTargetPair(t *testing.T) {
	inv := NewInvalidation()
	node := sid.ID("n1")
	target := sid.ID("t1")

	first := inv.MarkFailed(node, target)
	second := inv.MarkFailed(node, target)

	assert.True(t, first)
	assert.False(t, second, "re-marking the same (node, target) pair must not re-diagnose")
	assert.True(t, inv.WasMarked(node, target))
}

func TestInvalidationTracksDistinctTargetsIndependently(t *testing.T) {
	inv := NewInvalidation()
	node := sid.ID("n1")

	assert.True(t, inv.MarkFailed(node, sid.ID("t1")))
	assert.True(t, inv.MarkFailed(node, sid.ID("t2")))
}
