package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceNeverRegresses(t *testing.T) {
	p := Omega
	assert.Equal(t, Omega, p.Advance(Beta), "advancing to an earlier phase must be a no-op")
	assert.Equal(t, Finished, p.Advance(Finished))
}

func TestTableDefaultsToAlpha(t *testing.T) {
	tbl := NewTable[string]()
	assert.Equal(t, Alpha, tbl.Get("decl-1"))
}

func TestTableSetNeverRegresses(t *testing.T) {
	tbl := NewTable[string]()
	tbl.Set("decl-1", Omega)
	tbl.Set("decl-1", Beta)
	assert.Equal(t, Omega, tbl.Get("decl-1"), "Table.Set must preserve monotonicity")
}

func TestDeferToCarriesAdvance(t *testing.T) {
	r := DeferTo(Delta)
	assert.True(t, r.IsDeferred())
	next, ok := r.AdvanceTo()
	assert.True(t, ok)
	assert.Equal(t, Delta, next)
	assert.Equal(t, Delta, r.Apply(Beta))
}

func TestBareDeferDoesNotAdvance(t *testing.T) {
	r := Defer()
	assert.True(t, r.IsDeferred())
	assert.Equal(t, Beta, r.Apply(Beta))
}

func TestUnfinishedExcludesFinished(t *testing.T) {
	tbl := NewTable[string]()
	tbl.Set("a", Finished)
	tbl.Set("b", Omega)
	assert.ElementsMatch(t, []string{"b"}, tbl.Unfinished())
}
