package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRecursiveAllowsAcyclicChain(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b", ConcatRecursive)
	err := g.CheckRecursive("a", "b")
	assert.NoError(t, err)
}

func TestCheckRecursiveRejectsSelfContainment(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b", ConcatRecursive)
	g.AddEdge("b", "c", ConcatRecursive)

	err := g.CheckRecursive("c", "a")
	require.Error(t, err)
	var cycleErr *CycleError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestAddEdgeIsIdempotent(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b", ConcatWildcard)
	g.AddEdge("a", "b", ConcatWildcard)
	assert.Len(t, g.edges["a"], 1)
}

func TestTopoClosureFlattensTransitively(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b", ConcatWildcard)
	g.AddEdge("b", "c", ConcatRecursive)
	g.AddEdge("a", "alias", ConcatNamedAlias)

	closure := g.TopoClosure("a")
	assert.ElementsMatch(t, []string{"b", "c"}, closure, "a named-alias edge must not contribute to the flattened concat list")
}
