package verifier

import (
	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/sid"
)

// nodeIDs assigns a stable identity to each AST node the driver visits,
// keyed by the node's own pointer identity. Because the driver re-walks
// the same parsed tree on every pass, a given ast.Node value is the same
// Go pointer on pass 1 and pass 512, so pointer-keyed assignment already
// gives the "same node hashes to the same ID across passes" property the
// phase tables and nodemap rely on (spec §3, §4.1) without needing
// sid.NewID's source-span hashing — that formula is reserved for
// identities that must survive a re-parse, which the driver's AST does
// not do mid-run.
type nodeIDs struct {
	gen *sid.Gen
	ids map[ast.Node]sid.ID
}

func newNodeIDs() *nodeIDs {
	return &nodeIDs{gen: sid.NewGen("nd"), ids: make(map[ast.Node]sid.ID)}
}

func (n *nodeIDs) of(node ast.Node) sid.ID {
	if id, ok := n.ids[node]; ok {
		return id
	}
	id := n.gen.Next()
	n.ids[node] = id
	return id
}
