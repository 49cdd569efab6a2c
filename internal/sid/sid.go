// Package sid computes stable identities for AST nodes and entities.
//
// The verifier's AST-to-entity map and the host's entity arena both need a
// key that survives repeated passes over the same tree: the same node must
// hash to the same ID on pass 1 and pass 512, and two distinct nodes must
// never collide. NewID hashes a node's source span, kind tag and position
// among its siblings so that re-running the driver never starts an AST node
// interning loop over.
package sid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// ID is a stable identifier for an AST node or a host entity.
type ID string

// NewID calculates a stable ID for an AST node.
// Formula: hash(canonical_path | start_offset | end_offset | node_kind | child_path)
func NewID(path string, start, end int, kind string, childPath []int) ID {
	canonPath := canonicalizePath(path)

	var parts []string
	parts = append(parts, canonPath)
	parts = append(parts, fmt.Sprintf("%d", start))
	parts = append(parts, fmt.Sprintf("%d", end))
	parts = append(parts, kind)
	for _, idx := range childPath {
		parts = append(parts, fmt.Sprintf("%d", idx))
	}

	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))
	return ID(hex.EncodeToString(hash[:])[:16])
}

// canonicalizePath normalizes a file path for stable ID calculation.
func canonicalizePath(path string) string {
	path = filepath.Clean(path)

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	if isCaseInsensitive() {
		path = strings.ToLower(path)
	}

	return filepath.ToSlash(path)
}

func isCaseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}

// Gen generates sequential, process-local entity handles. It is used by the
// host to hand out stable arena indices for Package/Scope/Type/Slot/Value
// entities, which — unlike AST nodes — have no natural source span of their
// own (a Type created by substitution, for instance).
type Gen struct {
	next uint64
	pfx  string
}

// NewGen creates a handle generator that prefixes every handle with pfx
// (e.g. "ty" for types, "sl" for slots) so handles remain legible in traces.
func NewGen(pfx string) *Gen {
	return &Gen{pfx: pfx}
}

// Next returns the next handle in sequence, starting at 1 so the zero value
// of ID can keep meaning "no handle assigned".
func (g *Gen) Next() ID {
	g.next++
	return ID(fmt.Sprintf("%s#%d", g.pfx, g.next))
}
