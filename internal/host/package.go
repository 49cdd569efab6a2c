package host

import "github.com/parthenon-lang/verifyc/internal/sid"

// Package is the host's Package entity (spec §3): a qualified name path,
// a property table of Slot handles keyed by normalized local name, and a
// recursive-concat list of other packages flattened into this one.
type Package struct {
	id         sid.ID
	Path       string
	Properties map[string]sid.ID // local name -> Slot id
	Concat     []sid.ID          // other Package ids folded into this one
}

func (p *Package) ID() sid.ID { return p.id }

// NewPackage creates (or, if path already exists, returns) the Package
// entity for a qualified path. Package creation is idempotent by path so
// repeated declarations of the same package across files resolve to one
// entity, per spec §5's "all mutations must be idempotent under retry".
func (h *Host) NewPackage(path string) *Package {
	for _, p := range h.packageTable {
		if p.Path == path {
			return p
		}
	}
	id := h.packages.Next()
	p := &Package{id: id, Path: path, Properties: make(map[string]sid.ID)}
	h.packageTable[id] = p
	return p
}

// LookupPackage finds an existing package by path, or nil.
func (h *Host) LookupPackage(path string) *Package {
	for _, p := range h.packageTable {
		if p.Path == path {
			return p
		}
	}
	return nil
}

// DefineProperty installs slot under name in p's property table,
// idempotently: a second call with the same name and slot is a no-op: a
// different slot under an occupied name is a conflict the caller (the
// directive subverifier) must diagnose, so DefineProperty reports whether
// the name was free.
func (p *Package) DefineProperty(name string, slot sid.ID) (installed bool, existing sid.ID) {
	name = Normalize(name)
	if cur, ok := p.Properties[name]; ok {
		return false, cur
	}
	p.Properties[name] = slot
	return true, slot
}

// IsEmpty reports whether p (and its concat closure) declares no
// properties at all, the condition spec §4.5 diagnoses as EmptyPackage
// for a wildcard import.
func (p *Package) IsEmpty(h *Host) bool {
	if len(p.Properties) > 0 {
		return false
	}
	for _, cid := range p.Concat {
		if cp := h.packageTable[cid]; cp != nil && !cp.IsEmpty(h) {
			return false
		}
	}
	return true
}

// ConcatWildcard pushes other onto p's concat list (spec §4.5 wildcard
// concat form). Idempotent: pushing the same package twice is a no-op.
func (p *Package) ConcatWildcard(other *Package) {
	for _, id := range p.Concat {
		if id == other.id {
			return
		}
	}
	p.Concat = append(p.Concat, other.id)
}

// LookupProperty resolves name against p's own property table, then its
// recursive-concat closure (spec §4.2 package-path member access): found
// reports a match, ambiguous reports that two distinct slots in the
// closure both claim name (the same condition candidateSlots diagnoses
// for object member lookup, here for package member lookup).
func (p *Package) LookupProperty(h *Host, name string) (slot sid.ID, found bool, ambiguous bool) {
	return p.lookupProperty(h, Normalize(name), make(map[sid.ID]bool))
}

func (p *Package) lookupProperty(h *Host, name string, seen map[sid.ID]bool) (sid.ID, bool, bool) {
	if seen[p.id] {
		return "", false, false
	}
	seen[p.id] = true

	var result sid.ID
	var has bool
	if id, ok := p.Properties[name]; ok {
		result, has = id, true
	}
	for _, cid := range p.Concat {
		cp := h.packageTable[cid]
		if cp == nil {
			continue
		}
		id, ok, amb := cp.lookupProperty(h, name, seen)
		if amb {
			return 0, false, true
		}
		if ok {
			if has && id != result {
				return 0, false, true
			}
			result, has = id, true
		}
	}
	return result, has, false
}

// ConcatRecursive flattens other's own concat closure into p's list,
// after a self-referential cycle check (spec §3: "recursive concat
// detects and rejects self-containment"; §4.5: "after a self-referential
// cycle check"). Returns false if other's closure already contains p,
// leaving p unmodified — the caller emits
// ConcatenatingSelfReferentialPackage.
func (p *Package) ConcatRecursive(h *Host, other *Package) bool {
	if closureContains(h, other, p.id, make(map[sid.ID]bool)) {
		return false
	}
	p.ConcatWildcard(other)
	for _, id := range other.Concat {
		if cp := h.packageTable[id]; cp != nil {
			p.ConcatWildcard(cp)
		}
	}
	return true
}

func closureContains(h *Host, start *Package, target sid.ID, seen map[sid.ID]bool) bool {
	if start.id == target {
		return true
	}
	if seen[start.id] {
		return false
	}
	seen[start.id] = true
	for _, id := range start.Concat {
		if id == target {
			return true
		}
		if cp := h.packageTable[id]; cp != nil && closureContains(h, cp, target, seen) {
			return true
		}
	}
	return false
}
