package host

import "github.com/parthenon-lang/verifyc/internal/sid"

// ScopeKind distinguishes the ten scope variants of spec §3.
type ScopeKind int

const (
	ScopePackage ScopeKind = iota
	ScopeClass
	ScopeEnum
	ScopeInterface
	ScopeActivation
	ScopeBlock
	ScopeFilter
	ScopeWith
	ScopeFixture
	ScopeConstEval
)

// NamespaceKind is one of the four system namespaces queried by
// search_system_ns_in_scope_chain (spec §6).
type NamespaceKind int

const (
	NSPublic NamespaceKind = iota
	NSPrivate
	NSProtected
	NSInternal
)

// Scope is the host's Scope entity: a parent link (forming a chain
// rooted in a package scope), an ordered duplicate-tolerant
// open-namespace set, resolved imports, and a property table.
type Scope struct {
	id         sid.ID
	Kind       ScopeKind
	parent     sid.ID
	hasParent  bool
	OpenNS     []string // namespace values currently open, insertion order
	Imports    []sid.ID // Package ids imported/concatenated into this scope
	Properties map[string]sid.ID

	// Activation-only: the enclosing function's `this` type, if any.
	ThisType sid.ID
	// System namespace names, distinct per scope (public/private/etc
	// are themselves namespace values scoped to the declaring class).
	SystemNS map[NamespaceKind]string
}

func (s *Scope) ID() sid.ID { return s.id }

func (h *Host) newScope(kind ScopeKind) *Scope {
	id := h.scopes.Next()
	s := &Scope{id: id, Kind: kind, Properties: make(map[string]sid.ID), SystemNS: make(map[NamespaceKind]string)}
	h.scopeTable[id] = s
	return s
}

func (h *Host) NewPackageScope() *Scope   { return h.newScope(ScopePackage) }
func (h *Host) NewClassScope() *Scope     { return h.newScope(ScopeClass) }
func (h *Host) NewEnumScope() *Scope      { return h.newScope(ScopeEnum) }
func (h *Host) NewInterfaceScope() *Scope { return h.newScope(ScopeInterface) }
func (h *Host) NewActivationScope() *Scope { return h.newScope(ScopeActivation) }
func (h *Host) NewBlockScope() *Scope     { return h.newScope(ScopeBlock) }
func (h *Host) NewFilterScope() *Scope    { return h.newScope(ScopeFilter) }
func (h *Host) NewWithScope() *Scope      { return h.newScope(ScopeWith) }
func (h *Host) NewFixtureScope() *Scope   { return h.newScope(ScopeFixture) }
func (h *Host) NewConstEvalScope() *Scope { return h.newScope(ScopeConstEval) }

// EnterScope links child's parent to current iff child.parent is empty —
// "first entry wins; re-entry on a later pass must not re-link" (spec
// §4.1 Scope discipline; §9 Scope inheritance on retry).
func (h *Host) EnterScope(current *Scope, child *Scope) {
	if child.hasParent {
		return
	}
	if current != nil {
		child.parent = current.id
		child.hasParent = true
	}
}

// HasParent reports whether EnterScope has already linked this scope to a
// parent, so a caller re-entering the same scope object on a later driver
// pass can tell first entry from re-entry (spec §4.1 Scope discipline).
func (s *Scope) HasParent() bool { return s.hasParent }

// Parent returns the parent scope, or nil at the chain root.
func (s *Scope) Parent(h *Host) *Scope {
	if !s.hasParent {
		return nil
	}
	return h.scopeTable[s.parent]
}

// Chain returns s and every ancestor, innermost first.
func (s *Scope) Chain(h *Host) []*Scope {
	var out []*Scope
	for cur := s; cur != nil; cur = cur.Parent(h) {
		out = append(out, cur)
	}
	return out
}

// DefineProperty installs slot under name, idempotently (see
// Package.DefineProperty for the same contract).
func (s *Scope) DefineProperty(name string, slot sid.ID) (installed bool, existing sid.ID) {
	name = Normalize(name)
	if cur, ok := s.Properties[name]; ok {
		return false, cur
	}
	s.Properties[name] = slot
	return true, slot
}

// OpenNamespace appends ns to the open set if not already present
// (duplicate-tolerant per spec §3, but insertion still de-duplicates to
// keep concat_open_ns_set_of_scope_chain's output small).
func (s *Scope) OpenNamespace(ns string) {
	for _, existing := range s.OpenNS {
		if existing == ns {
			return
		}
	}
	s.OpenNS = append(s.OpenNS, ns)
}

// SearchHoistScope walks up the chain to the nearest scope that hoists
// declarations — a Package, Class, Enum, Interface or Activation scope —
// skipping Block/Filter/With/Fixture/ConstEval scopes, which do not hoist.
func (h *Host) SearchHoistScope(from *Scope) *Scope {
	for cur := from; cur != nil; cur = cur.Parent(h) {
		switch cur.Kind {
		case ScopePackage, ScopeClass, ScopeEnum, ScopeInterface, ScopeActivation:
			return cur
		}
	}
	return nil
}

// SearchActivation walks up the chain to the nearest Activation scope, or
// nil if from is not inside a function body.
func (h *Host) SearchActivation(from *Scope) *Scope {
	for cur := from; cur != nil; cur = cur.Parent(h) {
		if cur.Kind == ScopeActivation {
			return cur
		}
	}
	return nil
}

// SearchSystemNamespaceInScopeChain finds the innermost scope chain entry
// that defines a system namespace of kind and returns its namespace
// value, per spec §6's "search_system_ns_in_scope_chain(kind)".
func (h *Host) SearchSystemNamespaceInScopeChain(from *Scope, kind NamespaceKind) (string, bool) {
	for cur := from; cur != nil; cur = cur.Parent(h) {
		if ns, ok := cur.SystemNS[kind]; ok {
			return ns, true
		}
	}
	return "", false
}

// VisiblePackageForPath finds the package imported under the exact
// qualified path, searching the scope chain outward (spec §4.2
// package-path member access): the nearest scope whose own Imports list
// names path wins, mirroring how an inner scope's import can shadow an
// outer one. Multiple distinct imports of the same path within one scope
// (not idempotent-same, since NewPackage interns by path, but defensive
// against future alias-import forms) report ambiguous.
func (h *Host) VisiblePackageForPath(from *Scope, path string) (pkg *Package, found bool, ambiguous bool) {
	for cur := from; cur != nil; cur = cur.Parent(h) {
		var matches []*Package
		seen := make(map[sid.ID]bool)
		for _, pid := range cur.Imports {
			if p := h.packageTable[pid]; p != nil && p.Path == path && !seen[pid] {
				seen[pid] = true
				matches = append(matches, p)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], true, false
		default:
			return nil, false, true
		}
	}
	return nil, false, false
}

// ConcatOpenNamespaceSetOfScopeChain unions the open-namespace sets of
// every scope in the chain, innermost first, de-duplicated — the set
// consulted by property lookup (spec §6 "concat_open_ns_set_of_scope_chain").
func (h *Host) ConcatOpenNamespaceSetOfScopeChain(from *Scope) []string {
	seen := make(map[string]bool)
	var out []string
	for cur := from; cur != nil; cur = cur.Parent(h) {
		for _, ns := range cur.OpenNS {
			if !seen[ns] {
				seen[ns] = true
				out = append(out, ns)
			}
		}
	}
	return out
}
