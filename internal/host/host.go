// Package host implements the semantic entity database the verifier
// consumes through the contract of spec.md §6: factory constructors for
// every entity variant of §3 (Package, Scope, Type, Slot, Value), scope
// queries, property lookup, a conversion oracle and a method-override
// oracle. The host owns a cyclic graph (classes reference members that
// reference their class; packages reference imports that reference
// packages), so entities are addressed by stable sid.ID handles stored in
// arena maps rather than held by Go pointer alone — grounded on the
// teacher's internal/sid-backed node identity idiom, extended here to
// entity identity per spec §9's "arena of entities addressed by stable
// handles" design note.
package host

import (
	"golang.org/x/text/unicode/norm"

	"github.com/parthenon-lang/verifyc/internal/sid"
)

// Host is the process-scoped entity database. Per spec §9 there is no
// hidden singleton: callers construct one with New and thread it through
// every verifier call explicitly.
type Host struct {
	packages sid.Gen
	scopes   sid.Gen
	types    sid.Gen
	slots    sid.Gen
	values   sid.Gen

	packageTable map[sid.ID]*Package
	scopeTable   map[sid.ID]*Scope
	typeTable    map[sid.ID]*Type
	slotTable    map[sid.ID]*Slot
	valueTable   map[sid.ID]*Value

	// substCache memoizes TypeAfterSubstitution instances by (origin,
	// argument tuple) per spec §3's Type invariants.
	substCache map[substKey]sid.ID

	// primitives holds the pre-populated builtin types (Any, Void, the
	// numeric/string/boolean classes, Object) so every Host starts from
	// the same base environment, per spec §9's "pre-populated primitive
	// types" teardown/init note.
	primitives map[string]sid.ID

	invalidation sid.ID // the sentinel invalidation entity, a Value

	// configConstants holds the textual body of every `NS::NAME`
	// configuration constant recognized by the compilation (spec glossary
	// "Configuration constant"), keyed by "NS::NAME". configConstantMemo
	// caches each key's evaluated Value, per spec §4.2 "memoized in the
	// host". constEvalScope is the single dedicated scope every config
	// constant's textual body is evaluated in, created lazily (spec §3
	// Scope variant ConstEval).
	configConstants   map[string]string
	configConstantMemo map[string]sid.ID
	constEvalScope    *Scope
}

type substKey struct {
	origin sid.ID
	args   string // joined argument type handles; a stable cache key
}

// New creates an empty host pre-populated with the primitive types named
// in spec §9.
func New() *Host {
	h := &Host{
		packages:     sid.NewGen("pkg"),
		scopes:       sid.NewGen("scp"),
		types:        sid.NewGen("ty"),
		slots:        sid.NewGen("sl"),
		values:       sid.NewGen("val"),
		packageTable: make(map[sid.ID]*Package),
		scopeTable:   make(map[sid.ID]*Scope),
		typeTable:    make(map[sid.ID]*Type),
		slotTable:    make(map[sid.ID]*Slot),
		valueTable:   make(map[sid.ID]*Value),
		substCache:   make(map[substKey]sid.ID),
		primitives:   make(map[string]sid.ID),
		configConstants:    make(map[string]string),
		configConstantMemo: make(map[string]sid.ID),
	}
	h.populatePrimitives()
	h.invalidation = h.newValue(&Value{Kind: ValueInvalidation})
	return h
}

func (h *Host) populatePrimitives() {
	for _, name := range []string{"Any", "Void", "Object", "Boolean", "Number", "int", "uint", "String", "Namespace", "Class", "Function", "Array", "XML"} {
		kind := TypeClass
		switch name {
		case "Any":
			kind = TypeAny
		case "Void":
			kind = TypeVoid
		}
		id := h.newType(&Type{Kind: kind, Name: name})
		h.primitives[name] = id
	}
}

// Package looks up a Package entity by its stable handle, or nil.
func (h *Host) Package(id sid.ID) *Package { return h.packageTable[id] }

// Primitive looks up one of the pre-populated builtin types by name.
func (h *Host) Primitive(name string) *Type {
	id, ok := h.primitives[name]
	if !ok {
		return nil
	}
	return h.typeTable[id]
}

// InvalidationEntity returns the sentinel that absorbs cascading errors
// (spec glossary: "Invalidation entity").
func (h *Host) InvalidationEntity() *Value {
	return h.valueTable[h.invalidation]
}

// Normalize applies NFC normalization to a name before it is interned
// into any scope's property table, so that two source spellings of the
// same identifier under Unicode canonical equivalence collide rather than
// silently shadowing each other (grounded on the teacher's
// internal/lexer/normalize.go boundary-normalization idiom; spec.md is
// silent on this, see SPEC_FULL.md §2).
func Normalize(name string) string {
	return norm.NFC.String(name)
}

// SetConfigConstants installs the compilation's recognized `NS::NAME`
// configuration constants, keyed by "NS::NAME" with their unevaluated
// textual body as the value (spec glossary "Configuration constant";
// SPEC_FULL.md's compiler-options plumbing supplies this map from the
// driver's surrounding CLI/build configuration).
func (h *Host) SetConfigConstants(constants map[string]string) {
	h.configConstants = constants
}

// ConfigConstantBody looks up the textual body of a config constant by
// its "NS::NAME" key.
func (h *Host) ConfigConstantBody(key string) (string, bool) {
	body, ok := h.configConstants[key]
	return body, ok
}

// CachedConfigConstant returns a previously memoized config-constant
// result for key, if any.
func (h *Host) CachedConfigConstant(key string) (*Value, bool) {
	id, ok := h.configConstantMemo[key]
	if !ok {
		return nil, false
	}
	return h.valueTable[id], true
}

// MemoizeConfigConstant records key's evaluated result so a later
// reference to the same config constant substitutes the same Value
// instead of re-parsing and re-evaluating its textual body.
func (h *Host) MemoizeConfigConstant(key string, v *Value) {
	h.configConstantMemo[key] = v.id
}

// ConstEvalScope returns the single dedicated scope every config
// constant's textual body is verified in, creating it on first use.
func (h *Host) ConstEvalScope() *Scope {
	if h.constEvalScope == nil {
		h.constEvalScope = h.NewConstEvalScope()
	}
	return h.constEvalScope
}
