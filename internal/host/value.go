package host

import "github.com/parthenon-lang/verifyc/internal/sid"

// ValueKind enumerates the Value variants of spec §3: constants plus the
// non-constant "reference values" produced during expression
// verification.
type ValueKind int

const (
	ValueBoolConstant ValueKind = iota
	ValueNumberConstant
	ValueStringConstant
	ValueNullConstant
	ValueUndefinedConstant
	ValueNamespaceConstant
	ValueFixtureReference
	ValueScopeReference
	ValueDynamicReference
	ValueFilterValue
	ValueLambdaObject
	ValueNonNullValue
	ValueThisObject
	ValueInvalidation
)

// Value is the host's Value entity.
type Value struct {
	id   sid.ID
	Kind ValueKind
	Type sid.ID

	// Constant payloads.
	Bool   bool
	Number float64
	Str    string
	NS     string // namespace constant payload

	// FixtureReference / ScopeReference
	Fixture sid.ID // Slot
	Scope   sid.ID

	// NonNullValue
	Inner sid.ID
}

func (v *Value) ID() sid.ID { return v.id }

func (h *Host) newValue(v *Value) sid.ID {
	id := h.values.Next()
	v.id = id
	h.valueTable[id] = v
	return id
}

func (h *Host) Value(id sid.ID) *Value { return h.valueTable[id] }

func (h *Host) NewBoolConstant(b bool, typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueBoolConstant, Bool: b, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewNumberConstant(n float64, typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueNumberConstant, Number: n, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewStringConstant(s string, typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueStringConstant, Str: s, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewNullConstant(typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueNullConstant, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewUndefinedConstant(typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueUndefinedConstant, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewNamespaceConstant(ns string, typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueNamespaceConstant, NS: ns, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewFixtureReference(slot sid.ID, typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueFixtureReference, Fixture: slot, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewScopeReference(scope sid.ID, typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueScopeReference, Scope: scope, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewDynamicReference(typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueDynamicReference, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewFilterValue(typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueFilterValue, Type: typ})
	return h.valueTable[id]
}

func (h *Host) NewLambdaObject(typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueLambdaObject, Type: typ})
	return h.valueTable[id]
}

// NewNonNullValue wraps inner, whose static type must already be a
// Nullable — spec §4.3: "A non-null pattern produces a non-nullable sub-init
// value".
func (h *Host) NewNonNullValue(inner *Value, nonNullType sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueNonNullValue, Inner: inner.id, Type: nonNullType})
	return h.valueTable[id]
}

func (h *Host) NewThisObject(typ sid.ID) *Value {
	id := h.newValue(&Value{Kind: ValueThisObject, Type: typ})
	return h.valueTable[id]
}

// StaticType returns v's static type, per spec §3's invariant that it
// "never returns Unresolved after Omega for a settled entity" — callers
// in Omega+ phases may rely on this.
func (v *Value) StaticType(h *Host) *Type {
	return h.typeTable[v.Type]
}

func (v *Value) IsInvalidation() bool { return v.Kind == ValueInvalidation }
