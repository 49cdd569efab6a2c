package host

// CoerceKind classifies how a value implicitly converted to a target
// type, consulted by the null-coalescing operator's "non-nullable
// unwrapping when the coercion kind is known" (spec §4.2).
type CoerceKind int

const (
	CoerceIdentity CoerceKind = iota
	CoerceWidening
	CoerceNullableUnwrap
	CoerceBoxing
	CoerceNone
)

// Implicit is the conversion oracle of spec §6: implicit(value,
// target_type, coerce_constant). It returns the converted value (possibly
// value itself, unchanged, for an identity conversion) and whether the
// conversion is legal. coerceConstant additionally permits a constant
// value to change representation (e.g. an int literal widening to
// Number) even when a non-constant value of the source type could not
// convert.
func (h *Host) Implicit(value *Value, target *Type, coerceConstant bool) (*Value, CoerceKind, bool) {
	if value == nil || target == nil {
		return nil, CoerceNone, false
	}
	src := h.typeTable[value.Type]
	if src == nil {
		return nil, CoerceNone, false
	}

	if target.Kind == TypeAny || src.id == target.id {
		return value, CoerceIdentity, true
	}

	if target.Kind == TypeNullable {
		if inner := h.typeTable[target.Base]; inner != nil {
			if conv, kind, ok := h.Implicit(value, inner, coerceConstant); ok {
				_ = kind
				return conv, CoerceWidening, true
			}
		}
		if value.Kind == ValueNullConstant {
			return value, CoerceIdentity, true
		}
	}

	if src.Kind == TypeNullable {
		if inner := h.typeTable[src.Base]; inner != nil {
			if h.implicitTypeRelation(inner, target) {
				return value, CoerceNullableUnwrap, true
			}
		}
	}

	if coerceConstant && isConstantValue(value) {
		if h.numericFamily(src) && h.numericFamily(target) {
			return value, CoerceBoxing, true
		}
	}

	if h.implicitTypeRelation(src, target) {
		return value, CoerceWidening, true
	}

	return nil, CoerceNone, false
}

func isConstantValue(v *Value) bool {
	switch v.Kind {
	case ValueBoolConstant, ValueNumberConstant, ValueStringConstant, ValueNullConstant, ValueUndefinedConstant, ValueNamespaceConstant:
		return true
	default:
		return false
	}
}

func (h *Host) numericFamily(t *Type) bool {
	switch t.Name {
	case "Number", "int", "uint":
		return true
	default:
		return false
	}
}

// implicitTypeRelation reports whether src converts to target via class
// inheritance or interface implementation, without involving a concrete
// value (used both by Implicit and by binary-operator folding).
func (h *Host) implicitTypeRelation(src, target *Type) bool {
	if src.id == target.id || target.Kind == TypeAny {
		return true
	}
	for _, impl := range src.Implements {
		if impl == target.id {
			return true
		}
		if it := h.typeTable[impl]; it != nil && h.implicitTypeRelation(it, target) {
			return true
		}
	}
	if src.Extends != "" {
		if base := h.typeTable[src.Extends]; base != nil {
			return h.implicitTypeRelation(base, target)
		}
	}
	return false
}
