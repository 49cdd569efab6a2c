package host

import "github.com/parthenon-lang/verifyc/internal/sid"

// OverrideOutcome is the closed result of the method-override oracle
// (spec §6): Ok, Defer, IncompatibleOverride(expected, actual),
// MustOverrideAMethod, OverridingFinalMethod.
type OverrideOutcome int

const (
	OverrideOk OverrideOutcome = iota
	OverrideDefer
	OverrideIncompatible
	OverrideMustOverride
	OverrideFinal
)

type OverrideResult struct {
	Outcome  OverrideOutcome
	Expected sid.ID // signature type, set only for OverrideIncompatible
	Actual   sid.ID
}

// CheckOverride validates candidate (a Method slot declared with the
// `override` attribute, or not) against the nearest same-named member
// found by walking base's ancestor chain starting at base itself.
func (h *Host) CheckOverride(base *Type, name QName, candidate *Slot) OverrideResult {
	baseMember, baseType := h.findInherited(base, name)
	if baseMember == nil {
		if candidate.Flags.Overriding {
			return OverrideResult{Outcome: OverrideMustOverride}
		}
		return OverrideResult{Outcome: OverrideOk}
	}
	if !candidate.Flags.Overriding {
		// A same-named member exists in a base class but this slot was
		// not declared `override` — the directive subverifier treats
		// this as ShadowingDefinitionInBaseClass, not an override
		// mismatch, so the oracle reports Ok here and lets the caller
		// make that separate check against baseType.
		_ = baseType
		return OverrideResult{Outcome: OverrideOk}
	}
	if baseMember.Flags.Final {
		return OverrideResult{Outcome: OverrideFinal}
	}
	baseSig := h.typeTable[baseMember.Type]
	candSig := h.typeTable[candidate.Type]
	if baseSig == nil || candSig == nil {
		return OverrideResult{Outcome: OverrideDefer}
	}
	if baseSig.Kind == TypeUnresolved || candSig.Kind == TypeUnresolved {
		return OverrideResult{Outcome: OverrideDefer}
	}
	if !h.signaturesCompatible(baseSig, candSig) {
		return OverrideResult{Outcome: OverrideIncompatible, Expected: baseSig.id, Actual: candSig.id}
	}
	return OverrideResult{Outcome: OverrideOk}
}

func (h *Host) findInherited(t *Type, name QName) (*Slot, *Type) {
	for cur := t; cur != nil; {
		if id, ok := cur.Prototype[name.Local]; ok {
			if slot := h.slotTable[id]; slot != nil && slot.Name.Namespace == name.Namespace {
				return slot, cur
			}
		}
		if cur.Extends == "" {
			break
		}
		next := h.typeTable[cur.Extends]
		if next == nil || next == cur {
			break
		}
		cur = next
	}
	return nil, nil
}

// signaturesCompatible requires identical arity/kind per parameter and an
// implicit relation between return types (covariant result, invariant
// parameters — the common override compatibility rule).
func (h *Host) signaturesCompatible(base, cand *Type) bool {
	if len(base.Params) != len(cand.Params) {
		return false
	}
	for i := range base.Params {
		if base.Params[i].Kind != cand.Params[i].Kind {
			return false
		}
		bp := h.typeTable[base.Params[i].Type]
		cp := h.typeTable[cand.Params[i].Type]
		if bp == nil || cp == nil || bp.id != cp.id {
			return false
		}
	}
	baseRet := h.typeTable[base.ReturnType]
	candRet := h.typeTable[cand.ReturnType]
	if baseRet == nil || candRet == nil {
		return false
	}
	return h.implicitTypeRelation(candRet, baseRet)
}
