package host

import "github.com/parthenon-lang/verifyc/internal/sid"

// LookupError is the closed error set lookup_in_object may return (spec
// §6): Ambiguous, Defer, VoidBase, NullableObject.
type LookupError int

const (
	LookupNone LookupError = iota
	LookupAmbiguous
	LookupDefer
	LookupVoidBase
	LookupNullableObject
)

func (e LookupError) String() string {
	switch e {
	case LookupAmbiguous:
		return "Ambiguous"
	case LookupDefer:
		return "Defer"
	case LookupVoidBase:
		return "VoidBase"
	case LookupNullableObject:
		return "NullableObject"
	default:
		return "None"
	}
}

// LookupResult is lookup_in_object's outcome: either a resolved slot, no
// match (Found=false, Err=LookupNone), or one of the four errors.
type LookupResult struct {
	Found bool
	Slot  sid.ID
	Err   LookupError
}

// LookupInObject resolves key against base's static type. A non-empty
// qualifier narrows the search to that single namespace. Otherwise, a
// non-empty openNS keeps only matches in an open namespace or in no
// namespace; if none of the matches is in either, every match is kept.
// followedByCall relaxes strict fixture resolution so
// a property used purely as a call target need not itself be
// unambiguous about mutability (spec §6).
func (h *Host) LookupInObject(base *Value, openNS []string, qualifier string, key string, followedByCall bool) LookupResult {
	if base == nil {
		return LookupResult{Err: LookupVoidBase}
	}
	t := h.typeTable[base.Type]
	if t == nil {
		return LookupResult{Err: LookupVoidBase}
	}
	if t.Kind == TypeVoid {
		return LookupResult{Err: LookupVoidBase}
	}
	if t.Kind == TypeNullable {
		return LookupResult{Err: LookupNullableObject}
	}
	if t.Kind == TypeUnresolved {
		return LookupResult{Err: LookupDefer}
	}

	key = Normalize(key)
	matches := h.candidateSlots(t, key)
	if len(matches) == 0 {
		return LookupResult{Found: false}
	}
	if qualifier != "" {
		var filtered []sid.ID
		for _, s := range matches {
			if slot := h.slotTable[s]; slot != nil && slot.Name.Namespace == qualifier {
				filtered = append(filtered, s)
			}
		}
		matches = filtered
	} else if len(openNS) > 0 {
		var filtered []sid.ID
		nsSet := make(map[string]bool, len(openNS))
		for _, ns := range openNS {
			nsSet[ns] = true
		}
		for _, s := range matches {
			if slot := h.slotTable[s]; slot != nil && (slot.Name.Namespace == "" || nsSet[slot.Name.Namespace]) {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) > 0 {
			matches = filtered
		}
	}

	switch len(matches) {
	case 0:
		return LookupResult{Found: false}
	case 1:
		return LookupResult{Found: true, Slot: matches[0]}
	default:
		return LookupResult{Err: LookupAmbiguous}
	}
}

// candidateSlots gathers every slot named key visible on t: its own
// prototype/static tables, then walking Extends, so a derived class's own
// member shadows (but does not remove) an inherited one from the
// ambiguity count — ambiguity here only arises from multiple *distinct*
// namespaces exposing the same local name, consistent with spec §4.2's
// "ambiguity between multiple matches is a diagnostic" for import
// shadowing, reused here for member lookup.
func (h *Host) candidateSlots(t *Type, key string) []sid.ID {
	seen := make(map[string]bool)
	var out []sid.ID
	for cur := t; cur != nil; {
		if id, ok := cur.Prototype[key]; ok {
			if slot := h.slotTable[id]; slot != nil {
				dedupeKey := slot.Name.Namespace + "::" + slot.Name.Local
				if !seen[dedupeKey] {
					seen[dedupeKey] = true
					out = append(out, id)
				}
			}
		}
		if id, ok := cur.Static[key]; ok {
			if slot := h.slotTable[id]; slot != nil {
				dedupeKey := "static::" + slot.Name.Namespace + "::" + slot.Name.Local
				if !seen[dedupeKey] {
					seen[dedupeKey] = true
					out = append(out, id)
				}
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
	return out
}
