package host

import (
	"sort"
	"strings"

	"github.com/parthenon-lang/verifyc/internal/sid"
)

// TypeKind enumerates the Type variants of spec §3.
type TypeKind int

const (
	TypeClass TypeKind = iota
	TypeInterface
	TypeEnum
	TypeTuple
	TypeFunction
	TypeNullable
	TypeNonNullable
	TypeAfterSubstitution
	TypeAny
	TypeVoid
	TypeUnresolved
	TypeInvalidation
)

// TypeFlags holds the boolean modifiers of spec §3's Type attributes.
type TypeFlags struct {
	Final    bool
	Abstract bool
	Static   bool
	External bool
}

// Type is the host's Type entity.
type Type struct {
	id         sid.ID
	Kind       TypeKind
	Name       string
	TypeParams []string
	Prototype  map[string]sid.ID // instance names -> Slot id
	Static     map[string]sid.ID // static properties -> Slot id
	Extends    sid.ID
	Implements []sid.ID
	Flags      TypeFlags

	// Tuple
	Elements []sid.ID

	// Function
	Params     []FunctionParam
	ReturnType sid.ID

	// Nullable/NonNullable
	Base sid.ID

	// TypeAfterSubstitution
	Origin sid.ID
	Args   []sid.ID
}

// FunctionParam mirrors an ArgumentsSubverifier parameter kind (spec
// §4.4): required, optional (may be omitted at the call site), or rest
// (collects any trailing arguments into an Array).
type ParamKind int

const (
	ParamRequired ParamKind = iota
	ParamOptional
	ParamRest
)

type FunctionParam struct {
	Name string
	Type sid.ID
	Kind ParamKind
}

func (t *Type) ID() sid.ID { return t.id }

func (h *Host) newType(t *Type) sid.ID {
	id := h.types.Next()
	t.id = id
	if t.Prototype == nil {
		t.Prototype = make(map[string]sid.ID)
	}
	if t.Static == nil {
		t.Static = make(map[string]sid.ID)
	}
	h.typeTable[id] = t
	return id
}

func (h *Host) Type(id sid.ID) *Type { return h.typeTable[id] }

func (h *Host) NewClassType(name string) *Type {
	id := h.newType(&Type{Kind: TypeClass, Name: name})
	return h.typeTable[id]
}

func (h *Host) NewInterfaceType(name string) *Type {
	id := h.newType(&Type{Kind: TypeInterface, Name: name})
	return h.typeTable[id]
}

func (h *Host) NewEnumType(name string) *Type {
	id := h.newType(&Type{Kind: TypeEnum, Name: name})
	return h.typeTable[id]
}

func (h *Host) NewTupleType(elements []sid.ID) *Type {
	id := h.newType(&Type{Kind: TypeTuple, Elements: elements})
	return h.typeTable[id]
}

func (h *Host) NewFunctionType(params []FunctionParam, ret sid.ID) *Type {
	id := h.newType(&Type{Kind: TypeFunction, Params: params, ReturnType: ret})
	return h.typeTable[id]
}

// NewNullableType wraps base in Nullable unless base is already Nullable
// (idempotent: "a non-null pattern ... warns when the surrounding type is
// already non-nullable" implies the inverse is also collapsed rather than
// double-wrapped).
func (h *Host) NewNullableType(base *Type) *Type {
	if base.Kind == TypeNullable {
		return base
	}
	id := h.newType(&Type{Kind: TypeNullable, Base: base.id})
	return h.typeTable[id]
}

func (h *Host) NewNonNullableType(base *Type) *Type {
	if base.Kind == TypeNonNullable {
		return base
	}
	id := h.newType(&Type{Kind: TypeNonNullable, Base: base.id})
	return h.typeTable[id]
}

func (h *Host) UnresolvedType() *Type {
	id := h.newType(&Type{Kind: TypeUnresolved})
	return h.typeTable[id]
}

func (h *Host) InvalidationType() *Type {
	id := h.newType(&Type{Kind: TypeInvalidation})
	return h.typeTable[id]
}

// Substitute returns the cached TypeAfterSubstitution for (origin, args),
// creating it on first request — spec §3: "Substitutions are cached by
// (origin, argument tuple)."
func (h *Host) Substitute(origin *Type, args []*Type) *Type {
	names := make([]string, len(args))
	argIDs := make([]sid.ID, len(args))
	for i, a := range args {
		names[i] = string(a.id)
		argIDs[i] = a.id
	}
	key := substKey{origin: origin.id, args: strings.Join(names, ",")}
	if id, ok := h.substCache[key]; ok {
		return h.typeTable[id]
	}
	id := h.newType(&Type{Kind: TypeAfterSubstitution, Origin: origin.id, Args: argIDs, Name: origin.Name})
	h.substCache[key] = id
	return h.typeTable[id]
}

// IsClassTypePossiblyAfterSub reports whether t is a Class type, looking
// through one layer of substitution (spec §6
// is_class_type_possibly_after_sub).
func (h *Host) IsClassTypePossiblyAfterSub(t *Type) bool {
	if t.Kind == TypeAfterSubstitution {
		if origin := h.typeTable[t.Origin]; origin != nil {
			return origin.Kind == TypeClass
		}
	}
	return t.Kind == TypeClass
}

func (h *Host) IsStatic(t *Type) bool   { return t.Flags.Static }
func (h *Host) IsAbstract(t *Type) bool { return t.Flags.Abstract }

// scalarPrimitiveNames are the builtin Class-kinded primitives (see
// populatePrimitives) that carry no instance property table of their own
// and so can never be the target of an object-destructuring pattern,
// even though their TypeKind is TypeClass like any user-defined class.
var scalarPrimitiveNames = map[string]bool{
	"Number": true, "Boolean": true, "String": true, "int": true, "uint": true,
	"XML": true, "Array": true, "Function": true, "Namespace": true,
}

// IsObjectShaped reports whether t can stand as the target of an
// object-destructuring pattern: a nominal Class/Interface/Enum other than
// the scalar primitives above (looking through one layer of substitution,
// like IsClassTypePossiblyAfterSub), Any, or Invalidation
// (already-diagnosed, propagate without a second diagnostic). Anything
// else — Number, a Tuple, a Function type, ... — is not, mirroring the
// shape check bindArrayPattern/assignArrayPattern already do for array
// patterns.
func (h *Host) IsObjectShaped(t *Type) bool {
	k, name := t.Kind, t.Name
	if k == TypeAfterSubstitution {
		if origin := h.typeTable[t.Origin]; origin != nil {
			k, name = origin.Kind, origin.Name
		}
	}
	switch k {
	case TypeAny, TypeInvalidation:
		return true
	case TypeClass, TypeInterface, TypeEnum:
		return !scalarPrimitiveNames[name]
	}
	return false
}

// IncludesNull reports whether a value of type t may be null: Any,
// Nullable(_), and Class types not wrapped in NonNullable all do.
func (h *Host) IncludesNull(t *Type) bool {
	switch t.Kind {
	case TypeAny, TypeNullable:
		return true
	case TypeNonNullable, TypeVoid:
		return false
	case TypeClass, TypeInterface, TypeEnum:
		return true
	default:
		return false
	}
}

// IncludesUndefined reports whether a value of type t may be undefined:
// only Any and Void do in this language's null/optional model.
func (h *Host) IncludesUndefined(t *Type) bool {
	return t.Kind == TypeAny || t.Kind == TypeVoid
}

// ArrayElementType returns the element type of t if t names the Array
// class after substitution with exactly one type argument, Any for the
// unsubstituted Array class itself, else nil (spec §6
// array_element_type; consumed directly by
// ArgumentsSubverifier's rest-parameter handling per SPEC_FULL.md §4).
func (h *Host) ArrayElementType(t *Type) *Type {
	if t.Kind == TypeAfterSubstitution {
		origin := h.typeTable[t.Origin]
		if origin != nil && origin.Name == "Array" && len(t.Args) == 1 {
			return h.typeTable[t.Args[0]]
		}
	}
	if t.Name == "Array" {
		return h.typeTable[h.primitives["Any"]]
	}
	return nil
}

// VectorElementType mirrors ArrayElementType for the Vector type family.
func (h *Host) VectorElementType(t *Type) *Type {
	if t.Kind == TypeAfterSubstitution {
		origin := h.typeTable[t.Origin]
		if origin != nil && origin.Name == "Vector" && len(t.Args) == 1 {
			return h.typeTable[t.Args[0]]
		}
	}
	return nil
}

// PromiseResultType mirrors ArrayElementType for Promise.<T>, consumed by
// AwaitOperandMustBeAPromise checks (spec §7).
func (h *Host) PromiseResultType(t *Type) *Type {
	if t.Kind == TypeAfterSubstitution {
		origin := h.typeTable[t.Origin]
		if origin != nil && origin.Name == "Promise" && len(t.Args) == 1 {
			return h.typeTable[t.Args[0]]
		}
	}
	return nil
}

// EscapeOfNullableOrNonNullable unwraps one layer of Nullable/NonNullable,
// returning the inner type — spec §6 escape_of_nullable_or_non_nullable,
// used by destructuring Omega before dispatching to a shape handler.
func (h *Host) EscapeOfNullableOrNonNullable(t *Type) *Type {
	if t.Kind == TypeNullable || t.Kind == TypeNonNullable {
		if base := h.typeTable[t.Base]; base != nil {
			return base
		}
	}
	return t
}

// DefineInstance installs a Slot under name in t's instance (prototype)
// table, idempotently.
func (t *Type) DefineInstance(name string, slot sid.ID) (installed bool, existing sid.ID) {
	name = Normalize(name)
	if cur, ok := t.Prototype[name]; ok {
		return false, cur
	}
	t.Prototype[name] = slot
	return true, slot
}

// DefineStatic installs a Slot under name in t's static table, idempotently.
func (t *Type) DefineStatic(name string, slot sid.ID) (installed bool, existing sid.ID) {
	name = Normalize(name)
	if cur, ok := t.Static[name]; ok {
		return false, cur
	}
	t.Static[name] = slot
	return true, slot
}

// InstanceNames returns t's own prototype property names, sorted, for
// deterministic iteration.
func (t *Type) InstanceNames() []string {
	out := make([]string, 0, len(t.Prototype))
	for k := range t.Prototype {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
