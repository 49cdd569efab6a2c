package verifier

import (
	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/phase"
)

// This file implements the two parallel destructuring engines of spec
// §4.3: DestructuringDeclSubverifier (variable/parameter bindings, which
// install new Slots) and AssignmentDestructuringSubverifier (the LHS of
// `=`, which resolves references instead). Both share one pattern shape
// grammar — identifier / non-null / object / array — so the array/tuple
// shape dispatch (Vector, Array, Tuple, *-or-Object, invalidation) is
// written once per engine rather than duplicated per pattern kind.
// Grounded on original_source's destructuring and assignment verifier
// passes, kept here as two halves of one Go file since the teacher groups
// closely related subverifiers into a single source file (e.g. directive.go
// covers every directive shape).

// verifyDestructuringDecl is DestructuringDeclSubverifier's Omega-phase
// entry point: declTy (from an annotation) and initVal (the verified
// initializer, already escaped of nullability is NOT assumed here — that
// escape happens below per spec §4.3 "the init value's type is escaped of
// non-nullable, then dispatched to one of five shape-specific handlers")
// together decide the type every bound name in pat is assigned.
func (v *Subverifier) verifyDestructuringDecl(kind ast.VariableKind, pat ast.Pattern, declTy *host.Type, initVal *host.Value, scope *host.Scope) phase.Result {
	var ty *host.Type
	switch {
	case initVal != nil:
		ty = v.host.EscapeOfNullableOrNonNullable(initVal.StaticType(v.host))
	case declTy != nil:
		ty = v.host.EscapeOfNullableOrNonNullable(declTy)
	default:
		ty = v.host.Primitive("Any")
	}
	v.bindPattern(kind, pat, ty, initVal, scope)
	return phase.Ok()
}

// bindPattern installs a new Slot for every name introduced by pat,
// recursing through the non-null/array/object shapes until it bottoms
// out at identifier patterns.
func (v *Subverifier) bindPattern(kind ast.VariableKind, pat ast.Pattern, ty *host.Type, val *host.Value, scope *host.Scope) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		v.bindIdentifierPattern(kind, p, ty, val, scope)
	case *ast.NonNullPattern:
		if ty.Kind == host.TypeNonNullable {
			v.report(diag.New(diag.ReferenceIsAlreadyNonNullable, posOf(p)))
		}
		unwrapped := v.host.EscapeOfNullableOrNonNullable(ty)
		nonNull := v.host.NewNonNullableType(unwrapped)
		var subVal *host.Value
		if val != nil {
			subVal = v.host.NewNonNullValue(val, nonNull.ID())
		}
		v.bindPattern(kind, p.Sub, nonNull, subVal, scope)
	case *ast.ArrayPattern:
		v.bindArrayPattern(kind, p, ty, scope)
	case *ast.ObjectPattern:
		v.bindObjectPattern(kind, p, ty, scope)
	default:
		v.report(diag.New(diag.CannotUseDestructuringHere, posOf(pat)))
	}
}

func (v *Subverifier) bindIdentifierPattern(kind ast.VariableKind, p *ast.IdentifierPattern, ty *host.Type, val *host.Value, scope *host.Scope) {
	finalTy := ty
	if p.Type != nil {
		if declared, res := v.resolveTypeExpr(p.Type); !res.IsDeferred() && declared != nil {
			finalTy = declared
		}
	}
	if finalTy == nil {
		finalTy = v.host.Primitive("Any")
	}
	slot := v.host.NewVariableSlot(host.QName{Local: p.Name}, finalTy.ID())
	slot.Flags.ReadOnly = kind == ast.VarConst
	if slot.Flags.ReadOnly && val != nil && isConstantKind(val.Kind) {
		slot.SetConstant(val.ID())
	}
	if installed, _ := scope.DefineProperty(p.Name, slot.ID()); !installed {
		v.report(diag.New(diag.DuplicateVariableDefinition, posOf(p), p.Name))
	}
}

// bindArrayPattern dispatches on ty's shape to one of the five handlers
// named in spec §4.3: Vector, Array, Tuple, *-or-Object, invalidation.
func (v *Subverifier) bindArrayPattern(kind ast.VariableKind, p *ast.ArrayPattern, ty *host.Type, scope *host.Scope) {
	switch {
	case ty.Kind == host.TypeTuple:
		v.bindTupleElements(kind, p, ty, scope)
	case ty.Kind == host.TypeInvalidation:
		v.bindArrayElements(kind, p, v.host.InvalidationType(), scope)
	default:
		if elem := v.host.VectorElementType(ty); elem != nil {
			v.bindArrayElements(kind, p, elem, scope)
			return
		}
		if elem := v.host.ArrayElementType(ty); elem != nil {
			v.bindArrayElements(kind, p, elem, scope)
			return
		}
		if ty.Kind == host.TypeAny || ty.Name == "Object" || ty.Name == "*" {
			v.bindArrayElements(kind, p, v.host.Primitive("Any"), scope)
			return
		}
		v.report(diag.New(diag.UnexpectedArray, posOf(p)))
		v.bindArrayElements(kind, p, v.host.InvalidationType(), scope)
	}
}

func (v *Subverifier) bindArrayElements(kind ast.VariableKind, p *ast.ArrayPattern, elemTy *host.Type, scope *host.Scope) {
	for i, el := range p.Elements {
		if el.Elision {
			v.report(diag.New(diag.UnexpectedElision, toPos(el.Pos)))
			continue
		}
		if el.Rest {
			if i != len(p.Elements)-1 {
				v.report(diag.New(diag.UnexpectedRest, toPos(el.Pos)))
			}
			restTy := v.host.Substitute(v.host.Primitive("Array"), []*host.Type{elemTy})
			v.bindPattern(kind, el.Pattern, restTy, nil, scope)
			continue
		}
		v.bindPattern(kind, el.Pattern, elemTy, nil, scope)
	}
}

// bindTupleElements enforces spec §4.3's "Tuple handling enforces length
// equality unless a rest is present; excess elements produce
// invalidation-typed sub-patterns and a length-mismatch diagnostic."
func (v *Subverifier) bindTupleElements(kind ast.VariableKind, p *ast.ArrayPattern, tupleTy *host.Type, scope *host.Scope) {
	restIdx := -1
	for i, el := range p.Elements {
		if el.Rest {
			if i != len(p.Elements)-1 {
				v.report(diag.New(diag.UnexpectedRest, toPos(el.Pos)))
			}
			restIdx = i
		}
	}
	nonRest := len(p.Elements)
	if restIdx >= 0 {
		nonRest--
	}
	mismatch := (restIdx < 0 && len(p.Elements) != len(tupleTy.Elements)) ||
		(restIdx >= 0 && nonRest > len(tupleTy.Elements))
	if mismatch {
		v.report(diag.New(diag.ArrayLengthNotEqualsTupleLength, posOf(p), len(tupleTy.Elements)))
	}

	for i, el := range p.Elements {
		if el.Elision {
			v.report(diag.New(diag.UnexpectedElision, toPos(el.Pos)))
			continue
		}
		if el.Rest {
			restTy := v.host.Substitute(v.host.Primitive("Array"), []*host.Type{v.host.Primitive("Any")})
			v.bindPattern(kind, el.Pattern, restTy, nil, scope)
			continue
		}
		var elemTy *host.Type
		if i < len(tupleTy.Elements) {
			elemTy = v.host.Type(tupleTy.Elements[i])
		} else {
			elemTy = v.host.InvalidationType()
		}
		v.bindPattern(kind, el.Pattern, elemTy, nil, scope)
	}
}

// bindObjectPattern resolves each field name against ty's property table
// (the same lookup rules as ordinary member access) and binds its
// sub-pattern to the resolved property's type; a shorthand field (Sub ==
// nil) binds a name identical to the field name. ty must itself be
// object-shaped (spec §4.3's UnexpectedObject edge case, mirroring
// bindArrayPattern's own shape dispatch) before any field is looked up at
// all — otherwise every field would misreport UnexpectedFieldNameInDestructuring
// instead of the pattern itself being rejected.
func (v *Subverifier) bindObjectPattern(kind ast.VariableKind, p *ast.ObjectPattern, ty *host.Type, scope *host.Scope) {
	if !v.host.IsObjectShaped(ty) {
		v.report(diag.New(diag.UnexpectedObject, posOf(p)))
		ty = v.host.InvalidationType()
	}
	for _, f := range p.Fields {
		fieldTy := v.resolveDestructuredField(ty, f.Name, f.Pos)
		sub := f.Sub
		if sub == nil {
			sub = &ast.IdentifierPattern{Name: f.Name, Pos: f.Pos}
		}
		v.bindPattern(kind, sub, fieldTy, nil, scope)
	}
}

// lookupDestructuredField is the lookup shared by declarative and
// assignment object-pattern field resolution: spec §4.3 "Field names in
// object patterns are resolved against the right-hand-side value's type
// via the usual property lookup rules ... Ambiguous / void-base /
// nullable-base lookups diagnose and invalidate just the sub-pattern, not
// the entire expression." Diagnostics are reported here so every caller
// gets them for free; callers only need to fall back on a zero LookupResult.
func (v *Subverifier) lookupDestructuredField(ty *host.Type, name string, pos ast.Pos) host.LookupResult {
	if ty.Kind == host.TypeInvalidation {
		return host.LookupResult{}
	}
	openNS := v.host.ConcatOpenNamespaceSetOfScopeChain(v.scope)
	result := v.host.LookupInObject(v.host.NewThisObject(ty.ID()), openNS, "", name, false)
	switch {
	case result.Err == host.LookupAmbiguous:
		v.report(diag.New(diag.AmbiguousReference, toPos(pos), name))
	case result.Err == host.LookupVoidBase:
		v.report(diag.New(diag.AccessOfVoid, toPos(pos), name))
	case result.Err == host.LookupNullableObject:
		v.report(diag.New(diag.AccessOfNullable, toPos(pos), name))
	case !result.Found:
		v.report(diag.New(diag.UnexpectedFieldNameInDestructuring, toPos(pos), name))
	}
	return result
}

// resolveDestructuredField resolves name against ty and returns just the
// field's type, invalidation on any lookup failure.
func (v *Subverifier) resolveDestructuredField(ty *host.Type, name string, pos ast.Pos) *host.Type {
	result := v.lookupDestructuredField(ty, name, pos)
	if !result.Found {
		return v.host.InvalidationType()
	}
	slot := v.host.Slot(result.Slot)
	if slot == nil {
		return v.host.InvalidationType()
	}
	return v.host.Type(slot.Type)
}

// ---- Assignment destructuring (spec §4.3 "Assignment") ----

// verifyAssignment is the common entry point for every `target = value`
// expression, including the compound forms. A DestructuringTargetExpr
// target dispatches into the assignment destructuring engine instead of
// ordinary write resolution; compound operators never apply to a
// destructuring target.
func (v *Subverifier) verifyAssignment(n *ast.AssignmentExpr, ctx ExprContext) (*host.Value, phase.Result) {
	if dte, ok := n.Target.(*ast.DestructuringTargetExpr); ok {
		if n.Op != "=" {
			v.report(diag.New(diag.CannotUseDestructuringHere, posOf(n)))
			return v.host.InvalidationEntity(), phase.Ok()
		}
		rhsVal, res := v.verifyExpr(n.Value, ExprContext{})
		if res.IsDeferred() {
			return nil, res
		}
		return v.verifyExpr(dte, ExprContext{ContextType: rhsVal.StaticType(v.host)})
	}

	targetVal, res := v.verifyExpr(n.Target, ExprContext{Mode: ModeWrite})
	if res.IsDeferred() {
		return nil, res
	}
	targetTy := targetVal.StaticType(v.host)
	rhsVal, res := v.verifyExpr(n.Value, ExprContext{ContextType: targetTy})
	if res.IsDeferred() {
		return nil, res
	}
	if _, _, ok := v.host.Implicit(rhsVal, targetTy, true); !ok {
		id := v.ids.of(n.Value)
		if v.invalid.MarkFailed(id, targetTy.ID()) {
			v.report(diag.New(diag.ImplicitCoercionToUnrelatedType, posOf(n.Value), targetTy.Name))
		}
	}
	return v.host.NewDynamicReference(targetTy.ID()), phase.Ok()
}

// verifyAssignmentDestructuringTarget is AssignmentDestructuringSubverifier
// (spec §2): ctx.ContextType carries the already-verified RHS value's
// type (set by verifyAssignment above), against which every reference in
// the pattern is resolved.
func (v *Subverifier) verifyAssignmentDestructuringTarget(n *ast.DestructuringTargetExpr, ctx ExprContext) (*host.Value, phase.Result) {
	rhsTy := ctx.ContextType
	if rhsTy == nil {
		rhsTy = v.host.Primitive("Any")
	}
	v.assignPattern(n.Pattern, rhsTy)
	return v.host.NewDynamicReference(rhsTy.ID()), phase.Ok()
}

func (v *Subverifier) assignPattern(pat ast.Pattern, ty *host.Type) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		v.assignIdentifierTarget(p.Name, p.Pos, ty)
	case *ast.NonNullPattern:
		unwrapped := v.host.EscapeOfNullableOrNonNullable(ty)
		if ty.Kind == host.TypeNonNullable {
			v.report(diag.New(diag.ReferenceIsAlreadyNonNullable, posOf(p)))
		}
		v.assignPattern(p.Sub, v.host.NewNonNullableType(unwrapped))
	case *ast.ArrayPattern:
		v.assignArrayPattern(p, ty)
	case *ast.ObjectPattern:
		v.assignObjectPattern(p, ty)
	default:
		v.report(diag.New(diag.CannotUseDestructuringHere, posOf(pat)))
	}
}

// assignIdentifierTarget resolves an *existing* name through the scope
// chain (assignment never declares) and checks the RHS type coerces to
// the resolved slot's static type.
func (v *Subverifier) assignIdentifierTarget(name string, pos ast.Pos, ty *host.Type) {
	norm := host.Normalize(name)
	for cur := v.scope; cur != nil; cur = cur.Parent(v.host) {
		slotID, ok := cur.Properties[norm]
		if !ok {
			continue
		}
		slot := v.host.Slot(slotID)
		if slot == nil {
			return
		}
		targetTy := v.host.Type(slot.Type)
		if targetTy != nil {
			probe := v.host.NewDynamicReference(ty.ID())
			if _, _, ok := v.host.Implicit(probe, targetTy, false); !ok {
				v.report(diag.New(diag.ImplicitCoercionToUnrelatedType, toPos(pos), targetTy.Name))
			}
		}
		return
	}
	v.report(diag.New(diag.UndefinedProperty, toPos(pos), name))
}

func (v *Subverifier) assignArrayPattern(p *ast.ArrayPattern, ty *host.Type) {
	unwrapped := v.host.EscapeOfNullableOrNonNullable(ty)
	switch {
	case unwrapped.Kind == host.TypeTuple:
		v.assignTupleElements(p, unwrapped)
	case unwrapped.Kind == host.TypeInvalidation:
		v.assignArrayElements(p, unwrapped)
	default:
		if elem := v.host.VectorElementType(unwrapped); elem != nil {
			v.assignArrayElements(p, elem)
			return
		}
		if elem := v.host.ArrayElementType(unwrapped); elem != nil {
			v.assignArrayElements(p, elem)
			return
		}
		if unwrapped.Kind == host.TypeAny || unwrapped.Name == "Object" || unwrapped.Name == "*" {
			v.assignArrayElements(p, v.host.Primitive("Any"))
			return
		}
		v.report(diag.New(diag.UnexpectedArray, posOf(p)))
	}
}

func (v *Subverifier) assignArrayElements(p *ast.ArrayPattern, elemTy *host.Type) {
	for i, el := range p.Elements {
		if el.Elision {
			v.report(diag.New(diag.UnexpectedElision, toPos(el.Pos)))
			continue
		}
		if el.Rest {
			if i != len(p.Elements)-1 {
				v.report(diag.New(diag.UnexpectedRest, toPos(el.Pos)))
			}
			restTy := v.host.Substitute(v.host.Primitive("Array"), []*host.Type{elemTy})
			v.assignPattern(el.Pattern, restTy)
			continue
		}
		v.assignPattern(el.Pattern, elemTy)
	}
}

func (v *Subverifier) assignTupleElements(p *ast.ArrayPattern, tupleTy *host.Type) {
	restIdx := -1
	for i, el := range p.Elements {
		if el.Rest {
			if i != len(p.Elements)-1 {
				v.report(diag.New(diag.UnexpectedRest, toPos(el.Pos)))
			}
			restIdx = i
		}
	}
	nonRest := len(p.Elements)
	if restIdx >= 0 {
		nonRest--
	}
	mismatch := (restIdx < 0 && len(p.Elements) != len(tupleTy.Elements)) ||
		(restIdx >= 0 && nonRest > len(tupleTy.Elements))
	if mismatch {
		v.report(diag.New(diag.ArrayLengthNotEqualsTupleLength, posOf(p), len(tupleTy.Elements)))
	}
	for i, el := range p.Elements {
		if el.Elision {
			v.report(diag.New(diag.UnexpectedElision, toPos(el.Pos)))
			continue
		}
		if el.Rest {
			restTy := v.host.Substitute(v.host.Primitive("Array"), []*host.Type{v.host.Primitive("Any")})
			v.assignPattern(el.Pattern, restTy)
			continue
		}
		var elemTy *host.Type
		if i < len(tupleTy.Elements) {
			elemTy = v.host.Type(tupleTy.Elements[i])
		} else {
			elemTy = v.host.InvalidationType()
		}
		v.assignPattern(el.Pattern, elemTy)
	}
}

// assignObjectPattern resolves each field against the RHS value's type
// and, for a shorthand field, additionally resolves a same-named local
// write target (spec §4.3). Every field gets its own
// FieldDestructuringResolution slot recording the resolved property
// reference and, for shorthand, the resolved local target — spec §3's
// "per-field resolution record". The slot is not installed in any scope
// or memo table and nothing reads it back. A field whose lookup failed
// has already been diagnosed; its target or sub-pattern is not resolved
// further.
func (v *Subverifier) assignObjectPattern(p *ast.ObjectPattern, ty *host.Type) {
	unwrapped := v.host.EscapeOfNullableOrNonNullable(ty)
	if !v.host.IsObjectShaped(unwrapped) {
		v.report(diag.New(diag.UnexpectedObject, posOf(p)))
		unwrapped = v.host.InvalidationType()
	}
	for _, f := range p.Fields {
		result := v.lookupDestructuredField(unwrapped, f.Name, f.Pos)
		fieldTy := v.host.InvalidationType()
		if result.Found {
			if slot := v.host.Slot(result.Slot); slot != nil {
				fieldTy = v.host.Type(slot.Type)
			}
		}

		resolution := v.host.NewFieldDestructuringResolutionSlot(host.QName{Local: f.Name})
		resolution.Type = fieldTy.ID()
		resolution.AliasOf = result.Slot
		if !result.Found {
			continue
		}

		if f.Sub == nil {
			v.assignIdentifierTarget(f.Name, f.Pos, fieldTy)
			if localSlotID, ok := v.scope.Properties[host.Normalize(f.Name)]; ok {
				resolution.Activation = localSlotID
				resolution.HasActivation = true
			}
			continue
		}
		v.assignPattern(f.Sub, fieldTy)
	}
}
