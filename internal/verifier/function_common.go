package verifier

import (
	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/phase"
)

// modifierSet extracts the keyword modifiers off an attribute list, the
// common first step every FunctionCommonSubverifier entry point needs
// before it can build a signature (spec §4.6 attribute handling).
type modifierSet struct {
	static, final, override, native, abstract bool
}

func modifiersOf(attrs []ast.Attribute) modifierSet {
	var m modifierSet
	for _, a := range attrs {
		mod, ok := a.(*ast.ModifierAttribute)
		if !ok {
			continue
		}
		switch mod.Keyword {
		case "static":
			m.static = true
		case "final":
			m.final = true
		case "override":
			m.override = true
		case "native":
			m.native = true
		case "abstract":
			m.abstract = true
		}
	}
	return m
}

// verifyFunctionCommon is FunctionCommonSubverifier (spec §2): it builds
// the formal parameter list and return type, installs the method slot,
// checks override compatibility against the base class, and — for a
// function carrying a body — verifies it in a fresh activation scope.
// Grounded on original_source's verifier/function_common.rs, whose single
// entry point every function-shaped definition (plain, getter, setter,
// constructor, lambda) funnels through.
func (v *Subverifier) verifyFunctionCommon(n *ast.FunctionDefinition, scope *host.Scope) phase.Result {
	sig, res := v.buildFunctionSignature(n)
	if res.IsDeferred() {
		return res
	}

	mods := modifiersOf(n.Attributes)
	ns, _ := v.resolveAccessControlNamespace(n.Attributes, scope, posOf(n))
	slot := v.methodSlotFor(n, sig, ns)
	slot.Flags.Static = mods.static
	slot.Flags.Final = mods.final
	slot.Flags.Native = mods.native || n.Native
	slot.Flags.Abstract = mods.abstract
	slot.Flags.Overriding = mods.override

	if n.Kind == ast.FuncGetter || n.Kind == ast.FuncSetter {
		if res := v.installAccessor(n, scope, slot); res.IsDeferred() {
			return res
		}
	} else if installed, _ := scope.DefineProperty(n.Name, slot.ID()); !installed {
		v.report(diag.New(diag.DuplicateFunctionDefinition, posOf(n), n.Name))
	}

	if mods.override && scope.Kind == host.ScopeClass {
		if res := v.checkOverrideAgainstBase(n, scope, slot); res.IsDeferred() {
			return res
		}
	}

	if slot.Flags.Native {
		return phase.Ok()
	}
	if n.Body == nil {
		if !mods.abstract && scope.Kind != host.ScopeInterface {
			v.report(diag.New(diag.ExternalFunctionMustBeNativeOrAbstract, posOf(n)))
		}
		return phase.Ok()
	}

	return v.verifyFunctionBody(n, scope, sig)
}

// buildFunctionSignature resolves every parameter's type and the return
// type into a host.Type (TypeFunction), checking the shape rules of spec
// §7: a rest parameter must type as Array, a getter takes no parameters
// and returns a data type, a setter takes exactly one parameter and
// returns void.
func (v *Subverifier) buildFunctionSignature(n *ast.FunctionDefinition) (*host.Type, phase.Result) {
	params := make([]host.FunctionParam, 0, len(n.Params))
	for _, p := range n.Params {
		var paramTy *host.Type
		if p.Type != nil {
			ty, res := v.resolveTypeExpr(p.Type)
			if res.IsDeferred() {
				return nil, res
			}
			paramTy = ty
		} else {
			paramTy = v.host.Primitive("Any")
		}

		kind := host.ParamRequired
		switch {
		case p.Rest:
			kind = host.ParamRest
			if v.host.ArrayElementType(paramTy) == nil && paramTy.Name != "Array" {
				v.report(diag.New(diag.RestParameterMustBeArray, posOf(p)))
			}
		case p.Optional || p.Default != nil:
			kind = host.ParamOptional
		}
		params = append(params, host.FunctionParam{Name: p.Name, Type: paramTy.ID(), Kind: kind})
	}

	var retTy *host.Type
	switch {
	case n.ReturnType != nil:
		ty, res := v.resolveTypeExpr(n.ReturnType)
		if res.IsDeferred() {
			return nil, res
		}
		retTy = ty
	case n.Kind == ast.FuncConstructor:
		retTy = v.host.Primitive("Void")
	default:
		v.report(diag.New(diag.ReturnTypeInferenceIsNotImplemented, posOf(n)))
		retTy = v.host.Primitive("Any")
	}

	if n.IsAsync && retTy.Name != "Promise" {
		v.report(diag.New(diag.ReturnTypeDeclarationMustBePromise, posOf(n)))
	}
	if n.Kind == ast.FuncGetter {
		if len(n.Params) != 0 {
			v.report(diag.New(diag.GetterMustTakeNoParameters, posOf(n)))
		}
		if retTy.Kind == host.TypeVoid {
			v.report(diag.New(diag.GetterMustReturnDataType, posOf(n)))
		}
	}
	if n.Kind == ast.FuncSetter {
		if len(n.Params) != 1 {
			v.report(diag.New(diag.SetterMustTakeOneParameter, posOf(n)))
		} else if n.Params[0].Type == nil {
			v.report(diag.New(diag.SetterMustTakeDataType, posOf(n)))
		}
		if retTy.Kind != host.TypeVoid {
			v.report(diag.New(diag.SetterMustReturnVoid, posOf(n)))
		}
	}

	return v.host.NewFunctionType(params, retTy.ID()), phase.Ok()
}

// methodSlotFor memoizes the Method slot created for a FunctionDefinition
// node, so repeated driver passes reuse the same slot identity instead of
// allocating a new one every time the signature is rebuilt.
func (v *Subverifier) methodSlotFor(n *ast.FunctionDefinition, sig *host.Type, ns string) *host.Slot {
	id := v.ids.of(n)
	if existing, ok := v.slotByNode.Get(id); ok {
		return v.host.Slot(existing)
	}
	slot := v.host.NewMethodSlot(host.QName{Namespace: ns, Local: n.Name}, sig.ID())
	v.slotByNode.Set(id, slot.ID())
	return slot
}

// installAccessor merges a getter/setter Method slot into a shared
// Virtual slot under the property's name, per spec §9: "A getter and
// setter defined in either order under the same name are merged into a
// shared VirtualSlot."
func (v *Subverifier) installAccessor(n *ast.FunctionDefinition, scope *host.Scope, method *host.Slot) phase.Result {
	existingID, has := scope.Properties[host.Normalize(n.Name)]
	var virtual *host.Slot
	if has {
		virtual = v.host.Slot(existingID)
		if virtual == nil || virtual.Kind != host.SlotVirtual {
			v.report(diag.New(diag.DuplicateFunctionDefinition, posOf(n), n.Name))
			return phase.Ok()
		}
	} else {
		virtual = v.host.NewVirtualSlot(host.QName{Local: n.Name})
		scope.DefineProperty(n.Name, virtual.ID())
	}
	if n.Kind == ast.FuncGetter {
		virtual.AttachGetter(method.ID())
	} else {
		virtual.AttachSetter(method.ID())
	}
	return phase.Ok()
}

func (v *Subverifier) checkOverrideAgainstBase(n *ast.FunctionDefinition, scope *host.Scope, slot *host.Slot) phase.Result {
	hoist := v.host.SearchHoistScope(scope)
	if hoist == nil || hoist.ThisType == "" {
		return phase.Ok()
	}
	classTy := v.host.Type(hoist.ThisType)
	if classTy == nil || classTy.Extends == "" {
		return phase.Ok()
	}
	baseTy := v.host.Type(classTy.Extends)
	result := v.host.CheckOverride(baseTy, host.QName{Local: n.Name}, slot)
	switch result.Outcome {
	case host.OverrideDefer:
		return phase.Defer()
	case host.OverrideIncompatible:
		v.report(diag.New(diag.IncompatibleOverride, posOf(n), result.Expected, result.Actual))
	case host.OverrideMustOverride:
		v.report(diag.New(diag.MustOverrideAMethod, posOf(n), n.Name))
	case host.OverrideFinal:
		v.report(diag.New(diag.OverridingFinalMethod, posOf(n), n.Name))
	}
	return phase.Ok()
}

// verifyFunctionBody opens an Activation scope, binds the formal
// parameters as Variable slots, inherits `this` from the enclosing
// hoist scope's Class/Interface type, and verifies every body directive.
func (v *Subverifier) verifyFunctionBody(n *ast.FunctionDefinition, scope *host.Scope, sig *host.Type) phase.Result {
	activation := v.activationScopeFor(n)
	if !activation.HasParent() {
		v.host.EnterScope(scope, activation)
		if hoist := v.host.SearchHoistScope(scope); hoist != nil {
			activation.ThisType = hoist.ThisType
		}
	}
	for i, p := range n.Params {
		if i >= len(sig.Params) {
			break
		}
		paramSlot := v.host.NewVariableSlot(host.QName{Local: p.Name}, sig.Params[i].Type)
		activation.DefineProperty(p.Name, paramSlot.ID())
	}

	prevScope := v.scope
	v.scope = activation
	v.returnTypeStack = append(v.returnTypeStack, sig.ReturnType)
	res := v.verifyBlock(n.Body, activation)
	v.returnTypeStack = v.returnTypeStack[:len(v.returnTypeStack)-1]
	v.scope = prevScope
	if res.IsDeferred() {
		return res
	}

	if n.Kind == ast.FuncConstructor {
		if hoist := v.host.SearchHoistScope(scope); hoist != nil {
			if classTy := v.host.Type(hoist.ThisType); classTy != nil && classTy.Extends != "" {
				if !hasSuperStatement(n.Body) {
					v.report(diag.New(diag.ConstructorMustContainSuperStatement, posOf(n)))
				}
			}
		}
	}
	return phase.Ok()
}

// activationScopeFor memoizes the Activation scope created for a function
// body, so that re-entering VerifyDirective on a later pass continues
// verifying the same scope instead of starting a sibling one (spec §4.1
// "Scope inheritance on retry").
func (v *Subverifier) activationScopeFor(n *ast.FunctionDefinition) *host.Scope {
	id := v.ids.of(n)
	if s, ok := v.scopeMap.Get(id); ok {
		return s
	}
	s := v.host.NewActivationScope()
	v.scopeMap.Set(id, s)
	return s
}

func hasSuperStatement(body []ast.Directive) bool {
	for _, d := range body {
		stmt, ok := d.(*ast.ExpressionStatement)
		if !ok {
			continue
		}
		if call, ok := stmt.Expression.(*ast.CallExpr); ok {
			if _, ok := call.Base.(*ast.SuperExpr); ok {
				return true
			}
		}
		if _, ok := stmt.Expression.(*ast.SuperExpr); ok {
			return true
		}
	}
	return false
}

// verifyFunctionExpr verifies a function literal used as an expression
// (spec §4.2's FunctionExpr), sharing FunctionCommonSubverifier's
// signature-building and body verification with a named function
// definition's, but producing a Value instead of installing a Slot.
func (v *Subverifier) verifyFunctionExpr(n *ast.FunctionExpr) (*host.Value, phase.Result) {
	sig, res := v.buildFunctionSignature(n.Common)
	if res.IsDeferred() {
		v.deferredFunctionExp = append(v.deferredFunctionExp, &pendingFunctionCommon{fn: n.Common, scope: v.scope, id: v.ids.of(n)})
		return nil, res
	}
	if n.Common.Body != nil {
		if res := v.verifyFunctionBody(n.Common, v.scope, sig); res.IsDeferred() {
			return nil, res
		}
	}
	return v.host.NewLambdaObject(sig.ID()), phase.Ok()
}
