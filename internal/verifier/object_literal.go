package verifier

import (
	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/phase"
)

// verifyObjectLiteral is ObjectLiteralSubverifier (spec §2 diagram): when
// ctx.ContextType names an options class, every field is checked against
// an instance property of that class; an unrecognized field name is
// UnknownOptionForClass. Without a context type, fields are verified
// with no contextual coercion and the literal's static type is the
// dynamic Object type.
func (v *Subverifier) verifyObjectLiteral(n *ast.ObjectLiteral, ctx ExprContext) (*host.Value, phase.Result) {
	optionsClass := ctx.ContextType
	if optionsClass != nil && optionsClass.Kind != host.TypeClass {
		optionsClass = nil
	}

	for _, f := range n.Fields {
		var fieldTy *host.Type
		if optionsClass != nil {
			slotID, ok := optionsClass.Prototype[host.Normalize(f.Name)]
			if !ok {
				v.report(diag.New(diag.UnknownOptionForClass, posOf(f), f.Name, optionsClass.Name))
			} else if slot := v.host.Slot(slotID); slot != nil {
				fieldTy = v.host.Type(slot.Type)
			}
		}
		if _, res := v.verifyExpr(f.Value, ExprContext{ContextType: fieldTy}); res.IsDeferred() {
			return nil, res
		}
	}

	if optionsClass != nil {
		v.checkRequiredOptions(optionsClass, n)
		return v.host.NewDynamicReference(optionsClass.ID()), phase.Ok()
	}
	return v.host.NewDynamicReference(v.host.Primitive("Object").ID()), phase.Ok()
}

// checkRequiredOptions diagnoses MustSpecifyOption for every non-nullable
// instance property of optionsClass not supplied as a field.
func (v *Subverifier) checkRequiredOptions(optionsClass *host.Type, n *ast.ObjectLiteral) {
	supplied := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		supplied[host.Normalize(f.Name)] = true
	}
	for name, slotID := range optionsClass.Prototype {
		if supplied[name] {
			continue
		}
		slot := v.host.Slot(slotID)
		if slot == nil || slot.Kind != host.SlotVariable {
			continue
		}
		ty := v.host.Type(slot.Type)
		if ty == nil || v.host.IncludesNull(ty) || v.host.IncludesUndefined(ty) {
			continue
		}
		v.report(diag.New(diag.MustSpecifyOption, posOf(n), name))
	}
}

// verifyFilter is the `.( )` filter expression (spec §4.2 diagram's
// ArraySubverifier sibling). It is only applicable to XML/XMLList-typed
// bases; the predicate is verified in a fresh Filter scope (spec §3
// Scope variant Filter) chained to the current scope. That scope binds
// no names of its own, so `@attr`-style shorthand inside the predicate
// is not resolved against the filtered element.
func (v *Subverifier) verifyFilter(n *ast.FilterExpr) (*host.Value, phase.Result) {
	baseVal, res := v.verifyExpr(n.Base, ExprContext{})
	if res.IsDeferred() {
		return nil, res
	}
	baseTy := baseVal.StaticType(v.host)
	if baseTy.Name != "XML" && baseTy.Name != "XMLList" {
		v.report(diag.New(diag.InapplicableFilter, posOf(n), baseTy.Name))
		return v.host.InvalidationEntity(), phase.Ok()
	}

	filterScope := v.host.NewFilterScope()
	v.host.EnterScope(v.scope, filterScope)
	prevScope := v.scope
	v.scope = filterScope
	_, predRes := v.verifyExpr(n.Predicate, ExprContext{})
	v.scope = prevScope
	if predRes.IsDeferred() {
		return nil, predRes
	}
	return v.host.NewDynamicReference(v.host.Primitive("XML").ID()), phase.Ok()
}

// verifyDescendants is the `..name` E4X descendants operator.
func (v *Subverifier) verifyDescendants(n *ast.DescendantsExpr) (*host.Value, phase.Result) {
	baseVal, res := v.verifyExpr(n.Base, ExprContext{})
	if res.IsDeferred() {
		return nil, res
	}
	baseTy := baseVal.StaticType(v.host)
	if baseTy.Name != "XML" && baseTy.Name != "XMLList" {
		v.report(diag.New(diag.InapplicableDescendants, posOf(n), baseTy.Name))
		return v.host.InvalidationEntity(), phase.Ok()
	}
	return v.host.NewDynamicReference(v.host.Primitive("XML").ID()), phase.Ok()
}
