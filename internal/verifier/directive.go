package verifier

import (
	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/module"
	"github.com/parthenon-lang/verifyc/internal/phase"
	"github.com/parthenon-lang/verifyc/internal/sid"
)

// VerifyDirective is DirectiveSubverifier (spec §2): it dispatches on d's
// concrete type, advancing d's own entry in drtvPhase as it goes. Every
// case either finishes in one call (directives with no body-dependent
// phase, e.g. UseNamespaceDirective) or drives itself through Alpha ->
// ... -> Finished across repeated driver passes via declPhase.
func (v *Subverifier) VerifyDirective(d ast.Directive, scope *host.Scope) phase.Result {
	id := v.ids.of(d)
	if v.drtvPhase.Get(id) == phase.Finished {
		return phase.Ok()
	}

	var res phase.Result
	switch n := d.(type) {
	case *ast.PackageDefinition:
		res = v.verifyPackageDefinition(n, scope)
	case *ast.ImportDirective:
		res = v.verifyImportDirective(n, scope)
	case *ast.UseNamespaceDirective:
		res = v.verifyUseNamespaceDirective(n, scope)
	case *ast.PackageConcatDirective:
		res = v.verifyPackageConcatDirective(n, scope)
	case *ast.VariableDefinition:
		res = v.verifyVariableDefinition(n, scope)
	case *ast.FunctionDefinition:
		res = v.verifyFunctionDeclaration(n, scope)
	case *ast.ClassDefinition:
		res = v.verifyClassDefinition(n, scope)
	case *ast.InterfaceDefinition:
		res = v.verifyInterfaceDefinition(n, scope)
	case *ast.ExpressionStatement:
		_, res = v.verifyExpr(n.Expression, ExprContext{})
	case *ast.ReturnStatement:
		res = v.verifyReturnStatement(n)
	default:
		res = phase.Ok()
	}

	if !res.IsDeferred() {
		v.drtvPhase.Set(id, phase.Finished)
	} else if next, ok := res.AdvanceTo(); ok {
		v.drtvPhase.Set(id, next)
	}
	return res
}

// verifyBlock runs VerifyDirective over every member of a nested block
// (package/class/interface body), returning Defer if any member deferred
// so the enclosing declaration's own phase cannot advance past it.
func (v *Subverifier) verifyBlock(block []ast.Directive, scope *host.Scope) phase.Result {
	deferred := false
	for _, m := range block {
		if res := v.VerifyDirective(m, scope); res.IsDeferred() {
			deferred = true
		}
	}
	if deferred {
		return phase.Defer()
	}
	return phase.Ok()
}

func (v *Subverifier) verifyPackageDefinition(n *ast.PackageDefinition, scope *host.Scope) phase.Result {
	pkg := v.host.LookupPackage(n.Path)
	if pkg == nil {
		pkg = v.host.NewPackage(n.Path)
	}
	pkgScope := v.host.NewPackageScope()
	pkgScope.SystemNS[host.NSPublic] = "public"
	pkgScope.SystemNS[host.NSInternal] = "internal:" + n.Path
	v.host.EnterScope(scope, pkgScope)

	prev := v.scope
	v.scope = pkgScope
	res := v.verifyBlock(n.Block, pkgScope)
	v.scope = prev

	if !res.IsDeferred() && pkg.IsEmpty(v.host) && len(n.Block) == 0 {
		v.report(diag.New(diag.EmptyPackage, posOf(n), n.Path))
	}
	return res
}

func (v *Subverifier) verifyImportDirective(n *ast.ImportDirective, scope *host.Scope) phase.Result {
	spec := n.Specifier
	pkg := v.host.LookupPackage(spec.Package)
	if pkg == nil {
		v.report(diag.New(diag.ImportOfUndefined, posOf(n), spec.Package))
		return phase.Ok()
	}

	switch spec.Kind {
	case ast.ImportWildcard, ast.ImportRecursive:
		scope.Imports = append(scope.Imports, pkg.ID())
	case ast.ImportProperty:
		slotID, ok := pkg.Properties[host.Normalize(spec.Name)]
		if !ok {
			v.report(diag.New(diag.ImportOfUndefined, posOf(n), spec.Package+"."+spec.Name))
			return phase.Ok()
		}
		alias := spec.Name
		if spec.Alias != "" {
			alias = spec.Alias
		}
		scope.DefineProperty(alias, slotID)
	}
	return phase.Ok()
}

func (v *Subverifier) verifyUseNamespaceDirective(n *ast.UseNamespaceDirective, scope *host.Scope) phase.Result {
	val, res := v.verifyExpr(n.Namespace, ExprContext{})
	if res.IsDeferred() {
		return res
	}
	if val.Kind != host.ValueNamespaceConstant {
		v.report(diag.New(diag.NotANamespaceConstant, posOf(n)))
		return phase.Ok()
	}
	scope.OpenNamespace(val.NS)
	return phase.Ok()
}

func (v *Subverifier) verifyPackageConcatDirective(n *ast.PackageConcatDirective, scope *host.Scope) phase.Result {
	hoist := v.host.SearchHoistScope(scope)
	if hoist == nil {
		return phase.Ok()
	}
	selfPath := v.packagePathOfScope(hoist)

	var kind module.ConcatKind
	switch n.Kind {
	case ast.ConcatNamedAlias:
		kind = module.ConcatNamedAlias
	case ast.ConcatWildcard:
		kind = module.ConcatWildcard
	case ast.ConcatRecursive:
		kind = module.ConcatRecursive
	}
	if n.Kind != ast.ConcatNamedAlias {
		if err := v.concat.CheckRecursive(selfPath, n.ForeignPath); err != nil {
			v.report(diag.New(diag.ConcatenatingSelfReferentialPackage, posOf(n), n.ForeignPath))
			return phase.Ok()
		}
	}
	v.concat.AddEdge(selfPath, n.ForeignPath, kind)

	foreign := v.host.LookupPackage(n.ForeignPath)
	if foreign == nil {
		v.report(diag.New(diag.ImportOfUndefined, posOf(n), n.ForeignPath))
		return phase.Ok()
	}
	self := v.host.LookupPackage(selfPath)
	if self == nil {
		self = v.host.NewPackage(selfPath)
	}

	switch n.Kind {
	case ast.ConcatWildcard:
		self.ConcatWildcard(foreign)
	case ast.ConcatRecursive:
		if !self.ConcatRecursive(v.host, foreign) {
			v.report(diag.New(diag.ConcatenatingSelfReferentialPackage, posOf(n), n.ForeignPath))
		}
	case ast.ConcatNamedAlias:
		for name, slotID := range foreign.Properties {
			if installed, existing := self.DefineProperty(name, slotID); !installed && existing != slotID {
				v.definitionConflicts = append(v.definitionConflicts, &conflict{
					name: n.Alias, parent: self.ID(), existing: existing, proposed: slotID, pos: posOf(n),
				})
			}
		}
	}
	return phase.Ok()
}

// packagePathOfScope is a best-effort lookup of the enclosing package's
// path from a hoist scope, used only to key concat-graph edges; it is not
// part of the host's entity model itself.
func (v *Subverifier) packagePathOfScope(scope *host.Scope) string {
	for _, imp := range scope.Imports {
		if pkg := v.host.Package(imp); pkg != nil {
			return pkg.Path
		}
	}
	return ""
}

// resolveAccessControlNamespace implements the Alpha-phase "namespace/
// attribute parsing" step spec §4.1 names as part of every declaration's
// first phase: when attrs carries a NamespaceAttribute naming one of the
// four access-control keywords, it is checked against the scope chain's
// registered system namespaces via SearchSystemNamespaceInScopeChain
// (spec §6) — e.g. `private` only names a real namespace inside a class
// body. ok reports whether attrs named an access-control namespace at
// all; when ok and the namespace wasn't found in scope,
// AccessControlNamespaceNotAllowedHere is reported and ns is "".
func (v *Subverifier) resolveAccessControlNamespace(attrs []ast.Attribute, scope *host.Scope, pos diag.Pos) (ns string, ok bool) {
	for _, a := range attrs {
		nsAttr, isNS := a.(*ast.NamespaceAttribute)
		if !isNS {
			continue
		}
		ident, isIdent := nsAttr.Expr.(*ast.Identifier)
		if !isIdent {
			continue
		}
		var kind host.NamespaceKind
		switch ident.Name {
		case "public":
			kind = host.NSPublic
		case "private":
			kind = host.NSPrivate
		case "protected":
			kind = host.NSProtected
		case "internal":
			kind = host.NSInternal
		default:
			continue
		}
		found, has := v.host.SearchSystemNamespaceInScopeChain(scope, kind)
		if !has {
			v.report(diag.New(diag.AccessControlNamespaceNotAllowedHere, pos))
			return "", true
		}
		return found, true
	}
	return "", false
}

func (v *Subverifier) verifyVariableDefinition(n *ast.VariableDefinition, scope *host.Scope) phase.Result {
	ns, _ := v.resolveAccessControlNamespace(n.Attributes, scope, posOf(n))

	deferred := false
	for _, b := range n.Bindings {
		if res := v.verifyVariableBinding(n.Kind, ns, b, scope); res.IsDeferred() {
			deferred = true
		}
	}
	if deferred {
		return phase.Defer()
	}
	return phase.Ok()
}

func (v *Subverifier) verifyVariableBinding(kind ast.VariableKind, ns string, b *ast.VariableBinding, scope *host.Scope) phase.Result {
	if kind == ast.VarConst && b.Init == nil {
		v.report(diag.New(diag.ConstantMustContainInitializer, posOf(b)))
	}

	var declTy *host.Type
	if b.Type != nil {
		ty, res := v.resolveTypeExpr(b.Type)
		if res.IsDeferred() {
			return res
		}
		declTy = ty
	}

	var initVal *host.Value
	if b.Init != nil {
		val, res := v.verifyExpr(b.Init, ExprContext{ContextType: declTy})
		if res.IsDeferred() {
			return res
		}
		initVal = val
	}

	ip, ok := b.Pattern.(*ast.IdentifierPattern)
	if !ok {
		return v.verifyDestructuringDecl(kind, b.Pattern, declTy, initVal, scope)
	}

	if declTy == nil && ip.Type == nil {
		v.report(diag.New(diag.VariableHasNoTypeAnnotation, posOf(b), ip.Name))
	}
	finalTy := declTy
	if finalTy == nil {
		finalTy = v.host.Primitive("Any")
	}
	slot := v.host.NewVariableSlot(host.QName{Namespace: ns, Local: ip.Name}, finalTy.ID())
	slot.Flags.ReadOnly = kind == ast.VarConst
	if slot.Flags.ReadOnly && initVal != nil && isConstantKind(initVal.Kind) {
		slot.SetConstant(initVal.ID())
	}
	if installed, existing := scope.DefineProperty(ip.Name, slot.ID()); !installed {
		_ = existing
		v.report(diag.New(diag.DuplicateVariableDefinition, posOf(b), ip.Name))
	}
	return phase.Ok()
}

// verifyReturnStatement checks a `return` body directive against the
// declared return type of its innermost enclosing function (spec §4.6
// Omega: "verify function bodies"; §7 ReturnValueHasNoTypeDeclaration).
// Control-flow analysis itself ("all paths return") is a stub per
// spec.md §9; this only type-checks the value each individual return
// statement carries.
func (v *Subverifier) verifyReturnStatement(n *ast.ReturnStatement) phase.Result {
	if len(v.returnTypeStack) == 0 {
		return phase.Ok()
	}
	retTyID := v.returnTypeStack[len(v.returnTypeStack)-1]
	retTy := v.host.Type(retTyID)

	if n.Value == nil {
		return phase.Ok()
	}
	val, res := v.verifyExpr(n.Value, ExprContext{ContextType: retTy})
	if res.IsDeferred() {
		return res
	}
	if retTy == nil {
		return phase.Ok()
	}
	if retTy.Kind == host.TypeVoid {
		v.report(diag.New(diag.ReturnValueHasNoTypeDeclaration, posOf(n)))
		return phase.Ok()
	}
	if _, _, ok := v.host.Implicit(val, retTy, false); !ok {
		v.report(diag.New(diag.ImplicitCoercionToUnrelatedType, posOf(n), retTy.Name))
	}
	return phase.Ok()
}

func isConstantKind(k host.ValueKind) bool {
	switch k {
	case host.ValueBoolConstant, host.ValueNumberConstant, host.ValueStringConstant,
		host.ValueNullConstant, host.ValueUndefinedConstant, host.ValueNamespaceConstant:
		return true
	default:
		return false
	}
}

func (v *Subverifier) verifyFunctionDeclaration(n *ast.FunctionDefinition, scope *host.Scope) phase.Result {
	id := v.ids.of(n)
	cur := v.declPhase.Get(id)

	if cur == phase.Alpha {
		if n.Kind == ast.FuncConstructor {
			if _, exists := scope.Properties[host.Normalize("constructor")]; exists {
				v.report(diag.New(diag.RedefiningConstructor, posOf(n), n.Name))
			}
		}
		v.declPhase.Set(id, phase.Beta)
	}

	res := v.verifyFunctionCommon(n, scope)
	if !res.IsDeferred() {
		v.declPhase.Set(id, phase.Finished)
	}
	return res
}

func (v *Subverifier) verifyClassDefinition(n *ast.ClassDefinition, scope *host.Scope) phase.Result {
	id := v.ids.of(n)
	classTy, alreadyDefined := v.classTypeFor(id, n.Name)
	if installed, _ := scope.DefineProperty(n.Name, v.ensureTypeSlot(n.Name, classTy)); !installed && !alreadyDefined {
		v.report(diag.New(diag.DuplicateClassDefinition, posOf(n), n.Name))
	}

	if n.Extends != nil {
		baseTy, res := v.resolveTypeExpr(n.Extends)
		if res.IsDeferred() {
			return res
		}
		classTy.Extends = baseTy.ID()
	}
	for _, impl := range n.Implements {
		implTy, res := v.resolveTypeExpr(impl)
		if res.IsDeferred() {
			return res
		}
		classTy.Implements = append(classTy.Implements, implTy.ID())
	}

	classScope := v.host.NewClassScope()
	classScope.ThisType = classTy.ID()
	classScope.SystemNS[host.NSPrivate] = "private:" + n.Name
	classScope.SystemNS[host.NSProtected] = "protected:" + n.Name
	v.host.EnterScope(scope, classScope)

	prevScope := v.scope
	v.scope = classScope
	res := v.verifyBlock(n.Block, classScope)
	v.scope = prevScope
	if res.IsDeferred() {
		return res
	}

	for name, slotID := range classScope.Properties {
		installed, existing := classTy.DefineInstance(name, slotID)
		if !installed && existing != slotID {
			v.definitionConflicts = append(v.definitionConflicts, &conflict{
				name: name, parent: classTy.ID(), existing: existing, proposed: slotID, pos: posOf(n),
			})
		}
		if classTy.Extends != "" {
			if base := v.host.Type(classTy.Extends); base != nil {
				if _, shadowed := base.Prototype[name]; shadowed {
					v.report(diag.New(diag.ShadowingDefinitionInBaseClass, posOf(n), name))
				}
			}
		}
	}
	return phase.Ok()
}

func (v *Subverifier) verifyInterfaceDefinition(n *ast.InterfaceDefinition, scope *host.Scope) phase.Result {
	id := v.ids.of(n)
	ifaceTy, alreadyDefined := v.interfaceTypeFor(id, n.Name)
	if installed, _ := scope.DefineProperty(n.Name, v.ensureTypeSlot(n.Name, ifaceTy)); !installed && !alreadyDefined {
		v.report(diag.New(diag.DuplicateInterfaceDefinition, posOf(n), n.Name))
	}

	for _, ext := range n.Extends {
		extTy, res := v.resolveTypeExpr(ext)
		if res.IsDeferred() {
			return res
		}
		ifaceTy.Implements = append(ifaceTy.Implements, extTy.ID())
	}

	ifaceScope := v.host.NewInterfaceScope()
	ifaceScope.ThisType = ifaceTy.ID()
	v.host.EnterScope(scope, ifaceScope)

	prevScope := v.scope
	v.scope = ifaceScope
	res := v.verifyBlock(n.Block, ifaceScope)
	v.scope = prevScope
	if res.IsDeferred() {
		return res
	}
	for name, slotID := range ifaceScope.Properties {
		ifaceTy.DefineInstance(name, slotID)
	}
	return phase.Ok()
}

// classTypeFor and interfaceTypeFor memoize the Type entity created for a
// ClassDefinition/InterfaceDefinition node across driver passes, keyed by
// the node's stable id rather than by name (two classes may share a
// simple name in different packages).
func (v *Subverifier) classTypeFor(id sid.ID, name string) (*host.Type, bool) {
	if existing, ok := v.typeByNode.Get(id); ok {
		return v.host.Type(existing), true
	}
	t := v.host.NewClassType(name)
	v.typeByNode.Set(id, t.ID())
	return t, false
}

func (v *Subverifier) interfaceTypeFor(id sid.ID, name string) (*host.Type, bool) {
	if existing, ok := v.typeByNode.Get(id); ok {
		return v.host.Type(existing), true
	}
	t := v.host.NewInterfaceType(name)
	v.typeByNode.Set(id, t.ID())
	return t, false
}

// ensureTypeSlot wraps a Type entity in a scope-level alias Slot so it can
// be discovered through ordinary identifier lookup, memoized per type id.
// AliasOf is repurposed here to hold the Type's own handle rather than
// another Slot's — both are sid.ID, and resolveTypeExpr/referenceToSlot
// agree on this convention for every SlotAlias a class/interface
// definition installs.
func (v *Subverifier) ensureTypeSlot(name string, t *host.Type) sid.ID {
	if existing, ok := v.slotByType.Get(t.ID()); ok {
		return existing
	}
	slot := v.host.NewAliasSlot(host.QName{Local: name}, t.ID())
	slot.Flags.ReadOnly = true
	v.slotByType.Set(t.ID(), slot.ID())
	return slot.ID()
}

// resolveTypeExpr verifies e in type-annotation position: an Identifier or
// QualifiedIdentifierExpr must resolve to a SlotAlias installed by a class
// or interface definition; anything else falls back to ordinary
// expression verification and trusts the resolved value's static type
// (covers e.g. a Vector/Array element-type expression already producing a
// ScopeReference).
func (v *Subverifier) resolveTypeExpr(e ast.Expr) (*host.Type, phase.Result) {
	name := ""
	switch n := e.(type) {
	case *ast.Identifier:
		name = n.Name
	case *ast.QualifiedIdentifierExpr:
		if n.Qualifier == nil {
			name = n.Name
		}
	}
	if name != "" {
		normalized := host.Normalize(name)
		for cur := v.scope; cur != nil; cur = cur.Parent(v.host) {
			slotID, ok := cur.Properties[normalized]
			if !ok {
				continue
			}
			slot := v.host.Slot(slotID)
			if slot == nil || slot.Kind != host.SlotAlias {
				v.report(diag.New(diag.EntityIsNotAType, posOf(e), name))
				return v.host.InvalidationType(), phase.Ok()
			}
			return v.host.Type(slot.AliasOf), phase.Ok()
		}
		v.report(diag.New(diag.UndefinedProperty, posOf(e), name))
		return v.host.InvalidationType(), phase.Ok()
	}

	val, res := v.verifyExpr(e, ExprContext{})
	if res.IsDeferred() {
		return nil, res
	}
	return val.StaticType(v.host), phase.Ok()
}
