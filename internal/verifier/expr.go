package verifier

import (
	"math"
	"strings"

	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/phase"
	"github.com/parthenon-lang/verifyc/internal/sid"
)

// ExprMode is the Read/Write/Delete mode of spec §4.2.
type ExprMode int

const (
	ModeRead ExprMode = iota
	ModeWrite
	ModeDelete
)

// ExprContext is VerifierExpressionContext (spec §4.2): the target type,
// the read/write/delete mode, and the three flags that alter how a
// handful of call sites behave.
type ExprContext struct {
	ContextType            *host.Type
	Mode                   ExprMode
	FollowedByTypeArguments bool
	FollowedByCall          bool
	PrecededByNegative      bool
}

// VerifyExpression is the ExpSubverifier entry point: it dispatches on
// e's concrete type and returns the resolved Value plus a phase.Result
// (expressions do not carry their own persistent phase the way
// declarations do, but a sub-expression may still legitimately defer,
// e.g. a qualified identifier naming a type not yet past Beta).
func (v *Subverifier) VerifyExpression(e ast.Expr, ctx ExprContext) (*host.Value, phase.Result) {
	return v.verifyExpr(e, ctx)
}

func (v *Subverifier) verifyExpr(e ast.Expr, ctx ExprContext) (*host.Value, phase.Result) {
	id := v.ids.of(e)
	if cached, ok := v.valueMap.Get(id); ok {
		return cached, phase.Ok()
	}

	val, res := v.verifyExprUncached(e, ctx)
	if !res.IsDeferred() && val != nil {
		v.valueMap.Set(id, val)
	}
	return val, res
}

func (v *Subverifier) verifyExprUncached(e ast.Expr, ctx ExprContext) (*host.Value, phase.Result) {
	switch n := e.(type) {
	case *ast.Literal:
		return v.verifyLiteral(n, ctx), phase.Ok()
	case *ast.Identifier:
		return v.verifyIdentifier(n.Name, n.Pos)
	case *ast.QualifiedIdentifierExpr:
		return v.verifyQualifiedIdentifier(n.QualifiedIdentifier)
	case *ast.ThisExpr:
		return v.verifyThis(n)
	case *ast.MemberExpr:
		return v.verifyMember(n, ctx, false)
	case *ast.OptionalMemberExpr:
		return v.verifyMember(&ast.MemberExpr{Base: n.Base, Name: n.Name, Pos: n.Pos}, ctx, true)
	case *ast.CallExpr:
		return v.verifyCall(n, ctx)
	case *ast.NewExpr:
		return v.verifyNew(n, ctx)
	case *ast.SuperExpr:
		return v.verifySuper(n)
	case *ast.UnaryExpr:
		return v.verifyUnary(n, ctx)
	case *ast.BinaryExpr:
		return v.verifyBinary(n, ctx)
	case *ast.ConditionalExpr:
		return v.verifyConditional(n, ctx)
	case *ast.ArrayLiteral:
		return v.verifyArrayLiteral(n, ctx)
	case *ast.TupleLiteral:
		return v.verifyTupleLiteral(n)
	case *ast.ObjectLiteral:
		return v.verifyObjectLiteral(n, ctx)
	case *ast.VectorLiteral:
		return v.verifyVectorLiteral(n)
	case *ast.AssignmentExpr:
		return v.verifyAssignment(n, ctx)
	case *ast.DestructuringTargetExpr:
		return v.verifyAssignmentDestructuringTarget(n, ctx)
	case *ast.FilterExpr:
		return v.verifyFilter(n)
	case *ast.DescendantsExpr:
		return v.verifyDescendants(n)
	case *ast.FunctionExpr:
		return v.verifyFunctionExpr(n)
	case *ast.XMLLiteral:
		return v.host.NewDynamicReference(v.host.Primitive("XML").ID()), phase.Ok()
	case *ast.RegexLiteral:
		return v.host.NewDynamicReference(v.host.Primitive("Object").ID()), phase.Ok()
	default:
		return v.host.InvalidationEntity(), phase.Ok()
	}
}

func (v *Subverifier) verifyLiteral(l *ast.Literal, ctx ExprContext) *host.Value {
	h := v.host
	switch l.Kind {
	case ast.NumberLit:
		n, _ := l.Value.(float64)
		if ctx.PrecededByNegative {
			n = -n
		}
		return h.NewNumberConstant(n, h.Primitive("Number").ID())
	case ast.StringLit:
		s, _ := l.Value.(string)
		return h.NewStringConstant(s, h.Primitive("String").ID())
	case ast.BoolLit:
		b, _ := l.Value.(bool)
		return h.NewBoolConstant(b, h.Primitive("Boolean").ID())
	case ast.NullLit:
		return h.NewNullConstant(h.Primitive("Object").ID())
	case ast.UndefinedLit:
		return h.NewUndefinedConstant(h.Primitive("Any").ID())
	case ast.NaNLit:
		return h.NewNumberConstant(math.NaN(), h.Primitive("Number").ID())
	default:
		return h.InvalidationEntity()
	}
}

// verifyIdentifier resolves an unqualified local name through the scope
// chain's property tables, innermost first.
func (v *Subverifier) verifyIdentifier(name string, pos ast.Pos) (*host.Value, phase.Result) {
	name = host.Normalize(name)
	for cur := v.scope; cur != nil; cur = cur.Parent(v.host) {
		if slotID, ok := cur.Properties[name]; ok {
			return v.referenceToSlot(slotID), phase.Ok()
		}
	}
	v.report(diag.New(diag.UndefinedProperty, toPos(pos), name))
	return v.host.InvalidationEntity(), phase.Ok()
}

// referenceToSlot builds a FixtureReference value for slotID, typed at
// the slot's static type — the common representation every property
// lookup (identifier, member, constructor) resolves to before the caller
// decides what to do with it.
func (v *Subverifier) referenceToSlot(slotID sid.ID) *host.Value {
	slot := v.host.Slot(slotID)
	if slot == nil {
		return v.host.InvalidationEntity()
	}
	if slot.IsCompileTimeConstant() {
		if c := v.host.Value(slot.ConstantValue); c != nil {
			return c
		}
	}
	if slot.Kind == host.SlotAlias {
		// A class/interface name used in expression position evaluates to
		// a reference whose static type is the aliased Type itself, so
		// `new Foo()` and `instance is Foo` see baseTy.Kind == TypeClass.
		return v.host.NewScopeReference(slot.AliasOf, slot.AliasOf)
	}
	return v.host.NewFixtureReference(slotID, slot.Type)
}

func toPos(p ast.Pos) diag.Pos {
	return diag.Pos{File: p.File, Line: p.Line, Column: p.Column}
}

// verifyQualifiedIdentifier resolves an optional namespace qualifier,
// then the local name, with the `NS::NAME` config-constant shortcut of
// spec §4.2: when the qualifier is a bare identifier naming a known
// config constant's namespace, its textual body is evaluated in the
// const-eval scope (recursive, memoized) instead of treating the
// qualifier as a runtime namespace value.
func (v *Subverifier) verifyQualifiedIdentifier(q *ast.QualifiedIdentifier) (*host.Value, phase.Result) {
	if qualID, ok := q.Qualifier.(*ast.Identifier); ok {
		key := qualID.Name + "::" + q.Name
		if _, known := v.host.ConfigConstantBody(key); known {
			val, _ := v.evalConfigConstant(key, posOf(q), make(map[string]bool))
			return val, phase.Ok()
		}
	}

	if q.Qualifier != nil {
		nsVal, res := v.verifyExpr(q.Qualifier, ExprContext{})
		if res.IsDeferred() {
			return nil, res
		}
		if nsVal.Kind != host.ValueNamespaceConstant {
			v.report(diag.New(diag.NotANamespaceConstant, posOf(q)))
			return v.host.InvalidationEntity(), phase.Ok()
		}
	}
	return v.verifyIdentifier(q.Name, q.Pos)
}

func (v *Subverifier) verifyThis(n *ast.ThisExpr) (*host.Value, phase.Result) {
	activation := v.host.SearchActivation(v.scope)
	if activation == nil {
		v.report(diag.New(diag.UnexpectedThis, posOf(n)))
		return v.host.InvalidationEntity(), phase.Ok()
	}
	return v.host.NewThisObject(activation.ThisType), phase.Ok()
}

// verifyMember implements member-expression resolution, including the
// package-path-shadowing rule of spec §4.2: when n's base is itself a
// bare dotted-identifier chain (no calls, no `this`), that chain is tried
// first as a package path visible through some import in the scope
// chain, before the base is verified as an ordinary expression. This is
// what lets a local name shadow a package segment yet still have the
// full dotted path resolve to the package's member (spec §8 scenario 6).
// Only when no such package is visible does verifyMember fall back to
// ordinary property lookup on the base's static type.
func (v *Subverifier) verifyMember(n *ast.MemberExpr, ctx ExprContext, optional bool) (*host.Value, phase.Result) {
	if !optional {
		if val, res, ok := v.tryPackagePathMember(n); ok {
			return val, res
		}
	}

	baseVal, res := v.verifyExpr(n.Base, ExprContext{FollowedByCall: ctx.FollowedByCall})
	if res.IsDeferred() {
		return nil, res
	}

	if optional {
		baseTy := baseVal.StaticType(v.host)
		nonNull := v.host.EscapeOfNullableOrNonNullable(baseTy)
		unwrapped := v.host.NewThisObject(nonNull.ID())
		result := v.lookupMember(unwrapped, n, ctx)
		resultTy := result.StaticType(v.host)
		if resultTy.Name != "Object" {
			return v.host.NewDynamicReference(v.host.NewNullableType(resultTy).ID()), phase.Ok()
		}
		return result, phase.Ok()
	}

	return v.lookupMember(baseVal, n, ctx), phase.Ok()
}

// dottedPathSegments flattens a chain of bare Identifier/MemberExpr nodes
// into its dot-separated name segments, the shape a package-path prefix
// takes in source. Reports false for anything else (a call, `this`, a
// literal base, ...), so tryPackagePathMember only fires on the syntactic
// shape spec §4.2 describes.
func dottedPathSegments(e ast.Expr) ([]string, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		return []string{n.Name}, true
	case *ast.MemberExpr:
		base, ok := dottedPathSegments(n.Base)
		if !ok {
			return nil, false
		}
		return append(base, n.Name), true
	default:
		return nil, false
	}
}

// tryPackagePathMember implements spec §4.2's package-path-shadowing
// rule: n.Base flattened to a dotted name is tried against every
// package visible through an import in the scope chain before n.Base is
// verified as an ordinary expression, so a local name that shadows a
// package segment does not hide the package's own member (spec §8
// scenario 6). ok is false when n.Base isn't a pure dotted-identifier
// chain or names no visible package, meaning the caller should fall back
// to ordinary member resolution.
func (v *Subverifier) tryPackagePathMember(n *ast.MemberExpr) (val *host.Value, res phase.Result, ok bool) {
	segments, isPath := dottedPathSegments(n.Base)
	if !isPath {
		return nil, phase.Ok(), false
	}
	pkgPath := strings.Join(segments, ".")
	pkg, found, ambiguous := v.host.VisiblePackageForPath(v.scope, pkgPath)
	if ambiguous {
		v.report(diag.New(diag.AmbiguousReference, posOf(n), n.Name))
		return v.host.InvalidationEntity(), phase.Ok(), true
	}
	if !found {
		return nil, phase.Ok(), false
	}

	slotID, propFound, propAmbiguous := pkg.LookupProperty(v.host, n.Name)
	if propAmbiguous {
		v.report(diag.New(diag.AmbiguousReference, posOf(n), n.Name))
		return v.host.InvalidationEntity(), phase.Ok(), true
	}
	if !propFound {
		return nil, phase.Ok(), false
	}
	return v.referenceToSlot(slotID), phase.Ok(), true
}

func (v *Subverifier) lookupMember(base *host.Value, n *ast.MemberExpr, ctx ExprContext) *host.Value {
	openNS := v.host.ConcatOpenNamespaceSetOfScopeChain(v.scope)
	result := v.host.LookupInObject(base, openNS, "", n.Name, ctx.FollowedByCall)
	switch {
	case result.Err == host.LookupAmbiguous:
		v.report(diag.New(diag.AmbiguousReference, posOf(n), n.Name))
		return v.host.InvalidationEntity()
	case result.Err == host.LookupVoidBase:
		v.report(diag.New(diag.AccessOfVoid, posOf(n), n.Name))
		return v.host.InvalidationEntity()
	case result.Err == host.LookupNullableObject:
		v.report(diag.New(diag.AccessOfNullable, posOf(n), n.Name))
		return v.host.InvalidationEntity()
	case !result.Found:
		v.report(diag.New(diag.UndefinedProperty, posOf(n), n.Name))
		return v.host.InvalidationEntity()
	default:
		return v.referenceToSlot(result.Slot)
	}
}

func (v *Subverifier) verifyCall(n *ast.CallExpr, ctx ExprContext) (*host.Value, phase.Result) {
	baseVal, res := v.verifyExpr(n.Base, ExprContext{FollowedByCall: true})
	if res.IsDeferred() {
		return nil, res
	}
	baseTy := baseVal.StaticType(v.host)

	switch baseTy.Kind {
	case host.TypeClass:
		if len(n.Args) != 1 {
			v.report(diag.New(diag.CallOnNonFunction, posOf(n)))
			return v.host.InvalidationEntity(), phase.Ok()
		}
		if _, res := v.verifyExpr(n.Args[0], ExprContext{ContextType: baseTy}); res.IsDeferred() {
			return nil, res
		}
		if baseTy.Name == "Array" {
			v.report(diag.New(diag.CallOnArrayType, posOf(n)))
		}
		if baseTy.Name == "Date" {
			v.report(diag.New(diag.CallOnDateType, posOf(n)))
		}
		return v.host.NewDynamicReference(baseTy.ID()), phase.Ok()
	case host.TypeFunction:
		_, res := v.VerifyArguments(n.Args, baseTy, ctx)
		if res.IsDeferred() {
			return nil, res
		}
		return v.host.NewDynamicReference(baseTy.ReturnType), phase.Ok()
	default:
		if baseTy.Name == "Object" || baseTy.Name == "Any" || baseTy.Name == "Function" {
			for _, a := range n.Args {
				if _, res := v.verifyExpr(a, ExprContext{}); res.IsDeferred() {
					return nil, res
				}
			}
			return v.host.NewDynamicReference(v.host.Primitive("Any").ID()), phase.Ok()
		}
		v.report(diag.New(diag.CallOnNonFunction, posOf(n)))
		return v.host.InvalidationEntity(), phase.Ok()
	}
}

func (v *Subverifier) verifyNew(n *ast.NewExpr, ctx ExprContext) (*host.Value, phase.Result) {
	baseVal, res := v.verifyExpr(n.Base, ExprContext{})
	if res.IsDeferred() {
		return nil, res
	}
	baseTy := baseVal.StaticType(v.host)
	if !v.host.IsClassTypePossiblyAfterSub(baseTy) || v.host.IsStatic(baseTy) || v.host.IsAbstract(baseTy) {
		v.report(diag.New(diag.UnexpectedNewBase, posOf(n)))
		return v.host.InvalidationEntity(), phase.Ok()
	}

	ctorResult := v.host.LookupInObject(v.host.NewThisObject(baseTy.ID()), nil, "", "constructor", true)
	if !ctorResult.Found {
		if len(n.Args) > 0 {
			v.report(diag.New(diag.CallOnNonFunction, posOf(n)))
		}
		return v.host.NewDynamicReference(baseTy.ID()), phase.Ok()
	}
	ctorSlot := v.host.Slot(ctorResult.Slot)
	sig := v.host.Type(ctorSlot.Type)
	if sig != nil {
		if _, res := v.VerifyArguments(n.Args, sig, ctx); res.IsDeferred() {
			return nil, res
		}
	}
	return v.host.NewDynamicReference(baseTy.ID()), phase.Ok()
}

func (v *Subverifier) verifySuper(n *ast.SuperExpr) (*host.Value, phase.Result) {
	activation := v.host.SearchActivation(v.scope)
	if activation == nil {
		v.report(diag.New(diag.ASuperExpCanBeUsedOnlyIn, posOf(n)))
		return v.host.InvalidationEntity(), phase.Ok()
	}
	thisTy := v.host.Type(activation.ThisType)
	if thisTy == nil || thisTy.Kind != host.TypeClass || thisTy.Extends == "" {
		v.report(diag.New(diag.ASuperExpCanOnlyBeUsedInSubclasses, posOf(n)))
		return v.host.InvalidationEntity(), phase.Ok()
	}
	baseTy := v.host.Type(thisTy.Extends)
	if n.Args != nil {
		for _, a := range n.Args {
			if _, res := v.verifyExpr(a, ExprContext{ContextType: baseTy}); res.IsDeferred() {
				return nil, res
			}
		}
	}
	return v.host.NewThisObject(baseTy.ID()), phase.Ok()
}

func (v *Subverifier) verifyUnary(n *ast.UnaryExpr, ctx ExprContext) (*host.Value, phase.Result) {
	if n.Op == "await" {
		val, res := v.verifyExpr(n.Operand, ExprContext{})
		if res.IsDeferred() {
			return nil, res
		}
		promiseTy := val.StaticType(v.host)
		resultTy := v.host.PromiseResultType(promiseTy)
		if resultTy == nil {
			v.report(diag.New(diag.AwaitOperandMustBeAPromise, posOf(n)))
			return v.host.InvalidationEntity(), phase.Ok()
		}
		return v.host.NewDynamicReference(resultTy.ID()), phase.Ok()
	}

	innerCtx := ctx
	innerCtx.PrecededByNegative = n.Op == "-"
	val, res := v.verifyExpr(n.Operand, innerCtx)
	if res.IsDeferred() {
		return nil, res
	}
	if n.Op == "-" || n.Op == "+" || n.Op == "~" {
		ty := val.StaticType(v.host)
		if !v.host.numericFamily(ty) && ty.Name != "Object" && ty.Name != "Any" {
			v.report(diag.New(diag.OperandMustBeNumber, posOf(n)))
		}
	}
	return v.host.NewDynamicReference(val.Type), phase.Ok()
}

func (v *Subverifier) verifyBinary(n *ast.BinaryExpr, ctx ExprContext) (*host.Value, phase.Result) {
	lhs, res := v.verifyExpr(n.Left, ExprContext{})
	if res.IsDeferred() {
		return nil, res
	}
	lhsTy := lhs.StaticType(v.host)

	switch n.Op {
	case "+", "-", "*", "/", "%":
		if !v.host.numericFamily(lhsTy) && lhsTy.Name != "Object" && lhsTy.Name != "Any" && lhsTy.Name != "String" {
			v.report(diag.New(diag.UnrelatedMathOperation, posOf(n)))
		}
		rhs, res := v.verifyExpr(n.Right, ExprContext{ContextType: lhsTy})
		if res.IsDeferred() {
			return nil, res
		}
		if _, _, ok := v.host.Implicit(rhs, lhsTy, true); !ok {
			v.report(diag.New(diag.ImplicitCoercionToUnrelatedType, posOf(n), lhsTy.Name))
		}
		if isNaNConstant(lhs) || isNaNConstant(rhs) {
			v.report(diag.New(diag.NanComparison, posOf(n)))
		}
		return v.host.NewDynamicReference(lhsTy.ID()), phase.Ok()

	case "==", "!=", "===", "!==", "<", ">", "<=", ">=":
		rhs, res := v.verifyExpr(n.Right, ExprContext{})
		if res.IsDeferred() {
			return nil, res
		}
		rhsTy := rhs.StaticType(v.host)
		if !v.host.implicitTypeRelation(lhsTy, rhsTy) && !v.host.implicitTypeRelation(rhsTy, lhsTy) {
			v.report(diag.New(diag.ComparisonBetweenUnrelatedTypes, posOf(n), lhsTy.Name, rhsTy.Name))
		}
		if isNaNConstant(lhs) || isNaNConstant(rhs) {
			v.report(diag.New(diag.NanComparison, posOf(n)))
		}
		return v.host.NewBoolConstant(false, v.host.Primitive("Boolean").ID()), phase.Ok()

	case "??":
		nonNull := v.host.EscapeOfNullableOrNonNullable(lhsTy)
		if _, res := v.verifyExpr(n.Right, ctx); res.IsDeferred() {
			return nil, res
		}
		return v.host.NewDynamicReference(nonNull.ID()), phase.Ok()

	default:
		if _, res := v.verifyExpr(n.Right, ExprContext{}); res.IsDeferred() {
			return nil, res
		}
		return v.host.NewBoolConstant(false, v.host.Primitive("Boolean").ID()), phase.Ok()
	}
}

func isNaNConstant(v *host.Value) bool {
	return v != nil && v.Kind == host.ValueNumberConstant && math.IsNaN(v.Number)
}

func (v *Subverifier) verifyConditional(n *ast.ConditionalExpr, ctx ExprContext) (*host.Value, phase.Result) {
	if _, res := v.verifyExpr(n.Cond, ExprContext{}); res.IsDeferred() {
		return nil, res
	}
	thenVal, res := v.verifyExpr(n.Then, ctx)
	if res.IsDeferred() {
		return nil, res
	}
	elseVal, res := v.verifyExpr(n.Else, ctx)
	if res.IsDeferred() {
		return nil, res
	}
	thenTy := thenVal.StaticType(v.host)
	elseTy := elseVal.StaticType(v.host)
	if !v.host.implicitTypeRelation(elseTy, thenTy) && !v.host.implicitTypeRelation(thenTy, elseTy) {
		v.report(diag.New(diag.UnrelatedTernaryOperands, posOf(n), thenTy.Name, elseTy.Name))
	}
	return v.host.NewDynamicReference(thenTy.ID()), phase.Ok()
}

func (v *Subverifier) verifyArrayLiteral(n *ast.ArrayLiteral, ctx ExprContext) (*host.Value, phase.Result) {
	var elemTy *host.Type
	if ctx.ContextType != nil {
		elemTy = v.host.ArrayElementType(ctx.ContextType)
	}
	if elemTy == nil {
		elemTy = v.host.Primitive("Any")
	}
	for _, el := range n.Elements {
		if _, res := v.verifyExpr(el, ExprContext{ContextType: elemTy}); res.IsDeferred() {
			return nil, res
		}
	}
	arrTy := v.host.Substitute(v.host.Primitive("Array"), []*host.Type{elemTy})
	return v.host.NewDynamicReference(arrTy.ID()), phase.Ok()
}

func (v *Subverifier) verifyVectorLiteral(n *ast.VectorLiteral) (*host.Value, phase.Result) {
	elemVal, res := v.verifyExpr(n.ElementType, ExprContext{})
	if res.IsDeferred() {
		return nil, res
	}
	elemTy := elemVal.StaticType(v.host)
	for _, el := range n.Elements {
		if _, res := v.verifyExpr(el, ExprContext{ContextType: elemTy}); res.IsDeferred() {
			return nil, res
		}
	}
	vecTy := v.host.Substitute(v.host.Primitive("Array"), []*host.Type{elemTy})
	return v.host.NewDynamicReference(vecTy.ID()), phase.Ok()
}

func (v *Subverifier) verifyTupleLiteral(n *ast.TupleLiteral) (*host.Value, phase.Result) {
	elemTypeIDs := make([]sid.ID, 0, len(n.Elements))
	for _, el := range n.Elements {
		val, res := v.verifyExpr(el, ExprContext{})
		if res.IsDeferred() {
			return nil, res
		}
		elemTypeIDs = append(elemTypeIDs, val.Type)
	}
	tupleTy := v.host.NewTupleType(elemTypeIDs)
	return v.host.NewDynamicReference(tupleTy.ID()), phase.Ok()
}
