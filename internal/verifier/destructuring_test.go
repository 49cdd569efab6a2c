package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/sid"
)

func newTestVerifier() (*Verifier, *host.Host) {
	h := host.New()
	v := New(h, nil)
	v.SetScope(h.NewPackageScope())
	return v, h
}

func pat(name string) *ast.IdentifierPattern {
	return &ast.IdentifierPattern{Name: name}
}

func TestBindIdentifierPatternInstallsReadOnlySlotWithConstant(t *testing.T) {
	v, h := newTestVerifier()
	num := h.NewNumberConstant(5, h.Primitive("Number").ID())

	v.bindPattern(ast.VarConst, pat("x"), h.Primitive("Number"), num, v.scope)

	slotID, ok := v.scope.Properties["x"]
	require.True(t, ok)
	slot := h.Slot(slotID)
	assert.True(t, slot.Flags.ReadOnly)
	assert.True(t, slot.IsCompileTimeConstant())
	assert.Equal(t, h.Primitive("Number").ID(), slot.Type)
}

func TestBindIdentifierPatternOwnAnnotationOverridesInferredType(t *testing.T) {
	v, h := newTestVerifier()
	// A class named "Widget" is installed as a SlotAlias so resolveTypeExpr
	// can resolve the pattern's own `: Widget` annotation.
	widget := h.NewClassType("Widget")
	aliasSlot := h.NewAliasSlot(host.QName{Local: "Widget"}, widget.ID())
	v.scope.DefineProperty("Widget", aliasSlot.ID())

	p := &ast.IdentifierPattern{Name: "w", Type: &ast.Identifier{Name: "Widget"}}
	v.bindPattern(ast.VarMutable, p, h.Primitive("Any"), nil, v.scope)

	slotID := v.scope.Properties["w"]
	slot := h.Slot(slotID)
	assert.Equal(t, widget.ID(), slot.Type)
}

func TestBindIdentifierPatternReportsDuplicateDefinition(t *testing.T) {
	v, h := newTestVerifier()
	v.bindPattern(ast.VarMutable, pat("x"), h.Primitive("Number"), nil, v.scope)
	v.bindPattern(ast.VarMutable, pat("x"), h.Primitive("String"), nil, v.scope)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.DuplicateVariableDefinition, v.sink.Reports()[0].Kind)
}

func TestBindArrayPatternOverArrayTypeBindsElementType(t *testing.T) {
	v, h := newTestVerifier()
	arrTy := h.Substitute(h.Primitive("Array"), []*host.Type{h.Primitive("Number")})

	p := &ast.ArrayPattern{Elements: []*ast.ArrayPatternElement{
		{Pattern: pat("a")},
		{Pattern: pat("b")},
	}}
	v.bindPattern(ast.VarMutable, p, arrTy, nil, v.scope)

	assert.Empty(t, v.sink.Reports())
	for _, name := range []string{"a", "b"} {
		slot := h.Slot(v.scope.Properties[name])
		require.NotNil(t, slot)
		assert.Equal(t, h.Primitive("Number").ID(), slot.Type)
	}
}

func TestBindArrayPatternRestCapturesArrayOfElementType(t *testing.T) {
	v, h := newTestVerifier()
	arrTy := h.Substitute(h.Primitive("Array"), []*host.Type{h.Primitive("Number")})

	p := &ast.ArrayPattern{Elements: []*ast.ArrayPatternElement{
		{Pattern: pat("head")},
		{Pattern: pat("tail"), Rest: true},
	}}
	v.bindPattern(ast.VarMutable, p, arrTy, nil, v.scope)

	assert.Empty(t, v.sink.Reports())
	tailSlot := h.Slot(v.scope.Properties["tail"])
	require.NotNil(t, tailSlot)
	tailTy := h.Type(tailSlot.Type)
	assert.Equal(t, h.Primitive("Number").ID(), h.ArrayElementType(tailTy).ID())
}

func TestBindArrayPatternOverTupleBindsPositionalElementTypes(t *testing.T) {
	v, h := newTestVerifier()
	tupleTy := h.NewTupleType([]sid.ID{h.Primitive("Number").ID(), h.Primitive("String").ID()})

	p := &ast.ArrayPattern{Elements: []*ast.ArrayPatternElement{
		{Pattern: pat("n")},
		{Pattern: pat("s")},
	}}
	v.bindPattern(ast.VarMutable, p, tupleTy, nil, v.scope)

	assert.Empty(t, v.sink.Reports())
	assert.Equal(t, h.Primitive("Number").ID(), h.Slot(v.scope.Properties["n"]).Type)
	assert.Equal(t, h.Primitive("String").ID(), h.Slot(v.scope.Properties["s"]).Type)
}

func TestBindArrayPatternTupleLengthMismatchReportsDiagnostic(t *testing.T) {
	v, h := newTestVerifier()
	tupleTy := h.NewTupleType([]sid.ID{h.Primitive("Number").ID(), h.Primitive("String").ID(), h.Primitive("Boolean").ID()})

	p := &ast.ArrayPattern{Elements: []*ast.ArrayPatternElement{
		{Pattern: pat("a")},
		{Pattern: pat("b")},
	}}
	v.bindPattern(ast.VarMutable, p, tupleTy, nil, v.scope)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.ArrayLengthNotEqualsTupleLength, v.sink.Reports()[0].Kind)
}

func TestBindArrayPatternOnUnsupportedTypeReportsUnexpectedArray(t *testing.T) {
	v, h := newTestVerifier()

	p := &ast.ArrayPattern{Elements: []*ast.ArrayPatternElement{{Pattern: pat("a")}}}
	v.bindPattern(ast.VarMutable, p, h.Primitive("Boolean"), nil, v.scope)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.UnexpectedArray, v.sink.Reports()[0].Kind)
	// The pattern still binds, against the invalidation type, so later
	// references to `a` do not cascade an UndefinedProperty on top.
	slot := h.Slot(v.scope.Properties["a"])
	require.NotNil(t, slot)
	assert.Equal(t, host.TypeInvalidation, h.Type(slot.Type).Kind)
}

func TestBindArrayPatternReportsElisionAndMisplacedRest(t *testing.T) {
	v, h := newTestVerifier()
	arrTy := h.Substitute(h.Primitive("Array"), []*host.Type{h.Primitive("Number")})

	p := &ast.ArrayPattern{Elements: []*ast.ArrayPatternElement{
		{Elision: true},
		{Pattern: pat("rest"), Rest: true},
		{Pattern: pat("after")},
	}}
	v.bindPattern(ast.VarMutable, p, arrTy, nil, v.scope)

	kinds := make([]diag.Kind, len(v.sink.Reports()))
	for i, r := range v.sink.Reports() {
		kinds[i] = r.Kind
	}
	assert.Contains(t, kinds, diag.UnexpectedElision)
	assert.Contains(t, kinds, diag.UnexpectedRest)
}

func TestBindObjectPatternResolvesFieldTypeAndShorthandName(t *testing.T) {
	v, h := newTestVerifier()
	point := h.NewClassType("Point")
	xSlot := h.NewVariableSlot(host.QName{Local: "x"}, h.Primitive("Number").ID())
	point.DefineInstance("x", xSlot.ID())

	p := &ast.ObjectPattern{Fields: []*ast.ObjectPatternField{{Name: "x"}}}
	v.bindPattern(ast.VarMutable, p, point, nil, v.scope)

	assert.Empty(t, v.sink.Reports())
	slot := h.Slot(v.scope.Properties["x"])
	require.NotNil(t, slot)
	assert.Equal(t, h.Primitive("Number").ID(), slot.Type)
}

func TestBindObjectPatternUnknownFieldReportsDiagnostic(t *testing.T) {
	v, h := newTestVerifier()
	empty := h.NewClassType("Empty")

	p := &ast.ObjectPattern{Fields: []*ast.ObjectPatternField{{Name: "missing"}}}
	v.bindPattern(ast.VarMutable, p, empty, nil, v.scope)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.UnexpectedFieldNameInDestructuring, v.sink.Reports()[0].Kind)
	// Binding still installs a slot typed at the invalidation entity so a
	// subsequent reference to the name does not cascade a second diagnostic.
	slot := h.Slot(v.scope.Properties["missing"])
	require.NotNil(t, slot)
	assert.Equal(t, host.TypeInvalidation, h.Type(slot.Type).Kind)
}

func TestBindObjectPatternOnUnsupportedTypeReportsUnexpectedObject(t *testing.T) {
	v, h := newTestVerifier()

	p := &ast.ObjectPattern{Fields: []*ast.ObjectPatternField{{Name: "a"}}}
	v.bindPattern(ast.VarMutable, p, h.Primitive("Number"), nil, v.scope)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.UnexpectedObject, v.sink.Reports()[0].Kind)
	// The pattern still binds, against the invalidation type, so a later
	// reference to `a` does not cascade a second diagnostic.
	slot := h.Slot(v.scope.Properties["a"])
	require.NotNil(t, slot)
	assert.Equal(t, host.TypeInvalidation, h.Type(slot.Type).Kind)
}

func TestBindNonNullPatternUnwrapsNullableAndWarnsWhenAlreadyNonNullable(t *testing.T) {
	v, h := newTestVerifier()
	nullable := h.NewNullableType(h.Primitive("String"))

	p := &ast.NonNullPattern{Sub: pat("s")}
	v.bindPattern(ast.VarMutable, p, nullable, nil, v.scope)
	assert.Empty(t, v.sink.Reports())
	slot := h.Slot(v.scope.Properties["s"])
	require.NotNil(t, slot)
	boundTy := h.Type(slot.Type)
	require.Equal(t, host.TypeNonNullable, boundTy.Kind)
	assert.Equal(t, h.Primitive("String").ID(), boundTy.Base)

	v2, h2 := newTestVerifier()
	nonNull := h2.NewNonNullableType(h2.Primitive("String"))
	v2.bindPattern(ast.VarMutable, &ast.NonNullPattern{Sub: pat("t")}, nonNull, nil, v2.scope)
	require.Len(t, v2.sink.Reports(), 1)
	assert.Equal(t, diag.ReferenceIsAlreadyNonNullable, v2.sink.Reports()[0].Kind)
}

func TestAssignIdentifierTargetReportsUndefinedProperty(t *testing.T) {
	v, h := newTestVerifier()
	v.assignIdentifierTarget("x", ast.Pos{}, h.Primitive("Number"))

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.UndefinedProperty, v.sink.Reports()[0].Kind)
}

func TestAssignIdentifierTargetAcceptsCompatibleType(t *testing.T) {
	v, h := newTestVerifier()
	slot := h.NewVariableSlot(host.QName{Local: "x"}, h.Primitive("Any").ID())
	v.scope.DefineProperty("x", slot.ID())

	v.assignIdentifierTarget("x", ast.Pos{}, h.Primitive("Number"))
	assert.Empty(t, v.sink.Reports())
}

func TestAssignIdentifierTargetReportsIncompatibleCoercion(t *testing.T) {
	v, h := newTestVerifier()
	slot := h.NewVariableSlot(host.QName{Local: "x"}, h.Primitive("Boolean").ID())
	v.scope.DefineProperty("x", slot.ID())

	v.assignIdentifierTarget("x", ast.Pos{}, h.Primitive("String"))
	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.ImplicitCoercionToUnrelatedType, v.sink.Reports()[0].Kind)
}

func TestAssignObjectPatternResolvesShorthandFieldAgainstLocalTarget(t *testing.T) {
	v, h := newTestVerifier()
	point := h.NewClassType("Point")
	xSlot := h.NewVariableSlot(host.QName{Local: "x"}, h.Primitive("Number").ID())
	point.DefineInstance("x", xSlot.ID())
	local := h.NewVariableSlot(host.QName{Local: "x"}, h.Primitive("Any").ID())
	v.scope.DefineProperty("x", local.ID())

	p := &ast.ObjectPattern{Fields: []*ast.ObjectPatternField{{Name: "x"}}}
	v.assignObjectPattern(p, point)

	// The shorthand target coerces against the field's resolved type (Number
	// into the local's Any), which is a legal widening, so nothing reports.
	assert.Empty(t, v.sink.Reports())
}

func TestAssignObjectPatternUnknownFieldReportsDiagnostic(t *testing.T) {
	v, h := newTestVerifier()
	empty := h.NewClassType("Empty")

	p := &ast.ObjectPattern{Fields: []*ast.ObjectPatternField{{Name: "missing"}}}
	v.assignObjectPattern(p, empty)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.UnexpectedFieldNameInDestructuring, v.sink.Reports()[0].Kind)
}

func TestAssignObjectPatternOnUnsupportedTypeReportsUnexpectedObject(t *testing.T) {
	v, h := newTestVerifier()

	p := &ast.ObjectPattern{Fields: []*ast.ObjectPatternField{{Name: "a"}}}
	v.assignObjectPattern(p, h.Primitive("Number"))

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.UnexpectedObject, v.sink.Reports()[0].Kind)
}

func TestVerifyDestructuringDeclPrefersInitializerTypeOverDeclaredType(t *testing.T) {
	v, h := newTestVerifier()
	num := h.NewNumberConstant(5, h.Primitive("Number").ID())

	res := v.verifyDestructuringDecl(ast.VarMutable, pat("x"), h.Primitive("Any"), num, v.scope)
	assert.False(t, res.IsDeferred())
	slot := h.Slot(v.scope.Properties["x"])
	require.NotNil(t, slot)
	assert.Equal(t, h.Primitive("Number").ID(), slot.Type)
}

func TestVerifyAssignmentDestructuringTargetDispatchesThroughExpr(t *testing.T) {
	v, h := newTestVerifier()
	arrTy := h.Substitute(h.Primitive("Array"), []*host.Type{h.Primitive("Number")})

	n := &ast.AssignmentExpr{
		Target: &ast.DestructuringTargetExpr{Pattern: &ast.ArrayPattern{Elements: []*ast.ArrayPatternElement{
			{Pattern: pat("a")},
			{Pattern: pat("b")},
		}}},
		Op: "=",
		Value: &ast.ArrayLiteral{},
	}
	// Pre-seed the scope with Any-typed locals a and b so the pattern's
	// identifier targets resolve. The RHS literal is verified without a
	// context type (it types as Array.<Any>), so arrTy is not used for it.
	v.scope.DefineProperty("a", h.NewVariableSlot(host.QName{Local: "a"}, h.Primitive("Any").ID()).ID())
	v.scope.DefineProperty("b", h.NewVariableSlot(host.QName{Local: "b"}, h.Primitive("Any").ID()).ID())

	_, res := v.verifyExpr(n, ExprContext{ContextType: arrTy})
	assert.False(t, res.IsDeferred())
	assert.Empty(t, v.sink.Reports())
}
