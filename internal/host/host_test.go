package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPackageIsIdempotentByPath(t *testing.T) {
	h := New()
	p1 := h.NewPackage("flash.display")
	p2 := h.NewPackage("flash.display")
	assert.Equal(t, p1.ID(), p2.ID(), "declaring the same package path twice must return the same entity")
}

func TestPackageDefinePropertyRejectsDuplicateName(t *testing.T) {
	h := New()
	p := h.NewPackage("p")
	slotA := h.NewVariableSlot(QName{Local: "X"}, "")
	slotB := h.NewVariableSlot(QName{Local: "X"}, "")

	installed1, _ := p.DefineProperty("X", slotA.ID())
	installed2, existing := p.DefineProperty("X", slotB.ID())

	assert.True(t, installed1)
	assert.False(t, installed2)
	assert.Equal(t, slotA.ID(), existing)
}

func TestPackageIsEmptyConsidersConcatClosure(t *testing.T) {
	h := New()
	root := h.NewPackage("p")
	other := h.NewPackage("p.q")
	assert.True(t, root.IsEmpty(h))

	slot := h.NewVariableSlot(QName{Local: "Y"}, "")
	other.DefineProperty("Y", slot.ID())
	root.ConcatWildcard(other)
	assert.False(t, root.IsEmpty(h))
}

func TestConcatRecursiveRejectsSelfReference(t *testing.T) {
	h := New()
	a := h.NewPackage("a")
	b := h.NewPackage("b")
	require.True(t, a.ConcatRecursive(h, b))
	ok := b.ConcatRecursive(h, a)
	assert.False(t, ok, "concatenating a package into one that already contains it must be rejected")
}

func TestEnterScopeLinksOnlyOnce(t *testing.T) {
	h := New()
	root := h.NewPackageScope()
	child := h.NewBlockScope()

	h.EnterScope(root, child)
	assert.Same(t, root, child.Parent(h))

	other := h.NewPackageScope()
	h.EnterScope(other, child)
	assert.Same(t, root, child.Parent(h), "re-entering a scope must not relink its parent")
}

func TestSearchHoistScopeSkipsBlockScopes(t *testing.T) {
	h := New()
	pkgScope := h.NewPackageScope()
	classScope := h.NewClassScope()
	blockScope := h.NewBlockScope()
	h.EnterScope(pkgScope, classScope)
	h.EnterScope(classScope, blockScope)

	assert.Same(t, classScope, h.SearchHoistScope(blockScope))
}

func TestConcatOpenNamespaceSetDeduplicatesAcrossChain(t *testing.T) {
	h := New()
	parent := h.NewPackageScope()
	child := h.NewBlockScope()
	h.EnterScope(parent, child)

	parent.OpenNamespace("ns.example")
	child.OpenNamespace("ns.example")
	child.OpenNamespace("ns.other")

	got := h.ConcatOpenNamespaceSetOfScopeChain(child)
	assert.ElementsMatch(t, []string{"ns.example", "ns.other"}, got)
}

func TestImplicitIdentityConversion(t *testing.T) {
	h := New()
	numTy := h.Primitive("Number")
	v := h.NewNumberConstant(3.0, numTy.ID())

	out, kind, ok := h.Implicit(v, numTy, false)
	require.True(t, ok)
	assert.Equal(t, CoerceIdentity, kind)
	assert.Same(t, v, out)
}

func TestImplicitRejectsUnrelatedTypes(t *testing.T) {
	h := New()
	numTy := h.Primitive("Number")
	strTy := h.Primitive("String")
	v := h.NewNumberConstant(1, numTy.ID())

	_, _, ok := h.Implicit(v, strTy, false)
	assert.False(t, ok)
}

func TestCheckOverrideDetectsIncompatibleSignature(t *testing.T) {
	h := New()
	base := h.NewClassType("Base")
	derived := h.NewClassType("Derived")
	derived.Extends = base.ID()

	numTy := h.Primitive("Number")
	strTy := h.Primitive("String")
	baseSig := h.NewFunctionType(nil, numTy.ID())
	candSig := h.NewFunctionType(nil, strTy.ID())

	baseMethod := h.NewMethodSlot(QName{Local: "f"}, baseSig.ID())
	base.DefineInstance("f", baseMethod.ID())

	candMethod := h.NewMethodSlot(QName{Local: "f"}, candSig.ID())
	candMethod.Flags.Overriding = true

	result := h.CheckOverride(derived, QName{Local: "f"}, candMethod)
	assert.Equal(t, OverrideIncompatible, result.Outcome)
}

func TestCheckOverrideRequiresOverrideKeywordToMatchAFinalMethod(t *testing.T) {
	h := New()
	base := h.NewClassType("Base")
	derived := h.NewClassType("Derived")
	derived.Extends = base.ID()

	sig := h.NewFunctionType(nil, h.Primitive("Number").ID())
	baseMethod := h.NewMethodSlot(QName{Local: "f"}, sig.ID())
	baseMethod.Flags.Final = true
	base.DefineInstance("f", baseMethod.ID())

	candMethod := h.NewMethodSlot(QName{Local: "f"}, sig.ID())
	candMethod.Flags.Overriding = true

	result := h.CheckOverride(derived, QName{Local: "f"}, candMethod)
	assert.Equal(t, OverrideFinal, result.Outcome)
}

func TestLookupInObjectReportsVoidBase(t *testing.T) {
	h := New()
	voidTy := h.Primitive("Void")
	v := h.NewDynamicReference(voidTy.ID())

	result := h.LookupInObject(v, nil, "", "x", false)
	assert.Equal(t, LookupVoidBase, result.Err)
}

func TestLookupInObjectReportsAmbiguousAcrossNamespaces(t *testing.T) {
	h := New()
	baseTy := h.NewClassType("B")
	classTy := h.NewClassType("C")
	classTy.Extends = baseTy.ID()
	slotA := h.NewVariableSlot(QName{Namespace: "ns.a", Local: "x"}, "")
	slotB := h.NewVariableSlot(QName{Namespace: "ns.b", Local: "x"}, "")
	// A property table holds one slot per name, so the second
	// distinct-namespace member lives on the base class; the lookup
	// collects both along the Extends chain and both namespaces are open.
	classTy.DefineInstance("x", slotA.ID())
	baseTy.DefineInstance("x", slotB.ID())

	v := h.NewThisObject(classTy.ID())
	result := h.LookupInObject(v, []string{"ns.a", "ns.b"}, "", "x", false)
	assert.Equal(t, LookupAmbiguous, result.Err)
}
