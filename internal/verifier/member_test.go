package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
)

func pathExpr(names ...string) ast.Expr {
	var e ast.Expr = &ast.Identifier{Name: names[0]}
	for _, n := range names[1:] {
		e = &ast.MemberExpr{Base: e, Name: n}
	}
	return e
}

// TestVerifyMemberResolvesPackagePathDespiteLocalShadow covers spec §8
// scenario 6: package p.q is wildcard-imported and exposes R, a local `q`
// shadows the package segment, but `p.q.R` still resolves to the
// package's member.
func TestVerifyMemberResolvesPackagePathDespiteLocalShadow(t *testing.T) {
	v, h := newTestVerifier()

	pkg := h.NewPackage("p.q")
	rSlot := h.NewVariableSlot(host.QName{Local: "R"}, h.Primitive("Number").ID())
	pkg.DefineProperty("R", rSlot.ID())
	v.scope.Imports = append(v.scope.Imports, pkg.ID())

	shadow := h.NewVariableSlot(host.QName{Local: "q"}, h.Primitive("String").ID())
	v.scope.DefineProperty("q", shadow.ID())

	member := &ast.MemberExpr{Base: pathExpr("p", "q"), Name: "R"}
	val, res := v.verifyMember(member, ExprContext{}, false)

	assert.False(t, res.IsDeferred())
	assert.Empty(t, v.sink.Reports())
	require.NotNil(t, val)
	assert.Equal(t, h.Primitive("Number").ID(), val.StaticType(h).ID())
}

// TestVerifyMemberReportsAmbiguousPackagePath covers two distinct
// packages both concatenated under the same visible path exposing the
// same property name unambiguously to neither.
func TestVerifyMemberReportsAmbiguousPackagePath(t *testing.T) {
	v, h := newTestVerifier()

	pkg := h.NewPackage("p.q")
	a := h.NewPackage("p.q.a")
	b := h.NewPackage("p.q.b")
	slotA := h.NewVariableSlot(host.QName{Local: "R"}, h.Primitive("Number").ID())
	slotB := h.NewVariableSlot(host.QName{Local: "R"}, h.Primitive("String").ID())
	a.DefineProperty("R", slotA.ID())
	b.DefineProperty("R", slotB.ID())
	pkg.ConcatWildcard(a)
	pkg.ConcatWildcard(b)
	v.scope.Imports = append(v.scope.Imports, pkg.ID())

	member := &ast.MemberExpr{Base: pathExpr("p", "q"), Name: "R"}
	_, res := v.verifyMember(member, ExprContext{}, false)

	assert.False(t, res.IsDeferred())
	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.AmbiguousReference, v.sink.Reports()[0].Kind)
}

// TestVerifyMemberFallsBackWhenNoPackageVisible confirms an ordinary
// member access on a non-package base is untouched by the package-path
// rule.
func TestVerifyMemberFallsBackWhenNoPackageVisible(t *testing.T) {
	v, h := newTestVerifier()

	widget := h.NewClassType("Widget")
	fieldSlot := h.NewVariableSlot(host.QName{Local: "name"}, h.Primitive("String").ID())
	widget.DefineInstance("name", fieldSlot.ID())
	v.scope.Imports = nil

	member := &ast.MemberExpr{Base: &ast.Identifier{Name: "obj"}, Name: "name"}
	objSlot := h.NewVariableSlot(host.QName{Local: "obj"}, widget.ID())
	v.scope.DefineProperty("obj", objSlot.ID())

	_, res := v.verifyMember(member, ExprContext{}, false)
	assert.False(t, res.IsDeferred())
}
