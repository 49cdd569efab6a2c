package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
)

func namespaceAttr(keyword string) []ast.Attribute {
	return []ast.Attribute{&ast.NamespaceAttribute{Expr: &ast.Identifier{Name: keyword}}}
}

func TestResolveAccessControlNamespaceFindsClassPrivate(t *testing.T) {
	v, h := newTestVerifier()
	classScope := h.NewClassScope()
	classScope.SystemNS[host.NSPrivate] = "private:Widget"
	h.EnterScope(v.scope, classScope)

	ns, ok := v.resolveAccessControlNamespace(namespaceAttr("private"), classScope, diag.Pos{})

	assert.True(t, ok)
	assert.Equal(t, "private:Widget", ns)
	assert.Empty(t, v.sink.Reports())
}

func TestResolveAccessControlNamespaceReportsWhenNotAllowedHere(t *testing.T) {
	v, _ := newTestVerifier()

	_, ok := v.resolveAccessControlNamespace(namespaceAttr("private"), v.scope, diag.Pos{})

	assert.True(t, ok)
	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.AccessControlNamespaceNotAllowedHere, v.sink.Reports()[0].Kind)
}

func TestResolveAccessControlNamespaceIgnoresPlainModifiers(t *testing.T) {
	v, _ := newTestVerifier()

	ns, ok := v.resolveAccessControlNamespace([]ast.Attribute{&ast.ModifierAttribute{Keyword: "static"}}, v.scope, diag.Pos{})

	assert.False(t, ok)
	assert.Empty(t, ns)
	assert.Empty(t, v.sink.Reports())
}

func TestVerifyVariableDefinitionReportsDisallowedNamespaceAttribute(t *testing.T) {
	v, _ := newTestVerifier()

	n := &ast.VariableDefinition{
		Kind:       ast.VarMutable,
		Attributes: namespaceAttr("protected"),
		Bindings: []*ast.VariableBinding{{
			Pattern: &ast.IdentifierPattern{Name: "x", Type: &ast.Identifier{Name: "Number"}},
		}},
	}

	res := v.verifyVariableDefinition(n, v.scope)

	assert.False(t, res.IsDeferred())
	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.AccessControlNamespaceNotAllowedHere, v.sink.Reports()[0].Kind)
}
