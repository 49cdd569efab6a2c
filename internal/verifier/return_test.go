package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
)

func TestVerifyReturnStatementCoercesValueToDeclaredReturnType(t *testing.T) {
	v, h := newTestVerifier()
	v.returnTypeStack = append(v.returnTypeStack, h.Primitive("Number").ID())

	n := &ast.ReturnStatement{Value: &ast.Literal{Kind: ast.NumberLit, Value: float64(3)}}
	res := v.verifyReturnStatement(n)

	assert.False(t, res.IsDeferred())
	assert.Empty(t, v.sink.Reports())
}

func TestVerifyReturnStatementReportsUnrelatedType(t *testing.T) {
	v, h := newTestVerifier()
	v.returnTypeStack = append(v.returnTypeStack, h.Primitive("Number").ID())

	n := &ast.ReturnStatement{Value: &ast.Literal{Kind: ast.StringLit, Value: "hi"}}
	v.verifyReturnStatement(n)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.ImplicitCoercionToUnrelatedType, v.sink.Reports()[0].Kind)
}

func TestVerifyReturnStatementReportsValueInVoidFunction(t *testing.T) {
	v, h := newTestVerifier()
	v.returnTypeStack = append(v.returnTypeStack, h.Primitive("Void").ID())

	n := &ast.ReturnStatement{Value: &ast.Literal{Kind: ast.NumberLit, Value: float64(1)}}
	v.verifyReturnStatement(n)

	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.ReturnValueHasNoTypeDeclaration, v.sink.Reports()[0].Kind)
}

func TestVerifyReturnStatementBareReturnIsAlwaysOk(t *testing.T) {
	v, h := newTestVerifier()
	v.returnTypeStack = append(v.returnTypeStack, h.Primitive("Void").ID())

	res := v.verifyReturnStatement(&ast.ReturnStatement{})

	assert.False(t, res.IsDeferred())
	assert.Empty(t, v.sink.Reports())
}

func TestVerifyReturnStatementOutsideFunctionIsNoop(t *testing.T) {
	v, _ := newTestVerifier()

	res := v.verifyReturnStatement(&ast.ReturnStatement{Value: &ast.Literal{Kind: ast.NumberLit, Value: float64(1)}})

	assert.False(t, res.IsDeferred())
	assert.Empty(t, v.sink.Reports())
}

func TestVerifyDirectiveDispatchesReturnStatement(t *testing.T) {
	v, h := newTestVerifier()
	v.returnTypeStack = append(v.returnTypeStack, h.Primitive("Number").ID())

	n := &ast.ReturnStatement{Value: &ast.Literal{Kind: ast.StringLit, Value: "nope"}}
	res := v.VerifyDirective(n, v.scope)

	assert.False(t, res.IsDeferred())
	require.Len(t, v.sink.Reports(), 1)
	assert.Equal(t, diag.ImplicitCoercionToUnrelatedType, v.sink.Reports()[0].Kind)
}
