package verifier

import (
	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/phase"
)

// VerifyArguments is the ArgumentsSubverifier of spec §4.4: it walks the
// call's argument list in lockstep with the signature's parameter list.
// Grounded line-for-line on original_source's
// verifier/arguments.rs::ArgumentsSubverifier::verify (translated to Go
// idiom, not transliterated): a required or optional parameter
// increments expect_num (and, for required, least_expect_num also); a
// rest parameter consumes every remaining argument via its element type;
// once sig params are exhausted, further arguments are merely
// type-verified and counted toward `exceeds`.
func (v *Subverifier) VerifyArguments(args []ast.Expr, sig *host.Type, ctx ExprContext) (bool, phase.Result) {
	leastExpectNum := 0
	expectNum := 0
	exceeds := false

	i := 0
	for _, p := range sig.Params {
		if p.Kind == host.ParamRest {
			restElem := v.host.ArrayElementType(v.host.Type(p.Type))
			if restElem == nil {
				restElem = v.host.Primitive("Any")
			}
			for ; i < len(args); i++ {
				if _, res := v.verifyExpr(args[i], ExprContext{ContextType: restElem}); res.IsDeferred() {
					return false, res
				}
			}
			continue
		}

		if i >= len(args) {
			switch p.Kind {
			case host.ParamRequired:
				leastExpectNum++
				expectNum++
			case host.ParamOptional:
				expectNum++
			}
			continue
		}

		paramTy := v.host.Type(p.Type)
		if _, res := v.verifyExpr(args[i], ExprContext{ContextType: paramTy}); res.IsDeferred() {
			return false, res
		}
		if paramTy != nil {
			val, _ := v.valueMap.Get(v.ids.of(args[i]))
			if val != nil {
				if _, _, ok := v.host.Implicit(val, paramTy, true); !ok {
					v.report(diag.New(diag.ImplicitCoercionToUnrelatedType, posOf(args[i]), paramTy.Name))
				}
			}
		}
		switch p.Kind {
		case host.ParamRequired:
			leastExpectNum++
			expectNum++
		case host.ParamOptional:
			expectNum++
		}
		i++
	}

	if i < len(args) {
		exceeds = true
		for ; i < len(args); i++ {
			if _, res := v.verifyExpr(args[i], ExprContext{}); res.IsDeferred() {
				return false, res
			}
		}
	}

	if exceeds {
		v.report(diag.New(diag.ExpectedNoMoreThanArguments, posOfArgs(args), expectNum))
		return false, phase.Ok()
	}
	if len(args) < leastExpectNum {
		v.report(diag.New(diag.ExpectedArguments, posOfArgs(args), leastExpectNum))
		return false, phase.Ok()
	}
	return true, phase.Ok()
}

func posOfArgs(args []ast.Expr) diag.Pos {
	if len(args) == 0 {
		return diag.Pos{}
	}
	return posOf(args[0])
}
