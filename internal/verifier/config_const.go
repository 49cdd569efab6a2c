package verifier

import (
	"strconv"
	"strings"

	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
)

// evalConfigConstant implements the `NS::NAME` config-constant shortcut of
// spec §4.2/§8 scenario 5 and the glossary's "Configuration constant":
// lazily parse key's textual body and evaluate it in the host's dedicated
// const-eval scope, recursively (a body that is itself another `NS::NAME`
// reference) and memoized in the host so a later reference to the same
// key substitutes the same Value without re-parsing.
//
// evaluating guards the recursive case against a self-referential cycle
// (`A::X` whose body is `A::X`), which would otherwise recurse forever
// rather than hit the host's memo (nothing is memoized until a call
// returns).
func (v *Subverifier) evalConfigConstant(key string, pos diag.Pos, evaluating map[string]bool) (*host.Value, bool) {
	if cached, ok := v.host.CachedConfigConstant(key); ok {
		return cached, true
	}
	body, ok := v.host.ConfigConstantBody(key)
	if !ok {
		v.report(diag.New(diag.CannotResolveConfigConstant, pos, key))
		return v.host.InvalidationEntity(), false
	}

	if evaluating[key] {
		v.report(diag.New(diag.CouldNotExpandInlineConstant, pos, key))
		return v.host.InvalidationEntity(), false
	}
	evaluating[key] = true
	defer delete(evaluating, key)

	constEval := v.host.ConstEvalScope()
	prevScope := v.scope
	v.scope = constEval
	val, ok := v.evalConfigConstantBody(strings.TrimSpace(body), key, pos, evaluating)
	v.scope = prevScope

	if ok {
		v.host.MemoizeConfigConstant(key, val)
	}
	return val, ok
}

// evalConfigConstantBody parses and evaluates one config constant's
// textual body in the host's const-eval scope (spec §3 Scope variant
// ConstEval), recognizing the same literal grammar as ordinary literal
// expressions plus a nested `NS::NAME` reference.
func (v *Subverifier) evalConfigConstantBody(body, key string, pos diag.Pos, evaluating map[string]bool) (*host.Value, bool) {
	h := v.host
	switch body {
	case "true":
		return h.NewBoolConstant(true, h.Primitive("Boolean").ID()), true
	case "false":
		return h.NewBoolConstant(false, h.Primitive("Boolean").ID()), true
	case "null":
		return h.NewNullConstant(h.Primitive("Object").ID()), true
	case "undefined":
		return h.NewUndefinedConstant(h.Primitive("Any").ID()), true
	}

	if len(body) >= 2 && (body[0] == '"' || body[0] == '\'') && body[len(body)-1] == body[0] {
		return h.NewStringConstant(body[1:len(body)-1], h.Primitive("String").ID()), true
	}

	if nsName, isRef := splitConfigConstantRef(body); isRef {
		return v.evalConfigConstant(nsName, pos, evaluating)
	}

	if n, err := strconv.ParseFloat(body, 64); err == nil {
		return h.NewNumberConstant(n, h.Primitive("Number").ID()), true
	}
	if looksNumeric(body) {
		v.report(diag.New(diag.CouldNotParseNumber, pos, body))
		return h.InvalidationEntity(), false
	}

	v.report(diag.New(diag.CouldNotExpandInlineConstant, pos, key))
	return h.InvalidationEntity(), false
}

// splitConfigConstantRef reports whether body is itself a bare `NS::NAME`
// reference (so a config constant's body can point at another config
// constant, per spec §4.2 "recursive, memoized").
func splitConfigConstantRef(body string) (string, bool) {
	idx := strings.Index(body, "::")
	if idx <= 0 || idx+2 >= len(body) {
		return "", false
	}
	ns, name := body[:idx], body[idx+2:]
	if !isIdentifier(ns) || !isIdentifier(name) {
		return "", false
	}
	return body, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i >= len(s) {
		return false
	}
	return s[i] >= '0' && s[i] <= '9'
}
