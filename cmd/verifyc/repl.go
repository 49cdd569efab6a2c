package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/config"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/verifier"
)

// runREPL is a debugging aid over VerifyExpression (spec §6): it builds
// a fixture package scope with a few named bindings and lets a
// developer type a bare or dotted identifier and see what type (or
// diagnostic) it resolves to. Grounded on the teacher's
// internal/repl/repl.go liner-driven read loop, trimmed to one
// recognized input shape since there is no real parser here.
func runREPL(opts *config.CompilerOptions) {
	h := host.New()
	scope := fixtureScope(h)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(color.New(color.Bold).Sprint("verifyc repl") + " - type a name, Ctrl-D to quit")
	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(color.Error, err)
			}
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		evalLine(h, scope, opts, input)
	}
}

// fixtureScope seeds a package scope with three bindings of distinct
// types so member/identifier resolution has something to find.
func fixtureScope(h *host.Host) *host.Scope {
	scope := h.NewPackageScope()
	num := h.NewVariableSlot(host.QName{Local: "count"}, h.Primitive("Number").ID())
	str := h.NewVariableSlot(host.QName{Local: "label"}, h.Primitive("String").ID())
	flag := h.NewVariableSlot(host.QName{Local: "enabled"}, h.Primitive("Boolean").ID())
	scope.DefineProperty("count", num.ID())
	scope.DefineProperty("label", str.ID())
	scope.DefineProperty("enabled", flag.ID())
	return scope
}

// exprFromPath turns a dotted name like "a.b.c" into the MemberExpr
// chain that a real parser would have produced for it.
func exprFromPath(path string) ast.Expr {
	parts := strings.Split(path, ".")
	pos := ast.Pos{File: "<repl>", Line: 1, Column: 1}
	var e ast.Expr = &ast.Identifier{Name: parts[0], Pos: pos}
	for _, name := range parts[1:] {
		e = &ast.MemberExpr{Base: e, Name: name, Pos: pos}
	}
	return e
}

func evalLine(h *host.Host, scope *host.Scope, opts *config.CompilerOptions, input string) {
	v := verifier.New(h, opts)
	v.SetScope(scope)

	val, res := v.Subverifier.VerifyExpression(exprFromPath(input), verifier.ExprContext{})
	if res.IsDeferred() {
		fmt.Println(color.YellowString("deferred: could not resolve %q in one pass", input))
		return
	}
	for _, r := range v.Sink().Reports() {
		fmt.Printf("%s: %s\n", color.RedString("error"), r.Format())
	}
	if val == nil {
		return
	}
	ty := h.Type(val.Type)
	if ty == nil {
		return
	}
	fmt.Printf("%s: %s\n", input, color.GreenString(ty.Name))
}
