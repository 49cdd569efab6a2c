// Command verifyc is an ambient demonstration CLI for the semantic
// verifier. It is explicitly not a compiler driver: there is no parser
// here, so `check` runs a small built-in AST fixture through the
// Verifier and prints the resulting diagnostics, and `repl` walks a
// typed, pre-built scope interactively. Grounded on the teacher's
// cmd/ailang/main.go command dispatch and flag layout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/config"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/verifier"
)

var (
	// Version is set by ldflags during release builds.
	Version = "dev"

	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		configFlag  = flag.String("config", "", "path to a compiler options YAML document")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("verifyc %s\n", Version)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		return
	}

	opts := config.Defaults()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
			os.Exit(1)
		}
		opts = loaded
	}

	switch flag.Arg(0) {
	case "check":
		runCheck(opts)
	case "repl":
		runREPL(opts)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("verifyc") + " - demonstration driver for the semantic verifier")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  verifyc check            run the built-in fixture program and print diagnostics")
	fmt.Println("  verifyc repl             interactively resolve qualified names against a fixture package")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

// fixtureProgram builds a tiny Program by hand (spec's §1 Non-goals
// exclude parsing, so there is no source text to read): a class with one
// untyped field (reports the VariableHasNoTypeAnnotation warning), plus a
// top-level `const` with no initializer (reports the hard
// ConstantMustContainInitializer error) — enough to show both severities
// without needing a host-seeded primitive-alias scope, which VerifyPrograms
// does not provide a hook for (it always starts from a fresh package
// scope; seeding `Number`/`String` as resolvable type identifiers is a
// concern for whatever embeds this package, not this demo).
func fixtureProgram() *ast.Program {
	pos := ast.Pos{File: "fixture.as", Line: 1, Column: 1}
	widget := &ast.ClassDefinition{
		Name: "Widget",
		Block: []ast.Directive{
			&ast.VariableDefinition{
				Kind: ast.VarMutable,
				Bindings: []*ast.VariableBinding{{
					Pattern: &ast.IdentifierPattern{Name: "count"},
					Pos:     pos,
				}},
				Pos: pos,
			},
		},
		Pos: pos,
	}

	badVar := &ast.VariableDefinition{
		Kind: ast.VarConst,
		Bindings: []*ast.VariableBinding{{
			Pattern: &ast.IdentifierPattern{Name: "label"},
			Pos:     pos,
		}},
		Pos: pos,
	}

	return &ast.Program{
		Directives: []ast.Directive{widget, badVar},
	}
}

func runCheck(opts *config.CompilerOptions) {
	h := host.New()
	v := verifier.New(h, opts)
	v.VerifyPrograms([]*ast.Program{fixtureProgram()})

	reports := v.Sink().Reports()
	if len(reports) == 0 {
		fmt.Println(green("ok") + ": no diagnostics")
		return
	}
	for _, r := range reports {
		label := yellow("warning")
		if r.Severity() == diag.SeverityError {
			label = red("error")
		}
		fmt.Printf("%s: %s: %s\n", r.Pos, label, r.Format())
	}
	if v.Invalidated() {
		os.Exit(1)
	}
}
