// Package verifier implements the deferred, phased semantic analysis
// engine of spec §2/§4: a fixed-point driver that repeatedly visits
// declarations and expressions until every definition has been promoted
// through the five-phase lifecycle, bounded at MaxCycles passes.
//
// The sub-verifiers named in the spec (DirectiveSubverifier,
// ExpSubverifier, ArgumentsSubverifier, DestructuringDeclSubverifier,
// AssignmentDestructuringSubverifier, FunctionCommonSubverifier,
// StatementSubverifier) are method sets on one shared Subverifier value
// rather than distinct types — grounded on original_source's
// verifier/verifier.rs, whose single `Subverifier` struct is what every
// verifier/*.rs file adds `impl` blocks to, and on the teacher's own
// preference for one cursor type per phase of work.
package verifier

import (
	"github.com/parthenon-lang/verifyc/internal/ast"
	"github.com/parthenon-lang/verifyc/internal/config"
	"github.com/parthenon-lang/verifyc/internal/diag"
	"github.com/parthenon-lang/verifyc/internal/host"
	"github.com/parthenon-lang/verifyc/internal/module"
	"github.com/parthenon-lang/verifyc/internal/nodemap"
	"github.com/parthenon-lang/verifyc/internal/phase"
	"github.com/parthenon-lang/verifyc/internal/sid"
)

// MaxCycles bounds the driver's fixed-point loop, grounded on
// original_source's `Verifier::MAX_CYCLES: usize = 512`.
const MaxCycles = 512

// pendingFunctionCommon is a deferred FunctionCommonSubverifier partial
// awaiting retry, per original_source's `deferred_function_exp` map —
// VerifyPrograms drains this once at the end of every pass, and
// VerifyExpression once before every retry of its expression.
type pendingFunctionCommon struct {
	fn    *ast.FunctionDefinition
	scope *host.Scope
	id    sid.ID
}

// conflict is a queued definition conflict, resolved once after the
// fixed point (spec §3 Lifecycles: "Conflicts ... queued ... and
// resolved after the fixed point converges").
type conflict struct {
	name     string
	parent   sid.ID // Scope or Package entity id holding the property table
	existing sid.ID // Slot id already installed
	proposed sid.ID // Slot id that lost the race
	pos      diag.Pos
}

// Subverifier holds all state shared by every sub-verifier method:
// the host database, the scope cursor, the diagnostic sink, the three
// phase tables of spec §4.1, and the AST-to-entity memo maps of spec §3.
type Subverifier struct {
	host *host.Host
	opts *config.CompilerOptions
	sink *diag.Sink
	ids  *nodeIDs

	declPhase  *phase.Table[sid.ID]
	drtvPhase  *phase.Table[sid.ID]
	blockPhase *phase.Table[sid.ID]

	valueMap *nodemap.Map[*host.Value]
	scopeMap *nodemap.Map[*host.Scope]
	slotMap  *nodemap.Map[*host.Slot]
	invalid  *nodemap.Invalidation

	// typeByNode and slotByType memoize the Type entity a
	// ClassDefinition/InterfaceDefinition node creates, and the alias Slot
	// that makes it discoverable by name, so repeated driver passes over
	// the same node never allocate a second Type or Slot for it.
	typeByNode *nodemap.Map[sid.ID]
	slotByType *nodemap.Map[sid.ID]
	slotByNode *nodemap.Map[sid.ID]

	concat *module.Graph

	deferredFunctionExp []*pendingFunctionCommon
	definitionConflicts []*conflict

	// returnTypeStack tracks the declared return type of every function
	// body currently being verified, innermost last, so a nested
	// FunctionExpr's ReturnStatement checks against its own signature
	// rather than an enclosing function's (spec §4.6 Omega "verify
	// function bodies").
	returnTypeStack []sid.ID

	scope      *host.Scope
	invalidated bool
	external    bool
}

// Verifier is the public driver (spec §6 "Public driver surface").
type Verifier struct {
	*Subverifier
}

// New creates a Verifier over h, configured by opts (nil means
// config.Defaults()).
func New(h *host.Host, opts *config.CompilerOptions) *Verifier {
	if opts == nil {
		opts = config.Defaults()
	}
	sv := &Subverifier{
		host:       h,
		opts:       opts,
		sink:       diag.NewSink(opts.SuppressWarnings()),
		ids:        newNodeIDs(),
		declPhase:  phase.NewTable[sid.ID](),
		drtvPhase:  phase.NewTable[sid.ID](),
		blockPhase: phase.NewTable[sid.ID](),
		valueMap:   nodemap.New[*host.Value](),
		scopeMap:   nodemap.New[*host.Scope](),
		slotMap:    nodemap.New[*host.Slot](),
		invalid:    nodemap.NewInvalidation(),
		typeByNode: nodemap.New[sid.ID](),
		slotByType: nodemap.New[sid.ID](),
		slotByNode: nodemap.New[sid.ID](),
		concat:     module.NewGraph(),
	}
	return &Verifier{Subverifier: sv}
}

// Sink exposes the accumulated diagnostics.
func (v *Verifier) Sink() *diag.Sink { return v.sink }

// Invalidated reports the sticky flag set when any error was emitted
// (spec §6 `invalidated() -> bool`).
func (v *Verifier) Invalidated() bool { return v.invalidated }

func (v *Subverifier) report(r *diag.Report) {
	if r == nil {
		return
	}
	v.sink.Add(r)
	if r.Severity() == diag.SeverityError {
		v.invalidated = true
	}
}

// SetScope, InheritAndEnterScope and ExitScope implement the scope
// manipulation surface of spec §6.
func (v *Verifier) SetScope(s *host.Scope) { v.scope = s }

func (v *Verifier) InheritAndEnterScope(s *host.Scope) {
	v.host.EnterScope(v.scope, s)
	v.scope = s
}

func (v *Verifier) ExitScope() {
	if v.scope == nil {
		return
	}
	v.scope = v.scope.Parent(v.host)
}

// VerifyPrograms runs the full phased pass over every top-level program
// until convergence or MaxCycles exhaustion (spec §6
// `verify_programs(programs, mxml_sources)`). It panics if called again
// after v was already invalidated by a prior run, mirroring
// original_source's same guard — re-using an invalidated verifier would
// silently mix diagnostics from two different compilations.
func (v *Verifier) VerifyPrograms(programs []*ast.Program) {
	if v.invalidated {
		panic("verifier: VerifyPrograms called on an already-invalidated Verifier")
	}

	root := v.host.NewPackageScope()
	v.scope = root

	for pass := 0; pass < MaxCycles; pass++ {
		progressed := false
		for _, prog := range programs {
			for _, d := range prog.Directives {
				wasFinished := v.drtvPhase.Get(v.ids.of(d)) == phase.Finished
				res := v.VerifyDirective(d, v.scope)
				if !res.IsDeferred() {
					if !wasFinished {
						progressed = true
					}
				} else if next, ok := res.AdvanceTo(); ok {
					v.advanceDirective(d, next)
					progressed = true
				}
			}
		}
		if v.drainDeferredFunctionCommon() {
			progressed = true
		}
		if !progressed {
			break
		}
	}

	v.emitMaxCyclesForUnfinished(programs)
	v.resolveDefinitionConflicts()
}

// VerifyExpression runs the loop for a single expression (spec §6
// `verify_expression(exp, context) -> Option<value>`), used for
// config-constant evaluation. It shares the same deferred
// function-common retry sub-loop as VerifyPrograms.
func (v *Verifier) VerifyExpression(e ast.Expr, ctx ExprContext) *host.Value {
	val, res := v.verifyExpr(e, ctx)
	for i := 0; res.IsDeferred() && i < MaxCycles; i++ {
		v.drainDeferredFunctionCommon()
		val, res = v.verifyExpr(e, ctx)
	}
	return val
}

func (v *Subverifier) advanceDirective(d ast.Directive, next phase.Phase) {
	id := v.ids.of(d)
	v.drtvPhase.Set(id, next)
}

// drainDeferredFunctionCommon retries every queued function-common
// partial once. VerifyPrograms calls it at the end of every pass and
// VerifyExpression before every retry. Returns whether any partial made
// progress.
func (v *Subverifier) drainDeferredFunctionCommon() bool {
	if len(v.deferredFunctionExp) == 0 {
		return false
	}
	pending := v.deferredFunctionExp
	v.deferredFunctionExp = nil
	progressed := false
	for _, p := range pending {
		res := v.verifyFunctionCommon(p.fn, p.scope)
		if res.IsDeferred() {
			v.deferredFunctionExp = append(v.deferredFunctionExp, p)
		} else {
			progressed = true
		}
	}
	return progressed
}

// emitMaxCyclesForUnfinished reports ReachedMaximumCycles once for every
// top-level directive of programs that is still not Finished when the
// loop stops (spec §4.1 Termination, §7 ReachedMaximumCycles). Nested
// declarations, directives and function bodies are not checked on their
// own; an unfinished one is reported only through the top-level
// directive that encloses it.
func (v *Subverifier) emitMaxCyclesForUnfinished(programs []*ast.Program) {
	for _, prog := range programs {
		for _, d := range prog.Directives {
			id := v.ids.of(d)
			if v.drtvPhase.Get(id) != phase.Finished {
				v.report(diag.New(diag.ReachedMaximumCycles, posOf(d)))
			}
		}
	}
}

// resolveDefinitionConflicts finishes every queued conflict once, after
// the fixed point converges (spec §3, and original_source's
// `finish_definition_conflict`).
func (v *Subverifier) resolveDefinitionConflicts() {
	pending := v.definitionConflicts
	v.definitionConflicts = nil
	for _, c := range pending {
		v.report(diag.New(diag.AConflictExistsWithDefinition, c.pos, c.name))
	}
}

func posOf(n ast.Node) diag.Pos {
	p := n.Position()
	return diag.Pos{File: p.File, Line: p.Line, Column: p.Column}
}
