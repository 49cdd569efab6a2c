// Package diag provides the verifier's structured diagnostic model: a
// closed set of Kind tags (one per named diagnostic in the language spec),
// a Report value that pairs a Kind with a location and substitutable
// arguments, and a Sink that a compilation unit uses to accumulate and
// de-duplicate them.
package diag

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pos is a source position. It is duplicated (rather than imported) from
// the ast package's Pos so that diag has no dependency on the AST contract
// — diagnostics must be constructible from host/verifier code that never
// touches raw AST nodes (e.g. a ReachedMaximumCycles report keyed only by
// a stored Pos).
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Report is the canonical structured diagnostic, grounded on the teacher's
// internal/errors/report.go Report/ReportError idiom. Every sub-verifier
// builds *Report values; nothing downstream constructs error strings by
// hand.
type Report struct {
	Kind Kind
	Pos  Pos
	Args []string // substituted into Kind's template as {1}, {2}, ...
}

// New builds a Report, stringifying args the way the spec requires
// ("substitutes {1}, {2}, ... with argument .to_string()").
func New(kind Kind, pos Pos, args ...any) *Report {
	strArgs := make([]string, len(args))
	for i, a := range args {
		strArgs[i] = toString(a)
	}
	return &Report{Kind: kind, Pos: pos, Args: strArgs}
}

func toString(a any) string {
	switch v := a.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Severity looks up the Report's severity from the Kind registry.
func (r *Report) Severity() Severity {
	return Registry[r.Kind].Severity
}

// Format renders the human-readable message, substituting {1}, {2}, ...
func (r *Report) Format() string {
	msg := Registry[r.Kind].Template
	for i, a := range r.Args {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{%d}", i+1), a)
	}
	return msg
}

// Error implements the error interface so a *Report can be returned and
// inspected via errors.As, mirroring the teacher's ReportError wrapper.
func (r *Report) Error() string {
	return fmt.Sprintf("%s: %s (%s)", r.Kind, r.Format(), r.Pos)
}

// reportError wraps a *Report so it can travel through error-returning
// call chains and still be recovered with AsReport, matching the teacher's
// ReportError/AsReport/WrapReport idiom in internal/errors/report.go.
type reportError struct {
	rep *Report
}

func (e *reportError) Error() string { return e.rep.Error() }

// Wrap turns a *Report into an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &reportError{rep: r}
}

// AsReport extracts a *Report from an error chain, if any.
func AsReport(err error) (*Report, bool) {
	var re *reportError
	if errors.As(err, &re) {
		return re.rep, true
	}
	return nil, false
}

// jsonReport is the wire shape for Report, matching the schema/phase/code
// naming convention of the teacher's Encoded type (internal/errors, now
// removed — see DESIGN.md) without depending on a schema package.
type jsonReport struct {
	Schema  string   `json:"schema"`
	Code    string   `json:"code"`
	Phase   string   `json:"phase"`
	Message string   `json:"message"`
	Pos     string   `json:"pos,omitempty"`
	Args    []string `json:"args,omitempty"`
}

// ToJSON renders a deterministic JSON encoding of the report.
func (r *Report) ToJSON() ([]byte, error) {
	info := Registry[r.Kind]
	return json.Marshal(jsonReport{
		Schema:  "verifier.diagnostic/v1",
		Code:    string(r.Kind),
		Phase:   info.Phase,
		Message: r.Format(),
		Pos:     r.Pos.String(),
		Args:    r.Args,
	})
}
