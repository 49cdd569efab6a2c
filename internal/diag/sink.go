package diag

import "sort"

// Sink accumulates diagnostics for one compilation unit. Per spec §6: "A
// compilation unit suppresses duplicate diagnostics at the same byte
// offset. Warnings are suppressible separately."
type Sink struct {
	suppressWarnings bool
	reports          []*Report
	seen             map[dedupeKey]bool
}

type dedupeKey struct {
	kind Kind
	pos  Pos
}

// NewSink creates an empty Sink. suppressWarnings corresponds to
// CompilerOptions.Warnings.Unused == false (the inverse: when unused
// warnings are disabled, all warnings collected through this Sink are
// dropped at Add time rather than threading a second flag through every
// call site).
func NewSink(suppressWarnings bool) *Sink {
	return &Sink{suppressWarnings: suppressWarnings, seen: make(map[dedupeKey]bool)}
}

// Add records r unless it duplicates an already-recorded (kind, pos) pair
// or it is a suppressed warning. Returns true if the report was kept.
func (s *Sink) Add(r *Report) bool {
	if r == nil {
		return false
	}
	if s.suppressWarnings && r.Severity() == SeverityWarning {
		return false
	}
	key := dedupeKey{r.Kind, r.Pos}
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.reports = append(s.reports, r)
	return true
}

// Reports returns all retained diagnostics in insertion order.
func (s *Sink) Reports() []*Report {
	return s.reports
}

// Errors returns only SeverityError reports.
func (s *Sink) Errors() []*Report {
	var out []*Report
	for _, r := range s.reports {
		if r.Severity() == SeverityError {
			out = append(out, r)
		}
	}
	return out
}

// Warnings returns only SeverityWarning reports.
func (s *Sink) Warnings() []*Report {
	var out []*Report
	for _, r := range s.reports {
		if r.Severity() == SeverityWarning {
			out = append(out, r)
		}
	}
	return out
}

// HasErrors reports whether any hard error was recorded.
func (s *Sink) HasErrors() bool {
	for _, r := range s.reports {
		if r.Severity() == SeverityError {
			return true
		}
	}
	return false
}

// SortedByPos returns a copy of the reports sorted by file, then line,
// then column, for a deterministic order (cmd/verifyc itself prints
// Reports() in insertion order).
func (s *Sink) SortedByPos() []*Report {
	out := make([]*Report, len(s.reports))
	copy(out, s.reports)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}
