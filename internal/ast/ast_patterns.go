package ast

import "strings"

// IdentifierPattern binds a single name, optionally with a type annotation
// (spec §4.3: the simplest pattern shape, also the base case every other
// destructuring shape bottoms out at).
type IdentifierPattern struct {
	Name string
	Type Expr // optional annotation; nil if absent
	Pos  Pos
}

func (p *IdentifierPattern) String() string {
	if p.Type != nil {
		return p.Name + ": " + p.Type.String()
	}
	return p.Name
}
func (p *IdentifierPattern) Position() Pos { return p.Pos }
func (p *IdentifierPattern) patternNode()  {}

// NonNullPattern wraps a sub-pattern that additionally asserts its matched
// value is non-null, e.g. `!p` inside a destructuring shape (spec §4.3).
type NonNullPattern struct {
	Sub Pattern
	Pos Pos
}

func (p *NonNullPattern) String() string { return "!" + p.Sub.String() }
func (p *NonNullPattern) Position() Pos  { return p.Pos }
func (p *NonNullPattern) patternNode()   {}

// ArrayPatternElement is one slot of an ArrayPattern: either a sub-pattern,
// an elision (skipped slot), or — only as the final element — a rest
// capture binding the remaining tail.
type ArrayPatternElement struct {
	Pattern Pattern // nil for an elision
	Elision bool
	Rest    bool
	Pos     Pos
}

// ArrayPattern destructures an Array or a fixed-arity Tuple value
// positionally (spec §4.3 array/tuple destructuring; the Omega-phase
// shape handler picks Array vs Tuple based on the matched static type).
type ArrayPattern struct {
	Elements []*ArrayPatternElement
	Pos      Pos
}

func (p *ArrayPattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		switch {
		case e.Rest:
			parts[i] = "..." + e.Pattern.String()
		case e.Elision:
			parts[i] = ""
		default:
			parts[i] = e.Pattern.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (p *ArrayPattern) Position() Pos { return p.Pos }
func (p *ArrayPattern) patternNode()  {}

// ObjectPatternField binds one named field of an ObjectPattern, e.g.
// `{ x: sub }` or the shorthand `{ x }` (Sub == nil, an IdentifierPattern
// named x is implied).
type ObjectPatternField struct {
	Name string
	Sub  Pattern // nil for shorthand
	Pos  Pos
}

// ObjectPattern destructures named properties off a class, interface or
// dynamic object value (spec §4.3 object destructuring; fields resolve
// through FieldDestructuringResolution slots, spec §3).
type ObjectPattern struct {
	Fields []*ObjectPatternField
	Pos    Pos
}

func (p *ObjectPattern) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		if f.Sub == nil {
			parts[i] = f.Name
		} else {
			parts[i] = f.Name + ": " + f.Sub.String()
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (p *ObjectPattern) Position() Pos { return p.Pos }
func (p *ObjectPattern) patternNode()  {}
