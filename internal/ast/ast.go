// Package ast defines the AST contract the verifier consumes (spec §6).
// The lexer and parser that produce these nodes are out of scope (spec
// §1): this package only fixes the shape external producers must hand the
// verifier, and the verifier never mutates a node it is given.
//
// Shape and idiom are grounded on the teacher's internal/ast/ast.go (Node
// interface, Pos/Span, one exported struct per concrete node with a
// `xxxNode()` marker method and String()/Position() methods) — the node
// vocabulary itself is the spec's (QualifiedIdentifier, Directive,
// InitializerField, Attribute, ImportSpecifier, ...), not the teacher's
// functional-language vocabulary.
package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface every AST node implements.
type Node interface {
	String() string
	Position() Pos
}

// Pos is a position in source.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Span is a source range.
type Span struct {
	Start Pos
	End   Pos
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Directive is any top-level or block-level directive (declarations,
// imports, configs, statements-as-directives) — spec §2's
// DirectiveSubverifier operates over this interface.
type Directive interface {
	Node
	directiveNode()
}

// Pattern is a destructuring pattern shape (spec §4.3): identifier,
// non-null, object or array. Concrete variants live in ast_patterns.go.
type Pattern interface {
	Node
	patternNode()
}

// Attribute is a declaration modifier (public/private/protected/internal,
// static, final, override, a namespace attribute expression, a metadata
// attribute such as [Bindable] or [Embed]).
type Attribute interface {
	Node
	attributeNode()
}

// QualifiedIdentifier is a (possibly namespace-qualified) name, e.g.
// `public::foo` or bare `foo`. The Qualifier is itself an Expr so that
// `ns::name` where `ns` is a runtime namespace value type-checks as an
// expression before being treated as a qualifier (spec §4.2).
type QualifiedIdentifier struct {
	Qualifier Expr // optional; nil for an unqualified name
	Name      string
	Pos       Pos
}

func (q *QualifiedIdentifier) String() string {
	if q.Qualifier != nil {
		return fmt.Sprintf("%s::%s", q.Qualifier, q.Name)
	}
	return q.Name
}
func (q *QualifiedIdentifier) Position() Pos { return q.Pos }

// ImportSpecifier is one of the three import forms of spec §4.5.
type ImportSpecifierKind int

const (
	ImportWildcard ImportSpecifierKind = iota
	ImportRecursive
	ImportProperty
)

type ImportSpecifier struct {
	Kind    ImportSpecifierKind
	Package string // qualified package path, e.g. "flash.display"
	Name    string // property name for ImportProperty; empty otherwise
	Alias   string // optional alias for ImportProperty
	Pos     Pos
}

func (i *ImportSpecifier) String() string {
	switch i.Kind {
	case ImportWildcard:
		return fmt.Sprintf("import %s.*", i.Package)
	case ImportRecursive:
		return fmt.Sprintf("import %s.**", i.Package)
	default:
		if i.Alias != "" {
			return fmt.Sprintf("import %s.%s as %s", i.Package, i.Name, i.Alias)
		}
		return fmt.Sprintf("import %s.%s", i.Package, i.Name)
	}
}
func (i *ImportSpecifier) Position() Pos { return i.Pos }

// InitializerField is one `name: value` entry of an object literal,
// verified against an options class by ObjectLiteralSubverifier (§2).
type InitializerField struct {
	Name  string
	Value Expr
	Pos   Pos
}

func (f *InitializerField) String() string { return fmt.Sprintf("%s: %s", f.Name, f.Value) }
func (f *InitializerField) Position() Pos  { return f.Pos }

// Program is the root of a parsed compilation unit: a list of top-level
// directives (the parser has already grouped package blocks, imports and
// top-level declarations into Directive nodes).
type Program struct {
	Directives []Directive
	Pos        Pos
}

func (p *Program) String() string {
	parts := make([]string, len(p.Directives))
	for i, d := range p.Directives {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}
func (p *Program) Position() Pos { return p.Pos }

// ---- Directive nodes ----

// PackageDefinition introduces a named (or unnamed, Path == "") package
// block with nested directives.
type PackageDefinition struct {
	Path  string
	Block []Directive
	Pos   Pos
}

func (p *PackageDefinition) String() string { return fmt.Sprintf("package %s { ... }", p.Path) }
func (p *PackageDefinition) Position() Pos  { return p.Pos }
func (p *PackageDefinition) directiveNode()  {}

// ImportDirective wraps an ImportSpecifier as a directive (spec §4.5).
type ImportDirective struct {
	Specifier *ImportSpecifier
	Pos       Pos
}

func (i *ImportDirective) String() string { return i.Specifier.String() }
func (i *ImportDirective) Position() Pos  { return i.Pos }
func (i *ImportDirective) directiveNode() {}

// UseNamespaceDirective opens a namespace in the enclosing scope's
// open-namespace set. It has no body: Alpha -> Beta -> Finished (spec §4.6).
type UseNamespaceDirective struct {
	Namespace Expr
	Pos       Pos
}

func (u *UseNamespaceDirective) String() string { return fmt.Sprintf("use namespace %s", u.Namespace) }
func (u *UseNamespaceDirective) Position() Pos  { return u.Pos }
func (u *UseNamespaceDirective) directiveNode() {}

// PackageConcatKind distinguishes the three concatenation forms of §4.5.
type PackageConcatKind int

const (
	ConcatNamedAlias PackageConcatKind = iota
	ConcatWildcard
	ConcatRecursive
)

// PackageConcatDirective implements `include package foo.*;` /
// `include package foo.**;` / `include package foo as Bar;` style
// concatenation (spec §4.5, §3 Package invariants).
type PackageConcatDirective struct {
	Kind        PackageConcatKind
	ForeignPath string
	Alias       string // only meaningful for ConcatNamedAlias
	Pos         Pos
}

func (c *PackageConcatDirective) String() string {
	return fmt.Sprintf("include package %s (%d)", c.ForeignPath, c.Kind)
}
func (c *PackageConcatDirective) Position() Pos  { return c.Pos }
func (c *PackageConcatDirective) directiveNode() {}

// VariableKind distinguishes `var` from `const`.
type VariableKind int

const (
	VarMutable VariableKind = iota
	VarConst
)

// VariableDefinition declares one or more bindings via a destructuring
// Pattern (possibly a bare IdentifierPattern) against an optional type
// annotation and an optional initializer.
type VariableDefinition struct {
	Kind        VariableKind
	Attributes  []Attribute
	Bindings    []*VariableBinding
	Pos         Pos
}

type VariableBinding struct {
	Pattern Pattern
	Type    Expr // optional type annotation expression; nil if absent
	Init    Expr // optional initializer; nil if absent
	Pos     Pos
}

func (b *VariableBinding) String() string { return b.Pattern.String() }
func (b *VariableBinding) Position() Pos  { return b.Pos }

func (v *VariableDefinition) String() string {
	kw := "var"
	if v.Kind == VarConst {
		kw = "const"
	}
	return fmt.Sprintf("%s <%d bindings>", kw, len(v.Bindings))
}
func (v *VariableDefinition) Position() Pos  { return v.Pos }
func (v *VariableDefinition) directiveNode() {}

// FunctionDefinition declares a named function (method, getter, setter or
// free function depending on Kind).
type FunctionKind int

const (
	FuncPlain FunctionKind = iota
	FuncGetter
	FuncSetter
	FuncConstructor
)

type FunctionDefinition struct {
	Attributes []Attribute
	Kind       FunctionKind
	Name       string
	Params     []*Param
	ReturnType Expr // nil = inferred/void depending on context
	IsAsync    bool
	Native     bool
	Body       []Directive // nil for an interface/abstract/native signature
	Pos        Pos
}

// Param is one formal parameter. Rest reports this is the `...rest`
// parameter (must type as Array, spec §7 RestParameterMustBeArray).
type Param struct {
	Name     string
	Type     Expr
	Optional bool
	Default  Expr
	Rest     bool
	Pos      Pos
}

func (p *Param) String() string  { return p.Name }
func (p *Param) Position() Pos   { return p.Pos }

func (f *FunctionDefinition) String() string { return fmt.Sprintf("function %s(...)", f.Name) }
func (f *FunctionDefinition) Position() Pos  { return f.Pos }
func (f *FunctionDefinition) directiveNode() {}

// ClassDefinition declares a class (spec §3 Type variant Class).
type ClassDefinition struct {
	Attributes []Attribute
	Name       string
	TypeParams []string
	Extends    Expr // qualified identifier of base class, or nil
	Implements []Expr
	Block      []Directive
	Pos        Pos
}

func (c *ClassDefinition) String() string { return fmt.Sprintf("class %s", c.Name) }
func (c *ClassDefinition) Position() Pos  { return c.Pos }
func (c *ClassDefinition) directiveNode() {}

// InterfaceDefinition declares an interface.
type InterfaceDefinition struct {
	Name    string
	Extends []Expr
	Block   []Directive
	Pos     Pos
}

func (i *InterfaceDefinition) String() string { return fmt.Sprintf("interface %s", i.Name) }
func (i *InterfaceDefinition) Position() Pos  { return i.Pos }
func (i *InterfaceDefinition) directiveNode() {}

// ExpressionStatement wraps a bare expression used as a directive/statement.
type ExpressionStatement struct {
	Expression Expr
	Pos        Pos
}

func (e *ExpressionStatement) String() string { return e.Expression.String() }
func (e *ExpressionStatement) Position() Pos  { return e.Pos }
func (e *ExpressionStatement) directiveNode() {}

// ReturnStatement returns Value (nil for a bare `return;`) from the
// enclosing function body.
type ReturnStatement struct {
	Value Expr // nil for a valueless return
	Pos   Pos
}

func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}
func (r *ReturnStatement) Position() Pos  { return r.Pos }
func (r *ReturnStatement) directiveNode() {}

// ---- Expression nodes ----

// Identifier is an unqualified local name reference (spec §4.2 qualified
// identifier with nil Qualifier collapses to this in practice via
// QualifiedIdentifier; Identifier is kept for the common unqualified case
// so destructuring/pattern code need not build a QualifiedIdentifier).
type Identifier struct {
	Name string
	Pos  Pos
}

func (i *Identifier) String() string { return i.Name }
func (i *Identifier) Position() Pos  { return i.Pos }
func (i *Identifier) exprNode()      {}

// QualifiedIdentifierExpr wraps a QualifiedIdentifier as an Expr.
type QualifiedIdentifierExpr struct {
	*QualifiedIdentifier
}

func (q *QualifiedIdentifierExpr) exprNode() {}

// LiteralKind enumerates the primitive literal kinds.
type LiteralKind int

const (
	NumberLit LiteralKind = iota
	StringLit
	BoolLit
	NullLit
	UndefinedLit
	NaNLit
)

type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }
func (l *Literal) Position() Pos  { return l.Pos }
func (l *Literal) exprNode()      {}

// MemberExpr is `base.name` (spec §4.2 member expression).
type MemberExpr struct {
	Base Expr
	Name string
	Pos  Pos
}

func (m *MemberExpr) String() string { return fmt.Sprintf("%s.%s", m.Base, m.Name) }
func (m *MemberExpr) Position() Pos  { return m.Pos }
func (m *MemberExpr) exprNode()      {}

// OptionalMemberExpr is `base?.name`. The chain's placeholder node is the
// first OptionalMemberExpr encountered from the root of
// the optional-chain subtree (spec §4.2 optional chaining).
type OptionalMemberExpr struct {
	Base Expr
	Name string
	Pos  Pos
}

func (o *OptionalMemberExpr) String() string { return fmt.Sprintf("%s?.%s", o.Base, o.Name) }
func (o *OptionalMemberExpr) Position() Pos  { return o.Pos }
func (o *OptionalMemberExpr) exprNode()      {}

// CallExpr is `base(args...)` (spec §4.2 call expression).
type CallExpr struct {
	Base Expr
	Args []Expr
	Pos  Pos
}

func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Base, strings.Join(args, ", "))
}
func (c *CallExpr) Position() Pos { return c.Pos }
func (c *CallExpr) exprNode()     {}

// NewExpr is `new base(args...)` (spec §4.2 new expression).
type NewExpr struct {
	Base Expr
	Args []Expr
	Pos  Pos
}

func (n *NewExpr) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("new %s(%s)", n.Base, strings.Join(args, ", "))
}
func (n *NewExpr) Position() Pos { return n.Pos }
func (n *NewExpr) exprNode()     {}

// SuperExpr is the `super(...)` call or `super.member` base expression.
type SuperExpr struct {
	Args []Expr // non-nil only for a `super(...)` constructor call
	Pos  Pos
}

func (s *SuperExpr) String() string { return "super" }
func (s *SuperExpr) Position() Pos  { return s.Pos }
func (s *SuperExpr) exprNode()      {}

// ThisExpr is the `this` expression.
type ThisExpr struct {
	Pos Pos
}

func (t *ThisExpr) String() string { return "this" }
func (t *ThisExpr) Position() Pos  { return t.Pos }
func (t *ThisExpr) exprNode()      {}

// UnaryExpr is a prefix unary operator, e.g. `-x`, `!x`, `await x`.
type UnaryExpr struct {
	Op       string
	Operand  Expr
	Negative bool // true for unary minus, enables NumericLiteral folding (spec §4.2)
	Pos      Pos
}

func (u *UnaryExpr) String() string { return fmt.Sprintf("%s%s", u.Op, u.Operand) }
func (u *UnaryExpr) Position() Pos  { return u.Pos }
func (u *UnaryExpr) exprNode()      {}

// BinaryExpr is an infix binary operator (spec §4.2 binary operators).
type BinaryExpr struct {
	Left  Expr
	Op    string
	Right Expr
	Pos   Pos
}

func (b *BinaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }
func (b *BinaryExpr) Position() Pos  { return b.Pos }
func (b *BinaryExpr) exprNode()      {}

// ConditionalExpr is the ternary `cond ? a : b`.
type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (c *ConditionalExpr) String() string { return fmt.Sprintf("(%s ? %s : %s)", c.Cond, c.Then, c.Else) }
func (c *ConditionalExpr) Position() Pos  { return c.Pos }
func (c *ConditionalExpr) exprNode()      {}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Elements []Expr
	Pos      Pos
}

func (a *ArrayLiteral) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}
func (a *ArrayLiteral) Position() Pos { return a.Pos }
func (a *ArrayLiteral) exprNode()     {}

// VectorLiteral is `new <T>[e1, e2, ...]`.
type VectorLiteral struct {
	ElementType Expr
	Elements    []Expr
	Pos         Pos
}

func (v *VectorLiteral) String() string { return fmt.Sprintf("new <%s>[...]", v.ElementType) }
func (v *VectorLiteral) Position() Pos  { return v.Pos }
func (v *VectorLiteral) exprNode()      {}

// TupleLiteral is `(e1, e2, ...)` used as a value rather than a grouping.
type TupleLiteral struct {
	Elements []Expr
	Pos      Pos
}

func (t *TupleLiteral) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
func (t *TupleLiteral) Position() Pos { return t.Pos }
func (t *TupleLiteral) exprNode()     {}

// ObjectLiteral is `{ field: value, ... }`, verified against an options
// class by ObjectLiteralSubverifier when context_type names one.
type ObjectLiteral struct {
	Fields []*InitializerField
	Pos    Pos
}

func (o *ObjectLiteral) String() string {
	fields := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
}
func (o *ObjectLiteral) Position() Pos { return o.Pos }
func (o *ObjectLiteral) exprNode()     {}

// XMLLiteral is an inline XML literal (`<tag attr="v">...</tag>`). The
// verifier only type-assigns it to the host XML type; it does not
// validate well-formedness (a parser concern, out of scope).
type XMLLiteral struct {
	Raw string
	Pos Pos
}

func (x *XMLLiteral) String() string { return x.Raw }
func (x *XMLLiteral) Position() Pos  { return x.Pos }
func (x *XMLLiteral) exprNode()      {}

// RegexLiteral is `/pattern/flags`.
type RegexLiteral struct {
	Pattern string
	Flags   string
	Pos     Pos
}

func (r *RegexLiteral) String() string { return fmt.Sprintf("/%s/%s", r.Pattern, r.Flags) }
func (r *RegexLiteral) Position() Pos  { return r.Pos }
func (r *RegexLiteral) exprNode()      {}

// AssignmentExpr is `target = value` or `pattern = value` when target is
// itself a destructuring shape (spec §4.3 assignment destructuring).
type AssignmentExpr struct {
	Target Expr
	Op     string // "=", "+=", "&&=", etc.
	Value  Expr
	Pos    Pos
}

func (a *AssignmentExpr) String() string { return fmt.Sprintf("%s %s %s", a.Target, a.Op, a.Value) }
func (a *AssignmentExpr) Position() Pos  { return a.Pos }
func (a *AssignmentExpr) exprNode()      {}

// DestructuringTargetExpr wraps a Pattern used as the left-hand side of an
// AssignmentExpr, so the assignment destructuring subverifier can be
// dispatched from expression verification (spec §4.3 Assignment).
type DestructuringTargetExpr struct {
	Pattern Pattern
	Pos     Pos
}

func (d *DestructuringTargetExpr) String() string { return d.Pattern.String() }
func (d *DestructuringTargetExpr) Position() Pos  { return d.Pos }
func (d *DestructuringTargetExpr) exprNode()      {}

// FilterExpr is `base.(predicate)`, the E4X-style filter expression.
type FilterExpr struct {
	Base      Expr
	Predicate Expr
	Pos       Pos
}

func (f *FilterExpr) String() string { return fmt.Sprintf("%s.(%s)", f.Base, f.Predicate) }
func (f *FilterExpr) Position() Pos  { return f.Pos }
func (f *FilterExpr) exprNode()      {}

// DescendantsExpr is `base..name`, the E4X-style descendants operator.
type DescendantsExpr struct {
	Base Expr
	Name string
	Pos  Pos
}

func (d *DescendantsExpr) String() string { return fmt.Sprintf("%s..%s", d.Base, d.Name) }
func (d *DescendantsExpr) Position() Pos  { return d.Pos }
func (d *DescendantsExpr) exprNode()      {}

// FunctionExpr is a function literal used as an expression (a lambda).
// It shares FunctionDefinition's shape via a pointer field (Common) so
// FunctionCommonSubverifier can operate on both uniformly.
type FunctionExpr struct {
	Common *FunctionDefinition
	Pos    Pos
}

func (f *FunctionExpr) String() string { return "function(...)" }
func (f *FunctionExpr) Position() Pos  { return f.Pos }
func (f *FunctionExpr) exprNode()      {}

// ---- Attribute nodes ----

// NamespaceAttribute is an access-control or user namespace attribute
// (public/private/protected/internal, or an arbitrary namespace expr).
type NamespaceAttribute struct {
	Expr Expr
	Pos  Pos
}

func (n *NamespaceAttribute) String() string { return n.Expr.String() }
func (n *NamespaceAttribute) Position() Pos  { return n.Pos }
func (n *NamespaceAttribute) attributeNode()  {}

// ModifierAttribute is a bare keyword modifier (static, final, override,
// native, abstract, external, dynamic).
type ModifierAttribute struct {
	Keyword string
	Pos     Pos
}

func (m *ModifierAttribute) String() string { return m.Keyword }
func (m *ModifierAttribute) Position() Pos  { return m.Pos }
func (m *ModifierAttribute) attributeNode()  {}

// MetadataAttribute is a bracketed metadata tag, e.g. `[Bindable]`,
// `[Embed(source="x.png")]`.
type MetadataAttribute struct {
	Name   string
	Fields []*InitializerField
	Pos    Pos
}

func (m *MetadataAttribute) String() string { return fmt.Sprintf("[%s]", m.Name) }
func (m *MetadataAttribute) Position() Pos  { return m.Pos }
func (m *MetadataAttribute) attributeNode()  {}
