// Package ast defines the syntax-tree node variants produced by the
// calcline grammar parser. Every node carries its source offset;
// the tree is owned top-down and never aliases tokens after parsing.
package ast

import (
	"fmt"
	"strings"

	"github.com/ha1tch/calcline/token"
)

// Node is any syntax-tree node.
type Node interface {
	Pos() token.Position
	String() string
}

// Expr is an expression node — everything but the top-level Assignment.
type Expr interface {
	Node
	exprNode()
}

type BaseNode struct {
	Position token.Position
}

func (b BaseNode) Pos() token.Position { return b.Position }

// At constructs the embeddable position header for a node literal.
func At(pos token.Position) BaseNode { return BaseNode{Position: pos} }

// Exponent is a signed, possibly-rational unit exponent.
type Exponent struct {
	Num int
	Den int // 1 unless the unit expression used a fractional power
}

func (e Exponent) String() string {
	if e.Den == 1 {
		return fmt.Sprintf("%d", e.Num)
	}
	return fmt.Sprintf("%d/%d", e.Num, e.Den)
}

func (e Exponent) Negate() Exponent { return Exponent{Num: -e.Num, Den: e.Den} }

// UnitTerm names one factor of a unit expression with its exponent.
type UnitTerm struct {
	Name     string
	Exponent Exponent
}

// UnitExpr carries separate numerator/denominator term lists for display;
// normalization to a signed-exponent term list happens in package
// value at evaluation time.
type UnitExpr struct {
	BaseNode
	Numerator   []UnitTerm
	Denominator []UnitTerm
}

func (u *UnitExpr) String() string {
	var num, den []string
	for _, t := range u.Numerator {
		num = append(num, t.Name)
	}
	for _, t := range u.Denominator {
		den = append(den, t.Name)
	}
	if len(den) == 0 {
		return strings.Join(num, "*")
	}
	return strings.Join(num, "*") + "/" + strings.Join(den, "*")
}

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// NumberLit is a dimensionless numeric literal in a given base.
type NumberLit struct {
	BaseNode
	Value float64
	Base  int // 10, 16, 8, or 2
	Raw   string
}

func (n *NumberLit) exprNode()      {}
func (n *NumberLit) String() string { return n.Raw }

// MeasuredLit pairs a numeric literal with a unit expression (possibly nil
// for a bare number used where a unit-bearing expression is expected).
type MeasuredLit struct {
	BaseNode
	Number *NumberLit
	Unit   *UnitExpr
}

func (m *MeasuredLit) exprNode() {}
func (m *MeasuredLit) String() string {
	if m.Unit == nil {
		return m.Number.String()
	}
	return m.Number.String() + " " + m.Unit.String()
}

// CompositeLit is an ordered list of same-dimension measured components,
// e.g. `5 ft 3 in`.
type CompositeLit struct {
	BaseNode
	Components []*MeasuredLit
}

func (c *CompositeLit) exprNode() {}
func (c *CompositeLit) String() string {
	parts := make([]string, len(c.Components))
	for i, m := range c.Components {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// BoolLit is a boolean literal.
type BoolLit struct {
	BaseNode
	Value bool
}

func (b *BoolLit) exprNode()      {}
func (b *BoolLit) String() string { return fmt.Sprintf("%t", b.Value) }

// ConstRef references a catalog constant by name or symbol (π, φ, ...).
type ConstRef struct {
	BaseNode
	Name string
}

func (c *ConstRef) exprNode()      {}
func (c *ConstRef) String() string { return c.Name }

// VarRef references a variable bound earlier in the document, or a
// user-defined unit candidate — disambiguated by the resolver.
type VarRef struct {
	BaseNode
	Name string
}

func (v *VarRef) exprNode()      {}
func (v *VarRef) String() string { return v.Name }

// DateLit is a proleptic-Gregorian plain date literal.
type DateLit struct {
	BaseNode
	Year, Month, Day int
}

func (d *DateLit) exprNode() {}
func (d *DateLit) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// TimeLit is a plain time-of-day literal.
type TimeLit struct {
	BaseNode
	Hour, Minute, Second, Millisecond int
}

func (t *TimeLit) exprNode() {}
func (t *TimeLit) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Millisecond)
}

// DateTimeLit pairs a date and a time literal.
type DateTimeLit struct {
	BaseNode
	Date *DateLit
	Time *TimeLit
}

func (d *DateTimeLit) exprNode() {}
func (d *DateTimeLit) String() string {
	return d.Date.String() + " " + d.Time.String()
}

// ZonedDateTimeLit attaches an IANA zone name (pre-resolution) to a
// datetime literal.
type ZonedDateTimeLit struct {
	BaseNode
	DateTime *DateTimeLit
	Zone     string
}

func (z *ZonedDateTimeLit) exprNode() {}
func (z *ZonedDateTimeLit) String() string {
	return z.DateTime.String() + " " + z.Zone
}

// InstantLit is a literal Unix-epoch instant, written `unix <millis>`.
type InstantLit struct {
	BaseNode
	Millis int64
}

func (i *InstantLit) exprNode()      {}
func (i *InstantLit) String() string { return fmt.Sprintf("unix %d", i.Millis) }

// KeywordInstant is one of now/today/yesterday/tomorrow.
type KeywordInstant struct {
	BaseNode
	Kind string
}

func (k *KeywordInstant) exprNode()      {}
func (k *KeywordInstant) String() string { return k.Kind }

// RelativeInstant is `N unit ago` or `N unit from now`.
type RelativeInstant struct {
	BaseNode
	Amount   Expr
	Unit     string
	FromNow  bool // false means "ago"
}

func (r *RelativeInstant) exprNode() {}
func (r *RelativeInstant) String() string {
	if r.FromNow {
		return fmt.Sprintf("%s %s from now", r.Amount.String(), r.Unit)
	}
	return fmt.Sprintf("%s %s ago", r.Amount.String(), r.Unit)
}

// -----------------------------------------------------------------------------
// Operators
// -----------------------------------------------------------------------------

// BinaryExpr is a left/right binary operation (arithmetic, comparison,
// logical, bitwise, or conversion-adjacent `per`).
type BinaryExpr struct {
	BaseNode
	Op    token.Type
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}

// UnaryExpr is a prefix unary operation: -x, !x, ~x.
type UnaryExpr struct {
	BaseNode
	Op      token.Type
	Operand Expr
}

func (u *UnaryExpr) exprNode() {}
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", u.Op.String(), u.Operand.String())
}

// PostfixExpr is a postfix operation: x! (factorial).
type PostfixExpr struct {
	BaseNode
	Op      token.Type
	Operand Expr
}

func (p *PostfixExpr) exprNode() {}
func (p *PostfixExpr) String() string {
	return fmt.Sprintf("(%s%s)", p.Operand.String(), p.Op.String())
}

// CondExpr is `if cond then a else b`.
type CondExpr struct {
	BaseNode
	Cond Expr
	Then Expr
	Else Expr
}

func (c *CondExpr) exprNode() {}
func (c *CondExpr) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", c.Cond.String(), c.Then.String(), c.Else.String())
}

// FuncCall is a function-table dispatch.
type FuncCall struct {
	BaseNode
	Name string
	Args []Expr
}

func (f *FuncCall) exprNode() {}
func (f *FuncCall) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// Grouped is a parenthesized expression, kept distinct so formatting and
// scoring (tree-size) can see the original grouping.
type Grouped struct {
	BaseNode
	Inner Expr
}

func (g *Grouped) exprNode()      {}
func (g *Grouped) String() string { return "(" + g.Inner.String() + ")" }

// -----------------------------------------------------------------------------
// Conversion targets
// -----------------------------------------------------------------------------

// ConversionTarget is a closed sum of everything a `to`/`in`/`as`/`→` can
// point at: a unit expression, a composite unit list, or a presentation
// format specifier.
type ConversionTarget interface {
	Node
	targetNode()
}

// UnitTarget converts to a single (possibly derived) unit.
type UnitTarget struct {
	BaseNode
	Unit *UnitExpr
}

func (u *UnitTarget) targetNode()    {}
func (u *UnitTarget) String() string { return u.Unit.String() }

// CompositeUnitTarget converts to an ordered list of units forming a
// composite measurement, e.g. `to [ft, in]`.
type CompositeUnitTarget struct {
	BaseNode
	Units []*UnitExpr
}

func (c *CompositeUnitTarget) targetNode() {}
func (c *CompositeUnitTarget) String() string {
	parts := make([]string, len(c.Units))
	for i, u := range c.Units {
		parts[i] = u.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// PresentationTarget names a rendering-only conversion target.
type PresentationTarget struct {
	BaseNode
	Kind      PresentationKind
	Base      int // for Kind == PresentBase
	Precision int // for Kind == PresentScientific/PresentPercentage; -1 = auto
	Count     int // for Kind == PresentPrecision
	Mode      string // "decimals" or "sigfigs", for Kind == PresentPrecision
}

func (p *PresentationTarget) targetNode()    {}
func (p *PresentationTarget) String() string { return string(p.Kind) }

// PresentationKind enumerates the presentation-format targets.
type PresentationKind string

const (
	PresentBinary     PresentationKind = "binary"
	PresentOctal      PresentationKind = "octal"
	PresentHex        PresentationKind = "hexadecimal"
	PresentBase       PresentationKind = "base"
	PresentDecimalB10 PresentationKind = "decimal"
	PresentFraction   PresentationKind = "fraction"
	PresentScientific PresentationKind = "scientific"
	PresentPercentage PresentationKind = "percentage"
	PresentOrdinal    PresentationKind = "ordinal"
	PresentISO8601    PresentationKind = "iso8601"
	PresentRFC9557    PresentationKind = "rfc9557"
	PresentRFC2822    PresentationKind = "rfc2822"
	PresentUnix       PresentationKind = "unix"
	PresentUnixMillis PresentationKind = "unixmillis"
	PresentPrecision  PresentationKind = "precision"
)

// ConversionExpr applies a conversion operator to a source expression.
type ConversionExpr struct {
	BaseNode
	Source Expr
	Op     token.Type // TO, IN, AS, or ARROW
	Target ConversionTarget
}

func (c *ConversionExpr) exprNode() {}
func (c *ConversionExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Source.String(), c.Op.String(), c.Target.String())
}

// -----------------------------------------------------------------------------
// Line-level nodes
// -----------------------------------------------------------------------------

// Assignment is `identifier = expression`, the only statement-shaped line
// kind the grammar recognizes.
type Assignment struct {
	BaseNode
	Name  string
	Value Expr
}

func (a *Assignment) String() string { return a.Name + " = " + a.Value.String() }

// NodeCount returns the number of AST nodes in the subtree rooted at n,
// used by the ambiguity resolver's tree-size rule.
func NodeCount(n Node) int {
	if n == nil {
		return 0
	}
	count := 1
	switch v := n.(type) {
	case *MeasuredLit:
		count += NodeCount(v.Number)
		if v.Unit != nil {
			count++
		}
	case *CompositeLit:
		for _, c := range v.Components {
			count += NodeCount(c)
		}
	case *BinaryExpr:
		count += NodeCount(v.Left) + NodeCount(v.Right)
	case *UnaryExpr:
		count += NodeCount(v.Operand)
	case *PostfixExpr:
		count += NodeCount(v.Operand)
	case *CondExpr:
		count += NodeCount(v.Cond) + NodeCount(v.Then) + NodeCount(v.Else)
	case *FuncCall:
		for _, a := range v.Args {
			count += NodeCount(a)
		}
	case *Grouped:
		count += NodeCount(v.Inner)
	case *ConversionExpr:
		count += NodeCount(v.Source) + 1
	case *RelativeInstant:
		count += NodeCount(v.Amount)
	case *Assignment:
		count += NodeCount(v.Value)
	}
	return count
}

// CountUnitTerms returns the total number of unit terms referenced anywhere
// in the subtree.
func CountUnitTerms(n Node) int {
	total := 0
	var walkUnit func(u *UnitExpr)
	walkUnit = func(u *UnitExpr) {
		if u == nil {
			return
		}
		total += len(u.Numerator) + len(u.Denominator)
	}
	var walk func(n Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *MeasuredLit:
			walkUnit(v.Unit)
		case *CompositeLit:
			for _, c := range v.Components {
				walk(c)
			}
		case *BinaryExpr:
			walk(v.Left)
			walk(v.Right)
		case *UnaryExpr:
			walk(v.Operand)
		case *PostfixExpr:
			walk(v.Operand)
		case *CondExpr:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *FuncCall:
			for _, a := range v.Args {
				walk(a)
			}
		case *Grouped:
			walk(v.Inner)
		case *ConversionExpr:
			walk(v.Source)
			switch t := v.Target.(type) {
			case *UnitTarget:
				walkUnit(t.Unit)
			case *CompositeUnitTarget:
				for _, u := range t.Units {
					walkUnit(u)
				}
			}
		case *RelativeInstant:
			walk(v.Amount)
		case *Assignment:
			walk(v.Value)
		}
	}
	walk(n)
	return total
}

// CountConversions returns the number of ConversionExpr nodes in the
// subtree.
func CountConversions(n Node) int {
	count := 0
	var walk func(n Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *MeasuredLit, *CompositeLit, *NumberLit, *BoolLit, *ConstRef, *VarRef,
			*DateLit, *TimeLit, *DateTimeLit, *ZonedDateTimeLit, *InstantLit,
			*KeywordInstant:
			return
		case *RelativeInstant:
			walk(v.Amount)
		case *BinaryExpr:
			walk(v.Left)
			walk(v.Right)
		case *UnaryExpr:
			walk(v.Operand)
		case *PostfixExpr:
			walk(v.Operand)
		case *CondExpr:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *FuncCall:
			for _, a := range v.Args {
				walk(a)
			}
		case *Grouped:
			walk(v.Inner)
		case *ConversionExpr:
			count++
			walk(v.Source)
		case *Assignment:
			walk(v.Value)
		}
	}
	walk(n)
	return count
}
