package eval

import (
	"strings"
	"time"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/chrono"
	"github.com/ha1tch/calcline/money"
	"github.com/ha1tch/calcline/unitconv"
	"github.com/ha1tch/calcline/value"
)

// AngleUnit selects how a dimensionless trig argument is interpreted and how
// an inverse-trig result is tagged.
type AngleUnit int

const (
	AngleRadian AngleUnit = iota
	AngleDegree
)

// Evaluator performs a single-pass post-order traversal over a
// chosen tree, consulting the read-only catalog and the unit/currency
// converters for every conversion or cross-unit arithmetic operation.
type Evaluator struct {
	Catalog   catalog.Catalog
	Units     *unitconv.Converter
	Money     *money.Converter
	AngleUnit AngleUnit
	Location  *time.Location
}

// New builds an Evaluator over the given catalog and converters, defaulting
// to radians and the local timezone for bare "now"/"today" literals.
func New(cat catalog.Catalog, units *unitconv.Converter, moneyConv *money.Converter) *Evaluator {
	return &Evaluator{Catalog: cat, Units: units, Money: moneyConv, AngleUnit: AngleRadian, Location: time.Local}
}

func (e *Evaluator) dimOf(unitID string) (string, bool) {
	u, ok := e.Catalog.UnitByID(unitID)
	if !ok {
		return "", false
	}
	return u.DimensionID, true
}

// EvalAssignment evaluates an assignment line's RHS and binds it into env.
// The binding happens even if the value is an Error, so downstream
// references report the error clearly.
func (e *Evaluator) EvalAssignment(a *ast.Assignment, env *Environment) value.Value {
	v := e.Eval(a.Value, env)
	env.Set(a.Name, v)
	return v
}

// TrialResult is the outcome of a non-mutating trial evaluation.
type TrialResult struct {
	Value       value.Value
	WouldAssign bool
	AssignName  string
}

// TrialEvaluate clones env, evaluates one line against the clone, and
// reports the value together with the assignment that *would* have
// occurred — the caller's environment is never touched, even on an error
// path, because the clone is discarded regardless of outcome.
func (e *Evaluator) TrialEvaluate(line ast.Node, env *Environment) TrialResult {
	clone := env.Clone()
	if a, ok := line.(*ast.Assignment); ok {
		v := e.Eval(a.Value, clone)
		return TrialResult{Value: v, WouldAssign: true, AssignName: a.Name}
	}
	expr, ok := line.(ast.Expr)
	if !ok {
		return TrialResult{Value: value.Errf(value.ErrRuntime, "line is not evaluable")}
	}
	return TrialResult{Value: e.Eval(expr, clone)}
}

// Eval recursively evaluates expr against env.
func (e *Evaluator) Eval(expr ast.Expr, env *Environment) value.Value {
	switch n := expr.(type) {
	case *ast.NumberLit:
		return value.Number{Val: n.Value}
	case *ast.MeasuredLit:
		return e.evalMeasured(n)
	case *ast.CompositeLit:
		return e.evalComposite(n)
	case *ast.BoolLit:
		return value.Boolean{Val: n.Value}
	case *ast.ConstRef:
		c, ok := e.Catalog.Constant(n.Name)
		if !ok {
			return value.Errf(value.ErrRuntime, "unknown constant %q", n.Name)
		}
		return value.Number{Val: c.Value}
	case *ast.VarRef:
		v, ok := env.Get(n.Name)
		if !ok {
			return value.Errf(value.ErrRuntime, "undefined variable %q", n.Name)
		}
		return v
	case *ast.DateLit:
		if errv := chrono.ValidateDate(n.Year, n.Month, n.Day); errv != nil {
			return errv
		}
		return value.Date{Year: n.Year, Month: n.Month, Day: n.Day}
	case *ast.TimeLit:
		if errv := chrono.ValidateTime(n.Hour, n.Minute, n.Second, n.Millisecond); errv != nil {
			return errv
		}
		return value.Time{Hour: n.Hour, Minute: n.Minute, Second: n.Second, Millisecond: n.Millisecond}
	case *ast.DateTimeLit:
		return e.evalDateTimeLit(n)
	case *ast.ZonedDateTimeLit:
		return e.evalZonedDateTimeLit(n)
	case *ast.InstantLit:
		return value.Instant{Millis: n.Millis}
	case *ast.KeywordInstant:
		return e.evalKeywordInstant(n)
	case *ast.RelativeInstant:
		return e.evalRelativeInstant(n, env)
	case *ast.BinaryExpr:
		return e.evalBinary(n, env)
	case *ast.UnaryExpr:
		return e.evalUnary(n, env)
	case *ast.PostfixExpr:
		return e.evalPostfix(n, env)
	case *ast.CondExpr:
		return e.evalCond(n, env)
	case *ast.FuncCall:
		return e.evalFuncCall(n, env)
	case *ast.Grouped:
		return e.Eval(n.Inner, env)
	case *ast.ConversionExpr:
		return e.evalConversion(n, env)
	default:
		return value.Errf(value.ErrRuntime, "unhandled expression node %T", n)
	}
}

// simpleUnitID resolves a UnitExpr that must name exactly one unit at
// exponent 1 (composite-measurement components and relative-instant units
// are always this shape).
func (e *Evaluator) simpleUnitID(u *ast.UnitExpr) (string, bool) {
	if u == nil || len(u.Numerator) != 1 || len(u.Denominator) != 0 {
		return "", false
	}
	t := u.Numerator[0]
	if t.Exponent.Num != 1 || t.Exponent.Den != 1 {
		return "", false
	}
	return e.unitID(t.Name), true
}

// unitID resolves a parsed unit-term name to a catalog unit id, or
// synthesizes a user-defined unit id from the raw (lowercased) name when
// the catalog does not recognize it.
func (e *Evaluator) unitID(name string) string {
	if u, ok := e.Catalog.UnitByName(name); ok {
		return u.ID
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func (e *Evaluator) unitExprTerms(u *ast.UnitExpr) []value.Term {
	if u == nil {
		return nil
	}
	terms := make([]value.Term, 0, len(u.Numerator)+len(u.Denominator))
	for _, t := range u.Numerator {
		terms = append(terms, e.unitTerm(t, false))
	}
	for _, t := range u.Denominator {
		terms = append(terms, e.unitTerm(t, true))
	}
	return value.SimplifyTerms(terms)
}

func (e *Evaluator) unitTerm(t ast.UnitTerm, invert bool) value.Term {
	id := e.unitID(t.Name)
	num, den := t.Exponent.Num, t.Exponent.Den
	if den == 0 {
		den = 1
	}
	if invert {
		num = -num
	}
	return value.Term{UnitID: id, Num: num, Den: den}
}

func (e *Evaluator) evalMeasured(n *ast.MeasuredLit) value.Value {
	if n.Unit == nil {
		return value.Number{Val: n.Number.Value}
	}
	terms := e.unitExprTerms(n.Unit)
	if len(terms) == 0 {
		return value.Number{Val: n.Number.Value}
	}
	return value.Measured{Val: n.Number.Value, Terms: terms}
}

func (e *Evaluator) evalComposite(n *ast.CompositeLit) value.Value {
	comps := make([]value.CompositeComponent, 0, len(n.Components))
	for _, m := range n.Components {
		id, ok := e.simpleUnitID(m.Unit)
		if !ok {
			return value.Errf(value.ErrType, "composite measurement component %q is not a simple unit", m.String())
		}
		comps = append(comps, value.CompositeComponent{Val: m.Number.Value, UnitID: id})
	}
	return value.Composite{Components: comps}
}

func (e *Evaluator) evalDateTimeLit(n *ast.DateTimeLit) value.Value {
	d := e.Eval(n.Date, nil)
	if value.IsError(d) {
		return d
	}
	t := e.Eval(n.Time, nil)
	if value.IsError(t) {
		return t
	}
	return value.DateTime{Date: d.(value.Date), Time: t.(value.Time)}
}

func (e *Evaluator) evalZonedDateTimeLit(n *ast.ZonedDateTimeLit) value.Value {
	dt := e.evalDateTimeLit(n.DateTime)
	if value.IsError(dt) {
		return dt
	}
	zone, err := chrono.ResolveTimezone(e.Catalog, n.Zone)
	if err != nil {
		return value.Errf(value.ErrDateTime, "%s", err)
	}
	return value.ZonedDateTime{DateTime: dt.(value.DateTime), Zone: zone}
}

func (e *Evaluator) evalKeywordInstant(n *ast.KeywordInstant) value.Value {
	switch n.Kind {
	case "now":
		return chrono.Now()
	case "today":
		return chrono.TodayDate(e.Location)
	case "yesterday":
		return chrono.YesterdayDate(e.Location)
	case "tomorrow":
		return chrono.TomorrowDate(e.Location)
	default:
		return value.Errf(value.ErrRuntime, "unknown keyword instant %q", n.Kind)
	}
}

func (e *Evaluator) evalRelativeInstant(n *ast.RelativeInstant, env *Environment) value.Value {
	amount := e.Eval(n.Amount, env)
	if value.IsError(amount) {
		return amount
	}
	num, ok := amount.(value.Number)
	if !ok {
		return value.Errf(value.ErrType, "relative time amount must be a plain number, got %s", amount.Kind())
	}
	unitID := canonicalDurationUnit(n.Unit)
	if unitID == "" {
		if u, ok := e.Catalog.UnitByName(n.Unit); ok {
			unitID = u.ID
		} else {
			unitID = n.Unit
		}
	}
	result := chrono.RelativeInstant(unitID, int(num.Val), n.FromNow)
	return result
}
