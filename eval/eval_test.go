package eval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/money"
	"github.com/ha1tch/calcline/token"
	"github.com/ha1tch/calcline/unitconv"
	"github.com/ha1tch/calcline/value"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	cat := catalog.Builtin()
	moneyConv := money.New(cat)
	require.NoError(t, moneyConv.Load(time.Unix(0, 0), "USD", map[string]float64{"EUR": 0.85}))
	return New(cat, unitconv.New(cat), moneyConv)
}

func measuredLit(n float64, unitName string) *ast.MeasuredLit {
	return &ast.MeasuredLit{
		Number: &ast.NumberLit{Value: n},
		Unit: &ast.UnitExpr{
			Numerator: []ast.UnitTerm{{Name: unitName, Exponent: ast.Exponent{Num: 1, Den: 1}}},
		},
	}
}

func TestEvalNumberArithmetic(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	expr := &ast.BinaryExpr{
		Op:   token.STAR,
		Left: &ast.NumberLit{Value: 6},
		Right: &ast.BinaryExpr{
			Op:   token.PLUS,
			Left: &ast.NumberLit{Value: 2},
			Right: &ast.NumberLit{Value: 5},
		},
	}
	got := e.Eval(expr, env)
	num, ok := got.(value.Number)
	require.True(t, ok)
	assert.Equal(t, 42.0, num.Val)
}

func TestEvalCrossCurrencyAddition(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	expr := &ast.BinaryExpr{
		Op:   token.PLUS,
		Left: measuredLit(100, "USD"),
		Right: measuredLit(50, "EUR"),
	}
	got := e.Eval(expr, env)
	m, ok := got.(value.Measured)
	require.True(t, ok, "expected Measured, got %T (%v)", got, got)
	assert.InDelta(t, 158.8235294117647, m.Val, 1e-6)
	assert.Equal(t, money.CurrencyUnitID("USD"), m.Terms[0].UnitID)
}

func TestEvalAssignmentAndVarRef(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	assign := &ast.Assignment{Name: "x", Value: &ast.NumberLit{Value: 10}}
	got := e.EvalAssignment(assign, env)
	assert.Equal(t, value.Number{Val: 10}, got)

	v, ok := env.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.Number{Val: 10}, v)

	ref := e.Eval(&ast.VarRef{Name: "x"}, env)
	assert.Equal(t, value.Number{Val: 10}, ref)
}

func TestEvalUndefinedVariableIsRuntimeError(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	got := e.Eval(&ast.VarRef{Name: "nope"}, env)
	errv, ok := got.(value.Error)
	require.True(t, ok)
	assert.Equal(t, value.ErrRuntime, errv.ErrKind)
}

func TestTrialEvaluateNeverMutatesEnvironment(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	env.Set("x", value.Number{Val: 1})

	line := &ast.Assignment{Name: "x", Value: &ast.NumberLit{Value: 99}}
	result := e.TrialEvaluate(line, env)
	assert.True(t, result.WouldAssign)
	assert.Equal(t, "x", result.AssignName)

	v, _ := env.Get("x")
	assert.Equal(t, value.Number{Val: 1}, v, "trial evaluation must not mutate the caller's environment")
}

func TestEvalCondExpr(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	cond := &ast.CondExpr{
		Cond: &ast.BoolLit{Value: true},
		Then: &ast.NumberLit{Value: 1},
		Else: &ast.NumberLit{Value: 2},
	}
	assert.Equal(t, value.Number{Val: 1}, e.Eval(cond, env))
}

func TestEvalFactorial(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	got := e.Eval(&ast.PostfixExpr{Op: token.BANG, Operand: &ast.NumberLit{Value: 5}}, env)
	assert.Equal(t, value.Number{Val: 120}, got)
}

func TestEvalUnitConversion(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	conv := &ast.ConversionExpr{
		Source: measuredLit(5, "kilometer"),
		Op:     token.TO,
		Target: &ast.UnitTarget{Unit: &ast.UnitExpr{
			Numerator: []ast.UnitTerm{{Name: "meter", Exponent: ast.Exponent{Num: 1, Den: 1}}},
		}},
	}
	got := e.Eval(conv, env)
	m, ok := got.(value.Measured)
	require.True(t, ok)
	assert.InDelta(t, 5000, m.Val, 1e-9)
}

func TestEvalCompositeBreakdown(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	conv := &ast.ConversionExpr{
		Source: measuredLit(64, "inch"),
		Op:     token.TO,
		Target: &ast.CompositeUnitTarget{Units: []*ast.UnitExpr{
			{Numerator: []ast.UnitTerm{{Name: "foot", Exponent: ast.Exponent{Num: 1, Den: 1}}}},
			{Numerator: []ast.UnitTerm{{Name: "inch", Exponent: ast.Exponent{Num: 1, Den: 1}}}},
		}},
	}
	got := e.Eval(conv, env)
	c, ok := got.(value.Composite)
	require.True(t, ok, "expected Composite, got %T (%v)", got, got)
	require.Len(t, c.Components, 2)
	assert.Equal(t, "foot", c.Components[0].UnitID)
	assert.InDelta(t, 5, c.Components[0].Val, 1e-9)
	assert.Equal(t, "inch", c.Components[1].UnitID)
	assert.InDelta(t, 4, c.Components[1].Val, 1e-9)
}

func TestEvalPresentationWrap(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	conv := &ast.ConversionExpr{
		Source: &ast.NumberLit{Value: 255},
		Op:     token.TO,
		Target: &ast.PresentationTarget{Kind: ast.PresentHex, Precision: -1},
	}
	got := e.Eval(conv, env)
	p, ok := got.(value.Presentation)
	require.True(t, ok)
	assert.Equal(t, value.PresentHex, p.Spec.Kind)
	assert.Equal(t, value.Number{Val: 255}, p.Inner)
}

func TestEvalRelativeInstant(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	got := e.Eval(&ast.RelativeInstant{Amount: &ast.NumberLit{Value: 3}, Unit: "days", FromNow: false}, env)
	_, ok := got.(value.Instant)
	require.True(t, ok, "expected Instant, got %T (%v)", got, got)
}

func TestEvalDateArithmeticWithDuration(t *testing.T) {
	e := newTestEvaluator(t)
	d := value.Date{Year: 2024, Month: 1, Day: 31}
	got := e.add(d, value.Duration{Months: 1})
	nd, ok := got.(value.Date)
	require.True(t, ok)
	assert.Equal(t, value.Date{Year: 2024, Month: 2, Day: 29}, nd)
}

func TestEvalUnitPreservingFunction(t *testing.T) {
	e := newTestEvaluator(t)
	env := NewEnvironment()
	got := e.Eval(&ast.FuncCall{Name: "round", Args: []ast.Expr{measuredLit(2.6, "kilometer")}}, env)
	m, ok := got.(value.Measured)
	require.True(t, ok)
	assert.Equal(t, 3.0, m.Val)
	assert.Equal(t, "kilometer", m.Terms[0].UnitID)
}

func TestEvalAngleAwareTrig(t *testing.T) {
	e := newTestEvaluator(t)
	e.AngleUnit = AngleDegree
	env := NewEnvironment()
	got := e.Eval(&ast.FuncCall{Name: "sin", Args: []ast.Expr{&ast.NumberLit{Value: 90}}}, env)
	n, ok := got.(value.Number)
	require.True(t, ok)
	assert.InDelta(t, 1, n.Val, 1e-9)
}
