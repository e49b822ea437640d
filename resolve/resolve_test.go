package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/catalog"
)

type fakeVars map[string]bool

func (f fakeVars) Has(name string) bool { return f[name] }

func unitExpr(name string) *ast.UnitExpr {
	return &ast.UnitExpr{Numerator: []ast.UnitTerm{{Name: name, Exponent: ast.Exponent{Num: 1, Den: 1}}}}
}

func measured(n float64, unitName string) *ast.MeasuredLit {
	return &ast.MeasuredLit{Number: &ast.NumberLit{Value: n}, Unit: unitExpr(unitName)}
}

func TestPruneDiscardsUndefinedNonUnitVariable(t *testing.T) {
	r := New(catalog.Builtin())
	candidates := []ast.Expr{
		&ast.VarRef{Name: "totallyUnknownWord"},
		&ast.NumberLit{Value: 5},
	}
	survivors := r.Prune(candidates, fakeVars{})
	require.Len(t, survivors, 1)
	_, isNum := survivors[0].(*ast.NumberLit)
	assert.True(t, isNum)
}

func TestPruneKeepsDefinedVariable(t *testing.T) {
	r := New(catalog.Builtin())
	candidates := []ast.Expr{&ast.VarRef{Name: "x"}}
	survivors := r.Prune(candidates, fakeVars{"x": true})
	require.Len(t, survivors, 1)
}

func TestPruneFallsBackWhenEverythingWouldBeDiscarded(t *testing.T) {
	r := New(catalog.Builtin())
	candidates := []ast.Expr{&ast.VarRef{Name: "nope"}}
	survivors := r.Prune(candidates, fakeVars{})
	require.Len(t, survivors, 1, "an unevaluable line still needs a tree for the evaluator to reject")
}

func TestPruneDiscardsDimensionallyImpossibleComposite(t *testing.T) {
	r := New(catalog.Builtin())
	impossible := &ast.CompositeLit{Components: []*ast.MeasuredLit{
		measured(5, "foot"), measured(3, "kilogram"),
	}}
	survivors := r.Prune([]ast.Expr{impossible, &ast.NumberLit{Value: 1}}, fakeVars{})
	require.Len(t, survivors, 1)
	_, isNum := survivors[0].(*ast.NumberLit)
	assert.True(t, isNum)
}

func TestPruneDiscardsBooleanToISO8601(t *testing.T) {
	r := New(catalog.Builtin())
	invalid := &ast.ConversionExpr{
		Source: &ast.BoolLit{Value: true},
		Target: &ast.PresentationTarget{Kind: ast.PresentISO8601},
	}
	survivors := r.Prune([]ast.Expr{invalid, &ast.NumberLit{Value: 1}}, fakeVars{})
	require.Len(t, survivors, 1)
	_, isNum := survivors[0].(*ast.NumberLit)
	assert.True(t, isNum)
}

func TestScorePrefersFewerUnitTerms(t *testing.T) {
	r := New(catalog.Builtin())
	plain := &ast.NumberLit{Value: 5}
	withUnit := measured(5, "meter")
	assert.Greater(t, r.Score(plain, fakeVars{}), r.Score(withUnit, fakeVars{}))
}

func TestScorePrefersCatalogUnitOverUserDefined(t *testing.T) {
	r := New(catalog.Builtin())
	catalogUnit := measured(5, "meter")
	userDefined := measured(5, "glorp")
	assert.Greater(t, r.Score(catalogUnit, fakeVars{}), r.Score(userDefined, fakeVars{}))
}

func TestScorePrefersDefinedVariableOverUserDefinedUnitReading(t *testing.T) {
	r := New(catalog.Builtin())
	asVariable := &ast.VarRef{Name: "glorp"}
	asUnit := measured(5, "glorp")
	vars := fakeVars{"glorp": true}
	assert.Greater(t, r.Score(asVariable, vars), r.Score(asUnit, vars))
}

func TestScorePrefersSingleCompositeConversionOverNestedConversions(t *testing.T) {
	r := New(catalog.Builtin())
	composite := &ast.ConversionExpr{
		Source: measured(64, "inch"),
		Target: &ast.CompositeUnitTarget{Units: []*ast.UnitExpr{unitExpr("foot"), unitExpr("inch")}},
	}
	nested := &ast.ConversionExpr{
		Source: &ast.ConversionExpr{
			Source: measured(64, "inch"),
			Target: &ast.UnitTarget{Unit: unitExpr("foot")},
		},
		Target: &ast.UnitTarget{Unit: unitExpr("inch")},
	}
	assert.Greater(t, r.Score(composite, fakeVars{}), r.Score(nested, fakeVars{}))
}

func TestSelectTieBreaksOnFirstCandidate(t *testing.T) {
	r := New(catalog.Builtin())
	a := &ast.NumberLit{Value: 1}
	b := &ast.NumberLit{Value: 2}
	chosen, ok := r.Select([]ast.Expr{a, b}, fakeVars{})
	require.True(t, ok)
	assert.Same(t, a, chosen)
}

func TestSelectReturnsFalseForEmptyCandidates(t *testing.T) {
	r := New(catalog.Builtin())
	_, ok := r.Select(nil, fakeVars{})
	assert.False(t, ok)
}
