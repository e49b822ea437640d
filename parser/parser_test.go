package parser

import (
	"testing"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/catalog"
)

func TestLineKindPrefilter(t *testing.T) {
	cat := catalog.Builtin()

	if got := ParseLine("", 1, cat).Kind; got != KindEmpty {
		t.Errorf("empty line: got %v, want KindEmpty", got)
	}
	if got := ParseLine("   ", 1, cat).Kind; got != KindEmpty {
		t.Errorf("blank line: got %v, want KindEmpty", got)
	}
	h := ParseLine("## Totals", 1, cat)
	if h.Kind != KindHeading || h.HeadingLevel != 2 || h.HeadingText != "Totals" {
		t.Errorf("heading: got %+v", h)
	}
	a := ParseLine("x = 5", 1, cat)
	if a.Kind != KindAssignment || a.AssignName != "x" {
		t.Errorf("assignment: got %+v", a)
	}
	if len(a.Candidates) == 0 {
		t.Fatalf("assignment produced no candidates")
	}
}

func TestSimpleArithmetic(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("2 + 3 * 4", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v, want KindExpression", r.Kind)
	}
	found := false
	for _, c := range r.Candidates {
		if c.String() == "(2 + (3 * 4))" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected precedence-correct candidate among %v", renderAll(r.Candidates))
	}
}

func TestMeasuredLiteralAndConversion(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("5 km to m", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	foundConversion := false
	for _, c := range r.Candidates {
		if conv, ok := c.(*ast.ConversionExpr); ok {
			if _, ok := conv.Target.(*ast.UnitTarget); ok {
				foundConversion = true
			}
		}
	}
	if !foundConversion {
		t.Errorf("expected a ConversionExpr to a UnitTarget among %v", renderAll(r.Candidates))
	}
}

func TestCompositeAmbiguityProducesMultipleCandidates(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("5 ft 3 in", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	var sawComposite, sawProduct bool
	for _, c := range r.Candidates {
		switch c.(type) {
		case *ast.CompositeLit:
			sawComposite = true
		case *ast.BinaryExpr:
			sawProduct = true
		}
	}
	if !sawComposite {
		t.Errorf("expected a CompositeLit candidate among %v", renderAll(r.Candidates))
	}
	if !sawProduct {
		t.Errorf("expected an implicit-multiplication candidate among %v", renderAll(r.Candidates))
	}
}

func TestFunctionCall(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("sqrt(16)", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	found := false
	for _, c := range r.Candidates {
		if fc, ok := c.(*ast.FuncCall); ok && fc.Name == "sqrt" && len(fc.Args) == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected FuncCall(sqrt, 1 arg) among %v", renderAll(r.Candidates))
	}
}

func TestConditional(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("if 5 > 3 then 1 else 0", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	found := false
	for _, c := range r.Candidates {
		if _, ok := c.(*ast.CondExpr); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a CondExpr among %v", renderAll(r.Candidates))
	}
}

func TestDateLiteralAndSubtractionBothParse(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("2024 - 01 - 15", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	var sawDate, sawSubtraction bool
	for _, c := range r.Candidates {
		switch c.(type) {
		case *ast.DateLit:
			sawDate = true
		case *ast.BinaryExpr:
			sawSubtraction = true
		}
	}
	if !sawDate {
		t.Errorf("expected a DateLit candidate among %v", renderAll(r.Candidates))
	}
	if !sawSubtraction {
		t.Errorf("expected a subtraction-chain candidate among %v", renderAll(r.Candidates))
	}
}

func TestPlainTextFallback(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("oops (", 1, cat)
	if r.Kind != KindPlainText {
		t.Errorf("got kind %v, want KindPlainText", r.Kind)
	}
}

func TestPresentationTarget(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("255 to hex", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	found := false
	for _, c := range r.Candidates {
		if conv, ok := c.(*ast.ConversionExpr); ok {
			if pt, ok := conv.Target.(*ast.PresentationTarget); ok && pt.Kind == ast.PresentHex {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected a presentation conversion to hex among %v", renderAll(r.Candidates))
	}
}

func TestPercentageLiteral(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("100 * 25%", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	found := false
	for _, c := range r.Candidates {
		if bin, ok := c.(*ast.BinaryExpr); ok {
			if lit, ok := bin.Right.(*ast.NumberLit); ok && lit.Value == 0.25 {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected a 0.25 percentage-literal reading among %v", renderAll(r.Candidates))
	}
}

func TestMonthNameDateLiteral(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("2023 Jan 01", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	found := false
	for _, c := range r.Candidates {
		if d, ok := c.(*ast.DateLit); ok && d.Year == 2023 && d.Month == 1 && d.Day == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected DateLit(2023-01-01) among %v", renderAll(r.Candidates))
	}
}

func TestZoneSuffixKeepsIANACase(t *testing.T) {
	cat := catalog.Builtin()
	r := ParseLine("2023 Jan 01 14:00 America/New_York", 1, cat)
	if r.Kind != KindExpression {
		t.Fatalf("got kind %v", r.Kind)
	}
	found := false
	for _, c := range r.Candidates {
		if z, ok := c.(*ast.ZonedDateTimeLit); ok && z.Zone == "America/New_York" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a ZonedDateTimeLit keeping IANA casing among %v", renderAll(r.Candidates))
	}
}

func TestCompositeTargetOnlyForToThenIn(t *testing.T) {
	cat := catalog.Builtin()

	hasCompositeTarget := func(cands []ast.Expr) bool {
		for _, c := range cands {
			if conv, ok := c.(*ast.ConversionExpr); ok {
				if _, ok := conv.Target.(*ast.CompositeUnitTarget); ok {
					return true
				}
			}
		}
		return false
	}

	nestedOnly := ParseLine("5 km to m to cm", 1, cat)
	if hasCompositeTarget(nestedOnly.Candidates) {
		t.Errorf("`to A to B` must not offer a composite-target reading: %v", renderAll(nestedOnly.Candidates))
	}

	chained := ParseLine("170 cm to ft in inches", 1, cat)
	if !hasCompositeTarget(chained.Candidates) {
		t.Errorf("`to A in B` should offer a composite-target reading: %v", renderAll(chained.Candidates))
	}
}

func renderAll(exprs []ast.Expr) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = e.String()
	}
	return out
}
