package ast

import (
	"testing"

	"github.com/ha1tch/calcline/token"
)

func TestNodeCountLeafAndBinary(t *testing.T) {
	n := &NumberLit{BaseNode: At(token.Position{}), Value: 5, Base: 10, Raw: "5"}
	if got := NodeCount(n); got != 1 {
		t.Errorf("NodeCount(leaf) = %d, want 1", got)
	}

	bin := &BinaryExpr{
		BaseNode: At(token.Position{}),
		Op:       token.PLUS,
		Left:     n,
		Right:    &NumberLit{BaseNode: At(token.Position{}), Value: 3, Base: 10, Raw: "3"},
	}
	if got := NodeCount(bin); got != 3 {
		t.Errorf("NodeCount(binary) = %d, want 3", got)
	}
}

func TestCountUnitTermsMeasuredLit(t *testing.T) {
	m := &MeasuredLit{
		BaseNode: At(token.Position{}),
		Number:   &NumberLit{BaseNode: At(token.Position{}), Value: 5, Base: 10, Raw: "5"},
		Unit: &UnitExpr{
			BaseNode:  At(token.Position{}),
			Numerator: []UnitTerm{{Name: "meter", Exponent: Exponent{Num: 1, Den: 1}}},
		},
	}
	if got := CountUnitTerms(m); got != 1 {
		t.Errorf("CountUnitTerms = %d, want 1", got)
	}
}

func TestCountConversionsNestedVsComposite(t *testing.T) {
	base := &NumberLit{BaseNode: At(token.Position{}), Value: 5, Base: 10, Raw: "5"}
	nested := &ConversionExpr{
		BaseNode: At(token.Position{}),
		Source: &ConversionExpr{
			BaseNode: At(token.Position{}),
			Source:   base,
			Op:       token.TO,
			Target:   &UnitTarget{BaseNode: At(token.Position{}), Unit: &UnitExpr{BaseNode: At(token.Position{})}},
		},
		Op:     token.IN,
		Target: &UnitTarget{BaseNode: At(token.Position{}), Unit: &UnitExpr{BaseNode: At(token.Position{})}},
	}
	if got := CountConversions(nested); got != 2 {
		t.Errorf("CountConversions(nested) = %d, want 2", got)
	}

	composite := &ConversionExpr{
		BaseNode: At(token.Position{}),
		Source:   base,
		Op:       token.TO,
		Target: &CompositeUnitTarget{
			BaseNode: At(token.Position{}),
			Units:    []*UnitExpr{{BaseNode: At(token.Position{})}, {BaseNode: At(token.Position{})}},
		},
	}
	if got := CountConversions(composite); got != 1 {
		t.Errorf("CountConversions(composite) = %d, want 1", got)
	}
}

func TestExponentString(t *testing.T) {
	e := Exponent{Num: 2, Den: 1}
	if e.String() != "2" {
		t.Errorf("Exponent.String() = %q, want \"2\"", e.String())
	}
	frac := Exponent{Num: 1, Den: 2}
	if frac.String() != "1/2" {
		t.Errorf("Exponent.String() = %q, want \"1/2\"", frac.String())
	}
	if e.Negate().Num != -2 {
		t.Errorf("Negate() did not flip sign")
	}
}

func TestAssignmentString(t *testing.T) {
	a := &Assignment{
		BaseNode: At(token.Position{}),
		Name:     "x",
		Value:    &NumberLit{BaseNode: At(token.Position{}), Value: 10, Base: 10, Raw: "10"},
	}
	if got, want := a.String(), "x = 10"; got != want {
		t.Errorf("Assignment.String() = %q, want %q", got, want)
	}
}
