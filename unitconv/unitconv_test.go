package unitconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

func TestConvertSimpleLength(t *testing.T) {
	c := New(catalog.Builtin())
	km := value.Measured{Val: 5, Terms: []value.Term{{UnitID: "kilometer", Num: 1, Den: 1}}}

	got := c.Convert(km, "meter")
	measured, ok := got.(value.Measured)
	require.True(t, ok, "expected Measured, got %T (%v)", got, got)
	assert.InDelta(t, 5000, measured.Val, 1e-9)
	assert.Equal(t, "meter", measured.Terms[0].UnitID)
}

func TestConvertTemperatureOffset(t *testing.T) {
	c := New(catalog.Builtin())
	freezing := value.Measured{Val: 0, Terms: []value.Term{{UnitID: "celsius", Num: 1, Den: 1}}}

	got := c.Convert(freezing, "fahrenheit")
	measured, ok := got.(value.Measured)
	require.True(t, ok)
	assert.InDelta(t, 32, measured.Val, 1e-6)
}

func TestConvertUnknownUnitErrors(t *testing.T) {
	c := New(catalog.Builtin())
	v := value.Measured{Val: 1, Terms: []value.Term{{UnitID: "meter", Num: 1, Den: 1}}}
	got := c.Convert(v, "nonexistent")
	assert.True(t, value.IsError(got))
}

func TestConvertDerivedPreservesOtherTerms(t *testing.T) {
	c := New(catalog.Builtin())
	// 1 mile/hour expressed with a distance term in miles and a time term
	// in hours; converting only the distance term to kilometers should
	// leave the /hour term untouched.
	mph := value.Measured{
		Val: 60,
		Terms: []value.Term{
			{UnitID: "mile", Num: 1, Den: 1},
			{UnitID: "hour", Num: -1, Den: 1},
		},
	}
	got := c.Convert(mph, "kilometer")
	measured, ok := got.(value.Measured)
	require.True(t, ok, "expected Measured, got %T (%v)", got, got)
	require.Len(t, measured.Terms, 2)
	assert.Equal(t, "kilometer", measured.Terms[0].UnitID)
	assert.Equal(t, "hour", measured.Terms[1].UnitID)
}

func TestConvertCompositeFeetInches(t *testing.T) {
	c := New(catalog.Builtin())
	composite := value.Composite{Components: []value.CompositeComponent{
		{Val: 5, UnitID: "foot"},
		{Val: 3, UnitID: "inch"},
	}}
	got := c.ConvertComposite(composite, "centimeter")
	measured, ok := got.(value.Measured)
	require.True(t, ok, "expected Measured, got %T (%v)", got, got)
	assert.InDelta(t, 160.02, measured.Val, 0.05)
}

func TestSameDimension(t *testing.T) {
	c := New(catalog.Builtin())
	meters := []value.Term{{UnitID: "meter", Num: 1, Den: 1}}
	feet := []value.Term{{UnitID: "foot", Num: 1, Den: 1}}
	seconds := []value.Term{{UnitID: "second", Num: 1, Den: 1}}

	assert.True(t, c.SameDimension(meters, feet))
	assert.False(t, c.SameDimension(meters, seconds))
}
