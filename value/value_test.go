package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStrings(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindNumber, "number"},
		{KindMeasured, "measured"},
		{KindDuration, "duration"},
		{KindError, "error"},
		{Kind(999), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.k.String())
	}
}

func TestIsErrorAndFirstError(t *testing.T) {
	ok := Number{Val: 1}
	bad := Errf(ErrType, "dimension mismatch")

	assert.False(t, IsError(ok))
	assert.True(t, IsError(bad))

	e, found := FirstError(ok, bad, Number{Val: 2})
	require.True(t, found)
	assert.Equal(t, ErrType, e.ErrKind)

	_, found = FirstError(ok, Number{Val: 2})
	assert.False(t, found)
}

func TestPresentationNeverNests(t *testing.T) {
	inner := Measured{Val: 255, Terms: []Term{{UnitID: "meter", Num: 1, Den: 1}}}
	once := Wrap(inner, PresentationSpec{Kind: PresentHex})
	twice := Wrap(once, PresentationSpec{Kind: PresentOrdinal})

	require.IsType(t, Measured{}, twice.Inner)
	assert.Equal(t, PresentOrdinal, twice.Spec.Kind)
}

func TestDurationClassification(t *testing.T) {
	dateOnly := Duration{Years: 1, Days: 2}
	timeOnly := Duration{Hours: 3}
	mixed := Duration{Days: 1, Hours: 1}

	assert.True(t, dateOnly.IsDateOnly())
	assert.False(t, dateOnly.IsTimeOnly())

	assert.True(t, timeOnly.IsTimeOnly())
	assert.False(t, timeOnly.IsDateOnly())

	assert.False(t, mixed.IsDateOnly())
	assert.False(t, mixed.IsTimeOnly())

	assert.True(t, Duration{}.IsZero())
	assert.False(t, mixed.IsZero())

	assert.Equal(t, Duration{Years: -1, Days: -2}, dateOnly.Negate())
}

func TestCanonicalDimensionMerges(t *testing.T) {
	dimOf := func(id string) (string, bool) {
		switch id {
		case "meter", "foot":
			return "length", true
		case "second":
			return "time", true
		}
		return "", false
	}

	// meter/second^2 * second => meter/second
	terms := []Term{
		{UnitID: "meter", Num: 1, Den: 1},
		{UnitID: "second", Num: -2, Den: 1},
		{UnitID: "second", Num: 1, Den: 1},
	}
	got := CanonicalDimension(terms, dimOf)
	require.Len(t, got, 2)

	byDim := map[string]DimTerm{}
	for _, d := range got {
		byDim[d.DimensionID] = d
	}
	assert.Equal(t, 1, byDim["length"].Num)
	assert.Equal(t, -1, byDim["time"].Num)
}

func TestDimensionsEqualAsMultisets(t *testing.T) {
	a := []DimTerm{{DimensionID: "length", Num: 1, Den: 1}, {DimensionID: "time", Num: -1, Den: 1}}
	b := []DimTerm{{DimensionID: "time", Num: -1, Den: 1}, {DimensionID: "length", Num: 1, Den: 1}}
	c := []DimTerm{{DimensionID: "length", Num: 2, Den: 1}}

	assert.True(t, DimensionsEqual(a, b))
	assert.False(t, DimensionsEqual(a, c))
}

func TestMultiplyDivideScaleTerms(t *testing.T) {
	meter := Term{UnitID: "meter", Num: 1, Den: 1}
	second := Term{UnitID: "second", Num: 1, Den: 1}

	product := MultiplyTerms([]Term{meter}, []Term{second})
	assert.Equal(t, []Term{meter, second}, product)

	quotient := DivideTerms([]Term{meter}, []Term{second})
	assert.Equal(t, []Term{meter, {UnitID: "second", Num: -1, Den: 1}}, quotient)

	scaled := ScaleExponents([]Term{{UnitID: "meter", Num: 1, Den: 1}}, 2, 1)
	require.Len(t, scaled, 1)
	assert.Equal(t, 2, scaled[0].Num)
}

func TestSimplifyTermsMergesAndDrops(t *testing.T) {
	terms := []Term{
		{UnitID: "meter", Num: 1, Den: 1},
		{UnitID: "second", Num: -1, Den: 1},
		{UnitID: "meter", Num: -1, Den: 1},
	}
	got := SimplifyTerms(terms)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].UnitID)
	assert.Equal(t, -1, got[0].Num)
}
