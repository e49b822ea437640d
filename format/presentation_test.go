package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

func TestPresentationHex(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 255}, value.PresentationSpec{Kind: value.PresentHex})
	assert.Equal(t, "0xFF", Presentation(p, cat, s))
}

func TestPresentationHexNegative(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: -10}, value.PresentationSpec{Kind: value.PresentHex})
	assert.Equal(t, "0x-A", Presentation(p, cat, s))
}

func TestPresentationHexPreservesUnit(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	m := value.Measured{Val: 255, Terms: []value.Term{{UnitID: "meter", Num: 1, Den: 1}}}
	p := value.Wrap(m, value.PresentationSpec{Kind: value.PresentHex})
	got := Presentation(p, cat, s)
	assert.Contains(t, got, "0xFF")
	assert.Contains(t, got, "m")
}

func TestPresentationBinaryShift(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 40}, value.PresentationSpec{Kind: value.PresentBinary})
	assert.Equal(t, "0b101000", Presentation(p, cat, s))
}

func TestPresentationBaseN(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 35}, value.PresentationSpec{Kind: value.PresentBaseN, BaseN: 36})
	assert.Equal(t, "Z (base 36)", Presentation(p, cat, s))
}

func TestPresentationOrdinal(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 3}, value.PresentationSpec{Kind: value.PresentOrdinal})
	assert.Equal(t, "3rd", Presentation(p, cat, s))

	p2 := value.Wrap(value.Number{Val: 11}, value.PresentationSpec{Kind: value.PresentOrdinal})
	assert.Equal(t, "11th", Presentation(p2, cat, s))
}

func TestPresentationOrdinalRejectsNonInteger(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 3.5}, value.PresentationSpec{Kind: value.PresentOrdinal})
	assert.Contains(t, Presentation(p, cat, s), "Formatting Error")
}

func TestPresentationPercentage(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 0.25}, value.PresentationSpec{Kind: value.PresentPercentage})
	assert.Equal(t, "25%", Presentation(p, cat, s))
}

func TestPresentationFraction(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 1.75}, value.PresentationSpec{Kind: value.PresentFraction})
	assert.Equal(t, "1 3⁄4", Presentation(p, cat, s))
}

func TestPresentationScientific(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 1234.5}, value.PresentationSpec{Kind: value.PresentScientific, Precision: 2, HasPrec: true})
	assert.Equal(t, "1.23e+3", Presentation(p, cat, s))
}

func TestPresentationISO8601ZonedStripsBracketAndNormalizesZ(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	z := value.ZonedDateTime{
		DateTime: value.DateTime{Date: value.Date{Year: 2023, Month: 1, Day: 1}, Time: value.Time{Hour: 0}},
		Zone:     "UTC",
	}
	p := value.Wrap(z, value.PresentationSpec{Kind: value.PresentISO8601})
	assert.Equal(t, "2023-01-01T00:00:00Z", Presentation(p, cat, s))
}

func TestPresentationRFC9557IncludesZoneAnnotation(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	z := value.ZonedDateTime{
		DateTime: value.DateTime{Date: value.Date{Year: 2023, Month: 1, Day: 1}, Time: value.Time{Hour: 0}},
		Zone:     "UTC",
	}
	p := value.Wrap(z, value.PresentationSpec{Kind: value.PresentRFC9557})
	assert.Equal(t, "2023-01-01T00:00:00Z[UTC]", Presentation(p, cat, s))
}

func TestPresentationUnixOnInstant(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Instant{Millis: 1700000000123}, value.PresentationSpec{Kind: value.PresentUnix})
	assert.Equal(t, "1700000000", Presentation(p, cat, s))

	pm := value.Wrap(value.Instant{Millis: 1700000000123}, value.PresentationSpec{Kind: value.PresentUnixMillis})
	assert.Equal(t, "1700000000123", Presentation(pm, cat, s))
}

func TestPresentationUnixOnNonDateTimeIsError(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Boolean{Val: true}, value.PresentationSpec{Kind: value.PresentUnix})
	assert.Contains(t, Presentation(p, cat, s), "Error")
}

func TestDecimalB10PreservesUnitsWithNoPrecisionHint(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	m := value.Measured{Val: 3.14159, Terms: []value.Term{{UnitID: "meter", Num: 1, Den: 1}}}
	p := value.Wrap(m, value.PresentationSpec{Kind: value.PresentDecimalB10})
	got := Presentation(p, cat, s)
	assert.Contains(t, got, "m")
}

func TestDecimalB10AppliesSigFigsHint(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	p := value.Wrap(value.Number{Val: 3.14159}, value.PresentationSpec{Kind: value.PresentDecimalB10, BaseN: -1, Precision: 3, HasPrec: true})
	got := Presentation(p, cat, s)
	require.NotEmpty(t, got)
	assert.Equal(t, "3.14", got)
}
