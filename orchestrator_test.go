package calcline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/format"
)

func TestCalculateSimpleExpression(t *testing.T) {
	o := New(catalog.Builtin())
	result := o.Calculate("1 + 2")
	require.Len(t, result.Lines, 1)
	assert.Equal(t, LineExpression, result.Lines[0].Kind)
	assert.Equal(t, "3", result.Lines[0].Formatted)
	assert.False(t, result.Lines[0].HasError)
}

func TestCalculateAssignmentCarriesAcrossLines(t *testing.T) {
	o := New(catalog.Builtin())
	result := o.Calculate("x = 10 m\nx + 20 cm")
	require.Len(t, result.Lines, 2)
	assert.Equal(t, LineAssignment, result.Lines[0].Kind)
	assert.Equal(t, LineExpression, result.Lines[1].Kind)
	assert.Contains(t, result.Lines[1].Formatted, "10.2")
}

func TestCalculateHeadingAndEmptyLines(t *testing.T) {
	o := New(catalog.Builtin())
	result := o.Calculate("# Title\n\n1 + 1")
	require.Len(t, result.Lines, 3)
	assert.Equal(t, LineHeading, result.Lines[0].Kind)
	assert.Equal(t, "Title", result.Lines[0].HeadingText)
	assert.Equal(t, LineEmpty, result.Lines[1].Kind)
	assert.Equal(t, LineExpression, result.Lines[2].Kind)
}

func TestCalculateUndefinedVariableIsRuntimeError(t *testing.T) {
	o := New(catalog.Builtin())
	result := o.Calculate("totally_unknown_name_xyz")
	require.Len(t, result.Lines, 1)
	assert.True(t, result.Lines[0].HasError)
	assert.Contains(t, result.Lines[0].Formatted, "Error:")
}

func TestParseSkipsEvaluation(t *testing.T) {
	o := New(catalog.Builtin())
	result := o.Parse("1 + 2")
	require.Len(t, result.Trees, 1)
	assert.Nil(t, result.Trees[0].Value)
	assert.NotNil(t, result.Trees[0].Tree)
}

func TestLoadExchangeRatesThenConvert(t *testing.T) {
	o := New(catalog.Builtin())
	err := o.LoadExchangeRates(ExchangeRateSnapshot{
		Date: "2024-01-01",
		Base: "USD",
		Rates: map[string]float64{
			"USD": 1,
			"EUR": 0.85,
		},
	})
	require.NoError(t, err)

	result := o.Calculate("100 USD to EUR")
	require.Len(t, result.Lines, 1)
	assert.Contains(t, result.Lines[0].Formatted, "EUR")
	assert.False(t, result.Lines[0].HasError)
}

func TestSetUserLocaleAppliesOverlay(t *testing.T) {
	o := New(catalog.Builtin())
	before := o.Settings.DecimalSeparator
	o.SetUserLocale("DE")
	assert.Equal(t, ",", o.Settings.DecimalSeparator)
	assert.NotEqual(t, before, o.Settings.DecimalSeparator)
}

func TestDocumentIDIsStablePerOrchestrator(t *testing.T) {
	o := New(catalog.Builtin())
	first := o.Calculate("1").DocumentID
	second := o.Calculate("2").DocumentID
	assert.Equal(t, first, second)
	assert.Equal(t, o.DocumentID, first)
}

func TestCalculateScenarios(t *testing.T) {
	sep := format.NarrowNoBreakSpace
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nested unit conversion", "5 km to m to cm", "500" + sep + "000 cm"},
		{"composite to single unit", "5 ft 3 in to cm", "160.02 cm"},
		{"hex presentation", "255 to hex", "0xFF"},
		{"hex preserves units", "255 meters to hex", "0xFF m"},
		{"shift then binary", "0b1010 << 2 to binary", "0b101000"},
		{"percentage literal", "100 * 25%", "25"},
		{"minor digits three", "10 KWD", "10.000 KWD"},
		{"minor digits zero with grouping", "10000 KRW", "10" + sep + "000 KRW"},
		{"ordinal", "3 to ordinal", "3rd"},
		{"conversion round trip", "5 km to m to km", "5 km"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(catalog.Builtin())
			result := o.Calculate(tt.input)
			require.Len(t, result.Lines, 1)
			assert.Equal(t, tt.want, result.Lines[0].Formatted)
			assert.False(t, result.Lines[0].HasError)
		})
	}
}

func TestCalculateCrossCurrencyAddition(t *testing.T) {
	o := New(catalog.Builtin())
	require.NoError(t, o.LoadExchangeRates(ExchangeRateSnapshot{
		Date:  "2024-01-01",
		Base:  "USD",
		Rates: map[string]float64{"EUR": 0.85},
	}))
	result := o.Calculate("100 USD + 50 EUR")
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "158.82 USD", result.Lines[0].Formatted)
}

func TestCalculateZonedDateTimeLiteral(t *testing.T) {
	o := New(catalog.Builtin())
	result := o.Calculate("2023 Jan 01 14:00 America/New_York")
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "2023-01-01 Sun 14:00 UTC-5", result.Lines[0].Formatted)
	assert.False(t, result.Lines[0].HasError)
}

func TestParseExchangeRateSnapshotRoundTrip(t *testing.T) {
	data := []byte(`{"date":"2024-06-01","base":"USD","rates":{"EUR":0.9,"JPY":150}}`)
	snapshot, err := ParseExchangeRateSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, "USD", snapshot.Base)
	assert.Equal(t, 0.9, snapshot.Rates["EUR"])

	d, err := snapshot.parseDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)
}
