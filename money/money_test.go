package money

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

func TestConvertBeforeLoadIsCurrencyError(t *testing.T) {
	c := New(catalog.Builtin())
	usd := value.Measured{Val: 100, Terms: []value.Term{{UnitID: CurrencyUnitID("USD"), Num: 1, Den: 1}}}
	got := c.Convert(usd, "EUR")
	e, ok := got.(value.Error)
	require.True(t, ok)
	assert.Equal(t, value.ErrCurrency, e.ErrKind)
}

func TestConvertUSDToEUR(t *testing.T) {
	c := New(catalog.Builtin())
	require.NoError(t, c.Load(time.Unix(0, 0), "USD", map[string]float64{"EUR": 0.85}))

	usd := value.Measured{Val: 100, Terms: []value.Term{{UnitID: CurrencyUnitID("USD"), Num: 1, Den: 1}}}
	got := c.Convert(usd, "EUR")
	measured, ok := got.(value.Measured)
	require.True(t, ok, "expected Measured, got %T (%v)", got, got)
	assert.InDelta(t, 85, measured.Val, 1e-9)
	assert.Equal(t, CurrencyUnitID("EUR"), measured.Terms[0].UnitID)
	assert.Equal(t, value.PrecisionDecimals, measured.Precision.Mode)
	assert.Equal(t, 2, measured.Precision.Count)
}

func TestConvertAmbiguousSymbolFails(t *testing.T) {
	c := New(catalog.Builtin())
	require.NoError(t, c.Load(time.Unix(0, 0), "USD", map[string]float64{"EUR": 0.85}))

	dollarSign := value.Measured{Val: 5, Terms: []value.Term{{UnitID: CurrencySymbolUnitID("$"), Num: 1, Den: 1}}}
	got := c.Convert(dollarSign, "EUR")
	e, ok := got.(value.Error)
	require.True(t, ok)
	assert.Equal(t, value.ErrAmbiguousCurrency, e.ErrKind)
}

func TestLoadRejectsUnknownCode(t *testing.T) {
	c := New(catalog.Builtin())
	err := c.Load(time.Unix(0, 0), "USD", map[string]float64{"ZZZ": 1})
	assert.Error(t, err)
}

func TestSnapshotPublishIsAtomic(t *testing.T) {
	c := New(catalog.Builtin())
	require.NoError(t, c.Load(time.Unix(0, 0), "USD", map[string]float64{"EUR": 0.85}))
	first := c.Current()
	require.NoError(t, c.Load(time.Unix(1, 0), "USD", map[string]float64{"EUR": 0.90}))
	second := c.Current()

	assert.NotSame(t, first, second)
	rate, _ := first.RateOf("EUR")
	assert.InDelta(t, 0.85, rate, 1e-9)
	rate, _ = second.RateOf("EUR")
	assert.InDelta(t, 0.90, rate, 1e-9)
}
