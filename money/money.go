// Package money implements calcline's currency converter: cross-rate
// conversion through a base currency, backed by a copy-on-write exchange
// rate snapshot.
package money

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

// Snapshot is one immutable, published set of exchange rates valid at a
// date.
type Snapshot struct {
	Date  time.Time
	Base  string
	Rates map[string]float64 // code -> rate relative to Base; Base itself is implicit 1
}

// RateOf returns the snapshot's rate for code, treating the base currency
// as rate 1 even though it is never stored explicitly.
func (s *Snapshot) RateOf(code string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	if code == s.Base {
		return 1, true
	}
	r, ok := s.Rates[code]
	return r, ok
}

// Converter cross-converts currency-dimensioned measured values using the
// most recently published Snapshot. A re-load atomically swaps the
// pointer: readers in flight keep working against the snapshot they
// already loaded, and no reader ever observes a half-built map.
type Converter struct {
	cat      catalog.Catalog
	snapshot atomic.Pointer[Snapshot]
}

// New builds a Converter with no snapshot loaded; conversions fail with
// CurrencyError until Load publishes one.
func New(cat catalog.Catalog) *Converter {
	return &Converter{cat: cat}
}

// Load builds a new snapshot from raw rate data and publishes it
// atomically, replacing whatever snapshot (if any) came before.
func (c *Converter) Load(date time.Time, base string, rates map[string]float64) error {
	base = normalizeCode(base)
	if _, ok := c.cat.CurrencyByCode(base); !ok {
		return errors.Errorf("exchange rate snapshot: unknown base currency %q", base)
	}
	cleaned := make(map[string]float64, len(rates))
	for code, rate := range rates {
		code = normalizeCode(code)
		if _, ok := c.cat.CurrencyByCode(code); !ok {
			return errors.Errorf("exchange rate snapshot: unknown currency code %q", code)
		}
		cleaned[code] = rate
	}
	snap := &Snapshot{Date: date, Base: base, Rates: cleaned}
	c.snapshot.Store(snap)
	return nil
}

// Current returns the most recently published snapshot, or nil if none has
// been loaded yet.
func (c *Converter) Current() *Snapshot {
	return c.snapshot.Load()
}

func normalizeCode(code string) string {
	out := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		out = append(out, ch)
	}
	return string(out)
}

// Convert converts a currency-dimensioned measured value v to
// targetCode. The value must carry exactly one unit term whose
// catalog unit's dimension is an unambiguous currency dimension
// ("currency:<CODE>"); ambiguous-symbol currencies (dimension
// "currency_symbol:<glyph>") always fail with AmbiguousCurrencyError,
// even when converting to themselves, since the source amount's real
// currency is unknown.
func (c *Converter) Convert(v value.Measured, targetCode string) value.Value {
	if len(v.Terms) != 1 || v.Terms[0].Num != 1 || v.Terms[0].Den != 1 {
		return value.Errf(value.ErrType, "currency conversion requires a single simple currency term")
	}
	sourceUnit, ok := c.cat.UnitByID(v.Terms[0].UnitID)
	if !ok {
		return value.Errf(value.ErrType, "unknown unit %q", v.Terms[0].UnitID)
	}
	sourceCode, ok := unambiguousCurrencyCode(sourceUnit.DimensionID)
	if !ok {
		return value.Error{ErrKind: value.ErrAmbiguousCurrency, Message: "ambiguous currency symbol cannot be converted"}
	}

	targetCode = normalizeCode(targetCode)
	targetCurrency, ok := c.cat.CurrencyByCode(targetCode)
	if !ok {
		return value.Errf(value.ErrCurrency, "unknown currency code %q", targetCode)
	}

	snap := c.snapshot.Load()
	if snap == nil {
		return value.Errf(value.ErrCurrency, "no exchange rate snapshot loaded")
	}
	fromRate, ok := snap.RateOf(sourceCode)
	if !ok {
		return value.Errf(value.ErrCurrency, "no exchange rate for %q", sourceCode)
	}
	toRate, ok := snap.RateOf(targetCode)
	if !ok {
		return value.Errf(value.ErrCurrency, "no exchange rate for %q", targetCode)
	}

	converted := v.Val * (toRate / fromRate)
	targetUnitID := CurrencyUnitID(targetCode)
	return value.Measured{
		Val:   converted,
		Terms: []value.Term{{UnitID: targetUnitID, Num: 1, Den: 1}},
		Precision: value.Precision{
			Mode:  value.PrecisionDecimals,
			Count: targetCurrency.Digits,
		},
	}
}

// CurrencyUnitID is the catalog unit id convention for an unambiguous
// ISO-4217 currency code, e.g. CurrencyUnitID("usd") == "currency:USD".
func CurrencyUnitID(code string) string {
	return "currency:" + normalizeCode(code)
}

// CurrencySymbolUnitID is the catalog unit id convention for an ambiguous
// currency symbol, e.g. CurrencySymbolUnitID("$") == "currency_symbol:$".
func CurrencySymbolUnitID(symbol string) string {
	return "currency_symbol:" + symbol
}

func unambiguousCurrencyCode(dimensionID string) (string, bool) {
	const prefix = "currency:"
	if len(dimensionID) > len(prefix) && dimensionID[:len(prefix)] == prefix {
		return dimensionID[len(prefix):], true
	}
	return "", false
}
