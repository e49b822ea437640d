package calcline

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/ha1tch/calcline/format"
)

// ExchangeRateSnapshot is the on-disk/wire rate-snapshot shape: a table for
// every loaded currency relative to Base, valid as of Date. The base
// currency's own rate is implicit 1 and need not appear in Rates.
type ExchangeRateSnapshot struct {
	Date  string             `json:"date"`
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (s ExchangeRateSnapshot) parseDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing snapshot date %q", s.Date)
	}
	return t, nil
}

// ParseExchangeRateSnapshot decodes a rate-snapshot JSON document.
func ParseExchangeRateSnapshot(data []byte) (ExchangeRateSnapshot, error) {
	var s ExchangeRateSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return ExchangeRateSnapshot{}, errors.Wrap(err, "json.Unmarshal")
	}
	return s, nil
}

// localeOverlay returns the Settings overlay a region code determines:
// decimal/grouping separator conventions and
// the imperial-units variant. Unrecognized regions return a zero overlay,
// which Settings.Apply leaves as a no-op.
func localeOverlay(region string) format.Settings {
	switch region {
	case "US", "us", "en-US":
		return format.Settings{DecimalSeparator: ".", GroupSeparator: ",", GroupSize: format.GroupTriples, ImperialVariant: format.ImperialUS}
	case "GB", "uk", "en-GB":
		return format.Settings{DecimalSeparator: ".", GroupSeparator: ",", GroupSize: format.GroupTriples, ImperialVariant: format.ImperialUK}
	case "DE", "de", "FR", "fr", "ES", "es", "IT", "it":
		return format.Settings{DecimalSeparator: ",", GroupSeparator: ".", GroupSize: format.GroupTriples}
	case "IN", "in", "en-IN":
		return format.Settings{DecimalSeparator: ".", GroupSeparator: ",", GroupSize: format.GroupSouthAsian}
	case "CH", "ch":
		return format.Settings{DecimalSeparator: ".", GroupSeparator: "'", GroupSize: format.GroupTriples}
	default:
		return format.Settings{}
	}
}
