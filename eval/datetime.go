package eval

import (
	"strings"

	"github.com/ha1tch/calcline/value"
)

// durationUnitWords maps every singular/plural/abbreviated spelling a
// relative-instant literal's unit word may use to the canonical key
// chrono.DurationFromUnitAmount expects.
var durationUnitWords = map[string]string{
	"year": "year", "years": "year", "yr": "year", "yrs": "year",
	"month": "month", "months": "month", "mo": "month", "mos": "month",
	"week": "week", "weeks": "week", "wk": "week", "wks": "week",
	"day": "day", "days": "day",
	"hour": "hour", "hours": "hour", "hr": "hour", "hrs": "hour",
	"minute": "minute", "minutes": "minute", "min": "minute", "mins": "minute",
	"second": "second", "seconds": "second", "sec": "second", "secs": "second",
	"millisecond": "millisecond", "milliseconds": "millisecond", "ms": "millisecond",
}

// canonicalDurationUnit resolves a relative-instant literal's raw unit word
// to chrono's canonical duration-field key, or "" if word names neither a
// calendar nor an exact time unit (in which case the caller falls back to
// the catalog/raw-name unit lookup).
func canonicalDurationUnit(word string) string {
	return durationUnitWords[strings.ToLower(strings.TrimSpace(word))]
}

// durationFieldByUnitID maps a catalog DimTime unit id to the Duration
// field a value measured in that unit folds into. Only units the
// catalog actually registers under DimTime
// appear here; "year"/"month" have no fixed-length catalog unit and so are
// only ever reached through an explicit relative-instant literal.
var durationFieldByUnitID = map[string]func(v float64) value.Duration{
	"millisecond": func(v float64) value.Duration { return value.Duration{Milliseconds: int(v)} },
	"second":      func(v float64) value.Duration { return value.Duration{Seconds: int(v)} },
	"minute":      func(v float64) value.Duration { return value.Duration{Minutes: int(v)} },
	"hour":        func(v float64) value.Duration { return value.Duration{Hours: int(v)} },
	"day":         func(v float64) value.Duration { return value.Duration{Days: int(v)} },
	"week":        func(v float64) value.Duration { return value.Duration{Weeks: int(v)} },
}

// asDuration recognizes v directly as a Duration, or — per the implicit
// rule — folds a single-term Measured value (or a single-component
// Composite) whose unit belongs to the time dimension into a Duration. A
// multi-term Measured value (e.g. "m/s") is never a duration.
func (e *Evaluator) asDuration(v value.Value) (value.Duration, bool) {
	switch x := v.(type) {
	case value.Duration:
		return x, true
	case value.Measured:
		if len(x.Terms) != 1 || x.Terms[0].Num != 1 || x.Terms[0].Den != 1 {
			return value.Duration{}, false
		}
		mk, ok := durationFieldByUnitID[x.Terms[0].UnitID]
		if !ok {
			return value.Duration{}, false
		}
		return mk(x.Val), true
	case value.Composite:
		total := value.Duration{}
		for _, comp := range x.Components {
			mk, ok := durationFieldByUnitID[comp.UnitID]
			if !ok {
				return value.Duration{}, false
			}
			total = addDurationComponents(total, mk(comp.Val))
		}
		return total, true
	}
	return value.Duration{}, false
}

func addDurationComponents(a, b value.Duration) value.Duration {
	return value.Duration{
		Years: a.Years + b.Years, Months: a.Months + b.Months,
		Weeks: a.Weeks + b.Weeks, Days: a.Days + b.Days,
		Hours: a.Hours + b.Hours, Minutes: a.Minutes + b.Minutes,
		Seconds: a.Seconds + b.Seconds, Milliseconds: a.Milliseconds + b.Milliseconds,
	}
}
