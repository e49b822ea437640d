// Package format implements calcline's bidirectional formatter:
// rendering a Value to its display string under a caller-chosen set of
// numeric, unit, date/time, and presentation-format settings.
package format

import "github.com/ha1tch/calcline/eval"

// GroupSize names one of the four supported digit-grouping schemes.
type GroupSize string

const (
	GroupOff        GroupSize = "off"
	GroupTriples    GroupSize = "3"
	GroupSouthAsian GroupSize = "2-3"
	GroupFours      GroupSize = "4"
)

// TimeStyle selects 12-hour or 24-hour time rendering.
type TimeStyle string

const (
	Time12h TimeStyle = "12h"
	Time24h TimeStyle = "24h"
)

// DateTimeOrder selects whether a rendered zoned/plain datetime puts the
// date or the time component first.
type DateTimeOrder string

const (
	DateThenTime DateTimeOrder = "{date} {time}"
	TimeThenDate DateTimeOrder = "{time} {date}"
)

// ImperialVariant distinguishes US from UK spellings/conventions where the
// two diverge (currently unused by any built-in unit display name, but
// threaded through for a settings-driven catalog to consult).
type ImperialVariant string

const (
	ImperialUS ImperialVariant = "us"
	ImperialUK ImperialVariant = "uk"
)

// UnitDisplay selects symbol ("m") versus long-name ("meter") rendering.
type UnitDisplay string

const (
	UnitSymbol UnitDisplay = "symbol"
	UnitName   UnitDisplay = "name"
)

// Settings is the full set of user-configurable rendering choices.
type Settings struct {
	// Precision is the default numeric precision: -1 means auto, otherwise
	// a non-negative fixed fraction-digit count.
	Precision int            `yaml:"precision"`
	AngleUnit eval.AngleUnit `yaml:"angle_unit"`

	DecimalSeparator string    `yaml:"decimal_separator"` // "." or ","
	GroupSeparator   string    `yaml:"group_separator"`   // "", narrow-no-break-space, ",", ".", "′"
	GroupSize        GroupSize `yaml:"group_size"`

	DateTemplate  string        `yaml:"date_template"` // tokens: YYYY, MM, MMM, DD, DDD
	TimeFormat    TimeStyle     `yaml:"time_format"`
	DateTimeOrder DateTimeOrder `yaml:"date_time_order"`

	ImperialVariant ImperialVariant `yaml:"imperial_variant"`
	UnitDisplay     UnitDisplay     `yaml:"unit_display"`
}

// NarrowNoBreakSpace is the default digit-grouping separator.
const NarrowNoBreakSpace = " "

// DefaultSettings returns the settings a fresh document starts from:
// auto precision, radians, dot decimal separator, narrow-no-break-space
// triples grouping, an ISO-ish date template, 24-hour time.
func DefaultSettings() Settings {
	return Settings{
		Precision:        -1,
		AngleUnit:        eval.AngleRadian,
		DecimalSeparator: ".",
		GroupSeparator:   NarrowNoBreakSpace,
		GroupSize:        GroupTriples,
		DateTemplate:     "YYYY-MM-DD DDD",
		TimeFormat:       Time24h,
		DateTimeOrder:    DateThenTime,
		ImperialVariant:  ImperialUS,
		UnitDisplay:      UnitSymbol,
	}
}

// Apply merges overlay onto s, returning a new Settings where every
// non-zero-value field of overlay replaces the corresponding field of s.
func (s Settings) Apply(overlay Settings) Settings {
	merged := s
	if overlay.Precision != 0 {
		merged.Precision = overlay.Precision
	}
	if overlay.AngleUnit != 0 {
		merged.AngleUnit = overlay.AngleUnit
	}
	if overlay.DecimalSeparator != "" {
		merged.DecimalSeparator = overlay.DecimalSeparator
	}
	if overlay.GroupSeparator != "" || overlay.GroupSize == GroupOff {
		merged.GroupSeparator = overlay.GroupSeparator
	}
	if overlay.GroupSize != "" {
		merged.GroupSize = overlay.GroupSize
	}
	if overlay.DateTemplate != "" {
		merged.DateTemplate = overlay.DateTemplate
	}
	if overlay.TimeFormat != "" {
		merged.TimeFormat = overlay.TimeFormat
	}
	if overlay.DateTimeOrder != "" {
		merged.DateTimeOrder = overlay.DateTimeOrder
	}
	if overlay.ImperialVariant != "" {
		merged.ImperialVariant = overlay.ImperialVariant
	}
	if overlay.UnitDisplay != "" {
		merged.UnitDisplay = overlay.UnitDisplay
	}
	return merged
}
