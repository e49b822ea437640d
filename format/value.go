package format

import (
	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

// Value renders v to its display string under cat/s, dispatching to the
// kind-specific renderer for every Value variant. This is
// the formatter's single entry point — the orchestrator never matches on
// value.Value itself.
func Value(v value.Value, cat catalog.Catalog, s Settings) string {
	switch x := v.(type) {
	case value.Number:
		return Number(x.Val, value.Precision{}, s)
	case value.Measured:
		return Measured(x, cat, s)
	case value.Composite:
		return Composite(x, cat, s)
	case value.Boolean:
		return Boolean(x)
	case value.Date:
		return Date(x, s)
	case value.Time:
		return Time(x, s)
	case value.DateTime:
		return DateTime(x, s)
	case value.Instant:
		return Instant(x, s)
	case value.ZonedDateTime:
		out, err := ZonedDateTime(x, s)
		if err != nil {
			return "Formatting Error: " + err.Error()
		}
		return out
	case value.Duration:
		return Duration(x)
	case value.Presentation:
		return Presentation(x, cat, s)
	case value.Error:
		return errorPrefix(x.ErrKind) + x.Message
	default:
		return "Error: unrenderable value"
	}
}

// errorPrefix implements the per-phase error-string prefixes: most error
// kinds render as "Error: ...", but a formatting-phase failure keeps its
// own distinct prefix so the two are distinguishable in the rendered
// output.
func errorPrefix(kind value.ErrorKind) string {
	if kind == value.ErrFormatting {
		return "Formatting Error: "
	}
	return "Error: "
}
