package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/chrono"
	"github.com/ha1tch/calcline/value"
)

// Presentation renders a Presentation-wrapped value per its spec:
// every target is a pure rendering of the wrapped value, never a mutation
// of it.
func Presentation(p value.Presentation, cat catalog.Catalog, s Settings) string {
	switch p.Spec.Kind {
	case value.PresentBinary:
		return baseWithPrefix(p.Inner, cat, s, 2, "0b", false)
	case value.PresentOctal:
		return baseWithPrefix(p.Inner, cat, s, 8, "0o", false)
	case value.PresentHex:
		return baseWithPrefix(p.Inner, cat, s, 16, "0x", true)
	case value.PresentBaseN:
		return baseWithSuffix(p.Inner, cat, s, p.Spec.BaseN)
	case value.PresentDecimalB10:
		return decimalB10Of(p.Inner, cat, s, p.Spec)
	case value.PresentFraction:
		return fractionOf(p.Inner, cat, s)
	case value.PresentScientific:
		return scientificOf(p.Inner, cat, s, p.Spec)
	case value.PresentPercentage:
		return percentageOf(p.Inner, s, p.Spec)
	case value.PresentOrdinal:
		return ordinalOf(p.Inner)
	case value.PresentISO8601:
		return iso8601Of(p.Inner)
	case value.PresentRFC9557:
		return rfc9557Of(p.Inner)
	case value.PresentRFC2822:
		return rfc2822Of(p.Inner, s)
	case value.PresentUnix:
		return unixOf(p.Inner, false)
	case value.PresentUnixMillis:
		return unixOf(p.Inner, true)
	default:
		return "Error: unhandled presentation target"
	}
}

// numericPart extracts the float and unit terms (nil if none) a
// presentation target renders over; non-numeric inner values report false.
func numericPart(v value.Value) (x float64, terms []value.Term, ok bool) {
	switch n := v.(type) {
	case value.Number:
		return n.Val, nil, true
	case value.Measured:
		return n.Val, n.Terms, true
	}
	return 0, nil, false
}

func unitSuffix(terms []value.Term, cat catalog.Catalog, s Settings) string {
	if len(terms) == 0 {
		return ""
	}
	u := UnitExpr(terms, cat, s)
	return unitSpacing(u) + u
}

// baseWithPrefix renders x in base 2/8/16 with a Unicode radix prefix,
// uppercase digits when upper is set, and fractional-part support.
// Negative values render prefix-first, sign-second:
// "0x-A".
func baseWithPrefix(v value.Value, cat catalog.Catalog, s Settings, base int, prefix string, upper bool) string {
	x, terms, ok := numericPart(v)
	if !ok {
		return "Error: base conversion requires a numeric value"
	}
	digits := baseDigits(x, base, upper)
	return prefix + digits + unitSuffix(terms, cat, s)
}

// baseWithSuffix renders x in bases 3-36 (excluding 10) with a trailing
// " (base N)" annotation.
func baseWithSuffix(v value.Value, cat catalog.Catalog, s Settings, base int) string {
	x, terms, ok := numericPart(v)
	if !ok {
		return "Error: base conversion requires a numeric value"
	}
	digits := baseDigits(x, base, true)
	return digits + fmt.Sprintf(" (base %d)", base) + unitSuffix(terms, cat, s)
}

// baseDigits converts x to base (2-36), sign first, with a fractional part
// after "." when x is not integral. Fractional digits are capped at 20 to
// guarantee termination for bases that cannot exactly represent x.
func baseDigits(x float64, base int, upper bool) string {
	neg := x < 0
	if neg {
		x = -x
	}
	intPart := math.Trunc(x)
	frac := x - intPart

	s := strconv.FormatInt(int64(intPart), base)
	if upper {
		s = strings.ToUpper(s)
	}
	if frac > 0 {
		var fb strings.Builder
		for i := 0; i < 20 && frac > 1e-12; i++ {
			frac *= float64(base)
			d := int(math.Trunc(frac))
			frac -= float64(d)
			fb.WriteString(strconv.FormatInt(int64(d), base))
		}
		fracStr := fb.String()
		if upper {
			fracStr = strings.ToUpper(fracStr)
		}
		s += "." + fracStr
	}
	if neg {
		s = "-" + s
	}
	return s
}

// decimalB10Of renders the wrapped value as a plain base-10 number,
// applying a decimals/sig-figs precision override when the spec carries
// one (the `to N decimals`/`to N sig figs` conversions route through this
// target, see presentationSpec in package eval). A Measured value keeps
// its unit suffix either way.
func decimalB10Of(v value.Value, cat catalog.Catalog, s Settings, spec value.PresentationSpec) string {
	if !spec.HasPrec {
		return Value(v, cat, s)
	}
	mode := value.PrecisionDecimals
	if spec.BaseN == -1 {
		mode = value.PrecisionSigFigs
	}
	prec := value.Precision{Mode: mode, Count: spec.Precision}
	switch x := v.(type) {
	case value.Number:
		return Number(x.Val, prec, s)
	case value.Measured:
		x.Precision = prec
		return Measured(x, cat, s)
	default:
		return Value(v, cat, s)
	}
}

// fractionOf renders x as a best rational approximation via continued
// fractions capped at denominator 1000, rendered as an
// optional integer part plus a Unicode-fraction-slash proper fraction.
func fractionOf(v value.Value, cat catalog.Catalog, s Settings) string {
	x, terms, ok := numericPart(v)
	if !ok {
		return "Error: fraction requires a numeric value"
	}
	whole, num, den := continuedFraction(x, 1000)
	var out string
	switch {
	case num == 0:
		out = strconv.Itoa(whole)
	case whole == 0:
		out = fmt.Sprintf("%d⁄%d", num, den)
	default:
		out = fmt.Sprintf("%d %d⁄%d", whole, num, den)
	}
	return out + unitSuffix(terms, cat, s)
}

// continuedFraction finds whole + num/den approximating x with
// den <= maxDen, using the standard continued-fraction convergent search.
// Denominator overflow silently returns the best convergent found.
func continuedFraction(x float64, maxDen int) (whole, num, den int) {
	neg := x < 0
	if neg {
		x = -x
	}
	whole = int(math.Floor(x))
	frac := x - float64(whole)
	if frac < 1e-12 {
		if neg && whole != 0 {
			whole = -whole
		}
		return whole, 0, 1
	}

	h0, h1 := 0, 1
	k0, k1 := 1, 0
	f := frac
	for i := 0; i < 64; i++ {
		a := math.Floor(f)
		ai := int(a)
		h2 := ai*h1 + h0
		k2 := ai*k1 + k0
		if k2 > maxDen {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		rem := f - a
		if rem < 1e-10 {
			break
		}
		f = 1 / rem
	}
	num, den = h1, k1
	if den == 0 {
		den = 1
	}
	if neg {
		if whole == 0 {
			num = -num
		} else {
			whole = -whole
		}
	}
	return whole, num, den
}

// scientificOf renders x via toExponential at the configured precision.
func scientificOf(v value.Value, cat catalog.Catalog, s Settings, spec value.PresentationSpec) string {
	x, terms, ok := numericPart(v)
	if !ok {
		return "Error: scientific requires a numeric value"
	}
	prec := spec.Precision
	if !spec.HasPrec || prec < 0 {
		prec = 9
	}
	return forceExponential(x, prec) + unitSuffix(terms, cat, s)
}

func forceExponential(x float64, n int) string {
	str := strconv.FormatFloat(x, 'e', n, 64)
	mantissa, exp, ok := splitExponential(str)
	if !ok {
		return str
	}
	return mantissa + "e" + expSign(exp) + strconv.Itoa(abs(exp))
}

// percentageOf multiplies x by 100 and appends "%".
func percentageOf(v value.Value, s Settings, spec value.PresentationSpec) string {
	x, _, ok := numericPart(v)
	if !ok {
		return "Error: percentage requires a numeric value"
	}
	prec := value.Precision{}
	if spec.HasPrec && spec.Precision >= 0 {
		prec = value.Precision{Mode: value.PrecisionDecimals, Count: spec.Precision}
	}
	overridden := s
	if !spec.HasPrec {
		overridden.Precision = s.Precision
	}
	return Number(x*100, prec, overridden) + "%"
}

// ordinalOf renders an integer with its English ordinal suffix;
// non-integers are a FormattingError.
func ordinalOf(v value.Value) string {
	x, _, ok := numericPart(v)
	if !ok {
		return "Error: ordinal requires a numeric value"
	}
	if x != math.Trunc(x) {
		return "Formatting Error: ordinal requires an integer value"
	}
	n := int64(x)
	return strconv.FormatInt(n, 10) + ordinalSuffix(n)
}

// ordinalSuffix implements the English plural-rule categories (st, nd, rd,
// th), including the 11/12/13 exception. Negative integers have no
// obvious single reading; the magnitude's suffix is used.
func ordinalSuffix(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if abs%100 >= 11 && abs%100 <= 13 {
		return "th"
	}
	switch abs % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func asDateTimeLike(v value.Value) (value.DateTime, bool) {
	switch x := v.(type) {
	case value.DateTime:
		return x, true
	case value.Date:
		return value.DateTime{Date: x}, true
	case value.Time:
		return value.DateTime{Date: chrono.TodayDate(time.Local), Time: x}, true
	case value.Instant:
		return chrono.InstantToUTCDateTime(x), true
	case value.ZonedDateTime:
		return x.DateTime, true
	}
	return value.DateTime{}, false
}

// iso8601Of renders a standard ISO 8601 string; for a zoned datetime the
// bracketed zone annotation is stripped and a zero offset normalizes to
// "Z".
func iso8601Of(v value.Value) string {
	if z, ok := v.(value.ZonedDateTime); ok {
		hours, minutes, err := chrono.ZoneOffset(z)
		if err != nil {
			return "Formatting Error: " + err.Error()
		}
		return isoDateTime(z.DateTime) + isoOffset(hours, minutes)
	}
	dt, ok := asDateTimeLike(v)
	if !ok {
		return "Formatting Error: ISO 8601 is not defined for this value"
	}
	return isoDateTime(dt)
}

func isoDateTime(dt value.DateTime) string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", dt.Date.Year, dt.Date.Month, dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second)
}

func isoOffset(hours, minutes int) string {
	if hours == 0 && minutes == 0 {
		return "Z"
	}
	sign := "+"
	h := hours
	if hours < 0 {
		sign = "-"
		h = -hours
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, h, minutes)
}

// rfc9557Of renders RFC 9557 (ISO 8601 plus a bracketed IANA zone
// annotation); non-zoned values fall back to plain ISO 8601.
func rfc9557Of(v value.Value) string {
	z, ok := v.(value.ZonedDateTime)
	if !ok {
		return iso8601Of(v)
	}
	hours, minutes, err := chrono.ZoneOffset(z)
	if err != nil {
		return "Formatting Error: " + err.Error()
	}
	return isoDateTime(z.DateTime) + isoOffset(hours, minutes) + "[" + z.Zone + "]"
}

// rfc2822Of upgrades a bare value to a zoned datetime (adding the local
// zone when missing) and renders "Day, DD Mon YYYY HH:MM:SS ±HHMM".
// A bare PlainTime is anchored to today's local date, evaluated
// at format time.
func rfc2822Of(v value.Value, s Settings) string {
	var z value.ZonedDateTime
	switch x := v.(type) {
	case value.ZonedDateTime:
		z = x
	case value.DateTime:
		z = value.ZonedDateTime{DateTime: x, Zone: "Local"}
	case value.Date:
		z = value.ZonedDateTime{DateTime: value.DateTime{Date: x}, Zone: "Local"}
	case value.Time:
		today := chrono.TodayDate(time.Local)
		z = value.ZonedDateTime{DateTime: value.DateTime{Date: today, Time: x}, Zone: "Local"}
	case value.Instant:
		local, err := chrono.InstantToZoned(x, "Local")
		if err != nil {
			return "Formatting Error: " + err.Error()
		}
		z = local
	default:
		return "Formatting Error: RFC 2822 is not defined for this value"
	}

	hours, minutes, err := chrono.ZoneOffset(z)
	if err != nil {
		return "Formatting Error: " + err.Error()
	}
	weekday := chrono.WeekdayAbbrev(z.DateTime.Date)
	sign := "+"
	h := hours
	if hours < 0 {
		sign = "-"
		h = -hours
		minutes = -minutes
	}
	return fmt.Sprintf("%s, %02d %s %04d %02d:%02d:%02d %s%02d%02d",
		weekday, z.DateTime.Date.Day, monthName(z.DateTime.Date.Month), z.DateTime.Date.Year,
		z.DateTime.Time.Hour, z.DateTime.Time.Minute, z.DateTime.Time.Second, sign, h, minutes)
}

// unixOf renders a datetime-like value as seconds or milliseconds since
// the epoch; non-datetime targets are a RuntimeError.
func unixOf(v value.Value, millis bool) string {
	var instantMillis int64
	switch x := v.(type) {
	case value.Instant:
		instantMillis = x.Millis
	case value.DateTime:
		instantMillis = chrono.UTCDateTimeToInstant(x).Millis
	case value.Date:
		instantMillis = chrono.UTCDateTimeToInstant(value.DateTime{Date: x}).Millis
	case value.ZonedDateTime:
		inst, err := chrono.ZonedToInstant(x)
		if err != nil {
			return "Error: " + err.Error()
		}
		instantMillis = inst.Millis
	default:
		return "Error: unix/unix-milliseconds target requires a date or time value"
	}
	if millis {
		return strconv.FormatInt(instantMillis, 10)
	}
	return strconv.FormatInt(instantMillis/1000, 10)
}
