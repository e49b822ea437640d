// Package chrono implements calcline's date/time engine:
// proleptic-Gregorian calendar arithmetic with month-length clamping,
// timezone resolution and offset rendering, and the cross-kind add/
// subtract rules of the normative arithmetic table.
package chrono

import (
	"time"

	"github.com/ha1tch/calcline/value"
)

// DaysInMonth returns the number of days in the given proleptic-Gregorian
// year/month (1-12).
func DaysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one; Go
	// normalizes an out-of-range month in time.Date, so month 13 of
	// December rolls into next January transparently.
	t := time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}

func clampDay(year, month, day int) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	return day
}

// AddCalendar adds years then months to d, clamping the day at each step.
func AddCalendar(d value.Date, years, months int) value.Date {
	y := d.Year + years
	day := clampDay(y, d.Month, d.Day)
	cur := value.Date{Year: y, Month: d.Month, Day: day}

	totalMonths := (cur.Month - 1) + months
	y2 := cur.Year + floorDiv(totalMonths, 12)
	m2 := floorMod(totalMonths, 12) + 1
	day2 := clampDay(y2, m2, cur.Day)
	return value.Date{Year: y2, Month: m2, Day: day2}
}

// AddWeeksDays adds whole weeks and days to d.
func AddWeeksDays(d value.Date, weeks, days int) value.Date {
	t := toGoDate(d).AddDate(0, 0, weeks*7+days)
	return fromGoDate(t)
}

// millisOfTime returns the number of milliseconds since midnight for t.
func millisOfTime(t value.Time) int64 {
	return int64(((t.Hour*60+t.Minute)*60+t.Second)*1000 + t.Millisecond)
}

func timeFromMillis(ms int64) value.Time {
	millis := int(ms % 1000)
	ms /= 1000
	seconds := int(ms % 60)
	ms /= 60
	minutes := int(ms % 60)
	ms /= 60
	hours := int(ms)
	return value.Time{Hour: hours, Minute: minutes, Second: seconds, Millisecond: millis}
}

// AddExactToTime adds hours/minutes/seconds/milliseconds to t and reports
// how many whole days the result carried across (possibly negative),
// propagating overflow into whole-day carry.
func AddExactToTime(t value.Time, hours, minutes, seconds, millis int) (value.Time, int) {
	total := millisOfTime(t) + (int64(hours)*3600+int64(minutes)*60+int64(seconds))*1000 + int64(millis)
	const dayMillis = 86400000
	dayCarry := floorDiv64(total, dayMillis)
	rem := total - dayCarry*dayMillis
	return timeFromMillis(rem), int(dayCarry)
}

func toGoDate(d value.Date) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func fromGoDate(t time.Time) value.Date {
	y, m, d := t.Date()
	return value.Date{Year: y, Month: int(m), Day: d}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// AddDuration implements every cell of the date/time addition table whose
// left operand is Duration-compatible; v is the non-Duration operand (or a
// Duration itself, for Duration+Duration).
func AddDuration(v value.Value, d value.Duration) value.Value {
	switch x := v.(type) {
	case value.Date:
		return addDurationToDate(x, d)
	case value.Time:
		return addDurationToTime(x, d)
	case value.DateTime:
		return addDurationToDateTime(x, d)
	case value.Instant:
		return addDurationToInstant(x, d)
	case value.ZonedDateTime:
		return addDurationToZoned(x, d)
	case value.Duration:
		return addDurations(x, d)
	case value.Error:
		return x
	default:
		return value.Errf(value.ErrDateTime, "cannot add a duration to a %s", v.Kind())
	}
}

func addDurationToDate(x value.Date, d value.Duration) value.Value {
	nd := AddCalendar(x, d.Years, d.Months)
	nd = AddWeeksDays(nd, d.Weeks, d.Days)
	if d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0 && d.Milliseconds == 0 {
		return nd
	}
	// Right operand carries time-of-day components: promote to
	// PlainDateTime.
	t, carry := AddExactToTime(value.Time{}, d.Hours, d.Minutes, d.Seconds, d.Milliseconds)
	nd = AddWeeksDays(nd, 0, carry)
	return value.DateTime{Date: nd, Time: t}
}

func addDurationToTime(x value.Time, d value.Duration) value.Value {
	nt, carry := AddExactToTime(x, d.Hours, d.Minutes, d.Seconds, d.Milliseconds)
	if d.Years == 0 && d.Months == 0 && d.Weeks == 0 && d.Days == 0 && carry == 0 {
		return nt
	}
	// Either the duration carries calendar components, or adding the
	// time-of-day component crossed midnight: promote to PlainDateTime
	// anchored on today in the local zone.
	anchor := TodayDate(time.Local)
	nd := AddCalendar(anchor, d.Years, d.Months)
	nd = AddWeeksDays(nd, d.Weeks, d.Days+carry)
	return value.DateTime{Date: nd, Time: nt}
}

func addDurationToDateTime(x value.DateTime, d value.Duration) value.Value {
	nt, carry := AddExactToTime(x.Time, d.Hours, d.Minutes, d.Seconds, d.Milliseconds)
	nd := AddCalendar(x.Date, d.Years, d.Months)
	nd = AddWeeksDays(nd, d.Weeks, d.Days+carry)
	return value.DateTime{Date: nd, Time: nt}
}

func addDurationToInstant(x value.Instant, d value.Duration) value.Value {
	if d.Years == 0 && d.Months == 0 {
		// Purely exact: skip the UTC round-trip.
		total := x.Millis + int64(d.Weeks)*604800000 + int64(d.Days)*86400000 +
			(int64(d.Hours)*3600+int64(d.Minutes)*60+int64(d.Seconds))*1000 + int64(d.Milliseconds)
		return value.Instant{Millis: total}
	}
	// Calendar components require a date anchor; an
	// instant has none on its own, so one is taken from its UTC reading.
	dt := InstantToUTCDateTime(x)
	added := addDurationToDateTime(dt, d)
	ndt, ok := added.(value.DateTime)
	if !ok {
		return added
	}
	return UTCDateTimeToInstant(ndt)
}

func addDurationToZoned(x value.ZonedDateTime, d value.Duration) value.Value {
	nt, carry := AddExactToTime(x.DateTime.Time, d.Hours, d.Minutes, d.Seconds, d.Milliseconds)
	nd := AddCalendar(x.DateTime.Date, d.Years, d.Months)
	nd = AddWeeksDays(nd, d.Weeks, d.Days+carry)
	return value.ZonedDateTime{DateTime: value.DateTime{Date: nd, Time: nt}, Zone: x.Zone}
}

func addDurations(a, b value.Duration) value.Duration {
	return value.Duration{
		Years: a.Years + b.Years, Months: a.Months + b.Months,
		Weeks: a.Weeks + b.Weeks, Days: a.Days + b.Days,
		Hours: a.Hours + b.Hours, Minutes: a.Minutes + b.Minutes,
		Seconds: a.Seconds + b.Seconds, Milliseconds: a.Milliseconds + b.Milliseconds,
	}
}

// Subtract implements the date/time subtraction rules: same-kind subtraction
// yields a Duration in the natural unit set for that kind; X - Duration
// follows the addition table with the duration negated.
func Subtract(a, b value.Value) value.Value {
	if d, ok := b.(value.Duration); ok {
		if _, isDuration := a.(value.Duration); !isDuration {
			return AddDuration(a, d.Negate())
		}
	}
	switch av := a.(type) {
	case value.Date:
		if bv, ok := b.(value.Date); ok {
			return dateDiff(av, bv)
		}
	case value.Time:
		if bv, ok := b.(value.Time); ok {
			return timeDiff(av, bv)
		}
	case value.DateTime:
		if bv, ok := b.(value.DateTime); ok {
			return dateTimeDiff(av, bv)
		}
	case value.Instant:
		if bv, ok := b.(value.Instant); ok {
			return instantDiff(av, bv)
		}
	case value.ZonedDateTime:
		if bv, ok := b.(value.ZonedDateTime); ok {
			return zonedDiff(av, bv)
		}
	case value.Duration:
		if bv, ok := b.(value.Duration); ok {
			return addDurations(av, bv.Negate())
		}
	}
	return value.Errf(value.ErrDateTime, "cannot subtract %s from %s", b.Kind(), a.Kind())
}

// dateDiff returns a - b as a calendar duration in years/months/days, the
// natural unit set for plain dates.
func dateDiff(a, b value.Date) value.Duration {
	neg := false
	x, y := a, b
	if lessDate(x, y) {
		x, y = y, x
		neg = true
	}
	years := x.Year - y.Year
	months := x.Month - y.Month
	days := x.Day - y.Day
	if days < 0 {
		months--
		prevMonth := x.Month - 1
		prevYear := x.Year
		if prevMonth == 0 {
			prevMonth = 12
			prevYear--
		}
		days += DaysInMonth(prevYear, prevMonth)
	}
	if months < 0 {
		years--
		months += 12
	}
	d := value.Duration{Years: years, Months: months, Days: days}
	if neg {
		d = d.Negate()
	}
	return d
}

func lessDate(a, b value.Date) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.Day < b.Day
}

// timeDiff returns a - b as an exact duration in hours/minutes/seconds/ms,
// the natural unit set for plain times.
func timeDiff(a, b value.Time) value.Duration {
	return durationFromMillis(millisOfTime(a) - millisOfTime(b))
}

func durationFromMillis(ms int64) value.Duration {
	neg := ms < 0
	if neg {
		ms = -ms
	}
	millis := ms % 1000
	ms /= 1000
	seconds := ms % 60
	ms /= 60
	minutes := ms % 60
	ms /= 60
	hours := ms
	d := value.Duration{Hours: int(hours), Minutes: int(minutes), Seconds: int(seconds), Milliseconds: int(millis)}
	if neg {
		d = d.Negate()
	}
	return d
}

// dateTimeDiff returns a - b as an exact duration in hours/minutes/
// seconds/ms (whole days are counted in the hours field). Combining a
// calendar (years/months) breakdown with a sub-day remainder has no single
// natural answer once DST-like ambiguity is excluded by plain (zone-less)
// semantics, so this returns the exact elapsed duration rather than a
// calendar one.
func dateTimeDiff(a, b value.DateTime) value.Duration {
	aMillis := UTCDateTimeToInstant(a).Millis
	bMillis := UTCDateTimeToInstant(b).Millis
	return durationFromMillis(aMillis - bMillis)
}

// instantDiff returns a - b as an exact duration; instants carry no
// calendar anchor of their own.
func instantDiff(a, b value.Instant) value.Duration {
	return durationFromMillis(a.Millis - b.Millis)
}

func zonedDiff(a, b value.ZonedDateTime) value.Duration {
	ai, aerr := ZonedToInstant(a)
	bi, berr := ZonedToInstant(b)
	if aerr != nil || berr != nil {
		return value.Duration{}
	}
	return instantDiff(ai, bi)
}

// Now returns the current instant.
func Now() value.Instant {
	return value.Instant{Millis: time.Now().UnixMilli()}
}

// TodayDate returns the current date in loc.
func TodayDate(loc *time.Location) value.Date {
	y, m, d := time.Now().In(loc).Date()
	return value.Date{Year: y, Month: int(m), Day: d}
}

// YesterdayDate returns the date one day before today in loc.
func YesterdayDate(loc *time.Location) value.Date {
	return AddWeeksDays(TodayDate(loc), 0, -1)
}

// TomorrowDate returns the date one day after today in loc.
func TomorrowDate(loc *time.Location) value.Date {
	return AddWeeksDays(TodayDate(loc), 0, 1)
}

// unitDurationFields maps a catalog time-dimension unit id to the
// Duration field a `N unit ago|from now` literal populates. Calendar
// units (year/month) and exact units (week/day and the
// sub-day units) are both represented, mirroring the Duration variant's own
// split.
var unitDurationFields = map[string]func(n int) value.Duration{
	"year":        func(n int) value.Duration { return value.Duration{Years: n} },
	"month":       func(n int) value.Duration { return value.Duration{Months: n} },
	"week":        func(n int) value.Duration { return value.Duration{Weeks: n} },
	"day":         func(n int) value.Duration { return value.Duration{Days: n} },
	"hour":        func(n int) value.Duration { return value.Duration{Hours: n} },
	"minute":      func(n int) value.Duration { return value.Duration{Minutes: n} },
	"second":      func(n int) value.Duration { return value.Duration{Seconds: n} },
	"millisecond": func(n int) value.Duration { return value.Duration{Milliseconds: n} },
}

// DurationFromUnitAmount builds the single-field Duration a relative
// instant literal like "3 days ago" denotes.
func DurationFromUnitAmount(unitID string, amount int) (value.Duration, bool) {
	f, ok := unitDurationFields[unitID]
	if !ok {
		return value.Duration{}, false
	}
	return f(amount), true
}

// RelativeInstant evaluates "amount unitID ago" (fromNow=false) or
// "amount unitID from now" (fromNow=true) against the current instant.
func RelativeInstant(unitID string, amount int, fromNow bool) value.Value {
	d, ok := DurationFromUnitAmount(unitID, amount)
	if !ok {
		return value.Errf(value.ErrDateTime, "unrecognized relative time unit %q", unitID)
	}
	if !fromNow {
		d = d.Negate()
	}
	return AddDuration(Now(), d)
}

// ValidateDate reports a DateTimeError if year/month/day is not a real
// proleptic-Gregorian calendar date.
func ValidateDate(year, month, day int) value.Value {
	if month < 1 || month > 12 {
		return value.Errf(value.ErrDateTime, "invalid month %d", month)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return value.Errf(value.ErrDateTime, "invalid day %d for %04d-%02d", day, year, month)
	}
	return nil
}

// ValidateTime reports a DateTimeError if the components are not a valid
// 24-hour wall-clock time.
func ValidateTime(hour, minute, second, millis int) value.Value {
	if hour < 0 || hour > 23 {
		return value.Errf(value.ErrDateTime, "invalid hour %d", hour)
	}
	if minute < 0 || minute > 59 {
		return value.Errf(value.ErrDateTime, "invalid minute %d", minute)
	}
	if second < 0 || second > 59 {
		return value.Errf(value.ErrDateTime, "invalid second %d", second)
	}
	if millis < 0 || millis > 999 {
		return value.Errf(value.ErrDateTime, "invalid millisecond %d", millis)
	}
	return nil
}
