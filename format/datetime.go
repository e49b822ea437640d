package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/ha1tch/calcline/chrono"
	"github.com/ha1tch/calcline/value"
)

var monthAbbrev = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Date renders a plain date against s.DateTemplate's token set:
// YYYY, MM, MMM (abbreviated month), DD, DDD (abbreviated weekday).
func Date(d value.Date, s Settings) string {
	tmpl := s.DateTemplate
	if tmpl == "" {
		tmpl = "YYYY-MM-DD"
	}
	r := strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", d.Year),
		"MMM", monthName(d.Month),
		"MM", fmt.Sprintf("%02d", d.Month),
		"DDD", chrono.WeekdayAbbrev(d),
		"DD", fmt.Sprintf("%02d", d.Day),
	)
	return r.Replace(tmpl)
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthAbbrev[m-1]
}

// Time renders a plain time in 12h or 24h style, emitting seconds iff
// nonzero and milliseconds iff nonzero.
func Time(t value.Time, s Settings) string {
	hour := t.Hour
	suffix := ""
	if s.TimeFormat == Time12h {
		suffix = " AM"
		if hour == 0 {
			hour = 12
		} else if hour == 12 {
			suffix = " PM"
		} else if hour > 12 {
			hour -= 12
			suffix = " PM"
		}
	}
	out := fmt.Sprintf("%02d:%02d", hour, t.Minute)
	if t.Second != 0 || t.Millisecond != 0 {
		out += fmt.Sprintf(":%02d", t.Second)
	}
	if t.Millisecond != 0 {
		out += fmt.Sprintf(".%03d", t.Millisecond)
	}
	return out + suffix
}

// DateTime renders a plain datetime with date and time ordered per
// s.DateTimeOrder.
func DateTime(dt value.DateTime, s Settings) string {
	return orderDateTime(Date(dt.Date, s), Time(dt.Time, s), s)
}

func orderDateTime(dateStr, timeStr string, s Settings) string {
	if s.DateTimeOrder == TimeThenDate {
		return timeStr + " " + dateStr
	}
	return dateStr + " " + timeStr
}

// Instant renders an instant in the local timezone with no offset.
func Instant(i value.Instant, s Settings) string {
	t := time.UnixMilli(i.Millis).Local()
	dt := value.DateTime{
		Date: value.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Time: value.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Millisecond: t.Nanosecond() / 1e6},
	}
	return DateTime(dt, s)
}

// zonedOffsetSuffix renders "UTC±H[:MM]" for the given offset.
func zonedOffsetSuffix(hours, minutes int) string {
	sign := "+"
	h := hours
	if hours < 0 || (hours == 0 && minutes < 0) {
		sign = "-"
		h = -hours
		minutes = -minutes
	}
	if minutes == 0 {
		return fmt.Sprintf("UTC%s%d", sign, h)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, h, minutes)
}

// ZonedDateTime renders a zoned datetime as "[date ]time UTC±H[:MM]",
// replacing the date prefix with "today "/"yesterday "/"tomorrow " when the
// wall-clock date in z's zone matches that relative day "now".
func ZonedDateTime(z value.ZonedDateTime, s Settings) (string, error) {
	hours, minutes, err := chrono.ZoneOffset(z)
	if err != nil {
		return "", err
	}
	loc, err := time.LoadLocation(z.Zone)
	if err != nil {
		return "", err
	}
	now := time.Now().In(loc)
	nowDate := value.Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}

	dateStr := Date(z.DateTime.Date, s)
	switch {
	case sameDate(z.DateTime.Date, nowDate):
		dateStr = "today"
	case sameDate(z.DateTime.Date, addDays(nowDate, -1)):
		dateStr = "yesterday"
	case sameDate(z.DateTime.Date, addDays(nowDate, 1)):
		dateStr = "tomorrow"
	}

	timeStr := Time(z.DateTime.Time, s)
	offset := zonedOffsetSuffix(hours, minutes)
	return orderDateTime(dateStr, timeStr, s) + " " + offset, nil
}

func sameDate(a, b value.Date) bool {
	return a.Year == b.Year && a.Month == b.Month && a.Day == b.Day
}

func addDays(d value.Date, n int) value.Date {
	return chrono.AddWeeksDays(d, 0, n)
}

// Duration renders a duration as a space-joined sequence of its nonzero
// components, largest unit first; a wholly-zero duration renders "0s".
func Duration(d value.Duration) string {
	type part struct {
		n     int
		label string
	}
	parts := []part{
		{d.Years, "y"}, {d.Months, "mo"}, {d.Weeks, "w"}, {d.Days, "d"},
		{d.Hours, "h"}, {d.Minutes, "min"}, {d.Seconds, "s"}, {d.Milliseconds, "ms"},
	}
	var out []string
	for _, p := range parts {
		if p.n != 0 {
			out = append(out, fmt.Sprintf("%d%s", p.n, p.label))
		}
	}
	if len(out) == 0 {
		return "0s"
	}
	return strings.Join(out, " ")
}

// Boolean renders a boolean as "true"/"false".
func Boolean(b value.Boolean) string {
	if b.Val {
		return "true"
	}
	return "false"
}
