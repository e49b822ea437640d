package chrono

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

// ResolveTimezone resolves name (an IANA identifier, city alias, or short
// abbreviation) to a canonical IANA identifier via cat, then confirms the
// platform's tzdata actually knows it.
func ResolveTimezone(cat catalog.Catalog, name string) (string, error) {
	canonical, ok := cat.ResolveTimezone(name)
	if !ok {
		return "", errors.Errorf("unrecognized timezone %q", name)
	}
	if _, err := time.LoadLocation(canonical); err != nil {
		return "", errors.Wrapf(err, "timezone %q", canonical)
	}
	return canonical, nil
}

func dateTimeFromGoTime(t time.Time) value.DateTime {
	y, m, d := t.Date()
	return value.DateTime{
		Date: value.Date{Year: y, Month: int(m), Day: d},
		Time: value.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Millisecond: t.Nanosecond() / 1e6},
	}
}

// ZonedToInstant resolves the instant corresponding to z's wall-clock
// reading in its stored zone.
func ZonedToInstant(z value.ZonedDateTime) (value.Instant, error) {
	loc, err := time.LoadLocation(z.Zone)
	if err != nil {
		return value.Instant{}, errors.Wrapf(err, "timezone %q", z.Zone)
	}
	t := time.Date(z.DateTime.Date.Year, time.Month(z.DateTime.Date.Month), z.DateTime.Date.Day,
		z.DateTime.Time.Hour, z.DateTime.Time.Minute, z.DateTime.Time.Second,
		z.DateTime.Time.Millisecond*1e6, loc)
	return value.Instant{Millis: t.UnixMilli()}, nil
}

// InstantToZoned renders instant i as a wall-clock reading in zone.
func InstantToZoned(i value.Instant, zone string) (value.ZonedDateTime, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return value.ZonedDateTime{}, errors.Wrapf(err, "timezone %q", zone)
	}
	t := time.UnixMilli(i.Millis).In(loc)
	return value.ZonedDateTime{DateTime: dateTimeFromGoTime(t), Zone: zone}, nil
}

// InstantToUTCDateTime renders instant i as a UTC plain datetime, the
// anchor used to apply calendar-component arithmetic to an instant.
func InstantToUTCDateTime(i value.Instant) value.DateTime {
	return dateTimeFromGoTime(time.UnixMilli(i.Millis).UTC())
}

// UTCDateTimeToInstant is the inverse of InstantToUTCDateTime.
func UTCDateTimeToInstant(dt value.DateTime) value.Instant {
	t := time.Date(dt.Date.Year, time.Month(dt.Date.Month), dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Millisecond*1e6, time.UTC)
	return value.Instant{Millis: t.UnixMilli()}
}

// ZoneOffset re-derives z's UTC offset from its stored wall-clock reading,
// never from a cached value.
func ZoneOffset(z value.ZonedDateTime) (hours, minutes int, err error) {
	loc, loadErr := time.LoadLocation(z.Zone)
	if loadErr != nil {
		return 0, 0, errors.Wrapf(loadErr, "timezone %q", z.Zone)
	}
	t := time.Date(z.DateTime.Date.Year, time.Month(z.DateTime.Date.Month), z.DateTime.Date.Day,
		z.DateTime.Time.Hour, z.DateTime.Time.Minute, z.DateTime.Time.Second,
		z.DateTime.Time.Millisecond*1e6, loc)
	_, offsetSeconds := t.Zone()
	return offsetSeconds / 3600, (offsetSeconds % 3600) / 60, nil
}

// WeekdayAbbrev returns the English three-letter weekday abbreviation for
// d, used by the date-template DDD token.
func WeekdayAbbrev(d value.Date) string {
	return toGoDate(d).Weekday().String()[:3]
}
