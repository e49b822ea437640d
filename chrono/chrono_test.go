package chrono

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

func TestMonthEndClamping(t *testing.T) {
	jan31 := value.Date{Year: 2023, Month: 1, Day: 31}
	got := AddCalendar(jan31, 0, 1)
	assert.Equal(t, value.Date{Year: 2023, Month: 2, Day: 28}, got)

	jan31Leap := value.Date{Year: 2024, Month: 1, Day: 31}
	got = AddCalendar(jan31Leap, 0, 1)
	assert.Equal(t, value.Date{Year: 2024, Month: 2, Day: 29}, got)
}

func TestAddWeeksDays(t *testing.T) {
	d := value.Date{Year: 2023, Month: 12, Day: 30}
	got := AddWeeksDays(d, 0, 3)
	assert.Equal(t, value.Date{Year: 2024, Month: 1, Day: 2}, got)
}

func TestAddExactToTimeOverflow(t *testing.T) {
	tm := value.Time{Hour: 23, Minute: 30}
	nt, carry := AddExactToTime(tm, 1, 0, 0, 0)
	assert.Equal(t, 1, carry)
	assert.Equal(t, value.Time{Hour: 0, Minute: 30}, nt)
}

func TestAddDurationDatePromotesOnTimeComponent(t *testing.T) {
	d := value.Date{Year: 2023, Month: 1, Day: 1}
	got := AddDuration(d, value.Duration{Hours: 2})
	dt, ok := got.(value.DateTime)
	require.True(t, ok, "expected DateTime, got %T", got)
	assert.Equal(t, value.Time{Hour: 2}, dt.Time)
}

func TestDateDiffReproducesOriginal(t *testing.T) {
	a := value.Date{Year: 2023, Month: 6, Day: 15}
	b := value.Date{Year: 2021, Month: 3, Day: 1}
	d := dateDiff(a, b)

	back := AddDuration(b, d)
	assert.Equal(t, a, back)
}

func TestSubtractDateFromDate(t *testing.T) {
	a := value.Date{Year: 2024, Month: 3, Day: 10}
	b := value.Date{Year: 2024, Month: 1, Day: 10}
	got := Subtract(a, b)
	dur, ok := got.(value.Duration)
	require.True(t, ok, "expected Duration, got %T", got)
	assert.Equal(t, 2, dur.Months)
}

func TestInstantAddSubtractRoundTrip(t *testing.T) {
	start := value.Instant{Millis: 1700000000000}
	added := AddDuration(start, value.Duration{Hours: 5, Minutes: 30})
	back := Subtract(added, value.Duration{Hours: 5, Minutes: 30})
	assert.Equal(t, start, back)
}

func TestZonedDateTimeOffset(t *testing.T) {
	z := value.ZonedDateTime{
		DateTime: value.DateTime{
			Date: value.Date{Year: 2023, Month: 1, Day: 1},
			Time: value.Time{Hour: 14},
		},
		Zone: "America/New_York",
	}
	h, m, err := ZoneOffset(z)
	require.NoError(t, err)
	assert.Equal(t, -5, h)
	assert.Equal(t, 0, m)
}

func TestResolveTimezoneAlias(t *testing.T) {
	cat := catalog.Builtin()
	got, err := ResolveTimezone(cat, "new york")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", got)
}

func TestRelativeInstant(t *testing.T) {
	ago := RelativeInstant("day", 1, false)
	future := RelativeInstant("day", 1, true)

	agoInstant, ok := ago.(value.Instant)
	require.True(t, ok)
	futureInstant, ok := future.(value.Instant)
	require.True(t, ok)
	assert.True(t, agoInstant.Millis < futureInstant.Millis)
}

func TestValidateDateRejectsFeb30(t *testing.T) {
	got := ValidateDate(2023, 2, 30)
	require.NotNil(t, got)
	e, ok := got.(value.Error)
	require.True(t, ok)
	assert.Equal(t, value.ErrDateTime, e.ErrKind)
}
