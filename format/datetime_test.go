package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ha1tch/calcline/value"
)

func TestDateDefaultTemplate(t *testing.T) {
	d := value.Date{Year: 2023, Month: 1, Day: 31}
	assert.Equal(t, "2023-01-31 Tue", Date(d, DefaultSettings()))
}

func TestDateCustomTemplate(t *testing.T) {
	d := value.Date{Year: 2023, Month: 1, Day: 1}
	s := DefaultSettings()
	s.DateTemplate = "DDD, MMM DD YYYY"
	assert.Equal(t, "Sun, Jan 01 2023", Date(d, s))
}

func TestTime24hAdaptiveSecondsAndMillis(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "14:00", Time(value.Time{Hour: 14, Minute: 0}, s))
	assert.Equal(t, "14:00:05", Time(value.Time{Hour: 14, Minute: 0, Second: 5}, s))
	assert.Equal(t, "14:00:05.250", Time(value.Time{Hour: 14, Minute: 0, Second: 5, Millisecond: 250}, s))
}

func TestTime12hStyle(t *testing.T) {
	s := DefaultSettings()
	s.TimeFormat = Time12h
	assert.Equal(t, "02:00 PM", Time(value.Time{Hour: 14, Minute: 0}, s))
	assert.Equal(t, "12:00 AM", Time(value.Time{Hour: 0, Minute: 0}, s))
	assert.Equal(t, "12:00 PM", Time(value.Time{Hour: 12, Minute: 0}, s))
}

func TestDateTimeOrder(t *testing.T) {
	dt := value.DateTime{Date: value.Date{Year: 2023, Month: 1, Day: 1}, Time: value.Time{Hour: 14}}
	s := DefaultSettings()
	assert.Equal(t, "2023-01-01 Sun 14:00", DateTime(dt, s))
	s.DateTimeOrder = TimeThenDate
	assert.Equal(t, "14:00 2023-01-01 Sun", DateTime(dt, s))
}

func TestDurationRendersNonzeroComponents(t *testing.T) {
	assert.Equal(t, "1y 2mo 3d", Duration(value.Duration{Years: 1, Months: 2, Days: 3}))
	assert.Equal(t, "0s", Duration(value.Duration{}))
}

func TestBooleanRendering(t *testing.T) {
	assert.Equal(t, "true", Boolean(value.Boolean{Val: true}))
	assert.Equal(t, "false", Boolean(value.Boolean{Val: false}))
}
