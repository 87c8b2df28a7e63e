package valueobject

import (
	"strings"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
)

// DayLayout is the wire and storage format of calendar days
const DayLayout = "2006-01-02"

// Day is a calendar day without time of day or zone.
// Comparison operators work on the underlying UTC midnight.
type Day struct {
	t time.Time
}

// ParseDay parses a strict YYYY-MM-DD string
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DayLayout, s)
	if err != nil || len(s) != len(DayLayout) {
		return Day{}, shared.NewDomainError("INVALID_DATE", "Invalid date format. Use YYYY-MM-DD")
	}
	return Day{t: t}, nil
}

// MustParseDay parses s and panics on error. Intended for tests and constants.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DayOf returns the calendar day of t in t's location
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current day according to clock
func Today(clock shared.Clock) Day {
	return DayOf(clock.Now())
}

// String formats the day as YYYY-MM-DD
func (d Day) String() string {
	return d.t.Format(DayLayout)
}

// Time returns UTC midnight of the day
func (d Day) Time() time.Time {
	return d.t
}

// IsZero reports whether the day is unset
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns the day n days later (earlier when n is negative)
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// Equal reports whether both values denote the same day
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// IsWeekend reports whether the day is a Saturday or Sunday
func (d Day) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
