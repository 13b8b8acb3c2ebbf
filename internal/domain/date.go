package domain

import (
	"fmt"
	"time"
)

// Date layouts used across the system.
const (
	// DateLayout is the canonical YYYY-MM-DD form used for cache keys and JSON.
	DateLayout = "2006-01-02"

	// UpstreamDateLayout is the DD.MM.YYYY form expected by the booking API.
	UpstreamDateLayout = "02.01.2006"
)

// Window lengths used by the search entry points.
const (
	// DaysPerMonth is the month length the period searches assume.
	DaysPerMonth = 30

	// MonthSearchDays is the number of dates covered by a month search.
	MonthSearchDays = 30

	// WeekSearchDays is the number of dates covered by a week search.
	WeekSearchDays = 7

	// MaxMonthsAhead bounds period and anywhere searches.
	MaxMonthsAhead = 6
)

// Date is a calendar date in YYYY-MM-DD form.
// The zero value is the empty string and is not a valid date.
type Date string

// NewDate returns the calendar date of t in t's location.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: date must be in YYYY-MM-DD format, got %q", ErrInvalidRequest, s)
	}
	return NewDate(t), nil
}

// ParseUpstreamDate parses a DD.MM.YYYY string as returned by the booking API.
func ParseUpstreamDate(s string) (Date, error) {
	t, err := time.Parse(UpstreamDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse upstream date %q: %w", s, err)
	}
	return NewDate(t), nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return string(d)
}

// Upstream formats the date the way the booking API expects it.
func (d Date) Upstream() string {
	return d.Time().Format(UpstreamDateLayout)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// DaysUntil returns the number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// DateRange returns every date from start to end inclusive in ascending order.
// An end before start yields an empty slice.
func DateRange(start, end Date) []Date {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return []Date{}
	}

	n := start.DaysUntil(end) + 1
	dates := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

// DaysAhead returns start..start+n inclusive (n+1 dates).
func DaysAhead(start Date, n int) []Date {
	return DateRange(start, start.AddDays(n))
}

// MonthsAhead returns start..start+30*months inclusive.
func MonthsAhead(start Date, months int) []Date {
	return DaysAhead(start, DaysPerMonth*months)
}

// MonthDates returns the fixed 30-day sequence used by month searches.
func MonthDates(start Date) []Date {
	return DaysAhead(start, MonthSearchDays-1)
}

// WeekDates returns the 7-day sequence used by week searches.
func WeekDates(start Date) []Date {
	return DaysAhead(start, WeekSearchDays-1)
}

// Today returns the current calendar date in loc.
// A nil loc means UTC.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return NewDate(now.In(loc))
}
