package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// KeyLayout is the canonical YYYY-MM-DD form used as a map key everywhere
const KeyLayout = "2006-01-02"

// ErrInvalidFormat is returned for keys that are not well-formed YYYY-MM-DD
// or denote a date that does not exist in the calendar
var ErrInvalidFormat = errors.New("invalid date format")

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Parse parses a YYYY-MM-DD key into a calendar date.
// The result carries no meaningful time of day; dates are pinned to noon
// UTC so that day arithmetic never crosses a day boundary.
func Parse(key string) (time.Time, error) {
	if !keyPattern.MatchString(key) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, key)
	}

	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		// Well-formed but non-existent (e.g. 2025-02-30)
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, key)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
}

// Format renders a calendar date as its YYYY-MM-DD key.
// Month and day are always zero-padded; Format is the inverse of Parse.
func Format(date time.Time) string {
	return date.Format(KeyLayout)
}

// Date builds a calendar date from its components
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// AddDays shifts a calendar date by n days (n may be negative)
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// DayOfWeek returns the weekday as 0..6 with Sunday = 0
func DayOfWeek(date time.Time) int {
	return int(date.Weekday())
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsHalfDay returns true for Dec 24 and Dec 31. These dates count as half
// a day of leave instead of a full one.
func IsHalfDay(date time.Time) bool {
	return date.Month() == time.December && (date.Day() == 24 || date.Day() == 31)
}

// IsHalfDayKey is IsHalfDay on a raw date key. Malformed keys are not half days.
func IsHalfDayKey(key string) bool {
	date, err := Parse(key)
	if err != nil {
		return false
	}
	return IsHalfDay(date)
}

// MinMax orders two dates chronologically
func MinMax(a, b time.Time) (time.Time, time.Time) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}
