package habit

import (
	"fmt"
	"time"
)

// DateLayout is the canonical day key used for every day-bucketed lookup.
const DateLayout = "2006-01-02"

// StartOfMonth returns midnight on the first day of the month in loc.
func StartOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns midnight on the last day of the month in loc.
func EndOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month, time.UTC).Day()
}

// FormatDate renders t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD day key as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidDate reports whether s is a real calendar day in canonical form.
func ValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}

// AddMonths moves (year, month) by n months, rolling the year over.
func AddMonths(year int, month time.Month, n int) (int, time.Month) {
	t := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
