package model

import (
	"fmt"
	"time"
)

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MonthBounds returns the first and last instant of the calendar month
// containing t, both inclusive, in t's location.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// InMonth reports whether at falls inside the calendar month containing month.
// at is compared in month's location.
func InMonth(at, month time.Time) bool {
	start, end := MonthBounds(month)
	at = at.In(month.Location())
	return !at.Before(start) && !at.After(end)
}

// ParseMonth parses a "YYYY-MM" key into the first instant of that month in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(MonthLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM: %w", s, err)
	}
	return t, nil
}

// DateLayout is the day-precision input format.
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" day or an RFC 3339 instant.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// CalendarDays returns the number of calendar days from one date to another,
// ignoring the time of day. to is compared in from's location.
func CalendarDays(from, to time.Time) int {
	to = to.In(from.Location())
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FullMonths returns the number of whole months from one instant to another.
// The result is negative when to is before from.
func FullMonths(from, to time.Time) int {
	to = to.In(from.Location())
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	switch {
	case months > 0 && from.AddDate(0, months, 0).After(to):
		months--
	case months < 0 && from.AddDate(0, months, 0).Before(to):
		months++
	}
	return months
}
