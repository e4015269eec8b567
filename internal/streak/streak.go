// Package streak tracks consecutive days of expense logging.
package streak

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// Calculate advances the streak counters for activity at the given instant.
// Days are calendar days in activity's location, not 24 hour windows.
func Calculate(stats model.UserStats, activity time.Time) model.UserStats {
	today := model.StartOfDay(activity)

	if stats.LastActivityDate == nil {
		stats.CurrentStreak = 1
		stats.LongestStreak = max(stats.LongestStreak, 1)
		stats.LastActivityDate = &today
		return stats
	}

	switch gap := DaysBetween(*stats.LastActivityDate, today); {
	case gap <= 0:
		return stats
	case gap == 1:
		stats.CurrentStreak++
		stats.LongestStreak = max(stats.LongestStreak, stats.CurrentStreak)
	default:
		stats.CurrentStreak = 1
	}
	stats.LastActivityDate = &today
	return stats
}

// IsActive reports whether there was activity today or yesterday.
func IsActive(last *time.Time, now time.Time) bool {
	if last == nil {
		return false
	}
	return DaysBetween(*last, now) <= 1
}

// IsBroken reports whether the streak has lapsed, which includes never
// having logged anything.
func IsBroken(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return DaysBetween(*last, now) > 1
}

// DaysBetween counts calendar days from a to b in a's location.
func DaysBetween(a, b time.Time) int {
	return model.CalendarDays(a, b)
}
