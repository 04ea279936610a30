// Package schedule holds the date arithmetic shared by the to-do services:
// day truncation, next-occurrence computation and time-block windows.
package schedule

import (
	"time"

	"quest-planner/internal/model"
)

// StartOfDay truncates t to midnight in its own location. Scheduled dates are
// stored at day granularity.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Next computes the scheduled date of a repeating item's successor. Monthly and
// yearly steps use calendar arithmetic with the day clamped to the target
// month's length, so Jan 31 + 1 month is Feb 28 (or 29), never Mar 3.
func Next(date time.Time, freq model.RepeatFrequency) time.Time {
	switch freq {
	case model.RepeatDaily:
		return date.AddDate(0, 0, 1)
	case model.RepeatWeekly:
		return date.AddDate(0, 0, 7)
	case model.RepeatMonthly:
		return addMonths(date, 1)
	case model.RepeatYearly:
		return addMonths(date, 12)
	default:
		return date
	}
}

// BlockRange returns the half-open [start, end) window of the given time block
// that contains date: the day itself, its Monday-based week, its calendar month
// or its calendar year.
func BlockRange(date time.Time, block model.TimeBlock) (time.Time, time.Time) {
	day := StartOfDay(date)
	switch block {
	case model.TimeBlockWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case model.TimeBlockMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0)
	case model.TimeBlockYear:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if limit := daysInMonth(first.Month(), first.Year()); day > limit {
		day = limit
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
