// Package schedule holds the pure date arithmetic behind rent billing:
// generating due dates for a lease term, stepping billing periods by
// cadence, and computing the next due date for reminder checks.
package schedule

import (
	"time"

	"propman-be-svc/internal/models"
)

// MonthsPerPeriod returns the number of months in one billing period
func MonthsPerPeriod(frequency string) int {
	switch frequency {
	case models.FrequencyQuarterly:
		return 3
	case models.FrequencyYearly:
		return 12
	default:
		return 1
	}
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay clamps a day-of-month to the length of the given month
func ClampDay(year int, month time.Month, day int) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	if day < 1 {
		return 1
	}
	return day
}

// WithDueDay places a date on the given day of its own month, clamped to
// the month length. Feb with due day 31 becomes Feb 28 (29 in leap years).
func WithDueDay(d time.Time, dueDay int) time.Time {
	day := ClampDay(d.Year(), d.Month(), dueDay)
	return time.Date(d.Year(), d.Month(), day, 0, 0, 0, 0, d.Location())
}

// AddMonths advances an anchor date by whole months without overflowing
// into the following month: Jan 31 + 1 month is Feb 28/29, not Mar 2.
func AddMonths(anchor time.Time, months int) time.Time {
	year := anchor.Year()
	month := int(anchor.Month()) + months
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	if month < 1 {
		month += 12
		year--
	}
	day := ClampDay(year, time.Month(month), anchor.Day())
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, anchor.Location())
}

// DueDates generates one due date per billing period from start (inclusive)
// until end (exclusive). Each due date falls on dueDay of its period's
// month, clamped to the month length. Pure function of its inputs, so the
// schedule is restartable and deterministic.
func DueDates(start, end time.Time, dueDay int, frequency string) []time.Time {
	step := MonthsPerPeriod(frequency)

	var dates []time.Time
	for i := 0; ; i += step {
		period := AddMonths(start, i)
		if !period.Before(end) {
			break
		}
		dates = append(dates, WithDueDay(period, dueDay))
	}
	return dates
}

// NextDueDate returns the upcoming due date as seen from now: dueDay of the
// current month, rolling into the next month once the day has passed.
func NextDueDate(now time.Time, dueDay int) time.Time {
	due := WithDueDay(now, dueDay)
	if now.Day() > dueDay {
		due = WithDueDay(AddMonths(due, 1), dueDay)
	}
	return due
}

// DaysUntil returns the whole-day distance from now to the due date,
// ignoring the time of day. Negative when the date is in the past.
func DaysUntil(now, due time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
