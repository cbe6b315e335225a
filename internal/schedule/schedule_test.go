package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"propman-be-svc/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDates_MonthlyWholeMonths(t *testing.T) {
	dates := DueDates(date(2024, time.January, 1), date(2024, time.July, 1), 5, models.FrequencyMonthly)

	assert.Len(t, dates, 6)
	for i, d := range dates {
		assert.Equal(t, time.Month(int(time.January)+i), d.Month())
		assert.Equal(t, 5, d.Day())
	}
}

func TestDueDates_ClampsToMonthLength(t *testing.T) {
	// Lease Jan 1 to Apr 1 2024 with due day 31: Feb clamps to the leap day
	dates := DueDates(date(2024, time.January, 1), date(2024, time.April, 1), 31, models.FrequencyMonthly)

	assert.Equal(t, []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 31),
	}, dates)
}

func TestDueDates_NonLeapFebruary(t *testing.T) {
	dates := DueDates(date(2023, time.January, 1), date(2023, time.April, 1), 30, models.FrequencyMonthly)

	assert.Equal(t, []time.Time{
		date(2023, time.January, 30),
		date(2023, time.February, 28),
		date(2023, time.March, 30),
	}, dates)
}

func TestDueDates_Quarterly(t *testing.T) {
	dates := DueDates(date(2024, time.January, 15), date(2025, time.January, 15), 15, models.FrequencyQuarterly)

	assert.Equal(t, []time.Time{
		date(2024, time.January, 15),
		date(2024, time.April, 15),
		date(2024, time.July, 15),
		date(2024, time.October, 15),
	}, dates)
}

func TestDueDates_Yearly(t *testing.T) {
	dates := DueDates(date(2024, time.March, 1), date(2027, time.March, 1), 1, models.FrequencyYearly)

	assert.Len(t, dates, 3)
	assert.Equal(t, date(2026, time.March, 1), dates[2])
}

func TestDueDates_EndExclusive(t *testing.T) {
	// A period starting exactly at the end date produces no payment
	dates := DueDates(date(2024, time.January, 1), date(2024, time.February, 1), 1, models.FrequencyMonthly)
	assert.Len(t, dates, 1)
	assert.Equal(t, date(2024, time.January, 1), dates[0])
}

func TestDueDates_EmptyTerm(t *testing.T) {
	dates := DueDates(date(2024, time.May, 1), date(2024, time.May, 1), 1, models.FrequencyMonthly)
	assert.Empty(t, dates)
}

func TestAddMonths_NoOverflow(t *testing.T) {
	// Jan 31 + 1 month stays in February
	assert.Equal(t, date(2024, time.February, 29), AddMonths(date(2024, time.January, 31), 1))
	assert.Equal(t, date(2023, time.February, 28), AddMonths(date(2023, time.January, 31), 1))
	// Year rollover
	assert.Equal(t, date(2025, time.January, 15), AddMonths(date(2024, time.December, 15), 1))
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		dueDay int
		want   time.Time
	}{
		{"before due day", date(2024, time.June, 5), 10, date(2024, time.June, 10)},
		{"on due day", date(2024, time.June, 10), 10, date(2024, time.June, 10)},
		{"after due day rolls over", date(2024, time.June, 11), 10, date(2024, time.July, 10)},
		{"rollover across year", date(2024, time.December, 20), 10, date(2025, time.January, 10)},
		{"due day clamped in short month", date(2024, time.February, 1), 31, date(2024, time.February, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextDueDate(tt.now, tt.dueDay))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, time.June, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, 5, DaysUntil(now, date(2024, time.June, 10)))
	assert.Equal(t, 0, DaysUntil(now, date(2024, time.June, 5)))
	assert.Equal(t, -2, DaysUntil(now, date(2024, time.June, 3)))
}

func TestWithDueDay(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 29), WithDueDay(date(2024, time.February, 10), 31))
	assert.Equal(t, date(2024, time.April, 30), WithDueDay(date(2024, time.April, 2), 31))
	assert.Equal(t, date(2024, time.April, 15), WithDueDay(date(2024, time.April, 2), 15))
}
