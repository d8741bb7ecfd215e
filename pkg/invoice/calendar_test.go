package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"leap february", time.Date(2024, time.February, 10, 9, 30, 0, 0, time.UTC), 29},
		{"common february", time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), 28},
		{"thirty day month", time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC), 30},
		{"thirty one day month", time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC), 31},
		{"december", time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastDayOfMonth(tt.today)
			assert.Equal(t, tt.want, got.Day())
			assert.Equal(t, tt.today.Month(), got.Month())
			assert.Equal(t, tt.today.Year(), got.Year())
		})
	}
}

func TestLastDayOfMonth_EveryMonth(t *testing.T) {
	for year := 2023; year <= 2028; year++ {
		for month := time.January; month <= time.December; month++ {
			today := time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
			// Day 0 of the next month normalizes to the last day of this one.
			want := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			assert.Equal(t, want, LastDayOfMonth(today).Day(), "%d-%02d", year, month)
		}
	}
}

func TestBusinessDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 21},
		{2025, time.March, 21},
		{2025, time.June, 21},
		{2026, time.February, 20},
		{2026, time.October, 22},
	}

	for _, tt := range tests {
		got, err := BusinessDaysInMonth(tt.year, tt.month)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%d-%02d", tt.year, tt.month)
	}
}

func TestBusinessDaysInMonth_TotalMinusWeekends(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			total := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			weekend := 0
			for day := 1; day <= total; day++ {
				wd := time.Date(year, month, day, 12, 0, 0, 0, time.Local).Weekday()
				if wd == time.Saturday || wd == time.Sunday {
					weekend++
				}
			}

			got, err := BusinessDaysInMonth(year, month)
			require.NoError(t, err)
			assert.Equal(t, total-weekend, got, "%d-%02d", year, month)
		}
	}
}

func TestBusinessDaysInMonth_OutOfRange(t *testing.T) {
	for _, month := range []time.Month{0, 13, -1} {
		_, err := BusinessDaysInMonth(2025, month)
		assert.ErrorIs(t, err, ErrMonthOutOfRange)
	}
}
