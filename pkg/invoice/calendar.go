package invoice

import (
	"errors"
	"fmt"
	"time"
)

// ErrMonthOutOfRange is returned for months outside 1-12.
var ErrMonthOutOfRange = errors.New("month out of range")

// LastDayOfMonth returns the last calendar day of today's month. Day 28
// plus four days always lands in the next month, so stepping back by that
// day-of-month gives the month end.
func LastDayOfMonth(today time.Time) time.Time {
	day28 := time.Date(today.Year(), today.Month(), 28,
		today.Hour(), today.Minute(), today.Second(), today.Nanosecond(), today.Location())
	next := day28.AddDate(0, 0, 4)
	return next.AddDate(0, 0, -next.Day())
}

// BusinessDaysInMonth counts the Monday-Friday dates of a month.
func BusinessDaysInMonth(year int, month time.Month) (int, error) {
	if month < time.January || month > time.December {
		return 0, fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := LastDayOfMonth(first)

	days := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days, nil
}
