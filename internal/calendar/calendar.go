// Package calendar provides month date arithmetic for the calendar view.
package calendar

import "time"

// MonthBounds returns the first and last calendar day of the month,
// accounting for variable month length and leap years.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// day zero of the next month normalizes to the last day of this one
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return first, last
}

// MonthGrid returns Sunday-first weeks covering the month. Leading and
// trailing cells belong to the neighboring months.
func MonthGrid(year int, month time.Month) [][]time.Time {
	first, last := MonthBounds(year, month)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	var weeks [][]time.Time
	for day := start; !day.After(last); day = day.AddDate(0, 0, 7) {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = day.AddDate(0, 0, i)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// Cursors returns the YYYY-MM navigation cursors for the previous and next
// month.
func Cursors(year int, month time.Month) (prev, next string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0).Format("2006-01"), first.AddDate(0, 1, 0).Format("2006-01")
}
