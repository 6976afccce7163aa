package cal

import "time"

// StartOfWeek returns the Monday on or before t. The time of day is kept;
// callers that need a day key normalize with Midnight separately.
func StartOfWeek(t time.Time) time.Time {
	back := int(t.Weekday()) - int(time.Monday)
	if t.Weekday() == time.Sunday {
		back = 6
	}
	return t.AddDate(0, 0, -back)
}

// Midnight returns t with the time of day cleared. The result is the
// canonical day-identity key used throughout placement.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}

// IsToday reports whether t falls on the current day.
func IsToday(t time.Time) bool {
	return SameDay(t, time.Now())
}

// DaysInMonth returns the number of days in the given month, leap years
// included.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the first day of the month
// (Sunday = 0).
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}
