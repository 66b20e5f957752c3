// Package dayutil reduces timestamps to calendar days on the server's
// wall clock. Time of day and the original offset are ignored: every value
// is first converted into Location.
package dayutil

import "time"

// KeyFormat is the layout of day keys returned by DayKey.
const KeyFormat = "2006-01-02"

// Location is the wall clock used to decide which calendar day a timestamp
// belongs to.
var Location = time.Local

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// EndOfDay returns the last nanosecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return AddDays(StartOfDay(t), 1).Add(-time.Nanosecond)
}

// AddDays moves t by n calendar days, keeping it at midnight.
func AddDays(t time.Time, n int) time.Time {
	d := StartOfDay(t)
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, Location)
}

// Yesterday returns midnight of the day before t.
func Yesterday(t time.Time) time.Time {
	return AddDays(t, -1)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	a, b = a.In(Location), b.In(Location)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DayKey identifies t's calendar day as a stable string.
func DayKey(t time.Time) string {
	return t.In(Location).Format(KeyFormat)
}

// Before reports whether a's calendar day is strictly earlier than b's.
func Before(a, b time.Time) bool {
	return StartOfDay(a).Before(StartOfDay(b))
}

// DaysBetween counts the calendar days from a to b, both inclusive.
// It returns 0 when b's day is before a's.
func DaysBetween(a, b time.Time) int {
	start, end := StartOfDay(a), StartOfDay(b)
	if end.Before(start) {
		return 0
	}
	n := 0
	for d := start; !d.After(end); d = AddDays(d, 1) {
		n++
	}
	return n
}

// Within reports whether t's calendar day lies in [start, end].
func Within(t, start, end time.Time) bool {
	day := StartOfDay(t)
	return !day.Before(StartOfDay(start)) && !day.After(StartOfDay(end))
}
