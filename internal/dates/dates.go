// Package dates provides calendar-day comparisons for submission window
// validation. All comparisons are timezone-naive: two instants on the same
// calendar day are equal regardless of their clock time. This is the one
// canonical set of date rules; validation must never compare raw instants.
package dates

import "time"

// Day truncates t to its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// Before reports whether a's calendar day is strictly before b's.
func Before(a, b time.Time) bool {
	return Day(a).Before(Day(b))
}

// After reports whether a's calendar day is strictly after b's.
func After(a, b time.Time) bool {
	return Day(a).After(Day(b))
}

// OnOrBefore reports whether a's calendar day is on or before b's.
func OnOrBefore(a, b time.Time) bool {
	return !After(a, b)
}

// OnOrAfter reports whether a's calendar day is on or after b's.
func OnOrAfter(a, b time.Time) bool {
	return !Before(a, b)
}

// Today returns the current calendar day.
func Today() time.Time {
	return Day(time.Now())
}

// OneMonthAgo returns the calendar day one month before ref.
func OneMonthAgo(ref time.Time) time.Time {
	return Day(ref.AddDate(0, -1, 0))
}

// OneYearFromNow returns the calendar day one year after ref.
func OneYearFromNow(ref time.Time) time.Time {
	return Day(ref.AddDate(1, 0, 0))
}

// WithinRange reports whether t's calendar day lies in [from, to] inclusive.
func WithinRange(t, from, to time.Time) bool {
	return OnOrAfter(t, from) && OnOrBefore(t, to)
}
