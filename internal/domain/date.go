package domain

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Day truncates a time to a calendar date at UTC midnight. All domain
// operations work on whole dates, never time-of-day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return Day(time.Now())
}

// NightsBetween returns the whole-day difference between two dates.
func NightsBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)) / (24 * time.Hour))
}

// ParseDate parses an ISO-8601 (YYYY-MM-DD) date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
