// Package calendar normalizes calendar days so dates compare independently of wall-clock time.
package calendar

import (
	"strings"
	"time"
)

// Layout is the wire format used for calendar days.
const Layout = "2006-01-02"

// Day returns midnight UTC of the calendar day t falls on in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day as observed in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(now.In(loc))
}

// ISOWeekday numbers days Monday=1 through Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Parse reads a YYYY-MM-DD calendar day.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Between reports whether day lies in the inclusive range [start, end].
func Between(day, start, end time.Time) bool {
	day, start, end = Day(day), Day(start), Day(end)
	return !day.Before(start) && !day.After(end)
}
