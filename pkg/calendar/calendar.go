// Package calendar provides the weekly period arithmetic the bot trades
// against: boundary dates, elapsed/remaining day counts, and the compact
// date tokens used to key stored simulation batches.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// NextBoundary returns the next occurrence of resetDay strictly after
// cutoff, truncated to midnight. A cutoff that already falls on resetDay
// rolls a full week forward: the period settling on the cutoff itself is
// over.
func NextBoundary(cutoff time.Time, resetDay time.Weekday) time.Time {
	daysAhead := (int(resetDay) - int(cutoff.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	next := cutoff.AddDate(0, 0, daysAhead)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
}

// PreviousBoundary returns the boundary one week before NextBoundary, i.e.
// the reset day on or before the cutoff. Days strictly after this date
// belong to the current period.
func PreviousBoundary(cutoff time.Time, resetDay time.Weekday) time.Time {
	return NextBoundary(cutoff, resetDay).AddDate(0, 0, -7)
}

// DaysRemaining returns the whole days between cutoff and boundary,
// ignoring time-of-day on either side.
func DaysRemaining(cutoff, boundary time.Time) int {
	c := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(boundary.Year(), boundary.Month(), boundary.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(c).Hours() / 24)
}

// Token formats a date as the compact YYMONDD token, e.g. 25JUL20. The
// same format keys simulation tables (by cutoff date) and event tickers
// (by boundary date).
func Token(t time.Time) string {
	return fmt.Sprintf("%s%s%s", t.Format("06"), strings.ToUpper(t.Format("Jan")), t.Format("02"))
}
