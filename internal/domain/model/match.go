// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"time"
)

// MatchRecord is a finished match as supplied by the match history source.
// Records are immutable once created; consumers only read them.
type MatchRecord struct {
	League    string    // league code, e.g. "E0"; optional for single-league inputs
	HomeID    int       // opaque team identifier
	AwayID    int       // opaque team identifier
	HomeGoals int       // full-time goals, non-negative
	AwayGoals int       // full-time goals, non-negative
	Date      time.Time // calendar date, truncated to midnight UTC
	HomeXG    *float64  // expected goals, nil when the provider has none
	AwayXG    *float64
}

// HasXG reports whether both expected-goals values are present.
func (m MatchRecord) HasXG() bool {
	return m.HomeXG != nil && m.AwayXG != nil
}

// Outcome returns the realized three-way result.
func (m MatchRecord) Outcome() Outcome {
	return OutcomeOf(m.HomeGoals, m.AwayGoals)
}

// Date truncates t to a calendar date in UTC.
func Date(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from a to b (negative if b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// XG returns a pointer to v, for building records with expected goals.
func XG(v float64) *float64 { return &v }

// Chronological returns a date-ordered copy of matches. The sort is stable,
// so matches sharing a date keep their input order.
func Chronological(matches []MatchRecord) []MatchRecord {
	out := append([]MatchRecord(nil), matches...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
