// Package decay implements exponential time-decay sample weights.
package decay

import (
	"math"
	"time"

	"github.com/okian/matchodds/internal/domain/model"
)

// Weight returns exp(-xi * max(0, days from matchDate to refDate)).
// xi = 0 gives every match weight one.
func Weight(matchDate, refDate time.Time, xi float64) float64 {
	days := model.DaysBetween(matchDate, refDate)
	if days < 0 {
		days = 0
	}
	return math.Exp(-xi * float64(days))
}

// HalfLife returns the number of days after which a match's weight halves.
// It is +Inf for xi <= 0.
func HalfLife(xi float64) float64 {
	if xi <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / xi
}

// FromHalfLife converts a half-life in days into a decay rate.
func FromHalfLife(days float64) float64 {
	if days <= 0 || math.IsInf(days, 1) {
		return 0
	}
	return math.Ln2 / days
}
