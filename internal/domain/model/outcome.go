package model

import "math"

// Outcome is a three-way match result. The numeric order home < draw < away
// is the ordinal scale used by the ranked probability score.
type Outcome int

const (
	OutcomeHome Outcome = iota
	OutcomeDraw
	OutcomeAway
)

// String returns the short code used in CSV feeds (H, D, A).
func (o Outcome) String() string {
	switch o {
	case OutcomeHome:
		return "H"
	case OutcomeDraw:
		return "D"
	case OutcomeAway:
		return "A"
	default:
		return "?"
	}
}

// OutcomeOf classifies a final score.
func OutcomeOf(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHome
	case homeGoals == awayGoals:
		return OutcomeDraw
	default:
		return OutcomeAway
	}
}

// Probabilities is a home/draw/away distribution.
type Probabilities struct {
	Home float64 `json:"p_home"`
	Draw float64 `json:"p_draw"`
	Away float64 `json:"p_away"`
}

// Of returns the probability assigned to outcome o.
func (p Probabilities) Of(o Outcome) float64 {
	switch o {
	case OutcomeHome:
		return p.Home
	case OutcomeDraw:
		return p.Draw
	default:
		return p.Away
	}
}

// Sum returns Home+Draw+Away.
func (p Probabilities) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

// Normalize rescales p to sum to one. Negative entries are clamped to zero
// first; an all-zero input becomes the uniform distribution.
func (p Probabilities) Normalize() Probabilities {
	h := math.Max(p.Home, 0)
	d := math.Max(p.Draw, 0)
	a := math.Max(p.Away, 0)
	total := h + d + a
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return Probabilities{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3}
	}
	return Probabilities{Home: h / total, Draw: d / total, Away: a / total}
}

// Blend mixes a and b as w*a + (1-w)*b and renormalizes. w is clamped to [0,1].
func Blend(a, b Probabilities, w float64) Probabilities {
	w = math.Max(0, math.Min(1, w))
	return Probabilities{
		Home: w*a.Home + (1-w)*b.Home,
		Draw: w*a.Draw + (1-w)*b.Draw,
		Away: w*a.Away + (1-w)*b.Away,
	}.Normalize()
}
