// Package ratings keeps the running team state a walk-forward replay needs
// besides the Dixon-Coles fit: Elo ratings, rolling scoring rates and rest
// days.
package ratings

import (
	"math"

	"github.com/okian/matchodds/internal/domain/model"
)

// Default Elo configuration.
const (
	DefaultEloK             = 20.0
	DefaultEloHomeAdvantage = 60.0
	DefaultEloInitial       = 1500.0
	defaultDrawBase         = 0.28
	eloScale                = 400.0
	minOutcomeProb          = 0.01
)

// EloOption applies a configuration option to Elo.
type EloOption func(*Elo)

// WithK sets the update step size.
func WithK(k float64) EloOption {
	return func(e *Elo) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithHomeAdvantage sets the rating bonus given to the home side.
func WithHomeAdvantage(points float64) EloOption {
	return func(e *Elo) {
		e.homeAdvantage = points
	}
}

// Elo tracks team ratings with a goal-difference-scaled update. Not safe
// for concurrent use; each replay owns its own instance.
type Elo struct {
	k             float64
	homeAdvantage float64
	initial       float64
	ratings       map[int]float64

	// observed draw rate, used to spread mass into the draw outcome
	matches int
	draws   int
}

// NewElo creates an Elo table with configuration options.
func NewElo(opts ...EloOption) *Elo {
	e := &Elo{
		k:             DefaultEloK,
		homeAdvantage: DefaultEloHomeAdvantage,
		initial:       DefaultEloInitial,
		ratings:       make(map[int]float64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rating returns the team's rating, or the initial rating if unseen.
func (e *Elo) Rating(team int) float64 {
	if r, ok := e.ratings[team]; ok {
		return r
	}
	return e.initial
}

// Expected returns the home side's expected score in [0, 1].
func (e *Elo) Expected(home, away int) float64 {
	diff := e.Rating(home) + e.homeAdvantage - e.Rating(away)
	return 1 / (1 + math.Pow(10, -diff/eloScale))
}

// Probabilities converts the expected score into a three-way forecast. The
// draw share peaks for evenly matched sides and shrinks as the gap grows.
func (e *Elo) Probabilities(home, away int) model.Probabilities {
	exp := e.Expected(home, away)
	draw := e.drawRate() * (1 - math.Abs(2*exp-1))
	p := model.Probabilities{
		Home: math.Max(exp-draw/2, minOutcomeProb),
		Draw: math.Max(draw, minOutcomeProb),
		Away: math.Max(1-exp-draw/2, minOutcomeProb),
	}
	return p.Normalize()
}

// Update applies the result of m to both teams.
func (e *Elo) Update(m model.MatchRecord) {
	exp := e.Expected(m.HomeID, m.AwayID)
	var actual float64
	switch m.Outcome() {
	case model.OutcomeHome:
		actual = 1
	case model.OutcomeDraw:
		actual = 0.5
		e.draws++
	}
	e.matches++

	// Wider margins move ratings further: multiplier log2(|gd| + 2).
	margin := math.Abs(float64(m.HomeGoals - m.AwayGoals))
	delta := e.k * math.Log2(margin+2) * (actual - exp)
	e.ratings[m.HomeID] = e.Rating(m.HomeID) + delta
	e.ratings[m.AwayID] = e.Rating(m.AwayID) - delta
}

func (e *Elo) drawRate() float64 {
	if e.matches < 20 {
		return defaultDrawBase
	}
	return float64(e.draws) / float64(e.matches)
}
