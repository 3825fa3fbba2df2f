package walkforward

import (
	"time"

	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/ratings"
)

// Fixture is what a model may see before kick-off: no result.
type Fixture struct {
	HomeID int
	AwayID int
	Date   time.Time
}

// fitNeed says which parameter sets a model reads.
type fitNeed int

const (
	fitNone fitNeed = iota
	fitGoals
	fitGoalsAndXG
)

// state is everything a single configuration run has learned so far. Each
// run owns its own state; nothing is shared between configurations.
type state struct {
	elo     *ratings.Elo
	form    *ratings.Form
	rest    *ratings.Rest
	history []model.MatchRecord // Dixon-Coles buffer, chronological

	goals *model.FittedParameters
	xg    *model.FittedParameters

	sinceRefit int
	refits     int
}

func newState(e *Evaluator) *state {
	return &state{
		elo:  ratings.NewElo(e.eloOpts...),
		form: ratings.NewForm(e.formWindow),
		rest: ratings.NewRest(),
	}
}

// observe folds a finished match into every running component. It must
// only ever be called after the match has been predicted and scored.
func (s *state) observe(m model.MatchRecord) {
	s.elo.Update(m)
	s.form.Update(m)
	s.rest.Update(m)
	s.history = append(s.history, m)
	s.sinceRefit++
}

// due reports whether a refit should run before the next prediction.
func (s *state) due(e *Evaluator) bool {
	if len(s.history) < e.minHistory {
		return false
	}
	return s.goals == nil || s.sinceRefit >= e.refitInterval
}

// refit fits on the buffered history strictly before date. A failed goals
// fit keeps the previous parameters and leaves the counter running so the
// next fixture tries again. It returns the goals-fit error, if any.
func (s *state) refit(e *Evaluator, date time.Time, need fitNeed) error {
	p, err := e.fitter.Fit(s.history, date, e.xi, false)
	if err != nil {
		return err
	}
	s.goals = &p
	s.sinceRefit = 0
	s.refits++

	if need == fitGoalsAndXG {
		if xp, xerr := e.fitter.Fit(s.history, date, e.xi, true); xerr == nil {
			s.xg = &xp
		}
	}
	return nil
}

// baseline is the rolling-average Poisson forecast, available from the
// first match onwards.
func (s *state) baseline(e *Evaluator, fx Fixture) model.Probabilities {
	lambda, mu := s.form.Rates(fx.HomeID, fx.AwayID)
	return poissonProbabilities(lambda, mu, e.kMax)
}
