// Package walkforward replays historical matches in date order, forecasting
// each one from information available before kick-off and scoring the
// forecast with proper scoring rules.
package walkforward

import (
	"runtime"

	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/ratings"
	"github.com/okian/matchodds/internal/domain/scoring"
)

// Phase is the replay stage a run is in.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseWarmup
	PhaseScoring
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseWarmup:
		return "warmup"
	case PhaseScoring:
		return "scoring"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Evaluator holds replay configuration. It is immutable after New and safe
// to share; every Run builds its own state.
type Evaluator struct {
	warmup          int
	refitInterval   int
	minHistory      int
	xi              float64
	kMax            int
	formWindow      int
	fatigueRestDays int
	fatigueFactor   float64
	parallelism     int
	eloOpts         []ratings.EloOption
	fitter          *dixoncoles.Fitter
	onRefit         func(config string, err error)
}

// New creates an Evaluator with configuration options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		warmup:          DefaultWarmup,
		refitInterval:   DefaultRefitInterval,
		minHistory:      DefaultMinHistory,
		xi:              DefaultXi,
		kMax:            dixoncoles.DefaultKMax,
		formWindow:      ratings.DefaultFormWindow,
		fatigueRestDays: DefaultFatigueRestDays,
		fatigueFactor:   DefaultFatigueFactor,
		parallelism:     runtime.NumCPU(),
		fitter:          dixoncoles.NewFitter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run is the outcome of replaying one configuration.
type Run struct {
	Config  string
	Phase   Phase
	Records []model.EvaluationRecord
	Summary scoring.Summary
	Refits  int
}

// Run replays matches under the named configuration. Matches are ordered by
// date (stable, so equal dates keep their input order). For every match
// after the warmup the order of steps is fixed: refit if due, predict,
// score, and only then fold the result into state. Matches sharing a date
// are treated as sequential: Elo, form and rest state already include the
// earlier ones, while the Dixon-Coles fit only sees earlier dates.
func (e *Evaluator) Run(matches []model.MatchRecord, config string) (*Run, error) {
	f, err := newForecaster(config, e)
	if err != nil {
		return nil, err
	}
	ordered := model.Chronological(matches)
	if len(ordered) <= e.warmup {
		return nil, ErrNoMatches
	}

	run := &Run{Config: config, Phase: PhaseInit, Records: make([]model.EvaluationRecord, 0, len(ordered)-e.warmup)}
	st := newState(e)

	for i, m := range ordered {
		if i < e.warmup {
			run.Phase = PhaseWarmup
			st.observe(m)
			continue
		}
		run.Phase = PhaseScoring
		fx := Fixture{HomeID: m.HomeID, AwayID: m.AwayID, Date: model.Date(m.Date)}

		if need := f.needs(); need != fitNone && st.due(e) {
			err := st.refit(e, fx.Date, need)
			if e.onRefit != nil {
				e.onRefit(config, err)
			}
			if err == nil {
				f.refitted()
			}
		}

		probs, fallback := f.predict(st, fx)
		outcome := m.Outcome()
		s := scoring.Score(probs, outcome)
		run.Records = append(run.Records, model.EvaluationRecord{
			Date:     fx.Date,
			HomeID:   fx.HomeID,
			AwayID:   fx.AwayID,
			Probs:    probs,
			Outcome:  outcome,
			RPS:      s.RPS,
			Brier:    s.Brier,
			LogLoss:  s.LogLoss,
			Fallback: fallback,
		})

		f.learn(fx, outcome)
		st.observe(m)
	}

	run.Phase = PhaseDone
	run.Refits = st.refits
	run.Summary = scoring.Summarize(run.Records)
	return run, nil
}

func (e *Evaluator) fatigueMultiplier(s *state, team int, fx Fixture) float64 {
	days, ok := s.rest.DaysSince(team, fx.Date)
	if ok && days < e.fatigueRestDays {
		return 1 - e.fatigueFactor
	}
	return 1
}
