package walkforward

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/scoring"
)

// Configuration names accepted by Run and Ablation.
const (
	ConfigBaseline    = "baseline"
	ConfigElo         = "elo"
	ConfigDixonColes  = "dixon_coles"
	ConfigDixonXG     = "dixon_coles_xg"
	ConfigDCFatigue   = "dixon_coles_fatigue"
	ConfigDCStacking  = "dixon_coles_stacking"
	DefaultBaseline   = ConfigBaseline
	stackingGridSteps = 10
)

// forecaster is one model configuration. A fresh instance is built for every
// run, so implementations may keep private state.
type forecaster interface {
	needs() fitNeed
	predict(s *state, fx Fixture) (p model.Probabilities, fallback bool)
	// learn sees the realized outcome after the forecast was scored.
	learn(fx Fixture, outcome model.Outcome)
	// refitted is called after each successful refit.
	refitted()
}

type factory func(e *Evaluator) forecaster

var registry = map[string]factory{ //nolint:gochecknoglobals // static configuration table
	ConfigBaseline:   func(e *Evaluator) forecaster { return &baselineModel{e: e} },
	ConfigElo:        func(*Evaluator) forecaster { return &eloModel{} },
	ConfigDixonColes: func(e *Evaluator) forecaster { return &dcModel{e: e} },
	ConfigDixonXG:    func(e *Evaluator) forecaster { return &dcModel{e: e, useXG: true} },
	ConfigDCFatigue:  func(e *Evaluator) forecaster { return &dcModel{e: e, fatigue: true} },
	ConfigDCStacking: func(e *Evaluator) forecaster { return newStackingModel(e) },
}

// Configs returns every known configuration name in sorted order.
func Configs() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newForecaster(name string, e *Evaluator) (forecaster, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfig, name)
	}
	return f(e), nil
}

type baselineModel struct{ e *Evaluator }

func (m *baselineModel) needs() fitNeed { return fitNone }

func (m *baselineModel) predict(s *state, fx Fixture) (model.Probabilities, bool) {
	return s.baseline(m.e, fx), false
}

func (m *baselineModel) learn(Fixture, model.Outcome) {}
func (m *baselineModel) refitted()                    {}

type eloModel struct{}

func (m *eloModel) needs() fitNeed { return fitNone }

func (m *eloModel) predict(s *state, fx Fixture) (model.Probabilities, bool) {
	return s.elo.Probabilities(fx.HomeID, fx.AwayID), false
}

func (m *eloModel) learn(Fixture, model.Outcome) {}
func (m *eloModel) refitted()                    {}

// dcModel forecasts from the latest Dixon-Coles fit, optionally the xG fit
// and optionally with a fatigue adjustment. It falls back to the baseline
// while no usable fit covers both teams.
type dcModel struct {
	e       *Evaluator
	useXG   bool
	fatigue bool
}

func (m *dcModel) needs() fitNeed {
	if m.useXG {
		return fitGoalsAndXG
	}
	return fitGoals
}

func (m *dcModel) predict(s *state, fx Fixture) (model.Probabilities, bool) {
	params := s.goals
	if m.useXG && s.xg != nil && s.xg.Has(fx.HomeID) && s.xg.Has(fx.AwayID) {
		params = s.xg
	}
	if params == nil {
		return s.baseline(m.e, fx), true
	}
	lambda, mu, err := dixoncoles.Rates(*params, fx.HomeID, fx.AwayID)
	if err != nil {
		return s.baseline(m.e, fx), true
	}
	if m.fatigue {
		lambda *= m.e.fatigueMultiplier(s, fx.HomeID, fx)
		mu *= m.e.fatigueMultiplier(s, fx.AwayID, fx)
	}
	return dixoncoles.MatchProbabilities(lambda, mu, params.Rho, m.e.kMax), false
}

func (m *dcModel) learn(Fixture, model.Outcome) {}
func (m *dcModel) refitted()                    {}

// stackingModel blends the Dixon-Coles and Elo forecasts. The blend weight
// is re-chosen after each refit as the grid value with the lowest mean
// log-loss over forecasts already scored in this run.
type stackingModel struct {
	dc      *dcModel
	weight  float64
	pending [2]model.Probabilities
	past    []stackSample
}

type stackSample struct {
	dc, elo model.Probabilities
	outcome model.Outcome
}

func newStackingModel(e *Evaluator) *stackingModel {
	return &stackingModel{dc: &dcModel{e: e}, weight: DefaultStackingFallback}
}

func (m *stackingModel) needs() fitNeed { return fitGoals }

func (m *stackingModel) predict(s *state, fx Fixture) (model.Probabilities, bool) {
	dc, fallback := m.dc.predict(s, fx)
	elo := s.elo.Probabilities(fx.HomeID, fx.AwayID)
	m.pending = [2]model.Probabilities{dc, elo}
	return model.Blend(dc, elo, m.weight), fallback
}

func (m *stackingModel) learn(_ Fixture, outcome model.Outcome) {
	m.past = append(m.past, stackSample{dc: m.pending[0], elo: m.pending[1], outcome: outcome})
}

func (m *stackingModel) refitted() {
	if len(m.past) == 0 {
		return
	}
	best, bestLoss := m.weight, math.Inf(1)
	for i := 0; i <= stackingGridSteps; i++ {
		w := float64(i) / stackingGridSteps
		var loss float64
		for _, smp := range m.past {
			loss += scoring.LogLoss(model.Blend(smp.dc, smp.elo, w), smp.outcome)
		}
		if loss < bestLoss {
			best, bestLoss = w, loss
		}
	}
	m.weight = best
}

func poissonProbabilities(lambda, mu float64, kMax int) model.Probabilities {
	lambda = math.Min(math.Max(lambda, dixoncoles.MinRate), dixoncoles.MaxRate)
	mu = math.Min(math.Max(mu, dixoncoles.MinRate), dixoncoles.MaxRate)
	return dixoncoles.MatchProbabilities(lambda, mu, 0, kMax)
}
