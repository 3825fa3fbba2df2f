package walkforward

import (
	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/ratings"
)

// Default replay configuration.
const (
	DefaultWarmup           = 100
	DefaultRefitInterval    = 30
	DefaultMinHistory       = 60
	DefaultXi               = 0.0018
	DefaultFatigueRestDays  = 4
	DefaultFatigueFactor    = 0.05
	DefaultStackingFallback = 0.7
)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithWarmup sets how many leading matches only build state.
func WithWarmup(n int) Option {
	return func(e *Evaluator) {
		if n >= 0 {
			e.warmup = n
		}
	}
}

// WithRefitInterval sets how many observed matches trigger a refit.
func WithRefitInterval(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.refitInterval = n
		}
	}
}

// WithMinHistory sets how many observed matches a first fit waits for.
func WithMinHistory(n int) Option {
	return func(e *Evaluator) {
		if n >= dixoncoles.MinMatches {
			e.minHistory = n
		}
	}
}

// WithXi sets the time-decay rate used by every refit.
func WithXi(xi float64) Option {
	return func(e *Evaluator) {
		if xi >= 0 {
			e.xi = xi
		}
	}
}

// WithFitter replaces the Dixon-Coles fitter.
func WithFitter(f *dixoncoles.Fitter) Option {
	return func(e *Evaluator) {
		if f != nil {
			e.fitter = f
		}
	}
}

// WithKMax sets the score enumeration bound for probabilities.
func WithKMax(k int) Option {
	return func(e *Evaluator) {
		if k > 0 {
			e.kMax = k
		}
	}
}

// WithFormWindow sets the rolling window of the baseline model.
func WithFormWindow(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.formWindow = n
		}
	}
}

// WithElo configures the Elo ratings carried through the replay.
func WithElo(k, homeAdvantage float64) Option {
	return func(e *Evaluator) {
		e.eloOpts = []ratings.EloOption{ratings.WithK(k), ratings.WithHomeAdvantage(homeAdvantage)}
	}
}

// WithFatigue configures the fatigue adjustment: a side that played fewer
// than restDays days earlier has its scoring rate scaled by 1 - factor.
func WithFatigue(restDays int, factor float64) Option {
	return func(e *Evaluator) {
		if restDays > 0 {
			e.fatigueRestDays = restDays
		}
		if factor >= 0 && factor < 1 {
			e.fatigueFactor = factor
		}
	}
}

// WithParallelism bounds how many configurations an ablation runs at once.
func WithParallelism(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithRefitHook registers a callback invoked after every refit attempt.
// Used for metrics; it must be safe for concurrent use when ablations run
// configurations in parallel.
func WithRefitHook(h func(config string, err error)) Option {
	return func(e *Evaluator) {
		e.onRefit = h
	}
}
