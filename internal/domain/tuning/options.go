package tuning

import "github.com/okian/matchodds/internal/domain/dixoncoles"

// Default tuner configuration.
const (
	DefaultXi         = 0.0018
	DefaultTrainShare = 0.7
	MinMatches        = 50
)

// DefaultGrid is the xi grid searched when none is given, from no decay to a
// half-life of roughly 140 days.
func DefaultGrid() []float64 {
	return []float64{0, 0.0005, 0.001, 0.0015, 0.0018, 0.0025, 0.0035, 0.005}
}

// Option applies a configuration option to the Tuner.
type Option func(*Tuner)

// WithGrid sets the candidate decay rates. Negative values are dropped.
func WithGrid(grid []float64) Option {
	return func(t *Tuner) {
		g := make([]float64, 0, len(grid))
		for _, xi := range grid {
			if xi >= 0 {
				g = append(g, xi)
			}
		}
		if len(g) > 0 {
			t.grid = g
		}
	}
}

// WithTrainShare sets the chronological share of matches used for fitting.
func WithTrainShare(share float64) Option {
	return func(t *Tuner) {
		if share > 0 && share < 1 {
			t.trainShare = share
		}
	}
}

// WithFitter replaces the Dixon-Coles fitter.
func WithFitter(f *dixoncoles.Fitter) Option {
	return func(t *Tuner) {
		if f != nil {
			t.fitter = f
		}
	}
}

// WithKMax sets the score-grid truncation for validation forecasts.
func WithKMax(k int) Option {
	return func(t *Tuner) {
		if k > 0 {
			t.kMax = k
		}
	}
}

// WithParallelism caps how many candidates are fitted at once.
func WithParallelism(n int) Option {
	return func(t *Tuner) {
		if n > 0 {
			t.parallelism = n
		}
	}
}
