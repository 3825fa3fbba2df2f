// Package tuning searches for the time-decay rate that gives the best
// out-of-sample log-loss on a chronological hold-out.
package tuning

import (
	"context"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/scoring"
)

// Candidate is one evaluated grid point. LogLoss is +Inf when the train
// portion could not be fitted or no validation match was scorable.
type Candidate struct {
	Xi      float64
	LogLoss float64
	Scored  int
}

// Result is the outcome of a decay search.
type Result struct {
	Xi         float64
	LogLoss    float64
	Train      int
	Validation int
	Candidates []Candidate
	// Fallback is set when there was too little data to search and Xi is
	// DefaultXi.
	Fallback bool
}

// Tuner holds search configuration. It is immutable after New.
type Tuner struct {
	grid        []float64
	trainShare  float64
	kMax        int
	parallelism int
	fitter      *dixoncoles.Fitter
}

// New creates a Tuner with configuration options.
func New(opts ...Option) *Tuner {
	t := &Tuner{
		grid:        DefaultGrid(),
		trainShare:  DefaultTrainShare,
		kMax:        dixoncoles.DefaultKMax,
		parallelism: runtime.NumCPU(),
		fitter:      dixoncoles.NewFitter(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TuneDecay runs a search with the default configuration over grid.
func TuneDecay(ctx context.Context, matches []model.MatchRecord, grid []float64) (Result, error) {
	return New(WithGrid(grid)).Tune(ctx, matches)
}

// Tune splits matches by date into train and validation portions, fits
// every candidate on the train portion and keeps the xi with the lowest mean
// validation log-loss. Ties go to the earlier grid point. With fewer than
// MinMatches matches it returns DefaultXi and an infinite loss.
func (t *Tuner) Tune(ctx context.Context, matches []model.MatchRecord) (Result, error) {
	ordered := model.Chronological(matches)
	if len(ordered) < MinMatches {
		return Result{Xi: DefaultXi, LogLoss: math.Inf(1), Fallback: true}, nil
	}

	cut := max(int(float64(len(ordered))*t.trainShare), 1)
	train, valid := ordered[:cut], ordered[cut:]
	refDate := model.Date(train[len(train)-1].Date).AddDate(0, 0, 1)

	candidates := make([]Candidate, len(t.grid))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.parallelism)
	for i, xi := range t.grid {
		i, xi := i, xi
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates[i] = t.evaluate(train, valid, refDate, xi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		Xi:         DefaultXi,
		LogLoss:    math.Inf(1),
		Train:      len(train),
		Validation: len(valid),
		Candidates: candidates,
	}
	for _, c := range candidates {
		if c.LogLoss < res.LogLoss {
			res.Xi, res.LogLoss = c.Xi, c.LogLoss
		}
	}
	return res, nil
}

func (t *Tuner) evaluate(train, valid []model.MatchRecord, refDate time.Time, xi float64) Candidate {
	c := Candidate{Xi: xi, LogLoss: math.Inf(1)}
	params, err := t.fitter.Fit(train, refDate, xi, false)
	if err != nil {
		return c
	}
	var total float64
	for _, m := range valid {
		lambda, mu, err := dixoncoles.Rates(params, m.HomeID, m.AwayID)
		if err != nil {
			continue
		}
		probs := dixoncoles.MatchProbabilities(lambda, mu, params.Rho, t.kMax)
		total += scoring.LogLoss(probs, m.Outcome())
		c.Scored++
	}
	if c.Scored > 0 {
		c.LogLoss = total / float64(c.Scored)
	}
	return c
}
