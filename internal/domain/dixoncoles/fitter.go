// Package dixoncoles estimates Dixon-Coles team ratings by weighted maximum
// likelihood and turns them into match outcome probabilities.
package dixoncoles

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/okian/matchodds/internal/domain/decay"
	"github.com/okian/matchodds/internal/domain/model"
)

// Data requirements for a fit.
const (
	MinMatches = 10
	MinTeams   = 4
)

// Rho search range for goals mode.
const (
	RhoMin = -0.35
	RhoMax = 0.35
)

// Default solver configuration.
const (
	DefaultRhoGridSteps  = 15
	defaultMaxIterations = 300
	defaultGradientTol   = 1e-6
	initialHomeAdvantage = 0.25
)

// Option applies a configuration option to the Fitter.
type Option func(*Fitter)

// WithRhoGridSteps sets the number of rho candidates searched in goals mode.
func WithRhoGridSteps(steps int) Option {
	return func(f *Fitter) {
		if steps > 0 {
			f.rhoGridSteps = steps
		}
	}
}

// WithMaxIterations caps the quasi-Newton iterations per rho candidate.
func WithMaxIterations(n int) Option {
	return func(f *Fitter) {
		if n > 0 {
			f.maxIterations = n
		}
	}
}

// WithGradientTolerance sets the gradient norm at which the solver stops.
func WithGradientTolerance(tol float64) Option {
	return func(f *Fitter) {
		if tol > 0 {
			f.gradientTol = tol
		}
	}
}

// Fitter runs Dixon-Coles fits. It holds configuration only and is safe
// for concurrent use.
type Fitter struct {
	rhoGridSteps  int
	maxIterations int
	gradientTol   float64
}

// NewFitter creates a Fitter with configuration options.
func NewFitter(opts ...Option) *Fitter {
	f := &Fitter{
		rhoGridSteps:  DefaultRhoGridSteps,
		maxIterations: defaultMaxIterations,
		gradientTol:   defaultGradientTol,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fit estimates parameters from matches played strictly before refDate,
// weighting each by decay.Weight(date, refDate, xi). In xG mode only matches
// carrying both expected-goals values are used, rho is fixed at zero and a
// quasi-Poisson kernel replaces the Poisson one.
//
// Fit returns an *InsufficientDataError when fewer than MinMatches usable
// matches or MinTeams distinct teams remain. It never modifies matches.
func Fit(matches []model.MatchRecord, refDate time.Time, xi float64, rhoGridSteps int, useXG bool) (model.FittedParameters, error) {
	return NewFitter(WithRhoGridSteps(rhoGridSteps)).Fit(matches, refDate, xi, useXG)
}

// Fit is the method form of the package-level Fit.
func (f *Fitter) Fit(matches []model.MatchRecord, refDate time.Time, xi float64, useXG bool) (model.FittedParameters, error) {
	if xi < 0 {
		xi = 0
	}
	ref := model.Date(refDate)

	usable := make([]model.MatchRecord, 0, len(matches))
	teamSet := make(map[int]struct{})
	for _, m := range matches {
		if !model.Date(m.Date).Before(ref) {
			continue
		}
		if useXG && !m.HasXG() {
			continue
		}
		usable = append(usable, m)
		teamSet[m.HomeID] = struct{}{}
		teamSet[m.AwayID] = struct{}{}
	}
	if len(usable) < MinMatches || len(teamSet) < MinTeams {
		return model.FittedParameters{}, &InsufficientDataError{Matches: len(usable), Teams: len(teamSet)}
	}

	ids := make([]int, 0, len(teamSet))
	for id := range teamSet {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	index := make(map[int]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	b := newBatch(len(ids), len(usable), useXG)
	for _, m := range usable {
		w := decay.Weight(m.Date, ref, xi)
		if useXG {
			b.addXG(index[m.HomeID], index[m.AwayID], *m.HomeXG, *m.AwayXG, w)
		} else {
			b.addGoals(index[m.HomeID], index[m.AwayID], m.HomeGoals, m.AwayGoals, w)
		}
	}
	b.seal()

	theta := make([]float64, b.dim())
	theta[len(theta)-1] = initialHomeAdvantage

	bestTheta := append([]float64(nil), theta...)
	bestRho := 0.0
	if useXG {
		bestTheta, _ = f.minimize(b, theta, 0)
	} else {
		// Warm start: each candidate begins from the previous optimum.
		bestObj := math.Inf(1)
		for _, rho := range RhoGrid(f.rhoGridSteps) {
			x, obj := f.minimize(b, theta, rho)
			if obj < bestObj {
				bestObj = obj
				bestTheta = x
				bestRho = rho
			}
			theta = x
		}
	}

	ha := b.expand(bestTheta)
	out := model.FittedParameters{
		Attack:        make(map[int]float64, len(ids)),
		Defense:       make(map[int]float64, len(ids)),
		HomeAdvantage: ha,
		Rho:           bestRho,
		Xi:            xi,
		LogLikelihood: b.logLik(bestTheta, bestRho),
		NMatches:      len(usable),
		NTeams:        len(ids),
		Source:        model.SourceGoals,
	}
	if useXG {
		out.Source = model.SourceXG
	}
	for i, id := range ids {
		out.Attack[id] = b.att[i]
		out.Defense[id] = b.def[i]
	}
	return out, nil
}

// minimize runs L-BFGS from start with rho held fixed and returns the best
// iterate and its objective. Solver failures are not surfaced: whatever
// location the solver reached is accepted, falling back to start when the
// solver produced nothing usable.
func (f *Fitter) minimize(b *batch, start []float64, rho float64) ([]float64, float64) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 { return b.objective(x, rho) },
		Grad: func(grad, x []float64) { b.gradient(grad, x, rho) },
	}
	settings := &optimize.Settings{
		GradientThreshold: f.gradientTol,
		MajorIterations:   f.maxIterations,
	}
	init := append([]float64(nil), start...)
	res, _ := optimize.Minimize(problem, init, settings, &optimize.LBFGS{})
	if res == nil || len(res.X) != len(start) || math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		x := append([]float64(nil), start...)
		return x, b.objective(x, rho)
	}
	return append([]float64(nil), res.X...), res.F
}

// RhoGrid returns steps evenly spaced values from RhoMin to RhoMax in
// ascending order. Fewer than two steps searches only rho = 0.
func RhoGrid(steps int) []float64 {
	if steps < 2 {
		return []float64{0}
	}
	grid := make([]float64, steps)
	span := RhoMax - RhoMin
	for i := range grid {
		grid[i] = RhoMin + span*float64(i)/float64(steps-1)
	}
	return grid
}
