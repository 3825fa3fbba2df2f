package dixoncoles

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scoring rates are clamped to [MinRate, MaxRate]; the clamp is applied to
// the log-rate before exponentiating.
const (
	MinRate = 0.01
	MaxRate = 10.0

	tauFloor = 1e-10
)

var (
	logMinRate = math.Log(MinRate) //nolint:gochecknoglobals // derived constant
	logMaxRate = math.Log(MaxRate) //nolint:gochecknoglobals // derived constant
)

// clampLog clamps a log-rate and reports whether v was strictly inside the
// bounds. Outside them the rate is flat, so its derivative is zero.
func clampLog(v float64) (float64, bool) {
	switch {
	case v <= logMinRate:
		return logMinRate, false
	case v >= logMaxRate:
		return logMaxRate, false
	default:
		return v, true
	}
}

// batch is the flattened match set the likelihood kernel runs over. All
// buffers are sized once in newBatch; evaluating the objective or its
// gradient allocates nothing.
//
// Parameter vector layout for N teams (2N-1 entries):
//
//	theta[0 : N-1]      attack of teams 0..N-2
//	theta[N-1 : 2N-2]   defense of teams 0..N-2
//	theta[2N-2]         home advantage
//
// Team N-1 takes the negative sum of the others on each side, so both
// rating vectors sum to zero by construction.
type batch struct {
	teams int
	useXG bool

	home, away []int     // team index per match
	x, y       []float64 // home/away goals, or expected goals in xG mode
	w          []float64 // time-decay weight per match
	lf         []float64 // log(x!) + log(y!) per match; zero in xG mode
	cell       []lowScore
	wsum       float64

	att, def   []float64 // expanded ratings (scratch)
	gAtt, gDef []float64 // per-team gradient accumulators (scratch)
}

func newBatch(teams, matches int, useXG bool) *batch {
	return &batch{
		teams: teams,
		useXG: useXG,
		home:  make([]int, 0, matches),
		away:  make([]int, 0, matches),
		x:     make([]float64, 0, matches),
		y:     make([]float64, 0, matches),
		w:     make([]float64, 0, matches),
		lf:    make([]float64, 0, matches),
		cell:  make([]lowScore, 0, matches),
		att:   make([]float64, teams),
		def:   make([]float64, teams),
		gAtt:  make([]float64, teams),
		gDef:  make([]float64, teams),
	}
}

func (b *batch) addGoals(home, away, hg, ag int, w float64) {
	b.add(home, away, float64(hg), float64(ag), w, logFactorial(hg)+logFactorial(ag), lowScoreCell(hg, ag))
}

func (b *batch) addXG(home, away int, hxg, axg, w float64) {
	b.add(home, away, hxg, axg, w, 0, cellNone)
}

func (b *batch) add(home, away int, x, y, w, lf float64, c lowScore) {
	b.home = append(b.home, home)
	b.away = append(b.away, away)
	b.x = append(b.x, x)
	b.y = append(b.y, y)
	b.w = append(b.w, w)
	b.lf = append(b.lf, lf)
	b.cell = append(b.cell, c)
}

// seal finalizes the weight normalizer once all matches are added.
func (b *batch) seal() {
	b.wsum = floats.Sum(b.w)
	if b.wsum <= 0 {
		b.wsum = 1
	}
}

func (b *batch) dim() int { return 2*b.teams - 1 }

// expand writes theta into the per-team scratch ratings and returns the
// home advantage.
func (b *batch) expand(theta []float64) float64 {
	k := b.teams - 1
	copy(b.att[:k], theta[:k])
	copy(b.def[:k], theta[k:2*k])
	b.att[k] = -floats.Sum(b.att[:k])
	b.def[k] = -floats.Sum(b.def[:k])
	return theta[2*k]
}

// logLik returns the weighted log-likelihood at theta (not normalized).
func (b *batch) logLik(theta []float64, rho float64) float64 {
	ha := b.expand(theta)
	var ll float64
	for m := range b.x {
		h, a := b.home[m], b.away[m]
		l1, _ := clampLog(ha + b.att[h] + b.def[a])
		l2, _ := clampLog(b.att[a] + b.def[h])
		lam, mu := math.Exp(l1), math.Exp(l2)

		v := b.x[m]*l1 - lam + b.y[m]*l2 - mu - b.lf[m]
		if b.cell[m] != cellNone {
			v += math.Log(math.Max(tauCell(b.cell[m], lam, mu, rho), tauFloor))
		}
		ll += b.w[m] * v
	}
	return ll
}

// objective is the negative log-likelihood scaled by the total weight, which
// keeps the solver's tolerances independent of sample size and decay rate.
func (b *batch) objective(theta []float64, rho float64) float64 {
	return -b.logLik(theta, rho) / b.wsum
}

// gradient stores d objective / d theta in grad.
func (b *batch) gradient(grad, theta []float64, rho float64) {
	ha := b.expand(theta)
	for i := range b.gAtt {
		b.gAtt[i] = 0
		b.gDef[i] = 0
	}
	var gHA float64

	for m := range b.x {
		h, a := b.home[m], b.away[m]
		l1, in1 := clampLog(ha + b.att[h] + b.def[a])
		l2, in2 := clampLog(b.att[a] + b.def[h])
		lam, mu := math.Exp(l1), math.Exp(l2)

		d1 := b.x[m] - lam
		d2 := b.y[m] - mu
		if c := b.cell[m]; c != cellNone {
			if t := tauCell(c, lam, mu, rho); t > tauFloor {
				switch c {
				case cell00:
					dt := -lam * mu * rho / t
					d1 += dt
					d2 += dt
				case cell01:
					d1 += lam * rho / t
				case cell10:
					d2 += mu * rho / t
				}
			}
		}
		if !in1 {
			d1 = 0
		}
		if !in2 {
			d2 = 0
		}

		scale := -b.w[m] / b.wsum
		g1, g2 := scale*d1, scale*d2
		gHA += g1
		b.gAtt[h] += g1
		b.gDef[a] += g1
		b.gAtt[a] += g2
		b.gDef[h] += g2
	}

	k := b.teams - 1
	for i := 0; i < k; i++ {
		grad[i] = b.gAtt[i] - b.gAtt[k]
		grad[k+i] = b.gDef[i] - b.gDef[k]
	}
	grad[2*k] = gHA
}
