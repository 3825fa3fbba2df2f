// Package scoring implements proper scoring rules for three-way forecasts.
// Lower is better for every score.
package scoring

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/matchodds/internal/domain/model"
)

// ProbabilityFloor bounds probabilities away from zero in LogLoss.
const ProbabilityFloor = 1e-15

// Scores holds the three rules evaluated for one forecast.
type Scores struct {
	RPS     float64 `json:"rps"`
	Brier   float64 `json:"brier"`
	LogLoss float64 `json:"logloss"`
}

// Score evaluates all three rules for p against the realized outcome.
func Score(p model.Probabilities, outcome model.Outcome) Scores {
	return Scores{
		RPS:     RPS(p, outcome),
		Brier:   Brier(p, outcome),
		LogLoss: LogLoss(p, outcome),
	}
}

// RPS is the ranked probability score with outcomes ordered home, draw,
// away: half the sum of squared differences of the two non-trivial
// cumulative distributions.
func RPS(p model.Probabilities, outcome model.Outcome) float64 {
	cum1 := p.Home
	cum2 := p.Home + p.Draw
	d1 := cum1 - indicator(outcome == model.OutcomeHome)
	d2 := cum2 - indicator(outcome != model.OutcomeAway)
	return 0.5 * (d1*d1 + d2*d2)
}

// Brier is the multi-class Brier score: the squared distance between p and
// the one-hot outcome.
func Brier(p model.Probabilities, outcome model.Outcome) float64 {
	dh := p.Home - indicator(outcome == model.OutcomeHome)
	dd := p.Draw - indicator(outcome == model.OutcomeDraw)
	da := p.Away - indicator(outcome == model.OutcomeAway)
	return dh*dh + dd*dd + da*da
}

// LogLoss is -log of the probability given to the realized outcome, with
// the probability floored at ProbabilityFloor.
func LogLoss(p model.Probabilities, outcome model.Outcome) float64 {
	return -math.Log(math.Max(p.Of(outcome), ProbabilityFloor))
}

// Summary is the mean of each rule over a set of scored forecasts.
type Summary struct {
	N       int     `json:"n"`
	RPS     float64 `json:"rps"`
	Brier   float64 `json:"brier"`
	LogLoss float64 `json:"logloss"`
}

// Summarize averages the scores of records. An empty input yields N = 0 and
// NaN means.
func Summarize(records []model.EvaluationRecord) Summary {
	if len(records) == 0 {
		return Summary{RPS: math.NaN(), Brier: math.NaN(), LogLoss: math.NaN()}
	}
	rps := make([]float64, len(records))
	brier := make([]float64, len(records))
	ll := make([]float64, len(records))
	for i, r := range records {
		rps[i], brier[i], ll[i] = r.RPS, r.Brier, r.LogLoss
	}
	return Summary{
		N:       len(records),
		RPS:     stat.Mean(rps, nil),
		Brier:   stat.Mean(brier, nil),
		LogLoss: stat.Mean(ll, nil),
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
