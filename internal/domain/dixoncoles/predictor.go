package dixoncoles

import (
	"math"

	"github.com/okian/matchodds/internal/domain/model"
)

// DefaultKMax is the largest per-side goal count enumerated by default.
const DefaultKMax = 8

// PredictRates returns the expected home and away goals for a fixture under
// the same log-space clamp the fitter uses, so both are always in
// [MinRate, MaxRate].
func PredictRates(attHome, defHome, attAway, defAway, homeAdvantage float64) (lambda, mu float64) {
	l1, _ := clampLog(homeAdvantage + attHome + defAway)
	l2, _ := clampLog(attAway + defHome)
	return math.Exp(l1), math.Exp(l2)
}

// Rates looks up both teams in p and returns their expected goals.
func Rates(p model.FittedParameters, homeID, awayID int) (lambda, mu float64, err error) {
	attH, okH := p.Attack[homeID]
	if !okH {
		return 0, 0, &UnknownTeamError{TeamID: homeID}
	}
	attA, okA := p.Attack[awayID]
	if !okA {
		return 0, 0, &UnknownTeamError{TeamID: awayID}
	}
	lambda, mu = PredictRates(attH, p.Defense[homeID], attA, p.Defense[awayID], p.HomeAdvantage)
	return lambda, mu, nil
}

// Predict returns the outcome distribution for homeID hosting awayID.
func Predict(p model.FittedParameters, homeID, awayID int) (model.Probabilities, error) {
	lambda, mu, err := Rates(p, homeID, awayID)
	if err != nil {
		return model.Probabilities{}, err
	}
	return MatchProbabilities(lambda, mu, p.Rho, DefaultKMax), nil
}

// ScoreMatrix returns P(home = i, away = j) for i, j in [0, kMax] as the
// Poisson product times tau. Cells tau would push below zero are set to
// zero. The matrix is not renormalized.
func ScoreMatrix(lambda, mu, rho float64, kMax int) [][]float64 {
	if kMax <= 0 {
		kMax = DefaultKMax
	}
	ph := poissonPMF(lambda, kMax)
	pa := poissonPMF(mu, kMax)
	m := make([][]float64, kMax+1)
	for i := range m {
		m[i] = make([]float64, kMax+1)
		for j := range m[i] {
			m[i][j] = math.Max(ph[i]*pa[j]*Tau(i, j, lambda, mu, rho), 0)
		}
	}
	return m
}

// MatchProbabilities collapses the score matrix into home/draw/away and
// renormalizes so the three values sum to one, absorbing the mass beyond
// kMax.
func MatchProbabilities(lambda, mu, rho float64, kMax int) model.Probabilities {
	var p model.Probabilities
	for i, row := range ScoreMatrix(lambda, mu, rho, kMax) {
		for j, v := range row {
			switch {
			case i > j:
				p.Home += v
			case i == j:
				p.Draw += v
			default:
				p.Away += v
			}
		}
	}
	return p.Normalize()
}

func poissonPMF(rate float64, kMax int) []float64 {
	out := make([]float64, kMax+1)
	if rate <= 0 {
		out[0] = 1
		return out
	}
	logRate := math.Log(rate)
	for k := range out {
		out[k] = math.Exp(float64(k)*logRate - rate - logFactorial(k))
	}
	return out
}
