package model

import "sort"

// ParamSource tags which data a parameter set was fitted on.
type ParamSource string

const (
	SourceGoals ParamSource = "goals"
	SourceXG    ParamSource = "xg"
)

// FittedParameters is the output of a single Dixon-Coles fit. It is a value
// object: the fitter builds fresh maps for every fit and nothing mutates them
// afterwards. A newer fit supersedes it rather than editing it.
//
// Attack and Defense each sum to zero across teams. A higher Defense value
// means the team concedes more.
type FittedParameters struct {
	Attack        map[int]float64 `json:"attack"`
	Defense       map[int]float64 `json:"defense"`
	HomeAdvantage float64         `json:"home_advantage"`
	Rho           float64         `json:"rho"` // zero in xG mode
	Xi            float64         `json:"xi"`
	LogLikelihood float64         `json:"log_likelihood"`
	NMatches      int             `json:"n_matches"`
	NTeams        int             `json:"n_teams"`
	Source        ParamSource     `json:"param_source"`
}

// TeamIDs returns the fitted team identifiers in ascending order.
func (p FittedParameters) TeamIDs() []int {
	ids := make([]int, 0, len(p.Attack))
	for id := range p.Attack {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Has reports whether team id is part of the fitted universe.
func (p FittedParameters) Has(id int) bool {
	_, ok := p.Attack[id]
	return ok
}
