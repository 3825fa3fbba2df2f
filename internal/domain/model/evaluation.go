package model

import "time"

// EvaluationRecord is one scored fixture of a walk-forward run. It is written
// when the prediction is made and never updated.
type EvaluationRecord struct {
	Date    time.Time     `json:"date"`
	HomeID  int           `json:"home_id"`
	AwayID  int           `json:"away_id"`
	Probs   Probabilities `json:"probs"`
	Outcome Outcome       `json:"outcome"`
	RPS     float64       `json:"rps"`
	Brier   float64       `json:"brier"`
	LogLoss float64       `json:"logloss"`
	// Fallback is set when the configuration could not use its own model
	// (no fit yet, or an unknown team) and the baseline predicted instead.
	Fallback bool `json:"fallback,omitempty"`
}
