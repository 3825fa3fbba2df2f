// Package snapshot turns fitted parameters into the rows an external store
// persists: one row per team and one per league fit, keyed by league,
// season, as-of date and parameter source.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchodds/internal/domain/model"
)

const dateLayout = "2006-01-02"

// TeamParams is one team's strengths in one fit.
type TeamParams struct {
	TeamID      int               `json:"team_id"`
	Team        string            `json:"team,omitempty"`
	League      string            `json:"league"`
	Season      string            `json:"season"`
	AsOfDate    string            `json:"as_of_date"`
	ParamSource model.ParamSource `json:"param_source"`
	Attack      float64           `json:"attack"`
	Defense     float64           `json:"defense"`
}

// LeagueParams is the league-wide part of one fit.
type LeagueParams struct {
	League        string            `json:"league"`
	Season        string            `json:"season"`
	AsOfDate      string            `json:"as_of_date"`
	ParamSource   model.ParamSource `json:"param_source"`
	HomeAdvantage float64           `json:"home_advantage"`
	Rho           float64           `json:"rho"`
	Xi            float64           `json:"xi"`
	LogLikelihood float64           `json:"log_likelihood"`
	NMatches      int               `json:"n_matches"`
	NTeams        int               `json:"n_teams"`
	FitSeconds    float64           `json:"fit_seconds"`
}

// Snapshot is every row produced by one fitting job.
type Snapshot struct {
	BatchID     uuid.UUID      `json:"batch_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Teams       []TeamParams   `json:"team_params"`
	Leagues     []LeagueParams `json:"league_params"`
}

// Fit is one fitted parameter set with its context.
type Fit struct {
	League   string
	Season   string // empty derives it from AsOf
	AsOf     time.Time
	Params   model.FittedParameters
	Duration time.Duration
}

// NameFunc resolves a team ID to a display name.
type NameFunc func(id int) (string, bool)

// New starts an empty snapshot with a fresh batch ID.
func New(now time.Time) *Snapshot {
	return &Snapshot{BatchID: uuid.New(), GeneratedAt: now.UTC()}
}

// Add appends the rows for one fit. Team rows follow sorted team IDs.
func (s *Snapshot) Add(f Fit, names NameFunc) {
	season := f.Season
	if season == "" {
		season = SeasonOf(f.AsOf)
	}
	asOf := f.AsOf.UTC().Format(dateLayout)
	p := f.Params

	for _, id := range p.TeamIDs() {
		row := TeamParams{
			TeamID:      id,
			League:      f.League,
			Season:      season,
			AsOfDate:    asOf,
			ParamSource: p.Source,
			Attack:      p.Attack[id],
			Defense:     p.Defense[id],
		}
		if names != nil {
			row.Team, _ = names(id)
		}
		s.Teams = append(s.Teams, row)
	}
	s.Leagues = append(s.Leagues, LeagueParams{
		League:        f.League,
		Season:        season,
		AsOfDate:      asOf,
		ParamSource:   p.Source,
		HomeAdvantage: p.HomeAdvantage,
		Rho:           p.Rho,
		Xi:            p.Xi,
		LogLikelihood: p.LogLikelihood,
		NMatches:      p.NMatches,
		NTeams:        p.NTeams,
		FitSeconds:    f.Duration.Seconds(),
	})
}

// SeasonOf names the August-to-July season containing t, e.g. "2024/2025"
// for any date from 1 August 2024 to 31 July 2025.
func SeasonOf(t time.Time) string {
	y := t.Year()
	if t.Month() < time.August {
		y--
	}
	return fmt.Sprintf("%d/%d", y, y+1)
}

// Write encodes s as indented JSON.
func Write(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
