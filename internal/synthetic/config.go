// Package synthetic generates deterministic football leagues from known team
// strengths, for tests and for running the tools without a data directory.
package synthetic

import "time"

// Default generator settings.
const (
	defaultTeams         = 12
	defaultSeasons       = 3
	defaultSeed          = 42
	defaultHomeAdvantage = 0.25
	defaultRatingSpread  = 0.3
	defaultBaseRate      = 0.15 // log of the average away scoring rate
	daysBetweenRounds    = 7
	seasonStartMonth     = time.August
	seasonStartDay       = 10
	firstTeamID          = 1
)

// Config describes a synthetic league.
type Config struct {
	League        string  // league code stamped on every match
	Teams         int     // number of clubs (odd counts get a bye each round)
	Seasons       int     // double round robins to play
	FirstSeason   int     // calendar year the first season starts in
	Seed          int64   // random seed; equal seeds give equal leagues
	HomeAdvantage float64 // true log home advantage
	RatingSpread  float64 // standard deviation of true attack and defense
	WithXG        bool    // attach noisy expected goals to every match
}

// DefaultConfig returns a mid-sized league over three seasons.
func DefaultConfig() Config {
	return Config{
		League:        "SYN",
		Teams:         defaultTeams,
		Seasons:       defaultSeasons,
		FirstSeason:   2021,
		Seed:          defaultSeed,
		HomeAdvantage: defaultHomeAdvantage,
		RatingSpread:  defaultRatingSpread,
		WithXG:        true,
	}
}
