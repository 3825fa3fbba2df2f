package ratings

import (
	"github.com/okian/matchodds/internal/domain/model"
)

// Default rolling-form configuration.
const (
	DefaultFormWindow     = 10
	defaultLeagueHomeRate = 1.5
	defaultLeagueAwayRate = 1.2
)

type goalPair struct {
	scored   float64
	conceded float64
}

// Form keeps each team's last N goals-for and goals-against, plus league
// totals used when a team has no history yet.
type Form struct {
	window  int
	history map[int][]goalPair

	homeGoals, awayGoals float64
	matches              int
}

// NewForm creates a rolling window of the given size (DefaultFormWindow if
// size <= 0).
func NewForm(window int) *Form {
	if window <= 0 {
		window = DefaultFormWindow
	}
	return &Form{window: window, history: make(map[int][]goalPair)}
}

// Update appends m to both teams' windows.
func (f *Form) Update(m model.MatchRecord) {
	f.push(m.HomeID, goalPair{scored: float64(m.HomeGoals), conceded: float64(m.AwayGoals)})
	f.push(m.AwayID, goalPair{scored: float64(m.AwayGoals), conceded: float64(m.HomeGoals)})
	f.homeGoals += float64(m.HomeGoals)
	f.awayGoals += float64(m.AwayGoals)
	f.matches++
}

func (f *Form) push(team int, g goalPair) {
	h := append(f.history[team], g)
	if len(h) > f.window {
		h = h[len(h)-f.window:]
	}
	f.history[team] = h
}

// LeagueRates returns the mean home and away goals seen so far.
func (f *Form) LeagueRates() (home, away float64) {
	if f.matches == 0 {
		return defaultLeagueHomeRate, defaultLeagueAwayRate
	}
	return f.homeGoals / float64(f.matches), f.awayGoals / float64(f.matches)
}

// Rates returns rolling-average expected goals for a fixture: each side's
// rate is the mean of its own recent scoring and the opponent's recent
// conceding. Teams with no history use the league rates.
func (f *Form) Rates(home, away int) (lambda, mu float64) {
	leagueHome, leagueAway := f.LeagueRates()
	hScored, hConceded, okH := f.averages(home)
	aScored, aConceded, okA := f.averages(away)
	if !okH {
		hScored, hConceded = leagueHome, leagueAway
	}
	if !okA {
		aScored, aConceded = leagueAway, leagueHome
	}
	return (hScored + aConceded) / 2, (aScored + hConceded) / 2
}

func (f *Form) averages(team int) (scored, conceded float64, ok bool) {
	h := f.history[team]
	if len(h) == 0 {
		return 0, 0, false
	}
	for _, g := range h {
		scored += g.scored
		conceded += g.conceded
	}
	n := float64(len(h))
	return scored / n, conceded / n, true
}
