package synthetic

import (
	"math"
	"math/rand"
	"time"

	"github.com/okian/matchodds/internal/domain/model"
)

// League is a generated match history together with the strengths that
// produced it.
type League struct {
	Matches []model.MatchRecord
	Attack  map[int]float64 // true attack, centred on zero
	Defense map[int]float64 // true defense (higher concedes more), centred on zero
}

// Generate plays cfg.Seasons double round robins. Goals are Poisson with
// log-rates HA + attack[home] + defense[away] and attack[away] +
// defense[home], shifted by a common base rate.
func Generate(cfg Config) League {
	if cfg.Teams < 2 {
		cfg.Teams = defaultTeams
	}
	if cfg.Seasons < 1 {
		cfg.Seasons = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible leagues

	league := League{
		Attack:  centred(rng, cfg.Teams, cfg.RatingSpread),
		Defense: centred(rng, cfg.Teams, cfg.RatingSpread),
	}

	rounds := schedule(cfg.Teams)
	for s := 0; s < cfg.Seasons; s++ {
		start := time.Date(cfg.FirstSeason+s, seasonStartMonth, seasonStartDay, 0, 0, 0, 0, time.UTC)
		for r, pairs := range rounds {
			date := start.AddDate(0, 0, r*daysBetweenRounds)
			for _, p := range pairs {
				league.Matches = append(league.Matches, play(rng, cfg, league, p[0], p[1], date))
			}
		}
	}
	return league
}

func play(rng *rand.Rand, cfg Config, l League, home, away int, date time.Time) model.MatchRecord {
	lambda := math.Exp(defaultBaseRate + cfg.HomeAdvantage + l.Attack[home] + l.Defense[away])
	mu := math.Exp(defaultBaseRate + l.Attack[away] + l.Defense[home])
	m := model.MatchRecord{
		League:    cfg.League,
		HomeID:    home,
		AwayID:    away,
		HomeGoals: poisson(rng, lambda),
		AwayGoals: poisson(rng, mu),
		Date:      date,
	}
	if cfg.WithXG {
		m.HomeXG = model.XG(noisy(rng, lambda))
		m.AwayXG = model.XG(noisy(rng, mu))
	}
	return m
}

// schedule builds a double round robin with the circle method. Odd team
// counts get a bye (team 0, dropped from the output).
func schedule(teams int) [][][2]int {
	ids := make([]int, 0, teams+1)
	for i := 0; i < teams; i++ {
		ids = append(ids, firstTeamID+i)
	}
	if len(ids)%2 == 1 {
		ids = append(ids, 0)
	}
	n := len(ids)

	var first [][][2]int
	for r := 0; r < n-1; r++ {
		var pairs [][2]int
		for i := 0; i < n/2; i++ {
			h, a := ids[i], ids[n-1-i]
			if r%2 == 1 {
				h, a = a, h
			}
			if h != 0 && a != 0 {
				pairs = append(pairs, [2]int{h, a})
			}
		}
		first = append(first, pairs)
		// rotate all but the first entry
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}

	second := make([][][2]int, len(first))
	for r, pairs := range first {
		rev := make([][2]int, len(pairs))
		for i, p := range pairs {
			rev[i] = [2]int{p[1], p[0]}
		}
		second[r] = rev
	}
	return append(first, second...)
}

func centred(rng *rand.Rand, teams int, spread float64) map[int]float64 {
	vals := make([]float64, teams)
	var sum float64
	for i := range vals {
		vals[i] = rng.NormFloat64() * spread
		sum += vals[i]
	}
	out := make(map[int]float64, teams)
	for i, v := range vals {
		out[firstTeamID+i] = v - sum/float64(teams)
	}
	return out
}

// poisson draws from Poisson(lambda) by Knuth's multiplication method,
// adequate for football scoring rates.
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func noisy(rng *rand.Rand, rate float64) float64 {
	return math.Round(rate*math.Exp(rng.NormFloat64()*0.25)*100) / 100
}
