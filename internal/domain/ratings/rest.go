package ratings

import (
	"time"

	"github.com/okian/matchodds/internal/domain/model"
)

// Rest records the last match date of every team.
type Rest struct {
	last map[int]time.Time
}

// NewRest creates an empty rest tracker.
func NewRest() *Rest {
	return &Rest{last: make(map[int]time.Time)}
}

// Update records m's date for both teams.
func (r *Rest) Update(m model.MatchRecord) {
	r.last[m.HomeID] = m.Date
	r.last[m.AwayID] = m.Date
}

// DaysSince returns the days between the team's previous match and date, and
// false if the team has not played yet.
func (r *Rest) DaysSince(team int, date time.Time) (int, bool) {
	last, ok := r.last[team]
	if !ok {
		return 0, false
	}
	return model.DaysBetween(last, date), true
}
