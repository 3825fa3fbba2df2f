package ratings_test

import (
	"testing"
	"time"

	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/ratings"
	. "github.com/smartystreets/goconvey/convey"
)

var day0 = time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

func TestElo(t *testing.T) {
	Convey("Given a fresh Elo table", t, func() {
		e := ratings.NewElo(ratings.WithK(30), ratings.WithHomeAdvantage(0))

		Convey("Then unseen teams should be even", func() {
			So(e.Rating(1), ShouldEqual, ratings.DefaultEloInitial)
			So(e.Expected(1, 2), ShouldAlmostEqual, 0.5, 1e-12)
			p := e.Probabilities(1, 2)
			So(p.Home, ShouldAlmostEqual, p.Away, 1e-12)
			So(p.Sum(), ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("When the home side wins", func() {
			e.Update(model.MatchRecord{HomeID: 1, AwayID: 2, HomeGoals: 2, AwayGoals: 0, Date: day0})

			Convey("Then the winner should gain what the loser drops", func() {
				So(e.Rating(1), ShouldBeGreaterThan, ratings.DefaultEloInitial)
				So(e.Rating(1)+e.Rating(2), ShouldAlmostEqual, 2*ratings.DefaultEloInitial, 1e-9)
				So(e.Expected(1, 2), ShouldBeGreaterThan, 0.5)
			})
		})
	})

	Convey("Given the default home advantage", t, func() {
		e := ratings.NewElo()

		Convey("Then equal teams should favour the home side", func() {
			p := e.Probabilities(3, 4)
			So(p.Home, ShouldBeGreaterThan, p.Away)
		})
	})
}

func TestForm(t *testing.T) {
	Convey("Given an empty rolling window", t, func() {
		f := ratings.NewForm(2)

		Convey("Then rates should fall back to league defaults", func() {
			lambda, mu := f.Rates(1, 2)
			h, a := f.LeagueRates()
			So(lambda, ShouldAlmostEqual, (h+h)/2, 1e-12)
			So(mu, ShouldAlmostEqual, (a+a)/2, 1e-12)
		})

		Convey("When more matches arrive than the window holds", func() {
			f.Update(model.MatchRecord{HomeID: 1, AwayID: 2, HomeGoals: 9, AwayGoals: 0, Date: day0})
			f.Update(model.MatchRecord{HomeID: 1, AwayID: 3, HomeGoals: 1, AwayGoals: 1, Date: day0.AddDate(0, 0, 7)})
			f.Update(model.MatchRecord{HomeID: 4, AwayID: 1, HomeGoals: 2, AwayGoals: 3, Date: day0.AddDate(0, 0, 14)})

			Convey("Then only the most recent matches should count", func() {
				lambda, _ := f.Rates(1, 3)
				// team 1 scored 1 and 3 in its last two; team 3 conceded 1
				So(lambda, ShouldAlmostEqual, (2.0+1.0)/2, 1e-12)
			})
		})
	})
}

func TestRest(t *testing.T) {
	Convey("Given a rest tracker", t, func() {
		r := ratings.NewRest()

		Convey("Then an unseen team should have no rest data", func() {
			_, ok := r.DaysSince(1, day0)
			So(ok, ShouldBeFalse)
		})

		Convey("When a team plays", func() {
			r.Update(model.MatchRecord{HomeID: 1, AwayID: 2, Date: day0})
			days, ok := r.DaysSince(2, day0.AddDate(0, 0, 3))
			So(ok, ShouldBeTrue)
			So(days, ShouldEqual, 3)
		})
	})
}
