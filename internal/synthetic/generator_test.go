package synthetic_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/matchodds/internal/synthetic"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given the default synthetic configuration", t, func() {
		cfg := synthetic.DefaultConfig()
		league := synthetic.Generate(cfg)

		Convey("Then every pair should meet twice per season", func() {
			want := cfg.Teams * (cfg.Teams - 1) * cfg.Seasons
			So(len(league.Matches), ShouldEqual, want)
		})

		Convey("Then no team should play itself and dates should not decrease", func() {
			for i, m := range league.Matches {
				So(m.HomeID, ShouldNotEqual, m.AwayID)
				if i > 0 {
					So(m.Date.Before(league.Matches[i-1].Date), ShouldBeFalse)
				}
			}
		})

		Convey("Then expected goals should be attached", func() {
			So(league.Matches[0].HasXG(), ShouldBeTrue)
		})

		Convey("Then true ratings should be centred", func() {
			var sa, sd float64
			for id := range league.Attack {
				sa += league.Attack[id]
				sd += league.Defense[id]
			}
			So(sa, ShouldAlmostEqual, 0, 1e-9)
			So(sd, ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("Then the same seed should reproduce the league", func() {
			again := synthetic.Generate(cfg)
			So(again.Matches[17].HomeGoals, ShouldEqual, league.Matches[17].HomeGoals)
			So(again.Matches[17].AwayID, ShouldEqual, league.Matches[17].AwayID)
		})
	})

	Convey("Given an odd number of teams", t, func() {
		cfg := synthetic.DefaultConfig()
		cfg.Teams = 5
		cfg.Seasons = 1
		cfg.WithXG = false
		league := synthetic.Generate(cfg)

		Convey("Then byes should not appear as matches", func() {
			So(len(league.Matches), ShouldEqual, 20)
			for _, m := range league.Matches {
				So(m.HomeID, ShouldBeGreaterThan, 0)
				So(m.AwayID, ShouldBeGreaterThan, 0)
				So(m.HasXG(), ShouldBeFalse)
			}
		})
	})
}

func TestSource(t *testing.T) {
	Convey("Given a synthetic source", t, func() {
		src := synthetic.NewSource(synthetic.DefaultConfig())
		ctx := context.Background()

		Convey("Then each league code should get its own repeatable history", func() {
			e0, err := src.Matches(ctx, "E0", time.Time{}, time.Time{})
			So(err, ShouldBeNil)
			again, _ := src.Matches(ctx, "E0", time.Time{}, time.Time{})
			sp1, _ := src.Matches(ctx, "SP1", time.Time{}, time.Time{})
			So(e0[0].League, ShouldEqual, "E0")
			So(again, ShouldResemble, e0)
			So(sp1, ShouldNotResemble, e0)
		})

		Convey("Then a date window should filter inclusively", func() {
			from := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
			ms, err := src.Matches(ctx, "E0", from, time.Time{})
			So(err, ShouldBeNil)
			So(len(ms), ShouldBeGreaterThan, 0)
			for _, m := range ms {
				So(m.Date.Before(from), ShouldBeFalse)
			}
		})

		Convey("Then clubs should have names", func() {
			name, ok := synthetic.TeamName(3)
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Club 03")
		})
	})
}
