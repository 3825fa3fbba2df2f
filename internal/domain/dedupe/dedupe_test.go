package dedupe_test

import (
	"testing"
	"time"

	"github.com/okian/matchodds/internal/domain/dedupe"
	"github.com/okian/matchodds/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var kickoff = time.Date(2024, 9, 14, 15, 0, 0, 0, time.UTC)

func key(home, away int) dedupe.Key {
	return dedupe.Key{League: "E0", Date: model.Date(kickoff), HomeID: home, AwayID: away}
}

func TestDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		d := dedupe.New()

		Convey("When a fixture is recorded twice", func() {
			first := d.SeenAndRecord(key(1, 2))
			second := d.SeenAndRecord(key(1, 2))

			Convey("Then only the second call should report it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
			})
		})

		Convey("When the reverse fixture is recorded", func() {
			d.SeenAndRecord(key(1, 2))

			Convey("Then it should count as a different match", func() {
				So(d.SeenAndRecord(key(2, 1)), ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.New(dedupe.WithMaxSize(2))
		d.SeenAndRecord(key(1, 2))
		d.SeenAndRecord(key(3, 4))
		d.SeenAndRecord(key(5, 6))

		Convey("Then the oldest key should be evicted", func() {
			So(d.SeenAndRecord(key(5, 6)), ShouldBeTrue)
			So(d.SeenAndRecord(key(3, 4)), ShouldBeTrue)
			So(d.SeenAndRecord(key(1, 2)), ShouldBeFalse)
		})
	})
}

func TestMatches(t *testing.T) {
	Convey("Given a feed with a repeated result on the same day", t, func() {
		in := []model.MatchRecord{
			{League: "E0", HomeID: 1, AwayID: 2, HomeGoals: 2, AwayGoals: 0, Date: kickoff},
			{League: "E0", HomeID: 3, AwayID: 4, HomeGoals: 1, AwayGoals: 1, Date: kickoff},
			{League: "E0", HomeID: 1, AwayID: 2, HomeGoals: 9, AwayGoals: 9, Date: kickoff.Add(2 * time.Hour)},
		}

		Convey("When no bound is set", func() {
			out := dedupe.Matches(in)

			Convey("Then the first copy should win", func() {
				So(len(out), ShouldEqual, 2)
				So(out[0].HomeGoals, ShouldEqual, 2)
				So(out[1].HomeID, ShouldEqual, 3)
			})
		})

		Convey("When the bound is smaller than the gap between copies", func() {
			out := dedupe.Matches(in, dedupe.WithMaxSize(1))

			Convey("Then the late copy should pass through", func() {
				So(len(out), ShouldEqual, 3)
				So(out[2].HomeGoals, ShouldEqual, 9)
			})
		})

		Convey("When the bound covers the gap", func() {
			out := dedupe.Matches(in, dedupe.WithMaxSize(2))

			Convey("Then the copy should still be dropped", func() {
				So(len(out), ShouldEqual, 2)
			})
		})
	})
}
