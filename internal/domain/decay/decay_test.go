package decay_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/matchodds/internal/domain/decay"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeight(t *testing.T) {
	Convey("Given a reference date", t, func() {
		ref := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

		Convey("When xi is zero", func() {
			Convey("Then every match should weigh one", func() {
				So(decay.Weight(ref.AddDate(-3, 0, 0), ref, 0), ShouldEqual, 1.0)
			})
		})

		Convey("When the match is one half-life old", func() {
			xi := 0.002
			days := int(math.Round(decay.HalfLife(xi)))
			w := decay.Weight(ref.AddDate(0, 0, -days), ref, xi)

			Convey("Then the weight should be close to one half", func() {
				So(w, ShouldAlmostEqual, 0.5, 1e-3)
			})
		})

		Convey("When the match is after the reference date", func() {
			Convey("Then the age should be treated as zero", func() {
				So(decay.Weight(ref.AddDate(0, 0, 10), ref, 0.01), ShouldEqual, 1.0)
			})
		})

		Convey("When comparing older and newer matches", func() {
			older := decay.Weight(ref.AddDate(0, 0, -200), ref, 0.003)
			newer := decay.Weight(ref.AddDate(0, 0, -20), ref, 0.003)

			Convey("Then older matches should weigh less", func() {
				So(older, ShouldBeLessThan, newer)
			})
		})
	})

	Convey("Given half-life conversions", t, func() {
		So(math.IsInf(decay.HalfLife(0), 1), ShouldBeTrue)
		So(decay.FromHalfLife(decay.HalfLife(0.0042)), ShouldAlmostEqual, 0.0042, 1e-12)
		So(decay.FromHalfLife(0), ShouldEqual, 0)
	})
}
