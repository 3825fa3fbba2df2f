package tuning_test

import (
	"context"
	"math"
	"testing"

	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/tuning"
	"github.com/okian/matchodds/internal/synthetic"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTune(t *testing.T) {
	cfg := synthetic.DefaultConfig()
	cfg.Teams = 8
	cfg.Seasons = 2
	league := synthetic.Generate(cfg).Matches // 112 matches

	fast := []tuning.Option{
		tuning.WithFitter(dixoncoles.NewFitter(dixoncoles.WithRhoGridSteps(3))),
		tuning.WithParallelism(2),
	}

	Convey("Given fewer matches than the minimum", t, func() {
		res, err := tuning.New(fast...).Tune(context.Background(), league[:tuning.MinMatches-1])

		Convey("Then the default rate should come back with an infinite loss", func() {
			So(err, ShouldBeNil)
			So(res.Fallback, ShouldBeTrue)
			So(res.Xi, ShouldEqual, tuning.DefaultXi)
			So(math.IsInf(res.LogLoss, 1), ShouldBeTrue)
			So(res.Candidates, ShouldBeEmpty)
		})
	})

	Convey("Given two seasons of matches", t, func() {
		grid := []float64{0, 0.002, 0.01}
		opts := append(fast, tuning.WithGrid(grid))
		res, err := tuning.New(opts...).Tune(context.Background(), league)

		Convey("Then the split should be 70/30 by date", func() {
			So(err, ShouldBeNil)
			So(res.Train, ShouldEqual, 78)
			So(res.Validation, ShouldEqual, len(league)-78)
		})

		Convey("Then every grid point should be scored and the best chosen", func() {
			So(len(res.Candidates), ShouldEqual, len(grid))
			best := math.Inf(1)
			for i, c := range res.Candidates {
				So(c.Xi, ShouldEqual, grid[i])
				So(c.Scored, ShouldEqual, res.Validation)
				So(c.LogLoss, ShouldBeGreaterThan, 0)
				best = math.Min(best, c.LogLoss)
			}
			So(res.LogLoss, ShouldEqual, best)
			So(res.Fallback, ShouldBeFalse)
		})
	})

	Convey("Given a custom train share", t, func() {
		opts := append(fast, tuning.WithGrid([]float64{0.001}), tuning.WithTrainShare(0.5))
		res, err := tuning.New(opts...).Tune(context.Background(), league)

		Convey("Then the split should follow it", func() {
			So(err, ShouldBeNil)
			So(res.Train, ShouldEqual, 56)
			So(res.Validation, ShouldEqual, 56)
		})
	})

	Convey("Given a train share outside (0, 1)", t, func() {
		opts := append(fast, tuning.WithGrid([]float64{0.001}), tuning.WithTrainShare(1.5))
		res, err := tuning.New(opts...).Tune(context.Background(), league)

		Convey("Then the default split should be kept", func() {
			So(err, ShouldBeNil)
			So(res.Train, ShouldEqual, 78)
		})
	})

	Convey("Given a negative grid entry", t, func() {
		res, err := tuning.New(append(fast, tuning.WithGrid([]float64{-1, 0.001}))...).Tune(context.Background(), league)

		Convey("Then it should be ignored", func() {
			So(err, ShouldBeNil)
			So(len(res.Candidates), ShouldEqual, 1)
			So(res.Xi, ShouldEqual, 0.001)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := tuning.New(fast...).Tune(ctx, league)
		So(err, ShouldEqual, context.Canceled)
	})
}
