package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/okian/matchodds/internal/domain/tuning"
	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given the tuner command on a synthetic league", t, func() {
		t.Setenv("MATCHODDS_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
		t.Setenv("MATCHODDS_RHO_GRID_STEPS", "3")
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		convey.Convey("When a small grid is searched", func() {
			err := run(ctx, []string{"-synthetic", "-league", "SP1", "-grid", "0,0.003"}, &stdout, &stderr)

			convey.Convey("Then the chosen rate and every candidate should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var doc resultOut
				convey.So(json.Unmarshal(stdout.Bytes(), &doc), convey.ShouldBeNil)
				convey.So(doc.League, convey.ShouldEqual, "SP1")
				convey.So(doc.Fallback, convey.ShouldBeFalse)
				convey.So(len(doc.Candidates), convey.ShouldEqual, 2)
				convey.So(doc.LogLoss, convey.ShouldNotBeNil)
				convey.So([]float64{0, 0.003}, convey.ShouldContain, doc.Xi)
			})
		})

		convey.Convey("When the history is too short", func() {
			err := run(ctx, []string{"-synthetic", "-to-date", "2021-08-25"}, &stdout, &stderr)

			convey.Convey("Then the default rate should be printed with a null loss", func() {
				convey.So(err, convey.ShouldBeNil)
				var doc resultOut
				convey.So(json.Unmarshal(stdout.Bytes(), &doc), convey.ShouldBeNil)
				convey.So(doc.Fallback, convey.ShouldBeTrue)
				convey.So(doc.Xi, convey.ShouldEqual, tuning.DefaultXi)
				convey.So(doc.LogLoss, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the grid is not numeric", func() {
			err := run(ctx, []string{"-synthetic", "-grid", "fast"}, &stdout, &stderr)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRender(t *testing.T) {
	convey.Convey("Given a result with an infinite candidate", t, func() {
		out := render("E0", tuning.Result{
			Xi:      0,
			LogLoss: 0.98,
			Candidates: []tuning.Candidate{
				{Xi: 0, LogLoss: 0.98, Scored: 10},
				{Xi: 0.01, LogLoss: math.Inf(1)},
			},
		})

		convey.Convey("Then infinities should become nulls", func() {
			convey.So(out.HalfLifeDays, convey.ShouldBeNil)
			convey.So(*out.LogLoss, convey.ShouldEqual, 0.98)
			convey.So(out.Candidates[1].LogLoss, convey.ShouldBeNil)
		})
	})
}
