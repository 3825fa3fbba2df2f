package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given the ablation command on synthetic leagues", t, func() {
		t.Setenv("MATCHODDS_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
		t.Setenv("MATCHODDS_RHO_GRID_STEPS", "3")
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		convey.Convey("When it runs to stdout", func() {
			metricsPath := filepath.Join(t.TempDir(), "ablation.prom")
			err := run(ctx, []string{
				"-synthetic",
				"-leagues", "E0,SP1",
				"-configs", "elo,dixon_coles",
				"-warmup", "120",
				"-refit-interval", "60",
				"-metrics-file", metricsPath,
			}, &stdout, &stderr)

			convey.Convey("Then it should print the report", func() {
				convey.So(err, convey.ShouldBeNil)

				var doc struct {
					RunID    string `json:"run_id"`
					Warmup   int    `json:"warmup"`
					Baseline string `json:"baseline"`
					Results  []struct {
						League   string  `json:"league"`
						Config   string  `json:"config"`
						N        int     `json:"n"`
						RPS      float64 `json:"rps"`
						DeltaRPS float64 `json:"delta_rps"`
					} `json:"results"`
				}
				convey.So(json.Unmarshal(stdout.Bytes(), &doc), convey.ShouldBeNil)
				convey.So(doc.RunID, convey.ShouldNotBeEmpty)
				convey.So(doc.Warmup, convey.ShouldEqual, 120)
				convey.So(doc.Baseline, convey.ShouldEqual, "baseline")
				convey.So(len(doc.Results), convey.ShouldEqual, 9)
				for _, row := range doc.Results {
					convey.So(row.N, convey.ShouldBeGreaterThan, 0)
					convey.So(row.RPS, convey.ShouldBeBetween, 0, 1)
					if row.Config == "baseline" {
						convey.So(row.DeltaRPS, convey.ShouldEqual, 0)
					}
				}
				_, statErr := os.Stat(metricsPath)
				convey.So(statErr, convey.ShouldBeNil)
			})
		})

		convey.Convey("When it writes to a file", func() {
			out := filepath.Join(t.TempDir(), "ablation.json")
			err := run(ctx, []string{"-synthetic", "-leagues", "E0", "-configs", "elo", "-output", out}, &stdout, &stderr)

			convey.Convey("Then stdout should stay empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
				raw, readErr := os.ReadFile(out)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldContainSubstring, `"delta_rps"`)
			})
		})

		convey.Convey("When the dates are reversed", func() {
			err := run(ctx, []string{"-synthetic", "-from-date", "2023-01-01", "-to-date", "2022-01-01"}, &stdout, &stderr)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When an unknown configuration is named", func() {
			err := run(ctx, []string{"-synthetic", "-configs", "crystal_ball"}, &stdout, &stderr)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
