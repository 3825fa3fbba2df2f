package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/matchodds/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Warmup, convey.ShouldEqual, 100)
			convey.So(cfg.RefitInterval, convey.ShouldEqual, 30)
			convey.So(cfg.RhoGridSteps, convey.ShouldEqual, 15)
			convey.So(cfg.Xi, convey.ShouldEqual, 0.0018)
			convey.So(cfg.Parallelism, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.Baseline, convey.ShouldEqual, "baseline")
			convey.So(cfg.TrainShare, convey.ShouldEqual, 0.7)
			convey.So(cfg.DedupeMaxKeys, convey.ShouldEqual, 0)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := map[string]func(*config.Config){
			"warmup":          func(c *config.Config) { c.Warmup = -1 },
			"refit_interval":  func(c *config.Config) { c.RefitInterval = 0 },
			"min_history":     func(c *config.Config) { c.MinHistory = 9 },
			"xi":              func(c *config.Config) { c.Xi = -0.1 },
			"configs":         func(c *config.Config) { c.Configs = nil },
			"fatigue_factor":  func(c *config.Config) { c.FatigueFactor = 1 },
			"gradient_tol":    func(c *config.Config) { c.GradientTol = 0 },
			"train_share":     func(c *config.Config) { c.TrainShare = 1 },
			"dedupe_max_keys": func(c *config.Config) { c.DedupeMaxKeys = -1 },
		}

		convey.Convey("Then each should fail with ErrInvalidConfig naming the key", func() {
			for key, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, key)
			}
		})
	})
}
