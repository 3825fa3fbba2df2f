package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/matchodds/internal/app"
	"github.com/okian/matchodds/internal/adapters/history"
	"github.com/okian/matchodds/internal/config"
	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/tuning"
	"github.com/okian/matchodds/internal/domain/walkforward"
	"github.com/okian/matchodds/internal/synthetic"
	"github.com/okian/matchodds/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var logs bytes.Buffer

func init() {
	if err := logger.InitWithWriter(&logs); err != nil {
		panic(err)
	}
}

// mapSource serves fixed match lists, stripped of xG when noXG is set.
type mapSource struct {
	leagues map[string][]model.MatchRecord
	noXG    bool
}

func (m mapSource) Matches(_ context.Context, league string, from, to time.Time) ([]model.MatchRecord, error) {
	ms, ok := m.leagues[league]
	if !ok {
		return nil, history.ErrNoData
	}
	var out []model.MatchRecord
	for _, r := range ms {
		if (!from.IsZero() && r.Date.Before(from)) || (!to.IsZero() && r.Date.After(to)) {
			continue
		}
		if m.noXG {
			r.HomeXG, r.AwayXG = nil, nil
		}
		out = append(out, r)
	}
	return out, nil
}

func league(teams, seasons int, seed int64) []model.MatchRecord {
	cfg := synthetic.DefaultConfig()
	cfg.Teams, cfg.Seasons, cfg.Seed = teams, seasons, seed
	return synthetic.Generate(cfg).Matches
}

func newService(src service.Source) *service.Service {
	return service.New(
		service.WithSource(src),
		service.WithFitter(dixoncoles.NewFitter(dixoncoles.WithRhoGridSteps(3))),
		service.WithWarmup(20),
		service.WithMinHistory(20),
		service.WithRefitInterval(10),
		service.WithParallelism(2),
		service.WithTeamNames(synthetic.TeamName),
		service.WithTuneGrid([]float64{0, 0.002}),
		service.WithClock(func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }),
	)
}

func TestService_New(t *testing.T) {
	Convey("Given options built from the default config", t, func() {
		svc := service.New(service.FromConfig(config.New())...)

		Convey("Then the service should be created without a source", func() {
			So(svc, ShouldNotBeNil)
			_, err := svc.TuneDecay(context.Background(), "E0", time.Time{})
			So(errors.Is(err, service.ErrNoSource), ShouldBeTrue)
		})
	})
}

func TestService_RunAblation(t *testing.T) {
	ctx := context.Background()

	Convey("Given two synthetic leagues and one tiny one", t, func() {
		src := mapSource{leagues: map[string][]model.MatchRecord{
			"E0":   league(6, 2, 1),
			"SP1":  league(6, 2, 2),
			"TINY": league(4, 1, 3),
		}}
		svc := newService(src)

		Convey("When every configuration is replayed", func() {
			rep, err := svc.RunAblation(ctx, service.AblationRequest{
				Leagues: []string{"E0", "SP1", "TINY"},
				Configs: []string{walkforward.ConfigElo, walkforward.ConfigDixonColes},
			})

			Convey("Then the baseline should be added and compared with itself", func() {
				So(err, ShouldBeNil)
				So(rep.Baseline, ShouldEqual, walkforward.ConfigBaseline)
				So(rep.Configs, ShouldResemble, []string{"baseline", "elo", "dixon_coles"})
				So(rep.Warmup, ShouldEqual, 20)
				for _, row := range rep.Results {
					if row.Config == walkforward.ConfigBaseline {
						So(row.DeltaRPS, ShouldEqual, 0)
					}
				}
			})

			Convey("Then the tiny league should be skipped and the rest pooled", func() {
				So(rep.Skipped, ShouldResemble, []string{"TINY"})
				So(len(rep.Results), ShouldEqual, 9)
				pooled := rep.Results[6:]
				for _, row := range pooled {
					So(row.League, ShouldEqual, service.PooledLeague)
					So(row.N, ShouldEqual, 80)
				}
				So(rep.Results[0].League, ShouldEqual, "E0")
				So(rep.Results[3].League, ShouldEqual, "SP1")
			})
		})

		Convey("When only the tiny league is requested", func() {
			_, err := svc.RunAblation(ctx, service.AblationRequest{Leagues: []string{"TINY", "XX"}})

			Convey("Then there should be no results", func() {
				So(errors.Is(err, service.ErrNoResults), ShouldBeTrue)
			})
		})

		Convey("When an unknown configuration is requested", func() {
			_, err := svc.RunAblation(ctx, service.AblationRequest{Leagues: []string{"E0"}, Configs: []string{"magic"}})
			So(errors.Is(err, walkforward.ErrUnknownConfig), ShouldBeTrue)
		})

		Convey("When a single league is replayed", func() {
			rep, err := svc.RunAblation(ctx, service.AblationRequest{Leagues: []string{"E0"}, Configs: []string{"elo"}})

			Convey("Then no pooled rows should be added", func() {
				So(err, ShouldBeNil)
				So(len(rep.Results), ShouldEqual, 2)
			})
		})
	})
}

func TestService_FitSnapshot(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given a league with expected goals", t, func() {
		svc := newService(mapSource{leagues: map[string][]model.MatchRecord{"E0": league(6, 2, 4)}})

		Convey("When it is fitted", func() {
			snap, err := svc.FitSnapshot(ctx, service.FitRequest{League: "E0", AsOf: asOf, Xi: -1})

			Convey("Then goals and xG rows should both be present", func() {
				So(err, ShouldBeNil)
				So(len(snap.Leagues), ShouldEqual, 2)
				So(len(snap.Teams), ShouldEqual, 12)
				So(snap.Leagues[0].ParamSource, ShouldEqual, model.SourceGoals)
				So(snap.Leagues[1].ParamSource, ShouldEqual, model.SourceXG)
				So(snap.Leagues[1].Rho, ShouldEqual, 0)
				So(snap.Leagues[0].Season, ShouldEqual, "2022/2023")
				So(snap.Leagues[0].Xi, ShouldEqual, walkforward.DefaultXi)
				So(snap.Teams[0].Team, ShouldEqual, "Club 01")
			})
		})
	})

	Convey("Given a league without expected goals", t, func() {
		svc := newService(mapSource{leagues: map[string][]model.MatchRecord{"E0": league(6, 2, 4)}, noXG: true})
		snap, err := svc.FitSnapshot(ctx, service.FitRequest{League: "E0", AsOf: asOf, Season: "2022/2023", Xi: 0.001})

		Convey("Then only goals rows should be written", func() {
			So(err, ShouldBeNil)
			So(len(snap.Leagues), ShouldEqual, 1)
			So(snap.Leagues[0].Xi, ShouldEqual, 0.001)
		})
	})

	Convey("Given too few matches before the as-of date", t, func() {
		svc := newService(mapSource{leagues: map[string][]model.MatchRecord{"E0": league(6, 2, 4)}})
		_, err := svc.FitSnapshot(ctx, service.FitRequest{League: "E0", AsOf: time.Date(2021, 8, 20, 0, 0, 0, 0, time.UTC)})

		Convey("Then the fit should fail with insufficient data", func() {
			So(errors.Is(err, dixoncoles.ErrInsufficientData), ShouldBeTrue)
		})
	})
}

func TestService_TuneDecay(t *testing.T) {
	ctx := context.Background()

	Convey("Given a long league and a short one", t, func() {
		svc := newService(mapSource{leagues: map[string][]model.MatchRecord{
			"E0":    league(8, 2, 5),
			"SHORT": league(4, 1, 6),
		}})

		Convey("Then the long league should be searched", func() {
			res, err := svc.TuneDecay(ctx, "E0", time.Time{})
			So(err, ShouldBeNil)
			So(res.Fallback, ShouldBeFalse)
			So(len(res.Candidates), ShouldEqual, 2)
		})

		Convey("Then a configured train share should set the split", func() {
			svc := service.New(
				service.WithSource(mapSource{leagues: map[string][]model.MatchRecord{"E0": league(8, 2, 5)}}),
				service.WithFitter(dixoncoles.NewFitter(dixoncoles.WithRhoGridSteps(3))),
				service.WithTuneGrid([]float64{0.002}),
				service.WithTrainShare(0.5),
			)
			res, err := svc.TuneDecay(ctx, "E0", time.Time{})
			So(err, ShouldBeNil)
			So(res.Train, ShouldEqual, 56)
		})

		Convey("Then the short league should fall back to the default", func() {
			res, err := svc.TuneDecay(ctx, "SHORT", time.Time{})
			So(err, ShouldBeNil)
			So(res.Fallback, ShouldBeTrue)
			So(res.Xi, ShouldEqual, tuning.DefaultXi)
		})
	})
}
