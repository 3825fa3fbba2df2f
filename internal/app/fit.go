package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/matchodds/internal/adapters/snapshot"
	"github.com/okian/matchodds/internal/domain/decay"
	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/tuning"
	"github.com/okian/matchodds/pkg/logger"
	"github.com/okian/matchodds/pkg/metrics"
)

// FitRequest selects one league fit.
type FitRequest struct {
	League string
	AsOf   time.Time // matches strictly before this day are used
	Season string    // empty derives the season from AsOf
	Xi     float64   // negative uses the service default
}

// FitSnapshot fits goals and xG parameter sets for a league as of a date
// and returns them as snapshot rows. A league without enough xG data still
// gets its goals rows; without enough goals data the whole fit fails.
func (s *Service) FitSnapshot(ctx context.Context, req FitRequest) (*snapshot.Snapshot, error) {
	asOf := model.Date(req.AsOf)
	xi := req.Xi
	if xi < 0 {
		xi = s.xi
	}
	ms, err := s.matches(ctx, req.League, time.Time{}, asOf)
	if err != nil {
		return nil, err
	}

	snap := snapshot.New(s.now())
	for _, useXG := range []bool{false, true} {
		p, elapsed, err := s.fit(ctx, req.League, ms, asOf, xi, useXG)
		if err != nil {
			if useXG && errors.Is(err, dixoncoles.ErrInsufficientData) {
				continue
			}
			return nil, fmt.Errorf("league %s: %w", req.League, err)
		}
		snap.Add(snapshot.Fit{League: req.League, Season: req.Season, AsOf: asOf, Params: p, Duration: elapsed}, s.names)
	}
	return snap, nil
}

func (s *Service) fit(
	ctx context.Context,
	league string,
	ms []model.MatchRecord,
	asOf time.Time,
	xi float64,
	useXG bool,
) (model.FittedParameters, time.Duration, error) {
	source := string(model.SourceGoals)
	if useXG {
		source = string(model.SourceXG)
	}

	start := time.Now()
	p, err := s.fitter.Fit(ms, asOf, xi, useXG)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordFit(source, resultOf(err), elapsed)
		if errors.Is(err, dixoncoles.ErrInsufficientData) {
			metrics.RecordInsufficientData(league)
			s.logger.Warn(ctx, "insufficient data for fit",
				logger.String("league", league),
				logger.String("source", source),
				logger.Error(err),
			)
		}
		return model.FittedParameters{}, elapsed, err
	}

	metrics.RecordFit(source, metrics.ResultOK, elapsed)
	s.logger.Info(ctx, "fitted league",
		logger.String("league", league),
		logger.String("source", source),
		logger.Time("as_of", asOf),
		logger.Int("n_matches", p.NMatches),
		logger.Int("n_teams", p.NTeams),
		logger.Float64("home_advantage", p.HomeAdvantage),
		logger.Float64("rho", p.Rho),
		logger.Float64("log_likelihood", p.LogLikelihood),
		logger.Duration("elapsed", elapsed),
	)
	return p, elapsed, nil
}

// TuneDecay searches the configured xi grid on a league's matches up to and
// including to.
func (s *Service) TuneDecay(ctx context.Context, league string, to time.Time) (tuning.Result, error) {
	ms, err := s.matches(ctx, league, time.Time{}, to)
	if err != nil {
		return tuning.Result{}, err
	}

	t := tuning.New(
		tuning.WithGrid(s.tuneGrid),
		tuning.WithTrainShare(s.trainShare),
		tuning.WithFitter(s.fitter),
		tuning.WithKMax(s.kMax),
		tuning.WithParallelism(s.parallelism),
	)
	start := time.Now()
	res, err := t.Tune(ctx, ms)
	if err != nil {
		return tuning.Result{}, fmt.Errorf("league %s: %w", league, err)
	}
	metrics.UpdateTunedXi(league, res.Xi, res.LogLoss)

	if res.Fallback {
		s.logger.Warn(ctx, "too few matches to tune decay; using default",
			logger.String("league", league),
			logger.Int("matches", len(ms)),
			logger.Float64("xi", res.Xi),
		)
		return res, nil
	}
	s.logger.Info(ctx, "tuned decay",
		logger.String("league", league),
		logger.Float64("xi", res.Xi),
		logger.Float64("half_life_days", decay.HalfLife(res.Xi)),
		logger.Float64("logloss", res.LogLoss),
		logger.Int("train", res.Train),
		logger.Int("validation", res.Validation),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
