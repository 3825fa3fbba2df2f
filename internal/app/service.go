// Package service wires match history, the Dixon-Coles fitter, the
// walk-forward evaluator and the decay tuner into the jobs the command line
// tools run, with logging and metrics around each step.
package service

import (
	"context"
	"runtime"
	"time"

	"github.com/okian/matchodds/internal/adapters/snapshot"
	"github.com/okian/matchodds/internal/config"
	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/ratings"
	"github.com/okian/matchodds/internal/domain/tuning"
	"github.com/okian/matchodds/internal/domain/walkforward"
	"github.com/okian/matchodds/pkg/logger"
)

// Source provides a league's completed matches in date order. A zero from
// or to leaves that side open.
type Source interface {
	Matches(ctx context.Context, league string, from, to time.Time) ([]model.MatchRecord, error)
}

// Service runs fitting, tuning and ablation jobs against a Source.
type Service struct {
	source Source
	logger logger.Logger
	names  snapshot.NameFunc
	now    func() time.Time

	// Model configuration
	fitter          *dixoncoles.Fitter
	xi              float64
	kMax            int
	warmup          int
	refitInterval   int
	minHistory      int
	formWindow      int
	eloK            float64
	eloHome         float64
	fatigueRestDays int
	fatigueFactor   float64
	tuneGrid        []float64
	trainShare      float64
	parallelism     int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where matches come from.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTeamNames sets how snapshot rows label team IDs.
func WithTeamNames(names snapshot.NameFunc) Option {
	return func(s *Service) {
		s.names = names
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFitter sets the Dixon-Coles fitter shared by every job.
func WithFitter(f *dixoncoles.Fitter) Option {
	return func(s *Service) {
		if f != nil {
			s.fitter = f
		}
	}
}

// WithXi sets the default time-decay rate.
func WithXi(xi float64) Option {
	return func(s *Service) {
		if xi >= 0 {
			s.xi = xi
		}
	}
}

// WithKMax sets the score-grid truncation.
func WithKMax(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.kMax = k
		}
	}
}

// WithWarmup sets how many leading matches only build state in a replay.
func WithWarmup(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.warmup = n
		}
	}
}

// WithRefitInterval sets how many observed matches trigger a refit.
func WithRefitInterval(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.refitInterval = n
		}
	}
}

// WithMinHistory sets how many matches the first walk-forward fit waits for.
func WithMinHistory(n int) Option {
	return func(s *Service) {
		if n >= dixoncoles.MinMatches {
			s.minHistory = n
		}
	}
}

// WithFormWindow sets the rolling window behind the baseline forecast.
func WithFormWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.formWindow = n
		}
	}
}

// WithElo sets the Elo update factor and home advantage in rating points.
func WithElo(k, homeAdvantage float64) Option {
	return func(s *Service) {
		s.eloK, s.eloHome = k, homeAdvantage
	}
}

// WithFatigue sets the fatigue window and scoring-rate penalty.
func WithFatigue(restDays int, factor float64) Option {
	return func(s *Service) {
		s.fatigueRestDays, s.fatigueFactor = restDays, factor
	}
}

// WithTuneGrid sets the xi grid searched by TuneDecay.
func WithTuneGrid(grid []float64) Option {
	return func(s *Service) {
		if len(grid) > 0 {
			s.tuneGrid = grid
		}
	}
}

// WithTrainShare sets the chronological share TuneDecay fits on.
func WithTrainShare(share float64) Option {
	return func(s *Service) {
		if share > 0 && share < 1 {
			s.trainShare = share
		}
	}
}

// WithParallelism caps concurrent leagues, configurations and candidates.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// FromConfig translates loaded configuration into service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithFitter(dixoncoles.NewFitter(
			dixoncoles.WithRhoGridSteps(cfg.RhoGridSteps),
			dixoncoles.WithMaxIterations(cfg.MaxIterations),
			dixoncoles.WithGradientTolerance(cfg.GradientTol),
		)),
		WithXi(cfg.Xi),
		WithKMax(cfg.KMax),
		WithWarmup(cfg.Warmup),
		WithRefitInterval(cfg.RefitInterval),
		WithMinHistory(cfg.MinHistory),
		WithFormWindow(cfg.FormWindow),
		WithElo(cfg.EloK, cfg.EloHomeAdvantage),
		WithFatigue(cfg.FatigueRestDays, cfg.FatigueFactor),
		WithTuneGrid(cfg.TuneGrid),
		WithTrainShare(cfg.TrainShare),
		WithParallelism(cfg.Parallelism),
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		now:             time.Now,
		fitter:          dixoncoles.NewFitter(),
		xi:              walkforward.DefaultXi,
		kMax:            dixoncoles.DefaultKMax,
		warmup:          walkforward.DefaultWarmup,
		refitInterval:   walkforward.DefaultRefitInterval,
		minHistory:      walkforward.DefaultMinHistory,
		formWindow:      ratings.DefaultFormWindow,
		eloK:            ratings.DefaultEloK,
		eloHome:         ratings.DefaultEloHomeAdvantage,
		fatigueRestDays: walkforward.DefaultFatigueRestDays,
		fatigueFactor:   walkforward.DefaultFatigueFactor,
		tuneGrid:        tuning.DefaultGrid(),
		trainShare:      tuning.DefaultTrainShare,
		parallelism:     runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

func (s *Service) matches(ctx context.Context, league string, from, to time.Time) ([]model.MatchRecord, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	return s.source.Matches(ctx, league, from, to)
}
