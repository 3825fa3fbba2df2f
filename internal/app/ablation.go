package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/matchodds/internal/adapters/history"
	"github.com/okian/matchodds/internal/domain/dixoncoles"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/walkforward"
	"github.com/okian/matchodds/pkg/logger"
	"github.com/okian/matchodds/pkg/metrics"
)

// PooledLeague labels rows that pool every league's forecasts.
const PooledLeague = "ALL"

// AblationRequest selects what RunAblation replays.
type AblationRequest struct {
	Leagues  []string
	From     time.Time
	To       time.Time
	Configs  []string
	Baseline string
}

// AblationReport is the document the ablation CLI writes.
type AblationReport struct {
	RunID       uuid.UUID         `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Warmup      int               `json:"warmup"`
	Baseline    string            `json:"baseline"`
	Configs     []string          `json:"configs"`
	Skipped     []string          `json:"skipped_leagues,omitempty"`
	Results     []walkforward.Row `json:"results"`
}

// RunAblation replays every league under every configuration and reports
// per-league rows followed by pooled rows when more than one league ran.
// Leagues without enough matches are logged and skipped.
func (s *Service) RunAblation(ctx context.Context, req AblationRequest) (*AblationReport, error) {
	configs, baseline, err := walkforward.NormalizeConfigs(req.Configs, req.Baseline)
	if err != nil {
		return nil, err
	}
	ev := s.evaluator()

	reports := make([]*walkforward.Report, len(req.Leagues))
	skipped := make([]bool, len(req.Leagues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, league := range req.Leagues {
		i, league := i, league
		g.Go(func() error {
			rep, err := s.ablateLeague(gctx, ev, league, req, configs, baseline)
			switch {
			case errors.Is(err, history.ErrNoData), errors.Is(err, walkforward.ErrNoMatches):
				s.logger.Warn(gctx, "skipping league", logger.String("league", league), logger.Error(err))
				metrics.RecordInsufficientData(league)
				skipped[i] = true
				return nil
			case err != nil:
				return fmt.Errorf("league %s: %w", league, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &AblationReport{
		RunID:       uuid.New(),
		GeneratedAt: s.now().UTC(),
		Warmup:      s.warmup,
		Baseline:    baseline,
		Configs:     configs,
	}
	pooled := make(map[string][]model.EvaluationRecord, len(configs))
	ran := 0
	for i, rep := range reports {
		if skipped[i] {
			out.Skipped = append(out.Skipped, req.Leagues[i])
		}
		if rep == nil {
			continue
		}
		ran++
		for _, row := range rep.Rows {
			row.League = req.Leagues[i]
			out.Results = append(out.Results, row)
		}
		for name, run := range rep.Runs {
			pooled[name] = append(pooled[name], run.Records...)
		}
	}
	if ran == 0 {
		return nil, ErrNoResults
	}
	if ran > 1 {
		for _, row := range walkforward.Compare(pooled, configs, baseline) {
			row.League = PooledLeague
			out.Results = append(out.Results, row)
			metrics.UpdateMeanRPS(PooledLeague, row.Config, row.RPS)
		}
	}
	return out, nil
}

func (s *Service) ablateLeague(
	ctx context.Context,
	ev *walkforward.Evaluator,
	league string,
	req AblationRequest,
	configs []string,
	baseline string,
) (*walkforward.Report, error) {
	ms, err := s.matches(ctx, league, req.From, req.To)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "replaying league",
		logger.String("league", league),
		logger.Int("matches", len(ms)),
		logger.Int("configs", len(configs)),
	)

	start := time.Now()
	rep, err := ev.Ablation(ctx, ms, configs, baseline)
	if err != nil {
		return nil, err
	}
	metrics.RecordRunDuration(league, time.Since(start))

	for _, row := range rep.Rows {
		run := rep.Runs[row.Config]
		fallbacks := 0
		for _, r := range run.Records {
			if r.Fallback {
				fallbacks++
			}
		}
		metrics.RecordScored(row.Config, row.N, fallbacks)
		metrics.UpdateMeanRPS(league, row.Config, row.RPS)
		s.logger.Info(ctx, "ablation row",
			logger.String("league", league),
			logger.String("config", row.Config),
			logger.Int("n", row.N),
			logger.Float64("rps", row.RPS),
			logger.Float64("delta_rps", row.DeltaRPS),
			logger.Int("refits", row.Refits),
			logger.Int("fallbacks", fallbacks),
		)
	}
	s.logger.Info(ctx, "league done", logger.String("league", league), logger.Duration("elapsed", time.Since(start)))
	return rep, nil
}

// evaluator builds the walk-forward evaluator. Refit results feed metrics.
func (s *Service) evaluator() *walkforward.Evaluator {
	return walkforward.New(
		walkforward.WithWarmup(s.warmup),
		walkforward.WithRefitInterval(s.refitInterval),
		walkforward.WithMinHistory(s.minHistory),
		walkforward.WithXi(s.xi),
		walkforward.WithFitter(s.fitter),
		walkforward.WithKMax(s.kMax),
		walkforward.WithFormWindow(s.formWindow),
		walkforward.WithElo(s.eloK, s.eloHome),
		walkforward.WithFatigue(s.fatigueRestDays, s.fatigueFactor),
		walkforward.WithParallelism(s.parallelism),
		walkforward.WithRefitHook(func(config string, err error) {
			metrics.RecordRefit(config, resultOf(err))
		}),
	)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, dixoncoles.ErrInsufficientData):
		return metrics.ResultInsufficient
	default:
		return metrics.ResultError
	}
}
