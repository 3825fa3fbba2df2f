// Command tune-decay searches for the time-decay rate with the best
// hold-out log-loss for a league and prints the result as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/matchodds/internal/adapters/history"
	service "github.com/okian/matchodds/internal/app"
	"github.com/okian/matchodds/internal/cli"
	"github.com/okian/matchodds/internal/domain/decay"
	"github.com/okian/matchodds/internal/domain/tuning"
)

// candidateOut is one grid point. Losses are null when not computable.
type candidateOut struct {
	Xi      float64  `json:"xi"`
	LogLoss *float64 `json:"logloss"`
	Scored  int      `json:"scored"`
}

type resultOut struct {
	League       string         `json:"league"`
	Xi           float64        `json:"xi"`
	HalfLifeDays *float64       `json:"half_life_days"`
	LogLoss      *float64       `json:"logloss"`
	Train        int            `json:"train"`
	Validation   int            `json:"validation"`
	Fallback     bool           `json:"fallback"`
	Candidates   []candidateOut `json:"candidates"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = os.Stderr.WriteString("tune-decay failed: " + err.Error() + "\n")
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, log, err := cli.Bootstrap(ctx, stderr)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("tune-decay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	defaultLeague := "E0"
	if len(cfg.Leagues) > 0 {
		defaultLeague = cfg.Leagues[0]
	}
	league := fs.String("league", defaultLeague, "league code")
	toDate := fs.String("to-date", "", "last match date used, YYYY-MM-DD")
	grid := fs.String("grid", cli.FormatFloats(cfg.TuneGrid), "comma-separated xi candidates")
	output := fs.String("output", "", "output file (default stdout)")
	dataDir := fs.String("data-dir", cfg.DataDir, "directory of league CSV files")
	useSynthetic := fs.Bool("synthetic", false, "tune on a generated league instead of CSV files")
	metricsFile := fs.String("metrics-file", cfg.MetricsFile, "write Prometheus metrics to this file on exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	to, err := cli.ParseDate(*toDate)
	if err != nil {
		return fmt.Errorf("to-date: %w", err)
	}
	xis, err := cli.ParseFloats(*grid)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	defer cli.DumpMetrics(ctx, log, *metricsFile)

	src, _ := cli.Source(*dataDir, *useSynthetic, history.WithDedupeMaxKeys(cfg.DedupeMaxKeys))
	svc := service.New(append(service.FromConfig(cfg),
		service.WithSource(src),
		service.WithLogger(log),
		service.WithTuneGrid(xis),
	)...)

	res, err := svc.TuneDecay(ctx, *league, to)
	if err != nil {
		return err
	}
	return cli.WriteJSON(*output, stdout, render(*league, res))
}

func render(league string, res tuning.Result) resultOut {
	out := resultOut{
		League:       league,
		Xi:           res.Xi,
		HalfLifeDays: finite(decay.HalfLife(res.Xi)),
		LogLoss:      finite(res.LogLoss),
		Train:        res.Train,
		Validation:   res.Validation,
		Fallback:     res.Fallback,
		Candidates:   make([]candidateOut, 0, len(res.Candidates)),
	}
	for _, c := range res.Candidates {
		out.Candidates = append(out.Candidates, candidateOut{Xi: c.Xi, LogLoss: finite(c.LogLoss), Scored: c.Scored})
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
