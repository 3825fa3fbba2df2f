// Command main replays match history under several model configurations
// and writes an ablation table of proper scoring rules.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/matchodds/internal/adapters/history"
	service "github.com/okian/matchodds/internal/app"
	"github.com/okian/matchodds/internal/cli"
	"github.com/okian/matchodds/internal/domain/walkforward"
	"github.com/okian/matchodds/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = os.Stderr.WriteString("ablation failed: " + err.Error() + "\n")
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

	fs := flag.NewFlagSet("ablation", flag.ContinueOnError)
	fs.SetOutput(stderr)
	leagues := fs.String("leagues", cli.JoinList(cfg.Leagues), "comma-separated league codes")
	fromDate := fs.String("from-date", "", "first match date, YYYY-MM-DD")
	toDate := fs.String("to-date", "", "last match date, YYYY-MM-DD")
	configs := fs.String("configs", cli.JoinList(cfg.Configs), "comma-separated configurations: "+cli.JoinList(walkforward.Configs()))
	baseline := fs.String("baseline", cfg.Baseline, "configuration the others are compared with")
	warmup := fs.Int("warmup", cfg.Warmup, "leading matches used only to build state")
	refitInterval := fs.Int("refit-interval", cfg.RefitInterval, "observed matches between refits")
	output := fs.String("output", "", "output file (default stdout)")
	dataDir := fs.String("data-dir", cfg.DataDir, "directory of league CSV files")
	useSynthetic := fs.Bool("synthetic", false, "replay generated leagues instead of CSV files")
	metricsFile := fs.String("metrics-file", cfg.MetricsFile, "write Prometheus metrics to this file on exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	from, err := cli.ParseDate(*fromDate)
	if err != nil {
		return fmt.Errorf("from-date: %w", err)
	}
	to, err := cli.ParseDate(*toDate)
	if err != nil {
		return fmt.Errorf("to-date: %w", err)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("to-date %s is before from-date %s", *toDate, *fromDate)
	}
	defer cli.DumpMetrics(ctx, log, *metricsFile)

	src, names := cli.Source(*dataDir, *useSynthetic, history.WithDedupeMaxKeys(cfg.DedupeMaxKeys))
	opts := append(service.FromConfig(cfg),
		service.WithSource(src),
		service.WithLogger(log),
		service.WithTeamNames(names),
		service.WithWarmup(*warmup),
		service.WithRefitInterval(*refitInterval),
	)
	svc := service.New(opts...)

	req := service.AblationRequest{
		Leagues:  cli.SplitList(*leagues),
		From:     from,
		To:       to,
		Configs:  cli.SplitList(*configs),
		Baseline: *baseline,
	}
	log.Info(ctx, "starting ablation",
		logger.String("leagues", *leagues),
		logger.String("configs", *configs),
		logger.Int("warmup", *warmup),
		logger.Bool("synthetic", *useSynthetic),
	)
	rep, err := svc.RunAblation(ctx, req)
	if err != nil {
		return err
	}
	if err := cli.WriteJSON(*output, stdout, rep); err != nil {
		return err
	}
	log.Info(ctx, "ablation written",
		logger.String("run_id", rep.RunID.String()),
		logger.Int("rows", len(rep.Results)),
		logger.String("output", *output),
	)
	return nil
}
