// Command fit-params fits goals and xG Dixon-Coles parameters for a league
// as of a date and writes the snapshot rows as JSON.
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
	"time"

	"github.com/okian/matchodds/internal/adapters/history"
	"github.com/okian/matchodds/internal/adapters/snapshot"
	service "github.com/okian/matchodds/internal/app"
	"github.com/okian/matchodds/internal/cli"
	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = os.Stderr.WriteString("fit-params failed: " + err.Error() + "\n")
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

	fs := flag.NewFlagSet("fit-params", flag.ContinueOnError)
	fs.SetOutput(stderr)
	league := fs.String("league", firstOr(cfg.Leagues, "E0"), "league code")
	asOfFlag := fs.String("as-of", "", "fit on matches before this date, YYYY-MM-DD (default today)")
	season := fs.String("season", "", "season label (default derived from as-of, e.g. 2024/2025)")
	xi := fs.Float64("xi", cfg.Xi, "time-decay rate per day")
	output := fs.String("output", "", "output file (default stdout)")
	dataDir := fs.String("data-dir", cfg.DataDir, "directory of league CSV files")
	useSynthetic := fs.Bool("synthetic", false, "fit a generated league instead of CSV files")
	metricsFile := fs.String("metrics-file", cfg.MetricsFile, "write Prometheus metrics to this file on exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *xi < 0 {
		return fmt.Errorf("xi must not be negative, got %g", *xi)
	}

	asOf, err := cli.ParseDate(*asOfFlag)
	if err != nil {
		return fmt.Errorf("as-of: %w", err)
	}
	if asOf.IsZero() {
		asOf = model.Date(time.Now())
	}
	defer cli.DumpMetrics(ctx, log, *metricsFile)

	src, names := cli.Source(*dataDir, *useSynthetic, history.WithDedupeMaxKeys(cfg.DedupeMaxKeys))
	svc := service.New(append(service.FromConfig(cfg),
		service.WithSource(src),
		service.WithLogger(log),
		service.WithTeamNames(names),
	)...)

	snap, err := svc.FitSnapshot(ctx, service.FitRequest{League: *league, AsOf: asOf, Season: *season, Xi: *xi})
	if err != nil {
		return err
	}
	w, closeOut, err := cli.Output(*output, stdout)
	if err != nil {
		return err
	}
	if err := snapshot.Write(w, snap); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	log.Info(ctx, "snapshot written",
		logger.String("batch_id", snap.BatchID.String()),
		logger.Int("team_rows", len(snap.Teams)),
		logger.Int("league_rows", len(snap.Leagues)),
	)
	return nil
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}
