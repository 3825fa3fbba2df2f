// Package cli holds the start-up steps shared by the command line tools:
// configuration, logging, the match source and output files.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/matchodds/internal/adapters/history"
	service "github.com/okian/matchodds/internal/app"
	"github.com/okian/matchodds/internal/config"
	"github.com/okian/matchodds/internal/synthetic"
	"github.com/okian/matchodds/pkg/logger"
	"github.com/okian/matchodds/pkg/metrics"
)

// DateLayout is the flag format for dates.
const DateLayout = "2006-01-02"

// Bootstrap initializes logging on stderr and loads configuration.
func Bootstrap(ctx context.Context, stderr io.Writer) (*config.Config, logger.Logger, error) {
	if err := logger.InitWithWriter(stderr); err != nil {
		return nil, nil, fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// Source returns the CSV history under dataDir, or generated leagues when
// useSynthetic is set, together with a matching team-name resolver. opts
// configure the CSV source only.
func Source(dataDir string, useSynthetic bool, opts ...history.Option) (service.Source, func(int) (string, bool)) {
	if useSynthetic {
		return synthetic.NewSource(synthetic.DefaultConfig()), synthetic.TeamName
	}
	src := history.NewCSVSource(dataDir, opts...)
	return src, src.Teams().Name
}

// ParseDate reads an optional YYYY-MM-DD flag value. Empty gives the zero
// time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want %s", s, DateLayout)
	}
	return t, nil
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList, for flag defaults.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// ParseFloats splits a comma-separated list of numbers.
func ParseFloats(s string) ([]float64, error) {
	parts := SplitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatFloats is the inverse of ParseFloats, for flag defaults.
func FormatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Output opens path for writing, or returns stdout when path is empty or
// "-". The returned close function must be called once writing is done.
func Output(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path) //nolint:gosec // output path chosen by the operator
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

// WriteJSON writes v as indented JSON to path, or to stdout when path is
// empty or "-".
func WriteJSON(path string, stdout io.Writer, v any) error {
	w, closeFn, err := Output(path, stdout)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = closeFn()
		return fmt.Errorf("encode output: %w", err)
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// DumpMetrics writes the metrics registry to path when one is set.
func DumpMetrics(ctx context.Context, log logger.Logger, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.Error(ctx, "metrics dump failed", logger.String("path", path), logger.Error(err))
		return
	}
	log.Debug(ctx, "metrics written", logger.String("path", path))
}
