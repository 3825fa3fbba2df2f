package walkforward

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/okian/matchodds/internal/domain/model"
	"github.com/okian/matchodds/internal/domain/scoring"
)

// Row is one line of an ablation table. Lower scores are better; a negative
// DeltaRPS means the configuration beat the baseline.
type Row struct {
	League   string  `json:"league,omitempty"`
	Config   string  `json:"config"`
	N        int     `json:"n"`
	RPS      float64 `json:"rps"`
	Brier    float64 `json:"brier"`
	LogLoss  float64 `json:"logloss"`
	DeltaRPS float64 `json:"delta_rps"`
	Refits   int     `json:"refits"`
}

// Report is an ablation over one match sequence.
type Report struct {
	Baseline string
	Rows     []Row
	Runs     map[string]*Run
}

// Ablation replays the same matches under every configuration and compares
// each mean RPS with the baseline's. The baseline is added to configs if
// missing; an empty baseline means DefaultBaseline. Configurations run
// concurrently, each on its own state.
func (e *Evaluator) Ablation(ctx context.Context, matches []model.MatchRecord, configs []string, baseline string) (*Report, error) {
	configs, baseline, err := NormalizeConfigs(configs, baseline)
	if err != nil {
		return nil, err
	}

	runs := make([]*Run, len(configs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, name := range configs {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := e.Run(matches, name)
			if err != nil {
				return fmt.Errorf("config %s: %w", name, err)
			}
			runs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Baseline: baseline, Runs: make(map[string]*Run, len(runs))}
	records := make(map[string][]model.EvaluationRecord, len(runs))
	refits := make(map[string]int, len(runs))
	for _, r := range runs {
		report.Runs[r.Config] = r
		records[r.Config] = r.Records
		refits[r.Config] = r.Refits
	}
	report.Rows = Compare(records, configs, baseline)
	for i := range report.Rows {
		report.Rows[i].Refits = refits[report.Rows[i].Config]
	}
	return report, nil
}

// Compare summarizes records per configuration, in the order given, and
// fills DeltaRPS against the baseline's mean RPS. The baseline's own delta
// is exactly zero.
func Compare(records map[string][]model.EvaluationRecord, order []string, baseline string) []Row {
	base := scoring.Summarize(records[baseline])
	rows := make([]Row, 0, len(order))
	for _, name := range order {
		s := scoring.Summarize(records[name])
		rows = append(rows, Row{
			Config:   name,
			N:        s.N,
			RPS:      s.RPS,
			Brier:    s.Brier,
			LogLoss:  s.LogLoss,
			DeltaRPS: s.RPS - base.RPS,
		})
	}
	return rows
}

// NormalizeConfigs validates configuration names, drops duplicates and
// makes sure the baseline is present (first, if it had to be added).
func NormalizeConfigs(configs []string, baseline string) ([]string, string, error) {
	if baseline == "" {
		baseline = DefaultBaseline
	}
	if _, ok := registry[baseline]; !ok {
		return nil, "", fmt.Errorf("%w: baseline %q", ErrUnknownConfig, baseline)
	}
	out := make([]string, 0, len(configs)+1)
	for _, c := range configs {
		if _, ok := registry[c]; !ok {
			return nil, "", fmt.Errorf("%w: %q", ErrUnknownConfig, c)
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	if !slices.Contains(out, baseline) {
		out = append([]string{baseline}, out...)
	}
	return out, baseline, nil
}
