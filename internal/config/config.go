// Package config defines process configuration and its loading layers.
//
// Conventions:
// - New builds a Config holding every default.
// - Load layers a YAML file, a .env file and MATCHODDS_ env vars on top.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration shared by the CLIs.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir holds one CSV directory or file per league.
	DataDir string `koanf:"data_dir"`

	// Leagues lists league codes processed when no flag overrides them.
	Leagues []string `koanf:"leagues"`

	// Warmup is how many leading matches only build state in a replay.
	Warmup int `koanf:"warmup"`

	// RefitInterval is how many observed matches trigger a refit.
	RefitInterval int `koanf:"refit_interval"`

	// MinHistory is how many matches the first fit waits for.
	MinHistory int `koanf:"min_history"`

	// RhoGridSteps is the resolution of the rho search.
	RhoGridSteps int `koanf:"rho_grid_steps"`

	// Xi is the time-decay rate per day.
	Xi float64 `koanf:"xi"`

	// KMax truncates the score grid used for outcome probabilities.
	KMax int `koanf:"k_max"`

	// MaxIterations caps optimizer iterations per rho candidate.
	MaxIterations int `koanf:"max_iterations"`

	// GradientTol is the gradient norm at which the optimizer stops.
	GradientTol float64 `koanf:"gradient_tol"`

	// Parallelism caps concurrent configurations, leagues and tuner candidates.
	Parallelism int `koanf:"parallelism"`

	// Baseline is the configuration every other one is compared with.
	Baseline string `koanf:"baseline"`

	// Configs lists the model configurations in an ablation.
	Configs []string `koanf:"configs"`

	// TuneGrid is the xi grid searched by the decay tuner.
	TuneGrid []float64 `koanf:"tune_grid"`

	// TrainShare is the chronological share the decay tuner fits on.
	TrainShare float64 `koanf:"train_share"`

	// DedupeMaxKeys bounds the fixture keys kept while merging CSV files.
	// Zero means unbounded.
	DedupeMaxKeys int `koanf:"dedupe_max_keys"`

	// FormWindow is the rolling window behind the baseline forecast.
	FormWindow int `koanf:"form_window"`

	// EloK and EloHomeAdvantage tune the Elo ratings.
	EloK             float64 `koanf:"elo_k"`
	EloHomeAdvantage float64 `koanf:"elo_home_advantage"`

	// FatigueRestDays and FatigueFactor drive the fatigue configuration.
	FatigueRestDays int     `koanf:"fatigue_rest_days"`
	FatigueFactor   float64 `koanf:"fatigue_factor"`

	// MetricsFile, when set, receives a Prometheus text dump on exit.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		DataDir:          "data",
		Leagues:          []string{"E0"},
		Warmup:           100,
		RefitInterval:    30,
		MinHistory:       60,
		RhoGridSteps:     15,
		Xi:               0.0018,
		KMax:             8,
		MaxIterations:    300,
		GradientTol:      1e-6,
		Parallelism:      runtime.NumCPU(),
		Baseline:         "baseline",
		Configs:          []string{"baseline", "elo", "dixon_coles", "dixon_coles_xg", "dixon_coles_fatigue", "dixon_coles_stacking"},
		TuneGrid:         []float64{0, 0.0005, 0.001, 0.0015, 0.0018, 0.0025, 0.0035, 0.005},
		TrainShare:       0.7,
		FormWindow:       10,
		EloK:             20,
		EloHomeAdvantage: 60,
		FatigueRestDays:  4,
		FatigueFactor:    0.05,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Warmup < 0:
		return fmt.Errorf("%w: warmup must not be negative", ErrInvalidConfig)
	case c.RefitInterval < 1:
		return fmt.Errorf("%w: refit_interval must be positive", ErrInvalidConfig)
	case c.MinHistory < 10:
		return fmt.Errorf("%w: min_history must be at least 10", ErrInvalidConfig)
	case c.RhoGridSteps < 1:
		return fmt.Errorf("%w: rho_grid_steps must be positive", ErrInvalidConfig)
	case c.Xi < 0:
		return fmt.Errorf("%w: xi must not be negative", ErrInvalidConfig)
	case c.KMax < 1:
		return fmt.Errorf("%w: k_max must be positive", ErrInvalidConfig)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be positive", ErrInvalidConfig)
	case c.GradientTol <= 0:
		return fmt.Errorf("%w: gradient_tol must be positive", ErrInvalidConfig)
	case c.TrainShare <= 0 || c.TrainShare >= 1:
		return fmt.Errorf("%w: train_share must be in (0, 1)", ErrInvalidConfig)
	case c.DedupeMaxKeys < 0:
		return fmt.Errorf("%w: dedupe_max_keys must not be negative", ErrInvalidConfig)
	case c.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be positive", ErrInvalidConfig)
	case len(c.Configs) == 0:
		return fmt.Errorf("%w: configs must not be empty", ErrInvalidConfig)
	case c.FatigueFactor < 0 || c.FatigueFactor >= 1:
		return fmt.Errorf("%w: fatigue_factor must be in [0, 1)", ErrInvalidConfig)
	}
	return nil
}
