package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for fit and refit results.
const (
	ResultOK           = "ok"
	ResultInsufficient = "insufficient_data"
	ResultError        = "error"
)

// Manager manages all Prometheus metrics for fitting and evaluation.
type Manager struct {
	namespace  string
	subsystem  string
	fitBuckets []float64
	registry   prometheus.Registerer

	// Fitting
	fits             *prometheus.CounterVec
	fitDuration      *prometheus.HistogramVec
	insufficientData *prometheus.CounterVec

	// Walk-forward evaluation
	refits      *prometheus.CounterVec
	scored      *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	meanRPS     *prometheus.GaugeVec
	runDuration *prometheus.HistogramVec

	// Decay tuning
	tunedXi      *prometheus.GaugeVec
	tunedLogLoss *prometheus.GaugeVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:  "matchodds",
		subsystem:  "model",
		fitBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		registry:   prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fits_total",
		Help:      "Dixon-Coles fits by parameter source and result",
	}, []string{"source", "result"})

	m.fitDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fit_duration_seconds",
		Help:      "Wall time of a full rho-grid fit",
		Buckets:   m.fitBuckets,
	}, []string{"source"})

	m.insufficientData = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "insufficient_data_total",
		Help:      "Fits skipped for too few matches or teams",
	}, []string{"league"})

	m.refits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "walkforward_refits_total",
		Help:      "Walk-forward refits by configuration and result",
	}, []string{"config", "result"})

	m.scored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "walkforward_scored_total",
		Help:      "Forecasts scored by configuration",
	}, []string{"config"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "walkforward_fallbacks_total",
		Help:      "Forecasts served by the baseline because no fit covered the fixture",
	}, []string{"config"})

	m.meanRPS = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "walkforward_mean_rps",
		Help:      "Mean ranked probability score of the latest run",
	}, []string{"league", "config"})

	m.runDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "walkforward_run_duration_seconds",
		Help:      "Wall time of a league ablation",
		Buckets:   m.fitBuckets,
	}, []string{"league"})

	m.tunedXi = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tuned_xi",
		Help:      "Decay rate chosen by the latest tuning run",
	}, []string{"league"})

	m.tunedLogLoss = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tuned_logloss",
		Help:      "Validation log-loss of the chosen decay rate",
	}, []string{"league"})
}

// RecordFit counts a fit and, when it ran, observes its duration.
func RecordFit(source, result string, d time.Duration) {
	globalManager.fits.WithLabelValues(source, result).Inc()
	if result != ResultInsufficient {
		globalManager.fitDuration.WithLabelValues(source).Observe(d.Seconds())
	}
}

// RecordInsufficientData counts a league skipped for lack of data.
func RecordInsufficientData(league string) {
	globalManager.insufficientData.WithLabelValues(league).Inc()
}

// RecordRefit counts a walk-forward refit.
func RecordRefit(config, result string) {
	globalManager.refits.WithLabelValues(config, result).Inc()
}

// RecordScored adds a run's scored and fallback forecast counts.
func RecordScored(config string, scored, fallbacks int) {
	globalManager.scored.WithLabelValues(config).Add(float64(scored))
	globalManager.fallbacks.WithLabelValues(config).Add(float64(fallbacks))
}

// UpdateMeanRPS sets the mean RPS of a run. NaN means are not exported.
func UpdateMeanRPS(league, config string, rps float64) {
	if math.IsNaN(rps) {
		return
	}
	globalManager.meanRPS.WithLabelValues(league, config).Set(rps)
}

// RecordRunDuration observes the wall time of a league ablation.
func RecordRunDuration(league string, d time.Duration) {
	globalManager.runDuration.WithLabelValues(league).Observe(d.Seconds())
}

// UpdateTunedXi sets the chosen decay rate and its loss. An infinite loss
// (too little data) only sets the rate.
func UpdateTunedXi(league string, xi, logLoss float64) {
	globalManager.tunedXi.WithLabelValues(league).Set(xi)
	if !math.IsInf(logLoss, 0) && !math.IsNaN(logLoss) {
		globalManager.tunedLogLoss.WithLabelValues(league).Set(logLoss)
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry in the text exposition format, for a
// node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
