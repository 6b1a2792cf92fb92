// Package metrics provides the centralized Prometheus metrics registry for
// the forecaster.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowcast",
		Name:      "runs_total",
		Help:      "Total number of forecast pipeline runs",
	}, []string{"status"})
	ModelsTrainedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowcast",
		Name:      "models_trained_total",
		Help:      "Total number of models trained",
	}, []string{"model", "category"})
	BaselinesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowcast",
		Name:      "baselines_skipped_total",
		Help:      "Total number of baselines skipped for insufficient history",
	})
	PredictionCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowcast",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	PredictionCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowcast",
		Name:      "prediction_cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
)

// Histogram and gauge metrics
var (
	TrainingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flowcast",
		Name:      "training_duration_seconds",
		Help:      "Wall time spent training each model",
		Buckets:   prometheus.DefBuckets,
	}, []string{"model"})
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "flowcast",
		Name:      "evaluation_duration_seconds",
		Help:      "Wall time spent scoring all models",
		Buckets:   prometheus.DefBuckets,
	})
	ForecastDays = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flowcast",
		Name:      "forecast_days",
		Help:      "Number of future days in the most recent forecast",
	})
	HistoryDays = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flowcast",
		Name:      "history_days",
		Help:      "Number of historical days in the most recent run",
	})
)

// Registry returns the shared registry, registering all metrics on first use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			RunsTotal,
			ModelsTrainedTotal,
			BaselinesSkippedTotal,
			PredictionCacheHits,
			PredictionCacheMisses,
			TrainingDuration,
			EvaluationDuration,
			ForecastDays,
			HistoryDays,
		)
	})
	return registry
}

// Handler returns an HTTP handler exposing the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
