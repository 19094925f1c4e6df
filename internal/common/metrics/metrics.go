// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Estimation metrics.
var (
	EstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_estimates_total",
			Help: "Price estimates by outcome (success, prediction_failed, invalid_input)",
		},
		[]string{"outcome"},
	)

	UnknownCategoryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_unknown_category_total",
			Help: "Labels encoded as unknown, by field",
		},
		[]string{"field"},
	)

	EstimatedPrice = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carprice_estimated_price",
			Help:    "Distribution of estimated prices in the model's price unit",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_cache_lookups_total",
			Help: "Estimate cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	ArtifactsLoadedTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carprice_artifacts_loaded_timestamp_seconds",
			Help: "Unix time the artifact bundle was loaded",
		},
	)
)

// Estimate outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomePredictionFailed = "prediction_failed"
	OutcomeInvalidInput     = "invalid_input"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
