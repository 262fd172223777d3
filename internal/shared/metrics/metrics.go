package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysisStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Total analyses started",
	})

	analysisCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_completed_total",
		Help: "Total analyses completed",
	})

	analysisFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_failed_total",
			Help: "Total analyses failed, by error code",
		},
		[]string{"code"},
	)

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_seconds",
		Help:    "End to end analysis duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	narrativeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "narrative_request_duration_seconds",
			Help:    "Duration of narrative service calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "outcome"},
	)

	workerJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_total",
			Help: "Queue jobs handled by the worker, by outcome",
		},
		[]string{"outcome"},
	)
)

// Worker job outcomes.
const (
	JobReceived             = "received"
	JobCompleted            = "completed"
	JobFailed               = "failed"
	JobDeletedUnrecoverable = "deleted_unrecoverable"
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStarted.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompleted.Inc()
}

// IncAnalysisFailed increments the failed counter for an error code.
func IncAnalysisFailed(code string) {
	analysisFailed.WithLabelValues(code).Inc()
}

// ObserveAnalysisDuration records an end to end analysis duration.
func ObserveAnalysisDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	analysisDuration.Observe(d.Seconds())
}

// ObserveNarrative records one narrative call. outcome is "ok" or an error code.
func ObserveNarrative(provider, outcome string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	narrativeDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

// IncWorkerJob counts a worker job outcome.
func IncWorkerJob(outcome string) {
	workerJobs.WithLabelValues(outcome).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
