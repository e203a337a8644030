// internal/matching/metrics.go

package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buddyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buddy_requests_total",
			Help: "Total number of buddy requests by lifecycle status",
		},
		[]string{"status"},
	)

	connectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "buddy_connections_total",
			Help: "Total number of accepted buddy connections",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "buddy_compatibility_scores",
			Help:    "Distribution of computed compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	pipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "buddy_match_pipeline_duration_seconds",
			Help: "Time spent selecting, scoring and ranking candidates",
		},
	)

	candidatesEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "buddy_candidates_evaluated",
			Help:    "Candidates scored per matching run",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)
)

func recordBuddyRequest(status string) {
	buddyRequestsTotal.WithLabelValues(status).Inc()
}

func recordConnection() {
	connectionsTotal.Inc()
}

func recordCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}

func recordPipelineRun(start time.Time, evaluated int) {
	pipelineDuration.Observe(time.Since(start).Seconds())
	candidatesEvaluated.Observe(float64(evaluated))
}
