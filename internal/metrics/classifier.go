package metrics

import "github.com/prometheus/client_golang/prometheus"

// Classification Prometheus metrics.
var (
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trinetra",
			Name:      "classifications_total",
			Help:      "Total number of classified texts",
		},
		[]string{"category", "rule"},
	)

	ClassificationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trinetra",
			Name:      "classification_duration_seconds",
			Help:      "Classification duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
	)

	KeywordMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trinetra",
			Name:      "keyword_matches_total",
			Help:      "Total keyword registry hits by evidence group",
		},
		[]string{"group"},
	)

	ScorerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trinetra",
			Name:      "scorer_requests_total",
			Help:      "Total semantic scorer invocations",
		},
		[]string{"driver", "status"},
	)

	ScorerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trinetra",
			Name:      "scorer_request_duration_seconds",
			Help:      "Semantic scorer invocation duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"driver"},
	)

	ScorerFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trinetra",
			Name:      "scorer_fallbacks_total",
			Help:      "Scorer degradations to the benign default",
		},
		[]string{"driver", "reason"},
	)

	AlertsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trinetra",
			Name:      "alerts_created_total",
			Help:      "Total alerts raised for target-category detections",
		},
	)
)

var classifierMetricsRegistered bool

// RegisterClassifierMetrics registers classification metrics. Must be
// called once from main.
func RegisterClassifierMetrics() {
	if classifierMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClassificationsTotal)
	prometheus.MustRegister(ClassificationDuration)
	prometheus.MustRegister(KeywordMatchesTotal)
	prometheus.MustRegister(ScorerRequestsTotal)
	prometheus.MustRegister(ScorerRequestDuration)
	prometheus.MustRegister(ScorerFallbacksTotal)
	prometheus.MustRegister(AlertsCreatedTotal)
	classifierMetricsRegistered = true
}
