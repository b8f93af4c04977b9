package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// DetectionsTotal counts synchronous pair detections by outcome.
	DetectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_detections_total",
			Help: "Total number of synchronous pair detections",
		},
		[]string{"status"},
	)

	// DetectionDuration measures synchronous detection latency.
	DetectionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veritas_detection_duration_seconds",
			Help:    "Pair detection duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ComputationsTotal counts drive-wide computations by outcome.
	ComputationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_computations_total",
			Help: "Total number of drive-wide similarity computations",
		},
		[]string{"status"},
	)

	// ComputationDuration measures drive-wide computation latency.
	ComputationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veritas_computation_duration_seconds",
			Help:    "Drive computation duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	// SubmissionsIngested counts stream submissions by outcome.
	SubmissionsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_submissions_ingested_total",
			Help: "Total number of stream submissions ingested",
		},
		[]string{"status"},
	)
)

// InitPrometheus registers all collectors with the default registry.
func InitPrometheus() {
	prometheus.MustRegister(
		DetectionsTotal,
		DetectionDuration,
		ComputationsTotal,
		ComputationDuration,
		SubmissionsIngested,
	)
}
