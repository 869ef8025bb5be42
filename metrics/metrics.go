package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// DetectionsTotal counts finished detections by winning source and status.
	DetectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmcare",
		Subsystem: "detection",
		Name:      "detections_total",
		Help:      "Total number of disease detections, labeled by source (local, remote, recovered, error) and status.",
	}, []string{"source", "status"})

	// DetectionDurationSeconds is end-to-end time per detection.
	DetectionDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "farmcare",
		Subsystem: "detection",
		Name:      "duration_seconds",
		Help:      "End-to-end time to produce a disease report.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"source"})

	// ParseOutcomesTotal counts vision replies by how they were parsed.
	ParseOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmcare",
		Subsystem: "vision",
		Name:      "parse_outcomes_total",
		Help:      "Total number of vision replies, labeled by parse outcome (clean, repaired, recovered, failed).",
	}, []string{"outcome"})

	// RemoteCallDurationSeconds is the latency of the vision model call.
	RemoteCallDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "farmcare",
		Subsystem: "vision",
		Name:      "call_duration_seconds",
		Help:      "Time spent waiting for the vision model, labeled by result.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"result"})

	// LocalModelState is 0 unloaded, 1 loaded, 2 failed.
	LocalModelState = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "farmcare",
		Subsystem: "local_model",
		Name:      "state",
		Help:      "Local classifier state: 0 unloaded, 1 loaded, 2 failed.",
	})

	PersistenceErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmcare",
		Subsystem: "detection",
		Name:      "persistence_errors_total",
		Help:      "Total number of scans that could not be stored.",
	})

	PublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmcare",
		Subsystem: "detection",
		Name:      "publish_errors_total",
		Help:      "Total number of scan events that could not be published.",
	})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			DetectionsTotal,
			DetectionDurationSeconds,
			ParseOutcomesTotal,
			RemoteCallDurationSeconds,
			LocalModelState,
			PersistenceErrorsTotal,
			PublishErrorsTotal,
		)
	})
}
