package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/melhamamsy/audio-podcast-qa-assistant/internal/core/domain"
)

type EvaluationMetrics struct {
	registry *prometheus.Registry

	queryTotal    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	runTotal      *prometheus.CounterVec
	runDuration   prometheus.Histogram
	runsInFlight  prometheus.Gauge
}

func NewEvaluationMetrics(service string) *EvaluationMetrics {
	registry := prometheus.NewRegistry()

	queryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podeval",
			Subsystem: "retrieval",
			Name:      "query_total",
			Help:      "Total retrieval queries by mode and status.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"mode", "status"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "podeval",
			Subsystem: "retrieval",
			Name:      "query_duration_seconds",
			Help:      "Retrieval query latency in seconds by mode.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"mode"},
	)
	runTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podeval",
			Subsystem: "run",
			Name:      "total",
			Help:      "Total evaluation runs by status.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "podeval",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "End-to-end evaluation run duration in seconds.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	runsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "podeval",
			Subsystem: "run",
			Name:      "in_flight",
			Help:      "Number of evaluation runs currently executing.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(queryTotal, queryDuration, runTotal, runDuration, runsInFlight)

	return &EvaluationMetrics{
		registry:      registry,
		queryTotal:    queryTotal,
		queryDuration: queryDuration,
		runTotal:      runTotal,
		runDuration:   runDuration,
		runsInFlight:  runsInFlight,
	}
}

func (m *EvaluationMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveQuery records one retrieval call issued during evaluation.
func (m *EvaluationMetrics) ObserveQuery(mode domain.RetrievalMode, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.queryTotal.WithLabelValues(string(mode), status).Inc()
	m.queryDuration.WithLabelValues(string(mode)).Observe(latency.Seconds())
}

func (m *EvaluationMetrics) StartRun() {
	m.runsInFlight.Inc()
}

func (m *EvaluationMetrics) FinishRun(duration time.Duration, err error) {
	m.runsInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.runTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
}
