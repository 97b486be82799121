package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors for AI advice generation.
type Metrics struct {
	ProviderAttemptsTotal *prometheus.CounterVec
	ProviderAttemptTime   *prometheus.HistogramVec
	AnalysisRunsTotal     *prometheus.CounterVec
	PlanRunsTotal         *prometheus.CounterVec
}

// New registers the collectors on the default registry once and returns them.
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ProviderAttemptsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "moodjournal_provider_attempts_total",
					Help: "Chat-completion attempts by mode, model and outcome",
				},
				[]string{"mode", "model", "outcome"}, // outcome: accepted, transient, invalid, fatal, skipped
			),
			ProviderAttemptTime: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "moodjournal_provider_attempt_duration_seconds",
					Help:    "Duration of a single chat-completion attempt",
					Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
				},
				[]string{"mode", "model"},
			),
			AnalysisRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "moodjournal_analysis_runs_total",
					Help: "Analyze calls by result",
				},
				[]string{"result"}, // enriched, degraded, empty
			),
			PlanRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "moodjournal_plan_runs_total",
					Help: "GeneratePlan calls by result",
				},
				[]string{"result"}, // generated, unavailable, failed
			),
		}
	})
	return globalMetrics
}

func (m *Metrics) ObserveAttempt(mode, model, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.ProviderAttemptsTotal.WithLabelValues(mode, model, outcome).Inc()
	if seconds > 0 {
		m.ProviderAttemptTime.WithLabelValues(mode, model).Observe(seconds)
	}
}

func (m *Metrics) ObserveAnalysis(result string) {
	if m == nil {
		return
	}
	m.AnalysisRunsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePlan(result string) {
	if m == nil {
		return
	}
	m.PlanRunsTotal.WithLabelValues(result).Inc()
}
