package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the simulation module.
type Metrics struct {
	// External call latencies by source
	EstimateLatency *prometheus.HistogramVec

	// Run outcomes by result code
	RunOutcome *prometheus.CounterVec

	// Runs downgraded to manual review by failing phase
	RunFailure *prometheus.CounterVec

	// Full engine run latency
	RunLatency prometheus.Histogram

	// Events that could not be published
	PublishFailures prometheus.Counter
}

// New creates a Metrics instance with all simulation metrics registered on
// the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EstimateLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fleet_simulation_estimate_duration_seconds",
			Help:    "Duration of external estimator calls by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}), // source: "value", "spec", "insurance"

		RunOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_simulation_outcomes_total",
			Help: "Total simulation runs by result code",
		}, []string{"result_code"}),

		RunFailure: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_simulation_failures_total",
			Help: "Simulation runs that hit an operational error, by phase",
		}, []string{"phase"}),

		RunLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_simulation_run_duration_seconds",
			Help:    "Duration of a full engine run including external calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "fleet_simulation_publish_failures_total",
			Help: "Simulation completed events that failed to publish",
		}),
	}
}

// ObserveEstimateLatency records the duration of an external estimator call.
func (m *Metrics) ObserveEstimateLatency(source string, d time.Duration) {
	if m != nil {
		m.EstimateLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementOutcome records a run outcome.
func (m *Metrics) IncrementOutcome(resultCode string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(resultCode).Inc()
	}
}

// IncrementFailure records a run that failed in phase.
func (m *Metrics) IncrementFailure(phase string) {
	if m != nil {
		m.RunFailure.WithLabelValues(phase).Inc()
	}
}

// ObserveRunLatency records the total run duration.
func (m *Metrics) ObserveRunLatency(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}

// IncrementPublishFailure records a failed event publish.
func (m *Metrics) IncrementPublishFailure() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}
