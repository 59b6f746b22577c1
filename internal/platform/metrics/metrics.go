package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for precheck and dispatch. All methods are
// nil-safe so tests can pass a nil *Metrics without registering collectors.
type Metrics struct {
	// Precheck outcomes by delivery method
	PrecheckOutcomes *prometheus.CounterVec

	// Completed sends by channel and final recipient status
	Sends *prometheus.CounterVec

	// Sends currently holding a limiter slot
	SendsInFlight prometheus.Gauge

	// Time spent waiting for a limiter slot
	LimiterWait prometheus.Histogram

	// Postal batch triggers fired
	PostalBatchTriggers prometheus.Counter
}

// New creates a Metrics instance with all collectors registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		PrecheckOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "postportal_precheck_outcomes_total",
			Help: "Total precheck outcomes by assigned delivery method",
		}, []string{"delivery_method"}),

		Sends: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "postportal_sends_total",
			Help: "Total completed sends by channel and final recipient status",
		}, []string{"channel", "status"}),

		SendsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "postportal_sends_in_flight",
			Help: "Number of sends currently holding a concurrency slot",
		}),

		LimiterWait: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "postportal_limiter_wait_duration_seconds",
			Help:    "Time send tasks spent waiting for a concurrency slot",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		PostalBatchTriggers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "postportal_postal_batch_triggers_total",
			Help: "Total postal batch triggers fired",
		}),
	}
}

// IncrementPrecheckOutcome records one classified entry.
func (m *Metrics) IncrementPrecheckOutcome(method string) {
	if m != nil {
		m.PrecheckOutcomes.WithLabelValues(method).Inc()
	}
}

// IncrementSend records a completed send task.
func (m *Metrics) IncrementSend(channel, status string) {
	if m != nil {
		m.Sends.WithLabelValues(channel, status).Inc()
	}
}

// SendStarted and SendFinished track the in-flight gauge.
func (m *Metrics) SendStarted() {
	if m != nil {
		m.SendsInFlight.Inc()
	}
}

func (m *Metrics) SendFinished() {
	if m != nil {
		m.SendsInFlight.Dec()
	}
}

// ObserveLimiterWait records how long a task waited for its slot.
func (m *Metrics) ObserveLimiterWait(d time.Duration) {
	if m != nil {
		m.LimiterWait.Observe(d.Seconds())
	}
}

// IncrementPostalBatchTrigger records a fired batch trigger.
func (m *Metrics) IncrementPostalBatchTrigger() {
	if m != nil {
		m.PostalBatchTriggers.Inc()
	}
}
