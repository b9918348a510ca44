package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for web service calls. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
	RequestSize  *prometheus.HistogramVec
	ResponseSize *prometheus.HistogramVec
	Errors       *prometheus.CounterVec
	BreakerState *prometheus.GaugeVec

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for quick summaries
type Snapshot struct {
	TotalCalls    int64
	TotalErrors   int64
	TotalDuration time.Duration
}

// AverageDuration returns the mean call duration
func (s Snapshot) AverageDuration() time.Duration {
	if s.TotalCalls == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalCalls)
}

// NewMetrics creates collectors on a private registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// NewMetricsWith creates collectors on reg
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prestashop_calls_total",
				Help: "Total number of web service calls",
			},
			[]string{"method", "resource", "status"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prestashop_call_duration_seconds",
				Help:    "Web service call duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "resource"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prestashop_request_size_bytes",
				Help:    "Web service request body size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "resource"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prestashop_response_size_bytes",
				Help:    "Web service response body size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "resource"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prestashop_errors_total",
				Help: "Total number of failed web service calls by error kind",
			},
			[]string{"method", "resource", "kind"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "prestashop_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}
}

// RecordCall records a completed call. status is 0 when no response arrived.
func (m *Metrics) RecordCall(method, resource string, status int, duration time.Duration, reqSize, respSize int) {
	if m == nil {
		return
	}

	m.CallsTotal.WithLabelValues(method, resource, statusLabel(status)).Inc()
	m.CallDuration.WithLabelValues(method, resource).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, resource).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, resource).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalCalls++
	m.snapshot.TotalDuration += duration
	m.mu.Unlock()
}

// RecordError records a failed call by error kind
func (m *Metrics) RecordError(method, resource, kind string) {
	if m == nil {
		return
	}

	m.Errors.WithLabelValues(method, resource, kind).Inc()

	m.mu.Lock()
	m.snapshot.TotalErrors++
	m.mu.Unlock()
}

// SetBreakerState publishes a breaker state transition
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// Snapshot returns the running totals
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func statusLabel(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}
