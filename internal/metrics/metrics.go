package metrics

import (
	"fmt"

	"github.com/VestaKK/rpcbridge/internal/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RPCMetrics is the full set of observable events across the dispatcher and
// protocol layers, satisfying both dispatcher.Metrics and protocol.Metrics
// structurally. A nil *RPCMetrics is valid: every method guards its
// receiver, so an uninitialized metrics value is always safe to pass
// through the dispatcher and protocol constructors.
type RPCMetrics struct {
	connectionsAccepted prometheus.Counter
	connectionsClosed   *prometheus.CounterVec
	queueDepth          prometheus.Gauge
	activeWorkers       prometheus.Gauge
	callsTotal          *prometheus.CounterVec
	callDuration        *prometheus.HistogramVec
}

// NewRPCMetrics builds a Prometheus-backed RPCMetrics registered against
// the package-level registry. Returns nil if InitRegistry has not been
// called, so callers can unconditionally pass the result to the dispatcher
// and protocol constructors.
func NewRPCMetrics() *RPCMetrics {
	if !IsEnabled() {
		return nil
	}
	reg := GetRegistry()

	return &RPCMetrics{
		connectionsAccepted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "rpcbridge_connections_accepted_total",
			Help: "Total number of accepted TCP connections.",
		}),
		connectionsClosed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "rpcbridge_connections_closed_total",
			Help: "Total number of closed connections by reason.",
		}, []string{"reason"}),
		queueDepth: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "rpcbridge_queue_depth",
			Help: "Current number of accepted connections waiting for a worker.",
		}),
		activeWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "rpcbridge_active_workers",
			Help: "Number of worker goroutines in the dispatcher pool.",
		}),
		callsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "rpcbridge_calls_total",
			Help: "Total number of FUNC_CALL invocations by procedure and error mask.",
		}, []string{"procedure", "error_mask"}),
		callDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rpcbridge_call_duration_milliseconds",
			Help:    "Duration of FUNC_CALL handler invocations in milliseconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
		}, []string{"procedure"}),
	}
}

// ConnectionAccepted increments the accepted-connections counter.
func (m *RPCMetrics) ConnectionAccepted() {
	if m == nil {
		return
	}
	m.connectionsAccepted.Inc()
}

// QueueDepth records the current pending-connection queue depth.
func (m *RPCMetrics) QueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

// ActiveWorkers records the worker pool size.
func (m *RPCMetrics) ActiveWorkers(n int) {
	if m == nil {
		return
	}
	m.activeWorkers.Set(float64(n))
}

// ConnectionClosed increments the closed-connections counter, labeled by
// why the connection ended ("transport", "disconnect", ...).
func (m *RPCMetrics) ConnectionClosed(reason string) {
	if m == nil {
		return
	}
	m.connectionsClosed.WithLabelValues(reason).Inc()
}

// CallCompleted records a FUNC_CALL outcome for procedure, labeled by its
// resulting error mask ("0x00" on success).
func (m *RPCMetrics) CallCompleted(procedure string, errFlags profile.ErrorFlag) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(procedure, fmt.Sprintf("0x%02x", uint8(errFlags))).Inc()
}

// CallDuration records how long a FUNC_CALL handler invocation took.
func (m *RPCMetrics) CallDuration(procedure string, ms float64) {
	if m == nil {
		return
	}
	m.callDuration.WithLabelValues(procedure).Observe(ms)
}
