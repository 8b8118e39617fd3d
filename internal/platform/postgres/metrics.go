package postgres

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "tasks"
	metricsSubsystem = "db_pool"
)

// poolMetrics records pool lifecycle notifications. They are advisory and
// never influence checkout.
type poolMetrics struct {
	created         prometheus.Counter
	closed          prometheus.Counter
	acquireFailures prometheus.Counter
	acquireWait     prometheus.Histogram
}

func newPoolMetrics(reg prometheus.Registerer, stat func() PoolStats) (*poolMetrics, error) {
	m := &poolMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "connections_created_total",
			Help:      "Physical connections opened by the pool.",
		}),
		closed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "connections_closed_total",
			Help:      "Physical connections closed by the pool.",
		}),
		acquireFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "acquire_failures_total",
			Help:      "Acquire calls that returned no connection.",
		}),
		acquireWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "acquire_duration_seconds",
			Help:      "Time spent waiting for a pooled connection.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
	}
	if reg == nil {
		return m, nil
	}

	gauge := func(name, help string, value func(PoolStats) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(value(stat())) })
	}

	collectors := []prometheus.Collector{
		m.created,
		m.closed,
		m.acquireFailures,
		m.acquireWait,
		gauge("connections_acquired", "Connections currently checked out.",
			func(s PoolStats) int32 { return s.Acquired }),
		gauge("connections_idle", "Open connections available for checkout.",
			func(s PoolStats) int32 { return s.Idle }),
		gauge("connections_total", "All open connections.",
			func(s PoolStats) int32 { return s.Total }),
		gauge("connections_max", "Configured pool size.",
			func(s PoolStats) int32 { return s.Max }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("postgres: register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *poolMetrics) connCreated() { m.created.Inc() }

func (m *poolMetrics) connClosed() { m.closed.Inc() }

func (m *poolMetrics) observeAcquire(wait time.Duration, err error) {
	if err != nil {
		m.acquireFailures.Inc()
		return
	}
	m.acquireWait.Observe(wait.Seconds())
}
