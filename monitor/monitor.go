// monitor/monitor.go
package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OnlineSessions    prometheus.Gauge
	ActiveRooms       prometheus.Gauge
	Operations        *prometheus.CounterVec
	MessagesDelivered *prometheus.CounterVec
	MessagesBounced   *prometheus.CounterVec
	GamesFinished     *prometheus.CounterVec
	OperationLatency  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		OnlineSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_sessions",
			Help:      "Number of connected websocket sessions",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of rooms listed in the room directory",
		}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations executed, by name and result",
		}, []string{"operation", "result"}),
		MessagesDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_delivered_total",
			Help:      "Cross-chain messages applied by their destination",
		}, []string{"kind"}),
		MessagesBounced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_bounced_total",
			Help:      "Cross-chain messages returned to their sender",
		}, []string{"kind"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games, by outcome",
		}, []string{"outcome"}),
		OperationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Operation processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}
}

// Monitor records metrics into its own registry. A nil *Monitor is valid and
// records nothing.
type Monitor struct {
	metrics   *Metrics
	registry  *prometheus.Registry
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	m := &Monitor{
		metrics:   NewMetrics(namespace),
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
	}
	m.registry.MustRegister(
		m.metrics.OnlineSessions,
		m.metrics.ActiveRooms,
		m.metrics.Operations,
		m.metrics.MessagesDelivered,
		m.metrics.MessagesBounced,
		m.metrics.GamesFinished,
		m.metrics.OperationLatency,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the monitor was created",
		}, func() float64 { return time.Since(m.startTime).Seconds() }),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Monitor) IncOnlineSessions() {
	if m == nil {
		return
	}
	m.metrics.OnlineSessions.Inc()
}

func (m *Monitor) DecOnlineSessions() {
	if m == nil {
		return
	}
	m.metrics.OnlineSessions.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	if m == nil {
		return
	}
	m.metrics.ActiveRooms.Set(float64(count))
}

// ObserveOperation counts one operation and its latency.
func (m *Monitor) ObserveOperation(name string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.metrics.Operations.WithLabelValues(name, result).Inc()
	m.metrics.OperationLatency.Observe(duration.Seconds())
}

func (m *Monitor) IncDelivered(kind string) {
	if m == nil {
		return
	}
	m.metrics.MessagesDelivered.WithLabelValues(kind).Inc()
}

func (m *Monitor) IncBounced(kind string) {
	if m == nil {
		return
	}
	m.metrics.MessagesBounced.WithLabelValues(kind).Inc()
}

// IncGameFinished counts a finished game; an empty winner is a draw.
func (m *Monitor) IncGameFinished(winner string) {
	if m == nil {
		return
	}
	outcome := "win"
	if winner == "" {
		outcome = "draw"
	}
	m.metrics.GamesFinished.WithLabelValues(outcome).Inc()
}
