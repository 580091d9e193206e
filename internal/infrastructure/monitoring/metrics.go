package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bridge's Prometheus collectors. Each instance owns its
// registry, so several bridges can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
	WSDropped     prometheus.Counter

	// Lifecycle metrics
	TransportsRunning *prometheus.GaugeVec
	Uptime            prometheus.GaugeFunc
	startTime         time.Time
}

// NewMetrics creates a new metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runyx_http_requests_total",
				Help: "Total number of HTTP requests handled by the bridge",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runyx_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		RequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runyx_http_request_size_bytes",
				Help:    "HTTP request body size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"route"},
		),
		WSConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "runyx_ws_connections",
				Help: "Number of connected WebSocket clients",
			},
		),
		WSMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runyx_ws_messages_total",
				Help: "WebSocket frames by direction (in, out)",
			},
			[]string{"direction"},
		),
		WSDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "runyx_ws_dropped_clients_total",
				Help: "Clients dropped after a failed broadcast write",
			},
		),
		TransportsRunning: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "runyx_transports_running",
				Help: "1 when the transport is serving",
			},
			[]string{"transport"},
		),
	}
	m.Uptime = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "runyx_uptime_seconds",
			Help: "Seconds since the metrics collector was created",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestSize,
		m.WSConnections,
		m.WSMessages,
		m.WSDropped,
		m.TransportsRunning,
		m.Uptime,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one dispatched HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration, reqSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(route).Observe(float64(reqSize))
}

// ClientConnected increments the WebSocket connection gauge
func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// ClientDisconnected decrements the WebSocket connection gauge
func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}

// MessageIn counts an inbound WebSocket frame
func (m *Metrics) MessageIn() {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues("in").Inc()
}

// MessageOut counts a delivered WebSocket frame
func (m *Metrics) MessageOut() {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues("out").Inc()
}

// ClientDropped counts a client removed after a failed write
func (m *Metrics) ClientDropped() {
	if m == nil {
		return
	}
	m.WSDropped.Inc()
}

// SetTransportRunning flips the running gauge for a transport
func (m *Metrics) SetTransportRunning(transport string, running bool) {
	if m == nil {
		return
	}
	v := 0.0
	if running {
		v = 1
	}
	m.TransportsRunning.WithLabelValues(transport).Set(v)
}
