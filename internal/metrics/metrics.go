package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records query outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the query collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_query_requests_total",
			Help: "Sensor reading queries by mode and response status.",
		}, []string{"mode", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sensor_query_duration_seconds",
			Help:    "Time spent answering a sensor reading query.",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Observe records one handled request.
func (m *Metrics) Observe(mode string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(mode, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
}
