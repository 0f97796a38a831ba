package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCountsByModeAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe("scan", 200, 10*time.Millisecond)
	m.Observe("scan", 200, 20*time.Millisecond)
	m.Observe("range", 500, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("scan", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("range", "500")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("scan", 200, time.Second) })
}
