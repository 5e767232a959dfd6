package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", "/api/v1/movies", "200", 10*time.Millisecond)
	m.ObserveRequest("GET", "", "404", time.Millisecond)
	m.ObserveLookup("search", nil)
	m.ObserveLookup("search", errors.New("boom"))
	m.ObserveLookup("details", nil)
	m.ObserveToggle("saved")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/movies", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("search", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("search", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.watchlist.WithLabelValues("saved")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", "200", time.Millisecond)
		m.ObserveLookup("search", nil)
		m.ObserveToggle("saved")
	})
	assert.NotPanics(t, func() {
		New(nil).ObserveLookup("details", nil)
	})
}
