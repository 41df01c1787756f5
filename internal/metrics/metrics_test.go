package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ReviewApplied("good")
	m.ReviewApplied("good")
	m.SyncWrite("guest", ResultOK)
	m.Generation(ResultError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reviews.WithLabelValues("good")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncWrites.WithLabelValues("guest", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues(ResultError)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReviewApplied("again")
		m.SyncWrite("authenticated", ResultStale)
		m.Generation(ResultOK)
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ReviewApplied("easy")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), `vocabmaster_reviews_total{action="easy"} 1`))
}
