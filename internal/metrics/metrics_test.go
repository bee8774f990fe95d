package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCounters(t *testing.T) {
	m := New()

	m.ObserveSubmission("ok")
	m.ObserveSubmission("ok")
	m.ObserveSubmission("invalid")
	m.ObserveMailSend(MailFailed)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("invalid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mailSends.WithLabelValues(MailFailed)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.mailSends.WithLabelValues(MailSent)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSubmission("ok")
		m.ObserveMailSend(MailSent)
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveSubmission("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `feedback_submissions_total{outcome="ok"} 1`)
}
