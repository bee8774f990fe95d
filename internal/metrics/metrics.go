// Package metrics exposes Prometheus counters for the feedback pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mail delivery results.
const (
	MailSent   = "sent"
	MailFailed = "failed"
)

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	mailSends   *prometheus.CounterVec
}

// New registers the feedback counters and the runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Total number of feedback submissions by pipeline outcome",
		}, []string{"outcome"}),
		mailSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_mail_send_total",
			Help: "Total number of feedback mail delivery attempts by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.submissions,
		m.mailSends,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSubmission counts one pipeline outcome.
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObserveMailSend counts one delivery attempt.
func (m *Metrics) ObserveMailSend(result string) {
	if m == nil {
		return
	}
	m.mailSends.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
