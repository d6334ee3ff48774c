package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/darmiel/ticketbind/internal/core"
)

// PrometheusRecorder records metrics using Prometheus.
type PrometheusRecorder struct {
	credentialValidationsTotal *prometheus.CounterVec
	authenticationsTotal       *prometheus.CounterVec
	tokensIssuedTotal          *prometheus.CounterVec
	sessionsCreatedTotal       prometheus.Counter
}

// NewPrometheusRecorder creates a Prometheus recorder using the default
// Prometheus registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	return NewPrometheusRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusRecorderWithRegistry creates a Prometheus recorder with a
// custom registry. Use this for testing.
func NewPrometheusRecorderWithRegistry(reg prometheus.Registerer) *PrometheusRecorder {
	credentialValidationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketbind_credential_validations_total",
		Help: "Total federated credential validation attempts",
	}, []string{"result"})

	authenticationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketbind_authentications_total",
		Help: "Total username/password authentication attempts",
	}, []string{"result"})

	tokensIssuedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketbind_tokens_issued_total",
		Help: "Total access tokens issued",
	}, []string{"bound"})

	sessionsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ticketbind_sessions_created_total",
		Help: "Total sessions created",
	})

	reg.MustRegister(
		credentialValidationsTotal,
		authenticationsTotal,
		tokensIssuedTotal,
		sessionsCreatedTotal,
	)

	return &PrometheusRecorder{
		credentialValidationsTotal: credentialValidationsTotal,
		authenticationsTotal:       authenticationsTotal,
		tokensIssuedTotal:          tokensIssuedTotal,
		sessionsCreatedTotal:       sessionsCreatedTotal,
	}
}

// RecordCredentialValidation records a federated credential check.
func (p *PrometheusRecorder) RecordCredentialValidation(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	p.credentialValidationsTotal.WithLabelValues(result).Inc()
}

// RecordAuthentication records a username/password authentication.
func (p *PrometheusRecorder) RecordAuthentication(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	p.authenticationsTotal.WithLabelValues(result).Inc()
}

// RecordTokenIssued records an issued access token and whether its
// lifetime was bound to a session.
func (p *PrometheusRecorder) RecordTokenIssued(bound bool) {
	label := "false"
	if bound {
		label = "true"
	}
	p.tokensIssuedTotal.WithLabelValues(label).Inc()
}

// RecordSessionCreated records a new session creation.
func (p *PrometheusRecorder) RecordSessionCreated() {
	p.sessionsCreatedTotal.Inc()
}

// Ensure PrometheusRecorder implements core.MetricsRecorder
var _ core.MetricsRecorder = (*PrometheusRecorder)(nil)
