package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopRecorderAllMethods(t *testing.T) {
	r := NewNoopRecorder()

	// none of these should panic
	r.RecordCredentialValidation(true)
	r.RecordCredentialValidation(false)
	r.RecordAuthentication(true)
	r.RecordAuthentication(false)
	r.RecordTokenIssued(true)
	r.RecordTokenIssued(false)
	r.RecordSessionCreated()
}

func TestPrometheusRecorderCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	r := NewPrometheusRecorderWithRegistry(registry)

	r.RecordCredentialValidation(true)
	r.RecordCredentialValidation(true)
	r.RecordCredentialValidation(false)

	r.RecordAuthentication(true)
	r.RecordAuthentication(false)

	r.RecordTokenIssued(true)
	r.RecordTokenIssued(false)
	r.RecordTokenIssued(false)

	r.RecordSessionCreated()
	r.RecordSessionCreated()

	if got := testutil.ToFloat64(r.credentialValidationsTotal.WithLabelValues("valid")); got != 2 {
		t.Errorf("valid credential validations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.credentialValidationsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("invalid credential validations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.authenticationsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("successful authentications = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.tokensIssuedTotal.WithLabelValues("false")); got != 2 {
		t.Errorf("unbound tokens issued = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.tokensIssuedTotal.WithLabelValues("true")); got != 1 {
		t.Errorf("bound tokens issued = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.sessionsCreatedTotal); got != 2 {
		t.Errorf("sessions created = %v, want 2", got)
	}
}
