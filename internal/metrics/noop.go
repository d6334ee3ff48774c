package metrics

import (
	"github.com/darmiel/ticketbind/internal/core"
)

// NoopRecorder is a no-op implementation for when metrics are disabled.
// All methods are safe to call and do nothing.
type NoopRecorder struct{}

// NewNoopRecorder creates a new no-op metrics recorder.
func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

// RecordCredentialValidation is a no-op.
func (n *NoopRecorder) RecordCredentialValidation(valid bool) {}

// RecordAuthentication is a no-op.
func (n *NoopRecorder) RecordAuthentication(success bool) {}

// RecordTokenIssued is a no-op.
func (n *NoopRecorder) RecordTokenIssued(bound bool) {}

// RecordSessionCreated is a no-op.
func (n *NoopRecorder) RecordSessionCreated() {}

// Ensure NoopRecorder implements core.MetricsRecorder
var _ core.MetricsRecorder = (*NoopRecorder)(nil)
