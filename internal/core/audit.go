package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "token.issue", "login.federated")
	Action string `json:"action"`

	// PrincipalID identifies who the request was about
	PrincipalID string `json:"principal_id,omitempty"`

	// ClientID is the relying party involved, if any
	ClientID string `json:"client_id,omitempty"`

	// GrantType that was requested
	GrantType string `json:"grant_type,omitempty"`

	// SessionID is the session the decision touched (created or bound to)
	SessionID string `json:"session_id,omitempty"`

	// Decision details
	Granted bool   `json:"granted"`
	Error   string `json:"error,omitempty"`

	// Metadata contains extra details
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}
