package audit

import (
	"time"

	"github.com/rs/xid"

	"github.com/darmiel/ticketbind/internal/core"
)

// Actions recorded by the token and login flows.
const (
	ActionTokenIssue     = "token.issue"
	ActionLoginFederated = "login.federated"
	ActionSessionRevoke  = "session.revoke"
)

// NewEntry creates an audit entry stamped with the current time. When
// correlationID is empty a fresh id is generated, so entries written
// outside a request context (reaper, sync tasks) are still traceable.
func NewEntry(correlationID, action string) core.AuditEntry {
	if correlationID == "" {
		correlationID = xid.New().String()
	}
	return core.AuditEntry{
		ID:     correlationID,
		Time:   time.Now().UTC(),
		Action: action,
	}
}
