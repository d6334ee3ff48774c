package service

import (
	"time"

	"github.com/darmiel/ticketbind/internal/core"
)

// IssueRequest is a parsed form-encoded token request.
type IssueRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string

	// Username and Password back the password grant.
	Username string
	Password string
}

type IssueResponse struct {
	// Token is the issued access token. When a live session was found its
	// value is the session ticket and its lifetime mirrors the session.
	Token core.AccessToken

	// Principal is the authenticated user.
	// We return it for auditing if needed by caller
	Principal *core.Principal

	// SessionBound reports whether the token was bound to a session.
	SessionBound bool
}

// FederatedLoginRequest carries a verified, parsed assertion.
type FederatedLoginRequest struct {
	Credential core.FederatedCredential
}

type FederatedLoginResponse struct {
	// SessionID is the ticket of the newly established session.
	SessionID string `json:"session_id"`

	// ExpiresAt is the absolute session expiry.
	ExpiresAt time.Time `json:"expires_at"`

	// Principal resolved from the assertion's released attributes.
	Principal *core.Principal `json:"principal"`
}
