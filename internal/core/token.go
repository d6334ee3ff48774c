package core

import "time"

// DefaultTokenType is the OAuth2 token_type reported for issued tokens.
const DefaultTokenType = "bearer"

// AccessToken is the value object handed upward to the OAuth2 layer.
type AccessToken struct {
	// Value is the bearer secret presented by the client.
	Value string `json:"access_token"`

	// TokenType is the RFC 6749 token type.
	TokenType string `json:"token_type"`

	// ExpiresAt is the absolute expiry. For session-bound tokens this may
	// lie in the past; rejecting expired tokens is the redeemer's job.
	ExpiresAt time.Time `json:"expires_at"`

	// ExpiresIn is the remaining lifetime in whole seconds, clamped at 0.
	ExpiresIn int64 `json:"expires_in"`
}

// NewSessionBoundToken builds an access token that mirrors a session's
// remaining lifetime. The bearer value is the session identifier itself,
// so revoking the session automatically invalidates the token: both trust
// domains share a single revocation point.
//
// Both expiry fields derive from the single now argument so they cannot
// skew against each other. A session already past its configured lifetime
// still yields a token (ExpiresIn clamps to 0, ExpiresAt stays in the
// past); liveness is re-checked by whoever redeems the token.
func NewSessionBoundToken(s Session, now time.Time) AccessToken {
	remaining := s.Remaining(now)

	expiresIn := int64(remaining / time.Second)
	if expiresIn < 0 {
		expiresIn = 0
	}

	return AccessToken{
		Value:     s.ID,
		TokenType: DefaultTokenType,
		ExpiresAt: now.Add(remaining),
		ExpiresIn: expiresIn,
	}
}
