package core

import "time"

// SessionKind distinguishes how a session came to exist. The token
// enhancer only ever binds to interactive logins; proxy-granted sessions
// represent service-to-service relationships and are skipped.
type SessionKind string

const (
	KindInteractiveLogin SessionKind = "interactive"
	KindProxyGranted     SessionKind = "proxy"
)

// Session is a read-only view of an active SSO session ("ticket").
// Sessions are owned by the session index; this package never mutates
// them. A session may still appear in the index after its lifetime has
// elapsed, until the reaper removes it, so presence in the index is not
// proof of liveness.
type Session struct {
	// ID is the globally unique ticket identifier (e.g. "TGT-<uuid>").
	ID string `json:"id"`

	// Owner is the identity of the principal the session was created for.
	Owner string `json:"owner"`

	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`

	// MaxLifetime is the configured maximum lifetime.
	MaxLifetime time.Duration `json:"max_lifetime"`

	// Kind tags the session type.
	Kind SessionKind `json:"kind"`
}

// ExpiresAt is the session's absolute expiry.
func (s Session) ExpiresAt() time.Time {
	return s.CreatedAt.Add(s.MaxLifetime)
}

// Remaining returns the lifetime left at now. The result is negative for
// sessions past their configured lifetime.
func (s Session) Remaining(now time.Time) time.Duration {
	return s.ExpiresAt().Sub(now)
}
