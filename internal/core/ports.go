package core

import (
	"context"
	"time"
)

// ServiceRegistry enumerates the relying parties this server trusts.
// Implementations: in-memory snapshot (optionally refreshed from a remote
// source by the registry sync task).
type ServiceRegistry interface {
	// AllServices returns the current registry contents in registry order.
	AllServices(ctx context.Context) ([]RegisteredService, error)
}

// Authenticator is the central authenticator that turns a
// username/password pair into a verified principal.
// Implementations: static map, bcrypt user store.
type Authenticator interface {
	// Name returns the identifier of this authenticator (as used in config).
	Name() string

	// Authenticate verifies the pair and returns the principal, or an
	// error when verification fails.
	Authenticate(ctx context.Context, username, password string) (*Principal, error)
}

// SessionIndex exposes an iterable view of the currently active sessions.
// Iteration is snapshot-style: implementations must tolerate concurrent
// insertion and removal by the owning subsystem without ever exposing a
// partially mutated view. Entries past their lifetime may still appear
// until reaped.
type SessionIndex interface {
	// AllSessions returns the active sessions in the index's natural order.
	AllSessions(ctx context.Context) ([]Session, error)
}

// SessionCreator is the writable face of a session index, used by the
// federated login flow to establish new sessions.
type SessionCreator interface {
	// Create establishes a new session for owner and returns it.
	Create(ctx context.Context, owner string, kind SessionKind, maxLifetime time.Duration) (Session, error)
}

// TokenEnhancer rewrites an access token after base issuance. Enhancement
/// is best-effort: when nothing can be bound, the template comes back
// unchanged with a nil error.
type TokenEnhancer interface {
	Enhance(ctx context.Context, token AccessToken, principalName string) (AccessToken, error)
}

// MetricsRecorder records operational counters. Implementations are
// adapters (Prometheus for production, noop for disabled/testing).
type MetricsRecorder interface {
	// RecordCredentialValidation records a federated credential check.
	RecordCredentialValidation(valid bool)

	// RecordAuthentication records a username/password authentication.
	RecordAuthentication(success bool)

	// RecordTokenIssued records an issued access token and whether it was
	// bound to a session.
	RecordTokenIssued(bound bool)

	// RecordSessionCreated records a new session creation.
	RecordSessionCreated()
}
