package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darmiel/ticketbind/internal/core"
)

var (
	_ core.SessionIndex   = (*InMemoryIndex)(nil)
	_ core.SessionCreator = (*InMemoryIndex)(nil)
)

// InMemoryIndex owns the active sessions of a single server instance.
// Iteration returns a snapshot copy in creation order, so readers never
// observe concurrent Create/Remove calls mid-scan. Expired entries stay
// in the index until DeleteExpired removes them; readers are expected to
// recompute liveness themselves.
type InMemoryIndex struct {
	mu       sync.RWMutex
	sessions []core.Session

	// now is swapped out in tests.
	now func() time.Time
}

func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{
		sessions: make([]core.Session, 0),
		now:      time.Now,
	}
}

func (i *InMemoryIndex) AllSessions(_ context.Context) ([]core.Session, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	cpy := make([]core.Session, len(i.sessions))
	copy(cpy, i.sessions)
	return cpy, nil
}

// Create establishes a new session for owner. Ticket identifiers are
// prefixed by kind ("TGT-" for interactive logins, "PGT-" for proxy
// grants) followed by a random UUID.
func (i *InMemoryIndex) Create(_ context.Context, owner string, kind core.SessionKind, maxLifetime time.Duration) (core.Session, error) {
	if owner == "" {
		return core.Session{}, fmt.Errorf("session owner must not be empty")
	}

	prefix := "TGT"
	if kind == core.KindProxyGranted {
		prefix = "PGT"
	}

	s := core.Session{
		ID:          fmt.Sprintf("%s-%s", prefix, uuid.NewString()),
		Owner:       owner,
		CreatedAt:   i.now().UTC(),
		MaxLifetime: maxLifetime,
		Kind:        kind,
	}

	i.mu.Lock()
	i.sessions = append(i.sessions, s)
	i.mu.Unlock()

	return s, nil
}

// Remove deletes the session with the given id. Removing an unknown id
// is not an error; the session may have been reaped concurrently.
func (i *InMemoryIndex) Remove(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	kept := i.sessions[:0]
	for _, s := range i.sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	i.sessions = kept
	return nil
}

// DeleteExpired removes every session past its configured lifetime and
// returns how many were removed. The reaper task calls this on an
// interval.
func (i *InMemoryIndex) DeleteExpired(_ context.Context) (int64, error) {
	now := i.now()

	i.mu.Lock()
	defer i.mu.Unlock()

	var active []core.Session
	var deleted int64

	for _, s := range i.sessions {
		if s.ExpiresAt().After(now) {
			active = append(active, s)
		} else {
			deleted++
		}
	}

	i.sessions = active
	return deleted, nil
}
