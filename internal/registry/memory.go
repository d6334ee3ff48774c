package registry

import (
	"context"
	"sync"

	"github.com/darmiel/ticketbind/internal/core"
)

var _ core.ServiceRegistry = (*InMemory)(nil)

// InMemory holds the current set of registered services. Reads return a
// snapshot copy, so callers iterating the result never observe a
// concurrent Update. Update replaces the whole content atomically, which
// is how the registry sync task publishes a freshly fetched registry.
type InMemory struct {
	mu       sync.RWMutex
	services []core.RegisteredService
}

func NewInMemory(services []core.RegisteredService) *InMemory {
	r := &InMemory{}
	r.Update(services)
	return r
}

func (r *InMemory) AllServices(_ context.Context) ([]core.RegisteredService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cpy := make([]core.RegisteredService, len(r.services))
	copy(cpy, r.services)
	return cpy, nil
}

/// Update swaps the registry content. Order is preserved: lookups resolve
// duplicates by first match, so order matters to callers.
func (r *InMemory) Update(services []core.RegisteredService) {
	cpy := make([]core.RegisteredService, len(services))
	copy(cpy, services)

	r.mu.Lock()
	r.services = cpy
	r.mu.Unlock()
}

// Len returns the current number of entries.
func (r *InMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}
