package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ticketbind/internal/core"
)

// ErrClientNotFound is returned when no registry entry's name equals the
// requested client id.
var ErrClientNotFound = errors.New("client not found")

// Directory projects the service registry into OAuth client records,
// following the convention: client_id = service name, client_secret =
// service description.
//
// The server does not have a client concept of its own, so this
// projection is the whole job. The caveat is that access cannot be
// restricted based on *which* client is used, only that an authorized
// user is providing credentials for a registered one.
type Directory struct {
	registry   core.ServiceRegistry
	grantTypes []string
}

// NewDirectory creates a Directory over the given registry. The
// authorizedGrantTypes set is shared by every record the directory
// produces; it is configuration, not per-client data.
func NewDirectory(registry core.ServiceRegistry, authorizedGrantTypes []string) *Directory {
	return &Directory{
		registry:   registry,
		grantTypes: authorizedGrantTypes,
	}
}

// Lookup re-scans the registry for a service whose name equals clientID
// and returns its client record. Nothing is cached between calls; the
// first matching entry in registry order wins (duplicate names are a
// registry-integrity issue, not handled here).
func (d *Directory) Lookup(ctx context.Context, clientID string) (*core.ClientRecord, error) {
	log.Ctx(ctx).Debug().Str("client_id", clientID).Msg("looking up client")

	services, err := d.registry.AllServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing registered services: %w", err)
	}

	for _, svc := range services {
		if svc.Name != clientID {
			continue
		}

		grants := make([]string, len(d.grantTypes))
		copy(grants, d.grantTypes)

		return &core.ClientRecord{
			ClientID:             clientID,
			ClientSecret:         svc.Description,
			AuthorizedGrantTypes: grants,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrClientNotFound, clientID)
}
