package client

import (
	"context"
	"fmt"

	"github.com/darmiel/ticketbind/internal/api"
	"github.com/darmiel/ticketbind/internal/core"
)

// ListSessions retrieves the active sessions, optionally filtered by owner.
func (c *Client) ListSessions(ctx context.Context, owner string) ([]core.Session, error) {
	b := c.url().setPath(api.ListSessionsRoute)
	if owner != "" {
		b.addQueryParam("owner", owner)
	}
	var resp []core.Session
	_, err := c.get(ctx, b.build(), &resp)
	return resp, err
}

// RevokeSession removes the session with the given ticket id.
func (c *Client) RevokeSession(ctx context.Context, id string) (string, error) {
	correlation, err := c.delete(ctx, c.url().
		setPath(api.AdminParent+"sessions/"+id).
		build())
	if err != nil {
		return correlation, fmt.Errorf("revoking session: %w", err)
	}
	return correlation, nil
}

// ListAudits retrieves the latest audit entries from the server, limited to the specified number.
func (c *Client) ListAudits(ctx context.Context, limit uint) ([]core.AuditEntry, error) {
	var resp []core.AuditEntry
	_, err := c.get(ctx, c.url().
		setPath(api.ListAuditsRoute).
		addQueryParam("limit", limit).
		build(), &resp)
	return resp, err
}
