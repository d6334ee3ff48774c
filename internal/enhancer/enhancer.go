package enhancer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ticketbind/internal/core"
)

// TicketBound rewrites issued access tokens so they mirror the caller's
// live SSO session: the token value becomes the session identifier and
// the expiry tracks the session's remaining lifetime. Reusing the ticket
// as bearer secret gives the OAuth token and the interactive session a
// single revocation point.
type TicketBound struct {
	index core.SessionIndex

	// now is swapped out in tests.
	now func() time.Time
}

var _ core.TokenEnhancer = (*TicketBound)(nil)

func NewTicketBound(index core.SessionIndex) *TicketBound {
	return &TicketBound{
		index: index,
		now:   time.Now,
	}
}

// Enhance scans the session index in its natural order and binds the
// token to the first interactive session owned by principalName. Proxy
// sessions never match. When multiple sessions exist for the same
// principal, whichever the index enumerates first wins; there is no
// further tie-break.
//
// A session already past its configured lifetime still binds (ExpiresIn
// clamps to zero) since liveness is re-checked by the token redeemer.
// When no session matches, the template comes back unchanged: binding is
// an enhancement, not a requirement for issuance to succeed.
func (e *TicketBound) Enhance(ctx context.Context, token core.AccessToken, principalName string) (core.AccessToken, error) {
	sessions, err := e.index.AllSessions(ctx)
	if err != nil {
		return token, fmt.Errorf("listing active sessions: %w", err)
	}

	logger := log.Ctx(ctx)
	logger.Debug().Int("sessions", len(sessions)).Msg("scanning session index")

	for _, s := range sessions {
		if s.Kind != core.KindInteractiveLogin {
			continue
		}
		if s.Owner != principalName {
			continue
		}

		logger.Debug().
			Str("session_id", s.ID).
			Str("owner", s.Owner).
			Msg("binding token to session")

		return core.NewSessionBoundToken(s, e.now()), nil
	}

	logger.Debug().
		Str("principal", principalName).
		Msg("no interactive session found, returning token unchanged")

	return token, nil
}
