package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ticketbind/internal/core"
)

// CredentialKind distinguishes the credential presentations a delegate
// can handle. A higher-level dispatcher may hold several delegates and
// try them in turn.
type CredentialKind string

// KindUsernamePassword is the only kind this delegate supports.
const KindUsernamePassword CredentialKind = "username-password"

// RoleSSOUser is attached to every principal that authenticates through
// the delegate. It is a fixed marker: roles are deliberately not derived
// from the upstream authenticator's authorization data.
const RoleSSOUser = "sso:user"

// ErrInvalidCredentials covers both an empty secret and any upstream
// authenticator failure. Callers must surface it uniformly so a rejection
// never reveals whether the principal exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Delegate fronts the central authenticator: it runs in the same process,
// calls the authenticator directly rather than over the wire, and does
// not create a session. It only establishes whether the user is
// authenticated.
type Delegate struct {
	authenticator core.Authenticator
}

func NewDelegate(authenticator core.Authenticator) *Delegate {
	return &Delegate{authenticator: authenticator}
}

// Authenticate handles the username/password kind and returns the
// verified principal carrying the fixed role marker.
//
// Any other kind returns (nil, nil) so a dispatcher can try other
// delegates; that is "not handled", not an error. An empty secret is
// rejected before the upstream call is made. Upstream failures are
// uniformly re-signaled as ErrInvalidCredentials carrying the upstream
// message, never as a distinct error type.
func (d *Delegate) Authenticate(ctx context.Context, kind CredentialKind, username, secret string) (*core.Principal, error) {
	if kind != KindUsernamePassword {
		return nil, nil
	}

	if secret == "" {
		return nil, ErrInvalidCredentials
	}

	verified, err := d.authenticator.Authenticate(ctx, username, secret)
	if err != nil {
		log.Ctx(ctx).Debug().
			Str("authenticator", d.authenticator.Name()).
			Err(err).
			Msg("upstream authentication failed")
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, err.Error())
	}

	return &core.Principal{
		ID:         verified.ID,
		Roles:      []string{RoleSSOUser},
		Attributes: verified.Attributes,
	}, nil
}
