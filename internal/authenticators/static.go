package authenticators

import (
	"context"
	"fmt"

	"github.com/darmiel/ticketbind/internal/config"
	"github.com/darmiel/ticketbind/internal/core"
)

var _ core.Authenticator = (*StaticAuthenticator)(nil)

// StaticAuthenticator verifies credentials against a plaintext user map
// from the configuration. Intended for development and tests only.
type StaticAuthenticator struct {
	name  string
	users map[string]staticUser
}

type staticUser struct {
	password   string
	attributes map[string]any
}

func NewStatic(cfg config.AuthenticatorConfig) (*StaticAuthenticator, error) {
	rawMap, ok := cfg.Config["users"].(map[string]any)
	if !ok {
		// no users configured, every authentication fails
		return &StaticAuthenticator{name: cfg.Name}, nil
	}

	users := make(map[string]staticUser)
	for username, entryRaw := range rawMap {
		entry, ok := entryRaw.(map[string]any)
		if !ok {
			continue
		}
		u := staticUser{
			password: fmt.Sprint(entry["password"]),
		}
		if attrsRaw, ok := entry["attributes"].(map[string]any); ok {
			u.attributes = attrsRaw
		}
		users[username] = u
	}

	return &StaticAuthenticator{
		name:  cfg.Name,
		users: users,
	}, nil
}

func (s *StaticAuthenticator) Name() string {
	return s.name
}

func (s *StaticAuthenticator) Authenticate(_ context.Context, username, password string) (*core.Principal, error) {
	u, ok := s.users[username]
	if !ok || u.password != password {
		return nil, fmt.Errorf("invalid credentials for user %q", username)
	}
	return &core.Principal{
		ID:         username,
		Attributes: u.attributes,
	}, nil
}
