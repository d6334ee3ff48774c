package authenticators

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/crypto/bcrypt"

	"github.com/darmiel/ticketbind/internal/config"
	"github.com/darmiel/ticketbind/internal/core"
)

var _ core.Authenticator = (*BcryptAuthenticator)(nil)

// BcryptAuthenticator verifies credentials against a user list carrying
// bcrypt password hashes.
type BcryptAuthenticator struct {
	name  string
	users map[string]bcryptUser
}

type bcryptConfig struct {
	Users []bcryptUser `mapstructure:"users"`
}

type bcryptUser struct {
	Username     string         `mapstructure:"username"`
	PasswordHash string         `mapstructure:"password_hash"`
	Attributes   map[string]any `mapstructure:"attributes"`
}

func NewBcrypt(cfg config.AuthenticatorConfig) (*BcryptAuthenticator, error) {
	var bc bcryptConfig
	if err := mapstructure.Decode(cfg.Config, &bc); err != nil {
		return nil, fmt.Errorf("decoding bcrypt authenticator config: %w", err)
	}

	users := make(map[string]bcryptUser, len(bc.Users))
	for _, u := range bc.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("bcrypt authenticator has a user with empty username")
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("user %q has no password_hash", u.Username)
		}
		if _, ok := users[u.Username]; ok {
			return nil, fmt.Errorf("duplicate user %q", u.Username)
		}
		users[u.Username] = u
	}

	return &BcryptAuthenticator{
		name:  cfg.Name,
		users: users,
	}, nil
}

func (b *BcryptAuthenticator) Name() string {
	return b.name
}

func (b *BcryptAuthenticator) Authenticate(_ context.Context, username, password string) (*core.Principal, error) {
	u, ok := b.users[username]
	if !ok {
		// burn a comparison so unknown users cost the same as bad passwords
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
		return nil, fmt.Errorf("invalid credentials for user %q", username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials for user %q", username)
	}
	return &core.Principal{
		ID:         username,
		Attributes: u.Attributes,
	}, nil
}
