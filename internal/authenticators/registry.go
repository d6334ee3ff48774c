package authenticators

import (
	"fmt"

	"github.com/darmiel/ticketbind/internal/config"
	"github.com/darmiel/ticketbind/internal/core"
)

// BuildRegistry constructs the configured authenticators keyed by name.
func BuildRegistry(cfgs []config.AuthenticatorConfig) (map[string]core.Authenticator, error) {
	registry := make(map[string]core.Authenticator)
	for _, cfg := range cfgs {
		switch cfg.Type {
		case "static":
			a, err := NewStatic(cfg)
			if err != nil {
				return nil, fmt.Errorf("building static authenticator %q: %w", cfg.Name, err)
			}
			registry[cfg.Name] = a
		case "bcrypt":
			a, err := NewBcrypt(cfg)
			if err != nil {
				return nil, fmt.Errorf("building bcrypt authenticator %q: %w", cfg.Name, err)
			}
			registry[cfg.Name] = a
		default:
			return nil, fmt.Errorf("unknown authenticator type %q for authenticator %q", cfg.Type, cfg.Name)
		}
	}
	return registry, nil
}
