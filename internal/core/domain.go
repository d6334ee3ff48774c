package core

// Principal represents the authenticated identity of the caller.
// It is produced either by the authentication delegate (username/password)
// or by the federated login flow (validated assertion).
type Principal struct {
	// ID is the unique subject identifier (e.g. username, upn claim).
	ID string `json:"id"`

	// Roles are the role markers attached by this server. Roles are never
	// derived from the upstream system's own authorization data.
	Roles []string `json:"roles,omitempty"`

	// Attributes are the claims associated with the principal.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RegisteredService is one entry of the external service registry: a
// relying party this server trusts.
type RegisteredService struct {
	// Name identifies the service. It doubles as the OAuth client_id.
	Name string `yaml:"name" json:"name"`

	// Description is free text. It doubles as the OAuth client_secret.
	Description string `yaml:"description" json:"description"`
}

// ClientRecord is the OAuth-facing projection of a registered service.
/// The server has no separate client concept: client_id is the service
// name and client_secret is the service description. The grant-type set
// is shared configuration, not per-client data.
type ClientRecord struct {
	ClientID             string   `json:"client_id"`
	ClientSecret         string   `json:"-"`
	AuthorizedGrantTypes []string `json:"authorized_grant_types"`
}

// AllowsGrantType reports whether the record's shared grant-type set
// contains grantType.
func (c *ClientRecord) AllowsGrantType(grantType string) bool {
	for _, g := range c.AuthorizedGrantTypes {
		if g == grantType {
			return true
		}
	}
	return false
}
