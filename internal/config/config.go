package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/darmiel/ticketbind/internal/core"
)

// Defaults applied by Validate when the corresponding fields are unset.
const (
	DefaultAccessTokenTTL     = 1 * time.Hour
	DefaultSessionMaxLifetime = 2 * time.Hour
	DefaultSessionReapEvery   = 1 * time.Minute
	DefaultClockSkew          = 10 * time.Second
)

type Config struct {
	Server         ServerConfig          `yaml:"server"`
	OAuth          OAuthConfig           `yaml:"oauth"`
	Federation     FederationConfig      `yaml:"federation"`
	Sessions       SessionsConfig        `yaml:"sessions"`
	Registry       RegistryConfig        `yaml:"registry"`
	Authenticators []AuthenticatorConfig `yaml:"authenticators"`
	Audit          AuditConfig           `yaml:"audit"`
	Metrics        MetricsConfig         `yaml:"metrics"`
}

type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `yaml:"addr"`

	// AdminSigningKey is the HMAC key used to verify admin bearer tokens.
	AdminSigningKey string `yaml:"admin_signing_key"`
}

// OAuthConfig configures the token issuance surface.
type OAuthConfig struct {
	// AuthorizedGrantTypes is the grant-type set shared by every client
	// record. It is deliberately global: the registry has no per-client
	// grant configuration.
	AuthorizedGrantTypes []string `yaml:"authorized_grant_types"`

	// Authenticator names the configured authenticator that backs the
	// password grant.
	Authenticator string `yaml:"authenticator"`

	// AccessTokenTTL is the base lifetime of tokens that could not be
	// bound to a session.
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
}

// FederationConfig configures validation of inbound federated assertions.
type FederationConfig struct {
	// Audience this server accepts assertions for (exact match).
	Audience string `yaml:"audience"`

	// Issuer is the trusted asserting party (exact match).
	Issuer string `yaml:"issuer"`

	// ClockSkew is the symmetric tolerance applied to each temporal check.
	ClockSkew time.Duration `yaml:"clock_skew"`

	// IdentityAttribute names the released claim that becomes the
	// principal ID (e.g. "upn").
	IdentityAttribute string `yaml:"identity_attribute"`

	// AttributeRules derive or suppress principal attributes from the
	// assertion's released claims. See internal/attrs.
	AttributeRules []AttributeRule `yaml:"attribute_rules"`
}

// AttributeRule is one expression-based attribute mapping.
type AttributeRule struct {
	// Name is the attribute written to the principal.
	Name string `yaml:"name"`

	// Expr is evaluated with the assertion's attributes in scope. A nil
	// result drops the attribute.
	Expr string `yaml:"expr"`
}

type SessionsConfig struct {
	// Store selects the session index backend: "memory" or "mysql".
	Store string `yaml:"store"`

	// DSN is the MySQL data source name (mysql store only).
	DSN string `yaml:"dsn"`

	// MaxLifetime is the configured maximum session lifetime.
	MaxLifetime time.Duration `yaml:"max_lifetime"`

	// ReapInterval is how often expired sessions are removed.
	ReapInterval time.Duration `yaml:"reap_interval"`
}

type RegistryConfig struct {
	// Services is the statically configured registry content.
	Services []core.RegisteredService `yaml:"services"`

	// Source optionally syncs the registry from a remote location,
	// replacing the static content on every successful fetch.
	Source *RegistrySource `yaml:"source"`
}

type RegistrySource struct {
	// GitHub holds configuration for GitHub as a registry source.
	GitHub *GitHubSourceConfig `yaml:"github,omitempty"`

	Sync RegistrySourceSync `yaml:"sync"`
}

type RegistrySourceSync struct {
	Interval time.Duration `yaml:"interval"`
}

type GitHubSourceConfig struct {
	// Token is a GitHub access token with read access to the repository.
	Token string `yaml:"token"`

	// ServerURL is the GitHub Enterprise server URL.
	// For GitHub.com, this can be left empty.
	ServerURL string `yaml:"server"`

	// Owner of the GitHub repository.
	Owner string `yaml:"owner"`

	// Repo is the name of the GitHub repository.
	Repo string `yaml:"repo"`

	// Path is the directory path within the repository to load service
	// definitions from. For example, "services/".
	Path string `yaml:"path"`

	// Ref is the git reference to use (e.g. a branch).
	Ref string `yaml:"ref"`
}

func (c *GitHubSourceConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if c.Ref == "" {
		return fmt.Errorf("ref is required")
	}
	return nil
}

func (s *RegistrySource) Validate() error {
	switch {
	case s.GitHub != nil:
		if err := s.GitHub.Validate(); err != nil {
			return fmt.Errorf("validating GitHub registry source: %w", err)
		}
	default:
		return fmt.Errorf("no valid registry source configured")
	}
	return nil
}

// AuthenticatorConfig holds configuration for one central authenticator.
type AuthenticatorConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g. "static", "bcrypt"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g. "file", "memory"
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if len(c.OAuth.AuthorizedGrantTypes) == 0 {
		return fmt.Errorf("oauth.authorized_grant_types must not be empty")
	}
	for _, g := range c.OAuth.AuthorizedGrantTypes {
		if !core.IsKnownGrantType(g) {
			return fmt.Errorf("unknown grant type %q in oauth.authorized_grant_types", g)
		}
	}
	if c.OAuth.AccessTokenTTL <= 0 {
		c.OAuth.AccessTokenTTL = DefaultAccessTokenTTL
	}

	validAuthenticators := make(map[string]struct{})
	for idx, a := range c.Authenticators {
		if a.Name == "" {
			return fmt.Errorf("authenticator at index %d has empty name", idx)
		}
		if _, ok := validAuthenticators[a.Name]; ok {
			return fmt.Errorf("duplicate authenticator name %q", a.Name)
		}
		validAuthenticators[a.Name] = struct{}{}
	}
	if c.OAuth.Authenticator != "" {
		if _, ok := validAuthenticators[c.OAuth.Authenticator]; !ok {
			return fmt.Errorf("oauth.authenticator references unknown authenticator %q", c.OAuth.Authenticator)
		}
	} else if len(c.Authenticators) == 1 {
		c.OAuth.Authenticator = c.Authenticators[0].Name
	}

	if c.Federation.ClockSkew <= 0 {
		c.Federation.ClockSkew = DefaultClockSkew
	}
	if c.Federation.IdentityAttribute == "" {
		c.Federation.IdentityAttribute = "upn"
	}
	for idx, r := range c.Federation.AttributeRules {
		if r.Name == "" {
			return fmt.Errorf("federation.attribute_rules[%d] has empty name", idx)
		}
		if r.Expr == "" {
			return fmt.Errorf("federation.attribute_rules[%d] (%s) has empty expr", idx, r.Name)
		}
	}

	switch c.Sessions.Store {
	case "", "memory":
		c.Sessions.Store = "memory"
	case "mysql":
		if c.Sessions.DSN == "" {
			return fmt.Errorf("sessions.dsn is required for the mysql store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Sessions.Store)
	}
	if c.Sessions.MaxLifetime <= 0 {
		c.Sessions.MaxLifetime = DefaultSessionMaxLifetime
	}
	if c.Sessions.ReapInterval <= 0 {
		c.Sessions.ReapInterval = DefaultSessionReapEvery
	}

	seen := make(map[string]struct{})
	for idx, svc := range c.Registry.Services {
		if svc.Name == "" {
			return fmt.Errorf("registry.services[%d] has empty name", idx)
		}
		// duplicates are a registry-integrity problem; catch them at load
		// time for static content (a remote source can still introduce
		// them later, in which case first match wins)
		if _, ok := seen[svc.Name]; ok {
			return fmt.Errorf("duplicate service name %q in registry.services", svc.Name)
		}
		seen[svc.Name] = struct{}{}
	}

	if c.Registry.Source != nil {
		if err := c.Registry.Source.Validate(); err != nil {
			return fmt.Errorf("validating registry source: %w", err)
		}
	}

	return nil
}
