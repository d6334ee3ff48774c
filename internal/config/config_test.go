package config

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
)

const validYAML = `
server:
  addr: ":8080"
  admin_signing_key: "test-signing-key"

oauth:
  authorized_grant_types: ["password", "refresh_token"]
  authenticator: "main"
  access_token_ttl: 30m

federation:
  audience: "urn:federation:sso"
  issuer: "http://adfs.example.com/adfs/services/trust"
  clock_skew: 2s
  identity_attribute: "upn"
  attribute_rules:
    - name: "email"
      expr: "attributes.emailaddress"

sessions:
  store: memory
  max_lifetime: 2h
  reap_interval: 30s

registry:
  services:
    - name: "wiki"
      description: "wiki-secret"
    - name: "mail"
      description: "mail-secret"

authenticators:
  - name: "main"
    type: "static"
    users:
      alice: "wonderland"
`

func loadFromString(t *testing.T, content string) (*Config, error) {
	t.Helper()
	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		t.Fatalf("parsing test yaml: %v", err)
	}
	return &cfg, cfg.Validate()
}

func TestConfigValidateOK(t *testing.T) {
	cfg, err := loadFromString(t, validYAML)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.OAuth.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.OAuth.AccessTokenTTL)
	}
	if cfg.Federation.ClockSkew != 2*time.Second {
		t.Errorf("ClockSkew = %v, want 2s", cfg.Federation.ClockSkew)
	}
	if len(cfg.Registry.Services) != 2 {
		t.Fatalf("len(Services) = %d, want 2", len(cfg.Registry.Services))
	}
	if cfg.Registry.Services[0].Name != "wiki" {
		t.Errorf("Services[0].Name = %q, want wiki", cfg.Registry.Services[0].Name)
	}
	if len(cfg.Authenticators) != 1 || cfg.Authenticators[0].Type != "static" {
		t.Errorf("unexpected authenticators: %+v", cfg.Authenticators)
	}
	if _, ok := cfg.Authenticators[0].Config["users"]; !ok {
		t.Error("inline authenticator config was not captured")
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	cfg, err := loadFromString(t, `
oauth:
  authorized_grant_types: ["password"]
authenticators:
  - name: "only"
    type: "static"
`)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default :8080", cfg.Server.Addr)
	}
	if cfg.OAuth.AccessTokenTTL != DefaultAccessTokenTTL {
		t.Errorf("AccessTokenTTL = %v, want default %v", cfg.OAuth.AccessTokenTTL, DefaultAccessTokenTTL)
	}
	if cfg.OAuth.Authenticator != "only" {
		t.Errorf("Authenticator = %q, expected the single configured one", cfg.OAuth.Authenticator)
	}
	if cfg.Sessions.Store != "memory" {
		t.Errorf("Store = %q, want default memory", cfg.Sessions.Store)
	}
	if cfg.Sessions.MaxLifetime != DefaultSessionMaxLifetime {
		t.Errorf("MaxLifetime = %v, want default %v", cfg.Sessions.MaxLifetime, DefaultSessionMaxLifetime)
	}
	if cfg.Federation.ClockSkew != DefaultClockSkew {
		t.Errorf("ClockSkew = %v, want default %v", cfg.Federation.ClockSkew, DefaultClockSkew)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no grant types",
			yaml:    `{}`,
			wantErr: "authorized_grant_types",
		},
		{
			name: "unknown grant type",
			yaml: `
oauth:
  authorized_grant_types: ["implicit"]
`,
			wantErr: "unknown grant type",
		},
		{
			name: "unknown authenticator reference",
			yaml: `
oauth:
  authorized_grant_types: ["password"]
  authenticator: "missing"
`,
			wantErr: "unknown authenticator",
		},
		{
			name: "mysql store without dsn",
			yaml: `
oauth:
  authorized_grant_types: ["password"]
sessions:
  store: mysql
`,
			wantErr: "sessions.dsn",
		},
		{
			name: "duplicate service names",
			yaml: `
oauth:
  authorized_grant_types: ["password"]
registry:
  services:
    - name: "wiki"
      description: "a"
    - name: "wiki"
      description: "b"
`,
			wantErr: "duplicate service name",
		},
		{
			name: "registry source without github",
			yaml: `
oauth:
  authorized_grant_types: ["password"]
registry:
  source:
    sync:
      interval: 1m
`,
			wantErr: "no valid registry source",
		},
		{
			name: "attribute rule without expr",
			yaml: `
oauth:
  authorized_grant_types: ["password"]
federation:
  attribute_rules:
    - name: "email"
`,
			wantErr: "empty expr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFromString(t, tt.yaml)
			if err == nil {
				t.Fatal("Validate() error = nil, expected failure")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
