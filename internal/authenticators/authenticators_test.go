package authenticators

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/darmiel/ticketbind/internal/config"
)

func TestBuildRegistry(t *testing.T) {
	registry, err := BuildRegistry([]config.AuthenticatorConfig{
		{Name: "dev", Type: "static", Config: map[string]any{}},
	})
	if err != nil {
		t.Fatalf("BuildRegistry() error = %v", err)
	}
	if _, ok := registry["dev"]; !ok {
		t.Error("registry missing authenticator 'dev'")
	}

	if _, err := BuildRegistry([]config.AuthenticatorConfig{
		{Name: "x", Type: "ldap"},
	}); err == nil {
		t.Error("BuildRegistry() with unknown type should fail")
	}
}

func TestStaticAuthenticate(t *testing.T) {
	a, err := NewStatic(config.AuthenticatorConfig{
		Name: "dev",
		Type: "static",
		Config: map[string]any{
			"users": map[string]any{
				"alice": map[string]any{
					"password": "s3cret",
					"attributes": map[string]any{
						"upn": "alice@example.org",
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewStatic() error = %v", err)
	}

	p, err := a.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if p.ID != "alice" {
		t.Errorf("ID = %q, want alice", p.ID)
	}
	if p.Attributes["upn"] != "alice@example.org" {
		t.Errorf("upn = %v, want alice@example.org", p.Attributes["upn"])
	}

	if _, err := a.Authenticate(context.Background(), "alice", "wrong"); err == nil {
		t.Error("Authenticate() with wrong password should fail")
	}
	if _, err := a.Authenticate(context.Background(), "mallory", "s3cret"); err == nil {
		t.Error("Authenticate() with unknown user should fail")
	}
}

func TestBcryptAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}

	a, err := NewBcrypt(config.AuthenticatorConfig{
		Name: "main",
		Type: "bcrypt",
		Config: map[string]any{
			"users": []map[string]any{
				{
					"username":      "bob",
					"password_hash": string(hash),
					"attributes":    map[string]any{"upn": "bob@example.org"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewBcrypt() error = %v", err)
	}

	p, err := a.Authenticate(context.Background(), "bob", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if p.ID != "bob" || p.Attributes["upn"] != "bob@example.org" {
		t.Errorf("unexpected principal: %+v", p)
	}

	if _, err := a.Authenticate(context.Background(), "bob", "hunter3"); err == nil {
		t.Error("Authenticate() with wrong password should fail")
	}
	if _, err := a.Authenticate(context.Background(), "eve", "hunter2"); err == nil {
		t.Error("Authenticate() with unknown user should fail")
	}
}

func TestBcryptConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
	}{
		{"missing username", map[string]any{
			"users": []map[string]any{{"password_hash": "x"}},
		}},
		{"missing hash", map[string]any{
			"users": []map[string]any{{"username": "bob"}},
		}},
		{"duplicate user", map[string]any{
			"users": []map[string]any{
				{"username": "bob", "password_hash": "x"},
				{"username": "bob", "password_hash": "y"},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBcrypt(config.AuthenticatorConfig{Name: "main", Type: "bcrypt", Config: tt.config}); err == nil {
				t.Error("NewBcrypt() should fail")
			}
		})
	}
}
