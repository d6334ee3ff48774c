package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/darmiel/ticketbind/internal/audit"
	"github.com/darmiel/ticketbind/internal/authn"
	"github.com/darmiel/ticketbind/internal/clients"
	"github.com/darmiel/ticketbind/internal/core"
	"github.com/darmiel/ticketbind/internal/metrics"
)

type staticRegistry struct {
	services []core.RegisteredService
}

func (s *staticRegistry) AllServices(_ context.Context) ([]core.RegisteredService, error) {
	return s.services, nil
}

type fakeAuthenticator struct {
	username string
	password string
}

func (f *fakeAuthenticator) Name() string { return "fake" }

func (f *fakeAuthenticator) Authenticate(_ context.Context, username, password string) (*core.Principal, error) {
	if username != f.username || password != f.password {
		return nil, errors.New("bad credentials")
	}
	return &core.Principal{ID: username}, nil
}

type fakeIndex struct {
	sessions []core.Session
	err      error
}

func (f *fakeIndex) AllSessions(_ context.Context) ([]core.Session, error) {
	return f.sessions, f.err
}

type fakeCreator struct {
	created []core.Session
	err     error
}

func (f *fakeCreator) Create(_ context.Context, owner string, kind core.SessionKind, maxLifetime time.Duration) (core.Session, error) {
	if f.err != nil {
		return core.Session{}, f.err
	}
	s := core.Session{
		ID:          "TGT-test",
		Owner:       owner,
		CreatedAt:   time.Date(2024, 2, 26, 22, 0, 0, 0, time.UTC),
		MaxLifetime: maxLifetime,
		Kind:        kind,
	}
	f.created = append(f.created, s)
	return s, nil
}

type enhancerFunc func(ctx context.Context, token core.AccessToken, principalName string) (core.AccessToken, error)

func (f enhancerFunc) Enhance(ctx context.Context, token core.AccessToken, principalName string) (core.AccessToken, error) {
	return f(ctx, token, principalName)
}

func passthroughEnhancer() core.TokenEnhancer {
	return enhancerFunc(func(_ context.Context, token core.AccessToken, _ string) (core.AccessToken, error) {
		return token, nil
	})
}

func newTestService(t *testing.T, enhancer core.TokenEnhancer, creator core.SessionCreator) *TokenService {
	t.Helper()

	registry := &staticRegistry{services: []core.RegisteredService{
		{Name: "wiki", Description: "wiki-secret"},
	}}
	directory := clients.NewDirectory(registry, []string{core.GrantPassword, core.GrantRefreshToken})
	delegate := authn.NewDelegate(&fakeAuthenticator{username: "alice", password: "s3cret"})

	if enhancer == nil {
		enhancer = passthroughEnhancer()
	}
	if creator == nil {
		creator = &fakeCreator{}
	}

	svc := NewTokenService(
		directory,
		delegate,
		enhancer,
		creator,
		nil,
		audit.NewInMemoryAuditor(),
		metrics.NewNoopRecorder(),
		FederationPolicy{
			Audience:          "urn:federation:app",
			Issuer:            "https://adfs.example.org/adfs/services/trust",
			ClockSkew:         2 * time.Second,
			IdentityAttribute: "upn",
		},
		time.Hour,
		2*time.Hour,
	)
	svc.now = func() time.Time { return time.Date(2024, 2, 26, 22, 51, 16, 0, time.UTC) }
	return svc
}

func oauthCode(t *testing.T, err error) (string, int) {
	t.Helper()
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error %v is not an HTTPError", err)
	}
	var oauthErr OAuthError
	if !errors.As(err, &oauthErr) {
		t.Fatalf("error %v carries no OAuthError", err)
	}
	return oauthErr.Code, httpErr.StatusCode
}

func TestIssueUnboundToken(t *testing.T) {
	svc := newTestService(t, nil, nil)

	resp, err := svc.Issue(context.Background(), IssueRequest{
		GrantType:    core.GrantPassword,
		ClientID:     "wiki",
		ClientSecret: "wiki-secret",
		Username:     "alice",
		Password:     "s3cret",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if resp.SessionBound {
		t.Error("SessionBound = true without a session")
	}
	if resp.Token.Value == "" {
		t.Error("token value is empty")
	}
	if resp.Token.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600 from the configured TTL", resp.Token.ExpiresIn)
	}
	if resp.Principal.ID != "alice" {
		t.Errorf("principal = %q, want alice", resp.Principal.ID)
	}
}

func TestIssueSessionBoundToken(t *testing.T) {
	bound := core.AccessToken{
		Value:     "TGT-1",
		TokenType: core.DefaultTokenType,
		ExpiresIn: 1800,
	}
	svc := newTestService(t, enhancerFunc(func(_ context.Context, _ core.AccessToken, principal string) (core.AccessToken, error) {
		if principal != "alice" {
			t.Errorf("enhancer called with principal %q, want alice", principal)
		}
		return bound, nil
	}), nil)

	resp, err := svc.Issue(context.Background(), IssueRequest{
		GrantType:    core.GrantPassword,
		ClientID:     "wiki",
		ClientSecret: "wiki-secret",
		Username:     "alice",
		Password:     "s3cret",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !resp.SessionBound {
		t.Error("SessionBound = false for an enhanced token")
	}
	if resp.Token.Value != "TGT-1" {
		t.Errorf("token value = %q, want the session ticket TGT-1", resp.Token.Value)
	}
}

func TestIssueEnhancerFailureFallsBack(t *testing.T) {
	svc := newTestService(t, enhancerFunc(func(_ context.Context, token core.AccessToken, _ string) (core.AccessToken, error) {
		return token, errors.New("index unavailable")
	}), nil)

	resp, err := svc.Issue(context.Background(), IssueRequest{
		GrantType:    core.GrantPassword,
		ClientID:     "wiki",
		ClientSecret: "wiki-secret",
		Username:     "alice",
		Password:     "s3cret",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v, issuance must survive enhancer failures", err)
	}
	if resp.SessionBound {
		t.Error("SessionBound = true after enhancer failure")
	}
}

func TestIssueErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        IssueRequest
		wantCode   string
		wantStatus int
	}{
		{
			name: "unknown client",
			req: IssueRequest{
				GrantType: core.GrantPassword, ClientID: "nope", ClientSecret: "x",
				Username: "alice", Password: "s3cret",
			},
			wantCode:   OAuthErrInvalidClient,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong client secret",
			req: IssueRequest{
				GrantType: core.GrantPassword, ClientID: "wiki", ClientSecret: "wrong",
				Username: "alice", Password: "s3cret",
			},
			wantCode:   OAuthErrInvalidClient,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown grant type",
			req: IssueRequest{
				GrantType: "device_code", ClientID: "wiki", ClientSecret: "wiki-secret",
				Username: "alice", Password: "s3cret",
			},
			wantCode:   OAuthErrUnsupportedGrantType,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "known but unauthorized grant type",
			req: IssueRequest{
				GrantType: core.GrantClientCredentials, ClientID: "wiki", ClientSecret: "wiki-secret",
			},
			wantCode:   OAuthErrUnauthorizedClient,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "authorized but not implemented grant type",
			req: IssueRequest{
				GrantType: core.GrantRefreshToken, ClientID: "wiki", ClientSecret: "wiki-secret",
			},
			wantCode:   OAuthErrUnsupportedGrantType,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "bad user credentials",
			req: IssueRequest{
				GrantType: core.GrantPassword, ClientID: "wiki", ClientSecret: "wiki-secret",
				Username: "alice", Password: "wrong",
			},
			wantCode:   OAuthErrInvalidGrant,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "empty password rejected before upstream",
			req: IssueRequest{
				GrantType: core.GrantPassword, ClientID: "wiki", ClientSecret: "wiki-secret",
				Username: "alice", Password: "",
			},
			wantCode:   OAuthErrInvalidGrant,
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil, nil)
			_, err := svc.Issue(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Issue() should fail")
			}
			code, status := oauthCode(t, err)
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
		})
	}
}

func validCredential(now time.Time) core.FederatedCredential {
	return core.FederatedCredential{
		ID:           "_assertion-1",
		Issuer:       "https://adfs.example.org/adfs/services/trust",
		Audience:     "urn:federation:app",
		NotBefore:    now.Add(-time.Minute),
		NotOnOrAfter: now.Add(time.Minute),
		IssuedOn:     now,
		RetrievedOn:  now,
		Attributes: map[string]any{
			"upn": "alice@example.org",
		},
	}
}

func TestFederatedLoginCreatesSession(t *testing.T) {
	creator := &fakeCreator{}
	svc := newTestService(t, nil, creator)
	now := time.Date(2024, 2, 26, 22, 51, 16, 0, time.UTC)

	resp, err := svc.FederatedLogin(context.Background(), FederatedLoginRequest{
		Credential: validCredential(now),
	})
	if err != nil {
		t.Fatalf("FederatedLogin() error = %v", err)
	}
	if resp.SessionID != "TGT-test" {
		t.Errorf("SessionID = %q, want TGT-test", resp.SessionID)
	}
	if resp.Principal.ID != "alice@example.org" {
		t.Errorf("principal = %q, want alice@example.org", resp.Principal.ID)
	}
	if len(creator.created) != 1 {
		t.Fatalf("created %d sessions, want 1", len(creator.created))
	}
	created := creator.created[0]
	if created.Kind != core.KindInteractiveLogin {
		t.Errorf("session kind = %q, want %q", created.Kind, core.KindInteractiveLogin)
	}
	if created.Owner != "alice@example.org" {
		t.Errorf("session owner = %q", created.Owner)
	}
	if created.MaxLifetime != 2*time.Hour {
		t.Errorf("session lifetime = %v, want 2h", created.MaxLifetime)
	}
}

func TestFederatedLoginRejectsInvalidAssertion(t *testing.T) {
	creator := &fakeCreator{}
	svc := newTestService(t, nil, creator)
	now := time.Date(2024, 2, 26, 22, 51, 16, 0, time.UTC)

	cred := validCredential(now)
	cred.Audience = "urn:federation:other"

	_, err := svc.FederatedLogin(context.Background(), FederatedLoginRequest{Credential: cred})
	if err == nil {
		t.Fatal("FederatedLogin() should reject a wrong audience")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401 HTTPError", err)
	}
	if len(creator.created) != 0 {
		t.Error("no session must be created for a rejected assertion")
	}
}

func TestFederatedLoginRequiresIdentityAttribute(t *testing.T) {
	svc := newTestService(t, nil, nil)
	now := time.Date(2024, 2, 26, 22, 51, 16, 0, time.UTC)

	cred := validCredential(now)
	delete(cred.Attributes, "upn")

	_, err := svc.FederatedLogin(context.Background(), FederatedLoginRequest{Credential: cred})
	if err == nil {
		t.Fatal("FederatedLogin() should fail without the identity attribute")
	}
}

func TestFederatedLoginDefaultsRetrievedOn(t *testing.T) {
	svc := newTestService(t, nil, nil)
	now := time.Date(2024, 2, 26, 22, 51, 16, 0, time.UTC)

	cred := validCredential(now)
	cred.RetrievedOn = time.Time{}

	// svc.now matches the window, so defaulting must make this valid
	if _, err := svc.FederatedLogin(context.Background(), FederatedLoginRequest{Credential: cred}); err != nil {
		t.Fatalf("FederatedLogin() error = %v", err)
	}
}
