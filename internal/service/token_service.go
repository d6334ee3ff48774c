package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/ticketbind/internal/attrs"
	"github.com/darmiel/ticketbind/internal/audit"
	"github.com/darmiel/ticketbind/internal/authn"
	"github.com/darmiel/ticketbind/internal/clients"
	"github.com/darmiel/ticketbind/internal/core"
)

// FederationPolicy is the trust anchor for inbound assertions.
type FederationPolicy struct {
	Audience          string
	Issuer            string
	ClockSkew         time.Duration
	IdentityAttribute string
}

// TokenService drives the two trust-binding flows: issuing access tokens
// for registered services and establishing sessions from federated
// assertions.
type TokenService struct {
	directory *clients.Directory
	delegate  *authn.Delegate
	enhancer  core.TokenEnhancer
	sessions  core.SessionCreator
	mutator   *attrs.Mutator
	auditor   core.Auditor
	metrics   core.MetricsRecorder

	federation         FederationPolicy
	accessTokenTTL     time.Duration
	sessionMaxLifetime time.Duration

	// now is swapped out in tests.
	now func() time.Time
}

func NewTokenService(
	directory *clients.Directory,
	delegate *authn.Delegate,
	enhancer core.TokenEnhancer,
	sessions core.SessionCreator,
	mutator *attrs.Mutator,
	auditor core.Auditor,
	metrics core.MetricsRecorder,
	federation FederationPolicy,
	accessTokenTTL time.Duration,
	sessionMaxLifetime time.Duration,
) *TokenService {
	return &TokenService{
		directory:          directory,
		delegate:           delegate,
		enhancer:           enhancer,
		sessions:           sessions,
		mutator:            mutator,
		auditor:            auditor,
		metrics:            metrics,
		federation:         federation,
		accessTokenTTL:     accessTokenTTL,
		sessionMaxLifetime: sessionMaxLifetime,
		now:                time.Now,
	}
}

// Issue handles a token request. The client is authenticated against the
// registry projection, the resource owner against the configured
// authenticator, and the resulting token is bound to the caller's live
// session when one exists.
func (s *TokenService) Issue(ctx context.Context, req IssueRequest) (*IssueResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := audit.NewEntry(reqID, audit.ActionTokenIssue)
	auditEntry.ClientID = req.ClientID
	auditEntry.GrantType = req.GrantType
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token issuance")
		}
	}()

	client, err := s.directory.Lookup(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, clients.ErrClientNotFound) {
			auditEntry.Error = "client not found"
			return nil, oauthError(http.StatusUnauthorized, OAuthErrInvalidClient, "client authentication failed")
		}
		auditEntry.Error = "registry lookup failed: " + err.Error()
		return nil, oauthError(http.StatusInternalServerError, OAuthErrServerError, "registry lookup failed")
	}

	if subtle.ConstantTimeCompare([]byte(client.ClientSecret), []byte(req.ClientSecret)) != 1 {
		auditEntry.Error = "client secret mismatch"
		return nil, oauthError(http.StatusUnauthorized, OAuthErrInvalidClient, "client authentication failed")
	}

	if !core.IsKnownGrantType(req.GrantType) {
		auditEntry.Error = "unknown grant type"
		return nil, oauthError(http.StatusBadRequest, OAuthErrUnsupportedGrantType,
			fmt.Sprintf("grant type %q is not supported", req.GrantType))
	}
	if !client.AllowsGrantType(req.GrantType) {
		auditEntry.Error = "grant type not authorized"
		return nil, oauthError(http.StatusBadRequest, OAuthErrUnauthorizedClient,
			fmt.Sprintf("client is not authorized for grant type %q", req.GrantType))
	}
	if req.GrantType != core.GrantPassword {
		auditEntry.Error = "grant type not implemented"
		return nil, oauthError(http.StatusBadRequest, OAuthErrUnsupportedGrantType,
			fmt.Sprintf("grant type %q is not implemented by this endpoint", req.GrantType))
	}

	principal, err := s.delegate.Authenticate(ctx, authn.KindUsernamePassword, req.Username, req.Password)
	if err != nil {
		s.metrics.RecordAuthentication(false)
		auditEntry.Error = "authentication failed"
		return nil, oauthError(http.StatusUnauthorized, OAuthErrInvalidGrant, "resource owner authentication failed")
	}
	s.metrics.RecordAuthentication(true)
	auditEntry.PrincipalID = principal.ID

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("sub", principal.ID)
	})

	base, err := s.baseToken()
	if err != nil {
		auditEntry.Error = "token generation failed: " + err.Error()
		return nil, oauthError(http.StatusInternalServerError, OAuthErrServerError, "token generation failed")
	}

	token, err := s.enhancer.Enhance(ctx, base, principal.ID)
	if err != nil {
		// enhancement is best-effort: fall back to the unbound base token
		logger.Warn().Err(err).Msg("token enhancement failed, issuing unbound token")
		token = base
	}
	bound := token.Value != base.Value

	s.metrics.RecordTokenIssued(bound)
	auditEntry.Granted = true
	if bound {
		auditEntry.SessionID = token.Value
	}

	return &IssueResponse{
		Token:        token,
		Principal:    principal,
		SessionBound: bound,
	}, nil
}

// FederatedLogin validates an inbound assertion and establishes a new
// interactive session for the asserted identity.
func (s *TokenService) FederatedLogin(ctx context.Context, req FederatedLoginRequest) (*FederatedLoginResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := audit.NewEntry(reqID, audit.ActionLoginFederated)
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for federated login")
		}
	}()

	cred := req.Credential
	if cred.RetrievedOn.IsZero() {
		cred.RetrievedOn = s.now()
	}

	valid := cred.Valid(s.federation.Audience, s.federation.Issuer, s.federation.ClockSkew)
	s.metrics.RecordCredentialValidation(valid)
	if !valid {
		auditEntry.Error = "assertion rejected"
		auditEntry.Metadata = map[string]any{
			"assertion_id": cred.ID,
			"issuer":       cred.Issuer,
			"audience":     cred.Audience,
		}
		return nil, httpError(http.StatusUnauthorized, fmt.Errorf("assertion rejected"))
	}

	released := cred.Attributes
	if s.mutator != nil {
		released = s.mutator.Apply(released)
	}

	identity, ok := released[s.federation.IdentityAttribute].(string)
	if !ok || identity == "" {
		auditEntry.Error = fmt.Sprintf("identity attribute %q missing", s.federation.IdentityAttribute)
		return nil, httpError(http.StatusUnauthorized,
			fmt.Errorf("assertion carries no usable %q attribute", s.federation.IdentityAttribute))
	}
	auditEntry.PrincipalID = identity

	session, err := s.sessions.Create(ctx, identity, core.KindInteractiveLogin, s.sessionMaxLifetime)
	if err != nil {
		auditEntry.Error = "session creation failed: " + err.Error()
		return nil, httpError(http.StatusInternalServerError, fmt.Errorf("establishing session: %w", err))
	}
	s.metrics.RecordSessionCreated()

	auditEntry.Granted = true
	auditEntry.SessionID = session.ID

	logger.Info().
		Str("sub", identity).
		Str("session_id", session.ID).
		Msg("federated login established session")

	return &FederatedLoginResponse{
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt(),
		Principal: &core.Principal{
			ID:         identity,
			Roles:      []string{authn.RoleSSOUser},
			Attributes: released,
		},
	}, nil
}

// baseToken builds the unbound token template handed to the enhancer.
func (s *TokenService) baseToken() (core.AccessToken, error) {
	value, err := GenerateRandomString(32)
	if err != nil {
		return core.AccessToken{}, fmt.Errorf("crypto error: %w", err)
	}
	now := s.now()
	return core.AccessToken{
		Value:     value,
		TokenType: core.DefaultTokenType,
		ExpiresAt: now.Add(s.accessTokenTTL),
		ExpiresIn: int64(s.accessTokenTTL / time.Second),
	}, nil
}

func GenerateRandomString(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
