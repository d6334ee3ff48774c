package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ticketbind/internal/api/presenter"
	"github.com/darmiel/ticketbind/internal/core"
	"github.com/darmiel/ticketbind/internal/service"
)

func DecodePayload(r *http.Request, dest any, allowEmpty bool) error {
	switch r.Header.Get("Content-Type") {
	case "application/json", "":
		// strict encoding for JSON
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			if !errors.Is(err, io.EOF) || !allowEmpty {
				return err
			}
		}
		// ensure there's no extra data
		if dec.More() {
			return errors.New("extra data in request body")
		}
		return nil
	default:
		return errors.New("unsupported content type")
	}
}

// TokenResponse is the RFC 6749 success body of the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// handleToken processes form-encoded token requests (RFC 6749 section
// 4.3). Client credentials are taken from HTTP Basic auth when present,
// otherwise from the form body.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	if err := r.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("failed to parse token request form")
		presenter.JSON(w, r, presenter.OAuthErrorResponse{
			Error:            service.OAuthErrInvalidRequest,
			ErrorDescription: "malformed request body",
		}, http.StatusBadRequest)
		return
	}

	req := service.IssueRequest{
		GrantType:    r.PostFormValue("grant_type"),
		ClientID:     r.PostFormValue("client_id"),
		ClientSecret: r.PostFormValue("client_secret"),
		Username:     r.PostFormValue("username"),
		Password:     r.PostFormValue("password"),
	}
	if clientID, clientSecret, ok := r.BasicAuth(); ok {
		req.ClientID = clientID
		req.ClientSecret = clientSecret
	}

	resp, err := s.tokenService.Issue(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Str("client_id", req.ClientID).Msg("token request denied")
		presenter.OAuthErr(w, r, err)
		return
	}

	logger.Info().
		Str("client_id", req.ClientID).
		Bool("session_bound", resp.SessionBound).
		Msg("token issued successfully")

	// RFC 6749 section 5.1 requires no-store on token responses
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	presenter.JSON(w, r, TokenResponse{
		AccessToken: resp.Token.Value,
		TokenType:   resp.Token.TokenType,
		ExpiresIn:   resp.Token.ExpiresIn,
	}, http.StatusOK)
}

// handleFederatedLogin accepts a parsed federated assertion and
// establishes a session for the asserted identity.
func (s *Server) handleFederatedLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var credential core.FederatedCredential
	if err := DecodePayload(r, &credential, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode federated login payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	resp, err := s.tokenService.FederatedLogin(ctx, service.FederatedLoginRequest{
		Credential: credential,
	})
	if err != nil {
		logger.Warn().Err(err).Str("assertion_id", credential.ID).Msg("federated login denied")
		presenter.Err(w, r, err, "login failed")
		return
	}

	presenter.JSON(w, r, resp, http.StatusCreated)
}
