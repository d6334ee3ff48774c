package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/darmiel/ticketbind/internal/api"
	"github.com/darmiel/ticketbind/internal/core"
	"github.com/darmiel/ticketbind/internal/service"
)

// IssueToken requests an access token via the password grant. The
// returned token is bound to the caller's live session when one exists
// on the server.
func (c *Client) IssueToken(
	ctx context.Context,
	clientID, clientSecret, username, password string,
) (*api.TokenResponse, string, error) {
	form := url.Values{
		"grant_type":    {core.GrantPassword},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"username":      {username},
		"password":      {password},
	}

	// the token endpoint is form-encoded per RFC 6749, so the JSON
	// helpers do not apply here
	req, err := http.NewRequestWithContext(ctx, "POST", c.url().
		setPath(api.OAuthTokenRoute).
		build(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, correlationFromResponse(resp), fmt.Errorf("connection failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode >= 400 {
		return nil, correlationFromResponse(resp), parseOAuthErrorResponse(resp)
	}

	var result api.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, correlationFromResponse(resp), fmt.Errorf("decoding response: %w", err)
	}

	return &result, correlationFromResponse(resp), nil
}

// FederatedLogin submits a parsed assertion and returns the established
// session.
func (c *Client) FederatedLogin(
	ctx context.Context,
	credential core.FederatedCredential,
) (*service.FederatedLoginResponse, string, error) {
	var resp service.FederatedLoginResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.FederatedLoginRoute).
		build(), credential, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}

func parseOAuthErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d and unreadable body: %w", resp.StatusCode, err)
	}
	var oauthErr struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
		return APIError{Message: oauthErr.Error + ": " + oauthErr.ErrorDescription}
	}
	return fmt.Errorf("api error: *unparsed '%s' (status %d)", string(body), resp.StatusCode)
}
