package curation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Authenticator performs the client-credentials grant against the token
// endpoint. Authentication failures are not assumed transient, so there is no
// retry at this layer.
type Authenticator struct {
	credentials Credentials
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewAuthenticator creates an authenticator using the given credentials and
// HTTP client.
func NewAuthenticator(credentials Credentials, httpClient *http.Client, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		credentials: credentials,
		httpClient:  httpClient,
		logger:      logger.With("component", "authenticator"),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges the credentials for a bearer token and stores it on
// the session. It fails with ConfigurationError before any network call if
// either credential is missing.
func (a *Authenticator) Authenticate(ctx context.Context, session *Session) error {
	var missing []string
	if a.credentials.ClientID == "" {
		missing = append(missing, "client ID")
	}
	if a.credentials.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"scope":         {"environment_authorization"},
		"client_id":     {a.credentials.ClientID},
		"client_secret": {a.credentials.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.AuthEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &StageError{Stage: StageAuth, Message: "could not create token request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	a.logger.Debug("Requesting token.", "endpoint", session.AuthEndpoint)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &StageError{Stage: StageAuth, Message: "token request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StageError{Stage: StageAuth, Message: "could not read token response", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStageError(StageAuth, "token endpoint rejected the grant", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return newStageError(StageAuth, "could not decode token response", resp.StatusCode, body)
	}
	if tr.AccessToken == "" {
		return newStageError(StageAuth, "token response missing access_token", resp.StatusCode, body)
	}

	session.Token = tr.AccessToken
	a.logger.Info("Authentication successful.")
	return nil
}
