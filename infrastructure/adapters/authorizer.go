package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
)

// Authorizer obtains a bearer token for service-to-service calls.
type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type clientCredentialsAuthorizer struct {
	logger outbound.LoggerPort
	conf   *config.AuthorizerConfig
	client *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewClientCredentialsAuthorizer performs the OAuth2 client-credentials
// grant against the platform token endpoint. Tokens are cached until
// shortly before expiry.
func NewClientCredentialsAuthorizer(logger outbound.LoggerPort, conf *config.AuthorizerConfig) Authorizer {
	return &clientCredentialsAuthorizer{
		logger: logger,
		conf:   conf,
		client: &http.Client{},
	}
}

func (a *clientCredentialsAuthorizer) Authorize(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != "" && time.Now().Before(a.expires) {
		return a.token, nil
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(a.conf.ClientID + ":" + a.conf.ClientSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.conf.TokenEndpoint,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		a.logger.Error(err, "Failed to create the token request")
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error(err, "Failed to send the token request")
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.Error(err, "Failed to close the token response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error(err, "Failed to read the token response body")
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResponse TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		a.logger.Error(err, "Failed to unmarshal the token response")
		return "", err
	}

	a.token = tokenResponse.AccessToken
	a.expires = time.Now().Add(time.Duration(tokenResponse.ExpiresIn)*time.Second - 30*time.Second)
	return a.token, nil
}
