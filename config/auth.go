package config

import (
	"fmt"
	"os"
)

// AuthorizerConfig holds the client-credentials grant used for
// service-to-service calls to the assessment and tutor collaborators.
type AuthorizerConfig struct {
	TokenEndpoint string
	ClientID      string
	ClientSecret  string
}

func NewAuthorizerConfig() (*AuthorizerConfig, error) {
	tokenEndpoint := os.Getenv("AUTH_TOKEN_ENDPOINT")
	if tokenEndpoint == "" {
		return nil, fmt.Errorf("AUTH_TOKEN_ENDPOINT must be set")
	}
	clientID := os.Getenv("AUTH_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("AUTH_CLIENT_ID must be set")
	}
	clientSecret := os.Getenv("AUTH_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("AUTH_CLIENT_SECRET must be set")
	}
	return &AuthorizerConfig{
		TokenEndpoint: tokenEndpoint,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
	}, nil
}
