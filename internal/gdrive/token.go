package gdrive

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/insquote/quote-relay/internal/config"
)

// TokenManager exchanges the configured refresh token for short-lived
// access tokens and caches them until expiry. The reuse source serializes
// concurrent refreshes, so parallel uploads cost at most one token round
// trip.
type TokenManager struct {
	source oauth2.TokenSource
}

// NewTokenManager builds the cached token source. The background context
// scopes only the token endpoint calls; request contexts still bound the
// storage calls themselves.
func NewTokenManager(cfg config.Google) *TokenManager {
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	base := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	return &TokenManager{source: oc.TokenSource(context.Background(), base)}
}

// AccessToken returns a valid access token, refreshing the cached one only
// after it expires.
func (m *TokenManager) AccessToken() (string, error) {
	token, err := m.source.Token()
	if err != nil {
		return "", fmt.Errorf("unable to refresh access token: %w", err)
	}
	return token.AccessToken, nil
}
