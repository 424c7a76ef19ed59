package secondme

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/chat"
	"zhipin-server/internal/domain/talent"
)

const refreshTokenPath = "/api/oauth/token/refresh"

// refreshLeeway renews tokens this long before their recorded expiry so a
// token never expires mid-interview.
const refreshLeeway = 5 * time.Minute

// CredentialProvider resolves a user's SecondMe access token, refreshing it
// through the OAuth endpoint when it is about to expire. Implements
// chat.CredentialProvider.
type CredentialProvider struct {
	users        talent.UserRepository
	httpClient   *resty.Client
	clientID     string
	clientSecret string
	log          zerolog.Logger
	now          func() time.Time
}

// NewCredentialProvider creates the provider against the SecondMe OAuth API.
func NewCredentialProvider(baseURL, clientID, clientSecret string, users talent.UserRepository, log zerolog.Logger) *CredentialProvider {
	return &CredentialProvider{
		users: users,
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          log.With().Str("component", "secondme-credentials").Logger(),
		now:          time.Now,
	}
}

type tokenEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int64  `json:"expiresIn"`
	} `json:"data"`
}

// ValidCredential returns a usable access token for the user, refreshing and
// persisting new tokens when the stored one is within the renewal window.
func (p *CredentialProvider) ValidCredential(ctx context.Context, userID string) (string, error) {
	user, err := p.users.FindByPublicID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("lookup user %s: %w", userID, err)
	}
	if user.AccessToken == "" {
		return "", fmt.Errorf("user %s has no access token", userID)
	}

	if p.now().Before(user.TokenExpiresAt.Add(-refreshLeeway)) {
		return user.AccessToken, nil
	}
	return p.refresh(ctx, user)
}

func (p *CredentialProvider) refresh(ctx context.Context, user *talent.User) (string, error) {
	if user.RefreshToken == "" {
		return "", fmt.Errorf("user %s has no refresh token", user.PublicID)
	}

	var envelope tokenEnvelope
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": user.RefreshToken,
			"client_id":     p.clientID,
			"client_secret": p.clientSecret,
		}).
		SetResult(&envelope).
		Post(refreshTokenPath)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("refresh token: http %d", resp.StatusCode())
	}
	if envelope.Code != 0 || envelope.Data == nil {
		return "", fmt.Errorf("refresh token: provider code %d: %s", envelope.Code, envelope.Message)
	}

	expiresAt := p.now().Add(time.Duration(envelope.Data.ExpiresIn) * time.Second)
	if err := p.users.UpdateTokens(ctx, user.PublicID, envelope.Data.AccessToken, envelope.Data.RefreshToken, expiresAt.Unix()); err != nil {
		return "", fmt.Errorf("persist refreshed tokens: %w", err)
	}

	p.log.Info().Str("user_id", user.PublicID).Msg("access token refreshed")
	return envelope.Data.AccessToken, nil
}

// Ensure interface compliance.
var _ chat.CredentialProvider = (*CredentialProvider)(nil)
