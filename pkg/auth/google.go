package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

const (
	googleAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL  = "https://oauth2.googleapis.com/token"
	googleIssuer    = "https://accounts.google.com"
	googleIssuerAlt = "accounts.google.com"
)

// OAuthConfig holds the client credentials for one OAuth provider.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// OAuthProvider converts an authorization code into a normalized profile.
// Implementations cover one upstream identity provider each.
type OAuthProvider interface {
	Provider() domain.Provider
	AuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (*SocialProfile, error)
}

// GoogleClaims represents the claims from a Google ID token.
type GoogleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// GoogleProvider handles Google OAuth authentication.
type GoogleProvider struct {
	config     OAuthConfig
	httpClient *http.Client
}

// NewGoogleProvider creates a Google OAuth provider.
func NewGoogleProvider(config OAuthConfig) *GoogleProvider {
	return &GoogleProvider{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *GoogleProvider) Provider() domain.Provider { return domain.ProviderGoogle }

// AuthURL generates the Google OAuth authorization URL.
func (p *GoogleProvider) AuthURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURI},
		"response_type": {"code"},
		"scope":         {"openid email profile"},
		"state":         {state},
	}
	return googleAuthURL + "?" + params.Encode()
}

// googleTokenResponse represents the response from the Google token endpoint.
type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// FetchProfile exchanges an authorization code and extracts the user profile
// from the returned ID token.
func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (*SocialProfile, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", googleTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed: %s", string(body))
	}

	var tokenResp googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, err
	}

	claims, err := p.validateIDToken(tokenResp.IDToken)
	if err != nil {
		return nil, err
	}

	return &SocialProfile{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FirstName:  claims.GivenName,
		LastName:   claims.FamilyName,
	}, nil
}

// validateIDToken validates a Google ID token and extracts claims.
// The token came straight off Google's TLS token endpoint, so issuer,
// audience and expiry checks are applied without JWKS signature
// verification.
func (p *GoogleProvider) validateIDToken(idToken string) (*GoogleClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, &GoogleClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse ID token: %w", err)
	}

	claims, ok := token.Claims.(*GoogleClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	if claims.Issuer != googleIssuer && claims.Issuer != googleIssuerAlt {
		return nil, fmt.Errorf("invalid issuer: %s", claims.Issuer)
	}

	if len(claims.Audience) == 0 || claims.Audience[0] != p.config.ClientID {
		return nil, errors.New("invalid audience")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token expired")
	}

	return claims, nil
}
