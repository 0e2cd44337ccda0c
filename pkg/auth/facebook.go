package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

const (
	facebookAuthURL    = "https://www.facebook.com/v18.0/dialog/oauth"
	facebookTokenURL   = "https://graph.facebook.com/v18.0/oauth/access_token"
	facebookProfileURL = "https://graph.facebook.com/v18.0/me"
)

// FacebookProvider handles Facebook OAuth authentication.
type FacebookProvider struct {
	config     OAuthConfig
	httpClient *http.Client
}

// NewFacebookProvider creates a Facebook OAuth provider.
func NewFacebookProvider(config OAuthConfig) *FacebookProvider {
	return &FacebookProvider{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *FacebookProvider) Provider() domain.Provider { return domain.ProviderFacebook }

// AuthURL generates the Facebook OAuth authorization URL.
func (p *FacebookProvider) AuthURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURI},
		"response_type": {"code"},
		"scope":         {"email,public_profile"},
		"state":         {state},
	}
	return facebookAuthURL + "?" + params.Encode()
}

type facebookTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type facebookProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FetchProfile exchanges an authorization code and fetches the user profile
// from the Graph API.
func (p *FacebookProvider) FetchProfile(ctx context.Context, code string) (*SocialProfile, error) {
	params := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURI},
	}

	var tokenResp facebookTokenResponse
	if err := p.getJSON(ctx, facebookTokenURL+"?"+params.Encode(), &tokenResp); err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	profileParams := url.Values{
		"fields":       {"id,email,first_name,last_name"},
		"access_token": {tokenResp.AccessToken},
	}

	var profile facebookProfile
	if err := p.getJSON(ctx, facebookProfileURL+"?"+profileParams.Encode(), &profile); err != nil {
		return nil, fmt.Errorf("profile fetch failed: %w", err)
	}

	return &SocialProfile{
		ExternalID: profile.ID,
		Email:      profile.Email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
	}, nil
}

func (p *FacebookProvider) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
