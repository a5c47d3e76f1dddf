package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	googleOAuth2 "golang.org/x/oauth2/google"

	"github.com/oksasatya/campus-auth/internal/application"
)

// UserInfoEndpoint is a variable so tests can point it at a fake server.
var UserInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

var ErrMisconfigured = errors.New("google oauth config missing required fields")

// Provider runs the Google authorization-code handshake. It returns the raw
// profile document only; account decisions belong to the caller.
type Provider struct {
	oauthConfig *oauth2.Config
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, ErrMisconfigured
	}
	return &Provider{oauthConfig: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     googleOAuth2.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}}, nil
}

// WithEndpoint overrides the token/auth endpoints.
func (p *Provider) WithEndpoint(ep oauth2.Endpoint) *Provider {
	p.oauthConfig.Endpoint = ep
	return p
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for a token and fetches the userinfo document.
func (p *Provider) Exchange(ctx context.Context, code string) (application.RawProfile, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	client := p.oauthConfig.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, UserInfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from Google: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Google user info response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch user info from Google: status %d, body: %s", resp.StatusCode, string(body))
	}
	return application.ParseRawProfile(body)
}
