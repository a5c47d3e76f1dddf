package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie = "access_token"
	OAuthStateCookie  = "oauth_state"
)

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) SetAccessToken(c *gin.Context, access string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, access, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// SetOAuthState stores the CSRF state for the Google redirect round trip.
func (m *Manager) SetOAuthState(c *gin.Context, state string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookie, state, int(ttl.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *Manager) ClearOAuthState(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(OAuthStateCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
