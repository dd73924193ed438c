package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "jwt"

// Manager writes the session cookie. The frontend is served from another
// origin, so the cookie is SameSite=None and Secure outside development.
type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) SetSession(c *gin.Context, token string, exp time.Time) {
	m.sameSite(c)
	c.SetCookie(SessionCookie, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	m.sameSite(c)
	c.SetCookie(SessionCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *Manager) sameSite(c *gin.Context) {
	// Browsers drop SameSite=None cookies that are not Secure.
	if m.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
