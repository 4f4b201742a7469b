package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie identifies the donor session across page loads.
const SessionCookie = "contrib_sid"

// SetSessionCookie issues the donor session cookie. It is HttpOnly and scoped
// to the whole site.
func SetSessionCookie(c *gin.Context, sessionID string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, int(ttl.Seconds()), "/", "", secure, true)
}

// GetSessionCookie returns the donor session id, or "" when absent.
func GetSessionCookie(c *gin.Context) string {
	sid, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return sid
}
