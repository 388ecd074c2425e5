package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	RefreshCookieName = "refreshToken"

	// Scoped to the API root: the cookie must reach the refresh and
	// logout endpoints but nothing outside the API.
	refreshCookiePath = "/api"
)

// SetRefreshCookie delivers the refresh token as an HttpOnly cookie.
// SameSite=Lax blocks cross-site submission while still letting the SPA
// renew through its own origin.
func SetRefreshCookie(c *gin.Context, token string, maxAge time.Duration, secure bool, domain string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Domain:   domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearRefreshCookie(c *gin.Context, secure bool, domain string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		Domain:   domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
