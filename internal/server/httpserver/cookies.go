package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
)

// cookieOptions holds the attributes shared by both session cookies.
// Both are HttpOnly and SameSite=Strict; Secure is configurable so plain
// HTTP works in local development.
type cookieOptions struct {
	secure     bool
	sessionTTL time.Duration
}

// setAccessToken stores the access token in a browser-session cookie.
// The token's own expiry governs its validity.
func (o cookieOptions) setAccessToken(c *gin.Context, token string) {
	o.set(c, common.AccessTokenCookieName, token, 0)
}

// setTokenID stores the session identifier for as long as the session lives.
func (o cookieOptions) setTokenID(c *gin.Context, tokenID string) {
	o.set(c, common.TokenIDCookieName, tokenID, int(o.sessionTTL.Seconds()))
}

func (o cookieOptions) clear(c *gin.Context) {
	o.set(c, common.AccessTokenCookieName, "", -1)
	o.set(c, common.TokenIDCookieName, "", -1)
}

func (o cookieOptions) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", o.secure, true)
}
