package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/credentials"
)

// Decision is what the guard does with a navigation.
type Decision int

const (
	Pass Decision = iota
	RedirectLogin
	RedirectHome
)

var (
	publicPrefixes    = []string{"/login", "/signup"}
	protectedPrefixes = []string{"/profile", "/orders", "/checkout"}
	unguardedPrefixes = []string{"/api", "/public", "/favicon.ico", "/live"}
)

// Decide classifies path and picks the guard's action. The token is only
// checked for presence.
func Decide(hasToken bool, path string) Decision {
	switch {
	case !hasToken && hasPrefix(path, protectedPrefixes):
		return RedirectLogin
	case hasToken && hasPrefix(path, publicPrefixes):
		return RedirectHome
	default:
		return Pass
	}
}

// Guarded reports whether path goes through the guard at all.
func Guarded(path string) bool {
	return !hasPrefix(path, unguardedPrefixes)
}

// RouteGuard redirects unauthenticated navigations away from protected
// pages and authenticated ones away from the login and signup pages.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !Guarded(path) {
			c.Next()
			return
		}

		token := requestToken(c)
		switch Decide(token != "", path) {
		case RedirectLogin:
			log.Printf("[GUARD] [INFO] %s requires sign in", path)
			redirect(c, "/login")
		case RedirectHome:
			log.Printf("[GUARD] [INFO] %s skipped for signed in user %s", path, subject(token))
			redirect(c, "/")
		default:
			c.Next()
		}
	}
}

// requestToken prefers the Authorization header. A header without a second
// field yields no token rather than falling back to the cookie.
func requestToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw != "" {
		parts := strings.Fields(raw)
		if len(parts) < 2 {
			return ""
		}
		return parts[1]
	}

	if synced, ok := c.Get(syncedTokenKey); ok {
		token, _ := synced.(string)
		return token
	}
	token, err := c.Cookie(credentials.CookieName)
	if err != nil {
		return ""
	}
	return token
}

func redirect(c *gin.Context, path string) {
	target := path
	if raw := c.Request.URL.RawQuery; raw != "" {
		target += "?" + raw
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
	c.Abort()
}

// subject reads the sub claim for logging. The signature is not verified.
func subject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "unknown"
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		if id, ok := claims["id"].(string); ok && id != "" {
			return id
		}
		return "unknown"
	}
	return sub
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
