package credentials

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const CookieName = "token"

// CookieOptions controls how the token cookie cache is written.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

// SyncCookie makes the token cookie match the store. It returns the stored
// token. A store read failure leaves the cookie alone.
func SyncCookie(c *gin.Context, store Store, opts CookieOptions) (string, error) {
	token, err := store.Token(c.Request.Context())
	if err != nil {
		log.Println("[CREDENTIALS] [ERROR] token read failed:", err)
		return "", err
	}

	current, cookieErr := c.Cookie(CookieName)
	hasCookie := cookieErr == nil && current != ""

	switch {
	case token == "" && hasCookie:
		clearCookie(c, opts)
	case token != "" && token != current:
		writeCookie(c, token, opts)
	}
	return token, nil
}

func writeCookie(c *gin.Context, token string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
}

func clearCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", opts.Secure, true)
}
