package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/credentials"
	"storefront/internal/session"
)

const (
	SessionCookieName = "sid"

	sessionKey     = "session"
	syncedTokenKey = "syncedToken"
)

// Session attaches the browser's session, creating one when the sid cookie
// is missing or malformed, and syncs the token cookie from the store.
//
// sidTTL bounds the sid cookie. In-memory sessions are evicted much sooner
// on idleness; the sid then only keys the persisted credentials, and a
// rebuilt session adopts the token cookie on its first request.
func Session(manager *session.Manager, opts credentials.CookieOptions, sidTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, sid, int(sidTTL.Seconds()), "/", "", opts.Secure, true)
		}

		cookieToken, _ := c.Cookie(credentials.CookieName)
		sess := manager.Get(sid)
		sess.Mount(c.Request.Context(), cookieToken)

		token, err := credentials.SyncCookie(c, sess.Credentials, opts)
		if err == nil {
			c.Set(syncedTokenKey, token)
		} else {
			log.Println("[SESSION] [ERROR] token sync failed:", err)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session attached by Session, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := value.(*session.Session)
	return sess
}
