package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/session"
)

func profileResponse(sess *session.Session) gin.H {
	profile, loading, message := sess.Profile.Snapshot()
	return gin.H{
		"profile": profile,
		"loading": loading,
		"error":   message,
	}
}

func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/profile"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, profileResponse(sess))
	}
}

// RefreshProfile refetches the profile, which also refreshes the cart when
// the profile carries one.
func RefreshProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/profile/refresh"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		sess.Profile.Refetch(c.Request.Context())
		c.JSON(http.StatusOK, profileResponse(sess))
	}
}
