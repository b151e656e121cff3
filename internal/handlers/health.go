package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/session"
)

// Health reports liveness. db may be nil when credentials are kept in
// memory.
func Health(db *mongo.Database, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"
		defer handlePanic(c, route)

		store := "memory"
		if db != nil {
			if err := ensureDBConnection(c.Request.Context(), db); err != nil {
				respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
				return
			}
			store = "mongo"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"store":    store,
			"sessions": manager.Len(),
		})
	}
}
