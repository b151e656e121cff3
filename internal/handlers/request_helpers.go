package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/middleware"
	"storefront/internal/session"
)

const genericError = "Something went wrong"

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// requireSession fetches the request's session or answers 500 when the
// session middleware is missing from the chain.
func requireSession(c *gin.Context, route string) (*session.Session, bool) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		respondWithError(c, http.StatusInternalServerError, route, "session unavailable")
		return nil, false
	}
	return sess, true
}

// wantsJSON reports whether the caller posted or asked for JSON instead of
// a page.
func wantsJSON(c *gin.Context) bool {
	if c.ContentType() == gin.MIMEJSON {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}

// render answers with a template for browsers and the same data as JSON for
// API callers.
func render(c *gin.Context, status int, template string, data gin.H) {
	if wantsJSON(c) {
		c.JSON(status, data)
		return
	}
	c.HTML(status, template, data)
}
