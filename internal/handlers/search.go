package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/search"
)

// Suggestions answers typeahead requests. Queries below the minimum length
// return empty groups without calling the backend.
func Suggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/search"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		query := c.Query("query")
		if !search.Eligible(query) {
			c.JSON(http.StatusOK, search.Result{Query: query, Groups: search.Partition(nil)})
			return
		}

		groups, err := search.Fetch(c.Request.Context(), sess.Client, query)
		if err != nil {
			log.Printf("[%s] suggestion fetch failed: %v", route, err)
			c.JSON(http.StatusOK, search.Result{Query: query, Groups: search.Partition(nil)})
			return
		}
		c.JSON(http.StatusOK, search.Result{Query: query, Groups: groups})
	}
}

// SelectSuggestion navigates to the listing filtered by the chosen text
// alone.
func SelectSuggestion() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /search/select"
		defer handlePanic(c, route)

		target := search.SearchURL(c.Query("query"))
		log.Printf("[%s] redirecting to %s", route, target)
		c.Redirect(http.StatusFound, target)
	}
}
