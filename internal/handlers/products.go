package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/listing"
	"storefront/internal/models"
)

func filterOptions() gin.H {
	return gin.H{
		"categories":  models.Categories,
		"brands":      models.Brands,
		"priceRanges": models.PriceRanges,
		"sortOptions": models.SortOptions,
	}
}

// Home renders the listing page. Every navigation starts a new epoch from
// the URL filters and shows page one. The epoch id goes into the page so
// its load-more requests reach this paginator and no other tab's.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		filters := listing.FromQuery(c.Request.URL.Query())
		log.Printf("[%s] hit filters=%q", route, filters.Key())

		epoch, paginator := sess.NewListing()
		if _, err := paginator.Reset(c.Request.Context(), filters); err != nil && !errors.Is(err, listing.ErrSuperseded) {
			log.Printf("[%s] listing fetch failed: %v", route, err)
		}
		state := paginator.State()
		profile, _, _ := sess.Profile.Snapshot()

		render(c, http.StatusOK, "index.html", gin.H{
			"epoch":   epoch,
			"filters": filters,
			"options": filterOptions(),
			"listing": state,
			"cart":    sess.Cart.Snapshot(),
			"profile": profile,
		})
	}
}

// LoadMoreProducts appends the next page of the epoch named by the epoch
// parameter. An unknown epoch, or filters that no longer match it, answer
// 409 so the page can reload instead of showing a different listing.
func LoadMoreProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/more"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		q := c.Request.URL.Query()
		epoch := q.Get("epoch")
		q.Del("epoch")

		paginator, found := sess.Listing(epoch)
		if !found {
			log.Printf("[%s] unknown epoch", route)
			c.JSON(http.StatusConflict, gin.H{"error": "listing expired"})
			return
		}
		if listing.FromQuery(q).Key() != paginator.Key() {
			log.Printf("[%s] filters do not match epoch", route)
			c.JSON(http.StatusConflict, gin.H{"error": "filters changed"})
			return
		}

		products, err := paginator.LoadMore(c.Request.Context())
		switch {
		case errors.Is(err, listing.ErrSuperseded):
			c.JSON(http.StatusConflict, gin.H{"error": "superseded"})
			return
		case err != nil:
			respondWithError(c, http.StatusBadGateway, route, "Failed to load products")
			return
		}

		state := paginator.State()
		log.Printf("[%s] returning %d products page=%d", route, len(products), state.Page)
		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"page":     state.Page,
			"hasMore":  state.HasMore,
		})
	}
}

// ToggleFilter answers with the listing URL after toggling one value.
func ToggleFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/filters/toggle"
		defer handlePanic(c, route)

		dimension := strings.TrimSpace(c.Query("dimension"))
		value := strings.TrimSpace(c.Query("value"))
		if value == "" || !isDimension(dimension) {
			respondWithError(c, http.StatusBadRequest, route, "invalid filter")
			return
		}

		q := c.Request.URL.Query()
		q.Del("dimension")
		q.Del("value")
		next := listing.FromQuery(q).Toggle(dimension, value)

		target := "/"
		if encoded := next.Values().Encode(); encoded != "" {
			target += "?" + encoded
		}
		c.JSON(http.StatusOK, gin.H{
			"url":      target,
			"selected": next.Has(dimension, value),
		})
	}
}

func isDimension(dimension string) bool {
	for _, known := range listing.Dimensions {
		if dimension == known {
			return true
		}
	}
	return false
}
