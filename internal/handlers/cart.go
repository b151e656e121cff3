package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/store"
)

type AddToCartRequest struct {
	ID    string  `json:"id" form:"id" binding:"required"`
	Name  string  `json:"name" form:"name"`
	Price float64 `json:"price" form:"price"`
	Image string  `json:"image" form:"image"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" form:"quantity" binding:"required,min=1"`
}

// respondWithCart answers with the current cart. A superseded response is
// not an error for the caller; the newer state is returned.
func respondWithCart(c *gin.Context, route string, cart *store.CartStore, err error) {
	if err != nil && !errors.Is(err, store.ErrStale) {
		respondWithError(c, http.StatusBadGateway, route, "Failed to update cart")
		return
	}
	snapshot := cart.Snapshot()
	log.Printf("[%s] returning cart items=%d version=%d", route, snapshot.TotalItems, snapshot.Version)
	c.JSON(http.StatusOK, snapshot)
}

func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}
		respondWithCart(c, route, sess.Cart, nil)
	}
}

func AddToCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		var req AddToCartRequest
		if err := c.ShouldBind(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		err := sess.Cart.Add(c.Request.Context(), models.CartItem{
			ID:    strings.TrimSpace(req.ID),
			Name:  req.Name,
			Price: req.Price,
			Image: req.Image,
		})
		respondWithCart(c, route, sess.Cart, err)
	}
}

func UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/:id"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		var req UpdateCartRequest
		if err := c.ShouldBind(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		err := sess.Cart.Update(c.Request.Context(), c.Param("id"), req.Quantity)
		respondWithCart(c, route, sess.Cart, err)
	}
}

func RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:id"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		err := sess.Cart.Remove(c.Request.Context(), c.Param("id"))
		respondWithCart(c, route, sess.Cart, err)
	}
}

// ClearCart empties the local cart only. The backend cart is untouched.
func ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/clear"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		sess.Cart.Clear()
		respondWithCart(c, route, sess.Cart, nil)
	}
}

func RefreshCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/refresh"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		err := sess.Cart.Refetch(c.Request.Context())
		respondWithCart(c, route, sess.Cart, err)
	}
}
