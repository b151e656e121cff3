package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/store"
)

type QuantityRequest struct {
	ID       string `json:"id" form:"id" binding:"required"`
	Quantity int    `json:"quantity" form:"quantity"`
}

func CheckoutPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /checkout"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		cart := sess.Cart.Snapshot()
		profile, _, _ := sess.Profile.Snapshot()
		render(c, http.StatusOK, "checkout.html", gin.H{
			"cart":    cart,
			"summary": checkout.Summarize(cart),
			"profile": profile,
		})
	}
}

// ChangeQuantity applies the stepper on the checkout page. Zero or less
// removes the line.
func ChangeQuantity() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/quantity"
		defer handlePanic(c, route)

		sess, ok := requireSession(c, route)
		if !ok {
			return
		}

		var req QuantityRequest
		if err := c.ShouldBind(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		err := checkout.ChangeQuantity(c.Request.Context(), sess.Cart, req.ID, req.Quantity)
		if err != nil && !errors.Is(err, store.ErrStale) {
			respondWithError(c, http.StatusBadGateway, route, "Failed to update cart")
			return
		}

		if !wantsJSON(c) {
			c.Redirect(http.StatusSeeOther, "/checkout")
			return
		}
		c.JSON(http.StatusOK, checkout.Summarize(sess.Cart.Snapshot()))
	}
}
