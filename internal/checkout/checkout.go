// Package checkout holds the cart page's quantity routing and the payment
// summary arithmetic.
package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

var (
	// DeliveryCharge applies to each line whose value is below the threshold.
	DeliveryCharge        = decimal.NewFromInt(100)
	FreeDeliveryThreshold = decimal.NewFromInt(500)
)

// CartMutator is the slice of the cart store the checkout page drives.
type CartMutator interface {
	Remove(ctx context.Context, productID string) error
	Update(ctx context.Context, productID string, quantity int) error
}

// ChangeQuantity routes non-positive quantities to a removal instead of an
// update.
func ChangeQuantity(ctx context.Context, cart CartMutator, productID string, quantity int) error {
	if quantity <= 0 {
		return cart.Remove(ctx, productID)
	}
	return cart.Update(ctx, productID, quantity)
}

type Line struct {
	Item     models.CartItem `json:"item"`
	Delivery decimal.Decimal `json:"delivery"`
}

// Summary is the payment panel. Subtotal is the backend's total, never a
// sum of the lines.
type Summary struct {
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Delivery   decimal.Decimal `json:"delivery"`
	Total      decimal.Decimal `json:"total"`
}

func Summarize(cart models.Cart) Summary {
	summary := Summary{
		Lines:      make([]Line, 0, len(cart.Items)),
		TotalItems: cart.TotalItems,
		Subtotal:   decimal.NewFromFloat(cart.TotalAmount),
		Delivery:   decimal.Zero,
	}
	for _, item := range cart.Items {
		charge := decimal.Zero
		lineValue := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		if lineValue.LessThan(FreeDeliveryThreshold) {
			charge = DeliveryCharge
		}
		summary.Delivery = summary.Delivery.Add(charge)
		summary.Lines = append(summary.Lines, Line{Item: item, Delivery: charge})
	}
	summary.Total = summary.Subtotal.Add(summary.Delivery)
	return summary
}
