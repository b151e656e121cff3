package models

import "time"

// CartLineProduct is the product summary the backend embeds in each cart line.
type CartLineProduct struct {
	ID     string   `json:"_id"`
	Title  string   `json:"title"`
	Price  float64  `json:"price"`
	Stock  int      `json:"stock"`
	Images []string `json:"images"`
}

// CartLine is one line of the backend cart payload.
type CartLine struct {
	ID       string          `json:"_id"`
	Product  CartLineProduct `json:"product"`
	Quantity int             `json:"quantity"`
	Price    float64         `json:"price"`
	AddedAt  *time.Time      `json:"addedAt,omitempty"`
}

// CartPayload is the cart shape shared by the profile and cart endpoints.
type CartPayload struct {
	Items       []CartLine `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	TotalItems  int        `json:"totalItems"`
}

// CartEnvelope wraps the cart endpoints' responses.
type CartEnvelope struct {
	Status int          `json:"status"`
	Data   *CartPayload `json:"data"`
}

// CartItem is the storefront's view of a cart line.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Cart is a snapshot of the authoritative cart state. Totals are the
// backend's aggregates, copied verbatim.
type Cart struct {
	Items       []CartItem `json:"items"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount float64    `json:"totalAmount"`
	Version     uint64     `json:"version"`
}

// CartFromPayload converts a backend payload into storefront items. A nil
// payload or nil item list yields an empty cart.
func CartFromPayload(payload *CartPayload) Cart {
	if payload == nil {
		return Cart{Items: []CartItem{}}
	}
	items := make([]CartItem, 0, len(payload.Items))
	for _, line := range payload.Items {
		image := ""
		if len(line.Product.Images) > 0 {
			image = line.Product.Images[0]
		}
		items = append(items, CartItem{
			ID:       line.Product.ID,
			Name:     line.Product.Title,
			Price:    line.Price,
			Image:    image,
			Quantity: line.Quantity,
		})
	}
	return Cart{
		Items:       items,
		TotalItems:  payload.TotalItems,
		TotalAmount: payload.TotalAmount,
	}
}
