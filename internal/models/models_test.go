package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStringListAcceptsStringAndArray(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"title":"Watch","category":"Wearables","tags":["gift","new"]}`), &p); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if len(p.Category) != 1 || p.Category.First() != "Wearables" {
		t.Fatalf("expected single category, got %v", p.Category)
	}
	if len(p.Tags) != 2 {
		t.Fatalf("expected two tags, got %v", p.Tags)
	}

	body, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(body), `"category":["Wearables"]`) {
		t.Fatalf("expected category array in json, got %s", body)
	}
}

func TestCartFromPayloadKeepsServerTotals(t *testing.T) {
	payload := &CartPayload{
		Items: []CartLine{
			{Product: CartLineProduct{ID: "p1", Title: "Mug", Images: []string{"mug.png"}}, Quantity: 2, Price: 150},
			{Product: CartLineProduct{ID: "p2", Title: "Card"}, Quantity: 1, Price: 20},
		},
		TotalItems:  7,
		TotalAmount: 999.5,
	}

	cart := CartFromPayload(payload)
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cart.Items))
	}
	if cart.TotalItems != 7 || cart.TotalAmount != 999.5 {
		t.Fatalf("expected server totals, got items=%d amount=%v", cart.TotalItems, cart.TotalAmount)
	}
	if cart.Items[0].Image != "mug.png" || cart.Items[1].Image != "" {
		t.Fatalf("unexpected images: %+v", cart.Items)
	}
}

func TestProductPageReadsEitherShape(t *testing.T) {
	var flat, wrapped ProductPage
	_ = json.Unmarshal([]byte(`{"products":[{"title":"A"}]}`), &flat)
	_ = json.Unmarshal([]byte(`{"data":{"products":[{"title":"B"},{"title":"C"}]}}`), &wrapped)

	if len(flat.Items()) != 1 || len(wrapped.Items()) != 2 {
		t.Fatalf("unexpected page sizes: %d %d", len(flat.Items()), len(wrapped.Items()))
	}
}

func TestEffectivePriceUsesFinalPriceWhenOnSale(t *testing.T) {
	if got := (Product{Price: 100, FinalPrice: 75}).EffectivePrice(); got != 75 {
		t.Fatalf("expected sale price 75, got %v", got)
	}
	if got := (Product{Price: 100}).EffectivePrice(); got != 100 {
		t.Fatalf("expected list price 100 without final price, got %v", got)
	}
	if (Product{Price: 100, FinalPrice: 120}).OnSale() {
		t.Fatal("expected a higher final price not to count as a sale")
	}
}
