package models

// OnSale reports whether the backend's final price undercuts the list price.
func (p Product) OnSale() bool {
	return p.FinalPrice > 0 && p.FinalPrice < p.Price
}

// EffectivePrice is what the shopper pays for one unit.
func (p Product) EffectivePrice() float64 {
	if p.OnSale() {
		return p.FinalPrice
	}
	return p.Price
}
