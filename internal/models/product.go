package models

// Ratings is the aggregate review score the backend keeps per product.
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product is a catalog entry as paged by the backend. The storefront never
// mutates it.
type Product struct {
	ID                  string     `json:"_id"`
	Title               string     `json:"title"`
	Slug                string     `json:"slug"`
	Brand               string     `json:"brand"`
	Category            StringList `json:"category"`
	Description         string     `json:"description"`
	Price               float64    `json:"price"`
	Discount            float64    `json:"discount"`
	FinalPrice          float64    `json:"finalPrice"`
	Stock               int        `json:"stock"`
	Occasion            StringList `json:"occasion"`
	IsCustomizable      bool       `json:"isCustomizable"`
	CustomizationFields StringList `json:"customizationFields"`
	GiftWrapAvailable   bool       `json:"giftWrapAvailable"`
	GiftMessageAllowed  bool       `json:"giftMessageAllowed"`
	Ratings             Ratings    `json:"ratings"`
	Tags                StringList `json:"tags"`
	IsRecommended       bool       `json:"isRecommended"`
	TotalSold           int        `json:"totalSold"`
	DeliveryTime        string     `json:"deliveryTime"`
	LimitedEdition      bool       `json:"limitedEdition"`
	SeasonalTag         string     `json:"seasonalTag"`
	Images              []string   `json:"images"`
}

// PrimaryImage returns the first image or an empty string.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// InStock mirrors the stock counter for templates.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductPage is one page of the catalog listing. Older backend builds wrap
// the list in a data envelope, newer ones return it at the top level.
type ProductPage struct {
	Products []Product `json:"products"`
	Data     *struct {
		Products []Product `json:"products"`
	} `json:"data,omitempty"`
}

// Items returns whichever product list the backend populated.
func (p ProductPage) Items() []Product {
	if p.Products != nil {
		return p.Products
	}
	if p.Data != nil && p.Data.Products != nil {
		return p.Data.Products
	}
	return []Product{}
}
