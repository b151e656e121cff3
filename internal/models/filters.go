package models

var Categories = []string{
	"Electronics",
	"Accessories",
	"Footwear",
	"Wearables",
}

var Brands = []string{"Apple", "Sony", "Nike", "JBL", "Logitech"}

var PriceRanges = []string{
	"under 1000",
	"1000 - 5000",
	"5000 10000",
	"above 10000",
}

type SortOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var SortOptions = []SortOption{
	{Label: "Price Low to High", Value: "price_low_to_high"},
	{Label: "Price High to Low", Value: "price_high_to_low"},
	{Label: "Newest First", Value: "newest"},
}

// IsSortOption reports whether value is one of the known sort keys.
func IsSortOption(value string) bool {
	for _, option := range SortOptions {
		if option.Value == value {
			return true
		}
	}
	return false
}
