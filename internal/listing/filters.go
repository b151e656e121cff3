// Package listing turns the URL filter state into catalog requests and
// accumulates pages for infinite scroll.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/models"
)

const (
	DimensionCategory = "category"
	DimensionPrice    = "price"
	DimensionBrand    = "brand"

	paramQuery = "query"
	paramSort  = "sort"
)

// Dimensions lists the filter dimensions in request order.
var Dimensions = []string{DimensionCategory, DimensionPrice, DimensionBrand}

// FilterState is the URL-derived selection driving one listing epoch.
type FilterState struct {
	Category []string
	Price    []string
	Brand    []string
	Query    string
	Sort     string
}

// FromQuery reads the filter state from URL parameters. Repeated parameters
// and comma-joined values are both accepted; duplicates are dropped.
func FromQuery(q url.Values) FilterState {
	f := FilterState{
		Category: collect(q[DimensionCategory]),
		Price:    collect(q[DimensionPrice]),
		Brand:    collect(q[DimensionBrand]),
		Query:    strings.TrimSpace(q.Get(paramQuery)),
	}
	if sort := strings.TrimSpace(q.Get(paramSort)); models.IsSortOption(sort) {
		f.Sort = sort
	}
	return f
}

func collect(raw []string) []string {
	values := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			value := strings.TrimSpace(part)
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			values = append(values, value)
		}
	}
	return values
}

// Selected returns the values chosen for one dimension.
func (f FilterState) Selected(dimension string) []string {
	switch dimension {
	case DimensionCategory:
		return f.Category
	case DimensionPrice:
		return f.Price
	case DimensionBrand:
		return f.Brand
	default:
		return nil
	}
}

// Has reports whether value is selected in dimension.
func (f FilterState) Has(dimension, value string) bool {
	for _, selected := range f.Selected(dimension) {
		if selected == value {
			return true
		}
	}
	return false
}

// Toggle adds value to dimension or removes it when already selected.
// Unknown dimensions return f unchanged.
func (f FilterState) Toggle(dimension, value string) FilterState {
	current := f.Selected(dimension)
	next := make([]string, 0, len(current)+1)
	found := false
	for _, selected := range current {
		if selected == value {
			found = true
			continue
		}
		next = append(next, selected)
	}
	if !found {
		next = append(next, value)
	}

	switch dimension {
	case DimensionCategory:
		f.Category = next
	case DimensionPrice:
		f.Price = next
	case DimensionBrand:
		f.Brand = next
	}
	return f
}

// Values encodes the state back into URL parameters, one parameter per
// selected value, so links stay shareable.
func (f FilterState) Values() url.Values {
	q := url.Values{}
	for _, dimension := range Dimensions {
		for _, value := range f.Selected(dimension) {
			q.Add(dimension, value)
		}
	}
	if f.Query != "" {
		q.Set(paramQuery, f.Query)
	}
	if f.Sort != "" {
		q.Set(paramSort, f.Sort)
	}
	return q
}

// Key identifies the epoch. Equal states give equal keys.
func (f FilterState) Key() string {
	return f.Values().Encode()
}

// BuildQuery renders the catalog request query. Each dimension's values are
// escaped one by one and joined with literal commas; empty dimensions are
// omitted.
func BuildQuery(f FilterState, page, limit int) string {
	parts := make([]string, 0, len(Dimensions)+4)
	for _, dimension := range Dimensions {
		values := f.Selected(dimension)
		if len(values) == 0 {
			continue
		}
		escaped := make([]string, len(values))
		for i, value := range values {
			escaped[i] = url.QueryEscape(value)
		}
		parts = append(parts, dimension+"="+strings.Join(escaped, ","))
	}
	if f.Query != "" {
		parts = append(parts, paramQuery+"="+url.QueryEscape(f.Query))
	}
	if f.Sort != "" {
		parts = append(parts, paramSort+"="+url.QueryEscape(f.Sort))
	}
	parts = append(parts,
		"page="+strconv.Itoa(page),
		"limit="+strconv.Itoa(limit),
	)
	return strings.Join(parts, "&")
}
