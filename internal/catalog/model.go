// Package catalog manages products: the public listing and a farmer's own stock.
package catalog

import (
	"fmt"
	"strings"
)

// Categories
const (
	CategoryFruit     = "FRUIT"
	CategoryVegetable = "VEGETABLE"
	CategoryGrain     = "GRAIN"
	CategoryOther     = "OTHER"
)

// Product is a listed product
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	OwnerID     int64   `json:"ownerId,omitempty"`
}

// ProductInput is a create or update payload
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Filter narrows a product search
type Filter struct {
	Name     string   `form:"name"`
	Category string   `form:"category"`
	MinPrice *float64 `form:"minPrice"`
	MaxPrice *float64 `form:"maxPrice"`
}

// Empty reports whether no criteria are set
func (f Filter) Empty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// NormalizeCategory maps a display category to the backend token
func NormalizeCategory(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// Validate checks a product payload and normalizes it in place
func (in *ProductInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = NormalizeCategory(in.Category)

	var problems []string
	if in.Name == "" {
		problems = append(problems, "Name is required")
	}
	if in.Description == "" {
		problems = append(problems, "Description is required")
	}
	switch in.Category {
	case CategoryFruit, CategoryVegetable, CategoryGrain, CategoryOther:
	default:
		problems = append(problems, "Select a valid category")
	}
	if in.Price <= 0 {
		problems = append(problems, "Price must be greater than 0")
	}
	if in.Quantity <= 0 {
		problems = append(problems, "Quantity must be greater than 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	// keep two decimals, the backend stores a decimal
	in.Price = float64(int64(in.Price*100+0.5)) / 100
	return nil
}
