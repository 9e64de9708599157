// Package cart wraps the customer's shopping cart endpoints.
package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ekrishihub/storefront/internal/gateway"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
)

var (
	ErrInvalidProduct  = errors.New("Select a product")
	ErrInvalidQuantity = errors.New("Quantity must be at least 1")
)

// Item is a cart line
type Item struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Quantity    int     `json:"quantity"`
}

// Subtotal is price times quantity
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is the customer's cart
type Cart struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

// Service talks to the cart endpoints
type Service struct {
	client *gateway.Client
}

// NewService creates a cart service
func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

func invalid(err error) error {
	return apperrors.Wrap(apperrors.ErrCodeValidationFailed, err.Error(), http.StatusBadRequest, err)
}

// Get returns the cart, computing the total when the backend leaves it out
func (s *Service) Get(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := s.client.Get(ctx, "/cart", &out); err != nil {
		return nil, err
	}
	if out.Total == 0 {
		for _, item := range out.Items {
			out.Total += item.Subtotal()
		}
	}
	return &out, nil
}

// Add puts quantity of a product in the cart
func (s *Service) Add(ctx context.Context, productID int64, quantity int) (*Item, error) {
	if productID <= 0 {
		return nil, invalid(ErrInvalidProduct)
	}
	if quantity <= 0 {
		return nil, invalid(ErrInvalidQuantity)
	}

	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	var out Item
	if err := s.client.Post(ctx, "/cart/items", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetQuantity changes a line's quantity
func (s *Service) SetQuantity(ctx context.Context, itemID int64, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, invalid(ErrInvalidQuantity)
	}

	var out Item
	body := map[string]int{"quantity": quantity}
	if err := s.client.Put(ctx, fmt.Sprintf("/cart/items/%d", itemID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove drops a line
func (s *Service) Remove(ctx context.Context, itemID int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/cart/items/%d", itemID), nil)
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context) error {
	return s.client.Delete(ctx, "/cart", nil)
}
