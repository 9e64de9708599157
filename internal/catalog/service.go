package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ekrishihub/storefront/internal/gateway"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
)

// Service talks to the product endpoints
type Service struct {
	client *gateway.Client
}

// NewService creates a catalog service
func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

// List returns every listed product
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := s.client.Get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search filters the listing
func (s *Service) Search(ctx context.Context, f Filter) ([]Product, error) {
	if f.Empty() {
		return s.List(ctx)
	}

	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.Category != "" {
		q.Set("category", NormalizeCategory(f.Category))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}

	var out []Product
	if err := s.client.Get(ctx, "/products/search", &out, gateway.WithQuery(q)); err != nil {
		return nil, err
	}
	return out, nil
}

// Mine returns the signed-in farmer's products, falling back to the public listing
// when the farmer endpoint does not exist
func (s *Service) Mine(ctx context.Context) ([]Product, error) {
	var out []Product
	err := s.client.Get(ctx, "/farmer/products", &out)
	if apperrors.StatusOf(err) == http.StatusNotFound {
		return s.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one of the farmer's products
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := s.client.Get(ctx, fmt.Sprintf("/farmer/products/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a product to the farmer's stock
func (s *Service) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeValidationFailed, err.Error(), http.StatusBadRequest, err)
	}
	var out Product
	if err := s.client.Post(ctx, "/farmer/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a product
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeValidationFailed, err.Error(), http.StatusBadRequest, err)
	}
	var out Product
	if err := s.client.Put(ctx, fmt.Sprintf("/farmer/products/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a product
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/farmer/products/%d", id), nil)
}
