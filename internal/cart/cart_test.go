package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ekrishihub/storefront/internal/gateway/gatewaytest"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GetComputesTotal(t *testing.T) {
	b := gatewaytest.New(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart", r.URL.Path)
		gatewaytest.JSON(w, http.StatusOK, Cart{Items: []Item{
			{ID: 1, Price: 10, Quantity: 3},
			{ID: 2, Price: 2.5, Quantity: 2},
		}})
	}))

	cart, err := NewService(b.Client).Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 35.0, cart.Total)
}

func TestService_Add(t *testing.T) {
	b := gatewaytest.New(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart/items", r.URL.Path)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gatewaytest.JSON(w, http.StatusOK, Item{ID: 7, ProductID: body["productId"], Quantity: int(body["quantity"])})
	}))
	svc := NewService(b.Client)

	item, err := svc.Add(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.ProductID)
	assert.Equal(t, 2, item.Quantity)

	_, err = svc.Add(context.Background(), 4, 0)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidationFailed))
}

func TestService_RemoveAndClear(t *testing.T) {
	var paths []string
	b := gatewaytest.New(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	svc := NewService(b.Client)

	require.NoError(t, svc.Remove(context.Background(), 3))
	require.NoError(t, svc.Clear(context.Background()))
	assert.Equal(t, []string{"/api/cart/items/3", "/api/cart"}, paths)
}
