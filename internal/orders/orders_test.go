package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/ekrishihub/storefront/internal/gateway/gatewaytest"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPayment = PaymentConfig{Currency: "INR", MerchantName: "eKrishiHub"}

// fakeBackend serves a fixed order list and records payment calls
type fakeBackend struct {
	mu      sync.Mutex
	orders  []Order
	bundle  PaymentOrder
	settled []bundleRequest
	created [][]int64
	patched map[string]interface{}
	deleted []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/customer/orders":
		gatewaytest.JSON(w, http.StatusOK, f.orders)
	case r.Method == http.MethodPatch:
		json.NewDecoder(r.Body).Decode(&f.patched)
		gatewaytest.JSON(w, http.StatusOK, Order{ID: 1, Quantity: 4})
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/api/orders/payment/create-bundle":
		var req bundleRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.created = append(f.created, req.OrderIDs)
		gatewaytest.JSON(w, http.StatusOK, f.bundle)
	case r.URL.Path == "/api/orders/payment/update-bundle":
		var req bundleRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.settled = append(f.settled, req)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newService(t *testing.T, f *fakeBackend) *Service {
	t.Helper()
	b := gatewaytest.New(t, f)
	return NewService(b.Client, testPayment, zap.NewNop())
}

func sampleOrders() []Order {
	return []Order{
		{ID: 1, TotalAmount: 120.5, PaymentStatus: PaymentPending},
		{ID: 2, TotalAmount: 99, PaymentStatus: PaymentPaid},
		{ID: 3, TotalAmount: 30.25, PaymentStatus: PaymentFailed},
	}
}

func TestPlaceInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      PlaceInput
		wantErr error
	}{
		{"valid", PlaceInput{ProductID: 1, Quantity: 2, Address: " Pune "}, nil},
		{"no product", PlaceInput{Quantity: 2, Address: "Pune"}, ErrInvalidProduct},
		{"zero quantity", PlaceInput{ProductID: 1, Address: "Pune"}, ErrInvalidQuantity},
		{"blank address", PlaceInput{ProductID: 1, Quantity: 1, Address: "  "}, ErrAddressRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := in.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "Pune", in.Address)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_UpdateSendsPatch(t *testing.T) {
	f := &fakeBackend{orders: sampleOrders()}
	svc := newService(t, f)

	qty := 4
	order, err := svc.Update(context.Background(), 1, UpdateInput{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 4, order.Quantity)
	assert.Equal(t, float64(4), f.patched["quantity"])
	_, hasAddress := f.patched["address"]
	assert.False(t, hasAddress)
}

func TestService_PaidOrdersAreLocked(t *testing.T) {
	f := &fakeBackend{orders: sampleOrders()}
	svc := newService(t, f)

	err := svc.Delete(context.Background(), 2)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
	assert.Empty(t, f.deleted)

	qty := 1
	_, err = svc.Update(context.Background(), 2, UpdateInput{Quantity: &qty})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []string{"/api/customer/orders/1"}, f.deleted)
}

func TestService_DeleteUnknownOrder(t *testing.T) {
	svc := newService(t, &fakeBackend{orders: sampleOrders()})

	err := svc.Delete(context.Background(), 42)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestService_StartPayment(t *testing.T) {
	f := &fakeBackend{bundle: PaymentOrder{RazorpayOrderID: "order_abc", Key: "rzp_test", Amount: 150.75}}
	svc := newService(t, f)

	params, err := svc.StartPayment(context.Background(), sampleOrders())
	require.NoError(t, err)

	assert.Equal(t, [][]int64{{1, 3}}, f.created)
	assert.Equal(t, int64(15075), params.Amount)
	assert.Equal(t, "INR", params.Currency)
	assert.Equal(t, "eKrishiHub", params.Name)
	assert.Equal(t, "order_abc", params.OrderID)
	assert.Equal(t, "rzp_test", params.Key)
	assert.Equal(t, "Payment for 2 order(s)", params.Desc)
}

func TestService_StartPaymentFallbacks(t *testing.T) {
	f := &fakeBackend{bundle: PaymentOrder{RazorpayOrderID: "order_abc", Key: "rzp_backend"}}
	b := gatewaytest.New(t, f)
	svc := NewService(b.Client, PaymentConfig{KeyOverride: "rzp_local", MerchantName: "eKrishiHub"}, zap.NewNop())

	params, err := svc.StartPayment(context.Background(), sampleOrders())
	require.NoError(t, err)
	assert.Equal(t, "rzp_local", params.Key)
	assert.Equal(t, int64(15075), params.Amount, "falls back to the unpaid total")
	assert.Equal(t, "INR", params.Currency)
}

func TestService_StartPaymentErrors(t *testing.T) {
	t.Run("nothing unpaid", func(t *testing.T) {
		f := &fakeBackend{}
		_, err := newService(t, f).StartPayment(context.Background(), []Order{{ID: 2, PaymentStatus: PaymentPaid}})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidationFailed))
		assert.Empty(t, f.created)
	})

	t.Run("missing gateway order", func(t *testing.T) {
		f := &fakeBackend{bundle: PaymentOrder{Key: "rzp_test"}}
		_, err := newService(t, f).StartPayment(context.Background(), sampleOrders())
		assert.ErrorIs(t, err, ErrPaymentInit)
	})
}

func TestService_Pay(t *testing.T) {
	tests := []struct {
		name        string
		checkout    CheckoutFunc
		wantStatus  string
		wantPayment string
		wantErr     bool
	}{
		{
			name: "success",
			checkout: func(ctx context.Context, p CheckoutParams) (PaymentResult, error) {
				return Success{PaymentID: "pay_1"}, nil
			},
			wantStatus:  PaymentPaid,
			wantPayment: "pay_1",
		},
		{
			name: "failure",
			checkout: func(ctx context.Context, p CheckoutParams) (PaymentResult, error) {
				return Failure{Reason: "card declined"}, nil
			},
			wantStatus: PaymentFailed,
		},
		{
			name: "dismissed",
			checkout: func(ctx context.Context, p CheckoutParams) (PaymentResult, error) {
				return Dismissed{}, nil
			},
			wantStatus: PaymentFailed,
		},
		{
			name: "widget error",
			checkout: func(ctx context.Context, p CheckoutParams) (PaymentResult, error) {
				return nil, errors.New("widget not ready")
			},
			wantStatus: PaymentFailed,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeBackend{bundle: PaymentOrder{RazorpayOrderID: "order_abc", Key: "rzp_test", Amount: 10}}
			svc := newService(t, f)

			_, err := svc.Pay(context.Background(), sampleOrders(), tt.checkout)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			require.Len(t, f.settled, 1)
			got := f.settled[0]
			assert.Equal(t, []int64{1, 3}, got.OrderIDs)
			assert.Equal(t, tt.wantStatus, got.Status)
			require.NotNil(t, got.PaymentID)
			assert.Equal(t, tt.wantPayment, *got.PaymentID)
		})
	}
}

func TestParseResult(t *testing.T) {
	r, err := ParseResult("success", "pay_9", "")
	require.NoError(t, err)
	assert.Equal(t, Success{PaymentID: "pay_9"}, r)

	_, err = ParseResult("success", "", "")
	assert.Error(t, err)

	r, err = ParseResult("dismissed", "", "")
	require.NoError(t, err)
	assert.Equal(t, Dismissed{}, r)

	_, err = ParseResult("refunded", "", "")
	assert.Error(t, err)
}
