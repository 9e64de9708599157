package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ekrishihub/storefront/internal/gateway"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
	"go.uber.org/zap"
)

// ErrPaymentInit is returned when the backend did not hand back checkout details
var ErrPaymentInit = errors.New("Payment init failed.")

// Service talks to the order and payment endpoints
type Service struct {
	client  *gateway.Client
	payment PaymentConfig
	logger  *zap.Logger
}

// NewService creates an order service
func NewService(client *gateway.Client, payment PaymentConfig, logger *zap.Logger) *Service {
	if payment.Currency == "" {
		payment.Currency = "INR"
	}
	return &Service{client: client, payment: payment, logger: logger}
}

func invalid(err error) error {
	return apperrors.Wrap(apperrors.ErrCodeValidationFailed, err.Error(), http.StatusBadRequest, err)
}

// Place creates an order for the signed-in customer
func (s *Service) Place(ctx context.Context, in PlaceInput) (*Order, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	var out Order
	if err := s.client.Post(ctx, "/customer/orders", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine lists the signed-in customer's orders
func (s *Service) Mine(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.client.Get(ctx, "/customer/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FarmerOrders lists orders for the signed-in farmer's products
func (s *Service) FarmerOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.client.Get(ctx, "/farmer/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// find looks up one of the customer's orders
func (s *Service) find(ctx context.Context, id int64) (*Order, error) {
	orders, err := s.Mine(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, apperrors.NewAppError(apperrors.ErrCodeNotFound, "Order not found", http.StatusNotFound)
}

func locked() error {
	return apperrors.Wrap(apperrors.ErrCodeConflict, ErrOrderPaid.Error(), http.StatusConflict, ErrOrderPaid)
}

// Update edits quantity and/or address of an unpaid order
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Order, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Paid() {
		return nil, locked()
	}

	var out Order
	if err := s.client.Patch(ctx, fmt.Sprintf("/customer/orders/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an unpaid order
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if current.Paid() {
		return locked()
	}
	return s.client.Delete(ctx, fmt.Sprintf("/customer/orders/%d", id), nil)
}

type bundleRequest struct {
	OrderIDs  []int64 `json:"orderIds"`
	PaymentID *string `json:"paymentId,omitempty"`
	Status    string  `json:"status,omitempty"`
}

// StartPayment creates one gateway order for every unpaid order in orders and
// returns the parameters to open the checkout with
func (s *Service) StartPayment(ctx context.Context, orders []Order) (*CheckoutParams, error) {
	unpaid := Unpaid(orders)
	if len(unpaid) == 0 {
		return nil, invalid(ErrNoUnpaidOrders)
	}
	ids := IDs(unpaid)

	var created PaymentOrder
	if err := s.client.Post(ctx, "/orders/payment/create-bundle", bundleRequest{OrderIDs: ids}, &created); err != nil {
		return nil, err
	}
	params := s.payment.params(created, ids, Total(unpaid))
	if params.Key == "" || params.OrderID == "" {
		return nil, apperrors.Wrap(apperrors.ErrCodeRequestFailed, ErrPaymentInit.Error(), http.StatusBadGateway, ErrPaymentInit)
	}

	s.logger.Info("Payment started",
		zap.Int64s("order_ids", ids),
		zap.String("gateway_order_id", params.OrderID),
		zap.Int64("amount", params.Amount),
	)
	return &params, nil
}

// Settle reports the checkout outcome for ids. Anything but Success is
// recorded as FAILED with an empty payment id.
func (s *Service) Settle(ctx context.Context, ids []int64, result PaymentResult) error {
	if len(ids) == 0 {
		return invalid(ErrNoUnpaidOrders)
	}

	req := bundleRequest{OrderIDs: ids, Status: PaymentFailed}
	empty := ""
	req.PaymentID = &empty
	switch r := result.(type) {
	case Success:
		req.Status = PaymentPaid
		req.PaymentID = &r.PaymentID
	case Failure:
		s.logger.Warn("Payment failed", zap.Int64s("order_ids", ids), zap.String("reason", r.Reason))
	case Dismissed:
		s.logger.Info("Checkout dismissed", zap.Int64s("order_ids", ids))
	}

	return s.client.Post(ctx, "/orders/payment/update-bundle", req, nil)
}

// Pay runs the whole flow: start, open the checkout, settle
func (s *Service) Pay(ctx context.Context, orders []Order, checkout Checkout) (PaymentResult, error) {
	params, err := s.StartPayment(ctx, orders)
	if err != nil {
		return nil, err
	}

	result, err := checkout.Open(ctx, *params)
	if err != nil {
		result = Failure{Reason: err.Error()}
	}
	if settleErr := s.Settle(ctx, params.OrderIDs, result); settleErr != nil {
		return result, settleErr
	}
	if err != nil {
		return result, fmt.Errorf("checkout failed: %w", err)
	}
	return result, nil
}
