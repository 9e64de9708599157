package orders

import (
	"context"
	"fmt"
	"math"
)

// PaymentConfig holds the checkout defaults
type PaymentConfig struct {
	// KeyOverride replaces the key returned by the backend when set
	KeyOverride  string
	Currency     string
	MerchantName string
}

// PaymentOrder is the backend's answer to a bundle payment request
type PaymentOrder struct {
	OrderID         string  `json:"orderId"`
	RazorpayOrderID string  `json:"razorpayOrderId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Key             string  `json:"key"`
	ProductName     string  `json:"productName"`
}

// CheckoutParams is what the payment widget is opened with
type CheckoutParams struct {
	Key      string  `json:"key"`
	Amount   int64   `json:"amount"` // minor units (paise)
	Currency string  `json:"currency"`
	Name     string  `json:"name"`
	Desc     string  `json:"description"`
	OrderID  string  `json:"order_id"`
	OrderIDs []int64 `json:"orderIds"`
}

// PaymentResult is the outcome of a checkout: Success, Failure or Dismissed
type PaymentResult interface {
	paymentResult()
}

// Success carries the gateway payment id
type Success struct {
	PaymentID string
}

// Failure is a payment the gateway rejected
type Failure struct {
	Reason string
}

// Dismissed is a checkout the user closed
type Dismissed struct{}

func (Success) paymentResult()   {}
func (Failure) paymentResult()   {}
func (Dismissed) paymentResult() {}

// Checkout opens the payment widget and waits for its outcome
type Checkout interface {
	Open(ctx context.Context, params CheckoutParams) (PaymentResult, error)
}

// CheckoutFunc adapts a function to Checkout
type CheckoutFunc func(ctx context.Context, params CheckoutParams) (PaymentResult, error)

// Open calls f
func (f CheckoutFunc) Open(ctx context.Context, params CheckoutParams) (PaymentResult, error) {
	return f(ctx, params)
}

// ParseResult maps a browser callback to a PaymentResult
func ParseResult(outcome, paymentID, reason string) (PaymentResult, error) {
	switch outcome {
	case "success":
		if paymentID == "" {
			return nil, fmt.Errorf("payment id is required for a successful payment")
		}
		return Success{PaymentID: paymentID}, nil
	case "failed":
		return Failure{Reason: reason}, nil
	case "dismissed":
		return Dismissed{}, nil
	}
	return nil, fmt.Errorf("unknown payment outcome %q", outcome)
}

// toMinorUnits converts a rupee amount to paise
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (c PaymentConfig) params(order PaymentOrder, ids []int64, fallbackAmount float64) CheckoutParams {
	key := order.Key
	if c.KeyOverride != "" {
		key = c.KeyOverride
	}
	currency := order.Currency
	if currency == "" {
		currency = c.Currency
	}
	amount := order.Amount
	if amount <= 0 {
		amount = fallbackAmount
	}
	return CheckoutParams{
		Key:      key,
		Amount:   toMinorUnits(amount),
		Currency: currency,
		Name:     c.MerchantName,
		Desc:     fmt.Sprintf("Payment for %d order(s)", len(ids)),
		OrderID:  order.RazorpayOrderID,
		OrderIDs: ids,
	}
}
