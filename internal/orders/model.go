// Package orders covers placing, editing and paying for customer orders,
// and the farmer's incoming order list.
package orders

import (
	"errors"
	"strings"
)

// Payment statuses
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

var (
	ErrInvalidProduct  = errors.New("Select a product")
	ErrInvalidQuantity = errors.New("Quantity must be at least 1")
	ErrAddressRequired = errors.New("Delivery address is required")
	ErrNothingToUpdate = errors.New("Nothing to update")
	ErrOrderPaid       = errors.New("Paid orders cannot be changed")
	ErrNoUnpaidOrders  = errors.New("No unpaid orders.")
)

// Order is an order as the backend reports it
type Order struct {
	ID                int64   `json:"id"`
	ProductID         int64   `json:"productId"`
	FarmerID          int64   `json:"farmerId,omitempty"`
	CustomerID        int64   `json:"customerId,omitempty"`
	Quantity          int     `json:"quantity"`
	Address           string  `json:"address"`
	TotalAmount       float64 `json:"totalAmount"`
	PaymentStatus     string  `json:"paymentStatus"`
	OrderStatus       string  `json:"orderStatus,omitempty"`
	ProductName       string  `json:"productName,omitempty"`
	ProductCategory   string  `json:"productCategory,omitempty"`
	RazorpayOrderID   string  `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string  `json:"razorpayPaymentId,omitempty"`
	CreatedAt         string  `json:"createdAt,omitempty"`
}

// Paid reports whether the order has been paid for
func (o Order) Paid() bool {
	return strings.EqualFold(o.PaymentStatus, PaymentPaid)
}

// PlaceInput is the body of a new order
type PlaceInput struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Address   string `json:"address"`
}

// Validate checks the order and trims the address
func (in *PlaceInput) Validate() error {
	in.Address = strings.TrimSpace(in.Address)
	switch {
	case in.ProductID <= 0:
		return ErrInvalidProduct
	case in.Quantity <= 0:
		return ErrInvalidQuantity
	case in.Address == "":
		return ErrAddressRequired
	}
	return nil
}

// UpdateInput is a partial edit; nil fields are left unchanged
type UpdateInput struct {
	Quantity *int    `json:"quantity,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// Validate checks the fields that are set
func (in *UpdateInput) Validate() error {
	if in.Quantity == nil && in.Address == nil {
		return ErrNothingToUpdate
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if in.Address != nil {
		addr := strings.TrimSpace(*in.Address)
		if addr == "" {
			return ErrAddressRequired
		}
		in.Address = &addr
	}
	return nil
}

// Unpaid returns the orders still awaiting payment
func Unpaid(orders []Order) []Order {
	var out []Order
	for _, o := range orders {
		if !o.Paid() {
			out = append(out, o)
		}
	}
	return out
}

// Total sums the order amounts
func Total(orders []Order) float64 {
	var sum float64
	for _, o := range orders {
		sum += o.TotalAmount
	}
	return sum
}

// IDs returns the order ids
func IDs(orders []Order) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
