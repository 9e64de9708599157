package orders

import (
	"net/http"
	"sort"

	"github.com/ekrishihub/storefront/internal/notify"
	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// Notifier shows a toast to the user
type Notifier interface {
	Notify(level notify.Level, message string)
}

// Handler serves order and payment views
type Handler struct {
	service  *Service
	notifier Notifier
}

// NewHandler creates an order handler
func NewHandler(service *Service, notifier Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

type placeForm struct {
	Quantity int    `json:"quantity" binding:"required"`
	Address  string `json:"address" binding:"required"`
}

type settleForm struct {
	OrderIDs  []int64 `json:"orderIds" binding:"required"`
	Outcome   string  `json:"outcome" binding:"required,oneof=success failed dismissed"`
	PaymentID string  `json:"paymentId"`
	Reason    string  `json:"reason"`
}

// PlaceView renders the order form for a product
// GET /place-order/:productId
func (h *Handler) PlaceView(c *gin.Context) {
	id, ok := response.ParamID(c, "productId")
	if !ok {
		return
	}
	response.View(c, "place-order", gin.H{"productId": id})
}

// Place creates an order
// POST /place-order/:productId
func (h *Handler) Place(c *gin.Context) {
	id, ok := response.ParamID(c, "productId")
	if !ok {
		return
	}
	var form placeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	in := PlaceInput{ProductID: id, Quantity: form.Quantity, Address: form.Address}
	if _, err := h.service.Place(c.Request.Context(), in); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Order placed successfully")
	c.Redirect(http.StatusFound, "/my-orders")
}

// Mine renders the customer's orders with the unpaid total
// GET /my-orders
func (h *Handler) Mine(c *gin.Context) {
	orders, err := h.service.Mine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	unpaid := Unpaid(orders)
	response.View(c, "my-orders", gin.H{
		"orders":     orders,
		"unpaid":     IDs(unpaid),
		"grandTotal": Total(unpaid),
	})
}

// History renders the customer's orders newest first
// GET /order-history
func (h *Handler) History(c *gin.Context) {
	orders, err := h.service.Mine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
	response.View(c, "order-history", gin.H{"orders": orders})
}

// Update edits an unpaid order
// PATCH /my-orders/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	order, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Order updated")
	response.Success(c, http.StatusOK, order)
}

// Delete removes an unpaid order
// DELETE /my-orders/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Order deleted")
	c.Status(http.StatusNoContent)
}

// StartPayment creates a bundle payment for every unpaid order and returns
// the checkout parameters for the browser widget
// POST /my-orders/pay
func (h *Handler) StartPayment(c *gin.Context) {
	ctx := c.Request.Context()
	orders, err := h.service.Mine(ctx)
	if err != nil {
		c.Error(err)
		return
	}

	params, err := h.service.StartPayment(ctx, orders)
	if err != nil {
		if len(Unpaid(orders)) == 0 {
			h.notifier.Notify(notify.LevelInfo, ErrNoUnpaidOrders.Error())
		}
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, params)
}

// Settle records the widget's outcome
// POST /my-orders/pay/settle
func (h *Handler) Settle(c *gin.Context) {
	var form settleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	result, err := ParseResult(form.Outcome, form.PaymentID, form.Reason)
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.service.Settle(c.Request.Context(), form.OrderIDs, result); err != nil {
		c.Error(err)
		return
	}

	switch result.(type) {
	case Success:
		h.notifier.Notify(notify.LevelSuccess, "Payment successful!")
	case Failure:
		h.notifier.Notify(notify.LevelError, "Payment failed.")
	}
	c.Redirect(http.StatusFound, "/my-orders")
}

// FarmerOrders renders orders for the farmer's products
// GET /farmer-orders
func (h *Handler) FarmerOrders(c *gin.Context) {
	orders, err := h.service.FarmerOrders(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "farmer-orders", gin.H{"orders": orders})
}
