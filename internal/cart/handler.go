package cart

import (
	"net/http"

	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler serves the cart
type Handler struct {
	service *Service
}

// NewHandler creates a cart handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addForm struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

type quantityForm struct {
	Quantity int `json:"quantity" binding:"required"`
}

// View renders the cart
// GET /cart
func (h *Handler) View(c *gin.Context) {
	cart, err := h.service.Get(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "cart", cart)
}

// Add puts a product in the cart
// POST /cart/items
func (h *Handler) Add(c *gin.Context) {
	var form addForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	item, err := h.service.Add(c.Request.Context(), form.ProductID, form.Quantity)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// SetQuantity changes a line's quantity
// PUT /cart/items/:id
func (h *Handler) SetQuantity(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var form quantityForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	item, err := h.service.SetQuantity(c.Request.Context(), id, form.Quantity)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Remove drops a line
// DELETE /cart/items/:id
func (h *Handler) Remove(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear empties the cart
// DELETE /cart
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
