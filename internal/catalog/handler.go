package catalog

import (
	"net/http"

	"github.com/ekrishihub/storefront/internal/notify"
	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// Notifier shows a toast to the user
type Notifier interface {
	Notify(level notify.Level, message string)
}

// Handler serves product views
type Handler struct {
	service  *Service
	notifier Notifier
}

// NewHandler creates a catalog handler
func NewHandler(service *Service, notifier Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

// Browse lists products for customers, filtered by query parameters
// GET /products
func (h *Handler) Browse(c *gin.Context) {
	var f Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	products, err := h.service.Search(c.Request.Context(), f)
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "products", gin.H{"products": products, "filter": f})
}

// Manage lists the farmer's products
// GET /product
func (h *Handler) Manage(c *gin.Context) {
	products, err := h.service.Mine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "farmer-products", gin.H{"products": products})
}

// AddView renders the empty product form
// GET /add-product
func (h *Handler) AddView(c *gin.Context) {
	response.View(c, "add-product", gin.H{
		"categories": []string{CategoryFruit, CategoryVegetable, CategoryGrain, CategoryOther},
	})
}

// Create adds a product
// POST /add-product
func (h *Handler) Create(c *gin.Context) {
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if _, err := h.service.Create(c.Request.Context(), in); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Product added successfully")
	c.Redirect(http.StatusFound, "/product")
}

// EditView renders a product form
// GET /edit-product/:id
func (h *Handler) EditView(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "edit-product", gin.H{"product": product})
}

// Update saves a product
// PUT /edit-product/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Product updated")
	response.Success(c, http.StatusOK, product)
}

// Delete removes a product
// DELETE /product/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Product deleted")
	c.Status(http.StatusNoContent)
}
