package profile

import (
	"net/http"

	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/notify"
	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// Notifier shows a toast to the user
type Notifier interface {
	Notify(level notify.Level, message string)
}

// RoleSource reports the signed-in role
type RoleSource interface {
	Role() credential.Role
}

// Handler serves the profile view
type Handler struct {
	service  *Service
	live     RoleSource
	notifier Notifier
}

// NewHandler creates a profile handler
func NewHandler(service *Service, live RoleSource, notifier Notifier) *Handler {
	return &Handler{service: service, live: live, notifier: notifier}
}

// View renders the role-specific profile
// GET /profile
func (h *Handler) View(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		data interface{}
		err  error
	)
	switch h.live.Role() {
	case credential.RoleFarmer:
		data, err = h.service.Farmer(ctx)
	case credential.RoleCustomer:
		data, err = h.service.Customer(ctx)
	default:
		data, err = h.service.Me(ctx)
	}
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "profile", data)
}

// Update edits the account
// PUT /profile
func (h *Handler) Update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	user, err := h.service.Update(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Profile updated successfully")
	response.Success(c, http.StatusOK, user)
}
