package tasks

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

// Handler serves task views
type Handler struct {
	service  *Service
	notifier Notifier
}

// NewHandler creates a task handler
func NewHandler(service *Service, notifier Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

type statusForm struct {
	Status string `json:"status" binding:"required"`
}

// List renders the task page
// GET /tasks
func (h *Handler) List(c *gin.Context) {
	tasks, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "tasks", gin.H{
		"tasks":    tasks,
		"statuses": []string{StatusPending, StatusInProgress, StatusCompleted},
	})
}

// AddView renders the empty task form
// GET /add-task
func (h *Handler) AddView(c *gin.Context) {
	response.View(c, "add-task", nil)
}

// Create adds a task and returns to the list
// POST /add-task
func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if _, err := h.service.Create(c.Request.Context(), in); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Task added")
	c.Redirect(http.StatusFound, "/tasks")
}

// EditView renders a task form
// GET /edit-task/:id
func (h *Handler) EditView(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	task, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.View(c, "edit-task", gin.H{"task": task})
}

// Update saves a task and returns to the list
// PUT /edit-task/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, in); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Task updated")
	c.Redirect(http.StatusFound, "/tasks")
}

// UpdateStatus changes a task's status from the list
// PUT /tasks/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var form statusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	task, err := h.service.UpdateStatus(c.Request.Context(), id, form.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// Delete removes a task
// DELETE /tasks/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.notifier.Notify(notify.LevelSuccess, "Task deleted")
	c.Status(http.StatusNoContent)
}
