package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack/internal/dtos"
)

type ApplicationHandler struct {
	Applications ApplicationStore
	Events       EventStore
}

func NewApplicationHandler(apps ApplicationStore, events EventStore) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps, Events: events}
}

// ListApplications is the GET /applications endpoint
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var q dtos.ApplicationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error"})
		return
	}
	apps, err := h.Applications.List(c.Request.Context(), currentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// CreateApplication is the POST /applications endpoint
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req dtos.ApplicationCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.Applications.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	app, err := h.Applications.Get(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.ApplicationUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error"})
		return
	}
	app, err := h.Applications.Update(c.Request.Context(), id, currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Applications.Delete(c.Request.Context(), id, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEvents is the GET /applications/:id/events endpoint
func (h *ApplicationHandler) ListEvents(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	events, err := h.Events.ListByApplication(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// CreateEvent is the POST /applications/:id/events endpoint
func (h *ApplicationHandler) CreateEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.EventCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ScheduledAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error"})
		return
	}
	event, err := h.Events.Create(c.Request.Context(), id, currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}
