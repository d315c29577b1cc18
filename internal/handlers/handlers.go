package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/dtos"
	"github.com/justsurfingit/jobtrack/internal/models"
	"github.com/justsurfingit/jobtrack/internal/services"
)

// ReminderRunner runs one reminder invocation.
type ReminderRunner interface {
	Run(ctx context.Context) (services.DispatchReport, error)
}

// WebhookProcessor applies one signed provider callback.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error
}

type UserRegistrar interface {
	Register(ctx context.Context, req *dtos.RegisterRequest) (*models.User, error)
}

type DocumentStore interface {
	List(ctx context.Context, appID, userID uuid.UUID) ([]models.Document, error)
	Upload(ctx context.Context, appID, userID uuid.UUID, upload services.DocumentUpload) (*models.Document, error)
	Delete(ctx context.Context, docID, userID uuid.UUID) error
}

type ApplicationStore interface {
	List(ctx context.Context, userID uuid.UUID, q dtos.ApplicationListQuery) ([]models.Application, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*models.Application, error)
	Create(ctx context.Context, userID uuid.UUID, req *dtos.ApplicationCreateRequest) (*models.Application, error)
	Update(ctx context.Context, id, userID uuid.UUID, req *dtos.ApplicationUpdateRequest) (*models.Application, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type EventStore interface {
	ListByApplication(ctx context.Context, appID, userID uuid.UUID) ([]models.Event, error)
	Create(ctx context.Context, appID, userID uuid.UUID, req *dtos.EventCreateRequest) (*models.Event, error)
	Update(ctx context.Context, eventID, userID uuid.UUID, req *dtos.EventUpdateRequest) (*models.Event, error)
	Delete(ctx context.Context, eventID, userID uuid.UUID) error
}

// bindJSON binds the body and writes the 400 reply itself when that fails.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error"})
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
	}
	return false
}

// respondError maps service errors to HTTP replies.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, services.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if errors.Is(err, services.ErrStorageDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// idParam parses the ":id" path segment. An unparseable id cannot exist, so it is a 404.
func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return uuid.Nil, false
	}
	return id, true
}
