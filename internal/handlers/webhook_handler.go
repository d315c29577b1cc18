package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack/internal/services"
)

// maxWebhookBody bounds what we read before verifying the signature.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	Deliveries WebhookProcessor
}

func NewWebhookHandler(p WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{Deliveries: p}
}

// HandleResend is the POST /webhooks/resend endpoint. Verified payloads always get an
// empty 200, whatever they contain, so the provider does not retry them.
//
// A failed flag update is logged and answered with 500 rather than absorbed: the
// provider then redelivers the same confirmation, and since confirming is idempotent
// the redelivery is the retry. Answering 200 would lose the confirmation and the
// reminder would be sent again on the next run.
func (h *WebhookHandler) HandleResend(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err = h.Deliveries.HandleWebhook(c.Request.Context(), payload, c.Request.Header)
	var payloadErr *services.PayloadError
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.As(err, &payloadErr):
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": payloadErr.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
