package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/services"
)

// CronHandler serves the endpoint the external scheduler calls.
type CronHandler struct {
	Runner ReminderRunner
	Secret string
}

func NewCronHandler(runner ReminderRunner, secret string) *CronHandler {
	return &CronHandler{Runner: runner, Secret: secret}
}

// TriggerNotifications is the GET /cron/notifications endpoint
func (h *CronHandler) TriggerNotifications(c *gin.Context) {
	if !bearerMatches(c.GetHeader("Authorization"), h.Secret) {
		_ = c.Error(services.ErrUnauthorized)
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	report, err := h.Runner.Run(c.Request.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Reminder run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed": report.Processed})
}
