package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ApplicationCounter interface {
	Count(ctx context.Context) (int64, error)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DatabaseHealth reports whether the applications table can be read.
func DatabaseHealth(counter ApplicationCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := counter.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ok":       false,
				"database": "disconnected",
				"error":    err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":                true,
			"database":          "connected",
			"applicationsCount": n,
		})
	}
}
