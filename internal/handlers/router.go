package handlers

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/jobtrack/internal/dtos"
	"github.com/justsurfingit/jobtrack/internal/logger"
)

// Routes bundles what the router needs.
type Routes struct {
	AllowOrigins []string
	Cron         *CronHandler
	Webhooks     *WebhookHandler
	Applications *ApplicationHandler
	Events       *EventHandler
	Documents    *DocumentHandler
	Users        *UserHandler
	Health       ApplicationCounter
}

func NewRouter(rt Routes) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dtos.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware())

	config := cors.DefaultConfig()
	if len(rt.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = rt.AllowOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", HeaderUserID}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)
		api.GET("/health/db", DatabaseHealth(rt.Health))

		// Machine callers authenticate with shared secrets
		api.GET("/cron/notifications", rt.Cron.TriggerNotifications)
		api.POST("/webhooks/resend", rt.Webhooks.HandleResend)

		api.POST("/users", rt.Users.Register)

		user := api.Group("", RequireUser())
		user.GET("/applications", rt.Applications.ListApplications)
		user.POST("/applications", rt.Applications.CreateApplication)
		user.GET("/applications/:id", rt.Applications.GetApplication)
		user.PATCH("/applications/:id", rt.Applications.UpdateApplication)
		user.DELETE("/applications/:id", rt.Applications.DeleteApplication)
		user.GET("/applications/:id/events", rt.Applications.ListEvents)
		user.POST("/applications/:id/events", rt.Applications.CreateEvent)
		user.PATCH("/events/:id", rt.Events.UpdateEvent)
		user.DELETE("/events/:id", rt.Events.DeleteEvent)
		user.GET("/applications/:id/documents", rt.Documents.ListDocuments)
		user.POST("/applications/:id/documents", rt.Documents.UploadDocument)
		user.DELETE("/documents/:id", rt.Documents.DeleteDocument)
	}
	return r, nil
}
