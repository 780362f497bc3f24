package http

import (
	"github.com/gin-gonic/gin"
	"github.com/kaspiwatch/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Key-gated API routes
	api := router.Group("/api", APIKeyMiddleware(cfg.Auth.APIKey))
	{
		api.GET("/check", handler.Check)
		api.GET("/debug", handler.Debug)
	}

	return router
}
