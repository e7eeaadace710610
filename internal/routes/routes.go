package routes

import (
	"net/http"

	"bootcamp_backend/internal/handlers"
	"bootcamp_backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": "ok"})
	})
	ginRouter.GET("/metrics", metrics.Handler())

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.BootcampHandler.RegisterRoutes(api)
		appHandlers.CourseHandler.RegisterRoutes(api)
		appHandlers.ReviewHandler.RegisterRoutes(api)
	}
}
