package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all API routes on the router. Health, readiness
// and metrics stay public; everything under /api/v1 sits behind JWT auth
// when a secret is configured.
func SetupRoutes(router *gin.Engine, handler *Handler, jwtSecret string, metricsHandler http.Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api/v1")
	v1.Use(JWTMiddleware(jwtSecret))
	{
		v1.POST("/analyze", handler.Analyze)
		v1.GET("/analyze/runs", handler.ListRuns)
		v1.GET("/analyze/runs/:run_id", handler.GetRun)

		v1.GET("/rules", handler.ListRules)
		v1.POST("/rules", handler.CreateRule)
		v1.PUT("/rules/:id", handler.UpdateRule)
		v1.DELETE("/rules/:id", handler.DeleteRule)

		v1.GET("/stats", handler.GetStats)
	}
}
