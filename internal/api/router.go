package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(handler *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "programme-finance",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/events", handler.CreateEvent)
		api.GET("/events", handler.ListEvents)
		api.GET("/events/:id", handler.GetEvent)
		api.PUT("/events/:id/budget", handler.UpdateBudget)
		api.POST("/events/:id/claim", handler.SubmitClaim)
		api.POST("/events/:id/claim/items/:lineID/approve", handler.ApproveItem)
		api.POST("/events/:id/claim/items/:lineID/reject", handler.RejectItem)
		api.POST("/events/:id/claim/purge-rejected", handler.PurgeRejected)
		api.GET("/events/:id/documents", handler.ListDocuments)
		api.GET("/events/:id/documents/:kind", handler.GenerateDocument)
		api.GET("/events/:id/exports/budget-annex.xlsx", handler.ExportBudgetAnnex)
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
