package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter registers the endpoints on a fresh gin engine. mcpHandler may be
// nil, in which case /mcp is not served.
func NewRouter(h *Handler, health gin.HandlerFunc, mcpHandler http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	router.GET("/", Landing)
	router.POST("/ingest", h.Ingest)
	router.GET("/chat", h.Chat)
	router.GET("/health", health)

	if mcpHandler != nil {
		router.Any("/mcp", gin.WrapH(mcpHandler))
	}
	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
