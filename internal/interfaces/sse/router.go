package sse

import (
	"github.com/gin-gonic/gin"

	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
)

func InitSSERouter(logger logger.Logger, hubInstance *hub.Hub, sinkBuffer int, rg *gin.RouterGroup) {
	sseHandler := NewServerSentEventHandler(hubInstance, logger, sinkBuffer)

	sseGroup := rg.Group("/api/sse")
	sseGroup.GET("", SSEHeadersMiddleware(), sseHandler.Connect)
	sseGroup.POST("", sseHandler.Control)
	sseGroup.PUT("", sseHandler.Inject)
}

// SSEHeadersMiddleware sets the response headers an event stream needs,
// including the hint that stops reverse proxies from buffering it.
func SSEHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Next()
	}
}
