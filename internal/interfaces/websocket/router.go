package websocket

import (
	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// InitWebSocketRouter initializes WebSocket routes
func InitWebSocketRouter(logger logger.Logger, hubInstance *hub.Hub, sinkBuffer int, rg *gin.RouterGroup) {
	wsHandler := NewWebSocketHandler(hubInstance, logger, sinkBuffer)

	wsGroup := rg.Group("/ws")
	wsGroup.GET("", wsHandler.Connect)
}
