package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
)

// WebSocketHandler serves the same event feed as the SSE endpoint over a
// WebSocket, for clients that prefer it.
type WebSocketHandler struct {
	hub        *hub.Hub
	logger     logger.Logger
	upgrader   websocket.Upgrader
	sinkBuffer int
}

func NewWebSocketHandler(hubInstance *hub.Hub, logger logger.Logger, sinkBuffer int) *WebSocketHandler {
	return &WebSocketHandler{
		hub:        hubInstance,
		logger:     logger.WithField("handler", "websocket"),
		sinkBuffer: sinkBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is enforced by the CORS middleware.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Connect upgrades the request and registers the socket until either side
// closes it.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	if !h.hub.IsRunning() {
		h.logger.Error("Hub is not running")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": hub.ErrHubNotRunning.Error(),
		})
		return
	}

	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "userId is required",
		})
		return
	}
	conversationID := strings.TrimSpace(c.Query("conversationId"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("Failed to upgrade connection: %v", err)
		return
	}

	sink := hub.NewWebSocketSink(conn, h.sinkBuffer, h.logger)
	id := h.hub.Register(userID, sink, conversationID)
	h.logger.Infof("WebSocket connection %s registered for user %s", id, userID)

	<-sink.Done()
	h.hub.Unregister(id)
	h.logger.Infof("WebSocket connection %s disconnected", id)
}
